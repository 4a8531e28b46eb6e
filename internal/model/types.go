package model

import "time"

// -----------------------------------------------------------------------------
// Portfolio
// -----------------------------------------------------------------------------

// Holding is a single token balance inside the portfolio.
type Holding struct {
	Mint   string  `json:"mint"`   // Token mint address
	Symbol string  `json:"symbol"` // Display symbol (e.g. "SOL")
	Amount float64 `json:"amount"` // Token amount
	Value  float64 `json:"value"`  // USD value
}

// Portfolio is the aggregate wallet state.
type Portfolio struct {
	TotalValue float64   `json:"total_value"` // USD total
	SolBalance float64   `json:"sol_balance"`
	Holdings   []Holding `json:"holdings"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// Trading bots
// -----------------------------------------------------------------------------

// Bot is one configured trading bot as reported by the server.
type Bot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Strategy string  `json:"strategy"` // "grid", "dca", "momentum", ...
	Status   string  `json:"status"`   // "running", "paused", "stopped"
	Pair     string  `json:"pair"`
	PnL      float64 `json:"pnl"`
	Trades   int     `json:"trades"`
}

// -----------------------------------------------------------------------------
// Copy trading
// -----------------------------------------------------------------------------

// CopyTarget is a tracked wallet whose trades are mirrored.
type CopyTarget struct {
	Wallet    string  `json:"wallet"`
	Alias     string  `json:"alias"`
	Enabled   bool    `json:"enabled"`
	MaxAmount float64 `json:"max_amount"` // Per-trade cap in SOL
	WinRate   float64 `json:"win_rate"`
}

// TokenAmount is one leg of a detected swap.
type TokenAmount struct {
	Mint   string  `json:"mint"`
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
}

// Signal is one detected trade from a copy target.
type Signal struct {
	ID         string      `json:"id"`
	Wallet     string      `json:"wallet"`
	Alias      string      `json:"alias"`
	Sent       TokenAmount `json:"sent"`
	Received   TokenAmount `json:"received"`
	DetectedAt time.Time   `json:"detected_at"`
}

// -----------------------------------------------------------------------------
// Arbitrage
// -----------------------------------------------------------------------------

// VenueQuote is one venue's price for a pair, part of the venue matrix.
type VenueQuote struct {
	Venue string  `json:"venue"`
	Pair  string  `json:"pair"`
	Price float64 `json:"price"`
}

// ArbOpportunity is a detected cross-venue price discrepancy.
type ArbOpportunity struct {
	ID         string    `json:"id"`
	Pair       string    `json:"pair"`
	BuyVenue   string    `json:"buy_venue"`
	SellVenue  string    `json:"sell_venue"`
	SpreadPct  float64   `json:"spread_pct"`
	EstProfit  float64   `json:"est_profit"`
	DetectedAt time.Time `json:"detected_at"`
}

// -----------------------------------------------------------------------------
// Sniper
// -----------------------------------------------------------------------------

// TrackedToken is a newly detected token candidate.
type TrackedToken struct {
	Mint       string    `json:"mint"`
	Symbol     string    `json:"symbol"`
	Liquidity  float64   `json:"liquidity"`
	Score      float64   `json:"score"` // Safety score 0-100
	DetectedAt time.Time `json:"detected_at"`
}

// SniperPosition is an open or closed snipe position.
type SniperPosition struct {
	ID         string  `json:"id"`
	Mint       string  `json:"mint"`
	Symbol     string  `json:"symbol"`
	EntryPrice float64 `json:"entry_price"`
	Amount     float64 `json:"amount"`
	PnLPct     float64 `json:"pnl_pct"`
	Status     string  `json:"status"` // "open", "selling", "closed"
}

// -----------------------------------------------------------------------------
// Intel
// -----------------------------------------------------------------------------

// NewsItem is one market-intel headline.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Sentiment   string    `json:"sentiment"` // "bullish", "bearish", "neutral"
	PublishedAt time.Time `json:"published_at"`
}

// WhaleTrade is a large observed on-chain trade.
type WhaleTrade struct {
	ID       string      `json:"id"`
	Wallet   string      `json:"wallet"`
	Alias    string      `json:"alias"`
	Side     string      `json:"side"` // "buy" or "sell"
	Token    TokenAmount `json:"token"`
	ValueUSD float64     `json:"value_usd"`
	SeenAt   time.Time   `json:"seen_at"`
}

// -----------------------------------------------------------------------------
// Yield / liquidity / staking
// -----------------------------------------------------------------------------

// FarmOpportunity is one yield-farming venue.
type FarmOpportunity struct {
	ID       string  `json:"id"`
	Protocol string  `json:"protocol"`
	Pair     string  `json:"pair"`
	APY      float64 `json:"apy"`
	TVL      float64 `json:"tvl"`
	Risk     string  `json:"risk"` // "low", "medium", "high"
}

// Pool is one liquidity pool available for LP positions.
type Pool struct {
	Address  string  `json:"address"`
	Pair     string  `json:"pair"`
	Protocol string  `json:"protocol"`
	FeeTier  float64 `json:"fee_tier"`
	TVL      float64 `json:"tvl"`
	APR      float64 `json:"apr"`
}

// LiquidityPosition is an open LP position.
type LiquidityPosition struct {
	ID         string  `json:"id"`
	Pool       string  `json:"pool"`
	Pair       string  `json:"pair"`
	ValueUSD   float64 `json:"value_usd"`
	FeesEarned float64 `json:"fees_earned"`
	InRange    bool    `json:"in_range"`
	Status     string  `json:"status"` // "active", "closing", "closed"
}

// RebalanceSuggestion is a server-computed range adjustment for a position.
type RebalanceSuggestion struct {
	ID         string    `json:"id"`
	PositionID string    `json:"position_id"`
	Reason     string    `json:"reason"`
	NewLower   float64   `json:"new_lower"`
	NewUpper   float64   `json:"new_upper"`
	CreatedAt  time.Time `json:"created_at"`
}

// StakingStats is the aggregate staking view.
type StakingStats struct {
	TotalStaked  float64   `json:"total_staked"`
	TotalRewards float64   `json:"total_rewards"`
	AvgAPY       float64   `json:"avg_apy"`
	Validators   int       `json:"validators"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StakingEvent is one staking activity record (delegate, reward, unstake).
type StakingEvent struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // "delegate", "reward", "unstake"
	Validator string    `json:"validator"`
	Amount    float64   `json:"amount"`
	At        time.Time `json:"at"`
}

// -----------------------------------------------------------------------------
// History
// -----------------------------------------------------------------------------

// TradeRecord is one completed trade in the account history.
type TradeRecord struct {
	ID       string    `json:"id"`
	Pair     string    `json:"pair"`
	Side     string    `json:"side"`
	Amount   float64   `json:"amount"`
	Price    float64   `json:"price"`
	ValueUSD float64   `json:"value_usd"`
	At       time.Time `json:"at"`
}

// -----------------------------------------------------------------------------
// Notifications
// -----------------------------------------------------------------------------

// Notification levels.
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
)

// Notification is a transient user-facing message derived from an inbound
// event. It is a second, independent output of a handler, never a
// replacement for the primary state mutation.
type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
