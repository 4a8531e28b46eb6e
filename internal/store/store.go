package store

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/soldesk/streamsync/internal/model"
)

// Domain names. These double as channel names on the sync layer and as
// slice keys on the read API.
const (
	DomainPortfolio     = "portfolio"
	DomainPrices        = "prices"
	DomainHistory       = "history"
	DomainBots          = "bots"
	DomainCopyTrade     = "copytrade"
	DomainArb           = "arb"
	DomainSniper        = "sniper"
	DomainIntel         = "intel"
	DomainYield         = "yield"
	DomainLiquidity     = "liquidity"
	DomainStaking       = "staking"
	DomainNotifications = "notifications"
)

// Caps for list-shaped slices fed by incremental-append events. Oldest
// entries are dropped beyond the cap so a long-lived session cannot grow
// without bound.
const (
	MaxSignals       = 100
	MaxOpportunities = 50
	MaxTrackedTokens = 100
	MaxWhaleTrades   = 50
	MaxNews          = 100
	MaxSuggestions   = 50
	MaxStakingEvents = 100
	MaxNotifications = 50
)

// Change describes one applied mutation. Item carries the appended entry
// for append-with-cap actions and is nil for replace actions.
type Change struct {
	Domain string
	Action string
	Item   any
}

// Store is the single source of truth for all synchronized domains.
// Mutation happens only through the named action methods below; readers get
// copies. A single mutex serializes actions, so events delivered
// concurrently from many channels apply one at a time.
type Store struct {
	mu  sync.RWMutex
	seq atomic.Int64

	portfolio     model.Portfolio
	prices        map[string]float64
	history       []model.TradeRecord
	bots          []model.Bot
	targets       []model.CopyTarget
	signals       []model.Signal
	opportunities []model.ArbOpportunity
	venues        []model.VenueQuote
	tokens        []model.TrackedToken
	positions     []model.SniperPosition
	news          []model.NewsItem
	whales        []model.WhaleTrade
	farms         []model.FarmOpportunity
	pools         []model.Pool
	lpPositions   []model.LiquidityPosition
	suggestions   []model.RebalanceSuggestion
	staking       model.StakingStats
	stakingEvents []model.StakingEvent
	notifications []model.Notification

	subMu sync.Mutex
	subs  []chan Change
}

// New creates an empty store.
func New() *Store {
	return &Store{
		prices: make(map[string]float64),
	}
}

// MutationCount returns the number of actions applied since creation.
func (s *Store) MutationCount() int64 {
	return s.seq.Load()
}

// Subscribe returns a channel receiving a Change per applied action.
// Delivery is lossy: a slow subscriber misses changes rather than blocking
// the dispatch path. Intended as a re-render trigger, not a durable feed.
func (s *Store) Subscribe() <-chan Change {
	ch := make(chan Change, 256)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) publish(c Change) {
	s.seq.Add(1)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// prependCapped inserts item at the front and drops the oldest entries
// beyond cap. Arrival order is preserved, newest first.
func prependCapped[T any](list []T, item T, cap int) []T {
	out := make([]T, 0, min(len(list)+1, cap))
	out = append(out, item)
	for _, v := range list {
		if len(out) >= cap {
			break
		}
		out = append(out, v)
	}
	return out
}

// -----------------------------------------------------------------------------
// Portfolio / prices / history
// -----------------------------------------------------------------------------

// SetPortfolio replaces the portfolio slice.
func (s *Store) SetPortfolio(p model.Portfolio) {
	s.mu.Lock()
	s.portfolio = p
	s.mu.Unlock()
	s.publish(Change{Domain: DomainPortfolio, Action: "portfolio/set"})
}

// Portfolio returns the current portfolio.
func (s *Store) Portfolio() model.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.portfolio
	p.Holdings = append([]model.Holding(nil), s.portfolio.Holdings...)
	return p
}

// SetPrice applies one price update, last write wins. No history is kept.
func (s *Store) SetPrice(mint string, price float64) {
	s.mu.Lock()
	s.prices[mint] = price
	s.mu.Unlock()
	s.publish(Change{Domain: DomainPrices, Action: "prices/update"})
}

// SetPrices merges a full price snapshot into the map.
func (s *Store) SetPrices(prices map[string]float64) {
	s.mu.Lock()
	for mint, p := range prices {
		s.prices[mint] = p
	}
	s.mu.Unlock()
	s.publish(Change{Domain: DomainPrices, Action: "prices/snapshot"})
}

// Price returns the last seen price for a mint.
func (s *Store) Price(mint string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[mint]
	return p, ok
}

// Prices returns a copy of the full price map.
func (s *Store) Prices() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.prices))
	for k, v := range s.prices {
		out[k] = v
	}
	return out
}

// ReplaceHistory replaces the trade history slice.
func (s *Store) ReplaceHistory(trades []model.TradeRecord) {
	s.mu.Lock()
	s.history = append([]model.TradeRecord(nil), trades...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainHistory, Action: "history/replace"})
}

// History returns a copy of the trade history.
func (s *Store) History() []model.TradeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TradeRecord(nil), s.history...)
}

// -----------------------------------------------------------------------------
// Bots
// -----------------------------------------------------------------------------

// ReplaceBots replaces the bot list. Per-strategy PnL is derived by
// consumers at read time, never cached here.
func (s *Store) ReplaceBots(bots []model.Bot) {
	s.mu.Lock()
	s.bots = append([]model.Bot(nil), bots...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainBots, Action: "bots/replace"})
}

// Bots returns a copy of the bot list.
func (s *Store) Bots() []model.Bot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Bot(nil), s.bots...)
}

// -----------------------------------------------------------------------------
// Copy trading
// -----------------------------------------------------------------------------

// ReplaceTargets replaces the copy-trade target list.
func (s *Store) ReplaceTargets(targets []model.CopyTarget) {
	s.mu.Lock()
	s.targets = append([]model.CopyTarget(nil), targets...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainCopyTrade, Action: "copytrade/targets"})
}

// Targets returns a copy of the copy-trade target list.
func (s *Store) Targets() []model.CopyTarget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.CopyTarget(nil), s.targets...)
}

// AppendSignal prepends a detected signal, capped at MaxSignals.
func (s *Store) AppendSignal(sig model.Signal) {
	s.mu.Lock()
	s.signals = prependCapped(s.signals, sig, MaxSignals)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainCopyTrade, Action: "copytrade/signal", Item: sig})
}

// Signals returns a copy of the signal list, newest first.
func (s *Store) Signals() []model.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Signal(nil), s.signals...)
}

// -----------------------------------------------------------------------------
// Arbitrage
// -----------------------------------------------------------------------------

// ReplaceOpportunities replaces the arb opportunity list.
func (s *Store) ReplaceOpportunities(opps []model.ArbOpportunity) {
	s.mu.Lock()
	s.opportunities = append([]model.ArbOpportunity(nil), opps...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainArb, Action: "arb/replace"})
}

// AppendOpportunity prepends a detected opportunity, capped.
func (s *Store) AppendOpportunity(opp model.ArbOpportunity) {
	s.mu.Lock()
	s.opportunities = prependCapped(s.opportunities, opp, MaxOpportunities)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainArb, Action: "arb/opportunity", Item: opp})
}

// Opportunities returns a copy of the arb opportunity list.
func (s *Store) Opportunities() []model.ArbOpportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ArbOpportunity(nil), s.opportunities...)
}

// ReplaceVenues replaces the venue price matrix.
func (s *Store) ReplaceVenues(venues []model.VenueQuote) {
	s.mu.Lock()
	s.venues = append([]model.VenueQuote(nil), venues...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainArb, Action: "arb/venues"})
}

// Venues returns a copy of the venue price matrix.
func (s *Store) Venues() []model.VenueQuote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.VenueQuote(nil), s.venues...)
}

// -----------------------------------------------------------------------------
// Sniper
// -----------------------------------------------------------------------------

// ReplaceTokens replaces the tracked token list.
func (s *Store) ReplaceTokens(tokens []model.TrackedToken) {
	s.mu.Lock()
	s.tokens = append([]model.TrackedToken(nil), tokens...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainSniper, Action: "sniper/tokens"})
}

// AppendToken prepends a newly detected token, capped.
func (s *Store) AppendToken(tok model.TrackedToken) {
	s.mu.Lock()
	s.tokens = prependCapped(s.tokens, tok, MaxTrackedTokens)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainSniper, Action: "sniper/token", Item: tok})
}

// Tokens returns a copy of the tracked token list.
func (s *Store) Tokens() []model.TrackedToken {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TrackedToken(nil), s.tokens...)
}

// ReplaceSniperPositions replaces the sniper position list.
func (s *Store) ReplaceSniperPositions(positions []model.SniperPosition) {
	s.mu.Lock()
	s.positions = append([]model.SniperPosition(nil), positions...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainSniper, Action: "sniper/positions"})
}

// UpsertSniperPosition merges one position update by ID, appending if new.
func (s *Store) UpsertSniperPosition(pos model.SniperPosition) {
	s.mu.Lock()
	found := false
	for i := range s.positions {
		if s.positions[i].ID == pos.ID {
			s.positions[i] = pos
			found = true
			break
		}
	}
	if !found {
		s.positions = append(s.positions, pos)
	}
	s.mu.Unlock()
	s.publish(Change{Domain: DomainSniper, Action: "sniper/position", Item: pos})
}

// SniperPositions returns a copy of the sniper position list.
func (s *Store) SniperPositions() []model.SniperPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.SniperPosition(nil), s.positions...)
}

// -----------------------------------------------------------------------------
// Intel
// -----------------------------------------------------------------------------

// ReplaceNews replaces the news list.
func (s *Store) ReplaceNews(items []model.NewsItem) {
	s.mu.Lock()
	s.news = append([]model.NewsItem(nil), items...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainIntel, Action: "intel/news"})
}

// AppendNews prepends one headline, capped.
func (s *Store) AppendNews(item model.NewsItem) {
	s.mu.Lock()
	s.news = prependCapped(s.news, item, MaxNews)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainIntel, Action: "intel/news_item", Item: item})
}

// News returns a copy of the news list.
func (s *Store) News() []model.NewsItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.NewsItem(nil), s.news...)
}

// AppendWhaleTrade prepends an observed whale trade, capped.
func (s *Store) AppendWhaleTrade(w model.WhaleTrade) {
	s.mu.Lock()
	s.whales = prependCapped(s.whales, w, MaxWhaleTrades)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainIntel, Action: "intel/whale", Item: w})
}

// WhaleTrades returns a copy of the whale trade list.
func (s *Store) WhaleTrades() []model.WhaleTrade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.WhaleTrade(nil), s.whales...)
}

// -----------------------------------------------------------------------------
// Yield / liquidity
// -----------------------------------------------------------------------------

// ReplaceFarms replaces the farm opportunity list.
func (s *Store) ReplaceFarms(farms []model.FarmOpportunity) {
	s.mu.Lock()
	s.farms = append([]model.FarmOpportunity(nil), farms...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainYield, Action: "yield/farms"})
}

// Farms returns a copy of the farm opportunity list.
func (s *Store) Farms() []model.FarmOpportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.FarmOpportunity(nil), s.farms...)
}

// ReplacePools replaces the pool list.
func (s *Store) ReplacePools(pools []model.Pool) {
	s.mu.Lock()
	s.pools = append([]model.Pool(nil), pools...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainLiquidity, Action: "liquidity/pools"})
}

// Pools returns a copy of the pool list.
func (s *Store) Pools() []model.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Pool(nil), s.pools...)
}

// ReplaceLPPositions replaces the LP position list.
func (s *Store) ReplaceLPPositions(positions []model.LiquidityPosition) {
	s.mu.Lock()
	s.lpPositions = append([]model.LiquidityPosition(nil), positions...)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainLiquidity, Action: "liquidity/positions"})
}

// SetLPPositionStatus updates one LP position's status by ID. Unknown IDs
// are ignored until the next positions snapshot arrives.
func (s *Store) SetLPPositionStatus(id, status string) {
	s.mu.Lock()
	for i := range s.lpPositions {
		if s.lpPositions[i].ID == id {
			s.lpPositions[i].Status = status
			break
		}
	}
	s.mu.Unlock()
	s.publish(Change{Domain: DomainLiquidity, Action: "liquidity/position_status"})
}

// LPPositions returns a copy of the LP position list.
func (s *Store) LPPositions() []model.LiquidityPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.LiquidityPosition(nil), s.lpPositions...)
}

// AppendSuggestion prepends a rebalance suggestion, capped.
func (s *Store) AppendSuggestion(sug model.RebalanceSuggestion) {
	s.mu.Lock()
	s.suggestions = prependCapped(s.suggestions, sug, MaxSuggestions)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainLiquidity, Action: "liquidity/suggestion", Item: sug})
}

// Suggestions returns a copy of the rebalance suggestion list.
func (s *Store) Suggestions() []model.RebalanceSuggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.RebalanceSuggestion(nil), s.suggestions...)
}

// -----------------------------------------------------------------------------
// Staking
// -----------------------------------------------------------------------------

// SetStakingStats replaces the staking stats slice.
func (s *Store) SetStakingStats(stats model.StakingStats) {
	s.mu.Lock()
	s.staking = stats
	s.mu.Unlock()
	s.publish(Change{Domain: DomainStaking, Action: "staking/stats"})
}

// StakingStats returns the current staking stats.
func (s *Store) StakingStats() model.StakingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staking
}

// AppendStakingEvent prepends one staking activity record, capped.
func (s *Store) AppendStakingEvent(ev model.StakingEvent) {
	s.mu.Lock()
	s.stakingEvents = prependCapped(s.stakingEvents, ev, MaxStakingEvents)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainStaking, Action: "staking/event", Item: ev})
}

// StakingEvents returns a copy of the staking event list.
func (s *Store) StakingEvents() []model.StakingEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.StakingEvent(nil), s.stakingEvents...)
}

// -----------------------------------------------------------------------------
// Notifications
// -----------------------------------------------------------------------------

// PushNotification records a transient user-facing message and returns it.
func (s *Store) PushNotification(level, message string) model.Notification {
	n := model.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.notifications = prependCapped(s.notifications, n, MaxNotifications)
	s.mu.Unlock()
	s.publish(Change{Domain: DomainNotifications, Action: "notify/push", Item: n})
	return n
}

// Notifications returns a copy of the notification list, newest first.
func (s *Store) Notifications() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Notification(nil), s.notifications...)
}

// Snapshot returns a read-only copy of one domain's slice by name.
func (s *Store) Snapshot(domain string) (any, bool) {
	switch domain {
	case DomainPortfolio:
		return s.Portfolio(), true
	case DomainPrices:
		return s.Prices(), true
	case DomainHistory:
		return s.History(), true
	case DomainBots:
		return s.Bots(), true
	case DomainCopyTrade:
		return map[string]any{"targets": s.Targets(), "signals": s.Signals()}, true
	case DomainArb:
		return map[string]any{"opportunities": s.Opportunities(), "venues": s.Venues()}, true
	case DomainSniper:
		return map[string]any{"tokens": s.Tokens(), "positions": s.SniperPositions()}, true
	case DomainIntel:
		return map[string]any{"news": s.News(), "whales": s.WhaleTrades()}, true
	case DomainYield:
		return s.Farms(), true
	case DomainLiquidity:
		return map[string]any{
			"pools":       s.Pools(),
			"positions":   s.LPPositions(),
			"suggestions": s.Suggestions(),
		}, true
	case DomainStaking:
		return map[string]any{"stats": s.StakingStats(), "events": s.StakingEvents()}, true
	case DomainNotifications:
		return s.Notifications(), true
	}
	return nil, false
}
