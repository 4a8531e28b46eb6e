package handler

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/store"
)

// Recurring timer cadences started from connect listeners. Push events are
// the primary feed; the re-polls are a background refresh on top.
const (
	pollInterval = 30 * time.Second
	pingInterval = 5 * time.Second
)

// All returns every domain handler keyed by its channel name.
func All() map[string]channel.Handler {
	return map[string]channel.Handler{
		store.DomainPortfolio: Portfolio,
		store.DomainPrices:    Prices,
		store.DomainHistory:   History,
		store.DomainBots:      Bots,
		store.DomainCopyTrade: CopyTrade,
		store.DomainArb:       Arb,
		store.DomainSniper:    Sniper,
		store.DomainIntel:     Intel,
		store.DomainYield:     Yield,
		store.DomainLiquidity: Liquidity,
		store.DomainStaking:   Staking,
	}
}

// decode unmarshals a payload, skipping messages that are not even JSON.
// Missing fields decode to zero values and are defaulted downstream; a
// single bad message never takes a listener down.
func decode(data json.RawMessage, v any) bool {
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Debug("skipping malformed payload", "error", err)
		return false
	}
	return true
}
