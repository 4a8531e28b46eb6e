package handler

import (
	"fmt"

	"github.com/soldesk/streamsync/internal/model"
)

// Placeholder used when a payload arrives without a symbol. Formatting must
// degrade, never fail, on partial payloads.
const unknownSymbol = "???"

// displayName prefers the alias and falls back to a truncated wallet
// address.
func displayName(alias, wallet string) string {
	if alias != "" {
		return alias
	}
	return shortAddr(wallet)
}

// shortAddr truncates a wallet address for display.
func shortAddr(w string) string {
	if w == "" {
		return "unknown"
	}
	if len(w) <= 8 {
		return w
	}
	return w[:4] + "..." + w[len(w)-4:]
}

// formatLeg renders one side of a swap, e.g. "100.00 USDC".
func formatLeg(t model.TokenAmount) string {
	sym := t.Symbol
	if sym == "" {
		sym = unknownSymbol
	}
	return fmt.Sprintf("%.2f %s", t.Amount, sym)
}

// formatSignal renders a copy-trade signal notification.
func formatSignal(sig model.Signal) string {
	return fmt.Sprintf("%s swapped %s for %s",
		displayName(sig.Alias, sig.Wallet),
		formatLeg(sig.Sent),
		formatLeg(sig.Received),
	)
}

// formatWhale renders a whale trade notification.
func formatWhale(w model.WhaleTrade) string {
	verb := "bought"
	if w.Side == "sell" {
		verb = "sold"
	}
	return fmt.Sprintf("%s %s %s ($%.0f)",
		displayName(w.Alias, w.Wallet),
		verb,
		formatLeg(w.Token),
		w.ValueUSD,
	)
}
