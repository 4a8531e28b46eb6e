package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type tokenWire struct {
	Mint      string  `json:"mint"`
	Symbol    string  `json:"symbol"`
	Liquidity float64 `json:"liquidity"`
	Score     float64 `json:"score"`
}

type tokensWire struct {
	Tokens []model.TrackedToken `json:"tokens"`
}

type positionsWire struct {
	Positions []model.SniperPosition `json:"positions"`
}

type sellWire struct {
	Symbol   string  `json:"symbol"`
	Mint     string  `json:"mint"`
	Proceeds float64 `json:"proceeds"`
	PnLPct   float64 `json:"pnl_pct"`
}

// Sniper syncs detected tokens and snipe positions. Token detections and
// completed sells additionally raise notifications.
func Sniper(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Emit("request_tokens", nil)
		sess.Emit("request_positions", nil)
	})

	sess.On("tokens_update", func(data json.RawMessage) {
		var w tokensWire
		if !decode(data, &w) {
			return
		}
		st.ReplaceTokens(w.Tokens)
	})

	sess.On("token_detected", func(data json.RawMessage) {
		var w tokenWire
		if !decode(data, &w) {
			return
		}
		st.AppendToken(model.TrackedToken{
			Mint:       w.Mint,
			Symbol:     w.Symbol,
			Liquidity:  w.Liquidity,
			Score:      w.Score,
			DetectedAt: time.Now(),
		})

		sym := w.Symbol
		if sym == "" {
			sym = shortAddr(w.Mint)
		}
		st.PushNotification(model.NotifyInfo,
			fmt.Sprintf("New token detected: %s (score %.0f)", sym, w.Score))
	})

	sess.On("positions_update", func(data json.RawMessage) {
		var w positionsWire
		if !decode(data, &w) {
			return
		}
		st.ReplaceSniperPositions(w.Positions)
	})

	sess.On("position_update", func(data json.RawMessage) {
		var pos model.SniperPosition
		if !decode(data, &pos) || pos.ID == "" {
			return
		}
		st.UpsertSniperPosition(pos)
	})

	sess.On("sell_completed", func(data json.RawMessage) {
		var w sellWire
		if !decode(data, &w) {
			return
		}
		sym := w.Symbol
		if sym == "" {
			sym = shortAddr(w.Mint)
		}
		st.PushNotification(model.NotifySuccess,
			fmt.Sprintf("Sold %s for %.2f SOL (%+.1f%%)", sym, w.Proceeds, w.PnLPct))
	})
}
