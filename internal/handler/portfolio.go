package handler

import (
	"encoding/json"
	"time"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type balanceWire struct {
	TotalValue float64         `json:"total_value"`
	SolBalance float64         `json:"sol_balance"`
	Holdings   []model.Holding `json:"holdings"`
}

// Portfolio syncs wallet balances. Push updates are primary; a 30s re-poll
// runs alongside as a belt-and-suspenders refresh.
func Portfolio(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Emit("request_balance", nil)
		sess.Every("poll", pollInterval, func() {
			sess.Emit("request_balance", nil)
		})
	})

	sess.OnDisconnect(func() {
		sess.Stop("poll")
	})

	sess.On("balance_update", func(data json.RawMessage) {
		var w balanceWire
		if !decode(data, &w) {
			return
		}
		st.SetPortfolio(model.Portfolio{
			TotalValue: w.TotalValue,
			SolBalance: w.SolBalance,
			Holdings:   w.Holdings,
			UpdatedAt:  time.Now(),
		})
	})
}
