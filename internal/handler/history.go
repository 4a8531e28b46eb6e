package handler

import (
	"encoding/json"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type historyWire struct {
	Trades []model.TradeRecord `json:"trades"`
}

// History syncs the completed-trade history as whole snapshots.
func History(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Emit("request_history", nil)
	})

	sess.On("history_update", func(data json.RawMessage) {
		var w historyWire
		if !decode(data, &w) {
			return
		}
		st.ReplaceHistory(w.Trades)
	})
}
