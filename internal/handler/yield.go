package handler

import (
	"encoding/json"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type farmsWire struct {
	Farms []model.FarmOpportunity `json:"farms"`
}

// Yield syncs the farm opportunity list as whole snapshots.
func Yield(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Emit("request_farms", nil)
	})

	sess.On("farms_update", func(data json.RawMessage) {
		var w farmsWire
		if !decode(data, &w) {
			return
		}
		st.ReplaceFarms(w.Farms)
	})
}
