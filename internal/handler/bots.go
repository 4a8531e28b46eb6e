package handler

import (
	"encoding/json"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type botsWire struct {
	Bots []model.Bot `json:"bots"`
}

// Bots syncs the trading bot list. Commands against bots (pause, resume,
// delete) go over REST from the UI; their results arrive here as the next
// bots_update snapshot.
func Bots(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Emit("request_bots", nil)
		sess.Every("poll", pollInterval, func() {
			sess.Emit("request_bots", nil)
		})
	})

	sess.OnDisconnect(func() {
		sess.Stop("poll")
	})

	sess.On("bots_update", func(data json.RawMessage) {
		var w botsWire
		if !decode(data, &w) {
			return
		}
		st.ReplaceBots(w.Bots)
	})
}
