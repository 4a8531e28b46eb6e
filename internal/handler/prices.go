package handler

import (
	"encoding/json"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/store"
)

type priceWire struct {
	Mint  string  `json:"mint"`
	Price float64 `json:"price"`
}

type priceSnapshotWire struct {
	Prices map[string]float64 `json:"prices"`
}

// Prices syncs the live price map. Single-price updates are last-write-wins
// per mint; no history is kept. This channel also carries the keep-alive
// ping.
func Prices(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Every("ping", pingInterval, func() {
			sess.Emit("ping", nil)
		})
	})

	sess.OnDisconnect(func() {
		sess.Stop("ping")
	})

	sess.On("price_update", func(data json.RawMessage) {
		var w priceWire
		if !decode(data, &w) || w.Mint == "" {
			return
		}
		st.SetPrice(w.Mint, w.Price)
	})

	sess.On("price_snapshot", func(data json.RawMessage) {
		var w priceSnapshotWire
		if !decode(data, &w) || len(w.Prices) == 0 {
			return
		}
		st.SetPrices(w.Prices)
	})
}
