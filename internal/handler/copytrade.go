package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type targetsWire struct {
	Targets []model.CopyTarget `json:"targets"`
}

type signalWire struct {
	ID       string            `json:"id"`
	Wallet   string            `json:"wallet"`
	Alias    string            `json:"alias"`
	Sent     model.TokenAmount `json:"sent"`
	Received model.TokenAmount `json:"received"`
}

// CopyTrade syncs tracked wallets and their detected trades. A detected
// signal is both a state mutation (capped list) and an independent
// notification dispatch.
func CopyTrade(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Emit("request_targets", nil)
		sess.Emit("request_signals", nil)
	})

	sess.On("targets_update", func(data json.RawMessage) {
		var w targetsWire
		if !decode(data, &w) {
			return
		}
		st.ReplaceTargets(w.Targets)
	})

	sess.On("signal_detected", func(data json.RawMessage) {
		var w signalWire
		if !decode(data, &w) {
			return
		}
		sig := model.Signal{
			ID:         w.ID,
			Wallet:     w.Wallet,
			Alias:      w.Alias,
			Sent:       w.Sent,
			Received:   w.Received,
			DetectedAt: time.Now(),
		}
		if sig.ID == "" {
			sig.ID = uuid.NewString()
		}
		st.AppendSignal(sig)
		st.PushNotification(model.NotifyInfo, formatSignal(sig))
	})
}
