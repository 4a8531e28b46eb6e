package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type stakingStatsWire struct {
	TotalStaked  float64 `json:"total_staked"`
	TotalRewards float64 `json:"total_rewards"`
	AvgAPY       float64 `json:"avg_apy"`
	Validators   int     `json:"validators"`
}

type stakingEventWire struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Validator string  `json:"validator"`
	Amount    float64 `json:"amount"`
}

// Staking syncs aggregate staking stats and the activity feed.
func Staking(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Emit("request_stats", nil)
		sess.Emit("request_events", nil)
	})

	sess.On("stats_update", func(data json.RawMessage) {
		var w stakingStatsWire
		if !decode(data, &w) {
			return
		}
		st.SetStakingStats(model.StakingStats{
			TotalStaked:  w.TotalStaked,
			TotalRewards: w.TotalRewards,
			AvgAPY:       w.AvgAPY,
			Validators:   w.Validators,
			UpdatedAt:    time.Now(),
		})
	})

	sess.On("staking_event", func(data json.RawMessage) {
		var w stakingEventWire
		if !decode(data, &w) {
			return
		}
		ev := model.StakingEvent{
			ID:        w.ID,
			Kind:      w.Kind,
			Validator: w.Validator,
			Amount:    w.Amount,
			At:        time.Now(),
		}
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		st.AppendStakingEvent(ev)
	})
}
