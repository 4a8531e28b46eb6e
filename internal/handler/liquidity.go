package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type poolsWire struct {
	Pools []model.Pool `json:"pools"`
}

type lpPositionsWire struct {
	Positions []model.LiquidityPosition `json:"positions"`
}

type suggestionWire struct {
	ID         string  `json:"id"`
	PositionID string  `json:"position_id"`
	Reason     string  `json:"reason"`
	NewLower   float64 `json:"new_lower"`
	NewUpper   float64 `json:"new_upper"`
}

type positionStatusWire struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Liquidity syncs pools, LP positions, and rebalance suggestions. Create,
// close, and claim commands go over REST from the UI; this channel carries
// their resulting snapshots and status transitions.
func Liquidity(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Emit("request_pools", nil)
		sess.Emit("request_positions", nil)
		sess.Emit("request_suggestions", nil)
	})

	sess.On("pools_update", func(data json.RawMessage) {
		var w poolsWire
		if !decode(data, &w) {
			return
		}
		st.ReplacePools(w.Pools)
	})

	sess.On("positions_update", func(data json.RawMessage) {
		var w lpPositionsWire
		if !decode(data, &w) {
			return
		}
		st.ReplaceLPPositions(w.Positions)
	})

	sess.On("rebalance_suggestion", func(data json.RawMessage) {
		var w suggestionWire
		if !decode(data, &w) {
			return
		}
		sug := model.RebalanceSuggestion{
			ID:         w.ID,
			PositionID: w.PositionID,
			Reason:     w.Reason,
			NewLower:   w.NewLower,
			NewUpper:   w.NewUpper,
			CreatedAt:  time.Now(),
		}
		if sug.ID == "" {
			sug.ID = uuid.NewString()
		}
		st.AppendSuggestion(sug)
	})

	sess.On("position_status", func(data json.RawMessage) {
		var w positionStatusWire
		if !decode(data, &w) || w.ID == "" {
			return
		}
		st.SetLPPositionStatus(w.ID, w.Status)
	})
}
