package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type opportunitiesWire struct {
	Opportunities []model.ArbOpportunity `json:"opportunities"`
}

type opportunityWire struct {
	ID        string  `json:"id"`
	Pair      string  `json:"pair"`
	BuyVenue  string  `json:"buy_venue"`
	SellVenue string  `json:"sell_venue"`
	SpreadPct float64 `json:"spread_pct"`
	EstProfit float64 `json:"est_profit"`
}

type venuesWire struct {
	Venues []model.VenueQuote `json:"venues"`
}

// Arb syncs cross-venue opportunities and the venue price matrix.
func Arb(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Emit("request_opportunities", nil)
	})

	sess.On("opportunities_update", func(data json.RawMessage) {
		var w opportunitiesWire
		if !decode(data, &w) {
			return
		}
		st.ReplaceOpportunities(w.Opportunities)
	})

	sess.On("opportunity_found", func(data json.RawMessage) {
		var w opportunityWire
		if !decode(data, &w) {
			return
		}
		opp := model.ArbOpportunity{
			ID:         w.ID,
			Pair:       w.Pair,
			BuyVenue:   w.BuyVenue,
			SellVenue:  w.SellVenue,
			SpreadPct:  w.SpreadPct,
			EstProfit:  w.EstProfit,
			DetectedAt: time.Now(),
		}
		if opp.ID == "" {
			opp.ID = uuid.NewString()
		}
		st.AppendOpportunity(opp)

		pair := opp.Pair
		if pair == "" {
			pair = unknownSymbol
		}
		st.PushNotification(model.NotifyInfo,
			fmt.Sprintf("Arb: %s %.2f%% spread (%s -> %s)", pair, opp.SpreadPct, opp.BuyVenue, opp.SellVenue))
	})

	sess.On("venues_update", func(data json.RawMessage) {
		var w venuesWire
		if !decode(data, &w) {
			return
		}
		st.ReplaceVenues(w.Venues)
	})
}
