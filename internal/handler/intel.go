package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/soldesk/streamsync/internal/channel"
	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type newsWire struct {
	News []model.NewsItem `json:"news"`
}

type whaleWire struct {
	ID       string            `json:"id"`
	Wallet   string            `json:"wallet"`
	Alias    string            `json:"alias"`
	Side     string            `json:"side"`
	Token    model.TokenAmount `json:"token"`
	ValueUSD float64           `json:"value_usd"`
}

// Intel syncs market news and observed whale trades. A whale trade raises a
// notification; a missing alias degrades to a truncated wallet address.
func Intel(sess channel.Session, st *store.Store) {
	sess.OnConnect(func() {
		sess.Emit("request_news", nil)
		sess.Emit("request_whales", nil)
	})

	sess.On("news_update", func(data json.RawMessage) {
		var w newsWire
		if !decode(data, &w) {
			return
		}
		st.ReplaceNews(w.News)
	})

	sess.On("news_item", func(data json.RawMessage) {
		var item model.NewsItem
		if !decode(data, &item) || item.Title == "" {
			return
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		st.AppendNews(item)
	})

	sess.On("whale_trade", func(data json.RawMessage) {
		var w whaleWire
		if !decode(data, &w) {
			return
		}
		trade := model.WhaleTrade{
			ID:       w.ID,
			Wallet:   w.Wallet,
			Alias:    w.Alias,
			Side:     w.Side,
			Token:    w.Token,
			ValueUSD: w.ValueUSD,
			SeenAt:   time.Now(),
		}
		if trade.ID == "" {
			trade.ID = uuid.NewString()
		}
		st.AppendWhaleTrade(trade)
		st.PushNotification(model.NotifyWarning, formatWhale(trade))
	})
}
