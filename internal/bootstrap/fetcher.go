package bootstrap

import (
	"context"
	"log/slog"

	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

// Fetcher seeds the store with one-shot REST snapshots for the domains that
// are cheaper to read as request/response than as channel replay. Each
// fetch dispatches the same replace action a channel event would, so both
// paths converge on the store regardless of interleaving.
type Fetcher struct {
	client *Client
	store  *store.Store
	logger *slog.Logger
}

// NewFetcher creates a bootstrap fetcher.
func NewFetcher(client *Client, st *store.Store, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: client,
		store:  st,
		logger: logger,
	}
}

// FetchBots seeds the bot list. On failure the slice keeps its previous
// value: stale data beats blanked data.
func (f *Fetcher) FetchBots(ctx context.Context) error {
	var resp struct {
		Bots []model.Bot `json:"bots"`
	}
	if err := f.client.get(ctx, "/api/v1/bots", nil, &resp); err != nil {
		f.logger.Warn("bootstrap bots failed", "error", err)
		return err
	}
	f.store.ReplaceBots(resp.Bots)
	f.logger.Debug("bootstrap bots", "count", len(resp.Bots))
	return nil
}

// FetchPools seeds the liquidity pool list.
func (f *Fetcher) FetchPools(ctx context.Context) error {
	var resp struct {
		Pools []model.Pool `json:"pools"`
	}
	if err := f.client.get(ctx, "/api/v1/pools", nil, &resp); err != nil {
		f.logger.Warn("bootstrap pools failed", "error", err)
		return err
	}
	f.store.ReplacePools(resp.Pools)
	f.logger.Debug("bootstrap pools", "count", len(resp.Pools))
	return nil
}

// FetchFarms seeds the yield farm list.
func (f *Fetcher) FetchFarms(ctx context.Context) error {
	var resp struct {
		Farms []model.FarmOpportunity `json:"farms"`
	}
	if err := f.client.get(ctx, "/api/v1/farms", nil, &resp); err != nil {
		f.logger.Warn("bootstrap farms failed", "error", err)
		return err
	}
	f.store.ReplaceFarms(resp.Farms)
	f.logger.Debug("bootstrap farms", "count", len(resp.Farms))
	return nil
}

// FetchNews seeds the intel news list.
func (f *Fetcher) FetchNews(ctx context.Context) error {
	var resp struct {
		News []model.NewsItem `json:"news"`
	}
	if err := f.client.get(ctx, "/api/v1/news", nil, &resp); err != nil {
		f.logger.Warn("bootstrap news failed", "error", err)
		return err
	}
	f.store.ReplaceNews(resp.News)
	f.logger.Debug("bootstrap news", "count", len(resp.News))
	return nil
}

// FetchAll runs every bootstrap fetch sequentially. Failures are already
// logged per fetch; the first error is returned for the caller's log line.
func (f *Fetcher) FetchAll(ctx context.Context) error {
	var first error
	for _, fetch := range []func(context.Context) error{
		f.FetchBots,
		f.FetchPools,
		f.FetchFarms,
		f.FetchNews,
	} {
		if err := fetch(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
