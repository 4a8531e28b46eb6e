package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFetcher(serverURL string, st *store.Store) *Fetcher {
	client := NewClient(serverURL, "test-key",
		WithRetries(0, 0),
		WithLogger(testLogger()),
	)
	return NewFetcher(client, st, testLogger())
}

func TestFetchBots_SeedsStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/bots" {
			t.Errorf("path = %s, want /api/v1/bots", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bots":[
			{"id":"b1","name":"grid-sol","strategy":"grid","status":"running","pnl":4.2},
			{"id":"b2","name":"dca-btc","strategy":"dca","status":"paused"}
		]}`))
	}))
	defer server.Close()

	st := store.New()
	f := newTestFetcher(server.URL, st)

	if err := f.FetchBots(context.Background()); err != nil {
		t.Fatalf("FetchBots: %v", err)
	}

	bots := st.Bots()
	if len(bots) != 2 {
		t.Fatalf("len(bots) = %d, want 2", len(bots))
	}
	if bots[0].ID != "b1" || bots[0].Strategy != "grid" {
		t.Errorf("bots[0] = %+v", bots[0])
	}
}

func TestFetchBots_FailureKeepsPreviousValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	st := store.New()
	st.ReplaceBots([]model.Bot{{ID: "stale", Name: "keep-me"}})

	f := newTestFetcher(server.URL, st)
	err := f.FetchBots(context.Background())
	if err == nil {
		t.Fatal("FetchBots succeeded against a 500 server")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("error = %v, want APIError 500", err)
	}

	bots := st.Bots()
	if len(bots) != 1 || bots[0].ID != "stale" {
		t.Errorf("bots = %+v, want the previous value untouched", bots)
	}
}

func TestFetchAll_ContinuesPastFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/bots":
			http.Error(w, "down", http.StatusBadGateway)
		case "/api/v1/pools":
			w.Write([]byte(`{"pools":[{"address":"pool1","pair":"SOL/USDC"}]}`))
		case "/api/v1/farms":
			w.Write([]byte(`{"farms":[{"id":"f1","protocol":"ray"}]}`))
		case "/api/v1/news":
			w.Write([]byte(`{"news":[{"id":"n1","title":"headline"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	st := store.New()
	f := newTestFetcher(server.URL, st)

	err := f.FetchAll(context.Background())
	if err == nil {
		t.Fatal("FetchAll returned nil despite the bots failure")
	}

	// The failing fetch does not short-circuit the rest.
	if len(st.Pools()) != 1 {
		t.Errorf("pools = %+v, want 1 entry", st.Pools())
	}
	if len(st.Farms()) != 1 {
		t.Errorf("farms = %+v, want 1 entry", st.Farms())
	}
	if len(st.News()) != 1 {
		t.Errorf("news = %+v, want 1 entry", st.News())
	}
	if len(st.Bots()) != 0 {
		t.Errorf("bots = %+v, want empty", st.Bots())
	}
}

func TestClient_RetriesOn500(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "flaky", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"bots":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "",
		WithRetries(3, time.Millisecond),
		WithLogger(testLogger()),
	)

	var resp struct {
		Bots []model.Bot `json:"bots"`
	}
	if err := client.get(context.Background(), "/api/v1/bots", nil, &resp); err != nil {
		t.Fatalf("get: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestClient_NoRetryOn404(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "",
		WithRetries(3, time.Millisecond),
		WithLogger(testLogger()),
	)

	var resp struct{}
	err := client.get(context.Background(), "/missing", nil, &resp)
	if err == nil {
		t.Fatal("get succeeded against 404")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (4xx is not retryable)", attempts)
	}
}
