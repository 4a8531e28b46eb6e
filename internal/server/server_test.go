package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

type fakeStatus struct {
	channels    map[string]bool
	timers      []string
	parseErrors int64
}

func (f *fakeStatus) ConnectionStatus() map[string]bool { return f.channels }
func (f *fakeStatus) ActiveTimers() []string            { return f.timers }
func (f *fakeStatus) ParseErrors() int64                { return f.parseErrors }

func newTestServer(st *store.Store, status StatusSource) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{Port: 0}, st, status, logger)
}

func doGet(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGetStatus(t *testing.T) {
	st := store.New()
	st.SetPrice("mint1", 1.5)

	status := &fakeStatus{
		channels:    map[string]bool{"prices": true, "bots": false},
		timers:      []string{"prices.ping"},
		parseErrors: 3,
	}

	rec := doGet(t, newTestServer(st, status), "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Channels    map[string]bool `json:"channels"`
		Timers      []string        `json:"timers"`
		Mutations   int64           `json:"mutations"`
		ParseErrors int64           `json:"parse_errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Channels["prices"] || body.Channels["bots"] {
		t.Errorf("channels = %v", body.Channels)
	}
	if len(body.Timers) != 1 || body.Timers[0] != "prices.ping" {
		t.Errorf("timers = %v", body.Timers)
	}
	if body.Mutations != 1 {
		t.Errorf("mutations = %d, want 1", body.Mutations)
	}
	if body.ParseErrors != 3 {
		t.Errorf("parse_errors = %d, want 3", body.ParseErrors)
	}
}

func TestGetState_KnownDomain(t *testing.T) {
	st := store.New()
	st.ReplaceBots([]model.Bot{{ID: "b1", Name: "grid", Status: "running"}})

	rec := doGet(t, newTestServer(st, &fakeStatus{}), "/api/state/bots")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Domain string      `json:"domain"`
		Data   []model.Bot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Domain != "bots" || len(body.Data) != 1 || body.Data[0].ID != "b1" {
		t.Errorf("body = %+v", body)
	}
}

func TestGetState_UnknownDomain(t *testing.T) {
	rec := doGet(t, newTestServer(store.New(), &fakeStatus{}), "/api/state/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetNotifications(t *testing.T) {
	st := store.New()
	st.PushNotification(model.NotifyInfo, "first")
	st.PushNotification(model.NotifyWarning, "second")

	rec := doGet(t, newTestServer(st, &fakeStatus{}), "/api/notifications")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Notifications []model.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Notifications) != 2 {
		t.Fatalf("len(notifications) = %d, want 2", len(body.Notifications))
	}
	// Newest first.
	if body.Notifications[0].Message != "second" {
		t.Errorf("notifications[0] = %+v", body.Notifications[0])
	}
}
