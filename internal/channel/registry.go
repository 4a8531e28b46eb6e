package channel

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soldesk/streamsync/internal/store"
)

// Handler wires one domain's listeners onto a fresh session. It is invoked
// exactly once per Connect call; idempotence across reconnects comes from
// the registry always handing it a fresh session, never re-attaching to a
// stale one.
type Handler func(sess Session, st *store.Store)

// Registry owns the set of logical channels: it opens and closes the
// underlying socket per channel, applies the registered handler on every
// Connect, answers status queries, and keeps the process-wide table of
// named recurring timers tied to channel lifecycles.
//
// A Registry is an explicit constructed object with an injected store;
// its lifetime is bounded by Connect/DisconnectAll, so tests can run
// isolated instances.
type Registry struct {
	cfg    Config
	store  *store.Store
	logger *slog.Logger

	mu       sync.Mutex
	handlers map[string]Handler
	sessions map[string]*session

	timerMu sync.Mutex
	timers  map[string]chan struct{}

	parseErrors atomic.Int64
}

// NewRegistry creates a channel registry bound to a store.
func NewRegistry(cfg Config, st *store.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Client == (ClientConfig{}) {
		cfg.Client = DefaultClientConfig()
	}
	return &Registry{
		cfg:      cfg,
		store:    st,
		logger:   logger,
		handlers: make(map[string]Handler),
		sessions: make(map[string]*session),
		timers:   make(map[string]chan struct{}),
	}
}

// RegisterHandler stores the handler for a channel name. It has no effect
// on an already-open channel; the handler is applied on the next Connect.
func (r *Registry) RegisterHandler(name string, h Handler) {
	r.mu.Lock()
	r.handlers[name] = h
	r.mu.Unlock()
}

// Connect opens the named channel. Any prior connection for the name is
// closed first, so at most one live handle exists per channel at any time;
// the old handle's disconnect listeners run before the new handle's connect
// listeners. The registered handler, if any, is applied to the fresh
// session before the dial.
func (r *Registry) Connect(ctx context.Context, name string) Session {
	r.mu.Lock()
	prior := r.sessions[name]
	delete(r.sessions, name)
	handler := r.handlers[name]
	r.mu.Unlock()

	if prior != nil {
		r.logger.Debug("replacing live channel", "channel", name)
		prior.client.Close()
		r.clearChannelTimers(name)
	}

	cfg := r.cfg.Client
	cfg.URL = strings.TrimRight(r.cfg.BaseURL, "/") + "/" + name

	sess := &session{
		name:     name,
		registry: r,
		client:   newClient(cfg, r.logger.With("channel", name), &r.parseErrors),
	}

	// Registry-level lifecycle logging, attached before the handler so it
	// always runs first.
	sess.client.handleConnect(func() {
		r.logger.Info("channel connected", "channel", name)
	})
	sess.client.handleDisconnect(func() {
		r.logger.Info("channel disconnected", "channel", name)
	})

	if handler != nil {
		handler(sess, r.store)
	}

	r.mu.Lock()
	r.sessions[name] = sess
	r.mu.Unlock()

	// Dial errors are logged and reflected in status only; the client keeps
	// redialling on its own.
	sess.client.Start(ctx)

	return sess
}

// Disconnect closes and discards the named channel. No-op when not
// connected. Every timer under the channel's namespace is cancelled.
func (r *Registry) Disconnect(name string) {
	r.mu.Lock()
	sess := r.sessions[name]
	delete(r.sessions, name)
	r.mu.Unlock()

	if sess != nil {
		sess.client.Close()
	}
	r.clearChannelTimers(name)
}

// DisconnectAll cancels every tracked timer, then disconnects every
// channel. Idempotent; channels already down are skipped silently.
func (r *Registry) DisconnectAll() {
	r.ClearAllIntervals()

	r.mu.Lock()
	sessions := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.client.Close()
	}
}

// Emit sends an outbound event if the channel is currently connected and
// silently drops it otherwise. Outbound commands are fire-and-best-effort.
func (r *Registry) Emit(name, event string, payload any) {
	r.mu.Lock()
	sess := r.sessions[name]
	r.mu.Unlock()

	if sess == nil {
		r.logger.Debug("emit dropped, channel not open", "channel", name, "event", event)
		return
	}
	sess.Emit(event, payload)
}

// IsConnected reports whether the named channel currently has a live
// socket.
func (r *Registry) IsConnected(name string) bool {
	r.mu.Lock()
	sess := r.sessions[name]
	r.mu.Unlock()
	return sess != nil && sess.client.IsConnected()
}

// ParseErrors returns the number of inbound frames dropped because their
// envelope failed to decode, across all channels and reconnects.
func (r *Registry) ParseErrors() int64 {
	return r.parseErrors.Load()
}

// ConnectionStatus maps every known channel name to its connected state.
// Channels with a registered handler but never opened report false.
func (r *Registry) ConnectionStatus() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := make(map[string]bool, len(r.handlers))
	for name := range r.handlers {
		status[name] = false
	}
	for name, sess := range r.sessions {
		status[name] = sess.client.IsConnected()
	}
	return status
}

// -----------------------------------------------------------------------------
// Named timer table
// -----------------------------------------------------------------------------

// SetInterval starts a recurring timer under key, first clearing any timer
// already registered there. Overwrite semantics by construction: reconnect
// logic that re-registers periodic polling can never accumulate duplicate
// ticking intervals.
func (r *Registry) SetInterval(key string, d time.Duration, fn func()) {
	r.timerMu.Lock()
	if stop, ok := r.timers[key]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	r.timers[key] = stop
	r.timerMu.Unlock()

	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// ClearInterval cancels the timer under key. No-op for unknown keys.
func (r *Registry) ClearInterval(key string) {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	if stop, ok := r.timers[key]; ok {
		close(stop)
		delete(r.timers, key)
	}
}

// ClearAllIntervals cancels every tracked timer.
func (r *Registry) ClearAllIntervals() {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	for key, stop := range r.timers {
		close(stop)
		delete(r.timers, key)
	}
}

// ActiveTimers returns the sorted keys of all running timers.
func (r *Registry) ActiveTimers() []string {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	keys := make([]string, 0, len(r.timers))
	for k := range r.timers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// clearChannelTimers cancels every timer namespaced under the channel.
func (r *Registry) clearChannelTimers(name string) {
	prefix := name + "."
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	for key, stop := range r.timers {
		if strings.HasPrefix(key, prefix) {
			close(stop)
			delete(r.timers, key)
		}
	}
}

// -----------------------------------------------------------------------------
// Session
// -----------------------------------------------------------------------------

// session binds one client to the registry's timer table under the
// channel's namespace.
type session struct {
	name     string
	registry *Registry
	client   *client
}

func (s *session) Channel() string { return s.name }

func (s *session) OnConnect(fn func())    { s.client.handleConnect(fn) }
func (s *session) OnDisconnect(fn func()) { s.client.handleDisconnect(fn) }

func (s *session) On(event string, fn func(data json.RawMessage)) {
	s.client.handle(event, fn)
}

func (s *session) Emit(event string, payload any) {
	if err := s.client.Emit(event, payload); err != nil {
		// Not connected or marshal failure: drop, never queue, never throw.
		s.registry.logger.Debug("emit dropped",
			"channel", s.name,
			"event", event,
			"reason", err,
		)
	}
}

func (s *session) Every(name string, d time.Duration, fn func()) {
	s.registry.SetInterval(s.name+"."+name, d, fn)
}

func (s *session) Stop(name string) {
	s.registry.ClearInterval(s.name + "." + name)
}
