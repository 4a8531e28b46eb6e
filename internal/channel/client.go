package channel

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// client is a single channel's WebSocket connection. It owns its reconnect
// loop: on read failure it redials with exponential backoff and re-fires the
// connect listeners once per successful (re)connect. Callers above this
// layer never implement their own backoff.
type client struct {
	cfg    ClientConfig
	logger *slog.Logger

	// Shared with the registry; counts inbound frames dropped because the
	// envelope failed to decode.
	parseErrors *atomic.Int64

	// Listeners. Attached while the handler runs, before Start; the read
	// loop only ever reads them.
	listMu       sync.RWMutex
	onConnect    []func()
	onDisconnect []func()
	events       map[string][]func(json.RawMessage)

	// Connection state
	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	closed    bool
	stale     bool
	lastSeen  time.Time

	writeMu sync.Mutex
	done    chan struct{}
	wg      sync.WaitGroup
}

func newClient(cfg ClientConfig, logger *slog.Logger, parseErrors *atomic.Int64) *client {
	if logger == nil {
		logger = slog.Default()
	}
	if parseErrors == nil {
		parseErrors = new(atomic.Int64)
	}
	return &client{
		cfg:         cfg,
		logger:      logger,
		parseErrors: parseErrors,
		events:      make(map[string][]func(json.RawMessage)),
		done:        make(chan struct{}),
	}
}

func (c *client) handleConnect(fn func()) {
	c.listMu.Lock()
	c.onConnect = append(c.onConnect, fn)
	c.listMu.Unlock()
}

func (c *client) handleDisconnect(fn func()) {
	c.listMu.Lock()
	c.onDisconnect = append(c.onDisconnect, fn)
	c.listMu.Unlock()
}

func (c *client) handle(event string, fn func(json.RawMessage)) {
	c.listMu.Lock()
	c.events[event] = append(c.events[event], fn)
	c.listMu.Unlock()
}

// Start begins the connect/read/reconnect loop. The first dial happens
// synchronously so a reachable server is connected before Start returns;
// its error is returned for logging but the loop keeps retrying regardless.
func (c *client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	c.mu.Unlock()

	err := c.dial(ctx)

	c.wg.Add(1)
	go c.run(ctx, err == nil)

	return err
}

// Close shuts the connection down and fires the disconnect listeners
// exactly once if the socket was live. Safe to call repeatedly.
func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	close(c.done)

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		conn.Close()
	}

	c.fireDisconnect()
	c.wg.Wait()
	return nil
}

// IsConnected reports the current socket state.
func (c *client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Emit sends one event envelope. Returns ErrNotConnected when the socket
// is down.
func (c *client) Emit(event string, payload any) error {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()

	if !connected || conn == nil {
		return ErrNotConnected
	}

	env := envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		env.Data = data
	}
	buf, err := json.Marshal(env)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, buf)
}

// dial opens the socket and fires the connect listeners on success.
func (c *client) dial(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		c.logger.Warn("channel connect error", "url", c.cfg.URL, "error", err)
		return err
	}

	conn.SetPongHandler(func(string) error {
		c.mu.Lock()
		c.lastSeen = time.Now()
		c.mu.Unlock()
		return nil
	})

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.lastSeen = time.Now()
	c.mu.Unlock()

	c.logger.Debug("channel connected", "url", c.cfg.URL)
	c.fireConnect()
	return nil
}

// run is the main loop: read until failure, fire disconnect, redial with
// backoff, repeat until Close or context cancellation.
func (c *client) run(ctx context.Context, connected bool) {
	defer c.wg.Done()

	wait := c.cfg.ReconnectBase

	for {
		if connected {
			c.readLoop(ctx)

			select {
			case <-c.done:
				return
			case <-ctx.Done():
				return
			default:
			}

			c.fireDisconnect()
			wait = c.cfg.ReconnectBase
		}

		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		if err := c.dial(ctx); err != nil {
			connected = false
			wait *= 2
			if wait > c.cfg.ReconnectMax {
				wait = c.cfg.ReconnectMax
			}
			continue
		}
		connected = true
	}
}

// readLoop reads and dispatches events in delivery order until the socket
// fails. Dispatch is synchronous in this goroutine, so listeners for one
// channel never see reordered events.
func (c *client) readLoop(ctx context.Context) {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	pingDone := make(chan struct{})
	defer close(pingDone)
	go c.pingLoop(conn, pingDone)

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.stale {
				c.stale = false
				err = ErrStaleSocket
			}
			c.mu.Unlock()

			select {
			case <-c.done:
			default:
				c.logger.Warn("channel read error", "url", c.cfg.URL, "error", err)
			}
			return
		}

		c.mu.Lock()
		c.lastSeen = time.Now()
		c.mu.Unlock()

		c.dispatch(data)
	}
}

// dispatch decodes one envelope and invokes its listeners. A message that
// fails to decode counts a parse error and is skipped; it never takes the
// loop down.
func (c *client) dispatch(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.parseErrors.Add(1)
		c.logger.Warn("malformed channel message", "url", c.cfg.URL, "error", err)
		return
	}
	if env.Event == "" {
		return
	}

	c.listMu.RLock()
	fns := c.events[env.Event]
	c.listMu.RUnlock()

	if len(fns) == 0 {
		c.logger.Debug("unhandled event", "event", env.Event, "url", c.cfg.URL)
		return
	}
	for _, fn := range fns {
		fn(env.Data)
	}
}

// pingLoop keeps the socket alive and forces a reconnect when the server
// goes silent past StaleTimeout.
func (c *client) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				c.logger.Debug("ping failed", "error", err)
			}

			c.mu.RLock()
			last := c.lastSeen
			c.mu.RUnlock()

			if time.Since(last) > c.cfg.StaleTimeout {
				c.logger.Warn("channel stale, closing socket",
					"url", c.cfg.URL,
					"last_seen", last,
				)
				c.mu.Lock()
				c.stale = true
				c.mu.Unlock()
				conn.Close()
				return
			}
		}
	}
}

// fireConnect runs the connect listeners.
func (c *client) fireConnect() {
	c.listMu.RLock()
	fns := append([]func(){}, c.onConnect...)
	c.listMu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// fireDisconnect flips connected off and runs the disconnect listeners, at
// most once per live socket.
func (c *client) fireDisconnect() {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = false
	c.mu.Unlock()

	c.listMu.RLock()
	fns := append([]func(){}, c.onDisconnect...)
	c.listMu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
