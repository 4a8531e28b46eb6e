package channel

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrStaleSocket   = errors.New("socket stale (no pong)")
	ErrAlreadyClosed = errors.New("already closed")
)

// envelope is the wire format for every event on a channel: a named event
// plus an opaque payload decoded by the handler that registered for it.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ClientConfig configures a single channel's WebSocket client.
type ClientConfig struct {
	URL              string        // Full channel URL (base + "/" + channel name)
	HandshakeTimeout time.Duration // Dial timeout
	WriteTimeout     time.Duration // Write deadline for sends
	PingInterval     time.Duration // Keep-alive ping cadence
	StaleTimeout     time.Duration // Max silence before the socket is declared stale
	ReconnectBase    time.Duration // Base wait between redial attempts
	ReconnectMax     time.Duration // Max wait between redial attempts
}

// DefaultClientConfig returns sensible defaults. NewRegistry falls back to
// these when handed a zero ClientConfig.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		PingInterval:     15 * time.Second,
		StaleTimeout:     60 * time.Second,
		ReconnectBase:    time.Second,
		ReconnectMax:     60 * time.Second,
	}
}

// Config configures the channel Registry.
type Config struct {
	BaseURL string       // Base WebSocket endpoint; channels attach as sub-paths
	Client  ClientConfig // Per-channel client settings (URL filled per channel)
}

// Session is the connection handle a Handler receives. Listeners attached
// through it live for exactly one Connect call; a reconnect of the
// underlying socket re-fires the connect listeners, a new Connect call gets
// a fresh Session with freshly attached listeners.
//
// Every and Stop manage recurring timers in the registry's central table,
// keyed under this channel's namespace, so a timer started on connect can
// always be found and cancelled on disconnect.
type Session interface {
	// Channel returns the channel name this session is bound to.
	Channel() string

	// OnConnect registers fn to run after every successful (re)connect.
	OnConnect(fn func())

	// OnDisconnect registers fn to run after every connection loss or close.
	OnDisconnect(fn func())

	// On registers fn for a named inbound event. Events are dispatched in
	// delivery order, one at a time.
	On(event string, fn func(data json.RawMessage))

	// Emit sends a named event to the server. Fire-and-best-effort: when the
	// channel is not connected the event is dropped, never queued.
	Emit(event string, payload any)

	// Every starts a recurring timer named within this channel's namespace.
	// Starting a timer under an existing name replaces it.
	Every(name string, d time.Duration, fn func())

	// Stop cancels a timer previously started with Every.
	Stop(name string)
}
