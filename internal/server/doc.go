// Package server exposes the synchronized state over a read-only HTTP API:
// connection status, per-domain snapshots, and notifications. It is the
// in-process stand-in for the presentation layer, which reads state and
// never talks to the connection manager directly.
package server
