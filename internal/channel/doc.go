// Package channel implements the Channel Registry / Connection Manager.
//
// The Registry:
//   - Owns one WebSocket connection per logical channel name, addressed as
//     a sub-path of the base endpoint (channel "prices" ↔ "<base>/prices")
//   - Re-applies the registered handler on every Connect with a fresh
//     session, so listeners never accumulate across reopen
//   - Guarantees at most one live connection per channel name
//   - Keeps the central table of named recurring timers, keyed
//     "<channel>.<name>", with clear-before-set overwrite semantics
//
// Reconnection after a transport failure is owned by the per-channel
// client (exponential backoff); the registry's only reconnect duty is that
// a session's connect listeners run once per successful (re)connect and
// its timers were already cancelled by the paired disconnect path.
package channel
