// Package handler contains one Channel Handler per data domain. A handler
// is a pure mapping from a fresh channel session to attached listeners:
//
//   - connect: request initial snapshots, start namespaced timers
//   - domain events: decode with defaulted fields, dispatch exactly one
//     store action (plus an independent notification where warranted)
//   - disconnect: stop the timers started on connect
//
// Handlers never touch each other's slices and never block; they run in the
// channel's single read goroutine, so per-channel event order is preserved.
package handler
