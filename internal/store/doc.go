// Package store implements the State Store component.
//
// The Store:
//   - Holds one slice per synchronized domain
//   - Accepts mutations only through named action methods
//   - Serializes all actions behind a single mutex
//   - Caps append-fed slices at fixed lengths (newest first)
//   - Fans out lossy Change events to subscribers for re-render triggers
//
// Channel handlers and the bootstrap fetcher both converge on the same
// actions, so bootstrap resolution and channel delivery can interleave in
// any order: the last applied action wins.
package store
