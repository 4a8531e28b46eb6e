// Package app implements the Initialization Sequencer: Init wires the
// store, registry, handlers, channels, and bootstrap fetches together;
// Teardown disconnects everything. All entities live between Init and
// Teardown; nothing persists across restarts.
package app
