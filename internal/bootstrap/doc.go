// Package bootstrap implements the Bootstrap Fetcher: one-shot REST reads
// that seed the store before or alongside channel connection. Fetches are
// independent of channel state; a failed fetch is logged and not retried
// until the next natural trigger (typically a channel reconnect requesting
// a fresh snapshot).
package bootstrap
