// Package journal implements the optional Postgres event journal: a batch
// writer that archives incremental sync events and notifications for later
// analysis. Disabled unless a DSN is configured.
//
// Schema:
//
//	CREATE TABLE sync_events (
//	    id         BIGSERIAL PRIMARY KEY,
//	    domain     TEXT   NOT NULL,
//	    action     TEXT   NOT NULL,
//	    payload    JSONB  NOT NULL,
//	    created_at BIGINT NOT NULL -- µs since epoch
//	);
package journal
