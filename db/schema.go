// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the ledger.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a primary-key or unique
// constraint failure. The two supported drivers surface these as
// different error strings, so both are matched.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // modernc.org/sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // lib/pq
}

// Timestamps are stored as unix seconds and written by the application,
// never by column defaults, so the schema stays portable between sqlite
// and postgres.
const schema = `
-- Polls: one record per (authority, poll_id), keyed by derived address
CREATE TABLE IF NOT EXISTS poll (
    address TEXT PRIMARY KEY,
    authority TEXT NOT NULL,
    poll_id BIGINT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    plus_credits INTEGER NOT NULL,
    minus_credits INTEGER NOT NULL,
    start_ts BIGINT NOT NULL,
    end_ts BIGINT NOT NULL,
    options_count INTEGER NOT NULL DEFAULT 0,
    ended BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_authority ON poll(authority);

-- Option nodes: keyed by derived (poll, index) address
CREATE TABLE IF NOT EXISTS option_node (
    address TEXT PRIMARY KEY,
    poll_address TEXT NOT NULL REFERENCES poll(address),
    option_index INTEGER NOT NULL,
    label TEXT NOT NULL,
    plus_votes BIGINT NOT NULL DEFAULT 0,
    minus_votes BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_option_node_poll ON option_node(poll_address);

-- Label guards: existence alone enforces canonical-label uniqueness
CREATE TABLE IF NOT EXISTS label_guard (
    address TEXT PRIMARY KEY,
    poll_address TEXT NOT NULL REFERENCES poll(address),
    label_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

-- Voter ledgers: per-(poll, voter) credit usage, created lazily
CREATE TABLE IF NOT EXISTS voter_ledger (
    address TEXT PRIMARY KEY,
    poll_address TEXT NOT NULL REFERENCES poll(address),
    voter TEXT NOT NULL,
    used_plus INTEGER NOT NULL DEFAULT 0,
    used_minus INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_voter_ledger_poll ON voter_ledger(poll_address);

-- Receipts: permanent one-vote-per-option tombstones
CREATE TABLE IF NOT EXISTS receipt (
    address TEXT PRIMARY KEY,
    poll_address TEXT NOT NULL REFERENCES poll(address),
    voter TEXT NOT NULL,
    option_index INTEGER NOT NULL,
    sentiment INTEGER NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_receipt_poll_voter ON receipt(poll_address, voter);

-- Events: structured notifications for off-chain observers
CREATE TABLE IF NOT EXISTS event (
    id TEXT PRIMARY KEY,
    poll_address TEXT NOT NULL,
    kind TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_event_poll ON event(poll_address);
`
