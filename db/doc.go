// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db manages the database schema for the D21 ledger.

# Tables

Every record is keyed by its deterministic address (see package pda), so
the PRIMARY KEY doubles as the create-if-absent guard: inserting at an
occupied address fails with a unique violation, which the engine maps to
the account-in-use class of errors.

  - poll: one per (authority, poll_id); options_count and ended are the
    only fields the engine ever updates after creation
  - option_node: one per (poll, index); vote tallies only ever increase
  - label_guard: one per (poll, canonical label fingerprint); never
    updated or deleted, existence alone is the uniqueness guard
  - voter_ledger: one per (poll, voter), created lazily on first vote
  - receipt: one per (poll, option, voter); permanent
  - event: append-only OptionAdded / VoteCast notifications

# Drivers

The schema runs unchanged on sqlite (modernc.org/sqlite) and postgres
(lib/pq). Timestamps are unix seconds written by the application.
IsUniqueViolation normalizes the two drivers' constraint error strings.
*/
package db
