// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
d21-ledger is a voting service implementing the D21 (Janeček) method on a
deterministic, content-addressed account ledger.

An authority initializes a poll with a time window and per-voter plus and
minus credit budgets, registers options before the window opens, and
anyone with a claimed identity casts +1/-1 votes while it is open. Minus
votes are ratio-gated: a voter needs two banked positive votes for every
negative, including the one being cast.

All uniqueness - one poll per (authority, id), one option per index, one
canonical label per poll, one vote per (voter, option) - is enforced
structurally through deterministic record addressing, not through
lookups: creating a record at an occupied address fails atomically.

Run with:

	d21-ledger -d d21.db -t sqlite -identity-salt <salt>

or configure via PORT, DATABASE_URL, DATABASE_TYPE and IDENTITY_KEY_SALT
(a .env file is honored).
*/
package main
