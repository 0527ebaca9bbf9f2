// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the D21 ledger API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - IdentityHandler: identity claims
  - PollHandler: InitializePoll and AddOption (the authority's operations)
  - VotingHandler: CastVote and the caller's voter ledger
  - ResultsHandler: poll views, net-score rankings, event feed

Handlers are created via constructor functions that accept *sql.DB and
Config; the mutating handlers build an engine.Engine internally:

	pollHandler := handlers.NewPollHandler(db, cfg)

# Operation Flow

	POST /identities                → Claim (returns identity + key)
	POST /polls                     → CreatePoll (caller becomes authority)
	POST /polls/{address}/options   → AddOption (authority, pre-start only)
	POST /polls/{address}/votes     → CastVote (any identity, inside window)

All three operations require X-Identity and X-Identity-Key headers.

# Read Side

	GET /polls/{address}          → poll + options
	GET /polls/{address}/results  → net-score ranking (advisory, live)
	GET /polls/{address}/ledger   → caller's credit usage + receipts
	GET /polls/{address}/events   → OptionAdded / VoteCast feed

# Errors

Engine rejections pass through writeEngineError, which preserves the
stable rejection code in the JSON body so clients can match on it.
*/
package handlers
