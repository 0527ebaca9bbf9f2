// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine is the D21 ledger state machine.

Three operations compose a linear lifecycle per poll:

	InitializePoll -> AddOption (repeatable, pre-start only) -> CastVote (inside the window)

Each operation is atomic and all-or-nothing: it validates everything
before mutating anything, inside one database transaction, and every
rejection is a typed *Error with a stable code and zero side effects.

There is no registry and no locking. Every record's primary key is its
deterministic address (package pda), so uniqueness and double-vote
protection come from create-if-absent semantics: the second insert at an
occupied address fails, the transaction rolls back, and the caller sees
the collision error. Two duplicate CastVote submissions racing on the
same (poll, option, voter) receipt therefore cannot double-spend a
credit - exactly one commits.

The D21 rules enforced on every vote:

  - one receipt per (voter, option), permanent
  - used_plus <= plus_credits, used_minus <= minus_credits
  - a minus vote requires used_plus >= 2*(used_minus+1) before the
    increment, i.e. two banked positives per negative including the one
    being cast

Counter arithmetic is checked and rejects on would-be overflow rather
than wrapping. Successful AddOption and CastVote append OptionAdded /
VoteCast event rows in the same transaction for off-chain observers.
*/
package engine
