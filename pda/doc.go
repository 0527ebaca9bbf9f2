// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pda implements deterministic record addressing for the D21 ledger.

Every record the engine stores - polls, options, label guards, voter
ledgers, receipts - lives at an address derived from a fixed domain tag
plus the identifiers that scope it:

	Poll:       ("poll",         authority, poll_id LE8)
	OptionNode: ("option",       poll, index LE2)
	LabelGuard: ("option_label", poll, fingerprint(label))
	Voter:      ("voter",        poll, voter identity)
	Receipt:    ("receipt",      poll, index LE2, voter identity)

Addresses are the hex encoding of SHA-256 over the tag and the
length-prefixed parts. Identical inputs always derive the same address;
differing inputs cannot collide across scopes. The rest of the system
relies on this instead of locks or secondary indices: creating a record
at an address that is already occupied fails atomically, which is the
uniqueness and double-vote guard.

Derivation also yields a one-byte disambiguation nonce ("bump") so client
implementations that round-trip the same tuple can carry it alongside the
address.

Label uniqueness works on the canonical form:

	Canonicalize(label) = lowercase(trim(label))
	Fingerprint(label)  = SHA-256(Canonicalize(label))

Clients must compute the fingerprint themselves to derive the guard
address before submitting; the engine recomputes it server-side and
rejects mismatches.
*/
package pda
