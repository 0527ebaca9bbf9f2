// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pda

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// Record size limits, shared by the engine and client-side validation.
const (
	MaxTitle       = 64
	MaxDescription = 256
	MaxLabel       = 64
)

// Domain tags. These fix the scope of each record kind: two derivations
// can only collide if tag and every part are byte-identical.
const (
	tagPoll       = "poll"
	tagOption     = "option"
	tagLabelGuard = "option_label"
	tagVoter      = "voter"
	tagReceipt    = "receipt"
)

// Derive maps a domain tag and a tuple of identity parts to a storage
// address and a disambiguation nonce. Each part is length-prefixed before
// hashing so part boundaries are unambiguous across scopes.
func Derive(tag string, parts ...[]byte) (string, byte) {
	h := sha256.New()
	h.Write([]byte(tag))
	for _, p := range parts {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum), sum[len(sum)-1]
}

// Poll derives the address of a poll record from its authority identity
// and caller-chosen poll id.
func Poll(authority string, pollID uint64) (string, byte) {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], pollID)
	return Derive(tagPoll, []byte(authority), id[:])
}

// Option derives the address of an option record from its poll and index.
func Option(pollAddress string, index uint16) (string, byte) {
	var idx [2]byte
	binary.LittleEndian.PutUint16(idx[:], index)
	return Derive(tagOption, []byte(pollAddress), idx[:])
}

// LabelGuard derives the address of the uniqueness guard for a canonical
// label within a poll. The guard keys on the label fingerprint, so case
// and whitespace variants of one label always resolve to the same address.
func LabelGuard(pollAddress string, fingerprint [32]byte) (string, byte) {
	return Derive(tagLabelGuard, []byte(pollAddress), fingerprint[:])
}

// Voter derives the address of a voter ledger record within a poll.
func Voter(pollAddress, voter string) (string, byte) {
	return Derive(tagVoter, []byte(pollAddress), []byte(voter))
}

// Receipt derives the address of the vote receipt for one
// (poll, option, voter) triple.
func Receipt(pollAddress string, index uint16, voter string) (string, byte) {
	var idx [2]byte
	binary.LittleEndian.PutUint16(idx[:], index)
	return Derive(tagReceipt, []byte(pollAddress), idx[:], []byte(voter))
}

// Canonicalize normalizes a label for uniqueness comparison: leading and
// trailing whitespace is trimmed and the remainder lowercased.
func Canonicalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Fingerprint hashes the canonical form of a label. Clients derive guard
// addresses from this value; the engine recomputes it and rejects
// submissions whose supplied fingerprint does not match.
func Fingerprint(label string) [32]byte {
	return sha256.Sum256([]byte(Canonicalize(label)))
}

// FingerprintHex is Fingerprint encoded for transport.
func FingerprintHex(label string) string {
	f := Fingerprint(label)
	return hex.EncodeToString(f[:])
}
