// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/danielhkuo/d21-ledger/db"
	"github.com/danielhkuo/d21-ledger/models"
	"github.com/danielhkuo/d21-ledger/pda"
)

// AddOption registers an option on a poll before voting starts.
//
// Uniqueness is structural: the label guard keys on the canonical label
// fingerprint and the option node keys on the index, so a duplicate of
// either collides on insert and rolls the whole operation back. Indices
// need not be contiguous; options_count tracks max(index)+1.
func (e *Engine) AddOption(caller, pollAddress string, index uint16, label, labelFingerprint string) (*models.OptionNode, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	poll, err := getPoll(tx, pollAddress)
	if err != nil {
		return nil, err
	}

	if poll.Ended {
		return nil, ErrVotingClosed
	}
	if e.now().Unix() >= poll.StartTS {
		return nil, ErrVotingAlreadyStarted
	}
	if caller != poll.Authority {
		return nil, ErrUnauthorized
	}

	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return nil, ErrEmptyLabel
	}
	if len(trimmed) > pda.MaxLabel {
		return nil, ErrLabelTooLong
	}

	// Recompute the fingerprint server-side. Trusting the supplied value
	// would let a caller claim a guard address unrelated to the label.
	fingerprint := pda.Fingerprint(label)
	if !strings.EqualFold(labelFingerprint, pda.FingerprintHex(label)) {
		return nil, ErrFingerprintMismatch
	}

	now := e.now().Unix()

	guardAddress, _ := pda.LabelGuard(pollAddress, fingerprint)
	_, err = tx.Exec(`
		INSERT INTO label_guard (address, poll_address, label_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, guardAddress, pollAddress, pda.FingerprintHex(label), now)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrLabelAlreadyUsed
		}
		return nil, fmt.Errorf("failed to insert label guard: %w", err)
	}

	// The stored label is the trimmed form, keeping the field within its
	// size bound regardless of submitted padding.
	optionAddress, _ := pda.Option(pollAddress, index)
	_, err = tx.Exec(`
		INSERT INTO option_node (address, poll_address, option_index, label, plus_votes, minus_votes)
		VALUES ($1, $2, $3, $4, 0, 0)
	`, optionAddress, pollAddress, index, trimmed)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrOptionIndexInUse
		}
		return nil, fmt.Errorf("failed to insert option: %w", err)
	}

	// Sparse indices are allowed: count is max(count, index+1), saturating
	// at the uint16 ceiling.
	next := index
	if index < math.MaxUint16 {
		next = index + 1
	}
	if err := bumpOptionsCount(tx, pollAddress, next); err != nil {
		return nil, err
	}

	if err := emitEvent(tx, pollAddress, now, OptionAddedEvent{
		Poll:  pollAddress,
		Index: index,
		Label: trimmed,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("option added", "poll", pollAddress, "index", index, "label", trimmed)

	return &models.OptionNode{
		Address:     optionAddress,
		PollAddress: pollAddress,
		Index:       index,
		Label:       trimmed,
		PlusVotes:   0,
		MinusVotes:  0,
	}, nil
}

// bumpOptionsCount raises options_count to next unless the stored count
// is already at least that high. The comparison runs inside the
// statement, not on a value read earlier in the transaction, so a higher
// count committed by a concurrent registration is never overwritten.
func bumpOptionsCount(tx *sql.Tx, pollAddress string, next uint16) error {
	_, err := tx.Exec(`
		UPDATE poll SET options_count = $1
		WHERE address = $2 AND options_count < $1
	`, next, pollAddress)
	if err != nil {
		return fmt.Errorf("failed to update options count: %w", err)
	}
	return nil
}
