// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Event kinds
const (
	KindOptionAdded = "OptionAdded"
	KindVoteCast    = "VoteCast"
)

// OptionAddedEvent notifies observers that an option was registered.
type OptionAddedEvent struct {
	Poll  string `json:"poll"`
	Index uint16 `json:"index"`
	Label string `json:"label"`
}

// VoteCastEvent notifies observers of a successful vote, including the
// voter's credit usage after the vote.
type VoteCastEvent struct {
	Poll        string `json:"poll"`
	Voter       string `json:"voter"`
	OptionIndex uint16 `json:"option_index"`
	Sentiment   int8   `json:"sentiment"`
	UsedPlus    uint8  `json:"used_plus"`
	UsedMinus   uint8  `json:"used_minus"`
}

func kindOf(payload any) string {
	switch payload.(type) {
	case OptionAddedEvent:
		return KindOptionAdded
	case VoteCastEvent:
		return KindVoteCast
	}
	return "Unknown"
}

// emitEvent appends an event row inside the operation's transaction, so
// an event exists exactly when its operation committed.
func emitEvent(tx *sql.Tx, pollAddress string, now int64, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO event (id, poll_address, kind, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), pollAddress, kindOf(payload), string(raw), now)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}
