// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"log/slog"

	"github.com/danielhkuo/d21-ledger/db"
	"github.com/danielhkuo/d21-ledger/models"
	"github.com/danielhkuo/d21-ledger/pda"
)

// PollConfig carries the caller-chosen parameters of InitializePoll.
// Everything except options_count and ended is immutable once created.
type PollConfig struct {
	PollID       uint64
	Title        string
	Description  string
	PlusCredits  uint8
	MinusCredits uint8
	StartTS      int64
	EndTS        int64
}

// InitializePoll creates a poll record at the address derived from
// (authority, poll_id). Validation order is fixed; the first failure
// wins and nothing is written. Re-invoking with the same identity pair
// collides on the address and fails with ErrPollAlreadyExists - that
// collision is the idempotency guard, not a separate check.
func (e *Engine) InitializePoll(authority string, cfg PollConfig) (*models.Poll, uint8, error) {
	if cfg.PollID == 0 {
		return nil, 0, ErrInvalidPollID
	}
	if len(cfg.Title) > pda.MaxTitle {
		return nil, 0, ErrTitleTooLong
	}
	if len(cfg.Description) > pda.MaxDescription {
		return nil, 0, ErrDescriptionTooLong
	}
	if cfg.PlusCredits == 0 {
		return nil, 0, ErrZeroPlusCredit
	}

	now := e.now().Unix()
	if cfg.StartTS >= cfg.EndTS || cfg.StartTS < now {
		return nil, 0, ErrInvalidTimeWindow
	}

	address, bump := pda.Poll(authority, cfg.PollID)

	_, err := e.db.Exec(`
		INSERT INTO poll (address, authority, poll_id, title, description,
		                  plus_credits, minus_credits, start_ts, end_ts,
		                  options_count, ended, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, FALSE, $10)
	`, address, authority, cfg.PollID, cfg.Title, cfg.Description,
		cfg.PlusCredits, cfg.MinusCredits, cfg.StartTS, cfg.EndTS, now)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, 0, ErrPollAlreadyExists
		}
		return nil, 0, fmt.Errorf("failed to insert poll: %w", err)
	}

	slog.Info("poll initialized",
		"poll", address,
		"authority", authority,
		"poll_id", cfg.PollID,
		"start_ts", cfg.StartTS,
		"end_ts", cfg.EndTS,
	)

	return &models.Poll{
		Address:      address,
		Authority:    authority,
		PollID:       cfg.PollID,
		Title:        cfg.Title,
		Description:  cfg.Description,
		PlusCredits:  cfg.PlusCredits,
		MinusCredits: cfg.MinusCredits,
		StartTS:      cfg.StartTS,
		EndTS:        cfg.EndTS,
		OptionsCount: 0,
		Ended:        false,
		CreatedAt:    now,
	}, bump, nil
}
