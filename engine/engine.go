// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"
	"math"
	"time"

	"github.com/danielhkuo/d21-ledger/models"
)

// Engine executes the three ledger operations atomically against the
// database. Every operation validates first and mutates last, inside a
// single transaction, so a rejection is always a no-op on state.
type Engine struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// getPoll loads a poll record inside a transaction.
// Returns ErrPollNotFound if no record exists at the address.
func getPoll(tx *sql.Tx, address string) (*models.Poll, error) {
	var p models.Poll
	err := tx.QueryRow(`
		SELECT address, authority, poll_id, title, description,
		       plus_credits, minus_credits, start_ts, end_ts,
		       options_count, ended, created_at
		FROM poll
		WHERE address = $1
	`, address).Scan(
		&p.Address, &p.Authority, &p.PollID, &p.Title, &p.Description,
		&p.PlusCredits, &p.MinusCredits, &p.StartTS, &p.EndTS,
		&p.OptionsCount, &p.Ended, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPollNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Counter arithmetic is checked: credits bound usage far below the type
// ceilings, but the engine never assumes that.

func addU8(a, b uint8) (uint8, error) {
	if a > math.MaxUint8-b {
		return 0, ErrMathOverflow
	}
	return a + b, nil
}

func addU32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, ErrMathOverflow
	}
	return a + b, nil
}
