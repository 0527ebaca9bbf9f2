// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/d21-ledger/pda"
	"github.com/danielhkuo/d21-ledger/testutil"
)

func newTestEngine(t *testing.T) (*Engine, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return New(conn), conn
}

func validConfig(pollID uint64) PollConfig {
	now := time.Now().Unix()
	return PollConfig{
		PollID:       pollID,
		Title:        "Team lunch vote",
		Description:  "Pick the places you like, veto the ones you don't",
		PlusCredits:  3,
		MinusCredits: 1,
		StartTS:      now + 3600,
		EndTS:        now + 7200,
	}
}

func assertEngineErr(t *testing.T, got error, want *Error) {
	t.Helper()
	if !errors.Is(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestInitializePoll(t *testing.T) {
	eng, conn := newTestEngine(t)
	defer conn.Close()

	cfg := validConfig(7)
	poll, bump, err := eng.InitializePoll("authority-1", cfg)
	if err != nil {
		t.Fatalf("InitializePoll failed: %v", err)
	}

	wantAddr, wantBump := pda.Poll("authority-1", 7)
	if poll.Address != wantAddr {
		t.Errorf("Expected derived address %s, got %s", wantAddr, poll.Address)
	}
	if bump != wantBump {
		t.Errorf("Expected bump %d, got %d", wantBump, bump)
	}
	if poll.OptionsCount != 0 || poll.Ended {
		t.Errorf("Fresh poll should have options_count=0 and ended=false, got %d / %v",
			poll.OptionsCount, poll.Ended)
	}

	// Record persisted with the same fields
	var title string
	var plusCredits uint8
	err = conn.QueryRow(`SELECT title, plus_credits FROM poll WHERE address = $1`, poll.Address).
		Scan(&title, &plusCredits)
	if err != nil {
		t.Fatalf("Failed to query poll: %v", err)
	}
	if title != cfg.Title || plusCredits != cfg.PlusCredits {
		t.Errorf("Stored poll does not match config: %q / %d", title, plusCredits)
	}
}

func TestInitializePollValidation(t *testing.T) {
	now := time.Now().Unix()

	tests := []struct {
		name    string
		mutate  func(cfg *PollConfig)
		wantErr *Error
	}{
		{
			name:    "zero poll id",
			mutate:  func(cfg *PollConfig) { cfg.PollID = 0 },
			wantErr: ErrInvalidPollID,
		},
		{
			name:    "title too long",
			mutate:  func(cfg *PollConfig) { cfg.Title = strings.Repeat("x", 65) },
			wantErr: ErrTitleTooLong,
		},
		{
			name:    "title at limit is fine",
			mutate:  func(cfg *PollConfig) { cfg.Title = strings.Repeat("x", 64) },
			wantErr: nil,
		},
		{
			name:    "description too long",
			mutate:  func(cfg *PollConfig) { cfg.Description = strings.Repeat("x", 257) },
			wantErr: ErrDescriptionTooLong,
		},
		{
			name:    "zero plus credits",
			mutate:  func(cfg *PollConfig) { cfg.PlusCredits = 0 },
			wantErr: ErrZeroPlusCredit,
		},
		{
			name:    "zero minus credits is fine",
			mutate:  func(cfg *PollConfig) { cfg.MinusCredits = 0 },
			wantErr: nil,
		},
		{
			name: "start after end",
			mutate: func(cfg *PollConfig) {
				cfg.StartTS = now + 7200
				cfg.EndTS = now + 3600
			},
			wantErr: ErrInvalidTimeWindow,
		},
		{
			name: "start equals end",
			mutate: func(cfg *PollConfig) {
				cfg.StartTS = now + 3600
				cfg.EndTS = now + 3600
			},
			wantErr: ErrInvalidTimeWindow,
		},
		{
			name:    "start in the past",
			mutate:  func(cfg *PollConfig) { cfg.StartTS = now - 10 },
			wantErr: ErrInvalidTimeWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, conn := newTestEngine(t)
			defer conn.Close()

			cfg := validConfig(1)
			tt.mutate(&cfg)

			_, _, err := eng.InitializePoll("authority-1", cfg)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}
			assertEngineErr(t, err, tt.wantErr)

			// First failure wins and nothing is written
			var count int
			if err := conn.QueryRow(`SELECT COUNT(*) FROM poll`).Scan(&count); err != nil {
				t.Fatalf("Failed to count polls: %v", err)
			}
			if count != 0 {
				t.Errorf("Rejected InitializePoll left %d poll rows", count)
			}
		})
	}
}

func TestInitializePollDuplicate(t *testing.T) {
	eng, conn := newTestEngine(t)
	defer conn.Close()

	if _, _, err := eng.InitializePoll("authority-1", validConfig(7)); err != nil {
		t.Fatalf("First InitializePoll failed: %v", err)
	}

	// Same (authority, poll_id) collides on the derived address
	_, _, err := eng.InitializePoll("authority-1", validConfig(7))
	assertEngineErr(t, err, ErrPollAlreadyExists)

	// Different poll_id or different authority is a different scope
	if _, _, err := eng.InitializePoll("authority-1", validConfig(8)); err != nil {
		t.Errorf("Different poll_id should succeed: %v", err)
	}
	if _, _, err := eng.InitializePoll("authority-2", validConfig(7)); err != nil {
		t.Errorf("Different authority should succeed: %v", err)
	}
}
