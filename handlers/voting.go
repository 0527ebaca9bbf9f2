// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/d21-ledger/cliparse"
	"github.com/danielhkuo/d21-ledger/engine"
	"github.com/danielhkuo/d21-ledger/middleware"
	"github.com/danielhkuo/d21-ledger/models"
	"github.com/danielhkuo/d21-ledger/pda"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	eng *engine.Engine
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, eng: engine.New(db)}
}

// CastVote handles POST /polls/{address}/votes
// Any authenticated identity may vote; the engine enforces the credit
// budget, the ratio gate, and one receipt per (voter, option).
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollAddress := r.PathValue("address")
	if pollAddress == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll address is required")
		return
	}

	voter, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.eng.CastVote(voter, pollAddress, req.Index, req.Sentiment)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, result)
}

// GetLedger handles GET /polls/{address}/ledger
// Returns the caller's credit usage and receipts for this poll, which is
// what a UI needs to grey out already-voted options.
func (h *VotingHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	pollAddress := r.PathValue("address")
	if pollAddress == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll address is required")
		return
	}

	voter, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	// Verify the poll exists before deriving per-voter addresses
	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM poll WHERE address = $1)
	`, pollAddress).Scan(&exists)
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	voterAddress, _ := pda.Voter(pollAddress, voter)
	ledger := models.VoterLedger{
		Address:     voterAddress,
		PollAddress: pollAddress,
		Voter:       voter,
	}

	// A voter with no ledger row simply has not voted yet
	err = h.db.QueryRow(`
		SELECT used_plus, used_minus FROM voter_ledger WHERE address = $1
	`, voterAddress).Scan(&ledger.UsedPlus, &ledger.UsedMinus)
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to query voter ledger", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT address, option_index, sentiment, created_at
		FROM receipt
		WHERE poll_address = $1 AND voter = $2
		ORDER BY option_index
	`, pollAddress, voter)
	if err != nil {
		slog.Error("failed to query receipts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	receipts := []models.Receipt{}
	for rows.Next() {
		rcpt := models.Receipt{PollAddress: pollAddress, Voter: voter}
		if err := rows.Scan(&rcpt.Address, &rcpt.OptionIndex, &rcpt.Sentiment, &rcpt.CreatedAt); err != nil {
			slog.Error("failed to scan receipt", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		receipts = append(receipts, rcpt)
	}

	middleware.JSONResponse(w, http.StatusOK, models.LedgerResponse{
		Ledger:   ledger,
		Receipts: receipts,
	})
}
