// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/d21-ledger/cliparse"
	"github.com/danielhkuo/d21-ledger/engine"
	"github.com/danielhkuo/d21-ledger/middleware"
	"github.com/danielhkuo/d21-ledger/models"
)

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	eng *engine.Engine
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg, eng: engine.New(db)}
}

// CreatePoll handles POST /polls
// The authenticated caller becomes the poll authority; the poll lives at
// the address derived from (authority, poll_id), so resubmitting the
// same poll_id conflicts.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	authority, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, bump, err := h.eng.InitializePoll(authority, engine.PollConfig{
		PollID:       req.PollID,
		Title:        req.Title,
		Description:  req.Description,
		PlusCredits:  req.PlusCredits,
		MinusCredits: req.MinusCredits,
		StartTS:      req.StartTS,
		EndTS:        req.EndTS,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollAddress: poll.Address,
		Bump:        bump,
	})
}

// AddOption handles POST /polls/{address}/options
// Authority-only, pre-start only.
func (h *PollHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	pollAddress := r.PathValue("address")
	if pollAddress == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll address is required")
		return
	}

	caller, ok := requireIdentity(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.AddOptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	option, err := h.eng.AddOption(caller, pollAddress, req.Index, req.Label, req.LabelFingerprint)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddOptionResponse{
		OptionAddress: option.Address,
	})
}
