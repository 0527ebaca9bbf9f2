// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/danielhkuo/d21-ledger/cliparse"
	"github.com/danielhkuo/d21-ledger/middleware"
	"github.com/danielhkuo/d21-ledger/models"
	"github.com/dustin/go-humanize"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

func (h *ResultsHandler) queryPoll(pollAddress string) (*models.Poll, error) {
	var p models.Poll
	err := h.db.QueryRow(`
		SELECT address, authority, poll_id, title, description,
		       plus_credits, minus_credits, start_ts, end_ts,
		       options_count, ended, created_at
		FROM poll
		WHERE address = $1
	`, pollAddress).Scan(
		&p.Address, &p.Authority, &p.PollID, &p.Title, &p.Description,
		&p.PlusCredits, &p.MinusCredits, &p.StartTS, &p.EndTS,
		&p.OptionsCount, &p.Ended, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (h *ResultsHandler) queryOptions(pollAddress string) ([]models.OptionNode, error) {
	rows, err := h.db.Query(`
		SELECT address, poll_address, option_index, label, plus_votes, minus_votes
		FROM option_node
		WHERE poll_address = $1
		ORDER BY option_index
	`, pollAddress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.OptionNode{}
	for rows.Next() {
		var opt models.OptionNode
		if err := rows.Scan(&opt.Address, &opt.PollAddress, &opt.Index, &opt.Label, &opt.PlusVotes, &opt.MinusVotes); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// GetPoll handles GET /polls/{address}
// Returns the poll and its registered options. Indices may be sparse:
// an index below options_count with no option node was simply never added.
func (h *ResultsHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollAddress := r.PathValue("address")
	if pollAddress == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll address is required")
		return
	}

	poll, err := h.queryPoll(pollAddress)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	options, err := h.queryOptions(pollAddress)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollWithOptions{
		Poll:    *poll,
		Options: options,
		Opens:   humanize.Time(time.Unix(poll.StartTS, 0)),
		Closes:  humanize.Time(time.Unix(poll.EndTS, 0)),
	})
}

// GetResults handles GET /polls/{address}/results
// Net-score ranking (plus - minus, descending). This is a read-side
// convenience recomputed per request, never persisted; tied net scores
// share a rank and the top tie set is reported as winners.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollAddress := r.PathValue("address")
	if pollAddress == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll address is required")
		return
	}

	poll, err := h.queryPoll(pollAddress)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	options, err := h.queryOptions(pollAddress)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rankings := make([]models.RankingEntry, 0, len(options))
	for _, opt := range options {
		rankings = append(rankings, models.RankingEntry{
			Index:      opt.Index,
			Label:      opt.Label,
			PlusVotes:  opt.PlusVotes,
			MinusVotes: opt.MinusVotes,
			Net:        int64(opt.PlusVotes) - int64(opt.MinusVotes),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].Net != rankings[j].Net {
			return rankings[i].Net > rankings[j].Net
		}
		return rankings[i].Index < rankings[j].Index
	})

	// Standard competition ranking: ties share the rank of their first
	// position, the next distinct score skips past them.
	for i := range rankings {
		if i > 0 && rankings[i].Net == rankings[i-1].Net {
			rankings[i].Rank = rankings[i-1].Rank
		} else {
			rankings[i].Rank = i + 1
		}
	}

	winners := []uint16{}
	for _, entry := range rankings {
		if entry.Rank != 1 {
			break
		}
		winners = append(winners, entry.Index)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Poll:     *poll,
		Rankings: rankings,
		Winners:  winners,
	})
}

// GetEvents handles GET /polls/{address}/events
// Append-only feed of OptionAdded and VoteCast notifications.
func (h *ResultsHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	pollAddress := r.PathValue("address")
	if pollAddress == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll address is required")
		return
	}

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

	rows, err := h.db.Query(`
		SELECT id, kind, payload, created_at
		FROM event
		WHERE poll_address = $1
		ORDER BY created_at, id
	`, pollAddress)
	if err != nil {
		slog.Error("failed to query events", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var evt models.Event
		var payload []byte
		if err := rows.Scan(&evt.ID, &evt.Kind, &payload, &evt.CreatedAt); err != nil {
			slog.Error("failed to scan event", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		evt.PollAddress = pollAddress

		var decoded any
		if err := json.Unmarshal(payload, &decoded); err != nil {
			slog.Error("failed to parse event payload", "error", err, "event_id", evt.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to parse events")
			return
		}
		evt.Payload = decoded

		events = append(events, evt)
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}
