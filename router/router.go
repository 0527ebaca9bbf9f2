// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/d21-ledger/cliparse"
	"github.com/danielhkuo/d21-ledger/handlers"
	"github.com/danielhkuo/d21-ledger/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	identityHandler := handlers.NewIdentityHandler(cfg)
	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identity claims
	mux.HandleFunc("POST /identities", middleware.WithLogging(identityHandler.Claim))

	// Ledger operations
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("POST /polls/{address}/options", middleware.WithLogging(pollHandler.AddOption))
	mux.HandleFunc("POST /polls/{address}/votes", middleware.WithLogging(votingHandler.CastVote))

	// Read-only state (public)
	mux.HandleFunc("GET /polls/{address}", middleware.WithLogging(resultsHandler.GetPoll))
	mux.HandleFunc("GET /polls/{address}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /polls/{address}/events", middleware.WithLogging(resultsHandler.GetEvents))

	// Per-voter state (authenticated)
	mux.HandleFunc("GET /polls/{address}/ledger", middleware.WithLogging(votingHandler.GetLedger))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("d21-ledger API v1"))
	})

	return mux
}
