// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/d21-ledger/auth"
	"github.com/danielhkuo/d21-ledger/cliparse"
	"github.com/danielhkuo/d21-ledger/middleware"
	"github.com/danielhkuo/d21-ledger/models"
)

type IdentityHandler struct {
	cfg cliparse.Config
}

func NewIdentityHandler(cfg cliparse.Config) *IdentityHandler {
	return &IdentityHandler{cfg: cfg}
}

// Claim handles POST /identities
// Mints a fresh identity and its HMAC key. The key is recomputable from
// the salt, so nothing is stored.
func (h *IdentityHandler) Claim(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim identity")
		return
	}

	key := auth.GenerateIdentityKey(identity, h.cfg.IdentityKeySalt)

	slog.Info("identity claimed", "identity", identity)

	middleware.JSONResponse(w, http.StatusCreated, models.ClaimIdentityResponse{
		Identity:    identity,
		IdentityKey: key,
	})
}

// requireIdentity authenticates the X-Identity / X-Identity-Key headers
// and returns the caller's identity. On failure it writes the response
// and returns ok=false.
func requireIdentity(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) (string, bool) {
	identity := r.Header.Get("X-Identity")
	key := r.Header.Get("X-Identity-Key")

	if identity == "" || key == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Identity and X-Identity-Key headers required")
		return "", false
	}

	if err := auth.ValidateIdentityKey(identity, key, cfg.IdentityKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid identity key")
		return "", false
	}

	return identity, true
}
