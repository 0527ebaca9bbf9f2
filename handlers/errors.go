// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/d21-ledger/engine"
	"github.com/danielhkuo/d21-ledger/middleware"
)

// statusForCode maps the engine's stable rejection codes onto HTTP
// statuses: validation 400, authorization 401, missing resources 404,
// temporal / collision / budget conflicts 409.
var statusForCode = map[string]int{
	engine.ErrInvalidPollID.Code:       http.StatusBadRequest,
	engine.ErrTitleTooLong.Code:        http.StatusBadRequest,
	engine.ErrDescriptionTooLong.Code:  http.StatusBadRequest,
	engine.ErrZeroPlusCredit.Code:      http.StatusBadRequest,
	engine.ErrInvalidTimeWindow.Code:   http.StatusBadRequest,
	engine.ErrEmptyLabel.Code:          http.StatusBadRequest,
	engine.ErrLabelTooLong.Code:        http.StatusBadRequest,
	engine.ErrFingerprintMismatch.Code: http.StatusBadRequest,
	engine.ErrInvalidSentiment.Code:    http.StatusBadRequest,

	engine.ErrUnauthorized.Code: http.StatusUnauthorized,

	engine.ErrPollNotFound.Code:   http.StatusNotFound,
	engine.ErrOptionNotFound.Code: http.StatusNotFound,

	engine.ErrVotingAlreadyStarted.Code: http.StatusConflict,
	engine.ErrVotingNotOpen.Code:        http.StatusConflict,
	engine.ErrVotingClosed.Code:         http.StatusConflict,

	engine.ErrPollAlreadyExists.Code:      http.StatusConflict,
	engine.ErrOptionIndexInUse.Code:       http.StatusConflict,
	engine.ErrLabelAlreadyUsed.Code:       http.StatusConflict,
	engine.ErrAlreadyVotedThisOption.Code: http.StatusConflict,

	engine.ErrOutOfPositiveCredits.Code:             http.StatusConflict,
	engine.ErrOutOfNegativeCredits.Code:             http.StatusConflict,
	engine.ErrInsufficientPositivesForNegative.Code: http.StatusConflict,

	engine.ErrMathOverflow.Code: http.StatusConflict,
}

// writeEngineError surfaces an engine rejection verbatim, or a generic
// 500 for anything that is not a typed rejection.
func writeEngineError(w http.ResponseWriter, err error) {
	var e *engine.Error
	if errors.As(err, &e) {
		status, ok := statusForCode[e.Code]
		if !ok {
			status = http.StatusConflict
		}
		middleware.CodedErrorResponse(w, status, e.Code, e.Message)
		return
	}

	slog.Error("operation failed", "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}
