// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

// Error is a typed rejection. Code is stable and machine-matchable;
// every failed operation leaves state untouched.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Input validation
var (
	ErrInvalidPollID       = &Error{"InvalidPollID", "poll id must be non-zero"}
	ErrTitleTooLong        = &Error{"TitleTooLong", "title too long"}
	ErrDescriptionTooLong  = &Error{"DescriptionTooLong", "description too long"}
	ErrZeroPlusCredit      = &Error{"ZeroPlusCredit", "plus credits must be greater than zero"}
	ErrInvalidTimeWindow   = &Error{"InvalidTimeWindow", "invalid voting time window"}
	ErrEmptyLabel          = &Error{"EmptyLabel", "option label is empty"}
	ErrLabelTooLong        = &Error{"LabelTooLong", "option label too long"}
	ErrFingerprintMismatch = &Error{"FingerprintMismatch", "label fingerprint does not match the label"}
	ErrInvalidSentiment    = &Error{"InvalidSentiment", "sentiment must be +1 or -1"}
)

// Authorization
var ErrUnauthorized = &Error{"Unauthorized", "caller is not the poll authority"}

// Temporal
var (
	ErrVotingAlreadyStarted = &Error{"VotingAlreadyStarted", "cannot add options after voting has started"}
	ErrVotingNotOpen        = &Error{"VotingNotOpen", "voting has not started"}
	ErrVotingClosed         = &Error{"VotingClosed", "voting is closed"}
)

// Resource / uniqueness collisions (account-in-use class)
var (
	ErrPollAlreadyExists      = &Error{"PollAlreadyExists", "a poll already exists at this address"}
	ErrOptionIndexInUse       = &Error{"OptionIndexInUse", "an option already exists at this index"}
	ErrLabelAlreadyUsed       = &Error{"LabelAlreadyUsed", "option label already exists for this poll"}
	ErrAlreadyVotedThisOption = &Error{"AlreadyVotedThisOption", "already voted on this option"}
)

// Budget
var (
	ErrOutOfPositiveCredits             = &Error{"OutOfPositiveCredits", "out of positive credits"}
	ErrOutOfNegativeCredits             = &Error{"OutOfNegativeCredits", "out of negative credits"}
	ErrInsufficientPositivesForNegative = &Error{"InsufficientPositivesForNegative", "not enough positive votes to cast a negative vote (need P >= 2*(M+1))"}
)

// Missing resources
var (
	ErrPollNotFound   = &Error{"PollNotFound", "poll not found"}
	ErrOptionNotFound = &Error{"OptionNotFound", "option not found"}
)

// Arithmetic
var ErrMathOverflow = &Error{"MathOverflow", "counter overflow"}
