// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Sentiment values accepted by CastVote
const (
	SentimentPlus  int8 = 1
	SentimentMinus int8 = -1
)

// Request types

type CreatePollRequest struct {
	PollID       uint64 `json:"poll_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PlusCredits  uint8  `json:"plus_credits"`
	MinusCredits uint8  `json:"minus_credits"`
	StartTS      int64  `json:"start_ts"`
	EndTS        int64  `json:"end_ts"`
}

type AddOptionRequest struct {
	Index uint16 `json:"index"`
	Label string `json:"label"`
	// LabelFingerprint is the hex SHA-256 of the canonicalized label,
	// computed client-side and re-verified by the engine.
	LabelFingerprint string `json:"label_fingerprint"`
}

type CastVoteRequest struct {
	Index     uint16 `json:"index"`
	Sentiment int8   `json:"sentiment"`
}

// Response types

type ClaimIdentityResponse struct {
	Identity    string `json:"identity"`
	IdentityKey string `json:"identity_key"`
}

type CreatePollResponse struct {
	PollAddress string `json:"poll_address"`
	Bump        uint8  `json:"bump"`
}

type AddOptionResponse struct {
	OptionAddress string `json:"option_address"`
}

type CastVoteResponse struct {
	ReceiptAddress string `json:"receipt_address"`
	OptionIndex    uint16 `json:"option_index"`
	Sentiment      int8   `json:"sentiment"`
	UsedPlus       uint8  `json:"used_plus"`
	UsedMinus      uint8  `json:"used_minus"`
}

// Domain types

type Poll struct {
	Address      string `json:"address"`
	Authority    string `json:"authority"`
	PollID       uint64 `json:"poll_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PlusCredits  uint8  `json:"plus_credits"`
	MinusCredits uint8  `json:"minus_credits"`
	StartTS      int64  `json:"start_ts"`
	EndTS        int64  `json:"end_ts"`
	OptionsCount uint16 `json:"options_count"`
	Ended        bool   `json:"ended"`
	CreatedAt    int64  `json:"created_at"`
}

type OptionNode struct {
	Address     string `json:"address"`
	PollAddress string `json:"poll_address"`
	Index       uint16 `json:"index"`
	Label       string `json:"label"`
	PlusVotes   uint32 `json:"plus_votes"`
	MinusVotes  uint32 `json:"minus_votes"`
}

type VoterLedger struct {
	Address     string `json:"address"`
	PollAddress string `json:"poll_address"`
	Voter       string `json:"voter"`
	UsedPlus    uint8  `json:"used_plus"`
	UsedMinus   uint8  `json:"used_minus"`
}

type Receipt struct {
	Address     string `json:"address"`
	PollAddress string `json:"poll_address"`
	Voter       string `json:"voter"`
	OptionIndex uint16 `json:"option_index"`
	Sentiment   int8   `json:"sentiment"`
	CreatedAt   int64  `json:"created_at"`
}

type Event struct {
	ID          string `json:"id"`
	PollAddress string `json:"poll_address"`
	Kind        string `json:"kind"`
	Payload     any    `json:"payload"`
	CreatedAt   int64  `json:"created_at"`
}

// Read-side composite types

type PollWithOptions struct {
	Poll    Poll         `json:"poll"`
	Options []OptionNode `json:"options"`
	// Opens and Closes are advisory human phrasings of the window,
	// e.g. "2 hours from now".
	Opens  string `json:"opens"`
	Closes string `json:"closes"`
}

// RankingEntry is one row of the read-side net-score ranking. Tied net
// scores share a rank.
type RankingEntry struct {
	Index      uint16 `json:"index"`
	Label      string `json:"label"`
	PlusVotes  uint32 `json:"plus_votes"`
	MinusVotes uint32 `json:"minus_votes"`
	Net        int64  `json:"net"`
	Rank       int    `json:"rank"`
}

type ResultsResponse struct {
	Poll     Poll           `json:"poll"`
	Rankings []RankingEntry `json:"rankings"`
	// Winners holds the indices tied at the top net score.
	Winners []uint16 `json:"winners"`
}

type LedgerResponse struct {
	Ledger   VoterLedger `json:"ledger"`
	Receipts []Receipt   `json:"receipts"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
