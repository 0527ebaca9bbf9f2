// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/d21-ledger/db"
	"github.com/danielhkuo/d21-ledger/models"
	"github.com/danielhkuo/d21-ledger/pda"
)

// CastVote spends one credit of the given sentiment on an option.
//
// The receipt at (poll, index, voter) is the one-vote-per-option guard:
// its insert fails on the second attempt, and because every check and
// mutation happens in one transaction, the loser of a duplicate
// submission race observes ErrAlreadyVotedThisOption with no credit
// consumed. The voter ledger is created on the first vote; under
// concurrent first votes by one voter that insert is the serialization
// point, so the loser's receipt check runs after the winner's commit.
// Counter writes never reuse values read earlier in the transaction:
// budgets and the ratio gate are re-enforced inside the UPDATE itself.
func (e *Engine) CastVote(voter, pollAddress string, index uint16, sentiment int8) (*models.CastVoteResponse, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	poll, err := getPoll(tx, pollAddress)
	if err != nil {
		return nil, err
	}

	if poll.Ended {
		return nil, ErrVotingClosed
	}
	now := e.now().Unix()
	if now < poll.StartTS {
		return nil, ErrVotingNotOpen
	}
	if now > poll.EndTS {
		return nil, ErrVotingClosed
	}
	if sentiment != models.SentimentPlus && sentiment != models.SentimentMinus {
		return nil, ErrInvalidSentiment
	}

	optionAddress, _ := pda.Option(pollAddress, index)
	var plusVotes, minusVotes uint32
	err = tx.QueryRow(`
		SELECT plus_votes, minus_votes FROM option_node WHERE address = $1
	`, optionAddress).Scan(&plusVotes, &minusVotes)
	if err == sql.ErrNoRows {
		return nil, ErrOptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query option: %w", err)
	}

	// Land on the voter's ledger row before checking for a receipt. A
	// rejected vote rolls the creation back with everything else.
	voterAddress, _ := pda.Voter(pollAddress, voter)
	if err := ensureVoterLedger(tx, voterAddress, pollAddress, voter); err != nil {
		return nil, err
	}

	receiptAddress, _ := pda.Receipt(pollAddress, index, voter)
	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM receipt WHERE address = $1)
	`, receiptAddress).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipt: %w", err)
	}
	if exists {
		return nil, ErrAlreadyVotedThisOption
	}

	var usedPlus, usedMinus uint8
	err = tx.QueryRow(`
		SELECT used_plus, used_minus FROM voter_ledger WHERE address = $1
	`, voterAddress).Scan(&usedPlus, &usedMinus)
	if err != nil {
		return nil, fmt.Errorf("failed to query voter ledger: %w", err)
	}

	switch sentiment {
	case models.SentimentPlus:
		if usedPlus >= poll.PlusCredits {
			return nil, ErrOutOfPositiveCredits
		}
		if _, err := addU8(usedPlus, 1); err != nil {
			return nil, err
		}
		if _, err := addU32(plusVotes, 1); err != nil {
			return nil, err
		}
	case models.SentimentMinus:
		if usedMinus >= poll.MinusCredits {
			return nil, ErrOutOfNegativeCredits
		}
		// Ratio gate, evaluated as it would stand after this minus:
		// two banked positives for every negative, including this one.
		if uint16(usedPlus) < 2*(uint16(usedMinus)+1) {
			return nil, ErrInsufficientPositivesForNegative
		}
		if _, err := addU8(usedMinus, 1); err != nil {
			return nil, err
		}
		if _, err := addU32(minusVotes, 1); err != nil {
			return nil, err
		}
	}

	applied, err := spendCredit(tx, voterAddress, sentiment, poll)
	if err != nil {
		return nil, err
	}
	if !applied {
		// The statement's guard saw newer counters than the read above:
		// a concurrent vote landed in between. Classify on the current
		// row, in the same order as the checks above.
		if sentiment == models.SentimentPlus {
			return nil, ErrOutOfPositiveCredits
		}
		err = tx.QueryRow(`
			SELECT used_plus, used_minus FROM voter_ledger WHERE address = $1
		`, voterAddress).Scan(&usedPlus, &usedMinus)
		if err != nil {
			return nil, fmt.Errorf("failed to query voter ledger: %w", err)
		}
		if usedMinus >= poll.MinusCredits {
			return nil, ErrOutOfNegativeCredits
		}
		return nil, ErrInsufficientPositivesForNegative
	}

	// Usage after the spend, for the receipt response and the event
	err = tx.QueryRow(`
		SELECT used_plus, used_minus FROM voter_ledger WHERE address = $1
	`, voterAddress).Scan(&usedPlus, &usedMinus)
	if err != nil {
		return nil, fmt.Errorf("failed to query voter ledger: %w", err)
	}

	// Tally updates are relative so concurrent votes on one option from
	// different voters never overwrite each other.
	if sentiment == models.SentimentPlus {
		_, err = tx.Exec(`
			UPDATE option_node SET plus_votes = plus_votes + 1 WHERE address = $1
		`, optionAddress)
	} else {
		_, err = tx.Exec(`
			UPDATE option_node SET minus_votes = minus_votes + 1 WHERE address = $1
		`, optionAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update option tallies: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO receipt (address, poll_address, voter, option_index, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, receiptAddress, pollAddress, voter, index, sentiment, now)
	if err != nil {
		// Race loser on a duplicate submission: the transaction rolls
		// back, so no credit was consumed.
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyVotedThisOption
		}
		return nil, fmt.Errorf("failed to insert receipt: %w", err)
	}

	if err := emitEvent(tx, pollAddress, now, VoteCastEvent{
		Poll:        pollAddress,
		Voter:       voter,
		OptionIndex: index,
		Sentiment:   sentiment,
		UsedPlus:    usedPlus,
		UsedMinus:   usedMinus,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("vote cast",
		"poll", pollAddress,
		"option_index", index,
		"voter", voter,
		"sentiment", sentiment,
		"used_plus", usedPlus,
		"used_minus", usedMinus,
	)

	return &models.CastVoteResponse{
		ReceiptAddress: receiptAddress,
		OptionIndex:    index,
		Sentiment:      sentiment,
		UsedPlus:       usedPlus,
		UsedMinus:      usedMinus,
	}, nil
}

// ensureVoterLedger creates the voter's ledger row at zero usage if it
// does not exist yet. For two concurrent first votes by one voter this
// insert doubles as the serialization point: the loser blocks here until
// the winner commits, and every later statement in the loser's
// transaction sees the winner's writes.
func ensureVoterLedger(tx *sql.Tx, voterAddress, pollAddress, voter string) error {
	_, err := tx.Exec(`
		INSERT INTO voter_ledger (address, poll_address, voter, used_plus, used_minus)
		VALUES ($1, $2, $3, 0, 0)
		ON CONFLICT (address) DO NOTHING
	`, voterAddress, pollAddress, voter)
	if err != nil {
		return fmt.Errorf("failed to ensure voter ledger: %w", err)
	}
	return nil
}

// spendCredit increments the voter's plus or minus usage. The budget and
// ratio guards are evaluated inside the statement against the row's
// current values, so a concurrent vote that landed after this
// transaction's read cannot stretch a budget. applied reports whether
// the guards held.
func spendCredit(tx *sql.Tx, voterAddress string, sentiment int8, poll *models.Poll) (bool, error) {
	var res sql.Result
	var err error
	if sentiment == models.SentimentPlus {
		res, err = tx.Exec(`
			UPDATE voter_ledger SET used_plus = used_plus + 1
			WHERE address = $1 AND used_plus < $2
		`, voterAddress, poll.PlusCredits)
	} else {
		res, err = tx.Exec(`
			UPDATE voter_ledger SET used_minus = used_minus + 1
			WHERE address = $1 AND used_minus < $2 AND used_plus >= 2 * (used_minus + 1)
		`, voterAddress, poll.MinusCredits)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update voter ledger: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read ledger update result: %w", err)
	}
	return n == 1, nil
}
