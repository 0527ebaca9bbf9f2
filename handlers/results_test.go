// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/d21-ledger/models"
	"github.com/danielhkuo/d21-ledger/pda"
	"github.com/danielhkuo/d21-ledger/testutil"
)

func setTallies(t *testing.T, conn *sql.DB, pollAddress string, index uint16, plus, minus uint32) {
	t.Helper()
	optionAddress, _ := pda.Option(pollAddress, index)
	_, err := conn.Exec(`
		UPDATE option_node SET plus_votes = $1, minus_votes = $2 WHERE address = $3
	`, plus, minus, optionAddress)
	if err != nil {
		t.Fatalf("Failed to set tallies: %v", err)
	}
}

func TestGetPoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(conn, cfg)

	now := time.Now().Unix()
	pollAddress := testutil.CreateTestPoll(t, conn, "authority-1", 1, 3, 1, now-60, now+3600)
	testutil.AddTestOption(t, conn, pollAddress, 0, "Pizza")
	testutil.AddTestOption(t, conn, pollAddress, 2, "Sushi")

	t.Run("unknown poll", func(t *testing.T) {
		missing, _ := pda.Poll("authority-1", 99)
		req := testutil.MakeRequest("GET", "/polls/"+missing, nil, nil)
		req.SetPathValue("address", missing)
		w := httptest.NewRecorder()
		handler.GetPoll(w, req)
		testutil.AssertStatus(t, w, 404)
	})

	t.Run("poll with sparse options", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/polls/"+pollAddress, nil, nil)
		req.SetPathValue("address", pollAddress)
		w := httptest.NewRecorder()
		handler.GetPoll(w, req)
		testutil.AssertStatus(t, w, 200)

		var resp models.PollWithOptions
		testutil.AssertJSON(t, w, &resp)
		if resp.Poll.Address != pollAddress {
			t.Errorf("Expected address %s, got %s", pollAddress, resp.Poll.Address)
		}
		// Index 1 was never added; count still covers the highest index
		if resp.Poll.OptionsCount != 3 {
			t.Errorf("Expected options_count 3, got %d", resp.Poll.OptionsCount)
		}
		if len(resp.Options) != 2 {
			t.Fatalf("Expected 2 options, got %d", len(resp.Options))
		}
		if resp.Options[0].Index != 0 || resp.Options[1].Index != 2 {
			t.Errorf("Options out of order: %+v", resp.Options)
		}
		if resp.Opens == "" || resp.Closes == "" {
			t.Error("Expected human-readable open/close phrasing")
		}
	})
}

func TestGetResults(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(conn, cfg)

	now := time.Now().Unix()
	pollAddress := testutil.CreateTestPoll(t, conn, "authority-1", 1, 3, 1, now-7200, now-3600)
	testutil.AddTestOption(t, conn, pollAddress, 0, "Pizza")
	testutil.AddTestOption(t, conn, pollAddress, 1, "Sushi")
	testutil.AddTestOption(t, conn, pollAddress, 2, "Ramen")
	testutil.AddTestOption(t, conn, pollAddress, 3, "Tacos")

	// Net scores: Sushi 5, Pizza 3, Ramen 3, Tacos -2
	setTallies(t, conn, pollAddress, 0, 4, 1)
	setTallies(t, conn, pollAddress, 1, 5, 0)
	setTallies(t, conn, pollAddress, 2, 3, 0)
	setTallies(t, conn, pollAddress, 3, 0, 2)

	req := testutil.MakeRequest("GET", "/polls/"+pollAddress+"/results", nil, nil)
	req.SetPathValue("address", pollAddress)
	w := httptest.NewRecorder()
	handler.GetResults(w, req)
	testutil.AssertStatus(t, w, 200)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	wantOrder := []uint16{1, 0, 2, 3}
	wantRanks := []int{1, 2, 2, 4}
	if len(resp.Rankings) != len(wantOrder) {
		t.Fatalf("Expected %d ranking entries, got %d", len(wantOrder), len(resp.Rankings))
	}
	for i, entry := range resp.Rankings {
		if entry.Index != wantOrder[i] {
			t.Errorf("Position %d: expected index %d, got %d", i, wantOrder[i], entry.Index)
		}
		if entry.Rank != wantRanks[i] {
			t.Errorf("Position %d: expected rank %d, got %d", i, wantRanks[i], entry.Rank)
		}
	}
	if resp.Rankings[3].Net != -2 {
		t.Errorf("Expected net -2 for last place, got %d", resp.Rankings[3].Net)
	}
	if len(resp.Winners) != 1 || resp.Winners[0] != 1 {
		t.Errorf("Expected winners [1], got %v", resp.Winners)
	}
}

func TestGetResultsTiedWinners(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(conn, cfg)

	now := time.Now().Unix()
	pollAddress := testutil.CreateTestPoll(t, conn, "authority-1", 1, 3, 1, now-7200, now-3600)
	testutil.AddTestOption(t, conn, pollAddress, 0, "Pizza")
	testutil.AddTestOption(t, conn, pollAddress, 1, "Sushi")
	testutil.AddTestOption(t, conn, pollAddress, 2, "Ramen")

	// Two options tied on net 3; different plus/minus splits still tie
	setTallies(t, conn, pollAddress, 0, 4, 1)
	setTallies(t, conn, pollAddress, 1, 3, 0)
	setTallies(t, conn, pollAddress, 2, 1, 0)

	req := testutil.MakeRequest("GET", "/polls/"+pollAddress+"/results", nil, nil)
	req.SetPathValue("address", pollAddress)
	w := httptest.NewRecorder()
	handler.GetResults(w, req)
	testutil.AssertStatus(t, w, 200)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Winners) != 2 || resp.Winners[0] != 0 || resp.Winners[1] != 1 {
		t.Errorf("Expected winners [0 1], got %v", resp.Winners)
	}
	if resp.Rankings[0].Rank != 1 || resp.Rankings[1].Rank != 1 || resp.Rankings[2].Rank != 3 {
		t.Errorf("Expected ranks 1,1,3, got %d,%d,%d",
			resp.Rankings[0].Rank, resp.Rankings[1].Rank, resp.Rankings[2].Rank)
	}
}

func TestGetEvents(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	resultsHandler := NewResultsHandler(conn, cfg)
	votingHandler := NewVotingHandler(conn, cfg)

	voter, key := testutil.ClaimTestIdentity(t, cfg)
	now := time.Now().Unix()
	pollAddress := testutil.CreateTestPoll(t, conn, "authority-1", 1, 3, 1, now-60, now+3600)
	testutil.AddTestOption(t, conn, pollAddress, 0, "Pizza")

	t.Run("unknown poll", func(t *testing.T) {
		missing, _ := pda.Poll("authority-1", 99)
		req := testutil.MakeRequest("GET", "/polls/"+missing+"/events", nil, nil)
		req.SetPathValue("address", missing)
		w := httptest.NewRecorder()
		resultsHandler.GetEvents(w, req)
		testutil.AssertStatus(t, w, 404)
	})

	t.Run("feed reflects votes", func(t *testing.T) {
		w := castVote(votingHandler, pollAddress, authHeaders(voter, key), 0, 1)
		testutil.AssertStatus(t, w, 201)

		req := testutil.MakeRequest("GET", "/polls/"+pollAddress+"/events", nil, nil)
		req.SetPathValue("address", pollAddress)
		w = httptest.NewRecorder()
		resultsHandler.GetEvents(w, req)
		testutil.AssertStatus(t, w, 200)

		var resp struct {
			Events []models.Event `json:"events"`
		}
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Events) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(resp.Events))
		}
		evt := resp.Events[0]
		if evt.Kind != "VoteCast" || evt.ID == "" {
			t.Errorf("Unexpected event: %+v", evt)
		}
		payload, ok := evt.Payload.(map[string]interface{})
		if !ok {
			t.Fatalf("Expected decoded payload object, got %T", evt.Payload)
		}
		if payload["voter"] != voter {
			t.Errorf("Expected payload voter %q, got %v", voter, payload["voter"])
		}
	})
}
