// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/d21-ledger/auth"
	"github.com/danielhkuo/d21-ledger/cliparse"
	"github.com/danielhkuo/d21-ledger/db"
	"github.com/danielhkuo/d21-ledger/pda"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One connection, or each pooled conn gets its own empty :memory: db
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3419,
		DatabaseURL:     ":memory:",
		DatabaseType:    "sqlite",
		IdentityKeySalt: "test-identity-salt",
	}
}

// ClaimTestIdentity returns a fresh identity and its key for the test salt
func ClaimTestIdentity(t *testing.T, cfg cliparse.Config) (identity, key string) {
	t.Helper()

	identity, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate identity: %v", err)
	}
	return identity, auth.GenerateIdentityKey(identity, cfg.IdentityKeySalt)
}

// CreateTestPoll inserts a poll record directly, bypassing the engine's
// creation-time validation so tests can build polls in any window state
// (already open, already over). Returns the derived poll address.
func CreateTestPoll(t *testing.T, conn *sql.DB, authority string, pollID uint64, plusCredits, minusCredits uint8, startTS, endTS int64) string {
	t.Helper()

	address, _ := pda.Poll(authority, pollID)
	_, err := conn.Exec(`
		INSERT INTO poll (address, authority, poll_id, title, description,
		                  plus_credits, minus_credits, start_ts, end_ts,
		                  options_count, ended, created_at)
		VALUES ($1, $2, $3, 'Test Poll', 'A test poll', $4, $5, $6, $7, 0, FALSE, $8)
	`, address, authority, pollID, plusCredits, minusCredits, startTS, endTS, time.Now().Unix())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return address
}

// AddTestOption inserts an option node and its label guard directly.
// Returns the derived option address.
func AddTestOption(t *testing.T, conn *sql.DB, pollAddress string, index uint16, label string) string {
	t.Helper()

	optionAddress, _ := pda.Option(pollAddress, index)
	_, err := conn.Exec(`
		INSERT INTO option_node (address, poll_address, option_index, label, plus_votes, minus_votes)
		VALUES ($1, $2, $3, $4, 0, 0)
	`, optionAddress, pollAddress, index, label)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	guardAddress, _ := pda.LabelGuard(pollAddress, pda.Fingerprint(label))
	_, err = conn.Exec(`
		INSERT INTO label_guard (address, poll_address, label_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, guardAddress, pollAddress, pda.FingerprintHex(label), time.Now().Unix())
	if err != nil {
		t.Fatalf("Failed to create test label guard: %v", err)
	}

	// Keep options_count consistent with the engine's max(index)+1 rule
	_, err = conn.Exec(`
		UPDATE poll SET options_count = $1
		WHERE address = $2 AND options_count < $1
	`, int(index)+1, pollAddress)
	if err != nil {
		t.Fatalf("Failed to update options count: %v", err)
	}

	return optionAddress
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode checks the stable rejection code in an error response
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Code != code {
		t.Errorf("Expected error code %q, got %q. Body: %s", code, resp.Code, w.Body.String())
	}
}
