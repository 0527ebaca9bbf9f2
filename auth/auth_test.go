// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id, err := GenerateID(16)
	if err != nil {
		t.Fatalf("GenerateID failed: %v", err)
	}
	if len(id) != 32 {
		t.Errorf("Expected 32 hex chars for 16 bytes, got %d", len(id))
	}

	id2, err := GenerateID(16)
	if err != nil {
		t.Fatalf("GenerateID failed: %v", err)
	}
	if id == id2 {
		t.Error("Two generated IDs should not be equal")
	}
}

func TestIdentityKeyRoundTrip(t *testing.T) {
	identity, _ := GenerateID(16)
	key := GenerateIdentityKey(identity, "test-salt")

	if key == "" {
		t.Fatal("Expected non-empty identity key")
	}
	if strings.Contains(key, "=") {
		t.Error("Identity key should have base64 padding trimmed")
	}

	if err := ValidateIdentityKey(identity, key, "test-salt"); err != nil {
		t.Errorf("Valid key rejected: %v", err)
	}
}

func TestIdentityKeyDeterministic(t *testing.T) {
	k1 := GenerateIdentityKey("some-identity", "salt")
	k2 := GenerateIdentityKey("some-identity", "salt")
	if k1 != k2 {
		t.Error("Identity key generation should be deterministic")
	}

	k3 := GenerateIdentityKey("some-identity", "other-salt")
	if k1 == k3 {
		t.Error("Different salts should produce different keys")
	}
}

func TestValidateIdentityKeyRejections(t *testing.T) {
	identity, _ := GenerateID(16)
	key := GenerateIdentityKey(identity, "test-salt")

	tests := []struct {
		name     string
		identity string
		key      string
		salt     string
	}{
		{"wrong key", identity, "bogus-key", "test-salt"},
		{"empty key", identity, "", "test-salt"},
		{"wrong identity", "other-identity", key, "test-salt"},
		{"wrong salt", identity, key, "other-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateIdentityKey(tt.identity, tt.key, tt.salt); err == nil {
				t.Error("Expected validation to fail")
			}
		})
	}
}
