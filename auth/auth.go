// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidIdentityKey = errors.New("invalid identity key")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateIdentityKey creates the HMAC-based key proving ownership of an
// identity. This is deterministic and verifiable, so no credential state
// is stored server-side.
func GenerateIdentityKey(identity, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(identity))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateIdentityKey checks that the provided key is valid for the identity
func ValidateIdentityKey(identity, key, salt string) error {
	expected := GenerateIdentityKey(identity, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidIdentityKey
	}
	return nil
}
