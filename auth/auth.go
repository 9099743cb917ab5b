// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

var codeSpace = big.NewInt(1_000_000)

// GenerateJoinCode returns a uniformly random 6-digit code, zero padded.
// Uniqueness is the caller's concern.
func GenerateJoinCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// MaxDisplayNameLen bounds display names in runes.
const MaxDisplayNameLen = 40

// CleanDisplayName trims name and truncates it to MaxDisplayNameLen runes.
// An empty result falls back to fallback.
func CleanDisplayName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(fallback)
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		name = string([]rune(name)[:MaxDisplayNameLen])
	}
	return name
}
