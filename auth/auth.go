// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// VoterTokenLength is the fixed length of every voter token:
// 32 hex digits of randomness followed by 12 hex digits of election id.
const VoterTokenLength = 44

// NewVoterToken creates a random voter token bound to an election.
// The random part is a version 4 UUID (122 random bits) and the election
// id always occupies the last 12 characters.
func NewVoterToken(electionID int64) string {
	id := uuid.New()
	return fmt.Sprintf("%X%012X", id[:], uint64(electionID))
}

// ElectionIDFromToken extracts the election id embedded in a token.
func ElectionIDFromToken(token string) (int64, error) {
	if len(token) != VoterTokenLength {
		return 0, ErrInvalidToken
	}
	if strings.ToUpper(token) != token {
		return 0, ErrInvalidToken
	}
	if _, err := strconv.ParseUint(token[:16], 16, 64); err != nil {
		return 0, ErrInvalidToken
	}
	if _, err := strconv.ParseUint(token[16:32], 16, 64); err != nil {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(token[32:], 16, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return int64(id), nil
}
