// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"

	"github.com/danielhkuo/elex/auth"
)

const defaultTokenAttempts = 8

// TokenChecker is the part of Store the issuer needs.
type TokenChecker interface {
	TokenExists(ctx context.Context, token string) (bool, error)
}

// TokenIssuer hands out voter tokens that are not already in the store.
// The store's unique constraint stays authoritative; this loop only makes
// collisions at insert time unlikely.
type TokenIssuer struct {
	Store       TokenChecker
	Generate    func(electionID int64) string
	MaxAttempts int
}

func NewTokenIssuer(store TokenChecker) *TokenIssuer {
	return &TokenIssuer{
		Store:       store,
		Generate:    auth.NewVoterToken,
		MaxAttempts: defaultTokenAttempts,
	}
}

// Issue returns a token that no voter currently holds.
func (ti *TokenIssuer) Issue(ctx context.Context, electionID int64) (string, error) {
	attempts := ti.MaxAttempts
	if attempts <= 0 {
		attempts = defaultTokenAttempts
	}
	for i := 0; i < attempts; i++ {
		token := ti.Generate(electionID)
		exists, err := ti.Store.TokenExists(ctx, token)
		if err != nil {
			return "", fmt.Errorf("failed to check token: %w", err)
		}
		if !exists {
			return token, nil
		}
	}
	return "", ErrTokenExhausted
}
