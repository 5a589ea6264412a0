// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides voter token generation and owner identity tokens.

# Voter Tokens

Voter tokens are fixed-length uppercase strings. The first 32 characters are the
hex form of a random UUID, the last 12 are the election id in hex:

	token := auth.NewVoterToken(electionID)
	id, err := auth.ElectionIDFromToken(token)

A token is a bearer credential: whoever holds an unused token of a running
election can cast that voter's ballot once. Uniqueness across the database is
enforced by the store, not here.

# Owner Identity

Election owners authenticate with HS256 JWTs issued by an external identity
provider that shares the signing secret. The subject claim is the user id:

	m := auth.NewJWTManager(secret, 24*time.Hour)
	claims, err := m.Validate(bearer)
	owner := claims.Subject

Generate mints tokens for development and tests.
*/
package auth
