// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(conn *sql.DB, dialect Dialect) error {
	schema := sqliteSchema
	if dialect == Postgres {
		schema = postgresSchema
	}

	_, err := conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const postgresSchema = `
-- Elections
CREATE TABLE IF NOT EXISTS elections_election (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    owner TEXT NOT NULL,
    votable INTEGER NOT NULL DEFAULT 1 CHECK (votable >= 1),
    voters INTEGER NOT NULL DEFAULT 0,
    voted INTEGER NOT NULL DEFAULT 0,
    paused BOOLEAN NOT NULL DEFAULT FALSE,
    creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    start_date TIMESTAMPTZ,
    end_date TIMESTAMPTZ,
    CHECK (end_date IS NULL OR start_date IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_election_owner ON elections_election(owner);

-- Options
CREATE TABLE IF NOT EXISTS elections_option (
    id BIGSERIAL PRIMARY KEY,
    election_id BIGINT NOT NULL REFERENCES elections_election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    votes INTEGER NOT NULL DEFAULT 0,
    CONSTRAINT elections_option_name_key UNIQUE (election_id, name)
);

-- Voters
CREATE TABLE IF NOT EXISTS elections_voter (
    id BIGSERIAL PRIMARY KEY,
    election_id BIGINT NOT NULL REFERENCES elections_election(id) ON DELETE CASCADE,
    email TEXT NOT NULL,
    token TEXT NOT NULL,
    voted BOOLEAN NOT NULL DEFAULT FALSE,
    CONSTRAINT elections_voter_email_key UNIQUE (election_id, email),
    CONSTRAINT elections_voter_token_key UNIQUE (token)
);
`

const sqliteSchema = `
-- Elections
CREATE TABLE IF NOT EXISTS elections_election (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    owner TEXT NOT NULL,
    votable INTEGER NOT NULL DEFAULT 1 CHECK (votable >= 1),
    voters INTEGER NOT NULL DEFAULT 0,
    voted INTEGER NOT NULL DEFAULT 0,
    paused BOOLEAN NOT NULL DEFAULT FALSE,
    creation_date TIMESTAMP NOT NULL,
    start_date TIMESTAMP,
    end_date TIMESTAMP,
    CHECK (end_date IS NULL OR start_date IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_election_owner ON elections_election(owner);

-- Options
CREATE TABLE IF NOT EXISTS elections_option (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    election_id INTEGER NOT NULL REFERENCES elections_election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    votes INTEGER NOT NULL DEFAULT 0,
    UNIQUE (election_id, name)
);

-- Voters
CREATE TABLE IF NOT EXISTS elections_voter (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    election_id INTEGER NOT NULL REFERENCES elections_election(id) ON DELETE CASCADE,
    email TEXT NOT NULL,
    token TEXT NOT NULL UNIQUE,
    voted BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (election_id, email)
);
`
