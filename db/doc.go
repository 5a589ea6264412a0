// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db implements election.Store on database/sql for PostgreSQL (lib/pq)
and SQLite (modernc.org/sqlite).

# Opening

Open connects, pings and creates the schema:

	store, err := db.Open(ctx, db.SQLite, "elex.db")
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all tables
and indexes. SQLite connections are limited to one writer and run with foreign
keys enabled.

# Queries

Queries are written with ? placeholders and rewritten to $n for PostgreSQL.

# Tables

  - elections_election: metadata, owner, cached voter/voted counters, timestamps
  - elections_option: named options with vote counters, unique per election
  - elections_voter: email and secret token, unique per election and globally

# Relationships

	elections_election 1──* elections_option
	elections_election 1──* elections_voter

Foreign keys use ON DELETE CASCADE, and DeleteElection removes children
explicitly as well.

# Concurrency

Lifecycle writes are conditional updates (start_date IS NULL, end_date IS NULL)
so two racing callers cannot both apply the same transition. Counters are
updated with col = col + 1. ApplyBallot flips voted only where it is still
false, inside the same transaction as the counter updates.

# Errors

Unique violations (PostgreSQL 23505, SQLITE_CONSTRAINT_UNIQUE) become
election.ErrDuplicateToken when the token column is involved and
election.ErrDuplicateEntry otherwise.
*/
package db
