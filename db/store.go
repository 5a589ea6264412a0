// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/elex/election"
)

// Dialect selects the SQL flavor and driver.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a DATABASE_TYPE value to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "postgres", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", s)
	}
}

// Store implements election.Store over database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

var _ election.Store = (*Store)(nil)

// Open connects, verifies the connection and creates the schema.
func Open(ctx context.Context, dialect Dialect, url string) (*Store, error) {
	conn, err := sql.Open(string(dialect), url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == SQLite {
		// One writer at a time; keeps per-connection pragmas in effect.
		conn.SetMaxOpenConns(1)
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		if _, err := conn.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := CreateSchema(conn, dialect); err != nil {
		conn.Close()
		return nil, err
	}

	return &Store{db: conn, dialect: dialect}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// q rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) q(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// translate maps driver unique violations to election errors.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return uniqueViolation(pqErr.Constraint)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return uniqueViolation(liteErr.Error())
		}
	}
	return err
}

func uniqueViolation(detail string) error {
	if strings.Contains(detail, "token") {
		return election.ErrDuplicateToken
	}
	return election.ErrDuplicateEntry
}

// electionGone distinguishes a missing election from one in the wrong state
// after a conditional update matched no rows.
func (s *Store) electionGone(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, id int64) error {
	var one int
	err := q.QueryRowContext(ctx, s.q(`SELECT 1 FROM elections_election WHERE id = ?`), id).Scan(&one)
	if err == sql.ErrNoRows {
		return election.ErrElectionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query election: %w", err)
	}
	return election.ErrWrongState
}

// Gate conditions for holdElection.
const (
	notStarted = "start_date IS NULL"
	notEnded   = "end_date IS NULL"
)

// holdElection takes the election's row lock for the rest of tx if cond holds
// on its latest version. Lifecycle writes on the same row wait for tx, so the
// caller's writes cannot interleave with a transition.
func (s *Store) holdElection(ctx context.Context, tx *sql.Tx, id int64, cond string) error {
	res, err := tx.ExecContext(ctx, s.q(`UPDATE elections_election SET id = id WHERE id = ? AND `+cond), id)
	if err != nil {
		return fmt.Errorf("failed to lock election: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.electionGone(ctx, tx, id)
	}
	return nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}
