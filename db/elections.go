// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/models"
)

const electionColumns = `id, name, description, owner, votable, voters, voted, paused, creation_date, start_date, end_date`

type scanner interface {
	Scan(dest ...any) error
}

func scanElection(row scanner) (*models.Election, error) {
	var e models.Election
	var start, end sql.NullTime
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Owner, &e.Votable, &e.Voters,
		&e.Voted, &e.Paused, &e.CreationDate, &start, &end)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		t := start.Time
		e.StartDate = &t
	}
	if end.Valid {
		t := end.Time
		e.EndDate = &t
	}
	return &e, nil
}

func (s *Store) CreateElection(ctx context.Context, e *models.Election) error {
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO elections_election (name, description, owner, votable, creation_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), e.Name, e.Description, e.Owner, e.Votable, e.CreationDate).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", err)
	}
	return nil
}

func (s *Store) GetElection(ctx context.Context, id int64) (*models.Election, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+electionColumns+` FROM elections_election WHERE id = ?`), id)
	e, err := scanElection(row)
	if err == sql.ErrNoRows {
		return nil, election.ErrElectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query election: %w", err)
	}
	return e, nil
}

func (s *Store) ListElectionsByOwner(ctx context.Context, owner string) ([]models.Election, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT `+electionColumns+`
		FROM elections_election
		WHERE owner = ?
		ORDER BY id
	`), owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := make([]models.Election, 0)
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate elections: %w", err)
	}
	return elections, nil
}

func (s *Store) UpdateElectionDetails(ctx context.Context, e *models.Election) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE elections_election
		SET name = ?, description = ?, votable = ?
		WHERE id = ? AND start_date IS NULL
	`), e.Name, e.Description, e.Votable, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.electionGone(ctx, s.db, e.ID)
	}
	return nil
}

// DeleteElection removes options and voters explicitly before the election row,
// so the cascade does not depend on foreign key enforcement being enabled.
func (s *Store) DeleteElection(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM elections_voter WHERE election_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete voters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM elections_option WHERE election_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM elections_election WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return election.ErrElectionNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MarkStarted takes the row lock with the start stamp before counting options,
// so option writes already holding the lock are counted and later ones see the
// election as started.
func (s *Store) MarkStarted(ctx context.Context, id int64, at time.Time, minOptions int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`
		UPDATE elections_election
		SET start_date = ?
		WHERE id = ? AND start_date IS NULL
	`), at, id)
	if err != nil {
		return fmt.Errorf("failed to start election: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.electionGone(ctx, tx, id)
	}

	var count int
	if err := tx.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM elections_option WHERE election_id = ?`), id).Scan(&count); err != nil {
		return fmt.Errorf("failed to count options: %w", err)
	}
	if count < minOptions {
		return election.ErrTooFewOptions
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) TogglePaused(ctx context.Context, id int64) (bool, error) {
	var paused bool
	err := s.db.QueryRowContext(ctx, s.q(`
		UPDATE elections_election
		SET paused = NOT paused
		WHERE id = ? AND start_date IS NOT NULL AND end_date IS NULL
		RETURNING paused
	`), id).Scan(&paused)
	if err == sql.ErrNoRows {
		return false, s.electionGone(ctx, s.db, id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle pause: %w", err)
	}
	return paused, nil
}

func (s *Store) MarkEnded(ctx context.Context, id int64, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`
		UPDATE elections_election
		SET end_date = ?, paused = FALSE
		WHERE id = ? AND start_date IS NOT NULL AND end_date IS NULL
	`), at, id)
	if err != nil {
		return fmt.Errorf("failed to end election: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.electionGone(ctx, tx, id)
	}

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM elections_voter WHERE election_id = ?`), id); err != nil {
		return fmt.Errorf("failed to purge voters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
