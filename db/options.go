// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/models"
)

func (s *Store) ListOptions(ctx context.Context, electionID int64) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, election_id, name, votes
		FROM elections_option
		WHERE election_id = ?
		ORDER BY id
	`), electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	options := make([]models.Option, 0)
	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.ElectionID, &o.Name, &o.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}
	return options, nil
}

func (s *Store) CreateOption(ctx context.Context, o *models.Option) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.holdElection(ctx, tx, o.ElectionID, notStarted); err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx, s.q(`
		INSERT INTO elections_option (election_id, name)
		VALUES (?, ?)
		RETURNING id
	`), o.ElectionID, o.Name).Scan(&o.ID)
	if err != nil {
		if terr := translate(err); terr != err {
			return terr
		}
		return fmt.Errorf("failed to insert option: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) RenameOption(ctx context.Context, electionID, optionID int64, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.holdElection(ctx, tx, electionID, notStarted); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, s.q(`UPDATE elections_option SET name = ? WHERE id = ? AND election_id = ?`), name, optionID, electionID)
	if err != nil {
		if terr := translate(err); terr != err {
			return terr
		}
		return fmt.Errorf("failed to rename option: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return election.ErrOptionNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) DeleteOption(ctx context.Context, electionID, optionID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.holdElection(ctx, tx, electionID, notStarted); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM elections_option WHERE id = ? AND election_id = ?`), optionID, electionID)
	if err != nil {
		return fmt.Errorf("failed to delete option: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return election.ErrOptionNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
