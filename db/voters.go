// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/models"
)

// CreateVoter bumps the voter count of an election that has not ended, then
// inserts the voter. The count update holds the row lock until commit, so a
// concurrent End either purges this voter or rejects it.
func (s *Store) CreateVoter(ctx context.Context, v *models.Voter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`UPDATE elections_election SET voters = voters + 1 WHERE id = ? AND `+notEnded), v.ElectionID)
	if err != nil {
		return fmt.Errorf("failed to update voter count: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.electionGone(ctx, tx, v.ElectionID)
	}

	err = tx.QueryRowContext(ctx, s.q(`
		INSERT INTO elections_voter (election_id, email, token, voted)
		VALUES (?, ?, ?, FALSE)
		RETURNING id
	`), v.ElectionID, v.Email, v.Token).Scan(&v.ID)
	if err != nil {
		if terr := translate(err); terr != err {
			return terr
		}
		return fmt.Errorf("failed to insert voter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteVoter removes a voter from an election that has not started and
// decrements its voter count in one transaction.
func (s *Store) DeleteVoter(ctx context.Context, electionID int64, email string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`UPDATE elections_election SET voters = voters - 1 WHERE id = ? AND `+notStarted), electionID)
	if err != nil {
		return fmt.Errorf("failed to update voter count: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.electionGone(ctx, tx, electionID)
	}

	res, err = tx.ExecContext(ctx, s.q(`DELETE FROM elections_voter WHERE election_id = ? AND email = ?`), electionID, email)
	if err != nil {
		return fmt.Errorf("failed to delete voter: %w", err)
	}
	n, err = rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return election.ErrVoterNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) ListVoters(ctx context.Context, electionID int64) ([]models.Voter, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, election_id, email, token, voted
		FROM elections_voter
		WHERE election_id = ?
		ORDER BY id
	`), electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := make([]models.Voter, 0)
	for rows.Next() {
		var v models.Voter
		if err := rows.Scan(&v.ID, &v.ElectionID, &v.Email, &v.Token, &v.Voted); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voters: %w", err)
	}
	return voters, nil
}

func (s *Store) GetVoterByToken(ctx context.Context, token string) (*models.Voter, error) {
	var v models.Voter
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, election_id, email, token, voted
		FROM elections_voter
		WHERE token = ?
	`), token).Scan(&v.ID, &v.ElectionID, &v.Email, &v.Token, &v.Voted)
	if err == sql.ErrNoRows {
		return nil, election.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query voter: %w", err)
	}
	return &v, nil
}

func (s *Store) TokenExists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, s.q(`SELECT EXISTS (SELECT 1 FROM elections_voter WHERE token = ?)`), token).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return exists, nil
}
