// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"

	"github.com/danielhkuo/elex/election"
)

// ApplyBallot records a ballot in a single transaction. The conditional update
// on the voter row keeps a token single-use when ballots race.
func (s *Store) ApplyBallot(ctx context.Context, voterID, electionID int64, optionIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`
		UPDATE elections_voter
		SET voted = TRUE
		WHERE id = ? AND election_id = ? AND voted = FALSE
		  AND EXISTS (
		      SELECT 1 FROM elections_election
		      WHERE id = ? AND start_date IS NOT NULL AND end_date IS NULL AND paused = FALSE
		  )
	`), voterID, electionID, electionID)
	if err != nil {
		return fmt.Errorf("failed to mark voter: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return election.ErrAlreadyVoted
	}

	for _, optionID := range optionIDs {
		res, err := tx.ExecContext(ctx, s.q(`
			UPDATE elections_option
			SET votes = votes + 1
			WHERE id = ? AND election_id = ?
		`), optionID, electionID)
		if err != nil {
			return fmt.Errorf("failed to count vote: %w", err)
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return election.ErrOutOfRange
		}
	}

	if _, err := tx.ExecContext(ctx, s.q(`UPDATE elections_election SET voted = voted + 1 WHERE id = ?`), electionID); err != nil {
		return fmt.Errorf("failed to update voted count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
