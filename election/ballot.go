// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"

	"github.com/danielhkuo/elex/auth"
	"github.com/danielhkuo/elex/metrics"
	"github.com/danielhkuo/elex/models"
)

// voterForBallot resolves a token to a voter who may still vote, and their election.
func (s *Service) voterForBallot(ctx context.Context, token string) (*models.Voter, *models.Election, error) {
	if _, err := auth.ElectionIDFromToken(token); err != nil {
		return nil, nil, ErrTokenNotFound
	}
	v, err := s.store.GetVoterByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	e, err := s.store.GetElection(ctx, v.ElectionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrTokenNotFound
		}
		return nil, nil, err
	}
	if err := requireState(e, StateInProgress); err != nil {
		return nil, nil, err
	}
	if v.Voted {
		return nil, nil, ErrAlreadyVoted
	}
	return v, e, nil
}

// GetBallot returns what the token holder may vote on.
func (s *Service) GetBallot(ctx context.Context, token string) (*models.Ballot, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	_, e, err := s.voterForBallot(ctx, token)
	if err != nil {
		return nil, err
	}
	options, err := s.store.ListOptions(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	b := &models.Ballot{
		ElectionID:  e.ID,
		Name:        e.Name,
		Description: e.Description,
		Votable:     e.Votable,
		Options:     make([]string, 0, len(options)),
	}
	for _, o := range options {
		b.Options = append(b.Options, o.Name)
	}
	return b, nil
}

// CastBallot records one ballot for the token holder. Selections are option
// indices; duplicates count once and an empty selection is an abstention.
func (s *Service) CastBallot(ctx context.Context, token string, selections []int) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	v, e, err := s.voterForBallot(ctx, token)
	if err != nil {
		metrics.BallotsRejected.WithLabelValues(KindOf(err).String()).Inc()
		return err
	}

	chosen := dedupe(selections)
	if len(chosen) > e.Votable {
		metrics.BallotsRejected.WithLabelValues(KindValidation.String()).Inc()
		return ErrTooManyOptions
	}

	options, err := s.store.ListOptions(ctx, e.ID)
	if err != nil {
		return err
	}
	optionIDs := make([]int64, 0, len(chosen))
	for _, i := range chosen {
		if i < 0 || i >= len(options) {
			metrics.BallotsRejected.WithLabelValues(KindValidation.String()).Inc()
			return ErrOutOfRange
		}
		optionIDs = append(optionIDs, options[i].ID)
	}

	if err := s.store.ApplyBallot(ctx, v.ID, e.ID, optionIDs); err != nil {
		if KindOf(err) != 0 {
			metrics.BallotsRejected.WithLabelValues(KindOf(err).String()).Inc()
		}
		return err
	}

	metrics.BallotsCast.Inc()
	s.logger.Info("ballot cast", "election_id", e.ID, "selections", len(optionIDs))
	return nil
}

// dedupe keeps the first occurrence of each index, preserving order.
func dedupe(indices []int) []int {
	seen := make(map[int]struct{}, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}
