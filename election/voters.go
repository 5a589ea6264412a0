// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"strings"

	"github.com/danielhkuo/elex/metrics"
	"github.com/danielhkuo/elex/models"
)

const maxInsertAttempts = 3

// RegisterVoters registers each address independently and reports the ones that
// failed. Only ownership, lookup and a CLOSED election fail the whole batch.
// Voters added to a running election are notified right away.
func (s *Service) RegisterVoters(ctx context.Context, id Identity, electionID int64, emails []string) (models.RegistrationFailures, error) {
	if len(emails) > models.MaxVotersPerRequest {
		return nil, ErrTooManyVoters
	}

	lookupCtx, cancel := s.bound(ctx)
	e, err := s.ownedElection(lookupCtx, id, electionID)
	cancel()
	if err != nil {
		return nil, err
	}
	state := StateOf(e)
	if state == StateClosed {
		return nil, ErrWrongState
	}

	failures := make(models.RegistrationFailures)
	var created []models.Voter
	closed := false
	for _, raw := range emails {
		if closed {
			failures[raw] = ErrWrongState.Error()
			continue
		}
		regCtx, cancel := s.bound(ctx)
		v, err := s.registerVoter(regCtx, electionID, raw)
		cancel()
		if errors.Is(err, ErrWrongState) {
			// Ended while the batch ran; End purged everyone added so far.
			closed = true
		}
		if err != nil {
			reason := err.Error()
			if KindOf(err) == 0 {
				// Store failure for this address only; keep going.
				s.logger.Error("failed to register voter", "election_id", electionID, "error", err)
				reason = "internal error"
			}
			failures[raw] = reason
			metrics.RegistrationFailures.WithLabelValues(reason).Inc()
			continue
		}
		created = append(created, *v)
	}

	if closed {
		s.logger.Warn("election ended during registration", "election_id", electionID, "dropped", len(created))
		created = nil
	}

	metrics.VotersRegistered.Add(float64(len(created)))
	e.Voters += len(created)

	if state.Active() && len(created) > 0 {
		s.notifier.Notify(context.WithoutCancel(ctx), created, *e, NotifyNewVoter)
	}

	s.logger.Info("voters registered", "election_id", electionID, "created", len(created), "failed", len(failures))
	return failures, nil
}

func (s *Service) registerVoter(ctx context.Context, electionID int64, raw string) (*models.Voter, error) {
	email, err := NormalizeEmail(raw)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		token, err := s.tokens.Issue(ctx, electionID)
		if err != nil {
			return nil, err
		}
		v := &models.Voter{ElectionID: electionID, Email: email, Token: token}
		err = s.store.CreateVoter(ctx, v)
		if err == nil {
			return v, nil
		}
		// A token can still collide between the check and the insert.
		if errors.Is(err, ErrDuplicateToken) && attempt+1 < maxInsertAttempts {
			continue
		}
		return nil, err
	}
}

// RemoveVoter unregisters a voter from a CREATED election.
func (s *Service) RemoveVoter(ctx context.Context, id Identity, electionID int64, email string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return err
	}
	if err := requireState(e, StateCreated); err != nil {
		return err
	}
	if err := s.store.DeleteVoter(ctx, electionID, strings.TrimSpace(email)); err != nil {
		return err
	}

	s.logger.Info("voter removed", "election_id", electionID)
	return nil
}

// ListVoters returns the voters of an owned election.
func (s *Service) ListVoters(ctx context.Context, id Identity, electionID int64) ([]models.Voter, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if _, err := s.ownedElection(ctx, id, electionID); err != nil {
		return nil, err
	}
	return s.store.ListVoters(ctx, electionID)
}
