// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/elex/metrics"
	"github.com/danielhkuo/elex/models"
)

const defaultOperationTimeout = 5 * time.Second

// minOptions is the fewest options an election can start with.
const minOptions = 2

// Policy holds deployment-level switches for lifecycle rules.
type Policy struct {
	// RequireVoterToStart additionally requires one registered voter before Start.
	RequireVoterToStart bool
	// OperationTimeout bounds the store calls of a single operation.
	OperationTimeout time.Duration
}

// Service runs election lifecycle, option, voter and ballot operations on top
// of a Store. Every owner operation takes the caller's Identity explicitly.
type Service struct {
	store    Store
	notifier Notifier
	renderer ReportRenderer
	tokens   *TokenIssuer
	policy   Policy
	now      func() time.Time
	logger   *slog.Logger
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithTokenIssuer(ti *TokenIssuer) ServiceOption {
	return func(s *Service) { s.tokens = ti }
}

// NewService wires a Service. A nil notifier drops notifications and a nil
// renderer makes RenderReport fail.
func NewService(store Store, notifier Notifier, renderer ReportRenderer, policy Policy, opts ...ServiceOption) *Service {
	if policy.OperationTimeout <= 0 {
		policy.OperationTimeout = defaultOperationTimeout
	}
	if notifier == nil {
		notifier = discardNotifier{}
	}
	s := &Service{
		store:    store,
		notifier: notifier,
		renderer: renderer,
		tokens:   NewTokenIssuer(store),
		policy:   policy,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, []models.Voter, models.Election, NotificationKind) {}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.policy.OperationTimeout)
}

// ownedElection loads an election and checks that id owns it.
func (s *Service) ownedElection(ctx context.Context, id Identity, electionID int64) (*models.Election, error) {
	e, err := s.store.GetElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if !id.Owns(e) {
		return nil, ErrNotOwner
	}
	return e, nil
}

// CreateElection stores a new election in the CREATED state owned by id.
func (s *Service) CreateElection(ctx context.Context, id Identity, in ElectionInput) (*models.Election, error) {
	if id.UserID == "" {
		return nil, ErrNotOwner
	}
	in, err := ValidateElectionInput(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	e := &models.Election{
		Name:         in.Name,
		Owner:        id.UserID,
		Votable:      models.MinVotable,
		CreationDate: s.now().UTC(),
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Votable != nil {
		e.Votable = *in.Votable
	}

	if err := s.store.CreateElection(ctx, e); err != nil {
		return nil, err
	}

	metrics.ElectionsCreated.Inc()
	s.logger.Info("election created", "election_id", e.ID, "owner", e.Owner)
	return e, nil
}

// ListElections returns the caller's elections.
func (s *Service) ListElections(ctx context.Context, id Identity) ([]models.Election, error) {
	if id.UserID == "" {
		return nil, ErrNotOwner
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.store.ListElectionsByOwner(ctx, id.UserID)
}

// GetElection returns an owned election with its option names and voter emails.
func (s *Service) GetElection(ctx context.Context, id Identity, electionID int64) (*models.ElectionDetail, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return nil, err
	}
	options, err := s.store.ListOptions(ctx, electionID)
	if err != nil {
		return nil, err
	}
	voters, err := s.store.ListVoters(ctx, electionID)
	if err != nil {
		return nil, err
	}

	detail := &models.ElectionDetail{
		Election: *e,
		Options:  make([]string, 0, len(options)),
		Voters:   make([]string, 0, len(voters)),
	}
	for _, o := range options {
		detail.Options = append(detail.Options, o.Name)
	}
	for _, v := range voters {
		detail.Voters = append(detail.Voters, v.Email)
	}
	return detail, nil
}

// UpdateElection edits name and, when provided, description and votable.
// Only CREATED elections can be edited.
func (s *Service) UpdateElection(ctx context.Context, id Identity, electionID int64, in ElectionInput) (*models.Election, error) {
	in, err := ValidateElectionInput(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return nil, err
	}
	if err := requireState(e, StateCreated); err != nil {
		return nil, err
	}

	e.Name = in.Name
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Votable != nil {
		e.Votable = *in.Votable
	}
	if err := s.store.UpdateElectionDetails(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("election updated", "election_id", e.ID)
	return e, nil
}

// DeleteElection removes an election that is not running, with its options and voters.
func (s *Service) DeleteElection(ctx context.Context, id Identity, electionID int64) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return err
	}
	if err := requireState(e, StateCreated, StateClosed); err != nil {
		return err
	}
	if err := s.store.DeleteElection(ctx, electionID); err != nil {
		return err
	}

	s.logger.Info("election deleted", "election_id", electionID)
	return nil
}

// StartElection opens voting and notifies every registered voter.
func (s *Service) StartElection(ctx context.Context, id Identity, electionID int64) (*models.Election, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return nil, err
	}
	if _, err := Transition(StateOf(e), EventStart); err != nil {
		return nil, err
	}

	options, err := s.store.ListOptions(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if len(options) < minOptions {
		return nil, ErrTooFewOptions
	}
	if s.policy.RequireVoterToStart && e.Voters < 1 {
		return nil, ErrNoVoters
	}

	at := s.now().UTC()
	if err := s.store.MarkStarted(ctx, electionID, at, minOptions); err != nil {
		return nil, err
	}
	e.StartDate = &at

	voters, err := s.store.ListVoters(ctx, electionID)
	if err != nil {
		// Voting is open regardless; owners can resend with a reminder.
		s.logger.Error("failed to list voters for notification", "election_id", electionID, "error", err)
	} else if len(voters) > 0 {
		s.notifier.Notify(context.WithoutCancel(ctx), voters, *e, NotifyNewVoter)
	}

	metrics.Transitions.WithLabelValues(EventStart.String()).Inc()
	s.logger.Info("election started", "election_id", electionID, "voters", len(voters))
	return e, nil
}

// TogglePause pauses a running election or resumes a paused one and returns
// the new paused value.
func (s *Service) TogglePause(ctx context.Context, id Identity, electionID int64) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return false, err
	}
	if _, err := Transition(StateOf(e), EventTogglePause); err != nil {
		return false, err
	}

	paused, err := s.store.TogglePaused(ctx, electionID)
	if err != nil {
		return false, err
	}

	metrics.Transitions.WithLabelValues(EventTogglePause.String()).Inc()
	s.logger.Info("election pause toggled", "election_id", electionID, "paused", paused)
	return paused, nil
}

// EndElection closes an active election. Voters and their tokens are purged.
func (s *Service) EndElection(ctx context.Context, id Identity, electionID int64) (*models.Election, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return nil, err
	}
	if _, err := Transition(StateOf(e), EventEnd); err != nil {
		return nil, err
	}

	at := s.now().UTC()
	if err := s.store.MarkEnded(ctx, electionID, at); err != nil {
		return nil, err
	}
	e.EndDate = &at
	e.Paused = false

	metrics.Transitions.WithLabelValues(EventEnd.String()).Inc()
	s.logger.Info("election ended", "election_id", electionID, "voted", e.Voted, "voters", e.Voters)
	return e, nil
}

// SendReminder notifies every voter of an active election who has not voted
// yet and returns how many were reminded.
func (s *Service) SendReminder(ctx context.Context, id Identity, electionID int64) (int, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return 0, err
	}
	if err := requireState(e, StateInProgress, StatePaused); err != nil {
		return 0, err
	}

	voters, err := s.store.ListVoters(ctx, electionID)
	if err != nil {
		return 0, err
	}
	pending := voters[:0]
	for _, v := range voters {
		if !v.Voted {
			pending = append(pending, v)
		}
	}
	if len(pending) > 0 {
		s.notifier.Notify(context.WithoutCancel(ctx), pending, *e, NotifyReminder)
	}

	s.logger.Info("reminder sent", "election_id", electionID, "reminded", len(pending))
	return len(pending), nil
}

// IsNotOwner reports whether err is an ownership failure.
func IsNotOwner(err error) bool {
	return errors.Is(err, ErrNotOwner)
}
