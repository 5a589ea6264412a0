// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"

	"github.com/danielhkuo/elex/models"
)

// ListOptions returns the options of an owned election in index order.
func (s *Service) ListOptions(ctx context.Context, id Identity, electionID int64) ([]models.Option, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if _, err := s.ownedElection(ctx, id, electionID); err != nil {
		return nil, err
	}
	return s.store.ListOptions(ctx, electionID)
}

// AddOption appends a uniquely named option to a CREATED election and returns
// it with its index.
func (s *Service) AddOption(ctx context.Context, id Identity, electionID int64, name string) (*models.Option, int, error) {
	name, err := ValidateName("name", name)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return nil, 0, err
	}
	if err := requireState(e, StateCreated); err != nil {
		return nil, 0, err
	}

	o := &models.Option{ElectionID: electionID, Name: name}
	if err := s.store.CreateOption(ctx, o); err != nil {
		return nil, 0, err
	}
	options, err := s.store.ListOptions(ctx, electionID)
	if err != nil {
		return nil, 0, err
	}
	index := len(options) - 1
	for i := range options {
		if options[i].ID == o.ID {
			index = i
			break
		}
	}

	s.logger.Info("option added", "election_id", electionID, "option_id", o.ID)
	return o, index, nil
}

// UpdateOption renames the option at index.
func (s *Service) UpdateOption(ctx context.Context, id Identity, electionID int64, index int, name string) (*models.Option, error) {
	name, err := ValidateName("name", name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	o, err := s.optionAt(ctx, id, electionID, index)
	if err != nil {
		return nil, err
	}
	if o.Name == name {
		return o, nil
	}
	if err := s.store.RenameOption(ctx, electionID, o.ID, name); err != nil {
		return nil, err
	}
	o.Name = name

	s.logger.Info("option renamed", "election_id", electionID, "option_id", o.ID)
	return o, nil
}

// DeleteOption removes the option at index. Later options shift down by one.
func (s *Service) DeleteOption(ctx context.Context, id Identity, electionID int64, index int) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	o, err := s.optionAt(ctx, id, electionID, index)
	if err != nil {
		return err
	}
	if err := s.store.DeleteOption(ctx, electionID, o.ID); err != nil {
		return err
	}

	s.logger.Info("option deleted", "election_id", electionID, "option_id", o.ID)
	return nil
}

// optionAt resolves an index on an owned CREATED election.
func (s *Service) optionAt(ctx context.Context, id Identity, electionID int64, index int) (*models.Option, error) {
	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return nil, err
	}
	if err := requireState(e, StateCreated); err != nil {
		return nil, err
	}
	options, err := s.store.ListOptions(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(options) {
		return nil, ErrOptionNotFound
	}
	return &options[index], nil
}
