// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/danielhkuo/elex/models"
)

var errNoRenderer = errors.New("no report renderer configured")

// Tally orders options by votes descending, then name ascending.
func Tally(options []models.Option) []models.OptionResult {
	results := make([]models.OptionResult, 0, len(options))
	for _, o := range options {
		results = append(results, models.OptionResult{Name: o.Name, Votes: o.Votes})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Votes != results[j].Votes {
			return results[i].Votes > results[j].Votes
		}
		return results[i].Name < results[j].Name
	})
	return results
}

// GetResults returns the final tally of a CLOSED election.
func (s *Service) GetResults(ctx context.Context, id Identity, electionID int64) (*models.Election, []models.OptionResult, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	e, err := s.ownedElection(ctx, id, electionID)
	if err != nil {
		return nil, nil, err
	}
	if err := requireState(e, StateClosed); err != nil {
		return nil, nil, err
	}
	options, err := s.store.ListOptions(ctx, electionID)
	if err != nil {
		return nil, nil, err
	}
	return e, Tally(options), nil
}

// RenderReport renders the final tally of a CLOSED election as a document.
func (s *Service) RenderReport(ctx context.Context, id Identity, electionID int64) ([]byte, error) {
	e, results, err := s.GetResults(ctx, id, electionID)
	if err != nil {
		return nil, err
	}
	if s.renderer == nil {
		return nil, errNoRenderer
	}
	doc, err := s.renderer.RenderReport(results, *e)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return doc, nil
}
