// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/models"
)

// Store keeps everything in maps behind one lock. Data is lost on restart.
type Store struct {
	mu sync.RWMutex

	nextID    int64
	elections map[int64]models.Election
	options   map[int64]models.Option
	voters    map[int64]models.Voter
	tokens    map[string]int64
}

var _ election.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		elections: make(map[int64]models.Election),
		options:   make(map[int64]models.Option),
		voters:    make(map[int64]models.Voter),
		tokens:    make(map[string]int64),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func clone(e models.Election) *models.Election {
	if e.StartDate != nil {
		t := *e.StartDate
		e.StartDate = &t
	}
	if e.EndDate != nil {
		t := *e.EndDate
		e.EndDate = &t
	}
	return &e
}

func (s *Store) CreateElection(_ context.Context, e *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id()
	s.elections[e.ID] = *clone(*e)
	return nil
}

func (s *Store) GetElection(_ context.Context, id int64) (*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.elections[id]
	if !ok {
		return nil, election.ErrElectionNotFound
	}
	return clone(e), nil
}

func (s *Store) ListElectionsByOwner(_ context.Context, owner string) ([]models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Election, 0)
	for _, e := range s.elections {
		if e.Owner == owner {
			out = append(out, *clone(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateElectionDetails(_ context.Context, e *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.elections[e.ID]
	if !ok {
		return election.ErrElectionNotFound
	}
	if cur.StartDate != nil {
		return election.ErrWrongState
	}
	cur.Name = e.Name
	cur.Description = e.Description
	cur.Votable = e.Votable
	s.elections[e.ID] = cur
	return nil
}

func (s *Store) DeleteElection(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.elections[id]; !ok {
		return election.ErrElectionNotFound
	}
	for oid, o := range s.options {
		if o.ElectionID == id {
			delete(s.options, oid)
		}
	}
	s.deleteVotersLocked(id)
	delete(s.elections, id)
	return nil
}

func (s *Store) deleteVotersLocked(electionID int64) {
	for vid, v := range s.voters {
		if v.ElectionID == electionID {
			delete(s.tokens, v.Token)
			delete(s.voters, vid)
		}
	}
}

func (s *Store) MarkStarted(_ context.Context, id int64, at time.Time, minOptions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elections[id]
	if !ok {
		return election.ErrElectionNotFound
	}
	if e.StartDate != nil {
		return election.ErrWrongState
	}
	count := 0
	for _, o := range s.options {
		if o.ElectionID == id {
			count++
		}
	}
	if count < minOptions {
		return election.ErrTooFewOptions
	}
	e.StartDate = &at
	s.elections[id] = e
	return nil
}

func (s *Store) TogglePaused(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elections[id]
	if !ok {
		return false, election.ErrElectionNotFound
	}
	if e.StartDate == nil || e.EndDate != nil {
		return false, election.ErrWrongState
	}
	e.Paused = !e.Paused
	s.elections[id] = e
	return e.Paused, nil
}

func (s *Store) MarkEnded(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elections[id]
	if !ok {
		return election.ErrElectionNotFound
	}
	if e.StartDate == nil || e.EndDate != nil {
		return election.ErrWrongState
	}
	e.EndDate = &at
	e.Paused = false
	s.elections[id] = e
	s.deleteVotersLocked(id)
	return nil
}

func (s *Store) ListOptions(_ context.Context, electionID int64) ([]models.Option, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Option, 0)
	for _, o := range s.options {
		if o.ElectionID == electionID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// notStartedLocked returns the lifecycle error for option writes and voter removal.
func (s *Store) notStartedLocked(electionID int64) error {
	e, ok := s.elections[electionID]
	if !ok {
		return election.ErrElectionNotFound
	}
	if e.StartDate != nil {
		return election.ErrWrongState
	}
	return nil
}

func (s *Store) optionNameTakenLocked(electionID int64, name string) bool {
	for _, o := range s.options {
		if o.ElectionID == electionID && o.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) CreateOption(_ context.Context, o *models.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.notStartedLocked(o.ElectionID); err != nil {
		return err
	}
	if s.optionNameTakenLocked(o.ElectionID, o.Name) {
		return election.ErrDuplicateEntry
	}
	o.ID = s.id()
	s.options[o.ID] = *o
	return nil
}

func (s *Store) RenameOption(_ context.Context, electionID, optionID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.notStartedLocked(electionID); err != nil {
		return err
	}
	o, ok := s.options[optionID]
	if !ok || o.ElectionID != electionID {
		return election.ErrOptionNotFound
	}
	if o.Name != name && s.optionNameTakenLocked(o.ElectionID, name) {
		return election.ErrDuplicateEntry
	}
	o.Name = name
	s.options[optionID] = o
	return nil
}

func (s *Store) DeleteOption(_ context.Context, electionID, optionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.notStartedLocked(electionID); err != nil {
		return err
	}
	if o, ok := s.options[optionID]; !ok || o.ElectionID != electionID {
		return election.ErrOptionNotFound
	}
	delete(s.options, optionID)
	return nil
}

func (s *Store) CreateVoter(_ context.Context, v *models.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elections[v.ElectionID]
	if !ok {
		return election.ErrElectionNotFound
	}
	if e.EndDate != nil {
		return election.ErrWrongState
	}
	if _, taken := s.tokens[v.Token]; taken {
		return election.ErrDuplicateToken
	}
	for _, other := range s.voters {
		if other.ElectionID == v.ElectionID && other.Email == v.Email {
			return election.ErrDuplicateEntry
		}
	}
	v.ID = s.id()
	s.voters[v.ID] = *v
	s.tokens[v.Token] = v.ID
	e.Voters++
	s.elections[e.ID] = e
	return nil
}

func (s *Store) DeleteVoter(_ context.Context, electionID int64, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.notStartedLocked(electionID); err != nil {
		return err
	}
	for id, v := range s.voters {
		if v.ElectionID == electionID && v.Email == email {
			delete(s.voters, id)
			delete(s.tokens, v.Token)
			if e, ok := s.elections[electionID]; ok {
				e.Voters--
				s.elections[electionID] = e
			}
			return nil
		}
	}
	return election.ErrVoterNotFound
}

func (s *Store) ListVoters(_ context.Context, electionID int64) ([]models.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Voter, 0)
	for _, v := range s.voters {
		if v.ElectionID == electionID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetVoterByToken(_ context.Context, token string) (*models.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, election.ErrTokenNotFound
	}
	v := s.voters[id]
	return &v, nil
}

func (s *Store) TokenExists(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok, nil
}

func (s *Store) ApplyBallot(_ context.Context, voterID, electionID int64, optionIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voters[voterID]
	if !ok || v.Voted || v.ElectionID != electionID {
		return election.ErrAlreadyVoted
	}
	e, ok := s.elections[electionID]
	if !ok || e.StartDate == nil || e.EndDate != nil || e.Paused {
		return election.ErrAlreadyVoted
	}
	for _, oid := range optionIDs {
		if o, ok := s.options[oid]; !ok || o.ElectionID != electionID {
			return election.ErrOutOfRange
		}
	}

	v.Voted = true
	s.voters[voterID] = v
	for _, oid := range optionIDs {
		o := s.options[oid]
		o.Votes++
		s.options[oid] = o
	}
	e.Voted++
	s.elections[electionID] = e
	return nil
}
