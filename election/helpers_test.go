// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/memstore"
	"github.com/danielhkuo/elex/models"
)

var (
	alice = election.Identity{UserID: "alice"}
	bob   = election.Identity{UserID: "bob"}
)

type notification struct {
	kind   election.NotificationKind
	emails []string
	tokens []string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (r *recordingNotifier) Notify(_ context.Context, voters []models.Voter, _ models.Election, kind election.NotificationKind) {
	n := notification{kind: kind}
	for _, v := range voters {
		n.emails = append(n.emails, v.Email)
		n.tokens = append(n.tokens, v.Token)
	}
	r.mu.Lock()
	r.sent = append(r.sent, n)
	r.mu.Unlock()
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.sent...)
}

type fixture struct {
	svc      *election.Service
	store    *memstore.Store
	notifier *recordingNotifier
	now      time.Time
}

func newFixture(t *testing.T, policy election.Policy, opts ...election.ServiceOption) *fixture {
	t.Helper()
	f := &fixture{
		store:    memstore.New(),
		notifier: &recordingNotifier{},
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	opts = append([]election.ServiceOption{
		election.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		election.WithClock(func() time.Time { return f.now }),
	}, opts...)
	f.svc = election.NewService(f.store, f.notifier, nil, policy, opts...)
	return f
}

// newElection creates an election owned by alice with the given options.
func (f *fixture) newElection(t *testing.T, votable int, options ...string) *models.Election {
	t.Helper()
	ctx := context.Background()
	e, err := f.svc.CreateElection(ctx, alice, election.ElectionInput{Name: "Board", Votable: &votable})
	require.NoError(t, err)
	for _, name := range options {
		_, _, err := f.svc.AddOption(ctx, alice, e.ID, name)
		require.NoError(t, err)
	}
	return e
}

// register adds voters and returns their tokens by email.
func (f *fixture) register(t *testing.T, electionID int64, emails ...string) map[string]string {
	t.Helper()
	ctx := context.Background()
	failures, err := f.svc.RegisterVoters(ctx, alice, electionID, emails)
	require.NoError(t, err)
	require.Empty(t, failures)

	voters, err := f.store.ListVoters(ctx, electionID)
	require.NoError(t, err)
	tokens := make(map[string]string, len(voters))
	for _, v := range voters {
		tokens[v.Email] = v.Token
	}
	return tokens
}

func (f *fixture) start(t *testing.T, electionID int64) {
	t.Helper()
	_, err := f.svc.StartElection(context.Background(), alice, electionID)
	require.NoError(t, err)
}
