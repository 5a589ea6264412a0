// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/elex/models"
	"github.com/danielhkuo/elex/testutil"
)

// TestConcurrentBallotSubmissions verifies that simultaneous ballots from
// different voters are all counted exactly once
func TestConcurrentBallotSubmissions(t *testing.T) {
	store := testutil.SetupTestStore(t)
	svc := testutil.SetupTestService(t, store, nil, nil)
	votingHandler := NewVotingHandler(svc)

	e := testutil.CreateTestElection(t, svc, owner, "Option A", "Option B", "Option C")

	numVoters := 10
	emails := make([]string, numVoters)
	for i := range emails {
		emails[i] = fmt.Sprintf("voter%d@example.com", i)
	}
	tokens := testutil.RegisterTestVoters(t, svc, store, owner, e.ID, emails...)
	testutil.StartTestElection(t, svc, owner, e.ID)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i, email := range emails {
		wg.Add(1)
		go func(idx int, token string) {
			defer wg.Done()

			w := httptest.NewRecorder()
			votingHandler.CastBallot(w, ballotRequest("POST", token, models.CastBallotRequest{Options: []int{idx % 3}}))
			if w.Code == http.StatusNoContent {
				successCount.Add(1)
			} else {
				t.Errorf("Voter %d failed: %d - %s", idx, w.Code, w.Body.String())
			}
		}(i, tokens[email])
	}
	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful ballots, got %d", numVoters, successCount.Load())
	}

	got, err := store.GetElection(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Failed to load election: %v", err)
	}
	if got.Voted != numVoters {
		t.Errorf("Expected voted %d, got %d", numVoters, got.Voted)
	}

	options, err := store.ListOptions(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Failed to list options: %v", err)
	}
	total := 0
	for _, o := range options {
		total += o.Votes
	}
	if total != numVoters {
		t.Errorf("Expected %d votes in total, got %d", numVoters, total)
	}
}

// TestConcurrentReplay verifies that the same token racing against itself is
// accepted exactly once
func TestConcurrentReplay(t *testing.T) {
	store := testutil.SetupTestStore(t)
	svc := testutil.SetupTestService(t, store, nil, nil)
	votingHandler := NewVotingHandler(svc)

	e := testutil.CreateTestElection(t, svc, owner, "Yes", "No")
	tokens := testutil.RegisterTestVoters(t, svc, store, owner, e.ID, "racer@example.com")
	testutil.StartTestElection(t, svc, owner, e.ID)
	token := tokens["racer@example.com"]

	attempts := 8
	var successCount, rejectedCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			votingHandler.CastBallot(w, ballotRequest("POST", token, models.CastBallotRequest{Options: []int{0}}))
			switch w.Code {
			case http.StatusNoContent:
				successCount.Add(1)
			case http.StatusForbidden:
				rejectedCount.Add(1)
			default:
				t.Errorf("Unexpected status %d - %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly one accepted ballot, got %d", successCount.Load())
	}
	if int(rejectedCount.Load()) != attempts-1 {
		t.Errorf("Expected %d rejected ballots, got %d", attempts-1, rejectedCount.Load())
	}

	options, err := store.ListOptions(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Failed to list options: %v", err)
	}
	if options[0].Votes != 1 {
		t.Errorf("Expected 1 vote, got %d", options[0].Votes)
	}
}

// TestConcurrentRegistration verifies that parallel batches never register the
// same address twice
func TestConcurrentRegistration(t *testing.T) {
	store := testutil.SetupTestStore(t)
	svc := testutil.SetupTestService(t, store, nil, nil)
	voterHandler := NewVoterHandler(svc)

	e := testutil.CreateTestElection(t, svc, owner, "A", "B")
	id := idString(e.ID)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := models.RegisterVotersRequest{Voters: []string{"same@example.com", "other@example.com"}}
			req := asUser(testutil.MakeRequest("POST", "/api/v1/election/"+id+"/voter", body, nil), owner)
			req.SetPathValue("id", id)
			w := httptest.NewRecorder()
			voterHandler.RegisterVoters(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("Unexpected status %d - %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	voters, err := store.ListVoters(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Failed to list voters: %v", err)
	}
	if len(voters) != 2 {
		t.Errorf("Expected 2 voters, got %d", len(voters))
	}
	got, err := store.GetElection(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Failed to load election: %v", err)
	}
	if got.Voters != 2 {
		t.Errorf("Expected voter count 2, got %d", got.Voters)
	}
}
