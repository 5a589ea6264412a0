// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/models"
	"github.com/danielhkuo/elex/testutil"
)

// inbox records notifications so the test can read tokens the way voters would.
type inbox struct {
	mu     sync.Mutex
	tokens map[string]string
	kinds  map[string][]election.NotificationKind
}

func newInbox() *inbox {
	return &inbox{
		tokens: make(map[string]string),
		kinds:  make(map[string][]election.NotificationKind),
	}
}

func (b *inbox) Notify(_ context.Context, voters []models.Voter, _ models.Election, kind election.NotificationKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, v := range voters {
		b.tokens[v.Email] = v.Token
		b.kinds[v.Email] = append(b.kinds[v.Email], kind)
	}
}

// TestFullElectionWorkflow tests the complete end-to-end workflow:
// 1. Create election
// 2. Add options
// 3. Register voters
// 4. Start (voters are notified with their tokens)
// 5. Voters cast ballots
// 6. Remind the voter who has not voted
// 7. End
// 8. Verify results
func TestFullElectionWorkflow(t *testing.T) {
	store := testutil.SetupTestStore(t)
	box := newInbox()
	svc := testutil.SetupTestService(t, store, box, fakeRenderer{})

	electionHandler := NewElectionHandler(svc)
	optionHandler := NewOptionHandler(svc)
	voterHandler := NewVoterHandler(svc)
	votingHandler := NewVotingHandler(svc)

	// Step 1: Create an election
	req := asUser(testutil.MakeRequest("POST", "/api/v1/election", models.ElectionRequest{
		Name:    "Integration Test Election",
		Votable: ptr(2),
	}, nil), owner)
	w := httptest.NewRecorder()
	electionHandler.CreateElection(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create election failed: %d - %s", w.Code, w.Body.String())
	}
	var created models.ElectionResponse
	testutil.AssertJSON(t, w, &created)
	id := idString(created.ID)
	t.Logf("Step 1 - Created election: %s", id)

	// Step 2: Add 3 options
	for _, name := range []string{"Pizza", "Sushi", "Tacos"} {
		req := asUser(testutil.MakeRequest("POST", "/api/v1/election/"+id+"/option", models.OptionRequest{Name: name}, nil), owner)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		optionHandler.AddOption(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Add option '%s' failed: %d - %s", name, w.Code, w.Body.String())
		}
	}

	// Step 3: Register 3 voters
	emails := []string{"alice@example.com", "bob@example.com", "carol@example.com"}
	req = asUser(testutil.MakeRequest("POST", "/api/v1/election/"+id+"/voter", models.RegisterVotersRequest{Voters: emails}, nil), owner)
	req.SetPathValue("id", id)
	w = httptest.NewRecorder()
	voterHandler.RegisterVoters(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Register voters failed: %d - %s", w.Code, w.Body.String())
	}
	var reg models.RegisterVotersResponse
	testutil.AssertJSON(t, w, &reg)
	if len(reg.Failures) != 0 {
		t.Fatalf("Step 3 - Unexpected failures: %v", reg.Failures)
	}
	if len(box.tokens) != 0 {
		t.Fatal("Step 3 - Voters must not be notified before the election starts")
	}

	// Step 4: Start
	req = asUser(testutil.MakeRequest("POST", "/api/v1/election/"+id+"/start", nil, nil), owner)
	req.SetPathValue("id", id)
	w = httptest.NewRecorder()
	electionHandler.StartElection(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Start failed: %d - %s", w.Code, w.Body.String())
	}
	if len(box.tokens) != len(emails) {
		t.Fatalf("Step 4 - Expected %d notified voters, got %d", len(emails), len(box.tokens))
	}

	// Step 5: Alice picks Pizza and Tacos, Bob picks Tacos
	ballots := map[string][]int{
		"alice@example.com": {0, 2},
		"bob@example.com":   {2},
	}
	for email, picks := range ballots {
		w := httptest.NewRecorder()
		votingHandler.CastBallot(w, ballotRequest("POST", box.tokens[email], models.CastBallotRequest{Options: picks}))
		if w.Code != http.StatusNoContent {
			t.Fatalf("Step 5 - Ballot for %s failed: %d - %s", email, w.Code, w.Body.String())
		}
	}

	// Step 6: Remind
	req = asUser(testutil.MakeRequest("POST", "/api/v1/election/"+id+"/reminder", nil, nil), owner)
	req.SetPathValue("id", id)
	w = httptest.NewRecorder()
	electionHandler.SendReminder(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Reminder failed: %d - %s", w.Code, w.Body.String())
	}
	var reminded models.ReminderResponse
	testutil.AssertJSON(t, w, &reminded)
	if reminded.Reminded != 1 {
		t.Errorf("Step 6 - Expected 1 reminder, got %d", reminded.Reminded)
	}
	if kinds := box.kinds["carol@example.com"]; len(kinds) != 2 || kinds[1] != election.NotifyReminder {
		t.Errorf("Step 6 - Expected carol to get a reminder, got %v", kinds)
	}

	// Step 7: End
	req = asUser(testutil.MakeRequest("POST", "/api/v1/election/"+id+"/end", nil, nil), owner)
	req.SetPathValue("id", id)
	w = httptest.NewRecorder()
	electionHandler.EndElection(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - End failed: %d - %s", w.Code, w.Body.String())
	}

	// Tokens die with the election
	w = httptest.NewRecorder()
	votingHandler.CastBallot(w, ballotRequest("POST", box.tokens["carol@example.com"], models.CastBallotRequest{Options: []int{1}}))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// Step 8: Verify results
	req = asUser(testutil.MakeRequest("GET", "/api/v1/election/"+id+"/results", nil, nil), owner)
	req.SetPathValue("id", id)
	w = httptest.NewRecorder()
	electionHandler.GetResults(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 8 - Get results failed: %d - %s", w.Code, w.Body.String())
	}
	var results models.ResultsResponse
	testutil.AssertJSON(t, w, &results)

	want := []models.OptionResult{{Name: "Tacos", Votes: 2}, {Name: "Pizza", Votes: 1}, {Name: "Sushi", Votes: 0}}
	if len(results.Results) != len(want) {
		t.Fatalf("Step 8 - Expected %d results, got %d", len(want), len(results.Results))
	}
	for i, r := range want {
		if results.Results[i] != r {
			t.Errorf("Step 8 - Result %d: expected %+v, got %+v", i, r, results.Results[i])
		}
	}
	if results.Voters != 3 || results.Voted != 2 {
		t.Errorf("Step 8 - Expected 2 of 3 voted, got %d of %d", results.Voted, results.Voters)
	}
}
