// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/middleware"
	"github.com/danielhkuo/elex/models"
	"github.com/danielhkuo/elex/testutil"
)

const (
	owner    = "user-alice"
	stranger = "user-mallory"
)

// asUser attaches userID the way middleware.RequireUser does.
func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

type fakeRenderer struct{}

func (fakeRenderer) RenderReport(results []models.OptionResult, e models.Election) ([]byte, error) {
	return []byte("%PDF-1.3 " + e.Name), nil
}

func ptr[T any](v T) *T { return &v }

func TestCreateElection(t *testing.T) {
	store := testutil.SetupTestStore(t)
	svc := testutil.SetupTestService(t, store, nil, nil)
	handler := NewElectionHandler(svc)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.ElectionResponse)
	}{
		{
			name: "valid election",
			requestBody: models.ElectionRequest{
				Name:        "Board election",
				Description: ptr("Annual vote"),
				Votable:     ptr(2),
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.ElectionResponse) {
				if resp.ID == 0 {
					t.Error("Expected non-zero id")
				}
				if resp.State != "created" {
					t.Errorf("Expected state 'created', got '%s'", resp.State)
				}
				if resp.StartDate != nil || resp.EndDate != nil {
					t.Error("Expected no start or end date")
				}

				e, err := store.GetElection(context.Background(), resp.ID)
				if err != nil {
					t.Fatalf("Failed to load election: %v", err)
				}
				if e.Owner != owner {
					t.Errorf("Expected owner %s, got %s", owner, e.Owner)
				}
				if e.Votable != 2 {
					t.Errorf("Expected votable 2, got %d", e.Votable)
				}
			},
		},
		{
			name:           "defaults",
			requestBody:    models.ElectionRequest{Name: "Minimal"},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.ElectionResponse) {
				if resp.Description != "" {
					t.Errorf("Expected empty description, got %q", resp.Description)
				}
			},
		},
		{
			name:           "missing name",
			requestBody:    models.ElectionRequest{Description: ptr("x")},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "votable below one",
			requestBody:    models.ElectionRequest{Name: "Zero", Votable: ptr(0)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest("POST", "/api/v1/election", tt.requestBody, nil), owner)
			w := httptest.NewRecorder()

			handler.CreateElection(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated && tt.checkResponse != nil {
				var resp models.ElectionResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestListElectionsOnlyOwn(t *testing.T) {
	store := testutil.SetupTestStore(t)
	svc := testutil.SetupTestService(t, store, nil, nil)
	handler := NewElectionHandler(svc)

	testutil.CreateTestElection(t, svc, owner)
	testutil.CreateTestElection(t, svc, owner)
	testutil.CreateTestElection(t, svc, stranger)

	req := asUser(testutil.MakeRequest("GET", "/api/v1/election", nil, nil), owner)
	w := httptest.NewRecorder()
	handler.ListElections(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp []models.ElectionResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp) != 2 {
		t.Errorf("Expected 2 elections, got %d", len(resp))
	}
}

func TestGetElection(t *testing.T) {
	store := testutil.SetupTestStore(t)
	svc := testutil.SetupTestService(t, store, nil, nil)
	handler := NewElectionHandler(svc)

	e := testutil.CreateTestElection(t, svc, owner, "Alice", "Bob")
	testutil.RegisterTestVoters(t, svc, store, owner, e.ID, "v1@example.com")

	tests := []struct {
		name           string
		id             string
		user           string
		expectedStatus int
	}{
		{"owner", idString(e.ID), owner, http.StatusOK},
		{"not owner looks missing", idString(e.ID), stranger, http.StatusNotFound},
		{"missing", "999999", owner, http.StatusNotFound},
		{"bad id", "abc", owner, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest("GET", "/api/v1/election/"+tt.id, nil, nil), tt.user)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.GetElection(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var resp models.ElectionDetailResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp.Options) != 2 || resp.Options[0] != "Alice" || resp.Options[1] != "Bob" {
				t.Errorf("Unexpected options: %v", resp.Options)
			}
			if len(resp.VoterEmails) != 1 || resp.Voters != 1 {
				t.Errorf("Expected one voter, got %v (%d)", resp.VoterEmails, resp.Voters)
			}
		})
	}
}

func TestUpdateElectionOnlyWhileCreated(t *testing.T) {
	store := testutil.SetupTestStore(t)
	svc := testutil.SetupTestService(t, store, nil, nil)
	handler := NewElectionHandler(svc)

	e := testutil.CreateTestElection(t, svc, owner, "A", "B")

	update := func() *httptest.ResponseRecorder {
		body := models.ElectionRequest{Name: "Renamed", Votable: ptr(2)}
		req := asUser(testutil.MakeRequest("PUT", "/api/v1/election/"+idString(e.ID), body, nil), owner)
		req.SetPathValue("id", idString(e.ID))
		w := httptest.NewRecorder()
		handler.UpdateElection(w, req)
		return w
	}

	w := update()
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ElectionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Name != "Renamed" {
		t.Errorf("Expected name 'Renamed', got '%s'", resp.Name)
	}

	testutil.StartTestElection(t, svc, owner, e.ID)
	testutil.AssertStatus(t, update(), http.StatusForbidden)
}

func TestLifecycleEndpoints(t *testing.T) {
	store := testutil.SetupTestStore(t)
	svc := testutil.SetupTestService(t, store, nil, fakeRenderer{})
	handler := NewElectionHandler(svc)

	e := testutil.CreateTestElection(t, svc, owner, "A")
	id := idString(e.ID)

	call := func(fn http.HandlerFunc, method, path, user string) *httptest.ResponseRecorder {
		req := asUser(testutil.MakeRequest(method, path, nil, nil), user)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		fn(w, req)
		return w
	}

	// One option is not enough to start
	testutil.AssertStatus(t, call(handler.StartElection, "POST", "/start", owner), http.StatusForbidden)
	if _, _, err := svc.AddOption(context.Background(), election.Identity{UserID: owner}, e.ID, "B"); err != nil {
		t.Fatalf("Failed to add option: %v", err)
	}

	// Results are hidden until the election is closed
	testutil.AssertStatus(t, call(handler.GetResults, "GET", "/results", owner), http.StatusForbidden)
	testutil.AssertStatus(t, call(handler.StartElection, "POST", "/start", stranger), http.StatusNotFound)

	w := call(handler.StartElection, "POST", "/start", owner)
	testutil.AssertStatus(t, w, http.StatusOK)
	var started models.ElectionResponse
	testutil.AssertJSON(t, w, &started)
	if started.State != "in_progress" || started.StartDate == nil {
		t.Errorf("Expected in_progress with start date, got %s", started.State)
	}

	testutil.AssertStatus(t, call(handler.StartElection, "POST", "/start", owner), http.StatusForbidden)
	testutil.AssertStatus(t, call(handler.DeleteElection, "DELETE", "/", owner), http.StatusForbidden)

	w = call(handler.TogglePause, "POST", "/pause", owner)
	testutil.AssertStatus(t, w, http.StatusOK)
	var pause models.TogglePauseResponse
	testutil.AssertJSON(t, w, &pause)
	if !pause.Paused {
		t.Error("Expected paused=true after first toggle")
	}

	w = call(handler.SendReminder, "POST", "/reminder", owner)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = call(handler.EndElection, "POST", "/end", owner)
	testutil.AssertStatus(t, w, http.StatusOK)
	var ended models.ElectionResponse
	testutil.AssertJSON(t, w, &ended)
	if ended.State != "closed" || ended.Paused {
		t.Errorf("Expected closed and unpaused, got %s paused=%v", ended.State, ended.Paused)
	}

	testutil.AssertStatus(t, call(handler.TogglePause, "POST", "/pause", owner), http.StatusForbidden)
	testutil.AssertStatus(t, call(handler.SendReminder, "POST", "/reminder", owner), http.StatusForbidden)

	w = call(handler.GetResults, "GET", "/results", owner)
	testutil.AssertStatus(t, w, http.StatusOK)
	var results models.ResultsResponse
	testutil.AssertJSON(t, w, &results)
	if len(results.Results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results.Results))
	}

	w = call(handler.GetReport, "GET", "/report", owner)
	testutil.AssertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("Expected PDF body")
	}

	testutil.AssertStatus(t, call(handler.DeleteElection, "DELETE", "/", owner), http.StatusNoContent)
	testutil.AssertStatus(t, call(handler.GetElection, "GET", "/", owner), http.StatusNotFound)
}

func TestGetReportWithoutRenderer(t *testing.T) {
	store := testutil.SetupTestStore(t)
	svc := testutil.SetupTestService(t, store, nil, nil)
	handler := NewElectionHandler(svc)

	e := testutil.CreateTestElection(t, svc, owner, "A", "B")
	testutil.StartTestElection(t, svc, owner, e.ID)
	if _, err := svc.EndElection(context.Background(), election.Identity{UserID: owner}, e.ID); err != nil {
		t.Fatalf("Failed to end election: %v", err)
	}

	req := asUser(testutil.MakeRequest("GET", "/report", nil, nil), owner)
	req.SetPathValue("id", idString(e.ID))
	w := httptest.NewRecorder()
	handler.GetReport(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}
