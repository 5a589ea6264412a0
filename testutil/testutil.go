// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/elex/auth"
	"github.com/danielhkuo/elex/cliparse"
	"github.com/danielhkuo/elex/db"
	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/models"
)

// TestJWTSecret signs every token minted by AuthHeader
const TestJWTSecret = "test-jwt-secret"

// SetupTestStore opens a fresh SQLite database with the full schema
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "elex-test.db")
	store, err := db.Open(context.Background(), db.SQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// SetupTestService wires a Service over store with a silent logger.
// A nil notifier drops notifications.
func SetupTestService(t *testing.T, store election.Store, notifier election.Notifier, renderer election.ReportRenderer) *election.Service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return election.NewService(store, notifier, renderer, election.Policy{
		OperationTimeout: 5 * time.Second,
	}, election.WithLogger(logger))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseType:     "sqlite",
		DatabaseURL:      ":memory:",
		JWTSecret:        TestJWTSecret,
		BaseURL:          "http://localhost:3318",
		OperationTimeout: 5 * time.Second,
		NotifyWorkers:    1,
	}
}

// JWTManager returns a manager that accepts tokens minted by AuthHeader
func JWTManager() *auth.JWTManager {
	return auth.NewJWTManager(TestJWTSecret, time.Hour)
}

// AuthHeader returns an Authorization header for userID
func AuthHeader(t *testing.T, userID string) map[string]string {
	t.Helper()

	token, err := JWTManager().Generate(userID, userID+"@example.com")
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// CreateTestElection creates an election owned by owner with the given options
func CreateTestElection(t *testing.T, svc *election.Service, owner string, options ...string) *models.Election {
	t.Helper()

	ctx := context.Background()
	id := election.Identity{UserID: owner}
	e, err := svc.CreateElection(ctx, id, election.ElectionInput{Name: "Test Election"})
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}
	for _, name := range options {
		if _, _, err := svc.AddOption(ctx, id, e.ID, name); err != nil {
			t.Fatalf("Failed to add test option %q: %v", name, err)
		}
	}

	return e
}

// RegisterTestVoters registers emails and returns each voter's token by email
func RegisterTestVoters(t *testing.T, svc *election.Service, store election.Store, owner string, electionID int64, emails ...string) map[string]string {
	t.Helper()

	ctx := context.Background()
	failures, err := svc.RegisterVoters(ctx, election.Identity{UserID: owner}, electionID, emails)
	if err != nil {
		t.Fatalf("Failed to register test voters: %v", err)
	}
	if len(failures) > 0 {
		t.Fatalf("Unexpected registration failures: %v", failures)
	}

	voters, err := store.ListVoters(ctx, electionID)
	if err != nil {
		t.Fatalf("Failed to list test voters: %v", err)
	}
	tokens := make(map[string]string, len(voters))
	for _, v := range voters {
		tokens[v.Email] = v.Token
	}

	return tokens
}

// StartTestElection moves an election to IN_PROGRESS
func StartTestElection(t *testing.T, svc *election.Service, owner string, electionID int64) {
	t.Helper()

	if _, err := svc.StartElection(context.Background(), election.Identity{UserID: owner}, electionID); err != nil {
		t.Fatalf("Failed to start test election: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var raw []byte
		if s, ok := body.(string); ok {
			raw = []byte(s)
		} else {
			raw, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
