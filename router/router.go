// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/elex/auth"
	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/handlers"
	"github.com/danielhkuo/elex/metrics"
	"github.com/danielhkuo/elex/middleware"
)

func NewRouter(svc *election.Service, jwtManager *auth.JWTManager) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(svc)
	optionHandler := handlers.NewOptionHandler(svc)
	voterHandler := handlers.NewVoterHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc)

	// owner wraps routes that act on the caller's elections
	owner := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireUser(jwtManager, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Election management (owner operations)
	mux.HandleFunc("GET /api/v1/election", owner(electionHandler.ListElections))
	mux.HandleFunc("POST /api/v1/election", owner(electionHandler.CreateElection))
	mux.HandleFunc("GET /api/v1/election/{id}", owner(electionHandler.GetElection))
	mux.HandleFunc("PUT /api/v1/election/{id}", owner(electionHandler.UpdateElection))
	mux.HandleFunc("DELETE /api/v1/election/{id}", owner(electionHandler.DeleteElection))

	// Lifecycle
	mux.HandleFunc("POST /api/v1/election/{id}/start", owner(electionHandler.StartElection))
	mux.HandleFunc("POST /api/v1/election/{id}/pause", owner(electionHandler.TogglePause))
	mux.HandleFunc("POST /api/v1/election/{id}/end", owner(electionHandler.EndElection))
	mux.HandleFunc("POST /api/v1/election/{id}/reminder", owner(electionHandler.SendReminder))
	mux.HandleFunc("GET /api/v1/election/{id}/results", owner(electionHandler.GetResults))
	mux.HandleFunc("GET /api/v1/election/{id}/report", owner(electionHandler.GetReport))

	// Options, addressed by index
	mux.HandleFunc("GET /api/v1/election/{id}/option", owner(optionHandler.ListOptions))
	mux.HandleFunc("POST /api/v1/election/{id}/option", owner(optionHandler.AddOption))
	mux.HandleFunc("PUT /api/v1/election/{id}/option/{index}", owner(optionHandler.UpdateOption))
	mux.HandleFunc("DELETE /api/v1/election/{id}/option/{index}", owner(optionHandler.DeleteOption))

	// Voter registry
	mux.HandleFunc("GET /api/v1/election/{id}/voter", owner(voterHandler.ListVoters))
	mux.HandleFunc("POST /api/v1/election/{id}/voter", owner(voterHandler.RegisterVoters))
	mux.HandleFunc("DELETE /api/v1/election/{id}/voter/{email}", owner(voterHandler.RemoveVoter))

	// Voting (public, the token is the credential)
	mux.HandleFunc("GET /api/v1/vote/{token}", middleware.WithLogging(votingHandler.GetBallot))
	mux.HandleFunc("POST /api/v1/vote/{token}", middleware.WithLogging(votingHandler.CastBallot))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("elex API v1"))
	})

	return mux
}
