// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/middleware"
	"github.com/danielhkuo/elex/models"
)

// VotingHandler serves token holders. It needs no login; the voter token in the
// path is the credential.
type VotingHandler struct {
	svc *election.Service
}

func NewVotingHandler(svc *election.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// GetBallot handles GET /api/v1/vote/{token}
func (h *VotingHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	ballot, err := h.svc.GetBallot(r.Context(), r.PathValue("token"))
	if err != nil {
		writeError(w, err, "get ballot")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ballot)
}

// CastBallot handles POST /api/v1/vote/{token}
func (h *VotingHandler) CastBallot(w http.ResponseWriter, r *http.Request) {
	var req models.CastBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.CastBallot(r.Context(), r.PathValue("token"), req.Options); err != nil {
		writeError(w, err, "cast ballot")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
