// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/middleware"
	"github.com/danielhkuo/elex/models"
)

type VoterHandler struct {
	svc *election.Service
}

func NewVoterHandler(svc *election.Service) *VoterHandler {
	return &VoterHandler{svc: svc}
}

// ListVoters handles GET /api/v1/election/{id}/voter
func (h *VoterHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	voters, err := h.svc.ListVoters(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err, "list voters")
		return
	}

	resp := make([]models.VoterResponse, 0, len(voters))
	for _, v := range voters {
		resp = append(resp, models.VoterResponse{Email: v.Email, Voted: v.Voted})
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// RegisterVoters handles POST /api/v1/election/{id}/voter
// Per-address failures are returned with 200; only whole-batch errors fail.
func (h *VoterHandler) RegisterVoters(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, models.MaxRegisterBodyBytes)
	var req models.RegisterVotersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Voters) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voters is required")
		return
	}

	failures, err := h.svc.RegisterVoters(r.Context(), identity(r), id, req.Voters)
	if err != nil {
		writeError(w, err, "register voters")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RegisterVotersResponse{Failures: failures})
}

// RemoveVoter handles DELETE /api/v1/election/{id}/voter/{email}
func (h *VoterHandler) RemoveVoter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	if err := h.svc.RemoveVoter(r.Context(), identity(r), id, r.PathValue("email")); err != nil {
		writeError(w, err, "remove voter")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
