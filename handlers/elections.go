// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/middleware"
	"github.com/danielhkuo/elex/models"
)

type ElectionHandler struct {
	svc *election.Service
}

func NewElectionHandler(svc *election.Service) *ElectionHandler {
	return &ElectionHandler{svc: svc}
}

// ListElections handles GET /api/v1/election
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.svc.ListElections(r.Context(), identity(r))
	if err != nil {
		writeError(w, err, "list elections")
		return
	}

	resp := make([]models.ElectionResponse, 0, len(elections))
	for i := range elections {
		resp = append(resp, toElectionResponse(&elections[i]))
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// CreateElection handles POST /api/v1/election
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.svc.CreateElection(r.Context(), identity(r), toInput(req))
	if err != nil {
		writeError(w, err, "create election")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, toElectionResponse(e))
}

// GetElection handles GET /api/v1/election/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	detail, err := h.svc.GetElection(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err, "get election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionDetailResponse{
		ElectionResponse: toElectionResponse(&detail.Election),
		Votable:          detail.Election.Votable,
		Options:          detail.Options,
		VoterEmails:      detail.Voters,
	})
}

// UpdateElection handles PUT /api/v1/election/{id}
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.svc.UpdateElection(r.Context(), identity(r), id, toInput(req))
	if err != nil {
		writeError(w, err, "update election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toElectionResponse(e))
}

// DeleteElection handles DELETE /api/v1/election/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	if err := h.svc.DeleteElection(r.Context(), identity(r), id); err != nil {
		writeError(w, err, "delete election")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StartElection handles POST /api/v1/election/{id}/start
func (h *ElectionHandler) StartElection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	e, err := h.svc.StartElection(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err, "start election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toElectionResponse(e))
}

// TogglePause handles POST /api/v1/election/{id}/pause
func (h *ElectionHandler) TogglePause(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	paused, err := h.svc.TogglePause(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err, "toggle pause")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TogglePauseResponse{Paused: paused})
}

// EndElection handles POST /api/v1/election/{id}/end
func (h *ElectionHandler) EndElection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	e, err := h.svc.EndElection(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err, "end election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toElectionResponse(e))
}

// SendReminder handles POST /api/v1/election/{id}/reminder
func (h *ElectionHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	n, err := h.svc.SendReminder(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err, "send reminder")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ReminderResponse{Reminded: n})
}

// GetResults handles GET /api/v1/election/{id}/results
func (h *ElectionHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	e, results, err := h.svc.GetResults(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err, "get results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		ElectionID: e.ID,
		Name:       e.Name,
		Voters:     e.Voters,
		Voted:      e.Voted,
		Results:    results,
	})
}

// GetReport handles GET /api/v1/election/{id}/report
func (h *ElectionHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	doc, err := h.svc.RenderReport(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err, "render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="election-%d-results.pdf"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
