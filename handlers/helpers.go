// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/middleware"
	"github.com/danielhkuo/elex/models"
)

// identity returns the caller resolved by middleware.RequireUser.
func identity(r *http.Request) election.Identity {
	return election.Identity{UserID: middleware.GetUserID(r.Context())}
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pathIndex parses a non-negative integer path value.
func pathIndex(r *http.Request, name string) (int, bool) {
	i, err := strconv.Atoi(r.PathValue(name))
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// writeError maps service errors to HTTP responses. Elections owned by someone
// else are reported as missing.
func writeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, election.ErrNotOwner):
		middleware.ErrorResponse(w, http.StatusNotFound, election.ErrElectionNotFound.Error())
	case errors.Is(err, election.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, election.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, election.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, election.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		slog.Error("failed to "+action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func toElectionResponse(e *models.Election) models.ElectionResponse {
	return models.ElectionResponse{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		State:        election.StateOf(e).String(),
		Paused:       e.Paused,
		Voters:       e.Voters,
		Voted:        e.Voted,
		CreationDate: e.CreationDate,
		StartDate:    e.StartDate,
		EndDate:      e.EndDate,
	}
}

func toInput(req models.ElectionRequest) election.ElectionInput {
	return election.ElectionInput{
		Name:        req.Name,
		Description: req.Description,
		Votable:     req.Votable,
	}
}
