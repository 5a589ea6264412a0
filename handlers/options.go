// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/middleware"
	"github.com/danielhkuo/elex/models"
)

type OptionHandler struct {
	svc *election.Service
}

func NewOptionHandler(svc *election.Service) *OptionHandler {
	return &OptionHandler{svc: svc}
}

// ListOptions handles GET /api/v1/election/{id}/option
func (h *OptionHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	options, err := h.svc.ListOptions(r.Context(), identity(r), id)
	if err != nil {
		writeError(w, err, "list options")
		return
	}

	resp := make([]models.OptionResponse, 0, len(options))
	for i, o := range options {
		resp = append(resp, models.OptionResponse{Index: i, Name: o.Name})
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// AddOption handles POST /api/v1/election/{id}/option
func (h *OptionHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	var req models.OptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	o, index, err := h.svc.AddOption(r.Context(), identity(r), id, req.Name)
	if err != nil {
		writeError(w, err, "add option")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.OptionResponse{Index: index, Name: o.Name})
}

// UpdateOption handles PUT /api/v1/election/{id}/option/{index}
func (h *OptionHandler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}
	index, ok := pathIndex(r, "index")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, election.ErrOptionNotFound.Error())
		return
	}

	var req models.OptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	o, err := h.svc.UpdateOption(r.Context(), identity(r), id, index, req.Name)
	if err != nil {
		writeError(w, err, "update option")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OptionResponse{Index: index, Name: o.Name})
}

// DeleteOption handles DELETE /api/v1/election/{id}/option/{index}
func (h *OptionHandler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}
	index, ok := pathIndex(r, "index")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, election.ErrOptionNotFound.Error())
		return
	}

	if err := h.svc.DeleteOption(r.Context(), identity(r), id, index); err != nil {
		writeError(w, err, "delete option")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
