// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs completion (method, path, status, duration_ms) and records the latency
under the matched route pattern in the elex_http_request_duration_seconds
histogram.

# Owner Identity

Owner routes require a bearer JWT:

	mux.HandleFunc("POST /api/v1/election",
		middleware.WithLogging(middleware.RequireUser(jwtManager, h.CreateElection)))

The token subject is stored in the request context; read it with GetUserID.
Missing or invalid tokens get 401 before the handler runs.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigins, mux),
	}

Listed origins are echoed back with Vary: Origin; an empty list answers "*".
Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type and Authorization. Credentials are not allowed.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
