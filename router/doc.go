// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires HTTP routes to handlers using Go 1.22+ method patterns.

	mux := router.NewRouter(svc, jwtManager)

Owner routes under /api/v1/election require a bearer JWT and are wrapped in
middleware.RequireUser. Ballot routes under /api/v1/vote/{token} are public;
the voter token is the credential. Every API route is wrapped in
middleware.WithLogging, which also records request latency for /metrics.
*/
package router
