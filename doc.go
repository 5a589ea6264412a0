// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the elex API server.

elex runs owner-managed elections: an owner creates an election, adds options,
registers voters by email and starts it. Each voter receives a single-use
token by mail and casts one approval ballot with it. Results are visible to
the owner once the election is closed, as JSON or as a PDF report.

# Starting the Server

The server reads a .env file when present, then environment variables or CLI
flags:

	JWT_SECRET=... DATABASE_URL=elex.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

# Configuration

Required settings:

  - JWT_SECRET (-jwt-secret): HS256 secret for owner identity tokens
  - DATABASE_URL (-d): connection string, unless DATABASE_TYPE is memory

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or memory (default: sqlite)
  - BASE_URL (-base-url): public URL used in vote links
  - REQUIRE_VOTER_TO_START (-require-voter): refuse to start without voters
  - OPERATION_TIMEOUT (-timeout): store timeout per operation (default: 5s)
  - SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD, SMTP_FROM: mail relay;
    without SMTP_HOST notifications are only logged
  - NOTIFY_WORKERS (-notify-workers): concurrent mail senders (default: 4)
  - LOG_LEVEL: debug, info, warn or error

# Architecture

  - election: lifecycle state machine, validation, tokens, tally
  - db, memstore: Store implementations (SQL and in-memory)
  - notify: background voter mail
  - report: PDF result reports
  - handlers, router, middleware: HTTP boundary
  - auth: voter tokens and owner JWTs
  - metrics, logging, cliparse: ambient concerns

See package documentation for each component.
*/
package main
