// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the elex API.

# Handler Types

Each handler is a struct over *election.Service:

  - ElectionHandler: election CRUD, lifecycle, reminders, results and report
  - OptionHandler: options addressed by their index
  - VoterHandler: voter registration and removal
  - VotingHandler: ballot retrieval and casting by voter token

Handlers are created via constructor functions:

	electionHandler := handlers.NewElectionHandler(svc)

# Identity

Owner handlers read the caller from the request context, where
middleware.RequireUser stores the JWT subject. Voting handlers take the voter
token from the {token} path value instead.

# Errors

Service errors are mapped by kind:

	not found        → 404
	not the owner    → 404 (indistinguishable from a missing election)
	forbidden/state  → 403
	validation       → 400 (including duplicate names)
	conflict         → 409
	anything else    → 500, logged

Batch voter registration always answers 200 with a map of per-address
failures; only whole-batch errors use the table above.
*/
package handlers
