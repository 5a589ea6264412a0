// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - ElectionRequest: name, optional description and votable
  - OptionRequest: name
  - RegisterVotersRequest: voters (email addresses)
  - CastBallotRequest: options (indices into the option list)

# Response Types

Types for JSON responses:

  - ElectionResponse: summary with derived state
  - ElectionDetailResponse: summary plus votable, option names, voter emails
  - OptionResponse: index, name
  - VoterResponse: email, voted
  - RegisterVotersResponse: per-address failures
  - TogglePauseResponse, ReminderResponse, ResultsResponse
  - ErrorResponse: error, message

# Domain Types

  - Election: owner, counters, and lifecycle timestamps
  - Option: named choice with a vote counter
  - Voter: email plus secret single-use token
  - Ballot: the token holder's view of an election
  - OptionResult: one row of a tally
  - RegistrationFailures: address -> reason

# Limits

	MaxNameLength        = 255
	MaxDescriptionLength = 500
	MinVotable           = 1
*/
package models
