// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the election lifecycle, voter registration and
ballot tallying rules on top of a pluggable Store.

# Lifecycle

The state of an election is derived from its fields, never stored:

	created      start_date unset
	in_progress  started, not ended, not paused
	paused       started, not ended, paused
	closed       end_date set

	created ──Start──> in_progress <──TogglePause──> paused
	in_progress | paused ──End──> closed

Start needs at least two options (and one voter when
Policy.RequireVoterToStart is set). Ending purges every voter and token.

# Gates

	edit election, options, remove voter   created
	register voters                        anything but closed
	vote                                   in_progress
	pause, end, reminder                   in_progress or paused
	results, report                        closed
	delete election                        created or closed

# Errors

Every failure returned by Service is either a store/internal error or an
*Error with a Kind. Match kinds with the sentinels:

	if errors.Is(err, election.ErrNotFound) { ... }
	if errors.Is(err, election.ErrNotOwner) { ... }

# Ballots

A voter token is a bearer credential. CastBallot deduplicates the selected
indices, rejects more than votable selections ("too many options") and
indices outside the option list ("out of range"), then asks the store to flip
the voter's voted flag and bump counters in one transaction.
*/
package election
