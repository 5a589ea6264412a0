// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"time"

	"github.com/danielhkuo/elex/models"
)

// Identity is the authenticated caller, resolved by the HTTP layer.
type Identity struct {
	UserID string
}

// Owns reports whether the identity owns e.
func (id Identity) Owns(e *models.Election) bool {
	return id.UserID != "" && id.UserID == e.Owner
}

// Store persists elections, options and voters.
//
// Lookups return ErrElectionNotFound, ErrOptionNotFound, ErrVoterNotFound or
// ErrTokenNotFound. Unique violations surface as ErrDuplicateEntry (option name,
// voter email) or ErrDuplicateToken. Lifecycle writes are compare-and-set against
// the expected state and return ErrWrongState when another caller got there first.
// Option and voter writes hold the same gate: options change only before start,
// voters are added only before end and removed only before start.
// Options are always returned in ascending ID order.
type Store interface {
	CreateElection(ctx context.Context, e *models.Election) error
	GetElection(ctx context.Context, id int64) (*models.Election, error)
	ListElectionsByOwner(ctx context.Context, owner string) ([]models.Election, error)
	// UpdateElectionDetails writes name, description and votable of a CREATED election.
	UpdateElectionDetails(ctx context.Context, e *models.Election) error
	// DeleteElection removes the election with its options and voters.
	DeleteElection(ctx context.Context, id int64) error

	// MarkStarted stamps start_date on a CREATED election that has at least
	// minOptions options, else ErrTooFewOptions.
	MarkStarted(ctx context.Context, id int64, at time.Time, minOptions int) error
	// TogglePaused flips paused on an active election and returns the new value.
	TogglePaused(ctx context.Context, id int64) (bool, error)
	// MarkEnded stamps end_date, clears paused and deletes every voter of the election.
	MarkEnded(ctx context.Context, id int64, at time.Time) error

	ListOptions(ctx context.Context, electionID int64) ([]models.Option, error)
	CreateOption(ctx context.Context, o *models.Option) error
	RenameOption(ctx context.Context, electionID, optionID int64, name string) error
	DeleteOption(ctx context.Context, electionID, optionID int64) error

	// CreateVoter inserts v and increments the election's voter count atomically.
	CreateVoter(ctx context.Context, v *models.Voter) error
	// DeleteVoter removes the voter and decrements the election's voter count atomically.
	DeleteVoter(ctx context.Context, electionID int64, email string) error
	ListVoters(ctx context.Context, electionID int64) ([]models.Voter, error)
	GetVoterByToken(ctx context.Context, token string) (*models.Voter, error)
	TokenExists(ctx context.Context, token string) (bool, error)

	// ApplyBallot flips the voter's voted flag false->true while the election is in
	// progress, then increments each option and the election's voted count, all in one
	// transaction. It returns ErrAlreadyVoted when the conditional flip matches nothing.
	ApplyBallot(ctx context.Context, voterID, electionID int64, optionIDs []int64) error
}

// NotificationKind selects the message sent to voters.
type NotificationKind int

const (
	NotifyNewVoter NotificationKind = iota + 1
	NotifyReminder
)

func (k NotificationKind) String() string {
	switch k {
	case NotifyNewVoter:
		return "new"
	case NotifyReminder:
		return "reminder"
	default:
		return "unknown"
	}
}

// Notifier delivers voter notifications. It must not block on delivery and its
// failures never affect the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, voters []models.Voter, e models.Election, kind NotificationKind)
}

// ReportRenderer produces a printable tally document.
type ReportRenderer interface {
	RenderReport(results []models.OptionResult, e models.Election) ([]byte, error)
}
