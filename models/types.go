// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Field limits
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 500
	MinVotable           = 1

	// MaxVotersPerRequest caps one registration batch.
	MaxVotersPerRequest = 1000
	// MaxRegisterBodyBytes caps the registration request body.
	MaxRegisterBodyBytes = 1 << 20
)

// Request types

// Description and Votable are optional; nil keeps the stored value on update
// and falls back to the default on create.
type ElectionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Votable     *int    `json:"votable,omitempty"`
}

type OptionRequest struct {
	Name string `json:"name"`
}

type RegisterVotersRequest struct {
	Voters []string `json:"voters"`
}

// Indices into the election's option list
type CastBallotRequest struct {
	Options []int `json:"options"`
}

// Response types

type ElectionResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	State        string     `json:"state"`
	Paused       bool       `json:"paused"`
	Voters       int        `json:"voters"`
	Voted        int        `json:"voted"`
	CreationDate time.Time  `json:"creation_date"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

type ElectionDetailResponse struct {
	ElectionResponse
	Votable     int      `json:"votable"`
	Options     []string `json:"options"`
	VoterEmails []string `json:"voters_list"`
}

type OptionResponse struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type VoterResponse struct {
	Email string `json:"email"`
	Voted bool   `json:"voted"`
}

// address -> failure reason; omitted addresses were registered
type RegisterVotersResponse struct {
	Failures RegistrationFailures `json:"failures"`
}

type TogglePauseResponse struct {
	Paused bool `json:"paused"`
}

type ReminderResponse struct {
	Reminded int `json:"reminded"`
}

type ResultsResponse struct {
	ElectionID int64          `json:"election_id"`
	Name       string         `json:"name"`
	Voters     int            `json:"voters"`
	Voted      int            `json:"voted"`
	Results    []OptionResult `json:"results"`
}

// Domain types

type Election struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Owner        string     `json:"-"`
	Votable      int        `json:"votable"`
	Voters       int        `json:"voters"`
	Voted        int        `json:"voted"`
	Paused       bool       `json:"paused"`
	CreationDate time.Time  `json:"creation_date"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

type Option struct {
	ID         int64  `json:"id"`
	ElectionID int64  `json:"election_id"`
	Name       string `json:"name"`
	Votes      int    `json:"votes"`
}

type Voter struct {
	ID         int64  `json:"id"`
	ElectionID int64  `json:"election_id"`
	Email      string `json:"email"`
	Token      string `json:"-"` // Never expose in JSON
	Voted      bool   `json:"voted"`
}

// ElectionDetail is an election with its option names and voter emails.
type ElectionDetail struct {
	Election Election
	Options  []string
	Voters   []string
}

// Ballot is what a token holder sees before voting.
type Ballot struct {
	ElectionID  int64    `json:"election_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Votable     int      `json:"votable"`
	Options     []string `json:"options"`
}

type OptionResult struct {
	Name  string `json:"name"`
	Votes int    `json:"votes"`
}

type RegistrationFailures map[string]string

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
