// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/danielhkuo/elex/models"
)

// ElectionInput carries the editable election fields. Nil pointers mean "not provided".
type ElectionInput struct {
	Name        string
	Description *string
	Votable     *int
}

// ValidateElectionInput trims and checks name, description and votable limits.
func ValidateElectionInput(in ElectionInput) (ElectionInput, error) {
	name, err := ValidateName("name", in.Name)
	if err != nil {
		return in, err
	}
	in.Name = name

	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(d) > models.MaxDescriptionLength {
			return in, Validation(fmt.Sprintf("description must be at most %d characters", models.MaxDescriptionLength))
		}
		in.Description = &d
	}

	if in.Votable != nil && *in.Votable < models.MinVotable {
		return in, Validation(fmt.Sprintf("votable must be at least %d", models.MinVotable))
	}

	return in, nil
}

// ValidateName trims s and checks it is non-empty, single-line and within
// MaxNameLength. Names end up in mail subjects.
func ValidateName(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Validation(field + " is required")
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return "", Validation(field + " must not contain control characters")
	}
	if utf8.RuneCountInString(s) > models.MaxNameLength {
		return "", Validation(fmt.Sprintf("%s must be at most %d characters", field, models.MaxNameLength))
	}
	return s, nil
}

// NormalizeEmail trims addr and accepts only a bare address (no display name).
func NormalizeEmail(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" || utf8.RuneCountInString(addr) > models.MaxNameLength {
		return "", ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr || parsed.Name != "" {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndexByte(addr, '@')
	if at <= 0 || !strings.Contains(addr[at+1:], ".") {
		return "", ErrInvalidEmail
	}
	return addr, nil
}
