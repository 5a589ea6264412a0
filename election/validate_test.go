// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/elex/election"
)

func TestValidateElectionInput(t *testing.T) {
	ptrString := func(s string) *string { return &s }
	ptrInt := func(i int) *int { return &i }

	tests := []struct {
		name    string
		in      election.ElectionInput
		wantErr bool
	}{
		{"name only", election.ElectionInput{Name: "Board"}, false},
		{"full", election.ElectionInput{Name: "Board", Description: ptrString("desc"), Votable: ptrInt(3)}, false},
		{"blank name", election.ElectionInput{Name: "   "}, true},
		{"long name", election.ElectionInput{Name: strings.Repeat("n", 256)}, true},
		{"name at limit", election.ElectionInput{Name: strings.Repeat("n", 255)}, false},
		{"name with header break", election.ElectionInput{Name: "Board\r\nBcc: attacker@evil.example"}, true},
		{"name with newline", election.ElectionInput{Name: "Board\nelection"}, true},
		{"name with tab", election.ElectionInput{Name: "Board\telection"}, true},
		{"name with nul", election.ElectionInput{Name: "Board\x00"}, true},
		{"multiline description", election.ElectionInput{Name: "x", Description: ptrString("line one\nline two")}, false},
		{"long description", election.ElectionInput{Name: "x", Description: ptrString(strings.Repeat("d", 501))}, true},
		{"zero votable", election.ElectionInput{Name: "x", Votable: ptrInt(0)}, true},
		{"negative votable", election.ElectionInput{Name: "x", Votable: ptrInt(-1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := election.ValidateElectionInput(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, election.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}

	out, err := election.ValidateElectionInput(election.ElectionInput{Name: "  Board  ", Description: ptrString("  d  ")})
	require.NoError(t, err)
	assert.Equal(t, "Board", out.Name)
	assert.Equal(t, "d", *out.Description)
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"a@example.com", "a@example.com", true},
		{"  a@example.com  ", "a@example.com", true},
		{"first.last+tag@sub.example.org", "first.last+tag@sub.example.org", true},
		{"", "", false},
		{"plain", "", false},
		{"a@localhost", "", false},
		{"Alice <a@example.com>", "", false},
		{"a@@example.com", "", false},
		{strings.Repeat("a", 250) + "@example.com", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := election.NormalizeEmail(tt.in)
			if !tt.ok {
				require.ErrorIs(t, err, election.ErrInvalidEmail)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
