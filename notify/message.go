// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/models"
)

// Message is one email to one voter.
type Message struct {
	To      string
	Subject string
	Body    string
	Kind    election.NotificationKind
}

var funcs = template.FuncMap{
	"since": func(t *time.Time) string {
		if t == nil {
			return "just now"
		}
		return humanize.Time(*t)
	},
	"plural": func(n int, word string) string {
		if n == 1 {
			return "1 " + word
		}
		return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), word)
	},
}

var (
	newVoterTemplate = template.Must(template.New("new").Funcs(funcs).Parse(`Hello,

You have been invited to vote in "{{.Election.Name}}".
{{if .Election.Description}}
{{.Election.Description}}
{{end}}
You may choose up to {{plural .Election.Votable "option"}}. Your personal voting link is:

{{.VoteURL}}

The link works once. Do not share it.
`))

	reminderTemplate = template.Must(template.New("reminder").Funcs(funcs).Parse(`Hello,

This is a reminder that voting in "{{.Election.Name}}" opened {{since .Election.StartDate}} and you have not voted yet.

Your personal voting link is:

{{.VoteURL}}

The link works once. Do not share it.
`))
)

// Composer renders notification emails. Vote links are BaseURL + "/vote/" + token.
type Composer struct {
	BaseURL string
}

func (c Composer) voteURL(token string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/vote/" + token
}

// Compose builds the message for one voter.
func (c Composer) Compose(v models.Voter, e models.Election, kind election.NotificationKind) (Message, error) {
	data := struct {
		Election models.Election
		VoteURL  string
	}{e, c.voteURL(v.Token)}

	var tmpl *template.Template
	var subject string
	switch kind {
	case election.NotifyNewVoter:
		tmpl = newVoterTemplate
		subject = fmt.Sprintf("You are invited to vote: %s", e.Name)
	case election.NotifyReminder:
		tmpl = reminderTemplate
		subject = fmt.Sprintf("Reminder: vote in %s", e.Name)
	default:
		return Message{}, fmt.Errorf("unknown notification kind %d", kind)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s message: %w", kind, err)
	}

	return Message{To: v.Email, Subject: subject, Body: body.String(), Kind: kind}, nil
}
