// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify delivers voter emails for the election service.

Dispatcher implements election.Notifier. It renders one Message per voter
with Composer and hands it to a pool of workers; the caller never waits on
delivery and a full queue drops the message with a warning.

	sender := notify.Retrying{Sender: notify.SMTPSender{...}, Attempts: 3, Backoff: time.Second}
	d := notify.NewDispatcher(sender, notify.Composer{BaseURL: cfg.BaseURL}, 4, 1024, nil)
	defer d.Close()

Two message kinds exist: "new" (invitation with the personal vote link) and
"reminder" (sent to voters who have not voted). LogSender is used when no
SMTP relay is configured.
*/
package notify
