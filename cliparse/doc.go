// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadDotEnv reads an optional .env file, then ParseFlags returns a Config:

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

Flags fall back to environment variables:

	-p               PORT                     default 3318
	-d               DATABASE_URL             required unless -t memory
	-t               DATABASE_TYPE            sqlite | postgres | memory (default sqlite)
	-base-url        BASE_URL                 default http://localhost:<port>
	-jwt-secret      JWT_SECRET               required
	-require-voter   REQUIRE_VOTER_TO_START   default false
	-timeout         OPERATION_TIMEOUT        default 5s
	-smtp-host       SMTP_HOST                empty logs mail instead of sending
	-smtp-port       SMTP_PORT                default 587
	-smtp-from       SMTP_FROM                required with SMTP_HOST
	                 SMTP_USER, SMTP_PASSWORD
	-notify-workers  NOTIFY_WORKERS           default 4

CLI flags take precedence over environment variables.
*/
package cliparse
