// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package logging configures colored structured logging with tint.

	logging.Setup()                          // level from LOG_LEVEL env
	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override

Environment variables:

	LOG_LEVEL: debug, info, warn, error (default: info)
*/
package logging
