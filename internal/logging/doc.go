// Package logging holds the slog conventions used across mcal.
//
// Logs go to stderr as text so they never mix with rendered calendar output
// on stdout. The level defaults to warn and is raised with --log-level or
// --debug.
//
//	logger := logging.WithOperation(slog.Default(), "aggregate.fetch")
//	logger.Warn("account fetch failed",
//	    logging.Account("work"),
//	    logging.Err(err))
package logging
