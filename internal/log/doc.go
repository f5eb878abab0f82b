// Package log builds the slog loggers used by nobelstats.
//
// Loggers write text by default and JSON lines on request. Both wrap their
// handler in a ClipHandler, which shortens oversized string attributes so a
// malformed CSV row or a long header list cannot flood the terminal.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Warn("row skipped", "row", 42, "raw", rawLine) // raw is clipped
//	slog.SetDefault(logger)
package log
