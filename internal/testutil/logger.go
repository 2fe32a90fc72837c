package testutil

import (
	"log/slog"
)

// DiscardLogger returns a slog.Logger that discards all output.
//
// log.Logger is a type alias for *slog.Logger, so this is interchangeable
// with log.NewNop(); prefer log.NewNop() when the internal/log package is
// already imported.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
