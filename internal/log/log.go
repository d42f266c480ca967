// Package log configures the application logger.
package log

import (
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 5
	maxBackups = 3
)

// New returns a logger writing structured entries to a size-rotated file
// at path. Terminal output stays clean; diagnostics go to the file.
func New(path string) zerolog.Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}

	return zerolog.New(w).With().Timestamp().Logger()
}
