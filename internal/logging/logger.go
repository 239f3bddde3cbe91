package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New creates the structured logger used across the service. The level comes
// from configuration; unknown levels fall back to info.
func New(levelName string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "snapvault").
		Logger()

	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
