package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger tags the global logger with app. Output and level come from
// internal/logging, which must be configured first.
func InitLogger(app string) zerolog.Logger {
	logger := log.With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// SessionLogger returns a child of the global logger carrying session identity.
func SessionLogger(sessionID, native, target string) zerolog.Logger {
	return log.With().
		Str("session", sessionID).
		Str("native", native).
		Str("target", target).
		Logger()
}
