package observability

import (
	"github.com/danmuck/skysync/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	logger := log.Logger.With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
