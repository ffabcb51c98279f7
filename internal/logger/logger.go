// Package logger configures the global slog logger for lakedeploy.
package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/lakedeploy/lakedeploy/internal/constants"

	"github.com/lmittmann/tint"
)

// Initialize sets up the global slog logger based on the environment.
// Terminal sessions get colorized tint output; production gets JSON.
func Initialize(env constants.Environment, level slog.Level) *slog.Logger {
	var handler slog.Handler

	if env == constants.Production {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			NoColor:    os.Getenv("NO_COLOR") != "",
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	logger.Debug("logger initialized", "env", string(env), "level", level)

	return logger
}

// FromEnv picks the environment from LAKEDEPLOY_ENV, defaulting to CLI.
func FromEnv() constants.Environment {
	if os.Getenv(constants.EnvironmentVariable) == string(constants.Production) {
		return constants.Production
	}
	return constants.CLI
}
