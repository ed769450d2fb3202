// Package logger builds configured log/slog loggers with sane defaults for
// development and production environments.
//
// Defaults favor production: JSON output at info level. Options switch the
// format, level, destination and static attributes, and the environment
// presets bundle the common combinations:
//
//	log := logger.New(logger.WithProduction("sweeper"))
//	logger.SetAsDefault(log)
//
// Development gets human-readable text output at debug level:
//
//	log := logger.New(logger.WithDevelopment("sweeper"))
package logger
