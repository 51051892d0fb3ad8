// Package logger builds configured log/slog loggers.
//
// The factory reads its settings from the environment (format, level) so the
// same binary logs JSON in production and human-readable text in development:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.New(cfg, logger.WithAttr(slog.String("app", "media")))
package logger
