// Package httpserver wraps net/http.Server with graceful shutdown, signal
// handling and option-based configuration.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", slog.Any("error", err))
//	}
package httpserver
