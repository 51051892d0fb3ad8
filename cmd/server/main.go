package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kadrportal/media/internal/api"
	"github.com/kadrportal/media/pkg/config"
	"github.com/kadrportal/media/pkg/csrf"
	"github.com/kadrportal/media/pkg/httpserver"
	"github.com/kadrportal/media/pkg/imagestore"
	"github.com/kadrportal/media/pkg/logger"
	"github.com/kadrportal/media/pkg/session"
	"github.com/kadrportal/media/pkg/uploads"
)

type appConfig struct {
	// StorageDriver selects where originals and thumbnails live:
	// "local" writes to UploadDir, "s3" uses the bucket from S3Config.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"./uploads/listings"`
	BaseURL       string `env:"UPLOAD_BASE_URL" envDefault:"/uploads/listings/"`

	// StateDriver selects the session upload-state backend:
	// "memory" for a single instance, "redis" when replicas share state.
	StateDriver string `env:"STATE_DRIVER" envDefault:"memory"`

	CSRFSecret string `env:"CSRF_SECRET,required"`

	Log     logger.Config
	Server  httpserver.Config
	Session session.Config
	Redis   uploads.RedisConfig
	S3      imagestore.S3Config
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(cfg.Log, logger.WithAttr(slog.String("service", "media")))

	store, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	state, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}

	guard, err := csrf.NewGuard(cfg.CSRFSecret)
	if err != nil {
		return err
	}

	registry := uploads.NewRegistry(store, state)
	handler := api.NewHandler(registry, guard, nil, log)

	routerCfg := api.RouterConfig{
		Session: cfg.Session,
		Log:     log,
	}
	if local, ok := store.(*imagestore.LocalStore); ok {
		routerCfg.StaticDir = local.Dir()
		routerCfg.StaticPrefix = cfg.BaseURL
	}

	srv := httpserver.NewFromConfig(cfg.Server, httpserver.WithLogger(log))
	return srv.Run(ctx, api.NewRouter(handler, routerCfg))
}

func newImageStore(ctx context.Context, cfg appConfig) (imagestore.Store, error) {
	switch cfg.StorageDriver {
	case "local":
		return imagestore.NewLocalStore(cfg.UploadDir, cfg.BaseURL)
	case "s3":
		return imagestore.NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func newSessionStore(ctx context.Context, cfg appConfig) (uploads.SessionStore, error) {
	switch cfg.StateDriver {
	case "memory":
		return uploads.NewMemoryStore(), nil
	case "redis":
		client, err := uploads.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return uploads.NewRedisStore(client, cfg.Redis.StateTTL), nil
	default:
		return nil, fmt.Errorf("unknown state driver %q", cfg.StateDriver)
	}
}
