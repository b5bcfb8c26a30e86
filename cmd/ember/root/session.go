package root

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"emberline/internal/config"
	"emberline/internal/engine"
	"emberline/internal/localcache"
	"emberline/internal/storage"
)

var (
	flagConfig string
	flagGuest  bool
	flagAuth   bool
)

func loadConfig() (config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	// CLI flags win over file and env.
	switch {
	case flagGuest && flagAuth:
		return cfg, fmt.Errorf("--guest and --authenticated are mutually exclusive")
	case flagGuest:
		cfg.Mode = string(engine.ModeGuest)
	case flagAuth:
		cfg.Mode = string(engine.ModeAuthenticated)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openSession builds a Session against the persistence tier the config
// selects. The returned cleanup closes the session and its store.
func openSession(ctx context.Context) (*engine.Session, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := newLogger(cfg)

	switch cfg.Mode {
	case string(engine.ModeAuthenticated):
		db, err := storage.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		syncer := engine.NewRemoteSyncer(db, log)
		sess, err := engine.NewSession(ctx, engine.ModeAuthenticated, syncer, engine.WithLogger(log))
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		cleanup := func() { _ = sess.Close(context.Background()) }
		return sess, cleanup, nil

	case string(engine.ModeGuest), "":
		cache, err := localcache.Open(localcache.DefaultConfig(cfg.CacheDir))
		if err != nil {
			return nil, nil, err
		}
		syncer := engine.NewGuestSyncer(cache, log)
		sess, err := engine.NewSession(ctx, engine.ModeGuest, syncer, engine.WithLogger(log))
		if err != nil {
			_ = cache.Close()
			return nil, nil, err
		}
		cleanup := func() { _ = sess.Close(context.Background()) }
		return sess, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown mode %q (want guest or authenticated)", cfg.Mode)
	}
}
