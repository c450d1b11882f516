package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"leadhub-engine/internal/config"
	"leadhub-engine/internal/datadir"
	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/logging"
	"leadhub-engine/internal/match"
	"leadhub-engine/internal/store"
	"leadhub-engine/internal/store/memstore"
	"leadhub-engine/internal/store/pgstore"
)

const sqliteFile = "leadhub.db"

// app is everything the subcommands share once the data dir is ours.
type app struct {
	dataDir string
	lock    *datadir.Lock

	cfgPath string
	cfgVal  *atomic.Value // stores config.Config
	loadCfg func() (config.Config, error)

	log *zap.Logger

	repo     domain.Repository
	source   match.Source
	maintain func(ctx context.Context) error
}

// lockMode says when a subcommand needs the data dir to itself.
type lockMode int

const (
	// lockAlways is for serve and migrate, which own the data dir.
	lockAlways lockMode = iota
	// lockSQLite is for read-only commands: only a local SQLite file is
	// shared with a running server, so other drivers skip the lock.
	lockSQLite
)

func bootstrap(ctx context.Context, mode lockMode) (*app, error) {
	a := &app{dataDir: datadir.Resolve(dataDirFlag)}

	if mode == lockAlways {
		if err := a.acquire(); err != nil {
			return nil, err
		}
	}
	if err := a.loadConfig(); err != nil {
		a.close()
		return nil, err
	}
	if a.lock == nil && a.config().Store.Driver == "sqlite" {
		if err := a.acquire(); err != nil {
			a.close()
			return nil, err
		}
	}
	if err := a.openRepository(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) acquire() error {
	lock, err := datadir.Acquire(a.dataDir)
	if err != nil {
		return err
	}
	a.lock = lock
	return nil
}

func (a *app) loadConfig() error {
	if err := config.LoadDotEnv(a.dataDir); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	cfgPath, err := config.EnsureUserConfig(a.dataDir)
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}
	a.cfgPath = cfgPath
	a.loadCfg = func() (config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return cfg, err
		}
		cfg, vr := config.NormalizeAndValidate(cfg)
		if !vr.OK() {
			return cfg, errors.New("config validation failed:\n- " + strings.Join(vr.Errors, "\n- "))
		}
		return cfg, nil
	}

	cfg, err := a.loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", cfgPath, err)
	}
	a.cfgVal = &atomic.Value{}
	a.cfgVal.Store(cfg)

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.log = log
	_, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		log.Warn("config", zap.String("warning", w))
	}
	return nil
}

func (a *app) openRepository(ctx context.Context) error {
	cfg := a.config()
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.DSN
		if path == "" {
			path = filepath.Join(a.dataDir, sqliteFile)
		}
		s, err := store.Open(path)
		if err != nil {
			return err
		}
		if err := store.Migrate(s.Pool); err != nil {
			_ = s.Close()
			return fmt.Errorf("migrate %s: %w", path, err)
		}
		a.repo, a.source, a.maintain = s, s, s.Maintain
		a.log.Info("store ready", zap.String("driver", "sqlite"), zap.String("path", path))

	case "postgres":
		s, err := pgstore.Open(ctx, cfg.Store.DSN)
		if err != nil {
			return err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return fmt.Errorf("migrate postgres: %w", err)
		}
		a.repo, a.source = s, s
		a.log.Info("store ready", zap.String("driver", "postgres"))

	case "memory":
		s := memstore.New()
		a.repo, a.source = s, s
		a.log.Warn("store is in memory; data is lost on exit")

	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	return nil
}

func (a *app) config() config.Config {
	return a.cfgVal.Load().(config.Config)
}

func (a *app) close() {
	if a.repo != nil {
		_ = a.repo.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	_ = a.lock.Release()
}
