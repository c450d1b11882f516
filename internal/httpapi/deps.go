package httpapi

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"leadhub-engine/internal/config"
	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/drive"
	"leadhub-engine/internal/events"
	"leadhub-engine/internal/match"
	"leadhub-engine/internal/metrics"
	"leadhub-engine/internal/sheetsync"
)

type Deps struct {
	Repo    domain.Repository
	Matcher *match.Engine

	Hub     *events.Hub
	Sync    *sheetsync.Dispatcher
	Drive   *drive.Proxy
	Metrics *metrics.Metrics
	Log     *zap.Logger

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Maintain checkpoints the store; nil when the store has nothing to do.
	Maintain func(ctx context.Context) error
}

func (d Deps) config() config.Config {
	if d.CfgVal == nil {
		return config.Defaults()
	}
	if cfg, ok := d.CfgVal.Load().(config.Config); ok {
		return cfg
	}
	return config.Defaults()
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
