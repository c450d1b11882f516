package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"leadhub-engine/internal/config"
	"leadhub-engine/internal/drive"
	"leadhub-engine/internal/events"
	"leadhub-engine/internal/httpapi"
	"leadhub-engine/internal/match"
	"leadhub-engine/internal/metrics"
	"leadhub-engine/internal/scheduler"
	"leadhub-engine/internal/secrets"
	"leadhub-engine/internal/sheetsync"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, lockAlways)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := a.config()
	log := a.log
	m := metrics.New("leadhub")
	hub := events.NewHub()
	limiter := sheetsync.NewHostLimiter(cfg.Sync.RequestsPerSecond, cfg.Sync.Burst)
	outbound := &http.Client{Timeout: time.Duration(cfg.Sync.TimeoutSeconds) * time.Second}

	sinks := []sheetsync.Sink{
		sheetsync.NewWebhookSink(func() sheetsync.Targets {
			c := a.config()
			return sheetsync.Targets{
				Listings:     secrets.Resolve(secrets.WebhookListings, c.Sync.ListingsWebhookURL),
				Requirements: secrets.Resolve(secrets.WebhookRequirements, c.Sync.RequirementsWebhookURL),
			}
		}, outbound, limiter, log.Named("sheetsync")),
	}
	if api := cfg.Sync.SheetsAPI; api.Enabled {
		sink, err := sheetsync.NewAPISink(ctx, sheetsync.APISinkOptions{
			CredentialsFile:   api.CredentialsFile,
			SpreadsheetID:     api.SpreadsheetID,
			ListingsRange:     api.ListingsRange,
			RequirementsRange: api.RequirementsRange,
		}, limiter)
		if err != nil {
			return err
		}
		sinks = append(sinks, sink)
	}
	dispatcher := sheetsync.NewDispatcher(cfg.Sync.QueueSize,
		time.Duration(cfg.Sync.TimeoutSeconds)*time.Second, log.Named("sheetsync"), m, sinks...)

	deps := httpapi.Deps{
		Repo:    a.repo,
		Matcher: match.NewEngine(a.source, log.Named("match")),
		Hub:     hub,
		Sync:    dispatcher,
		Drive: drive.NewProxy(func() string {
			return secrets.Resolve(secrets.WebhookDrive, a.config().Sync.DriveUploadURL)
		}, &http.Client{Timeout: 2 * time.Minute}, log.Named("drive")),
		Metrics:     m,
		Log:         log,
		CfgVal:      a.cfgVal,
		UserCfgPath: a.cfgPath,
		LoadCfg:     a.loadCfg,
		Maintain:    a.maintain,
	}
	mux := httpapi.NewMux(deps)

	addr := net.JoinHostPort(cfg.App.Host, strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           httpapi.Handler(deps, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(32)
	if err != nil {
		return err
	}
	tokenPath := filepath.Join(a.dataDir, "shutdown.token")
	if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
		return err
	}
	defer os.Remove(tokenPath)
	mux.HandleFunc("/shutdown", shutdownHandler(token, stop))

	log.Info("engine listening",
		zap.String("addr", "http://"+ln.Addr().String()),
		zap.String("data_dir", a.dataDir),
		zap.String("store", cfg.Store.Driver),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	g.Go(func() error { return dispatcher.Run(gctx) })
	g.Go(func() error {
		return config.Watch(gctx, a.cfgPath, log.Named("config"), func() {
			next, err := a.loadCfg()
			if err != nil {
				log.Warn("config reload rejected; keeping previous", zap.Error(err))
				return
			}
			a.cfgVal.Store(next)
			log.Info("config reloaded", zap.String("path", a.cfgPath))
		})
	})
	if mins := cfg.Maintenance.CheckpointMinutes; mins > 0 && a.maintain != nil {
		g.Go(func() error {
			scheduler.Every(gctx, time.Duration(mins)*time.Minute, "store_checkpoint", log.Named("scheduler"), a.maintain)
			return nil
		})
	}

	return g.Wait()
}
