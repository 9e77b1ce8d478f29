package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xtding233/prizewheel/internal/config"
	cronrunner "github.com/xtding233/prizewheel/internal/cron"
	"github.com/xtding233/prizewheel/internal/draw"
	"github.com/xtding233/prizewheel/internal/engine"
	"github.com/xtding233/prizewheel/internal/inventory"
	"github.com/xtding233/prizewheel/internal/logger"
	"github.com/xtding233/prizewheel/internal/modefile"
	"github.com/xtding233/prizewheel/internal/prize"
	"github.com/xtding233/prizewheel/internal/report"
	"github.com/xtding233/prizewheel/internal/transport/grpcapi"
	"github.com/xtding233/prizewheel/internal/transport/httpapi"
)

func main() {
	cfgPath := os.Getenv("WHEEL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	envOnly := false
	if raw := os.Getenv("WHEEL_ENV_ONLY"); raw != "" {
		envOnly = strings.EqualFold(raw, "true") || raw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}
	if err := config.Validate(cfg); err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, _ := cfg.Schedule.Location()
	catalog, err := prize.NewLoader(cfg.Data.CatalogPath(), logger).Load(prize.Default())
	if err != nil {
		logger.Warn("catalog not loaded, keeping built-in catalog", zap.Error(err))
	}

	snapshots, closeStore := newSnapshotStore(ctx, cfg, logger)
	defer closeStore()

	opts, err := cfg.EngineOptions()
	if err != nil {
		logger.Fatal("engine options", zap.Error(err))
	}
	eng, err := engine.New(engine.Config{
		Catalog: catalog,
		Store: &inventory.Store{
			LedgerPath: cfg.Data.LedgerPath(),
			Snapshots:  snapshots,
			Logger:     logger.Named("inventory"),
		},
		Report:  report.NewAggregator(cfg.Data.ReportPath(), logger.Named("report")),
		Dates:   inventory.NewDateResolver(loc),
		RNG:     draw.DefaultRNG(),
		Logger:  logger.Named("engine"),
		Options: opts,
	})
	if err != nil {
		logger.Fatal("engine init failed", zap.Error(err))
	}
	eng.Initialize(ctx)

	modePath := cfg.Data.ModePath()
	if m, err := modefile.Read(modePath); err == nil {
		_ = eng.SetMode(m)
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("mode file ignored", zap.String("path", modePath), zap.Error(err))
	}
	poller := modefile.NewPoller(modePath, eng.SetMode, logger.Named("modefile"))

	var cronRunner *cronrunner.Runner
	if cfg.Cron.Enabled {
		cronRunner = cronrunner.New(logger.Named("cron"), ctx)
		if _, err := cronRunner.Add("mode_poll", cfg.Cron.ModePoll, func(context.Context) {
			poller.Poll()
		}); err != nil {
			logger.Warn("cron register mode poll failed", zap.Error(err))
		}
		if _, err := cronRunner.Add("rollover_check", cfg.Cron.RolloverCheck, func(ctx context.Context) {
			eng.CheckRollover(ctx)
		}); err != nil {
			logger.Warn("cron register rollover check failed", zap.Error(err))
		}
		cronRunner.Start()
	}

	grpcServer := grpcapi.NewGRPCServer(eng, logger.Named("grpc"))
	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           httpapi.NewHandler(eng, logger.Named("http")).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			errCh <- err
			return
		}
		logger.Info("grpc server starting", zap.String("addr", cfg.Server.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	if cronRunner != nil {
		cronRunner.Stop()
	}
	eng.Shutdown(shutdownCtx)
}

// newSnapshotStore picks the configured backend. The returned func releases it.
func newSnapshotStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (inventory.SnapshotStore, func()) {
	if cfg.State.Backend != "redis" {
		return inventory.NewFileSnapshotStore(cfg.Data.StatePath()), func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.State.RedisAddr, DB: cfg.State.RedisDB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis ping failed", zap.String("addr", cfg.State.RedisAddr), zap.Error(err))
	}
	logger.Info("snapshot backend: redis", zap.String("addr", cfg.State.RedisAddr))
	return inventory.NewRedisSnapshotStore(rdb, cfg.State.RedisPrefix), func() { _ = rdb.Close() }
}
