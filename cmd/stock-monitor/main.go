package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/api/routes"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/cli"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/cron"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/config"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/metrics"
)

const (
	serviceName     = "stock-monitor"
	shutdownTimeout = 10 * time.Second
)

func main() {
	once := flag.Bool("once", false, "run a single monitor cycle and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"schedule": cfg.Monitor.Schedule,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := cli.Bootstrap(ctx, cfg, logg, os.Stdout, registry)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logg.Error(context.Background(), "error closing connections", err)
		}
	}()

	service, err := buildService(cfg, logg, app, registry)
	if err != nil {
		logg.Error(ctx, "failed to create monitor service", err)
		os.Exit(1)
	}

	if *once {
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "monitor cycle failed", err)
			os.Exit(1)
		}
		return
	}

	var server *http.Server
	if cfg.Monitor.MetricsAddr != "" {
		var redisP db.Pinger
		if app.Redis != nil {
			redisP = app.Redis
		}
		server = &http.Server{
			Addr:              cfg.Monitor.MetricsAddr,
			Handler:           routes.NewRouter(cfg, logg, app.DB, redisP, registry, app.Reports, app.Tracker, app.Evaluator),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			srvCtx := logg.WithField(ctx, "addr", server.Addr)
			logg.Info(srvCtx, "serving health and metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logg.Error(srvCtx, "metrics server stopped unexpectedly", err)
				stop()
			}
		}()
	}

	logg.Info(ctx, "starting stock monitor")
	runErr := service.Run(ctx)

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "metrics server shutdown failed", err)
		}
		cancel()
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logg.Error(ctx, "stock monitor stopped unexpectedly", runErr)
		os.Exit(1)
	}
	logg.Info(ctx, "stock monitor shutting down gracefully")
}

func buildService(cfg *config.Config, logg *logger.Logger, app *cli.App, registry prometheus.Registerer) (*cron.Service, error) {
	var lock cron.Lock = cron.NewLocalLock()
	if app.Redis != nil {
		redisLock, err := cron.NewRedisLock(app.Redis, app.Redis.LockKey(serviceName), cfg.Monitor.LockTTL)
		if err != nil {
			return nil, err
		}
		lock = redisLock
	}

	scanJob, err := cron.NewLowStockScanJob(logg, app.Tracker)
	if err != nil {
		return nil, err
	}
	jobs := cron.NewRegistry(scanJob)
	if cfg.Monitor.AutoDraft {
		draftJob, err := cron.NewAutoDraftJob(logg, app.Restock)
		if err != nil {
			return nil, err
		}
		jobs.Register(draftJob)
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(registry),
		Schedule: cfg.Monitor.Schedule,
	})
}
