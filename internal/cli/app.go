package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/alerts"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/ledger"
	product "github.com/tauheed2233/Grocery-Inventory-Management-System/internal/products"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/reports"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/restock"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/seed"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/suppliers"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/config"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/metrics"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/migrate"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/redis"
)

// App holds the wired services shared by every command.
type App struct {
	Config *config.Config
	Logger *logger.Logger
	DB     *db.Client
	Redis  *redis.Client

	Suppliers suppliers.Service
	Products  product.Service
	Ledger    ledger.Service
	Evaluator *alerts.Evaluator
	Tracker   *alerts.Tracker
	Restock   restock.Service
	Reports   reports.Service
	Seeder    *seed.Loader
	Metrics   *metrics.InventoryMetrics

	closers []func() error
}

// Deps are the already-open infrastructure handles Build wires services onto.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Console  io.Writer
	Registry prometheus.Registerer
}

// Bootstrap opens the database (running migrations when enabled) and the
// optional Redis connection, then wires every service. A nil reg leaves the
// inventory metrics unregistered.
func Bootstrap(ctx context.Context, cfg *config.Config, logg *logger.Logger, console io.Writer, reg prometheus.Registerer) (*App, error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}
	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			_ = dbClient.Close()
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
	}

	app, err := Build(Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Console:  console,
		Registry: reg,
	})
	if err != nil {
		_ = dbClient.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}
	app.closers = append(app.closers, dbClient.Close)
	if redisClient != nil {
		app.closers = append(app.closers, redisClient.Close)
	}
	return app, nil
}

// Build wires the services over open infrastructure. Notifier and cooldown
// choices follow cfg.Alerts; Redis-backed variants need deps.Redis.
func Build(deps Deps) (*App, error) {
	if deps.Config == nil || deps.DB == nil {
		return nil, fmt.Errorf("config and db client required")
	}
	cfg := deps.Config
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	console := deps.Console
	if console == nil {
		console = io.Discard
	}

	invMetrics := metrics.NewInventoryMetrics(deps.Registry)

	supplierSvc, err := suppliers.NewService(deps.DB, logg, cfg.Restock.DefaultLeadTimeDays)
	if err != nil {
		return nil, err
	}
	productSvc, err := product.NewService(deps.DB, logg)
	if err != nil {
		return nil, err
	}
	evaluator, err := alerts.NewEvaluator(deps.DB, cfg.Alerts.CriticalRatio)
	if err != nil {
		return nil, err
	}

	notifier, err := buildNotifier(cfg.Alerts, logg, deps.Redis, console, invMetrics)
	if err != nil {
		return nil, err
	}
	var cooldown alerts.Cooldown = alerts.NewMemoryCooldown(cfg.Alerts.Cooldown)
	if deps.Redis != nil {
		cooldown = alerts.NewRedisCooldown(deps.Redis, cfg.Alerts.Cooldown)
	}
	tracker, err := alerts.NewTracker(alerts.TrackerParams{
		DB:        deps.DB,
		Evaluator: evaluator,
		Notifier:  notifier,
		Cooldown:  cooldown,
		Logger:    logg,
		Metrics:   invMetrics,
	})
	if err != nil {
		return nil, err
	}

	ledgerSvc, err := ledger.NewService(ledger.ServiceParams{
		DB:      deps.DB,
		Logger:  logg,
		Metrics: invMetrics,
		Hook:    tracker,
	})
	if err != nil {
		return nil, err
	}

	restockSvc, err := restock.NewService(restock.ServiceParams{
		Repo:        restock.NewRepository(deps.DB.DB()),
		Tx:          deps.DB,
		Inventory:   ledgerSvc,
		Products:    product.NewRepository(deps.DB.DB()),
		Suppliers:   suppliers.NewRepository(deps.DB.DB()),
		Suggester:   evaluator,
		Logger:      logg,
		OrderPrefix: cfg.Restock.OrderPrefix,
		Operator:    cfg.App.Operator,
		DefaultLead: cfg.Restock.DefaultLeadTimeDays,
	})
	if err != nil {
		return nil, err
	}

	reportSvc, err := reports.NewService(deps.DB, evaluator)
	if err != nil {
		return nil, err
	}
	seeder, err := seed.NewLoader(supplierSvc, productSvc, logg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    logg,
		DB:        deps.DB,
		Redis:     deps.Redis,
		Suppliers: supplierSvc,
		Products:  productSvc,
		Ledger:    ledgerSvc,
		Evaluator: evaluator,
		Tracker:   tracker,
		Restock:   restockSvc,
		Reports:   reportSvc,
		Seeder:    seeder,
		Metrics:   invMetrics,
	}, nil
}

func buildNotifier(cfg config.AlertsConfig, logg *logger.Logger, redisClient *redis.Client, console io.Writer, m *metrics.InventoryMetrics) (alerts.Notifier, error) {
	var notifiers []alerts.Notifier
	if cfg.HasNotifier(config.NotifierConsole) {
		notifiers = append(notifiers, alerts.NewConsoleNotifier(console))
	}
	if cfg.HasNotifier(config.NotifierLog) {
		notifiers = append(notifiers, alerts.NewLogNotifier(logg))
	}
	if cfg.HasNotifier(config.NotifierRedis) {
		if redisClient == nil {
			logg.Warn(context.Background(), "redis notifier configured without GROCER_REDIS_URL; skipping")
		} else {
			pub, err := alerts.NewRedisNotifier(redisClient, cfg.RedisChannel)
			if err != nil {
				return nil, err
			}
			notifiers = append(notifiers, pub)
		}
	}
	return alerts.NewMultiNotifier(m, notifiers...), nil
}

// Close releases the database and Redis connections opened by Bootstrap.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
