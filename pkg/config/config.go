package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Alerts  AlertsConfig
	Monitor MonitorConfig
	Restock RestockConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Alerts.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GROCER_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"GROCER_LOG_LEVEL" default:"warn"`
	LogWarnStack bool   `envconfig:"GROCER_LOG_WARN_STACK" default:"false"`
	Operator     string `envconfig:"GROCER_OPERATOR" default:"operator"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver      string `envconfig:"GROCER_DB_DRIVER" default:"sqlite"`
	DSN         string `envconfig:"GROCER_DB_DSN" default:"grocery_inventory.db"`
	AutoMigrate bool   `envconfig:"GROCER_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"GROCER_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"GROCER_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"GROCER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GROCER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite store.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

func (db *DBConfig) validate() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	switch db.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvDBDriver, DriverSQLite, DriverPostgres, db.Driver)
	}
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

// RedisConfig is optional; an empty URL and address disables Redis-backed locks,
// cooldowns and alert publishing.
type RedisConfig struct {
	URL          string        `envconfig:"GROCER_REDIS_URL"`
	Address      string        `envconfig:"GROCER_REDIS_ADDR"`
	Password     string        `envconfig:"GROCER_REDIS_PASSWORD"`
	DB           int           `envconfig:"GROCER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GROCER_REDIS_POOL_SIZE" default:"5"`
	MinIdleConns int           `envconfig:"GROCER_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"GROCER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GROCER_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"GROCER_REDIS_WRITE_TIMEOUT" default:"3s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type AlertsConfig struct {
	Cooldown      time.Duration `envconfig:"GROCER_ALERTS_COOLDOWN" default:"30m"`
	CriticalRatio float64       `envconfig:"GROCER_ALERTS_CRITICAL_RATIO" default:"0.5"`
	Notifiers     []string      `envconfig:"GROCER_ALERTS_NOTIFIERS" default:"console,log"`
	RedisChannel  string        `envconfig:"GROCER_ALERTS_REDIS_CHANNEL" default:"grocer:alerts"`
}

func (a AlertsConfig) validate() error {
	if a.CriticalRatio <= 0 || a.CriticalRatio >= 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", EnvAlertsCriticalRatio, a.CriticalRatio)
	}
	for _, name := range a.Notifiers {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case NotifierConsole, NotifierLog, NotifierRedis:
		default:
			return fmt.Errorf("%s: unknown notifier %q", EnvAlertsNotifiers, name)
		}
	}
	return nil
}

// HasNotifier reports whether the named channel is enabled.
func (a AlertsConfig) HasNotifier(name string) bool {
	for _, candidate := range a.Notifiers {
		if strings.EqualFold(strings.TrimSpace(candidate), name) {
			return true
		}
	}
	return false
}

type MonitorConfig struct {
	Schedule    string        `envconfig:"GROCER_MONITOR_SCHEDULE" default:"@every 5m"`
	LockTTL     time.Duration `envconfig:"GROCER_MONITOR_LOCK_TTL" default:"2m"`
	MetricsAddr string        `envconfig:"GROCER_MONITOR_METRICS_ADDR" default:":9090"`
	AutoDraft   bool          `envconfig:"GROCER_MONITOR_AUTO_DRAFT" default:"false"`
	CORSOrigins []string      `envconfig:"GROCER_MONITOR_CORS_ORIGINS" default:"http://localhost:3000"`
}

type RestockConfig struct {
	DefaultLeadTimeDays int    `envconfig:"GROCER_RESTOCK_DEFAULT_LEAD_TIME_DAYS" default:"3"`
	OrderPrefix         string `envconfig:"GROCER_RESTOCK_ORDER_PREFIX" default:"PO"`
}
