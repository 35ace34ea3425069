package config

// EnvPrefix namespaces envconfig keys; each field also names its variable explicitly.
const EnvPrefix = "GROCER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	NotifierConsole = "console"
	NotifierLog     = "log"
	NotifierRedis   = "redis"
)

const (
	EnvAppEnv              = "GROCER_APP_ENV"
	EnvLogLevel            = "GROCER_LOG_LEVEL"
	EnvDBDriver            = "GROCER_DB_DRIVER"
	EnvDBDSN               = "GROCER_DB_DSN"
	EnvDBAutoMigrate       = "GROCER_DB_AUTO_MIGRATE"
	EnvRedisURL            = "GROCER_REDIS_URL"
	EnvAlertsCooldown      = "GROCER_ALERTS_COOLDOWN"
	EnvAlertsCriticalRatio = "GROCER_ALERTS_CRITICAL_RATIO"
	EnvAlertsNotifiers     = "GROCER_ALERTS_NOTIFIERS"
	EnvMonitorSchedule     = "GROCER_MONITOR_SCHEDULE"
	EnvRestockLeadTimeDays = "GROCER_RESTOCK_DEFAULT_LEAD_TIME_DAYS"
)
