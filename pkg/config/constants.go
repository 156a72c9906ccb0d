package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for fields without tags.
const EnvPrefix = "KHODARJI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	// DefaultSQLitePath is used when the sqlite driver is selected without an
	// explicit DSN.
	DefaultSQLitePath = "khodarji.db"
)

const (
	EnvAppEnv    = "KHODARJI_APP_ENV"
	EnvPort      = "KHODARJI_APP_PORT"
	EnvDBDSN     = "KHODARJI_DB_DSN"
	EnvDBDriver  = "KHODARJI_DB_DRIVER"
	EnvDBHost    = "KHODARJI_DB_HOST"
	EnvDBUser    = "KHODARJI_DB_USER"
	EnvDBName    = "KHODARJI_DB_NAME"
	EnvRedisURL  = "KHODARJI_REDIS_URL"
	EnvJWTSecret = "KHODARJI_JWT_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
