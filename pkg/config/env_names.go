package config

// EnvPrefix is handed to envconfig; individual fields carry explicit names.
const EnvPrefix = "BLACKLIVING"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "BLACKLIVING_APP_ENV"
	EnvPort       = "BLACKLIVING_APP_PORT"
	EnvDBDSN      = "BLACKLIVING_DB_DSN"
	EnvDBHost     = "BLACKLIVING_DB_HOST"
	EnvDBUser     = "BLACKLIVING_DB_USER"
	EnvDBName     = "BLACKLIVING_DB_NAME"
	EnvRedisURL   = "BLACKLIVING_REDIS_URL"
	EnvJWTSecret  = "BLACKLIVING_JWT_SECRET"
	EnvJWTIssuer  = "BLACKLIVING_JWT_ISSUER"
	EnvJWTExpMins = "BLACKLIVING_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
