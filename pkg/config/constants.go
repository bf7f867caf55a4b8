package config

// EnvPrefix namespaces every environment variable the platform reads.
const EnvPrefix = "LOCKSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv    = "LOCKSHOP_APP_ENV"
	EnvPort      = "LOCKSHOP_APP_PORT"
	EnvDBDSN     = "LOCKSHOP_DB_DSN"
	EnvDBHost    = "LOCKSHOP_DB_HOST"
	EnvDBUser    = "LOCKSHOP_DB_USER"
	EnvDBName    = "LOCKSHOP_DB_NAME"
	EnvRedisURL  = "LOCKSHOP_REDIS_URL"
	EnvJWTSecret = "LOCKSHOP_JWT_SECRET"
	EnvJWTIssuer = "LOCKSHOP_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
