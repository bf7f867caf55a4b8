package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"LOCKSHOP_APP_ENV" required:"true"`
	Port           string   `envconfig:"LOCKSHOP_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"LOCKSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"LOCKSHOP_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"LOCKSHOP_ALLOWED_ORIGINS" default:"http://localhost:3000,https://lockshop.com.tr,https://www.lockshop.com.tr,https://admin.lockshop.com.tr"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LOCKSHOP_DB_DSN"`
	Driver string `envconfig:"LOCKSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LOCKSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"LOCKSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LOCKSHOP_DB_USER"`
	LegacyPassword string `envconfig:"LOCKSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"LOCKSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"LOCKSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LOCKSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LOCKSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LOCKSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOCKSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LOCKSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LOCKSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"LOCKSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOCKSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOCKSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOCKSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOCKSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOCKSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOCKSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LOCKSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LOCKSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"LOCKSHOP_JWT_EXPIRATION_MINUTES" default:"720"`
	CookieName        string `envconfig:"LOCKSHOP_JWT_COOKIE_NAME" default:"lockshop_token"`
	CookieSecure      bool   `envconfig:"LOCKSHOP_JWT_COOKIE_SECURE" default:"true"`
}

// TokenTTL returns the access token lifetime. The default is 12 hours.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LOCKSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LOCKSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LOCKSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LOCKSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LOCKSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LOCKSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LOCKSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LOCKSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LOCKSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LOCKSHOP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LOCKSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LOCKSHOP_AUTO_MIGRATE" default:"false"`
}

type CartConfig struct {
	// GuestRetention controls how long an untouched guest cart survives
	// before the cleanup job removes it.
	GuestRetention time.Duration `envconfig:"LOCKSHOP_CART_GUEST_RETENTION" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
