package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Cart     CartConfig
	Cache    CacheConfig
	Gomypay  GomypayConfig
	Cron     CronConfig
	Features FeatureFlagsConfig
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
	Env          string `envconfig:"BLACKLIVING_APP_ENV" required:"true"`
	Port         string `envconfig:"BLACKLIVING_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BLACKLIVING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLACKLIVING_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"BLACKLIVING_CORS_ORIGINS" default:"http://localhost:4321,https://blackliving.tw,https://www.blackliving.tw"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BLACKLIVING_DB_DSN"`
	Driver string `envconfig:"BLACKLIVING_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BLACKLIVING_DB_HOST"`
	LegacyPort     int    `envconfig:"BLACKLIVING_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BLACKLIVING_DB_USER"`
	LegacyPassword string `envconfig:"BLACKLIVING_DB_PASSWORD"`
	LegacyName     string `envconfig:"BLACKLIVING_DB_NAME"`
	LegacySSLMode  string `envconfig:"BLACKLIVING_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLACKLIVING_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLACKLIVING_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLACKLIVING_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLACKLIVING_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BLACKLIVING_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BLACKLIVING_REDIS_ADDR"`
	Password     string        `envconfig:"BLACKLIVING_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLACKLIVING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLACKLIVING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLACKLIVING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLACKLIVING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLACKLIVING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLACKLIVING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BLACKLIVING_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BLACKLIVING_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BLACKLIVING_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BLACKLIVING_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BLACKLIVING_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BLACKLIVING_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BLACKLIVING_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BLACKLIVING_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"BLACKLIVING_CART_SESSION_TTL" default:"720h"`
}

type CacheConfig struct {
	PublicGetTTL    time.Duration `envconfig:"BLACKLIVING_CACHE_PUBLIC_GET_TTL" default:"5m"`
	SettingsTTL     time.Duration `envconfig:"BLACKLIVING_CACHE_SETTINGS_TTL" default:"10m"`
	DisableResponse bool          `envconfig:"BLACKLIVING_CACHE_DISABLE_RESPONSE" default:"false"`
}

type GomypayConfig struct {
	BaseURL     string        `envconfig:"BLACKLIVING_GOMYPAY_BASE_URL" default:"https://n.gomypay.asia/ShuntClass.aspx"`
	CustomerID  string        `envconfig:"BLACKLIVING_GOMYPAY_CUSTOMER_ID"`
	StrCheck    string        `envconfig:"BLACKLIVING_GOMYPAY_STR_CHECK"`
	ReturnURL   string        `envconfig:"BLACKLIVING_GOMYPAY_RETURN_URL"`
	CallbackURL string        `envconfig:"BLACKLIVING_GOMYPAY_CALLBACK_URL"`
	Timeout     time.Duration `envconfig:"BLACKLIVING_GOMYPAY_TIMEOUT" default:"15s"`
}

type CronConfig struct {
	PendingPaymentAge  time.Duration `envconfig:"BLACKLIVING_CRON_PENDING_PAYMENT_AGE" default:"2h"`
	PendingPaymentTick time.Duration `envconfig:"BLACKLIVING_CRON_PENDING_PAYMENT_TICK" default:"10m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BLACKLIVING_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BLACKLIVING_AUTO_MIGRATE" default:"false"`
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
