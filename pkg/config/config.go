package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Credential   CredentialConfig
	RateLimit    RateLimitConfig
	Avatar       AvatarConfig
	Card         CardConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"MEMBERCARD_APP_ENV" required:"true"`
	Port         string `envconfig:"MEMBERCARD_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEMBERCARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEMBERCARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEMBERCARD_DB_DSN"`
	Driver string `envconfig:"MEMBERCARD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEMBERCARD_DB_HOST"`
	LegacyPort     int    `envconfig:"MEMBERCARD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEMBERCARD_DB_USER"`
	LegacyPassword string `envconfig:"MEMBERCARD_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEMBERCARD_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEMBERCARD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEMBERCARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEMBERCARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEMBERCARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEMBERCARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEMBERCARD_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MEMBERCARD_REDIS_ADDR"`
	Password     string        `envconfig:"MEMBERCARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEMBERCARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEMBERCARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEMBERCARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEMBERCARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEMBERCARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEMBERCARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CredentialConfig struct {
	BcryptCost int `envconfig:"MEMBERCARD_BCRYPT_COST" default:"10"`
}

type RateLimitConfig struct {
	RegisterWindow          time.Duration `envconfig:"MEMBERCARD_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIPLimit         int           `envconfig:"MEMBERCARD_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	RegisterExternalIDLimit int           `envconfig:"MEMBERCARD_RATE_LIMIT_REGISTER_EXTERNAL_ID_LIMIT" default:"3"`
	CardWindow              time.Duration `envconfig:"MEMBERCARD_RATE_LIMIT_CARD_WINDOW" default:"1m"`
	CardIPLimit             int           `envconfig:"MEMBERCARD_RATE_LIMIT_CARD_IP_LIMIT" default:"30"`
}

type AvatarConfig struct {
	FetchTimeout time.Duration `envconfig:"MEMBERCARD_AVATAR_FETCH_TIMEOUT" default:"5s"`
	MaxBytes     int64         `envconfig:"MEMBERCARD_AVATAR_MAX_BYTES" default:"5242880"`
}

type CardConfig struct {
	// TemplatePath points at an optional PNG used as the card canvas.
	// Empty means the compositor paints a generated background instead.
	TemplatePath string `envconfig:"MEMBERCARD_CARD_TEMPLATE_PATH"`
}

type FeatureFlagsConfig struct {
	UseSQLite        bool `envconfig:"MEMBERCARD_USE_SQLITE" default:"false"`
	AutoMigrate      bool `envconfig:"MEMBERCARD_AUTO_MIGRATE" default:"false"`
	CardPreviewMode  bool `envconfig:"MEMBERCARD_CARD_PREVIEW_MODE" default:"false"`
	ReapproveRefresh bool `envconfig:"MEMBERCARD_REAPPROVE_REFRESH" default:"true"`
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
