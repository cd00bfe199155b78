// Package config resolves the storefront runtime settings.
//
// Sources are applied in order, later ones overriding earlier ones:
// built-in defaults, a .env file, STOREFRONT_* environment variables, a JSON
// file given with -c/-config, and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "STOREFRONT_"

// Config holds runtime settings for the storefront CLI.
type Config struct {
	// StorageBackend is one of memory, sqlite, postgres, redis or none.
	StorageBackend string `env:"STORAGE"`
	SQLitePath     string `env:"SQLITE_PATH"`
	PostgresDSN    string `env:"POSTGRES_DSN"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB"`
	RedisPrefix    string `env:"REDIS_PREFIX"`

	UsersKey   string `env:"USERS_KEY"`
	SessionKey string `env:"SESSION_KEY"`

	// SnapshotURL is http(s)://..., s3://bucket/key or file://path.
	SnapshotURL  string        `env:"SNAPSHOT_URL"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT"`
	S3Region     string        `env:"S3_REGION"`
	S3Endpoint   string        `env:"S3_ENDPOINT"`
	S3AccessKey  string        `env:"S3_ACCESS_KEY"`
	S3SecretKey  string        `env:"S3_SECRET_KEY"`

	// Hasher is plain, bcrypt or argon2.
	Hasher        string `env:"HASHER"`
	RestorePolicy string `env:"RESTORE_POLICY"`
	EchoPolicy    string `env:"ECHO_POLICY"`

	LogFormat string `env:"LOG_FORMAT"`
	LogLevel  string `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.StorageBackend = "sqlite"
	c.SQLitePath = "storefront.db"
	c.RedisAddr = "localhost:6379"
	c.RedisPrefix = "storefront:"
	c.UsersKey = "users"
	c.SessionKey = "current_user"
	c.FetchTimeout = 10 * time.Second
	c.S3Region = "us-east-1"
	c.Hasher = "plain"
	c.RestorePolicy = "trust"
	c.EchoPolicy = "always"
	c.LogFormat = "console"
	c.LogLevel = "info"
}

// parseEnv overlays c with the .env file (if any) and the environment.
// Unset variables leave the current value alone.
func parseEnv(c *Config, dotenv string) error {
	// a missing .env is normal outside development
	_ = godotenv.Load(dotenv)

	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Load builds a Config from every source. args are the command-line
// arguments without the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
