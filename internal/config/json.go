package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
)

// Duration accepts "10s" style strings or integer nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = Duration(time.Duration(x))
	case string:
		p, err := time.ParseDuration(x)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", x, err)
		}
		*d = Duration(p)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" from "zero" so a partial file only overrides what it names.
type JsonConfig struct {
	StorageBackend *string `json:"storage_backend"`
	SQLitePath     *string `json:"sqlite_path"`
	PostgresDSN    *string `json:"postgres_dsn"`
	RedisAddr      *string `json:"redis_addr"`
	RedisPassword  *string `json:"redis_password"`
	RedisDB        *int    `json:"redis_db"`
	RedisPrefix    *string `json:"redis_prefix"`

	UsersKey   *string `json:"users_key"`
	SessionKey *string `json:"session_key"`

	SnapshotURL  *string   `json:"snapshot_url"`
	FetchTimeout *Duration `json:"fetch_timeout"`
	S3Region     *string   `json:"s3_region"`
	S3Endpoint   *string   `json:"s3_endpoint"`
	S3AccessKey  *string   `json:"s3_access_key"`
	S3SecretKey  *string   `json:"s3_secret_key"`

	Hasher        *string `json:"hasher"`
	RestorePolicy *string `json:"restore_policy"`
	EchoPolicy    *string `json:"echo_policy"`

	LogFormat *string `json:"log_format"`
	LogLevel  *string `json:"log_level"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// apply copies every field present in the file into cfg.
func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.SQLitePath, jc.SQLitePath)
	setString(&cfg.PostgresDSN, jc.PostgresDSN)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPassword, jc.RedisPassword)
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	setString(&cfg.RedisPrefix, jc.RedisPrefix)
	setString(&cfg.UsersKey, jc.UsersKey)
	setString(&cfg.SessionKey, jc.SessionKey)
	setString(&cfg.SnapshotURL, jc.SnapshotURL)
	if jc.FetchTimeout != nil {
		cfg.FetchTimeout = time.Duration(*jc.FetchTimeout)
	}
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.Hasher, jc.Hasher)
	setString(&cfg.RestorePolicy, jc.RestorePolicy)
	setString(&cfg.EchoPolicy, jc.EchoPolicy)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
}

// parseJson overlays cfg with the file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	jc.apply(cfg)
	return nil
}
