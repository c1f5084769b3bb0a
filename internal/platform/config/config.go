package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marketing-analytics/config.yaml",
}

type Config struct {
	Log         LogConfig         `koanf:"log"`
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Redis       RedisConfig       `koanf:"redis"`
	Scheduler   SchedulerConfig   `koanf:"scheduler"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Archive     ArchiveConfig     `koanf:"archive"`
}

type LogConfig struct {
	Environment string `koanf:"environment" validate:"oneof=development production"`
	Level       string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MetricsAddr     string        `koanf:"metrics_addr"`
}

type DatabaseConfig struct {
	DSN             string        `koanf:"dsn" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	Migrate         bool          `koanf:"migrate"`
}

// RedisConfig enables the distributed window lock when Addr is set.
type RedisConfig struct {
	Addr      string        `koanf:"addr"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db" validate:"gte=0"`
	LockTTL   time.Duration `koanf:"lock_ttl" validate:"gt=0"`
	LockRetry time.Duration `koanf:"lock_retry" validate:"gt=0"`
	KeyPrefix string        `koanf:"key_prefix"`
}

type SchedulerConfig struct {
	HourlySpec     string        `koanf:"hourly_spec" validate:"required"`
	DailySpec      string        `koanf:"daily_spec" validate:"required"`
	RunTimeout     time.Duration `koanf:"run_timeout" validate:"gt=0"`
	Retries        int           `koanf:"retries" validate:"gte=0"`
	RetryDelay     time.Duration `koanf:"retry_delay" validate:"gte=0"`
	AssignSegments bool          `koanf:"assign_segments"`
}

type AggregationConfig struct {
	// SegmentAttribution is "full" (every member segment gets the whole
	// conversion) or "split" (divided evenly across member segments).
	SegmentAttribution string `koanf:"segment_attribution" validate:"oneof=full split"`
	// CLVHorizonDays of 0 means lifetime-to-date.
	CLVHorizonDays  int    `koanf:"clv_horizon_days" validate:"gte=0"`
	ClickEvent      string `koanf:"click_event" validate:"required"`
	ImpressionEvent string `koanf:"impression_event" validate:"required"`
}

// ArchiveConfig adds a blob snapshot next to the archive schema when
// BucketURL is set (file:///..., s3://..., mem://).
type ArchiveConfig struct {
	BucketURL string `koanf:"bucket_url"`
	Prefix    string `koanf:"prefix"`
}

func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Environment: "development",
			Level:       "info",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
			MetricsAddr:     ":9090",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			LockTTL:   15 * time.Minute,
			LockRetry: 250 * time.Millisecond,
			KeyPrefix: "marketing:lock:",
		},
		Scheduler: SchedulerConfig{
			HourlySpec:     "5 * * * *",
			DailySpec:      "15 0 * * *",
			RunTimeout:     10 * time.Minute,
			Retries:        1,
			RetryDelay:     5 * time.Minute,
			AssignSegments: true,
		},
		Aggregation: AggregationConfig{
			SegmentAttribution: "full",
			CLVHorizonDays:     0,
			ClickEvent:         "ad_click",
			ImpressionEvent:    "ad_impression",
		},
		Archive: ArchiveConfig{
			Prefix: "marketing-archive",
		},
	}
}

// Load layers defaults, an optional YAML file and the environment, in that
// order of precedence, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	// The run lock must outlive a run, or a second scheduler can start the
	// same window while the first is still writing.
	if c.Redis.Addr != "" && c.Redis.LockTTL <= c.Scheduler.RunTimeout {
		return fmt.Errorf("redis.lock_ttl (%s) must exceed scheduler.run_timeout (%s)",
			c.Redis.LockTTL, c.Scheduler.RunTimeout)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envMappings maps environment variables onto koanf keys. Variables that are
// not listed are ignored so unrelated process env does not leak in.
var envMappings = map[string]string{
	"log_environment":  "log.environment",
	"log_level":        "log.level",
	"server_addr":      "server.addr",
	"shutdown_timeout": "server.shutdown_timeout",
	"metrics_addr":     "server.metrics_addr",

	"postgres_dsn":               "database.dsn",
	"database_dsn":               "database.dsn",
	"database_max_open_conns":    "database.max_open_conns",
	"database_max_idle_conns":    "database.max_idle_conns",
	"database_conn_max_lifetime": "database.conn_max_lifetime",
	"database_migrate":           "database.migrate",

	"redis_addr":       "redis.addr",
	"redis_password":   "redis.password",
	"redis_db":         "redis.db",
	"redis_lock_ttl":   "redis.lock_ttl",
	"redis_lock_retry": "redis.lock_retry",

	"scheduler_hourly_spec":     "scheduler.hourly_spec",
	"scheduler_daily_spec":      "scheduler.daily_spec",
	"scheduler_run_timeout":     "scheduler.run_timeout",
	"scheduler_retries":         "scheduler.retries",
	"scheduler_retry_delay":     "scheduler.retry_delay",
	"scheduler_assign_segments": "scheduler.assign_segments",

	"segment_attribution": "aggregation.segment_attribution",
	"clv_horizon_days":    "aggregation.clv_horizon_days",
	"click_event":         "aggregation.click_event",
	"impression_event":    "aggregation.impression_event",

	"archive_bucket_url": "archive.bucket_url",
	"archive_prefix":     "archive.prefix",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
