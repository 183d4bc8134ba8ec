package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config is the full runtime configuration, assembled once at startup
// from the environment and handed down read-only.
type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	HTTP          HTTPConfig
	Bootstrap     BootstrapConfig
	EventBus      EventBusConfig
	Features      *FeatureFlags
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// Timezone for timestamps shown to the office (default: Africa/Douala)
	Timezone string
	Location *time.Location

	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings. URL wins when set;
// otherwise it is assembled from the DB_* components.
type DatabaseConfig struct {
	URL string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	QueryTimeout time.Duration

	// AutoMigrate runs the embedded migrations at startup.
	AutoMigrate bool
}

// RedisConfig holds Redis connection settings. Disabled turns caching off
// entirely, for development without a Redis instance.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Disabled bool
}

// HTTPConfig holds the REST API server settings.
type HTTPConfig struct {
	Host string
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxHeaderBytes int

	EnableCORS     bool
	AllowedOrigins []string
}

// BootstrapConfig holds first-run seeding settings. The admin account is
// only created when the users table is empty.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// EventBusConfig holds in-process event bus settings.
type EventBusConfig struct {
	// Async dispatches handlers on a worker pool instead of inline.
	Async bool

	// WorkerCount is the pool size when async.
	WorkerCount int
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Load reads the environment into a validated Config. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App:           loadAppConfig(),
		Database:      loadDatabaseConfig(),
		Redis:         loadRedisConfig(),
		HTTP:          loadHTTPConfig(),
		Bootstrap:     loadBootstrapConfig(),
		EventBus:      loadEventBusConfig(),
		Features:      LoadFeatureFlags(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(envStr("APP_ENV", "development"))

	timezone := envStr("APP_TIMEZONE", "Africa/Douala")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	return AppConfig{
		Name:            envStr("APP_NAME", "afcalink-backoffice"),
		Environment:     env,
		Debug:           env == EnvDevelopment || envBool("APP_DEBUG", false),
		Version:         envStr("APP_VERSION", "0.1.0"),
		Timezone:        timezone,
		Location:        loc,
		ShutdownTimeout: envDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	url := envStr("DATABASE_URL", "")
	if url == "" {
		host := envStr("DB_HOST", "")
		user := envStr("DB_USER", "")
		if host != "" && user != "" {
			url = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
				user,
				envStr("DB_PASSWORD", ""),
				host,
				envStr("DB_PORT", "5432"),
				envStr("DB_NAME", "afcalink"),
				envStr("DB_SSLMODE", "disable"))
		}
	}

	return DatabaseConfig{
		URL:             url,
		MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		ConnMaxIdleTime: envDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		QueryTimeout:    envDuration("DB_QUERY_TIMEOUT", 30*time.Second),
		AutoMigrate:     envBool("DB_AUTO_MIGRATE", true),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:         envStr("REDIS_HOST", "localhost"),
		Port:         envInt("REDIS_PORT", 6379),
		Password:     envStr("REDIS_PASSWORD", ""),
		DB:           envInt("REDIS_DB", 0),
		PoolSize:     envInt("REDIS_POOL_SIZE", 10),
		MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		Disabled:     envBool("REDIS_DISABLED", false),
	}
}

func loadHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:           envStr("HTTP_HOST", "0.0.0.0"),
		Port:           envInt("HTTP_PORT", 8080),
		ReadTimeout:    envDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   envDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    envDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: envInt("HTTP_MAX_HEADER_BYTES", 1<<20),
		EnableCORS:     envBool("HTTP_ENABLE_CORS", true),
		AllowedOrigins: envList("HTTP_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func loadBootstrapConfig() BootstrapConfig {
	return BootstrapConfig{
		AdminEmail:    envStr("BOOTSTRAP_ADMIN_EMAIL", ""),
		AdminPassword: envStr("BOOTSTRAP_ADMIN_PASSWORD", ""),
		AdminName:     envStr("BOOTSTRAP_ADMIN_NAME", "Administrateur"),
	}
}

func loadEventBusConfig() EventBusConfig {
	return EventBusConfig{
		Async:       envBool("EVENTBUS_ASYNC", true),
		WorkerCount: envInt("EVENTBUS_WORKERS", 8),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "json"),
	}
}

// Validate collects every problem at once so a misconfigured deployment
// fails with the full list.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Environment == EnvProduction {
		if c.Database.URL == "" {
			errs = append(errs, "DATABASE_URL is required in production")
		}
		if c.Bootstrap.AdminEmail != "" && c.Bootstrap.AdminPassword == "" {
			errs = append(errs, "BOOTSTRAP_ADMIN_PASSWORD is required when BOOTSTRAP_ADMIN_EMAIL is set")
		}
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, "HTTP_PORT must be 1-65535")
	}

	if c.EventBus.WorkerCount < 1 {
		errs = append(errs, "EVENTBUS_WORKERS must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// Environment parsing helpers. A set-but-unparsable variable falls back to
// the default rather than failing startup.

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
