package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/neurobridge-tutor/internal/platform/envutil"
)

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 15 * time.Second,
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
		},
		Catalog: CatalogConfig{DefaultGrade: 5},
		DB: DBConfig{
			Driver:     "none",
			Host:       "localhost",
			Port:       "5432",
			User:       "postgres",
			Name:       "tutor",
			SQLitePath: "tutor.db",
		},
		Redis: RedisConfig{
			KeyPrefix: "tutor:profile:",
			TTL:       10 * time.Minute,
		},
		Otel: OtelConfig{ServiceName: "neurobridge-tutor", SampleRatio: 0.1},
	}
}

// Load reads an optional .env file (TUTOR_ENV_FILE, default ".env"), then applies
// environment overrides on top of the defaults.
func Load() (*Config, error) {
	envFile := strings.TrimSpace(os.Getenv("TUTOR_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := defaultConfig()
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)

	cfg.HTTP.Addr = envutil.String("TUTOR_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.ShutdownTimeout = envutil.Duration("TUTOR_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout)
	if v := envutil.String("TUTOR_CORS_ORIGINS", ""); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}

	cfg.Catalog.Path = envutil.String("TUTOR_PERSONA_CATALOG", cfg.Catalog.Path)
	cfg.Catalog.DefaultGrade = envutil.Int("TUTOR_DEFAULT_GRADE", cfg.Catalog.DefaultGrade)

	cfg.DB.Driver = strings.ToLower(envutil.String("TUTOR_DB_DRIVER", cfg.DB.Driver))
	cfg.DB.Host = envutil.String("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envutil.String("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = envutil.String("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Password = envutil.String("POSTGRES_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = envutil.String("POSTGRES_NAME", cfg.DB.Name)
	cfg.DB.SQLitePath = envutil.String("TUTOR_SQLITE_PATH", cfg.DB.SQLitePath)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.KeyPrefix = envutil.String("TUTOR_PROFILE_CACHE_PREFIX", cfg.Redis.KeyPrefix)
	cfg.Redis.TTL = envutil.Duration("TUTOR_PROFILE_CACHE_TTL", cfg.Redis.TTL)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Version = envutil.String("TUTOR_VERSION", cfg.Otel.Version)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Otel.SampleRatio)
	if v := envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""); v != "" {
		cfg.Otel.Headers = parseHeaders(v)
	}

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite", "none":
	default:
		return fmt.Errorf("TUTOR_DB_DRIVER must be postgres, sqlite or none, got %q", c.DB.Driver)
	}
	if c.Catalog.DefaultGrade < 0 {
		return fmt.Errorf("TUTOR_DEFAULT_GRADE must not be negative, got %d", c.Catalog.DefaultGrade)
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 15 * time.Second
	}
	if c.Otel.SampleRatio < 0 {
		c.Otel.SampleRatio = 0
	}
	if c.Otel.SampleRatio > 1 {
		c.Otel.SampleRatio = 1
	}
	if c.Redis.TTL <= 0 {
		return fmt.Errorf("TUTOR_PROFILE_CACHE_TTL must be positive, got %s", c.Redis.TTL)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseHeaders reads "k1=v1,k2=v2"; malformed or empty pairs are skipped.
func parseHeaders(raw string) map[string]string {
	headers := map[string]string{}
	for _, part := range splitList(raw) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key, val := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		if key == "" || val == "" {
			continue
		}
		headers[key] = val
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}
