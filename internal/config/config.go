package config

import "time"

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type CatalogConfig struct {
	// Path to a YAML persona catalog; empty uses the embedded catalog.
	Path         string
	DefaultGrade int
}

type DBConfig struct {
	// Driver is "postgres", "sqlite" or "none". With "none" profiles must be sent inline.
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

type RedisConfig struct {
	Addr      string
	KeyPrefix string
	TTL       time.Duration
}

type OtelConfig struct {
	Enabled     bool
	ServiceName string
	Version     string
	// Endpoint of an OTLP/HTTP collector; empty exports spans to stdout.
	Endpoint    string
	Headers     map[string]string
	Insecure    bool
	SampleRatio float64
}

type MetricsConfig struct {
	Enabled bool
}

type Config struct {
	Env     string
	HTTP    HTTPConfig
	Catalog CatalogConfig
	DB      DBConfig
	Redis   RedisConfig
	Otel    OtelConfig
	Metrics MetricsConfig
}
