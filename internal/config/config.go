package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverOxiDB  = "oxidb"
	DriverMemory = "memory"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Auth      AuthConfig
	Admin     AdminBootstrapConfig
	CORS      CORSConfig
	Export    ExportConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	StaticDir string
}

type ServerConfig struct {
	Host string
	Port int
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StoreConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	OxiDBHost     string
	OxiDBPort     int
	OxiDBPoolSize int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type AdminBootstrapConfig struct {
	Username string
	Password string
}

type CORSConfig struct {
	// Empty means any origin.
	AllowedOrigins []string
}

type ExportConfig struct {
	Location *time.Location
}

type LoggingConfig struct {
	Level    string
	Format   string
	GelfAddr string
}

type TracingConfig struct {
	Enabled      bool
	Exporter     string
	ServiceName  string
	OTLPEndpoint string
	SampleRate   float64
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process
// environment without overriding variables that are already set. An empty
// path means ".env"; a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: getEnv("HOST", ""),
			Port: getEnvInt("PORT", 3000),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
			MongoURI:      getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
			MongoDatabase: getEnv("MONGODB_DATABASE", "happystreet"),
			OxiDBHost:     getEnv("OXIDB_HOST", "127.0.0.1"),
			OxiDBPort:     getEnvInt("OXIDB_PORT", 4444),
			OxiDBPoolSize: getEnvInt("OXIDB_POOL_SIZE", 3),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  time.Duration(getEnvInt("JWT_TTL_HOURS", 7*24)) * time.Hour,
		},
		Admin: AdminBootstrapConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Format:   getEnv("LOG_FORMAT", "json"),
			GelfAddr: getEnv("GELF_ADDR", ""),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvBool("TRACING_ENABLED", false),
			Exporter:     getEnv("TRACING_EXPORTER", "stdout"),
			ServiceName:  getEnv("TRACING_SERVICE_NAME", "happy-street"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRate:   getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		StaticDir: getEnv("STATIC_DIR", "."),
	}

	loc, err := time.LoadLocation(getEnv("EXPORT_TIMEZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("EXPORT_TIMEZONE: %w", err)
	}
	cfg.Export.Location = loc

	if cfg.Auth.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return Config{}, errors.New("JWT_TTL_HOURS must be positive")
	}
	if err := cfg.Store.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s StoreConfig) validate() error {
	switch s.Driver {
	case DriverMongo:
		if s.MongoURI == "" {
			return errors.New("MONGODB_URI is required")
		}
	case DriverOxiDB:
		if s.OxiDBPoolSize <= 0 {
			return errors.New("OXIDB_POOL_SIZE must be positive")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s, %s or %s)", s.Driver, DriverMongo, DriverOxiDB, DriverMemory)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
