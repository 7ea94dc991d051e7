// Package config centraliza la configuración del API y del CLI.
//
// Orden de precedencia: defaults < archivo YAML (CONFIG_FILE) < variables de entorno.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	AuthMemory = "memory"
	AuthGoTrue = "gotrue"
)

type Config struct {
	HTTPAddress string `yaml:"http_address"`

	Log LogConfig `yaml:"log"`

	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Events  EventsConfig  `yaml:"events"`

	Loader   LoaderConfig   `yaml:"loader"`
	Resolver ResolverConfig `yaml:"resolver"`

	// SessionFile es donde babyctl persiste la sesión entre ejecuciones.
	SessionFile string `yaml:"session_file"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	Driver string `yaml:"driver"`

	// Backend GoTrue-compatible (auth hospedado).
	URL        string        `yaml:"url"`
	APIKey     string        `yaml:"api_key"`
	ServiceKey string        `yaml:"service_key"`
	Timeout    time.Duration `yaml:"timeout"`

	// Verificación local de los access tokens (HS256).
	JWTSecret string        `yaml:"jwt_secret"`
	JWTIssuer string        `yaml:"jwt_issuer"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	// DevHeader habilita X-Debug-User-ID cuando no hay verifier.
	DevHeader bool `yaml:"dev_header"`
}

type EventsConfig struct {
	KafkaBrokers []string `yaml:"kafka_brokers"`
	Topic        string   `yaml:"topic"`
	// PublishTimeout acota cuánto espera una mutación al broker.
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

type LoaderConfig struct {
	AutoRetry          bool          `yaml:"auto_retry"`
	RetryDelay         time.Duration `yaml:"retry_delay"`
	MaxRetries         int           `yaml:"max_retries"`
	TenantPollInterval time.Duration `yaml:"tenant_poll_interval"`
}

type ResolverConfig struct {
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// Default devuelve los valores de desarrollo local.
func Default() Config {
	return Config{
		HTTPAddress: ":8080",
		Log:         LogConfig{Level: "info", Format: "text"},
		Storage:     StorageConfig{Driver: StorageMemory},
		Auth: AuthConfig{
			Driver:    AuthMemory,
			Timeout:   10 * time.Second,
			JWTSecret: "dev-secret-change-me",
			JWTIssuer: "baby-care-tracker",
			TokenTTL:  time.Hour,
			DevHeader: false,
		},
		Events: EventsConfig{Topic: "baby.activity.v1", PublishTimeout: 2 * time.Second},
		Loader: LoaderConfig{
			AutoRetry:          true,
			RetryDelay:         2 * time.Second,
			MaxRetries:         3,
			TenantPollInterval: 800 * time.Millisecond,
		},
		Resolver:    ResolverConfig{Retries: 2, RetryDelay: time.Second},
		SessionFile: defaultSessionFile(),
	}
}

// Load arma la configuración: defaults, luego CONFIG_FILE (si existe), luego env.
func Load() (Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile es Load con un path explícito (flag --config del CLI).
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.HTTPAddress = getEnv("HTTP_ADDRESS", cfg.HTTPAddress)
	if port := getEnv("PORT", ""); port != "" {
		cfg.HTTPAddress = ":" + port
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Storage.DSN = getEnv("DB_DSN", cfg.Storage.DSN)
	cfg.Storage.Driver = getEnv("STORAGE_DRIVER", cfg.Storage.Driver)
	// Compat: con DB_DSN y sin driver explícito, se asume postgres.
	if cfg.Storage.DSN != "" && os.Getenv("STORAGE_DRIVER") == "" && cfg.Storage.Driver == StorageMemory {
		cfg.Storage.Driver = StoragePostgres
	}

	cfg.Auth.Driver = getEnv("AUTH_DRIVER", cfg.Auth.Driver)
	cfg.Auth.URL = getEnv("AUTH_URL", cfg.Auth.URL)
	cfg.Auth.APIKey = getEnv("AUTH_API_KEY", cfg.Auth.APIKey)
	cfg.Auth.ServiceKey = getEnv("AUTH_SERVICE_KEY", cfg.Auth.ServiceKey)
	cfg.Auth.Timeout = getDurationEnv("AUTH_TIMEOUT", cfg.Auth.Timeout)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTIssuer = getEnv("JWT_ISSUER", cfg.Auth.JWTIssuer)
	cfg.Auth.TokenTTL = getDurationEnv("JWT_TTL", cfg.Auth.TokenTTL)
	cfg.Auth.DevHeader = getBoolEnv("AUTH_DEV_HEADER", cfg.Auth.DevHeader)

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Events.KafkaBrokers = splitAndTrim(brokers)
	}
	cfg.Events.Topic = getEnv("KAFKA_TOPIC", cfg.Events.Topic)
	cfg.Events.PublishTimeout = getDurationEnv("KAFKA_PUBLISH_TIMEOUT", cfg.Events.PublishTimeout)

	cfg.Loader.AutoRetry = getBoolEnv("LOADER_AUTO_RETRY", cfg.Loader.AutoRetry)
	cfg.Loader.RetryDelay = getDurationEnv("LOADER_RETRY_DELAY", cfg.Loader.RetryDelay)
	cfg.Loader.MaxRetries = getIntEnv("LOADER_MAX_RETRIES", cfg.Loader.MaxRetries)
	cfg.Loader.TenantPollInterval = getDurationEnv("LOADER_TENANT_POLL_INTERVAL", cfg.Loader.TenantPollInterval)

	cfg.Resolver.Retries = getIntEnv("RESOLVER_RETRIES", cfg.Resolver.Retries)
	cfg.Resolver.RetryDelay = getDurationEnv("RESOLVER_RETRY_DELAY", cfg.Resolver.RetryDelay)

	cfg.SessionFile = getEnv("SESSION_FILE", cfg.SessionFile)
}

// Validate rechaza combinaciones que no pueden arrancar.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("config: storage driver %q requires DB_DSN", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Auth.Driver {
	case AuthMemory:
	case AuthGoTrue:
		if strings.TrimSpace(c.Auth.URL) == "" || strings.TrimSpace(c.Auth.APIKey) == "" {
			return fmt.Errorf("config: auth driver %q requires AUTH_URL and AUTH_API_KEY", c.Auth.Driver)
		}
	default:
		return fmt.Errorf("config: unknown auth driver %q", c.Auth.Driver)
	}

	if c.Loader.MaxRetries < 0 || c.Resolver.Retries < 0 {
		return fmt.Errorf("config: retries must be >= 0")
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".babyctl-session.yaml"
	}
	return filepath.Join(dir, "babyctl", "session.yaml")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
