package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Logger  LoggerConfig  `yaml:"logger"`
	DevAPI  DevAPIConfig  `yaml:"devapi"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	// Backend is "file" or "redis"
	Backend   string `yaml:"backend"`
	File      string `yaml:"file"`
	RedisURL  string `yaml:"redis_url"`
	KeyPrefix string `yaml:"key_prefix"`
}

type LoggerConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type DevAPIConfig struct {
	Port            int           `yaml:"port"`
	Mode            string        `yaml:"mode"`
	DSN             string        `yaml:"dsn"`
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Seed            bool          `yaml:"seed"`
}

// Dir returns the per-user RouteHub directory (~/.routehub)
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".routehub"
	}
	return filepath.Join(home, ".routehub")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Backend:   "file",
			File:      filepath.Join(Dir(), "session.yaml"),
			RedisURL:  "redis://localhost:6379/0",
			KeyPrefix: "routehub:",
		},
		Logger: LoggerConfig{
			Level:    "warn",
			Encoding: "console",
		},
		DevAPI: DevAPIConfig{
			Port:            5000,
			Mode:            "debug",
			DSN:             "routehub-dev.db",
			JWTSecret:       "routehub-dev-secret",
			TokenTTL:        24 * time.Hour,
			ShutdownTimeout: 10 * time.Second,
			Seed:            true,
		},
	}
}

// Load reads defaults, then the YAML file at path (if it exists), then .env and
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ROUTEHUB_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("ROUTEHUB_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v := os.Getenv("ROUTEHUB_SESSION_BACKEND"); v != "" {
		cfg.Session.Backend = v
	}
	if v := os.Getenv("ROUTEHUB_SESSION_FILE"); v != "" {
		cfg.Session.File = v
	}
	if v := os.Getenv("ROUTEHUB_REDIS_URL"); v != "" {
		cfg.Session.RedisURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("DEVAPI_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.DevAPI.Port = p
		}
	}
	if v := os.Getenv("DEVAPI_MODE"); v != "" {
		cfg.DevAPI.Mode = v
	}
	if v := os.Getenv("DEVAPI_DSN"); v != "" {
		cfg.DevAPI.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.DevAPI.JWTSecret = v
	}
}

// Validate checks the values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	switch c.Session.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("session.backend must be \"file\" or \"redis\", got %q", c.Session.Backend)
	}
	return nil
}
