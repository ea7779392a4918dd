package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/FrenchMajesty/zeroshot-classifier/clients/huggingface"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "ZEROSHOT_"

var ErrMissingAPIToken = errors.New("inference API token is not set (ZEROSHOT_INFERENCE_API_TOKEN, HF_API_TOKEN or API_TOKEN)")

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Inference InferenceConfig `yaml:"inference"`
	Session   SessionConfig   `yaml:"session"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Mode            string        `yaml:"mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns host:port
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// InferenceConfig holds Hugging Face Inference API configuration
type InferenceConfig struct {
	APIToken     string        `yaml:"api_token"`
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxLines     int           `yaml:"max_lines"`
	DumpRequests bool          `yaml:"dump_requests"`
	DumpDir      string        `yaml:"dump_dir"`
	Retry        RetryConfig   `yaml:"retry"`
}

// RetryConfig holds backoff settings for remote calls
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	Backend      string        `yaml:"backend"`
	CookieName   string        `yaml:"cookie_name"`
	SecureCookie bool          `yaml:"secure_cookie"`
	TTL          time.Duration `yaml:"ttl"`
	Redis        RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Inference: InferenceConfig{
			BaseURL:  "https://api-inference.huggingface.co",
			Model:    "valhalla/distilbart-mnli-12-3",
			MaxLines: 5,
			DumpDir:  "debug_inference_requests",
			Retry: RetryConfig{
				MaxRetries: 3,
				BaseDelay:  500 * time.Millisecond,
				MaxDelay:   10 * time.Second,
			},
		},
		Session: SessionConfig{
			Backend:    "memory",
			CookieName: "zs_session",
			TTL:        24 * time.Hour,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory and environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// A missing .env is fine; existing environment variables are not overwritten
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	if c.Inference.APIToken == "" {
		return ErrMissingAPIToken
	}
	if c.Inference.MaxLines <= 0 {
		return fmt.Errorf("inference.max_lines must be positive, got %d", c.Inference.MaxLines)
	}
	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setString(&cfg.Server.Mode, "SERVER_MODE")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Inference.BaseURL, "INFERENCE_BASE_URL")
	setString(&cfg.Inference.Model, "INFERENCE_MODEL")
	setString(&cfg.Inference.DumpDir, "INFERENCE_DUMP_DIR")
	setString(&cfg.Session.Backend, "SESSION_BACKEND")
	setString(&cfg.Session.CookieName, "SESSION_COOKIE_NAME")
	setString(&cfg.Session.Redis.Addr, "SESSION_REDIS_ADDR")
	setString(&cfg.Session.Redis.Password, "SESSION_REDIS_PASSWORD")

	// Same names and precedence as the client adapter
	for _, key := range huggingface.TokenEnvVars {
		if value := os.Getenv(key); value != "" {
			cfg.Inference.APIToken = value
			break
		}
	}

	ints := map[string]*int{
		"SERVER_PORT":         &cfg.Server.Port,
		"INFERENCE_MAX_LINES": &cfg.Inference.MaxLines,
		"INFERENCE_RETRY_MAX": &cfg.Inference.Retry.MaxRetries,
		"SESSION_REDIS_DB":    &cfg.Session.Redis.DB,
	}
	for key, target := range ints {
		if err := setInt(target, key); err != nil {
			return err
		}
	}

	durations := map[string]*time.Duration{
		"SERVER_SHUTDOWN_TIMEOUT":    &cfg.Server.ShutdownTimeout,
		"INFERENCE_TIMEOUT":          &cfg.Inference.Timeout,
		"INFERENCE_RETRY_BASE_DELAY": &cfg.Inference.Retry.BaseDelay,
		"INFERENCE_RETRY_MAX_DELAY":  &cfg.Inference.Retry.MaxDelay,
		"SESSION_TTL":                &cfg.Session.TTL,
	}
	for key, target := range durations {
		if err := setDuration(target, key); err != nil {
			return err
		}
	}

	bools := map[string]*bool{
		"INFERENCE_DUMP_REQUESTS": &cfg.Inference.DumpRequests,
		"SESSION_SECURE_COOKIE":   &cfg.Session.SecureCookie,
	}
	for key, target := range bools {
		if err := setBool(target, key); err != nil {
			return err
		}
	}

	return nil
}

func lookup(key string) (string, bool) {
	value := os.Getenv(EnvPrefix + key)
	return value, value != ""
}

func setString(target *string, key string) {
	if value, ok := lookup(key); ok {
		*target = value
	}
}

func setInt(target *int, key string) error {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
	}
	*target = parsed
	return nil
}

func setDuration(target *time.Duration, key string) error {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
	}
	*target = parsed
	return nil
}

func setBool(target *bool, key string) error {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
	}
	*target = parsed
	return nil
}
