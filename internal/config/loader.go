package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "repodoc.yaml"

// DefaultEnvFile is the path checked for dotenv configuration.
const DefaultEnvFile = ".env"

// Load returns a Config using the hierarchy: defaults < YAML < .env < ENV.
// Both files are optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFiles(DefaultConfigFile, DefaultEnvFile)
}

// LoadFrom loads the given YAML path and the default .env file.
func LoadFrom(yamlPath string) (*Config, error) {
	return LoadFiles(yamlPath, DefaultEnvFile)
}

// LoadFiles returns a Config loaded from the given YAML and dotenv paths.
// Process environment variables win over values from the dotenv file.
func LoadFiles(yamlPath, envPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	dotenv, err := readDotenv(envPath)
	if err != nil {
		return nil, fmt.Errorf("config dotenv: %w", err)
	}

	loadEnv(&cfg, lookup(dotenv))

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is operator-supplied
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vals, nil
}

// env resolves a key from the process environment, falling back to dotenv values.
type env func(key string) string

func lookup(dotenv map[string]string) env {
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config, e env) {
	e.setString(&cfg.Server.Port, "REPODOC_PORT")
	e.setString(&cfg.Server.CORSOrigin, "REPODOC_CORS_ORIGIN")
	e.setDuration(&cfg.Server.RequestTimeout, "REPODOC_REQUEST_TIMEOUT")

	e.setString(&cfg.GitHub.APIURL, "GITHUB_API_URL")
	e.setString(&cfg.GitHub.Token, "GITHUB_TOKEN")
	e.setString(&cfg.GitHub.Host, "REPODOC_GITHUB_HOST")
	e.setDuration(&cfg.GitHub.Timeout, "REPODOC_GITHUB_TIMEOUT")

	// Groq names first, generic names override.
	e.setString(&cfg.LLM.Provider, "REPODOC_LLM_PROVIDER")
	e.setString(&cfg.LLM.URL, "GROQ_API_URL")
	e.setString(&cfg.LLM.URL, "LLM_API_URL")
	e.setString(&cfg.LLM.APIKey, "GROQ_API_KEY")
	e.setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	e.setString(&cfg.LLM.Model, "REPODOC_LLM_MODEL")
	e.setFloat64(&cfg.LLM.Temperature, "REPODOC_LLM_TEMPERATURE")
	e.setInt(&cfg.LLM.MaxTokens, "REPODOC_LLM_MAX_TOKENS")
	e.setDuration(&cfg.LLM.Timeout, "REPODOC_LLM_TIMEOUT")
	e.setInt(&cfg.LLM.MaxConcurrent, "REPODOC_LLM_MAX_CONCURRENT")

	e.setString(&cfg.Logging.Level, "REPODOC_LOG_LEVEL")
	e.setString(&cfg.Logging.Service, "REPODOC_LOG_SERVICE")
	e.setString(&cfg.Logging.Format, "REPODOC_LOG_FORMAT")

	e.setInt(&cfg.Breaker.MaxFailures, "REPODOC_BREAKER_MAX_FAILURES")
	e.setDuration(&cfg.Breaker.Timeout, "REPODOC_BREAKER_TIMEOUT")

	e.setInt(&cfg.Retry.MaxAttempts, "REPODOC_RETRY_MAX_ATTEMPTS")
	e.setDuration(&cfg.Retry.InitialInterval, "REPODOC_RETRY_INITIAL_INTERVAL")
	e.setDuration(&cfg.Retry.MaxInterval, "REPODOC_RETRY_MAX_INTERVAL")

	e.setString(&cfg.OTEL.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	e.setBool(&cfg.OTEL.Insecure, "REPODOC_OTEL_INSECURE")
	e.setString(&cfg.OTEL.ServiceName, "OTEL_SERVICE_NAME")

	e.setBool(&cfg.MCP.Enabled, "REPODOC_MCP_ENABLED")
	e.setString(&cfg.MCP.APIKey, "REPODOC_MCP_API_KEY")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.GitHub.Host == "" {
		return errors.New("github.host is required")
	}
	if cfg.LLM.Provider == "" {
		return errors.New("llm.provider is required")
	}
	if cfg.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.MaxTokens < 1 {
		return errors.New("llm.max_tokens must be >= 1")
	}
	if cfg.LLM.MaxConcurrent < 1 {
		return errors.New("llm.max_concurrent must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Retry.MaxAttempts < 1 {
		return errors.New("retry.max_attempts must be >= 1")
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q must be json or text", cfg.Logging.Format)
	}
	return nil
}

func (e env) setString(dst *string, key string) {
	if v := e(key); v != "" {
		*dst = v
	}
}

func (e env) setInt(dst *int, key string) {
	if v := e(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func (e env) setFloat64(dst *float64, key string) {
	if v := e(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func (e env) setBool(dst *bool, key string) {
	if v := e(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func (e env) setDuration(dst *time.Duration, key string) {
	if v := e(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
