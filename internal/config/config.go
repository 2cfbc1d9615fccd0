// Package config provides hierarchical configuration loading for repodoc.
// Precedence: defaults < YAML file < .env file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the repodoc service and CLI.
type Config struct {
	Server  Server  `yaml:"server"`
	GitHub  GitHub  `yaml:"github"`
	LLM     LLM     `yaml:"llm"`
	Logging Logging `yaml:"logging"`
	Breaker Breaker `yaml:"breaker"`
	Retry   Retry   `yaml:"retry"`
	OTEL    OTEL    `yaml:"otel"`
	MCP     MCP     `yaml:"mcp"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port           string        `yaml:"port"`
	CORSOrigin     string        `yaml:"cors_origin"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // Budget for one whole generation request
}

// GitHub holds repository snapshot API configuration.
type GitHub struct {
	APIURL  string        `yaml:"api_url"` // Empty uses the public api.github.com
	Token   string        `yaml:"token"`
	Host    string        `yaml:"host"` // Accepted host in repository URLs
	Timeout time.Duration `yaml:"timeout"`
}

// LLM holds language model provider configuration.
type LLM struct {
	Provider      string        `yaml:"provider"` // "openai" | "gemini" | "ollama"
	URL           string        `yaml:"url"`
	APIKey        string        `yaml:"api_key"`
	Model         string        `yaml:"model"`
	Temperature   float64       `yaml:"temperature"`
	MaxTokens     int           `yaml:"max_tokens"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxConcurrent int           `yaml:"max_concurrent"` // In-flight completions per process
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Format  string `yaml:"format"` // "json" | "text"
}

// Breaker holds circuit breaker configuration for external calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Retry holds exponential backoff configuration for transient upstream failures.
type Retry struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
}

// OTEL holds OpenTelemetry exporter configuration. An empty endpoint
// disables export.
type OTEL struct {
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"` // optional; empty disables auth on /mcp
}

// Defaults returns a Config with sensible development defaults.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:           "8080",
			CORSOrigin:     "http://localhost:3000",
			RequestTimeout: 2 * time.Minute,
		},
		GitHub: GitHub{
			Host:    "github.com",
			Timeout: 30 * time.Second,
		},
		LLM: LLM{
			Provider:      "openai",
			URL:           "https://api.groq.com/openai/v1",
			Model:         "llama-3.1-8b-instant",
			Temperature:   0,
			MaxTokens:     4096,
			Timeout:       90 * time.Second,
			MaxConcurrent: 4,
		},
		Logging: Logging{
			Level:   "info",
			Service: "repodoc",
			Format:  "json",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Retry: Retry{
			MaxAttempts:     3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		OTEL: OTEL{
			Insecure:    true,
			ServiceName: "repodoc",
		},
		MCP: MCP{
			Enabled: true,
		},
	}
}
