// Package config provides application-wide configuration.
// Values come from three layers: compiled-in defaults, an optional YAML file,
// and environment variables (highest precedence). All fields have safe
// defaults so the binaries run locally without any setup beyond Ollama.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for puente.
type Config struct {
	// LLM
	LLMProvider   string `yaml:"llm_provider"`    // LLM_PROVIDER — default: "ollama"
	OllamaBaseURL string `yaml:"ollama_base_url"` // OLLAMA_BASE_URL — default: "http://localhost:11434"
	OllamaModel   string `yaml:"ollama_model"`    // OLLAMA_MODEL — default: "llama3.2"
	ModelTimeout  int    `yaml:"model_timeout"`   // MODEL_TIMEOUT — seconds per model call, default: 120
	ModelRetries  int    `yaml:"model_retries"`   // MODEL_RETRIES — default: 3

	// Conversation loop
	MaxIterations int `yaml:"max_iterations"` // MAX_ITERATIONS — default: 5
	ToolTimeout   int `yaml:"tool_timeout"`   // TOOL_TIMEOUT — seconds per tool invocation, default: 30

	// Storage
	DBPath string `yaml:"db_path"` // DB_PATH — default: "puente.db"

	// HTTP daemon
	HTTPHost string `yaml:"http_host"` // HTTP_HOST — default: "0.0.0.0"
	HTTPPort int    `yaml:"http_port"` // HTTP_PORT — default: 8080

	// API credentials (puented). The secret is stored as a bcrypt hash;
	// the plaintext secret is never part of the configuration.
	APIClientID         string `yaml:"api_client_id"`          // API_CLIENT_ID
	APIClientSecretHash string `yaml:"api_client_secret_hash"` // API_CLIENT_SECRET_HASH
}

const (
	envKeyLLMProvider   = "LLM_PROVIDER"
	envKeyOllamaBaseURL = "OLLAMA_BASE_URL"
	envKeyOllamaModel   = "OLLAMA_MODEL"
	envKeyModelTimeout  = "MODEL_TIMEOUT"
	envKeyModelRetries  = "MODEL_RETRIES"
	envKeyMaxIterations = "MAX_ITERATIONS"
	envKeyToolTimeout   = "TOOL_TIMEOUT"
	envKeyDBPath        = "DB_PATH"
	envKeyHTTPHost      = "HTTP_HOST"
	envKeyHTTPPort      = "HTTP_PORT"
	envKeyAPIClientID   = "API_CLIENT_ID"
	envKeyAPISecretHash = "API_CLIENT_SECRET_HASH"
)

// Defaults returns the compiled-in configuration.
func Defaults() Config {
	return Config{
		LLMProvider:   "ollama",
		OllamaBaseURL: "http://localhost:11434",
		OllamaModel:   "llama3.2",
		ModelTimeout:  120,
		ModelRetries:  3,
		MaxIterations: 5,
		ToolTimeout:   30,
		DBPath:        "puente.db",
		HTTPHost:      "0.0.0.0",
		HTTPPort:      8080,
	}
}

// Load reads configuration from environment variables over the defaults.
func Load() Config {
	cfg := Defaults()
	applyEnv(&cfg)
	return cfg
}

// LoadFile reads configuration from a YAML file, then applies environment
// variable overrides. Missing YAML keys keep their defaults.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// ModelTimeoutDuration returns the per-model-call timeout.
func (c Config) ModelTimeoutDuration() time.Duration {
	return time.Duration(c.ModelTimeout) * time.Second
}

// ToolTimeoutDuration returns the per-tool-invocation timeout.
func (c Config) ToolTimeoutDuration() time.Duration {
	return time.Duration(c.ToolTimeout) * time.Second
}

func applyEnv(cfg *Config) {
	cfg.LLMProvider = envOr(envKeyLLMProvider, cfg.LLMProvider)
	cfg.OllamaBaseURL = envOr(envKeyOllamaBaseURL, cfg.OllamaBaseURL)
	cfg.OllamaModel = envOr(envKeyOllamaModel, cfg.OllamaModel)
	cfg.ModelTimeout = envIntOr(envKeyModelTimeout, cfg.ModelTimeout)
	cfg.ModelRetries = envIntOr(envKeyModelRetries, cfg.ModelRetries)
	cfg.MaxIterations = envIntOr(envKeyMaxIterations, cfg.MaxIterations)
	cfg.ToolTimeout = envIntOr(envKeyToolTimeout, cfg.ToolTimeout)
	cfg.DBPath = envOr(envKeyDBPath, cfg.DBPath)
	cfg.HTTPHost = envOr(envKeyHTTPHost, cfg.HTTPHost)
	cfg.HTTPPort = envIntOr(envKeyHTTPPort, cfg.HTTPPort)
	cfg.APIClientID = envOr(envKeyAPIClientID, cfg.APIClientID)
	cfg.APIClientSecretHash = envOr(envKeyAPISecretHash, cfg.APIClientSecretHash)
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOr returns the integer value of the environment variable key.
// Non-numeric or non-positive values fall back (graceful degradation).
func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
