// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.faqpilot/config.yaml or ./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: provider selection plus separate rewrite and classify models
//   - Taxonomy: path to the FAQ document, fallback answer
//   - Serve: CORS, proxy trust, per-IP rate limiting
//   - Observability: Datadog APM tracing (see observability.go)
//
// Security: sensitive data (API keys) is never logged; MarshalJSON masks it.
// Validation: fail-fast range checks in validation.go with sentinel errors
// for errors.Is().
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required provider API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidModelName indicates a model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTaxonomyPath indicates the FAQ document path is invalid.
	ErrInvalidTaxonomyPath = errors.New("invalid taxonomy path")

	// ErrInvalidOllamaHost indicates the Ollama host is invalid.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")

	// ErrInvalidRateLimit indicates the serve rate limit is out of range.
	ErrInvalidRateLimit = errors.New("invalid rate limit")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields, update MarshalJSON.
type Config struct {
	// AI provider and model configuration. Rewrite and classify use
	// separate models so the cheap rewrite step can run on a smaller one.
	Provider      string `mapstructure:"provider" json:"provider"` // "gemini" (default), "ollama", "openai"
	RewriteModel  string `mapstructure:"rewrite_model" json:"rewrite_model"`
	ClassifyModel string `mapstructure:"classify_model" json:"classify_model"`

	// Ollama configuration (only used when provider is "ollama")
	OllamaHost string `mapstructure:"ollama_host" json:"ollama_host"`

	// Taxonomy configuration
	TaxonomyPath   string `mapstructure:"taxonomy_path" json:"taxonomy_path"`
	FallbackAnswer string `mapstructure:"fallback_answer" json:"fallback_answer"` // empty = built-in default

	// Serve configuration
	Addr           string   `mapstructure:"addr" json:"addr"`
	CORSOrigins    []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy     bool     `mapstructure:"trust_proxy" json:"trust_proxy"` // trust X-Real-IP/X-Forwarded-For (set true behind reverse proxy)
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst" json:"rate_limit_burst"`

	// Observability configuration (see observability.go)
	Datadog DatadogConfig `mapstructure:"datadog" json:"datadog"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".faqpilot")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; defaults plus env cover it.
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// AI defaults
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("rewrite_model", "gemini-2.5-flash")
	viper.SetDefault("classify_model", "gemini-2.5-flash")

	// Ollama defaults
	viper.SetDefault("ollama_host", "http://localhost:11434")

	// Taxonomy defaults
	viper.SetDefault("taxonomy_path", "faq_doc.json")

	// Serve defaults
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("cors_origins", []string{"http://localhost:4200"})
	viper.SetDefault("trust_proxy", false)
	viper.SetDefault("rate_limit_rps", 10.0)
	viper.SetDefault("rate_limit_burst", 20)

	// Datadog defaults
	viper.SetDefault("datadog.agent_host", "localhost:4318")
	viper.SetDefault("datadog.environment", "dev")
	viper.SetDefault("datadog.service_name", "faqpilot")
}

// bindEnvVariables binds environment variables explicitly.
// Provider API keys (GEMINI_API_KEY, OPENAI_API_KEY) are read directly by
// the Genkit plugins, not via Viper; Validate checks their presence based
// on the selected provider.
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a panic here is a bug.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "FAQPILOT_PROVIDER")
	mustBind("rewrite_model", "FAQPILOT_REWRITE_MODEL")
	mustBind("classify_model", "FAQPILOT_CLASSIFY_MODEL")
	mustBind("ollama_host", "FAQPILOT_OLLAMA_HOST")
	mustBind("taxonomy_path", "FAQPILOT_TAXONOMY_PATH")
	mustBind("fallback_answer", "FAQPILOT_FALLBACK_ANSWER")
	mustBind("addr", "FAQPILOT_ADDR")
	mustBind("cors_origins", "FAQPILOT_CORS_ORIGINS")
	mustBind("trust_proxy", "FAQPILOT_TRUST_PROXY")
	mustBind("datadog.api_key", "DD_API_KEY")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid substring matching against real secret content.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging. Secrets of 8 chars or
// fewer are fully masked; longer ones keep the first and last 2 characters
// for debug utility.
//
// THREAT MODEL: defends against accidental logging of real secrets. It is
// not cryptographically secure; if logs are compromised, rotate secrets.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field
// masking. Datadog.APIKey is handled by DatadogConfig's own MarshalJSON.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	data, err := json.Marshal(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// fullModelName qualifies a bare model name with the provider prefix Genkit
// expects. Empty names and names already containing "/" are returned as-is.
func (c *Config) fullModelName(name string) string {
	if name == "" || strings.Contains(name, "/") {
		return name
	}
	switch c.Provider {
	case ProviderOllama:
		return ProviderOllama + "/" + name
	case ProviderOpenAI:
		return ProviderOpenAI + "/" + name
	default:
		return ProviderGoogleAI + "/" + name
	}
}

// FullRewriteModel returns the provider-qualified rewrite model name.
func (c *Config) FullRewriteModel() string { return c.fullModelName(c.RewriteModel) }

// FullClassifyModel returns the provider-qualified classify model name.
func (c *Config) FullClassifyModel() string { return c.fullModelName(c.ClassifyModel) }

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
