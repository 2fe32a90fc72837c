package config

import (
	"fmt"
	"os"
	"slices"
)

// validProviders are the AI providers the app can initialize plugins for.
var validProviders = []string{ProviderGemini, ProviderGoogleAI, ProviderOllama, ProviderOpenAI}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if !slices.Contains(validProviders, c.Provider) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrInvalidProvider, c.Provider, validProviders)
	}

	// Provider API keys are read directly by the Genkit plugins; fail fast
	// here instead of on the first model call.
	switch c.Provider {
	case ProviderGemini, ProviderGoogleAI:
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
				"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
				ErrMissingAPIKey)
		}
	case ProviderOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY environment variable is required",
				ErrMissingAPIKey)
		}
	case ProviderOllama:
		if c.OllamaHost == "" {
			return fmt.Errorf("%w: ollama_host cannot be empty", ErrInvalidOllamaHost)
		}
	}

	if c.RewriteModel == "" {
		return fmt.Errorf("%w: rewrite_model cannot be empty", ErrInvalidModelName)
	}
	if c.ClassifyModel == "" {
		return fmt.Errorf("%w: classify_model cannot be empty", ErrInvalidModelName)
	}

	if c.TaxonomyPath == "" {
		return fmt.Errorf("%w: taxonomy_path cannot be empty", ErrInvalidTaxonomyPath)
	}

	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("%w: rate_limit_rps must be positive, got %g",
			ErrInvalidRateLimit, c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate_limit_burst must be at least 1, got %d",
			ErrInvalidRateLimit, c.RateLimitBurst)
	}

	return nil
}
