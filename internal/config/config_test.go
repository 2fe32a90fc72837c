package config

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// validConfig returns a configuration that passes Validate when the
// provider API key is present in the environment.
func validConfig() *Config {
	return &Config{
		Provider:       ProviderGemini,
		RewriteModel:   "gemini-2.5-flash",
		ClassifyModel:  "gemini-2.5-flash",
		OllamaHost:     "http://localhost:11434",
		TaxonomyPath:   "faq_doc.json",
		Addr:           ":8080",
		RateLimitRPS:   10,
		RateLimitBurst: 20,
	}
}

func TestValidate(t *testing.T) {
	// t.Setenv forbids t.Parallel.
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "test-key")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid gemini config",
			mutate: func(*Config) {},
		},
		{
			name:   "valid googleai provider",
			mutate: func(c *Config) { c.Provider = ProviderGoogleAI },
		},
		{
			name:   "valid openai provider",
			mutate: func(c *Config) { c.Provider = ProviderOpenAI },
		},
		{
			name:   "valid ollama provider",
			mutate: func(c *Config) { c.Provider = ProviderOllama },
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Provider = "anthropic" },
			wantErr: ErrInvalidProvider,
		},
		{
			name: "ollama without host",
			mutate: func(c *Config) {
				c.Provider = ProviderOllama
				c.OllamaHost = ""
			},
			wantErr: ErrInvalidOllamaHost,
		},
		{
			name:    "empty rewrite model",
			mutate:  func(c *Config) { c.RewriteModel = "" },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "empty classify model",
			mutate:  func(c *Config) { c.ClassifyModel = "" },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "empty taxonomy path",
			mutate:  func(c *Config) { c.TaxonomyPath = "" },
			wantErr: ErrInvalidTaxonomyPath,
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.RateLimitRPS = 0 },
			wantErr: ErrInvalidRateLimit,
		},
		{
			name:    "negative burst",
			mutate:  func(c *Config) { c.RateLimitBurst = -1 },
			wantErr: ErrInvalidRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg := validConfig()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Validate() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() error = %v, want ErrConfigNil", err)
	}
}

func TestFullModelNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		provider     string
		model        string
		wantRewrite  string
		wantClassify string
	}{
		{
			name:         "gemini maps to googleai prefix",
			provider:     ProviderGemini,
			model:        "gemini-2.5-flash",
			wantRewrite:  "googleai/gemini-2.5-flash",
			wantClassify: "googleai/gemini-2.5-flash",
		},
		{
			name:         "ollama prefix",
			provider:     ProviderOllama,
			model:        "llama3.3",
			wantRewrite:  "ollama/llama3.3",
			wantClassify: "ollama/llama3.3",
		},
		{
			name:         "openai prefix",
			provider:     ProviderOpenAI,
			model:        "gpt-4o",
			wantRewrite:  "openai/gpt-4o",
			wantClassify: "openai/gpt-4o",
		},
		{
			name:         "already qualified name passes through",
			provider:     ProviderGemini,
			model:        "ollama/mistral",
			wantRewrite:  "ollama/mistral",
			wantClassify: "ollama/mistral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &Config{
				Provider:      tt.provider,
				RewriteModel:  tt.model,
				ClassifyModel: tt.model,
			}
			if got := cfg.FullRewriteModel(); got != tt.wantRewrite {
				t.Errorf("FullRewriteModel() = %q, want %q", got, tt.wantRewrite)
			}
			if got := cfg.FullClassifyModel(); got != tt.wantClassify {
				t.Errorf("FullClassifyModel() = %q, want %q", got, tt.wantClassify)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "short fully masked", input: "abc123", want: maskedValue},
		{name: "eight chars fully masked", input: "12345678", want: maskedValue},
		{name: "long keeps edges", input: "my_long_secret_key_123", want: "my<" + maskedValue + ">23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := maskSecret(tt.input); got != tt.want {
				t.Errorf("maskSecret(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfig_JSONMasksDatadogAPIKey(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Datadog.APIKey = "dd-super-secret-api-key"

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "dd-super-secret-api-key") {
		t.Error("marshaled config leaks the Datadog API key")
	}
	if !strings.Contains(string(data), maskedValue) {
		t.Error("marshaled config should contain the mask placeholder")
	}

	// Stringer goes through the same masking.
	if strings.Contains(cfg.String(), "dd-super-secret-api-key") {
		t.Error("String() leaks the Datadog API key")
	}
}

func TestDatadogConfig_Enabled(t *testing.T) {
	t.Parallel()

	if (DatadogConfig{}).Enabled() {
		t.Error("Enabled() without API key = true, want false")
	}
	if !(DatadogConfig{APIKey: "k"}).Enabled() {
		t.Error("Enabled() with API key = false, want true")
	}
}
