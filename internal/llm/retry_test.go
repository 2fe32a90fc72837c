package llm

import (
	"errors"
	"testing"
)

func TestDefaultRetryConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultRetryConfig()

	if cfg.MaxRetries <= 0 {
		t.Errorf("MaxRetries should be positive, got %d", cfg.MaxRetries)
	}
	if cfg.InitialInterval <= 0 {
		t.Errorf("InitialInterval should be positive, got %v", cfg.InitialInterval)
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		t.Error("MaxInterval should be >= InitialInterval")
	}
}

func TestRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "rate limit error",
			err:      errors.New("rate limit exceeded"),
			expected: true,
		},
		{
			name:     "quota exceeded",
			err:      errors.New("quota exceeded for project"),
			expected: true,
		},
		{
			name:     "http 429",
			err:      errors.New("request failed with status 429"),
			expected: true,
		},
		{
			name:     "service unavailable",
			err:      errors.New("503 Service Unavailable"),
			expected: true,
		},
		{
			name:     "gateway timeout",
			err:      errors.New("504 gateway timeout"),
			expected: true,
		},
		{
			name:     "connection reset",
			err:      errors.New("read: connection reset by peer"),
			expected: true,
		},
		{
			name:     "auth failure is permanent",
			err:      errors.New("invalid API key"),
			expected: false,
		},
		{
			name:     "bad request is permanent",
			err:      errors.New("400 bad request"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := retryableError(tt.err); got != tt.expected {
				t.Errorf("retryableError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}
