package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/faqpilot/faqpilot/internal/log"
)

// defaultCallTimeout bounds a single model call including retries.
// Classification prompts carry the whole directory, so responses can be slow.
const defaultCallTimeout = 60 * time.Second

// Config contains the parameters shared by both clients.
type Config struct {
	Genkit    *genkit.Genkit
	ModelName string // provider-qualified, e.g. "googleai/gemini-2.5-flash"
	Logger    log.Logger

	// Timeout bounds one call including retries (zero-value uses default).
	Timeout time.Duration

	// Resilience configuration (zero-values use defaults).
	Retry          RetryConfig
	CircuitBreaker CircuitBreakerConfig
	RateLimiter    *rate.Limiter // nil = default 5 req/s, burst 10
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// client is the shared Genkit call core under Rewriter and Classifier.
// All fields are captured immutably at construction; safe for concurrent use.
type client struct {
	g         *genkit.Genkit
	modelName string
	logger    log.Logger
	timeout   time.Duration

	retry   RetryConfig
	breaker *CircuitBreaker
	limiter *rate.Limiter
}

func newClient(cfg Config) (*client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(5, 10)
	}

	return &client{
		g:         cfg.Genkit,
		modelName: cfg.ModelName,
		logger:    cfg.Logger,
		timeout:   timeout,
		retry:     retry,
		breaker:   NewCircuitBreaker(cfg.CircuitBreaker),
		limiter:   limiter,
	}, nil
}

// generateText issues one model call through the resilience stack and
// returns the trimmed text output.
func (c *client) generateText(ctx context.Context, system, user string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.breaker.Allow(); err != nil {
		c.logger.Warn("circuit breaker open, rejecting model call",
			"model", c.modelName,
			"state", c.breaker.State().String(),
		)
		return "", fmt.Errorf("model unavailable: %w", err)
	}

	opts := []ai.GenerateOption{
		ai.WithModelName(c.modelName),
		ai.WithSystem(system),
		ai.WithPrompt(user),
		ai.WithConfig(map[string]any{"temperature": temperature}),
	}

	resp, err := c.generateWithRetry(ctx, opts)
	if err != nil {
		c.breaker.Failure()
		return "", err
	}
	c.breaker.Success()

	return strings.TrimSpace(resp.Text()), nil
}
