package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"

	"github.com/faqpilot/faqpilot/internal/agent"
	"github.com/faqpilot/faqpilot/internal/config"
	"github.com/faqpilot/faqpilot/internal/llm"
	"github.com/faqpilot/faqpilot/internal/log"
	"github.com/faqpilot/faqpilot/internal/observability"
	"github.com/faqpilot/faqpilot/internal/taxonomy"
)

// otelShutdownTimeout bounds the final span flush during teardown.
const otelShutdownTimeout = 5 * time.Second

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if logger == nil {
		logger = log.NewNop()
	}

	a := &App{Config: cfg, Logger: logger}

	// On error, release everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	// Tracing must be registered before Genkit initialization so flow and
	// model spans reach the exporter.
	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	store, err := taxonomy.NewStore(cfg.TaxonomyPath, logger.With("component", "taxonomy"))
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}
	a.Store = store

	ag, err := provideAgent(g, cfg, store, logger)
	if err != nil {
		return nil, err
	}
	a.Agent = ag

	flow, err := agent.InitFlow(g, ag)
	if err != nil {
		return nil, fmt.Errorf("initializing flow: %w", err)
	}
	a.Flow = flow

	return a, nil
}

// provideOtelShutdown sets up Datadog tracing and returns a teardown that
// flushes pending spans with a bounded timeout. An unreachable agent
// disables tracing instead of failing startup.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger log.Logger) func() {
	shutdown, err := observability.SetupDatadog(ctx, observability.Config{
		AgentHost:   cfg.Datadog.AgentHost,
		Environment: cfg.Datadog.Environment,
		ServiceName: cfg.Datadog.ServiceName,
	})
	if err != nil {
		logger.Warn("setting up tracing, continuing without it", "error", err)
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes Genkit with the configured AI provider plugin.
// Supports gemini (default), ollama, and openai providers.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	var g *genkit.Genkit

	switch cfg.Provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery).
		registered := map[string]bool{}
		for _, name := range []string{cfg.RewriteModel, cfg.ClassifyModel} {
			if registered[name] {
				continue
			}
			ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
				Name: name,
				Type: "chat",
			}, nil)
			registered[name] = true
		}
		logger.Info("initialized Genkit with ollama provider",
			"rewrite_model", cfg.RewriteModel,
			"classify_model", cfg.ClassifyModel,
			"host", cfg.OllamaHost,
		)

	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized Genkit with openai provider",
			"rewrite_model", cfg.RewriteModel,
			"classify_model", cfg.ClassifyModel,
		)

	default: // "gemini" / "googleai"
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized Genkit with gemini provider",
			"rewrite_model", cfg.RewriteModel,
			"classify_model", cfg.ClassifyModel,
		)
	}

	return g, nil
}

// provideAgent builds the two LLM clients and the agent over them. The
// rewrite and classify steps get separate clients so each carries its own
// circuit breaker and model.
func provideAgent(g *genkit.Genkit, cfg *config.Config, store *taxonomy.Store, logger log.Logger) (*agent.Agent, error) {
	rewriter, err := llm.NewRewriter(llm.Config{
		Genkit:    g,
		ModelName: cfg.FullRewriteModel(),
		Logger:    logger.With("component", "rewriter"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating rewriter: %w", err)
	}

	classifier, err := llm.NewClassifier(llm.Config{
		Genkit:    g,
		ModelName: cfg.FullClassifyModel(),
		Logger:    logger.With("component", "classifier"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}

	ag, err := agent.New(agent.Config{
		Store:          store,
		Rewriter:       rewriter,
		Classifier:     classifier,
		Logger:         logger.With("component", "agent"),
		FallbackAnswer: cfg.FallbackAnswer,
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}
	return ag, nil
}
