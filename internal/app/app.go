// Package app provides application initialization and dependency injection.
//
// App is the container that wires configuration, Genkit, the taxonomy store,
// the LLM clients, and the agent together. Commands call Setup once and get
// back a ready pipeline plus a Close for teardown.
package app

import (
	"github.com/firebase/genkit/go/genkit"

	"github.com/faqpilot/faqpilot/internal/agent"
	"github.com/faqpilot/faqpilot/internal/config"
	"github.com/faqpilot/faqpilot/internal/log"
	"github.com/faqpilot/faqpilot/internal/taxonomy"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit *genkit.Genkit
	Store  *taxonomy.Store
	Agent  *agent.Agent
	Flow   *agent.Flow

	otelCleanup func()
}

// Close gracefully releases application resources, flushing any pending
// trace spans. Safe to call on a partially initialized App.
func (a *App) Close() error {
	if a.otelCleanup != nil {
		a.otelCleanup()
	}
	return nil
}
