package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// Input is the Flow input: the conversation plus optional context params.
type Input struct {
	Conversation []Turn            `json:"conversation"`
	Params       map[string]string `json:"params,omitempty"`
}

// Output is the Flow output, the Result plus a stringly state for clients
// that only inspect JSON.
type Output struct {
	Answer          string `json:"answer"`
	CategoryKeyPath string `json:"category_key_path"`
	Reason          string `json:"reason,omitempty"`
	Breadcrumb      string `json:"breadcrumb,omitempty"`
	Matched         bool   `json:"matched"`
	State           string `json:"state"`
}

// FlowName is the registered name of the FAQ Flow in Genkit.
const FlowName = "faqpilot/faq"

// Flow is the type alias for the FAQ agent's Genkit Flow.
// Exported for use in the api package with genkit.Handler().
type Flow = core.Flow[Input, Output, struct{}]

// Package-level singleton to prevent panic on Flow re-registration.
var (
	flowOnce     sync.Once
	flow         *Flow
	flowInitDone bool
)

// InitFlow initializes the FAQ Flow singleton. Must be called exactly once
// during application startup; a second call returns an error instead of
// silently ignoring its arguments.
func InitFlow(g *genkit.Genkit, a *Agent) (*Flow, error) {
	var initialized bool
	flowOnce.Do(func() {
		flow = a.DefineFlow(g)
		flowInitDone = true
		initialized = true
	})
	if !initialized && flowInitDone {
		return nil, fmt.Errorf("InitFlow called more than once")
	}
	return flow, nil
}

// GetFlow returns the initialized Flow singleton. Panics if InitFlow was
// not called, which indicates a programming error.
func GetFlow() *Flow {
	if !flowInitDone {
		panic("GetFlow called before InitFlow")
	}
	return flow
}

// ResetFlowForTesting resets the Flow singleton so tests can initialize
// with different configurations. Not safe for concurrent use.
func ResetFlowForTesting() {
	flowOnce = sync.Once{}
	flow = nil
	flowInitDone = false
}

// DefineFlow registers the Genkit Flow wrapping Process. The Flow adds
// observability (DevUI tracing, error spans) and typed HTTP exposure via
// genkit.Handler; Process contains the core logic.
//
// Use InitFlow/GetFlow instead of calling DefineFlow directly; registering
// the same Flow name twice panics inside Genkit.
func (a *Agent) DefineFlow(g *genkit.Genkit) *Flow {
	return genkit.DefineFlow(g, FlowName,
		func(ctx context.Context, input Input) (Output, error) {
			result, err := a.Process(ctx, input.Conversation, input.Params)
			if err != nil {
				return Output{State: result.State.String()}, err
			}
			return Output{
				Answer:          result.Answer,
				CategoryKeyPath: result.CategoryKeyPath,
				Reason:          result.Reason,
				Breadcrumb:      result.Breadcrumb,
				Matched:         result.Matched,
				State:           result.State.String(),
			}, nil
		},
	)
}
