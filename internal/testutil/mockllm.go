// Package testutil provides shared test doubles for packages that talk to
// Genkit models.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// MockModelName is the provider-qualified name the mock registers under.
const MockModelName = "mock/test-model"

// MockLLM provides deterministic model responses for testing.
// It matches user message content against registered patterns and returns
// the corresponding response or error.
//
// Thread-safe for concurrent use.
type MockLLM struct {
	mu        sync.Mutex
	responses []mockRule
	fallback  string
	calls     []MockCall
}

type mockRule struct {
	pattern  string // substring match in user message, lowercased
	response string
	err      error // non-nil = fail the call instead of responding
}

// MockCall records a single call to the mock model.
type MockCall struct {
	System      string // system prompt text
	UserMessage string // last user message text
	Response    string // response text returned ("" when the rule errored)
}

// NewMockLLM creates a mock model with the given fallback response.
// The fallback is returned when no pattern matches.
func NewMockLLM(fallback string) *MockLLM {
	return &MockLLM{fallback: fallback}
}

// AddResponse registers a pattern-response pair. When a user message
// contains the pattern (case-insensitive), the response is returned.
// Patterns are checked in registration order; first match wins.
func (m *MockLLM) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockRule{
		pattern:  strings.ToLower(pattern),
		response: response,
	})
}

// AddError registers a pattern that makes the model call fail with err.
// Use this to exercise transport-failure paths.
func (m *MockLLM) AddError(pattern string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockRule{
		pattern: strings.ToLower(pattern),
		err:     err,
	})
}

// Calls returns a copy of all recorded calls.
func (m *MockLLM) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]MockCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// Reset clears all recorded calls (keeps registered responses).
func (m *MockLLM) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// RegisterModel registers the mock as a Genkit model and returns a reference.
func (m *MockLLM) RegisterModel(g *genkit.Genkit) ai.Model {
	return genkit.DefineModel(g, MockModelName, &ai.ModelOptions{
		Label: "Mock Test Model",
		Supports: &ai.ModelSupports{
			Multiturn:  true,
			SystemRole: true,
		},
	}, m.generate)
}

// generate is the Genkit model function.
func (m *MockLLM) generate(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
	var systemText, userText string
	for _, msg := range req.Messages {
		if msg.Role == ai.RoleSystem {
			systemText = msg.Text()
		}
	}
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == ai.RoleUser {
			userText = req.Messages[i].Text()
			break
		}
	}

	m.mu.Lock()
	var matched *mockRule
	lower := strings.ToLower(userText)
	for i := range m.responses {
		if strings.Contains(lower, m.responses[i].pattern) {
			matched = &m.responses[i]
			break
		}
	}

	if matched != nil && matched.err != nil {
		m.calls = append(m.calls, MockCall{System: systemText, UserMessage: userText})
		m.mu.Unlock()
		return nil, matched.err
	}

	responseText := m.fallback
	if matched != nil {
		responseText = matched.response
	}
	m.calls = append(m.calls, MockCall{
		System:      systemText,
		UserMessage: userText,
		Response:    responseText,
	})
	m.mu.Unlock()

	if cb != nil {
		_ = cb(ctx, &ai.ModelResponseChunk{
			Content: []*ai.Part{ai.NewTextPart(responseText)},
		})
	}

	return &ai.ModelResponse{
		Request: req,
		Message: &ai.Message{
			Role:    ai.RoleModel,
			Content: []*ai.Part{ai.NewTextPart(responseText)},
		},
	}, nil
}
