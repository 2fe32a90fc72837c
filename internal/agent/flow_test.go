package agent

import (
	"context"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqpilot/faqpilot/internal/llm"
)

func TestFlowName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "faqpilot/faq", FlowName)
}

// The singleton tests share package-level state and must run sequentially.
func TestFlowLifecycle(t *testing.T) {
	ResetFlowForTesting()
	t.Cleanup(ResetFlowForTesting)

	t.Run("GetFlow panics before InitFlow", func(t *testing.T) {
		assert.Panics(t, func() { GetFlow() })
	})

	g := genkit.Init(context.Background())
	a := NewTestAgent(t, EchoRewriter(), FixedClassifier("2.1"))

	t.Run("InitFlow succeeds once", func(t *testing.T) {
		f, err := InitFlow(g, a)
		require.NoError(t, err)
		require.NotNil(t, f)
		assert.Same(t, f, GetFlow())
	})

	t.Run("second InitFlow fails", func(t *testing.T) {
		_, err := InitFlow(g, a)
		assert.Error(t, err)
	})

	t.Run("flow runs the pipeline", func(t *testing.T) {
		out, err := GetFlow().Run(context.Background(), Input{
			Conversation: []Turn{
				{Role: llm.RoleUser, Content: "where is my package"},
			},
		})
		require.NoError(t, err)
		assert.True(t, out.Matched)
		assert.Equal(t, "2.1", out.CategoryKeyPath)
		assert.Equal(t, "Track your package with the link in the confirmation email.", out.Answer)
		assert.Equal(t, "answered", out.State)
	})

	t.Run("flow surfaces empty conversation error", func(t *testing.T) {
		_, err := GetFlow().Run(context.Background(), Input{})
		require.Error(t, err)
	})
}
