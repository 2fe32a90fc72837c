package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDatadog_DefaultAgentHost(t *testing.T) {
	cfg := Config{
		Environment: "test",
		ServiceName: "test-service",
	}

	ctx := context.Background()
	shutdown, err := SetupDatadog(ctx, cfg)

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(ctx))
}

func TestSetupDatadog_AgentUnavailable_GracefulDegradation(t *testing.T) {
	// Exporter creation succeeds even when nothing listens; spans fail to
	// export silently instead of breaking the pipeline.
	cfg := Config{
		AgentHost:   "localhost:1",
		Environment: "test",
		ServiceName: "graceful-test",
	}

	ctx := context.Background()
	shutdown, err := SetupDatadog(ctx, cfg)

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NotPanics(t, func() { _ = shutdown(ctx) })
}

func TestDefaultAgentHost_Value(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "localhost:4318", DefaultAgentHost)
}
