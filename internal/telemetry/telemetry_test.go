package telemetry

import (
	"context"
	"testing"

	"ctchen222/tictactoe/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

func TestInitOtel_Disabled(t *testing.T) {
	shutdown, err := InitOtel(context.Background(), config.Telemetry{Enabled: false}, "test")
	require.NoError(t, err)

	assert.NoError(t, shutdown(context.Background()))
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
}

func TestInitOtel_Enabled(t *testing.T) {
	// grpc.NewClient connects lazily, so no collector is needed to start up.
	shutdown, err := InitOtel(context.Background(), config.Telemetry{
		Enabled:     true,
		Endpoint:    "127.0.0.1:1",
		ServiceName: "tic-tac-toe-test",
	}, "test")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// exporting to an unreachable collector fails, but every provider is still stopped
	_ = shutdown(ctx)
}

func TestNewResource(t *testing.T) {
	res, err := NewResource(context.Background(), "tic-tac-toe", "v1.2.3")
	require.NoError(t, err)

	attrs := res.Set()
	name, ok := attrs.Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "tic-tac-toe", name.AsString())
	version, ok := attrs.Value(semconv.ServiceVersionKey)
	require.True(t, ok)
	assert.Equal(t, "v1.2.3", version.AsString())
}
