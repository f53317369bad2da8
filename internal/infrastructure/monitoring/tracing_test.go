package monitoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTracingProvider_Disabled(t *testing.T) {
	tp, err := NewTracingProvider(context.Background(), TracingConfig{ServiceName: "zoe"}, zap.NewNop())
	require.NoError(t, err)

	ctx, span := tp.StartSpan(context.Background(), "noop")
	span.End()

	assert.Empty(t, TraceIDFromContext(ctx))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestTracingProvider_InProcess(t *testing.T) {
	tp, err := NewTracingProvider(context.Background(), TracingConfig{
		ServiceName:  "zoe",
		Environment:  "test",
		SamplingRate: 1,
		Enabled:      true,
	}, zap.NewNop())
	require.NoError(t, err)
	defer tp.Shutdown(context.Background())

	ctx, span := tp.StartSpan(context.Background(), "recommendations.generate")
	RecordError(ctx, errors.New("catalog unavailable"))
	span.End()

	assert.Len(t, TraceIDFromContext(ctx), 32)
}
