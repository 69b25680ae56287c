package tracer

import (
	"context"
	"testing"

	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer_DisabledWithoutEndpoint(t *testing.T) {
	before := otel.GetTracerProvider()

	tp := InitTracer("cleanout-market", "", logger.NewNop())
	require.NotNil(t, tp)
	assert.Equal(t, before, otel.GetTracerProvider())

	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestInitTracer_InstallsGlobalProvider(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	// the exporter connects lazily, so no collector is needed here
	tp := InitTracer("cleanout-market", "localhost:4317", logger.NewNop())
	require.NotNil(t, tp)
	assert.Equal(t, tp, otel.GetTracerProvider())

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	_ = tp.Shutdown(ctx)
}
