package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/ersonp/lore-reader/internal/infrastructure/config"
	"github.com/ersonp/lore-reader/internal/pkg/logger"
)

func TestInit_Disabled(t *testing.T) {
	shutdown := Init(context.Background(), config.TelemetryConfig{Enabled: false}, nil)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	prevWriter := stdoutWriter
	stdoutWriter = &buf
	prevProvider := otel.GetTracerProvider()
	t.Cleanup(func() {
		stdoutWriter = prevWriter
		otel.SetTracerProvider(prevProvider)
	})

	shutdown := Init(context.Background(), config.TelemetryConfig{
		Enabled:     true,
		ServiceName: "lore-reader-test",
		SampleRatio: 1,
	}, logger.NewNop())

	_, span := otel.Tracer("test").Start(context.Background(), "resolve")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name": "resolve"`)
}

func TestSampleRatio_Clamped(t *testing.T) {
	assert.Equal(t, 0.0, sampleRatio(-1))
	assert.Equal(t, 1.0, sampleRatio(3))
	assert.Equal(t, 0.25, sampleRatio(0.25))
}
