package tracer

import (
	"context"
	"testing"

	"techno-ai-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestInitTracerDisabledIsNoop(t *testing.T) {
	shutdown := InitTracer(Config{}, logger.NewNopLogger())
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracerEnabled(t *testing.T) {
	shutdown := InitTracer(Config{Enabled: true, Endpoint: "127.0.0.1:4318"}, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Nothing was exported, so shutdown has nothing to flush.
	_ = shutdown(ctx)
}
