package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_EmptyDSNIsNoOp(t *testing.T) {
	shutdown, err := Init(Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	shutdown()
}

func TestStartSpan_WithoutSentry(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "tmdb.lookup", SpanAttributes{ExternalID: "862", Operation: "lookup"})
	require.NotNil(t, span)
	assert.NotNil(t, ctx)

	span.SetTag("cache", "miss")
	span.SetError(errors.New("boom"))
	span.End()
}

func TestSpan_NilInnerIsSafe(t *testing.T) {
	var s Span
	s.SetTag("k", "v")
	s.SetError(errors.New("boom"))
	s.End()
}

func TestIsProbe(t *testing.T) {
	assert.True(t, isProbe("GET /health"))
	assert.True(t, isProbe("GET /metrics"))
	assert.False(t, isProbe("GET /api/tmdb/movie/{id}"))
}
