package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	// Bare context falls back to the default logger.
	assert.Equal(t, Logger(), FromContext(context.Background()))

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithUserID(ctx, "42")
	ctx = WithStage(ctx, "stats_computed")

	l := FromContext(ctx)
	assert.NotNil(t, l)
	assert.NotEqual(t, Logger(), l, "tagged context must yield an enriched logger")
}

func TestFromContext_IgnoresEmptyValues(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "")
	assert.Equal(t, Logger(), FromContext(ctx))
}
