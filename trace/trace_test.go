package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSpanIDIncrements(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	assert.Equal(t, "0", CurrentSpanID(ctx))
	id, span := NextSpanID(ctx)
	assert.Equal(t, "req-1", id)
	assert.Equal(t, "1", span)
	_, span = NextSpanID(ctx)
	assert.Equal(t, "2", span)
	assert.Equal(t, "2", CurrentSpanID(ctx))
}

func TestWithoutTraceContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestIDFromContext(ctx))

	id, span := NextSpanID(ctx)
	assert.NotEmpty(t, id)
	assert.Equal(t, "1", span)
}

func TestWithRequestIDGeneratesWhenEmpty(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	assert.NotEmpty(t, RequestIDFromContext(ctx))
}
