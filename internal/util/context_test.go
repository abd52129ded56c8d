package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, ControllerFromContext(ctx))
	assert.Nil(t, UserSegmentsFromContext(ctx))
	assert.Zero(t, ElapsedTime(ctx))

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithTarget(ctx, "HelloController", "show")
	ctx = ContextWithUserSegments(ctx, map[string]string{"user_id": "7"})
	ctx = ContextWithStartTime(ctx, time.Now().Add(-time.Second))

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "HelloController", ControllerFromContext(ctx))
	assert.Equal(t, "show", ActionFromContext(ctx))
	assert.Equal(t, "7", UserSegmentsFromContext(ctx)["user_id"])
	assert.GreaterOrEqual(t, ElapsedTime(ctx), time.Second)
}

func TestStatusCapturingResponseWriter(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := NewStatusCapturingResponseWriter(rec)

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusTeapot)
	n, err := w.Write([]byte("hello"))

	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusCreated, w.StatusCode)
	assert.Equal(t, 5, w.Size)
	assert.Equal(t, http.StatusCreated, rec.Code)
	w.Flush()
	assert.True(t, rec.Flushed)
}
