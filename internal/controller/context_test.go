package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_Param(t *testing.T) {
	t.Parallel()

	ctx := NewContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x?color=red&id=q", nil))
	ctx.ID = "42"
	ctx.UserSegments["user_id"] = "7"

	assert.Equal(t, "42", ctx.Param("id"))
	assert.Equal(t, "7", ctx.Param("user_id"))
	assert.Equal(t, "red", ctx.Param("color"))
	assert.Empty(t, ctx.Param("missing"))
	assert.NotNil(t, ctx.Context())
}

func TestContext_Values(t *testing.T) {
	t.Parallel()

	ctx := NewContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	ctx.Assign("user", "alice")

	v, ok := ctx.Value("user")
	assert.True(t, ok)
	assert.Equal(t, "alice", v)
	assert.Len(t, ctx.Values(), 1)
}

func TestContext_Writers(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ctx := NewContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, ctx.JSON(http.StatusCreated, map[string]string{"ok": "yes"}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	ctx = NewContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, ctx.Redirect(http.StatusFound, "/login"))
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	ctx = NewContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, ctx.Status(http.StatusNoContent))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
