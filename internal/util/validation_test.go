package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHTTPMethod(t *testing.T) {
	t.Parallel()

	for _, m := range []string{"GET", "post", "Put", "DELETE"} {
		assert.NoError(t, ValidateHTTPMethod(m), m)
	}
	assert.Error(t, ValidateHTTPMethod("PATCH"))
	assert.Error(t, ValidateHTTPMethod(""))
}

func TestValidateRoutePath(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRoutePath("/"))
	assert.NoError(t, ValidateRoutePath("/greeting/{id}"))
	assert.Error(t, ValidateRoutePath(""))
	assert.Error(t, ValidateRoutePath("greeting"))
}

func TestValidatePortAndRate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePort(8080))
	assert.Error(t, ValidatePort(0))
	assert.Error(t, ValidatePort(70000))

	assert.NoError(t, ValidateSamplingRate(0))
	assert.NoError(t, ValidateSamplingRate(0.5))
	assert.Error(t, ValidateSamplingRate(1.5))

	assert.NoError(t, ValidateNonEmpty("x", "name"))
	assert.EqualError(t, ValidateNonEmpty("  ", "name"), "name cannot be empty")
}
