package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		upperFirst bool
		expected   string
	}{
		{name: "underscored", input: "show_user", expected: "showUser"},
		{name: "hyphenated", input: "show-user", expected: "showUser"},
		{name: "already camel", input: "showUser", expected: "showUser"},
		{name: "capitalized", input: "ShowUser", expected: "showUser"},
		{name: "single word", input: "index", expected: "index"},
		{name: "upper first", input: "user_profiles", upperFirst: true, expected: "UserProfiles"},
		{name: "empty", input: "", expected: ""},
		{name: "only separators", input: "__", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Camelize(tt.input, tt.upperFirst))
		})
	}
}

func TestUnderscore(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"UserProfiles":  "user_profiles",
		"user_profiles": "user_profiles",
		"user-profiles": "user_profiles",
		"hello":         "hello",
		"Hello":         "hello",
		"HTTPServer":    "http_server",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, Underscore(input), input)
	}
}

func TestNormalizeAction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "newForm", NormalizeAction("new_form"))
	assert.Equal(t, "newForm", NormalizeAction("new-form"))
	assert.Equal(t, "newForm", NormalizeAction("newForm"))
	assert.Equal(t, "index", NormalizeAction("index"))
}
