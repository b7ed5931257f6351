package gen

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := NewSchemaError("User", "email", "invalid format", cause)

		assert.Contains(t, err.Error(), "trpcgen: schema error")
		assert.Contains(t, err.Error(), "model User")
		assert.Contains(t, err.Error(), "field email")
		assert.Contains(t, err.Error(), "invalid format")
		assert.Contains(t, err.Error(), "underlying error")
	})

	t.Run("Error message with model only", func(t *testing.T) {
		err := &SchemaError{Entity: "User"}
		assert.Contains(t, err.Error(), "model User")
		assert.NotContains(t, err.Error(), "field")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewSchemaError("User", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrInvalidSchema", func(t *testing.T) {
		err := NewSchemaError("User", "", "", nil)
		assert.True(t, errors.Is(err, ErrInvalidSchema))
		assert.True(t, IsSchemaError(fmt.Errorf("wrapped: %w", err)))
		assert.False(t, IsSchemaError(errors.New("other")))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("withZod", "yes", `expected "true" or "false"`)

		assert.Contains(t, err.Error(), "trpcgen: config error")
		assert.Contains(t, err.Error(), `"withZod"`)
		assert.Contains(t, err.Error(), "yes")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("output", nil, "missing output directory")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrInvalidConfig", func(t *testing.T) {
		err := NewConfigError("output", nil, "")
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		assert.True(t, IsConfigError(err))
	})
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Found: []string{"zod-prisma"}}
	msg := err.Error()

	assert.Contains(t, msg, `provider = "prisma-client-js"`)
	assert.Contains(t, msg, `provider = "prisma-client"`)
	assert.Contains(t, msg, `output   = "./generated/client"`)
	assert.Contains(t, msg, "\nOR\n")
	assert.Contains(t, msg, "zod-prisma")
	assert.Less(t, strings.Index(msg, "prisma-client-js"), strings.Index(msg, `"prisma-client"`), "legacy client is listed first")
	assert.True(t, errors.Is(err, ErrMissingProvider))
	assert.True(t, IsProviderError(err))
}

func TestResolveError(t *testing.T) {
	err := &ResolveError{From: "C:/out/routers/helpers", Target: "D:/ctx", Message: "paths are on different volumes"}
	assert.Contains(t, err.Error(), "D:/ctx")
	assert.True(t, errors.Is(err, ErrUnresolvablePath))
	assert.True(t, IsResolveError(err))
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewGenerationError("write", "routers/index.ts", "", cause)

	assert.Contains(t, err.Error(), "in phase write")
	assert.Contains(t, err.Error(), "(file: routers/index.ts)")
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, errors.Is(err, ErrGenerationFailed))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsGenerationError(err))
}

func TestCategory(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{NewConfigError("a", nil, ""), "config"},
		{&ProviderError{}, "provider"},
		{&ResolveError{}, "path"},
		{NewSchemaError("", "", "", nil), "schema"},
		{NewGenerationError("", "", "", nil), "generation"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Category(tt.err))
	}
}
