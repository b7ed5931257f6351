package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a malformed introspection document or model.
	ErrInvalidSchema = errors.New("trpcgen: invalid schema")
	// ErrInvalidConfig indicates a configuration error.
	ErrInvalidConfig = errors.New("trpcgen: invalid configuration")
	// ErrMissingProvider indicates that no client generator was configured.
	ErrMissingProvider = errors.New("trpcgen: missing client generator")
	// ErrUnresolvablePath indicates an import target that cannot be made relative.
	ErrUnresolvablePath = errors.New("trpcgen: unresolvable import path")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("trpcgen: code generation failed")
)

// SchemaError represents a schema definition error.
type SchemaError struct {
	Entity  string
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("trpcgen: schema error")
	if e.Entity != "" {
		b.WriteString(" on model ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(entity, field, message string, cause error) *SchemaError {
	return &SchemaError{
		Entity:  entity,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error. Option holds the
// user-facing name of the invalid field.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("trpcgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("trpcgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// ProviderError is returned when none of the accepted client generators is
// configured next to this one.
type ProviderError struct {
	// Found holds the providers that were configured.
	Found []string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	names := ClientProviderNames()
	var b strings.Builder
	b.WriteString("trpcgen: a client generator is required. Please add one of the following to your schema:\n\n")
	for i, name := range names {
		if i > 0 {
			b.WriteString("\nOR\n\n")
		}
		b.WriteString(clientProviders[name].Example)
	}
	if len(e.Found) > 0 {
		fmt.Fprintf(&b, "\nconfigured generators: %s", strings.Join(e.Found, ", "))
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ProviderError.
func (e *ProviderError) Is(target error) bool {
	return target == ErrMissingProvider
}

// ResolveError is returned when an import target cannot be expressed relative
// to the emission point.
type ResolveError struct {
	From    string
	Target  string
	Message string
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("trpcgen: cannot resolve %q from %q: %s", e.Target, e.From, e.Message)
}

// Is reports whether the target matches the sentinel error for ResolveError.
func (e *ResolveError) Is(target error) bool {
	return target == ErrUnresolvablePath
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "collaborator", "assemble", "render", "write", etc.
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("trpcgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsProviderError reports whether the error is a ProviderError.
func IsProviderError(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr)
}

// IsResolveError reports whether the error is a ResolveError.
func IsResolveError(err error) bool {
	var resolveErr *ResolveError
	return errors.As(err, &resolveErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// Category returns a short label for the kind of err, used in logs.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case IsConfigError(err):
		return "config"
	case IsProviderError(err):
		return "provider"
	case IsResolveError(err):
		return "path"
	case IsSchemaError(err):
		return "schema"
	case IsGenerationError(err):
		return "generation"
	default:
		return "internal"
	}
}
