package gen

import (
	"errors"
	"slices"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/syssam/trpcgen/compiler/gen/ts"
)

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output root directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("output", nil, "output directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithSchemaPath sets the path of the source schema file.
func WithSchemaPath(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("schemaPath", nil, "schema path cannot be empty")
		}
		c.SchemaPath = path
		return nil
	}
}

// WithActions replaces the operation allow-list.
func WithActions(actions ...Action) Option {
	return func(c *Config) error {
		if len(actions) == 0 {
			return NewConfigError(keyActions, nil, "at least one action is required")
		}
		for _, a := range actions {
			if _, ok := ParseAction(string(a)); !ok {
				return NewConfigError(keyActions, string(a), "unknown action")
			}
		}
		c.Actions = slices.Clone(actions)
		return nil
	}
}

// WithValidation toggles the .input(...) validation wiring.
func WithValidation(enabled bool) Option {
	return func(c *Config) error {
		c.Validation = enabled
		return nil
	}
}

// WithMiddleware sets the global middleware toggle.
func WithMiddleware(t Toggle) Option {
	return func(c *Config) error {
		c.Middleware = t
		return nil
	}
}

// WithAuthorization sets the authorization middleware toggle.
func WithAuthorization(t Toggle) Option {
	return func(c *Config) error {
		c.Authorization = t
		return nil
	}
}

// WithShowEntityName keeps or strips the entity name in procedure keys.
func WithShowEntityName(show bool) Option {
	return func(c *Config) error {
		c.ShowEntityName = show
		return nil
	}
}

// WithContextPath sets the module exporting the Context type, relative to the
// schema directory.
func WithContextPath(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError(keyContextPath, nil, "context path cannot be empty")
		}
		c.ContextPath = path
		return nil
	}
}

// WithOptionsPath sets the module whose default export is passed to the tRPC
// initializer.
func WithOptionsPath(path string) Option {
	return func(c *Config) error {
		c.OptionsPath = path
		return nil
	}
}

// WithImportExtension rewrites the suffix of relative import specifiers,
// e.g. "js" for ESM projects.
func WithImportExtension(ext string) Option {
	return func(c *Config) error {
		c.ImportExtension = ext
		return nil
	}
}

// WithGeneratedExtension sets the extension of emitted files.
func WithGeneratedExtension(ext string) Option {
	return func(c *Config) error {
		if ext == "" {
			return NewConfigError(keyGeneratedExt, nil, "extension cannot be empty")
		}
		c.GeneratedExtension = ext
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithGeneratorConfig applies the string values of a schema generator block.
func WithGeneratorConfig(m map[string]string) Option {
	return func(c *Config) error {
		return c.ParseGeneratorConfig(m)
	}
}

// WithClean removes the output tree before writing.
func WithClean(clean bool) Option {
	return func(c *Config) error {
		c.Clean = clean
		return nil
	}
}

// WithHooks appends generation hooks. Hooks run in the order they are added.
func WithHooks(hooks ...Hook) Option {
	return func(c *Config) error {
		for _, h := range hooks {
			if h == nil {
				return NewConfigError("Hooks", nil, "hook cannot be nil")
			}
		}
		c.Hooks = append(c.Hooks, hooks...)
		return nil
	}
}

// WithValidationGenerator sets the collaborator that emits the validation
// schemas. It runs only when validation wiring is enabled.
func WithValidationGenerator(g Collaborator) Option {
	return func(c *Config) error {
		c.ValidationGenerator = g
		return nil
	}
}

// WithAuthorizationGenerator sets the collaborator that emits the default
// authorization policy. It runs only when authorization uses the built-in module.
func WithAuthorizationGenerator(g Collaborator) Option {
	return func(c *Config) error {
		c.AuthorizationGenerator = g
		return nil
	}
}

// WithPrinter sets the printer used to render emitted files.
func WithPrinter(p ts.Printer) Option {
	return func(c *Config) error {
		if p == nil {
			return NewConfigError("Printer", nil, "printer cannot be nil")
		}
		c.Printer = p
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// WithFs sets the filesystem files are written to.
func WithFs(fs afero.Fs) Option {
	return func(c *Config) error {
		if fs == nil {
			return NewConfigError("Fs", nil, "filesystem cannot be nil")
		}
		c.Fs = fs
		return nil
	}
}

// WithWorkers sets the number of parallel file writers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// NewConfig creates a Config with the generator defaults and applies the given
// options. The result is validated.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig is like NewConfig but panics on error.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Apply applies options to c, stopping at the first error.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies every option and returns all errors joined.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
