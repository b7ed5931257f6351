package gen

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/syssam/trpcgen/compiler/gen/ts"
)

// ToggleMode is the state of a middleware toggle.
type ToggleMode uint8

const (
	// Disabled turns the middleware off.
	Disabled ToggleMode = iota
	// Enabled turns on the built-in middleware.
	Enabled
	// EnabledModule wraps a user supplied module.
	EnabledModule
)

// Toggle is a middleware switch. Configuration accepts "true", "false" or a
// module path relative to the schema directory.
type Toggle struct {
	Mode   ToggleMode
	Module string
}

// Off returns a disabled toggle.
func Off() Toggle { return Toggle{Mode: Disabled} }

// On returns a toggle enabling the built-in middleware.
func On() Toggle { return Toggle{Mode: Enabled} }

// Module returns a toggle wrapping the module at path.
func Module(path string) Toggle { return Toggle{Mode: EnabledModule, Module: path} }

// ParseToggle parses a generator config value.
func ParseToggle(s string) (Toggle, bool) {
	switch s = strings.TrimSpace(s); s {
	case "":
		return Toggle{}, false
	case "true":
		return On(), true
	case "false":
		return Off(), true
	default:
		return Module(s), true
	}
}

// On reports whether the toggle is enabled in any form.
func (t Toggle) On() bool { return t.Mode != Disabled }

// String implements the fmt.Stringer interface.
func (t Toggle) String() string {
	switch t.Mode {
	case Enabled:
		return "true"
	case EnabledModule:
		return t.Module
	default:
		return "false"
	}
}

// Default values of the generator configuration.
const (
	DefaultContextPath        = "../../../../src/context"
	DefaultGeneratedExtension = "ts"
	DefaultHeader             = "Code generated by trpcgen. DO NOT EDIT."
)

// Config holds the configuration of one generation run. It is built with
// options, validated once, and not modified afterwards.
type Config struct {
	// Target is the output root directory.
	Target string
	// SchemaPath is the path of the source schema file. Paths configured
	// outside the output root are relative to its directory.
	SchemaPath string

	// Actions is the allow-list of operations to generate.
	Actions []Action
	// Validation enables the .input(...) validation wiring.
	Validation bool
	// Middleware is the global middleware toggle.
	Middleware Toggle
	// Authorization is the authorization-policy middleware toggle.
	Authorization Toggle
	// ShowEntityName keeps the entity name in procedure keys.
	ShowEntityName bool

	// ContextPath locates the module exporting the Context type.
	ContextPath string
	// OptionsPath optionally locates a module whose default export is passed
	// to the tRPC initializer.
	OptionsPath string
	// ImportExtension, if set, replaces the suffix of relative import specifiers.
	ImportExtension string
	// GeneratedExtension is the extension of the emitted files.
	GeneratedExtension string
	// Header is written as a comment at the top of every emitted file.
	Header string

	// Clean removes the output tree before writing.
	Clean bool
	// Hooks wrap the generation.
	Hooks []Hook
	// ValidationGenerator and AuthorizationGenerator are the sibling
	// generators run before the routers are emitted.
	ValidationGenerator    Collaborator
	AuthorizationGenerator Collaborator

	Printer ts.Printer
	Logger  *zap.Logger
	Fs      afero.Fs
	Workers int
}

// DefaultConfig returns a config with the generator defaults.
func DefaultConfig() *Config {
	return &Config{
		Actions:            slices.Clone(AllActions),
		Validation:         true,
		Middleware:         On(),
		Authorization:      On(),
		ShowEntityName:     true,
		ContextPath:        DefaultContextPath,
		GeneratedExtension: DefaultGeneratedExtension,
		Header:             DefaultHeader,
	}
}

// Validate checks the configuration, fills the runtime defaults and makes the
// target and schema paths absolute.
func (c *Config) Validate() error {
	if c.Target == "" {
		return NewConfigError("output", nil, "missing output directory")
	}
	if c.SchemaPath == "" {
		return NewConfigError("schemaPath", nil, "missing schema path")
	}
	if len(c.Actions) == 0 {
		return NewConfigError(keyActions, nil, "at least one action is required")
	}
	for _, a := range c.Actions {
		if _, ok := ParseAction(string(a)); !ok {
			return NewConfigError(keyActions, string(a), "unknown action")
		}
	}
	if c.Middleware.Mode == EnabledModule && c.Middleware.Module == "" {
		return NewConfigError(keyMiddleware, nil, "missing module path")
	}
	if c.Authorization.Mode == EnabledModule && c.Authorization.Module == "" {
		return NewConfigError(keyShield, nil, "missing module path")
	}
	if c.ContextPath == "" {
		return NewConfigError(keyContextPath, nil, "context path cannot be empty")
	}
	c.ImportExtension = strings.TrimPrefix(c.ImportExtension, ".")
	c.GeneratedExtension = strings.TrimPrefix(c.GeneratedExtension, ".")
	if c.GeneratedExtension == "" {
		c.GeneratedExtension = DefaultGeneratedExtension
	}
	for opt, ext := range map[string]string{keyImportExt: c.ImportExtension, keyGeneratedExt: c.GeneratedExtension} {
		if strings.ContainsAny(ext, `/\.`) {
			return NewConfigError(opt, ext, "extension must be a single suffix without separators")
		}
	}
	var err error
	if c.Target, err = filepath.Abs(c.Target); err != nil {
		return NewConfigError("output", c.Target, err.Error())
	}
	if c.SchemaPath, err = filepath.Abs(c.SchemaPath); err != nil {
		return NewConfigError("schemaPath", c.SchemaPath, err.Error())
	}
	if c.Printer == nil {
		c.Printer = ts.DefaultPrinter
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	return nil
}

// Resolver returns the import path resolver for this configuration.
func (c *Config) Resolver() *PathResolver {
	return &PathResolver{
		Output:     c.Target,
		SchemaPath: c.SchemaPath,
		Extension:  c.ImportExtension,
	}
}

// BaseProcedure returns the name of the procedure every router extends.
func (c *Config) BaseProcedure() string {
	return BaseProcedureName(c.Middleware.On(), c.Authorization.On())
}

// FileName returns name with the generated extension appended.
func (c *Config) FileName(name string) string {
	return name + "." + c.GeneratedExtension
}

// Allowed reports whether the action is allow-listed.
func (c *Config) Allowed(a Action) bool {
	return slices.Contains(c.Actions, a)
}

// generator config keys.
const (
	keyMiddleware    = "withMiddleware"
	keyShield        = "withShield"
	keyZod           = "withZod"
	keyContextPath   = "contextPath"
	keyOptionsPath   = "trpcOptionsPath"
	keyShowModelName = "showModelNameInProcedure"
	keyActions       = "generateModelActions"
	keyImportExt     = "importExtension"
	keyGeneratedExt  = "generatedExtension"
)

// ConfigKeys lists the generator config keys understood by ParseGeneratorConfig.
var ConfigKeys = []string{
	keyMiddleware,
	keyShield,
	keyZod,
	keyContextPath,
	keyOptionsPath,
	keyShowModelName,
	keyActions,
	keyImportExt,
	keyGeneratedExt,
}

// ParseGeneratorConfig applies the string values of a generator block to c.
// Missing keys keep their current value and unknown keys are ignored, since
// the block is shared with sibling generators.
func (c *Config) ParseGeneratorConfig(m map[string]string) error {
	for _, key := range []string{keyMiddleware, keyShield} {
		v, ok := m[key]
		if !ok {
			continue
		}
		t, ok := ParseToggle(v)
		if !ok {
			return NewConfigError(key, v, `expected "true", "false" or a module path`)
		}
		if key == keyMiddleware {
			c.Middleware = t
		} else {
			c.Authorization = t
		}
	}
	for key, dst := range map[string]*bool{keyZod: &c.Validation, keyShowModelName: &c.ShowEntityName} {
		v, ok := m[key]
		if !ok {
			continue
		}
		b, err := parseBool(v)
		if err != nil {
			return NewConfigError(key, v, `expected "true" or "false"`)
		}
		*dst = b
	}
	if v, ok := m[keyActions]; ok {
		actions, err := ParseActions(v)
		if err != nil {
			return err
		}
		c.Actions = actions
	}
	for key, dst := range map[string]*string{
		keyContextPath:  &c.ContextPath,
		keyOptionsPath:  &c.OptionsPath,
		keyImportExt:    &c.ImportExtension,
		keyGeneratedExt: &c.GeneratedExtension,
	} {
		if v, ok := m[key]; ok {
			*dst = strings.TrimSpace(v)
		}
	}
	return nil
}

// ParseActions parses a comma separated allow-list.
func ParseActions(s string) ([]Action, error) {
	var actions []Action
	for _, part := range strings.Split(s, ",") {
		a, ok := ParseAction(part)
		if !ok {
			return nil, NewConfigError(keyActions, strings.TrimSpace(part), "unknown action")
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// parseBool accepts only the two literals a generator block can hold.
func parseBool(s string) (bool, error) {
	switch s = strings.TrimSpace(s); s {
	case "true", "false":
		return strconv.ParseBool(s)
	default:
		return false, strconv.ErrSyntax
	}
}
