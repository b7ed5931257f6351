// Package settings layers the trpcgen command configuration: flags over
// TRPCGEN_* environment variables over an optional config file.
package settings

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/syssam/trpcgen/compiler/gen"
	"github.com/syssam/trpcgen/internal/logging"
)

// EnvPrefix prefixes every environment variable read by the commands.
const EnvPrefix = "TRPCGEN"

// Flag and config keys.
const (
	KeyDoc              = "doc"
	KeyConfig           = "config"
	KeyOutput           = "output"
	KeyClean            = "clean"
	KeyWorkers          = "workers"
	KeyLogLevel         = "log-level"
	KeyLogFormat        = "log-format"
	KeyValidationCmd    = "validation-cmd"
	KeyAuthorizationCmd = "authorization-cmd"
	KeyGenerator        = "generator"
	keySet              = "set"
)

// Settings is the resolved configuration of one command invocation.
type Settings struct {
	Doc              string `mapstructure:"doc"`
	Config           string `mapstructure:"config"`
	Output           string `mapstructure:"output"`
	Clean            bool   `mapstructure:"clean"`
	Workers          int    `mapstructure:"workers"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`
	ValidationCmd    string `mapstructure:"validation-cmd"`
	AuthorizationCmd string `mapstructure:"authorization-cmd"`
	// Generator overrides keys of the document's generator block.
	Generator map[string]string `mapstructure:"-"`
}

// AddFlags registers the shared generation flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.StringP(KeyDoc, "d", "", "introspection document (JSON or YAML, - for stdin)")
	fs.StringP(KeyConfig, "c", "", "config file (yaml, json or toml)")
	fs.StringP(KeyOutput, "o", "", "output directory, overrides the generator block")
	fs.Bool(KeyClean, true, "remove the output directory contents before writing")
	fs.Int(KeyWorkers, 0, "parallel file writers (0 uses GOMAXPROCS)")
	fs.String(KeyLogLevel, "info", "log level (debug, info, warn, error)")
	fs.String(KeyLogFormat, "console", "log format (console, json)")
	fs.String(KeyValidationCmd, "", "command generating the validation schemas")
	fs.String(KeyAuthorizationCmd, "", "command generating the authorization policy")
	fs.StringToString(keySet, nil, "generator config override, e.g. --set withZod=false")
}

// New returns a viper instance bound to fs and the environment. The config
// file named by --config (or TRPCGEN_CONFIG) is read when set.
func New(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return v, nil
}

// Decode resolves the settings held by v. Generator keys from --set win
// over the config file's generator section.
func Decode(v *viper.Viper, fs *pflag.FlagSet) (*Settings, error) {
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	generator, err := stringMap(v.Get(KeyGenerator))
	if err != nil {
		return nil, err
	}
	if fs != nil && fs.Lookup(keySet) != nil {
		set, err := fs.GetStringToString(keySet)
		if err != nil {
			return nil, err
		}
		for k, val := range set {
			generator[canonicalKey(k)] = val
		}
	}
	s.Generator = generator
	if s.Doc == "" {
		return nil, fmt.Errorf("missing introspection document: set --%s or %s_DOC", KeyDoc, EnvPrefix)
	}
	return s, nil
}

// stringMap converts a decoded generator section to the string form of a
// schema generator block. Lists are joined with commas.
func stringMap(raw any) (map[string]string, error) {
	out := make(map[string]string)
	if raw == nil {
		return out, nil
	}
	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyGenerator, err)
	}
	for k, val := range m {
		k = canonicalKey(k)
		switch val := val.(type) {
		case []any:
			vs, err := cast.ToStringSliceE(val)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", KeyGenerator, k, err)
			}
			out[k] = strings.Join(vs, ",")
		default:
			sv, err := cast.ToStringE(val)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", KeyGenerator, k, err)
			}
			out[k] = sv
		}
	}
	return out, nil
}

// Logger builds the logger described by s.
func (s *Settings) Logger(component string) (*zap.Logger, error) {
	return logging.New(logging.Config{Component: component, Level: s.LogLevel, Format: s.LogFormat})
}

// canonicalKey restores the spelling of a generator key; viper folds config
// keys to lower case.
func canonicalKey(k string) string {
	for _, key := range gen.ConfigKeys {
		if strings.EqualFold(k, key) {
			return key
		}
	}
	return k
}

// Options translates s into generator options.
func (s *Settings) Options(l *zap.Logger) ([]gen.Option, error) {
	opts := []gen.Option{
		gen.WithLogger(l),
		gen.WithClean(s.Clean),
		gen.WithWorkers(s.Workers),
	}
	if len(s.Generator) > 0 {
		opts = append(opts, gen.WithGeneratorConfig(s.Generator))
	}
	if s.Output != "" {
		opts = append(opts, gen.WithTarget(s.Output))
	}
	if s.ValidationCmd != "" {
		c, err := gen.NewCommandCollaborator("validation", s.ValidationCmd, l)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithValidationGenerator(c))
	}
	if s.AuthorizationCmd != "" {
		c, err := gen.NewCommandCollaborator("authorization", s.AuthorizationCmd, l)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithAuthorizationGenerator(c))
	}
	return opts, nil
}
