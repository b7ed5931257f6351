package gen

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Collaborator is a sibling generator run before the routers are emitted,
// e.g. the generator of the validation schemas the routers import.
type Collaborator interface {
	Name() string
	Run(context.Context, *CollaboratorRequest) error
}

// CollaboratorRequest describes what a collaborator generates.
type CollaboratorRequest struct {
	// SchemaPath is the schema source file.
	SchemaPath string
	// Output is the directory the collaborator writes into.
	Output string
	// Config is the generator block configuration forwarded to it.
	Config map[string]string
}

// CollaboratorFunc is an adapter to allow the use of ordinary functions as
// collaborators.
type CollaboratorFunc struct {
	ID string
	Fn func(context.Context, *CollaboratorRequest) error
}

// Name implements Collaborator.
func (c CollaboratorFunc) Name() string { return c.ID }

// Run implements Collaborator.
func (c CollaboratorFunc) Run(ctx context.Context, req *CollaboratorRequest) error {
	return c.Fn(ctx, req)
}

// CommandCollaborator runs an external command. The request is passed in the
// environment as TRPCGEN_SCHEMA_PATH, TRPCGEN_OUTPUT and one
// TRPCGEN_CONFIG_<KEY> variable per config entry.
type CommandCollaborator struct {
	ID      string
	Command string
	Args    []string
	// Dir is the working directory. Empty means the schema directory.
	Dir    string
	Logger *zap.Logger
}

// NewCommandCollaborator parses a command line such as
// "npx prisma-zod-generator --quiet". Arguments are split on whitespace.
func NewCommandCollaborator(id, cmdline string, l *zap.Logger) (*CommandCollaborator, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, NewConfigError(id, cmdline, "empty command")
	}
	return &CommandCollaborator{ID: id, Command: fields[0], Args: fields[1:], Logger: l}, nil
}

// Name implements Collaborator.
func (c *CommandCollaborator) Name() string { return c.ID }

// Run implements Collaborator.
func (c *CommandCollaborator) Run(ctx context.Context, req *CollaboratorRequest) error {
	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Dir = c.Dir
	if cmd.Dir == "" && req.SchemaPath != "" {
		cmd.Dir = filepath.Dir(req.SchemaPath)
	}
	cmd.Env = append(os.Environ(), CollaboratorEnv(req)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	err := cmd.Run()
	if l := c.Logger; l != nil {
		l.Debug("collaborator finished",
			zap.String("collaborator", c.ID),
			zap.String("command", cmd.String()),
			zap.ByteString("stdout", bytes.TrimSpace(stdout.Bytes())),
			zap.Error(err),
		)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// CollaboratorEnv returns the environment passed to command collaborators,
// sorted by variable name.
func CollaboratorEnv(req *CollaboratorRequest) []string {
	env := []string{
		"TRPCGEN_SCHEMA_PATH=" + req.SchemaPath,
		"TRPCGEN_OUTPUT=" + req.Output,
	}
	for _, k := range slices.Sorted(maps.Keys(req.Config)) {
		env = append(env, "TRPCGEN_CONFIG_"+strings.ToUpper(k)+"="+req.Config[k])
	}
	return env
}

// collaborate runs the validation and authorization collaborators enabled by
// the configuration, in that order.
func (g *Graph) collaborate(ctx context.Context) error {
	type job struct {
		c   Collaborator
		req *CollaboratorRequest
	}
	var jobs []job
	if g.Validation && g.ValidationGenerator != nil {
		jobs = append(jobs, job{g.ValidationGenerator, &CollaboratorRequest{
			SchemaPath: g.SchemaPath,
			Output:     g.Target,
			Config:     g.collaboratorConfig(),
		}})
	}
	// A custom authorization module replaces the generated policy.
	if g.Authorization.Mode == Enabled && g.AuthorizationGenerator != nil {
		cfg := g.collaboratorConfig()
		cfg[keyContextPath] = g.ContextPath
		jobs = append(jobs, job{g.AuthorizationGenerator, &CollaboratorRequest{
			SchemaPath: g.SchemaPath,
			Output:     filepath.Join(g.Target, filepath.Dir(defaultAuthorizationModule)),
			Config:     cfg,
		}})
	}
	for _, j := range jobs {
		g.Logger.Info("running collaborator", zap.String("collaborator", j.c.Name()), zap.String("output", j.req.Output))
		if err := j.c.Run(ctx, j.req); err != nil {
			return NewGenerationError("collaborator", "", j.c.Name(), err)
		}
	}
	return nil
}

// collaboratorConfig returns the effective generator configuration as
// string values.
func (g *Graph) collaboratorConfig() map[string]string {
	actions := make([]string, len(g.Actions))
	for i, a := range g.Actions {
		actions[i] = string(a)
	}
	cfg := map[string]string{
		keyMiddleware:    g.Middleware.String(),
		keyShield:        g.Authorization.String(),
		keyZod:           fmt.Sprint(g.Validation),
		keyContextPath:   g.ContextPath,
		keyShowModelName: fmt.Sprint(g.ShowEntityName),
		keyActions:       strings.Join(actions, ","),
	}
	if g.OptionsPath != "" {
		cfg[keyOptionsPath] = g.OptionsPath
	}
	if g.ImportExtension != "" {
		cfg[keyImportExt] = g.ImportExtension
	}
	return cfg
}
