package gen

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollaboratorEnv(t *testing.T) {
	env := CollaboratorEnv(&CollaboratorRequest{
		SchemaPath: "/proj/schema.prisma",
		Output:     "/proj/generated",
		Config:     map[string]string{"withZod": "true", "contextPath": "../ctx"},
	})
	assert.Equal(t, []string{
		"TRPCGEN_SCHEMA_PATH=/proj/schema.prisma",
		"TRPCGEN_OUTPUT=/proj/generated",
		"TRPCGEN_CONFIG_CONTEXTPATH=../ctx",
		"TRPCGEN_CONFIG_WITHZOD=true",
	}, env)
}

func TestNewCommandCollaborator(t *testing.T) {
	c, err := NewCommandCollaborator("zod", "  npx prisma-zod-generator --quiet ", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "zod", c.Name())
	assert.Equal(t, "npx", c.Command)
	assert.Equal(t, []string{"prisma-zod-generator", "--quiet"}, c.Args)

	_, err = NewCommandCollaborator("zod", "   ", nil)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestCommandCollaboratorRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	req := &CollaboratorRequest{
		SchemaPath: filepath.Join(dir, "schema.prisma"),
		Output:     filepath.Join(dir, "out"),
		Config:     map[string]string{"withZod": "true"},
	}

	t.Run("success", func(t *testing.T) {
		c := &CommandCollaborator{ID: "env", Command: "sh", Args: []string{"-c", `test "$TRPCGEN_OUTPUT" = "` + req.Output + `" && test "$TRPCGEN_CONFIG_WITHZOD" = true && test "$(pwd -P)" = "$(cd "` + dir + `" && pwd -P)"`}}
		require.NoError(t, c.Run(context.Background(), req))
	})

	t.Run("failure carries stderr", func(t *testing.T) {
		c := &CommandCollaborator{ID: "fail", Command: "sh", Args: []string{"-c", "echo broken schema >&2; exit 3"}, Logger: zap.NewNop()}
		err := c.Run(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken schema")
		assert.Contains(t, err.Error(), "exit status 3")
	})
}

func TestCollaboratorConfig(t *testing.T) {
	g := testGraph(t, WithActions(FindMany, Create), WithImportExtension("js"), WithMiddleware(Module("../mw")))
	cfg := g.collaboratorConfig()
	assert.Equal(t, map[string]string{
		"withMiddleware":           "../mw",
		"withShield":               "true",
		"withZod":                  "true",
		"contextPath":              DefaultContextPath,
		"showModelNameInProcedure": "true",
		"generateModelActions":     "findMany,create",
		"importExtension":          "js",
	}, cfg)
}
