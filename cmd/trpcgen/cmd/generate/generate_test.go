package generate

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = "../../../../compiler/testdata/blog.yaml"

func TestCommand(t *testing.T) {
	out := t.TempDir()
	stale := filepath.Join(out, "stale.ts")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	cmd := Command()
	cmd.SetArgs([]string{"--doc", doc, "--output", out, "--set", "withMiddleware=false", "--log-level", "error"})
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(out, "routers", "User.router.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "findManyUser: publicProcedure")

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "output is cleaned by default")
}

func TestCommandErrors(t *testing.T) {
	t.Run("missing doc", func(t *testing.T) {
		cmd := Command()
		cmd.SetArgs([]string{})
		assert.Error(t, cmd.Execute())
	})

	t.Run("bad generator override", func(t *testing.T) {
		cmd := Command()
		cmd.SetArgs([]string{"--doc", doc, "--output", t.TempDir(), "--set", "withZod=maybe", "--log-level", "fatal"})
		assert.Error(t, cmd.Execute())
	})

	t.Run("bad log format", func(t *testing.T) {
		cmd := Command()
		cmd.SetArgs([]string{"--doc", doc, "--log-format", "xml"})
		assert.Error(t, cmd.Execute())
	})
}
