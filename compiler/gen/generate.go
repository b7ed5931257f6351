package gen

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Gen generates the router tree of the graph, wrapped with the configured
// hooks.
func (g *Graph) Gen(ctx context.Context) error {
	return chain(GenerateFunc(generate), g.Hooks).Generate(ctx, g)
}

// generate is the default Generator. It prepares the output directory, runs
// the collaborators, then assembles and writes the routers.
func generate(ctx context.Context, g *Graph) error {
	start := time.Now()
	log := g.Logger.With(zap.String("output", g.Target))
	if err := g.Fs.MkdirAll(g.Target, 0o755); err != nil {
		return NewGenerationError("output", g.Target, "create output directory", err)
	}
	if g.Clean {
		if err := cleanDir(g.Fs, g.Target); err != nil {
			return NewGenerationError("output", g.Target, "clean output directory", err)
		}
		log.Debug("cleaned output directory")
	}
	if err := g.collaborate(ctx); err != nil {
		return err
	}
	files, err := g.Assemble()
	if err != nil {
		return err
	}
	w := NewFileWriter(g.Fs, g.Printer, g.Target).WithWorkers(g.Workers)
	if err := w.WriteAll(ctx, files); err != nil {
		return err
	}
	m := w.Metrics()
	log.Info("generated routers",
		zap.Int("models", len(g.Entities)),
		zap.Int("hidden", len(g.Hidden)),
		zap.Int("files", m.FilesGenerated),
		zap.Int64("bytes", m.TotalBytes),
		zap.String("base_procedure", g.BaseProcedure()),
		zap.Duration("render", m.RenderTime),
		zap.Duration("write", m.WriteTime),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// cleanDir removes the contents of dir, keeping dir itself.
func cleanDir(fs afero.Fs, dir string) error {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := fs.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
