// Package watch implements the watch command: regenerate whenever the
// introspection document or the config file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/trpcgen/cmd/trpcgen/cmd/generate"
	"github.com/syssam/trpcgen/cmd/trpcgen/settings"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Command returns the watch command.
func Command() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the routers when the document or config changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := settings.New(cmd.Flags())
			if err != nil {
				return err
			}
			s, err := settings.Decode(v, cmd.Flags())
			if err != nil {
				return err
			}
			if s.Doc == "-" {
				return errors.New("watch: cannot watch standard input")
			}
			l, err := s.Logger("watch")
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			var current atomic.Pointer[settings.Settings]
			current.Store(s)
			w := NewWatcher([]string{s.Doc}, debounce, l, func(ctx context.Context) error {
				return generate.Run(ctx, current.Load(), l)
			})
			if s.Config != "" {
				v.OnConfigChange(func(e fsnotify.Event) {
					ns, err := settings.Decode(v, cmd.Flags())
					if err != nil {
						l.Warn("config reload failed", zap.String("file", e.Name), zap.Error(err))
						return
					}
					current.Store(ns)
					l.Info("config reloaded", zap.String("file", e.Name))
					w.Trigger()
				})
				v.WatchConfig()
			}
			return w.Run(cmd.Context())
		},
	}
	settings.AddFlags(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "quiet period before regenerating")
	return cmd
}

// Watcher runs Generate once, then again after every burst of changes to
// Files. Generation errors are logged and do not stop the watch.
type Watcher struct {
	Files    []string
	Debounce time.Duration
	Logger   *zap.Logger
	Generate func(context.Context) error

	trigger chan struct{}
}

// NewWatcher returns a Watcher of files.
func NewWatcher(files []string, debounce time.Duration, l *zap.Logger, fn func(context.Context) error) *Watcher {
	if l == nil {
		l = zap.NewNop()
	}
	return &Watcher{
		Files:    files,
		Debounce: debounce,
		Logger:   l,
		Generate: fn,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger schedules a regeneration as if a watched file had changed.
func (w *Watcher) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	l := w.Logger
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	// Editors replace files on save, so the parent directories are watched
	// and events are filtered by name.
	files := make(map[string]struct{}, len(w.Files))
	for _, f := range w.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		files[abs] = struct{}{}
	}
	dirs := make(map[string]struct{})
	for f := range files {
		dir := filepath.Dir(f)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = struct{}{}
	}

	w.run(ctx, l)
	l.Info("watching for changes", zap.Strings("files", w.Files))

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if _, ok := files[filepath.Clean(ev.Name)]; !ok {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			l.Debug("change detected", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			fire = time.After(w.Debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			l.Warn("watch error", zap.Error(err))
		case <-w.trigger:
			fire = time.After(w.Debounce)
		case <-fire:
			fire = nil
			w.run(ctx, l)
		}
	}
}

func (w *Watcher) run(ctx context.Context, l *zap.Logger) {
	if err := w.Generate(ctx); err != nil && ctx.Err() == nil {
		l.Warn("regeneration failed, waiting for the next change", zap.Error(err))
	}
}
