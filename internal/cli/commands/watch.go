package commands

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leapcheck/internal/source"
)

// watchDebounce collapses bursts of file events into one re-run.
const watchDebounce = 100 * time.Millisecond

// watchValidation calls rerun after changes to the input or schema until
// ctx is cancelled.
func watchValidation(ctx context.Context, cmdCtx *CommandContext, opts *ValidateOptions, schemaPath string, rerun func()) error {
	if source.IsRemote(opts.Input) {
		cmdCtx.Renderer.Warning("--watch is ignored for object storage inputs")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	targets := newWatchTargets()
	for _, p := range []string{opts.Input, schemaPath} {
		if err := targets.add(watcher, p); err != nil {
			cmdCtx.Logger.Error("failed to watch path", slog.String("path", p), slog.Any("error", err))
		}
	}

	cmdCtx.Renderer.Info("Watching %s for changes (Ctrl+C to stop)", opts.Input)

	// Debounce timer
	var debounceTimer *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			if isCancelled(ctx.Err()) {
				return nil
			}
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !targets.matches(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchDirRecursive(watcher, event.Name)
				}
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				cmdCtx.Logger.Debug("file changed", slog.String("file", name))
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			rerun()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Error("watcher error", slog.Any("error", err))
		}
	}
}

// watchTargets tracks watched files and directories. Files are watched
// through their parent directory so editors that replace files on save
// keep triggering events.
type watchTargets struct {
	files map[string]bool
	dirs  []string
}

func newWatchTargets() *watchTargets {
	return &watchTargets{files: map[string]bool{}}
}

func (w *watchTargets) add(watcher *fsnotify.Watcher, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err == nil && info.IsDir() {
		w.dirs = append(w.dirs, abs)
		return watchDirRecursive(watcher, abs)
	}
	w.files[abs] = true
	return watcher.Add(filepath.Dir(abs))
}

func (w *watchTargets) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if w.files[abs] {
		return true
	}
	for _, d := range w.dirs {
		if strings.HasPrefix(abs, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
