package lint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/flindersuni/xamlstyle/pkg/log"
	"github.com/flindersuni/xamlstyle/pkg/project"
)

// DefaultDebounce is how long [Linter.Watch] waits for changes to settle.
const DefaultDebounce = 200 * time.Millisecond

// WithDebounce sets how long [Linter.Watch] waits after a change before
// running again.
func WithDebounce(d time.Duration) Opt {
	return func(l *Linter) {
		l.debounce = d
	}
}

// Watch runs the linter once, then again whenever a workflow or the manifest
// changes, until ctx is done. Each outcome is passed to fn; failed runs do not
// stop the watch.
func (l *Linter) Watch(ctx context.Context, fn func(*Report, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}

	defer func() {
		err := watcher.Close()
		if err != nil {
			log.WithContext(ctx).ErrorContext(ctx, "close watcher", slog.Any("error", err))
		}
	}()

	count, err := l.watchDirs(watcher, l.root)
	if err != nil {
		return err
	}

	log.WithContext(ctx).DebugContext(ctx, "added file watchers",
		slog.String("path", l.root),
		slog.Int("count", count),
	)

	fn(l.Run(ctx))

	debounce := l.debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !l.handleEvent(ctx, watcher, evt) {
				continue
			}

			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			fn(nil, fmt.Errorf("watch: %w", err))

		case <-timer.C:
			fn(l.Run(ctx))
		}
	}
}

// handleEvent reports whether evt should trigger a run. New directories are
// added to the watcher.
func (l *Linter) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, evt fsnotify.Event) bool {
	logger := log.WithContext(ctx)

	// Ignore events that are not related to content changes.
	if evt.Has(fsnotify.Chmod) {
		return false
	}

	// A new directory may have been moved in with workflows already in it.
	if evt.Has(fsnotify.Create) && isDir(evt.Name) {
		if hidden(l.root, evt.Name) {
			return false
		}

		_, err := l.watchDirs(watcher, evt.Name)
		if err != nil {
			logger.ErrorContext(ctx, "add path to watcher",
				slog.String("path", evt.Name),
				slog.Any("error", err),
			)
		}

		return true
	}

	if evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
		err := watcher.Remove(evt.Name)
		if err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			logger.DebugContext(ctx, "remove path from watcher",
				slog.String("path", evt.Name),
				slog.Any("error", err),
			)
		}
	}

	name := filepath.Base(evt.Name)
	if name == project.FileName && filepath.Dir(evt.Name) == l.root {
		return true
	}

	return IsWorkflow(name) && !hidden(l.root, evt.Name)
}

// watchDirs adds dir and every non-hidden directory below it to watcher. It
// returns zero when dir is not a directory.
func (l *Linter) watchDirs(watcher *fsnotify.Watcher, dir string) (int, error) {
	if !isDir(dir) || hidden(l.root, dir) {
		return 0, nil
	}

	count := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		err = watcher.Add(path)
		if err != nil {
			return fmt.Errorf("add path to watcher: %w", err)
		}

		count++

		return nil
	})
	if err != nil {
		return count, fmt.Errorf("walk %q: %w", dir, err)
	}

	return count, nil
}

// hidden reports whether path is below a hidden directory of root, or is one.
func hidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}

	for part := range strings.SplitSeq(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}

	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
