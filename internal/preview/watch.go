package preview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/auto-site/internal/walker"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reporting a change.
const DefaultDebounce = 150 * time.Millisecond

// Watch watches root recursively and calls onChange once per burst of
// writes, creates, removes or renames until ctx is done.
func Watch(ctx context.Context, root string, debounce time.Duration, log *zerolog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := addRecursiveWatch(w, root); err != nil {
		w.Close()
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	go func() {
		defer w.Close()

		var settle <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						addRecursiveWatch(w, event.Name)
					}
				}
				if log != nil {
					log.Debug().Str("path", event.Name).Msg("file changed")
				}
				settle = time.After(debounce)
			case <-settle:
				settle = nil
				onChange()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if log != nil {
					log.Warn().Err(err).Msg("watcher error")
				}
			}
		}
	}()
	return nil
}

func addRecursiveWatch(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		for _, excl := range walker.DefaultExcludes {
			if d.Name() == excl && path != dir {
				return filepath.SkipDir
			}
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
