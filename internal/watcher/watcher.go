// Package watcher provides a debounced file watcher used to reload the
// settings file while the service is running.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// debounceWindow collapses editor write bursts into one reload.
const debounceWindow = 250 * time.Millisecond

// Watcher watches a single file and invokes a callback after changes.
type Watcher struct {
	path     string
	onChange func()
	log      zerolog.Logger
	fsw      *fsnotify.Watcher
}

// New creates a watcher for the given file path. onChange runs after every
// debounced write/create/remove event touching the file.
func New(path string, onChange func(), log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the parent directory: editors replace files by rename, which
	// drops a watch registered on the file itself.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		path:     path,
		onChange: onChange,
		log:      log.With().Str("component", "watcher").Str("path", path).Logger(),
		fsw:      fsw,
	}, nil
}

// Run processes events until the context is cancelled. Call in a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")

		case <-fire:
			w.log.Debug().Msg("file changed, invoking reload")
			w.onChange()
		}
	}
}
