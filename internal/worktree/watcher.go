package worktree

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchedNames are the repository metadata files whose change means the
// snapshot is stale: branch switches, index updates and merge state.
var watchedNames = map[string]struct{}{
	"HEAD":       {},
	"index":      {},
	"MERGE_HEAD": {},
	"ORIG_HEAD":  {},
}

// Watcher reports repository metadata changes as refresh requests.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan struct{}
	done   chan struct{}
}

// Watch observes the repository's .git directory. Callers drain Events
// and feed each signal into State.Refresh, which coalesces bursts.
func Watch(gitDir string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(gitDir); err != nil {
		fs.Close()
		return nil, err
	}

	w := &Watcher{
		fs:     fs,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Events signals once per relevant metadata change. The channel has a
// one-slot buffer; signals arriving while one is pending merge into it.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

// loop owns the events channel and closes it on exit so drained
// listeners unblock after Close.
func (w *Watcher) loop() {
	defer close(w.events)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if _, watched := watchedNames[filepath.Base(ev.Name)]; !watched {
				continue
			}
			select {
			case w.events <- struct{}{}:
			default:
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Watch errors are not fatal; manual refresh still works.
		case <-w.done:
			return
		}
	}
}
