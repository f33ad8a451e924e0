// +build !darwin

package fswatcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/tomb.v2"
)

// fsnotify watches single directories only, so the non-darwin backend
// walks the workspace adding each directory, and adds newly created
// directories as their create events arrive.
type fswatcher struct {
	eventCh chan Event
	mw      *fsnotify.Watcher
	ignore  func(path string) bool
}

func New(dirpath string, ignore func(path string) bool, t *tomb.Tomb) (*FSWatcher, error) {
	mw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create new watcher: %v", err)
	}

	w := &fswatcher{
		eventCh: make(chan Event),
		mw:      mw,
		ignore:  ignore,
	}
	if err := w.watchTree(dirpath); err != nil {
		mw.Close()
		return nil, err
	}

	t.Go(func() error {
		for {
			e, ok := <-mw.Events
			if !ok {
				break
			}
			switch e.Op {
			case fsnotify.Rename, fsnotify.Remove:
				// fsnotify reports a rename as a Rename event followed by a
				// Create event, so a rename is effectively a removal.
				w.eventCh <- Event{e.Name, OpRemoved}
			case fsnotify.Chmod, fsnotify.Write:
				w.eventCh <- Event{e.Name, OpChanged}
			case fsnotify.Create:
				if fi, err := os.Stat(e.Name); err == nil && fi.IsDir() {
					if !w.ignore(e.Name) {
						// Errors here are not fatal; files created in the
						// meantime in a directory we failed to add simply go
						// unreported.
						_ = w.watchTree(e.Name)
					}
					continue
				}
				w.eventCh <- Event{e.Name, OpCreated}
			}
		}
		close(w.eventCh)
		return nil
	})

	return &FSWatcher{w}, nil
}

func (w *fswatcher) watchTree(root string) error {
	return filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !fi.IsDir() {
			return nil
		}
		if path != root && w.ignore(path) {
			return filepath.SkipDir
		}
		return w.mw.Add(path)
	})
}

func (w *fswatcher) Close() error {
	return w.mw.Close()
}

func (w *fswatcher) Events() chan Event {
	return w.eventCh
}

func (w *fswatcher) Errors() chan error {
	return w.mw.Errors
}
