// +build darwin

package fswatcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsevents"
	"gopkg.in/tomb.v2"
)

const fRemoved = fsevents.ItemRemoved | fsevents.ItemRenamed
const fChanged = fsevents.ItemModified | fsevents.ItemChangeOwner
const fCreated = fsevents.ItemCreated

// fsevents watches the directory tree recursively, so the darwin backend
// only needs to filter the events it is handed.
type fswatcher struct {
	eventCh chan Event
	es      *fsevents.EventStream
}

func New(dirpath string, ignore func(path string) bool, t *tomb.Tomb) (*FSWatcher, error) {
	dev, err := fsevents.DeviceForPath(dirpath)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve device for path %v: %v", dirpath, err)
	}

	es := &fsevents.EventStream{
		Paths:   []string{dirpath},
		Latency: 200 * time.Millisecond,
		Device:  dev,
		Flags:   fsevents.FileEvents | fsevents.WatchRoot,
	}

	es.Start()

	// fsevents returns paths relative to the device root so we need to
	// figure out the actual mount point.
	mountPoint, err := filepath.Abs(dirpath)
	if err != nil {
		return nil, err
	}
	for mountPoint != string(os.PathSeparator) {
		parent := filepath.Dir(mountPoint)
		pDev, err := fsevents.DeviceForPath(parent)
		if err != nil {
			return nil, err
		}
		if pDev != dev {
			break
		}
		mountPoint = parent
	}

	eventCh := make(chan Event)
	t.Go(func() error {
		for {
			events, ok := <-es.Events
			if !ok {
				break
			}
			for i := range events {
				event := events[i]
				path := filepath.Join(mountPoint, event.Path)
				if ignore(filepath.Dir(path)) {
					continue
				}

				// Darwin can set both "created" and "changed" flags on the
				// same event so the ordering below matters; removal is
				// checked first, then creation.
				switch {
				case event.Flags&fRemoved > 0:
					eventCh <- Event{path, OpRemoved}
				case event.Flags&fCreated > 0:
					eventCh <- Event{path, OpCreated}
				case event.Flags&fChanged > 0:
					eventCh <- Event{path, OpChanged}
				}
			}
		}
		close(eventCh)
		return nil
	})

	return &FSWatcher{&fswatcher{eventCh, es}}, nil
}

func (w *fswatcher) Close() error {
	w.es.Stop()
	return nil
}

func (w *fswatcher) Events() chan Event { return w.eventCh }
func (w *fswatcher) Errors() chan error { return make(chan error) }
