package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ntovas/roslyn"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/fswatcher"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

// workspaceWatcher relays filesystem events under the workspace root to the
// language server so it sees edits made outside of Vim, e.g. a git checkout
// or a dotnet restore rewriting project files.
type workspaceWatcher struct {
	// We hold the plugin rather than *vimstate because the relay goroutine
	// runs outside the Vim event queue; all Vim work is enqueued.
	*roslynplugin

	watcher *fswatcher.FSWatcher

	// root is the directory root of the watch
	root string
}

func (g *roslynplugin) startWatcher(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("could not resolve watch root %v: %v", dir, err)
	}

	w, err := fswatcher.New(dir, ignoreDir, g.tomb)
	if err != nil {
		return err
	}

	g.watcher = &workspaceWatcher{
		roslynplugin: g,
		watcher:      w,
		root:         dir,
	}

	go g.watcher.watch()
	return nil
}

func (w *workspaceWatcher) close() error { return w.watcher.Close() }

func (w *workspaceWatcher) watch() {
	eventCh := w.watcher.Events()
	errCh := w.watcher.Errors()

	for {
		select {
		case event, ok := <-eventCh:
			if !ok {
				// watcher has been stopped
				return
			}

			if !ofInterest(event.Path) {
				continue
			}

			w.Enqueue(func(roslyn.Vim) error {
				return w.vimstate.handleWatchEvent(event)
			})

		case err, ok := <-errCh:
			if !ok {
				return
			}
			w.Logf("***** file watcher error: %v", err)
		}
	}
}

// ignoreDir reports whether the directory at path should be excluded from the
// watch. Build output and VCS metadata churn constantly and the server does
// not want to hear about them.
func ignoreDir(path string) bool {
	base := filepath.Base(filepath.Clean(path))
	if strings.HasPrefix(base, ".") {
		return true
	}
	switch base {
	case "bin", "obj", "node_modules":
		return true
	}
	return false
}

// ofInterest reports whether a change to path is worth relaying: source files
// and the project/solution files that define the workspace shape.
func ofInterest(path string) bool {
	switch filepath.Ext(path) {
	case ".cs", ".vb", ".csproj", ".vbproj", ".sln", ".props", ".targets":
		return true
	}
	return false
}

func (v *vimstate) handleWatchEvent(event fswatcher.Event) error {
	var changeType protocol.FileChangeType
	switch event.Op {
	case fswatcher.OpRemoved:
		changeType = protocol.Deleted
	case fswatcher.OpCreated:
		changeType = protocol.Created
	case fswatcher.OpChanged:
		changeType = protocol.Changed
	default:
		panic(fmt.Errorf("unknown fswatcher event type: %v", event))
	}

	v.autoreadBuffer(event.Path)

	params := &protocol.DidChangeWatchedFilesParams{
		Changes: []protocol.FileEvent{
			{URI: protocol.URIFromPath(event.Path), Type: changeType},
		},
	}
	if err := v.server.DidChangeWatchedFiles(context.Background(), params); err != nil {
		// a filesystem event has no caller to report to, so log and move on
		v.Logf("failed to call server.DidChangeWatchedFiles: %v", err)
	}
	return nil
}

// autoreadBuffer triggers a checktime for any loaded buffer backed by path so
// Vim picks up on-disk changes without waiting for focus events.
func (v *vimstate) autoreadBuffer(path string) {
	if v.config.ExperimentalAutoreadLoadedBuffers == nil || !*v.config.ExperimentalAutoreadLoadedBuffers {
		return
	}

	for _, b := range v.buffers {
		if b.URI().Path() == path {
			v.ChannelEx(fmt.Sprintf("checktime %d", b.Num))
		}
	}
}
