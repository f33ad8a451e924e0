package main

import (
	"encoding/json"
	"sync"

	"github.com/ntovas/roslyn/cmd/roslyn/config"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/types"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/vimconfig"
	"github.com/ntovas/roslyn/internal/plugin"
)

// vimstate is the Vim-facing state of the plugin. It is only safe to read
// and write its fields in the callback for a defined function, command or
// autocommand, i.e. on the event queue.
type vimstate struct {
	plugin.Driver
	*roslynplugin

	// buffers represents the current state of all tracked buffers in Vim,
	// keyed by buffer number.
	buffers map[int]*types.Buffer

	// diagnostics is the latest full diagnostic set published by the server,
	// keyed by document URI. Documents with no diagnostics are absent.
	diagnostics map[protocol.DocumentURI][]protocol.Diagnostic

	// jumpStack is akin to the Vim concept of a tagstack; it records the
	// locations we navigated away from.
	jumpStack    []protocol.Location
	jumpStackPos int

	defaultConfig config.Config
	config        config.Config
	configLock    sync.Mutex

	// quickfixIsImplementations tracks whether the quickfix window currently
	// holds implementation results rather than diagnostics; whilst true,
	// diagnostics do not overwrite it.
	quickfixIsImplementations bool

	// working directory (when the plugin was started)
	workingDirectory string
}

func (v *vimstate) setConfig(args ...json.RawMessage) (interface{}, error) {
	var vc vimconfig.VimConfig
	v.Parse(args[0], &vc)
	v.configLock.Lock()
	v.config = vc.ToConfig(v.defaultConfig)
	v.configLock.Unlock()
	return nil, nil
}

// configSnapshot returns the current config. Safe to call off the event
// queue; the config value itself is treated as immutable once set.
func (v *vimstate) configSnapshot() config.Config {
	v.configLock.Lock()
	defer v.configLock.Unlock()
	return v.config
}

// progressiveEnabled reports whether the streaming lookup toggle is set for
// languageID. Read fresh per request.
func (v *vimstate) progressiveEnabled(languageID string) bool {
	conf := v.configSnapshot()
	if conf.ExperimentalProgressiveImplementations == nil {
		return false
	}
	return (*conf.ExperimentalProgressiveImplementations)[languageID]
}

// popupSelection is the callback for every popup the plugin creates; a
// selection of 0 or -1 means the popup was closed.
func (v *vimstate) popupSelection(args ...json.RawMessage) (interface{}, error) {
	var popupID int
	var selection int
	v.Parse(args[0], &popupID)
	v.Parse(args[1], &selection)

	v.waitPopupsLock.Lock()
	p, ok := v.waitPopups[popupID]
	delete(v.waitPopups, popupID)
	v.waitPopupsLock.Unlock()
	if ok {
		p.dismissed()
	}
	return nil, nil
}
