package main

import (
	"fmt"
	"path/filepath"

	"github.com/ntovas/roslyn/cmd/roslyn/internal/nav"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

type quickfixEntry struct {
	Filename string `json:"filename"`
	Lnum     int    `json:"lnum"`
	Col      int    `json:"col"`
	Text     string `json:"text"`
}

// acquirePresenter verifies the quickfix presenter is usable in the
// connected Vim. It is the process-wide presentation singleton; failure is
// raised via the driver and recovered by the caller as "feature absent".
func (v *vimstate) acquirePresenter() {
	if v.ParseInt(v.ChannelExpr(`has("quickfix")`)) != 1 {
		v.Errorf("quickfix not supported by this Vim")
	}
}

// presentImplementations loads defs into the quickfix window in the order
// they were reported. An empty defs clears the list and tells the user
// nothing was found.
func (v *vimstate) presentImplementations(title string, defs []nav.Definition) error {
	v.quickfixIsImplementations = true

	// must be non-nil for setqflist
	fixes := []quickfixEntry{}
	for _, d := range defs {
		fn := d.Location.URI.Path()
		if rel, err := filepath.Rel(v.workingDirectory, fn); err == nil {
			fn = rel
		}
		fixes = append(fixes, quickfixEntry{
			Filename: fn,
			Lnum:     d.Location.Range.Start.Line + 1,
			Col:      d.Location.Range.Start.Character + 1,
			Text:     d.Text,
		})
	}
	v.ChannelCall("setqflist", fixes, "r")
	v.ChannelCall("setqflist", []quickfixEntry{}, "r", map[string]interface{}{"title": title})
	if len(fixes) == 0 {
		v.ChannelEx(`echom "No implementations found"`)
		return nil
	}
	v.ChannelEx("copen")
	return nil
}

func (g *roslynplugin) locationsToDefinitions(locs []protocol.Location) []nav.Definition {
	defs := make([]nav.Definition, 0, len(locs))
	for _, loc := range locs {
		fn := loc.URI.Path()
		if rel, err := filepath.Rel(g.vimstate.workingDirectory, fn); err == nil {
			fn = rel
		}
		defs = append(defs, nav.Definition{
			Location: loc,
			Text:     fmt.Sprintf("%v:%v", fn, loc.Range.Start.Line+1),
		})
	}
	return defs
}
