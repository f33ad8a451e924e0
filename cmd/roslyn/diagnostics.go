package main

import (
	"path/filepath"
	"sort"

	"github.com/ntovas/roslyn"
	"github.com/ntovas/roslyn/cmd/roslyn/config"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/types"
)

// handleDiagnostics is called on the event queue for each
// textDocument/publishDiagnostics notification. The server publishes the full
// set for a document every time, so the previous set is simply replaced.
func (v *vimstate) handleDiagnostics(params *protocol.PublishDiagnosticsParams) error {
	if len(params.Diagnostics) == 0 {
		delete(v.diagnostics, params.URI)
	} else {
		v.diagnostics[params.URI] = params.Diagnostics
	}
	if err := v.updateQuickfixWithDiagnostics(false); err != nil {
		return err
	}
	return v.redefineHighlights(params.URI)
}

func (v *vimstate) quickfixDiagnostics(flags roslyn.CommandFlags, args ...string) error {
	v.quickfixIsImplementations = false
	return v.updateQuickfixWithDiagnostics(true)
}

// updateQuickfixWithDiagnostics populates the quickfix window with the
// current diagnostics. Unless forced it is a no-op when auto-population is
// disabled or the quickfix window is showing implementation results.
func (v *vimstate) updateQuickfixWithDiagnostics(force bool) error {
	if !force {
		if v.config.QuickfixAutoDiagnostics == nil || !*v.config.QuickfixAutoDiagnostics {
			return nil
		}
		if v.quickfixIsImplementations {
			return nil
		}
	}

	// must be non-nil for setqflist
	fixes := []quickfixEntry{}
	for uri, diags := range v.diagnostics {
		fn := uri.Path()
		if rel, err := filepath.Rel(v.workingDirectory, fn); err == nil {
			fn = rel
		}
		for _, d := range diags {
			fixes = append(fixes, quickfixEntry{
				Filename: fn,
				Lnum:     d.Range.Start.Line + 1,
				Col:      d.Range.Start.Character + 1,
				Text:     d.Message,
			})
		}
	}
	sort.Slice(fixes, func(i, j int) bool {
		lhs, rhs := fixes[i], fixes[j]
		if lhs.Filename != rhs.Filename {
			return lhs.Filename < rhs.Filename
		}
		if lhs.Lnum != rhs.Lnum {
			return lhs.Lnum < rhs.Lnum
		}
		return lhs.Col < rhs.Col
	})

	v.ChannelCall("setqflist", fixes, "r")
	v.ChannelCall("setqflist", []quickfixEntry{}, "r", map[string]interface{}{"title": "Diagnostics"})
	return nil
}

// propHighlight maps a diagnostic severity to the text property type defined
// by defineHighlights. A missing severity is treated as an error, per the
// protocol's recommendation to the client.
func propHighlight(s protocol.DiagnosticSeverity) config.Highlight {
	switch s {
	case protocol.SeverityWarning:
		return config.HighlightWarn
	case protocol.SeverityInformation:
		return config.HighlightInfo
	case protocol.SeverityHint:
		return config.HighlightHint
	default:
		return config.HighlightErr
	}
}

// defineHighlights declares the default highlight groups and their text
// property types. The groups are declared with "default" so a vimrc override
// wins.
func (v *vimstate) defineHighlights() {
	links := map[config.Highlight]string{
		config.HighlightErr:  "Error",
		config.HighlightWarn: "WarningMsg",
		config.HighlightInfo: "Normal",
		config.HighlightHint: "Normal",
	}
	for h, link := range links {
		v.ChannelExf("highlight default link %v %v", h, link)
		v.ChannelExf(`if empty(prop_type_get('%[1]v')) | call prop_type_add('%[1]v', {'highlight': '%[1]v', 'combine': 1}) | endif`, h)
	}
}

// redefineHighlights replaces the diagnostic text properties in the buffer
// backing uri, if that buffer is loaded.
func (v *vimstate) redefineHighlights(uri protocol.DocumentURI) error {
	if v.config.HighlightDiagnostics == nil || !*v.config.HighlightDiagnostics {
		return nil
	}
	var b *types.Buffer
	for _, cand := range v.buffers {
		if cand.URI() == uri {
			b = cand
			break
		}
	}
	if b == nil {
		return nil
	}

	for _, h := range []config.Highlight{config.HighlightErr, config.HighlightWarn, config.HighlightInfo, config.HighlightHint} {
		v.ChannelCall("prop_remove", struct {
			Type  string `json:"type"`
			BufNr int    `json:"bufnr"`
			All   int    `json:"all"`
		}{string(h), b.Num, 1})
	}

	for _, d := range v.diagnostics[uri] {
		start, err := types.PointFromPosition(b, d.Range.Start)
		if err != nil {
			v.Logf("failed to resolve diagnostic start point in %v: %v", uri, err)
			continue
		}
		end, err := types.PointFromPosition(b, d.Range.End)
		if err != nil {
			v.Logf("failed to resolve diagnostic end point in %v: %v", uri, err)
			continue
		}
		v.ChannelCall("prop_add", start.Line(), start.Col(), struct {
			Type    string `json:"type"`
			EndLnum int    `json:"end_lnum"`
			EndCol  int    `json:"end_col"`
			BufNr   int    `json:"bufnr"`
		}{string(propHighlight(d.Severity)), end.Line(), end.Col(), b.Num})
	}
	return nil
}
