package main

import (
	"context"
	"fmt"

	"github.com/ntovas/roslyn"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

// gotoDef handles CommandGoToDef. Unlike the implementations lookup there is
// at most one interesting answer, so the call blocks on the event queue.
func (v *vimstate) gotoDef(flags roslyn.CommandFlags, args ...string) error {
	b, pos, err := v.cursorPos()
	if err != nil {
		return fmt.Errorf("failed to determine cursor position: %v", err)
	}
	svc := v.serviceFor(b.LanguageID())
	if svc == nil || !svc.definitionCapable {
		v.ChannelEx(`echom "GoToDef is not available for this buffer"`)
		return nil
	}
	params := &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: b.ToTextDocumentIdentifier(),
			Position:     pos.ToPosition(),
		},
	}
	locs, err := v.server.Definition(context.Background(), params)
	if err != nil {
		return fmt.Errorf("failed to call server.Definition: %v", err)
	}
	if len(locs) == 0 {
		v.ChannelEx(`echom "No definition exists"`)
		return nil
	}
	from := protocol.Location{
		URI: b.URI(),
		Range: protocol.Range{
			Start: pos.ToPosition(),
			End:   pos.ToPosition(),
		},
	}
	// Roslyn can report several candidates for partial types; the first is
	// the primary declaration.
	return v.navigateTo(flags.Mods, from, locs[0], args...)
}
