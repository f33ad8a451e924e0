package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/types"
)

// exprAutocmdCurrBufInfo is the expression evaluated by Vim and passed to
// buffer autocmd handlers; it snapshots the triggering buffer.
const exprAutocmdCurrBufInfo = `{"num": eval(expand('<abuf>')), "name": fnamemodify(bufname(eval(expand('<abuf>'))), ':p'), "contents": join(getbufline(eval(expand('<abuf>')), 0, "$"), "\n")."\n"}`

// bufInfo is the decoded form of exprAutocmdCurrBufInfo.
type bufInfo struct {
	Num      int    `json:"num"`
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

func (v *vimstate) parseBufInfo(arg json.RawMessage) bufInfo {
	var info bufInfo
	v.Parse(arg, &info)
	return info
}

// bufReadPost tracks a newly read buffer and relays didOpen.
func (v *vimstate) bufReadPost(args ...json.RawMessage) error {
	info := v.parseBufInfo(args[0])
	if b, ok := v.buffers[info.Num]; ok {
		// reload of an already tracked buffer
		b.SetContents([]byte(info.Contents))
		b.Version++
		return v.relayDidChange(b)
	}
	b := types.NewBuffer(info.Num, info.Name, []byte(info.Contents), true)
	b.Version = 1
	v.buffers[info.Num] = b
	return v.relayDidOpen(b)
}

// bufTextChanged relays a full-text didChange for the edited buffer.
func (v *vimstate) bufTextChanged(args ...json.RawMessage) error {
	info := v.parseBufInfo(args[0])
	b, ok := v.buffers[info.Num]
	if !ok {
		// a change event can arrive before the read event for very fast
		// edits on load
		return v.bufReadPost(args...)
	}
	b.SetContents([]byte(info.Contents))
	b.Version++
	return v.relayDidChange(b)
}

// bufDelete stops tracking the buffer and relays didClose.
func (v *vimstate) bufDelete(args ...json.RawMessage) error {
	bufnr := v.ParseInt(args[0])
	b, ok := v.buffers[bufnr]
	if !ok {
		return nil
	}
	delete(v.buffers, bufnr)
	return v.server.DidClose(context.Background(), &protocol.DidCloseTextDocumentParams{
		TextDocument: b.ToTextDocumentIdentifier(),
	})
}

func (v *vimstate) relayDidOpen(b *types.Buffer) error {
	return v.server.DidOpen(context.Background(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        b.URI(),
			LanguageID: b.LanguageID(),
			Version:    b.Version,
			Text:       string(b.Contents()),
		},
	})
}

func (v *vimstate) relayDidChange(b *types.Buffer) error {
	return v.server.DidChange(context.Background(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: b.ToTextDocumentIdentifier(),
			Version:                b.Version,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{
			{Text: string(b.Contents())},
		},
	})
}

// getLoadedBuffer returns the tracked buffer for bufnr, snapshotting it on
// demand if we have not seen it yet (e.g. a navigation target opened via
// :edit before its autocmd has run).
func (v *vimstate) getLoadedBuffer(bufnr int) (*types.Buffer, error) {
	if b, ok := v.buffers[bufnr]; ok {
		return b, nil
	}
	expr := fmt.Sprintf(`{"num": %[1]v, "name": fnamemodify(bufname(%[1]v), ':p'), "contents": join(getbufline(%[1]v, 0, "$"), "\n")."\n"}`, bufnr)
	info := v.parseBufInfo(v.ChannelExpr(expr))
	if info.Name == "" {
		return nil, fmt.Errorf("buffer %v does not exist", bufnr)
	}
	b := types.NewBuffer(info.Num, info.Name, []byte(info.Contents), true)
	b.Version = 1
	v.buffers[info.Num] = b
	if b.LanguageID() != "" {
		if err := v.relayDidOpen(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}
