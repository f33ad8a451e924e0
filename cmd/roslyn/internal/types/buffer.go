package types

import (
	"bytes"
	"fmt"

	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

// A Buffer is the plugin's representation of the current state of a buffer
// in Vim, i.e. it is versioned.
type Buffer struct {
	Num      int
	Name     string
	contents []byte
	Version  int

	// Listener is the ID of the listener for the buffer. Listeners number
	// from 1 so the zero value indicates this buffer does not have a
	// listener.
	Listener int

	// Loaded reflects vim's "loaded" buffer state. See :help bufloaded()
	// for details.
	Loaded bool

	// lineStarts is lazily computed whenever position information is
	// required; it holds the byte offset of the start of each line.
	lineStarts []int
}

func NewBuffer(num int, name string, contents []byte, loaded bool) *Buffer {
	return &Buffer{
		Num:      num,
		Name:     name,
		contents: contents,
		Loaded:   loaded,
	}
}

// Contents returns a Buffer's contents. These contents must not be mutated.
// To update a Buffer's contents, call SetContents
func (b *Buffer) Contents() []byte {
	return b.contents
}

// SetContents updates a Buffer's contents to byts
func (b *Buffer) SetContents(byts []byte) {
	b.contents = byts
	b.lineStarts = nil
}

// URI returns b's Name as a protocol.DocumentURI, assuming it is a file.
func (b *Buffer) URI() protocol.DocumentURI {
	return protocol.URIFromPath(b.Name)
}

// ToTextDocumentIdentifier converts b to a protocol.TextDocumentIdentifier
func (b *Buffer) ToTextDocumentIdentifier() protocol.TextDocumentIdentifier {
	return protocol.TextDocumentIdentifier{
		URI: b.URI(),
	}
}

// LanguageID returns the LSP language identifier for b based on its file
// extension.
func (b *Buffer) LanguageID() string {
	switch {
	case bytes.HasSuffix([]byte(b.Name), []byte(".cs")):
		return "cs"
	case bytes.HasSuffix([]byte(b.Name), []byte(".vb")):
		return "vb"
	}
	return ""
}

// Line returns the 1-indexed line contents of b, without the trailing
// newline.
func (b *Buffer) Line(n int) (string, error) {
	starts := b.lineOffsets()
	if n < 1 || n > len(starts) {
		return "", fmt.Errorf("line %v is beyond the end of the buffer (no. of lines %v)", n, len(starts))
	}
	start := starts[n-1]
	end := len(b.contents)
	if n < len(starts) {
		end = starts[n] - 1
	}
	return string(b.contents[start:end]), nil
}

// lineOffsets returns the byte offsets of each line start in b. A buffer
// always has at least one line.
func (b *Buffer) lineOffsets() []int {
	if b.lineStarts == nil {
		b.lineStarts = []int{0}
		for i, c := range b.contents {
			if c == '\n' && i+1 < len(b.contents) {
				b.lineStarts = append(b.lineStarts, i+1)
			}
		}
	}
	return b.lineStarts
}
