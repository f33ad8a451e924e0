package types

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

// Point represents a position within a Buffer
type Point struct {
	// buffer is the buffer corresponding to the Point
	buffer *Buffer

	// line is Vim's line number within the buffer, i.e. 1-indexed
	line int

	// col is the Vim representation of column number, i.e. 1-based byte
	// index
	col int

	// offset is the 0-indexed byte offset within the buffer
	offset int

	// utf16Col is the 0-indexed UTF-16 code unit offset within line
	utf16Col int
}

// PointFromVim builds a Point from Vim's 1-indexed line and 1-based byte
// column.
func PointFromVim(b *Buffer, line, col int) (Point, error) {
	starts := b.lineOffsets()
	if line < 1 || line > len(starts) {
		return Point{}, fmt.Errorf("line %v is outside buffer %v", line, b.Num)
	}
	start := starts[line-1]
	off := start + col - 1
	if off > len(b.contents) {
		return Point{}, fmt.Errorf("col %v is outside line %v of buffer %v", col, line, b.Num)
	}
	u16, err := utf16Len(b.contents[start:off])
	if err != nil {
		return Point{}, fmt.Errorf("failed to calculate UTF16 char value in buffer %v: %v", b.Num, err)
	}
	return Point{
		buffer:   b,
		line:     line,
		col:      col,
		offset:   off,
		utf16Col: u16,
	}, nil
}

// PointFromPosition builds a Point from an LSP position, i.e. 0-indexed line
// and UTF-16 character offset.
func PointFromPosition(b *Buffer, pos protocol.Position) (Point, error) {
	starts := b.lineOffsets()
	line := pos.Line + 1
	if line < 1 || line > len(starts) {
		return Point{}, fmt.Errorf("position line %v is outside buffer %v", pos.Line, b.Num)
	}
	start := starts[line-1]
	off := start
	rem := pos.Character
	for rem > 0 && off < len(b.contents) && b.contents[off] != '\n' {
		r, sz := utf8.DecodeRune(b.contents[off:])
		if r == utf8.RuneError && sz == 1 {
			return Point{}, fmt.Errorf("invalid UTF-8 at offset %v in buffer %v", off, b.Num)
		}
		rem -= len(utf16.Encode([]rune{r}))
		off += sz
	}
	return Point{
		buffer:   b,
		line:     line,
		col:      off - start + 1,
		offset:   off,
		utf16Col: pos.Character,
	}, nil
}

// Buffer is the buffer corresponding to the Point
func (p Point) Buffer() *Buffer {
	return p.buffer
}

// Line refers to the 1-indexed line in the buffer. This is how Vim refers to
// line numbers.
func (p Point) Line() int {
	return p.line
}

// Col refers to the byte index (1-based) in Line() in the buffer. This is
// how Vim refers to column positions; it is not the visual column.
func (p Point) Col() int {
	return p.col
}

// Offset represents the byte offset (0-indexed) of p within p.Buffer()
func (p Point) Offset() int {
	return p.offset
}

// ToPosition converts p to a protocol.Position
func (p Point) ToPosition() protocol.Position {
	return protocol.Position{
		Line:      p.line - 1,
		Character: p.utf16Col,
	}
}

func utf16Len(byts []byte) (int, error) {
	var n int
	for len(byts) > 0 {
		r, sz := utf8.DecodeRune(byts)
		if r == utf8.RuneError && sz == 1 {
			return 0, fmt.Errorf("invalid UTF-8")
		}
		n += len(utf16.Encode([]rune{r}))
		byts = byts[sz:]
	}
	return n, nil
}
