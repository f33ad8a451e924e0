package types

import (
	"strings"
	"testing"

	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

const pointTestContents = `class Widget
{
    // héllo wörld 😀
    void Run() {}
}
`

func newTestBuffer(t *testing.T) *Buffer {
	t.Helper()
	return NewBuffer(1, "/tmp/widget.cs", []byte(pointTestContents), true)
}

func TestPointFromVim(t *testing.T) {
	b := newTestBuffer(t)

	testCases := []struct {
		name     string
		line     int
		col      int
		wantPos  protocol.Position
		wantsErr bool
	}{
		{name: "start of buffer", line: 1, col: 1, wantPos: protocol.Position{Line: 0, Character: 0}},
		{name: "ascii line", line: 4, col: 10, wantPos: protocol.Position{Line: 3, Character: 9}},
		// "é" and "ö" are each 2 bytes but 1 UTF-16 code unit, so after
		// "    // héllo wö" the byte column is 18 and the UTF-16 offset 15.
		{name: "multi byte runes", line: 3, col: 18, wantPos: protocol.Position{Line: 2, Character: 15}},
		{name: "line before start", line: 0, col: 1, wantsErr: true},
		{name: "line beyond end", line: 99, col: 1, wantsErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := PointFromVim(b, tc.line, tc.col)
			if tc.wantsErr {
				if err == nil {
					t.Fatalf("expected error, got point %v", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := p.ToPosition(); got != tc.wantPos {
				t.Fatalf("ToPosition() = %v; want %v", got, tc.wantPos)
			}
			if p.Line() != tc.line || p.Col() != tc.col {
				t.Fatalf("got %v:%v; want %v:%v", p.Line(), p.Col(), tc.line, tc.col)
			}
		})
	}
}

func TestPointFromPosition(t *testing.T) {
	b := newTestBuffer(t)

	testCases := []struct {
		name    string
		pos     protocol.Position
		wantCol int
	}{
		{name: "start of line", pos: protocol.Position{Line: 3, Character: 0}, wantCol: 1},
		{name: "ascii offset", pos: protocol.Position{Line: 3, Character: 9}, wantCol: 10},
		{name: "multi byte runes", pos: protocol.Position{Line: 2, Character: 15}, wantCol: 18},
		// the emoji is a surrogate pair: 2 UTF-16 code units, 4 bytes, so one
		// past it the UTF-16 offset is 21 and the byte column 26.
		{name: "surrogate pair", pos: protocol.Position{Line: 2, Character: 21}, wantCol: 26},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := PointFromPosition(b, tc.pos)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Col() != tc.wantCol {
				t.Fatalf("Col() = %v; want %v", p.Col(), tc.wantCol)
			}
			if got := p.ToPosition(); got != tc.pos {
				t.Fatalf("ToPosition() = %v; want %v", got, tc.pos)
			}
		})
	}

	if _, err := PointFromPosition(b, protocol.Position{Line: 99, Character: 0}); err == nil {
		t.Fatalf("expected error for line beyond end of buffer")
	}
}

func TestPointRoundTrip(t *testing.T) {
	b := newTestBuffer(t)
	for line := 1; line <= strings.Count(pointTestContents, "\n"); line++ {
		p, err := PointFromVim(b, line, 1)
		if err != nil {
			t.Fatalf("PointFromVim(%v, 1): %v", line, err)
		}
		q, err := PointFromPosition(b, p.ToPosition())
		if err != nil {
			t.Fatalf("PointFromPosition(%v): %v", p.ToPosition(), err)
		}
		if q.Line() != p.Line() || q.Col() != p.Col() || q.Offset() != p.Offset() {
			t.Fatalf("round trip of line %v start mismatch: %v:%v vs %v:%v", line, p.Line(), p.Col(), q.Line(), q.Col())
		}
	}
}

func TestBufferLine(t *testing.T) {
	b := newTestBuffer(t)
	got, err := b.Line(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "{"; got != want {
		t.Fatalf("Line(2) = %q; want %q", got, want)
	}
	if _, err := b.Line(0); err == nil {
		t.Fatalf("expected error for line 0")
	}
}

func TestBufferLanguageID(t *testing.T) {
	testCases := []struct {
		name string
		want string
	}{
		{"/tmp/widget.cs", "cs"},
		{"/tmp/Module1.vb", "vb"},
		{"/tmp/notes.txt", ""},
	}
	for _, tc := range testCases {
		b := NewBuffer(1, tc.name, nil, true)
		if got := b.LanguageID(); got != tc.want {
			t.Errorf("LanguageID(%v) = %q; want %q", tc.name, got, tc.want)
		}
	}
}
