package roslyn

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCommandFlagsUnmarshal(t *testing.T) {
	in := `{"line1": 3, "line2": 7, "range": 2, "count": 1, "bang": "!", "reg": "a", "mods": "vertical botright"}`
	var got CommandFlags
	if err := json.Unmarshal([]byte(in), &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line1, line2, rnge, count := 3, 7, 2, 1
	bang := true
	reg := "a"
	want := CommandFlags{
		Line1: &line1,
		Line2: &line2,
		Range: &rnge,
		Count: &count,
		Bang:  &bang,
		Reg:   &reg,
		Mods:  CommModList{CommModVertical, CommModBotRight},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("CommandFlags mismatch (-want +got):\n%v", diff)
	}
}

func TestCommandFlagsUnmarshalNoBang(t *testing.T) {
	var got CommandFlags
	if err := json.Unmarshal([]byte(`{"mods": ""}`), &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Bang != nil {
		t.Fatalf("expected nil Bang, got %v", *got.Bang)
	}
	if len(got.Mods) != 0 {
		t.Fatalf("expected no mods, got %v", got.Mods)
	}
}

func TestCommandFlagsUnmarshalBadMod(t *testing.T) {
	var got CommandFlags
	if err := json.Unmarshal([]byte(`{"mods": "sideways"}`), &got); err == nil {
		t.Fatalf("expected error for unknown mod")
	}
}

func TestParseSwitchBufModes(t *testing.T) {
	got, err := ParseSwitchBufModes("useopen,vsplit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []SwitchBufMode{SwitchBufUseOpen, SwitchBufVsplit}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseSwitchBufModes mismatch (-want +got):\n%v", diff)
	}

	if _, err := ParseSwitchBufModes("useopen,bogus"); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}
