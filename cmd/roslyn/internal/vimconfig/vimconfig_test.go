package vimconfig

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ntovas/roslyn/cmd/roslyn/config"
)

func intPtr(v int) *int                      { return &v }
func stringSlicePtr(v ...string) *[]string   { return &v }
func stringMapPtr(m map[string]string) *map[string]string { return &m }

func TestToConfigDefaults(t *testing.T) {
	defaults := config.Config{
		QuickfixAutoDiagnostics: BoolVal(true),
		HighlightDiagnostics:    BoolVal(true),
	}
	var vc VimConfig
	got := vc.ToConfig(defaults)
	if diff := cmp.Diff(defaults, got); diff != "" {
		t.Fatalf("ToConfig with no overrides mismatch (-want +got):\n%v", diff)
	}
}

func TestToConfigOverrides(t *testing.T) {
	defaults := config.Config{
		QuickfixAutoDiagnostics: BoolVal(true),
		HighlightDiagnostics:    BoolVal(true),
	}
	vc := VimConfig{
		ServerCommand:                          stringSlicePtr("csharp-ls", "--loglevel", "info"),
		QuickfixAutoDiagnostics:                intPtr(0),
		ServerEnv:                              stringMapPtr(map[string]string{"DOTNET_ROOT": "/opt/dotnet"}),
		ExperimentalProgressiveImplementations: &map[string]int{"cs": 1, "vb": 0},
		ExperimentalAutoreadLoadedBuffers:      intPtr(1),
	}
	want := config.Config{
		ServerCommand:                          stringSlicePtr("csharp-ls", "--loglevel", "info"),
		QuickfixAutoDiagnostics:                BoolVal(false),
		HighlightDiagnostics:                   BoolVal(true),
		ServerEnv:                              stringMapPtr(map[string]string{"DOTNET_ROOT": "/opt/dotnet"}),
		ExperimentalProgressiveImplementations: &map[string]bool{"cs": true, "vb": false},
		ExperimentalAutoreadLoadedBuffers:      BoolVal(true),
	}
	got := vc.ToConfig(defaults)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ToConfig mismatch (-want +got):\n%v", diff)
	}
}

func TestToConfigDoesNotAlias(t *testing.T) {
	vc := VimConfig{
		ServerCommand: stringSlicePtr("csharp-ls"),
		ServerEnv:     stringMapPtr(map[string]string{"A": "1"}),
	}
	got := vc.ToConfig(config.Config{})
	(*vc.ServerCommand)[0] = "changed"
	(*vc.ServerEnv)["A"] = "changed"
	if (*got.ServerCommand)[0] != "csharp-ls" {
		t.Errorf("ServerCommand aliases the Vim value")
	}
	if (*got.ServerEnv)["A"] != "1" {
		t.Errorf("ServerEnv aliases the Vim value")
	}
}

func TestEqualBool(t *testing.T) {
	testCases := []struct {
		name string
		i, j *bool
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", BoolVal(true), nil, false},
		{"equal", BoolVal(true), BoolVal(true), true},
		{"unequal", BoolVal(true), BoolVal(false), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EqualBool(tc.i, tc.j); got != tc.want {
				t.Fatalf("EqualBool = %v; want %v", got, tc.want)
			}
		})
	}
}
