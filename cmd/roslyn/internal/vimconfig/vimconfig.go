// Package vimconfig defines the mapping between Vim-specified config and
// plugin config
package vimconfig

import (
	"github.com/ntovas/roslyn/cmd/roslyn/config"
)

// VimConfig mirrors config.Config with VimScript-friendly field types:
// booleans arrive as ints.
type VimConfig struct {
	ServerCommand                          *[]string
	QuickfixAutoDiagnostics                *int
	HighlightDiagnostics                   *int
	ServerEnv                              *map[string]string
	ExperimentalProgressiveImplementations *map[string]int
	ExperimentalAutoreadLoadedBuffers      *int
}

// ToConfig converts c to a config.Config, filling unset fields from the
// defaults d. The result's pointer fields never alias c or d.
func (c *VimConfig) ToConfig(d config.Config) config.Config {
	return config.Config{
		ServerCommand:                          copyStringSlice(c.ServerCommand, d.ServerCommand),
		QuickfixAutoDiagnostics:                boolVal(c.QuickfixAutoDiagnostics, d.QuickfixAutoDiagnostics),
		HighlightDiagnostics:                   boolVal(c.HighlightDiagnostics, d.HighlightDiagnostics),
		ServerEnv:                              copyStringValMap(c.ServerEnv, d.ServerEnv),
		ExperimentalProgressiveImplementations: boolMapVal(c.ExperimentalProgressiveImplementations, d.ExperimentalProgressiveImplementations),
		ExperimentalAutoreadLoadedBuffers:      boolVal(c.ExperimentalAutoreadLoadedBuffers, d.ExperimentalAutoreadLoadedBuffers),
	}
}

func boolVal(i *int, j *bool) *bool {
	if i == nil {
		return j
	}
	b := *i != 0
	return &b
}

func copyStringSlice(i, j *[]string) *[]string {
	toCopy := i
	if i == nil {
		toCopy = j
		if j == nil {
			return nil
		}
	}
	res := append([]string{}, *toCopy...)
	return &res
}

func copyStringValMap(i, j *map[string]string) *map[string]string {
	toCopy := i
	if i == nil {
		toCopy = j
		if j == nil {
			return nil
		}
	}
	res := make(map[string]string)
	for ck, cv := range *toCopy {
		res[ck] = cv
	}
	return &res
}

func boolMapVal(i *map[string]int, j *map[string]bool) *map[string]bool {
	if i == nil {
		if j == nil {
			return nil
		}
		res := make(map[string]bool)
		for ck, cv := range *j {
			res[ck] = cv
		}
		return &res
	}
	res := make(map[string]bool)
	for ck, cv := range *i {
		res[ck] = cv != 0
	}
	return &res
}

func BoolVal(v bool) *bool {
	return &v
}

// EqualBool returns true iff i and j are both nil, or if both are non-nil
// and dereference to the same bool value. Otherwise it returns false.
func EqualBool(i, j *bool) bool {
	if i == nil && j == nil {
		return true
	}
	if i == nil || j == nil {
		return false
	}
	return *i == *j
}
