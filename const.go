package roslyn

import (
	"fmt"
	"strings"
)

// SwitchBufMode typed constants define the set of values that the Vim
// setting switchbuf can take. See :help switchbuf for more details and
// definitions of each value.
type SwitchBufMode string

const (
	SwitchBufUseOpen SwitchBufMode = "useopen"
	SwitchBufUseTag  SwitchBufMode = "usetab"
	SwitchBufSplit   SwitchBufMode = "split"
	SwitchBufVsplit  SwitchBufMode = "vsplit"
	SwitchBufNewTab  SwitchBufMode = "newtab"
)

// ParseSwitchBufModes assumes vs is a valid value for &switchbuf
func ParseSwitchBufModes(vs string) ([]SwitchBufMode, error) {
	var modes []SwitchBufMode
	for _, v := range strings.Split(vs, ",") {
		sm := SwitchBufMode(v)
		switch sm {
		case SwitchBufUseOpen, SwitchBufUseTag, SwitchBufSplit, SwitchBufVsplit, SwitchBufNewTab:
		default:
			return nil, fmt.Errorf("invalid SwitchBufMode %q", sm)
		}
		modes = append(modes, sm)
	}
	return modes, nil
}

// Event is a Vim autocmd event. Only the events used by the plugin are
// declared.
type Event uint

type Events []Event

const (
	EventBufNewFile Event = iota
	EventBufRead
	EventBufWritePost
	EventBufDelete
	EventBufWipeout
	EventTextChanged
	EventTextChangedI
	EventVimLeave
)

func (e Event) String() string {
	switch e {
	case EventBufNewFile:
		return "BufNewFile"
	case EventBufRead:
		return "BufRead"
	case EventBufWritePost:
		return "BufWritePost"
	case EventBufDelete:
		return "BufDelete"
	case EventBufWipeout:
		return "BufWipeout"
	case EventTextChanged:
		return "TextChanged"
	case EventTextChangedI:
		return "TextChangedI"
	case EventVimLeave:
		return "VimLeave"
	}
	return fmt.Sprintf("Event(%d)", uint(e))
}

// Pattern is a Vim autocmd pattern, e.g. *.cs
type Pattern string

type Patterns []Pattern
