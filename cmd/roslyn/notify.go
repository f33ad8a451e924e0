package main

import (
	"github.com/ntovas/roslyn/cmd/roslyn/config"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
)

// showMessagePopup shows msg via popup_notification, styled according to
// severity.
func (v *vimstate) showMessagePopup(typ protocol.MessageType, msg string) error {
	var hl config.Highlight
	switch typ {
	case protocol.Error:
		hl = config.HighlightErr
	case protocol.Warning:
		hl = config.HighlightWarn
	default:
		hl = config.HighlightInfo
	}
	opts := map[string]interface{}{
		"pos":       "topright",
		"line":      1,
		"col":       v.ParseInt(v.ChannelCall("winwidth", 0)),
		"padding":   []int{0, 1, 0, 1},
		"highlight": string(hl),
		"mapping":   0,
	}
	v.ChannelCall("popup_notification", msg, opts)
	return nil
}
