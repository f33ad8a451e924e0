package main

import (
	"fmt"
	"strings"

	"github.com/ntovas/roslyn"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/protocol"
	"github.com/ntovas/roslyn/cmd/roslyn/internal/types"
)

// navigateTo pushes from onto the jump stack and jumps to loc.
func (v *vimstate) navigateTo(mods roslyn.CommModList, from, loc protocol.Location, args ...string) error {
	v.jumpStack = append(v.jumpStack[:v.jumpStackPos], from)
	v.jumpStackPos++
	return v.loadLocation(mods, loc, args...)
}

func (v *vimstate) gotoPrevLocation(flags roslyn.CommandFlags, args ...string) error {
	if v.jumpStackPos == 0 {
		v.ChannelEx(`echom "Already at top of stack"`)
		return nil
	}
	v.jumpStackPos -= *flags.Count
	if v.jumpStackPos < 0 {
		v.jumpStackPos = 0
	}
	loc := v.jumpStack[v.jumpStackPos]

	return v.loadLocation(flags.Mods, loc, args...)
}

// loadLocation loads loc, respecting &switchbuf (or an explicit mode passed
// as the sole argument).
func (v *vimstate) loadLocation(mods roslyn.CommModList, loc protocol.Location, args ...string) error {
	// We expect at most one argument that is a string value appropriate for
	// &switchbuf. This will need parsing if supplied
	var modesStr string
	if len(args) == 1 {
		modesStr = args[0]
	} else {
		modesStr = v.ParseString(v.ChannelExpr("&switchbuf"))
	}
	var modes []roslyn.SwitchBufMode
	if modesStr != "" {
		pmodes, err := roslyn.ParseSwitchBufModes(modesStr)
		if err != nil {
			source := "from Vim setting &switchbuf"
			if len(args) == 1 {
				source = "as command argument"
			}
			return fmt.Errorf("got invalid SwitchBufMode setting %v: %q", source, modesStr)
		}
		modes = pmodes
	} else {
		modes = []roslyn.SwitchBufMode{roslyn.SwitchBufUseOpen}
	}

	modesMap := make(map[roslyn.SwitchBufMode]bool)
	for _, m := range modes {
		modesMap[m] = true
	}

	v.ChannelEx("normal! m'")

	tf := strings.TrimPrefix(string(loc.URI), "file://")

	bn := v.ParseInt(v.ChannelCall("bufnr", tf))
	if bn != -1 && modesMap[roslyn.SwitchBufUseOpen] {
		winID := v.ParseInt(v.ChannelCall("bufwinid", bn))
		if winID != -1 {
			v.ChannelCall("win_gotoid", winID)
			goto MovedToTargetWin
		}
	}
	for _, m := range modes {
		switch m {
		case roslyn.SwitchBufUseOpen, roslyn.SwitchBufUseTag:
			continue
		case roslyn.SwitchBufSplit:
			v.ChannelExf("%v split %v", mods, tf)
		case roslyn.SwitchBufVsplit:
			v.ChannelExf("%v vsplit %v", mods, tf)
		case roslyn.SwitchBufNewTab:
			v.ChannelExf("%v tabnew %v", mods, tf)
		}
		goto MovedToTargetWin
	}

	v.ChannelExf("%v edit %v", mods, tf)

MovedToTargetWin:

	// now we _must_ have a valid buffer
	bn = v.ParseInt(v.ChannelCall("bufnr", tf))
	if bn == -1 {
		return fmt.Errorf("should have a valid buffer number by this point; we don't")
	}
	nb, err := v.getLoadedBuffer(bn)
	if err != nil {
		return err
	}
	newPos, err := types.PointFromPosition(nb, loc.Range.Start)
	if err != nil {
		return fmt.Errorf("failed to derive point from position: %v", err)
	}
	v.ChannelCall("cursor", newPos.Line(), newPos.Col())
	v.ChannelEx("normal! zz")

	return nil
}
