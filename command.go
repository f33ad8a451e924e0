package roslyn

import (
	"encoding/json"
	"fmt"
	"strings"
)

type CommandFlags struct {
	Line1 *int
	Line2 *int
	Range *int
	Count *int
	Bang  *bool
	Reg   *string
	Mods  CommModList
}

func (c *CommandFlags) UnmarshalJSON(b []byte) error {
	var v struct {
		Line1 *int    `json:"line1"`
		Line2 *int    `json:"line2"`
		Range *int    `json:"range"`
		Count *int    `json:"count"`
		Bang  *string `json:"bang"`
		Reg   *string `json:"reg"`
		Mods  string  `json:"mods"`
	}

	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	c.Line1 = v.Line1
	c.Line2 = v.Line2
	c.Range = v.Range
	c.Count = v.Count
	if v.Bang != nil {
		b := *v.Bang == "!"
		c.Bang = &b
	}
	for _, v := range strings.Fields(v.Mods) {
		cm := CommMod(v)
		switch cm {
		case CommModAboveLeft, CommModBelowRight, CommModBotRight, CommModBrowse, CommModConfirm,
			CommModHide, CommModKeepAlt, CommModKeepJumps, CommModKeepMarks, CommModKeepPatterns,
			CommModLeftAbove, CommModLockMarks, CommModNoSwapfile, CommModRightBelow, CommModSilent,
			CommModTab, CommModTopLeft, CommModVerbose, CommModVertical:
		default:
			return fmt.Errorf("unknown CommMod %q", cm)
		}
		c.Mods = append(c.Mods, cm)
	}

	return nil
}

type CommModList []CommMod

func (c CommModList) String() string {
	var vals []string
	for _, cc := range c {
		vals = append(vals, string(cc))
	}
	return strings.Join(vals, " ")
}

type CommMod string

const (
	CommModAboveLeft    CommMod = "aboveleft"
	CommModBelowRight   CommMod = "belowright"
	CommModBotRight     CommMod = "botright"
	CommModBrowse       CommMod = "browse"
	CommModConfirm      CommMod = "confirm"
	CommModHide         CommMod = "hide"
	CommModKeepAlt      CommMod = "keepalt"
	CommModKeepJumps    CommMod = "keepjumps"
	CommModKeepMarks    CommMod = "keepmarks"
	CommModKeepPatterns CommMod = "keeppatterns"
	CommModLeftAbove    CommMod = "leftabove"
	CommModLockMarks    CommMod = "lockmarks"
	CommModNoSwapfile   CommMod = "noswapfile"
	CommModRightBelow   CommMod = "rightbelow"
	CommModSilent       CommMod = "silent"
	CommModTab          CommMod = "tab"
	CommModTopLeft      CommMod = "topleft"
	CommModVerbose      CommMod = "verbose"
	CommModVertical     CommMod = "vertical"
)

type CommAttr interface {
	fmt.Stringer
	isCommAttr()
}

type GenAttr uint

func (g GenAttr) isCommAttr() {}

const (
	AttrBang GenAttr = iota
	AttrBar
	AttrRegister
	AttrBuffer
)

func (g GenAttr) String() string {
	switch g {
	case AttrBang:
		return "-bang"
	case AttrBar:
		return "-bar"
	case AttrRegister:
		return "-register"
	case AttrBuffer:
		return "-buffer"
	}
	return fmt.Sprintf("GenAttr(%d)", uint(g))
}

type CountN int

func (c CountN) isCommAttr() {}

func (c CountN) String() string {
	return fmt.Sprintf("-count=%v", int(c))
}

type NArgs uint

func (n NArgs) isCommAttr() {}

const (
	NArgs0 NArgs = iota
	NArgs1
	NArgsZeroOrMore
	NArgsZeroOrOne
	NArgsOneOrMore
)

func (n NArgs) String() string {
	switch n {
	case NArgs0:
		return "-nargs=0"
	case NArgs1:
		return "-nargs=1"
	case NArgsZeroOrMore:
		return "-nargs=*"
	case NArgsZeroOrOne:
		return "-nargs=?"
	case NArgsOneOrMore:
		return "-nargs=+"
	}
	return fmt.Sprintf("NArgs(%d)", uint(n))
}
