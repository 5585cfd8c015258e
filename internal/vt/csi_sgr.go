package vt

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// Cell attribute bits as stored in uv.Style.Attrs.
const (
	AttrBold = 1 << iota
	AttrFaint
	AttrItalic
	AttrSlowBlink
	AttrRapidBlink
	AttrReverse
	AttrConceal
	AttrStrikethrough
)

// handleSgr handles Select Graphic Rendition (SGR) escape sequences.
func (e *Emulator) handleSgr(params ansi.Params) {
	readStyle(params, &e.pen)
}

// readStyle applies SGR parameters to pen. Underline styles are not tracked
// since copy mode never renders them differently from plain text.
func readStyle(params ansi.Params, pen *uv.Style) {
	if len(params) == 0 {
		*pen = uv.Style{}
		return
	}

	for i := 0; i < len(params); i++ {
		param, _, _ := params.Param(i, 0)
		switch param {
		case 0:
			*pen = uv.Style{}
		case 1:
			pen.Attrs |= AttrBold
		case 2:
			pen.Attrs |= AttrFaint
		case 3:
			pen.Attrs |= AttrItalic
		case 5:
			pen.Attrs |= AttrSlowBlink
		case 6:
			pen.Attrs |= AttrRapidBlink
		case 7:
			pen.Attrs |= AttrReverse
		case 8:
			pen.Attrs |= AttrConceal
		case 9:
			pen.Attrs |= AttrStrikethrough
		case 22:
			pen.Attrs &^= AttrBold | AttrFaint
		case 23:
			pen.Attrs &^= AttrItalic
		case 25:
			pen.Attrs &^= AttrSlowBlink | AttrRapidBlink
		case 27:
			pen.Attrs &^= AttrReverse
		case 28:
			pen.Attrs &^= AttrConceal
		case 29:
			pen.Attrs &^= AttrStrikethrough
		case 30, 31, 32, 33, 34, 35, 36, 37:
			pen.Fg = ansi.IndexedColor(uint8(param - 30)) // #nosec G115
		case 38:
			var c color.Color
			if n := ansi.ReadStyleColor(params[i:], &c); n > 0 {
				pen.Fg = c
				i += n - 1
			}
		case 39:
			pen.Fg = nil
		case 40, 41, 42, 43, 44, 45, 46, 47:
			pen.Bg = ansi.IndexedColor(uint8(param - 40)) // #nosec G115
		case 48:
			var c color.Color
			if n := ansi.ReadStyleColor(params[i:], &c); n > 0 {
				pen.Bg = c
				i += n - 1
			}
		case 49:
			pen.Bg = nil
		case 58:
			var c color.Color
			if n := ansi.ReadStyleColor(params[i:], &c); n > 0 {
				i += n - 1
			}
		case 90, 91, 92, 93, 94, 95, 96, 97:
			pen.Fg = ansi.IndexedColor(uint8(param - 90 + 8)) // #nosec G115
		case 100, 101, 102, 103, 104, 105, 106, 107:
			pen.Bg = ansi.IndexedColor(uint8(param - 100 + 8)) // #nosec G115
		}
	}
}
