// Package theme provides color themes and styling for the copyscope viewer.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	tint "github.com/lrstanley/bubbletint/v2"

	"github.com/Gaurav-Gosain/copyscope/internal/copymode"
	"github.com/Gaurav-Gosain/copyscope/internal/vt"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at application startup.
// If themeName is empty, theming will be disabled and standard terminal colors will be used.
func Initialize(themeName string) {
	if themeName == "" {
		enabled = false
		return
	}

	enabled = true
	tint.NewDefaultRegistry()
	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
	}
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme.
// Returns nil if theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// GetANSIPalette returns the 16 ANSI colors (0-15) from the current theme.
func GetANSIPalette() [16]color.Color {
	t := Current()
	if t == nil {
		return [16]color.Color{
			lipgloss.Color("#000000"), lipgloss.Color("#cd0000"), lipgloss.Color("#00cd00"), lipgloss.Color("#cdcd00"),
			lipgloss.Color("#0000ee"), lipgloss.Color("#cd00cd"), lipgloss.Color("#00cdcd"), lipgloss.Color("#e5e5e5"),
			lipgloss.Color("#7f7f7f"), lipgloss.Color("#ff0000"), lipgloss.Color("#00ff00"), lipgloss.Color("#ffff00"),
			lipgloss.Color("#5c5cff"), lipgloss.Color("#ff00ff"), lipgloss.Color("#00ffff"), lipgloss.Color("#ffffff"),
		}
	}
	return [16]color.Color{
		t.Black, t.Red, t.Green, t.Yellow,
		t.Blue, t.Purple, t.Cyan, t.White,
		t.BrightBlack, t.BrightRed, t.BrightGreen, t.BrightYellow,
		t.BrightBlue, t.BrightPurple, t.BrightCyan, t.BrightWhite,
	}
}

// PaletteColor maps a basic ANSI index onto the theme palette. Other
// colors are returned unchanged.
func PaletteColor(c color.Color) color.Color {
	if !enabled {
		return c
	}
	if idx, ok := c.(ansi.IndexedColor); ok && idx < 16 {
		return GetANSIPalette()[idx]
	}
	return c
}

// Terminal colors
func TerminalFg() color.Color {
	t := Current()
	if t == nil {
		return nil
	}
	return t.Fg
}

func TerminalBg() color.Color {
	t := Current()
	if t == nil {
		return nil
	}
	return t.Bg
}

// Copy mode colors
func CopyModeSelection() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("#cd00cd"), lipgloss.Color("#ffffff")
	}
	return t.Purple, t.BrightWhite
}

func CopyModeSearchCurrent() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("#ff00ff"), lipgloss.Color("#000000")
	}
	return t.BrightPurple, t.Black
}

func CopyModeSearchOther() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("#ffff00"), lipgloss.Color("#000000")
	}
	return t.Yellow, t.Black
}

func CopyModeMark() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("#cd0000"), lipgloss.Color("#ffffff")
	}
	return t.Red, t.BrightWhite
}

func CopyModeCursor() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00ffff"), lipgloss.Color("#000000")
	}
	return t.BrightCyan, t.Black
}

// CopyModeStyles returns the overlay styles for copymode.Mode.RenderLine.
func CopyModeStyles() copymode.Styles {
	selBg, selFg := CopyModeSelection()
	curBg, curFg := CopyModeSearchCurrent()
	othBg, othFg := CopyModeSearchOther()
	markBg, markFg := CopyModeMark()
	return copymode.Styles{
		Mode:         uv.Style{Fg: selFg, Bg: selBg},
		Match:        uv.Style{Fg: othFg, Bg: othBg},
		CurrentMatch: uv.Style{Fg: curFg, Bg: curBg, Attrs: vt.AttrBold},
		Mark:         uv.Style{Fg: markFg, Bg: markBg},
	}
}

// Status bar colors
func StatusBarBg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#2a2a3e")
	}
	return t.BrightBlack
}

func StatusBarFg() color.Color {
	return lipgloss.Color("#a0a0a8")
}

func StatusBarMode() (bg color.Color, fg color.Color) {
	t := Current()
	if t == nil {
		return lipgloss.Color("#ffff00"), lipgloss.Color("#000000")
	}
	return t.Yellow, t.Black
}

func PromptFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("11")
	}
	return t.BrightYellow
}

// Notification colors
func NotificationError() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#cd0000")
	}
	return t.Red
}

func NotificationSuccess() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00cd00")
	}
	return t.Green
}

// Help overlay colors
func HelpKeyBadge() color.Color {
	return lipgloss.Color("5")
}

func HelpBorder() color.Color {
	return lipgloss.Color("14")
}

func HelpGray() color.Color {
	return lipgloss.Color("8")
}

// CLI table colors
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

func CLITableBorder() color.Color {
	return lipgloss.Color("14")
}

func CLITableKey() color.Color {
	return lipgloss.Color("11")
}

func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
