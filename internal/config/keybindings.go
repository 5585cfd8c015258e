package config

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// defaultViBindings is the vi key table. Digits are handled by the viewer
// as a repeat count and are not listed.
func defaultViBindings() map[string]string {
	return map[string]string{
		"ctrl+c":    "cancel",
		"q":         "cancel",
		"esc":       "clear-selection",
		"space":     "begin-selection",
		"v":         "rectangle-toggle",
		"ctrl+v":    "rectangle-toggle",
		"V":         "select-line",
		"enter":     "copy-pipe-and-cancel",
		"ctrl+j":    "copy-pipe-and-cancel",
		"y":         "copy-selection-and-cancel",
		"A":         "append-selection-and-cancel",
		"D":         "copy-pipe-end-of-line-and-cancel",
		"o":         "other-end",
		"r":         "refresh-from-pane",
		"X":         "set-mark",
		"alt+x":     "jump-to-mark",
		"h":         "cursor-left",
		"left":      "cursor-left",
		"backspace": "cursor-left",
		"j":         "cursor-down",
		"down":      "cursor-down",
		"k":         "cursor-up",
		"up":        "cursor-up",
		"l":         "cursor-right",
		"right":     "cursor-right",
		"0":         "start-of-line",
		"home":      "start-of-line",
		"^":         "back-to-indentation",
		"$":         "end-of-line",
		"end":       "end-of-line",
		"w":         "next-word",
		"W":         "next-space",
		"e":         "next-word-end",
		"E":         "next-space-end",
		"b":         "previous-word",
		"B":         "previous-space",
		"{":         "previous-paragraph",
		"}":         "next-paragraph",
		"%":         "next-matching-bracket",
		"H":         "top-line",
		"M":         "middle-line",
		"L":         "bottom-line",
		"g":         "history-top",
		"G":         "history-bottom",
		"J":         "scroll-down",
		"ctrl+e":    "scroll-down",
		"ctrl+down": "scroll-down",
		"K":         "scroll-up",
		"ctrl+y":    "scroll-up",
		"ctrl+up":   "scroll-up",
		"z":         "scroll-middle",
		"ctrl+b":    "page-up",
		"pgup":      "page-up",
		"ctrl+f":    "page-down",
		"pgdown":    "page-down",
		"ctrl+u":    "halfpage-up",
		"ctrl+d":    "halfpage-down",
		"f":         "jump-forward %%",
		"F":         "jump-backward %%",
		"t":         "jump-to-forward %%",
		"T":         "jump-to-backward %%",
		";":         "jump-again",
		",":         "jump-reverse",
		"/":         "search-forward %%",
		"?":         "search-backward %%",
		"n":         "search-again",
		"N":         "search-reverse",
		":":         "goto-line %%",
		"]":         "next-prompt",
		"[":         "previous-prompt",
		"P":         "toggle-position",
	}
}

// defaultEmacsBindings is the emacs key table.
func defaultEmacsBindings() map[string]string {
	return map[string]string{
		"ctrl+c":     "cancel",
		"q":          "cancel",
		"esc":        "cancel",
		"ctrl+space": "begin-selection",
		"ctrl+g":     "clear-selection",
		"R":          "rectangle-toggle",
		"ctrl+w":     "copy-pipe-and-cancel",
		"alt+w":      "copy-pipe-and-cancel",
		"ctrl+k":     "copy-pipe-end-of-line-and-cancel",
		"r":          "refresh-from-pane",
		"X":          "set-mark",
		"alt+x":      "jump-to-mark",
		"ctrl+a":     "start-of-line",
		"home":       "start-of-line",
		"alt+m":      "back-to-indentation",
		"ctrl+e":     "end-of-line",
		"end":        "end-of-line",
		"ctrl+b":     "cursor-left",
		"left":       "cursor-left",
		"ctrl+f":     "cursor-right",
		"right":      "cursor-right",
		"ctrl+p":     "cursor-up",
		"up":         "cursor-up",
		"ctrl+n":     "cursor-down",
		"down":       "cursor-down",
		"alt+b":      "previous-word",
		"alt+f":      "next-word-end",
		"alt+{":      "previous-paragraph",
		"alt+}":      "next-paragraph",
		"ctrl+alt+b": "previous-matching-bracket",
		"ctrl+alt+f": "next-matching-bracket",
		"alt+r":      "middle-line",
		"alt+<":      "history-top",
		"alt+>":      "history-bottom",
		"ctrl+up":    "scroll-up",
		"ctrl+down":  "scroll-down",
		"alt+v":      "page-up",
		"pgup":       "page-up",
		"ctrl+v":     "page-down",
		"space":      "page-down",
		"pgdown":     "page-down",
		"f":          "jump-forward %%",
		"F":          "jump-backward %%",
		"t":          "jump-to-forward %%",
		"T":          "jump-to-backward %%",
		";":          "jump-again",
		",":          "jump-reverse",
		"ctrl+s":     "search-forward-incremental %%",
		"ctrl+r":     "search-backward-incremental %%",
		"n":          "search-again",
		"N":          "search-reverse",
		"g":          "goto-line %%",
		"P":          "toggle-position",
	}
}

// ActionDescriptions describes each copy mode verb for help and key
// listings.
var ActionDescriptions = map[string]string{
	"append-selection":                 "Append selection to the top buffer",
	"append-selection-and-cancel":      "Append selection and exit",
	"back-to-indentation":              "Move to first non-blank character",
	"begin-selection":                  "Start selection",
	"bottom-line":                      "Move to bottom of screen",
	"cancel":                           "Exit copy mode",
	"clear-selection":                  "Clear selection",
	"copy-end-of-line":                 "Copy to end of line",
	"copy-end-of-line-and-cancel":      "Copy to end of line and exit",
	"copy-line":                        "Copy line",
	"copy-line-and-cancel":             "Copy line and exit",
	"copy-pipe":                        "Copy selection and pipe it",
	"copy-pipe-and-cancel":             "Copy selection, pipe it and exit",
	"copy-pipe-end-of-line":            "Copy to end of line and pipe it",
	"copy-pipe-end-of-line-and-cancel": "Copy to end of line, pipe it and exit",
	"copy-pipe-line":                   "Copy line and pipe it",
	"copy-pipe-line-and-cancel":        "Copy line, pipe it and exit",
	"copy-pipe-no-clear":               "Copy and pipe, keeping the selection",
	"copy-selection":                   "Copy selection",
	"copy-selection-and-cancel":        "Copy selection and exit",
	"copy-selection-no-clear":          "Copy selection, keeping it",
	"cursor-down":                      "Cursor down",
	"cursor-down-and-cancel":           "Cursor down, exit at the bottom",
	"cursor-left":                      "Cursor left",
	"cursor-right":                     "Cursor right",
	"cursor-up":                        "Cursor up",
	"end-of-line":                      "Move to end of line",
	"goto-line":                        "Go to line",
	"halfpage-down":                    "Half page down",
	"halfpage-down-and-cancel":         "Half page down, exit at the bottom",
	"halfpage-up":                      "Half page up",
	"history-bottom":                   "Go to bottom of history",
	"history-top":                      "Go to top of history",
	"jump-again":                       "Repeat last jump",
	"jump-backward":                    "Jump backward to character",
	"jump-forward":                     "Jump forward to character",
	"jump-reverse":                     "Repeat last jump in reverse",
	"jump-to-backward":                 "Jump backward to before character",
	"jump-to-forward":                  "Jump forward to before character",
	"jump-to-mark":                     "Swap cursor and mark",
	"middle-line":                      "Move to middle of screen",
	"next-matching-bracket":            "Next matching bracket",
	"next-paragraph":                   "Next paragraph",
	"next-prompt":                      "Next shell prompt",
	"next-space":                       "Next space-delimited word",
	"next-space-end":                   "End of space-delimited word",
	"next-word":                        "Next word",
	"next-word-end":                    "End of word",
	"other-end":                        "Other end of selection",
	"page-down":                        "Page down",
	"page-down-and-cancel":             "Page down, exit at the bottom",
	"page-up":                          "Page up",
	"pipe":                             "Pipe selection",
	"pipe-and-cancel":                  "Pipe selection and exit",
	"pipe-no-clear":                    "Pipe selection, keeping it",
	"previous-matching-bracket":        "Previous matching bracket",
	"previous-paragraph":               "Previous paragraph",
	"previous-prompt":                  "Previous shell prompt",
	"previous-space":                   "Previous space-delimited word",
	"previous-word":                    "Previous word",
	"rectangle-off":                    "Rectangle selection off",
	"rectangle-on":                     "Rectangle selection on",
	"rectangle-toggle":                 "Toggle rectangle selection",
	"refresh-from-pane":                "Reload from source",
	"scroll-bottom":                    "Scroll cursor line to bottom",
	"scroll-down":                      "Scroll down",
	"scroll-down-and-cancel":           "Scroll down, exit at the bottom",
	"scroll-middle":                    "Scroll cursor line to middle",
	"scroll-top":                       "Scroll cursor line to top",
	"scroll-up":                        "Scroll up",
	"search-again":                     "Repeat search",
	"search-backward":                  "Search backward (regex)",
	"search-backward-incremental":      "Incremental search backward",
	"search-backward-text":             "Search backward (text)",
	"search-forward":                   "Search forward (regex)",
	"search-forward-incremental":       "Incremental search forward",
	"search-forward-text":              "Search forward (text)",
	"search-reverse":                   "Repeat search in reverse",
	"select-line":                      "Select line",
	"select-word":                      "Select word",
	"set-mark":                         "Set mark",
	"start-of-line":                    "Move to start of line",
	"stop-selection":                   "Stop extending selection",
	"toggle-position":                  "Toggle position indicator",
	"top-line":                         "Move to top of screen",
}

// helpSections groups verbs for the help overlay and key listings.
var helpSections = []struct {
	title string
	verbs []string
}{
	{"MOVEMENT", []string{
		"cursor-left", "cursor-right", "cursor-up", "cursor-down",
		"start-of-line", "back-to-indentation", "end-of-line",
		"next-word", "next-word-end", "previous-word",
		"next-space", "next-space-end", "previous-space",
		"next-paragraph", "previous-paragraph",
		"next-matching-bracket", "previous-matching-bracket",
		"next-prompt", "previous-prompt",
		"top-line", "middle-line", "bottom-line",
		"jump-forward", "jump-backward", "jump-to-forward", "jump-to-backward",
		"jump-again", "jump-reverse", "set-mark", "jump-to-mark",
	}},
	{"SCROLLING", []string{
		"scroll-up", "scroll-down", "scroll-top", "scroll-middle", "scroll-bottom",
		"page-up", "page-down", "halfpage-up", "halfpage-down",
		"history-top", "history-bottom", "goto-line",
	}},
	{"SEARCH", []string{
		"search-forward", "search-backward",
		"search-forward-text", "search-backward-text",
		"search-forward-incremental", "search-backward-incremental",
		"search-again", "search-reverse",
	}},
	{"SELECTION", []string{
		"begin-selection", "stop-selection", "clear-selection",
		"select-word", "select-line", "other-end",
		"rectangle-toggle", "rectangle-on", "rectangle-off",
	}},
	{"COPY", []string{
		"copy-selection", "copy-selection-and-cancel", "copy-selection-no-clear",
		"copy-pipe", "copy-pipe-and-cancel", "copy-pipe-no-clear",
		"copy-line", "copy-end-of-line", "copy-pipe-end-of-line-and-cancel",
		"append-selection", "append-selection-and-cancel",
		"pipe", "pipe-and-cancel",
	}},
	{"OTHER", []string{
		"toggle-position", "refresh-from-pane", "cancel",
	}},
}

// GetKeybindings returns the help sections for registry, listing only
// verbs that have a key bound.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	var sections []KeybindingSection
	for _, hs := range helpSections {
		section := KeybindingSection{Title: hs.title}
		for _, verb := range hs.verbs {
			addBinding(&section, registry, verb, ActionDescriptions[verb])
		}
		if len(section.Bindings) > 0 {
			sections = append(sections, section)
		}
	}
	return sections
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}
