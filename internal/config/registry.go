package config

import (
	"slices"
	"strings"

	"github.com/Gaurav-Gosain/copyscope/internal/script"
)

// KeybindRegistry looks up the active key table in both directions.
type KeybindRegistry struct {
	keyToLine  map[string]string
	verbToKeys map[string][]string
	normalizer *KeyNormalizer
}

// NewKeybindRegistry builds a registry for the key table selected by
// cfg.ModeKeys.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		keyToLine:  make(map[string]string),
		verbToKeys: make(map[string][]string),
		normalizer: NewKeyNormalizer(),
	}

	bindings := cfg.Bindings(cfg.ModeKeys)
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		line := bindings[key]
		for _, form := range r.normalizer.NormalizeKey(key) {
			if _, taken := r.keyToLine[form]; !taken {
				r.keyToLine[form] = line
			}
		}
		verb := verbOf(line)
		if verb != "" {
			r.verbToKeys[verb] = append(r.verbToKeys[verb], key)
		}
	}
	return r
}

// verbOf returns the verb of a command line, skipping a repeat count.
func verbOf(line string) string {
	cmd, err := script.ParseLine(line)
	if err != nil {
		return ""
	}
	return cmd.Verb
}

// GetAction returns the command line bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	if line, ok := r.keyToLine[key]; ok {
		return line
	}
	for _, form := range r.normalizer.NormalizeKey(key) {
		if line, ok := r.keyToLine[form]; ok {
			return line
		}
	}
	return ""
}

// GetCommand returns the parsed command bound to key.
func (r *KeybindRegistry) GetCommand(key string) (script.Command, bool) {
	line := r.GetAction(key)
	if line == "" {
		return script.Command{}, false
	}
	cmd, err := script.ParseLine(line)
	if err != nil {
		return script.Command{}, false
	}
	return cmd, true
}

// GetKeys returns the keys bound to verb, sorted.
func (r *KeybindRegistry) GetKeys(verb string) []string {
	return r.verbToKeys[verb]
}

// GetKeysForDisplay returns the keys bound to verb joined for display.
func (r *KeybindRegistry) GetKeysForDisplay(verb string) string {
	keys := r.GetKeys(verb)
	if len(keys) == 0 {
		return ""
	}
	display := make([]string, len(keys))
	for i, k := range keys {
		display[i] = displayKey(k)
	}
	return strings.Join(display, ", ")
}

func displayKey(key string) string {
	switch key {
	case "space":
		return "Space"
	case "enter":
		return "Enter"
	case "esc":
		return "Esc"
	case "backspace":
		return "Backspace"
	case "up":
		return "↑"
	case "down":
		return "↓"
	case "left":
		return "←"
	case "right":
		return "→"
	}
	mods, base := splitKey(key)
	if len(mods) == 0 {
		return base
	}
	out := make([]string, 0, len(mods)+1)
	for _, m := range mods {
		switch strings.ToLower(m) {
		case "ctrl":
			out = append(out, "C")
		case "alt":
			out = append(out, "M")
		case "shift":
			out = append(out, "S")
		default:
			out = append(out, m)
		}
	}
	return strings.Join(append(out, displayKey(base)), "-")
}
