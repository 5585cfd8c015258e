package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// KeyNormalizer maps the spellings users write in config.toml onto the key
// strings reported by the terminal.
type KeyNormalizer struct {
	aliases   map[string]string
	modifiers map[string]string
}

// NewKeyNormalizer creates a normalizer with the built-in alias tables.
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{
		aliases: map[string]string{
			"return":    "enter",
			"escape":    "esc",
			"pageup":    "pgup",
			"page_up":   "pgup",
			"pagedown":  "pgdown",
			"page_down": "pgdown",
			"spacebar":  "space",
			" ":         "space",
			"del":       "delete",
			"ins":       "insert",
			"bs":        "backspace",
		},
		modifiers: map[string]string{
			"ctrl":    "ctrl",
			"control": "ctrl",
			"c":       "ctrl",
			"alt":     "alt",
			"meta":    "alt",
			"opt":     "alt",
			"option":  "alt",
			"m":       "alt",
			"shift":   "shift",
			"s":       "shift",
			"super":   "super",
			"cmd":     "super",
			"hyper":   "hyper",
		},
	}
}

// splitKey separates modifiers from the base key. "ctrl++" has the base key
// "+".
func splitKey(key string) ([]string, string) {
	if key == "+" || !strings.Contains(key, "+") {
		return nil, key
	}
	if strings.HasSuffix(key, "++") {
		return strings.Split(strings.TrimSuffix(key, "++"), "+"), "+"
	}
	parts := strings.Split(key, "+")
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// NormalizeKey returns the forms key may be reported as, the written form
// first. Modifier and named keys are lowercased; a lone printable character
// keeps its case since "G" and "g" are different keys.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	if key == "" {
		return nil
	}
	mods, base := splitKey(key)

	canonMods := make([]string, 0, len(mods))
	for _, m := range mods {
		lm := strings.ToLower(m)
		if c, ok := n.modifiers[lm]; ok {
			lm = c
		}
		canonMods = append(canonMods, lm)
	}

	canonBase := base
	if utf8.RuneCountInString(base) > 1 || len(canonMods) > 0 {
		canonBase = strings.ToLower(base)
	}

	forms := []string{join(canonMods, canonBase)}
	if alias, ok := n.aliases[canonBase]; ok {
		forms = append(forms, join(canonMods, alias))
	}
	// A shifted letter arrives as its upper case form.
	if len(canonMods) == 1 && canonMods[0] == "shift" && utf8.RuneCountInString(canonBase) == 1 {
		forms = append(forms, strings.ToUpper(canonBase))
	}
	return forms
}

func join(mods []string, base string) string {
	if len(mods) == 0 {
		return base
	}
	return strings.Join(mods, "+") + "+" + base
}

// ValidateKey reports whether key can be bound, with a message when it
// cannot.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	if strings.TrimSpace(key) == "" && key != " " {
		return false, "empty key"
	}
	mods, base := splitKey(key)
	if base == "" {
		return false, fmt.Sprintf("key %q has no base key", key)
	}
	seen := make(map[string]bool, len(mods))
	for _, m := range mods {
		c, ok := n.modifiers[strings.ToLower(m)]
		if !ok {
			return false, fmt.Sprintf("key %q has unknown modifier %q", key, m)
		}
		if seen[c] {
			return false, fmt.Sprintf("key %q repeats modifier %q", key, m)
		}
		seen[c] = true
	}
	return true, ""
}
