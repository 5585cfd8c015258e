package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/copyscope/internal/config"
	"github.com/Gaurav-Gosain/copyscope/internal/copymode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.ModeKeys != "vi" {
		t.Errorf("Expected vi mode keys, got %q", cfg.ModeKeys)
	}
	if cfg.WordSeparators != copymode.DefaultWordSeparators {
		t.Errorf("Expected default word separators, got %q", cfg.WordSeparators)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestDefaultKeybindings(t *testing.T) {
	cfg := config.DefaultConfig()

	required := []string{
		"cancel",
		"cursor-up",
		"cursor-down",
		"begin-selection",
		"search-again",
		"search-reverse",
		"page-up",
		"page-down",
	}

	for _, table := range []string{"vi", "emacs"} {
		cfg.ModeKeys = table
		registry := config.NewKeybindRegistry(cfg)
		for _, verb := range required {
			if len(registry.GetKeys(verb)) == 0 {
				t.Errorf("Expected %s to have a key in the %s table", verb, table)
			}
		}
	}
}

func TestDefaultBindingsHaveDescriptions(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, table := range []map[string]string{cfg.Keybindings.Vi, cfg.Keybindings.Emacs} {
		for key, line := range table {
			verb := strings.Fields(line)[0]
			if config.ActionDescriptions[verb] == "" {
				t.Errorf("Key %q is bound to %q which has no description", key, verb)
			}
		}
	}
}

// =============================================================================
// Parsing Tests
// =============================================================================

func TestParseMergesKeybindings(t *testing.T) {
	cfg, err := config.Parse([]byte(`
mode_keys = "emacs"

[keybindings.emacs]
"ctrl+s" = "search-forward %%"
"q" = ""
"alt+p" = "copy-pipe-and-cancel 'xclip -i'"
`))
	require.NoError(t, err)

	assert.Equal(t, "emacs", cfg.ModeKeys)
	assert.Equal(t, config.DefaultHistoryLimit, cfg.HistoryLimit)
	assert.Equal(t, "search-forward %%", cfg.Keybindings.Emacs["ctrl+s"])
	assert.NotContains(t, cfg.Keybindings.Emacs, "q")
	assert.Equal(t, "start-of-line", cfg.Keybindings.Emacs["ctrl+a"])
	assert.Equal(t, config.DefaultConfig().Keybindings.Vi, cfg.Keybindings.Vi)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"mode keys", `mode_keys = "nano"`, "mode_keys"},
		{"history limit", `history_limit = -5`, "history_limit"},
		{"buffer limit", `buffer_limit = -1`, "buffer_limit"},
		{"unknown verb", "[keybindings.vi]\nx = \"explode\"", "keybindings.vi.x"},
		{"bad modifier", "[keybindings.vi]\n\"hyperspace+x\" = \"cancel\"", "unknown modifier"},
		{"bad toml", `mode_keys = `, "failed to parse config"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := config.DefaultConfig()
	cfg.ModeKeys = "emacs"
	cfg.CopyCommand = "pbcopy"
	cfg.Keybindings.Emacs["alt+s"] = `search-forward "two words"`
	require.NoError(t, config.SaveConfig(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# copyscope configuration"))

	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// =============================================================================
// KeybindRegistry Tests
// =============================================================================

func TestKeybindRegistry_GetKeys(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	keys := registry.GetKeys("cursor-down")
	assert.Equal(t, []string{"down", "j"}, keys)
}

func TestKeybindRegistry_GetAction(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	if got := registry.GetAction("/"); got != "search-forward %%" {
		t.Errorf("Expected search-forward %%%%, got %q", got)
	}
	if got := registry.GetAction("G"); got != "history-bottom" {
		t.Errorf("Expected history-bottom for G, got %q", got)
	}
	if got := registry.GetAction("g"); got != "history-top" {
		t.Errorf("Expected history-top for g, got %q", got)
	}
	if got := registry.GetAction("Ctrl+D"); got != "halfpage-down" {
		t.Errorf("Expected halfpage-down for Ctrl+D, got %q", got)
	}
}

func TestKeybindRegistry_GetCommand(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ModeKeys = "emacs"
	registry := config.NewKeybindRegistry(cfg)

	cmd, ok := registry.GetCommand("ctrl+r")
	require.True(t, ok)
	assert.Equal(t, "search-backward-incremental", cmd.Verb)
	assert.True(t, cmd.HasPlaceholder())

	_, ok = registry.GetCommand("ctrl+shift+alt+super+hyper+x")
	assert.False(t, ok)
}

func TestKeybindRegistry_GetKeysForDisplay(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	assert.Equal(t, "↓, j", registry.GetKeysForDisplay("cursor-down"))
	assert.Equal(t, "C-d", registry.GetKeysForDisplay("halfpage-down"))
	assert.Empty(t, registry.GetKeysForDisplay("nonexistent-action"))
}

func TestKeybindRegistry_UnknownKey(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	action := registry.GetAction("ctrl+shift+alt+super+hyper+x")
	if action != "" {
		t.Errorf("Expected empty action for unbound key, got %q", action)
	}
}

func TestGetKeybindings(t *testing.T) {
	cfg := config.DefaultConfig()
	sections := config.GetKeybindings(config.NewKeybindRegistry(cfg))

	require.NotEmpty(t, sections)
	assert.Equal(t, "MOVEMENT", sections[0].Title)
	for _, s := range sections {
		assert.NotEmpty(t, s.Bindings, s.Title)
	}
}

// =============================================================================
// Key Normalizer Tests
// =============================================================================

func TestKeyNormalizer(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input    string
		expected string
	}{
		{"ctrl+a", "ctrl+a"},
		{"Ctrl+A", "ctrl+a"},
		{"CTRL+A", "ctrl+a"},
		{"return", "enter"},
		{"escape", "esc"},
		{"enter", "enter"},
		{"G", "G"},
		{"shift+g", "G"},
		{"meta+w", "alt+w"},
		{"ctrl++", "ctrl++"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := normalizer.NormalizeKey(tc.input)
			assert.Contains(t, got, tc.expected)
		})
	}
}

func TestKeyNormalizer_ValidateKey(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input   string
		isValid bool
	}{
		{"ctrl+a", true},
		{"n", true},
		{"enter", true},
		{"+", true},
		{"alt++", true},
		{"", false},
		{"ctrl+", false},
		{"ctrl+ctrl+a", false},
		{"foo+a", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			valid, _ := normalizer.ValidateKey(tc.input)
			if valid != tc.isValid {
				t.Errorf("ValidateKey(%q) = %v, want %v", tc.input, valid, tc.isValid)
			}
		})
	}
}

// =============================================================================
// Watch Tests
// =============================================================================

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, config.SaveConfig(config.DefaultConfig(), path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *config.UserConfig, 4)
	require.NoError(t, config.Watch(ctx, path, func(cfg *config.UserConfig, err error) {
		if err == nil {
			got <- cfg
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte(`mode_keys = "emacs"`), 0o644))

	select {
	case cfg := <-got:
		assert.Equal(t, "emacs", cfg.ModeKeys)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkKeybindRegistry_GetAction(b *testing.B) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = registry.GetAction("n")
	}
}

func BenchmarkNormalizeKey(b *testing.B) {
	normalizer := config.NewKeyNormalizer()
	keys := []string{"ctrl+a", "Ctrl+Shift+B", "alt+1", "return"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = normalizer.NormalizeKey(keys[i%len(keys)])
	}
}
