// Package config loads and saves the copyscope configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gaurav-Gosain/copyscope/internal/copymode"
	"github.com/Gaurav-Gosain/copyscope/internal/script"
	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Limits for numeric options.
const (
	DefaultHistoryLimit = 2000
	DefaultBufferLimit  = 50
	MaxHistoryLimit     = 1_000_000
)

// UserConfig is the contents of config.toml.
type UserConfig struct {
	ModeKeys       string `toml:"mode_keys" comment:"vi or emacs"`
	WordSeparators string `toml:"word_separators"`
	WrapSearch     bool   `toml:"wrap_search"`
	ScrollExit     bool   `toml:"scroll_exit" comment:"leave the viewer when scrolling past the bottom"`
	HidePosition   bool   `toml:"hide_position"`
	HistoryLimit   int    `toml:"history_limit" comment:"rows kept above the screen when capturing"`
	BufferLimit    int    `toml:"buffer_limit" comment:"automatic paste buffers kept"`
	CopyCommand    string `toml:"copy_command" comment:"shell command fed every copy, e.g. \"pbcopy\""`
	Theme          string `toml:"theme"`

	Keybindings KeybindingsConfig `toml:"keybindings"`
}

// KeybindingsConfig maps keys to command lines for each key table. A
// command line is a verb followed by its arguments; "%%" in it is replaced
// with text read from a prompt.
type KeybindingsConfig struct {
	Vi    map[string]string `toml:"vi"`
	Emacs map[string]string `toml:"emacs"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		ModeKeys:       "vi",
		WordSeparators: copymode.DefaultWordSeparators,
		HistoryLimit:   DefaultHistoryLimit,
		BufferLimit:    DefaultBufferLimit,
		Theme:          "default",
		Keybindings: KeybindingsConfig{
			Vi:    defaultViBindings(),
			Emacs: defaultEmacsBindings(),
		},
	}
}

// GetConfigPath returns the path of config.toml, creating its directory.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("copyscope", "config.toml"))
}

// GetLogPath returns the path of the debug log file.
func GetLogPath() (string, error) {
	return xdg.StateFile(filepath.Join("copyscope", "debug.log"))
}

// LoadUserConfig reads the config file, writing the defaults first if it
// does not exist.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine config path: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates the config file at path. Missing options
// take their default values.
func LoadFile(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML config data.
func Parse(data []byte) (*UserConfig, error) {
	cfg := &UserConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fillMissingDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillMissingDefaults fills in options left out of the file. Key bindings
// are merged so a user table only needs to list its changes.
func fillMissingDefaults(cfg *UserConfig) {
	def := DefaultConfig()
	if cfg.ModeKeys == "" {
		cfg.ModeKeys = def.ModeKeys
	}
	if cfg.WordSeparators == "" {
		cfg.WordSeparators = def.WordSeparators
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
	if cfg.BufferLimit == 0 {
		cfg.BufferLimit = def.BufferLimit
	}
	if cfg.Theme == "" {
		cfg.Theme = def.Theme
	}
	cfg.Keybindings.Vi = mergeBindings(def.Keybindings.Vi, cfg.Keybindings.Vi)
	cfg.Keybindings.Emacs = mergeBindings(def.Keybindings.Emacs, cfg.Keybindings.Emacs)
}

// mergeBindings overlays user on defaults. An empty command unbinds a key.
func mergeBindings(defaults, user map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(user))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range user {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Validate checks option values.
func (c *UserConfig) Validate() error {
	var errs []error
	if _, err := copymode.ParseModeKeys(c.ModeKeys); err != nil {
		errs = append(errs, fmt.Errorf("mode_keys: %w", err))
	}
	if c.HistoryLimit < 0 || c.HistoryLimit > MaxHistoryLimit {
		errs = append(errs, fmt.Errorf("history_limit: must be between 0 and %d, got %d", MaxHistoryLimit, c.HistoryLimit))
	}
	if c.BufferLimit < 0 {
		errs = append(errs, fmt.Errorf("buffer_limit: must not be negative, got %d", c.BufferLimit))
	}

	n := NewKeyNormalizer()
	for table, bindings := range map[string]map[string]string{
		"vi":    c.Keybindings.Vi,
		"emacs": c.Keybindings.Emacs,
	} {
		for key, line := range bindings {
			if ok, msg := n.ValidateKey(key); !ok {
				errs = append(errs, fmt.Errorf("keybindings.%s: %s", table, msg))
			}
			if _, err := script.ParseLine(line); err != nil {
				errs = append(errs, fmt.Errorf("keybindings.%s.%s: %w", table, key, err))
			}
		}
	}
	return errors.Join(errs...)
}

// SaveConfig writes cfg to path with a short header.
func SaveConfig(cfg *UserConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# copyscope configuration\n")
	sb.WriteString("#\n")
	sb.WriteString("# Key bindings map a key to a copy mode command line. \"%%\" in a\n")
	sb.WriteString("# command line is replaced with text typed at a prompt.\n\n")
	sb.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Bindings returns the key table for the given mode-keys name.
func (c *UserConfig) Bindings(modeKeys string) map[string]string {
	if strings.EqualFold(modeKeys, "emacs") {
		return c.Keybindings.Emacs
	}
	return c.Keybindings.Vi
}
