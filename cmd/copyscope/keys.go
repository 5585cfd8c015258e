package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/copyscope/internal/config"
	"github.com/Gaurav-Gosain/copyscope/internal/theme"
)

func newKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:     "keys",
		Aliases: []string{"keybinds", "kb"},
		Short:   "View keybinding configuration",
		Long:    `View and inspect the copy mode key tables`,
	}

	keysListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long: `Display the keybindings of the active key table in formatted tables

Use --mode-keys to list the other table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings(cmd.OutOrStdout())
		},
	}

	keysCustomCmd := &cobra.Command{
		Use:   "list-custom",
		Short: "List customized keybindings",
		Long: `Display only keybindings that differ from defaults

Shows a comparison of default and custom command lines for both tables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCustomKeybindings(cmd.OutOrStdout())
		},
	}

	keysCmd.AddCommand(keysListCmd, keysCustomCmd)
	return keysCmd
}

func tableStyles() (header, cell, border lipgloss.Style) {
	header = lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Padding(0, 1)
	cell = lipgloss.NewStyle().Padding(0, 1)
	border = lipgloss.NewStyle().Foreground(theme.CLITableDim())
	return header, cell, border
}

func newTable(headers []string, rows [][]string) *table.Table {
	headerStyle, cellStyle, borderStyle := tableStyles()
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// listKeybindings prints all configured keybindings in a pretty table
func listKeybindings(out io.Writer) error {
	logger, closer, err := newLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	registry := config.NewKeybindRegistry(cfg)

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableBorder())
	section := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableKey())

	fmt.Fprintln(out)
	fmt.Fprintln(out, title.Render(fmt.Sprintf("copyscope keybindings (%s)", cfg.ModeKeys)))
	fmt.Fprintln(out)

	for _, s := range config.GetKeybindings(registry) {
		if len(s.Bindings) == 0 {
			continue
		}
		rows := make([][]string, 0, len(s.Bindings))
		for _, b := range s.Bindings {
			rows = append(rows, []string{b.Key, b.Description})
		}
		fmt.Fprintln(out, section.Render(s.Title))
		fmt.Fprintln(out, newTable([]string{"Keys", "Action"}, rows).Render())
		fmt.Fprintln(out)
	}

	note := lipgloss.NewStyle().Foreground(theme.CLITableDim()).Italic(true).
		Render("Digits give a repeat count (alt+digit in emacs). F1 shows this list inside the viewer.")
	fmt.Fprintln(out, note)
	fmt.Fprintln(out)
	return nil
}

// listCustomKeybindings shows only the keybindings that differ from defaults
func listCustomKeybindings(out io.Writer) error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	customizations := findCustomizations(userConfig, config.DefaultConfig())

	if len(customizations) == 0 {
		fmt.Fprintln(out, lipgloss.NewStyle().Foreground(theme.CLITableDim()).
			Render("No custom keybindings configured. All keybindings are using defaults."))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'copyscope keys list' to see all keybindings.")
		return nil
	}

	rows := make([][]string, 0, len(customizations))
	for _, c := range customizations {
		rows = append(rows, []string{c.Table, c.Key, c.Default, c.Custom})
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableBorder()).Render("Custom Keybindings"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, newTable([]string{"Table", "Key", "Default", "Custom"}, rows).Render())
	fmt.Fprintln(out)
	fmt.Fprintln(out, lipgloss.NewStyle().Foreground(theme.CLITableKey()).
		Render(fmt.Sprintf("Found %d customized keybinding(s)", len(customizations))))
	fmt.Fprintln(out)
	return nil
}

// Customization is a key whose command line differs from the default.
// An empty Default is an added key; an empty Custom is an unbound one.
type Customization struct {
	Table   string
	Key     string
	Default string
	Custom  string
}

// findCustomizations compares both key tables against the defaults.
func findCustomizations(userCfg, defaultCfg *config.UserConfig) []Customization {
	var customizations []Customization

	compare := func(name string, user, def map[string]string) {
		keys := slices.Sorted(maps.Keys(user))
		for k := range def {
			if _, ok := user[k]; !ok {
				keys = append(keys, k)
			}
		}
		slices.Sort(keys)
		keys = slices.Compact(keys)

		for _, k := range keys {
			u, d := user[k], def[k]
			if u == d {
				continue
			}
			customizations = append(customizations, Customization{
				Table:   name,
				Key:     k,
				Default: d,
				Custom:  u,
			})
		}
	}

	compare("vi", userCfg.Keybindings.Vi, defaultCfg.Keybindings.Vi)
	compare("emacs", userCfg.Keybindings.Emacs, defaultCfg.Keybindings.Emacs)
	return customizations
}
