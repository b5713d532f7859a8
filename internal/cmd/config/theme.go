package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/bunkplan/internal/render"
	"github.com/Iron-Ham/bunkplan/internal/tui/styles"
)

func newThemeCmd() *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Manage color themes",
		Long: `Manage color themes for bunkplan output and the planner.

bunkplan ships built-in themes. A custom theme is a YAML file; set
tui.theme to its path to use it.

Use 'theme list' to see all built-in themes.
Use 'theme export' to create a template for a custom theme.
Use 'theme info' to preview a theme.`,
	}

	themeCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the built-in themes",
			Args:  cobra.NoArgs,
			RunE:  runThemeList,
		},
		&cobra.Command{
			Use:   "export <theme-name> [output-file]",
			Short: "Export a built-in theme to YAML",
			Long: `Export a built-in theme to YAML format for customization or sharing.

If no output file is specified, the YAML is printed to stdout.

Examples:
  bunkplan config theme export nord                 # Print nord to stdout
  bunkplan config theme export dracula mine.yaml    # Save dracula to a file
  bunkplan config set tui.theme ./mine.yaml         # Use the edited copy`,
			Args: cobra.RangeArgs(1, 2),
			RunE: runThemeExport,
		},
		&cobra.Command{
			Use:   "info <theme-name|theme-file>",
			Short: "Show information about a theme",
			Args:  cobra.ExactArgs(1),
			RunE:  runThemeInfo,
		},
	)
	return themeCmd
}

func runThemeList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	current := viper.GetString("tui.theme")

	fmt.Fprintln(out, "Built-in themes:")
	for _, name := range styles.BuiltinThemes() {
		marker := "  "
		if name == current {
			marker = "* "
		}
		fmt.Fprintf(out, "%s%s\n", marker, name)
	}
	if current != "" && !styles.IsBuiltinTheme(current) {
		fmt.Fprintf(out, "\nCurrent theme file: %s\n", current)
	}
	return nil
}

func runThemeExport(cmd *cobra.Command, args []string) error {
	themeName := args[0]
	if !styles.IsBuiltinTheme(themeName) {
		return fmt.Errorf("unknown theme: %s\n\nRun 'bunkplan config theme list' to see available themes", themeName)
	}

	data, err := styles.ExportTheme(styles.ThemeName(themeName))
	if err != nil {
		return fmt.Errorf("exporting theme: %w", err)
	}

	if len(args) > 1 {
		outputPath := args[1]
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing to %s: %w", outputPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme exported to: %s\n", outputPath)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	setting := args[0]

	t, err := styles.Load(setting)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Theme: %s\n", t.Name)
	if styles.IsBuiltinTheme(setting) {
		fmt.Fprintln(out, "Type: Built-in")
	} else {
		fmt.Fprintf(out, "Type: Custom (%s)\n", setting)
	}
	fmt.Fprintf(out, "Markdown style: %s\n", render.GlamourStyle(t.Name))
	fmt.Fprintln(out)

	p := t.Palette
	for _, c := range []struct {
		name  string
		color lipgloss.Color
	}{
		{"primary", p.Primary},
		{"secondary", p.Secondary},
		{"warning", p.Warning},
		{"error", p.Error},
		{"tier excellent", p.TierExcellent},
		{"tier safe", p.TierSafe},
		{"tier warning", p.TierWarning},
		{"tier critical", p.TierCritical},
	} {
		swatch := lipgloss.NewStyle().Foreground(c.color).Render("■■")
		fmt.Fprintf(out, "  %-15s %s %s\n", c.name, swatch, c.color)
	}
	return nil
}
