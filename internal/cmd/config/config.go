// Package config provides CLI commands for managing bunkplan configuration.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/bunkplan/internal/config"
	tuiconfig "github.com/Iron-Ham/bunkplan/internal/tui/config"
	"github.com/Iron-Ham/bunkplan/internal/tui/styles"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

const maskedToken = "********"

// Register adds all config-related commands to the given parent command.
// The parent must define the persistent --config flag.
func Register(parent *cobra.Command) {
	parent.AddCommand(newConfigCmd())
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or modify bunkplan configuration",
		Long: `View or modify bunkplan configuration.

Without arguments, opens an interactive configuration UI.
Use 'config show' to display configuration non-interactively.
Use subcommands to modify settings or create a config file.`,
		Args: cobra.NoArgs,
		// Replaces the root hook: config commands must work on a broken
		// config file so it can be repaired.
		PersistentPreRunE: initConfig,
		RunE:              runConfigInteractive,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration",
			Args:  cobra.NoArgs,
			RunE:  runConfigShow,
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Long:  setHelp(),
			Args:  cobra.ExactArgs(2),
			RunE:  runConfigSet,
		},
		newConfigInitCmd(),
		&cobra.Command{
			Use:   "path",
			Short: "Show the config file path",
			Args:  cobra.NoArgs,
			RunE:  runConfigPath,
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Open config file in your editor",
			Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.`,
			Args: cobra.NoArgs,
			RunE: runConfigEdit,
		},
		&cobra.Command{
			Use:   "reset [key]",
			Short: "Reset configuration to defaults",
			Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  bunkplan config reset                            # Reset all to defaults
  bunkplan config reset planner.target_percentage  # Reset only the target`,
			Args: cobra.MaximumNArgs(1),
			RunE: runConfigReset,
		},
		newThemeCmd(),
	)
	return configCmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long:  `Create a default config file at ~/.config/bunkplan/config.yaml with all available options.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeDefaultConfig(cmd, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func setHelp() string {
	var b strings.Builder
	b.WriteString(`Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  bunkplan config set planner.target_percentage 80
  bunkplan config set planner.skip_deltas 0,2,4,6
  bunkplan config set tui.theme ~/themes/solarized.yaml

Valid keys:
`)
	for _, c := range tuiconfig.Categories() {
		for _, item := range c.Items {
			fmt.Fprintf(&b, "  %-27s - %s\n", item.Key, item.Description)
			if len(item.Options) > 0 {
				fmt.Fprintf(&b, "  %-27s   Options: %s\n", "", strings.Join(item.Options, ", "))
			}
		}
	}
	b.WriteString("\nThe portal token is stored with 'bunkplan login --save'.")
	return b.String()
}

// initConfig reads the config file, warning instead of failing when it
// cannot be parsed.
func initConfig(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := appconfig.Init(cfgFile); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	return nil
}

// theme returns the configured theme, or the default when it cannot be loaded.
func theme() styles.Theme {
	t, err := styles.Load(viper.GetString("tui.theme"))
	if err != nil {
		return styles.Builtin(styles.DefaultTheme)
	}
	return t
}

func runConfigInteractive(cmd *cobra.Command, args []string) error {
	return tuiconfig.Run(theme(), appconfig.ActivePath())
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\nShowing defaults.\n\n", err)
		cfg = appconfig.Default()
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "Config file: (none - using defaults)")
	}
	fmt.Fprintln(out)

	shown := *cfg
	if shown.Portal.Token != "" {
		shown.Portal.Token = maskedToken
	}
	data, err := appconfig.MarshalYAML(&shown)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := tuiconfig.Set(key, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w\nRun 'bunkplan config set --help' to see valid keys", key, err)
	}
	path, err := save()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, viper.Get(key))
	fmt.Fprintf(out, "Config saved to %s\n", path)
	return nil
}

func writeDefaultConfig(cmd *cobra.Command, force bool) error {
	path := appconfig.ActivePath()
	if err := appconfig.WriteDefault(path, force); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", path)
	fmt.Fprintln(out, "Edit this file to customize bunkplan's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			fmt.Fprintf(out, "Active config: %s\n", used)
		} else {
			fmt.Fprintf(out, "Config path: %s (not created)\n", used)
		}
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	fmt.Fprintf(out, "\nEnvironment variables: %s_* (e.g., %s_PLANNER_TARGET_PERCENTAGE, %s_PORTAL_TOKEN)\n",
		appconfig.EnvPrefix, appconfig.EnvPrefix, appconfig.EnvPrefix)
	fmt.Fprintln(out, "A .env file in the working directory is also read.")
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := appconfig.ActivePath()

	// Check if config file exists, if not create it
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintln(out, "Config file doesn't exist, creating with defaults...")
		if err := writeDefaultConfig(cmd, false); err != nil {
			return err
		}
	}

	// Find an editor
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "nano", "vi"} {
			if _, err := execLookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(out, "Config file saved: %s\n", configFile)
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	defaults := tuiconfig.Defaults()

	if len(args) == 0 {
		keys := make([]string, 0, len(defaults))
		for key := range defaults {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			viper.Set(key, defaults[key])
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'bunkplan config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	path, err := save()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", path)
	return nil
}

// save writes the validated viper state to the active config file.
func save() (string, error) {
	cfg, err := appconfig.Load()
	if err != nil {
		return "", fmt.Errorf("configuration is invalid, not saved: %w", err)
	}
	path := appconfig.ActivePath()
	if err := appconfig.Save(path, cfg); err != nil {
		return "", err
	}
	return path, nil
}
