package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/bunkplan/internal/logging"
	"github.com/Iron-Ham/bunkplan/internal/projector"
)

// EnvPrefix is prepended to every environment override, e.g. BUNKPLAN_PORTAL_TOKEN.
const EnvPrefix = "BUNKPLAN"

// Config represents the complete bunkplan configuration
type Config struct {
	Planner PlannerConfig `mapstructure:"planner" yaml:"planner"`
	TUI     TUIConfig     `mapstructure:"tui" yaml:"tui"`
	Portal  PortalConfig  `mapstructure:"portal" yaml:"portal"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// PlannerConfig controls the projection and the scenario grid
type PlannerConfig struct {
	// TargetPercentage is the minimum attendance to stay safe (default: 75)
	TargetPercentage float64 `mapstructure:"target_percentage" yaml:"target_percentage"`
	// SkipDeltas are the "what if I miss k more" rows (default: 0, 1, 3, 5, 10)
	SkipDeltas []int `mapstructure:"skip_deltas" yaml:"skip_deltas"`
	// AttendDeltas are the "what if I attend k more" rows (default: 1, 3, 5, 10)
	AttendDeltas []int `mapstructure:"attend_deltas" yaml:"attend_deltas"`
	// TargetFallback is the trailing attend row shown when reaching the target
	// needs no more than the largest attend delta (default: 15, 0 = hide)
	TargetFallback int `mapstructure:"target_fallback" yaml:"target_fallback"`
}

// TUIConfig controls terminal rendering
type TUIConfig struct {
	// Theme is the color theme (default: "cyberpunk")
	// Options: "cyberpunk", "minimalist", "nord", "dracula"
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// PortalConfig controls the attendance portal client
type PortalConfig struct {
	// BaseURL is the portal origin, without a trailing path
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// AuthScheme prefixes the token in the Authorization header
	AuthScheme string `mapstructure:"auth_scheme" yaml:"auth_scheme"`
	// TimeoutSeconds bounds every portal request (default: 15)
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// Token is the session token returned by login. Prefer BUNKPLAN_PORTAL_TOKEN
	// or --token over storing it in the config file.
	Token string `mapstructure:"token" yaml:"token,omitempty"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logs are written to Dir (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is where bunkplan.log is written. Empty means <config dir>/logs.
	// Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	deltas := projector.DefaultDeltas()
	return &Config{
		Planner: PlannerConfig{
			TargetPercentage: projector.DefaultTargetPercentage,
			SkipDeltas:       deltas.Skip,
			AttendDeltas:     deltas.Attend,
			TargetFallback:   deltas.TargetFallback,
		},
		TUI: TUIConfig{
			Theme: "cyberpunk",
		},
		Portal: PortalConfig{
			BaseURL:        "https://kiet.cybervidya.net",
			AuthScheme:     "GlobalEducation",
			TimeoutSeconds: 15,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "", // Empty means use default: <config dir>/logs
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// TargetRatio returns the target percentage as a ratio in (0, 1]
func (p *PlannerConfig) TargetRatio() (float64, error) {
	return projector.TargetFromPercent(p.TargetPercentage)
}

// Deltas returns the scenario grid configuration
func (p *PlannerConfig) Deltas() projector.Deltas {
	return projector.Deltas{
		Skip:           p.SkipDeltas,
		Attend:         p.AttendDeltas,
		TargetFallback: p.TargetFallback,
	}
}

// Timeout returns the request timeout as a time.Duration
func (p *PortalConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// ResolveDir returns the resolved log directory.
// If Dir is empty, it returns <config dir>/logs.
// If Dir starts with ~, it expands to the user's home directory.
func (l *LoggingConfig) ResolveDir() string {
	if l.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}

	path := l.Dir
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	return path
}

// Rotation returns the logging rotation settings
func (l *LoggingConfig) Rotation() logging.RotationConfig {
	return logging.RotationConfig{
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Planner defaults
	viper.SetDefault("planner.target_percentage", defaults.Planner.TargetPercentage)
	viper.SetDefault("planner.skip_deltas", defaults.Planner.SkipDeltas)
	viper.SetDefault("planner.attend_deltas", defaults.Planner.AttendDeltas)
	viper.SetDefault("planner.target_fallback", defaults.Planner.TargetFallback)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)

	// Portal defaults
	viper.SetDefault("portal.base_url", defaults.Portal.BaseURL)
	viper.SetDefault("portal.auth_scheme", defaults.Portal.AuthScheme)
	viper.SetDefault("portal.timeout_seconds", defaults.Portal.TimeoutSeconds)
	viper.SetDefault("portal.token", defaults.Portal.Token)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Init wires viper to the config file, the environment and an optional
// .env file in the working directory. cfgFile overrides the default path.
func Init(cfgFile string) error {
	// A missing .env is normal; any other failure is worth reporting.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(ConfigDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file, found by search or named with --config, means defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// MarshalYAML renders cfg as the YAML document written by config init.
func MarshalYAML(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. It refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
	}
	return writeYAML(path, Default())
}

// Save writes cfg to path. The portal token is kept only when it was
// already read from the config file, so tokens given through the
// environment or a flag never reach disk.
func Save(path string, cfg *Config) error {
	out := *cfg
	if !viper.InConfig("portal.token") {
		out.Portal.Token = ""
	}
	return writeYAML(path, &out)
}

// SaveToken stores token in the config file at path alongside the
// current settings.
func SaveToken(path, token string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.Portal.Token = token
	return writeYAML(path, cfg)
}

func writeYAML(path string, cfg *Config) error {
	data, err := MarshalYAML(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bunkplan")
	}
	// Fall back to ~/.config/bunkplan
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bunkplan"
	}
	return filepath.Join(home, ".config", "bunkplan")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ActivePath returns the file settings are saved to: the file passed to
// Init or found by it, else the default config file.
func ActivePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return ConfigFile()
}
