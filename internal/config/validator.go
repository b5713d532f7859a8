package config

import (
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "planner.target_percentage")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the list of built-in theme names
func ValidThemes() []string {
	return []string{"cyberpunk", "minimalist", "nord", "dracula"}
}

// IsThemeFile reports whether a theme setting names a YAML theme file
// rather than a built-in theme.
func IsThemeFile(theme string) bool {
	ext := strings.ToLower(filepath.Ext(theme))
	return ext == ".yaml" || ext == ".yml"
}

// maxDelta caps scenario deltas to a semester's worth of classes.
const maxDelta = 1000

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePlanner()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validatePortal()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validatePlanner validates the PlannerConfig
func (c *Config) validatePlanner() []ValidationError {
	var errors []ValidationError

	pct := c.Planner.TargetPercentage
	if math.IsNaN(pct) || pct <= 0 || pct > 100 {
		errors = append(errors, ValidationError{
			Field:   "planner.target_percentage",
			Value:   pct,
			Message: "must be greater than 0 and at most 100",
		})
	}

	errors = append(errors, validateDeltas("planner.skip_deltas", c.Planner.SkipDeltas)...)
	errors = append(errors, validateDeltas("planner.attend_deltas", c.Planner.AttendDeltas)...)

	if c.Planner.TargetFallback < 0 {
		errors = append(errors, ValidationError{
			Field:   "planner.target_fallback",
			Value:   c.Planner.TargetFallback,
			Message: "must be non-negative (0 hides the entry)",
		})
	}

	return errors
}

func validateDeltas(field string, deltas []int) []ValidationError {
	var errors []ValidationError
	for i, d := range deltas {
		if d < 0 || d > maxDelta {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Value:   d,
				Message: fmt.Sprintf("must be between 0 and %d", maxDelta),
			})
		}
	}
	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.Theme != "" && !slices.Contains(ValidThemes(), c.TUI.Theme) && !IsThemeFile(c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s, or a .yaml theme file", strings.Join(ValidThemes(), ", ")),
		})
	}

	return errors
}

// validatePortal validates the PortalConfig
func (c *Config) validatePortal() []ValidationError {
	var errors []ValidationError

	u, err := url.Parse(c.Portal.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "portal.base_url",
			Value:   c.Portal.BaseURL,
			Message: "must be an absolute http or https URL",
		})
	}

	if strings.TrimSpace(c.Portal.AuthScheme) == "" || strings.ContainsAny(c.Portal.AuthScheme, " \t\r\n") {
		errors = append(errors, ValidationError{
			Field:   "portal.auth_scheme",
			Value:   c.Portal.AuthScheme,
			Message: "must be a single non-empty word",
		})
	}

	if c.Portal.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "portal.timeout_seconds",
			Value:   c.Portal.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	const maxTimeoutSeconds = 300
	if c.Portal.TimeoutSeconds > maxTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "portal.timeout_seconds",
			Value:   c.Portal.TimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d seconds", maxTimeoutSeconds),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 100
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	if strings.ContainsRune(c.Logging.Dir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "logging.dir",
			Value:   c.Logging.Dir,
			Message: "path contains invalid null character",
		})
	}

	return errors
}
