package styles

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ThemeFile is a custom theme definition loaded from YAML.
type ThemeFile struct {
	Name        string      `yaml:"name"`
	Author      string      `yaml:"author,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Version     string      `yaml:"version"`
	Colors      ThemeColors `yaml:"colors"`
}

// ThemeColors holds hex colors (#RGB or #RRGGBB). The base colors are
// required; tier and mark colors default to a base color when empty.
type ThemeColors struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Warning   string `yaml:"warning"`
	Error     string `yaml:"error"`
	Muted     string `yaml:"muted"`
	Surface   string `yaml:"surface"`
	Text      string `yaml:"text"`
	Border    string `yaml:"border"`

	Tiers ThemeTierColors `yaml:"tiers,omitempty"`
	Marks ThemeMarkColors `yaml:"marks,omitempty"`
}

// ThemeTierColors overrides the scenario tier colors.
type ThemeTierColors struct {
	Excellent string `yaml:"excellent,omitempty"`
	Safe      string `yaml:"safe,omitempty"`
	Warning   string `yaml:"warning,omitempty"`
	Critical  string `yaml:"critical,omitempty"`
}

// ThemeMarkColors overrides the day-wise mark colors.
type ThemeMarkColors struct {
	Present  string `yaml:"present,omitempty"`
	Absent   string `yaml:"absent,omitempty"`
	Adjusted string `yaml:"adjusted,omitempty"`
}

var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// LoadThemeFile loads and validates a theme from a YAML file.
func LoadThemeFile(path string) (*ThemeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	var theme ThemeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("parsing theme file: %w", err)
	}

	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	return &theme, nil
}

// Validate checks that the theme file is well-formed.
func (t *ThemeFile) Validate() error {
	if t.Name == "" {
		return errors.New("theme name is required")
	}
	if t.Version == "" {
		return errors.New("theme version is required")
	}
	if t.Version != "1" {
		return fmt.Errorf("unsupported theme version: %s (supported: 1)", t.Version)
	}

	// Ordered so the first failure reported is stable.
	required := []struct{ name, color string }{
		{"primary", t.Colors.Primary},
		{"secondary", t.Colors.Secondary},
		{"warning", t.Colors.Warning},
		{"error", t.Colors.Error},
		{"muted", t.Colors.Muted},
		{"surface", t.Colors.Surface},
		{"text", t.Colors.Text},
		{"border", t.Colors.Border},
	}
	for _, c := range required {
		if c.color == "" {
			return fmt.Errorf("color '%s' is required", c.name)
		}
		if !isValidHexColor(c.color) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.color)
		}
	}

	optional := []struct{ name, color string }{
		{"tiers.excellent", t.Colors.Tiers.Excellent},
		{"tiers.safe", t.Colors.Tiers.Safe},
		{"tiers.warning", t.Colors.Tiers.Warning},
		{"tiers.critical", t.Colors.Tiers.Critical},
		{"marks.present", t.Colors.Marks.Present},
		{"marks.absent", t.Colors.Marks.Absent},
		{"marks.adjusted", t.Colors.Marks.Adjusted},
	}
	for _, c := range optional {
		if c.color != "" && !isValidHexColor(c.color) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.color)
		}
	}

	return nil
}

func isValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// ToPalette converts the theme file to a ColorPalette.
func (t *ThemeFile) ToPalette() *ColorPalette {
	c := t.Colors
	return &ColorPalette{
		Primary:   lipgloss.Color(c.Primary),
		Secondary: lipgloss.Color(c.Secondary),
		Warning:   lipgloss.Color(c.Warning),
		Error:     lipgloss.Color(c.Error),
		Muted:     lipgloss.Color(c.Muted),
		Surface:   lipgloss.Color(c.Surface),
		Text:      lipgloss.Color(c.Text),
		Border:    lipgloss.Color(c.Border),

		TierExcellent: colorOrDefault(c.Tiers.Excellent, c.Secondary),
		TierSafe:      colorOrDefault(c.Tiers.Safe, c.Primary),
		TierWarning:   colorOrDefault(c.Tiers.Warning, c.Warning),
		TierCritical:  colorOrDefault(c.Tiers.Critical, c.Error),

		MarkPresent:  colorOrDefault(c.Marks.Present, c.Secondary),
		MarkAbsent:   colorOrDefault(c.Marks.Absent, c.Error),
		MarkAdjusted: colorOrDefault(c.Marks.Adjusted, c.Warning),
	}
}

func colorOrDefault(color, defaultColor string) lipgloss.Color {
	if color != "" {
		return lipgloss.Color(color)
	}
	return lipgloss.Color(defaultColor)
}

// ExportTheme renders a built-in theme as a YAML theme file, ready to
// be copied and customized.
func ExportTheme(name ThemeName) ([]byte, error) {
	if !IsBuiltinTheme(string(name)) {
		return nil, fmt.Errorf("unknown theme: %s", name)
	}
	return yaml.Marshal(paletteToThemeFile(string(name), GetPalette(name)))
}

func paletteToThemeFile(name string, p *ColorPalette) *ThemeFile {
	return &ThemeFile{
		Name:        name,
		Description: fmt.Sprintf("Exported from built-in theme '%s'", name),
		Version:     "1",
		Colors: ThemeColors{
			Primary:   string(p.Primary),
			Secondary: string(p.Secondary),
			Warning:   string(p.Warning),
			Error:     string(p.Error),
			Muted:     string(p.Muted),
			Surface:   string(p.Surface),
			Text:      string(p.Text),
			Border:    string(p.Border),
			Tiers: ThemeTierColors{
				Excellent: string(p.TierExcellent),
				Safe:      string(p.TierSafe),
				Warning:   string(p.TierWarning),
				Critical:  string(p.TierCritical),
			},
			Marks: ThemeMarkColors{
				Present:  string(p.MarkPresent),
				Absent:   string(p.MarkAbsent),
				Adjusted: string(p.MarkAdjusted),
			},
		},
	}
}
