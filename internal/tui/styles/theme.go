package styles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/bunkplan/internal/portal"
	"github.com/Iron-Ham/bunkplan/internal/projector"
)

// Theme is a palette plus the styles derived from it. It is a plain
// value so renderers and models can hold their own copy.
type Theme struct {
	Name    string
	Palette ColorPalette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Box      lipgloss.Style
	Focused  lipgloss.Style
	Header   lipgloss.Style
	Target   lipgloss.Style
}

// New builds a Theme from a palette.
func New(name string, p *ColorPalette) Theme {
	return Theme{
		Name:    name,
		Palette: *p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary),
		Label: lipgloss.NewStyle().
			Foreground(p.Muted),
		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),
		Help: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Error),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border),
		Target: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
	}
}

// Builtin returns the Theme for a built-in name. Unknown names yield the
// default theme.
func Builtin(name ThemeName) Theme {
	if !IsBuiltinTheme(string(name)) {
		name = DefaultTheme
	}
	return New(string(name), GetPalette(name))
}

// Load resolves a theme setting, which is either a built-in theme name or
// a path to a YAML theme file. An empty setting yields the default theme.
func Load(setting string) (Theme, error) {
	setting = strings.TrimSpace(setting)
	if setting == "" {
		return Builtin(DefaultTheme), nil
	}
	if IsBuiltinTheme(setting) {
		return Builtin(ThemeName(setting)), nil
	}

	ext := strings.ToLower(filepath.Ext(setting))
	if ext != ".yaml" && ext != ".yml" {
		return Theme{}, fmt.Errorf("unknown theme %q (valid: %s)", setting, strings.Join(BuiltinThemes(), ", "))
	}

	file, err := LoadThemeFile(expandHome(setting))
	if err != nil {
		return Theme{}, err
	}
	return New(file.Name, file.ToPalette()), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// TierColor returns the color for a scenario tier.
func (t Theme) TierColor(tier projector.Tier) lipgloss.Color {
	switch tier {
	case projector.TierExcellent:
		return t.Palette.TierExcellent
	case projector.TierSafe:
		return t.Palette.TierSafe
	case projector.TierWarning:
		return t.Palette.TierWarning
	default:
		return t.Palette.TierCritical
	}
}

// ForTier styles a projected percentage by tier.
func (t Theme) ForTier(tier projector.Tier) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.TierColor(tier))
}

// ForBand styles the overall attendance label.
func (t Theme) ForBand(b projector.Band) lipgloss.Style {
	var c lipgloss.Color
	switch b {
	case projector.BandExcellent:
		c = t.Palette.TierExcellent
	case projector.BandSafe:
		c = t.Palette.TierSafe
	case projector.BandBorderline:
		c = t.Palette.TierWarning
	default:
		c = t.Palette.TierCritical
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// ForStatus styles a course status.
func (t Theme) ForStatus(s projector.Status) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch s {
	case projector.StatusSafe:
		return style.Foreground(t.Palette.TierSafe)
	case projector.StatusAtRisk:
		return style.Foreground(t.Palette.TierCritical)
	default:
		return style.Foreground(t.Palette.Muted)
	}
}

// ForMark styles a lecture mark in the day-wise log.
func (t Theme) ForMark(m portal.Mark) lipgloss.Style {
	switch m {
	case portal.MarkPresent:
		return lipgloss.NewStyle().Foreground(t.Palette.MarkPresent)
	case portal.MarkAbsent:
		return lipgloss.NewStyle().Foreground(t.Palette.MarkAbsent)
	case portal.MarkAdjusted:
		return lipgloss.NewStyle().Foreground(t.Palette.MarkAdjusted)
	default:
		return t.Muted
	}
}
