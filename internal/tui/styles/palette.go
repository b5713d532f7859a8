package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName identifies a built-in color theme.
type ThemeName string

// Built-in themes.
const (
	ThemeCyberpunk  ThemeName = "cyberpunk"
	ThemeMinimalist ThemeName = "minimalist"
	ThemeNord       ThemeName = "nord"
	ThemeDracula    ThemeName = "dracula"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = ThemeCyberpunk

// BuiltinThemes returns the built-in theme names, default first.
func BuiltinThemes() []string {
	return []string{
		string(ThemeCyberpunk),
		string(ThemeMinimalist),
		string(ThemeNord),
		string(ThemeDracula),
	}
}

// IsBuiltinTheme checks if a theme name is a built-in theme.
func IsBuiltinTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines every color a theme supplies.
type ColorPalette struct {
	// Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color

	// Scenario tiers, from the 85% mark down to critical
	TierExcellent lipgloss.Color
	TierSafe      lipgloss.Color
	TierWarning   lipgloss.Color
	TierCritical  lipgloss.Color

	// Lecture marks in the day-wise log
	MarkPresent  lipgloss.Color
	MarkAbsent   lipgloss.Color
	MarkAdjusted lipgloss.Color
}

// CyberpunkPalette returns the neon-on-dark default palette.
func CyberpunkPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#22D3EE"), // cyan
		Secondary: lipgloss.Color("#F472B6"), // magenta
		Warning:   lipgloss.Color("#FACC15"),
		Error:     lipgloss.Color("#F87171"),
		Muted:     lipgloss.Color("#6B7280"),
		Surface:   lipgloss.Color("#0F172A"),
		Text:      lipgloss.Color("#E5E7EB"),
		Border:    lipgloss.Color("#334155"),

		TierExcellent: lipgloss.Color("#34D399"),
		TierSafe:      lipgloss.Color("#22D3EE"),
		TierWarning:   lipgloss.Color("#FACC15"),
		TierCritical:  lipgloss.Color("#F87171"),

		MarkPresent:  lipgloss.Color("#34D399"),
		MarkAbsent:   lipgloss.Color("#F87171"),
		MarkAdjusted: lipgloss.Color("#FACC15"),
	}
}

// MinimalistPalette returns a muted slate palette.
func MinimalistPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#CBD5E1"),
		Secondary: lipgloss.Color("#94A3B8"),
		Warning:   lipgloss.Color("#D97706"),
		Error:     lipgloss.Color("#E11D48"),
		Muted:     lipgloss.Color("#64748B"),
		Surface:   lipgloss.Color("#1E293B"),
		Text:      lipgloss.Color("#F1F5F9"),
		Border:    lipgloss.Color("#475569"),

		TierExcellent: lipgloss.Color("#10B981"),
		TierSafe:      lipgloss.Color("#94A3B8"),
		TierWarning:   lipgloss.Color("#D97706"),
		TierCritical:  lipgloss.Color("#E11D48"),

		MarkPresent:  lipgloss.Color("#10B981"),
		MarkAbsent:   lipgloss.Color("#E11D48"),
		MarkAdjusted: lipgloss.Color("#D97706"),
	}
}

// NordPalette returns the arctic, north-bluish palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // frost
		Secondary: lipgloss.Color("#A3BE8C"), // aurora green
		Warning:   lipgloss.Color("#EBCB8B"),
		Error:     lipgloss.Color("#BF616A"),
		Muted:     lipgloss.Color("#4C566A"),
		Surface:   lipgloss.Color("#2E3440"),
		Text:      lipgloss.Color("#ECEFF4"),
		Border:    lipgloss.Color("#3B4252"),

		TierExcellent: lipgloss.Color("#A3BE8C"),
		TierSafe:      lipgloss.Color("#81A1C1"),
		TierWarning:   lipgloss.Color("#EBCB8B"),
		TierCritical:  lipgloss.Color("#BF616A"),

		MarkPresent:  lipgloss.Color("#A3BE8C"),
		MarkAbsent:   lipgloss.Color("#BF616A"),
		MarkAdjusted: lipgloss.Color("#D08770"),
	}
}

// DraculaPalette returns the Dracula palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // purple
		Secondary: lipgloss.Color("#50FA7B"), // green
		Warning:   lipgloss.Color("#F1FA8C"),
		Error:     lipgloss.Color("#FF5555"),
		Muted:     lipgloss.Color("#6272A4"),
		Surface:   lipgloss.Color("#282A36"),
		Text:      lipgloss.Color("#F8F8F2"),
		Border:    lipgloss.Color("#44475A"),

		TierExcellent: lipgloss.Color("#50FA7B"),
		TierSafe:      lipgloss.Color("#8BE9FD"),
		TierWarning:   lipgloss.Color("#FFB86C"),
		TierCritical:  lipgloss.Color("#FF5555"),

		MarkPresent:  lipgloss.Color("#50FA7B"),
		MarkAbsent:   lipgloss.Color("#FF5555"),
		MarkAdjusted: lipgloss.Color("#F1FA8C"),
	}
}

// GetPalette returns the palette for a built-in theme.
// Unknown names fall back to the default palette.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeMinimalist:
		return MinimalistPalette()
	case ThemeNord:
		return NordPalette()
	case ThemeDracula:
		return DraculaPalette()
	default:
		return CyberpunkPalette()
	}
}
