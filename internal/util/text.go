// Package util holds small terminal text helpers shared by the renderers
// and the CLI.
package util

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// TruncateANSI truncates s to maxWidth visual columns, ending in "..."
// when cut. Escape sequences and wide characters are measured correctly.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// PadANSI right-pads s with spaces to width visual columns. Longer
// strings are truncated.
func PadANSI(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return TruncateANSI(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// TerminalWidth reports the column count of f, or DefaultWidth when f
// is not a terminal.
func TerminalWidth(f *os.File) int {
	if f == nil {
		return DefaultWidth
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}
