package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Iron-Ham/bunkplan/internal/dashboard"
	"github.com/Iron-Ham/bunkplan/internal/portal"
	"github.com/Iron-Ham/bunkplan/internal/projector"
)

// Glamour standard style names.
const (
	GlamourDark    = "dark"
	GlamourDracula = "dracula"
	GlamourNoTTY   = "notty"
)

// PlanMarkdown writes a plan as a markdown report.
func PlanMarkdown(p Plan) string {
	var b strings.Builder
	res := p.Result

	b.WriteString("# Bunk plan\n\n")
	fmt.Fprintf(&b, "| Present | Total | Target | Attendance | Status |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %s | %s | %s |\n\n",
		p.Count.Present, p.Count.Total, formatTarget(p.TargetPercent), formatPercent(res.Percentage), statusLabel(res.Status))

	fmt.Fprintf(&b, "**%s**\n\n", p.Message)

	if len(p.Scenarios) == 0 {
		return b.String()
	}

	b.WriteString("## Scenarios\n\n")
	b.WriteString("| Scenario | Attendance | Change | Tier |\n")
	b.WriteString("|---|---:|---:|---|\n")
	for _, s := range p.Scenarios {
		change := ""
		if s.Kind == projector.KindAttend || s.Delta > 0 {
			change = fmt.Sprintf("%+.1f%%", s.Change)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", ScenarioLabel(s), formatPercent(s.Percentage), change, s.Tier)
	}
	return b.String()
}

// AttendanceMarkdown writes the portal overview and its cards as a
// markdown report.
func AttendanceMarkdown(ov *portal.Overview, cards []dashboard.Card) string {
	var b strings.Builder

	name := "Attendance"
	if ov != nil && ov.Attendance != nil && ov.Attendance.FullName != "" {
		name = ov.Attendance.FullName
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	if ov != nil && ov.SummaryErr == nil {
		s := dashboard.Overall(ov.Summary)
		fmt.Fprintf(&b, "Overall attendance: **%s** (%s)\n\n", formatPercent(s.Percentage), s.Band)
	}
	if ov != nil && ov.PerformanceErr == nil && ov.CGPA != "" {
		fmt.Fprintf(&b, "CGPA: **%s**\n\n", ov.CGPA)
	}

	if len(cards) == 0 {
		b.WriteString("_No courses found._\n")
		return b.String()
	}

	b.WriteString("| Course | Component | Attended | Attendance | Status | Guidance |\n")
	b.WriteString("|---|---|---:|---:|---|---|\n")
	for _, c := range cards {
		fmt.Fprintf(&b, "| %s %s | %s | %d/%d | %s | %s | %s |\n",
			escapeCell(c.CourseCode), escapeCell(c.CourseName), escapeCell(c.Component),
			c.Count.Present, c.Count.Total, formatPercent(c.Result.Percentage),
			statusLabel(c.Result.Status), c.Message)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// GlamourStyle picks the glamour style matching a theme.
func GlamourStyle(themeName string) string {
	if themeName == GlamourDracula {
		return GlamourDracula
	}
	return GlamourDark
}

// Markdown renders md for the terminal with the given glamour style,
// wrapped to width.
func Markdown(md, style string, width int) (string, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// Markdown renders md in the style matching the renderer's theme.
func (r *Renderer) Markdown(md string) (string, error) {
	return Markdown(md, GlamourStyle(r.theme.Name), r.width)
}
