package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/bunkplan/internal/dashboard"
	"github.com/Iron-Ham/bunkplan/internal/portal"
	"github.com/Iron-Ham/bunkplan/internal/util"
)

// Overview draws the student header, the overall band, CGPA and the
// upcoming classes. Panels whose request failed are shown as unavailable.
func (r *Renderer) Overview(ov *portal.Overview) string {
	t := r.theme
	var b strings.Builder

	if att := ov.Attendance; att != nil {
		b.WriteString(t.Title.Render(att.FullName))
		b.WriteString("\n")
		meta := strings.Join(nonEmpty(att.RegistrationNumber, att.BranchShortName, att.SectionName, att.SemesterName), " · ")
		if meta != "" {
			b.WriteString(t.Muted.Render(meta))
			b.WriteString("\n")
		}
	}

	b.WriteString(t.Label.Render("OVERALL "))
	if ov.SummaryErr != nil {
		b.WriteString(t.Muted.Render("unavailable"))
	} else {
		s := dashboard.Overall(ov.Summary)
		b.WriteString(t.ForBand(s.Band).Render(fmt.Sprintf("%s %s", formatPercent(s.Percentage), s.Band)))
	}

	b.WriteString("   ")
	b.WriteString(t.Label.Render("CGPA "))
	if ov.PerformanceErr != nil || ov.CGPA == "" {
		b.WriteString(t.Muted.Render("unavailable"))
	} else {
		b.WriteString(t.Value.Render(ov.CGPA))
	}
	b.WriteString("\n")

	if ov.UpcomingErr == nil && len(ov.Upcoming) > 0 {
		b.WriteString("\n")
		b.WriteString(t.Header.Render("UPCOMING"))
		b.WriteString("\n")
		for _, c := range ov.Upcoming {
			line := fmt.Sprintf("%s  %s  %s  %s", c.StartEndTime, c.CourseCode, c.CourseName, c.ClassRoom)
			b.WriteString(util.TruncateANSI(line, r.width))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Cards draws one boxed card per course component.
func (r *Renderer) Cards(cards []dashboard.Card) string {
	if len(cards) == 0 {
		return r.theme.Muted.Render("No courses found.")
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		rendered = append(rendered, r.Card(c))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

// Card draws a single course component.
func (r *Renderer) Card(c dashboard.Card) string {
	t := r.theme
	inner := r.width - 4

	title := t.Subtitle.Render(c.CourseCode) + " " + t.Value.Render(c.CourseName)
	comp := t.Muted.Render(c.Component)

	pct := t.ForStatus(c.Result.Status).Render(formatPercent(c.Result.Percentage))
	counts := t.Label.Render(fmt.Sprintf("%d/%d", c.Count.Present, c.Count.Total))

	lines := []string{
		util.TruncateANSI(title, inner),
		comp,
		pct + "  " + counts,
		t.ForStatus(c.Result.Status).Render(c.Message),
	}
	return t.Box.Width(r.width - 2).Render(strings.Join(lines, "\n"))
}

// Daywise draws a lecture log newest first with a mark tally.
func (r *Renderer) Daywise(card dashboard.Card, lectures []portal.Lecture) string {
	t := r.theme
	var b strings.Builder

	b.WriteString(t.Title.Render(fmt.Sprintf("%s %s", card.Key(), card.CourseName)))
	b.WriteString("\n")

	if len(lectures) == 0 {
		b.WriteString(t.Muted.Render("No lectures recorded."))
		return b.String()
	}

	header := util.PadANSI("DATE", 14) + util.PadANSI("DAY", 11) + util.PadANSI("TIME", 16) + "MARK"
	b.WriteString(t.Header.Render(header))
	b.WriteString("\n")
	for _, l := range lectures {
		date := l.PlanLecDate
		if d, ok := l.Date(); ok {
			date = d.Format("02 Jan 2006")
		}
		mark := portal.Mark(strings.ToUpper(string(l.Attendance)))
		b.WriteString(util.PadANSI(date, 14))
		b.WriteString(util.PadANSI(l.DayName, 11))
		b.WriteString(util.PadANSI(l.TimeSlot, 16))
		b.WriteString(t.ForMark(mark).Render(string(mark)))
		b.WriteString("\n")
	}

	m := dashboard.Tally(lectures)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s",
		t.ForMark(portal.MarkPresent).Render("P"), t.Value.Render(fmt.Sprint(m.Present)),
		t.ForMark(portal.MarkAbsent).Render("A"), t.Value.Render(fmt.Sprint(m.Absent)),
		t.ForMark(portal.MarkAdjusted).Render("ADJ"), t.Value.Render(fmt.Sprint(m.Adjusted)))
	if m.Other > 0 {
		fmt.Fprintf(&b, "  %s %s", t.Muted.Render("OTHER"), t.Value.Render(fmt.Sprint(m.Other)))
	}
	return b.String()
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
