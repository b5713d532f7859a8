// Package render draws projections, scenario grids and portal data as
// themed terminal text or markdown.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/bunkplan/internal/projector"
	"github.com/Iron-Ham/bunkplan/internal/tui/styles"
	"github.com/Iron-Ham/bunkplan/internal/util"
)

// Plan is one complete planner evaluation.
type Plan struct {
	Count         projector.Count      `json:"count"`
	TargetPercent float64              `json:"target_percent"`
	Result        projector.Result     `json:"result"`
	Message       string               `json:"message"`
	Scenarios     []projector.Scenario `json:"scenarios"`
}

// NewPlan evaluates present/total against targetPercent (in (0, 100]).
func NewPlan(present, total int, targetPercent float64, deltas projector.Deltas) (Plan, error) {
	target, err := projector.TargetFromPercent(targetPercent)
	if err != nil {
		return Plan{}, err
	}
	res, err := projector.Classify(present, total, target)
	if err != nil {
		return Plan{}, err
	}
	scenarios, err := projector.Scenarios(present, total, target, deltas)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Count:         projector.Count{Present: present, Total: total},
		TargetPercent: targetPercent,
		Result:        res,
		Message:       projector.Message(res),
		Scenarios:     scenarios,
	}, nil
}

// Renderer draws with a theme at a fixed width.
type Renderer struct {
	theme styles.Theme
	width int
}

// New returns a Renderer. Widths below 40 columns are raised to 40.
func New(theme styles.Theme, width int) *Renderer {
	return &Renderer{theme: theme, width: max(width, 40)}
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() styles.Theme {
	return r.theme
}

// Analysis draws the current percentage, status, key counts and the
// recommendation for a plan.
func (r *Renderer) Analysis(p Plan) string {
	t := r.theme
	res := p.Result

	var b strings.Builder
	b.WriteString(t.Label.Render("CURRENT ATTENDANCE"))
	b.WriteString("\n")
	b.WriteString(t.ForStatus(res.Status).Render(formatPercent(res.Percentage)))
	b.WriteString("  ")
	b.WriteString(t.ForStatus(res.Status).Render(statusLabel(res.Status)))
	b.WriteString("\n\n")

	absent := p.Count.Total - p.Count.Present
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n",
		t.Label.Render("PRESENT"), t.Value.Render(fmt.Sprint(p.Count.Present)),
		t.Label.Render("ABSENT"), t.Value.Render(fmt.Sprint(absent)),
		t.Label.Render("TARGET"), t.Value.Render(formatTarget(p.TargetPercent)))
	b.WriteString("\n")
	b.WriteString(r.recommendation(p))

	return t.Box.Width(r.width - 2).Render(b.String())
}

func (r *Renderer) recommendation(p Plan) string {
	t := r.theme
	res := p.Result
	target := formatTarget(p.TargetPercent)

	switch {
	case res.Status == projector.StatusNoData:
		return t.Muted.Render("No classes conducted yet. Every class you attend counts toward " + target + ".")
	case res.Status == projector.StatusSafe:
		head := t.ForStatus(res.Status).Render("YOU'RE SAFE")
		body := fmt.Sprintf("You can miss %d more %s and still maintain %s.", res.CanMiss, classes(res.CanMiss), target)
		return head + "\n" + body
	case res.Unreachable:
		head := t.ForStatus(res.Status).Render("ATTENDANCE ALERT")
		return head + "\n" + "A " + target + " target cannot be reached once a class has been missed."
	default:
		head := t.ForStatus(res.Status).Render("ATTENDANCE ALERT")
		body := fmt.Sprintf("Attend the next %d %s continuously to reach %s.", res.NeedAttend, classes(res.NeedAttend), target)
		return head + "\n" + body
	}
}

// ScenarioGrid draws the skip scenarios and the attend scenarios side by
// side.
func (r *Renderer) ScenarioGrid(scenarios []projector.Scenario) string {
	t := r.theme
	colWidth := (r.width - 3) / 2

	var skip, attend []string
	skip = append(skip, t.Subtitle.Render("SKIP CLASSES"))
	attend = append(attend, t.Subtitle.Render("ATTEND CLASSES"))
	for _, s := range scenarios {
		line := r.scenarioLine(s, colWidth)
		if s.Kind == projector.KindSkip {
			skip = append(skip, line)
		} else {
			attend = append(attend, line)
		}
	}

	left := lipgloss.NewStyle().Width(colWidth).Render(strings.Join(skip, "\n"))
	right := lipgloss.NewStyle().Width(colWidth).Render(strings.Join(attend, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)
}

func (r *Renderer) scenarioLine(s projector.Scenario, width int) string {
	t := r.theme
	label := ScenarioLabel(s)
	if s.IsTarget {
		label = t.Target.Render(label)
	}

	pct := t.ForTier(s.Tier).Render(fmt.Sprintf("%6.1f%%", s.Percentage))
	line := util.PadANSI(label, 10) + " " + pct
	if s.Kind == projector.KindAttend || s.Delta > 0 {
		line += " " + t.Muted.Render(fmt.Sprintf("%+.1f%%", s.Change))
	}
	return util.TruncateANSI(line, width)
}

// ScenarioLabel names a grid entry: CURRENT, SKIP n, ATTEND n or TARGET n.
func ScenarioLabel(s projector.Scenario) string {
	switch {
	case s.Kind == projector.KindSkip && s.Delta == 0:
		return "CURRENT"
	case s.Kind == projector.KindSkip:
		return fmt.Sprintf("SKIP %d", s.Delta)
	case s.IsTarget:
		return fmt.Sprintf("TARGET %d", s.Delta)
	default:
		return fmt.Sprintf("ATTEND %d", s.Delta)
	}
}

// PlanView draws the analysis followed by the scenario grid.
func (r *Renderer) PlanView(p Plan) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.theme.Title.Render("BUNK PLANNER"),
		r.Analysis(p),
		"",
		r.theme.Header.Render("SCENARIO SIMULATOR"),
		r.ScenarioGrid(p.Scenarios),
	)
}

func statusLabel(s projector.Status) string {
	switch s {
	case projector.StatusSafe:
		return "SAFE ZONE"
	case projector.StatusAtRisk:
		return "AT RISK"
	default:
		return "NO DATA"
	}
}

func formatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// formatTarget drops the decimal for whole targets such as 75%.
func formatTarget(pct float64) string {
	if pct == float64(int(pct)) {
		return fmt.Sprintf("%d%%", int(pct))
	}
	return fmt.Sprintf("%g%%", pct)
}

func classes(n int) string {
	if n == 1 {
		return "class"
	}
	return "classes"
}
