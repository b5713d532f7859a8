// Package planner is the interactive bunk planner: three inputs whose
// projection and scenario grid update on every keystroke.
package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/bunkplan/internal/projector"
	"github.com/Iron-Ham/bunkplan/internal/render"
	"github.com/Iron-Ham/bunkplan/internal/tui/styles"
)

// Input fields, in focus order.
const (
	fieldPresent = iota
	fieldTotal
	fieldTarget
	fieldCount
)

// Options seeds the planner.
type Options struct {
	Present       int
	Total         int
	TargetPercent float64
	Deltas        projector.Deltas
	Theme         styles.Theme
	// Label names the course component when launched from portal data.
	Label string
}

// ConfigChangedMsg carries settings reloaded from the config file.
type ConfigChangedMsg struct {
	Theme         styles.Theme
	Deltas        projector.Deltas
	TargetPercent float64
}

// ConfigErrorMsg reports a config file that failed to reload.
type ConfigErrorMsg struct {
	Err error
}

// Model is the bubbletea model for the planner.
type Model struct {
	inputs [fieldCount]textinput.Model
	focus  int

	theme         styles.Theme
	deltas        projector.Deltas
	targetDefault float64
	label         string

	plan    render.Plan
	planErr error
	notice  string

	width    int
	height   int
	quitting bool
}

// New builds a planner model from opts.
func New(opts Options) Model {
	m := Model{
		theme:         opts.Theme,
		deltas:        opts.Deltas,
		targetDefault: opts.TargetPercent,
		label:         opts.Label,
		width:         80,
	}

	labels := [fieldCount]string{"Classes attended", "Total classes", "Target %"}
	values := [fieldCount]string{
		strconv.Itoa(opts.Present),
		strconv.Itoa(opts.Total),
		formatFloat(opts.TargetPercent),
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = labels[i]
		ti.CharLimit = 9
		ti.Width = 12
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	m.inputs[fieldPresent].Focus()
	m.recompute()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ConfigChangedMsg:
		m.applyConfig(msg)
		return m, nil

	case ConfigErrorMsg:
		m.notice = "Config not reloaded: " + msg.Err.Error()
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		case "tab", "down", "enter":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "ctrl+r":
			m.inputs[fieldTarget].SetValue(formatFloat(m.targetDefault))
			m.recompute()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.recompute()
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = ((i % fieldCount) + fieldCount) % fieldCount
	return m.inputs[m.focus].Focus()
}

// applyConfig swaps in reloaded settings. The target input follows the
// new default only while it still shows the old one.
func (m *Model) applyConfig(msg ConfigChangedMsg) {
	m.theme = msg.Theme
	m.deltas = msg.Deltas
	if m.inputs[fieldTarget].Value() == formatFloat(m.targetDefault) {
		m.inputs[fieldTarget].SetValue(formatFloat(msg.TargetPercent))
	}
	m.targetDefault = msg.TargetPercent
	m.notice = "Config reloaded"
	m.recompute()
}

// recompute parses the inputs and refreshes the plan.
func (m *Model) recompute() {
	present, err := parseCount(m.inputs[fieldPresent].Value(), "classes attended")
	if err != nil {
		m.planErr = err
		return
	}
	total, err := parseCount(m.inputs[fieldTotal].Value(), "total classes")
	if err != nil {
		m.planErr = err
		return
	}
	if present > total {
		m.planErr = fmt.Errorf("classes attended (%d) cannot exceed total classes (%d)", present, total)
		return
	}
	target, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldTarget].Value()), 64)
	if err != nil {
		m.planErr = fmt.Errorf("enter a target percentage")
		return
	}

	plan, err := render.NewPlan(present, total, target, m.deltas)
	if err != nil {
		m.planErr = err
		return
	}
	m.plan = plan
	m.planErr = nil
}

// Plan returns the latest valid plan and the error, if any, that
// prevented a newer one.
func (m Model) Plan() (render.Plan, error) {
	return m.plan, m.planErr
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	t := m.theme
	r := render.New(t, min(m.width, 100))

	var b strings.Builder
	title := "BUNK PLANNER"
	if m.label != "" {
		title += "  " + m.label
	}
	b.WriteString(t.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(m.renderInputs())
	b.WriteString("\n\n")

	if m.planErr != nil {
		b.WriteString(t.Error.Render(m.planErr.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(r.Analysis(m.plan))
		b.WriteString("\n\n")
		b.WriteString(t.Header.Render("SCENARIO SIMULATOR"))
		b.WriteString("\n")
		b.WriteString(r.ScenarioGrid(m.plan.Scenarios))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(t.Muted.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(t.Help.Render("tab/↑↓ switch field · ctrl+r reset target · esc quit"))
	return b.String()
}

func (m Model) renderInputs() string {
	t := m.theme
	labels := [fieldCount]string{"ATTENDED", "TOTAL", "TARGET %"}

	boxes := make([]string, 0, fieldCount)
	for i, in := range m.inputs {
		style := t.Box
		if i == m.focus {
			style = t.Focused
		}
		boxes = append(boxes, style.Render(t.Label.Render(labels[i])+"\n"+in.View()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func parseCount(value, name string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("enter %s", name)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	return n, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
