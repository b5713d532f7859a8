package planner

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/bunkplan/internal/config"
	"github.com/Iron-Ham/bunkplan/internal/projector"
	"github.com/Iron-Ham/bunkplan/internal/tui/styles"
)

func newModel(present, total int, target float64) Model {
	return New(Options{
		Present:       present,
		Total:         total,
		TargetPercent: target,
		Deltas:        projector.DefaultDeltas(),
		Theme:         styles.Builtin(styles.ThemeCyberpunk),
	})
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var backspace = tea.KeyMsg{Type: tea.KeyBackspace}

func TestNewComputesInitialPlan(t *testing.T) {
	m := newModel(30, 40, 75)
	plan, err := m.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if plan.Result.Status != projector.StatusSafe || plan.Result.CanMiss != 0 {
		t.Errorf("Result = %+v, want safe with 0 to miss", plan.Result)
	}
	if m.inputs[fieldTarget].Value() != "75" {
		t.Errorf("target input = %q, want 75", m.inputs[fieldTarget].Value())
	}
}

func TestTypingRecomputes(t *testing.T) {
	m := newModel(30, 40, 75)

	m = send(m, backspace, backspace, runes("40"))
	plan, err := m.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if plan.Count.Present != 40 || plan.Result.CanMiss != 13 {
		t.Errorf("after typing 40: count = %+v, can miss = %d", plan.Count, plan.Result.CanMiss)
	}

	// One keystroke at a time: "4" alone is already a valid plan.
	m = send(m, backspace)
	plan, err = m.Plan()
	if err != nil || plan.Count.Present != 4 {
		t.Errorf("after backspace: plan = %+v, err = %v", plan.Count, err)
	}
}

func TestInputErrors(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
		want string
	}{
		{"empty present", []tea.Msg{backspace, backspace}, "enter classes attended"},
		{"present above total", []tea.Msg{runes("0")}, "cannot exceed total classes"},
		{"letters", []tea.Msg{runes("x")}, "whole number"},
		{"empty target", []tea.Msg{tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, backspace, backspace}, "enter a target percentage"},
		{"target out of range", []tea.Msg{tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, runes("0")}, "target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := send(newModel(30, 40, 75), tt.msgs...)
			_, err := m.Plan()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Plan() error = %v, want %q", err, tt.want)
			}
			if view := ansi.Strip(m.View()); !strings.Contains(view, err.Error()) {
				t.Errorf("view should show the error, got:\n%s", view)
			}
		})
	}
}

func TestInvalidInputKeepsLastPlan(t *testing.T) {
	m := newModel(20, 40, 75)
	m = send(m, runes("x"))

	plan, err := m.Plan()
	if err == nil {
		t.Fatal("expected an input error")
	}
	if plan.Count.Present != 20 {
		t.Errorf("last valid plan should be kept, got %+v", plan.Count)
	}
}

func TestFocusCycles(t *testing.T) {
	m := newModel(30, 40, 75)
	tab := tea.KeyMsg{Type: tea.KeyTab}
	shiftTab := tea.KeyMsg{Type: tea.KeyShiftTab}

	m = send(m, tab)
	if m.focus != fieldTotal || !m.inputs[fieldTotal].Focused() || m.inputs[fieldPresent].Focused() {
		t.Errorf("tab should move focus to total, focus = %d", m.focus)
	}
	m = send(m, tab, tab)
	if m.focus != fieldPresent {
		t.Errorf("focus should wrap to present, got %d", m.focus)
	}
	m = send(m, shiftTab)
	if m.focus != fieldTarget {
		t.Errorf("shift+tab should wrap to target, got %d", m.focus)
	}

	m = send(m, backspace, backspace, runes("80"))
	plan, _ := m.Plan()
	if plan.TargetPercent != 80 {
		t.Errorf("target = %v, want 80", plan.TargetPercent)
	}
}

func TestResetTarget(t *testing.T) {
	m := newModel(30, 40, 75)
	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab}, backspace, backspace, runes("90"))
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlR})

	if got := m.inputs[fieldTarget].Value(); got != "75" {
		t.Errorf("target after ctrl+r = %q, want 75", got)
	}
}

func TestConfigChanged(t *testing.T) {
	nord := styles.Builtin(styles.ThemeNord)
	deltas := projector.Deltas{Skip: []int{0, 2}, Attend: []int{4}}

	t.Run("follows default target", func(t *testing.T) {
		m := send(newModel(30, 40, 75), ConfigChangedMsg{Theme: nord, Deltas: deltas, TargetPercent: 80})
		plan, err := m.Plan()
		if err != nil {
			t.Fatal(err)
		}
		if plan.TargetPercent != 80 {
			t.Errorf("target = %v, want reloaded 80", plan.TargetPercent)
		}
		if m.theme.Name != "nord" {
			t.Errorf("theme = %q, want nord", m.theme.Name)
		}
		if len(plan.Scenarios) == 0 || plan.Scenarios[1].Delta != 2 {
			t.Errorf("scenarios should use reloaded deltas, got %+v", plan.Scenarios)
		}
		if !strings.Contains(m.View(), "Config reloaded") {
			t.Error("view should mention the reload")
		}
	})

	t.Run("keeps edited target", func(t *testing.T) {
		m := newModel(30, 40, 75)
		m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab}, backspace, backspace, runes("60"))
		m = send(m, ConfigChangedMsg{Theme: nord, Deltas: deltas, TargetPercent: 80})

		plan, _ := m.Plan()
		if plan.TargetPercent != 60 {
			t.Errorf("target = %v, want user's 60", plan.TargetPercent)
		}
		// ctrl+r now restores the reloaded default.
		m = send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
		if got := m.inputs[fieldTarget].Value(); got != "80" {
			t.Errorf("target after reset = %q, want 80", got)
		}
	})
}

func TestConfigError(t *testing.T) {
	m := send(newModel(30, 40, 75), ConfigErrorMsg{Err: errTest("bad yaml")})
	if !strings.Contains(m.View(), "Config not reloaded: bad yaml") {
		t.Error("view should show the reload error")
	}
	m = send(m, runes("1"))
	if strings.Contains(m.View(), "Config not reloaded") {
		t.Error("notice should clear on the next key")
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }

func TestViewSections(t *testing.T) {
	m := New(Options{
		Present: 20, Total: 40, TargetPercent: 75,
		Deltas:  projector.DefaultDeltas(),
		Theme:   styles.Builtin(styles.ThemeDracula),
		Label:   "KCS401:LECTURE",
	})
	m = send(m, tea.WindowSizeMsg{Width: 90, Height: 40})

	view := ansi.Strip(m.View())
	for _, want := range []string{"BUNK PLANNER", "KCS401:LECTURE", "ATTENDED", "TOTAL", "TARGET %", "AT RISK", "SCENARIO SIMULATOR", "TARGET 40", "esc quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m := newModel(30, 40, 75)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestReloadMsg(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults()
	viper.Set("tui.theme", "minimalist")
	viper.Set("planner.target_percentage", 85)

	msg, ok := ReloadMsg().(ConfigChangedMsg)
	if !ok {
		t.Fatalf("ReloadMsg() = %T, want ConfigChangedMsg", ReloadMsg())
	}
	if msg.Theme.Name != "minimalist" || msg.TargetPercent != 85 {
		t.Errorf("ReloadMsg() = %+v", msg)
	}
	if len(msg.Deltas.Skip) != 5 {
		t.Errorf("Deltas = %+v, want defaults", msg.Deltas)
	}

	viper.Set("planner.target_percentage", 0)
	if _, ok := ReloadMsg().(ConfigErrorMsg); !ok {
		t.Error("invalid config should produce ConfigErrorMsg")
	}
}
