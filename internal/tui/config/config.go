// Package config is the interactive editor for the bunkplan config file.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/bunkplan/internal/config"
	"github.com/Iron-Ham/bunkplan/internal/tui/styles"
)

// Item types
const (
	typeFloat  = "float"
	typeInt    = "int"
	typeInts   = "ints"
	typeBool   = "bool"
	typeString = "string"
	typeSelect = "select"
)

// ConfigItem represents a single configuration item
type ConfigItem struct {
	Key         string
	Label       string
	Description string
	Type        string
	Options     []string // For select type
}

// Category represents a group of config items
type Category struct {
	Name  string
	Items []ConfigItem
}

// Model is the Bubbletea model for the interactive config UI
type Model struct {
	categories    []Category
	categoryIndex int
	itemIndex     int
	scrollOffset  int
	width         int
	height        int
	editing       bool
	textInput     textinput.Model
	selectIndex   int
	errorMsg      string
	infoMsg       string
	quitting      bool
	modified      bool

	theme styles.Theme
	path  string
}

// Categories returns the editable settings grouped for display.
func Categories() []Category {
	return []Category{
		{
			Name: "Planner",
			Items: []ConfigItem{
				{
					Key:         "planner.target_percentage",
					Label:       "Target %",
					Description: "Minimum attendance percentage to stay safe",
					Type:        typeFloat,
				},
				{
					Key:         "planner.skip_deltas",
					Label:       "Skip Scenarios",
					Description: "Comma-separated class counts for the skip column (0 shows the current figure)",
					Type:        typeInts,
				},
				{
					Key:         "planner.attend_deltas",
					Label:       "Attend Scenarios",
					Description: "Comma-separated class counts for the attend column",
					Type:        typeInts,
				},
				{
					Key:         "planner.target_fallback",
					Label:       "Target Fallback",
					Description: "Extra attend row shown when the target is within reach (0 = hide)",
					Type:        typeInt,
				},
			},
		},
		{
			Name: "Appearance",
			Items: []ConfigItem{
				{
					Key:         "tui.theme",
					Label:       "Theme",
					Description: "Color theme for the planner, cards and tables",
					Type:        typeSelect,
					Options:     config.ValidThemes(),
				},
			},
		},
		{
			Name: "Portal",
			Items: []ConfigItem{
				{
					Key:         "portal.base_url",
					Label:       "Base URL",
					Description: "Origin of the attendance portal API",
					Type:        typeString,
				},
				{
					Key:         "portal.auth_scheme",
					Label:       "Auth Scheme",
					Description: "Word placed before the token in the Authorization header",
					Type:        typeString,
				},
				{
					Key:         "portal.timeout_seconds",
					Label:       "Timeout (s)",
					Description: "Per-request timeout for portal calls",
					Type:        typeInt,
				},
			},
		},
		{
			Name: "Logging",
			Items: []ConfigItem{
				{
					Key:         "logging.enabled",
					Label:       "Enabled",
					Description: "Write a debug log file",
					Type:        typeBool,
				},
				{
					Key:         "logging.level",
					Label:       "Level",
					Description: "Minimum level written to the log",
					Type:        typeSelect,
					Options:     config.ValidLogLevels(),
				},
				{
					Key:         "logging.dir",
					Label:       "Directory",
					Description: "Log directory (empty = <config dir>/logs, ~ is expanded)",
					Type:        typeString,
				},
				{
					Key:         "logging.max_size_mb",
					Label:       "Max Size (MB)",
					Description: "Rotate the log file past this size",
					Type:        typeInt,
				},
				{
					Key:         "logging.max_backups",
					Label:       "Max Backups",
					Description: "Rotated log files to keep",
					Type:        typeInt,
				},
			},
		},
	}
}

// New creates a config editor that saves to path. An empty path means
// the default config file.
func New(theme styles.Theme, path string) Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 40

	if path == "" {
		path = config.ConfigFile()
	}

	return Model{
		categories: Categories(),
		textInput:  ti,
		theme:      theme,
		path:       path,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureSelectionVisible(m.availableLines())
		return m, nil

	case tea.KeyMsg:
		m.errorMsg = ""
		m.infoMsg = ""

		if m.editing {
			return m.handleEditingKeypress(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			m.setFlatIndex(wrap(m.flatIndex()-1, m.itemCount()))

		case "down", "j":
			m.setFlatIndex(wrap(m.flatIndex()+1, m.itemCount()))

		case "tab":
			m.categoryIndex = wrap(m.categoryIndex+1, len(m.categories))
			m.itemIndex = 0

		case "shift+tab":
			m.categoryIndex = wrap(m.categoryIndex-1, len(m.categories))
			m.itemIndex = 0

		case "ctrl+d", "pgdown":
			m.setFlatIndex(min(m.flatIndex()+m.pageSize(), m.itemCount()-1))

		case "ctrl+u", "pgup":
			m.setFlatIndex(max(m.flatIndex()-m.pageSize(), 0))

		case "g", "home":
			m.setFlatIndex(0)

		case "G", "end":
			m.setFlatIndex(m.itemCount() - 1)

		case "enter", " ":
			item := m.currentItem()
			switch item.Type {
			case typeBool:
				m.apply(item, strconv.FormatBool(!viper.GetBool(item.Key)))
			case typeSelect:
				m.editing = true
				m.selectIndex = m.currentSelectIndex()
			default:
				m.editing = true
				m.textInput.SetValue(m.displayValue(item))
				m.textInput.Focus()
			}

		case "r":
			m.resetCurrentToDefault()
		}

		m.ensureSelectionVisible(m.availableLines())
	}

	return m, nil
}

func (m Model) handleEditingKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item := m.currentItem()

	switch msg.String() {
	case "esc":
		m.editing = false
		m.textInput.SetValue("")
		return m, nil

	case "enter":
		value := m.textInput.Value()
		if item.Type == typeSelect {
			value = item.Options[m.selectIndex]
		}
		if !m.apply(item, value) {
			return m, nil
		}
		m.editing = false
		m.textInput.SetValue("")
		return m, nil

	case "up", "k":
		if item.Type == typeSelect {
			m.selectIndex = wrap(m.selectIndex-1, len(item.Options))
			return m, nil
		}

	case "down", "j":
		if item.Type == typeSelect {
			m.selectIndex = wrap(m.selectIndex+1, len(item.Options))
			return m, nil
		}
	}

	if item.Type != typeSelect {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply validates and stores value for item, then saves. It reports
// whether the value was accepted.
func (m *Model) apply(item ConfigItem, value string) bool {
	if err := validateAndSet(item, value); err != nil {
		m.errorMsg = err.Error()
		return false
	}
	m.saveConfig()
	return m.errorMsg == ""
}

func (m Model) currentItem() ConfigItem {
	return m.categories[m.categoryIndex].Items[m.itemIndex]
}

func (m Model) displayValue(item ConfigItem) string {
	switch item.Type {
	case typeBool:
		return strconv.FormatBool(viper.GetBool(item.Key))
	case typeInt:
		return strconv.Itoa(viper.GetInt(item.Key))
	case typeFloat:
		return strconv.FormatFloat(viper.GetFloat64(item.Key), 'f', -1, 64)
	case typeInts:
		return joinInts(viper.GetIntSlice(item.Key))
	default:
		return viper.GetString(item.Key)
	}
}

func (m Model) currentSelectIndex() int {
	item := m.currentItem()
	if i := slices.Index(item.Options, viper.GetString(item.Key)); i >= 0 {
		return i
	}
	return 0
}

// validateAndSet parses value for the item's type and sets it in viper.
// Values the config validator rejects for this key are rolled back.
func validateAndSet(item ConfigItem, value string) error {
	value = strings.TrimSpace(value)

	var parsed any
	switch item.Type {
	case typeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.New("expected integer value")
		}
		parsed = n
	case typeFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.New("expected decimal value")
		}
		parsed = f
	case typeInts:
		list, err := parseInts(value)
		if err != nil {
			return err
		}
		parsed = list
	case typeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.New("expected true or false")
		}
		parsed = b
	case typeSelect:
		themeFile := item.Key == "tui.theme" && config.IsThemeFile(value)
		if !slices.Contains(item.Options, value) && !themeFile {
			return fmt.Errorf("invalid option: %s", value)
		}
		parsed = value
	default:
		parsed = value
	}

	prev := viper.Get(item.Key)
	viper.Set(item.Key, parsed)

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		viper.Set(item.Key, prev)
		return err
	}
	for _, verr := range cfg.Validate() {
		if verr.Field == item.Key || strings.HasPrefix(verr.Field, item.Key+"[") {
			viper.Set(item.Key, prev)
			return errors.New(verr.Message)
		}
	}
	return nil
}

// parseInts reads a comma or space separated list of integers.
func parseInts(value string) ([]int, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("expected comma-separated integers, got %q", f)
		}
		out = append(out, n)
	}
	return out, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func (m *Model) saveConfig() {
	cfg, err := config.Load()
	if err != nil {
		m.errorMsg = fmt.Sprintf("Invalid config: %v", err)
		return
	}
	if err := config.Save(m.path, cfg); err != nil {
		m.errorMsg = fmt.Sprintf("Failed to save config: %v", err)
		return
	}
	m.infoMsg = "Saved!"
	m.modified = true
}

func (m *Model) resetCurrentToDefault() {
	item := m.currentItem()
	if v, ok := Defaults()[item.Key]; ok {
		viper.Set(item.Key, v)
		m.saveConfig()
		if m.errorMsg == "" {
			m.infoMsg = fmt.Sprintf("Reset %s to default", item.Label)
		}
	}
}

// Defaults maps every editable key to its default value.
func Defaults() map[string]any {
	d := config.Default()
	return map[string]any{
		"planner.target_percentage": d.Planner.TargetPercentage,
		"planner.skip_deltas":       d.Planner.SkipDeltas,
		"planner.attend_deltas":     d.Planner.AttendDeltas,
		"planner.target_fallback":   d.Planner.TargetFallback,
		"tui.theme":                 d.TUI.Theme,
		"portal.base_url":           d.Portal.BaseURL,
		"portal.auth_scheme":        d.Portal.AuthScheme,
		"portal.timeout_seconds":    d.Portal.TimeoutSeconds,
		"logging.enabled":           d.Logging.Enabled,
		"logging.level":             d.Logging.Level,
		"logging.dir":               d.Logging.Dir,
		"logging.max_size_mb":       d.Logging.MaxSizeMB,
		"logging.max_backups":       d.Logging.MaxBackups,
	}
}

// Lookup finds the editable item for key.
func Lookup(key string) (ConfigItem, bool) {
	for _, c := range Categories() {
		for _, item := range c.Items {
			if item.Key == key {
				return item, true
			}
		}
	}
	return ConfigItem{}, false
}

// Set parses value for key and stores it in viper. Values the config
// validator rejects are not kept. Nothing is written to disk.
func Set(key, value string) error {
	item, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return validateAndSet(item, value)
}

// Run starts the interactive config UI
func Run(theme styles.Theme, path string) error {
	p := tea.NewProgram(New(theme, path), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}
