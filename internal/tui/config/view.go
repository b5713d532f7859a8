package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/bunkplan/internal/util"
)

// chromeLines is the space taken by everything except the item list:
// header, file path, scroll indicators, description, messages and help.
const chromeLines = 12

func (m Model) availableLines() int {
	return max(m.height-chromeLines, 5)
}

func (m Model) pageSize() int {
	return max(m.availableLines()/2, 1)
}

func (m Model) itemCount() int {
	n := 0
	for _, c := range m.categories {
		n += len(c.Items)
	}
	return n
}

// flatIndex is the selection's position across all categories.
func (m Model) flatIndex() int {
	n := 0
	for ci := 0; ci < m.categoryIndex; ci++ {
		n += len(m.categories[ci].Items)
	}
	return n + m.itemIndex
}

func (m *Model) setFlatIndex(i int) {
	for ci, c := range m.categories {
		if i < len(c.Items) {
			m.categoryIndex = ci
			m.itemIndex = i
			return
		}
		i -= len(c.Items)
	}
}

// totalLines counts one header, the items and one blank line per category.
func (m Model) totalLines() int {
	n := 0
	for _, c := range m.categories {
		n += len(c.Items) + 2
	}
	return n
}

// currentSelectionLine is the selected item's line in the full list.
func (m Model) currentSelectionLine() int {
	line := 0
	for ci := 0; ci < m.categoryIndex; ci++ {
		line += len(m.categories[ci].Items) + 2
	}
	return line + 1 + m.itemIndex
}

func (m *Model) ensureSelectionVisible(available int) {
	sel := m.currentSelectionLine()
	if sel < m.scrollOffset {
		// Keep the category header in view when possible.
		m.scrollOffset = max(sel-1-m.itemIndex, 0)
		if sel >= m.scrollOffset+available {
			m.scrollOffset = sel
		}
	}
	if sel >= m.scrollOffset+available {
		m.scrollOffset = sel - available + 1
	}
	m.scrollOffset = max(min(m.scrollOffset, m.totalLines()-available), 0)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	t := m.theme
	var b strings.Builder

	b.WriteString(t.Header.Width(m.width - 4).Render("bunkplan configuration"))
	b.WriteString("\n\n")

	configPath := m.path
	if viper.ConfigFileUsed() == "" {
		configPath += " (not created)"
	}
	b.WriteString(t.Muted.Render("Config file: " + configPath))
	b.WriteString("\n\n")

	lines := m.listLines()
	available := m.availableLines()
	start := min(m.scrollOffset, len(lines))
	end := min(start+available, len(lines))

	if start > 0 {
		b.WriteString(t.Muted.Render(fmt.Sprintf("▲ %d more", start)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(lines[start:end], "\n"))
	b.WriteString("\n")
	if end < len(lines) {
		b.WriteString(t.Muted.Render(fmt.Sprintf("▼ %d more", len(lines)-end)))
	}
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.renderEditOverlay())
	} else {
		b.WriteString(t.Muted.Render(m.currentItem().Description))
	}
	b.WriteString("\n")

	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(t.Error.Render("Error: " + m.errorMsg))
	}
	if m.infoMsg != "" {
		b.WriteString("\n")
		b.WriteString(t.Subtitle.Render(m.infoMsg))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

// listLines renders every category header, item and separator.
func (m Model) listLines() []string {
	t := m.theme
	lines := make([]string, 0, m.totalLines())
	for ci, cat := range m.categories {
		active := ci == m.categoryIndex
		catStyle := t.Muted.Bold(true)
		if active {
			catStyle = t.Subtitle
		}
		lines = append(lines, catStyle.Render(fmt.Sprintf("[ %s ]", cat.Name)))
		for ii, item := range cat.Items {
			lines = append(lines, m.renderItem(item, active && ii == m.itemIndex))
		}
		lines = append(lines, "")
	}
	return lines
}

func (m Model) renderItem(item ConfigItem, selected bool) string {
	t := m.theme
	label := util.PadANSI(item.Label, 22)
	value := util.TruncateANSI(m.displayValue(item), max(m.width-32, 10))

	if selected {
		cursor := t.Subtitle.Render(">")
		return fmt.Sprintf("  %s %s  %s", cursor, t.Value.Render(label), lipgloss.NewStyle().Foreground(t.Palette.Primary).Render(value))
	}
	return fmt.Sprintf("    %s  %s", t.Label.Render(label), lipgloss.NewStyle().Foreground(t.Palette.Text).Render(value))
}

func (m Model) renderEditOverlay() string {
	t := m.theme
	item := m.currentItem()

	var content strings.Builder
	if item.Type == typeSelect {
		fmt.Fprintf(&content, "Select %s:\n\n", item.Label)
		for i, opt := range item.Options {
			if i == m.selectIndex {
				content.WriteString(t.Subtitle.Render(" > " + opt))
			} else {
				content.WriteString("   " + opt)
			}
			content.WriteString("\n")
		}
		content.WriteString("\n" + t.Muted.Render("j/k or arrows to select, enter to confirm, esc to cancel"))
	} else {
		fmt.Fprintf(&content, "Edit %s:\n\n", item.Label)
		content.WriteString(m.textInput.View())
		content.WriteString("\n\n" + t.Muted.Render("enter to save, esc to cancel"))
	}

	return t.Focused.Padding(1, 2).Width(50).Render(content.String())
}

func (m Model) renderHelp() string {
	t := m.theme
	key := t.Subtitle

	if m.editing {
		return t.Help.Render(key.Render("enter") + " save  " + key.Render("esc") + " cancel")
	}
	return t.Help.Render(
		key.Render("j/k") + " navigate  " +
			key.Render("tab") + " next category  " +
			key.Render("g/G") + " top/bottom  " +
			key.Render("enter") + " edit  " +
			key.Render("r") + " reset  " +
			key.Render("q") + " quit",
	)
}
