package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/bunkplan/internal/tui/styles"
)

func TestRunThemeList(t *testing.T) {
	setup(t)

	_, err := executeCommand("config", "set", "tui.theme", "nord")
	require.NoError(t, err)

	out, err := executeCommand("config", "theme", "list")
	require.NoError(t, err)
	for _, name := range styles.BuiltinThemes() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "* nord")
}

func TestRunThemeExport(t *testing.T) {
	setup(t)
	outputPath := filepath.Join(t.TempDir(), "exported.yaml")

	out, err := executeCommand("config", "theme", "export", "dracula", outputPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Theme exported to: "+outputPath)

	// The exported file is a loadable custom theme.
	tf, err := styles.LoadThemeFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "dracula", tf.Name)

	out, err = executeCommand("config", "theme", "export", "nord")
	require.NoError(t, err)
	assert.Contains(t, out, "colors:")

	_, err = executeCommand("config", "theme", "export", "neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme: neon")
}

func TestRunThemeInfo(t *testing.T) {
	setup(t)

	out, err := executeCommand("config", "theme", "info", "dracula")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme: dracula")
	assert.Contains(t, out, "Type: Built-in")
	assert.Contains(t, out, "Markdown style: dracula")
	assert.Contains(t, out, "tier critical")

	custom := filepath.Join(t.TempDir(), "solar.yaml")
	theme := `name: "Solar"
version: "1"
colors:
  primary: "#268BD2"
  secondary: "#859900"
  warning: "#B58900"
  error: "#DC322F"
  muted: "#586E75"
  surface: "#073642"
  text: "#EEE8D5"
  border: "#657B83"
`
	require.NoError(t, os.WriteFile(custom, []byte(theme), 0o644))

	out, err = executeCommand("config", "theme", "info", custom)
	require.NoError(t, err)
	assert.Contains(t, out, "Theme: Solar")
	assert.Contains(t, out, "Type: Custom")
	assert.Contains(t, out, "#DC322F", "critical tier defaults to the error color")

	_, err = executeCommand("config", "theme", "info", "neon")
	require.Error(t, err)
}
