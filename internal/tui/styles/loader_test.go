package styles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func validColors() ThemeColors {
	return ThemeColors{
		Primary:   "#A78BFA",
		Secondary: "#10B981",
		Warning:   "#F59E0B",
		Error:     "#F87171",
		Muted:     "#9CA3AF",
		Surface:   "#1F2937",
		Text:      "#F9FAFB",
		Border:    "#6B7280",
	}
}

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		name     string
		color    string
		expected bool
	}{
		{"valid 6-digit hex", "#A78BFA", true},
		{"valid 6-digit hex lowercase", "#a78bfa", true},
		{"valid 3-digit hex", "#ABC", true},
		{"invalid - no hash", "A78BFA", false},
		{"invalid - too short", "#AB", false},
		{"invalid - 4 digits", "#ABCD", false},
		{"invalid - bad characters", "#GHIJKL", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidHexColor(tt.color); got != tt.expected {
				t.Errorf("isValidHexColor(%q) = %v, want %v", tt.color, got, tt.expected)
			}
		})
	}
}

func TestThemeFileValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ThemeFile)
		errMsg string
	}{
		{"valid minimal theme", func(*ThemeFile) {}, ""},
		{"missing name", func(f *ThemeFile) { f.Name = "" }, "theme name is required"},
		{"missing version", func(f *ThemeFile) { f.Version = "" }, "theme version is required"},
		{"future version", func(f *ThemeFile) { f.Version = "2" }, "unsupported theme version"},
		{"missing primary", func(f *ThemeFile) { f.Colors.Primary = "" }, "color 'primary' is required"},
		{"bad border", func(f *ThemeFile) { f.Colors.Border = "grey" }, "color 'border' has invalid format"},
		{"bad tier override", func(f *ThemeFile) { f.Colors.Tiers.Critical = "#12" }, "color 'tiers.critical' has invalid format"},
		{"valid mark override", func(f *ThemeFile) { f.Colors.Marks.Absent = "#FF0000" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ThemeFile{Name: "Test", Version: "1", Colors: validColors()}
			tt.mutate(&f)
			err := f.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestToPaletteDefaults(t *testing.T) {
	f := ThemeFile{Name: "Test", Version: "1", Colors: validColors()}
	f.Colors.Tiers.Safe = "#123456"

	p := f.ToPalette()
	if p.TierSafe != "#123456" {
		t.Errorf("TierSafe = %q, want override", p.TierSafe)
	}
	if p.TierExcellent != "#10B981" {
		t.Errorf("TierExcellent = %q, want secondary", p.TierExcellent)
	}
	if p.TierCritical != "#F87171" || p.MarkAbsent != "#F87171" {
		t.Errorf("critical/absent should default to error color, got %q/%q", p.TierCritical, p.MarkAbsent)
	}
	if p.MarkAdjusted != "#F59E0B" {
		t.Errorf("MarkAdjusted = %q, want warning", p.MarkAdjusted)
	}
}

func TestLoadThemeFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		data, err := yaml.Marshal(ThemeFile{Name: "Solar", Version: "1", Colors: validColors()})
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, "solar.yaml")
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Fatal(err)
		}

		f, err := LoadThemeFile(path)
		if err != nil {
			t.Fatalf("LoadThemeFile() error = %v", err)
		}
		if f.Name != "Solar" {
			t.Errorf("Name = %q, want Solar", f.Name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadThemeFile(filepath.Join(dir, "nope.yaml"))
		if err == nil || !strings.Contains(err.Error(), "reading theme file") {
			t.Fatalf("err = %v, want read error", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		if err := os.WriteFile(path, []byte("name: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadThemeFile(path)
		if err == nil || !strings.Contains(err.Error(), "parsing theme file") {
			t.Fatalf("err = %v, want parse error", err)
		}
	})

	t.Run("invalid contents", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		if err := os.WriteFile(path, []byte("version: \"1\"\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadThemeFile(path)
		if err == nil || !strings.Contains(err.Error(), "invalid theme") {
			t.Fatalf("err = %v, want validation error", err)
		}
	})
}

func TestExportThemeRoundTrip(t *testing.T) {
	for _, name := range BuiltinThemes() {
		t.Run(name, func(t *testing.T) {
			data, err := ExportTheme(ThemeName(name))
			if err != nil {
				t.Fatalf("ExportTheme() error = %v", err)
			}
			var f ThemeFile
			if err := yaml.Unmarshal(data, &f); err != nil {
				t.Fatalf("exported YAML does not parse: %v", err)
			}
			if err := f.Validate(); err != nil {
				t.Fatalf("exported theme does not validate: %v", err)
			}
			if *f.ToPalette() != *GetPalette(ThemeName(name)) {
				t.Error("exported palette differs from the built-in one")
			}
		})
	}

	if _, err := ExportTheme("neon"); err == nil {
		t.Error("ExportTheme(neon) should fail")
	}
}
