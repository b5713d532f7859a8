package internal

import (
	"bytes"
	"go/format"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGofmtCompliance checks that every Go file under internal/ and cmd/
// is already in gofmt form.
//
// If this test fails, run: gofmt -w ./internal/ ./cmd/
func TestGofmtCompliance(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	// Tests normally run from internal/; fall back to the module root.
	projectRoot := filepath.Dir(wd)
	if filepath.Base(wd) != "internal" {
		projectRoot = wd
	}

	var unformatted []string
	for _, dir := range []string{"internal", "cmd"} {
		root := filepath.Join(projectRoot, dir)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != root && (name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".go") {
				return nil
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			formatted, err := format.Source(src)
			if err != nil {
				// Unparsable files are reported by the compiler, not here.
				return nil
			}
			if !bytes.Equal(src, formatted) {
				rel, _ := filepath.Rel(projectRoot, path)
				unformatted = append(unformatted, rel)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Failed to walk %s: %v", root, err)
		}
	}

	if len(unformatted) > 0 {
		t.Errorf("files not in gofmt form:\n  %s\n\nRun 'gofmt -w ./internal/ ./cmd/' to fix them.",
			strings.Join(unformatted, "\n  "))
	}
}
