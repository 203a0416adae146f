// Package testutil provides test helpers for writing corpus fixtures.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// corpusConfig holds the table files of a fixture corpus.
type corpusConfig struct {
	files map[string]string
}

// CorpusOption adjusts a fixture corpus before it is written.
type CorpusOption func(*corpusConfig)

// WithTable sets the content of a table file, e.g. WithTable("variants.yaml", "...").
func WithTable(name, content string) CorpusOption {
	return func(c *corpusConfig) {
		c.files[name] = content
	}
}

// WithoutTable removes a table file.
func WithoutTable(name string) CorpusOption {
	return func(c *corpusConfig) {
		delete(c.files, name)
	}
}

// MinimalTables is a valid corpus with one locale, one character and two
// variants at the isolated position.
var MinimalTables = map[string]string{
	"locales.yaml":      "MNG:\n  conditions: [onset]\n  categories:\n    vowel: [x]\n",
	"writtenUnits.yaml": "A:\n  isol: {}\n  init: {}\n",
	"aliases.yaml":      "X: x\n",
	"variants.yaml": `X:
  isol:
    0:
      written: [A]
      locales:
        MNG: {default: true}
    1:
      written: [A, A]
      locales:
        MNG: {conditions: [onset]}
`,
}

// CreateTempCorpus writes MinimalTables, adjusted by opts, into a temp
// directory and returns it.
func CreateTempCorpus(t *testing.T, opts ...CorpusOption) string {
	t.Helper()

	cfg := &corpusConfig{files: make(map[string]string, len(MinimalTables))}
	for name, content := range MinimalTables {
		cfg.files[name] = content
	}
	for _, opt := range opts {
		opt(cfg)
	}

	dir := t.TempDir()
	for name, content := range cfg.files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// CopyCorpus copies the table files of src into a temp directory so a test
// can modify them.
func CopyCorpus(t *testing.T, src string) string {
	t.Helper()

	dst := t.TempDir()
	entries, err := os.ReadDir(src)
	if err != nil {
		t.Fatalf("failed to read %s: %v", src, err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		if err != nil {
			t.Fatalf("failed to read %s: %v", e.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(dst, e.Name()), data, 0644); err != nil {
			t.Fatalf("failed to write %s: %v", e.Name(), err)
		}
	}
	return dst
}

// ReplaceInFile replaces the first occurrence of old in path. The test fails
// if old is not present.
func ReplaceInFile(t *testing.T, path, old, new string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	content := string(data)
	if !strings.Contains(content, old) {
		t.Fatalf("%s does not contain %q", path, old)
	}
	content = strings.Replace(content, old, new, 1)
	if err := os.WriteFile(path, []byte(content), fs.FileMode(0644)); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
