package corpus

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// Table names. Each table is one file in the data directory.
const (
	TableLocales      = "locales"
	TableWrittenUnits = "writtenUnits"
	TableAliases      = "aliases"
	TableVariants     = "variants"
	TableParticles    = "particles"
	TableLigatures    = "ligatures"
)

// RequiredTables must be present in every data directory.
var RequiredTables = []string{TableLocales, TableWrittenUnits, TableAliases, TableVariants}

// TableExtensions are tried in order when looking for a table file. JSON is
// read through the YAML decoder, so exported tables load back unchanged.
var TableExtensions = []string{".yaml", ".yml", ".json"}

// ErrTableNotFound is returned when a required table has no file.
var ErrTableNotFound = errors.New("table not found")

// LoadDir loads the corpus from the tables in dir.
func LoadDir(dir string) (*Corpus, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening data directory: %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS loads the corpus from the tables at the root of fsys.
func LoadFS(fsys fs.FS) (*Corpus, error) {
	c := &Corpus{}
	steps := []struct {
		table    string
		required bool
		decode   func(*decoder, *yaml.Node) error
	}{
		{TableLocales, true, func(d *decoder, n *yaml.Node) (err error) {
			c.Locales, err = d.locales(n)
			return err
		}},
		{TableWrittenUnits, true, func(d *decoder, n *yaml.Node) (err error) {
			c.WrittenUnits, err = d.writtenUnits(n)
			return err
		}},
		{TableAliases, true, func(d *decoder, n *yaml.Node) (err error) {
			c.Aliases, err = d.aliases(n)
			return err
		}},
		{TableVariants, true, func(d *decoder, n *yaml.Node) (err error) {
			c.Characters, err = d.characters(n)
			return err
		}},
		{TableParticles, false, func(d *decoder, n *yaml.Node) (err error) {
			c.Particles, err = d.particles(n)
			return err
		}},
		{TableLigatures, false, func(d *decoder, n *yaml.Node) (err error) {
			c.Ligatures, err = d.value(n, "")
			return err
		}},
	}

	for _, step := range steps {
		name, ok := findTable(fsys, step.table)
		if !ok {
			if step.required {
				return nil, fmt.Errorf("loading %s: %w (tried %s.{yaml,yml,json})", step.table, ErrTableNotFound, step.table)
			}
			continue
		}
		root, err := readNode(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", step.table, err)
		}
		if err := step.decode(&decoder{file: name}, root); err != nil {
			return nil, fmt.Errorf("loading %s: %w", step.table, err)
		}
		slog.Debug("loaded table", "table", step.table, "file", name)
	}

	slog.Debug("corpus loaded",
		"locales", len(c.Locales),
		"writtenUnits", len(c.WrittenUnits),
		"characters", len(c.Characters),
		"variants", c.VariantCount())
	return c, nil
}

func findTable(fsys fs.FS, table string) (string, bool) {
	for _, ext := range TableExtensions {
		name := table + ext
		if info, err := fs.Stat(fsys, name); err == nil && !info.IsDir() {
			return name, true
		}
	}
	return "", false
}

// readNode parses a table file. An empty file yields a nil node, which
// decodes as an empty table.
func readNode(fsys fs.FS, name string) (*yaml.Node, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var node yaml.Node
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&node); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, &DecodeError{File: path.Base(name), Message: err.Error()}
	}
	return &node, nil
}
