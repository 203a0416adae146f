// Package export writes a validated corpus as one JSON document per table.
// Every table keeps its declaration order, so exports of the same corpus are
// byte-identical.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mongfont/mongdata/internal/corpus"
	"github.com/mongfont/mongdata/internal/validation"
)

// ErrInvalidCorpus is returned when the report carries violations. Nothing is
// written in that case.
var ErrInvalidCorpus = errors.New("corpus has validation violations")

// Table is one encoded output document.
type Table struct {
	Name string // table name, e.g. "variants"
	Data []byte
}

// FileName returns the file the table is written to.
func (t Table) FileName() string {
	return t.Name + ".json"
}

type document struct {
	name  string
	build func() (any, error)
}

// Encode renders every table of the corpus. The auxiliary particles and
// ligatures tables are included only when the corpus has them.
func Encode(c *corpus.Corpus) ([]Table, error) {
	docs := []document{
		{corpus.TableLocales, func() (any, error) { return locales(c), nil }},
		{corpus.TableWrittenUnits, func() (any, error) { return writtenUnits(c), nil }},
		{corpus.TableAliases, func() (any, error) { return aliases(c), nil }},
		{corpus.TableVariants, func() (any, error) { return variants(c), nil }},
	}
	if c.Particles != nil {
		docs = append(docs, document{corpus.TableParticles, func() (any, error) { return particles(c), nil }})
	}
	if c.Ligatures != nil {
		docs = append(docs, document{corpus.TableLigatures, func() (any, error) { return value(c.Ligatures) }})
	}

	tables := make([]Table, 0, len(docs))
	for _, d := range docs {
		doc, err := d.build()
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", d.name, err)
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", d.name, err)
		}
		tables = append(tables, Table{Name: d.name, Data: append(data, '\n')})
	}
	return tables, nil
}

// Result describes a completed export.
type Result struct {
	Dir   string
	Files []string // paths of the written files, in table order
}

// Write encodes the corpus and writes its tables into dir, creating it if
// needed. It refuses to write anything when report has violations.
func Write(c *corpus.Corpus, report *validation.Report, dir string) (*Result, error) {
	if report == nil {
		return nil, fmt.Errorf("exporting: no validation report")
	}
	if report.HasErrors() {
		return nil, fmt.Errorf("exporting: %w (%d found)", ErrInvalidCorpus, len(report.Violations))
	}

	// encode everything first so a failure leaves the output untouched
	tables, err := Encode(c)
	if err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	res := &Result{Dir: dir}
	for _, t := range tables {
		path := filepath.Join(dir, t.FileName())
		if err := writeFile(path, t.Data); err != nil {
			return nil, err
		}
		slog.Debug("wrote table", "table", t.Name, "path", path, "bytes", len(t.Data))
		res.Files = append(res.Files, path)
	}
	return res, nil
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
