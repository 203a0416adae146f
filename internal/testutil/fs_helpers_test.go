// Package testutil tests the corpus fixture helpers.
// Related: internal/testutil/fs_helpers.go
// Tags: testutil, helpers, fixtures, filesystem

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mongfont/mongdata/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTempCorpus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts      []CorpusOption
		wantFiles []string
		wantErr   bool
	}{
		"minimal": {
			wantFiles: []string{"aliases.yaml", "locales.yaml", "variants.yaml", "writtenUnits.yaml"},
		},
		"extra table": {
			opts:      []CorpusOption{WithTable("particles.yaml", "MNG:\n  x: [0]\n")},
			wantFiles: []string{"aliases.yaml", "locales.yaml", "particles.yaml", "variants.yaml", "writtenUnits.yaml"},
		},
		"missing table": {
			opts:      []CorpusOption{WithoutTable("aliases.yaml")},
			wantFiles: []string{"locales.yaml", "variants.yaml", "writtenUnits.yaml"},
			wantErr:   true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := CreateTempCorpus(t, tc.opts...)
			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			assert.Equal(t, tc.wantFiles, names)

			_, err = corpus.LoadDir(dir)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCopyCorpus(t *testing.T) {
	t.Parallel()

	src := CreateTempCorpus(t)
	dst := CopyCorpus(t, src)
	assert.NotEqual(t, src, dst)

	ReplaceInFile(t, filepath.Join(dst, "aliases.yaml"), "X: x", "X: y")

	orig, err := os.ReadFile(filepath.Join(src, "aliases.yaml"))
	require.NoError(t, err)
	copied, err := os.ReadFile(filepath.Join(dst, "aliases.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "X: x\n", string(orig))
	assert.Equal(t, "X: y\n", string(copied))
}
