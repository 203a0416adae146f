// Package progress_test tests terminal detection for the progress writer.
// Related: internal/progress/terminal.go
// Tags: progress, terminal, capabilities, stderr, ascii
package progress_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mongfont/mongdata/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTerminalCapabilities_NotATerminal(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		writer func(t *testing.T) io.Writer
	}{
		"buffer": {
			writer: func(t *testing.T) io.Writer { return &bytes.Buffer{} },
		},
		"regular file": {
			writer: func(t *testing.T) io.Writer {
				f, err := os.Create(filepath.Join(t.TempDir(), "progress.log"))
				require.NoError(t, err)
				t.Cleanup(func() { f.Close() })
				return f
			},
		},
		"pipe": {
			writer: func(t *testing.T) io.Writer {
				r, w, err := os.Pipe()
				require.NoError(t, err)
				t.Cleanup(func() {
					r.Close()
					w.Close()
				})
				return w
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			caps := progress.DetectTerminalCapabilities(tt.writer(t))
			assert.Equal(t, progress.TerminalCapabilities{}, caps, "a redirected writer gets plain lines")
		})
	}
}

func TestDetectTerminalCapabilities_PlainLinesOnWriter(t *testing.T) {
	t.Parallel()

	// what `mongdata resolve --json 2>log` sees: stage lines land on the
	// progress writer, in ASCII, and nothing else is written there
	var stderr bytes.Buffer
	caps := progress.DetectTerminalCapabilities(&stderr)
	display := progress.NewProgressDisplay(caps, progress.WithWriter(&stderr))

	stage := progress.StageInfo{Name: progress.StageLoad, Number: 1, TotalStages: 1}
	require.NoError(t, display.StartStage(stage))
	require.NoError(t, display.CompleteStage(stage))

	assert.Equal(t, "[1/1] Running Load stage\n[OK] [1/1] Load stage complete\n", stderr.String())
}

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps        progress.TerminalCapabilities
		wantCheck   string
		wantFailure string
		wantSet     int
	}{
		"unicode terminal": {
			caps:        progress.TerminalCapabilities{IsTTY: true, SupportsUnicode: true, SupportsColor: true},
			wantCheck:   "✓",
			wantFailure: "✗",
			wantSet:     14,
		},
		"MONGDATA_ASCII terminal": {
			caps:        progress.TerminalCapabilities{IsTTY: true, SupportsColor: true},
			wantCheck:   "[OK]",
			wantFailure: "[FAIL]",
			wantSet:     9,
		},
		"redirected": {
			caps:        progress.TerminalCapabilities{},
			wantCheck:   "[OK]",
			wantFailure: "[FAIL]",
			wantSet:     9,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			symbols := progress.SelectSymbols(tt.caps)
			assert.Equal(t, tt.wantCheck, symbols.Checkmark)
			assert.Equal(t, tt.wantFailure, symbols.Failure)
			assert.Equal(t, tt.wantSet, symbols.SpinnerSet)
		})
	}
}
