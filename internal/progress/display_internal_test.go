package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStage_SpinnerUsesWriter(t *testing.T) {
	t.Parallel()

	tty := TerminalCapabilities{IsTTY: true, SupportsUnicode: true}
	stage := StageInfo{Name: StageValidate, Number: 2, TotalStages: 3, Total: 4}

	t.Run("buffer", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		d := NewProgressDisplay(tty, WithWriter(&buf))
		require.NoError(t, d.StartStage(stage))
		defer d.StopSpinner()

		require.NotNil(t, d.spinner)
		assert.Same(t, &buf, d.spinner.Writer)
		assert.False(t, d.spinner.Enabled(), "only a terminal file can draw a spinner")
		assert.Empty(t, buf.String())
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		f, err := os.Create(filepath.Join(t.TempDir(), "stderr"))
		require.NoError(t, err)
		defer f.Close()

		d := NewProgressDisplay(tty, WithWriter(f))
		require.NoError(t, d.StartStage(stage))
		defer d.StopSpinner()

		require.NotNil(t, d.spinner)
		assert.Same(t, f, d.spinner.Writer)
		assert.Same(t, f, d.spinner.WriterFile)
	})
}

func TestNewProgressDisplay_DefaultsToStderr(t *testing.T) {
	t.Parallel()

	d := NewProgressDisplay(TerminalCapabilities{})
	assert.Same(t, os.Stderr, d.out)
}
