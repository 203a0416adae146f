// Package errors_test tests CLI error categories and cause chains for
// corpus loading, configuration and export failures.
// Related: internal/errors/errors.go, internal/errors/messages.go
// Tags: errors, cli-errors, categories, unwrap
package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/mongfont/mongdata/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testError struct{}

func (e *testError) Error() string { return "test error" }

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[ErrorCategory]string{
		Argument:          "Argument Error",
		Configuration:     "Configuration Error",
		Prerequisite:      "Prerequisite Error",
		Runtime:           "Runtime Error",
		ErrorCategory(42): "Error",
	}
	for category, want := range tests {
		assert.Equal(t, want, category.String())
	}
}

func TestCorpusLoadError_UnwrapsDecodeError(t *testing.T) {
	t.Parallel()

	decodeErr := &corpus.DecodeError{
		File:    "variants.yaml",
		Line:    12,
		Column:  7,
		Path:    `variants["MONGOLIAN LETTER A"].isol`,
		Message: `invalid FVS "9"`,
	}
	loadErr := fmt.Errorf("loading variants: %w", decodeErr)

	err := CorpusLoadError(loadErr)
	require.NotNil(t, err)
	assert.Equal(t, Prerequisite, err.Category)
	assert.Equal(t,
		`loading corpus: loading variants: variants.yaml:12:7: variants["MONGOLIAN LETTER A"].isol: invalid FVS "9"`,
		err.Message)
	require.Len(t, err.Remediation, 1)
	assert.Contains(t, err.Remediation[0], "reported file and line")

	var got *corpus.DecodeError
	require.True(t, stderrors.As(err, &got), "the decode error stays reachable")
	assert.Same(t, decodeErr, got)
	assert.Equal(t, 12, got.Line)
}

func TestCorpusLoadError_MissingTable(t *testing.T) {
	t.Parallel()

	err := CorpusLoadError(fmt.Errorf("loading aliases: %w", corpus.ErrTableNotFound))
	assert.True(t, stderrors.Is(err, corpus.ErrTableNotFound))
	assert.Equal(t, Prerequisite, err.Category)
}

func TestOutputNotWritable_KeepsCause(t *testing.T) {
	t.Parallel()

	cause := &fs.PathError{Op: "mkdir", Path: "/ro/dist", Err: fs.ErrPermission}
	err := OutputNotWritable("/ro/dist", cause)

	assert.Equal(t, Runtime, err.Category)
	assert.Equal(t, "cannot write to /ro/dist: mkdir /ro/dist: permission denied", err.Message)
	assert.True(t, stderrors.Is(err, fs.ErrPermission))

	var pathErr *fs.PathError
	require.True(t, stderrors.As(err, &pathErr))
	assert.Equal(t, "mkdir", pathErr.Op)
}

func TestDataDirNotFound_HasNoCause(t *testing.T) {
	t.Parallel()

	err := DataDirNotFound("corpus")
	assert.Equal(t, Prerequisite, err.Category)
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, []string{"Set data_dir in .mongdata/config.json or MONGDATA_DATA_DIR"}, err.Remediation)
}

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		wrap        func(error) *CLIError
		wantMessage string
	}{
		"wrap": {
			wrap:        func(err error) *CLIError { return Wrap(err, Runtime) },
			wantMessage: "test error",
		},
		"wrap with message": {
			wrap:        func(err error) *CLIError { return WrapWithMessage(err, Runtime, "validating") },
			wantMessage: "validating: test error",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Nil(t, tt.wrap(nil), "nil stays nil")

			cause := &testError{}
			err := tt.wrap(cause)
			require.NotNil(t, err)
			assert.Equal(t, tt.wantMessage, err.Error())
			assert.Same(t, cause, err.Unwrap())
		})
	}
}

func TestAsCLIError(t *testing.T) {
	t.Parallel()

	cliErr := InvalidLocale("XYZ")
	tests := map[string]struct {
		err  error
		want *CLIError
	}{
		"direct":       {err: cliErr, want: cliErr},
		"wrapped":      {err: fmt.Errorf("resolve: %w", cliErr), want: cliErr},
		"plain error":  {err: &testError{}},
		"decode error": {err: &corpus.DecodeError{Message: "bad"}},
		"nil":          {err: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := AsCLIError(tt.err)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				assert.Same(t, tt.want, got)
			}
			assert.Equal(t, tt.want != nil, IsCLIError(tt.err))
		})
	}
}
