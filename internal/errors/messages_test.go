// Package errors_test tests structured CLI error message generation and remediation steps.
// Related: internal/errors/messages.go
// Tags: errors, cli-errors, messages, remediation, error-categories
package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestMessages(t *testing.T) {
	t.Parallel()

	cause := &testError{}
	tests := map[string]struct {
		err         *CLIError
		category    ErrorCategory
		contains    string
		wantUsage   bool
		wantWrapped bool
	}{
		"data dir":       {err: DataDirNotFound("/srv/data"), category: Prerequisite, contains: "/srv/data"},
		"table":          {err: TableNotFound("data", "variants"), category: Prerequisite, contains: `"variants"`},
		"corpus load":    {err: CorpusLoadError(cause), category: Prerequisite, contains: "loading corpus: test error", wantWrapped: true},
		"config parse":   {err: ConfigParseError("/x/config.json", cause), category: Configuration, contains: "/x/config.json", wantWrapped: true},
		"config no path": {err: ConfigParseError("", cause), category: Configuration, contains: "failed to load configuration"},
		"position":       {err: InvalidPosition("mid"), category: Argument, contains: `"mid"`},
		"locale":         {err: InvalidLocale("XYZ"), category: Argument, contains: `"XYZ"`},
		"pattern":        {err: InvalidPattern("[", cause), category: Argument, contains: `"["`, wantUsage: true, wantWrapped: true},
		"no match":       {err: NoCharactersMatched("FOO*"), category: Argument, contains: "FOO*"},
		"output":         {err: OutputNotWritable("dist", cause), category: Runtime, contains: "cannot write to dist", wantWrapped: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if tt.err.Category != tt.category {
				t.Errorf("Expected %v category, got %v", tt.category, tt.err.Category)
			}
			if !strings.Contains(tt.err.Message, tt.contains) {
				t.Errorf("Expected message %q to contain %q", tt.err.Message, tt.contains)
			}
			if len(tt.err.Remediation) == 0 {
				t.Error("Expected remediation steps")
			}
			if tt.wantUsage && tt.err.Usage == "" {
				t.Error("Expected non-empty usage")
			}
			if tt.wantWrapped && !stderrors.Is(tt.err, cause) {
				t.Error("Expected the cause to be wrapped")
			}
		})
	}
}
