package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	headingColor = color.New(color.FgRed, color.Bold)
	labelColor   = color.New(color.FgYellow)
	stepColor    = color.New(color.FgCyan)
)

// FormatError renders err with colors. color.NoColor turns them off.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return format(err, headingColor.Sprint, labelColor.Sprint, stepColor.Sprint)
}

// FormatErrorPlain renders err without ANSI escapes.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return format(err, fmt.Sprint, fmt.Sprint, fmt.Sprint)
}

type paint func(a ...interface{}) string

func format(err *CLIError, heading, label, step paint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", heading(err.Category.String()), err.Message)
	if err.Usage != "" {
		fmt.Fprintf(&b, "\n%s\n  %s\n", label("Usage:"), err.Usage)
	}
	if len(err.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", label("To fix this:"))
		for i, r := range err.Remediation {
			fmt.Fprintf(&b, "  %s %s\n", step(fmt.Sprintf("%d.", i+1)), r)
		}
	}
	return b.String()
}

// PrintError writes the formatted error to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError writes the formatted error to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError renders a plain error under the given category heading.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatError(cliErr)
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}
