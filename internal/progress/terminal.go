package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ASCIIEnv forces ASCII progress symbols when set to "1".
const ASCIIEnv = "MONGDATA_ASCII"

// DetectTerminalCapabilities reports what the progress writer w can show.
// Progress is drawn on stderr, so a command can pipe stdout (resolve --json)
// and still get a spinner. A writer that is not a terminal file gets plain
// lines.
func DetectTerminalCapabilities(w io.Writer) TerminalCapabilities {
	f, ok := w.(*os.File)
	if !ok {
		return TerminalCapabilities{}
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return TerminalCapabilities{}
	}

	width := 0
	if cols, _, err := term.GetSize(fd); err == nil {
		width = cols
	}
	return TerminalCapabilities{
		IsTTY:           true,
		SupportsColor:   os.Getenv("NO_COLOR") == "",
		SupportsUnicode: os.Getenv(ASCIIEnv) != "1",
		Width:           width,
	}
}

// SelectSymbols picks the stage marks and spinner frames.
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}
	return ProgressSymbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // | / - \
	}
}
