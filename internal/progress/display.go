package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// ProgressDisplay orchestrates the display of progress indicators
type ProgressDisplay struct {
	capabilities TerminalCapabilities
	symbols      ProgressSymbols
	out          io.Writer

	mu           sync.Mutex
	currentStage *StageInfo
	spinner      *spinner.Spinner
}

// Option configures a ProgressDisplay.
type Option func(*ProgressDisplay)

// WithWriter sets where stage lines and the spinner are written. Defaults to
// os.Stderr so stdout carries only command output.
func WithWriter(w io.Writer) Option {
	return func(p *ProgressDisplay) {
		p.out = w
	}
}

// NewProgressDisplay creates a new progress display with the given terminal capabilities
func NewProgressDisplay(caps TerminalCapabilities, opts ...Option) *ProgressDisplay {
	p := &ProgressDisplay{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StartStage begins displaying progress for a stage
func (p *ProgressDisplay) StartStage(stage StageInfo) error {
	if err := stage.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()
	p.currentStage = &stage
	msg := buildStageMessage(stage, "Running")

	if p.capabilities.IsTTY {
		p.spinner = newSpinner(p.symbols.SpinnerSet, p.out)
		p.spinner.Suffix = " " + msg
		p.spinner.Start()
	} else {
		fmt.Fprintln(p.out, msg)
	}

	return nil
}

// Advance updates the item counts of the running stage. Safe for concurrent
// use. Non-TTY output only reports the start and end of a stage.
func (p *ProgressDisplay) Advance(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.currentStage == nil {
		return
	}
	p.currentStage.Done = done
	p.currentStage.Total = total
	if p.spinner != nil {
		p.spinner.Lock()
		p.spinner.Suffix = " " + buildStageMessage(*p.currentStage, "Running")
		p.spinner.Unlock()
	}
}

// CompleteStage stops the spinner and displays completion status
func (p *ProgressDisplay) CompleteStage(stage StageInfo) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()
	mark := checkmark(p.symbols, p.capabilities.SupportsColor)
	fmt.Fprintf(p.out, "%s %s complete\n", mark, buildStageMessage(stage, ""))

	p.currentStage = nil
	return nil
}

// FailStage stops the spinner and displays failure status
func (p *ProgressDisplay) FailStage(stage StageInfo, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()
	mark := failureMark(p.symbols, p.capabilities.SupportsColor)
	fmt.Fprintf(p.out, "%s %s failed: %v\n", mark, buildStageMessage(stage, ""), err)

	p.currentStage = nil
	return nil
}

// newSpinner returns a spinner drawing on out. Only a terminal file can show
// one, so any other writer gets a disabled spinner.
func newSpinner(set int, out io.Writer) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[set], 100*time.Millisecond, spinner.WithWriter(out))
	if f, ok := out.(*os.File); ok {
		spinner.WithWriterFile(f)(s)
	} else {
		s.Disable()
	}
	return s
}

// StopSpinner stops the spinner without showing completion/failure
func (p *ProgressDisplay) StopSpinner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopSpinner()
}

func (p *ProgressDisplay) stopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}
