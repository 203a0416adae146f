// Package progress displays the load, validate and export stages of a CLI
// run: a spinner with a [N/Total] counter on terminals, plain lines otherwise.
package progress

import apperrors "github.com/mongfont/mongdata/internal/errors"

// Stage names used by the CLI.
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StageExport   = "export"
)

// StageStatus represents the execution state of a stage
type StageStatus int

const (
	// StagePending indicates the stage has not started yet
	StagePending StageStatus = iota
	// StageInProgress indicates the stage is currently running
	StageInProgress
	// StageCompleted indicates the stage finished successfully
	StageCompleted
	// StageFailed indicates the stage failed with an error
	StageFailed
)

// String returns the string representation of StageStatus
func (s StageStatus) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageInProgress:
		return "in_progress"
	case StageCompleted:
		return "completed"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StageInfo represents a stage for progress display
type StageInfo struct {
	// Name is the stage name, e.g. "validate"
	Name string
	// Number is the current stage number (1-based index)
	Number int
	// TotalStages is the total number of stages in the run
	TotalStages int
	// Status is the current execution status
	Status StageStatus
	// Done and Total count the items processed by the stage. Total 0 hides the count.
	Done  int
	Total int
}

// Validate checks that all StageInfo fields meet validation requirements
func (p StageInfo) Validate() error {
	if p.Name == "" {
		return apperrors.NewArgumentError("stage name cannot be empty")
	}
	if p.Number <= 0 {
		return apperrors.NewArgumentError("stage number must be > 0")
	}
	if p.TotalStages <= 0 {
		return apperrors.NewArgumentError("total stages must be > 0")
	}
	if p.Number > p.TotalStages {
		return apperrors.NewArgumentError("stage number cannot exceed total stages")
	}
	if p.Done < 0 || p.Total < 0 {
		return apperrors.NewArgumentError("item counts cannot be negative")
	}
	if p.Done > p.Total {
		return apperrors.NewArgumentError("done items cannot exceed total items")
	}
	return nil
}

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether the progress writer is a terminal
	IsTTY bool
	// SupportsColor indicates whether terminal supports ANSI color codes
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe)
	Width int
}

// ProgressSymbols defines the character set for visual indicators
type ProgressSymbols struct {
	// Checkmark is the success indicator ("✓" or "[OK]")
	Checkmark string
	// Failure is the failure indicator ("✗" or "[FAIL]")
	Failure string
	// SpinnerSet is the index into spinner.CharSets
	SpinnerSet int
}
