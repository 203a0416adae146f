// Package shared provides constants and types used across CLI subpackages.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"errors"
	"fmt"

	clierrors "github.com/mongfont/mongdata/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupPipeline   = "pipeline"
	GroupInspection = "inspection"
	GroupInfo       = "info"
)

// Exit codes for CLI commands
const (
	ExitSuccess          = 0
	ExitValidationFailed = 1
	ExitInvalidArguments = 3
	ExitMissingData      = 4
)

// exitError is a custom error type that carries an exit code.
// The command has already reported the failure to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// IsExitError reports whether err only carries an exit code.
func IsExitError(err error) bool {
	var e *exitError
	return errors.As(err, &e)
}

// ExitCode returns the exit code for an error. CLI errors map by category:
// argument and configuration errors to ExitInvalidArguments, missing data
// to ExitMissingData.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument, clierrors.Configuration:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitMissingData
		}
	}
	return ExitValidationFailed
}
