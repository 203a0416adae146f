package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	path := e.FilePath
	if path == "" {
		path = "config"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", path, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", path, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", path, e.Message)
}

// ValidateJSONSyntax checks that the file holds a single JSON object.
// Returns nil if valid, or a ValidationError with line/column information if invalid.
func ValidateJSONSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Missing file is not an error - will use defaults
		}
		if os.IsPermission(err) {
			return &ValidationError{FilePath: filePath, Message: "permission denied"}
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	return ValidateJSONSyntaxFromBytes(data, filePath)
}

// ValidateJSONSyntaxFromBytes checks that data holds a single JSON object.
func ValidateJSONSyntaxFromBytes(data []byte, filePath string) error {
	// koanf rejects an empty document, so it is reported here
	if len(bytes.TrimSpace(data)) == 0 {
		return &ValidationError{FilePath: filePath, Message: "file is empty; expected a JSON object"}
	}

	var obj map[string]any
	err := json.Unmarshal(data, &obj)
	if err == nil {
		if obj == nil {
			return &ValidationError{FilePath: filePath, Message: "expected a JSON object, got null"}
		}
		return nil
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, column := lineColumn(data, syntaxErr.Offset)
		return &ValidationError{FilePath: filePath, Line: line, Column: column, Message: syntaxErr.Error()}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: filePath, Message: fmt.Sprintf("expected a JSON object, got %s", typeErr.Value)}
	}
	return &ValidationError{FilePath: filePath, Message: err.Error()}
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, column = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			column = 1
			continue
		}
		column++
	}
	// the decoder reports the offset just past the offending byte
	if column > 1 {
		column--
	}
	return line, column
}

// fieldError converts the first failed validator rule into a ValidationError
// naming the config key.
func fieldError(fe validator.FieldError, filePath string) error {
	return &ValidationError{
		FilePath: filePath,
		Field:    fe.Field(),
		Message:  ruleMessage(fe),
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
