package progress

import (
	"fmt"
	"strings"
)

// formatStageCounter returns the [N/Total] stage counter string
func formatStageCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// buildStageMessage constructs the stage message. An empty action is omitted.
func buildStageMessage(stage StageInfo, action string) string {
	parts := []string{formatStageCounter(stage.Number, stage.TotalStages)}
	if action != "" {
		parts = append(parts, action)
	}
	parts = append(parts, capitalize(stage.Name), "stage")
	msg := strings.Join(parts, " ")

	if stage.Total > 0 {
		msg += fmt.Sprintf(" (%d/%d)", stage.Done, stage.Total)
	}

	return msg
}

// capitalize returns the string with the first letter capitalized
func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// checkmark returns the appropriate checkmark symbol
func checkmark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Checkmark
	if supportsColor && symbols.Checkmark == "✓" {
		mark = "\033[32m" + mark + "\033[0m" // Green
	}
	return mark
}

// failureMark returns the appropriate failure symbol
func failureMark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Failure
	if supportsColor && symbols.Failure == "✗" {
		mark = "\033[31m" + mark + "\033[0m" // Red
	}
	return mark
}
