package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mongfont/mongdata/internal/validation"
)

var (
	okColor      = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed, color.Bold)
	locatorColor = color.New(color.FgCyan)
)

// printReport writes every violation in full, then a summary by kind.
func printReport(w io.Writer, report *validation.Report) {
	if report.Valid() {
		fmt.Fprintf(w, "%s %d characters, %d variants: no violations\n",
			okColor.Sprint("✓"), report.Characters, report.Variants)
		return
	}

	n := len(report.Violations)
	for i, v := range report.Violations {
		fmt.Fprintf(w, "%s %s\n", failColor.Sprintf("✗ [%d/%d]", i+1, n), locatorColor.Sprint(v.Location()))
		fmt.Fprint(w, v.FormatFull())
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s %d characters, %d variants: %s\n",
		failColor.Sprint("✗"), report.Characters, report.Variants, summarize(report))
}

// summarize renders "3 violations (MissingDefaultVariant: 2, ReferenceCycle: 1)".
func summarize(report *validation.Report) string {
	counts := report.CountByKind()
	kinds := make([]validation.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s: %d", k, counts[k])
	}
	noun := "violations"
	if len(report.Violations) == 1 {
		noun = "violation"
	}
	return fmt.Sprintf("%d %s (%s)", len(report.Violations), noun, strings.Join(parts, ", "))
}
