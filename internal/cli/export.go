package cli

import (
	"fmt"

	"github.com/mongfont/mongdata/internal/cli/shared"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Validate the corpus and write its JSON tables",
	Long: `Load and validate the corpus, then write one JSON file per table to
output_dir. Nothing is written when the corpus has violations; they are
printed and the command exits 1.`,
	Args:    checkArgs(cobra.NoArgs),
	GroupID: shared.GroupPipeline,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p := newPipeline(cmd, configFrom(cmd), 3)

		c, err := p.load()
		if err != nil {
			return err
		}
		_, report, err := p.validate(cmd.Context(), c)
		if err != nil {
			return err
		}
		if report.HasErrors() {
			printReport(cmd.OutOrStdout(), report)
			return NewExitError(ExitValidationFailed)
		}

		res, err := p.export(c, report)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s wrote %d tables to %s\n", okColor.Sprint("✓"), len(res.Files), res.Dir)
		for _, f := range res.Files {
			fmt.Fprintf(out, "  %s\n", f)
		}
		return nil
	},
}
