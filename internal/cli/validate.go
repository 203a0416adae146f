package cli

import (
	"github.com/mongfont/mongdata/internal/cli/shared"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"check"},
	Short:   "Check the corpus and list every violation",
	Long: `Load the corpus from data_dir and run every check. All violations are
printed; the command exits 1 if there is at least one.`,
	Args:    checkArgs(cobra.NoArgs),
	GroupID: shared.GroupPipeline,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p := newPipeline(cmd, configFrom(cmd), 2)

		c, err := p.load()
		if err != nil {
			return err
		}
		_, report, err := p.validate(cmd.Context(), c)
		if err != nil {
			return err
		}

		printReport(cmd.OutOrStdout(), report)
		if report.HasErrors() {
			return NewExitError(ExitValidationFailed)
		}
		return nil
	},
}
