package cli

import (
	"fmt"
	"runtime"

	"github.com/mongfont/mongdata/internal/build"
	"github.com/mongfont/mongdata/internal/cli/shared"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Display version information",
	Long:    "Display version, commit, build date, and Go version information for mongdata",
	Args:    checkArgs(cobra.NoArgs),
	GroupID: shared.GroupInfo,
	// version needs no configuration
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mongdata version %s\n", build.Version)
		fmt.Fprintf(out, "Built from commit: %s\n", build.Commit)
		fmt.Fprintf(out, "Build date: %s\n", build.BuildDate)
		fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		if build.IsDevBuild() {
			fmt.Fprintln(out, "Development build")
		}
	},
}
