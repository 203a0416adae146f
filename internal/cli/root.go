// mongdata - Mongolian glyph data validation and export

// Package cli provides the Cobra commands of mongdata: export and validate
// run the data pipeline, resolve inspects written forms, watch re-runs the
// pipeline on every data change.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mongfont/mongdata/internal/cli/shared"
	"github.com/mongfont/mongdata/internal/config"
	clierrors "github.com/mongfont/mongdata/internal/errors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mongdata",
	Short: "Mongolian glyph data validation and export",
	Long: `mongdata validates the authored Mongolian glyph corpus and exports it as JSON.

The corpus is a directory of tables (locales, writtenUnits, aliases, variants,
and optionally particles and ligatures) in YAML or JSON. Every variant of every
character is checked: default uniqueness, condition vocabularies, alias
categories, written-unit support and reference soundness.`,
	Example: `  # Check the corpus and list every violation
  mongdata validate

  # Write the JSON tables to output_dir (refuses when violations exist)
  mongdata export

  # Show what each variant of matching characters renders as
  mongdata resolve "MONGOLIAN LETTER *" --locale MNG

  # Re-validate and export on every save
  mongdata watch`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. Errors are reported to stderr here; the
// caller only maps them to an exit code.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupPipeline, Title: "Pipeline:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupInspection, Title: "Inspection:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupInfo, Title: "Info:"})
	rootCmd.SetHelpCommandGroupID(shared.GroupInfo)
	rootCmd.SetCompletionCommandGroupID(shared.GroupInfo)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultLocalConfigPath, "Path to config file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(), "See --help for the accepted flags")
	})

	rootCmd.AddCommand(exportCmd, validateCmd, resolveCmd, watchCmd, versionCmd)
}

// setup loads the configuration and installs the default logger before any
// command runs.
func setup(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(configPath)
	if err != nil {
		return clierrors.ConfigParseError(configPath, err)
	}

	configureLogging(cmd.ErrOrStderr(), cfg.SlogLevel(debug))
	slog.Debug("configuration loaded",
		"config", configPath,
		"data_dir", cfg.DataDir,
		"output_dir", cfg.OutputDir,
		"workers", cfg.Workers)

	// the root carries the context of this execution; a subcommand may still
	// hold the one from a previous run
	ctx := cmd.Root().Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withConfig(ctx, cfg))
	return nil
}

func configureLogging(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Configuration) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns the configuration installed by setup.
func configFrom(cmd *cobra.Command) *config.Configuration {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Configuration); ok {
		return cfg
	}
	panic(fmt.Sprintf("cli: %s ran without configuration", cmd.Name()))
}

// reportError prints err unless the command already did.
func reportError(w io.Writer, err error) {
	if shared.IsExitError(err) {
		return
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
		return
	}
	fmt.Fprint(w, clierrors.FormatSimpleError(err, clierrors.Runtime))
}

// checkArgs reports a failed positional argument check as an argument error.
func checkArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
		}
		return nil
	}
}
