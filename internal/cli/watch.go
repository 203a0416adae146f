package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mongfont/mongdata/internal/cli/shared"
	"github.com/mongfont/mongdata/internal/config"
	clierrors "github.com/mongfont/mongdata/internal/errors"
	"github.com/mongfont/mongdata/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate (and export) whenever the data changes",
	Long: `Run the pipeline once, then again every time a table file in data_dir
changes. Changes arriving within watch_debounce_ms of each other are handled
together; files matching watch_ignore are skipped. Export runs only after a
clean validation. Stop with Ctrl-C.`,
	Args:    checkArgs(cobra.NoArgs),
	GroupID: shared.GroupPipeline,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := configFrom(cmd)
		noExport, _ := cmd.Flags().GetBool("no-export")

		cycle := func() {
			if err := runCycle(cmd, cfg, !noExport); err != nil {
				reportError(cmd.ErrOrStderr(), err)
			}
		}

		debounce := time.Duration(cfg.WatchDebounceMs) * time.Millisecond
		w, err := watcher.New(debounce, cfg.WatchIgnore, func(paths []string) {
			names := make([]string, len(paths))
			for i, p := range paths {
				names[i] = filepath.Base(p)
			}
			slog.Info("data changed", "files", names)
			cycle()
		})
		if err != nil {
			return clierrors.NewConfigError(err.Error(), "Fix the watch_ignore patterns in your config")
		}
		defer w.Close()

		cycle()
		fmt.Fprintf(cmd.OutOrStdout(), "watching %s (Ctrl-C to stop)\n", cfg.DataDir)

		ctx := cmd.Context()
		if err := w.Run(ctx, cfg.DataDir); err != nil {
			return watchError(cfg.DataDir, err)
		}
		if ctx.Err() == context.Canceled {
			slog.Debug("watch stopped")
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().Bool("no-export", false, "Only validate; never write output_dir")
}

// watchError maps a failure to start watching dir. Only a missing directory
// is a data problem; watch limits and permissions are runtime errors.
func watchError(dir string, err error) *clierrors.CLIError {
	if errors.Is(err, fs.ErrNotExist) {
		return clierrors.DataDirNotFound(dir)
	}
	return clierrors.WrapWithMessage(err, clierrors.Runtime, "cannot watch data directory",
		"Check that data_dir is readable",
		"On Linux, raise fs.inotify.max_user_watches if the watch limit is reached",
	)
}

// runCycle is one watch iteration. Violations are printed, not returned.
func runCycle(cmd *cobra.Command, cfg *config.Configuration, withExport bool) error {
	stages := 2
	if withExport {
		stages = 3
	}
	p := newPipeline(cmd, cfg, stages)

	c, err := p.load()
	if err != nil {
		return err
	}
	_, report, err := p.validate(cmd.Context(), c)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	if report.HasErrors() || !withExport {
		return nil
	}

	res, err := p.export(c, report)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %d tables to %s\n", okColor.Sprint("✓"), len(res.Files), res.Dir)
	return nil
}
