package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mongfont/mongdata/internal/config"
	"github.com/mongfont/mongdata/internal/corpus"
	clierrors "github.com/mongfont/mongdata/internal/errors"
	"github.com/mongfont/mongdata/internal/export"
	"github.com/mongfont/mongdata/internal/progress"
	"github.com/mongfont/mongdata/internal/validation"
	"github.com/spf13/cobra"
)

// pipeline runs the load, validate and export stages of one command,
// reporting each stage on the progress display.
type pipeline struct {
	cfg     *config.Configuration
	display *progress.ProgressDisplay // nil when show_progress is off
	total   int
	number  int
}

func newPipeline(cmd *cobra.Command, cfg *config.Configuration, stages int) *pipeline {
	p := &pipeline{cfg: cfg, total: stages}
	if cfg.ShowProgress {
		caps := progress.DetectTerminalCapabilities(cmd.ErrOrStderr())
		p.display = progress.NewProgressDisplay(caps, progress.WithWriter(cmd.ErrOrStderr()))
	}
	return p
}

func (p *pipeline) begin(name string, items int) progress.StageInfo {
	p.number++
	stage := progress.StageInfo{
		Name:        name,
		Number:      p.number,
		TotalStages: p.total,
		Status:      progress.StageInProgress,
		Total:       items,
	}
	if p.display != nil {
		if err := p.display.StartStage(stage); err != nil {
			slog.Debug("progress display", "error", err)
		}
	}
	return stage
}

func (p *pipeline) advance(done, items int) {
	if p.display != nil {
		p.display.Advance(done, items)
	}
}

func (p *pipeline) complete(stage progress.StageInfo) {
	stage.Status = progress.StageCompleted
	stage.Done = stage.Total
	if p.display != nil {
		_ = p.display.CompleteStage(stage)
	}
}

func (p *pipeline) fail(stage progress.StageInfo, err error) {
	stage.Status = progress.StageFailed
	if p.display != nil {
		_ = p.display.FailStage(stage, err)
	}
}

// load reads the corpus from the configured data directory.
func (p *pipeline) load() (*corpus.Corpus, error) {
	start := time.Now()
	stage := p.begin(progress.StageLoad, 0)
	c, err := corpus.LoadDir(p.cfg.DataDir)
	if err != nil {
		p.fail(stage, err)
		return nil, loadError(p.cfg.DataDir, err)
	}
	p.complete(stage)
	slog.Debug("load stage done", "dir", p.cfg.DataDir, "elapsed", time.Since(start))
	return c, nil
}

func loadError(dir string, err error) *clierrors.CLIError {
	var decodeErr *corpus.DecodeError
	switch {
	case errors.Is(err, corpus.ErrTableNotFound), errors.As(err, &decodeErr):
		return clierrors.CorpusLoadError(err)
	case errors.Is(err, fs.ErrNotExist):
		return clierrors.DataDirNotFound(dir)
	default:
		return clierrors.CorpusLoadError(err)
	}
}

// validate checks the corpus. A report with violations is not an error.
func (p *pipeline) validate(ctx context.Context, c *corpus.Corpus) (*corpus.Registry, *validation.Report, error) {
	reg := corpus.NewRegistry(c)
	items := len(c.Characters)
	stage := p.begin(progress.StageValidate, items)

	var done atomic.Int64
	v := validation.New(reg,
		validation.WithWorkers(p.cfg.Workers),
		validation.WithProgress(func(corpus.CharacterName) {
			p.advance(int(done.Add(1)), items)
		}),
	)
	report, err := v.Validate(ctx)
	if err != nil {
		p.fail(stage, err)
		return nil, nil, clierrors.Wrap(err, clierrors.Runtime)
	}
	if report.HasErrors() {
		p.fail(stage, fmt.Errorf("%d violations", len(report.Violations)))
	} else {
		p.complete(stage)
	}
	slog.Info("corpus validated",
		"characters", report.Characters,
		"variants", report.Variants,
		"violations", len(report.Violations))
	return reg, report, nil
}

// export writes the JSON tables to the configured output directory.
func (p *pipeline) export(c *corpus.Corpus, report *validation.Report) (*export.Result, error) {
	stage := p.begin(progress.StageExport, 0)
	res, err := export.Write(c, report, p.cfg.OutputDir)
	if err != nil {
		p.fail(stage, err)
		if errors.Is(err, export.ErrInvalidCorpus) {
			return nil, clierrors.Wrap(err, clierrors.Runtime)
		}
		return nil, clierrors.OutputNotWritable(p.cfg.OutputDir, err)
	}
	p.complete(stage)
	slog.Info("corpus exported", "dir", res.Dir, "tables", len(res.Files))
	return res, nil
}
