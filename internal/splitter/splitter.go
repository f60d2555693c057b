// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package splitter wires the parser, planner and renderer to the output
// side: writing files under the journal, verifying, reporting and
// committing, for one or more input files.
package splitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/rsplit/internal/config"
	"github.com/petar-djukic/rsplit/internal/journal"
	"github.com/petar-djukic/rsplit/internal/output"
	"github.com/petar-djukic/rsplit/internal/render"
	"github.com/petar-djukic/rsplit/internal/report"
	"github.com/petar-djukic/rsplit/internal/scan"
	"github.com/petar-djukic/rsplit/internal/verify"
	"github.com/petar-djukic/rsplit/pkg/types"
)

// Errors returned by Run and Split, wrapped with file context.
var (
	ErrParseFailure = errors.New("parse failure")
	ErrWriteFailure = errors.New("output write failure")
	ErrVerifyFailed = errors.New("verification failed")
	ErrNoInput      = errors.New("no input files")
)

// Journal records runs so they can be rolled back.
type Journal interface {
	Record(input string, src []byte, outputDir string, snap *journal.Snapshot) (journal.Run, error)
	LastFor(input string) (journal.Run, bool, error)
	Rollback(id string) (journal.Run, error)
}

// Committer commits generated files.
type Committer interface {
	HandleDirty() error
	AutoCommit(input string, files []string) error
}

// VerifyFunc runs the verify command. verify.Run is the default.
type VerifyFunc func(ctx context.Context, cfg verify.Config) (*verify.Result, error)

// Options selects what a run does beyond planning.
type Options struct {
	Config      config.Config
	OutputDir   string // overrides <dir>/<stem>, single input only
	WorkDir     string // directory the verify command runs in
	DryRun      bool
	Interactive bool
	Report      string // "", "yaml" or "json"
	Diff        bool   // print diffs of files that would be overwritten
	Force       bool   // split inputs already split in an identical state
	Progress    bool   // show a progress bar for more than one input
}

// Deps holds injected collaborators. Nil members disable their feature.
type Deps struct {
	Journal   Journal
	Git       Committer
	Formatter render.Formatter
	Verify    VerifyFunc
	Confirm   func(question string) (bool, error)
	Out       io.Writer // previews, diffs, reports
	Err       io.Writer // progress and verify failures
	Logger    *slog.Logger
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Input       string
	OutputDir   string
	Written     []string // paths written, empty in dry runs
	RunID       string
	Skipped     string // reason the file was not written
	Report      *report.Report
	Verify      *verify.Result
	Diagnostics []types.Diagnostic
	Err         error
}

// Summary collects the results of one Run in input order.
type Summary struct {
	Files []*FileResult
}

// Written returns every path written by the run.
func (s *Summary) Written() []string {
	var out []string
	for _, f := range s.Files {
		out = append(out, f.Written...)
	}
	return out
}

// Runner orchestrates splitting.
type Runner struct {
	opts Options
	deps Deps
	mu   sync.Mutex // serializes writes to Out
}

// NewRunner creates a Runner, filling in defaults for nil dependencies.
func NewRunner(opts Options, deps Deps) *Runner {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Formatter == nil {
		deps.Formatter = render.Passthrough{}
	}
	if deps.Verify == nil {
		deps.Verify = verify.Run
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Err == nil {
		deps.Err = io.Discard
	}
	return &Runner{opts: opts, deps: deps}
}

// Run expands args into input files and splits each. Files are processed
// concurrently up to split.concurrency; interactive runs go one at a time.
// A failure of one file does not stop the others; the returned error joins
// the per-file failures.
func (r *Runner) Run(ctx context.Context, args []string) (*Summary, error) {
	cfg := r.opts.Config
	found, err := scan.Expand(args, scan.Options{
		Include:      cfg.Output.Include,
		Exclude:      cfg.Output.Exclude,
		MinFileLines: cfg.Split.MinFileLines,
	})
	if err != nil {
		return nil, err
	}
	for _, s := range found.Skipped {
		r.deps.Logger.Info("skipping input", "file", s.Path, "reason", s.Reason)
	}
	if len(found.Files) == 0 {
		return nil, ErrNoInput
	}
	if r.opts.OutputDir != "" && len(found.Files) > 1 {
		return nil, fmt.Errorf("--output needs a single input file, got %d", len(found.Files))
	}

	writing := !r.opts.DryRun
	if writing && r.deps.Git != nil {
		if err := r.deps.Git.HandleDirty(); err != nil {
			return nil, fmt.Errorf("handling dirty files: %w", err)
		}
	}

	limit := cfg.Split.Concurrency
	if limit < 1 || r.opts.Interactive {
		limit = 1
	}

	var bar *progressbar.ProgressBar
	if r.opts.Progress && len(found.Files) > 1 {
		bar = progressbar.NewOptions(len(found.Files),
			progressbar.OptionSetWriter(r.deps.Err),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("splitting"),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(r.deps.Err)
			}),
		)
	}

	summary := &Summary{Files: make([]*FileResult, len(found.Files))}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range found.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := r.processFile(gctx, path)
			summary.Files[i] = res
			if bar != nil {
				_ = bar.Add(1)
			}
			if errors.Is(res.Err, context.Canceled) {
				return res.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		done := summary.Files[:0]
		for _, res := range summary.Files {
			if res != nil {
				done = append(done, res)
			}
		}
		summary.Files = done
		return summary, err
	}

	var errs []error
	for _, res := range summary.Files {
		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}
		if writing && r.deps.Git != nil && len(res.Written) > 0 {
			if err := r.deps.Git.AutoCommit(res.Input, res.Written); err != nil {
				errs = append(errs, fmt.Errorf("committing %s: %w", res.Input, err))
			}
		}
	}

	if r.opts.Report != "" {
		reports := make([]*report.Report, 0, len(summary.Files))
		for _, res := range summary.Files {
			if res.Report != nil {
				reports = append(reports, res.Report)
			}
		}
		if err := report.Encode(r.deps.Out, r.opts.Report, reports); err != nil {
			errs = append(errs, err)
		}
	}
	return summary, errors.Join(errs...)
}

// OutputDirFor returns the default output directory of input: a directory
// named after the file stem next to it.
func OutputDirFor(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input))
}

func (r *Runner) processFile(ctx context.Context, path string) *FileResult {
	res := &FileResult{Input: path, OutputDir: r.opts.OutputDir}
	if res.OutputDir == "" {
		res.OutputDir = OutputDirFor(path)
	}
	logger := r.deps.Logger.With("file", path)

	src, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("reading %s: %w", path, err)
		return res
	}

	if reason := r.unchanged(path, src); reason != "" {
		res.Skipped = reason
		res.Report = &report.Report{Input: path, OutputDir: res.OutputDir, Skipped: reason}
		logger.Info("skipping unchanged input", "reason", reason)
		return res
	}

	out, err := Split(ctx, path, src, r.opts.Config, r.deps.Formatter, logger)
	if err != nil {
		res.Err = err
		return res
	}
	res.Diagnostics = out.Plan.Diagnostics
	res.Report = report.New(path, res.OutputDir, out.Plan, out.Contents(), out.Cycles)

	if r.opts.Diff {
		r.printDiffs(res.OutputDir, out.Files)
	}
	if r.opts.DryRun {
		res.Skipped = "dry run"
		r.locked(func() { err = report.Preview(r.deps.Out, res.Report) })
		res.Err = err
		return res
	}
	if r.opts.Interactive {
		ok, err := r.confirm(res)
		if err != nil {
			res.Err = err
			return res
		}
		if !ok {
			res.Skipped = "declined"
			return res
		}
	}

	if err := r.write(path, src, res, out.Files); err != nil {
		res.Err = err
		return res
	}
	logger.Info("split written", "dir", res.OutputDir, "files", len(res.Written), "run", res.RunID)

	if cmd := r.opts.Config.Verify.Command; cmd != "" {
		res.Err = r.verify(ctx, cmd, res)
	}
	return res
}

// unchanged reports why path need not be split again: its last live run
// recorded the same content hash.
func (r *Runner) unchanged(path string, src []byte) string {
	if r.deps.Journal == nil || r.opts.Force || r.opts.DryRun {
		return ""
	}
	run, ok, err := r.deps.Journal.LastFor(path)
	if err != nil {
		r.deps.Logger.Warn("reading journal", "file", path, "error", err)
		return ""
	}
	if !ok || run.InputHash != journal.Hash(src) {
		return ""
	}
	for _, f := range run.Files() {
		if _, err := os.Stat(f); err != nil {
			return ""
		}
	}
	return "unchanged since run " + run.ID
}

func (r *Runner) confirm(res *FileResult) (bool, error) {
	if r.deps.Confirm == nil {
		return false, errors.New("interactive mode needs a terminal prompt")
	}
	var ok bool
	var err error
	r.locked(func() {
		if err = report.Preview(r.deps.Out, res.Report); err != nil {
			return
		}
		ok, err = r.deps.Confirm(fmt.Sprintf("Write %d files to %s?", len(res.Report.Units)+1, res.OutputDir))
	})
	return ok, err
}

func (r *Runner) printDiffs(dir string, files []output.File) {
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		old, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if d := report.Diff(path, string(old), f.Content); d != "" {
			r.locked(func() { io.WriteString(r.deps.Out, d) })
		}
	}
}

// write writes files under the journal. On a write failure the partial
// output is rolled back.
func (r *Runner) write(path string, src []byte, res *FileResult, files []output.File) error {
	var snap *journal.Snapshot
	if r.deps.Journal != nil {
		targets := make([]string, len(files))
		for i, f := range files {
			targets[i] = filepath.Join(res.OutputDir, f.Name)
		}
		var err error
		if snap, err = journal.Capture(targets); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteFailure, err)
		}
	}

	written, werr := output.WriteAll(res.OutputDir, files)
	res.Written = written

	if r.deps.Journal != nil {
		run, err := r.deps.Journal.Record(path, src, res.OutputDir, snap)
		if err != nil {
			r.deps.Logger.Warn("recording run", "file", path, "error", err)
		} else {
			res.RunID = run.ID
		}
	}
	if werr == nil {
		return nil
	}
	if res.RunID != "" {
		if _, err := r.deps.Journal.Rollback(res.RunID); err != nil {
			r.deps.Logger.Warn("rolling back partial output", "run", res.RunID, "error", err)
		}
		res.Written = nil
	}
	return fmt.Errorf("%w: %w", ErrWriteFailure, werr)
}

func (r *Runner) verify(ctx context.Context, cmd string, res *FileResult) error {
	vcfg := r.opts.Config.Verify
	vr, err := r.deps.Verify(ctx, verify.Config{Command: cmd, WorkDir: r.opts.WorkDir, Timeout: vcfg.Timeout})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerifyFailed, err)
	}
	res.Verify = vr
	if vr.Success() {
		return nil
	}

	r.locked(func() { io.WriteString(r.deps.Err, verify.Format(vr, r.opts.WorkDir, verify.FormatConfig{})) })
	if vcfg.RollbackOnFailure && res.RunID != "" {
		if _, err := r.deps.Journal.Rollback(res.RunID); err != nil {
			return fmt.Errorf("%w; rollback of %s failed: %w", ErrVerifyFailed, res.RunID, err)
		}
		r.deps.Logger.Warn("rolled back after failed verification", "file", res.Input, "run", res.RunID)
		res.Written = nil
	}
	return fmt.Errorf("%w: %s: %d errors", ErrVerifyFailed, cmd, len(vr.Errors()))
}

func (r *Runner) locked(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}
