// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	gitpkg "github.com/petar-djukic/rsplit/internal/git"
	"github.com/petar-djukic/rsplit/internal/journal"
	"github.com/petar-djukic/rsplit/internal/render"
	"github.com/petar-djukic/rsplit/internal/splitter"
)

// newSplitCmd creates the "split" command.
func newSplitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <input>...",
		Short: "Split Rust files into module directories",
		Long: "Split parses each input file and writes <dir>/<stem>/ holding one file per generated module plus mod.rs. " +
			"Directories are searched for .rs files using the include and exclude globs of the configuration.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(a, cmd, args)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output directory (single input only)")
	cmd.Flags().IntP("max-lines", "m", 0, "Maximum estimated lines per bin unit")
	cmd.Flags().Bool("split-impl-blocks", false, "Split inherent impl blocks larger than --max-impl-lines")
	cmd.Flags().Int("max-impl-lines", 0, "Impl block size above which the block is split")
	cmd.Flags().BoolP("dry-run", "n", false, "Show the planned modules without writing")
	cmd.Flags().BoolP("interactive", "I", false, "Confirm each file before writing")
	cmd.Flags().String("report", "", "Print a plan report: yaml or json")
	cmd.Flags().Bool("diff", false, "Show diffs of files that would be overwritten")
	cmd.Flags().Bool("commit", false, "Commit the generated files")
	cmd.Flags().String("verify-cmd", "", "Command to run after writing, e.g. 'cargo check'")
	cmd.Flags().Bool("force", false, "Split inputs even when unchanged since their last run")
	cmd.Flags().Int("concurrency", 0, "Files processed in parallel")

	// Flags override the configuration file.
	a.v.BindPFlag("split.max_unit_lines", cmd.Flags().Lookup("max-lines"))
	a.v.BindPFlag("split.enable_block_splitting", cmd.Flags().Lookup("split-impl-blocks"))
	a.v.BindPFlag("split.max_block_lines", cmd.Flags().Lookup("max-impl-lines"))
	a.v.BindPFlag("split.concurrency", cmd.Flags().Lookup("concurrency"))
	a.v.BindPFlag("git.commit", cmd.Flags().Lookup("commit"))
	a.v.BindPFlag("verify.command", cmd.Flags().Lookup("verify-cmd"))

	return cmd
}

func runSplit(a *app, cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	outputDir, _ := flags.GetString("output")
	dryRun, _ := flags.GetBool("dry-run")
	interactive, _ := flags.GetBool("interactive")
	reportFormat, _ := flags.GetString("report")
	diff, _ := flags.GetBool("diff")
	force, _ := flags.GetBool("force")

	switch reportFormat {
	case "", "yaml", "yml", "json":
	default:
		return fmt.Errorf("unknown report format %q (want yaml or json)", reportFormat)
	}

	cfg := a.cfg
	deps := splitter.Deps{
		Out:    a.stdout,
		Err:    a.stderr,
		Logger: a.logger,
	}

	if cfg.Output.FormatOutput {
		rf := render.Rustfmt{}
		if rf.Available() {
			deps.Formatter = rf
		} else {
			a.logger.Warn("rustfmt not found, writing unformatted output")
		}
	}

	if cfg.Journal.Enabled && !dryRun {
		j, err := journal.Open(a.journalPath())
		if err != nil {
			return err
		}
		defer j.Close()
		deps.Journal = j
	}

	if cfg.Git.Commit && !dryRun {
		repo, err := gitpkg.Open(gitpkg.Config{WorkDir: a.baseDir(), AutoCommit: true, DirtyCommit: cfg.Git.DirtyCommit})
		if err != nil {
			return fmt.Errorf("opening repository: %w", err)
		}
		deps.Git = repo
	}

	if interactive {
		deps.Confirm = prompter(a.stdin, a.stdout)
	}

	r := splitter.NewRunner(splitter.Options{
		Config:      cfg,
		OutputDir:   outputDir,
		WorkDir:     a.baseDir(),
		DryRun:      dryRun,
		Interactive: interactive,
		Report:      reportFormat,
		Diff:        diff,
		Force:       force,
		Progress:    reportFormat == "" && !interactive,
	}, deps)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	summary, err := r.Run(ctx, args)
	if summary != nil && reportFormat == "" {
		printSummary(a.stderr, summary)
	}
	if errors.Is(err, splitter.ErrNoInput) {
		return fmt.Errorf("%w in %s", err, strings.Join(args, ", "))
	}
	return err
}

// prompter returns a Confirm function that asks on out and reads y/N from in.
func prompter(in io.Reader, out io.Writer) func(string) (bool, error) {
	reader := bufio.NewReader(in)
	return func(question string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N] ", question)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

func printSummary(w io.Writer, s *splitter.Summary) {
	for _, f := range s.Files {
		switch {
		case f.Err != nil:
			fmt.Fprintf(w, "%s: failed: %v\n", f.Input, f.Err)
		case f.Skipped != "":
			if f.Skipped != "dry run" {
				fmt.Fprintf(w, "%s: skipped (%s)\n", f.Input, f.Skipped)
			}
		default:
			fmt.Fprintf(w, "%s: wrote %d files to %s (run %s)\n", f.Input, len(f.Written), f.OutputDir, runLabel(f.RunID))
		}
		for _, d := range f.Diagnostics {
			fmt.Fprintf(w, "%s: warning: %v\n", f.Input, d)
		}
	}
}

func runLabel(id string) string {
	if id == "" {
		return "not journaled"
	}
	return id
}
