// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rsplit

import (
	"context"
	"fmt"
	"os"

	"github.com/petar-djukic/rsplit/internal/config"
	"github.com/petar-djukic/rsplit/internal/journal"
	"github.com/petar-djukic/rsplit/internal/render"
	"github.com/petar-djukic/rsplit/internal/splitter"
)

// New validates cfg and returns a ready Splitter. When cfg.JournalPath is
// set the journal is opened here; Close releases it.
func New(cfg Config) (Splitter, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	settings := applyDefaults(cfg)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s := &splitterAdapter{cfg: settings, formatter: render.Passthrough{}}
	if cfg.Rustfmt {
		s.formatter = render.Rustfmt{}
	}

	deps := splitter.Deps{Formatter: s.formatter}
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		s.journal = j
		deps.Journal = j
	}
	s.opts = splitter.Options{Config: settings, WorkDir: cfg.VerifyDir, Force: true}
	s.deps = deps
	return s, nil
}

// validateConfig checks the fields New cannot default.
func validateConfig(cfg Config) error {
	if cfg.MaxUnitLines < 0 || cfg.MaxBlockLines < 0 || cfg.SizeMultiplier < 0 {
		return fmt.Errorf("line limits must not be negative")
	}
	switch cfg.Clustering {
	case "", "seed", "components":
	default:
		return fmt.Errorf("unknown clustering mode %q", cfg.Clustering)
	}
	if cfg.VerifyDir != "" {
		if info, err := os.Stat(cfg.VerifyDir); err != nil || !info.IsDir() {
			return fmt.Errorf("VerifyDir %q does not exist or is not a directory", cfg.VerifyDir)
		}
	}
	if cfg.Rollback && cfg.JournalPath == "" {
		return fmt.Errorf("Rollback needs a JournalPath")
	}
	return nil
}

// applyDefaults maps cfg onto the full settings, keeping defaults for zero fields.
func applyDefaults(cfg Config) config.Config {
	c := config.Defaults()
	if cfg.MaxUnitLines != 0 {
		c.Split.MaxUnitLines = cfg.MaxUnitLines
	}
	if cfg.MaxBlockLines != 0 {
		c.Split.MaxBlockLines = cfg.MaxBlockLines
	}
	if cfg.Clustering != "" {
		c.Split.Clustering = cfg.Clustering
	}
	if cfg.SizeMultiplier != 0 {
		c.Split.SizeMultiplier = cfg.SizeMultiplier
	}
	c.Split.EnableBlockSplitting = cfg.EnableBlockSplitting
	c.Output.ModuleDocTemplate = cfg.ModuleDocTemplate
	c.Output.PreserveComments = cfg.PreserveComments
	c.Output.FormatOutput = cfg.Rustfmt
	c.Verify.Command = cfg.VerifyCommand
	c.Verify.RollbackOnFailure = cfg.Rollback
	c.Journal.Enabled = cfg.JournalPath != ""
	c.Journal.Path = cfg.JournalPath
	return c
}

// splitterAdapter adapts internal/splitter to the public Splitter interface.
type splitterAdapter struct {
	cfg       config.Config
	opts      splitter.Options
	deps      splitter.Deps
	formatter render.Formatter
	journal   *journal.Journal
}

func (a *splitterAdapter) Plan(ctx context.Context, name string, src []byte) (*Result, error) {
	out, err := splitter.Split(ctx, name, src, a.cfg, a.formatter, nil)
	if err != nil {
		return nil, err
	}
	res := &Result{Input: name, Cycles: out.Cycles}
	for _, f := range out.Files {
		res.Files = append(res.Files, File{Name: f.Name, Content: f.Content})
	}
	for _, d := range out.Plan.Diagnostics {
		res.Diagnostics = append(res.Diagnostics, d.Error())
	}
	return res, nil
}

func (a *splitterAdapter) SplitFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	res, err := a.Plan(ctx, path, src)
	if err != nil {
		return nil, err
	}

	sum, err := splitter.NewRunner(a.opts, a.deps).Run(ctx, []string{path})
	if sum != nil && len(sum.Files) > 0 {
		fr := sum.Files[0]
		res.OutputDir = fr.OutputDir
		res.Written = fr.Written
		res.RunID = fr.RunID
	}
	return res, err
}

func (a *splitterAdapter) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}
