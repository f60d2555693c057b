// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package splitter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/petar-djukic/rsplit/internal/cluster"
	"github.com/petar-djukic/rsplit/internal/config"
	"github.com/petar-djukic/rsplit/internal/depgraph"
	"github.com/petar-djukic/rsplit/internal/output"
	"github.com/petar-djukic/rsplit/internal/parser"
	"github.com/petar-djukic/rsplit/internal/planner"
	"github.com/petar-djukic/rsplit/internal/registry"
	"github.com/petar-djukic/rsplit/internal/render"
)

// IndexFile is the name of the generated index module.
const IndexFile = "mod.rs"

// Output is the in-memory result of splitting one source file.
type Output struct {
	File   *parser.File
	Plan   *planner.Plan
	Files  []output.File // unit files in plan order, then mod.rs
	Graph  *depgraph.Graph
	Cycles [][]string
}

// Contents maps unit names to rendered text, for reports.
func (o *Output) Contents() map[string]string {
	m := make(map[string]string, len(o.Files))
	for _, f := range o.Files {
		m[f.Name[:len(f.Name)-len(".rs")]] = f.Content
	}
	return m
}

// Split runs the analysis and rendering stages on src without touching the
// filesystem. A parse failure wraps ErrParseFailure.
func Split(ctx context.Context, path string, src []byte, cfg config.Config, f render.Formatter, logger *slog.Logger) (*Output, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if f == nil {
		f = render.Passthrough{}
	}

	file, err := parser.Parse(ctx, path, src, parser.Options{KeepComments: cfg.Output.PreserveComments})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	est := registry.Estimator{
		Mode:       registry.EstimateMode(cfg.Split.SizeEstimate),
		Multiplier: cfg.Split.SizeMultiplier,
	}
	reg := registry.Build(file.Items, registry.Options{
		EnableBlockSplitting: cfg.Split.EnableBlockSplitting,
		MaxBlockLines:        cfg.Split.MaxBlockLines,
		Estimator:            est,
		Clustering:           cluster.Mode(cfg.Split.Clustering),
	}, logger)

	graph := depgraph.FromRecords(reg.Types())
	cycles := graph.Cycles()
	for _, c := range cycles {
		logger.Warn("type dependency cycle", "file", path, "types", c)
	}

	plan := planner.Build(reg, planner.Options{
		MaxUnitLines: cfg.Split.MaxUnitLines,
		Estimator:    est,
		Naming: planner.Naming{
			TypeSuffix:    cfg.Naming.TypeModuleSuffix,
			ImplSuffix:    cfg.Naming.ImplModuleSuffix,
			TraitsSuffix:  cfg.Naming.TraitsModuleSuffix,
			WrapperSuffix: cfg.Naming.WrapperModuleSuffix,
			SnakeCase:     cfg.Naming.UseSnakeCase,
		},
		DocTemplate: cfg.Output.ModuleDocTemplate,
	}, logger)

	var files []output.File
	for _, u := range plan.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := f.Format(ctx, render.Unit(u))
		if err != nil {
			return nil, fmt.Errorf("formatting %s: %w", u.Name, err)
		}
		files = append(files, output.File{Name: u.Name + ".rs", Content: text})
	}
	files = append(files, output.File{Name: IndexFile, Content: render.Index(plan.Units, file.InnerAttrs)})

	logger.Info("split planned", "file", path, "items", len(file.Items), "units", len(files)-1, "diagnostics", len(plan.Diagnostics))
	return &Output{File: file, Plan: plan, Files: files, Graph: graph, Cycles: cycles}, nil
}
