// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report describes a split plan for people and machines: a styled
// dry-run preview, a YAML or JSON plan report, and unified diffs of files
// that would be overwritten.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/petar-djukic/rsplit/internal/planner"
	"github.com/petar-djukic/rsplit/pkg/types"
)

// Report is the plan for one input file.
type Report struct {
	Input       string     `yaml:"input" json:"input"`
	OutputDir   string     `yaml:"output_dir" json:"output_dir"`
	Units       []Unit     `yaml:"units" json:"units"`
	Decisions   []Decision `yaml:"decisions,omitempty" json:"decisions,omitempty"`
	Cycles      [][]string `yaml:"cycles,omitempty" json:"cycles,omitempty"`
	Diagnostics []string   `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
	Skipped     string     `yaml:"skipped,omitempty" json:"skipped,omitempty"`
}

// Unit is one generated module file.
type Unit struct {
	Name     string   `yaml:"name" json:"name"`
	Kind     string   `yaml:"kind" json:"kind"`
	Owner    string   `yaml:"owner,omitempty" json:"owner,omitempty"`
	Lines    int      `yaml:"lines" json:"lines"`
	Types    []string `yaml:"types,omitempty" json:"types,omitempty"`
	Items    []string `yaml:"items,omitempty" json:"items,omitempty"`
	Groups   []Group  `yaml:"groups,omitempty" json:"groups,omitempty"`
	Imports  []string `yaml:"imports,omitempty" json:"imports,omitempty"`
	Children []Unit   `yaml:"children,omitempty" json:"children,omitempty"`
}

// Group is one method group of a split block.
type Group struct {
	Name      string   `yaml:"name" json:"name"`
	Lines     int      `yaml:"lines" json:"lines"`
	Functions []string `yaml:"functions" json:"functions"`
}

// Decision is the placement chosen for one type.
type Decision struct {
	Type      string   `yaml:"type" json:"type"`
	Strategy  string   `yaml:"strategy" json:"strategy"`
	Functions int      `yaml:"functions" json:"functions"`
	Blocks    int      `yaml:"blocks" json:"blocks"`
	Children  []string `yaml:"children,omitempty" json:"children,omitempty"`
}

// New builds the report of plan. contents maps unit names to the rendered
// file text and is used for line counts; missing entries count as zero.
func New(input, outputDir string, plan *planner.Plan, contents map[string]string, cycles [][]string) *Report {
	r := &Report{Input: input, OutputDir: outputDir, Cycles: cycles}
	for _, u := range plan.Units {
		r.Units = append(r.Units, unitReport(u, contents))
	}
	for _, d := range plan.Decisions {
		r.Decisions = append(r.Decisions, Decision{
			Type:      d.Type,
			Strategy:  d.Strategy.String(),
			Functions: d.Functions,
			Blocks:    d.Blocks,
			Children:  d.Children,
		})
	}
	for _, d := range plan.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, d.Error())
	}
	return r
}

func unitReport(u *types.ModuleUnit, contents map[string]string) Unit {
	out := Unit{
		Name:    u.Name,
		Kind:    u.Kind.String(),
		Owner:   u.Owner,
		Lines:   lineCount(contents[u.Name]),
		Imports: u.Imports,
	}
	for _, rec := range u.Records {
		out.Types = append(out.Types, rec.Name)
	}
	for _, it := range u.Standalone {
		out.Items = append(out.Items, itemLabel(it))
	}
	for _, it := range u.TraitImpls {
		out.Items = append(out.Items, it.Header)
	}
	for _, gb := range u.Groups {
		out.Groups = append(out.Groups, Group{
			Name:      gb.Group.Name,
			Lines:     gb.Group.Lines(),
			Functions: gb.Group.Names(),
		})
	}
	for _, c := range u.Children {
		out.Children = append(out.Children, unitReport(c, contents))
	}
	return out
}

func itemLabel(it *types.Item) string {
	if it.Name == "" {
		return it.Keyword
	}
	return it.Keyword + " " + it.Name
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// Encode writes reports to w as "yaml" or "json".
func Encode(w io.Writer, format string, reports []*Report) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown report format %q (want yaml or json)", format)
	}
}
