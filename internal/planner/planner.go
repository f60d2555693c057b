// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package planner turns a built registry into the ordered list of module
// units to emit, applying each type's placement strategy.
package planner

import (
	"log/slog"
	"sort"

	"github.com/petar-djukic/rsplit/internal/imports"
	"github.com/petar-djukic/rsplit/internal/registry"
	"github.com/petar-djukic/rsplit/internal/scope"
	"github.com/petar-djukic/rsplit/pkg/types"
)

const (
	defaultMaxUnitLines = 1000
	typesUnit           = "types"
	functionsUnit       = "functions"
)

// Options configures Build.
type Options struct {
	MaxUnitLines int
	Estimator    registry.Estimator
	Naming       Naming
	DocTemplate  string // extra header line, {type_name} and {module_name} are substituted
}

// TypeDecision is the placement chosen for one type with pending splits.
type TypeDecision struct {
	Type string
	scope.Decision
}

// Plan is the ordered set of units for one source file.
type Plan struct {
	Units       []*types.ModuleUnit // top-level units in emission order
	Decisions   []TypeDecision
	Diagnostics []types.Diagnostic
	Symbols     *imports.SymbolMap
}

// Build lays out the units for reg. For every type in declaration order it
// emits the type's trait unit and, when the type has oversized blocks, the
// units its strategy calls for. Remaining types are bin-packed into "types"
// units and standalone items into "functions" units. Headers and imports are
// filled in last.
func Build(reg *registry.Registry, opts Options, logger *slog.Logger) *Plan {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxUnitLines <= 0 {
		opts.MaxUnitLines = defaultMaxUnitLines
	}
	if opts.Estimator.Mode == "" {
		opts.Estimator = registry.DefaultEstimator()
	}
	opts.Naming = opts.Naming.withDefaults()

	b := &builder{
		opts:   opts,
		names:  newNamer("mod"),
		logger: logger,
		plan:   &Plan{Diagnostics: reg.Diagnostics()},
	}

	var regular []*types.TypeRecord
	for _, rec := range reg.Types() {
		base := opts.Naming.Base(rec.Name)
		if len(rec.Impls) > 0 {
			b.add(&types.ModuleUnit{
				Name:       b.claim(base + opts.Naming.TraitsSuffix),
				Kind:       types.UnitTraits,
				Owner:      rec.Name,
				TraitImpls: rec.Impls,
				Depth:      1,
			})
		}
		if len(rec.Pending) == 0 {
			regular = append(regular, rec)
			continue
		}
		if kept := b.place(rec, base); kept != nil {
			regular = append(regular, kept)
		}
	}

	b.packTypes(regular)
	b.packStandalone(reg.Standalone())

	b.plan.Symbols = imports.BuildSymbolMap(b.plan.Locals(), reg.Uses())
	b.finish(reg.Uses())

	logger.Debug("plan built", "units", len(b.plan.Units), "decisions", len(b.plan.Decisions))
	return b.plan
}

type builder struct {
	opts   Options
	names  *namer
	logger *slog.Logger
	plan   *Plan
}

func (b *builder) add(u *types.ModuleUnit) {
	b.plan.Units = append(b.plan.Units, u)
}

// claim reserves a unique unit name and records a diagnostic on collision.
func (b *builder) claim(name string) string {
	got, collided := b.names.claim(name)
	if collided {
		d := types.Diagnostic{Err: types.ErrNameCollision, Subject: name, Detail: "renamed to " + got}
		b.logger.Warn("module name collision", "requested", name, "assigned", got)
		b.plan.Diagnostics = append(b.plan.Diagnostics, d)
	}
	return got
}

// place applies the strategy for a type with pending splits. For the Inline
// strategy it returns a copy of rec with the blocks restored, to be packed
// with the regular types.
func (b *builder) place(rec *types.TypeRecord, base string) *types.TypeRecord {
	d := scope.Decide(rec)
	defer func() {
		b.plan.Decisions = append(b.plan.Decisions, TypeDecision{Type: rec.Name, Decision: d})
		b.logger.Info("placement chosen",
			"type", rec.Name,
			"strategy", d.Strategy.String(),
			"functions", d.Functions,
			"blocks", d.Blocks,
		)
	}()

	switch d.Strategy {
	case scope.Inline:
		kept := *rec
		kept.Inline = append([]*types.Item(nil), rec.Inline...)
		for _, p := range rec.Pending {
			kept.Inline = append(kept.Inline, p.Block)
		}
		sort.SliceStable(kept.Inline, func(i, j int) bool {
			return kept.Inline[i].Span.Start < kept.Inline[j].Span.Start
		})
		kept.Pending = nil
		kept.NeedsDedicatedUnit = false
		return &kept

	case scope.Wrapper:
		u := &types.ModuleUnit{
			Name:            b.claim(base + b.opts.Naming.WrapperSuffix),
			Kind:            types.UnitWrapper,
			Owner:           rec.Name,
			Records:         []*types.TypeRecord{rec},
			FieldVisibility: d.Visibility,
			Depth:           1,
		}
		for _, p := range rec.Pending {
			for _, g := range p.Groups {
				u.Groups = append(u.Groups, types.GroupBlock{Block: p.Block, Group: g})
			}
		}
		b.add(u)

	case scope.Submodule:
		parent := &types.ModuleUnit{
			Name:            b.claim(base + b.opts.Naming.TypeSuffix),
			Kind:            types.UnitTypeParent,
			Owner:           rec.Name,
			Records:         []*types.TypeRecord{rec},
			FieldVisibility: d.Visibility,
			Depth:           1,
		}
		b.add(parent)
		var children []string
		for _, p := range rec.Pending {
			for _, g := range p.Groups {
				name := base + "_" + g.Name
				if len(p.Groups) == 1 {
					name = base + b.opts.Naming.ImplSuffix
				}
				child := &types.ModuleUnit{
					Name:   b.claim(name),
					Kind:   types.UnitGroup,
					Owner:  rec.Name,
					Groups: []types.GroupBlock{{Block: p.Block, Group: g}},
					Depth:  2,
				}
				parent.Children = append(parent.Children, child)
				children = append(children, child.Name)
			}
		}
		d = d.WithChildren(children)
	}
	return nil
}

// packTypes bin-packs records into "types" units bounded by MaxUnitLines.
func (b *builder) packTypes(records []*types.TypeRecord) {
	var cur *types.ModuleUnit
	lines := 0
	for _, rec := range records {
		size := 0
		for _, it := range rec.Items() {
			size += b.opts.Estimator.Item(it)
		}
		if cur != nil && len(cur.Records) > 0 && lines+size > b.opts.MaxUnitLines {
			cur = nil
		}
		if cur == nil {
			name, _ := b.names.claim(typesUnit)
			cur = &types.ModuleUnit{Name: name, Kind: types.UnitTypes, Depth: 1}
			b.add(cur)
			lines = 0
		}
		cur.Records = append(cur.Records, rec)
		lines += size
	}
}

// packStandalone bin-packs standalone items into "functions" units.
func (b *builder) packStandalone(items []*types.Item) {
	var cur *types.ModuleUnit
	lines := 0
	for _, it := range items {
		size := b.opts.Estimator.Item(it)
		if cur != nil && len(cur.Standalone) > 0 && lines+size > b.opts.MaxUnitLines {
			cur = nil
		}
		if cur == nil {
			name, _ := b.names.claim(functionsUnit)
			cur = &types.ModuleUnit{Name: name, Kind: types.UnitFunctions, Depth: 1}
			b.add(cur)
			lines = 0
		}
		cur.Standalone = append(cur.Standalone, it)
		lines += size
	}
}

// All returns every unit, each parent followed by its children.
func (p *Plan) All() []*types.ModuleUnit {
	var out []*types.ModuleUnit
	for _, u := range p.Units {
		out = append(out, u)
		out = append(out, u.Children...)
	}
	return out
}

// Locals maps each declared symbol name to the top-level unit declaring it.
func (p *Plan) Locals() map[string]string {
	locals := make(map[string]string)
	for _, u := range p.Units {
		for _, name := range u.Defines() {
			if _, ok := locals[name]; !ok {
				locals[name] = u.Name
			}
		}
	}
	return locals
}

// Lookup returns the unit with the given name, searching children too.
func (p *Plan) Lookup(name string) (*types.ModuleUnit, bool) {
	for _, u := range p.All() {
		if u.Name == name {
			return u, true
		}
	}
	return nil, false
}
