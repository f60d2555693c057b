// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package registry classifies the declarations of one source file into type
// records and standalone items, and hands oversized impl blocks to the
// clusterer.
package registry

import (
	"log/slog"

	"github.com/petar-djukic/rsplit/internal/cluster"
	"github.com/petar-djukic/rsplit/pkg/types"
)

const defaultMaxBlockLines = 500

// Options configures Build.
type Options struct {
	EnableBlockSplitting bool
	MaxBlockLines        int
	Estimator            Estimator
	Clustering           cluster.Mode

	// Grouper partitions an oversized block. Defaults to cluster.Group.
	Grouper func([]*types.FunctionRecord, cluster.Options) []types.MethodGroup
}

// Registry holds the classified declarations of one file. It is built once
// and read-only afterwards.
type Registry struct {
	records    map[string]*types.TypeRecord
	order      []string
	standalone []*types.Item
	uses       []*types.Item
	diags      []types.Diagnostic
}

// Build classifies items in one linear pass. A name pre-scan identifies the
// types that are defined anywhere in the file so an impl block may precede
// its type definition.
func Build(items []*types.Item, opts Options, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxBlockLines <= 0 {
		opts.MaxBlockLines = defaultMaxBlockLines
	}
	if opts.Estimator.Mode == "" {
		opts.Estimator = DefaultEstimator()
	}
	if opts.Grouper == nil {
		opts.Grouper = cluster.Group
	}

	defined := make(map[string]bool)
	for _, it := range items {
		if it.Kind == types.TypeDef {
			defined[it.Name] = true
		}
	}

	r := &Registry{records: make(map[string]*types.TypeRecord)}
	for _, it := range items {
		switch it.Kind {
		case types.TypeDef:
			r.addDef(it, logger)
		case types.AssociatedBlock:
			if !defined[it.Name] {
				r.degrade(it, types.ErrUnresolvedImplTarget, logger)
				continue
			}
			r.addBlock(it, opts, logger)
		case types.InterfaceImpl:
			if !defined[it.Name] {
				r.degrade(it, types.ErrUnresolvedImplTarget, logger)
				continue
			}
			rec := r.record(it.Name)
			rec.Impls = append(rec.Impls, it)
		default:
			switch it.Keyword {
			case "use":
				r.uses = append(r.uses, it)
				continue
			case "reexport":
				// Emitted in place, and its bindings stay resolvable.
				r.uses = append(r.uses, it)
			}
			r.standalone = append(r.standalone, it)
		}
	}

	logger.Debug("registry built",
		"types", len(r.order),
		"standalone", len(r.standalone),
		"diagnostics", len(r.diags),
	)
	return r
}

// record returns the TypeRecord for name, creating it on first encounter.
func (r *Registry) record(name string) *types.TypeRecord {
	rec, ok := r.records[name]
	if !ok {
		rec = &types.TypeRecord{Name: name}
		r.records[name] = rec
		r.order = append(r.order, name)
	}
	return rec
}

func (r *Registry) addDef(it *types.Item, logger *slog.Logger) {
	rec := r.record(it.Name)
	if rec.Def != nil {
		r.degrade(it, types.ErrDuplicateType, logger)
		return
	}
	rec.Def = it
}

func (r *Registry) addBlock(it *types.Item, opts Options, logger *slog.Logger) {
	rec := r.record(it.Name)
	if !opts.EnableBlockSplitting || len(it.Functions) < 2 {
		rec.Inline = append(rec.Inline, it)
		return
	}

	fns := FunctionRecords(it, opts.Estimator)
	total := 0
	for _, f := range fns {
		total += f.Lines
	}
	if total <= opts.MaxBlockLines {
		rec.Inline = append(rec.Inline, it)
		return
	}

	groups := opts.Grouper(fns, cluster.Options{MaxLines: opts.MaxBlockLines, Mode: opts.Clustering})
	if len(groups) == 0 {
		r.note(types.Diagnostic{Err: types.ErrEmptyGroupResult, Subject: it.Name, Detail: "kept inline"}, logger)
		rec.Inline = append(rec.Inline, it)
		return
	}

	logger.Debug("impl block split",
		"type", it.Name,
		"functions", len(fns),
		"estimated_lines", total,
		"groups", len(groups),
	)
	rec.Pending = append(rec.Pending, types.PendingSplit{Block: it, Groups: groups})
	rec.NeedsDedicatedUnit = true
}

func (r *Registry) degrade(it *types.Item, cause error, logger *slog.Logger) {
	r.note(types.Diagnostic{Err: cause, Subject: it.Name, Detail: "kept as standalone " + it.Kind.String()}, logger)
	r.standalone = append(r.standalone, it)
}

func (r *Registry) note(d types.Diagnostic, logger *slog.Logger) {
	logger.Warn("declaration fallback", "subject", d.Subject, "reason", d.Err.Error(), "detail", d.Detail)
	r.diags = append(r.diags, d)
}

// Types returns the type records in order of first encounter.
func (r *Registry) Types() []*types.TypeRecord {
	out := make([]*types.TypeRecord, len(r.order))
	for i, name := range r.order {
		out[i] = r.records[name]
	}
	return out
}

// Lookup returns the record for a type name.
func (r *Registry) Lookup(name string) (*types.TypeRecord, bool) {
	rec, ok := r.records[name]
	return rec, ok
}

// Standalone returns the items that belong to no type, in source order.
func (r *Registry) Standalone() []*types.Item {
	return append([]*types.Item(nil), r.standalone...)
}

// Uses returns the use declarations of the file in source order.
func (r *Registry) Uses() []*types.Item {
	return append([]*types.Item(nil), r.uses...)
}

// Diagnostics returns the recoverable conditions met while building.
func (r *Registry) Diagnostics() []types.Diagnostic {
	return append([]types.Diagnostic(nil), r.diags...)
}

// Len returns the number of type records.
func (r *Registry) Len() int {
	return len(r.order)
}
