// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package imports works out which use declarations each generated unit needs.
package imports

import (
	"sort"
	"strings"

	"github.com/petar-djukic/rsplit/pkg/types"
)

// OriginKind identifies where a symbol comes from.
type OriginKind int

const (
	// OriginLocal is a symbol declared in one of the generated units.
	OriginLocal OriginKind = iota
	// OriginPath is a symbol bound by a use declaration of the source file.
	OriginPath
)

// Origin describes where a symbol is declared.
type Origin struct {
	Kind   OriginKind
	Unit   string // OriginLocal: declaring unit name
	Module string // OriginPath: module path as written in the source file
	Item   string // OriginPath: item name inside Module, differs from the key for renamed imports
}

// SymbolMap is an indexed table of symbol origins. It is built once and
// read-only during resolution.
type SymbolMap struct {
	entries map[string]Origin
	globs   []string
}

// NewSymbolMap returns an empty map.
func NewSymbolMap() *SymbolMap {
	return &SymbolMap{entries: make(map[string]Origin)}
}

// BuildSymbolMap indexes local declarations (symbol name to declaring unit)
// and the bindings of the source file's use declarations. Local declarations
// take precedence over imports of the same name.
func BuildSymbolMap(locals map[string]string, uses []*types.Item) *SymbolMap {
	m := NewSymbolMap()

	names := make([]string, 0, len(locals))
	for n := range locals {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		m.Add(n, Origin{Kind: OriginLocal, Unit: locals[n]})
	}

	for _, u := range uses {
		for _, b := range u.Uses {
			if b.Glob {
				m.globs = append(m.globs, b.Path)
				continue
			}
			mod := b.Module()
			item := strings.TrimPrefix(b.Path, mod+"::")
			if mod == "" {
				// `use serde;` binds a crate root; it has no parent module.
				item = b.Path
			}
			m.Add(b.Name, Origin{Kind: OriginPath, Module: mod, Item: item})
		}
	}
	return m
}

// Add records an origin for name. The first origin recorded for a name wins.
func (m *SymbolMap) Add(name string, o Origin) {
	if name == "" {
		return
	}
	if _, ok := m.entries[name]; ok {
		return
	}
	m.entries[name] = o
}

// Lookup returns the origin of name.
func (m *SymbolMap) Lookup(name string) (Origin, bool) {
	o, ok := m.entries[name]
	return o, ok
}

// Globs returns the glob import paths of the source file in source order.
func (m *SymbolMap) Globs() []string {
	return append([]string(nil), m.globs...)
}

// Len returns the number of symbols.
func (m *SymbolMap) Len() int {
	return len(m.entries)
}
