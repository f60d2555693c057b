// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package imports

import (
	"fmt"
	"sort"
	"strings"
)

// Location places a unit in the generated module tree. Parent is empty for
// top-level units and names the including unit for children.
type Location struct {
	Unit   string
	Parent string
}

// Depth returns how many modules separate the unit from the module that
// replaced the source file.
func (l Location) Depth() int {
	if l.Parent != "" {
		return 2
	}
	return 1
}

// Resolver turns referenced symbol names into use lines.
type Resolver struct {
	symbols *SymbolMap
}

// NewResolver returns a resolver over m.
func NewResolver(m *SymbolMap) *Resolver {
	return &Resolver{symbols: m}
}

// Resolve returns the use lines for a unit at loc referencing refs. The
// std::collections line comes first, then parent-relative, crate-relative
// and external lines, then the glob imports of the source file. Lines within
// each bucket are sorted. Builtins, names declared in the unit itself and
// names with no known origin produce no line.
func (r *Resolver) Resolve(loc Location, refs []string) []string {
	var collections []string
	modules := make(map[string]map[string]bool)
	add := func(mod, entry string) {
		if modules[mod] == nil {
			modules[mod] = make(map[string]bool)
		}
		modules[mod][entry] = true
	}

	for _, name := range unique(refs) {
		if IsBuiltin(name) {
			continue
		}
		if IsContainer(name) {
			collections = append(collections, name)
			continue
		}
		o, ok := r.symbols.Lookup(name)
		if !ok {
			continue
		}
		switch o.Kind {
		case OriginLocal:
			if o.Unit == loc.Unit {
				continue
			}
			add(localModule(loc, o.Unit), name)
		case OriginPath:
			entry := o.Item
			if entry != name {
				entry = o.Item + " as " + name
			}
			if o.Module == "" {
				add(entry, "")
				continue
			}
			add(Rebase(o.Module, loc.Depth()), entry)
		}
	}

	var parent, root, external []string
	for mod, entries := range modules {
		line := useLine(mod, entries)
		switch {
		case mod == "super" || strings.HasPrefix(mod, "super::"):
			parent = append(parent, line)
		case mod == "crate" || strings.HasPrefix(mod, "crate::"):
			root = append(root, line)
		default:
			external = append(external, line)
		}
	}
	sort.Strings(parent)
	sort.Strings(root)
	sort.Strings(external)

	var lines []string
	if len(collections) > 0 {
		if len(collections) == 1 {
			lines = append(lines, fmt.Sprintf("use std::collections::%s;", collections[0]))
		} else {
			lines = append(lines, fmt.Sprintf("use std::collections::{%s};", strings.Join(collections, ", ")))
		}
	}
	lines = append(lines, parent...)
	lines = append(lines, root...)
	lines = append(lines, external...)

	var globs []string
	for _, g := range r.symbols.Globs() {
		globs = append(globs, fmt.Sprintf("use %s;", Rebase(g, loc.Depth())))
	}
	sort.Strings(globs)
	return append(lines, unique(globs)...)
}

// localModule returns the path from loc to the module of unit.
func localModule(loc Location, unit string) string {
	if loc.Parent == "" {
		return "super::" + unit
	}
	if unit == loc.Parent {
		return "super"
	}
	return "super::super::" + unit
}

// Rebase rewrites a path written in the source file so it resolves from a
// unit depth levels below the module that replaced the file. Paths relative
// to the file's parent gain one super per level; self-relative paths now
// point at the replacing module.
func Rebase(path string, depth int) string {
	ups := strings.Repeat("super::", depth)
	switch {
	case path == "self":
		return strings.TrimSuffix(ups, "::")
	case strings.HasPrefix(path, "self::"):
		return ups + strings.TrimPrefix(path, "self::")
	case path == "super" || strings.HasPrefix(path, "super::"):
		return ups + path
	default:
		return path
	}
}

func useLine(mod string, entries map[string]bool) string {
	if len(entries) == 1 {
		for e := range entries {
			if e == "" {
				return fmt.Sprintf("use %s;", mod)
			}
			return fmt.Sprintf("use %s::%s;", mod, e)
		}
	}
	list := make([]string, 0, len(entries))
	self := false
	for e := range entries {
		if e == "" {
			self = true
			continue
		}
		list = append(list, e)
	}
	sort.Strings(list)
	if self {
		list = append([]string{"self"}, list...)
	}
	return fmt.Sprintf("use %s::{%s};", mod, strings.Join(list, ", "))
}

func unique(in []string) []string {
	set := make(map[string]bool, len(in))
	for _, s := range in {
		set[s] = true
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
