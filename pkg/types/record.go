// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "sort"

// FunctionRecord is the analysis view of one associated function.
type FunctionRecord struct {
	Name     string
	Function *Function
	Callees  map[string]bool // method-call and plain-call targets by name
	Lines    int             // estimated size
}

// Calls reports whether the function calls a function with the given name.
func (f *FunctionRecord) Calls(name string) bool {
	return f.Callees[name]
}

// CalleeNames returns the callee names in lexicographic order.
func (f *FunctionRecord) CalleeNames() []string {
	names := make([]string, 0, len(f.Callees))
	for n := range f.Callees {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MethodGroup is an ordered sequence of functions destined for one unit.
type MethodGroup struct {
	Name      string
	Functions []*FunctionRecord
}

// Lines returns the summed size estimate of the group.
func (g MethodGroup) Lines() int {
	total := 0
	for _, f := range g.Functions {
		total += f.Lines
	}
	return total
}

// Names returns the function names in group order.
func (g MethodGroup) Names() []string {
	names := make([]string, len(g.Functions))
	for i, f := range g.Functions {
		names[i] = f.Name
	}
	return names
}

// PendingSplit is an oversized inherent block together with its groups.
type PendingSplit struct {
	Block  *Item
	Groups []MethodGroup
}

// TypeRecord aggregates everything known about one declared type.
type TypeRecord struct {
	Name               string
	Def                *Item
	Inline             []*Item // inherent blocks kept as written
	Impls              []*Item // trait implementations
	Pending            []PendingSplit
	NeedsDedicatedUnit bool
}

// PendingFunctions returns the number of functions across all pending groups.
func (r *TypeRecord) PendingFunctions() int {
	n := 0
	for _, p := range r.Pending {
		for _, g := range p.Groups {
			n += len(g.Functions)
		}
	}
	return n
}

// Items returns the definition followed by the inline blocks.
func (r *TypeRecord) Items() []*Item {
	var items []*Item
	if r.Def != nil {
		items = append(items, r.Def)
	}
	return append(items, r.Inline...)
}
