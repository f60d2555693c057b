// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package depgraph builds the type-level dependency graph of a file and
// reports cycles in it.
package depgraph

import (
	"sort"

	"github.com/petar-djukic/rsplit/pkg/types"
)

// Edge is a directed dependency from one type to another.
type Edge struct {
	From string
	To   string
}

func (e Edge) String() string {
	return e.From + " -> " + e.To
}

// Graph maps each type name to the set of type names it depends on.
type Graph struct {
	deps map[string]map[string]bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{deps: make(map[string]map[string]bool)}
}

// FromRecords builds the graph from type definitions. A type depends on every
// other record whose name appears among the identifiers referenced by its
// definition, which covers struct fields and enum variant payloads.
func FromRecords(records []*types.TypeRecord) *Graph {
	g := New()
	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.Name] = true
		g.AddNode(r.Name)
	}
	for _, r := range records {
		if r.Def == nil {
			continue
		}
		for _, ref := range r.Def.Refs {
			if known[ref] {
				g.AddEdge(r.Name, ref)
			}
		}
	}
	return g
}

// AddNode registers a type with no dependencies yet.
func (g *Graph) AddNode(name string) {
	if _, ok := g.deps[name]; !ok {
		g.deps[name] = make(map[string]bool)
	}
}

// AddEdge records that from depends on to.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.deps[from][to] = true
}

// Nodes returns all type names in lexicographic order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.deps))
	for n := range g.deps {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// Dependencies returns the names that name depends on, sorted.
func (g *Graph) Dependencies(name string) []string {
	set := g.deps[name]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Edges returns every edge, ordered by source then target.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, from := range g.Nodes() {
		for _, to := range g.Dependencies(from) {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}
