// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package depgraph

import "strings"

// Cycles finds dependency cycles with a depth-first search started from
// every unvisited node. Nodes and neighbors are visited in lexicographic
// order, so the result is deterministic. Each cycle is the slice of the
// current path from the first occurrence of the revisited node; a self-loop
// is a one-element cycle. Identical sequences are reported once.
func (g *Graph) Cycles() [][]string {
	d := &detector{
		g:       g,
		visited: make(map[string]bool),
		onStack: make(map[string]bool),
		seen:    make(map[string]bool),
	}
	for _, n := range g.Nodes() {
		if !d.visited[n] {
			d.visit(n)
		}
	}
	return d.cycles
}

type detector struct {
	g       *Graph
	visited map[string]bool
	onStack map[string]bool
	path    []string
	seen    map[string]bool
	cycles  [][]string
}

func (d *detector) visit(n string) {
	d.visited[n] = true
	d.onStack[n] = true
	d.path = append(d.path, n)

	for _, next := range d.g.Dependencies(n) {
		switch {
		case !d.visited[next]:
			d.visit(next)
		case d.onStack[next]:
			d.record(next)
		}
	}

	d.path = d.path[:len(d.path)-1]
	d.onStack[n] = false
}

func (d *detector) record(start string) {
	idx := -1
	for i, p := range d.path {
		if p == start {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	cycle := append([]string(nil), d.path[idx:]...)
	key := strings.Join(cycle, "\x00")
	if d.seen[key] {
		return
	}
	d.seen[key] = true
	d.cycles = append(d.cycles, cycle)
}
