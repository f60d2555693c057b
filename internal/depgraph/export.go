// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package depgraph

import (
	"fmt"
	"strings"
)

// DOT renders the graph in Graphviz format.
func (g *Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph Dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String()
}

// Mermaid renders the graph as a Mermaid flowchart.
func (g *Graph) Mermaid() string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %s --> %s\n", e.From, e.To)
	}
	return b.String()
}

// EdgeList renders one "from -> to" line per edge.
func (g *Graph) EdgeList() string {
	var b strings.Builder
	for _, e := range g.Edges() {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
