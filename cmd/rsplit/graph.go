// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/rsplit/internal/depgraph"
	"github.com/petar-djukic/rsplit/internal/splitter"
)

// newGraphCmd creates the "graph" command.
func newGraphCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <input>",
		Short: "Print the type dependency graph of a Rust file",
		Long: "Graph prints which types of the input refer to which, in DOT, Mermaid or edge-list form, " +
			"or loads the graph into Neo4j. Dependency cycles are reported on stderr.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(a, cmd, args[0])
		},
	}
	cmd.Flags().String("format", "dot", "Output format: dot, mermaid, edges or neo4j")
	cmd.Flags().String("neo4j-uri", "neo4j://localhost:7687", "Neo4j connection URI")
	cmd.Flags().String("neo4j-user", "neo4j", "Neo4j user")
	cmd.Flags().String("neo4j-password", "", "Neo4j password (or RSPLIT_NEO4J_PASSWORD)")

	a.v.BindPFlag("neo4j.uri", cmd.Flags().Lookup("neo4j-uri"))
	a.v.BindPFlag("neo4j.user", cmd.Flags().Lookup("neo4j-user"))
	a.v.BindPFlag("neo4j.password", cmd.Flags().Lookup("neo4j-password"))
	return cmd
}

func runGraph(a *app, cmd *cobra.Command, input string) error {
	format, _ := cmd.Flags().GetString("format")

	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	out, err := splitter.Split(ctx, input, src, a.cfg, nil, a.logger)
	if err != nil {
		return err
	}
	g := out.Graph

	switch format {
	case "dot":
		fmt.Fprint(a.stdout, g.DOT())
	case "mermaid":
		fmt.Fprint(a.stdout, g.Mermaid())
	case "edges":
		fmt.Fprint(a.stdout, g.EdgeList())
	case "neo4j":
		exp, err := depgraph.NewNeo4jExporter(depgraph.Neo4jConfig{
			URI:      a.v.GetString("neo4j.uri"),
			User:     a.v.GetString("neo4j.user"),
			Password: a.v.GetString("neo4j.password"),
		}, a.logger)
		if err != nil {
			return err
		}
		defer exp.Close(ctx)
		scope := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if err := exp.Export(ctx, scope, g); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "exported %d types and %d edges as %q\n", len(g.Nodes()), len(g.Edges()), scope)
	default:
		return fmt.Errorf("unknown graph format %q", format)
	}

	for _, c := range out.Cycles {
		fmt.Fprintf(a.stderr, "cycle: %s\n", strings.Join(c, " → "))
	}
	return nil
}
