// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package depgraph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jConfig holds connection settings for graph export.
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

// runFunc executes one Cypher statement.
type runFunc func(ctx context.Context, cypher string, params map[string]any) error

type statement struct {
	cypher string
	params map[string]any
}

// Neo4jExporter loads a dependency graph into Neo4j with batch UNWIND queries.
type Neo4jExporter struct {
	driver neo4j.DriverWithContext
	run    runFunc
	logger *slog.Logger
}

// NewNeo4jExporter connects to Neo4j.
func NewNeo4jExporter(cfg Neo4jConfig, logger *slog.Logger) (*Neo4jExporter, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	e := &Neo4jExporter{driver: driver, logger: logger}
	e.run = func(ctx context.Context, cypher string, params map[string]any) error {
		_, err := neo4j.ExecuteQuery(ctx, driver, cypher, params, neo4j.EagerResultTransformer)
		return err
	}
	return e, nil
}

// Close releases the driver.
func (e *Neo4jExporter) Close(ctx context.Context) error {
	if e.driver == nil {
		return nil
	}
	return e.driver.Close(ctx)
}

// Export replaces the stored graph for scope (usually the file stem) with g
// and marks the types that take part in a cycle.
func (e *Neo4jExporter) Export(ctx context.Context, scope string, g *Graph) error {
	logger := e.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	steps := []statement{
		{"CREATE INDEX rust_type_key IF NOT EXISTS FOR (n:RustType) ON (n.key)", nil},
		{"MATCH (n:RustType {scope: $scope}) DETACH DELETE n", map[string]any{"scope": scope}},
	}

	nodes := make([]map[string]any, 0, len(g.deps))
	inCycle := make(map[string]bool)
	for _, c := range g.Cycles() {
		for _, n := range c {
			inCycle[n] = true
		}
	}
	for _, n := range g.Nodes() {
		nodes = append(nodes, map[string]any{
			"key":      scope + "::" + n,
			"name":     n,
			"in_cycle": inCycle[n],
		})
	}
	steps = append(steps, statement{
		`UNWIND $batch AS row
		 MERGE (n:RustType {key: row.key})
		 SET n.name = row.name, n.scope = $scope, n.in_cycle = row.in_cycle`,
		map[string]any{"batch": nodes, "scope": scope},
	})

	edges := g.Edges()
	if len(edges) > 0 {
		batch := make([]map[string]any, 0, len(edges))
		for _, ed := range edges {
			batch = append(batch, map[string]any{
				"from": scope + "::" + ed.From,
				"to":   scope + "::" + ed.To,
			})
		}
		steps = append(steps, statement{
			`UNWIND $batch AS row
			 MATCH (a:RustType {key: row.from}), (b:RustType {key: row.to})
			 MERGE (a)-[:DEPENDS_ON]->(b)`,
			map[string]any{"batch": batch},
		})
	}

	for _, s := range steps {
		if err := e.run(ctx, s.cypher, s.params); err != nil {
			return fmt.Errorf("running cypher: %w", err)
		}
	}
	logger.Info("dependency graph exported", "scope", scope, "types", len(nodes), "edges", len(edges))
	return nil
}
