// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cluster partitions the functions of an oversized impl block into
// size-bounded groups that keep related functions together.
package cluster

import (
	"strings"

	"github.com/petar-djukic/rsplit/pkg/types"
)

// Mode selects the clustering heuristic.
type Mode string

const (
	// ModeSeed grows each cluster from its seed only: a function joins when
	// it calls the seed or the seed calls it.
	ModeSeed Mode = "seed"
	// ModeComponents uses full connected components of the call relation.
	ModeComponents Mode = "components"
)

// Options configures Group.
type Options struct {
	MaxLines int  // per-group size budget
	Mode     Mode // defaults to ModeSeed
}

// Group clusters fns by call relationship and packs each cluster into
// groups bounded by opts.MaxLines. Every function appears in exactly one
// group. A function larger than the budget forms a group on its own.
func Group(fns []*types.FunctionRecord, opts Options) []types.MethodGroup {
	if len(fns) == 0 {
		return nil
	}

	adj := Adjacency(fns)
	var clusters [][]*types.FunctionRecord
	switch opts.Mode {
	case ModeComponents:
		clusters = components(fns, adj)
	default:
		clusters = seeded(fns, adj)
	}

	var groups []types.MethodGroup
	for _, c := range clusters {
		groups = append(groups, Pack(c, opts.MaxLines)...)
	}
	return groups
}

// Adjacency returns the call relation of fns keyed by function name.
func Adjacency(fns []*types.FunctionRecord) map[string]map[string]bool {
	adj := make(map[string]map[string]bool, len(fns))
	for _, f := range fns {
		set := adj[f.Name]
		if set == nil {
			set = make(map[string]bool)
			adj[f.Name] = set
		}
		for callee := range f.Callees {
			set[callee] = true
		}
	}
	return adj
}

// related reports whether a calls b or b calls a.
func related(adj map[string]map[string]bool, a, b *types.FunctionRecord) bool {
	return adj[a.Name][b.Name] || adj[b.Name][a.Name]
}

// seeded scans fns in declaration order. Each unassigned function seeds a
// cluster and absorbs later unassigned functions related to the seed. The
// relation is not followed transitively.
func seeded(fns []*types.FunctionRecord, adj map[string]map[string]bool) [][]*types.FunctionRecord {
	assigned := make([]bool, len(fns))
	var clusters [][]*types.FunctionRecord
	for i, seed := range fns {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		c := []*types.FunctionRecord{seed}
		for j := i + 1; j < len(fns); j++ {
			if assigned[j] || !related(adj, seed, fns[j]) {
				continue
			}
			assigned[j] = true
			c = append(c, fns[j])
		}
		clusters = append(clusters, c)
	}
	return clusters
}

// components returns the connected components of the undirected call
// relation. Components are ordered by their first function and members keep
// declaration order.
func components(fns []*types.FunctionRecord, adj map[string]map[string]bool) [][]*types.FunctionRecord {
	comp := make([]int, len(fns))
	for i := range comp {
		comp[i] = -1
	}
	next := 0
	for i := range fns {
		if comp[i] >= 0 {
			continue
		}
		comp[i] = next
		queue := []int{i}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for j := range fns {
				if comp[j] < 0 && related(adj, fns[cur], fns[j]) {
					comp[j] = next
					queue = append(queue, j)
				}
			}
		}
		next++
	}

	clusters := make([][]*types.FunctionRecord, next)
	for i, f := range fns {
		clusters[comp[i]] = append(clusters[comp[i]], f)
	}
	return clusters
}

// Pack splits an ordered cluster into consecutive groups. A group is closed
// when adding the next function would exceed maxLines and the group already
// holds at least one function.
func Pack(cluster []*types.FunctionRecord, maxLines int) []types.MethodGroup {
	var groups []types.MethodGroup
	var cur []*types.FunctionRecord
	lines := 0
	for _, f := range cluster {
		if len(cur) > 0 && lines+f.Lines > maxLines {
			groups = append(groups, newGroup(cur))
			cur, lines = nil, 0
		}
		cur = append(cur, f)
		lines += f.Lines
	}
	if len(cur) > 0 {
		groups = append(groups, newGroup(cur))
	}
	return groups
}

func newGroup(fns []*types.FunctionRecord) types.MethodGroup {
	g := types.MethodGroup{Functions: fns}
	g.Name = SuggestName(g)
	return g
}

// SuggestName derives a group name from its first function.
func SuggestName(g types.MethodGroup) string {
	if len(g.Functions) == 0 {
		return "methods"
	}
	first := g.Functions[0].Name
	switch {
	case strings.HasPrefix(first, "test_"):
		return "test_methods"
	case strings.HasPrefix(first, "check_"):
		return "check_methods"
	case strings.HasPrefix(first, "get_"), strings.HasPrefix(first, "set_"):
		return "accessors"
	case strings.HasPrefix(first, "handle_"), strings.HasPrefix(first, "process_"):
		return "handlers"
	default:
		return first + "_group"
	}
}
