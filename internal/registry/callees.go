// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package registry

import "github.com/petar-djukic/rsplit/pkg/types"

// Callees collects the names of all functions called from body, both method
// calls and plain or path calls. The tree is walked with an explicit
// worklist so deeply nested bodies cannot exhaust the stack.
func Callees(body *types.Node) map[string]bool {
	out := make(map[string]bool)
	if body == nil {
		return out
	}
	work := []*types.Node{body}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		switch n.Kind {
		case types.NodeCall, types.NodeMethodCall:
			if n.Name != "" {
				out[n.Name] = true
			}
		}
		work = append(work, n.Children...)
	}
	return out
}

// FunctionRecords builds the analysis records for the functions of a block.
func FunctionRecords(block *types.Item, est Estimator) []*types.FunctionRecord {
	records := make([]*types.FunctionRecord, 0, len(block.Functions))
	for _, fn := range block.Functions {
		records = append(records, &types.FunctionRecord{
			Name:     fn.Name,
			Function: fn,
			Callees:  Callees(fn.Body),
			Lines:    est.Function(fn),
		})
	}
	return records
}
