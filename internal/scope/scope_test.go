// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package scope

import (
	"testing"

	"github.com/petar-djukic/rsplit/pkg/types"
	"github.com/stretchr/testify/assert"
)

func pendingRecord(blockSizes ...int) *types.TypeRecord {
	rec := &types.TypeRecord{Name: "Store"}
	for _, n := range blockSizes {
		var fns []*types.FunctionRecord
		for i := 0; i < n; i++ {
			fns = append(fns, &types.FunctionRecord{Name: "f"})
		}
		rec.Pending = append(rec.Pending, types.PendingSplit{
			Block:  &types.Item{Kind: types.AssociatedBlock, Name: "Store"},
			Groups: []types.MethodGroup{{Functions: fns}},
		})
	}
	return rec
}

func TestDecide_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		blocks []int
		want   Strategy
		vis    types.Visibility
	}{
		{"nine functions in one block", []int{9}, Inline, types.Private},
		{"ten functions in one block", []int{10}, Wrapper, types.Private},
		{"ten functions across two blocks", []int{5, 5}, Submodule, types.ParentVisible},
		{"nine functions across two blocks", []int{4, 5}, Inline, types.Private},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(pendingRecord(tt.blocks...))
			assert.Equal(t, tt.want, d.Strategy)
			assert.Equal(t, tt.vis, d.Visibility)
		})
	}
}

func TestDecide_CountsAllGroups(t *testing.T) {
	rec := &types.TypeRecord{Name: "Store"}
	group := func(n int) types.MethodGroup {
		g := types.MethodGroup{}
		for i := 0; i < n; i++ {
			g.Functions = append(g.Functions, &types.FunctionRecord{Name: "f"})
		}
		return g
	}
	rec.Pending = []types.PendingSplit{{Groups: []types.MethodGroup{group(4), group(4), group(4)}}}

	d := Decide(rec)
	assert.Equal(t, 12, d.Functions)
	assert.Equal(t, 1, d.Blocks)
	assert.Equal(t, Wrapper, d.Strategy)
}

func TestWithChildren_OnlySubmodule(t *testing.T) {
	sub := DecideCounts(20, 2).WithChildren([]string{"store_get_group", "store_set_group"})
	assert.Equal(t, []string{"store_get_group", "store_set_group"}, sub.Children)

	wrap := DecideCounts(20, 1).WithChildren([]string{"x"})
	assert.Empty(t, wrap.Children)
}

func TestEscalate_Monotonic(t *testing.T) {
	fields := []types.Field{
		{Name: "a", Visibility: types.Private},
		{Name: "b", Visibility: types.Public},
		{Name: "c", Visibility: types.CrateVisible},
		{Name: "d", Visibility: types.ParentVisible},
	}

	got := Escalate(fields, types.ParentVisible)

	assert.Equal(t, types.ParentVisible, got[0].Visibility)
	assert.Equal(t, types.Public, got[1].Visibility)
	assert.Equal(t, types.CrateVisible, got[2].Visibility)
	assert.Equal(t, types.ParentVisible, got[3].Visibility)
	assert.Equal(t, types.Private, fields[0].Visibility, "input must not be modified")

	unchanged := Escalate(fields, types.Private)
	assert.Equal(t, fields, unchanged)
}
