// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package planner

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/rsplit/internal/imports"
	"github.com/petar-djukic/rsplit/pkg/types"
)

// finish fills in the header and import lines of every unit.
func (b *builder) finish(uses []*types.Item) {
	resolver := imports.NewResolver(b.plan.Symbols)
	implicit := ImplicitUses(b.plan.All(), uses)
	for _, u := range b.plan.Units {
		b.finishUnit(resolver, u, "", implicit)
		for _, c := range u.Children {
			b.finishUnit(resolver, c, u.Name, implicit)
		}
	}
}

func (b *builder) finishUnit(r *imports.Resolver, u *types.ModuleUnit, parent string, implicit []string) {
	u.Header = Header(u, b.opts.DocTemplate)
	refs := UnitRefs(u)
	if HasFunctions(u) {
		refs = append(refs, implicit...)
	}
	u.Imports = r.Resolve(imports.Location{Unit: u.Name, Parent: parent}, refs)
}

// ImplicitUses returns the names bound by the source file's use declarations
// that no unit references by name. These are typically traits imported for
// their methods, so every unit holding functions keeps them.
func ImplicitUses(units []*types.ModuleUnit, uses []*types.Item) []string {
	referenced := make(map[string]bool)
	for _, u := range units {
		for _, r := range UnitRefs(u) {
			referenced[r] = true
		}
	}
	var out []string
	for _, it := range uses {
		if it.Keyword != "use" {
			continue
		}
		for _, bnd := range it.Uses {
			if bnd.Glob || bnd.Name == "" || referenced[bnd.Name] {
				continue
			}
			out = append(out, bnd.Name)
		}
	}
	return out
}

// HasFunctions reports whether the unit emits any function bodies.
func HasFunctions(u *types.ModuleUnit) bool {
	if len(u.Groups) > 0 || len(u.TraitImpls) > 0 {
		return true
	}
	for _, rec := range u.Records {
		for _, it := range rec.Inline {
			if len(it.Functions) > 0 {
				return true
			}
		}
	}
	for _, it := range u.Standalone {
		if it.Keyword == "fn" || len(it.Functions) > 0 {
			return true
		}
	}
	return false
}

// UnitRefs collects the symbol names referenced by everything the unit emits.
func UnitRefs(u *types.ModuleUnit) []string {
	var refs []string
	for _, rec := range u.Records {
		for _, it := range rec.Items() {
			refs = append(refs, it.Refs...)
		}
	}
	for _, gb := range u.Groups {
		refs = append(refs, gb.Block.HeaderRefs...)
		if HoldsMembers(gb) {
			refs = append(refs, gb.Block.MemberRefs...)
		}
		for _, f := range gb.Group.Functions {
			refs = append(refs, f.Function.Refs...)
		}
	}
	for _, it := range u.TraitImpls {
		refs = append(refs, it.Refs...)
	}
	for _, it := range u.Standalone {
		refs = append(refs, it.Refs...)
	}
	if u.Kind == types.UnitGroup && u.Owner != "" {
		refs = append(refs, u.Owner)
	}
	return refs
}

// HoldsMembers reports whether gb contains the first function of its block.
// The block's non-function members are emitted with that group.
func HoldsMembers(gb types.GroupBlock) bool {
	if len(gb.Block.Functions) == 0 {
		return false
	}
	for _, f := range gb.Group.Functions {
		if f.Function == gb.Block.Functions[0] {
			return true
		}
	}
	return false
}

// Header returns the leading doc comment lines of a unit.
func Header(u *types.ModuleUnit, template string) []string {
	var lines []string
	switch u.Kind {
	case types.UnitTraits:
		lines = append(lines,
			fmt.Sprintf("# %s: trait implementations", u.Owner),
			"",
			fmt.Sprintf("Trait implementations for `%s`:", u.Owner),
			"",
		)
		for _, it := range u.TraitImpls {
			lines = append(lines, fmt.Sprintf("- `%s`", it.Interface))
		}
	case types.UnitWrapper:
		lines = append(lines,
			fmt.Sprintf("# %s", u.Owner),
			"",
			fmt.Sprintf("`%s` with its methods split into %d impl blocks.", u.Owner, len(u.Groups)),
		)
	case types.UnitTypeParent:
		lines = append(lines,
			fmt.Sprintf("# %s", u.Owner),
			"",
			fmt.Sprintf("Definition of `%s`. Its methods live in %d child modules.", u.Owner, len(u.Children)),
		)
	case types.UnitGroup:
		group := ""
		if len(u.Groups) > 0 {
			group = u.Groups[0].Group.Name
		}
		lines = append(lines,
			fmt.Sprintf("# %s: %s", u.Owner, group),
			"",
			fmt.Sprintf("Methods of `%s`.", u.Owner),
		)
	case types.UnitTypes:
		var names []string
		for _, r := range u.Records {
			names = append(names, "`"+r.Name+"`")
		}
		lines = append(lines, "Type definitions: "+strings.Join(names, ", ")+".")
	case types.UnitFunctions:
		lines = append(lines, "Free items.")
	}

	if template != "" {
		t := strings.ReplaceAll(template, "{type_name}", u.Owner)
		t = strings.ReplaceAll(t, "{module_name}", u.Name)
		lines = append(lines, "")
		lines = append(lines, strings.Split(t, "\n")...)
	}
	return lines
}
