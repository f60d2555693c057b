// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// UnitKind identifies what a generated module unit holds.
type UnitKind int

const (
	UnitTypes      UnitKind = iota // bin of regular types
	UnitFunctions                  // bin of standalone items
	UnitTraits                     // trait implementations of one type
	UnitWrapper                    // one type with all of its split groups
	UnitTypeParent                 // one type whose groups live in child units
	UnitGroup                      // one method group of a type
)

// String returns the human-readable name of the unit kind.
func (k UnitKind) String() string {
	switch k {
	case UnitTypes:
		return "types"
	case UnitFunctions:
		return "functions"
	case UnitTraits:
		return "traits"
	case UnitWrapper:
		return "wrapper"
	case UnitTypeParent:
		return "type"
	case UnitGroup:
		return "group"
	default:
		return "unknown"
	}
}

// GroupBlock is one method group paired with the block it was split from.
type GroupBlock struct {
	Block *Item
	Group MethodGroup
}

// ModuleUnit is one generated module file.
type ModuleUnit struct {
	Name  string
	Kind  UnitKind
	Owner string // owning type name, empty for bins

	Records    []*TypeRecord
	Groups     []GroupBlock // split groups emitted as separate impl blocks
	Standalone []*Item
	TraitImpls []*Item

	// FieldVisibility is the level private fields of the unit's types are
	// raised to. Private leaves fields unchanged.
	FieldVisibility Visibility

	Children []*ModuleUnit // units included with path directives
	Depth    int           // 1 for top-level units, 2 for children

	Header  []string // leading doc comment lines
	Imports []string // resolved use lines
}

// Defines returns the names declared by the unit: defined types, named
// standalone items and the bindings of re-exports. Impl blocks kept as
// standalone items declare nothing; their name is the target type.
func (u *ModuleUnit) Defines() []string {
	var names []string
	for _, r := range u.Records {
		if r.Def != nil {
			names = append(names, r.Name)
		}
	}
	for _, it := range u.Standalone {
		if it.Kind == AssociatedBlock || it.Kind == InterfaceImpl {
			continue
		}
		if it.Name != "" {
			names = append(names, it.Name)
		}
		if it.Keyword == "reexport" {
			for _, b := range it.Uses {
				if !b.Glob && b.Name != "" {
					names = append(names, b.Name)
				}
			}
		}
	}
	return names
}
