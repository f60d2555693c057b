// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the declaration and module-unit model shared by the
// rsplit packages.
package types

// ItemKind identifies the variant of a top-level declaration item.
type ItemKind int

const (
	TypeDef         ItemKind = iota // struct or enum definition
	AssociatedBlock                 // inherent impl block
	InterfaceImpl                   // trait impl block
	Standalone                      // anything else (fn, const, trait, use, macro, ...)
)

// String returns the human-readable name of the item kind.
func (k ItemKind) String() string {
	switch k {
	case TypeDef:
		return "TypeDef"
	case AssociatedBlock:
		return "AssociatedBlock"
	case InterfaceImpl:
		return "InterfaceImpl"
	case Standalone:
		return "Standalone"
	default:
		return "Unknown"
	}
}

// Shape distinguishes the kinds of type definitions.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeStruct
	ShapeEnum
)

// Visibility is the accessibility level of a field or function, ordered from
// least to most visible.
type Visibility int

const (
	Private       Visibility = iota // no modifier
	ParentVisible                   // pub(super)
	Restricted                      // pub(in path), pub(self)
	CrateVisible                    // pub(crate)
	Public                          // pub
)

// String returns the Rust modifier for the visibility level. Private renders
// as the empty string.
func (v Visibility) String() string {
	switch v {
	case ParentVisible:
		return "pub(super)"
	case Restricted:
		return "pub(in self)"
	case CrateVisible:
		return "pub(crate)"
	case Public:
		return "pub"
	default:
		return ""
	}
}

// ParseVisibility maps a visibility modifier as written in source to its level.
func ParseVisibility(modifier string) Visibility {
	switch modifier {
	case "":
		return Private
	case "pub":
		return Public
	case "pub(crate)", "crate":
		return CrateVisible
	case "pub(super)":
		return ParentVisible
	default:
		return Restricted
	}
}

// Span is a half-open byte range into the parsed source.
type Span struct {
	Start int
	End   int
}

// Field is a named or positional field of a struct definition.
type Field struct {
	Name       string     // empty for tuple-struct fields
	Visibility Visibility // declared visibility
	Offset     int        // byte offset of the field declaration relative to the item text
	Types      []string   // type identifiers named by the field's type
}

// UseBinding is one name bound by a use declaration.
type UseBinding struct {
	Name string // bound identifier (alias if renamed); empty for glob imports
	Path string // full path as written, e.g. "std::sync::Arc" or "crate::model::*"
	Glob bool
}

// Module returns the path without its final segment.
func (u UseBinding) Module() string {
	for i := len(u.Path) - 1; i > 0; i-- {
		if u.Path[i] == ':' && u.Path[i-1] == ':' {
			return u.Path[:i-1]
		}
	}
	return ""
}

// Item is one top-level declaration of the input file.
type Item struct {
	Kind ItemKind
	Name string // declared type name, or the target type name for impl blocks

	Interface string // trait path for InterfaceImpl items
	Shape     Shape  // TypeDef items
	Keyword   string // Standalone items: fn, use, const, static, trait, type, mod, macro, other

	Span Span
	Text string // source text including leading attributes and doc comments

	// Header is the impl header without its body, e.g. "impl<T: Clone> Stack<T>".
	// Set on AssociatedBlock and InterfaceImpl items.
	Header string

	Fields    []Field
	Functions []*Function
	Members   []string // non-function members of an impl block, as source text

	Refs       []string     // referenced symbol names, sorted and unique
	HeaderRefs []string     // names referenced by an impl header
	MemberRefs []string     // names referenced by non-function members
	Uses       []UseBinding // bindings introduced by a use declaration
}

// Function is an associated function inside an impl block.
type Function struct {
	Name       string
	Visibility Visibility
	Text       string // source text including attributes, doc comments and indentation
	Compact    string // leaf tokens joined by single spaces, comments dropped
	Body       *Node
	Refs       []string
}

// NodeKind identifies the variant of an expression node.
type NodeKind int

const (
	NodeOther      NodeKind = iota
	NodeCall                // plain or path call; Name is the last path segment
	NodeMethodCall          // receiver.method(...); Name is the method
	NodeMacro               // macro invocation; Name is the macro path
	NodeTypeRef             // a type or path qualifier identifier
)

// Node is a simplified expression tree node of a function body.
type Node struct {
	Kind     NodeKind
	Name     string
	Children []*Node
}
