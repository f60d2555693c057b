// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package render produces the source text of generated module files.
package render

import (
	"sort"
	"strings"

	"github.com/petar-djukic/rsplit/internal/planner"
	"github.com/petar-djukic/rsplit/internal/scope"
	"github.com/petar-djukic/rsplit/pkg/types"
)

// IndexHeader opens every generated index file.
const IndexHeader = "//! Auto-generated module structure"

// Unit returns the text of one module unit: doc header, imports, then the
// unit's declarations separated by blank lines.
func Unit(u *types.ModuleUnit) string {
	var b strings.Builder
	writeDoc(&b, u.Header)
	if len(u.Imports) > 0 {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		for _, line := range u.Imports {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	blocks := Declarations(u)
	for _, blk := range blocks {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimRight(blk, "\n"))
		b.WriteByte('\n')
	}
	return b.String()
}

// Declarations returns the declaration texts of u in emission order.
func Declarations(u *types.ModuleUnit) []string {
	var out []string
	for _, rec := range u.Records {
		if rec.Def != nil {
			out = append(out, Definition(rec.Def, u.FieldVisibility))
		}
		for _, it := range rec.Inline {
			out = append(out, it.Text)
		}
	}
	for _, gb := range u.Groups {
		out = append(out, Group(gb))
	}
	if len(u.Children) > 0 {
		directives := make([]string, len(u.Children))
		for i, c := range u.Children {
			directives[i] = scope.IncludeDirective(c.Name)
		}
		out = append(out, strings.Join(directives, "\n"))
	}
	for _, it := range u.TraitImpls {
		out = append(out, it.Text)
	}
	for _, it := range u.Standalone {
		out = append(out, it.Text)
	}
	return out
}

// Definition returns the text of a type definition with its private struct
// fields raised to target. Enum variants and non-private fields are left as
// written.
func Definition(it *types.Item, target types.Visibility) string {
	if it.Shape != types.ShapeStruct || target == types.Private {
		return it.Text
	}
	var offsets []int
	for _, f := range it.Fields {
		if scope.NeedsEscalation(f.Visibility, target) && f.Offset >= 0 && f.Offset <= len(it.Text) {
			offsets = append(offsets, f.Offset)
		}
	}
	if len(offsets) == 0 {
		return it.Text
	}
	sort.Sort(sort.Reverse(sort.IntSlice(offsets)))

	text := it.Text
	modifier := target.String() + " "
	for _, off := range offsets {
		text = text[:off] + modifier + text[off:]
	}
	return text
}

// Group returns one split group as an impl block with the original header.
// The block's non-function members go with the group holding its first
// function.
func Group(gb types.GroupBlock) string {
	var parts []string
	if planner.HoldsMembers(gb) && len(gb.Block.Members) > 0 {
		parts = append(parts, strings.Join(gb.Block.Members, "\n"))
	}
	for _, f := range gb.Group.Functions {
		parts = append(parts, strings.TrimRight(f.Function.Text, "\n"))
	}

	var b strings.Builder
	b.WriteString(gb.Block.Header)
	b.WriteString(" {\n")
	b.WriteString(strings.Join(parts, "\n\n"))
	b.WriteString("\n}")
	return b.String()
}

// Index returns the text of the module index replacing the source file. It
// keeps the source's inner attributes, declares every top-level unit and
// re-exports their contents.
func Index(units []*types.ModuleUnit, innerAttrs []string) string {
	var b strings.Builder
	b.WriteString(IndexHeader)
	b.WriteByte('\n')
	for _, a := range innerAttrs {
		b.WriteString(strings.TrimRight(a, "\n"))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	for _, u := range units {
		b.WriteString("pub mod ")
		b.WriteString(u.Name)
		b.WriteString(";\n")
	}

	b.WriteString("\n// Re-export all types\n")
	for _, u := range units {
		b.WriteString("pub use ")
		b.WriteString(u.Name)
		b.WriteString("::*;\n")
	}
	return b.String()
}

func writeDoc(b *strings.Builder, lines []string) {
	for _, l := range lines {
		if l == "" {
			b.WriteString("//!\n")
			continue
		}
		b.WriteString("//! ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
}
