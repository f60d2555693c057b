// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/petar-djukic/rsplit/pkg/types"
)

// standaloneKeywords maps top-level node types to item keywords.
var standaloneKeywords = map[string]string{
	"function_item":            "fn",
	"const_item":               "const",
	"static_item":              "static",
	"trait_item":               "trait",
	"type_item":                "type",
	"mod_item":                 "mod",
	"macro_definition":         "macro",
	"macro_invocation":         "macro",
	"expression_statement":     "macro",
	"use_declaration":          "use",
	"extern_crate_declaration": "extern",
	"foreign_mod_item":         "extern",
	"union_item":               "union",
	"associated_type":          "type",
	"function_signature_item":  "fn",
}

type extractor struct {
	src  []byte
	opts Options
}

func (e *extractor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(e.src)
}

// item converts one top-level node whose emitted text starts at start.
func (e *extractor) item(n *sitter.Node, start int) *types.Item {
	end := int(n.EndByte())
	it := &types.Item{
		Span: types.Span{Start: start, End: end},
		Text: string(e.src[start:end]),
		Refs: e.refs(n),
	}

	switch n.Type() {
	case "struct_item":
		it.Kind = types.TypeDef
		it.Shape = types.ShapeStruct
		it.Name = e.text(n.ChildByFieldName("name"))
		it.Refs = e.refsExcept(n, n.ChildByFieldName("name"))
		it.Fields = e.fields(n.ChildByFieldName("body"), start)
	case "enum_item":
		it.Kind = types.TypeDef
		it.Shape = types.ShapeEnum
		it.Name = e.text(n.ChildByFieldName("name"))
		it.Refs = e.refsExcept(n, n.ChildByFieldName("name"))
	case "impl_item":
		e.impl(n, it)
	case "use_declaration":
		it.Kind = types.Standalone
		it.Keyword = "use"
		if hasVisibility(n) {
			it.Keyword = "reexport"
		}
		it.Uses = e.uses(n.ChildByFieldName("argument"), "")
	default:
		it.Kind = types.Standalone
		it.Keyword = standaloneKeywords[n.Type()]
		if it.Keyword == "" {
			it.Keyword = "other"
		}
		it.Name = e.text(n.ChildByFieldName("name"))
	}
	return it
}

func hasVisibility(n *sitter.Node) bool {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); c != nil && c.Type() == "visibility_modifier" {
			return true
		}
	}
	return false
}

func (e *extractor) visibility(n *sitter.Node) types.Visibility {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); c != nil && c.Type() == "visibility_modifier" {
			return types.ParseVisibility(strings.Join(strings.Fields(e.text(c)), ""))
		}
	}
	return types.Private
}

// fields extracts named or positional struct fields. Offsets are relative to
// base, the start of the item text.
func (e *extractor) fields(body *sitter.Node, base int) []types.Field {
	if body == nil {
		return nil
	}
	var fields []types.Field
	switch body.Type() {
	case "field_declaration_list":
		count := int(body.NamedChildCount())
		for i := 0; i < count; i++ {
			c := body.NamedChild(i)
			if c == nil || c.Type() != "field_declaration" {
				continue
			}
			fields = append(fields, types.Field{
				Name:       e.text(c.ChildByFieldName("name")),
				Visibility: e.visibility(c),
				Offset:     int(c.StartByte()) - base,
				Types:      e.refs(c.ChildByFieldName("type")),
			})
		}
	case "ordered_field_declaration_list":
		// Positional fields: an optional visibility modifier followed by a type.
		pending := -1
		vis := types.Private
		count := int(body.NamedChildCount())
		for i := 0; i < count; i++ {
			c := body.NamedChild(i)
			if c == nil {
				continue
			}
			switch c.Type() {
			case "attribute_item", "line_comment", "block_comment":
				continue
			case "visibility_modifier":
				pending = int(c.StartByte())
				vis = types.ParseVisibility(strings.Join(strings.Fields(e.text(c)), ""))
				continue
			}
			off := int(c.StartByte())
			if pending >= 0 {
				off = pending
			}
			fields = append(fields, types.Field{
				Visibility: vis,
				Offset:     off - base,
				Types:      e.refs(c),
			})
			pending, vis = -1, types.Private
		}
	}
	return fields
}

// impl fills the block fields of an impl item.
func (e *extractor) impl(n *sitter.Node, it *types.Item) {
	it.Kind = types.AssociatedBlock
	if tr := n.ChildByFieldName("trait"); tr != nil {
		it.Kind = types.InterfaceImpl
		it.Interface = e.text(tr)
	}
	it.Name = e.targetName(n.ChildByFieldName("type"))

	body := n.ChildByFieldName("body")
	if body == nil {
		it.Header = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(e.text(n)), ";"))
		it.HeaderRefs = it.Refs
		return
	}
	it.Header = strings.TrimSpace(string(e.src[n.StartByte():body.StartByte()]))
	it.HeaderRefs = e.refsExcept(n, body)

	leading := -1
	count := int(body.NamedChildCount())
	for i := 0; i < count; i++ {
		c := body.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Type() {
		case "attribute_item":
			if leading < 0 {
				leading = int(c.StartByte())
			}
			continue
		case "line_comment", "block_comment":
			if leading < 0 && (e.opts.KeepComments || isDocComment(e.text(c))) {
				leading = int(c.StartByte())
			}
			continue
		}
		start := int(c.StartByte())
		if leading >= 0 {
			start = leading
		}
		leading = -1
		start = lineStart(e.src, start)
		text := string(e.src[start:c.EndByte()])

		if c.Type() != "function_item" {
			it.Members = append(it.Members, text)
			it.MemberRefs = append(it.MemberRefs, e.refs(c)...)
			continue
		}
		it.Functions = append(it.Functions, &types.Function{
			Name:       e.text(c.ChildByFieldName("name")),
			Visibility: e.visibility(c),
			Text:       text,
			Compact:    e.compact(c),
			Body:       e.body(c.ChildByFieldName("body")),
			Refs:       e.refs(c),
		})
	}
	it.MemberRefs = uniqueSorted(it.MemberRefs)
}

// targetName returns the bare type name an impl is for: generics, paths and
// references are peeled off.
func (e *extractor) targetName(n *sitter.Node) string {
	for n != nil {
		switch n.Type() {
		case "type_identifier":
			return e.text(n)
		case "generic_type", "reference_type", "pointer_type":
			n = n.ChildByFieldName("type")
		case "scoped_type_identifier":
			n = n.ChildByFieldName("name")
		default:
			return strings.TrimSpace(e.text(n))
		}
	}
	return ""
}

// uses unpacks a use tree into bindings, prefix being the path so far.
func (e *extractor) uses(n *sitter.Node, prefix string) []types.UseBinding {
	if n == nil {
		return nil
	}
	join := func(p string) string {
		if prefix == "" {
			return p
		}
		return prefix + "::" + p
	}

	switch n.Type() {
	case "use_as_clause":
		return []types.UseBinding{{
			Name: e.text(n.ChildByFieldName("alias")),
			Path: join(e.text(n.ChildByFieldName("path"))),
		}}
	case "scoped_use_list":
		p := prefix
		if path := n.ChildByFieldName("path"); path != nil {
			p = join(e.text(path))
		}
		return e.uses(n.ChildByFieldName("list"), p)
	case "use_list":
		var out []types.UseBinding
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			out = append(out, e.uses(n.NamedChild(i), prefix)...)
		}
		return out
	case "use_wildcard":
		return []types.UseBinding{{Path: join(e.text(n)), Glob: true}}
	case "self":
		if prefix == "" {
			return nil
		}
		return []types.UseBinding{{Name: lastSegment(prefix), Path: prefix}}
	case "line_comment", "block_comment":
		return nil
	default:
		path := join(e.text(n))
		return []types.UseBinding{{Name: lastSegment(path), Path: path}}
	}
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "::"); i >= 0 {
		return path[i+2:]
	}
	return path
}
