// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"sort"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/petar-djukic/rsplit/pkg/types"
)

// pathKeywords head paths without naming anything importable.
var pathKeywords = map[string]bool{
	"crate": true, "self": true, "super": true, "Self": true,
}

func (e *extractor) refs(n *sitter.Node) []string {
	return e.refsExcept(n, nil)
}

// refsExcept collects the symbol names referenced under n, skipping the
// subtree skip. A name is recorded when it is a type identifier, the head of
// a path, a capitalized identifier, the callee of a plain call or the name of
// a macro.
func (e *extractor) refsExcept(n, skip *sitter.Node) []string {
	if n == nil {
		return nil
	}
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !pathKeywords[name] {
			seen[name] = true
		}
	}

	work := []*sitter.Node{n}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		if skip != nil && sameNode(cur, skip) {
			continue
		}

		switch cur.Type() {
		case "line_comment", "block_comment", "string_literal", "raw_string_literal", "char_literal":
			continue
		case "type_identifier":
			add(e.text(cur))
			continue
		case "identifier":
			if name := e.text(cur); startsUpper(name) {
				add(name)
			}
			continue
		case "scoped_identifier", "scoped_type_identifier", "scoped_use_list":
			if head := pathHead(cur); head != nil {
				switch head.Type() {
				case "identifier", "type_identifier":
					add(e.text(head))
				default:
					work = append(work, head)
				}
			}
			// Generic arguments hang off the enclosing generic node, so
			// nothing else under a path needs visiting except use lists.
			if cur.Type() == "scoped_use_list" {
				if list := cur.ChildByFieldName("list"); list != nil {
					work = append(work, list)
				}
			}
			continue
		case "call_expression":
			if fn := cur.ChildByFieldName("function"); fn != nil && fn.Type() == "identifier" {
				add(e.text(fn))
			}
		case "macro_invocation":
			if m := cur.ChildByFieldName("macro"); m != nil && m.Type() == "identifier" {
				add(e.text(m))
			}
		}

		count := int(cur.ChildCount())
		for i := count - 1; i >= 0; i-- {
			if c := cur.Child(i); c != nil {
				work = append(work, c)
			}
		}
	}
	return sortedKeys(seen)
}

// pathHead returns the leftmost segment of a scoped path, or nil for paths
// rooted at the crate root ("::foo").
func pathHead(n *sitter.Node) *sitter.Node {
	for {
		path := n.ChildByFieldName("path")
		if path == nil {
			return nil
		}
		switch path.Type() {
		case "scoped_identifier", "scoped_type_identifier":
			n = path
		default:
			return path
		}
	}
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func startsUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// compact joins the leaf tokens of n with single spaces, dropping comments.
func (e *extractor) compact(n *sitter.Node) string {
	var tokens []string
	work := []*sitter.Node{n}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		switch cur.Type() {
		case "line_comment", "block_comment":
			continue
		}
		count := int(cur.ChildCount())
		if count == 0 {
			if tok := strings.TrimSpace(e.text(cur)); tok != "" {
				tokens = append(tokens, tok)
			}
			continue
		}
		for i := count - 1; i >= 0; i-- {
			if c := cur.Child(i); c != nil {
				work = append(work, c)
			}
		}
	}
	return strings.Join(tokens, " ")
}

// body builds the simplified expression tree of a function body. Only calls,
// method calls, macros and type references become nodes; everything in
// between is flattened into the nearest such ancestor.
func (e *extractor) body(n *sitter.Node) *types.Node {
	if n == nil {
		return nil
	}
	root := &types.Node{Kind: types.NodeOther}
	type frame struct {
		node   *sitter.Node
		parent *types.Node
	}
	work := []frame{{n, root}}
	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]

		parent := f.parent
		if node := e.bodyNode(f.node); node != nil {
			parent.Children = append(parent.Children, node)
			parent = node
		}
		count := int(f.node.NamedChildCount())
		for i := count - 1; i >= 0; i-- {
			if c := f.node.NamedChild(i); c != nil {
				work = append(work, frame{c, parent})
			}
		}
	}
	return root
}

func (e *extractor) bodyNode(n *sitter.Node) *types.Node {
	switch n.Type() {
	case "call_expression":
		fn := n.ChildByFieldName("function")
		for fn != nil && fn.Type() == "generic_function" {
			fn = fn.ChildByFieldName("function")
		}
		if fn == nil {
			return nil
		}
		switch fn.Type() {
		case "identifier":
			return &types.Node{Kind: types.NodeCall, Name: e.text(fn)}
		case "scoped_identifier":
			return &types.Node{Kind: types.NodeCall, Name: e.text(fn.ChildByFieldName("name"))}
		case "field_expression":
			return &types.Node{Kind: types.NodeMethodCall, Name: e.text(fn.ChildByFieldName("field"))}
		}
	case "macro_invocation":
		return &types.Node{Kind: types.NodeMacro, Name: e.text(n.ChildByFieldName("macro"))}
	case "type_identifier":
		return &types.Node{Kind: types.NodeTypeRef, Name: e.text(n)}
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func uniqueSorted(names []string) []string {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return sortedKeys(m)
}
