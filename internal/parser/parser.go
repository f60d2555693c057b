// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parser turns Rust source text into the declaration items consumed
// by the registry, using tree-sitter.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/petar-djukic/rsplit/pkg/types"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports the first malformed region of a file.
type SyntaxError struct {
	Path    string
	Line    int // 1-based
	Column  int // 1-based
	Snippet string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v near %q", e.Path, e.Line, e.Column, ErrSyntax, e.Snippet)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Options configures parsing.
type Options struct {
	// KeepComments attaches plain line comments preceding an item to it.
	// Doc comments and attributes are always attached.
	KeepComments bool
}

// File is a parsed source file.
type File struct {
	Path       string
	Source     []byte
	Items      []*types.Item
	InnerAttrs []string // inner attributes and inner doc comments, in order
	Lines      int
}

// ParseFile reads and parses the file at path.
func ParseFile(ctx context.Context, path string, opts Options) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(ctx, path, src, opts)
}

// Parse parses src. Any syntax error fails the whole file; no partial item
// list is returned.
func Parse(ctx context.Context, path string, src []byte, opts Options) (*File, error) {
	root, err := sitter.ParseCtx(ctx, src, rust.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if root == nil {
		return nil, fmt.Errorf("parsing %s: empty tree", path)
	}
	if root.HasError() {
		return nil, syntaxError(path, root, src)
	}

	f := &File{Path: path, Source: src, Lines: strings.Count(string(src), "\n") + 1}
	e := &extractor{src: src, opts: opts}

	leading := -1
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "inner_attribute_item":
			f.InnerAttrs = append(f.InnerAttrs, child.Content(src))
			continue
		case "line_comment", "block_comment":
			text := child.Content(src)
			if strings.HasPrefix(text, "//!") || strings.HasPrefix(text, "/*!") {
				f.InnerAttrs = append(f.InnerAttrs, strings.TrimRight(text, "\n"))
				continue
			}
			if leading < 0 && (opts.KeepComments || isDocComment(text)) {
				leading = int(child.StartByte())
			}
			continue
		case "attribute_item":
			if leading < 0 {
				leading = int(child.StartByte())
			}
			continue
		case "empty_statement":
			continue
		}

		start := int(child.StartByte())
		if leading >= 0 {
			start = leading
		}
		leading = -1
		f.Items = append(f.Items, e.item(child, lineStart(src, start)))
	}
	return f, nil
}

func isDocComment(text string) bool {
	return strings.HasPrefix(text, "///") || strings.HasPrefix(text, "/**")
}

// lineStart moves off back to the start of its line when only blanks
// precede it there, so emitted text keeps its indentation.
func lineStart(src []byte, off int) int {
	i := off
	for i > 0 && (src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	if i == 0 || src[i-1] == '\n' {
		return i
	}
	return off
}

// syntaxError locates the first error or missing node.
func syntaxError(path string, root *sitter.Node, src []byte) error {
	work := []*sitter.Node{root}
	for len(work) > 0 {
		n := work[0]
		work = work[1:]
		if n.Type() == "ERROR" || n.IsMissing() {
			p := n.StartPoint()
			snippet := n.Content(src)
			if len(snippet) > 40 {
				snippet = snippet[:40]
			}
			return &SyntaxError{Path: path, Line: int(p.Row) + 1, Column: int(p.Column) + 1, Snippet: snippet}
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			if c := n.Child(i); c != nil && (c.HasError() || c.IsMissing() || c.Type() == "ERROR") {
				work = append(work, c)
			}
		}
	}
	return &SyntaxError{Path: path, Line: 1, Column: 1}
}
