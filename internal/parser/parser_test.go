// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/rsplit/pkg/types"
)

const sample = `//! Store crate.
#![allow(dead_code)]

use std::collections::HashMap;
use crate::model::{self, Model as M};
pub use crate::errors::Error;

/// A key-value store.
#[derive(Debug, Clone)]
pub struct Store {
    items: HashMap<String, Model>,
    pub name: String,
}

pub enum Mode {
    Fast,
    Safe(Level),
}

impl Store {
    const LIMIT: usize = 10;

    /// Creates a store.
    pub fn new() -> Self {
        let mut s = Store { items: HashMap::new(), name: String::new() };
        s.init();
        s
    }

    fn init(&mut self) {
        helper();
        println!("{}", MAX);
    }
}

impl std::fmt::Display for Store {
    fn fmt(&self, f: &mut std::fmt::Formatter) -> std::fmt::Result {
        write!(f, "{}", self.name)
    }
}

impl<T> Wrapper<T> {}

fn helper() {}

const MAX: usize = 3;
`

func parseSample(t *testing.T) *File {
	t.Helper()
	f, err := Parse(context.Background(), "store.rs", []byte(sample), Options{})
	require.NoError(t, err)
	return f
}

func findItem(items []*types.Item, kind types.ItemKind, name string) *types.Item {
	for _, it := range items {
		if it.Kind == kind && it.Name == name {
			return it
		}
	}
	return nil
}

func TestParse_InnerAttributes(t *testing.T) {
	f := parseSample(t)
	require.Len(t, f.InnerAttrs, 2)
	assert.Equal(t, "//! Store crate.", strings.TrimSpace(f.InnerAttrs[0]))
	assert.Equal(t, "#![allow(dead_code)]", f.InnerAttrs[1])
}

func TestParse_ItemOrderAndKinds(t *testing.T) {
	f := parseSample(t)
	var kinds []types.ItemKind
	for _, it := range f.Items {
		kinds = append(kinds, it.Kind)
	}
	assert.Equal(t, []types.ItemKind{
		types.Standalone, types.Standalone, types.Standalone, // uses
		types.TypeDef, types.TypeDef,
		types.AssociatedBlock, types.InterfaceImpl, types.AssociatedBlock,
		types.Standalone, types.Standalone,
	}, kinds)

	for i := 1; i < len(f.Items); i++ {
		assert.Less(t, f.Items[i-1].Span.Start, f.Items[i].Span.Start)
	}
}

func TestParse_StructKeepsDocAndAttributes(t *testing.T) {
	f := parseSample(t)
	st := findItem(f.Items, types.TypeDef, "Store")
	require.NotNil(t, st)
	assert.Equal(t, types.ShapeStruct, st.Shape)
	assert.True(t, strings.HasPrefix(st.Text, "/// A key-value store.\n#[derive(Debug, Clone)]\npub struct Store"))
	assert.Equal(t, st.Text, sample[st.Span.Start:st.Span.End])

	require.Len(t, st.Fields, 2)
	assert.Equal(t, "items", st.Fields[0].Name)
	assert.Equal(t, types.Private, st.Fields[0].Visibility)
	assert.True(t, strings.HasPrefix(st.Text[st.Fields[0].Offset:], "items:"))
	assert.ElementsMatch(t, []string{"HashMap", "String", "Model"}, st.Fields[0].Types)
	assert.Equal(t, "name", st.Fields[1].Name)
	assert.Equal(t, types.Public, st.Fields[1].Visibility)
	assert.True(t, strings.HasPrefix(st.Text[st.Fields[1].Offset:], "pub name:"))

	assert.Contains(t, st.Refs, "Debug")
	assert.Contains(t, st.Refs, "HashMap")
	assert.NotContains(t, st.Refs, "Store", "the declared name is not a reference")
}

func TestParse_RecursiveTypeKeepsSelfReference(t *testing.T) {
	src := "struct Node {\n    next: Option<Box<Node>>,\n}\n"
	f, err := Parse(context.Background(), "n.rs", []byte(src), Options{})
	require.NoError(t, err)
	require.Len(t, f.Items, 1)
	assert.Contains(t, f.Items[0].Refs, "Node")
}

func TestParse_Enum(t *testing.T) {
	f := parseSample(t)
	en := findItem(f.Items, types.TypeDef, "Mode")
	require.NotNil(t, en)
	assert.Equal(t, types.ShapeEnum, en.Shape)
	assert.Empty(t, en.Fields)
	assert.Contains(t, en.Refs, "Level")
}

func TestParse_InherentBlock(t *testing.T) {
	f := parseSample(t)
	blk := findItem(f.Items, types.AssociatedBlock, "Store")
	require.NotNil(t, blk)
	assert.Equal(t, "impl Store", blk.Header)
	require.Len(t, blk.Members, 1)
	assert.Equal(t, "    const LIMIT: usize = 10;", blk.Members[0])

	require.Len(t, blk.Functions, 2)
	newFn, initFn := blk.Functions[0], blk.Functions[1]
	assert.Equal(t, "new", newFn.Name)
	assert.Equal(t, types.Public, newFn.Visibility)
	assert.True(t, strings.HasPrefix(newFn.Text, "    /// Creates a store.\n    pub fn new()"))
	assert.NotContains(t, newFn.Compact, "\n")
	assert.NotContains(t, newFn.Compact, "Creates")

	assert.Equal(t, "init", initFn.Name)
	assert.Equal(t, types.Private, initFn.Visibility)
	assert.Contains(t, initFn.Refs, "helper")
	assert.Contains(t, initFn.Refs, "println")
	assert.Contains(t, initFn.Refs, "MAX")
}

func TestParse_BodyCalls(t *testing.T) {
	f := parseSample(t)
	blk := findItem(f.Items, types.AssociatedBlock, "Store")
	require.NotNil(t, blk)

	calls := map[string]types.NodeKind{}
	work := []*types.Node{blk.Functions[0].Body}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		if n.Name != "" {
			calls[n.Name] = n.Kind
		}
		work = append(work, n.Children...)
	}
	assert.Equal(t, types.NodeMethodCall, calls["init"])
	assert.Equal(t, types.NodeCall, calls["new"])
}

func TestParse_TraitImpl(t *testing.T) {
	f := parseSample(t)
	impl := findItem(f.Items, types.InterfaceImpl, "Store")
	require.NotNil(t, impl)
	assert.Equal(t, "std::fmt::Display", impl.Interface)
	assert.Equal(t, "impl std::fmt::Display for Store", impl.Header)
	require.Len(t, impl.Functions, 1)
	assert.Equal(t, "fmt", impl.Functions[0].Name)
	assert.Contains(t, impl.HeaderRefs, "Store")
	assert.Contains(t, impl.HeaderRefs, "std")
}

func TestParse_GenericTarget(t *testing.T) {
	f := parseSample(t)
	blk := findItem(f.Items, types.AssociatedBlock, "Wrapper")
	require.NotNil(t, blk)
	assert.Equal(t, "impl<T> Wrapper<T>", blk.Header)
	assert.Empty(t, blk.Functions)
}

func TestParse_UseBindings(t *testing.T) {
	f := parseSample(t)
	require.GreaterOrEqual(t, len(f.Items), 3)

	assert.Equal(t, "use", f.Items[0].Keyword)
	assert.Equal(t, []types.UseBinding{{Name: "HashMap", Path: "std::collections::HashMap"}}, f.Items[0].Uses)

	assert.Equal(t, "use", f.Items[1].Keyword)
	assert.Equal(t, []types.UseBinding{
		{Name: "model", Path: "crate::model"},
		{Name: "M", Path: "crate::model::Model"},
	}, f.Items[1].Uses)

	assert.Equal(t, "reexport", f.Items[2].Keyword)
	assert.Equal(t, []types.UseBinding{{Name: "Error", Path: "crate::errors::Error"}}, f.Items[2].Uses)
}

func TestParse_StandaloneKeywords(t *testing.T) {
	f := parseSample(t)
	fn := findItem(f.Items, types.Standalone, "helper")
	require.NotNil(t, fn)
	assert.Equal(t, "fn", fn.Keyword)

	c := findItem(f.Items, types.Standalone, "MAX")
	require.NotNil(t, c)
	assert.Equal(t, "const", c.Keyword)
}

func TestParse_Globs(t *testing.T) {
	f, err := Parse(context.Background(), "g.rs", []byte("use crate::prelude::*;\nuse a::{b::*, c};\n"), Options{})
	require.NoError(t, err)
	require.Len(t, f.Items, 2)
	assert.Equal(t, []types.UseBinding{{Path: "crate::prelude::*", Glob: true}}, f.Items[0].Uses)
	assert.Equal(t, []types.UseBinding{
		{Path: "a::b::*", Glob: true},
		{Name: "c", Path: "a::c"},
	}, f.Items[1].Uses)
}

func TestParse_TupleStructFields(t *testing.T) {
	src := "pub struct Pair(pub u32, Inner);\n"
	f, err := Parse(context.Background(), "p.rs", []byte(src), Options{})
	require.NoError(t, err)
	require.Len(t, f.Items, 1)
	st := f.Items[0]
	require.Len(t, st.Fields, 2)
	assert.Equal(t, types.Public, st.Fields[0].Visibility)
	assert.True(t, strings.HasPrefix(st.Text[st.Fields[0].Offset:], "pub u32"))
	assert.Equal(t, types.Private, st.Fields[1].Visibility)
	assert.True(t, strings.HasPrefix(st.Text[st.Fields[1].Offset:], "Inner"))
}

func TestParse_PlainCommentsOptIn(t *testing.T) {
	src := "// plain note\nfn a() {}\n"

	f, err := Parse(context.Background(), "c.rs", []byte(src), Options{})
	require.NoError(t, err)
	require.Len(t, f.Items, 1)
	assert.Equal(t, "fn a() {}", f.Items[0].Text)

	f, err = Parse(context.Background(), "c.rs", []byte(src), Options{KeepComments: true})
	require.NoError(t, err)
	require.Len(t, f.Items, 1)
	assert.True(t, strings.HasPrefix(f.Items[0].Text, "// plain note"))
}

func TestParse_SyntaxError(t *testing.T) {
	src := "struct Ok;\n\nfn broken( {\n"
	_, err := Parse(context.Background(), "bad.rs", []byte(src), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)

	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "bad.rs", se.Path)
	assert.GreaterOrEqual(t, se.Line, 1)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("struct A;\n"), 0o644))

	f, err := ParseFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	require.Len(t, f.Items, 1)
	assert.Equal(t, "A", f.Items[0].Name)

	_, err = ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.rs"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLineStart(t *testing.T) {
	src := []byte("a\n    b c")
	assert.Equal(t, 2, lineStart(src, 6))
	assert.Equal(t, 8, lineStart(src, 8))
	assert.Equal(t, 0, lineStart(src, 0))
}
