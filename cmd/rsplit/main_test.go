// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storeSrc = `pub struct Store {
    items: Vec<u32>,
}

impl Store {
    pub fn len(&self) -> usize {
        self.items.len()
    }
}

pub fn helper() {}
`

// execute runs the CLI in dir with args and returns stdout and stderr.
func execute(t *testing.T, dir, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)
	var stdout, stderr bytes.Buffer
	a := &app{v: viper.New(), stdout: &stdout, stderr: &stderr, stdin: strings.NewReader(stdin)}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "store.rs"), []byte(storeSrc), 0o644))
	return dir
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Equal(t, "rsplit "+version+"\n", out)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, dir, "", "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ".rsplit.toml"))

	_, _, err = execute(t, dir, "", "config", "init")
	assert.Error(t, err)

	out, _, err := execute(t, dir, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# source: "+filepath.Join(dir, ".rsplit.toml"))
	assert.Contains(t, out, "split.max_unit_lines = 1000")
}

func TestConfigShow_FlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".rsplit.toml"), []byte("[logging]\nlevel = \"info\"\n"), 0o644))

	out, _, err := execute(t, dir, "", "--log-level", "error", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "logging.level = error")
}

func TestSplit_WritesAndRollsBack(t *testing.T) {
	dir := writeInput(t)

	_, stderr, err := execute(t, dir, "", "split", "store.rs")
	require.NoError(t, err)
	assert.Contains(t, stderr, "store.rs: wrote 3 files to store")
	assert.FileExists(t, filepath.Join(dir, "store", "mod.rs"))
	assert.FileExists(t, filepath.Join(dir, ".rsplit", "journal.db"))

	out, _, err := execute(t, dir, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "store.rs")
	assert.Contains(t, out, "live")

	out, _, err = execute(t, dir, "", "rollback")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 3 files")
	_, err = os.Stat(filepath.Join(dir, "store"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, dir, "", "rollback")
	assert.Error(t, err)
}

func TestSplit_DryRun(t *testing.T) {
	dir := writeInput(t)

	out, _, err := execute(t, dir, "", "split", "-n", "store.rs")
	require.NoError(t, err)
	assert.Contains(t, out, "types.rs")
	assert.Contains(t, out, "mod.rs")
	_, err = os.Stat(filepath.Join(dir, "store"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSplit_InteractiveDecline(t *testing.T) {
	dir := writeInput(t)

	out, stderr, err := execute(t, dir, "n\n", "split", "-I", "store.rs")
	require.NoError(t, err)
	assert.Contains(t, out, "[y/N]")
	assert.Contains(t, stderr, "skipped (declined)")
	_, err = os.Stat(filepath.Join(dir, "store"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSplit_ReportJSON(t *testing.T) {
	dir := writeInput(t)

	out, _, err := execute(t, dir, "", "split", "-n", "--report", "json", "store.rs")
	require.NoError(t, err)
	assert.Contains(t, out, `"input": "store.rs"`)
}

func TestSplit_UnknownReportFormat(t *testing.T) {
	dir := writeInput(t)
	_, _, err := execute(t, dir, "", "split", "--report", "xml", "store.rs")
	assert.ErrorContains(t, err, "unknown report format")
}

func TestGraph(t *testing.T) {
	dir := t.TempDir()
	src := "pub struct A { b: B }\npub struct B { a: Option<Box<A>> }\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ab.rs"), []byte(src), 0o644))

	out, stderr, err := execute(t, dir, "", "graph", "--format", "edges", "ab.rs")
	require.NoError(t, err)
	assert.Equal(t, "A -> B\nB -> A\n", out)
	assert.Contains(t, stderr, "cycle: A → B")

	_, _, err = execute(t, dir, "", "graph", "--format", "png", "ab.rs")
	assert.ErrorContains(t, err, "unknown graph format")
}

func TestFlatten(t *testing.T) {
	got := flatten("", map[string]any{
		"split": map[string]any{"max_unit_lines": 10},
		"top":   true,
	})
	assert.Equal(t, map[string]any{"split.max_unit_lines": 10, "top": true}, got)
}
