// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rsplit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `pub struct Store {
    items: Vec<u32>,
}

impl Store {
    pub fn len(&self) -> usize {
        self.items.len()
    }
}

pub fn helper() {}
`

func names(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative unit lines", Config{MaxUnitLines: -1}},
		{"unknown clustering", Config{Clustering: "louvain"}},
		{"missing verify dir", Config{VerifyDir: "/does/not/exist"}},
		{"rollback without journal", Config{Rollback: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	c := applyDefaults(Config{MaxBlockLines: 80, EnableBlockSplitting: true})
	assert.Equal(t, 1000, c.Split.MaxUnitLines)
	assert.Equal(t, 80, c.Split.MaxBlockLines)
	assert.True(t, c.Split.EnableBlockSplitting)
	assert.Equal(t, "seed", c.Split.Clustering)
	assert.False(t, c.Journal.Enabled)
	require.NoError(t, c.Validate())
}

func TestPlan(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	defer s.Close()

	res, err := s.Plan(context.Background(), "store.rs", []byte(source))
	require.NoError(t, err)
	assert.Equal(t, []string{"types.rs", "functions.rs", "mod.rs"}, names(res.Files))
	assert.Contains(t, res.Files[0].Content, "pub struct Store {")
	assert.Contains(t, res.Files[2].Content, "pub mod types;")
	assert.Empty(t, res.OutputDir)
	assert.Empty(t, res.Written)
}

func TestPlan_ParseFailure(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Plan(context.Background(), "bad.rs", []byte("pub struct {"))
	assert.ErrorIs(t, err, ErrParseFailure)
}

func TestSplitFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "store.rs")
	require.NoError(t, os.WriteFile(input, []byte(source), 0o644))

	s, err := New(Config{JournalPath: filepath.Join(dir, ".rsplit", "journal.db")})
	require.NoError(t, err)
	defer s.Close()

	res, err := s.SplitFile(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "store"), res.OutputDir)
	assert.Len(t, res.Written, 3)
	assert.NotEmpty(t, res.RunID)

	data, err := os.ReadFile(filepath.Join(dir, "store", "mod.rs"))
	require.NoError(t, err)
	assert.Equal(t, res.Files[2].Content, string(data))
}

func TestSplitFile_VerifyFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "store.rs")
	require.NoError(t, os.WriteFile(input, []byte(source), 0o644))

	s, err := New(Config{
		JournalPath:   filepath.Join(dir, ".rsplit", "journal.db"),
		VerifyCommand: "false",
		VerifyDir:     dir,
		Rollback:      true,
	})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.SplitFile(context.Background(), input)
	assert.ErrorIs(t, err, ErrVerifyFailed)
	_, err = os.Stat(filepath.Join(dir, "store", "mod.rs"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
