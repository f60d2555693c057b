// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package rsplit is the library interface of rsplit: it decomposes one
// large Rust source file into a directory of smaller module files.
package rsplit

import (
	"context"
	"errors"

	"github.com/petar-djukic/rsplit/internal/splitter"
)

// Error types for the rsplit API. Failures returned by a Splitter wrap one
// of these.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrParseFailure  = splitter.ErrParseFailure
	ErrWriteFailure  = splitter.ErrWriteFailure
	ErrVerifyFailed  = splitter.ErrVerifyFailed
)

// Config configures a Splitter. Zero values take the defaults.
type Config struct {
	MaxUnitLines         int    // size budget of bin units (default 1000)
	MaxBlockLines        int    // inherent blocks above this are split (default 500)
	EnableBlockSplitting bool   // split oversized inherent blocks
	Clustering           string // "seed" (default) or "components"
	SizeMultiplier       int    // lines per compact token line (default 15)
	ModuleDocTemplate    string // extra header line; {type_name} and {module_name} are substituted
	PreserveComments     bool   // keep plain comments preceding items
	Rustfmt              bool   // format generated files with rustfmt

	JournalPath   string // run journal; empty disables rollback records
	VerifyCommand string // run after writing, e.g. "cargo check"
	VerifyDir     string // directory VerifyCommand runs in
	Rollback      bool   // undo the written files when VerifyCommand fails
}

// File is one generated module file.
type File struct {
	Name    string // relative to the output directory
	Content string
}

// Result holds the outcome of one split.
type Result struct {
	Input       string
	OutputDir   string     // empty for Plan
	Files       []File     // unit files in emission order, then mod.rs
	Written     []string   // paths written by SplitFile
	RunID       string     // journal run, empty when no journal is configured
	Diagnostics []string   // recoverable conditions and the fallback taken
	Cycles      [][]string // type dependency cycles
}

// Splitter splits Rust source files.
type Splitter interface {
	// Plan computes the module files of src without touching the
	// filesystem. name is used in errors and logs.
	Plan(ctx context.Context, name string, src []byte) (*Result, error)

	// SplitFile splits the file at path into <dir>/<stem>/ next to it,
	// recording the run in the journal and verifying when configured.
	SplitFile(ctx context.Context, path string) (*Result, error)

	// Close releases the journal.
	Close() error
}
