// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scan expands command arguments into the Rust files to split.
package scan

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// skipDirs contains directory names that are never descended into.
var skipDirs = map[string]bool{
	"target":       true,
	"vendor":       true,
	".git":         true,
	".rsplit":      true,
	"node_modules": true,
}

// Options filters directory walks. File arguments bypass the filters.
type Options struct {
	Include      []string // doublestar patterns, relative to the walked directory
	Exclude      []string
	MinFileLines int // files with fewer lines are skipped
}

// Skipped records a file found in a directory but not selected.
type Skipped struct {
	Path   string
	Reason string
}

// Result lists the selected inputs in a stable order.
type Result struct {
	Files   []string
	Skipped []Skipped
}

// Expand resolves each argument: a file is taken as is, a directory is
// walked and filtered by opts and its .gitignore. Duplicates are dropped.
func Expand(args []string, opts Options) (*Result, error) {
	res := &Result{}
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			res.Files = append(res.Files, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}
		found, skipped, err := walk(arg, opts)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
		res.Skipped = append(res.Skipped, skipped...)
	}
	return res, nil
}

func walk(root string, opts Options) ([]string, []Skipped, error) {
	matcher := loadGitignore(root)
	var files []string
	var skipped []Skipped

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if d.IsDir() {
			if skipDirs[d.Name()] || matcher.Match(parts, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.Match(parts, false) {
			return nil
		}
		slash := filepath.ToSlash(rel)
		if !matchAny(opts.Include, slash) || matchAny(opts.Exclude, slash) {
			return nil
		}
		if opts.MinFileLines > 0 {
			n, err := countLines(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if n < opts.MinFileLines {
				skipped = append(skipped, Skipped{Path: path, Reason: fmt.Sprintf("%d lines, below %d", n, opts.MinFileLines)})
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(files)
	return files, skipped, nil
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

// loadGitignore reads .gitignore from root. A missing file matches nothing.
func loadGitignore(root string) gitignore.Matcher {
	var patterns []gitignore.Pattern
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, gitignore.ParsePattern(line, nil))
		}
	}
	return gitignore.NewMatcher(patterns)
}

// countLines counts lines the way an editor shows them: a final line
// without a newline still counts.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n := bytes.Count(data, []byte("\n"))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n, nil
}
