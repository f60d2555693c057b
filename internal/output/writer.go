// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package output writes generated module files to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteError reports a failed filesystem operation on a generated file.
type WriteError struct {
	Op   string // mkdir, create, write, close, chmod, rename
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// File is one generated file, named relative to the output directory.
type File struct {
	Name    string
	Content string
}

// WriteFile writes data to path atomically: the content goes to a temp file
// in the same directory, which is then renamed over path. An existing file
// keeps its permissions; new files get 0644.
func WriteFile(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".rsplit-*.tmp")
	if err != nil {
		return &WriteError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &WriteError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Op: "close", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return &WriteError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &WriteError{Op: "rename", Path: path, Err: err}
	}

	success = true
	return nil
}

// WriteAll writes files under dir in order and returns the paths written.
// It stops at the first failure; the paths written before it are returned
// with the error.
func WriteAll(dir string, files []File) ([]string, error) {
	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := WriteFile(path, []byte(f.Content)); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
