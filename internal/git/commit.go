// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName  = "rsplit"
	authorEmail = "rsplit@localhost"
)

func signature() *object.Signature {
	return &object.Signature{Name: authorName, Email: authorEmail, When: time.Now()}
}

// HandleDirty checks for uncommitted changes and either commits them
// separately or returns ErrDirtyWorkTree, depending on Config.DirtyCommit.
func (r *Repo) HandleDirty() error {
	dirty, err := r.IsDirty()
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	if !r.cfg.DirtyCommit {
		return ErrDirtyWorkTree
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if _, err := wt.Add("."); err != nil {
		return fmt.Errorf("staging dirty files: %w", err)
	}
	if _, err := wt.Commit(dirtyCommitMsg, &gogit.CommitOptions{Author: signature()}); err != nil {
		return fmt.Errorf("committing dirty files: %w", err)
	}
	return nil
}

// AutoCommit stages the generated files and commits them with a message
// built by GenerateMessage. Paths may be absolute or relative to the
// repository root. It is a no-op unless Config.AutoCommit is set.
func (r *Repo) AutoCommit(input string, files []string) error {
	if !r.cfg.AutoCommit || len(files) == 0 {
		return nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	rel := make([]string, 0, len(files))
	for _, f := range files {
		p, err := r.relative(f)
		if err != nil {
			return err
		}
		if _, err := wt.Add(p); err != nil {
			return fmt.Errorf("staging %s: %w", p, err)
		}
		rel = append(rel, p)
	}

	src, err := r.relative(input)
	if err != nil {
		return err
	}
	msg := GenerateMessage(src, rel)
	if _, err := wt.Commit(msg, &gogit.CommitOptions{Author: signature()}); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Undo reverts the last commit if rsplit made it. It soft-resets to the
// parent, so the generated files stay in the work tree and index.
func (r *Repo) Undo() error {
	ours, err := r.IsRsplitCommit()
	if err != nil {
		return err
	}
	if !ours {
		return ErrNotRsplitCommit
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("getting commit: %w", err)
	}
	if commit.NumParents() == 0 {
		return fmt.Errorf("cannot undo: HEAD is the initial commit")
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return fmt.Errorf("getting parent commit: %w", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: parent.Hash, Mode: gogit.SoftReset}); err != nil {
		return fmt.Errorf("resetting to parent: %w", err)
	}
	return nil
}

// relative converts path to a slash-separated path under the repository root.
func (r *Repo) relative(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path), nil
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return "", fmt.Errorf("%s is outside the repository: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}
