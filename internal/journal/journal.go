// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package journal records every split run in a bbolt database so its output
// can be rolled back.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zeebo/xxh3"
	"go.etcd.io/bbolt"
)

var (
	bucketRuns  = []byte("runs")
	bucketFiles = []byte("files")
)

var (
	// ErrRunNotFound is returned for an unknown run ID.
	ErrRunNotFound = errors.New("run not found")
	// ErrAlreadyRolledBack is returned when a run was already undone.
	ErrAlreadyRolledBack = errors.New("run already rolled back")
	// ErrEmpty is returned when the journal holds no runs.
	ErrEmpty = errors.New("journal is empty")
)

// Run describes one split of one input file.
type Run struct {
	ID          string    `json:"id"`
	Input       string    `json:"input"`
	InputHash   string    `json:"input_hash"`
	OutputDir   string    `json:"output_dir"`
	Time        time.Time `json:"time"`
	Created     []string  `json:"created"`     // files that did not exist before the run
	Overwritten []string  `json:"overwritten"` // files whose previous content is stored
	RolledBack  bool      `json:"rolled_back"`
}

// Files returns every path the run wrote.
func (r Run) Files() []string {
	out := append([]string(nil), r.Created...)
	return append(out, r.Overwritten...)
}

// Snapshot holds the content of target files before a run writes them.
type Snapshot struct {
	previous map[string][]byte
	created  []string
}

// Journal is an open run journal.
type Journal struct {
	db  *bbolt.DB
	now func() time.Time
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketRuns, bucketFiles} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("creating bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Hash fingerprints input file content.
func Hash(src []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(src))
}

// Capture reads the current content of the files a run is about to write.
func Capture(paths []string) (*Snapshot, error) {
	s := &Snapshot{previous: make(map[string][]byte)}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		switch {
		case err == nil:
			s.previous[p] = data
		case errors.Is(err, os.ErrNotExist):
			s.created = append(s.created, p)
		default:
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
	}
	return s, nil
}

// Record stores a completed run together with the snapshot taken before it
// and returns the stored run.
func (j *Journal) Record(input string, src []byte, outputDir string, snap *Snapshot) (Run, error) {
	now := j.now().UTC()
	run := Run{
		Input:     input,
		InputHash: Hash(src),
		OutputDir: outputDir,
		Time:      now,
		Created:   append([]string(nil), snap.created...),
	}
	for p := range snap.previous {
		run.Overwritten = append(run.Overwritten, p)
	}
	sort.Strings(run.Overwritten)

	err := j.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		seq, err := runs.NextSequence()
		if err != nil {
			return err
		}
		run.ID = fmt.Sprintf("%s-%04d", now.Format("20060102T150405"), seq)
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		if err := runs.Put([]byte(run.ID), data); err != nil {
			return err
		}
		files := tx.Bucket(bucketFiles)
		for p, content := range snap.previous {
			if err := files.Put(fileKey(run.ID, p), content); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// Get returns the run with the given ID.
func (j *Journal) Get(id string) (Run, error) {
	var run Run
	err := j.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRuns).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return json.Unmarshal(data, &run)
	})
	return run, err
}

// History returns all runs, newest first.
func (j *Journal) History() ([]Run, error) {
	var runs []Run
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var r Run
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decoding run %s: %w", k, err)
			}
			runs = append(runs, r)
		}
		return nil
	})
	return runs, err
}

// Latest returns the newest run that has not been rolled back.
func (j *Journal) Latest() (Run, error) {
	runs, err := j.History()
	if err != nil {
		return Run{}, err
	}
	for _, r := range runs {
		if !r.RolledBack {
			return r, nil
		}
	}
	return Run{}, ErrEmpty
}

// LastFor returns the newest live run of an input file.
func (j *Journal) LastFor(input string) (Run, bool, error) {
	runs, err := j.History()
	if err != nil {
		return Run{}, false, err
	}
	for _, r := range runs {
		if r.Input == input && !r.RolledBack {
			return r, true, nil
		}
	}
	return Run{}, false, nil
}

// Rollback undoes a run: files it created are removed and files it
// overwrote get their previous content back. The run is then marked rolled
// back. An empty id selects the latest live run.
func (j *Journal) Rollback(id string) (Run, error) {
	var run Run
	var err error
	if id == "" {
		run, err = j.Latest()
	} else {
		run, err = j.Get(id)
	}
	if err != nil {
		return Run{}, err
	}
	if run.RolledBack {
		return run, fmt.Errorf("%w: %s", ErrAlreadyRolledBack, run.ID)
	}

	err = j.db.Update(func(tx *bbolt.Tx) error {
		files := tx.Bucket(bucketFiles)
		for _, p := range run.Overwritten {
			content := files.Get(fileKey(run.ID, p))
			if content == nil {
				return fmt.Errorf("missing snapshot of %s", p)
			}
			if err := os.WriteFile(p, content, 0o644); err != nil {
				return fmt.Errorf("restoring %s: %w", p, err)
			}
		}
		for _, p := range run.Created {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("removing %s: %w", p, err)
			}
		}
		removeEmptyDir(run.OutputDir)

		run.RolledBack = true
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketRuns).Put([]byte(run.ID), data)
	})
	if err != nil {
		return Run{}, fmt.Errorf("rolling back %s: %w", run.ID, err)
	}
	return run, nil
}

func fileKey(runID, path string) []byte {
	return []byte(runID + "\x00" + path)
}

func removeEmptyDir(dir string) {
	if dir == "" {
		return
	}
	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) == 0 {
		os.Remove(dir)
	}
}
