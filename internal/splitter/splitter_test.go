// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package splitter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/petar-djukic/rsplit/internal/config"
	"github.com/petar-djukic/rsplit/internal/journal"
	"github.com/petar-djukic/rsplit/internal/verify"
)

// TestSplit_Fixtures runs each testdata archive through Split. An archive
// holds config.toml and input.rs, then expectations:
//
//	files            exact list of generated file names
//	count/files      number of generated files
//	want/<name>      exact content of a file
//	contains/<name>  lines that must appear in a file
//	count/<name>     "<text> <n>": text appears n times
func TestSplit_Fixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)
			sections := make(map[string]string)
			for _, f := range ar.Files {
				sections[f.Name] = string(f.Data)
			}

			cfgPath := filepath.Join(t.TempDir(), config.FileName)
			require.NoError(t, os.WriteFile(cfgPath, []byte(sections["config.toml"]), 0o644))
			cfg, _, err := config.Load(viper.New(), cfgPath, "")
			require.NoError(t, err)

			out, err := Split(context.Background(), "input.rs", []byte(sections["input.rs"]), cfg, nil, nil)
			require.NoError(t, err)

			got := make(map[string]string)
			var names []string
			for _, f := range out.Files {
				got[f.Name] = f.Content
				names = append(names, f.Name)
			}

			for name, data := range sections {
				switch {
				case name == "files":
					assert.Equal(t, strings.Fields(data), names)
				case name == "count/files":
					n, err := strconv.Atoi(strings.TrimSpace(data))
					require.NoError(t, err)
					assert.Len(t, names, n, "files: %v", names)
				case strings.HasPrefix(name, "want/"):
					file := strings.TrimPrefix(name, "want/")
					require.Contains(t, got, file)
					assert.Equal(t, data, got[file])
				case strings.HasPrefix(name, "contains/"):
					file := strings.TrimPrefix(name, "contains/")
					require.Contains(t, got, file)
					for _, line := range strings.Split(strings.TrimRight(data, "\n"), "\n") {
						assert.Contains(t, got[file], line, "%s:\n%s", file, got[file])
					}
				case strings.HasPrefix(name, "absent/"):
					file := strings.TrimPrefix(name, "absent/")
					require.Contains(t, got, file)
					for _, line := range strings.Split(strings.TrimRight(data, "\n"), "\n") {
						assert.NotContains(t, got[file], line, "%s:\n%s", file, got[file])
					}
				case strings.HasPrefix(name, "count/"):
					file := strings.TrimPrefix(name, "count/")
					require.Contains(t, got, file)
					line := strings.TrimRight(data, "\n")
					i := strings.LastIndex(line, " ")
					n, err := strconv.Atoi(line[i+1:])
					require.NoError(t, err)
					assert.Equal(t, n, strings.Count(got[file], line[:i]), "%s:\n%s", file, got[file])
				}
			}
		})
	}
}

func TestSplit_ParseFailure(t *testing.T) {
	_, err := Split(context.Background(), "bad.rs", []byte("pub struct {"), config.Defaults(), nil, nil)
	assert.ErrorIs(t, err, ErrParseFailure)
}

func TestSplit_Deterministic(t *testing.T) {
	src := []byte("pub struct A { b: B }\npub struct B;\nimpl A { fn f(&self) {} }\nfn g() {}\n")
	first, err := Split(context.Background(), "a.rs", src, config.Defaults(), nil, nil)
	require.NoError(t, err)
	second, err := Split(context.Background(), "a.rs", src, config.Defaults(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Files, second.Files)
}

func TestSplit_ReportsCycles(t *testing.T) {
	src := []byte("pub struct A { b: Box<B> }\npub struct B { a: Box<A> }\n")
	out, err := Split(context.Background(), "a.rs", src, config.Defaults(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "B"}}, out.Cycles)
}

func TestOutputDirFor(t *testing.T) {
	assert.Equal(t, filepath.Join("src", "store"), OutputDirFor(filepath.Join("src", "store.rs")))
}

// Runner tests

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

type fakeGit struct {
	dirty   int
	commits map[string][]string
}

func (g *fakeGit) HandleDirty() error {
	g.dirty++
	return nil
}

func (g *fakeGit) AutoCommit(input string, files []string) error {
	if g.commits == nil {
		g.commits = make(map[string][]string)
	}
	g.commits[input] = files
	return nil
}

type fixture struct {
	dir     string
	input   string
	journal *journal.Journal
	out     bytes.Buffer
	errOut  bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{dir: t.TempDir()}
	f.input = filepath.Join(f.dir, "store.rs")
	require.NoError(t, os.WriteFile(f.input, []byte(storeSrc), 0o644))
	j, err := journal.Open(filepath.Join(f.dir, ".rsplit", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	f.journal = j
	return f
}

func (f *fixture) runner(opts Options, deps Deps) *Runner {
	if opts.Config.Split.MaxUnitLines == 0 {
		opts.Config = config.Defaults()
	}
	if deps.Journal == nil {
		deps.Journal = f.journal
	}
	deps.Out = &f.out
	deps.Err = &f.errOut
	return NewRunner(opts, deps)
}

func TestRunner_WritesAndRecords(t *testing.T) {
	f := newFixture(t)
	git := &fakeGit{}
	r := f.runner(Options{}, Deps{Git: git})

	sum, err := r.Run(context.Background(), []string{f.input})
	require.NoError(t, err)
	require.Len(t, sum.Files, 1)
	res := sum.Files[0]

	outDir := filepath.Join(f.dir, "store")
	assert.Equal(t, outDir, res.OutputDir)
	assert.Equal(t, []string{
		filepath.Join(outDir, "types.rs"),
		filepath.Join(outDir, "functions.rs"),
		filepath.Join(outDir, "mod.rs"),
	}, res.Written)
	assert.NotEmpty(t, res.RunID)

	data, err := os.ReadFile(filepath.Join(outDir, "types.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "pub struct Store {")

	assert.Equal(t, 1, git.dirty)
	assert.Equal(t, res.Written, git.commits[f.input])

	run, ok, err := f.journal.LastFor(f.input)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.RunID, run.ID)
	assert.Len(t, run.Created, 3)
}

func TestRunner_SkipsUnchangedInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.runner(Options{}, Deps{}).Run(context.Background(), []string{f.input})
	require.NoError(t, err)

	sum, err := f.runner(Options{}, Deps{}).Run(context.Background(), []string{f.input})
	require.NoError(t, err)
	assert.Contains(t, sum.Files[0].Skipped, "unchanged since run")
	assert.Empty(t, sum.Files[0].Written)

	sum, err = f.runner(Options{Force: true}, Deps{}).Run(context.Background(), []string{f.input})
	require.NoError(t, err)
	assert.Len(t, sum.Files[0].Written, 3)
}

func TestRunner_DryRunWritesNothing(t *testing.T) {
	f := newFixture(t)
	git := &fakeGit{}
	sum, err := f.runner(Options{DryRun: true}, Deps{Git: git}).Run(context.Background(), []string{f.input})
	require.NoError(t, err)

	assert.Equal(t, "dry run", sum.Files[0].Skipped)
	assert.Contains(t, f.out.String(), "types.rs [types]")
	_, err = os.Stat(filepath.Join(f.dir, "store"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, git.dirty)
	assert.Empty(t, git.commits)
}

func TestRunner_InteractiveDecline(t *testing.T) {
	f := newFixture(t)
	var asked string
	confirm := func(q string) (bool, error) {
		asked = q
		return false, nil
	}
	sum, err := f.runner(Options{Interactive: true}, Deps{Confirm: confirm}).Run(context.Background(), []string{f.input})
	require.NoError(t, err)

	assert.Equal(t, "declined", sum.Files[0].Skipped)
	assert.Equal(t, "Write 3 files to "+filepath.Join(f.dir, "store")+"?", asked)
	_, err = os.Stat(filepath.Join(f.dir, "store"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunner_VerifyFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	cfg := config.Defaults()
	cfg.Verify.Command = "cargo check"
	cfg.Verify.RollbackOnFailure = true

	failing := func(_ context.Context, vc verify.Config) (*verify.Result, error) {
		return &verify.Result{
			Command:     vc.Command,
			Diagnostics: []verify.Diagnostic{{Severity: "error", Code: "E0425", Message: "cannot find value"}},
		}, nil
	}
	sum, err := f.runner(Options{Config: cfg}, Deps{Verify: failing}).Run(context.Background(), []string{f.input})
	require.ErrorIs(t, err, ErrVerifyFailed)

	res := sum.Files[0]
	assert.Empty(t, res.Written)
	assert.Contains(t, f.errOut.String(), "cargo check failed")
	_, statErr := os.Stat(filepath.Join(f.dir, "store"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)

	run, err := f.journal.Get(res.RunID)
	require.NoError(t, err)
	assert.True(t, run.RolledBack)
}

func TestRunner_VerifySuccess(t *testing.T) {
	f := newFixture(t)
	cfg := config.Defaults()
	cfg.Verify.Command = "cargo check"
	var gotDir string
	passing := func(_ context.Context, vc verify.Config) (*verify.Result, error) {
		gotDir = vc.WorkDir
		return &verify.Result{Command: vc.Command, OK: true}, nil
	}
	sum, err := f.runner(Options{Config: cfg, WorkDir: f.dir}, Deps{Verify: passing}).Run(context.Background(), []string{f.input})
	require.NoError(t, err)
	assert.True(t, sum.Files[0].Verify.Success())
	assert.Equal(t, f.dir, gotDir)
}

func TestRunner_BatchContinuesPastParseFailure(t *testing.T) {
	f := newFixture(t)
	bad := filepath.Join(f.dir, "broken.rs")
	require.NoError(t, os.WriteFile(bad, []byte("pub struct {"), 0o644))

	sum, err := f.runner(Options{Progress: true}, Deps{}).Run(context.Background(), []string{f.dir})
	require.ErrorIs(t, err, ErrParseFailure)
	require.Len(t, sum.Files, 2)

	byInput := map[string]*FileResult{}
	for _, res := range sum.Files {
		byInput[res.Input] = res
	}
	assert.ErrorIs(t, byInput[bad].Err, ErrParseFailure)
	assert.Len(t, byInput[f.input].Written, 3)
}

func TestRunner_OutputDirNeedsSingleInput(t *testing.T) {
	f := newFixture(t)
	other := filepath.Join(f.dir, "other.rs")
	require.NoError(t, os.WriteFile(other, []byte("fn f() {}\n"), 0o644))

	_, err := f.runner(Options{OutputDir: filepath.Join(f.dir, "out")}, Deps{}).Run(context.Background(), []string{f.input, other})
	assert.Error(t, err)
}

func TestRunner_NoInput(t *testing.T) {
	f := newFixture(t)
	empty := filepath.Join(f.dir, "empty")
	require.NoError(t, os.MkdirAll(empty, 0o755))
	_, err := f.runner(Options{}, Deps{}).Run(context.Background(), []string{empty})
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestRunner_Report(t *testing.T) {
	f := newFixture(t)
	_, err := f.runner(Options{DryRun: true, Report: "json"}, Deps{}).Run(context.Background(), []string{f.input})
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), `"output_dir": "`+filepath.Join(f.dir, "store")+`"`)
}

func TestRunner_DiffOfExistingOutput(t *testing.T) {
	f := newFixture(t)
	outDir := filepath.Join(f.dir, "store")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "functions.rs"), []byte("pub fn old() {}\n"), 0o644))

	_, err := f.runner(Options{DryRun: true, Diff: true}, Deps{}).Run(context.Background(), []string{f.input})
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "-pub fn old() {}")
	assert.Contains(t, f.out.String(), "+pub fn helper() {}")
}

func TestRunner_Cancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.runner(Options{}, Deps{}).Run(ctx, []string{f.input})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
