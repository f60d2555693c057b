// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package verify

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cargoOutput = `    Checking store v0.1.0 (/work/store)
error[E0425]: cannot find value ` + "`LIMIT`" + ` in this scope
  --> src/store/store_read.rs:4:9
   |
4  |         LIMIT
   |         ^^^^^ not found in this scope

warning: unused import: ` + "`std::io::Write`" + `
 --> src/store/types.rs:1:5
  |
1 | use std::io::Write;
  |     ^^^^^^^^^^^^^^

error: expected one of ` + "`;`" + ` or ` + "`}`" + `
error: could not compile ` + "`store`" + ` (lib) due to 2 previous errors; 1 warning emitted
`

func TestParse(t *testing.T) {
	diags := Parse(cargoOutput)
	require.Len(t, diags, 3)

	assert.Equal(t, Diagnostic{
		Severity: "error",
		Code:     "E0425",
		Message:  "cannot find value `LIMIT` in this scope",
		File:     "src/store/store_read.rs",
		Line:     4,
		Column:   9,
	}, diags[0])

	assert.Equal(t, "warning", diags[1].Severity)
	assert.Equal(t, "src/store/types.rs", diags[1].File)
	assert.Equal(t, 1, diags[1].Line)

	assert.Equal(t, "error", diags[2].Severity)
	assert.Empty(t, diags[2].Code)
	assert.Empty(t, diags[2].File, "no location line follows")
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("    Finished dev [unoptimized] target(s) in 0.2s\n"))
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{"located", Diagnostic{Severity: "error", Code: "E0412", Message: "cannot find type", File: "a.rs", Line: 3, Column: 7}, "a.rs:3:7: error[E0412]: cannot find type"},
		{"no code", Diagnostic{Severity: "warning", Message: "unused", File: "b.rs", Line: 1, Column: 1}, "b.rs:1:1: warning: unused"},
		{"no location", Diagnostic{Severity: "error", Message: "boom"}, "error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.String())
		})
	}
}

func TestResult_Errors(t *testing.T) {
	r := &Result{Diagnostics: Parse(cargoOutput)}
	assert.Len(t, r.Errors(), 2)
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRun_NoCommand(t *testing.T) {
	_, err := Run(context.Background(), Config{Command: "   "})
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestRun_MissingBinary(t *testing.T) {
	_, err := Run(context.Background(), Config{Command: "rsplit-no-such-checker --all"})
	assert.Error(t, err)
}

func TestRun_Success(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "check.sh"), []byte("echo ok\n"), 0o755))

	r, err := Run(context.Background(), Config{Command: "sh check.sh", WorkDir: dir})
	require.NoError(t, err)
	assert.True(t, r.Success())
	assert.Equal(t, "ok\n", r.Output)
	assert.Empty(t, r.Diagnostics)
}

func TestRun_FailureParsesDiagnostics(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	script := "cat <<'OUT' >&2\n" + cargoOutput + "OUT\nexit 101\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "check.sh"), []byte(script), 0o755))

	r, err := Run(context.Background(), Config{Command: "sh check.sh", WorkDir: dir})
	require.NoError(t, err)
	assert.False(t, r.Success())
	assert.False(t, r.TimedOut)
	assert.Len(t, r.Errors(), 2)
}

func TestRun_Timeout(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "check.sh"), []byte("exec sleep 5\n"), 0o755))

	r, err := Run(context.Background(), Config{Command: "sh check.sh", WorkDir: dir, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	assert.False(t, r.Success())
	assert.True(t, r.TimedOut)
}

func TestFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src", "store")
	require.NoError(t, os.MkdirAll(path, 0o755))
	code := "use super::types::Store;\n\nimpl Store {\n    fn read(&self) -> usize {\n        LIMIT\n    }\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(path, "store_read.rs"), []byte(code), 0o644))

	r := &Result{
		Command: "cargo check",
		Diagnostics: []Diagnostic{
			{Severity: "error", Code: "E0425", Message: "cannot find value `LIMIT`", File: "src/store/store_read.rs", Line: 5, Column: 9},
			{Severity: "warning", Message: "unused", File: "src/store/store_read.rs", Line: 1, Column: 5},
		},
	}
	out := Format(r, dir, FormatConfig{ContextLines: 1})

	assert.Contains(t, out, "cargo check failed")
	assert.Contains(t, out, "error[E0425]")
	assert.Contains(t, out, ">    5 │         LIMIT")
	assert.Contains(t, out, "     4 │     fn read(&self) -> usize {")
	assert.NotContains(t, out, "warning", "only errors are shown")
}

func TestFormat_RawOutputWhenUnparsed(t *testing.T) {
	r := &Result{Command: "make check", Output: "something broke"}
	out := Format(r, "", FormatConfig{})
	assert.Contains(t, out, "make check failed")
	assert.Contains(t, out, "something broke\n")
}

func TestFormat_Passed(t *testing.T) {
	assert.Equal(t, "cargo check passed\n", Format(&Result{Command: "cargo check", OK: true}, "", FormatConfig{}))
}
