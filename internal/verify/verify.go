// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package verify runs a check command such as cargo check after generated
// modules are written and parses the rustc diagnostics it prints.
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout = 5 * time.Minute
	waitDelay      = 2 * time.Second
)

// ErrNoCommand is returned by Run when no command is configured.
var ErrNoCommand = errors.New("no verify command configured")

// Diagnostic is one rustc error or warning.
type Diagnostic struct {
	Severity string // error or warning
	Code     string // e.g. E0425, empty when rustc gives none
	Message  string
	File     string
	Line     int // 1-based, 0 if rustc printed no location
	Column   int
}

func (d Diagnostic) String() string {
	head := d.Severity
	if d.Code != "" {
		head += "[" + d.Code + "]"
	}
	if d.File == "" {
		return fmt.Sprintf("%s: %s", head, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, head, d.Message)
}

// Config configures the verifier.
type Config struct {
	Command string        // split on whitespace, e.g. "cargo check --quiet"
	WorkDir string        // directory the command runs in
	Timeout time.Duration // default 5m
}

// Result holds the outcome of one verify run.
type Result struct {
	Command     string
	OK          bool
	TimedOut    bool
	Output      string // combined stdout and stderr
	Diagnostics []Diagnostic
	Duration    time.Duration
}

// Success reports whether the command exited zero.
func (r *Result) Success() bool { return r.OK }

// Errors returns only the error-severity diagnostics.
func (r *Result) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == "error" {
			out = append(out, d)
		}
	}
	return out
}

// Run executes the configured command and parses its output. A non-zero
// exit is reported through Result.OK, not as an error; the error return is
// for a missing command or one that could not be started.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	parts := strings.Fields(cfg.Command)
	if len(parts) == 0 {
		return nil, ErrNoCommand
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, parts[0], parts[1:]...)
	cmd.Dir = cfg.WorkDir
	cmd.WaitDelay = waitDelay

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Command:  cfg.Command,
		OK:       err == nil,
		Output:   buf.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) && cmdCtx.Err() == nil {
			return nil, fmt.Errorf("running %s: %w", parts[0], err)
		}
		result.TimedOut = errors.Is(cmdCtx.Err(), context.DeadlineExceeded)
	}
	result.Diagnostics = Parse(result.Output)
	return result, nil
}

var (
	// error[E0425]: cannot find value `x` in this scope
	headerRegex = regexp.MustCompile(`^(error|warning)(?:\[([A-Z]\d+)\])?: (.+)$`)
	//  --> src/store/types.rs:10:5
	locationRegex = regexp.MustCompile(`^\s*--> (.+?):(\d+):(\d+)$`)
	summaryRegex  = regexp.MustCompile("^(aborting due to|could not compile|`[^`]+` \\(.+\\) generated \\d+ warnings?|build failed)")
)

// Parse extracts rustc diagnostics from compiler output. A location line
// belongs to the nearest preceding header; cargo summary lines are dropped.
func Parse(output string) []Diagnostic {
	var diags []Diagnostic
	located := true
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := headerRegex.FindStringSubmatch(line); m != nil {
			if summaryRegex.MatchString(m[3]) {
				located = true
				continue
			}
			diags = append(diags, Diagnostic{Severity: m[1], Code: m[2], Message: m[3]})
			located = false
			continue
		}
		if located {
			continue
		}
		if m := locationRegex.FindStringSubmatch(line); m != nil {
			d := &diags[len(diags)-1]
			d.File = m[1]
			d.Line, _ = strconv.Atoi(m[2])
			d.Column, _ = strconv.Atoi(m[3])
			located = true
		}
	}
	return diags
}
