// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Formatter normalizes generated source text.
type Formatter interface {
	Format(ctx context.Context, src string) (string, error)
}

// Passthrough returns source text unchanged.
type Passthrough struct{}

// Format implements Formatter.
func (Passthrough) Format(_ context.Context, src string) (string, error) { return src, nil }

// Rustfmt pipes source text through rustfmt.
type Rustfmt struct {
	Command string // defaults to "rustfmt"
	Edition string // defaults to "2021"
}

// Format implements Formatter. A failure leaves the caller to decide whether
// to keep the unformatted text.
func (r Rustfmt) Format(ctx context.Context, src string) (string, error) {
	command := r.Command
	if command == "" {
		command = "rustfmt"
	}
	edition := r.Edition
	if edition == "" {
		edition = "2021"
	}

	cmd := exec.CommandContext(ctx, command, "--emit", "stdout", "--edition", edition)
	cmd.Stdin = strings.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s: %w: %s", command, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Available reports whether the rustfmt command can be found.
func (r Rustfmt) Available() bool {
	command := r.Command
	if command == "" {
		command = "rustfmt"
	}
	_, err := exec.LookPath(command)
	return err == nil
}
