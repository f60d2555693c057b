// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultContextLines = 2
	defaultMaxOutput    = 4096
)

// FormatConfig configures Format.
type FormatConfig struct {
	ContextLines int // lines shown above and below each error (default 2)
	MaxOutput    int // raw output shown when nothing parsed (default 4096)
}

// Format renders a failed result for the terminal: each error with the
// surrounding generated code, or the raw output when no diagnostic parsed.
func Format(r *Result, workDir string, cfg FormatConfig) string {
	contextLines := cfg.ContextLines
	if contextLines == 0 {
		contextLines = defaultContextLines
	}
	maxOutput := cfg.MaxOutput
	if maxOutput == 0 {
		maxOutput = defaultMaxOutput
	}

	var buf strings.Builder
	switch {
	case r.TimedOut:
		fmt.Fprintf(&buf, "%s timed out after %s\n", r.Command, r.Duration.Round(time.Millisecond))
	case r.OK:
		fmt.Fprintf(&buf, "%s passed\n", r.Command)
		return buf.String()
	default:
		fmt.Fprintf(&buf, "%s failed\n", r.Command)
	}

	errs := r.Errors()
	for _, d := range errs {
		fmt.Fprintf(&buf, "\n%s\n", d)
		if d.File == "" {
			continue
		}
		path := d.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		buf.WriteString(codeContext(path, d.Line, contextLines))
	}

	if len(errs) == 0 && r.Output != "" {
		out := r.Output
		if len(out) > maxOutput {
			out = out[:maxOutput] + "\n... (truncated)"
		}
		buf.WriteString("\n")
		buf.WriteString(out)
		if !strings.HasSuffix(out, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.String()
}

// codeContext returns numbered lines around line in file, the line itself
// marked with "> ".
func codeContext(file string, line, contextLines int) string {
	data, err := os.ReadFile(file)
	if err != nil || line < 1 {
		return ""
	}

	lines := strings.Split(string(data), "\n")
	start := max(line-contextLines-1, 0)
	end := min(line+contextLines, len(lines))

	var buf strings.Builder
	for i := start; i < end; i++ {
		marker := "  "
		if i+1 == line {
			marker = "> "
		}
		fmt.Fprintf(&buf, "%s%4d │ %s\n", marker, i+1, lines[i])
	}
	return buf.String()
}
