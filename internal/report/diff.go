// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const contextLines = 3

type lineOp struct {
	op   diffmatchpatch.Operation
	text string
}

// Diff returns a unified diff turning oldText into newText, labelled with
// path. Equal inputs give the empty string.
func Diff(path, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []lineOp
	for _, d := range diffs {
		for _, l := range splitLines(d.Text) {
			ops = append(ops, lineOp{op: d.Type, text: l})
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range hunks(ops) {
		writeHunk(&out, ops[h[0]:h[1]], h[2], h[3])
	}
	return out.String()
}

// hunks groups changed lines with their context. Each entry is
// {start, end, oldLine, newLine}: the op range and the 1-based line
// numbers of its first line in each file.
func hunks(ops []lineOp) [][4]int {
	var out [][4]int
	oldLine, newLine := 1, 1
	i := 0
	for i < len(ops) {
		if ops[i].op == diffmatchpatch.DiffEqual {
			oldLine++
			newLine++
			i++
			continue
		}
		lead := 0
		for lead < contextLines && i-lead-1 >= 0 && ops[i-lead-1].op == diffmatchpatch.DiffEqual {
			lead++
		}
		start := i - lead
		hOld, hNew := oldLine-lead, newLine-lead

		// Extend through changes separated by at most 2*contextLines equal lines.
		end := i
		for end < len(ops) {
			if ops[end].op != diffmatchpatch.DiffEqual {
				end++
				continue
			}
			run := 0
			for end+run < len(ops) && ops[end+run].op == diffmatchpatch.DiffEqual {
				run++
			}
			if end+run < len(ops) && run <= 2*contextLines {
				end += run
				continue
			}
			end += min(run, contextLines)
			break
		}

		for _, o := range ops[i:end] {
			switch o.op {
			case diffmatchpatch.DiffEqual:
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				oldLine++
			case diffmatchpatch.DiffInsert:
				newLine++
			}
		}
		out = append(out, [4]int{start, end, hOld, hNew})
		i = end
	}
	return out
}

func writeHunk(out *strings.Builder, ops []lineOp, oldStart, newStart int) {
	var oldN, newN int
	for _, o := range ops {
		if o.op != diffmatchpatch.DiffInsert {
			oldN++
		}
		if o.op != diffmatchpatch.DiffDelete {
			newN++
		}
	}
	fmt.Fprintf(out, "@@ -%s +%s @@\n", hunkRange(oldStart, oldN), hunkRange(newStart, newN))
	for _, o := range ops {
		prefix := " "
		switch o.op {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		out.WriteString(prefix + o.text + "\n")
	}
}

func hunkRange(start, n int) string {
	if n == 0 {
		// An empty range names the line before it.
		return fmt.Sprintf("%d,0", start-1)
	}
	if n == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, n)
}

// splitLines splits text produced by DiffCharsToLines into lines without
// their terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\n")
	}
	return lines
}
