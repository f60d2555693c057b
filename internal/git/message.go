// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"path"
	"strings"
)

const maxSubjectLength = 72

// GenerateMessage builds the conventional commit message for one split:
// a refactor subject naming the input, the generated files, and the
// Generated-By trailer.
func GenerateMessage(input string, files []string) string {
	msg := buildSubject(input, len(files))
	if body := buildBody(files); body != "" {
		msg += "\n\n" + body
	}
	return msg + "\n\n" + generatedTrailer
}

// buildSubject creates the first line, at most 72 characters.
func buildSubject(input string, n int) string {
	noun := "modules"
	if n == 1 {
		noun = "module"
	}
	subject := fmt.Sprintf("refactor: split %s into %d %s", input, n, noun)
	if len(subject) > maxSubjectLength {
		subject = fmt.Sprintf("refactor: split %s into %d %s", path.Base(input), n, noun)
	}
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}
	return subject
}

// buildBody lists the generated files.
func buildBody(files []string) string {
	if len(files) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("Generated files:\n")
	for _, f := range files {
		fmt.Fprintf(&buf, "- %s\n", f)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
