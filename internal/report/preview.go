// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles holds the preview styles bound to one output renderer.
type styles struct {
	title   lipgloss.Style
	unit    lipgloss.Style
	kind    lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
	box     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		unit:    r.NewStyle().Bold(true),
		kind:    r.NewStyle().Foreground(lipgloss.Color("6")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
}

// Preview writes the dry-run view of r: one line per unit file with its
// kind and size, groups and children indented below it.
func Preview(w io.Writer, r *Report) error {
	s := newStyles(w)

	var b strings.Builder
	b.WriteString(s.title.Render(fmt.Sprintf("%s → %s/", r.Input, strings.TrimSuffix(r.OutputDir, "/"))))
	b.WriteString("\n")
	if r.Skipped != "" {
		b.WriteString(s.muted.Render("skipped: " + r.Skipped))
		_, err := fmt.Fprintln(w, s.box.Render(b.String()))
		return err
	}

	for _, u := range r.Units {
		writeUnit(&b, s, u, "")
	}
	b.WriteString(fmt.Sprintf("%s %s\n", s.unit.Render("mod.rs"), s.kind.Render("[index]")))

	for _, d := range r.Decisions {
		line := fmt.Sprintf("%s: %s (%d functions in %d blocks)", d.Type, d.Strategy, d.Functions, d.Blocks)
		if len(d.Children) > 0 {
			line += ": " + strings.Join(d.Children, ", ")
		}
		b.WriteString(s.muted.Render(line))
		b.WriteString("\n")
	}
	for _, c := range r.Cycles {
		b.WriteString(s.warning.Render("cycle: " + strings.Join(c, " → ")))
		b.WriteString("\n")
	}
	for _, d := range r.Diagnostics {
		b.WriteString(s.warning.Render("warning: " + d))
		b.WriteString("\n")
	}

	_, err := fmt.Fprintln(w, s.box.Render(strings.TrimSuffix(b.String(), "\n")))
	return err
}

func writeUnit(b *strings.Builder, s styles, u Unit, indent string) {
	fmt.Fprintf(b, "%s%s %s %s\n", indent,
		s.unit.Render(u.Name+".rs"),
		s.kind.Render("["+u.Kind+"]"),
		s.muted.Render(fmt.Sprintf("%d lines", u.Lines)))
	if len(u.Types) > 0 {
		fmt.Fprintf(b, "%s  types: %s\n", indent, strings.Join(u.Types, ", "))
	}
	for _, g := range u.Groups {
		fmt.Fprintf(b, "%s  %s: %s\n", indent, g.Name, strings.Join(g.Functions, ", "))
	}
	for _, c := range u.Children {
		writeUnit(b, s, c, indent+"  ")
	}
}
