// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package planner

import (
	"fmt"
	"strings"
	"unicode"
)

// Naming configures generated unit names.
type Naming struct {
	TypeSuffix    string // parent unit of a Submodule placement
	ImplSuffix    string // child unit of a block that produced a single group
	TraitsSuffix  string // trait implementation unit
	WrapperSuffix string // Wrapper placement unit
	SnakeCase     bool   // convert type names to snake_case instead of lowercasing
}

// DefaultNaming returns the standard suffixes with snake_case conversion.
func DefaultNaming() Naming {
	return Naming{
		TypeSuffix:    "_type",
		ImplSuffix:    "_impl",
		TraitsSuffix:  "_traits",
		WrapperSuffix: "_module",
		SnakeCase:     true,
	}
}

func (n Naming) withDefaults() Naming {
	d := DefaultNaming()
	if n.TypeSuffix == "" {
		n.TypeSuffix = d.TypeSuffix
	}
	if n.ImplSuffix == "" {
		n.ImplSuffix = d.ImplSuffix
	}
	if n.TraitsSuffix == "" {
		n.TraitsSuffix = d.TraitsSuffix
	}
	if n.WrapperSuffix == "" {
		n.WrapperSuffix = d.WrapperSuffix
	}
	return n
}

// Base converts a type name to the stem used for its unit names.
func (n Naming) Base(typeName string) string {
	if n.SnakeCase {
		return SnakeCase(typeName)
	}
	return strings.ToLower(typeName)
}

// SnakeCase converts an UpperCamelCase identifier to snake_case. Acronym
// runs stay together: HTTPServer becomes http_server.
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// namer hands out unique unit names. A repeated request for "foo" yields
// "foo_1", then "foo_2".
type namer struct {
	used  map[string]bool
	count map[string]int
}

func newNamer(reserved ...string) *namer {
	n := &namer{used: make(map[string]bool), count: make(map[string]int)}
	for _, r := range reserved {
		n.used[r] = true
	}
	return n
}

// claim returns name, or name with the next free numeric suffix. The second
// result reports whether a suffix was needed.
func (n *namer) claim(name string) (string, bool) {
	if !n.used[name] {
		n.used[name] = true
		return name, false
	}
	for {
		n.count[name]++
		candidate := fmt.Sprintf("%s_%d", name, n.count[name])
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate, true
		}
	}
}
