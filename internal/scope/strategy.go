// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scope decides where the split groups of a type are placed and how
// far the type's fields must be opened up for the chosen placement.
package scope

import (
	"fmt"

	"github.com/petar-djukic/rsplit/pkg/types"
)

// InlineThreshold is the function count below which splitting is skipped.
const InlineThreshold = 10

// Strategy is the placement chosen for a type's split groups.
type Strategy int

const (
	Inline    Strategy = iota // blocks stay with the type, unsplit
	Wrapper                   // one combined unit holds the type and all groups
	Submodule                 // groups live in child units of the type's unit
)

// String returns the human-readable name of the strategy.
func (s Strategy) String() string {
	switch s {
	case Inline:
		return "inline"
	case Wrapper:
		return "wrapper"
	case Submodule:
		return "submodule"
	default:
		return "unknown"
	}
}

// Decision is the placement for one type.
type Decision struct {
	Strategy   Strategy
	Visibility types.Visibility // level private fields are raised to
	Functions  int              // N: functions across all pending groups
	Blocks     int              // B: oversized blocks
	Children   []string         // child unit names, Submodule only
}

// Decide chooses the placement for rec from its pending splits.
func Decide(rec *types.TypeRecord) Decision {
	return DecideCounts(rec.PendingFunctions(), len(rec.Pending))
}

// DecideCounts chooses the placement from the function count n and the
// number of oversized blocks b.
func DecideCounts(n, b int) Decision {
	d := Decision{Functions: n, Blocks: b, Visibility: types.Private}
	switch {
	case n < InlineThreshold:
		d.Strategy = Inline
	case b == 1:
		d.Strategy = Wrapper
	default:
		d.Strategy = Submodule
		d.Visibility = types.ParentVisible
	}
	return d
}

// WithChildren returns d with the child unit names attached. The names only
// apply to the Submodule strategy.
func (d Decision) WithChildren(names []string) Decision {
	if d.Strategy != Submodule {
		return d
	}
	d.Children = append([]string(nil), names...)
	return d
}

// IncludeDirective returns the directive that pulls a child unit's file into
// its parent module.
func IncludeDirective(child string) string {
	return fmt.Sprintf("#[path = \"%s.rs\"]\nmod %s;", child, child)
}
