// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package registry

import (
	"strings"

	"github.com/petar-djukic/rsplit/pkg/types"
)

// EstimateMode selects how item sizes are approximated.
type EstimateMode string

const (
	// EstimateCompact counts lines of the compact token form and scales them.
	EstimateCompact EstimateMode = "compact"
	// EstimateSource counts non-blank lines of the original text.
	EstimateSource EstimateMode = "source"
)

// DefaultMultiplier scales compact line counts to approximate formatted size.
const DefaultMultiplier = 15

// Estimator approximates the emitted size of declarations in lines.
type Estimator struct {
	Mode       EstimateMode
	Multiplier int
}

// DefaultEstimator returns the compact estimator with the default multiplier.
func DefaultEstimator() Estimator {
	return Estimator{Mode: EstimateCompact, Multiplier: DefaultMultiplier}
}

// Function returns the estimated size of one associated function.
func (e Estimator) Function(fn *types.Function) int {
	return e.estimate(fn.Compact, fn.Text)
}

// Item returns the estimated size of a whole declaration.
func (e Estimator) Item(it *types.Item) int {
	if it.Kind == types.AssociatedBlock || it.Kind == types.InterfaceImpl {
		total := 0
		for _, fn := range it.Functions {
			total += e.Function(fn)
		}
		for _, m := range it.Members {
			total += e.estimate(compactOf(m), m)
		}
		if total == 0 {
			return e.estimate("", it.Text)
		}
		return total
	}
	return e.estimate(compactOf(it.Text), it.Text)
}

func (e Estimator) estimate(compact, text string) int {
	if e.Mode == EstimateSource {
		n := 0
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
		if n < 1 {
			n = 1
		}
		return n
	}
	mult := e.Multiplier
	if mult <= 0 {
		mult = DefaultMultiplier
	}
	return CompactLines(compact) * mult
}

// CompactLines returns the line count of a compact form, at least 1.
func CompactLines(compact string) int {
	return strings.Count(compact, "\n") + 1
}

// compactOf approximates the compact form of raw text: line comments are
// dropped and whitespace runs collapse to one space.
func compactOf(text string) string {
	return strings.Join(strings.Fields(stripLineComments(text)), " ")
}

func stripLineComments(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "//") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}
