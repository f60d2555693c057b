// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package scope

import "github.com/petar-djukic/rsplit/pkg/types"

// NeedsEscalation reports whether a field declared at current must be
// rewritten to reach target. Only fully private fields are raised; a field
// that already carries any modifier is left alone.
func NeedsEscalation(current, target types.Visibility) bool {
	return current == types.Private && target > types.Private
}

// Escalate returns a copy of fields with private fields raised to target.
func Escalate(fields []types.Field, target types.Visibility) []types.Field {
	out := make([]types.Field, len(fields))
	for i, f := range fields {
		if NeedsEscalation(f.Visibility, target) {
			f.Visibility = target
		}
		out[i] = f
	}
	return out
}
