// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"errors"
	"fmt"
)

// Non-fatal conditions recorded while planning a split.
var (
	ErrUnresolvedImplTarget = errors.New("impl target type not defined")
	ErrEmptyGroupResult     = errors.New("clustering produced no groups")
	ErrNameCollision        = errors.New("module name collision")
	ErrDuplicateType        = errors.New("type defined more than once")
)

// Diagnostic records a recoverable condition and the fallback taken.
type Diagnostic struct {
	Err     error  // one of the sentinel errors above
	Subject string // type or module name
	Detail  string
}

func (d Diagnostic) Error() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s: %v", d.Subject, d.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", d.Subject, d.Err, d.Detail)
}

func (d Diagnostic) Unwrap() error { return d.Err }
