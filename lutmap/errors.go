//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"errors"
	"fmt"
)

// ErrUnsupportedGate is returned when truth-table simulation reaches
// a cell it cannot evaluate. The enclosing operation treats the cut
// as unusable.
var ErrUnsupportedGate = errors.New("unsupported gate in cone")

// InvariantError reports a programmer error: the mapping run is
// aborted and the condition surfaced to the caller.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Reason
}

func invariantf(format string, a ...interface{}) error {
	return &InvariantError{
		Reason: fmt.Sprintf(format, a...),
	}
}
