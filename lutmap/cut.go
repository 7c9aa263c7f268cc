//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package lutmap implements a priority-cut technology mapper that
// covers a gate-level netlist with 6-input lookup tables and fuses
// suitable pairs into dual-output LUTs.
package lutmap

import (
	"strings"

	"github.com/markkurossi/lutmap/rtl"
)

// Cut is an unordered set of signals, stored in the canonical sorted
// order. A cut for signal s is a subset of the transitive fan-in of s
// such that every path from a primary input to s crosses the set.
type Cut []rtl.Signal

// NewCut creates a cut from the argument signals.
func NewCut(sigs ...rtl.Signal) Cut {
	c := make(Cut, len(sigs))
	copy(c, sigs)
	rtl.SortSignals(c)
	return dedup(c)
}

func dedup(c Cut) Cut {
	result := c[:0]
	for i, s := range c {
		if i == 0 || s != c[i-1] {
			result = append(result, s)
		}
	}
	return result
}

// Contains tests if the cut contains the signal.
func (c Cut) Contains(sig rtl.Signal) bool {
	for _, s := range c {
		if s == sig {
			return true
		}
	}
	return false
}

// Union returns the set union of the cuts.
func (c Cut) Union(o Cut) Cut {
	result := make(Cut, 0, len(c)+len(o))
	i, j := 0, 0
	for i < len(c) && j < len(o) {
		cmp := c[i].Compare(o[j])
		switch {
		case cmp < 0:
			result = append(result, c[i])
			i++
		case cmp > 0:
			result = append(result, o[j])
			j++
		default:
			result = append(result, c[i])
			i++
			j++
		}
	}
	result = append(result, c[i:]...)
	result = append(result, o[j:]...)
	return result
}

// Without returns a copy of the cut with the signal removed.
func (c Cut) Without(sig rtl.Signal) Cut {
	result := make(Cut, 0, len(c))
	for _, s := range c {
		if s != sig {
			result = append(result, s)
		}
	}
	return result
}

// Equal tests if the cuts contain the same signals.
func (c Cut) Equal(o Cut) bool {
	if len(c) != len(o) {
		return false
	}
	for i, s := range c {
		if s != o[i] {
			return false
		}
	}
	return true
}

// Key returns the canonical string form of the cut, used for
// deduplication during enumeration.
func (c Cut) Key() string {
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\x00")
}

func (c Cut) String() string {
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = s.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// SingleCut is a cut together with its output signal. It never
// stores derived data; depth and area are always recomputed through
// the current Evaluator state.
type SingleCut struct {
	Inputs Cut
	Output rtl.Signal
}

// Trivial tests if the cut is the singleton {output}, meaning the
// signal exists as a boundary and must not materialise a LUT.
func (sc SingleCut) Trivial() bool {
	return len(sc.Inputs) == 1 && sc.Inputs[0] == sc.Output
}

// Compare defines a static total order over cuts by (output, size,
// sorted inputs). It is used for deduplication and deterministic
// pre-ordering only and has no semantic content; priority ordering
// always goes through the Evaluator.
func (sc SingleCut) Compare(o SingleCut) int {
	if cmp := sc.Output.Compare(o.Output); cmp != 0 {
		return cmp
	}
	if len(sc.Inputs) != len(o.Inputs) {
		return len(sc.Inputs) - len(o.Inputs)
	}
	for i, s := range sc.Inputs {
		if cmp := s.Compare(o.Inputs[i]); cmp != 0 {
			return cmp
		}
	}
	return 0
}

func (sc SingleCut) String() string {
	return sc.Output.String() + "=" + sc.Inputs.String()
}

// OutputPair keys a dual-output mapping by its two output signals.
type OutputPair struct {
	Z  rtl.Signal
	Z5 rtl.Signal
}

// DoubleCut is a pair of cuts fused into one dual-output LUT: the
// shared input set of size at most 6 contains the selector I5, and
// the 5-input projection of Z's function at I5=0 equals Z5's
// function.
type DoubleCut struct {
	Inputs Cut
	Z      rtl.Signal
	Z5     rtl.Signal
	I5     rtl.Signal
}

// Valid tests if the double cut names both outputs.
func (dc DoubleCut) Valid() bool {
	return dc.Z.Valid() && dc.Z5.Valid()
}

func (dc DoubleCut) String() string {
	return "Z=" + dc.Z.String() + ",Z5=" + dc.Z5.String() +
		",I5=" + dc.I5.String() + "," + dc.Inputs.String()
}
