//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"fmt"
	"math"
)

// Mode specifies the cut evaluation mode.
type Mode int

// Evaluation modes of the three-pass schedule.
const (
	ModeDepth Mode = iota
	ModeAreaFlow
	ModeExactArea
)

func (m Mode) String() string {
	switch m {
	case ModeDepth:
		return "depth"
	case ModeAreaFlow:
		return "area-flow"
	case ModeExactArea:
		return "exact-area"
	default:
		return fmt.Sprintf("{Mode %d}", int(m))
	}
}

// areaFlowEpsilon is the tie tolerance of area-flow comparison.
const areaFlowEpsilon = 1e-6

// Evaluator scores cuts under the current evaluation mode. It stores
// no derived data on cuts; every query goes through the current
// Context and Timing state, which is how mode switches take effect
// immediately.
type Evaluator struct {
	ctx    *Context
	timing *Timing
	mode   Mode
}

// NewEvaluator creates an evaluator in depth mode.
func NewEvaluator(ctx *Context, timing *Timing) *Evaluator {
	return &Evaluator{
		ctx:    ctx,
		timing: timing,
	}
}

// SetMode sets the evaluation mode. The mode must not change while a
// priority queue ordered by this evaluator is non-empty.
func (e *Evaluator) SetMode(mode Mode) {
	e.mode = mode
}

// Mode returns the current evaluation mode.
func (e *Evaluator) Mode() Mode {
	return e.mode
}

// Depth returns the cut's depth: maximum input depth plus one.
func (e *Evaluator) Depth(cut SingleCut) int {
	return e.timing.CutDepth(cut.Inputs)
}

// AreaFlow returns the cut's amortised area estimate: the input area
// sum plus one for the LUT itself, divided by the output's fan-out
// references.
func (e *Evaluator) AreaFlow(cut SingleCut) float64 {
	var area int
	for _, input := range cut.Inputs {
		area += e.ctx.ExactArea(input)
	}
	refs := e.ctx.FanoutRefs(cut.Output)
	if refs < 1 {
		refs = 1
	}
	return float64(area+1) / float64(refs)
}

// Area returns the exact area of the cut's output.
func (e *Evaluator) Area(cut SingleCut) int {
	return e.ctx.ExactArea(cut.Output)
}

// Better returns true if cut a is better than cut b under the
// current mode. Ties break deterministically on the secondary
// metric.
func (e *Evaluator) Better(a, b SingleCut) bool {
	switch e.mode {
	case ModeAreaFlow:
		afA := e.AreaFlow(a)
		afB := e.AreaFlow(b)
		if math.Abs(afA-afB) > areaFlowEpsilon {
			return afA < afB
		}
		return e.Depth(a) < e.Depth(b)

	case ModeExactArea:
		areaA := e.Area(a)
		areaB := e.Area(b)
		if areaA != areaB {
			return areaA < areaB
		}
		return e.Depth(a) < e.Depth(b)

	default:
		depthA := e.Depth(a)
		depthB := e.Depth(b)
		if depthA != depthB {
			return depthA < depthB
		}
		return e.AreaFlow(a) < e.AreaFlow(b)
	}
}
