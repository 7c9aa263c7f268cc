//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"math"

	"github.com/markkurossi/lutmap/rtl"
	"github.com/sirupsen/logrus"
)

// gateDelay is the unit delay of every gate and LUT.
const gateDelay = 1.0

// Timing computes forward arrival times and reverse required times
// under unit gate delay.
type Timing struct {
	graph *Graph
	log   logrus.FieldLogger

	arrival       map[rtl.Signal]float64
	required      map[rtl.Signal]float64
	criticalDepth int
}

// NewTiming creates a timing analyzer over the graph.
func NewTiming(graph *Graph, log logrus.FieldLogger) *Timing {
	return &Timing{
		graph: graph,
		log:   log,
	}
}

// ComputeArrivalTimes walks the topological order and assigns every
// driven signal the maximum input arrival time plus the gate delay.
// Primary inputs and constants arrive at time 0.
func (t *Timing) ComputeArrivalTimes() {
	t.arrival = make(map[rtl.Signal]float64)

	for _, bit := range t.graph.module.InputBits() {
		t.arrival[t.graph.sigmap.Map(bit)] = 0
	}
	t.arrival[rtl.Const0] = 0
	t.arrival[rtl.Const1] = 0

	t.criticalDepth = 0
	for _, sig := range t.graph.TopoOrder() {
		driver := t.graph.Driver(sig)
		if driver == nil {
			continue
		}
		var max float64
		for _, input := range t.graph.CellInputs(driver) {
			if at, ok := t.arrival[input]; ok && at > max {
				max = at
			}
		}
		at := max + gateDelay
		t.arrival[sig] = at

		if depth := int(math.Ceil(at)); depth > t.criticalDepth {
			t.criticalDepth = depth
		}
	}
	t.log.Debugf("timing: critical path depth %d", t.criticalDepth)
}

// ComputeRequiredTimes initializes every primary output to the target
// and propagates the minimum slack bound backwards.
func (t *Timing) ComputeRequiredTimes(target int) {
	t.required = make(map[rtl.Signal]float64)

	for _, po := range t.graph.PrimaryOutputs() {
		t.required[po] = float64(target)
	}

	for _, sig := range t.graph.ReverseTopoOrder() {
		driver := t.graph.Driver(sig)
		if driver == nil {
			continue
		}
		rt, ok := t.required[sig]
		if !ok {
			// Not in the cone of any primary output.
			continue
		}
		for _, input := range t.graph.CellInputs(driver) {
			inputRT := rt - gateDelay
			if prev, ok := t.required[input]; !ok || inputRT < prev {
				t.required[input] = inputRT
			}
		}
	}
}

// ArrivalTime returns the signal's arrival time, 0 if unknown.
func (t *Timing) ArrivalTime(sig rtl.Signal) float64 {
	return t.arrival[sig]
}

// RequiredTime returns the signal's required time, defaulting to the
// critical depth for signals outside any primary output cone.
func (t *Timing) RequiredTime(sig rtl.Signal) float64 {
	if rt, ok := t.required[sig]; ok {
		return rt
	}
	return float64(t.criticalDepth)
}

// Depth returns the signal's integer depth.
func (t *Timing) Depth(sig rtl.Signal) int {
	return int(math.Ceil(t.arrival[sig]))
}

// CutDepth returns the depth of a LUT implementing the cut: the
// maximum input depth plus one.
func (t *Timing) CutDepth(inputs Cut) int {
	var max int
	for _, input := range inputs {
		if d := t.Depth(input); d > max {
			max = d
		}
	}
	return max + 1
}

// CriticalDepth returns the maximum depth over all signals.
func (t *Timing) CriticalDepth() int {
	return t.criticalDepth
}

// ArrivalTimes exposes the full arrival-time map for downstream
// timing-aware passes. The map is owned by the analyzer and must not
// be mutated.
func (t *Timing) ArrivalTimes() map[rtl.Signal]float64 {
	return t.arrival
}
