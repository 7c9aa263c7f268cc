//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"container/heap"

	"github.com/markkurossi/lutmap/rtl"
	"github.com/sirupsen/logrus"
)

// cutQueue is a priority queue of single cuts ordered by the
// Evaluator's current comparator. The queue must be drained before
// the evaluation mode changes.
type cutQueue struct {
	cuts []SingleCut
	eval *Evaluator
}

func (q *cutQueue) Len() int {
	return len(q.cuts)
}

func (q *cutQueue) Less(i, j int) bool {
	a, b := q.cuts[i], q.cuts[j]
	if q.eval.Better(a, b) {
		return true
	}
	if q.eval.Better(b, a) {
		return false
	}
	// Fully tied scores resolve in the static canonical order so
	// the processing sequence is reproducible.
	return a.Compare(b) < 0
}

func (q *cutQueue) Swap(i, j int) {
	q.cuts[i], q.cuts[j] = q.cuts[j], q.cuts[i]
}

func (q *cutQueue) Push(x interface{}) {
	q.cuts = append(q.cuts, x.(SingleCut))
}

func (q *cutQueue) Pop() interface{} {
	old := q.cuts
	n := len(old)
	item := old[n-1]
	q.cuts = old[:n-1]
	return item
}

// Merger runs the global mapping state machine: it processes nodes
// in priority order, decides single- versus dual-output per node,
// and emits the mapping result.
type Merger struct {
	graph  *Graph
	cuts   *CutManager
	eval   *Evaluator
	timing *Timing
	tt     *TruthTable
	ctx    *Context
	cfg    *Config
	log    logrus.FieldLogger

	single  map[rtl.Signal]SingleCut
	double  map[OutputPair]DoubleCut
	dualOut map[rtl.Signal]bool

	stage1Considered int
	stage2Considered int
}

// NewMerger creates a merger over the mapping components.
func NewMerger(graph *Graph, cuts *CutManager, eval *Evaluator,
	timing *Timing, tt *TruthTable, ctx *Context, cfg *Config,
	log logrus.FieldLogger) *Merger {

	return &Merger{
		graph:  graph,
		cuts:   cuts,
		eval:   eval,
		timing: timing,
		tt:     tt,
		ctx:    ctx,
		cfg:    cfg,
		log:    log,
	}
}

// SingleMappings returns the single-output mapping.
func (mg *Merger) SingleMappings() map[rtl.Signal]SingleCut {
	return mg.single
}

// DoubleMappings returns the dual-output mapping.
func (mg *Merger) DoubleMappings() map[OutputPair]DoubleCut {
	return mg.double
}

// Run performs one global mapping pass. Every combinational gate
// output ends up as a key of the single mapping, as an output of a
// dual mapping, or unreachable from any primary output.
func (mg *Merger) Run() {
	mg.single = make(map[rtl.Signal]SingleCut)
	mg.double = make(map[OutputPair]DoubleCut)
	mg.dualOut = make(map[rtl.Signal]bool)

	combOutputs := mg.graph.CombOutputs()
	visited := make(map[rtl.Signal]bool)
	q := &cutQueue{
		eval: mg.eval,
	}

	// Seed from primary-output drivers first. Designs whose outputs
	// feed sequential elements directly would leave most of the
	// logic unreached, so every remaining combinational output is
	// queued unconditionally afterwards.
	for _, po := range mg.graph.PrimaryOutputs() {
		driver := mg.graph.MappableDriver(po)
		if driver == nil {
			continue
		}
		out := mg.graph.CellOutput(driver)
		if out.Valid() && !visited[out] {
			visited[out] = true
			heap.Push(q, mg.cuts.BestCut(out))
		}
	}
	for _, out := range combOutputs {
		if !visited[out] {
			visited[out] = true
			heap.Push(q, mg.cuts.BestCut(out))
		}
	}
	mg.log.Debugf("merger: queue initialized with %d nodes", q.Len())

	var processed int
	for q.Len() > 0 {
		nowCut := heap.Pop(q).(SingleCut)
		now := nowCut.Output
		if mg.dualOut[now] {
			// Already consumed as the Z5 of a dual-output LUT.
			continue
		}
		processed++

		var expand Cut
		if mg.cfg.EnableDualOutput {
			if dc, ok := mg.findBestDoubleCut(now, q); ok {
				mg.double[OutputPair{Z: now, Z5: dc.Z5}] = dc
				mg.dualOut[now] = true
				mg.dualOut[dc.Z5] = true
				visited[dc.Z5] = true
				expand = dc.Inputs
			}
		}
		if expand == nil {
			mg.single[now] = nowCut
			expand = nowCut.Inputs
		}

		for _, input := range expand {
			if visited[input] {
				continue
			}
			driver := mg.graph.Driver(input)
			if driver == nil || !mg.graph.ct.IsComb(driver.Type) {
				// Primary input or boundary: traversal stops.
				continue
			}
			if mg.graph.CellOutput(driver) != input {
				continue
			}
			visited[input] = true
			heap.Push(q, mg.cuts.BestCut(input))
		}
	}

	// Completion sweep: nodes outside every traversal path still
	// need a mapping.
	var swept int
	for _, out := range combOutputs {
		if _, ok := mg.single[out]; ok {
			continue
		}
		if mg.dualOut[out] {
			continue
		}
		mg.single[out] = mg.cuts.BestCut(out)
		swept++
	}

	mg.log.Debugf("merger: processed %d nodes, swept %d, "+
		"%d single, %d dual",
		processed, swept, len(mg.single), len(mg.double))
}
