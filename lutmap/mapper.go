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

// Mapper drives the three-pass mapping schedule over one module:
// depth, area-flow until convergence, and exact-area. It owns all
// mapping components and is the only one that sees them all.
type Mapper struct {
	cfg    *Config
	module *rtl.Module
	sigmap *rtl.SigMap
	ct     *rtl.CellTypes
	log    logrus.FieldLogger

	graph  *Graph
	timing *Timing
	ctx    *Context
	tt     *TruthTable
	eval   *Evaluator
	cuts   *CutManager
	merger *Merger
}

// NewMapper creates a mapper for the module. The sigmap handle is
// the caller's signal-equivalence oracle.
func NewMapper(module *rtl.Module, sigmap *rtl.SigMap, cfg *Config) (
	*Mapper, error) {

	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.logger()

	m := &Mapper{
		cfg:    cfg,
		module: module,
		sigmap: sigmap,
		ct:     rtl.NewCellTypes(),
		log:    log,
	}
	m.graph = NewGraph(module, sigmap, m.ct, log)
	m.timing = NewTiming(m.graph, log)
	m.timing.ComputeArrivalTimes()
	m.timing.ComputeRequiredTimes(m.timing.CriticalDepth())

	m.ctx = NewContext(m.graph)
	m.tt = NewTruthTable(m.graph, m.ct)
	m.eval = NewEvaluator(m.ctx, m.timing)
	m.cuts = NewCutManager(m.graph, m.eval, log)
	m.merger = NewMerger(m.graph, m.cuts, m.eval, m.timing, m.tt,
		m.ctx, m.cfg, log)

	return m, nil
}

// Map maps the module into LUTs and returns the mapping result.
func Map(module *rtl.Module, sigmap *rtl.SigMap, cfg *Config) (
	*Result, error) {

	m, err := NewMapper(module, sigmap, cfg)
	if err != nil {
		return nil, err
	}
	return m.Run()
}

// Run executes the three-pass schedule and returns the result.
func (m *Mapper) Run() (*Result, error) {
	// Depth pass.
	m.log.Infof("mapping %s: depth pass", m.module.Name)
	m.eval.SetMode(ModeDepth)
	m.cuts.Compute(m.cfg.MaxCutSize, m.cfg.MaxCuts)
	m.merger.Run()

	// Area-flow passes, iterated to convergence.
	m.eval.SetMode(ModeAreaFlow)
	prevArea := math.MaxInt32
	for iter := 0; iter < m.cfg.AreaFlowMaxIterations; iter++ {
		m.ctx.StartNewIteration()
		merged, err := m.mergedMapping()
		if err != nil {
			return nil, err
		}
		m.ctx.RecoverReferences(merged)

		m.cuts.Compute(m.cfg.MaxCutSize, m.cfg.MaxCuts)
		m.merger.Run()

		area := len(m.merger.single) + len(m.merger.double)
		m.log.Infof("mapping %s: area-flow iteration %d: %d LUTs",
			m.module.Name, iter+1, area)

		if abs(area-prevArea) <= 1 {
			break
		}
		prevArea = area
	}

	// Exact-area pass.
	m.log.Infof("mapping %s: exact-area pass", m.module.Name)
	m.eval.SetMode(ModeExactArea)
	m.ctx.StartNewIteration()
	merged, err := m.mergedMapping()
	if err != nil {
		return nil, err
	}
	m.ctx.RecoverReferences(merged)
	m.cuts.Compute(m.cfg.MaxCutSize, m.cfg.MaxCuts)
	m.merger.Run()

	m.log.Debugf("mapping %s: exact-area cache hit rate %.2f%%",
		m.module.Name, m.ctx.CacheHitRate()*100)

	return m.result(), nil
}

// mergedMapping folds the dual-output mappings into the single view
// consumed by reference recovery: both outputs of a dual LUT carry
// the shared input set. A signal appearing in both worlds is a
// precondition violation.
func (m *Mapper) mergedMapping() (map[rtl.Signal]SingleCut, error) {
	merged := make(map[rtl.Signal]SingleCut)
	for sig, cut := range m.merger.single {
		merged[sig] = cut
	}
	for pair, dc := range m.merger.double {
		for _, out := range []rtl.Signal{pair.Z, pair.Z5} {
			if _, ok := merged[out]; ok {
				return nil, invariantf(
					"%s mapped as both single and dual output", out)
			}
			merged[out] = SingleCut{
				Inputs: dc.Inputs,
				Output: out,
			}
		}
	}
	return merged, nil
}

func (m *Mapper) result() *Result {
	result := &Result{
		Single: make(map[rtl.Signal]SingleCut),
		Double: make(map[OutputPair]DoubleCut),
		Depths: make(map[rtl.Signal]float64),
	}
	for sig, cut := range m.merger.single {
		result.Single[sig] = cut
	}
	for pair, dc := range m.merger.double {
		result.Double[pair] = dc
	}
	for sig, at := range m.timing.ArrivalTimes() {
		result.Depths[sig] = at
	}

	var flowSum float64
	var flowCount int
	for _, cut := range result.Single {
		if cut.Trivial() {
			continue
		}
		flowSum += m.eval.AreaFlow(cut)
		flowCount++
	}
	result.Stats = Stats{
		NSingle:              len(result.Single),
		NDual:                len(result.Double),
		Depth:                m.timing.CriticalDepth(),
		DualStage1Considered: m.merger.stage1Considered,
		DualStage2Considered: m.merger.stage2Considered,
	}
	if flowCount > 0 {
		result.Stats.AvgAreaFlow = flowSum / float64(flowCount)
	}
	return result
}

// Emitter returns a netlist emitter wired to this mapper's module
// and truth-table computer.
func (m *Mapper) Emitter() *Emitter {
	return &Emitter{
		module: m.module,
		graph:  m.graph,
		tt:     m.tt,
		ct:     m.ct,
		log:    m.log,
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
