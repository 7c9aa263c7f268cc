//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"errors"
	"fmt"

	"github.com/markkurossi/lutmap/rtl"
	"github.com/sirupsen/logrus"
)

// Emitter rewrites a mapped module in place: it instantiates
// GTP_LUT6 and GTP_LUT6D cells for the mapping result and removes
// the covered combinational gates.
type Emitter struct {
	module *rtl.Module
	graph  *Graph
	tt     *TruthTable
	ct     *rtl.CellTypes
	log    logrus.FieldLogger
}

// Emit writes the mapping result into the module. Trivial cuts are
// skipped. A single-output node whose truth table cannot be computed
// is left unmapped, counted in the result stats, and its cone kept
// in gate form.
func (e *Emitter) Emit(res *Result) error {
	var unmapped []rtl.Signal
	var nLUT6, nLUT6D int

	dualOutputs := make(map[rtl.Signal]bool)
	for pair := range res.Double {
		dualOutputs[pair.Z] = true
		dualOutputs[pair.Z5] = true
	}
	used := e.usedOutputs(res)

	for _, output := range res.SingleOutputs() {
		cut := res.Single[output]
		if dualOutputs[output] {
			return invariantf("%s mapped as both single and dual output",
				output)
		}
		if cut.Trivial() {
			// The signal exists as a boundary. A combinational
			// driver behind a trivial cut means the node stayed
			// unmapped (e.g. inside a cycle): keep its gates.
			if e.graph.IsCombDriven(output) {
				unmapped = append(unmapped, output)
			}
			continue
		}
		if !used[output] {
			// Fused into a consumer's cut: no LUT materialises.
			continue
		}
		init, err := e.tt.Compute(output, cut.Inputs)
		if err != nil {
			if !errors.Is(err, ErrUnsupportedGate) {
				return err
			}
			e.log.Warnf("emit: leaving %s unmapped: %s", output, err)
			res.Stats.Unmapped++
			unmapped = append(unmapped, output)
			continue
		}

		cell, err := e.module.AddCell("GTP_LUT6",
			e.module.Uniquify("lut_"+output.Wire.Name))
		if err != nil {
			return err
		}
		cell.SetParam("INIT", rtl.Const{Bits: uint64(init), Width: 64})
		for i := 0; i < 6; i++ {
			port := fmt.Sprintf("I%d", i)
			if i < len(cut.Inputs) {
				cell.SetPort(port, rtl.SigSpec{cut.Inputs[i]})
			} else {
				cell.SetPort(port, rtl.SigSpec{rtl.Const0})
			}
		}
		cell.SetPort("Z", rtl.SigSpec{output})
		nLUT6++
	}

	for _, pair := range res.DoublePairs() {
		dc := res.Double[pair]
		if !used[dc.Z] && !used[dc.Z5] {
			continue
		}

		nonI5 := dc.Inputs.Without(dc.I5)
		zInputs := make([]rtl.Signal, 0, len(nonI5)+1)
		zInputs = append(zInputs, nonI5...)
		zInputs = append(zInputs, dc.I5)

		zInit, err := e.tt.Compute(dc.Z, zInputs)
		if err != nil {
			return fmt.Errorf("dual-output init for %s: %w", dc.Z, err)
		}

		// Lower half: F_Z5 and F_Z at I5=0; upper half: F_Z at
		// I5=1. A narrower Z duplicates its table into both halves.
		var init uint64
		if len(zInputs) == 6 {
			init = uint64(zInit)
		} else {
			lower := uint64(zInit) & 0xffffffff
			init = lower | lower<<32
		}

		cell, err := e.module.AddCell("GTP_LUT6D",
			e.module.Uniquify(fmt.Sprintf("lutd_%s_%s",
				dc.Z.Wire.Name, dc.Z5.Wire.Name)))
		if err != nil {
			return err
		}
		cell.SetParam("INIT", rtl.Const{Bits: init, Width: 64})
		for i := 0; i < 5; i++ {
			port := fmt.Sprintf("I%d", i)
			if i < len(nonI5) {
				cell.SetPort(port, rtl.SigSpec{nonI5[i]})
			} else {
				cell.SetPort(port, rtl.SigSpec{rtl.Const0})
			}
		}
		cell.SetPort("I5", rtl.SigSpec{dc.I5})
		cell.SetPort("Z", rtl.SigSpec{dc.Z})
		cell.SetPort("Z5", rtl.SigSpec{dc.Z5})
		nLUT6D++
	}

	e.removeCoveredGates(unmapped)

	e.log.Infof("emit: %d LUT6, %d LUT6D, %d unmapped",
		nLUT6, nLUT6D, res.Stats.Unmapped)
	return nil
}

// usedOutputs walks the mapping's reverse hypergraph from the
// primary outputs and returns the mapped signals that actually
// materialise. Nodes installed by the completion sweep but fused
// into a consumer's cut stay unused and are elided.
func (e *Emitter) usedOutputs(res *Result) map[rtl.Signal]bool {
	mapping := make(map[rtl.Signal]SingleCut)
	for sig, cut := range res.Single {
		mapping[sig] = cut
	}
	for pair, dc := range res.Double {
		mapping[pair.Z] = SingleCut{Inputs: dc.Inputs, Output: pair.Z}
		mapping[pair.Z5] = SingleCut{Inputs: dc.Inputs, Output: pair.Z5}
	}

	used := make(map[rtl.Signal]bool)
	var queue []rtl.Signal
	visit := func(sig rtl.Signal) {
		if sig.Valid() && !used[sig] {
			used[sig] = true
			queue = append(queue, sig)
		}
	}
	for _, po := range e.graph.PrimaryOutputs() {
		visit(po)
		if driver := e.graph.MappableDriver(po); driver != nil {
			visit(e.graph.CellOutput(driver))
		}
	}
	for len(queue) > 0 {
		sig := queue[0]
		queue = queue[1:]
		cut, ok := mapping[sig]
		if !ok {
			continue
		}
		for _, input := range cut.Inputs {
			visit(input)
		}
	}
	return used
}

// removeCoveredGates deletes the combinational gates replaced by
// LUTs, keeping the cones of unmapped outputs in gate form.
func (e *Emitter) removeCoveredGates(unmapped []rtl.Signal) {
	keep := make(map[*rtl.Cell]bool)
	for _, output := range unmapped {
		stack := []rtl.Signal{output}
		seen := make(map[rtl.Signal]bool)
		for len(stack) > 0 {
			sig := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[sig] {
				continue
			}
			seen[sig] = true

			driver := e.graph.Driver(sig)
			if driver == nil || !e.ct.IsComb(driver.Type) {
				continue
			}
			keep[driver] = true
			stack = append(stack, e.graph.CellInputs(driver)...)
		}
	}

	cells := make([]*rtl.Cell, len(e.module.Cells))
	copy(cells, e.module.Cells)

	var removed int
	for _, cell := range cells {
		if e.ct.IsComb(cell.Type) && !keep[cell] {
			e.module.RemoveCell(cell)
			removed++
		}
	}
	e.log.Debugf("emit: removed %d combinational gates", removed)
}
