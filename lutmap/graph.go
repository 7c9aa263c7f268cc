//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"github.com/markkurossi/lutmap/rtl"
	"github.com/sirupsen/logrus"
)

// Graph is the combinational-mapping view of a module: driver and
// reader lookup for every known cell, and a cached topological order
// over the outputs of combinational gates.
type Graph struct {
	module *rtl.Module
	sigmap *rtl.SigMap
	ct     *rtl.CellTypes
	log    logrus.FieldLogger

	drivers map[rtl.Signal]*rtl.Cell
	readers map[rtl.Signal][]*rtl.Cell

	topoComputed bool
	topo         []rtl.Signal
	reverse      []rtl.Signal
}

// NewGraph builds the graph view of the module. Port connections of
// every known cell are recorded, not just combinational ones, so
// boundary-driven signals appear in the driver map and are correctly
// identified as mapping roots.
func NewGraph(m *rtl.Module, sm *rtl.SigMap, ct *rtl.CellTypes,
	log logrus.FieldLogger) *Graph {

	g := &Graph{
		module:  m,
		sigmap:  sm,
		ct:      ct,
		log:     log,
		drivers: make(map[rtl.Signal]*rtl.Cell),
		readers: make(map[rtl.Signal][]*rtl.Cell),
	}

	var skipped int
	for _, cell := range m.Cells {
		if !ct.Known(cell.Type) {
			skipped++
			continue
		}
		for _, port := range cell.PortNames() {
			switch {
			case ct.IsOutput(cell.Type, port):
				for _, bit := range sm.MapSpec(cell.Conns[port]) {
					if bit.Valid() && !bit.IsConst() {
						g.drivers[bit] = cell
					}
				}

			case ct.IsInput(cell.Type, port):
				for _, bit := range sm.MapSpec(cell.Conns[port]) {
					if bit.Valid() && !bit.IsConst() {
						g.readers[bit] = append(g.readers[bit], cell)
					}
				}
			}
		}
	}
	if skipped > 0 {
		log.Warnf("graph: skipped %d cells of unknown type", skipped)
	}
	return g
}

// Driver returns the cell driving the signal, or nil for primary
// inputs and constants.
func (g *Graph) Driver(sig rtl.Signal) *rtl.Cell {
	return g.drivers[sig]
}

// Readers returns the cells reading the signal.
func (g *Graph) Readers(sig rtl.Signal) []*rtl.Cell {
	return g.readers[sig]
}

// CellInputs returns the cell's canonicalized input bits. Constant
// bits are not graph edges and are omitted.
func (g *Graph) CellInputs(cell *rtl.Cell) []rtl.Signal {
	var inputs []rtl.Signal
	for _, port := range cell.PortNames() {
		if !g.ct.IsInput(cell.Type, port) {
			continue
		}
		for _, bit := range g.sigmap.MapSpec(cell.Conns[port]) {
			if bit.Valid() && !bit.IsConst() {
				inputs = append(inputs, bit)
			}
		}
	}
	return inputs
}

// CellOutput returns the cell's first output bit, canonicalized.
// Mapped gate primitives are single-output.
func (g *Graph) CellOutput(cell *rtl.Cell) rtl.Signal {
	for _, port := range cell.PortNames() {
		if !g.ct.IsOutput(cell.Type, port) {
			continue
		}
		for _, bit := range g.sigmap.MapSpec(cell.Conns[port]) {
			if bit.Valid() && !bit.IsConst() {
				return bit
			}
		}
	}
	return rtl.Signal{}
}

// IsCombDriven tests if the signal is driven by a combinational gate.
func (g *Graph) IsCombDriven(sig rtl.Signal) bool {
	driver := g.drivers[sig]
	return driver != nil && g.ct.IsComb(driver.Type)
}

// CombOutputs returns the outputs of all combinational gates in the
// canonical signal order.
func (g *Graph) CombOutputs() []rtl.Signal {
	var result []rtl.Signal
	seen := make(map[rtl.Signal]bool)
	for _, cell := range g.module.Cells {
		if !g.ct.IsComb(cell.Type) {
			continue
		}
		out := g.CellOutput(cell)
		if out.Valid() && !seen[out] {
			seen[out] = true
			result = append(result, out)
		}
	}
	rtl.SortSignals(result)
	return result
}

// PrimaryOutputs returns the module's canonicalized output port bits
// in the canonical order.
func (g *Graph) PrimaryOutputs() []rtl.Signal {
	var result []rtl.Signal
	seen := make(map[rtl.Signal]bool)
	for _, bit := range g.module.OutputBits() {
		mapped := g.sigmap.Map(bit)
		if !seen[mapped] {
			seen[mapped] = true
			result = append(result, mapped)
		}
	}
	rtl.SortSignals(result)
	return result
}

// mappableDriverLimit bounds the transparent-buffer walk.
const mappableDriverLimit = 100

// MappableDriver walks transparently through single-input buffers
// and inverters to locate the nearest combinational driver of the
// signal. The walk is bounded to defend against pathological chains.
func (g *Graph) MappableDriver(sig rtl.Signal) *rtl.Cell {
	current := sig
	for i := 0; i < mappableDriverLimit; i++ {
		driver := g.drivers[current]
		if driver == nil {
			return nil
		}
		if g.ct.IsComb(driver.Type) {
			return driver
		}
		if !g.ct.IsTransparent(driver.Type) {
			// Sequential element, memory, or multi-input
			// primitive: a traversal boundary.
			return nil
		}
		inputs := g.CellInputs(driver)
		if len(inputs) != 1 {
			return nil
		}
		current = inputs[0]
	}
	g.log.Warnf("graph: driver walk exceeded %d steps at %s",
		mappableDriverLimit, sig)
	return nil
}

// TopoOrder returns the topological order of combinational gate
// outputs, computed once and cached.
func (g *Graph) TopoOrder() []rtl.Signal {
	if !g.topoComputed {
		g.computeTopoOrder()
	}
	return g.topo
}

// ReverseTopoOrder returns the reverse of TopoOrder.
func (g *Graph) ReverseTopoOrder() []rtl.Signal {
	if !g.topoComputed {
		g.computeTopoOrder()
	}
	if len(g.reverse) == 0 && len(g.topo) > 0 {
		g.reverse = make([]rtl.Signal, len(g.topo))
		for i, s := range g.topo {
			g.reverse[len(g.topo)-1-i] = s
		}
	}
	return g.reverse
}

// computeTopoOrder runs Kahn's algorithm over combinational gate
// outputs. Edges from non-combinational drivers contribute zero to
// the in-degree, so boundary-driven signals behave like primary
// inputs.
func (g *Graph) computeTopoOrder() {
	g.topoComputed = true

	inDegree := make(map[rtl.Signal]int)
	var queue []rtl.Signal

	combOutputs := g.CombOutputs()
	for _, out := range combOutputs {
		degree := 0
		for _, input := range g.CellInputs(g.drivers[out]) {
			if g.IsCombDriven(input) {
				degree++
			}
		}
		inDegree[out] = degree
		if degree == 0 {
			queue = append(queue, out)
		}
	}

	for len(queue) > 0 {
		out := queue[0]
		queue = queue[1:]
		g.topo = append(g.topo, out)

		for _, reader := range g.readers[out] {
			if !g.ct.IsComb(reader.Type) {
				continue
			}
			next := g.CellOutput(reader)
			if degree, ok := inDegree[next]; ok {
				inDegree[next] = degree - 1
				if degree == 1 {
					queue = append(queue, next)
				}
			}
		}
	}

	if len(g.topo) != len(combOutputs) {
		g.log.Warnf("graph: combinational loop detected: "+
			"%d of %d gate outputs ordered",
			len(g.topo), len(combOutputs))
	}
}
