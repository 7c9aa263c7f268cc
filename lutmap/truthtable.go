//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"fmt"

	"github.com/markkurossi/lutmap/rtl"
)

// Init is a truth table of up to 6 inputs packed into one word: bit
// Σvᵢ2ⁱ holds the function value for the input assignment v.
type Init uint64

// varMasks[i] assigns input i its value in every truth-table row at
// once, so a cone evaluates over all 2ⁿ assignments in one pass.
var varMasks = [6]uint64{
	0xaaaaaaaaaaaaaaaa,
	0xcccccccccccccccc,
	0xf0f0f0f0f0f0f0f0,
	0xff00ff00ff00ff00,
	0xffff0000ffff0000,
	0xffffffff00000000,
}

func tableMask(n int) uint64 {
	if n >= 6 {
		return ^uint64(0)
	}
	return (uint64(1) << (1 << uint(n))) - 1
}

// TruthTable evaluates logic cones into truth tables and provides
// the independence and projection operations used by the dual-output
// verifier.
type TruthTable struct {
	graph *Graph
	ct    *rtl.CellTypes
}

// NewTruthTable creates a truth-table computer over the graph.
func NewTruthTable(graph *Graph, ct *rtl.CellTypes) *TruthTable {
	return &TruthTable{
		graph: graph,
		ct:    ct,
	}
}

// Compute simulates the cone between the ordered inputs and the
// output signal and returns its 2ⁿ-bit function. The inputs act as
// evaluation boundaries: the simulation stops at them and never
// walks past. Reaching a cell the simulator cannot evaluate fails
// with ErrUnsupportedGate.
func (t *TruthTable) Compute(output rtl.Signal, inputs []rtl.Signal) (
	Init, error) {

	n := len(inputs)
	if n > 6 {
		return 0, invariantf("truth table over %d inputs", n)
	}
	values := make(map[rtl.Signal]uint64)
	for i, input := range inputs {
		values[input] = varMasks[i]
	}
	busy := make(map[rtl.Signal]bool)

	word, err := t.eval(output, values, busy)
	if err != nil {
		return 0, err
	}
	return Init(word & tableMask(n)), nil
}

func (t *TruthTable) eval(sig rtl.Signal, values map[rtl.Signal]uint64,
	busy map[rtl.Signal]bool) (uint64, error) {

	if word, ok := values[sig]; ok {
		return word, nil
	}
	if sig.IsConst() {
		if sig.ConstValue() {
			return ^uint64(0), nil
		}
		return 0, nil
	}
	driver := t.graph.Driver(sig)
	if driver == nil || !t.ct.IsComb(driver.Type) {
		return 0, fmt.Errorf("%w: %s has no evaluable driver",
			ErrUnsupportedGate, sig)
	}
	if busy[sig] {
		return 0, fmt.Errorf("%w: combinational cycle at %s",
			ErrUnsupportedGate, sig)
	}
	busy[sig] = true
	defer delete(busy, sig)

	args := make(map[string]uint64)
	for _, port := range t.ct.InputPorts(driver.Type) {
		spec := driver.Port(port)
		if len(spec) != 1 {
			return 0, fmt.Errorf("%w: %s port %s of %s",
				ErrUnsupportedGate, driver.Type, port, sig)
		}
		word, err := t.eval(t.graph.sigmap.Map(spec[0]), values, busy)
		if err != nil {
			return 0, err
		}
		args[port] = word
	}

	word, ok := t.ct.Eval(driver.Type, args)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedGate, driver.Type)
	}
	values[sig] = word
	return word, nil
}

// IsIndependent tests if the n-input truth table does not depend on
// any of the don't-care input positions: flipping such an input must
// never change the function value.
func IsIndependent(init Init, n int, dontCare []int) bool {
	size := 1 << uint(n)
	for combo := 0; combo < size; combo++ {
		for _, dc := range dontCare {
			flipped := combo ^ (1 << uint(dc))
			if flipped < combo {
				continue
			}
			if init.Bit(combo) != init.Bit(flipped) {
				return false
			}
		}
	}
	return true
}

// Project produces the truth table over the free input positions
// obtained by fixing the argument positions to the given values.
func Project(init Init, n int, fixed map[int]bool) Init {
	remaining := n - len(fixed)
	size := 1 << uint(remaining)

	var result Init
	for proj := 0; proj < size; proj++ {
		full := 0
		projBit := 0
		for i := 0; i < n; i++ {
			if value, ok := fixed[i]; ok {
				if value {
					full |= 1 << uint(i)
				}
			} else {
				if proj&(1<<uint(projBit)) != 0 {
					full |= 1 << uint(i)
				}
				projBit++
			}
		}
		if init.Bit(full) {
			result |= 1 << uint(proj)
		}
	}
	return result
}

// Bit returns the function value at the input combination.
func (init Init) Bit(combo int) bool {
	return init&(1<<uint(combo)) != 0
}

func (init Init) String() string {
	return fmt.Sprintf("%#x", uint64(init))
}
