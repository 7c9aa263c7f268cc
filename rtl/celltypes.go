//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtl

// EvalFunc computes a gate's output as a word-level function of its
// input ports. Each argument word carries one bit per truth-table row
// so a whole table evaluates in a single call.
type EvalFunc func(args map[string]uint64) uint64

// CellType describes one primitive of the target library.
type CellType struct {
	Name        string
	Inputs      []string
	Outputs     []string
	Comb        bool
	Transparent bool
	Eval        EvalFunc
}

// CellTypes is the primitive-library oracle: it answers which cell
// types are combinational gates, which port names are inputs or
// outputs, and how combinational gates evaluate.
type CellTypes struct {
	types map[string]*CellType
}

// NewCellTypes creates the cell-type oracle for the target library:
// the internal gate primitives plus the GTP_* boundary primitives.
func NewCellTypes() *CellTypes {
	ct := &CellTypes{
		types: make(map[string]*CellType),
	}

	// Combinational gates.
	ct.gate("$_AND_", []string{"A", "B"}, func(a map[string]uint64) uint64 {
		return a["A"] & a["B"]
	})
	ct.gate("$_OR_", []string{"A", "B"}, func(a map[string]uint64) uint64 {
		return a["A"] | a["B"]
	})
	ct.gate("$_XOR_", []string{"A", "B"}, func(a map[string]uint64) uint64 {
		return a["A"] ^ a["B"]
	})
	ct.gate("$_XNOR_", []string{"A", "B"}, func(a map[string]uint64) uint64 {
		return ^(a["A"] ^ a["B"])
	})
	ct.gate("$_NAND_", []string{"A", "B"}, func(a map[string]uint64) uint64 {
		return ^(a["A"] & a["B"])
	})
	ct.gate("$_NOR_", []string{"A", "B"}, func(a map[string]uint64) uint64 {
		return ^(a["A"] | a["B"])
	})
	ct.gate("$_NOT_", []string{"A"}, func(a map[string]uint64) uint64 {
		return ^a["A"]
	})
	ct.gate("$_BUF_", []string{"A"}, func(a map[string]uint64) uint64 {
		return a["A"]
	})
	ct.gate("$_MUX_", []string{"A", "B", "S"}, func(a map[string]uint64) uint64 {
		return (a["A"] &^ a["S"]) | (a["B"] & a["S"])
	})

	// Boundary primitives. Their outputs are mapping roots; the
	// single-input buffers are transparent for the mappable-driver
	// walk.
	ct.boundary("GTP_DFF", []string{"D", "CLK"}, []string{"Q"}, false)
	ct.boundary("GTP_DFF_E", []string{"D", "CLK", "CE"}, []string{"Q"}, false)
	ct.boundary("GTP_INBUF", []string{"PAD"}, []string{"O"}, true)
	ct.boundary("GTP_OUTBUF", []string{"I"}, []string{"PAD"}, true)
	ct.boundary("GTP_BUF", []string{"I"}, []string{"O"}, true)
	ct.boundary("GTP_INV", []string{"I"}, []string{"O"}, true)
	ct.boundary("GTP_LUT6", []string{"I0", "I1", "I2", "I3", "I4", "I5"},
		[]string{"Z"}, false)
	ct.boundary("GTP_LUT6D", []string{"I0", "I1", "I2", "I3", "I4", "I5"},
		[]string{"Z", "Z5"}, false)

	return ct
}

func (ct *CellTypes) gate(name string, inputs []string, eval EvalFunc) {
	ct.types[name] = &CellType{
		Name:    name,
		Inputs:  inputs,
		Outputs: []string{"Y"},
		Comb:    true,
		Eval:    eval,
	}
}

func (ct *CellTypes) boundary(name string, inputs, outputs []string,
	transparent bool) {
	ct.types[name] = &CellType{
		Name:        name,
		Inputs:      inputs,
		Outputs:     outputs,
		Transparent: transparent,
	}
}

// Known tests if the cell type belongs to the library.
func (ct *CellTypes) Known(typ string) bool {
	_, ok := ct.types[typ]
	return ok
}

// IsComb tests if the cell type is a combinational gate.
func (ct *CellTypes) IsComb(typ string) bool {
	t, ok := ct.types[typ]
	return ok && t.Comb
}

// IsTransparent tests if the cell type is a single-input buffer the
// mapper may walk through when locating a combinational driver.
func (ct *CellTypes) IsTransparent(typ string) bool {
	t, ok := ct.types[typ]
	return ok && t.Transparent
}

// IsInput tests if the named port is an input of the cell type.
func (ct *CellTypes) IsInput(typ, port string) bool {
	t, ok := ct.types[typ]
	if !ok {
		return false
	}
	for _, p := range t.Inputs {
		if p == port {
			return true
		}
	}
	return false
}

// IsOutput tests if the named port is an output of the cell type.
func (ct *CellTypes) IsOutput(typ, port string) bool {
	t, ok := ct.types[typ]
	if !ok {
		return false
	}
	for _, p := range t.Outputs {
		if p == port {
			return true
		}
	}
	return false
}

// InputPorts returns the input port names of the cell type.
func (ct *CellTypes) InputPorts(typ string) []string {
	t, ok := ct.types[typ]
	if !ok {
		return nil
	}
	return t.Inputs
}

// OutputPorts returns the output port names of the cell type.
func (ct *CellTypes) OutputPorts(typ string) []string {
	t, ok := ct.types[typ]
	if !ok {
		return nil
	}
	return t.Outputs
}

// Eval evaluates the combinational gate type on the argument words.
// The second return value is false if the type has no evaluation
// function.
func (ct *CellTypes) Eval(typ string, args map[string]uint64) (uint64, bool) {
	t, ok := ct.types[typ]
	if !ok || t.Eval == nil {
		return 0, false
	}
	return t.Eval(args), true
}
