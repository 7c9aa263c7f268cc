//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package rtl implements the gate-level netlist model consumed by the
// technology mapper: modules, wires, cells, and single-bit signals.
package rtl

import (
	"fmt"
	"sort"
	"strings"
)

// Wire specifies a named net of one or more bits.
type Wire struct {
	Name       string
	Width      int
	PortInput  bool
	PortOutput bool
}

// Bit returns the signal for the wire's bit i.
func (w *Wire) Bit(i int) Signal {
	return Signal{Wire: w, Bit: i}
}

// Bits returns all bits of the wire as a signal vector.
func (w *Wire) Bits() SigSpec {
	result := make(SigSpec, w.Width)
	for i := 0; i < w.Width; i++ {
		result[i] = w.Bit(i)
	}
	return result
}

func (w *Wire) String() string {
	return w.Name
}

// Signal specifies a single-bit net. The zero value is the invalid
// signal. Signals are comparable and have a deterministic total order
// so that all set and map traversals in the mapper can be made
// reproducible.
type Signal struct {
	Wire *Wire
	Bit  int
}

var (
	constZero = &Wire{Name: "1'b0", Width: 1}
	constOne  = &Wire{Name: "1'b1", Width: 1}

	// Const0 and Const1 are the two constant signals. They behave
	// like primary inputs with arrival time 0.
	Const0 = Signal{Wire: constZero}
	Const1 = Signal{Wire: constOne}
)

// Valid tests if the signal names a net.
func (s Signal) Valid() bool {
	return s.Wire != nil
}

// IsConst tests if the signal is one of the constants 0 and 1.
func (s Signal) IsConst() bool {
	return s.Wire == constZero || s.Wire == constOne
}

// ConstValue returns the value of a constant signal.
func (s Signal) ConstValue() bool {
	return s.Wire == constOne
}

// Compare defines the canonical signal order: invalid first, then by
// wire name, then by bit index.
func (s Signal) Compare(o Signal) int {
	if s.Wire == o.Wire {
		return s.Bit - o.Bit
	}
	if s.Wire == nil {
		return -1
	}
	if o.Wire == nil {
		return 1
	}
	if cmp := strings.Compare(s.Wire.Name, o.Wire.Name); cmp != 0 {
		return cmp
	}
	return s.Bit - o.Bit
}

func (s Signal) String() string {
	if s.Wire == nil {
		return "?"
	}
	if s.IsConst() {
		return s.Wire.Name
	}
	if s.Wire.Width == 1 {
		return s.Wire.Name
	}
	return fmt.Sprintf("%s[%d]", s.Wire.Name, s.Bit)
}

// SigSpec specifies an ordered vector of signals.
type SigSpec []Signal

func (ss SigSpec) String() string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// SortSignals sorts the signals into the canonical order.
func SortSignals(sigs []Signal) {
	sort.Slice(sigs, func(i, j int) bool {
		return sigs[i].Compare(sigs[j]) < 0
	})
}

// Const specifies a constant parameter value, e.g. a LUT
// configuration word.
type Const struct {
	Bits  uint64
	Width int
}

// Bit returns the value of the constant's bit i.
func (c Const) Bit(i int) bool {
	return c.Bits&(1<<uint(i)) != 0
}

func (c Const) String() string {
	return fmt.Sprintf("%d'h%x", c.Width, c.Bits)
}

// Cell specifies a gate or primitive instance with typed ports.
type Cell struct {
	Name   string
	Type   string
	Conns  map[string]SigSpec
	Params map[string]Const
}

// SetPort connects the named port to the signal vector.
func (c *Cell) SetPort(name string, sig SigSpec) {
	c.Conns[name] = sig
}

// Port returns the signal vector connected to the named port, or nil.
func (c *Cell) Port(name string) SigSpec {
	return c.Conns[name]
}

// SetParam sets the named parameter.
func (c *Cell) SetParam(name string, value Const) {
	c.Params[name] = value
}

func (c *Cell) String() string {
	return fmt.Sprintf("%s %s", c.Type, c.Name)
}

// PortNames returns the cell's connected port names in sorted order.
func (c *Cell) PortNames() []string {
	names := make([]string, 0, len(c.Conns))
	for name := range c.Conns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Conn specifies a module-level alias connection: both sides name the
// same nets bit by bit.
type Conn struct {
	A SigSpec
	B SigSpec
}

// Module specifies a netlist module.
type Module struct {
	Name  string
	Wires []*Wire
	Cells []*Cell
	Conns []Conn

	wireByName map[string]*Wire
	cellByName map[string]*Cell
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:       name,
		wireByName: make(map[string]*Wire),
		cellByName: make(map[string]*Cell),
	}
}

// AddWire adds a wire to the module. It is an error to add two wires
// with the same name.
func (m *Module) AddWire(name string, width int) (*Wire, error) {
	if _, ok := m.wireByName[name]; ok {
		return nil, fmt.Errorf("wire %s already defined", name)
	}
	w := &Wire{
		Name:  name,
		Width: width,
	}
	m.Wires = append(m.Wires, w)
	m.wireByName[name] = w
	return w, nil
}

// AddInput adds a primary input port wire.
func (m *Module) AddInput(name string, width int) (*Wire, error) {
	w, err := m.AddWire(name, width)
	if err != nil {
		return nil, err
	}
	w.PortInput = true
	return w, nil
}

// AddOutput adds a primary output port wire.
func (m *Module) AddOutput(name string, width int) (*Wire, error) {
	w, err := m.AddWire(name, width)
	if err != nil {
		return nil, err
	}
	w.PortOutput = true
	return w, nil
}

// FindWire returns the named wire, or nil.
func (m *Module) FindWire(name string) *Wire {
	return m.wireByName[name]
}

// AddCell adds a cell instance to the module.
func (m *Module) AddCell(typ, name string) (*Cell, error) {
	if _, ok := m.cellByName[name]; ok {
		return nil, fmt.Errorf("cell %s already defined", name)
	}
	c := &Cell{
		Name:   name,
		Type:   typ,
		Conns:  make(map[string]SigSpec),
		Params: make(map[string]Const),
	}
	m.Cells = append(m.Cells, c)
	m.cellByName[name] = c
	return c, nil
}

// FindCell returns the named cell, or nil.
func (m *Module) FindCell(name string) *Cell {
	return m.cellByName[name]
}

// RemoveCell removes the cell from the module.
func (m *Module) RemoveCell(cell *Cell) {
	for i, c := range m.Cells {
		if c == cell {
			m.Cells = append(m.Cells[:i], m.Cells[i+1:]...)
			delete(m.cellByName, cell.Name)
			return
		}
	}
}

// Connect records an alias connection between two equally sized
// signal vectors.
func (m *Module) Connect(a, b SigSpec) error {
	if len(a) != len(b) {
		return fmt.Errorf("connect size mismatch: %d vs %d", len(a), len(b))
	}
	m.Conns = append(m.Conns, Conn{A: a, B: b})
	return nil
}

// Uniquify returns a cell name starting with prefix that is unused in
// the module.
func (m *Module) Uniquify(prefix string) string {
	if _, ok := m.cellByName[prefix]; !ok {
		return prefix
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d", prefix, i)
		if _, ok := m.cellByName[name]; !ok {
			return name
		}
	}
}

// InputBits returns all primary input bits in wire order.
func (m *Module) InputBits() []Signal {
	var result []Signal
	for _, w := range m.Wires {
		if w.PortInput {
			result = append(result, w.Bits()...)
		}
	}
	return result
}

// OutputBits returns all primary output bits in wire order.
func (m *Module) OutputBits() []Signal {
	var result []Signal
	for _, w := range m.Wires {
		if w.PortOutput {
			result = append(result, w.Bits()...)
		}
	}
	return result
}

func (m *Module) String() string {
	return fmt.Sprintf("module %s: #wires=%d #cells=%d",
		m.Name, len(m.Wires), len(m.Cells))
}
