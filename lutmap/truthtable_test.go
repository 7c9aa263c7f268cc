//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"testing"

	"github.com/markkurossi/lutmap/rtl"
	"github.com/stretchr/testify/require"
)

func TestTruthTableAnd(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	b := d.input("b")
	y := d.output("y")
	d.gate("$_AND_", "g0", y, a, b)

	m := d.mapper(nil)
	init, err := m.tt.Compute(y, []rtl.Signal{a, b})
	require.NoError(t, err)
	require.Equal(t, Init(0x8), init)
}

func TestTruthTableParity(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	b := d.input("b")
	c := d.input("c")
	dd := d.input("d")
	t1 := d.wire("t1")
	t2 := d.wire("t2")
	y := d.output("y")
	d.gate("$_XOR_", "g0", t1, a, b)
	d.gate("$_XOR_", "g1", t2, t1, c)
	d.gate("$_XOR_", "g2", y, t2, dd)

	m := d.mapper(nil)
	init, err := m.tt.Compute(y, []rtl.Signal{a, b, c, dd})
	require.NoError(t, err)
	require.Equal(t, Init(0x6996), init)
}

func TestTruthTableMux(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	b := d.input("b")
	s := d.input("s")
	y := d.output("y")
	d.gate("$_MUX_", "g0", y, a, b, s)

	m := d.mapper(nil)
	init, err := m.tt.Compute(y, []rtl.Signal{a, b, s})
	require.NoError(t, err)
	// s=0 selects a, s=1 selects b.
	require.Equal(t, Init(0xca), init)
}

func TestTruthTableConstInput(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	y := d.output("y")
	cell, err := d.mod.AddCell("$_OR_", "g0")
	require.NoError(t, err)
	cell.SetPort("A", rtl.SigSpec{a})
	cell.SetPort("B", rtl.SigSpec{rtl.Const1})
	cell.SetPort("Y", rtl.SigSpec{y})

	m := d.mapper(nil)
	init, err := m.tt.Compute(y, []rtl.Signal{a})
	require.NoError(t, err)
	require.Equal(t, Init(0x3), init)
}

// Inputs are evaluation boundaries: the simulator never walks past
// them into the rest of the cone.
func TestTruthTableBoundary(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	b := d.input("b")
	c := d.input("c")
	tt := d.wire("t")
	y := d.output("y")
	d.gate("$_OR_", "g0", tt, a, b)
	d.gate("$_AND_", "g1", y, tt, c)

	m := d.mapper(nil)
	init, err := m.tt.Compute(y, []rtl.Signal{tt, c})
	require.NoError(t, err)
	require.Equal(t, Init(0x8), init)
}

// A cone reaching a cell the simulator cannot evaluate fails with
// the unsupported-gate error.
func TestTruthTableUnsupported(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	clk := d.input("clk")
	q := d.wire("q")
	y := d.output("y")
	d.cell("GTP_DFF", "ff0", map[string]rtl.Signal{
		"D": a, "CLK": clk, "Q": q,
	})
	d.gate("$_NOT_", "g0", y, q)

	m := d.mapper(nil)
	_, err := m.tt.Compute(y, []rtl.Signal{a})
	require.ErrorIs(t, err, ErrUnsupportedGate)
}

func TestIsIndependent(t *testing.T) {
	// f(x0,x1) = x0: independent of x1, dependent on x0.
	init := Init(0xa)
	require.True(t, IsIndependent(init, 2, []int{1}))
	require.False(t, IsIndependent(init, 2, []int{0}))
	require.True(t, IsIndependent(init, 2, nil))

	// S5: or4 on a 5-input table is not independent of c and d.
	var or4 Init
	for combo := 0; combo < 32; combo++ {
		if combo&0xf != 0 {
			or4 |= 1 << uint(combo)
		}
	}
	require.True(t, IsIndependent(or4, 5, []int{4}))
	require.False(t, IsIndependent(or4, 5, []int{2, 3}))
}

func TestProject(t *testing.T) {
	// f(x0,x1,x2) = MUX(x0,x1; x2).
	init := Init(0xca)

	// x2=0 selects x0, x2=1 selects x1.
	require.Equal(t, Init(0xa), Project(init, 3, map[int]bool{2: false}))
	require.Equal(t, Init(0xc), Project(init, 3, map[int]bool{2: true}))

	// Fixing two positions leaves a 2-entry table.
	require.Equal(t, Init(0x2),
		Project(init, 3, map[int]bool{1: false, 2: false}))
}
