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

func lutCells(m *rtl.Module, typ string) []*rtl.Cell {
	var result []*rtl.Cell
	for _, cell := range m.Cells {
		if cell.Type == typ {
			result = append(result, cell)
		}
	}
	return result
}

// S1: a two-input AND emits one LUT6 with truth table 1000₂ and the
// unused pins tied to constant 0.
func TestEmitAnd(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	b := d.input("b")
	y := d.output("y")
	d.gate("$_AND_", "g0", y, a, b)

	m := d.mapper(nil)
	res, err := m.Run()
	require.NoError(t, err)

	cut, ok := res.Single[y]
	require.True(t, ok)
	require.True(t, cut.Inputs.Equal(NewCut(a, b)))

	require.NoError(t, m.Emitter().Emit(res))

	luts := lutCells(d.mod, "GTP_LUT6")
	require.Len(t, luts, 1)
	lut := luts[0]

	require.Equal(t, rtl.Const{Bits: 0x8, Width: 64}, lut.Params["INIT"])
	require.Equal(t, rtl.SigSpec{a}, lut.Port("I0"))
	require.Equal(t, rtl.SigSpec{b}, lut.Port("I1"))
	for _, port := range []string{"I2", "I3", "I4", "I5"} {
		require.Equal(t, rtl.SigSpec{rtl.Const0}, lut.Port(port))
	}
	require.Equal(t, rtl.SigSpec{y}, lut.Port("Z"))

	// The covered AND gate is gone.
	require.Empty(t, lutCells(d.mod, "$_AND_"))
}

// S2: the chain collapses into one 4-input LUT; the intermediate
// nodes are elided.
func TestEmitElidesFusedNodes(t *testing.T) {
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
	res, err := m.Run()
	require.NoError(t, err)
	require.NoError(t, m.Emitter().Emit(res))

	luts := lutCells(d.mod, "GTP_LUT6")
	require.Len(t, luts, 1)
	require.Equal(t, rtl.SigSpec{y}, luts[0].Port("Z"))
	require.Equal(t, rtl.Const{Bits: 0x6996, Width: 64},
		luts[0].Params["INIT"])
}

// S4: the dual-output pair emits one LUT6D whose lower half holds
// the 5-input OR and upper half the 5-input AND, with f on I5.
func TestEmitDualOutput(t *testing.T) {
	d, sigs := dualLegalDesign(t)

	m := d.mapper(nil)
	res, err := m.Run()
	require.NoError(t, err)
	require.NoError(t, m.Emitter().Emit(res))

	require.Empty(t, lutCells(d.mod, "GTP_LUT6"))
	luts := lutCells(d.mod, "GTP_LUT6D")
	require.Len(t, luts, 1)
	lut := luts[0]

	require.Equal(t,
		rtl.Const{Bits: 0x80000000_FFFEFFFE, Width: 64},
		lut.Params["INIT"])

	require.Equal(t, rtl.SigSpec{sigs["a"]}, lut.Port("I0"))
	require.Equal(t, rtl.SigSpec{sigs["b"]}, lut.Port("I1"))
	require.Equal(t, rtl.SigSpec{sigs["c"]}, lut.Port("I2"))
	require.Equal(t, rtl.SigSpec{sigs["d"]}, lut.Port("I3"))
	require.Equal(t, rtl.SigSpec{sigs["e"]}, lut.Port("I4"))
	require.Equal(t, rtl.SigSpec{sigs["f"]}, lut.Port("I5"))
	require.Equal(t, rtl.SigSpec{sigs["z"]}, lut.Port("Z"))
	require.Equal(t, rtl.SigSpec{sigs["z5"]}, lut.Port("Z5"))
}

// S6: no LUT materialises for nodes inside a combinational cycle
// and their gates stay in place.
func TestEmitCycle(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	tt := d.wire("t")
	u := d.output("u")
	d.gate("$_AND_", "g0", tt, a, u)
	d.gate("$_OR_", "g1", u, tt, a)

	m := d.mapper(nil)
	res, err := m.Run()
	require.NoError(t, err)
	require.NoError(t, m.Emitter().Emit(res))

	require.Empty(t, lutCells(d.mod, "GTP_LUT6"))
	require.Empty(t, lutCells(d.mod, "GTP_LUT6D"))
	require.Len(t, lutCells(d.mod, "$_AND_"), 1)
	require.Len(t, lutCells(d.mod, "$_OR_"), 1)
}

// A buffer over a primary input has the one-input cut {a}, not a
// trivial cut, so it materialises as a pass-through LUT.
func TestEmitBufferedInput(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	y := d.output("y")
	d.gate("$_BUF_", "g0", y, a)

	m := d.mapper(nil)
	res, err := m.Run()
	require.NoError(t, err)
	require.NoError(t, m.Emitter().Emit(res))

	luts := lutCells(d.mod, "GTP_LUT6")
	require.Len(t, luts, 1)
	// The buffer LUT passes a through.
	require.Equal(t, rtl.Const{Bits: 0x2, Width: 64},
		luts[0].Params["INIT"])
}
