//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimingArrival(t *testing.T) {
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
	timing := m.timing

	require.Equal(t, 0.0, timing.ArrivalTime(a))
	require.Equal(t, 1.0, timing.ArrivalTime(t1))
	require.Equal(t, 2.0, timing.ArrivalTime(t2))
	require.Equal(t, 3.0, timing.ArrivalTime(y))
	require.Equal(t, 3, timing.CriticalDepth())

	require.Equal(t, 0, timing.Depth(a))
	require.Equal(t, 2, timing.Depth(t2))

	// Cut depth is the maximum input depth plus one.
	require.Equal(t, 1, timing.CutDepth(NewCut(a, b, c, dd)))
	require.Equal(t, 3, timing.CutDepth(NewCut(t2, dd)))
}

func TestTimingRequired(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	b := d.input("b")
	c := d.input("c")
	t1 := d.wire("t1")
	y := d.output("y")
	d.gate("$_AND_", "g0", t1, a, b)
	d.gate("$_AND_", "g1", y, t1, c)

	m := d.mapper(nil)
	timing := m.timing

	require.Equal(t, 2.0, timing.RequiredTime(y))
	require.Equal(t, 1.0, timing.RequiredTime(t1))
	require.Equal(t, 0.0, timing.RequiredTime(a))

	// c feeds only the output gate: one unit of slack bound.
	require.Equal(t, 1.0, timing.RequiredTime(c))
}

func TestTimingArrivalMap(t *testing.T) {
	d := newDesign(t)
	a := d.input("a")
	y := d.output("y")
	d.gate("$_NOT_", "g0", y, a)

	m := d.mapper(nil)
	times := m.timing.ArrivalTimes()

	require.Equal(t, 0.0, times[a])
	require.Equal(t, 1.0, times[y])
}
