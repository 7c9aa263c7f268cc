//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtl

import (
	"testing"
)

func TestSignalOrder(t *testing.T) {
	m := NewModule("test")
	a, err := m.AddInput("a", 1)
	if err != nil {
		t.Fatalf("AddInput: %s", err)
	}
	b, err := m.AddInput("b", 4)
	if err != nil {
		t.Fatalf("AddInput: %s", err)
	}

	if a.Bit(0).Compare(b.Bit(0)) >= 0 {
		t.Error("expected a < b[0]")
	}
	if b.Bit(0).Compare(b.Bit(3)) >= 0 {
		t.Error("expected b[0] < b[3]")
	}
	if a.Bit(0).Compare(a.Bit(0)) != 0 {
		t.Error("expected a == a")
	}
	if (Signal{}).Compare(a.Bit(0)) >= 0 {
		t.Error("expected invalid signal to sort first")
	}

	sigs := []Signal{b.Bit(2), a.Bit(0), b.Bit(0)}
	SortSignals(sigs)
	if sigs[0] != a.Bit(0) || sigs[1] != b.Bit(0) || sigs[2] != b.Bit(2) {
		t.Errorf("bad sort order: %v", sigs)
	}
}

func TestConstSignals(t *testing.T) {
	if !Const0.IsConst() || !Const1.IsConst() {
		t.Fatal("constants not recognized")
	}
	if Const0.ConstValue() || !Const1.ConstValue() {
		t.Fatal("bad constant values")
	}
	if Const0.Compare(Const1) == 0 {
		t.Fatal("constants compare equal")
	}
	if (Signal{}).Valid() {
		t.Fatal("zero signal is valid")
	}
}

func TestModuleWires(t *testing.T) {
	m := NewModule("test")
	if _, err := m.AddInput("a", 2); err != nil {
		t.Fatalf("AddInput: %s", err)
	}
	if _, err := m.AddWire("a", 1); err == nil {
		t.Error("duplicate wire accepted")
	}
	if m.FindWire("a") == nil {
		t.Error("FindWire failed")
	}
	if m.FindWire("b") != nil {
		t.Error("FindWire found unknown wire")
	}

	bits := m.InputBits()
	if len(bits) != 2 {
		t.Errorf("expected 2 input bits, got %d", len(bits))
	}
}

func TestModuleCells(t *testing.T) {
	m := NewModule("test")
	a, _ := m.AddInput("a", 1)
	y, _ := m.AddOutput("y", 1)

	cell, err := m.AddCell("$_NOT_", "g0")
	if err != nil {
		t.Fatalf("AddCell: %s", err)
	}
	cell.SetPort("A", SigSpec{a.Bit(0)})
	cell.SetPort("Y", SigSpec{y.Bit(0)})

	if _, err := m.AddCell("$_NOT_", "g0"); err == nil {
		t.Error("duplicate cell accepted")
	}
	if m.FindCell("g0") != cell {
		t.Error("FindCell failed")
	}
	if m.Uniquify("g0") == "g0" {
		t.Error("Uniquify returned taken name")
	}
	if m.Uniquify("g1") != "g1" {
		t.Error("Uniquify renamed free name")
	}

	m.RemoveCell(cell)
	if m.FindCell("g0") != nil {
		t.Error("RemoveCell left cell behind")
	}
	if len(m.Cells) != 0 {
		t.Errorf("expected 0 cells, got %d", len(m.Cells))
	}
}

func TestSigMap(t *testing.T) {
	m := NewModule("test")
	a, _ := m.AddInput("a", 1)
	b, _ := m.AddWire("b", 1)
	c, _ := m.AddWire("c", 1)

	if err := m.Connect(SigSpec{b.Bit(0)}, SigSpec{a.Bit(0)}); err != nil {
		t.Fatalf("Connect: %s", err)
	}
	if err := m.Connect(SigSpec{c.Bit(0)}, SigSpec{b.Bit(0)}); err != nil {
		t.Fatalf("Connect: %s", err)
	}

	sm := NewSigMap(m)
	if sm.Map(c.Bit(0)) != a.Bit(0) {
		t.Errorf("expected c -> a, got %s", sm.Map(c.Bit(0)))
	}
	if sm.Map(b.Bit(0)) != a.Bit(0) {
		t.Errorf("expected b -> a, got %s", sm.Map(b.Bit(0)))
	}
	if sm.Map(a.Bit(0)) != a.Bit(0) {
		t.Errorf("expected a -> a, got %s", sm.Map(a.Bit(0)))
	}

	spec := sm.MapSpec(SigSpec{c.Bit(0), b.Bit(0)})
	for _, sig := range spec {
		if sig != a.Bit(0) {
			t.Errorf("MapSpec: expected a, got %s", sig)
		}
	}
}

func TestConstBits(t *testing.T) {
	c := Const{Bits: 0x8, Width: 64}
	if c.Bit(0) || c.Bit(1) || c.Bit(2) || !c.Bit(3) {
		t.Errorf("bad constant bits: %s", c)
	}
}
