//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtl

import (
	"bytes"
	"strings"
	"testing"
)

const testNetlist = `# two-input AND
module top
input a
input b
output y
wire t 2
cell $_AND_ g0 A=a B=b Y=t[0]
cell $_NOT_ g1 A=t[0] Y=t[1]
connect y t[1]
end
`

func TestParseNetlist(t *testing.T) {
	m, err := ParseNetlist(strings.NewReader(testNetlist))
	if err != nil {
		t.Fatalf("ParseNetlist: %s", err)
	}
	if m.Name != "top" {
		t.Errorf("bad module name %s", m.Name)
	}
	if len(m.Wires) != 4 {
		t.Errorf("expected 4 wires, got %d", len(m.Wires))
	}
	if len(m.Cells) != 2 {
		t.Errorf("expected 2 cells, got %d", len(m.Cells))
	}
	if len(m.Conns) != 1 {
		t.Errorf("expected 1 connection, got %d", len(m.Conns))
	}

	g0 := m.FindCell("g0")
	if g0 == nil {
		t.Fatal("cell g0 not found")
	}
	if g0.Type != "$_AND_" {
		t.Errorf("bad cell type %s", g0.Type)
	}
	a := m.FindWire("a")
	if g0.Port("A")[0] != a.Bit(0) {
		t.Errorf("bad port A: %s", g0.Port("A"))
	}
	tw := m.FindWire("t")
	if g0.Port("Y")[0] != tw.Bit(0) {
		t.Errorf("bad port Y: %s", g0.Port("Y"))
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"wire a\n",
		"module top\n",
		"module top\ncell $_AND_ g0 A=a\nend\n",
		"module top\nwire a\nwire a\nend\n",
		"module top\nwire a\ncell $_AND_ g0 A=a[4]\nend\n",
		"module top\nbogus\nend\n",
		"module top\nend\nwire a\n",
	}
	for _, input := range inputs {
		if _, err := ParseNetlist(strings.NewReader(input)); err == nil {
			t.Errorf("accepted %q", input)
		}
	}
}

func TestParseConstSignals(t *testing.T) {
	input := `module top
output y
cell $_AND_ g0 A=0 B=1 Y=y
end
`
	m, err := ParseNetlist(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseNetlist: %s", err)
	}
	g0 := m.FindCell("g0")
	if g0.Port("A")[0] != Const0 {
		t.Errorf("bad constant input A: %s", g0.Port("A"))
	}
	if g0.Port("B")[0] != Const1 {
		t.Errorf("bad constant input B: %s", g0.Port("B"))
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	m, err := ParseNetlist(strings.NewReader(testNetlist))
	if err != nil {
		t.Fatalf("ParseNetlist: %s", err)
	}
	lut, err := m.AddCell("GTP_LUT6", "lut_y")
	if err != nil {
		t.Fatalf("AddCell: %s", err)
	}
	lut.SetParam("INIT", Const{Bits: 0x8, Width: 64})
	lut.SetPort("I0", SigSpec{m.FindWire("a").Bit(0)})
	lut.SetPort("I1", SigSpec{m.FindWire("b").Bit(0)})
	lut.SetPort("Z", SigSpec{m.FindWire("y").Bit(0)})

	var buf bytes.Buffer
	if err := m.Marshal(&buf); err != nil {
		t.Fatalf("Marshal: %s", err)
	}

	parsed, err := ParseNetlist(&buf)
	if err != nil {
		t.Fatalf("ParseNetlist round trip: %s\n%s", err, buf.String())
	}
	if len(parsed.Cells) != len(m.Cells) {
		t.Errorf("round trip lost cells: %d vs %d",
			len(parsed.Cells), len(m.Cells))
	}
	lut2 := parsed.FindCell("lut_y")
	if lut2 == nil {
		t.Fatal("lut_y not found after round trip")
	}
	init, ok := lut2.Params["INIT"]
	if !ok {
		t.Fatal("INIT parameter lost")
	}
	if init.Bits != 0x8 || init.Width != 64 {
		t.Errorf("bad INIT after round trip: %s", init)
	}
}
