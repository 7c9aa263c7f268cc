//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"fmt"
	"io"
	"testing"

	"github.com/markkurossi/lutmap/rtl"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() *Config {
	cfg := NewConfig()
	cfg.Logger = testLogger()
	return cfg
}

// design builds netlists for tests.
type design struct {
	t   *testing.T
	mod *rtl.Module
}

func newDesign(t *testing.T) *design {
	return &design{
		t:   t,
		mod: rtl.NewModule("test"),
	}
}

func (d *design) input(name string) rtl.Signal {
	w, err := d.mod.AddInput(name, 1)
	require.NoError(d.t, err)
	return w.Bit(0)
}

func (d *design) output(name string) rtl.Signal {
	w, err := d.mod.AddOutput(name, 1)
	require.NoError(d.t, err)
	return w.Bit(0)
}

func (d *design) wire(name string) rtl.Signal {
	w, err := d.mod.AddWire(name, 1)
	require.NoError(d.t, err)
	return w.Bit(0)
}

// gate adds a gate cell with positional inputs: A, or A and B, or A,
// B, and S for muxes. The output connects to port Y.
func (d *design) gate(typ, name string, y rtl.Signal,
	inputs ...rtl.Signal) {

	cell, err := d.mod.AddCell(typ, name)
	require.NoError(d.t, err)

	ports := []string{"A", "B", "S"}
	require.LessOrEqual(d.t, len(inputs), len(ports))
	for i, input := range inputs {
		cell.SetPort(ports[i], rtl.SigSpec{input})
	}
	cell.SetPort("Y", rtl.SigSpec{y})
}

// cell adds a primitive instance with explicit port connections.
func (d *design) cell(typ, name string, conns map[string]rtl.Signal) {
	cell, err := d.mod.AddCell(typ, name)
	require.NoError(d.t, err)
	for port, sig := range conns {
		cell.SetPort(port, rtl.SigSpec{sig})
	}
}

// mapper wires up all mapping components without running a pass.
func (d *design) mapper(cfg *Config) *Mapper {
	if cfg == nil {
		cfg = testConfig()
	}
	m, err := NewMapper(d.mod, rtl.NewSigMap(d.mod), cfg)
	require.NoError(d.t, err)
	return m
}

// orChain and andChain build reduction trees gate by gate.
func (d *design) orChain(prefix string, out rtl.Signal,
	inputs ...rtl.Signal) {
	d.chain("$_OR_", prefix, out, inputs)
}

func (d *design) andChain(prefix string, out rtl.Signal,
	inputs ...rtl.Signal) {
	d.chain("$_AND_", prefix, out, inputs)
}

func (d *design) chain(typ, prefix string, out rtl.Signal,
	inputs []rtl.Signal) {

	require.GreaterOrEqual(d.t, len(inputs), 2)
	acc := inputs[0]
	for i := 1; i < len(inputs); i++ {
		next := out
		if i < len(inputs)-1 {
			next = d.wire(fmt.Sprintf("%s_t%d", prefix, i))
		}
		d.gate(typ, fmt.Sprintf("%s_g%d", prefix, i), next, acc, inputs[i])
		acc = next
	}
}
