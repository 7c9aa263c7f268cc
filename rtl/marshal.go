//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtl

import (
	"fmt"
	"io"
	"sort"
)

// Marshal writes the module in the netlist format accepted by
// ParseNetlist. Wires, cells, ports, and parameters are emitted in
// deterministic order.
func (m *Module) Marshal(out io.Writer) error {
	if _, err := fmt.Fprintf(out, "module %s\n", m.Name); err != nil {
		return err
	}
	for _, w := range m.Wires {
		kind := "wire"
		if w.PortInput {
			kind = "input"
		} else if w.PortOutput {
			kind = "output"
		}
		var err error
		if w.Width == 1 {
			_, err = fmt.Fprintf(out, "%s %s\n", kind, w.Name)
		} else {
			_, err = fmt.Fprintf(out, "%s %s %d\n", kind, w.Name, w.Width)
		}
		if err != nil {
			return err
		}
	}
	for _, c := range m.Cells {
		if err := marshalCell(out, c); err != nil {
			return err
		}
	}
	for _, conn := range m.Conns {
		for i := range conn.A {
			_, err := fmt.Fprintf(out, "connect %s %s\n",
				sigName(conn.A[i]), sigName(conn.B[i]))
			if err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(out, "end")
	return err
}

func marshalCell(out io.Writer, c *Cell) error {
	if _, err := fmt.Fprintf(out, "cell %s %s", c.Type, c.Name); err != nil {
		return err
	}
	params := make([]string, 0, len(c.Params))
	for name := range c.Params {
		params = append(params, name)
	}
	sort.Strings(params)
	for _, name := range params {
		_, err := fmt.Fprintf(out, " @%s=%s", name, c.Params[name])
		if err != nil {
			return err
		}
	}
	for _, name := range c.PortNames() {
		for _, sig := range c.Conns[name] {
			_, err := fmt.Fprintf(out, " %s=%s", name, sigName(sig))
			if err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(out)
	return err
}

func sigName(s Signal) string {
	switch s {
	case Const0:
		return "0"
	case Const1:
		return "1"
	default:
		return s.String()
	}
}
