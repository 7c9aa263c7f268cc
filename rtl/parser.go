//
// parser.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parse parses a netlist file.
func Parse(name string) (*Module, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseNetlist(f)
}

// ParseNetlist parses a module from the line-oriented netlist format:
//
//	module <name>
//	input <wire> [width]
//	output <wire> [width]
//	wire <wire> [width]
//	cell <type> <name> [@<param>=<value>] <port>=<sig> ...
//	connect <sig> <sig>
//	end
//
// Signals are written as `name`, `name[bit]`, `0`, or `1`. Lines
// starting with `#` are comments.
func ParseNetlist(in io.Reader) (*Module, error) {
	var module *Module
	var done bool

	scanner := bufio.NewScanner(in)
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)

		if module == nil {
			if fields[0] != "module" || len(fields) != 2 {
				return nil, fmt.Errorf("%d: expected module header, got %q",
					line, text)
			}
			module = NewModule(fields[1])
			continue
		}
		if done {
			return nil, fmt.Errorf("%d: trailing input after end", line)
		}

		var err error
		switch fields[0] {
		case "input", "output", "wire":
			err = parseWire(module, fields)

		case "cell":
			err = parseCell(module, fields)

		case "connect":
			err = parseConnect(module, fields)

		case "end":
			done = true

		default:
			err = fmt.Errorf("unknown directive %q", fields[0])
		}
		if err != nil {
			return nil, fmt.Errorf("%d: %s", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if module == nil {
		return nil, fmt.Errorf("empty netlist")
	}
	if !done {
		return nil, fmt.Errorf("missing end")
	}
	return module, nil
}

func parseWire(m *Module, fields []string) error {
	if len(fields) < 2 || len(fields) > 3 {
		return fmt.Errorf("malformed %s directive", fields[0])
	}
	width := 1
	if len(fields) == 3 {
		w, err := strconv.Atoi(fields[2])
		if err != nil || w < 1 {
			return fmt.Errorf("invalid width %q", fields[2])
		}
		width = w
	}
	var err error
	switch fields[0] {
	case "input":
		_, err = m.AddInput(fields[1], width)
	case "output":
		_, err = m.AddOutput(fields[1], width)
	default:
		_, err = m.AddWire(fields[1], width)
	}
	return err
}

func parseCell(m *Module, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("malformed cell directive")
	}
	cell, err := m.AddCell(fields[1], fields[2])
	if err != nil {
		return err
	}
	for _, field := range fields[3:] {
		idx := strings.IndexByte(field, '=')
		if idx < 1 {
			return fmt.Errorf("malformed connection %q", field)
		}
		name := field[:idx]
		value := field[idx+1:]

		if strings.HasPrefix(name, "@") {
			c, err := parseConst(value)
			if err != nil {
				return err
			}
			cell.SetParam(name[1:], c)
			continue
		}
		sig, err := parseSignal(m, value)
		if err != nil {
			return err
		}
		cell.SetPort(name, SigSpec{sig})
	}
	return nil
}

func parseConnect(m *Module, fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("malformed connect directive")
	}
	a, err := parseSignal(m, fields[1])
	if err != nil {
		return err
	}
	b, err := parseSignal(m, fields[2])
	if err != nil {
		return err
	}
	return m.Connect(SigSpec{a}, SigSpec{b})
}

func parseSignal(m *Module, value string) (Signal, error) {
	switch value {
	case "0":
		return Const0, nil
	case "1":
		return Const1, nil
	}
	name := value
	bit := 0
	if idx := strings.IndexByte(value, '['); idx >= 0 {
		if !strings.HasSuffix(value, "]") {
			return Signal{}, fmt.Errorf("malformed signal %q", value)
		}
		name = value[:idx]
		b, err := strconv.Atoi(value[idx+1 : len(value)-1])
		if err != nil || b < 0 {
			return Signal{}, fmt.Errorf("malformed signal %q", value)
		}
		bit = b
	}
	w := m.FindWire(name)
	if w == nil {
		return Signal{}, fmt.Errorf("undefined wire %q", name)
	}
	if bit >= w.Width {
		return Signal{}, fmt.Errorf("bit %d out of range for wire %s",
			bit, name)
	}
	return w.Bit(bit), nil
}

func parseConst(value string) (Const, error) {
	idx := strings.IndexByte(value, '\'')
	if idx > 0 {
		width, err := strconv.Atoi(value[:idx])
		if err != nil {
			return Const{}, fmt.Errorf("malformed constant %q", value)
		}
		rest := value[idx+1:]
		if len(rest) < 2 || rest[0] != 'h' {
			return Const{}, fmt.Errorf("malformed constant %q", value)
		}
		bits, err := strconv.ParseUint(rest[1:], 16, 64)
		if err != nil {
			return Const{}, fmt.Errorf("malformed constant %q", value)
		}
		return Const{Bits: bits, Width: width}, nil
	}
	bits, err := strconv.ParseUint(value, 0, 64)
	if err != nil {
		return Const{}, fmt.Errorf("malformed constant %q", value)
	}
	return Const{Bits: bits, Width: 64}, nil
}
