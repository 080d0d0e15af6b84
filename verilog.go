// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

var verilogKeywords = map[string]bool{
	"module": true, "endmodule": true, "input": true, "output": true, "inout": true,
	"wire": true, "reg": true, "assign": true, "tran": true, "supply0": true,
	"supply1": true, "begin": true, "end": true, "always": true, "initial": true,
	"and": true, "or": true, "not": true, "nand": true, "nor": true, "buf": true,
}

// VerilogIdent returns s as a Verilog identifier, escaping it if needed.
//
func VerilogIdent(s string) string {
	simple := s != "" && !verilogKeywords[s]
	for i, r := range s {
		switch {
		case r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '$'):
		default:
			simple = false
		}
	}
	if simple {
		return s
	}
	return "\\" + s + " "
}

// WriteVerilog writes a structural Verilog netlist of root to w. Primitives
// are emitted as black-box module declarations and shorts as tran switches.
//
func WriteVerilog(w io.Writer, root *Module) error {
	bw := bufio.NewWriter(w)
	err := Walk(root, func(c Circuit) error {
		switch c := c.(type) {
		case *Primitive:
			bw.WriteString("(* blackbox *)\n")
			writeVerilogHeader(bw, c.Name(), c.Ports())
		case *Module:
			return writeVerilogModule(bw, c)
		}
		_, err := bw.WriteString("endmodule\n\n")
		return err
	})
	if err != nil {
		return errors.WithMessagef(err, "write verilog %s", root.Name())
	}
	return bw.Flush()
}

func verilogDir(d Direction) string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	}
	return "inout"
}

func writeVerilogHeader(w *bufio.Writer, name string, ports []*Port) {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = VerilogIdent(p.Name)
	}
	w.WriteString("module " + VerilogIdent(name) + " (" + strings.Join(names, ", ") + ");\n")
	for i, p := range ports {
		w.WriteString("  " + verilogDir(p.Direction) + " " + names[i] + ";\n")
	}
}

func writeVerilogModule(w *bufio.Writer, m *Module) error {
	ports := m.Ports()
	writeVerilogHeader(w, m.Name(), ports)
	isPort := make(map[string]bool, len(ports))
	for _, p := range ports {
		isPort[p.Name] = true
	}
	for _, n := range m.Nets() {
		if !isPort[n.Name] {
			w.WriteString("  wire " + VerilogIdent(n.Name) + ";\n")
		}
	}
	for _, inst := range m.Instances() {
		conns := make([]string, len(inst.Pins))
		for i, p := range inst.Pins {
			n := p.Net()
			if n == nil {
				return errors.Wrapf(ErrNotConnected, "pin %s of instance %s in %s", p.Name, inst.Name, m.Name())
			}
			conns[i] = "." + VerilogIdent(p.Name) + "(" + VerilogIdent(n.Name) + ")"
		}
		w.WriteString("  " + VerilogIdent(inst.Template.Name()) + " " + VerilogIdent(inst.Name) +
			" (" + strings.Join(conns, ", ") + ");\n")
	}
	for _, s := range m.Shorts() {
		w.WriteString("  tran (" + VerilogIdent(s.A.Name) + ", " + VerilogIdent(s.B.Name) + ");\n")
	}
	_, err := w.WriteString("endmodule\n\n")
	return err
}
