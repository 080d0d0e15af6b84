// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const spiceLineWidth = 100

// WriteSpice writes a hierarchical SPICE netlist of root to w. Each distinct
// circuit is defined once, dependencies first. Primitive netlists are copied
// verbatim. Every instance pin must be connected.
//
func WriteSpice(w io.Writer, root *Module) error {
	bw := bufio.NewWriter(w)
	err := Walk(root, func(c Circuit) error {
		switch c := c.(type) {
		case *Primitive:
			return writeSpicePrimitive(bw, c)
		case *Module:
			return writeSpiceModule(bw, c)
		}
		return nil
	})
	if err != nil {
		return errors.WithMessagef(err, "write spice %s", root.Name())
	}
	return bw.Flush()
}

func writeSpicePrimitive(w *bufio.Writer, p *Primitive) error {
	nl := p.Netlist()
	if nl == "" {
		return nil
	}
	w.WriteString(nl)
	if !strings.HasSuffix(nl, "\n") {
		w.WriteByte('\n')
	}
	_, err := w.WriteString("\n")
	return err
}

func writeSpiceModule(w *bufio.Writer, m *Module) error {
	ports := m.Ports()
	l := spiceLine{w: w}
	l.start(".SUBCKT " + m.Name())
	for _, p := range ports {
		l.word(p.Name)
	}
	l.end()
	for _, inst := range m.Instances() {
		l.start("X" + inst.Name)
		for _, p := range inst.Pins {
			n := p.Net()
			if n == nil {
				return errors.Wrapf(ErrNotConnected, "pin %s of instance %s in %s", p.Name, inst.Name, m.Name())
			}
			l.word(n.Name)
		}
		l.word(inst.Template.Name())
		l.end()
	}
	for i, s := range m.Shorts() {
		w.WriteString("Rshort" + strconv.Itoa(i) + " " + s.A.Name + " " + s.B.Name + " 0\n")
	}
	_, err := w.WriteString(".ENDS " + m.Name() + "\n\n")
	return err
}

// spiceLine wraps long statements with '+' continuation lines.
type spiceLine struct {
	w *bufio.Writer
	n int
}

func (l *spiceLine) start(s string) {
	l.w.WriteString(s)
	l.n = len(s)
}

func (l *spiceLine) word(s string) {
	if l.n+1+len(s) > spiceLineWidth {
		l.w.WriteString("\n+")
		l.n = 1
	}
	l.w.WriteByte(' ')
	l.w.WriteString(s)
	l.n += 1 + len(s)
}

func (l *spiceLine) end() { l.w.WriteByte('\n') }
