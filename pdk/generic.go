// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pdk

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/db47h/sramc"
)

// Transistor sizes of the generic library, in microns.
const (
	genericL  = 0.05
	genericWN = 0.415
	genericWP = 0.63
)

var (
	genericOnce sync.Once
	genericLib  *Library
	genericErr  error
)

// Generic returns a library of generic CMOS cells that covers every
// primitive used by the compiler. Transistors use the nmos and pmos model
// names; the models themselves are not included.
//
// Cell and pin names follow the usual standard cell conventions: INV_X1,
// NAND2_X1 ... with inputs A or A1..An, output ZN (Z for AND/OR), supplies VDD
// and VSS.
//
func Generic() (*Library, error) {
	genericOnce.Do(func() {
		d, text := GenericDescriptor()
		subckts, err := ParseSpice(strings.NewReader(text))
		if err != nil {
			genericErr = err
			return
		}
		genericLib, genericErr = New(d, subckts)
	})
	return genericLib, genericErr
}

// GenericDescriptor returns the descriptor and SPICE source of the generic
// library.
//
func GenericDescriptor() (*Descriptor, string) {
	var sb strings.Builder
	sb.WriteString("* generic CMOS cells\n\n")
	d := &Descriptor{
		Name:      "generic",
		Leafcells: make(map[string]string),
	}

	for _, s := range []sramc.Strength{sramc.X1, sramc.X2, sramc.X4, sramc.X8} {
		name := cellName("INV", 0, s)
		c := newCMOS(name, s, []string{"A", "ZN", "VDD", "VSS"})
		c.inv("A", "ZN", 1)
		c.write(&sb)
		d.Gates = append(d.Gates, Gate{Cell: name, Function: "inv", Strength: s.String(), Inputs: []string{"A"}, Output: "ZN", Vdd: "VDD", Gnd: "VSS"})
	}
	for _, fn := range []string{"NAND", "NOR", "AND", "OR"} {
		for n := 2; n <= 4; n++ {
			for _, s := range []sramc.Strength{sramc.X1, sramc.X2, sramc.X4} {
				name := cellName(fn, n, s)
				in := make([]string, n)
				for i := range in {
					in[i] = "A" + strconv.Itoa(i+1)
				}
				out := "ZN"
				if fn == "AND" || fn == "OR" {
					out = "Z"
				}
				c := newCMOS(name, s, append(append([]string(nil), in...), out, "VDD", "VSS"))
				switch fn {
				case "NAND":
					c.nand(in, out)
				case "NOR":
					c.nor(in, out)
				case "AND":
					c.nand(in, "n_int")
					c.inv("n_int", out, 1)
				case "OR":
					c.nor(in, "n_int")
					c.inv("n_int", out, 1)
				}
				c.write(&sb)
				d.Gates = append(d.Gates, Gate{Cell: name, Function: strings.ToLower(fn), Strength: s.String(), Inputs: in, Output: out, Vdd: "VDD", Gnd: "VSS"})
			}
		}
	}
	for _, s := range []sramc.Strength{sramc.X1, sramc.X2} {
		name := cellName("DFF", 0, s)
		c := newCMOS(name, s, []string{"D", "CK", "Q", "QN", "VDD", "VSS"})
		c.inv("CK", "ckn", 1)
		c.inv("ckn", "ckp", 1)
		// master latch, transparent while CK is low
		c.tgate("D", "m1", "ckn", "ckp")
		c.inv("m1", "m2", 1)
		c.inv("m2", "m3", 1)
		c.tgate("m3", "m1", "ckp", "ckn")
		// slave latch, transparent while CK is high
		c.tgate("m2", "s1", "ckp", "ckn")
		c.inv("s1", "Q", 1)
		c.inv("Q", "s3", 1)
		c.tgate("s3", "s1", "ckn", "ckp")
		c.inv("Q", "QN", 1)
		c.write(&sb)
		d.DFFs = append(d.DFFs, DFF{Cell: name, Strength: s.String(), D: "D", Clk: "CK", Q: "Q", QN: "QN", Vdd: "VDD", Gnd: "VSS"})
	}

	// 6T bitcell
	c := newCMOS("sram_6t", sramc.X1, []string{"bl", "br", "wl", "vdd", "gnd"})
	c.vdd, c.gnd = "vdd", "gnd"
	c.inv("q", "qb", 1)
	c.inv("qb", "q", 1)
	c.nmos("bl", "wl", "q", 1)
	c.nmos("br", "wl", "qb", 1)
	c.write(&sb)
	d.Leafcells[sramc.Bitcell.String()] = "sram_6t"

	// latch type sense amplifier
	c = newCMOS("sense_amp", sramc.X1, []string{"bl", "br", "dout", "en", "vdd", "gnd"})
	c.vdd, c.gnd = "vdd", "gnd"
	c.pmos("dint", "br", "vdd", 1)
	c.nmos("dint", "br", "tail", 1)
	c.pmos("dintb", "bl", "vdd", 1)
	c.nmos("dintb", "bl", "tail", 1)
	c.nmos("tail", "en", "gnd", 2)
	c.pmos("bl", "dint", "vdd", 1)
	c.pmos("br", "dintb", "vdd", 1)
	c.inv("dint", "dout", 2)
	c.write(&sb)
	d.Leafcells[sramc.SenseAmp.String()] = "sense_amp"

	c = newCMOS("write_driver", sramc.X1, []string{"din", "bl", "br", "en", "vdd", "gnd"})
	c.vdd, c.gnd = "vdd", "gnd"
	c.inv("din", "din_b", 1)
	c.nand([]string{"din", "en"}, "bl_pd_b")
	c.nand([]string{"din_b", "en"}, "br_pd_b")
	c.inv("bl_pd_b", "br_pd", 1)
	c.inv("br_pd_b", "bl_pd", 1)
	c.nmos("bl", "bl_pd", "gnd", 4)
	c.nmos("br", "br_pd", "gnd", 4)
	c.write(&sb)
	d.Leafcells[sramc.WriteDriver.String()] = "write_driver"

	c = newCMOS("column_trigate", sramc.X1, []string{"bl", "br", "bl_o", "br_o", "sel", "vdd", "gnd"})
	c.vdd, c.gnd = "vdd", "gnd"
	c.inv("sel", "sel_b", 1)
	c.tgate("bl", "bl_o", "sel", "sel_b")
	c.tgate("br", "br_o", "sel", "sel_b")
	c.write(&sb)
	d.Leafcells[sramc.ColumnTriGate.String()] = "column_trigate"

	c = newCMOS("precharge", sramc.X1, []string{"bl", "br", "en", "vdd"})
	c.vdd = "vdd"
	c.pmos("bl", "en", "vdd", 2)
	c.pmos("br", "en", "vdd", 2)
	c.pmos("bl", "en", "br", 1)
	c.write(&sb)
	d.Leafcells[sramc.Precharge.String()] = "precharge"

	return d, sb.String()
}

func cellName(fn string, n int, s sramc.Strength) string {
	if n > 0 {
		fn += strconv.Itoa(n)
	}
	return fn + "_X" + strconv.Itoa(int(s))
}

// cmos accumulates transistor statements of a subcircuit.
type cmos struct {
	name     string
	ports    []string
	s        sramc.Strength
	vdd, gnd string
	lines    []string
}

func newCMOS(name string, s sramc.Strength, ports []string) *cmos {
	return &cmos{name: name, ports: ports, s: s, vdd: "VDD", gnd: "VSS"}
}

func (c *cmos) mos(model, d, g, s, b string, w float64) {
	c.lines = append(c.lines, fmt.Sprintf("M%d %s %s %s %s %s W=%.3fu L=%.3fu", len(c.lines), d, g, s, b, model, w, genericL))
}

func (c *cmos) nmos(d, g, s string, mult float64) {
	c.mos("nmos", d, g, s, c.gnd, genericWN*mult*float64(c.s))
}

func (c *cmos) pmos(d, g, s string, mult float64) {
	c.mos("pmos", d, g, s, c.vdd, genericWP*mult*float64(c.s))
}

func (c *cmos) inv(in, out string, mult float64) {
	c.pmos(out, in, c.vdd, mult)
	c.nmos(out, in, c.gnd, mult)
}

func (c *cmos) tgate(a, b, ngate, pgate string) {
	c.nmos(a, ngate, b, 1)
	c.pmos(a, pgate, b, 1)
}

// nand: parallel pull-ups, series pull-downs.
func (c *cmos) nand(in []string, out string) {
	n := float64(len(in))
	src := c.gnd
	for i := len(in) - 1; i >= 0; i-- {
		c.pmos(out, in[i], c.vdd, 1)
		drain := out
		if i > 0 {
			drain = out + "_n" + strconv.Itoa(i)
		}
		c.nmos(drain, in[i], src, n)
		src = drain
	}
}

// nor: series pull-ups, parallel pull-downs.
func (c *cmos) nor(in []string, out string) {
	n := float64(len(in))
	src := c.vdd
	for i := len(in) - 1; i >= 0; i-- {
		c.nmos(out, in[i], c.gnd, 1)
		drain := out
		if i > 0 {
			drain = out + "_p" + strconv.Itoa(i)
		}
		c.pmos(drain, in[i], src, n)
		src = drain
	}
}

func (c *cmos) write(sb *strings.Builder) {
	sb.WriteString(".SUBCKT " + c.name)
	for _, p := range c.ports {
		sb.WriteString(" " + p)
	}
	sb.WriteByte('\n')
	for _, l := range c.lines {
		sb.WriteString(l + "\n")
	}
	sb.WriteString(".ENDS " + c.name + "\n\n")
}
