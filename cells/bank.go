// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cells

import (
	"github.com/db47h/sramc"
	"github.com/db47h/sramc/partition"
)

// Bank is a bitcell array with its replica column, precharge cells and data
// path.
//
// Ports: wl_en, p_en_bar, sa_en, we_en, wl{Rows}, csel{Selects} (only if
// Selects > 1), din{Word}, dout{Word}, rbl.
//
type Bank struct {
	Rows    int
	Selects int
	Word    int
}

func (b Bank) Kind() string { return KindBank }
func (b Bank) Name() string {
	return sramc.CanonicalName(b.Kind(), b.Rows, b.Selects, b.Word, b.Columns())
}

// Columns returns the number of bitcell columns.
//
func (b Bank) Columns() int { return b.Selects * b.Word }

func (b Bank) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(b.Rows >= replicaLinked && b.Columns() >= 1, "invalid bank size %dx%d", b.Rows, b.Columns()); err != nil {
		return err
	}
	csel := bus("csel", b.Selects, sramc.Input)
	if b.Selects == 1 {
		csel = portDef{dir: sramc.Input}
	}
	if err := addPorts(m,
		port("wl_en", sramc.Input),
		port("p_en_bar", sramc.Input),
		port("sa_en", sramc.Input),
		port("we_en", sramc.Input),
		bus("wl", b.Rows, sramc.Input),
		csel,
		bus("din", b.Word, sramc.Input),
		bus("dout", b.Word, sramc.Output),
		port("rbl", sramc.InOut)); err != nil {
		return err
	}
	bl := sramc.Bus("bl", b.Columns())
	br := sramc.Bus("br", b.Columns())

	if err := link(m, f, "bitcell_array", BitcellArray{b.Rows, b.Columns()},
		bl, br, sramc.Bus("wl", b.Rows), supplies()); err != nil {
		return err
	}
	if err := link(m, f, "replica_bitcell_array", ReplicaBitcellArray{b.Rows},
		[]string{"rbl", "rbr", "wl_en"}, supplies()); err != nil {
		return err
	}
	if err := link(m, f, "precharge_array", PrechargeArray{b.Columns()},
		bl, br, []string{"p_en_bar", vdd}); err != nil {
		return err
	}
	if _, err := m.LinkLeafcell(f, "precharge_rbl", sramc.Precharge, "rbl", "rbr", "p_en_bar", vdd); err != nil {
		return err
	}
	var sel []string
	if b.Selects > 1 {
		sel = sramc.Bus("csel", b.Selects)
	}
	if err := link(m, f, "datapath", DataPath{b.Word, b.Selects},
		[]string{"sa_en", "we_en"}, bl, br, sel,
		sramc.Bus("din", b.Word), sramc.Bus("dout", b.Word), supplies()); err != nil {
		return err
	}
	// dummy write driver: loads the replica bitline like a data column
	_, err := m.LinkLeafcell(f, "writedriver", sramc.WriteDriver, gnd, "rbl", "rbr", "we_en", gnd, gnd)
	return err
}

// Core is a complete single port memory core: control logic, wordline
// drivers and a bank. Row and column selects are one-hot.
//
// Ports: clk, csb, we, rsel{Rows}, csel{Selects} (only if Selects > 1),
// din{Word}, dout{Word}.
//
type Core struct {
	Rows    int
	Selects int
	Word    int
}

func (c Core) Kind() string { return KindCore }
func (c Core) Name() string {
	return sramc.CanonicalName(c.Kind(), c.Rows, c.Selects, c.Word, c.Columns())
}

// Columns returns the number of bitcell columns.
//
func (c Core) Columns() int { return c.Selects * c.Word }

func (c Core) Build(m *sramc.Module, f *sramc.Factory) error {
	l := partition.DefaultLimits
	if err := sramc.Check(c.Rows >= 2 && c.Rows <= l.MaxRows, "row count %d out of range [2, %d]", c.Rows, l.MaxRows); err != nil {
		return err
	}
	if err := sramc.Check(c.Word >= 1 && c.Selects >= 1 && c.Columns() <= l.MaxColumns,
		"column count %d out of range [1, %d]", c.Columns(), l.MaxColumns); err != nil {
		return err
	}
	if err := sramc.Check(c.Rows*c.Columns() <= l.MaxRows*l.MaxColumns, "too many bitcells: %d", c.Rows*c.Columns()); err != nil {
		return err
	}
	csel := bus("csel", c.Selects, sramc.Input)
	var sel []string
	if c.Selects == 1 {
		csel = portDef{dir: sramc.Input}
	} else {
		sel = sramc.Bus("csel", c.Selects)
	}
	if err := addPorts(m,
		port("clk", sramc.Input),
		port("csb", sramc.Input),
		port("we", sramc.Input),
		bus("rsel", c.Rows, sramc.Input),
		csel,
		bus("din", c.Word, sramc.Input),
		bus("dout", c.Word, sramc.Output)); err != nil {
		return err
	}

	if err := link(m, f, "control_logic", ControlLogic{},
		[]string{"clk", "csb", "we", "rbl", "wl_en", "p_en_bar", "sa_en", "we_en"}, supplies()); err != nil {
		return err
	}
	// one copy of wl_en for the row gates, one for the replica column
	if err := link(m, f, "wl_en_buffer", FanoutBuffer{2},
		[]string{"wl_en", "wl_en_row", "wl_en_rbl"}, supplies()); err != nil {
		return err
	}
	if err := link(m, f, "andarray", AndArray{c.Rows},
		sramc.Bus("rsel", c.Rows), []string{"wl_en_row"}, sramc.Bus("wl_in", c.Rows), supplies()); err != nil {
		return err
	}
	if err := link(m, f, "wordline_driver_array", WordlineDriverArray{c.Columns(), c.Rows},
		sramc.Bus("wl_in", c.Rows), sramc.Bus("wl", c.Rows), supplies()); err != nil {
		return err
	}
	return link(m, f, "bank", Bank{c.Rows, c.Selects, c.Word},
		[]string{"wl_en_rbl", "p_en_bar", "sa_en", "we_en"},
		sramc.Bus("wl", c.Rows), sel,
		sramc.Bus("din", c.Word), sramc.Bus("dout", c.Word),
		[]string{"rbl"}, supplies())
}
