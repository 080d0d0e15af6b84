// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cells

import (
	"github.com/db47h/sramc"
	"github.com/db47h/sramc/partition"
)

const selectorStrength = sramc.X1

// CoreSelector decodes the core address of a multi-core memory: it derives
// one active-low chip select per core from csb and multiplexes the core
// outputs onto dout.
//
// Ports: csb, addr{Address}, dout_core{c}[{b}] for every core c and bit b,
// csb_core{2^Address}, dout{Word}.
//
type CoreSelector struct {
	Address int
	Word    int
}

func (s CoreSelector) Kind() string { return KindCoreSelector }
func (s CoreSelector) Name() string {
	return sramc.CanonicalName(s.Kind(), s.Address, s.Word, s.Cores())
}

// Cores returns the number of selected cores.
//
func (s CoreSelector) Cores() int { return 1 << uint(s.Address) }

func coreDout(core, bit int) string { return "dout_core" + itoa(core) + "[" + itoa(bit) + "]" }

func (s CoreSelector) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(s.Address >= 1 && s.Address <= partition.MaxSimpleDecoder, "core address width %d out of range", s.Address); err != nil {
		return err
	}
	if err := sramc.Check(s.Word >= 1, "word width %d < 1", s.Word); err != nil {
		return err
	}
	n := s.Cores()
	if err := addPorts(m,
		port("csb", sramc.Input),
		bus("addr", s.Address, sramc.Input),
		ports(seq(n*s.Word, func(i int) string { return coreDout(i/s.Word, i%s.Word) }), sramc.Input),
		bus("csb_core", n, sramc.Output),
		bus("dout", s.Word, sramc.Output)); err != nil {
		return err
	}
	y := sramc.Bus("y", n)
	if err := link(m, f, "decoder", Decoder{s.Address}, sramc.Bus("addr", s.Address), y, supplies()); err != nil {
		return err
	}
	for c := 0; c < n; c++ {
		ybar := "ybar" + itoa(c)
		if _, err := m.LinkInv(f, "csb_inv"+itoa(c), selectorStrength, y[c], ybar); err != nil {
			return err
		}
		if _, err := m.LinkGate(f, "csb_or"+itoa(c), sramc.OrGate(2), selectorStrength, []string{"csb", ybar}, "csb_core"+itoa(c)); err != nil {
			return err
		}
	}
	for b := 0; b < s.Word; b++ {
		var sel []string
		for c := 0; c < n; c++ {
			out := "y_" + coreDout(c, b)
			_, err := m.LinkGate(f, "dout_and_"+itoa(c)+"_"+itoa(b), sramc.AndGate(2), selectorStrength,
				[]string{y[c], coreDout(c, b)}, out)
			if err != nil {
				return err
			}
			sel = append(sel, out)
		}
		if _, err := m.LinkGate(f, "dout_or"+itoa(b), sramc.OrGate(n), selectorStrength, sel, "dout"+itoa(b)); err != nil {
			return err
		}
	}
	return nil
}

// SRAM is a complete synchronous single port memory of 2^Address words of
// Word bits. The address is split between column, row and core selects as
// computed by partition.Address with partition.DefaultLimits: the low
// address bits select a column, the high bits a core.
//
// Ports: clk, csb, we, addr{Address}, din{Word}, dout{Word}.
//
type SRAM struct {
	Address int
	Word    int
}

func (s SRAM) Kind() string { return KindSRAM }
func (s SRAM) Name() string { return sramc.CanonicalName(s.Kind(), s.Address, s.Word) }

// Distribution returns the address partition of the memory.
//
func (s SRAM) Distribution() (partition.Distribution, error) {
	return partition.Address(s.Address, s.Word, partition.DefaultLimits)
}

func (s SRAM) Build(m *sramc.Module, f *sramc.Factory) error {
	d, err := s.Distribution()
	if err != nil {
		return sramc.InvalidArgf("%v", err)
	}
	f.Logger().Info().
		Int("cores", d.Cores()).
		Int("rows", d.Rows).
		Int("columns", d.Columns).
		Int("core_address_width", d.CoreAddressWidth).
		Int("row_address_width", d.RowAddressWidth).
		Int("column_address_width", d.ColumnAddressWidth).
		Msg("address distribution")

	if err = addPorts(m,
		port("clk", sramc.Input),
		port("csb", sramc.Input),
		port("we", sramc.Input),
		bus("addr", s.Address, sramc.Input),
		bus("din", s.Word, sramc.Input),
		bus("dout", s.Word, sramc.Output)); err != nil {
		return err
	}

	addrR := seq(s.Address, func(i int) string { return "addr" + itoa(i) + "_r" })
	dinR := seq(s.Word, func(i int) string { return "din" + itoa(i) + "_r" })
	if err = link(m, f, "input_dffs", InputDFFs{s.Address, s.Word},
		[]string{"clk", "csb", "we"}, sramc.Bus("addr", s.Address), sramc.Bus("din", s.Word),
		[]string{"csb_r", "we_r"}, addrR, dinR, supplies()); err != nil {
		return err
	}

	colBits := addrR[:d.ColumnAddressWidth]
	rowBits := addrR[d.ColumnAddressWidth : d.ColumnAddressWidth+d.RowAddressWidth]
	coreBits := addrR[d.ColumnAddressWidth+d.RowAddressWidth:]

	rsel := sramc.Bus("rsel", d.Rows)
	if err = link(m, f, "row_decoder", Decoder{d.RowAddressWidth}, rowBits, rsel, supplies()); err != nil {
		return err
	}
	var csel []string
	if d.ColumnAddressWidth > 0 {
		csel = sramc.Bus("csel", d.ColumnSelects())
		if err = link(m, f, "col_decoder", Decoder{d.ColumnAddressWidth}, colBits, csel, supplies()); err != nil {
			return err
		}
	}

	core := Core{Rows: d.Rows, Selects: d.ColumnSelects(), Word: s.Word}
	if d.CoreAddressWidth == 0 {
		return link(m, f, "core", core,
			[]string{"clk", "csb_r", "we_r"}, rsel, csel, dinR, sramc.Bus("dout", s.Word), supplies())
	}

	n := d.Cores()
	csbCore := sramc.Bus("csb_core", n)
	douts := make([][]string, n)
	for c := range douts {
		c := c
		douts[c] = seq(s.Word, func(b int) string { return coreDout(c, b) })
	}
	if err = link(m, f, "core_selector", CoreSelector{d.CoreAddressWidth, s.Word},
		[]string{"csb_r"}, coreBits, cat(douts...), csbCore, sramc.Bus("dout", s.Word), supplies()); err != nil {
		return err
	}
	for c := 0; c < n; c++ {
		err = link(m, f, "core"+itoa(c), core,
			[]string{"clk", csbCore[c], "we_r"}, rsel, csel, dinR, douts[c], supplies())
		if err != nil {
			return err
		}
	}
	return nil
}
