// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cells

import "github.com/db47h/sramc"

// ColumnMux connects one of Selects bitline pairs to a shared pair.
//
// Ports: sel{Selects}, bl{Selects}, br{Selects}, bl, br.
//
type ColumnMux struct {
	Selects int
}

func (c ColumnMux) Kind() string { return KindColumnMux }
func (c ColumnMux) Name() string { return sramc.CanonicalName(c.Kind(), c.Selects) }

func (c ColumnMux) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(c.Selects >= 2, "column mux with %d selects", c.Selects); err != nil {
		return err
	}
	if err := addPorts(m,
		bus("sel", c.Selects, sramc.Input),
		bus("bl", c.Selects, sramc.InOut),
		bus("br", c.Selects, sramc.InOut),
		port("bl", sramc.InOut),
		port("br", sramc.InOut)); err != nil {
		return err
	}
	for i := 0; i < c.Selects; i++ {
		_, err := m.LinkLeafcell(f, "column_mux_"+itoa(i), sramc.ColumnTriGate,
			"bl"+itoa(i), "br"+itoa(i), "bl", "br", "sel"+itoa(i), vdd, gnd)
		if err != nil {
			return err
		}
	}
	return nil
}

// ColumnMuxArray has Muxes column muxes sharing the same select lines.
//
// Ports: sel{Selects}, bl{m}_{s}, br{m}_{s}, bl{Muxes}, br{Muxes}.
//
type ColumnMuxArray struct {
	Selects int
	Muxes   int
}

func (c ColumnMuxArray) Kind() string { return KindColumnMuxArray }
func (c ColumnMuxArray) Name() string { return sramc.CanonicalName(c.Kind(), c.Selects, c.Muxes) }

func muxLine(prefix string, mux, sel int) string { return prefix + itoa(mux) + "_" + itoa(sel) }

// muxBus returns prefix{m}_{s} for all muxes and selects, mux major.
func muxBus(prefix string, muxes, selects int) []string {
	return seq(muxes*selects, func(i int) string { return muxLine(prefix, i/selects, i%selects) })
}

func (c ColumnMuxArray) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(c.Muxes >= 1, "column mux array with %d muxes", c.Muxes); err != nil {
		return err
	}
	if err := addPorts(m,
		bus("sel", c.Selects, sramc.Input),
		ports(muxBus("bl", c.Muxes, c.Selects), sramc.InOut),
		ports(muxBus("br", c.Muxes, c.Selects), sramc.InOut),
		bus("bl", c.Muxes, sramc.InOut),
		bus("br", c.Muxes, sramc.InOut)); err != nil {
		return err
	}
	for i := 0; i < c.Muxes; i++ {
		err := link(m, f, "mux"+itoa(i), ColumnMux{c.Selects},
			sramc.Bus("sel", c.Selects),
			seq(c.Selects, func(s int) string { return muxLine("bl", i, s) }),
			seq(c.Selects, func(s int) string { return muxLine("br", i, s) }),
			[]string{"bl" + itoa(i), "br" + itoa(i)},
			supplies())
		if err != nil {
			return err
		}
	}
	return nil
}

// DataPath connects Word*Selects bitline pairs to the data bus: column muxes
// (if Selects > 1), sense amplifiers and write drivers.
//
// Ports: sa_en, we_en, bl{Word*Selects}, br{Word*Selects}, sel{Selects} (only
// if Selects > 1), din{Word}, dout{Word}.
//
type DataPath struct {
	Word    int
	Selects int
}

func (d DataPath) Kind() string { return KindDataPath }
func (d DataPath) Name() string {
	return sramc.CanonicalName(d.Kind(), d.Word, d.Selects, d.Columns())
}

// Columns returns the number of bitline pairs.
//
func (d DataPath) Columns() int { return d.Word * d.Selects }

func (d DataPath) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(d.Word >= 1 && d.Selects >= 1, "invalid data path %dx%d", d.Word, d.Selects); err != nil {
		return err
	}
	sel := bus("sel", d.Selects, sramc.Input)
	if d.Selects == 1 {
		sel = portDef{dir: sramc.Input}
	}
	if err := addPorts(m,
		port("sa_en", sramc.Input),
		port("we_en", sramc.Input),
		bus("bl", d.Columns(), sramc.InOut),
		bus("br", d.Columns(), sramc.InOut),
		sel,
		bus("din", d.Word, sramc.Input),
		bus("dout", d.Word, sramc.Output)); err != nil {
		return err
	}

	var outBL, outBR []string
	if d.Selects > 1 {
		outBL = sramc.Bus("out_bl", d.Word)
		outBR = sramc.Bus("out_br", d.Word)
		// bitline pair mux*Selects+s goes to input s of mux
		err := link(m, f, "colmux_array", ColumnMuxArray{d.Selects, d.Word},
			sramc.Bus("sel", d.Selects),
			sramc.Bus("bl", d.Columns()),
			sramc.Bus("br", d.Columns()),
			outBL, outBR,
			supplies())
		if err != nil {
			return err
		}
	} else {
		outBL = sramc.Bus("bl", d.Word)
		outBR = sramc.Bus("br", d.Word)
	}

	if err := link(m, f, "senseamp_array", SenseAmpArray{d.Word},
		outBL, outBR, sramc.Bus("dout", d.Word), []string{"sa_en"}, supplies()); err != nil {
		return err
	}
	return link(m, f, "write_array", WriteDriverArray{d.Word},
		sramc.Bus("din", d.Word), outBL, outBR, []string{"we_en"}, supplies())
}
