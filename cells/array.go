// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cells

import (
	"github.com/db47h/sramc"
	"github.com/db47h/sramc/partition"
)

// BitcellArray is a Rows x Columns array of bitcells.
//
// Ports: bl{Columns}, br{Columns}, wl{Rows}.
//
// Arrays with at least partition.TileThreshold rows or columns are split in
// four kinds of sub-arrays, each of them built by the same rule:
//
//	+-----------+-----------+-----+------------+
//	| rowcol    | rowcol    | ... | col        |
//	+-----------+-----------+-----+------------+
//	| rowcol    | rowcol    | ... | col        |
//	+-----------+-----------+-----+------------+
//	| row       | row       | ... | corner     |
//	+-----------+-----------+-----+------------+
//
// where the row and column splits are given by partition.SubArrayFromSize.
// Smaller arrays are built with one bitcell instance per cell.
//
type BitcellArray struct {
	Rows    int
	Columns int
}

func (a BitcellArray) Kind() string { return KindBitcellArray }
func (a BitcellArray) Name() string { return sramc.CanonicalName(a.Kind(), a.Rows, a.Columns) }

// tile adds a sub-array whose top left cell is at (row, col).
func (a BitcellArray) tile(m *sramc.Module, f *sramc.Factory, name string, row, col, rows, cols int) error {
	return link(m, f, name, BitcellArray{rows, cols},
		seq(cols, func(i int) string { return "bl" + itoa(col+i) }),
		seq(cols, func(i int) string { return "br" + itoa(col+i) }),
		seq(rows, func(i int) string { return "wl" + itoa(row+i) }),
		supplies())
}

func (a BitcellArray) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(a.Rows >= 1 && a.Columns >= 1, "invalid array size %dx%d", a.Rows, a.Columns); err != nil {
		return err
	}
	if err := addPorts(m,
		bus("bl", a.Columns, sramc.InOut),
		bus("br", a.Columns, sramc.InOut),
		bus("wl", a.Rows, sramc.Input)); err != nil {
		return err
	}

	if !partition.Tiled(a.Rows, a.Columns) {
		for r := 0; r < a.Rows; r++ {
			for c := 0; c < a.Columns; c++ {
				_, err := m.LinkLeafcell(f, "bitcell_"+itoa(r)+"_"+itoa(c), sramc.Bitcell,
					"bl"+itoa(c), "br"+itoa(c), "wl"+itoa(r), vdd, gnd)
				if err != nil {
					return err
				}
			}
		}
		return nil
	}

	ri := partition.SubArrayFromSize(a.Rows)
	ci := partition.SubArrayFromSize(a.Columns)
	for r := 0; r < ri.Count; r++ {
		for c := 0; c < ci.Count; c++ {
			err := a.tile(m, f, "rowcol_subarray_"+itoa(r)+"_"+itoa(c), r*ri.Size, c*ci.Size, ri.Size, ci.Size)
			if err != nil {
				return err
			}
		}
	}
	if ri.Remainder > 0 {
		for c := 0; c < ci.Count; c++ {
			err := a.tile(m, f, "row_subarray_"+itoa(c), ri.Count*ri.Size, c*ci.Size, ri.Remainder, ci.Size)
			if err != nil {
				return err
			}
		}
	}
	if ci.Remainder > 0 {
		for r := 0; r < ri.Count; r++ {
			err := a.tile(m, f, "col_subarray_"+itoa(r), r*ri.Size, ci.Count*ci.Size, ri.Size, ci.Remainder)
			if err != nil {
				return err
			}
		}
	}
	if ri.Remainder > 0 && ci.Remainder > 0 {
		return a.tile(m, f, "subarray", ri.Count*ri.Size, ci.Count*ci.Size, ri.Remainder, ci.Remainder)
	}
	return nil
}

// replicaLinked is the number of replica bitcells driven by the replica
// wordline. The others have their wordline tied to gnd.
const replicaLinked = 2

// ReplicaBitcellArray is a column of Size bitcells on the replica bitline
// pair used to time sense amplifier enable.
//
// Ports: rbl, rbr, wl.
//
type ReplicaBitcellArray struct {
	Size int
}

func (a ReplicaBitcellArray) Kind() string { return KindReplicaBitcellArray }
func (a ReplicaBitcellArray) Name() string { return sramc.CanonicalName(a.Kind(), a.Size) }

func (a ReplicaBitcellArray) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(a.Size >= replicaLinked, "replica bitcell count %d < %d", a.Size, replicaLinked); err != nil {
		return err
	}
	if err := addPorts(m,
		port("rbl", sramc.InOut),
		port("rbr", sramc.InOut),
		port("wl", sramc.Input)); err != nil {
		return err
	}
	for i := 0; i < a.Size; i++ {
		wl := gnd
		if i < replicaLinked {
			wl = "wl"
		}
		if _, err := m.LinkLeafcell(f, "bitcell"+itoa(i), sramc.Bitcell, "rbl", "rbr", wl, vdd, gnd); err != nil {
			return err
		}
	}
	return nil
}

// PrechargeArray has one precharge cell per bitline pair.
//
// Ports: bl{Columns}, br{Columns}, p_en_bar, vdd. It has no gnd port.
//
type PrechargeArray struct {
	Columns int
}

func (a PrechargeArray) Kind() string { return KindPrechargeArray }
func (a PrechargeArray) Name() string { return sramc.CanonicalName(a.Kind(), a.Columns) }

func (a PrechargeArray) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(a.Columns >= 1, "column count %d < 1", a.Columns); err != nil {
		return err
	}
	for _, d := range []portDef{
		bus("bl", a.Columns, sramc.InOut),
		bus("br", a.Columns, sramc.InOut),
		port("p_en_bar", sramc.Input),
		port(vdd, sramc.Vdd),
	} {
		for _, n := range d.names {
			if _, err := m.AddPort(n, d.dir); err != nil {
				return err
			}
		}
	}
	for i := 0; i < a.Columns; i++ {
		if _, err := m.LinkLeafcell(f, "precharge"+itoa(i), sramc.Precharge, "bl"+itoa(i), "br"+itoa(i), "p_en_bar", vdd); err != nil {
			return err
		}
	}
	return nil
}

// SenseAmpArray has one sense amplifier per bitline pair.
//
// Ports: bl{Columns}, br{Columns}, dout{Columns}, sa_en.
//
type SenseAmpArray struct {
	Columns int
}

func (a SenseAmpArray) Kind() string { return KindSenseAmpArray }
func (a SenseAmpArray) Name() string { return sramc.CanonicalName(a.Kind(), a.Columns) }

func (a SenseAmpArray) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(a.Columns >= 1, "column count %d < 1", a.Columns); err != nil {
		return err
	}
	if err := addPorts(m,
		bus("bl", a.Columns, sramc.InOut),
		bus("br", a.Columns, sramc.InOut),
		bus("dout", a.Columns, sramc.Output),
		port("sa_en", sramc.Input)); err != nil {
		return err
	}
	for i := 0; i < a.Columns; i++ {
		_, err := m.LinkLeafcell(f, "sense_amp"+itoa(i), sramc.SenseAmp,
			"bl"+itoa(i), "br"+itoa(i), "dout"+itoa(i), "sa_en", vdd, gnd)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteDriverArray has one write driver per bitline pair.
//
// Ports: din{Columns}, bl{Columns}, br{Columns}, we_en.
//
type WriteDriverArray struct {
	Columns int
}

func (a WriteDriverArray) Kind() string { return KindWriteDriverArray }
func (a WriteDriverArray) Name() string { return sramc.CanonicalName(a.Kind(), a.Columns) }

func (a WriteDriverArray) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(a.Columns >= 1, "column count %d < 1", a.Columns); err != nil {
		return err
	}
	if err := addPorts(m,
		bus("din", a.Columns, sramc.Input),
		bus("bl", a.Columns, sramc.InOut),
		bus("br", a.Columns, sramc.InOut),
		port("we_en", sramc.Input)); err != nil {
		return err
	}
	for i := 0; i < a.Columns; i++ {
		_, err := m.LinkLeafcell(f, "write_driver"+itoa(i), sramc.WriteDriver,
			"din"+itoa(i), "bl"+itoa(i), "br"+itoa(i), "we_en", vdd, gnd)
		if err != nil {
			return err
		}
	}
	return nil
}
