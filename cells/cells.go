// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cells implements the building blocks of an SRAM, from bitcell
// arrays up to the complete memory.
//
// Each block is described by an argument type implementing sramc.Args. Build
// a block by requesting it from a factory:
//
//	lib, _ := pdk.Generic()
//	f := sramc.NewFactory(lib)
//	m, err := f.Module(cells.SRAM{Address: 8, Word: 8})
//
// All blocks have vdd and gnd supply ports, declared last.
//
package cells

import (
	"strconv"

	"github.com/db47h/sramc"
)

// Block kinds.
//
const (
	KindDecoder             = "decoder"
	KindBitcellArray        = "bitcell_array"
	KindReplicaBitcellArray = "replica_bitcell_array"
	KindPrechargeArray      = "precharge_array"
	KindSenseAmpArray       = "sense_amp_array"
	KindWriteDriverArray    = "write_driver_array"
	KindColumnMux           = "column_mux"
	KindColumnMuxArray      = "column_mux_array"
	KindDataPath            = "data_path"
	KindAndArray            = "and_array"
	KindBuffer              = "buffer"
	KindWordlineDriver      = "wordline_driver"
	KindWordlineDriverArray = "wordline_driver_array"
	KindFanoutBuffer        = "fanout_buffer"
	KindControlLogic        = "control_logic"
	KindInputDFFs           = "input_dffs"
	KindBank                = "bank"
	KindCore                = "core"
	KindCoreSelector        = "core_selector"
	KindSRAM                = "sram"
)

const (
	vdd = sramc.VddNet
	gnd = sramc.GndNet
)

// portDef declares one or more ports with the same direction.
type portDef struct {
	names []string
	dir   sramc.Direction
}

func port(name string, dir sramc.Direction) portDef {
	return portDef{[]string{name}, dir}
}

func bus(prefix string, n int, dir sramc.Direction) portDef {
	return portDef{sramc.Bus(prefix, n), dir}
}

func ports(names []string, dir sramc.Direction) portDef {
	return portDef{names, dir}
}

// addPorts adds the given ports followed by the vdd and gnd supplies.
func addPorts(m *sramc.Module, defs ...portDef) error {
	defs = append(defs, port(vdd, sramc.Vdd), port(gnd, sramc.Gnd))
	for _, d := range defs {
		for _, n := range d.names {
			if _, err := m.AddPort(n, d.dir); err != nil {
				return err
			}
		}
	}
	return nil
}

// seq returns the names f(0) .. f(n-1).
func seq(n int, f func(i int) string) []string {
	s := make([]string, n)
	for i := range s {
		s[i] = f(i)
	}
	return s
}

// cat concatenates net lists.
func cat(lists ...[]string) []string {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	out := make([]string, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func itoa(i int) string { return strconv.Itoa(i) }

// link adds an instance of sub named name, wired positionally.
func link(m *sramc.Module, f *sramc.Factory, name string, args sramc.Args, nets ...[]string) error {
	sub, err := m.AddModule(f, args)
	if err != nil {
		return err
	}
	inst, err := m.AddInstance(name, sub)
	if err != nil {
		return err
	}
	return m.Connect(inst, cat(nets...)...)
}

func supplies() []string { return []string{vdd, gnd} }
