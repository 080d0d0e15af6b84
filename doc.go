// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package sramc provides the circuit model of an SRAM compiler: hierarchical
modules built from the primitives of a PDK (gates, flip-flops and memory leaf
cells), a memoizing factory to build them and netlist writers.

A module is described by an Args value that knows how to build it. The
Factory builds each distinct module once and hands out the same *Module to
every user:

	lib, _ := pdk.Generic()
	f := sramc.NewFactory(lib)
	m, err := f.Module(cells.Decoder{Inputs: 4})
	if err != nil {
		// ...
	}
	err = sramc.WriteSpice(os.Stdout, m)

Inside a Build method, sub-circuits are requested from the factory and wired
to nets of the module, either by position (Connect), by pin name (ConnectW)
or, for primitives, by pin role (ConnectRoles).

Every module has vdd and gnd supply nets, named VddNet and GndNet.

Errors returned by this package wrap one of the Err* values. Use errors.Is
to test them.
*/
package sramc
