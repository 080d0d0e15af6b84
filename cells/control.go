// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cells

import "github.com/db47h/sramc"

const controlStrength = sramc.X1

// ControlLogic generates the bank control signals from the clock, chip
// select, write enable and replica bitline:
//
//	wl_en    = (!csb & we) | (!csb & !clk & rbl)
//	p_en_bar = !(!csb & !we & clk)
//	sa_en    = !csb & !we & !clk & !rbl
//	we_en    = !csb & we
//
// Ports: clk, csb, we, rbl, wl_en, p_en_bar, sa_en, we_en.
//
type ControlLogic struct{}

func (ControlLogic) Kind() string { return KindControlLogic }
func (ControlLogic) Name() string { return sramc.CanonicalName(KindControlLogic) }

var controlGates = []struct {
	name string
	kind sramc.GateKind
	in   []string
	out  string
}{
	{"clk_inv", sramc.InvGate, []string{"clk"}, "clk_bar"},
	{"we_inv", sramc.InvGate, []string{"we"}, "we_bar"},
	{"csb_inv", sramc.InvGate, []string{"csb"}, "csb_bar"},
	{"rbl_inv", sramc.InvGate, []string{"rbl"}, "rbl_bar"},
	{"wl_and2", sramc.AndGate(2), []string{"csb_bar", "we"}, "wl_net1"},
	{"wl_and3", sramc.AndGate(3), []string{"csb_bar", "clk_bar", "rbl"}, "wl_net2"},
	{"wl_or2", sramc.OrGate(2), []string{"wl_net1", "wl_net2"}, "wl_en"},
	{"p_nand3", sramc.NandGate(3), []string{"csb_bar", "we_bar", "clk"}, "p_en_bar"},
	{"sa_and2_1", sramc.AndGate(2), []string{"csb_bar", "we_bar"}, "sa_net1"},
	{"sa_and2_2", sramc.AndGate(2), []string{"clk_bar", "rbl_bar"}, "sa_net2"},
	{"sa_and2", sramc.AndGate(2), []string{"sa_net1", "sa_net2"}, "sa_en"},
	{"we_and2", sramc.AndGate(2), []string{"csb_bar", "we"}, "we_en"},
}

func (ControlLogic) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := addPorts(m,
		port("clk", sramc.Input),
		port("csb", sramc.Input),
		port("we", sramc.Input),
		port("rbl", sramc.InOut),
		port("wl_en", sramc.Output),
		port("p_en_bar", sramc.Output),
		port("sa_en", sramc.Output),
		port("we_en", sramc.Output)); err != nil {
		return err
	}
	for _, g := range controlGates {
		if _, err := m.LinkGate(f, g.name, g.kind, controlStrength, g.in, g.out); err != nil {
			return err
		}
	}
	return nil
}

// InputDFFs registers the memory inputs on the rising edge of clk.
//
// Ports: clk, csb, we, addr{Address}, din{Word}, csb_r, we_r,
// addr_r{Address}, din_r{Word}.
//
type InputDFFs struct {
	Address int
	Word    int
}

func (d InputDFFs) Kind() string { return KindInputDFFs }
func (d InputDFFs) Name() string { return sramc.CanonicalName(d.Kind(), d.Address, d.Word) }

func (d InputDFFs) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(d.Address >= 1 && d.Word >= 1, "invalid input registers %dx%d", d.Address, d.Word); err != nil {
		return err
	}
	if err := addPorts(m,
		port("clk", sramc.Input),
		port("csb", sramc.Input),
		port("we", sramc.Input),
		bus("addr", d.Address, sramc.Input),
		bus("din", d.Word, sramc.Input),
		port("csb_r", sramc.Output),
		port("we_r", sramc.Output),
		bus("addr_r", d.Address, sramc.Output),
		bus("din_r", d.Word, sramc.Output)); err != nil {
		return err
	}
	const s = sramc.X1
	if _, err := m.LinkDFF(f, "we_dff", s, "we", "clk", "we_r", "we_qn"); err != nil {
		return err
	}
	if _, err := m.LinkDFF(f, "csb_dff", s, "csb", "clk", "csb_r", "csb_qn"); err != nil {
		return err
	}
	for i := 0; i < d.Address; i++ {
		n := itoa(i)
		if _, err := m.LinkDFF(f, "add_dff"+n, s, "addr"+n, "clk", "addr_r"+n, "addr"+n+"_qn"); err != nil {
			return err
		}
	}
	for i := 0; i < d.Word; i++ {
		n := itoa(i)
		if _, err := m.LinkDFF(f, "din_dff"+n, s, "din"+n, "clk", "din_r"+n, "din"+n+"_qn"); err != nil {
			return err
		}
	}
	return nil
}
