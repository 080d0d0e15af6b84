// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sim provides a zero-delay logic simulator for the digital part of
// a circuit hierarchy.
//
// The hierarchy is flattened down to its gates and flip-flops. Leaf cells are
// analog and are ignored: nets only driven by leaf cells keep whatever value
// they are given with Set. The vdd and gnd nets of the root module are tied
// to 1 and 0.
//
// Each Step computes the next state of all nets from the current one, then
// swaps both states. Settle steps until the state is stable.
//
package sim

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/db47h/sramc"
	"github.com/pkg/errors"
)

// Simulation errors.
//
var (
	ErrNetNotFound = errors.New("net not found")
	ErrUnstable    = errors.New("circuit does not settle")
)

const (
	sigFalse = iota
	sigTrue
	sigCount
)

type gate struct {
	kind sramc.GateKind
	in   []uint
	out  uint
}

type dff struct {
	d, clk, q, qn uint
	clkPrev       bool
}

// Circuit is a runnable simulation of a flattened module.
//
type Circuit struct {
	s0, s1 *bitset.BitSet // net states, current and next frame
	names  map[string]uint
	gates  []gate
	dffs   []dff
	count  uint
	steps  uint
	buf    []bool
}

// New flattens root into a new circuit. All nets start low.
//
func New(root *sramc.Module) (*Circuit, error) {
	b := &builder{parent: []uint{sigFalse, sigTrue}}
	top := make(map[string]uint)
	top[sramc.VddNet] = sigTrue
	top[sramc.GndNet] = sigFalse
	local, err := b.module(root, "", top)
	if err != nil {
		return nil, errors.WithMessagef(err, "simulate %s", root.Name())
	}

	c := &Circuit{names: make(map[string]uint, len(local)), count: uint(len(b.parent))}
	for n, id := range local {
		c.names[n] = b.find(id)
	}
	maxIn := 1
	for _, g := range b.gates {
		for i := range g.in {
			g.in[i] = b.find(g.in[i])
		}
		g.out = b.find(g.out)
		c.gates = append(c.gates, g)
		if len(g.in) > maxIn {
			maxIn = len(g.in)
		}
	}
	for _, f := range b.dffs {
		f.d, f.clk, f.q, f.qn = b.find(f.d), b.find(f.clk), b.find(f.q), b.find(f.qn)
		c.dffs = append(c.dffs, f)
	}
	c.buf = make([]bool, maxIn)
	c.s0 = bitset.New(c.count)
	c.s1 = bitset.New(c.count)
	c.s0.Set(sigTrue)
	c.s1.Set(sigTrue)
	return c, nil
}

// builder allocates signals while walking the hierarchy. Nets tied together
// by shorts are merged with a union-find.
type builder struct {
	parent []uint
	gates  []gate
	dffs   []dff
}

func (b *builder) alloc() uint {
	n := uint(len(b.parent))
	b.parent = append(b.parent, n)
	return n
}

func (b *builder) find(n uint) uint {
	for b.parent[n] != n {
		b.parent[n] = b.parent[b.parent[n]]
		n = b.parent[n]
	}
	return n
}

// union merges two signals. Constants always win as representatives.
func (b *builder) union(x, y uint) {
	x, y = b.find(x), b.find(y)
	if x == y {
		return
	}
	if y < sigCount {
		x, y = y, x
	}
	b.parent[y] = x
}

// module allocates the nets of m and returns their signals by hierarchical
// name. ports maps the port names of m to signals of the parent.
func (b *builder) module(m *sramc.Module, prefix string, ports map[string]uint) (map[string]uint, error) {
	nets := make(map[*sramc.Net]uint)
	names := make(map[string]uint)
	for _, n := range m.Nets() {
		id, ok := ports[n.Name]
		if !ok {
			id = b.alloc()
		}
		nets[n] = id
		names[prefix+n.Name] = id
	}
	for _, s := range m.Shorts() {
		b.union(nets[s.A], nets[s.B])
	}
	for _, inst := range m.Instances() {
		pins := make(map[string]uint, len(inst.Pins))
		for _, p := range inst.Pins {
			if n := p.Net(); n != nil {
				pins[p.Name] = nets[n]
			} else {
				pins[p.Name] = b.alloc()
			}
		}
		switch t := inst.Template.(type) {
		case *sramc.Module:
			sub, err := b.module(t, prefix+inst.Name+"/", pins)
			if err != nil {
				return nil, err
			}
			for k, v := range sub {
				names[k] = v
			}
		case *sramc.Primitive:
			if err := b.primitive(t, inst, pins); err != nil {
				return nil, errors.WithMessagef(err, "instance %s%s", prefix, inst.Name)
			}
		}
	}
	return names, nil
}

func (b *builder) primitive(p *sramc.Primitive, inst *sramc.Instance, pins map[string]uint) error {
	sig := func(r sramc.Role) (uint, error) {
		i, ok := p.PortIndex(r)
		if !ok {
			return 0, errors.Wrapf(sramc.ErrPinNotFound, "%s pin of %s", r, p.Name())
		}
		return pins[inst.Pins[i].Name], nil
	}
	switch p.Class() {
	case sramc.ClassGate:
		g := gate{kind: p.GateKind(), in: make([]uint, p.Inputs())}
		var err error
		for i := range g.in {
			if g.in[i], err = sig(sramc.InputRole(i)); err != nil {
				return err
			}
		}
		if g.out, err = sig(sramc.OutputRole); err != nil {
			return err
		}
		b.gates = append(b.gates, g)
	case sramc.ClassDFF:
		var f dff
		var err error
		for _, x := range []struct {
			r sramc.Role
			p *uint
		}{{sramc.InputRole(0), &f.d}, {sramc.ClockRole, &f.clk}, {sramc.QRole, &f.q}, {sramc.QNRole, &f.qn}} {
			if *x.p, err = sig(x.r); err != nil {
				return err
			}
		}
		b.dffs = append(b.dffs, f)
	}
	return nil
}

// Size returns the number of gates and flip-flops in the circuit.
//
func (c *Circuit) Size() int { return len(c.gates) + len(c.dffs) }

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint { return c.steps }

func (c *Circuit) lookup(name string) (uint, error) {
	n, ok := c.names[name]
	if !ok {
		return 0, errors.Wrapf(ErrNetNotFound, "net %s", name)
	}
	return n, nil
}

// Get returns the state of the named net. Nets of sub-modules are named by
// their instance path, like "core/bank/wl_en".
//
func (c *Circuit) Get(name string) (bool, error) {
	n, err := c.lookup(name)
	if err != nil {
		return false, err
	}
	return c.s0.Test(n), nil
}

// Set sets the state of the named net. Setting a net tied to vdd or gnd
// fails.
//
func (c *Circuit) Set(name string, v bool) error {
	n, err := c.lookup(name)
	if err != nil {
		return err
	}
	if n < sigCount {
		return errors.Errorf("net %s is a supply net", name)
	}
	c.s0.SetTo(n, v)
	return nil
}

// SetBus sets nets prefix0 .. prefixN-1 to the bits of v, LSB first.
//
func (c *Circuit) SetBus(prefix string, n int, v uint64) error {
	for i, name := range sramc.Bus(prefix, n) {
		if err := c.Set(name, v&(1<<uint(i)) != 0); err != nil {
			return err
		}
	}
	return nil
}

// GetBus returns the value of nets prefix0 .. prefixN-1, LSB first.
//
func (c *Circuit) GetBus(prefix string, n int) (uint64, error) {
	var v uint64
	for i, name := range sramc.Bus(prefix, n) {
		b, err := c.Get(name)
		if err != nil {
			return 0, err
		}
		if b {
			v |= 1 << uint(i)
		}
	}
	return v, nil
}

// Step advances the simulation by one step and reports whether any net
// changed. Flip-flops latch their input on a rising clock edge.
//
func (c *Circuit) Step() bool {
	c.s0.CopyFull(c.s1)
	for i := range c.gates {
		g := &c.gates[i]
		in := c.buf[:len(g.in)]
		for j, n := range g.in {
			in[j] = c.s0.Test(n)
		}
		c.s1.SetTo(g.out, g.kind.Eval(in))
	}
	for i := range c.dffs {
		f := &c.dffs[i]
		clk := c.s0.Test(f.clk)
		if clk && !f.clkPrev {
			d := c.s0.Test(f.d)
			c.s1.SetTo(f.q, d)
			c.s1.SetTo(f.qn, !d)
		}
		f.clkPrev = clk
	}
	c.s1.Set(sigTrue)
	c.s1.Clear(sigFalse)
	c.steps++
	changed := !c.s0.Equal(c.s1)
	c.s0, c.s1 = c.s1, c.s0
	return changed
}

// Settle steps until no net changes. It fails with ErrUnstable if the
// circuit does not settle within one step per gate.
//
func (c *Circuit) Settle() error {
	for i := 0; i <= len(c.gates)+1; i++ {
		if !c.Step() {
			return nil
		}
	}
	return errors.Wrapf(ErrUnstable, "after %d steps", len(c.gates)+2)
}

// Clock settles the circuit, then pulses the named clock net high and low,
// settling after each edge.
//
func (c *Circuit) Clock(name string) error {
	for _, v := range []bool{false, true, false} {
		if err := c.Set(name, v); err != nil {
			return err
		}
		if err := c.Settle(); err != nil {
			return err
		}
	}
	return nil
}
