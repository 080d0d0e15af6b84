// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cells

import (
	"github.com/db47h/sramc"
	"github.com/db47h/sramc/partition"
)

// AndArray gates Size lines with a common enable: Z{i} = A{i} & en.
//
// Ports: A{Size}, en, Z{Size}.
//
type AndArray struct {
	Size int
}

func (a AndArray) Kind() string { return KindAndArray }
func (a AndArray) Name() string { return sramc.CanonicalName(a.Kind(), a.Size) }

func (a AndArray) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(a.Size >= 1, "and array size %d < 1", a.Size); err != nil {
		return err
	}
	if err := addPorts(m,
		bus("A", a.Size, sramc.Input),
		port("en", sramc.Input),
		bus("Z", a.Size, sramc.Output)); err != nil {
		return err
	}
	for i := 0; i < a.Size; i++ {
		if _, err := m.LinkGate(f, "and"+itoa(i), sramc.AndGate(2), sramc.X2, []string{"A" + itoa(i), "en"}, "Z"+itoa(i)); err != nil {
			return err
		}
	}
	return nil
}

// Buffer is a pair of inverters of the given strength.
//
// Ports: A, Z.
//
type Buffer struct {
	Strength sramc.Strength
}

func (b Buffer) Kind() string { return KindBuffer }
func (b Buffer) Name() string { return sramc.CanonicalName(b.Kind(), b.Strength) }

func (b Buffer) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := addPorts(m, port("A", sramc.Input), port("Z", sramc.Output)); err != nil {
		return err
	}
	if _, err := m.LinkInv(f, "inv1", b.Strength, "A", "Z_bar"); err != nil {
		return err
	}
	_, err := m.LinkInv(f, "inv2", b.Strength, "Z_bar", "Z")
	return err
}

// WordlineDriver buffers a wordline that drives Fanout bitcells.
//
// Ports: wl_in, wl.
//
type WordlineDriver struct {
	Fanout int
}

func (w WordlineDriver) Kind() string { return KindWordlineDriver }
func (w WordlineDriver) Name() string { return sramc.CanonicalName(w.Kind(), w.Fanout) }

// Strength returns the drive strength of the buffer.
//
func (w WordlineDriver) Strength() sramc.Strength {
	switch {
	case w.Fanout > 16:
		return sramc.X4
	case w.Fanout > 1:
		return sramc.X2
	}
	return sramc.X1
}

func (w WordlineDriver) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(w.Fanout >= 1, "fanout %d < 1", w.Fanout); err != nil {
		return err
	}
	if err := addPorts(m, port("wl_in", sramc.Input), port("wl", sramc.Output)); err != nil {
		return err
	}
	return link(m, f, "buffer", Buffer{w.Strength()}, []string{"wl_in", "wl"}, supplies())
}

// WordlineDriverArray has one wordline driver per row.
//
// Ports: wl_in{Size}, wl{Size}.
//
type WordlineDriverArray struct {
	Fanout int
	Size   int
}

func (w WordlineDriverArray) Kind() string { return KindWordlineDriverArray }
func (w WordlineDriverArray) Name() string { return sramc.CanonicalName(w.Kind(), w.Fanout, w.Size) }

func (w WordlineDriverArray) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(w.Size >= 1, "wordline count %d < 1", w.Size); err != nil {
		return err
	}
	if err := addPorts(m, bus("wl_in", w.Size, sramc.Input), bus("wl", w.Size, sramc.Output)); err != nil {
		return err
	}
	for i := 0; i < w.Size; i++ {
		err := link(m, f, "wordline_driver"+itoa(i), WordlineDriver{w.Fanout}, []string{"wl_in" + itoa(i), "wl" + itoa(i)}, supplies())
		if err != nil {
			return err
		}
	}
	return nil
}

// FanoutBuffer distributes its input to Size outputs through an inverter tree
// (see partition.FanoutTree). An extra inverter at the input keeps the
// outputs non-inverted when the tree depth is odd.
//
// Ports: in, out{Size}.
//
type FanoutBuffer struct {
	Size int
}

func (b FanoutBuffer) Kind() string { return KindFanoutBuffer }
func (b FanoutBuffer) Name() string { return sramc.CanonicalName(b.Kind(), b.Size) }

func treeNet(level, i int) string { return "net_" + itoa(level) + "_" + itoa(i) }

func (b FanoutBuffer) Build(m *sramc.Module, f *sramc.Factory) error {
	if err := sramc.Check(b.Size > 1, "fanout %d <= 1", b.Size); err != nil {
		return err
	}
	levels, err := partition.FanoutTree(b.Size)
	if err != nil {
		return sramc.InvalidArgf("%v", err)
	}
	if err = addPorts(m, port("in", sramc.Input), bus("out", b.Size, sramc.Output)); err != nil {
		return err
	}
	for l, lv := range levels {
		for i := 0; i < lv.Inverters; i++ {
			in := "net_begin"
			if l > 0 {
				in = treeNet(l-1, i/levels[l-1].Fanout)
			}
			if _, err = m.LinkInv(f, "inv_"+itoa(l)+"_"+itoa(i), sramc.X2, in, treeNet(l, i)); err != nil {
				return err
			}
		}
	}
	if len(levels)%2 != 0 {
		if _, err = m.LinkInv(f, "inv", sramc.X2, "in", "net_begin"); err != nil {
			return err
		}
	} else {
		m.ConnectNets("in", "net_begin")
	}
	last := len(levels) - 1
	for i := 0; i < b.Size; i++ {
		m.ConnectNets("out"+itoa(i), treeNet(last, i/levels[last].Fanout))
	}
	return nil
}
