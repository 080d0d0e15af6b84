// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cells

import (
	"github.com/db47h/sramc"
	"github.com/db47h/sramc/partition"
)

const decoderStrength = sramc.X2

// Decoder is a one-hot address decoder: output Y{i} is high when the input
// A{Inputs} encodes i, A0 being the least significant bit.
//
// Ports: A{Inputs}, Y{2^Inputs}.
//
type Decoder struct {
	Inputs int
}

func (d Decoder) Kind() string { return KindDecoder }
func (d Decoder) Name() string { return sramc.CanonicalName(d.Kind(), d.Inputs, d.Outputs()) }

// Outputs returns the number of decoder outputs.
//
func (d Decoder) Outputs() int { return 1 << uint(d.Inputs) }

func (d Decoder) Build(m *sramc.Module, f *sramc.Factory) error {
	kind, err := partition.DecoderKindOf(d.Inputs)
	if err != nil {
		return sramc.InvalidArgf("%v", err)
	}
	if err = addPorts(m,
		bus("A", d.Inputs, sramc.Input),
		bus("Y", d.Outputs(), sramc.Output)); err != nil {
		return err
	}
	switch kind {
	case partition.OneAddress:
		if _, err = m.LinkInv(f, "inv0", decoderStrength, "A0", "Y0"); err != nil {
			return err
		}
		_, err = m.LinkInv(f, "inv1", decoderStrength, "Y0", "Y1")
		return err
	case partition.Simple:
		return d.buildSimple(m, f)
	}
	return d.buildComposite(m, f)
}

// buildSimple uses one AND gate per output over the true and complement
// inputs: input j of gate i is Aj if bit j of i is set, Aj_bar otherwise.
func (d Decoder) buildSimple(m *sramc.Module, f *sramc.Factory) error {
	for j := 0; j < d.Inputs; j++ {
		if _, err := m.LinkInv(f, "inv"+itoa(j), decoderStrength, "A"+itoa(j), "A"+itoa(j)+"_bar"); err != nil {
			return err
		}
	}
	for i := 0; i < d.Outputs(); i++ {
		in := seq(d.Inputs, func(j int) string {
			if i>>uint(j)&1 != 0 {
				return "A" + itoa(j)
			}
			return "A" + itoa(j) + "_bar"
		})
		if _, err := m.LinkGate(f, "and"+itoa(i), sramc.AndGate(d.Inputs), decoderStrength, in, "Y"+itoa(i)); err != nil {
			return err
		}
	}
	return nil
}

// buildComposite combines sub-decoders with one AND gate per output.
func (d Decoder) buildComposite(m *sramc.Module, f *sramc.Factory) error {
	widths, err := partition.SubDecoders(d.Inputs)
	if err != nil {
		return sramc.InvalidArgf("%v", err)
	}
	addr := 0
	for k, w := range widths {
		sub := Decoder{w}
		err := link(m, f, "decoder"+itoa(k), sub,
			seq(w, func(i int) string { return "A" + itoa(addr+i) }),
			seq(sub.Outputs(), func(i int) string { return subLine(k, i) }),
			supplies())
		if err != nil {
			return err
		}
		addr += w
	}
	and := sramc.AndGate(len(widths))
	for i := 0; i < d.Outputs(); i++ {
		lines := partition.SubDecoderLines(i, widths)
		in := seq(len(lines), func(k int) string { return subLine(k, lines[k]) })
		if _, err := m.LinkGate(f, "and"+itoa(i), and, decoderStrength, in, "Y"+itoa(i)); err != nil {
			return err
		}
	}
	return nil
}

func subLine(decoder, line int) string { return "Y_" + itoa(decoder) + "_" + itoa(line) }
