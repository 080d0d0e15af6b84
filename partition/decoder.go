// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package partition

import "github.com/pkg/errors"

// Decoder width limits.
//
const (
	MinDecoderWidth    = 1
	MaxDecoderWidth    = 12
	MaxSimpleDecoder   = 4
	firstCompositeSize = MaxSimpleDecoder + 1
)

// DecoderKind is the structure of a decoder.
//
type DecoderKind int

// Decoder kinds.
//
const (
	// OneAddress is a two inverter chain.
	OneAddress DecoderKind = iota
	// Simple decoders use one AND gate per output over true and complement
	// inputs.
	Simple
	// Composite decoders combine sub-decoders with one AND gate per output.
	Composite
)

func (k DecoderKind) String() string {
	switch k {
	case OneAddress:
		return "one-address"
	case Simple:
		return "simple"
	}
	return "composite"
}

var subDecoders = [...][]int{
	{2, 3},
	{3, 3},
	{3, 4},
	{4, 4},
	{3, 3, 3},
	{3, 3, 4},
	{3, 4, 4},
	{4, 4, 4},
}

func checkDecoderWidth(width int) error {
	if width < MinDecoderWidth || width > MaxDecoderWidth {
		return errors.Wrapf(ErrInvalidArgument, "decoder width %d out of range [%d, %d]", width, MinDecoderWidth, MaxDecoderWidth)
	}
	return nil
}

// DecoderKindOf returns the structure used for a decoder of the given width.
//
func DecoderKindOf(width int) (DecoderKind, error) {
	if err := checkDecoderWidth(width); err != nil {
		return 0, err
	}
	switch {
	case width == 1:
		return OneAddress, nil
	case width <= MaxSimpleDecoder:
		return Simple, nil
	}
	return Composite, nil
}

// SubDecoders returns the widths of the sub-decoders of a composite decoder.
// The widths sum to width. Sub-decoder d decodes the address bits starting at
// the sum of the widths of sub-decoders 0..d-1.
//
func SubDecoders(width int) ([]int, error) {
	if err := checkDecoderWidth(width); err != nil {
		return nil, err
	}
	if width < firstCompositeSize {
		return nil, errors.Wrapf(ErrInvalidArgument, "decoder width %d is not composite", width)
	}
	return append([]int(nil), subDecoders[width-firstCompositeSize]...), nil
}

// SubDecoderLines returns, for each sub-decoder, the index of its output line
// that takes part in output i of the composite decoder:
//
//	(i >> prefix_sum(d)) & (1<<widths[d] - 1)
//
func SubDecoderLines(i int, widths []int) []int {
	lines := make([]int, len(widths))
	shift := 0
	for d, w := range widths {
		lines[d] = (i >> uint(shift)) & (1<<uint(w) - 1)
		shift += w
	}
	return lines
}
