// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

import "strconv"

// Direction is the direction of a circuit port. Vdd and Gnd mark supply ports
// so that consumers can map them onto fixed supply nets.
//
type Direction int

// Port directions.
//
const (
	Input Direction = iota
	Output
	InOut
	Vdd
	Gnd
)

var dirNames = [...]string{"input", "output", "inout", "vdd", "gnd"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(dirNames) {
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
	return dirNames[d]
}

// IsSupply returns true for Vdd and Gnd.
//
func (d Direction) IsSupply() bool { return d == Vdd || d == Gnd }

// A Port is a named, directed terminal of a circuit template.
//
type Port struct {
	Name      string
	Direction Direction
	net       *Net // net bound to the port inside its own circuit; nil for primitives
}

// NewPort returns a new unbound port.
//
func NewPort(name string, dir Direction) *Port {
	return &Port{Name: name, Direction: dir}
}

// Net returns the net the port is bound to within its defining circuit.
//
func (p *Port) Net() *Net { return p.net }

func (p *Port) connection() string { return p.Name }

// Bus returns the pin names prefix0 .. prefix(n-1).
//
func Bus(prefix string, n int) []string {
	b := make([]string, n)
	for i := range b {
		b[i] = prefix + strconv.Itoa(i)
	}
	return b
}
