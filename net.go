// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

// A Connection is something a net can be attached to: a *Port of the net's
// own circuit, or a *Pin of one of its instances.
//
type Connection interface {
	connection() string
}

// A Net is a named connection point local to one circuit.
//
type Net struct {
	Name  string
	conns []Connection
}

// Connections returns the ports and pins attached to the net.
//
func (n *Net) Connections() []Connection { return n.conns }

func (n *Net) add(c Connection) { n.conns = append(n.conns, c) }

// A Short ties two nets of the same circuit to the same potential.
//
type Short struct {
	A, B *Net
}
