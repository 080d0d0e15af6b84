// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

// A Circuit is anything that can be instantiated: a *Module or a *Primitive.
//
type Circuit interface {
	Name() string
	// Ports returns the circuit ports in declaration order. The returned slice
	// must not be modified.
	Ports() []*Port
}

// FindPort returns the port of c with the given name or nil.
//
func FindPort(c Circuit, name string) *Port {
	for _, p := range c.Ports() {
		if p.Name == name {
			return p
		}
	}
	return nil
}
