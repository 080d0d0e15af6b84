// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

import "github.com/pkg/errors"

// Walk calls fn for root and every circuit it depends on, directly or not.
// Dependencies are visited before the circuits that use them and each
// circuit is visited exactly once.
//
// Walk fails with ErrDuplicateCircuit if two distinct circuits share the same
// name.
//
func Walk(root *Module, fn func(Circuit) error) error {
	w := walker{
		seen:  make(map[Circuit]bool),
		names: make(map[string]Circuit),
		fn:    fn,
	}
	return w.walk(root)
}

type walker struct {
	seen  map[Circuit]bool
	names map[string]Circuit
	fn    func(Circuit) error
}

func (w *walker) visit(c Circuit) error {
	w.seen[c] = true
	if o, ok := w.names[c.Name()]; ok && o != c {
		return errors.Wrapf(ErrDuplicateCircuit, "circuit %s", c.Name())
	}
	w.names[c.Name()] = c
	return w.fn(c)
}

func (w *walker) walk(m *Module) error {
	if w.seen[m] {
		return nil
	}
	for _, p := range m.Primitives() {
		if w.seen[p] {
			continue
		}
		if err := w.visit(p); err != nil {
			return err
		}
	}
	for _, sub := range m.SubModules() {
		if err := w.walk(sub); err != nil {
			return err
		}
	}
	return w.visit(m)
}
