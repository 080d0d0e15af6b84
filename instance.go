// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

import "github.com/pkg/errors"

// A Pin is the instance-local copy of one template port.
//
type Pin struct {
	Name string
	Port *Port // template port
	net  *Net
}

// Net returns the net the pin is bound to, or nil if it is not connected yet.
//
func (p *Pin) Net() *Net { return p.net }

// Connected returns true if the pin is bound to a net.
//
func (p *Pin) Connected() bool { return p.net != nil }

func (p *Pin) connection() string { return p.Name }

// An Instance is a named placement of a template circuit inside a module.
//
type Instance struct {
	Name     string
	Template Circuit
	Pins     []*Pin
}

func newInstance(name string, template Circuit) *Instance {
	ports := template.Ports()
	pins := make([]*Pin, len(ports))
	for i, p := range ports {
		pins[i] = &Pin{Name: p.Name, Port: p}
	}
	return &Instance{Name: name, Template: template, Pins: pins}
}

// Pin returns the pin with the given name or nil.
//
func (inst *Instance) Pin(name string) *Pin {
	for _, p := range inst.Pins {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// LookupPin is like Pin but returns an ErrPinNotFound error if there is no such pin.
//
func (inst *Instance) LookupPin(name string) (*Pin, error) {
	if p := inst.Pin(name); p != nil {
		return p, nil
	}
	return nil, errors.Wrapf(ErrPinNotFound, "pin %s in instance %s", name, inst.Name)
}
