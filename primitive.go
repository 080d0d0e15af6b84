// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Strength is the drive strength of a standard cell.
//
type Strength int

// Drive strengths.
//
const (
	X1 Strength = 1 << iota
	X2
	X4
	X8
	X16
	X32
)

func (s Strength) String() string { return "x" + strconv.Itoa(int(s)) }

// ParseStrength parses strings like "x2" or "X2".
//
func ParseStrength(s string) (Strength, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(v, "x") {
		return 0, errors.Errorf("invalid drive strength %q", s)
	}
	n, err := strconv.Atoi(v[1:])
	if err != nil || n <= 0 || n > int(X32) || n&(n-1) != 0 {
		return 0, errors.Errorf("invalid drive strength %q", s)
	}
	return Strength(n), nil
}

// GateFunc is the logic function of a gate.
//
type GateFunc int

// Gate functions.
//
const (
	FuncInv GateFunc = iota
	FuncAnd
	FuncOr
	FuncNand
	FuncNor
)

var funcNames = [...]string{"inv", "and", "or", "nand", "nor"}

func (f GateFunc) String() string {
	if f < 0 || int(f) >= len(funcNames) {
		return "GateFunc(" + strconv.Itoa(int(f)) + ")"
	}
	return funcNames[f]
}

// ParseGateFunc parses a gate function name.
//
func ParseGateFunc(s string) (GateFunc, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, n := range funcNames {
		if n == v {
			return GateFunc(i), nil
		}
	}
	return 0, errors.Errorf("unknown gate function %q", s)
}

// GateKind identifies a logic gate by function and input count.
//
type GateKind struct {
	Func   GateFunc
	Inputs int
}

// InvGate is the kind of an inverter.
//
var InvGate = GateKind{FuncInv, 1}

// AndGate returns the kind of an n-input AND gate.
func AndGate(n int) GateKind { return GateKind{FuncAnd, n} }

// OrGate returns the kind of an n-input OR gate.
func OrGate(n int) GateKind { return GateKind{FuncOr, n} }

// NandGate returns the kind of an n-input NAND gate.
func NandGate(n int) GateKind { return GateKind{FuncNand, n} }

// NorGate returns the kind of an n-input NOR gate.
func NorGate(n int) GateKind { return GateKind{FuncNor, n} }

func (k GateKind) String() string {
	if k.Func == FuncInv {
		return k.Func.String()
	}
	return k.Func.String() + strconv.Itoa(k.Inputs)
}

// Eval computes the gate output for the given inputs.
//
func (k GateKind) Eval(in []bool) bool {
	switch k.Func {
	case FuncInv:
		return !in[0]
	case FuncAnd, FuncNand:
		v := true
		for _, b := range in {
			v = v && b
		}
		return v != (k.Func == FuncNand)
	case FuncOr, FuncNor:
		v := false
		for _, b := range in {
			v = v || b
		}
		return v != (k.Func == FuncNor)
	}
	panic("unknown gate function " + k.Func.String())
}

// LeafKind identifies one of the fixed-role leaf cells of a PDK.
//
type LeafKind int

// Leaf cells.
//
const (
	Bitcell LeafKind = iota
	SenseAmp
	WriteDriver
	ColumnTriGate
	Precharge
)

var leafNames = [...]string{"bitcell", "sense_amp", "write_driver", "column_trigate", "precharge"}

// leaf cell port directions, in netlist order.
var leafDirs = [...][]Direction{
	Bitcell:       {InOut, InOut, Input, Vdd, Gnd},              // bl br wl vdd gnd
	SenseAmp:      {InOut, InOut, Output, Input, Vdd, Gnd},      // bl br dout en vdd gnd
	WriteDriver:   {Input, InOut, InOut, Input, Vdd, Gnd},       // din bl br en vdd gnd
	ColumnTriGate: {InOut, InOut, InOut, InOut, Input, Vdd, Gnd}, // bl br bl_o br_o sel vdd gnd
	Precharge:     {InOut, InOut, Input, Vdd},                   // bl br en vdd
}

// LeafKinds lists all leaf cell kinds.
//
var LeafKinds = []LeafKind{Bitcell, SenseAmp, WriteDriver, ColumnTriGate, Precharge}

func (k LeafKind) String() string {
	if k < 0 || int(k) >= len(leafNames) {
		return "LeafKind(" + strconv.Itoa(int(k)) + ")"
	}
	return leafNames[k]
}

// Directions returns the expected port directions of the leaf cell, in order.
//
func (k LeafKind) Directions() []Direction { return leafDirs[k] }

// ParseLeafKind parses a leaf cell role name like "sense_amp".
//
func ParseLeafKind(s string) (LeafKind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, n := range leafNames {
		if n == v {
			return LeafKind(i), nil
		}
	}
	return 0, errors.Errorf("unknown leaf cell %q", s)
}

// Class is the class of a primitive.
//
type Class int

// Primitive classes.
//
const (
	ClassGate Class = iota
	ClassDFF
	ClassLeaf
)

type roleKind int

const (
	roleInput roleKind = iota
	roleOutput
	roleVdd
	roleGnd
	roleClock
	roleQ
	roleQN
)

// A Role identifies a primitive pin by what it does rather than by name.
//
type Role struct {
	kind  roleKind
	index int
}

// InputRole returns the role of the nth input of a gate. The data input of a
// flip-flop is InputRole(0).
//
func InputRole(n int) Role { return Role{roleInput, n} }

// Fixed pin roles.
//
var (
	OutputRole = Role{kind: roleOutput}
	VddRole    = Role{kind: roleVdd}
	GndRole    = Role{kind: roleGnd}
	ClockRole  = Role{kind: roleClock}
	QRole      = Role{kind: roleQ}
	QNRole     = Role{kind: roleQN}
)

func (r Role) String() string {
	switch r.kind {
	case roleInput:
		return "input" + strconv.Itoa(r.index)
	case roleOutput:
		return "output"
	case roleVdd:
		return "vdd"
	case roleGnd:
		return "gnd"
	case roleClock:
		return "clock"
	case roleQ:
		return "q"
	case roleQN:
		return "qn"
	}
	return "role(" + strconv.Itoa(int(r.kind)) + ")"
}

// A Primitive is an opaque leaf circuit supplied by a PDK: a name, an ordered
// port list and a netlist payload that is passed through verbatim on export.
// Primitives are never modified once created.
//
type Primitive struct {
	name     string
	ports    []*Port
	netlist  string
	roles    map[Role]int
	class    Class
	gate     GateKind
	strength Strength
	leaf     LeafKind
}

// NewGate returns a logic gate primitive. roles maps every pin role of the
// gate (inputs 0..n-1, output, vdd and gnd) to a port index.
//
func NewGate(name string, kind GateKind, s Strength, ports []*Port, roles map[Role]int, netlist string) (*Primitive, error) {
	if kind.Inputs < 1 || kind.Func == FuncInv && kind.Inputs != 1 {
		return nil, errors.Errorf("gate %s: invalid input count %d for %s", name, kind.Inputs, kind.Func)
	}
	req := make([]Role, 0, kind.Inputs+3)
	for i := 0; i < kind.Inputs; i++ {
		req = append(req, InputRole(i))
	}
	req = append(req, OutputRole, VddRole, GndRole)
	if err := checkRoles(ports, roles, req); err != nil {
		return nil, errors.Wrapf(err, "gate %s", name)
	}
	return &Primitive{name: name, ports: ports, netlist: netlist, roles: roles, class: ClassGate, gate: kind, strength: s}, nil
}

// NewDFF returns a D flip-flop primitive. roles must map InputRole(0) (data),
// ClockRole, QRole, QNRole, VddRole and GndRole.
//
func NewDFF(name string, s Strength, ports []*Port, roles map[Role]int, netlist string) (*Primitive, error) {
	req := []Role{InputRole(0), ClockRole, QRole, QNRole, VddRole, GndRole}
	if err := checkRoles(ports, roles, req); err != nil {
		return nil, errors.Wrapf(err, "dff %s", name)
	}
	return &Primitive{name: name, ports: ports, netlist: netlist, roles: roles, class: ClassDFF, strength: s}, nil
}

// NewLeafcell returns a leaf cell primitive. Leaf cells are wired positionally;
// the port count and directions must match kind.Directions().
//
func NewLeafcell(name string, kind LeafKind, ports []*Port, netlist string) (*Primitive, error) {
	dirs := kind.Directions()
	if len(ports) != len(dirs) {
		return nil, errors.Wrapf(ErrPinCount, "leaf cell %s (%s): expected %d ports, got %d", name, kind, len(dirs), len(ports))
	}
	for i, p := range ports {
		if p.Direction != dirs[i] {
			return nil, errors.Errorf("leaf cell %s (%s): port %s has direction %s, expected %s", name, kind, p.Name, p.Direction, dirs[i])
		}
	}
	return &Primitive{name: name, ports: ports, netlist: netlist, class: ClassLeaf, leaf: kind}, nil
}

func checkRoles(ports []*Port, roles map[Role]int, req []Role) error {
	if len(roles) != len(req) || len(ports) != len(req) {
		return errors.Wrapf(ErrPinCount, "expected %d pin roles, got %d roles for %d ports", len(req), len(roles), len(ports))
	}
	used := make([]bool, len(ports))
	for _, r := range req {
		i, ok := roles[r]
		if !ok {
			return errors.Errorf("missing pin role %s", r)
		}
		if i < 0 || i >= len(ports) || used[i] {
			return errors.Errorf("invalid port index %d for pin role %s", i, r)
		}
		used[i] = true
	}
	return nil
}

// Name returns the cell name.
func (p *Primitive) Name() string { return p.name }

// Ports returns the cell ports.
func (p *Primitive) Ports() []*Port { return p.ports }

// Netlist returns the opaque netlist text of the cell.
func (p *Primitive) Netlist() string { return p.netlist }

// Class returns the primitive class.
func (p *Primitive) Class() Class { return p.class }

// GateKind returns the gate kind. Only meaningful for ClassGate.
func (p *Primitive) GateKind() GateKind { return p.gate }

// Strength returns the drive strength of gates and flip-flops.
func (p *Primitive) Strength() Strength { return p.strength }

// LeafKind returns the leaf cell kind. Only meaningful for ClassLeaf.
func (p *Primitive) LeafKind() LeafKind { return p.leaf }

// PortIndex returns the index of the port playing the given role.
//
func (p *Primitive) PortIndex(r Role) (int, bool) {
	i, ok := p.roles[r]
	return i, ok
}

// Inputs returns the number of data inputs of a gate or flip-flop.
//
func (p *Primitive) Inputs() int {
	switch p.class {
	case ClassGate:
		return p.gate.Inputs
	case ClassDFF:
		return 1
	}
	return 0
}

// A Library supplies primitives for the current process. It is implemented by
// the pdk package.
//
type Library interface {
	Gate(kind GateKind, s Strength) (*Primitive, bool)
	DFF(s Strength) (*Primitive, bool)
	Leafcell(kind LeafKind) (*Primitive, bool)
}
