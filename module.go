// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Supply net names. Gates, flip-flops and leaf cells linked with the Link*
// helpers have their supply pins wired to these nets.
//
const (
	VddNet = "vdd"
	GndNet = "gnd"
)

// W is a named pin to net mapping used to wire module instances:
//
//	m.ConnectW(inst, sramc.W{"A0": "addr0", "Y0": "sel0"})
//
type W map[string]string

// Roles maps primitive pin roles to net names.
//
type Roles map[Role]string

// A Module is a user-defined circuit built from instances of other circuits.
//
// All methods are safe for concurrent use. Once a module has been returned by
// a Factory, it must be treated as read-only.
//
type Module struct {
	mu        sync.RWMutex
	name      string
	args      Args
	ports     []*Port
	nets      map[string]*Net
	netList   []*Net
	instances []*Instance
	instIndex map[string]*Instance
	shorts    []Short
	modules   set[*Module]
	prims     set[*Primitive]
	log       zerolog.Logger
}

// NewModule returns a new empty module. Modules are usually created by a
// Factory; NewModule is useful for ad-hoc top-level circuits.
//
func NewModule(name string) *Module {
	return newModule(name, nil, zerolog.Nop())
}

func newModule(name string, args Args, log zerolog.Logger) *Module {
	return &Module{
		name:      name,
		args:      args,
		nets:      make(map[string]*Net),
		instIndex: make(map[string]*Instance),
		log:       log.With().Str("module", name).Logger(),
	}
}

// Name returns the module name.
//
func (m *Module) Name() string { return m.name }

// Args returns the arguments the module was built from. It returns nil for
// modules created with NewModule.
//
func (m *Module) Args() Args { return m.args }

// Ports returns the module ports in declaration order.
//
func (m *Module) Ports() []*Port {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ports
}

// Instances returns the module instances in creation order.
//
func (m *Module) Instances() []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Instance(nil), m.instances...)
}

// Nets returns the module nets in creation order.
//
func (m *Module) Nets() []*Net {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Net(nil), m.netList...)
}

// Shorts returns the nets tied together with ConnectNets.
//
func (m *Module) Shorts() []Short {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Short(nil), m.shorts...)
}

// SubModules returns the distinct modules instantiated by m, in first-use order.
//
func (m *Module) SubModules() []*Module {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.modules.list()
}

// Primitives returns the distinct primitives instantiated by m, in first-use
// order.
//
func (m *Module) Primitives() []*Primitive {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prims.list()
}

// Port returns the port with the given name or nil.
//
func (m *Module) Port(name string) *Port {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.ports {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// LookupPort is like Port but returns an ErrPortNotFound error if no such port exists.
//
func (m *Module) LookupPort(name string) (*Port, error) {
	if p := m.Port(name); p != nil {
		return p, nil
	}
	return nil, errors.Wrapf(ErrPortNotFound, "port %s in module %s", name, m.name)
}

// Net returns the net with the given name or nil.
//
func (m *Module) Net(name string) *Net {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nets[name]
}

// AddNet returns the net with the given name, creating it if necessary.
//
func (m *Module) AddNet(name string) *Net {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.netOrNew(name)
}

func (m *Module) netOrNew(name string) *Net {
	n, ok := m.nets[name]
	if !ok {
		n = &Net{Name: name}
		m.nets[name] = n
		m.netList = append(m.netList, n)
	}
	return n
}

// AddPort adds a port to the module and binds it to the net of the same name.
//
func (m *Module) AddPort(name string, dir Direction) (*Port, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addPort(name, dir)
}

func (m *Module) addPort(name string, dir Direction) (*Port, error) {
	for _, p := range m.ports {
		if p.Name == name {
			return nil, errors.Wrapf(ErrDuplicatePort, "add port %s to %s", name, m.name)
		}
	}
	p := NewPort(name, dir)
	n := m.netOrNew(name)
	p.net = n
	n.add(p)
	m.ports = append(m.ports, p)
	m.log.Debug().Str("port", name).Stringer("dir", dir).Msg("add port")
	return p, nil
}

// AddBus adds the n ports prefix0 .. prefix(n-1).
//
func (m *Module) AddBus(prefix string, n int, dir Direction) ([]*Port, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps := make([]*Port, 0, n)
	for _, name := range Bus(prefix, n) {
		p, err := m.addPort(name, dir)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

// AddInstance adds a new unconnected instance of template to the module.
//
func (m *Module) AddInstance(name string, template Circuit) (*Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instIndex[name]; ok {
		return nil, errors.Wrapf(ErrDuplicateInstance, "add instance %s to %s", name, m.name)
	}
	inst := newInstance(name, template)
	m.instIndex[name] = inst
	m.instances = append(m.instances, inst)
	m.register(template)
	m.log.Debug().Str("instance", name).Str("template", template.Name()).Msg("add instance")
	return inst, nil
}

func (m *Module) register(c Circuit) {
	switch c := c.(type) {
	case *Module:
		m.modules.add(c)
	case *Primitive:
		m.prims.add(c)
	}
}

// LookupInstance returns the instance with the given name.
//
func (m *Module) LookupInstance(name string) (*Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inst, ok := m.instIndex[name]; ok {
		return inst, nil
	}
	return nil, errors.Wrapf(ErrInstanceNotFound, "instance %s in module %s", name, m.name)
}

func (m *Module) bind(p *Pin, net string) {
	n := m.netOrNew(net)
	p.net = n
	n.add(p)
}

// Connect binds the pins of inst, in template port order, to the given nets.
// Nets are created as needed.
//
func (m *Module) Connect(inst *Instance, nets ...string) error {
	if len(nets) != len(inst.Pins) {
		return errors.Wrapf(ErrPinCount, "connect %s in %s: %d pins, %d nets", inst.Name, m.name, len(inst.Pins), len(nets))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range inst.Pins {
		m.bind(p, nets[i])
	}
	return nil
}

// ConnectW binds the pins of inst by name. w must list every pin of inst.
//
func (m *Module) ConnectW(inst *Instance, w W) error {
	if len(w) != len(inst.Pins) {
		return errors.Wrapf(ErrPinCount, "connect %s in %s: %d pins, %d nets", inst.Name, m.name, len(inst.Pins), len(w))
	}
	for _, p := range inst.Pins {
		if _, ok := w[p.Name]; !ok {
			return errors.Wrapf(ErrPinNotFound, "connect %s in %s: no net for pin %s", inst.Name, m.name, p.Name)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range inst.Pins {
		m.bind(p, w[p.Name])
	}
	return nil
}

// ConnectRoles binds the pins of a primitive instance by role. roles must
// cover every pin of the primitive.
//
func (m *Module) ConnectRoles(inst *Instance, roles Roles) error {
	prim, ok := inst.Template.(*Primitive)
	if !ok {
		return InvalidArgf("connect %s in %s: %s is not a primitive", inst.Name, m.name, inst.Template.Name())
	}
	if len(roles) != len(inst.Pins) {
		return errors.Wrapf(ErrPinCount, "connect %s in %s: %d pins, %d roles", inst.Name, m.name, len(inst.Pins), len(roles))
	}
	idx := make(map[int]string, len(roles))
	for r, net := range roles {
		i, ok := prim.PortIndex(r)
		if !ok {
			return errors.Wrapf(ErrPinNotFound, "connect %s in %s: no %s pin on %s", inst.Name, m.name, r, prim.Name())
		}
		idx[i] = net
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range inst.Pins {
		m.bind(p, idx[i])
	}
	return nil
}

// ConnectPin binds a single pin of inst to net.
//
func (m *Module) ConnectPin(inst *Instance, pin, net string) error {
	p := inst.Pin(pin)
	if p == nil {
		return errors.Wrapf(ErrPinNotFound, "connect pin %s of %s in %s", pin, inst.Name, m.name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bind(p, net)
	return nil
}

// ConnectNets ties nets a and b to the same potential.
//
func (m *Module) ConnectNets(a, b string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shorts = append(m.shorts, Short{m.netOrNew(a), m.netOrNew(b)})
}

// AddModule requests a module from f and registers it as a dependency of m.
//
func (m *Module) AddModule(f *Factory, args Args) (*Module, error) {
	sub, err := f.Module(args)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.modules.add(sub)
	m.mu.Unlock()
	return sub, nil
}

func (m *Module) addPrimitive(p *Primitive, err error) (*Primitive, error) {
	if err != nil {
		return nil, errors.WithMessagef(err, "module %s", m.name)
	}
	m.mu.Lock()
	m.prims.add(p)
	m.mu.Unlock()
	return p, nil
}

// AddGate requests a gate from f and registers it as a dependency of m.
//
func (m *Module) AddGate(f *Factory, kind GateKind, s Strength) (*Primitive, error) {
	return m.addPrimitive(f.Gate(kind, s))
}

// AddDFF requests a flip-flop from f and registers it as a dependency of m.
//
func (m *Module) AddDFF(f *Factory, s Strength) (*Primitive, error) {
	return m.addPrimitive(f.DFF(s))
}

// AddLeafcell requests a leaf cell from f and registers it as a dependency of m.
//
func (m *Module) AddLeafcell(f *Factory, kind LeafKind) (*Primitive, error) {
	return m.addPrimitive(f.Leafcell(kind))
}

// LinkModule builds (or reuses) the module described by args and adds an
// instance of it named name, wired according to w.
//
func (m *Module) LinkModule(f *Factory, name string, args Args, w W) (*Instance, error) {
	sub, err := m.AddModule(f, args)
	if err != nil {
		return nil, err
	}
	inst, err := m.AddInstance(name, sub)
	if err != nil {
		return nil, err
	}
	return inst, m.ConnectW(inst, w)
}

// LinkGate adds a gate instance with its inputs and output wired to the given
// nets and its supply pins wired to VddNet and GndNet.
//
func (m *Module) LinkGate(f *Factory, name string, kind GateKind, s Strength, inputs []string, output string) (*Instance, error) {
	if len(inputs) != kind.Inputs {
		return nil, errors.Wrapf(ErrPinCount, "link gate %s in %s: %s with %d inputs", name, m.name, kind, len(inputs))
	}
	g, err := m.AddGate(f, kind, s)
	if err != nil {
		return nil, err
	}
	inst, err := m.AddInstance(name, g)
	if err != nil {
		return nil, err
	}
	r := Roles{OutputRole: output, VddRole: VddNet, GndRole: GndNet}
	for i, in := range inputs {
		r[InputRole(i)] = in
	}
	return inst, m.ConnectRoles(inst, r)
}

// LinkInv adds an inverter from in to out.
//
func (m *Module) LinkInv(f *Factory, name string, s Strength, in, out string) (*Instance, error) {
	return m.LinkGate(f, name, InvGate, s, []string{in}, out)
}

// LinkDFF adds a D flip-flop.
//
func (m *Module) LinkDFF(f *Factory, name string, s Strength, d, clk, q, qn string) (*Instance, error) {
	ff, err := m.AddDFF(f, s)
	if err != nil {
		return nil, err
	}
	inst, err := m.AddInstance(name, ff)
	if err != nil {
		return nil, err
	}
	return inst, m.ConnectRoles(inst, Roles{
		InputRole(0): d,
		ClockRole:    clk,
		QRole:        q,
		QNRole:       qn,
		VddRole:      VddNet,
		GndRole:      GndNet,
	})
}

// LinkLeafcell adds a leaf cell wired positionally to nets.
//
func (m *Module) LinkLeafcell(f *Factory, name string, kind LeafKind, nets ...string) (*Instance, error) {
	c, err := m.AddLeafcell(f, kind)
	if err != nil {
		return nil, err
	}
	inst, err := m.AddInstance(name, c)
	if err != nil {
		return nil, err
	}
	return inst, m.Connect(inst, nets...)
}
