// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pdk provides the primitive cells of a process design kit: logic
// gates, flip-flops and the memory leaf cells.
//
// A PDK is described by a YAML or JSON descriptor that lists the SPICE files
// to load and tells which subcircuit plays which role:
//
//	name: mykit
//	spice: [stdcells.sp, leafcells.sp]
//	gates:
//	  - {cell: NAND2_X1, function: nand, strength: x1, inputs: [A1, A2], output: ZN, vdd: VDD, gnd: VSS}
//	dffs:
//	  - {cell: DFF_X1, strength: x1, d: D, clk: CK, q: Q, qn: QN, vdd: VDD, gnd: VSS}
//	leafcells:
//	  bitcell: sram_6t
//	  sense_amp: sa
//
// Leaf cells are wired by port position. See sramc.LeafKind.Directions for
// the expected port order.
//
package pdk

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/db47h/sramc"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/maruel/natural"
	"github.com/pkg/errors"
)

// Descriptor file names looked up by Load when given a directory.
//
var DescriptorNames = []string{"pdk.yaml", "pdk.yml", "pdk.json"}

// Descriptor is the on-disk description of a PDK.
//
type Descriptor struct {
	Name      string            `json:"name" yaml:"name"`
	Spice     []string          `json:"spice" yaml:"spice"`
	Gates     []Gate            `json:"gates" yaml:"gates"`
	DFFs      []DFF             `json:"dffs" yaml:"dffs"`
	Leafcells map[string]string `json:"leafcells" yaml:"leafcells"`
}

// Gate describes a logic gate cell.
//
type Gate struct {
	Cell     string   `json:"cell" yaml:"cell"`
	Function string   `json:"function" yaml:"function"`
	Strength string   `json:"strength" yaml:"strength"`
	Inputs   []string `json:"inputs" yaml:"inputs"`
	Output   string   `json:"output" yaml:"output"`
	Vdd      string   `json:"vdd" yaml:"vdd"`
	Gnd      string   `json:"gnd" yaml:"gnd"`
}

// DFF describes a D flip-flop cell.
//
type DFF struct {
	Cell     string `json:"cell" yaml:"cell"`
	Strength string `json:"strength" yaml:"strength"`
	D        string `json:"d" yaml:"d"`
	Clk      string `json:"clk" yaml:"clk"`
	Q        string `json:"q" yaml:"q"`
	QN       string `json:"qn" yaml:"qn"`
	Vdd      string `json:"vdd" yaml:"vdd"`
	Gnd      string `json:"gnd" yaml:"gnd"`
}

// ParseDescriptor decodes a descriptor. JSON is used if isJSON is true, YAML
// otherwise.
//
func ParseDescriptor(data []byte, isJSON bool) (*Descriptor, error) {
	var d Descriptor
	var err error
	if isJSON {
		err = json.Unmarshal(data, &d)
	} else {
		err = yaml.Unmarshal(data, &d)
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse pdk descriptor")
	}
	return &d, nil
}

type gateKey struct {
	kind sramc.GateKind
	s    sramc.Strength
}

// Library is a set of primitives. It implements sramc.Library.
//
type Library struct {
	name  string
	gates map[gateKey]*sramc.Primitive
	dffs  map[sramc.Strength]*sramc.Primitive
	leafs map[sramc.LeafKind]*sramc.Primitive
}

// Name returns the PDK name.
//
func (l *Library) Name() string { return l.name }

// Gate implements sramc.Library.
//
func (l *Library) Gate(kind sramc.GateKind, s sramc.Strength) (*sramc.Primitive, bool) {
	p, ok := l.gates[gateKey{kind, s}]
	return p, ok
}

// DFF implements sramc.Library.
//
func (l *Library) DFF(s sramc.Strength) (*sramc.Primitive, bool) {
	p, ok := l.dffs[s]
	return p, ok
}

// Leafcell implements sramc.Library.
//
func (l *Library) Leafcell(kind sramc.LeafKind) (*sramc.Primitive, bool) {
	p, ok := l.leafs[kind]
	return p, ok
}

// Cells returns all primitives of the library in natural name order.
//
func (l *Library) Cells() []*sramc.Primitive {
	var ps []*sramc.Primitive
	for _, p := range l.gates {
		ps = append(ps, p)
	}
	for _, p := range l.dffs {
		ps = append(ps, p)
	}
	for _, p := range l.leafs {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return natural.Less(ps[i].Name(), ps[j].Name()) })
	return ps
}

// Load loads a PDK. path is either a descriptor file or a directory
// containing one of DescriptorNames. SPICE file names in the descriptor are
// relative to the descriptor's directory.
//
func Load(path string) (*Library, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "load pdk")
	}
	if fi.IsDir() {
		var found string
		for _, n := range DescriptorNames {
			if _, err := os.Stat(filepath.Join(path, n)); err == nil {
				found = filepath.Join(path, n)
				break
			}
		}
		if found == "" {
			return nil, errors.Errorf("load pdk: no descriptor in %s", path)
		}
		path = found
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load pdk")
	}
	d, err := ParseDescriptor(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, errors.WithMessagef(err, "load pdk %s", path)
	}
	dir := filepath.Dir(path)
	var subckts []*Subckt
	for _, f := range d.Spice {
		if !filepath.IsAbs(f) {
			f = filepath.Join(dir, f)
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, "load pdk %s", path)
		}
		ss, err := ParseSpice(bytes.NewReader(data))
		if err != nil {
			return nil, errors.WithMessagef(err, "load pdk %s: parse %s", path, f)
		}
		subckts = append(subckts, ss...)
	}
	l, err := New(d, subckts)
	return l, errors.WithMessagef(err, "load pdk %s", path)
}

// New builds a library from a descriptor and the subcircuits it refers to.
//
func New(d *Descriptor, subckts []*Subckt) (*Library, error) {
	byName := make(map[string]*Subckt, len(subckts))
	for _, s := range subckts {
		if _, ok := byName[s.Name]; ok {
			return nil, errors.Errorf("subcircuit %s defined twice", s.Name)
		}
		byName[s.Name] = s
	}
	lookup := func(name string) (*Subckt, error) {
		if s, ok := byName[name]; ok {
			return s, nil
		}
		return nil, errors.Wrapf(sramc.ErrPrimitiveNotFound, "subcircuit %s", name)
	}
	l := &Library{
		name:  d.Name,
		gates: make(map[gateKey]*sramc.Primitive),
		dffs:  make(map[sramc.Strength]*sramc.Primitive),
		leafs: make(map[sramc.LeafKind]*sramc.Primitive),
	}
	for _, g := range d.Gates {
		sc, err := lookup(g.Cell)
		if err != nil {
			return nil, err
		}
		p, err := newGate(&g, sc)
		if err != nil {
			return nil, err
		}
		l.gates[gateKey{p.GateKind(), p.Strength()}] = p
	}
	for _, f := range d.DFFs {
		sc, err := lookup(f.Cell)
		if err != nil {
			return nil, err
		}
		p, err := newDFF(&f, sc)
		if err != nil {
			return nil, err
		}
		l.dffs[p.Strength()] = p
	}
	for k, cell := range d.Leafcells {
		kind, err := sramc.ParseLeafKind(k)
		if err != nil {
			return nil, err
		}
		sc, err := lookup(cell)
		if err != nil {
			return nil, err
		}
		dirs := kind.Directions()
		if len(sc.Ports) != len(dirs) {
			return nil, errors.Wrapf(sramc.ErrPinCount, "leaf cell %s (%s): %d ports, expected %d", sc.Name, kind, len(sc.Ports), len(dirs))
		}
		ports := make([]*sramc.Port, len(dirs))
		for i, d := range dirs {
			ports[i] = sramc.NewPort(sc.Ports[i], d)
		}
		p, err := sramc.NewLeafcell(sc.Name, kind, ports, sc.Text)
		if err != nil {
			return nil, err
		}
		l.leafs[kind] = p
	}
	return l, nil
}

// rolePorts builds the port list of sc from a pin name to role mapping.
func rolePorts(sc *Subckt, pins map[string]sramc.Role, dirs map[string]sramc.Direction) ([]*sramc.Port, map[sramc.Role]int, error) {
	ports := make([]*sramc.Port, len(sc.Ports))
	roles := make(map[sramc.Role]int, len(pins))
	for i, n := range sc.Ports {
		r, ok := pins[n]
		if !ok {
			return nil, nil, errors.Errorf("cell %s: no role for port %s", sc.Name, n)
		}
		roles[r] = i
		ports[i] = sramc.NewPort(n, dirs[n])
	}
	if len(roles) != len(pins) {
		return nil, nil, errors.Wrapf(sramc.ErrPinNotFound, "cell %s: ports %v, roles %v", sc.Name, sc.Ports, pins)
	}
	return ports, roles, nil
}

func newGate(g *Gate, sc *Subckt) (*sramc.Primitive, error) {
	fn, err := sramc.ParseGateFunc(g.Function)
	if err != nil {
		return nil, errors.WithMessagef(err, "cell %s", g.Cell)
	}
	s, err := sramc.ParseStrength(g.Strength)
	if err != nil {
		return nil, errors.WithMessagef(err, "cell %s", g.Cell)
	}
	pins := map[string]sramc.Role{g.Output: sramc.OutputRole, g.Vdd: sramc.VddRole, g.Gnd: sramc.GndRole}
	dirs := map[string]sramc.Direction{g.Output: sramc.Output, g.Vdd: sramc.Vdd, g.Gnd: sramc.Gnd}
	for i, in := range g.Inputs {
		pins[in] = sramc.InputRole(i)
		dirs[in] = sramc.Input
	}
	ports, roles, err := rolePorts(sc, pins, dirs)
	if err != nil {
		return nil, err
	}
	return sramc.NewGate(sc.Name, sramc.GateKind{Func: fn, Inputs: len(g.Inputs)}, s, ports, roles, sc.Text)
}

func newDFF(f *DFF, sc *Subckt) (*sramc.Primitive, error) {
	s, err := sramc.ParseStrength(f.Strength)
	if err != nil {
		return nil, errors.WithMessagef(err, "cell %s", f.Cell)
	}
	pins := map[string]sramc.Role{
		f.D: sramc.InputRole(0), f.Clk: sramc.ClockRole, f.Q: sramc.QRole, f.QN: sramc.QNRole,
		f.Vdd: sramc.VddRole, f.Gnd: sramc.GndRole,
	}
	dirs := map[string]sramc.Direction{
		f.D: sramc.Input, f.Clk: sramc.Input, f.Q: sramc.Output, f.QN: sramc.Output,
		f.Vdd: sramc.Vdd, f.Gnd: sramc.Gnd,
	}
	ports, roles, err := rolePorts(sc, pins, dirs)
	if err != nil {
		return nil, err
	}
	return sramc.NewDFF(sc.Name, s, ports, roles, sc.Text)
}
