package pdk_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/sramc"
	"github.com/db47h/sramc/pdk"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpice = `* test cells
.include models.sp

.SUBCKT NAND2_X1 A1 A2
+ ZN VDD VSS
* pull-ups
M0 ZN A1 VDD VDD pmos W=0.6u L=0.05u
M1 ZN A2 VDD VDD pmos W=0.6u L=0.05u
M2 ZN A1 n1 VSS nmos W=0.8u L=0.05u
M3 n1 A2 VSS VSS nmos W=0.8u L=0.05u
.ENDS NAND2_X1

.subckt cell6t bl br wl vdd gnd params: w=1
M0 q qb vdd vdd pmos
.ends
`

func Test_ParseSpice(t *testing.T) {
	ss, err := pdk.ParseSpice(strings.NewReader(testSpice))
	require.NoError(t, err)
	require.Len(t, ss, 2)
	assert.Equal(t, "NAND2_X1", ss[0].Name)
	assert.Equal(t, []string{"A1", "A2", "ZN", "VDD", "VSS"}, ss[0].Ports)
	assert.True(t, strings.HasPrefix(ss[0].Text, ".SUBCKT NAND2_X1 A1 A2\n+ ZN VDD VSS\n* pull-ups\n"))
	assert.True(t, strings.HasSuffix(ss[0].Text, ".ENDS NAND2_X1\n"))
	assert.Equal(t, []string{"bl", "br", "wl", "vdd", "gnd"}, ss[1].Ports)
	assert.NotContains(t, ss[1].Text, "NAND2")
}

func Test_ParseSpice_errors(t *testing.T) {
	for _, src := range []string{
		".SUBCKT a x\n.SUBCKT b y\n.ENDS\n.ENDS\n",
		".SUBCKT a x\nM0 x x x x nmos\n",
		".ENDS\n",
		".SUBCKT\n.ENDS\n",
	} {
		_, err := pdk.ParseSpice(strings.NewReader(src))
		assert.Error(t, err, src)
	}
}

const testDescriptor = `name: test
spice: [cells.sp]
gates:
  - {cell: NAND2_X1, function: nand, strength: x1, inputs: [A1, A2], output: ZN, vdd: VDD, gnd: VSS}
leafcells:
  bitcell: cell6t
`

func Test_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cells.sp"), []byte(testSpice), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pdk.yaml"), []byte(testDescriptor), 0644))

	l, err := pdk.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "test", l.Name())

	g, ok := l.Gate(sramc.NandGate(2), sramc.X1)
	require.True(t, ok)
	assert.Equal(t, "NAND2_X1", g.Name())
	i, ok := g.PortIndex(sramc.OutputRole)
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, sramc.Output, g.Ports()[2].Direction)
	assert.Equal(t, sramc.Gnd, g.Ports()[4].Direction)

	_, ok = l.Gate(sramc.NandGate(2), sramc.X2)
	assert.False(t, ok)

	b, ok := l.Leafcell(sramc.Bitcell)
	require.True(t, ok)
	assert.Equal(t, sramc.Input, b.Ports()[2].Direction)
	assert.Contains(t, b.Netlist(), ".subckt cell6t")
	assert.Len(t, l.Cells(), 2)
}

func Test_Load_json(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cells.sp"), []byte(testSpice), 0644))
	js := `{"name": "js", "spice": ["cells.sp"], "leafcells": {"bitcell": "cell6t"}}`
	p := filepath.Join(dir, "kit.json")
	require.NoError(t, os.WriteFile(p, []byte(js), 0644))
	l, err := pdk.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "js", l.Name())
	_, ok := l.Leafcell(sramc.Bitcell)
	assert.True(t, ok)
}

func Test_Load_errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cells.sp"), []byte(testSpice), 0644))

	_, err := pdk.Load(dir)
	assert.Error(t, err, "no descriptor")

	bad := strings.Replace(testDescriptor, "bitcell: cell6t", "bitcell: nope", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pdk.yaml"), []byte(bad), 0644))
	_, err = pdk.Load(dir)
	assert.True(t, errors.Is(err, sramc.ErrPrimitiveNotFound), "%v", err)

	bad = strings.Replace(testDescriptor, "output: ZN", "output: Z", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pdk.yaml"), []byte(bad), 0644))
	_, err = pdk.Load(dir)
	assert.Error(t, err)

	// precharge needs 4 ports
	bad = strings.Replace(testDescriptor, "bitcell: cell6t", "precharge: cell6t", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pdk.yaml"), []byte(bad), 0644))
	_, err = pdk.Load(dir)
	assert.True(t, errors.Is(err, sramc.ErrPinCount), "%v", err)
}

func Test_Generic(t *testing.T) {
	l, err := pdk.Generic()
	require.NoError(t, err)
	for _, k := range sramc.LeafKinds {
		_, ok := l.Leafcell(k)
		assert.True(t, ok, "leaf cell %s", k)
	}
	for _, s := range []sramc.Strength{sramc.X1, sramc.X2, sramc.X4} {
		_, ok := l.Gate(sramc.InvGate, s)
		assert.True(t, ok)
		for n := 2; n <= 4; n++ {
			for _, k := range []sramc.GateKind{sramc.AndGate(n), sramc.OrGate(n), sramc.NandGate(n), sramc.NorGate(n)} {
				g, ok := l.Gate(k, s)
				require.True(t, ok, "%s %s", k, s)
				assert.Equal(t, n+3, len(g.Ports()))
			}
		}
	}
	ff, ok := l.DFF(sramc.X1)
	require.True(t, ok)
	assert.Equal(t, "DFF_X1", ff.Name())
	i, _ := ff.PortIndex(sramc.ClockRole)
	assert.Equal(t, "CK", ff.Ports()[i].Name)

	// same instance on every call
	l2, _ := pdk.Generic()
	assert.Same(t, l, l2)
}
