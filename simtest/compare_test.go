package simtest_test

import (
	"testing"

	"github.com/db47h/sramc"
	"github.com/db47h/sramc/pdk"
	"github.com/db47h/sramc/simtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareFunc(t *testing.T) {
	lib, err := pdk.Generic()
	require.NoError(t, err)
	f := sramc.NewFactory(lib)

	or := sramc.NewModule("custom_or")
	for _, p := range []struct {
		n string
		d sramc.Direction
	}{{"a", sramc.Input}, {"b", sramc.Input}, {"out", sramc.Output}, {"vdd", sramc.Vdd}, {"gnd", sramc.Gnd}} {
		_, err := or.AddPort(p.n, p.d)
		require.NoError(t, err)
	}
	for _, g := range []struct {
		name   string
		in     []string
		output string
	}{
		{"n0", []string{"a", "a"}, "notA"},
		{"n1", []string{"b", "b"}, "notB"},
		{"n2", []string{"notA", "notB"}, "out"},
	} {
		_, err := or.LinkGate(f, g.name, sramc.NandGate(2), sramc.X1, g.in, g.output)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b"}, simtest.Inputs(or))
	simtest.CompareFunc(t, or, func(in map[string]bool) map[string]bool {
		return map[string]bool{"out": in["a"] || in["b"]}
	})
}
