// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing circuits.
//
package simtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/sramc"
	"github.com/db47h/sramc/sim"
)

// MaxExhaustive is the maximum number of inputs for which CompareFunc tries
// every input combination.
//
const MaxExhaustive = 12

// A Func is a reference model of a combinational circuit. It receives the
// value of each input port and returns the expected value of the outputs to
// check.
//
type Func func(in map[string]bool) map[string]bool

// Inputs returns the names of the ports of m that can be driven in a
// simulation: input and inout ports.
//
func Inputs(m *sramc.Module) []string {
	var ins []string
	for _, p := range m.Ports() {
		if p.Direction == sramc.Input || p.Direction == sramc.InOut {
			ins = append(ins, p.Name)
		}
	}
	return ins
}

// CompareFunc simulates m and compares its outputs with ref. If m has at most
// MaxExhaustive inputs, all input combinations are tried. Otherwise it tries
// all 0, all 1 and 1<<MaxExhaustive random inputs.
//
func CompareFunc(t testing.TB, m *sramc.Module, ref Func) {
	t.Helper()

	c, err := sim.New(m)
	if err != nil {
		t.Fatal(err)
	}
	names := Inputs(m)
	inputs := make(map[string]bool, len(names))

	errString := func(oname string, ex, got bool) string {
		var b strings.Builder
		for _, n := range names {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", n, inputs[n])
		}
		return fmt.Sprintf("%s\nExpected %s => %s=%v\nGot %v", m.Name(), b.String(), oname, ex, got)
	}

	check := func() {
		t.Helper()
		for _, n := range names {
			if err := c.Set(n, inputs[n]); err != nil {
				t.Fatal(err)
			}
		}
		if err := c.Settle(); err != nil {
			t.Fatal(err)
		}
		for o, ex := range ref(inputs) {
			got, err := c.Get(o)
			if err != nil {
				t.Fatal(err)
			}
			if got != ex {
				t.Fatal(errString(o, ex, got))
			}
		}
	}

	start := time.Now()
	var vectors int
	if len(names) <= MaxExhaustive {
		for v := 0; v < 1<<uint(len(names)); v++ {
			for i, n := range names {
				inputs[n] = v&(1<<uint(i)) != 0
			}
			check()
		}
		vectors = 1 << uint(len(names))
	} else {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for _, v := range []bool{false, true} {
			for _, n := range names {
				inputs[n] = v
			}
			check()
		}
		for i := 0; i < 1<<MaxExhaustive; i++ {
			for _, n := range names {
				inputs[n] = rnd.Int63()&(1<<62) != 0
			}
			check()
		}
		vectors = 2 + 1<<MaxExhaustive
	}
	t.Logf("%s: %d components, %d vectors, %d steps in %v", m.Name(), c.Size(), vectors, c.Steps(), time.Since(start))
}
