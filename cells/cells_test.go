package cells_test

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/db47h/sramc"
	"github.com/db47h/sramc/cells"
	"github.com/db47h/sramc/pdk"
	"github.com/db47h/sramc/sim"
	"github.com/db47h/sramc/simtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

func newFactory(t *testing.T) *sramc.Factory {
	t.Helper()
	lib, err := pdk.Generic()
	require.NoError(t, err)
	return sramc.NewFactory(lib)
}

func build(t *testing.T, f *sramc.Factory, args sramc.Args) *sramc.Module {
	t.Helper()
	m, err := f.Module(args)
	if err != nil {
		trace(t, err)
		t.Fatalf("%s: %v", args.Name(), err)
	}
	return m
}

// leaf is a flattened leaf cell instance with its pins resolved to
// top-level net names.
type leaf struct {
	path string
	kind sramc.LeafKind
	nets []string
}

// leaves flattens m down to its leaf cells. Internal nets are named by
// instance path.
func leaves(m *sramc.Module, prefix string, ports map[string]string) []leaf {
	resolve := func(n string) string {
		if v, ok := ports[n]; ok {
			return v
		}
		return prefix + n
	}
	var out []leaf
	for _, inst := range m.Instances() {
		switch t := inst.Template.(type) {
		case *sramc.Module:
			sub := make(map[string]string, len(inst.Pins))
			for _, p := range inst.Pins {
				sub[p.Name] = resolve(p.Net().Name)
			}
			out = append(out, leaves(t, prefix+inst.Name+"/", sub)...)
		case *sramc.Primitive:
			if t.Class() != sramc.ClassLeaf {
				continue
			}
			l := leaf{path: prefix + inst.Name, kind: t.LeafKind()}
			for _, p := range inst.Pins {
				l.nets = append(l.nets, resolve(p.Net().Name))
			}
			out = append(out, l)
		}
	}
	return out
}

func Test_bitcell_array(t *testing.T) {
	f := newFactory(t)
	for _, sz := range [][2]int{{1, 1}, {2, 3}, {4, 4}, {5, 7}, {16, 32}, {17, 9}, {64, 128}, {3, 100}} {
		rows, cols := sz[0], sz[1]
		m := build(t, f, cells.BitcellArray{Rows: rows, Columns: cols})
		ls := leaves(m, "", map[string]string{})
		require.Len(t, ls, rows*cols, "%dx%d", rows, cols)
		seen := make(map[[2]string]bool)
		for _, l := range ls {
			require.Equal(t, sramc.Bitcell, l.kind)
			bl, br, wl := l.nets[0], l.nets[1], l.nets[2]
			assert.Equal(t, "br"+strings.TrimPrefix(bl, "bl"), br, l.path)
			key := [2]string{wl, bl}
			assert.False(t, seen[key], "%dx%d: %s, %s used twice", rows, cols, wl, bl)
			seen[key] = true
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				assert.True(t, seen[[2]string{"wl" + strconv.Itoa(r), "bl" + strconv.Itoa(c)}], "%dx%d: missing cell %d,%d", rows, cols, r, c)
			}
		}
	}
}

func Test_replica_array(t *testing.T) {
	f := newFactory(t)
	m := build(t, f, cells.ReplicaBitcellArray{Size: 5})
	ls := leaves(m, "", map[string]string{})
	require.Len(t, ls, 5)
	var on int
	for _, l := range ls {
		switch l.nets[2] {
		case "wl":
			on++
		case sramc.GndNet:
		default:
			t.Errorf("%s: unexpected word line %s", l.path, l.nets[2])
		}
	}
	assert.Equal(t, 2, on)

	_, err := f.Module(cells.ReplicaBitcellArray{Size: 1})
	assert.True(t, errors.Is(err, sramc.ErrInvalidArgument))
}

func Test_memoize(t *testing.T) {
	f := newFactory(t)
	a := build(t, f, cells.Decoder{Inputs: 6})
	b := build(t, f, cells.Decoder{Inputs: 6})
	assert.Same(t, a, b)

	m := build(t, f, cells.SRAM{Address: 10, Word: 8})
	c0, err := m.LookupInstance("core0")
	require.NoError(t, err)
	c1, err := m.LookupInstance("core1")
	require.NoError(t, err)
	assert.Same(t, c0.Template, c1.Template)

	// the row decoder of the SRAM is the one already cached
	rd, err := m.LookupInstance("row_decoder")
	require.NoError(t, err)
	assert.Same(t, a, rd.Template)

	names := make(map[string]bool)
	for _, m := range f.Modules() {
		assert.False(t, names[m.Name()], "module %s cached twice", m.Name())
		names[m.Name()] = true
	}
	assert.True(t, names[cells.Core{Rows: 64, Selects: 8, Word: 8}.Name()])
}

func Test_invalid(t *testing.T) {
	f := newFactory(t)
	for _, args := range []sramc.Args{
		cells.Decoder{Inputs: 0},
		cells.Decoder{Inputs: 13},
		cells.BitcellArray{Rows: 0, Columns: 4},
		cells.ColumnMux{Selects: 1},
		cells.FanoutBuffer{Size: 1},
		cells.WordlineDriver{Fanout: 0},
		cells.Core{Rows: 65, Selects: 1, Word: 8},
		cells.Core{Rows: 64, Selects: 4, Word: 64},
		cells.CoreSelector{Address: 0, Word: 4},
		cells.SRAM{Address: 0, Word: 8},
		cells.SRAM{Address: 20, Word: 64},
	} {
		_, err := f.Module(args)
		if !assert.Error(t, err, args.Name()) {
			continue
		}
		assert.True(t, errors.Is(err, sramc.ErrInvalidArgument), "%s: %v", args.Name(), err)
		assert.Contains(t, err.Error(), "build circuit "+args.Name())
	}
	// failures are not cached
	for _, m := range f.Modules() {
		assert.NotEqual(t, cells.Decoder{Inputs: 13}.Name(), m.Name())
	}
}

func Test_decoder(t *testing.T) {
	f := newFactory(t)
	for n := 1; n <= 12; n++ {
		m := build(t, f, cells.Decoder{Inputs: n})
		c, err := sim.New(m)
		require.NoError(t, err)
		outs := sramc.Bus("Y", 1<<uint(n))
		step := 1
		if n > 10 {
			step = 61
		}
		for v := 0; v < len(outs); v += step {
			require.NoError(t, c.SetBus("A", n, uint64(v)))
			require.NoError(t, c.Settle(), "decoder %d: %d", n, v)
			for i, o := range outs {
				got, err := c.Get(o)
				require.NoError(t, err)
				if got != (i == v) {
					t.Fatalf("decoder %d, address %d: %s = %v", n, v, o, got)
				}
			}
		}
	}
}

func Test_fanout_buffer(t *testing.T) {
	f := newFactory(t)
	for _, n := range []int{2, 3, 8, 17, 100, 257, 1025, 3000} {
		m := build(t, f, cells.FanoutBuffer{Size: n})
		c, err := sim.New(m)
		require.NoError(t, err)
		for _, v := range []bool{true, false, true} {
			require.NoError(t, c.Set("in", v))
			require.NoError(t, c.Settle())
			for _, o := range sramc.Bus("out", n) {
				got, err := c.Get(o)
				require.NoError(t, err)
				require.Equal(t, v, got, "fanout %d: %s", n, o)
			}
		}
	}
}

func Test_wordline_path(t *testing.T) {
	f := newFactory(t)
	assert.Equal(t, sramc.X1, cells.WordlineDriver{Fanout: 1}.Strength())
	assert.Equal(t, sramc.X2, cells.WordlineDriver{Fanout: 16}.Strength())
	assert.Equal(t, sramc.X4, cells.WordlineDriver{Fanout: 17}.Strength())

	m := build(t, f, cells.WordlineDriverArray{Fanout: 32, Size: 4})
	c, err := sim.New(m)
	require.NoError(t, err)
	require.NoError(t, c.SetBus("wl_in", 4, 0x5))
	require.NoError(t, c.Settle())
	v, err := c.GetBus("wl", 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x5), v)
}

func Test_control_logic(t *testing.T) {
	f := newFactory(t)
	simtest.CompareFunc(t, build(t, f, cells.ControlLogic{}), func(in map[string]bool) map[string]bool {
		clk, csb, we, rbl := in["clk"], in["csb"], in["we"], in["rbl"]
		return map[string]bool{
			"wl_en":    (!csb && we) || (!csb && !clk && rbl),
			"p_en_bar": !(!csb && !we && clk),
			"sa_en":    !csb && !we && !clk && !rbl,
			"we_en":    !csb && we,
		}
	})
}

func Test_and_array(t *testing.T) {
	f := newFactory(t)
	const n = 20
	simtest.CompareFunc(t, build(t, f, cells.AndArray{Size: n}), func(in map[string]bool) map[string]bool {
		out := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			out["Z"+strconv.Itoa(i)] = in["A"+strconv.Itoa(i)] && in["en"]
		}
		return out
	})
}

func Test_input_dffs(t *testing.T) {
	f := newFactory(t)
	c, err := sim.New(build(t, f, cells.InputDFFs{Address: 5, Word: 4}))
	require.NoError(t, err)
	for _, v := range []struct {
		addr, din uint64
		csb, we   bool
	}{{0x1f, 0xa, false, true}, {0x03, 0x5, true, false}, {0x10, 0x0, false, false}} {
		require.NoError(t, c.SetBus("addr", 5, v.addr))
		require.NoError(t, c.SetBus("din", 4, v.din))
		require.NoError(t, c.Set("csb", v.csb))
		require.NoError(t, c.Set("we", v.we))
		require.NoError(t, c.Clock("clk"))
		// inputs change after the edge, registered values hold
		require.NoError(t, c.SetBus("addr", 5, ^v.addr&0x1f))
		require.NoError(t, c.Settle())
		a, _ := c.GetBus("addr_r", 5)
		d, _ := c.GetBus("din_r", 4)
		csb, _ := c.Get("csb_r")
		we, _ := c.Get("we_r")
		assert.Equal(t, v.addr, a)
		assert.Equal(t, v.din, d)
		assert.Equal(t, v.csb, csb)
		assert.Equal(t, v.we, we)
	}
}

func Test_core_selector(t *testing.T) {
	f := newFactory(t)
	const word = 3
	s := cells.CoreSelector{Address: 2, Word: word}
	c, err := sim.New(build(t, f, s))
	require.NoError(t, err)
	// core c outputs c+1 on its data bus
	for core := 0; core < s.Cores(); core++ {
		for b := 0; b < word; b++ {
			name := "dout_core" + strconv.Itoa(core) + "[" + strconv.Itoa(b) + "]"
			require.NoError(t, c.Set(name, (core+1)&(1<<uint(b)) != 0))
		}
	}
	for _, csb := range []bool{false, true} {
		require.NoError(t, c.Set("csb", csb))
		for a := 0; a < s.Cores(); a++ {
			require.NoError(t, c.SetBus("addr", 2, uint64(a)))
			require.NoError(t, c.Settle())
			sel, _ := c.GetBus("csb_core", s.Cores())
			want := uint64(0xf)
			if !csb {
				want &^= 1 << uint(a)
			}
			assert.Equal(t, want, sel, "csb=%v addr=%d", csb, a)
			dout, _ := c.GetBus("dout", word)
			assert.Equal(t, uint64(a+1), dout)
		}
	}
}

func Test_sram_structure(t *testing.T) {
	f := newFactory(t)
	for _, tc := range []struct {
		addr, word int
		insts      []string
		missing    []string
	}{
		{4, 4, []string{"input_dffs", "row_decoder", "col_decoder", "core"}, []string{"core_selector"}},
		{1, 4, []string{"row_decoder", "core"}, []string{"col_decoder", "core_selector"}},
		{10, 8, []string{"row_decoder", "col_decoder", "core_selector", "core0", "core1"}, []string{"core"}},
	} {
		m := build(t, f, cells.SRAM{Address: tc.addr, Word: tc.word})
		for _, n := range tc.insts {
			_, err := m.LookupInstance(n)
			assert.NoError(t, err, "%s: %s", m.Name(), n)
		}
		for _, n := range tc.missing {
			_, err := m.LookupInstance(n)
			assert.True(t, errors.Is(err, sramc.ErrInstanceNotFound), "%s: %s", m.Name(), n)
		}
		for _, p := range m.Ports() {
			if strings.HasPrefix(p.Name, "dout") {
				assert.Equal(t, sramc.Output, p.Direction)
			}
		}
		assert.Len(t, m.Ports(), 3+tc.addr+2*tc.word+2)
	}
}

func subckts(t *testing.T, text string) []string {
	t.Helper()
	var names []string
	s := bufio.NewScanner(strings.NewReader(text))
	s.Buffer(nil, 1<<20)
	for s.Scan() {
		if f := strings.Fields(s.Text()); len(f) > 1 && strings.EqualFold(f[0], ".subckt") {
			names = append(names, f[1])
		}
	}
	require.NoError(t, s.Err())
	return names
}

func Test_sram_export(t *testing.T) {
	f := newFactory(t)
	for _, sz := range [][2]int{{2, 1}, {4, 4}, {5, 8}, {8, 8}, {9, 16}, {10, 8}, {10, 32}, {11, 16}} {
		m := build(t, f, cells.SRAM{Address: sz[0], Word: sz[1]})
		var buf bytes.Buffer
		if err := sramc.WriteSpice(&buf, m); err != nil {
			trace(t, err)
			t.Fatalf("%s: %v", m.Name(), err)
		}
		names := subckts(t, buf.String())
		require.NotEmpty(t, names)
		assert.Equal(t, m.Name(), names[len(names)-1])
		seen := make(map[string]bool)
		for _, n := range names {
			assert.False(t, seen[n], "%s: subcircuit %s defined twice", m.Name(), n)
			seen[n] = true
		}
		for _, n := range []string{"sram_6t", "DFF_X1", "sense_amp"} {
			assert.True(t, seen[n], "%s: missing %s", m.Name(), n)
		}

		buf.Reset()
		require.NoError(t, sramc.WriteVerilog(&buf, m))
		assert.Contains(t, buf.String(), "module "+m.Name()+" (")
	}
}
