package partition_test

import (
	"testing"

	"github.com/db47h/sramc/partition"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SubArrayFromSize(t *testing.T) {
	td := []struct {
		size int
		want partition.SubArrayInfo
	}{
		{1, partition.SubArrayInfo{1, 1, 0}},
		{2, partition.SubArrayInfo{2, 1, 0}},
		{3, partition.SubArrayInfo{3, 1, 0}},
		{4, partition.SubArrayInfo{2, 2, 0}},
		{8, partition.SubArrayInfo{4, 2, 0}},
		{10, partition.SubArrayInfo{3, 3, 1}},
		{15, partition.SubArrayInfo{5, 3, 0}},
		{16, partition.SubArrayInfo{4, 4, 0}},
		{64, partition.SubArrayInfo{8, 8, 0}},
		{100, partition.SubArrayInfo{10, 10, 0}},
		{128, partition.SubArrayInfo{11, 11, 7}},
	}
	for _, d := range td {
		assert.Equal(t, d.want, partition.SubArrayFromSize(d.size), "size %d", d.size)
	}
}

func Test_SubArrayFromSize_invariants(t *testing.T) {
	for size := 4; size <= 10000; size++ {
		i := partition.SubArrayFromSize(size)
		if i.Size*i.Count+i.Remainder != size || i.Remainder >= i.Size || i.Size >= size {
			t.Fatalf("size %d: bad split %+v", size, i)
		}
	}
}

func Test_Tiled(t *testing.T) {
	assert.False(t, partition.Tiled(3, 3))
	assert.True(t, partition.Tiled(4, 1))
	assert.True(t, partition.Tiled(1, 4))
}

func Test_DecoderKindOf(t *testing.T) {
	td := map[int]partition.DecoderKind{
		1: partition.OneAddress, 2: partition.Simple, 4: partition.Simple,
		5: partition.Composite, 12: partition.Composite,
	}
	for w, want := range td {
		k, err := partition.DecoderKindOf(w)
		require.NoError(t, err)
		assert.Equal(t, want, k, "width %d", w)
	}
	for _, w := range []int{0, 13, -1} {
		_, err := partition.DecoderKindOf(w)
		assert.True(t, errors.Is(err, partition.ErrInvalidArgument), "width %d", w)
	}
}

func Test_SubDecoders(t *testing.T) {
	for w := 5; w <= partition.MaxDecoderWidth; w++ {
		ws, err := partition.SubDecoders(w)
		require.NoError(t, err)
		sum := 0
		for _, sw := range ws {
			assert.True(t, sw >= 2 && sw <= partition.MaxSimpleDecoder, "width %d: sub-decoder width %d", w, sw)
			sum += sw
		}
		assert.Equal(t, w, sum)
	}
	ws, err := partition.SubDecoders(10)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 4}, ws)
	_, err = partition.SubDecoders(4)
	assert.True(t, errors.Is(err, partition.ErrInvalidArgument))
}

// every output index of a composite decoder must map to a distinct tuple of
// sub-decoder lines, and the tuple must rebuild the index.
func Test_SubDecoderLines_bijection(t *testing.T) {
	for w := 5; w <= partition.MaxDecoderWidth; w++ {
		ws, err := partition.SubDecoders(w)
		require.NoError(t, err)
		for i := 0; i < 1<<uint(w); i++ {
			lines := partition.SubDecoderLines(i, ws)
			v, shift := 0, 0
			for d, l := range lines {
				require.True(t, l < 1<<uint(ws[d]))
				v |= l << uint(shift)
				shift += ws[d]
			}
			require.Equal(t, i, v, "width %d", w)
		}
	}
	assert.Equal(t, []int{1, 4}, partition.SubDecoderLines(0x11, []int{2, 3}))
}

func Test_Address(t *testing.T) {
	d, err := partition.Address(10, 8, partition.DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, partition.Distribution{
		CoreAddressWidth:   1,
		RowAddressWidth:    6,
		ColumnAddressWidth: 3,
		Rows:               64,
		Columns:            64,
	}, d)
	assert.Equal(t, 2, d.Cores())
	assert.Equal(t, 8, d.ColumnSelects())

	d, err = partition.Address(8, 8, partition.DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, 0, d.CoreAddressWidth)
	assert.Equal(t, 2, d.ColumnAddressWidth)
	assert.Equal(t, 64, d.Rows)
	assert.Equal(t, 32, d.Columns)
}

func Test_Address_limits(t *testing.T) {
	l := partition.DefaultLimits
	for aw := 1; aw <= 12; aw++ {
		for _, ww := range []int{1, 2, 4, 8, 16, 32} {
			d, err := partition.Address(aw, ww, l)
			if (1<<uint(aw))*ww > l.MaxBits() {
				assert.True(t, errors.Is(err, partition.ErrTooLarge), "%dx%d", aw, ww)
				continue
			}
			if err != nil {
				assert.True(t, errors.Is(err, partition.ErrInfeasible), "%dx%d: %v", aw, ww, err)
				continue
			}
			assert.Equal(t, aw, d.CoreAddressWidth+d.RowAddressWidth+d.ColumnAddressWidth)
			assert.True(t, d.Rows <= l.MaxRows && d.Columns <= l.MaxColumns, "%dx%d: %+v", aw, ww, d)
			assert.Equal(t, (1<<uint(aw))*ww, d.Cores()*d.Rows*d.Columns)
		}
	}
}

func Test_Address_errors(t *testing.T) {
	_, err := partition.Address(16, 8, partition.DefaultLimits)
	assert.True(t, errors.Is(err, partition.ErrTooLarge))
	_, err = partition.Address(0, 8, partition.DefaultLimits)
	assert.True(t, errors.Is(err, partition.ErrInvalidArgument))
	// 2 words of 256 bits: too many columns whatever the split.
	_, err = partition.Address(1, 256, partition.DefaultLimits)
	assert.True(t, errors.Is(err, partition.ErrInfeasible))
}

func Test_FanoutTree(t *testing.T) {
	td := []struct {
		n    int
		want []partition.FanoutLevel
	}{
		{2, []partition.FanoutLevel{{1, 2}}},
		{1024, []partition.FanoutLevel{{1, 1024}}},
		{1025, []partition.FanoutLevel{{1, 2}, {2, 513}}},
		{3000, []partition.FanoutLevel{{1, 3}, {3, 1000}}},
	}
	for _, d := range td {
		l, err := partition.FanoutTree(d.n)
		require.NoError(t, err)
		assert.Equal(t, d.want, l, "n = %d", d.n)
	}
	_, err := partition.FanoutTree(0)
	assert.True(t, errors.Is(err, partition.ErrInvalidArgument))
}

func Test_FanoutTree_coverage(t *testing.T) {
	for _, n := range []int{1, 7, 1023, 4096, 100000, 2000000} {
		l, err := partition.FanoutTree(n)
		require.NoError(t, err)
		require.Equal(t, 1, l[0].Inverters)
		for i, lv := range l {
			require.True(t, lv.Fanout <= partition.MaxFanout)
			loads := n
			if i+1 < len(l) {
				loads = l[i+1].Inverters
			}
			require.True(t, lv.Inverters*lv.Fanout >= loads, "n=%d level %d", n, i)
		}
	}
}
