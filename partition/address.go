// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package partition

import (
	"sort"

	"github.com/pkg/errors"
)

// Limits are the capacity ceilings of a single memory core.
//
type Limits struct {
	MaxRows               int
	MaxColumns            int
	MaxColumnAddressWidth int
	MaxCoreAddressWidth   int
}

// DefaultLimits are the limits used by the compiler.
//
var DefaultLimits = Limits{
	MaxRows:               64,
	MaxColumns:            128,
	MaxColumnAddressWidth: 3,
	MaxCoreAddressWidth:   2,
}

// MaxBits returns the largest number of bits that can be partitioned.
//
func (l Limits) MaxBits() int {
	return (1 << uint(l.MaxCoreAddressWidth)) * l.MaxRows * l.MaxColumns
}

// Distribution is the split of an address between cores, rows and columns.
// The low ColumnAddressWidth address bits select a column, the next
// RowAddressWidth bits select a row and the high CoreAddressWidth bits
// select a core.
//
type Distribution struct {
	CoreAddressWidth   int
	RowAddressWidth    int
	ColumnAddressWidth int
	Rows               int // rows per core
	Columns            int // bitcell columns per core
}

// Cores returns the number of cores.
//
func (d Distribution) Cores() int { return 1 << uint(d.CoreAddressWidth) }

// ColumnSelects returns the number of bitline pairs multiplexed per data bit.
//
func (d Distribution) ColumnSelects() int { return 1 << uint(d.ColumnAddressWidth) }

type candidate struct {
	column, rows, cols int
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Address finds the smallest core address width for which some split of the
// remaining address bits between rows and columns fits within the limits.
// Among the candidate splits for that core width, the one with the smallest
// difference between row and column counts wins; ties go to the smallest
// column address width.
//
func Address(addressWidth, wordWidth int, l Limits) (Distribution, error) {
	if addressWidth < 1 || wordWidth < 1 {
		return Distribution{}, errors.Wrapf(ErrInvalidArgument, "address width %d, word width %d", addressWidth, wordWidth)
	}
	if addressWidth > 30 || wordWidth > l.MaxBits() || (1<<uint(addressWidth))*wordWidth > l.MaxBits() {
		return Distribution{}, errors.Wrapf(ErrTooLarge, "%d words of %d bits, maximum is %d bits", 1<<uint(addressWidth), wordWidth, l.MaxBits())
	}
	for core := 0; core <= l.MaxCoreAddressWidth && core < addressWidth; core++ {
		remaining := addressWidth - core
		maxCol := l.MaxColumnAddressWidth
		if remaining-1 < maxCol {
			maxCol = remaining - 1
		}
		var cs []candidate
		for col := 0; col <= maxCol; col++ {
			cs = append(cs, candidate{
				column: col,
				rows:   1 << uint(remaining-col),
				cols:   wordWidth << uint(col),
			})
		}
		sort.SliceStable(cs, func(i, j int) bool {
			return abs(cs[i].rows-cs[i].cols) < abs(cs[j].rows-cs[j].cols)
		})
		for _, c := range cs {
			if c.rows <= l.MaxRows && c.cols <= l.MaxColumns {
				return Distribution{
					CoreAddressWidth:   core,
					RowAddressWidth:    remaining - c.column,
					ColumnAddressWidth: c.column,
					Rows:               c.rows,
					Columns:            c.cols,
				}, nil
			}
		}
	}
	return Distribution{}, errors.Wrapf(ErrInfeasible, "address width %d, word width %d", addressWidth, wordWidth)
}
