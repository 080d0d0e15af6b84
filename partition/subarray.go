// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package partition

// TileThreshold is the minimum row or column count of an array that gets
// split into sub-arrays. Smaller arrays are built cell by cell.
//
const TileThreshold = 4

// SubArrayInfo describes how one dimension of an array is split:
// Size*Count + Remainder cells.
//
type SubArrayInfo struct {
	Size      int
	Count     int
	Remainder int
}

// SubArrayFromSize splits an array dimension of the given size. With m the
// largest integer such that m*m <= size, the dimension is split in m
// sub-arrays of size m + (size-m*m)/m, leaving (size-m*m)%m cells. When
// size-m*m is smaller than m, the sub-arrays have size m and the remainder is
// size-m*m.
//
// size must be at least 1.
//
func SubArrayFromSize(size int) SubArrayInfo {
	m := 1
	for (m+1)*(m+1) <= size {
		m++
	}
	left := size - m*m
	if m > left {
		return SubArrayInfo{Size: m, Count: m, Remainder: left}
	}
	return SubArrayInfo{Size: m + left/m, Count: m, Remainder: left % m}
}

// Tiled returns true if an array of the given size is split into sub-arrays.
//
func Tiled(rows, columns int) bool {
	return rows >= TileThreshold || columns >= TileThreshold
}
