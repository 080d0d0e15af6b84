// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package partition computes the shape of memory blocks: how a cell array is
// tiled into sub-arrays, how a wide decoder factors into narrower ones, how
// an address space is split between cores, rows and columns, and how a
// signal fans out through an inverter tree.
//
// All functions are pure; the cells package turns their results into
// circuits.
//
package partition

import "github.com/pkg/errors"

// Errors returned by this package.
//
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInfeasible      = errors.New("no feasible address partition")
	ErrTooLarge        = errors.New("memory size exceeds the maximum")
)
