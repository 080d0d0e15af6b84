// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package partition

import "github.com/pkg/errors"

// MaxFanout is the maximum number of loads driven by a single inverter of a
// fanout tree.
//
const MaxFanout = 1024

// FanoutLevel is one level of an inverter tree.
//
type FanoutLevel struct {
	Inverters int
	// Fanout is the number of loads driven by each inverter of the level.
	// Inverter i of the next level, or output i for the last level, is
	// driven by inverter i/Fanout.
	Fanout int
}

// FanoutTree returns the levels of an inverter tree driving n loads, root
// first. The root level always has a single inverter.
//
func FanoutTree(n int) ([]FanoutLevel, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "fanout %d < 1", n)
	}
	var levels []FanoutLevel
	for {
		inv := (n + MaxFanout - 1) / MaxFanout
		levels = append(levels, FanoutLevel{Inverters: inv, Fanout: (n + inv - 1) / inv})
		if inv == 1 {
			break
		}
		n = inv
	}
	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}
	return levels, nil
}
