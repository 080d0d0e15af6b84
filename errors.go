// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

import "github.com/pkg/errors"

// Structural errors reported while building or exporting a circuit. They are
// always returned wrapped with the circuit and operation that failed; use
// errors.Is to test for a specific kind.
//
var (
	ErrDuplicatePort     = errors.New("port already exists")
	ErrDuplicateInstance = errors.New("instance already exists")
	ErrPinCount          = errors.New("pin count and net count mismatch")
	ErrPortNotFound      = errors.New("port not found")
	ErrPinNotFound       = errors.New("pin not found")
	ErrInstanceNotFound  = errors.New("instance not found")
	ErrInvalidArgument   = errors.New("invalid circuit argument")
	ErrPrimitiveNotFound = errors.New("primitive not found in library")
	ErrNotConnected      = errors.New("pin not connected")
	ErrDuplicateCircuit  = errors.New("distinct circuits share the same name")
)

// InvalidArgf returns an ErrInvalidArgument annotated with a formatted message.
//
func InvalidArgf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// Check returns an ErrInvalidArgument with the given message if cond is false.
// It is a shorthand for argument validation at the start of build routines.
//
func Check(cond bool, format string, args ...interface{}) error {
	if cond {
		return nil
	}
	return InvalidArgf(format, args...)
}
