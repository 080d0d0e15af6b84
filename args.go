// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

import (
	"fmt"
	"strings"
)

// Args describes a module to build. Two Args values with the same Kind and
// Name must describe structurally identical modules: the Factory builds each
// Kind/Name pair only once.
//
type Args interface {
	// Kind returns the module kind, e.g. "decoder".
	Kind() string
	// Name returns the canonical module name, e.g. "decoder_4_16".
	Name() string
	// Build populates an empty module. Sub-circuits must be requested from f.
	Build(m *Module, f *Factory) error
}

// CanonicalName returns kind followed by the string representation of each
// field, separated by underscores.
//
func CanonicalName(kind string, fields ...interface{}) string {
	var sb strings.Builder
	sb.WriteString(kind)
	for _, f := range fields {
		sb.WriteByte('_')
		fmt.Fprint(&sb, f)
	}
	return sb.String()
}
