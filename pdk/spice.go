// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pdk

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// A Subckt is a .SUBCKT block of a SPICE file.
//
type Subckt struct {
	Name  string
	Ports []string
	// Text is the complete block, from the .SUBCKT line to the .ENDS line
	// included, as found in the source.
	Text string
}

// ParseSpice returns the .SUBCKT blocks found in r. Statements outside of
// subcircuits are ignored. Continuation lines starting with '+' are joined
// to the previous statement and lines starting with '*' are comments.
//
func ParseSpice(r io.Reader) ([]*Subckt, error) {
	var (
		out   []*Subckt
		cur   *Subckt
		text  strings.Builder
		stmt  string
		lines []string
		line  int
		in    bool
	)
	flush := func() error {
		if stmt == "" {
			return nil
		}
		f := strings.Fields(stmt)
		stmt = ""
		switch strings.ToLower(f[0]) {
		case ".subckt":
			if cur != nil {
				return errors.Errorf("line %d: nested .SUBCKT in %s", line, cur.Name)
			}
			if len(f) < 2 {
				return errors.Errorf("line %d: .SUBCKT without a name", line)
			}
			cur = &Subckt{Name: f[1]}
			for _, p := range f[2:] {
				// parameters end the port list
				if strings.ContainsRune(p, '=') || strings.EqualFold(p, "params:") {
					break
				}
				cur.Ports = append(cur.Ports, p)
			}
		case ".ends":
			if cur == nil {
				return errors.Errorf("line %d: .ENDS outside of a subcircuit", line)
			}
			for _, l := range lines {
				text.WriteString(l)
				text.WriteByte('\n')
			}
			cur.Text = text.String()
			out = append(out, cur)
			cur = nil
			text.Reset()
			lines = lines[:0]
		}
		return nil
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line++
		raw := s.Text()
		l := strings.TrimSpace(raw)
		if strings.HasPrefix(l, "+") {
			stmt += " " + l[1:]
		} else if l != "" && !strings.HasPrefix(l, "*") {
			if err := flush(); err != nil {
				return nil, err
			}
			stmt = l
		}
		kw := strings.ToLower(l)
		if strings.HasPrefix(kw, ".subckt") {
			in = true
		}
		if in {
			lines = append(lines, raw)
		}
		if strings.HasPrefix(kw, ".ends") {
			in = false
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "read spice")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if cur != nil {
		return nil, errors.Errorf("unterminated subcircuit %s", cur.Name)
	}
	return out, nil
}
