// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config handles compiler run configurations.
//
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

const (
	AppName = "sramc"
	// GenericPDK selects the built-in generic cell library.
	GenericPDK = "generic"

	FormatSpice   = "spice"
	FormatVerilog = "verilog"
)

// Config is a compiler run configuration.
//
type Config struct {
	AddressWidth int      `json:"address_width" yaml:"address_width"`
	WordWidth    int      `json:"word_width" yaml:"word_width"`
	PDK          string   `json:"pdk" yaml:"pdk"`
	Output       string   `json:"output" yaml:"output"`
	Formats      []string `json:"formats" yaml:"formats"`
	Compress     bool     `json:"compress" yaml:"compress"`
}

// Default returns the default configuration.
//
func Default() Config {
	return Config{
		PDK:     GenericPDK,
		Output:  ".",
		Formats: []string{FormatSpice},
	}
}

// Load reads a configuration file. Files with a .json extension are decoded
// as JSON, anything else as YAML. Fields missing from the file keep their
// default value.
//
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "load config")
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &c)
	} else {
		err = yaml.Unmarshal(data, &c)
	}
	if err != nil {
		return c, errors.Wrapf(err, "load config %s", path)
	}
	return c, nil
}

// Validate checks the configuration for obvious errors. The memory geometry
// itself is checked when the memory is built.
//
func (c *Config) Validate() error {
	if c.AddressWidth < 1 {
		return errors.Errorf("invalid address width %d", c.AddressWidth)
	}
	if c.WordWidth < 1 {
		return errors.Errorf("invalid word width %d", c.WordWidth)
	}
	if len(c.Formats) == 0 {
		return errors.New("no output format")
	}
	for _, f := range c.Formats {
		switch f {
		case FormatSpice, FormatVerilog:
		default:
			return errors.Errorf("unknown output format %q", f)
		}
	}
	return nil
}

// Name returns the name of the memory described by c.
//
func (c *Config) Name() string {
	return "sram_" + strconv.Itoa(c.AddressWidth) + "_" + strconv.Itoa(c.WordWidth)
}

// ResolvePDK returns the path of the PDK descriptor or directory named by
// c.PDK, or "" for the generic library. Names that do not refer to an
// existing file are searched in the XDG data directories as
// sramc/pdk/<name>/pdk.yaml.
//
func (c *Config) ResolvePDK() (string, error) {
	if c.PDK == "" || c.PDK == GenericPDK {
		return "", nil
	}
	if _, err := os.Stat(c.PDK); err == nil {
		return c.PDK, nil
	}
	p, err := xdg.SearchDataFile(filepath.Join(AppName, "pdk", c.PDK, "pdk.yaml"))
	if err != nil {
		return "", errors.Wrapf(err, "pdk %s not found", c.PDK)
	}
	return filepath.Dir(p), nil
}
