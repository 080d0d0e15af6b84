// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command sramc compiles an SRAM netlist.
//
// Usage:
//
//	sramc [flags]
//
// A memory of 2^addr words of word bits is built from the cells of the
// selected PDK and written to the output directory as <name>.sp and/or
// <name>.v. Flags override the values of the configuration file given with
// -c.
//
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/db47h/sramc"
	"github.com/db47h/sramc/cells"
	"github.com/db47h/sramc/internal/config"
	"github.com/db47h/sramc/pdk"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "sramc: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgFile = fs.String("c", "", "configuration `file` (YAML or JSON)")
		addr    = fs.Int("addr", 0, "address width in bits")
		word    = fs.Int("word", 0, "word width in bits")
		pdkName = fs.String("pdk", config.GenericPDK, "PDK name, descriptor file or directory")
		out     = fs.String("o", ".", "output `directory`")
		formats = fs.String("format", config.FormatSpice, "comma separated output formats: spice, verilog")
		gz      = fs.Bool("z", false, "gzip output files")
		list    = fs.Bool("list", false, "list generated modules")
		verbose = fs.Bool("v", false, "verbose logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		if cfg, err = config.Load(*cfgFile); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.AddressWidth = *addr
		case "word":
			cfg.WordWidth = *word
		case "pdk":
			cfg.PDK = *pdkName
		case "o":
			cfg.Output = *out
		case "format":
			cfg.Formats = strings.Split(*formats, ",")
		case "z":
			cfg.Compress = *gz
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	lib, err := loadPDK(&cfg)
	if err != nil {
		return err
	}
	log.Info().Str("pdk", lib.Name()).Int("cells", len(lib.Cells())).Msg("pdk loaded")

	f := sramc.NewFactory(lib, sramc.WithLogger(log))
	m, err := f.Module(cells.SRAM{Address: cfg.AddressWidth, Word: cfg.WordWidth})
	if err != nil {
		return err
	}
	log.Info().Str("sram", m.Name()).Int("circuits", len(f.Modules())).Msg("memory built")

	if err = os.MkdirAll(cfg.Output, 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	for _, format := range cfg.Formats {
		name := filepath.Join(cfg.Output, cfg.Name())
		write := sramc.WriteSpice
		switch format {
		case config.FormatSpice:
			name += ".sp"
		case config.FormatVerilog:
			name += ".v"
			write = sramc.WriteVerilog
		}
		if cfg.Compress {
			name += ".gz"
		}
		if err = writeFile(name, cfg.Compress, func(w io.Writer) error { return write(w, m) }); err != nil {
			return err
		}
		log.Info().Str("file", name).Str("format", format).Msg("netlist written")
	}

	if *list {
		for _, m := range f.Modules() {
			fmt.Fprintf(stdout, "%-24s %s\n", m.Args().Kind(), m.Name())
		}
	}
	return nil
}

func loadPDK(cfg *config.Config) (*pdk.Library, error) {
	path, err := cfg.ResolvePDK()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return pdk.Generic()
	}
	return pdk.Load(path)
}

func writeFile(name string, compress bool, fn func(w io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", name)
		}
	}()
	if !compress {
		return fn(f)
	}
	zw := gzip.NewWriter(f)
	if err = fn(zw); err != nil {
		return err
	}
	return errors.Wrapf(zw.Close(), "compress %s", name)
}
