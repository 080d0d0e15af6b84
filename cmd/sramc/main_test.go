package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/sramc/cells"
	"github.com/db47h/sramc/internal/config"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_run(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	err := run([]string{"-addr", "5", "-word", "4", "-o", dir, "-format", "spice,verilog", "-list"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	sp, err := os.ReadFile(filepath.Join(dir, "sram_5_4.sp"))
	require.NoError(t, err)
	assert.Contains(t, string(sp), ".SUBCKT sram_5_4 ")
	v, err := os.ReadFile(filepath.Join(dir, "sram_5_4.v"))
	require.NoError(t, err)
	assert.Contains(t, string(v), "module sram_5_4 (")
	assert.Contains(t, stdout.String(), "sram_5_4")
	assert.Contains(t, stdout.String(), "decoder")
}

func Test_run_config(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sram.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("address_width: 4\nword_width: 2\ncompress: true\noutput: "+dir+"\n"), 0644))
	var stdout, stderr bytes.Buffer
	// flags override the file
	require.NoError(t, run([]string{"-c", cfg, "-word", "3"}, &stdout, &stderr), stderr.String())

	f, err := os.Open(filepath.Join(dir, "sram_4_3.sp.gz"))
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), ".ENDS sram_4_3"))
}

func Test_output_name(t *testing.T) {
	for _, sz := range [][2]int{{1, 1}, {5, 4}, {10, 32}} {
		cfg := config.Default()
		cfg.AddressWidth, cfg.WordWidth = sz[0], sz[1]
		assert.Equal(t, cells.SRAM{Address: sz[0], Word: sz[1]}.Name(), cfg.Name())
	}
}

func Test_run_errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run([]string{"-addr", "0", "-word", "8"}, &stdout, &stderr))
	assert.Error(t, run([]string{"-addr", "4", "-word", "8", "-format", "gds"}, &stdout, &stderr))
	assert.Error(t, run([]string{"-addr", "4", "-word", "8", "-pdk", "no_such_pdk", "-o", t.TempDir()}, &stdout, &stderr))
	assert.Error(t, run([]string{"-addr", "20", "-word", "64", "-o", t.TempDir()}, &stdout, &stderr))
}
