package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/db47h/sramc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	dir := t.TempDir()
	y := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(y, []byte("address_width: 8\nword_width: 16\nformats: [spice, verilog]\ncompress: true\n"), 0644))
	c, err := config.Load(y)
	require.NoError(t, err)
	assert.Equal(t, 8, c.AddressWidth)
	assert.Equal(t, 16, c.WordWidth)
	assert.Equal(t, []string{"spice", "verilog"}, c.Formats)
	assert.True(t, c.Compress)
	assert.Equal(t, config.GenericPDK, c.PDK)
	assert.Equal(t, ".", c.Output)
	assert.NoError(t, c.Validate())
	assert.Equal(t, "sram_8_16", c.Name())

	j := filepath.Join(dir, "run.json")
	require.NoError(t, os.WriteFile(j, []byte(`{"address_width": 4, "word_width": 4, "output": "out"}`), 0644))
	c, err = config.Load(j)
	require.NoError(t, err)
	assert.Equal(t, 4, c.AddressWidth)
	assert.Equal(t, "out", c.Output)
	assert.Equal(t, []string{config.FormatSpice}, c.Formats)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func Test_Validate(t *testing.T) {
	td := []struct {
		name string
		c    config.Config
		ok   bool
	}{
		{"ok", config.Config{AddressWidth: 4, WordWidth: 8, Formats: []string{"spice"}}, true},
		{"address", config.Config{WordWidth: 8, Formats: []string{"spice"}}, false},
		{"word", config.Config{AddressWidth: 4, Formats: []string{"spice"}}, false},
		{"no format", config.Config{AddressWidth: 4, WordWidth: 8}, false},
		{"bad format", config.Config{AddressWidth: 4, WordWidth: 8, Formats: []string{"gds"}}, false},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			err := d.c.Validate()
			if d.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func Test_ResolvePDK(t *testing.T) {
	c := config.Default()
	p, err := c.ResolvePDK()
	require.NoError(t, err)
	assert.Equal(t, "", p)

	dir := t.TempDir()
	c.PDK = dir
	p, err = c.ResolvePDK()
	require.NoError(t, err)
	assert.Equal(t, dir, p)

	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_DATA_HOME", dir)
	xdg.Reload()
	kit := filepath.Join(dir, "sramc", "pdk", "kit")
	require.NoError(t, os.MkdirAll(kit, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(kit, "pdk.yaml"), []byte("name: kit\n"), 0644))
	c.PDK = "kit"
	p, err = c.ResolvePDK()
	require.NoError(t, err)
	assert.Equal(t, kit, p)

	c.PDK = "nope"
	_, err = c.ResolvePDK()
	assert.Error(t, err)
}
