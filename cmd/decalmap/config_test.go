package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	c := DefaultConfig()
	assert.NoError(t, c.Validate())
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"normal method": func(c *Config) { c.NormalMethod = "none" },
		"stop dist":     func(c *Config) { c.StopDist = 0 },
		"stop dist nan": func(c *Config) { c.StopDist = math.NaN() },
		"scale":         func(c *Config) { c.Scale = -2 },
		"scale inf":     func(c *Config) { c.Scale = math.Inf(1) },
		"time scale":    func(c *Config) { c.TimeScale = 0 },
		"rotation":      func(c *Config) { c.Rotation = math.Inf(-1) },
		"translate":     func(c *Config) { c.TranslateV = math.NaN() },
		"format":        func(c *Config) { c.Format = "xml" },
	}
	for name, mutate := range cases {
		c := DefaultConfig()
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
normalize = false
normal_method = "mean-curvature"
rotation = 1.5
translate_u = 0.25
`), 0o644))
	c, err := LoadConfig(path)
	require.NoError(t, err)
	want := DefaultConfig()
	want.Normalize = false
	want.NormalMethod = "mean-curvature"
	want.Rotation = 1.5
	want.TranslateU = 0.25
	assert.Equal(t, want, c)

	require.NoError(t, os.WriteFile(path, []byte("scale = \"big\"\n"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	c := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(fs, &c)
	fs.BoolP("verbose", "v", false, "unrelated flag")
	require.NoError(t, fs.Parse([]string{"--scale", "3", "--normalize=false", "--format", "yaml",
		"--rotation=-0.5", "--normal-method", "angle-weighted", "-v"}))

	c.StopDist = 0.9 // as if read from a file
	require.NoError(t, applyFlags(fs, &c))
	assert.Equal(t, 3., c.Scale)
	assert.False(t, c.Normalize)
	assert.Equal(t, "yaml", c.Format)
	assert.Equal(t, 0.9, c.StopDist)
	assert.Equal(t, -0.5, c.Rotation)
	assert.Equal(t, "angle-weighted", c.NormalMethod)
}
