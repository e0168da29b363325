package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flywave/go-meshpipe/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlags(t *testing.T) {
	cfg := config.Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(fs, cfg)

	require.NoError(t, fs.Parse([]string{
		"--format", "stlb",
		"--scale", "2.5",
		"--align-x", "center",
		"--align-z", "end",
		"--translate", "1,2,3",
		"--flip-uv",
	}))
	assert.Equal(t, "stlb", cfg.Format)
	assert.Equal(t, 2.5, cfg.Scale)
	assert.Equal(t, config.AlignCenter, cfg.AlignX)
	assert.Equal(t, config.AlignMax, cfg.AlignZ)
	assert.Equal(t, [3]float64{1, 2, 3}, cfg.Translate)
	assert.True(t, cfg.FlipUV)
}

func TestBindFlagsRejectsBadValues(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	bindFlags(fs, config.Default())
	assert.Error(t, fs.Parse([]string{"--align-y", "left"}))
	assert.Error(t, fs.Parse([]string{"--translate", "1,2"}))
	assert.Error(t, fs.Parse([]string{"--matrix", "1,0,0"}))
}

func TestResolveConfigLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: obj\nscale: 3\nflip_uv: true\n"), 0o644))

	flagCfg = config.Default()
	configPath = path
	defer func() { configPath = "" }()

	cmd := &cobra.Command{Use: "test"}
	bindFlags(cmd.Flags(), flagCfg)
	require.NoError(t, cmd.Flags().Parse([]string{"--scale", "4"}))

	cfg, err := resolveConfig(cmd, []string{"model.fbx"})
	require.NoError(t, err)
	assert.Equal(t, "model.fbx", cfg.Input)
	assert.Equal(t, "obj", cfg.Format)
	assert.Equal(t, 4.0, cfg.Scale)
	assert.True(t, cfg.FlipUV)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
