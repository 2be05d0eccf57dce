package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("empty path gives defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("yaml overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
mesh:
  resolution: 1024
  shape:
    a: 0.4
  constants:
    muscle: 5e9
  structName: bell
probe:
  lastFrame: 20
  frameStep: 5
  probes:
    - name: wake
      x: 0
      y: -1
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 1024, cfg.Mesh.Resolution)
		assert.Equal(t, 8.0, cfg.Mesh.Length)
		assert.Equal(t, BellShape{A: 0.4, B: 0.75, D: -0.25}, cfg.Mesh.Shape)
		assert.Equal(t, 5e9, cfg.Mesh.Constants.Muscle)
		assert.Equal(t, 1e7, cfg.Mesh.Constants.Spring)
		assert.Equal(t, "bell", cfg.Mesh.StructName)
		assert.True(t, cfg.Mesh.Check)

		assert.Equal(t, "viz_IB2d", cfg.Probe.DataDir)
		assert.Equal(t, []int{0, 5, 10, 15, 20}, cfg.Probe.Frames())
		assert.Equal(t, []ProbePoint{{Name: "wake", X: 0, Y: -1}}, cfg.Probe.Probes)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mesh: [unclosed"), 0o644))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal config")
	})
}

func TestApplyInput2d(t *testing.T) {
	in, err := ParseInput2d(strings.NewReader("Nx = 256\nLx = 4\nstring_name = 'medusa'\n"))
	require.NoError(t, err)

	cfg := DefaultMeshConfig()
	cfg.ApplyInput2d(in)

	assert.Equal(t, 256, cfg.Resolution)
	assert.Equal(t, 4.0, cfg.Length)
	assert.Equal(t, "medusa", cfg.StructName)

	t.Run("missing entries keep the config", func(t *testing.T) {
		empty, err := ParseInput2d(strings.NewReader("dt = 1e-4\n"))
		require.NoError(t, err)

		cfg := DefaultMeshConfig()
		cfg.ApplyInput2d(empty)
		assert.Equal(t, DefaultMeshConfig(), cfg)
	})
}

func TestMeshConfigValidate(t *testing.T) {
	require.NoError(t, DefaultMeshConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*MeshConfig)
		want   error
	}{
		{"zero resolution", func(c *MeshConfig) { c.Resolution = 0 }, ErrInvalidResolution},
		{"negative length", func(c *MeshConfig) { c.Length = -1 }, ErrInvalidDomain},
		{"bad shape", func(c *MeshConfig) { c.Shape.D = 1 }, ErrInvalidShape},
		{"start past limit", func(c *MeshConfig) { c.StartAngle = c.Shape.LimitAngle() }, ErrAngleLimit},
		{"start below the apex", func(c *MeshConfig) { c.StartAngle = 1.2 }, ErrStartOffApex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMeshConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}

	t.Run("missing structure name", func(t *testing.T) {
		cfg := DefaultMeshConfig()
		cfg.StructName = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestProbeConfig(t *testing.T) {
	t.Run("frames honour the step", func(t *testing.T) {
		cfg := DefaultProbeConfig()
		cfg.FirstFrame, cfg.LastFrame, cfg.FrameStep = 2, 9, 3
		assert.Equal(t, []int{2, 5, 8}, cfg.Frames())
	})

	t.Run("non-positive step falls back to one", func(t *testing.T) {
		cfg := DefaultProbeConfig()
		cfg.LastFrame, cfg.FrameStep = 2, 0
		assert.Equal(t, []int{0, 1, 2}, cfg.Frames())
	})

	t.Run("validation", func(t *testing.T) {
		cfg := DefaultProbeConfig()
		assert.ErrorContains(t, cfg.Validate(), "no probe points")

		cfg.Probes = []ProbePoint{{Name: "P1", X: 0, Y: 0}}
		assert.NoError(t, cfg.Validate())

		cfg.FirstFrame, cfg.LastFrame = 5, 1
		assert.ErrorContains(t, cfg.Validate(), "invalid frame range")

		cfg.FirstFrame, cfg.LastFrame = 0, 1
		cfg.VelocityPfx = ""
		assert.ErrorContains(t, cfg.Validate(), "missing velocity prefix")
	})
}
