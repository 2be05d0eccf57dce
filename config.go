package main

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// MeshConfig drives the mesh subcommand
type MeshConfig struct {
	Length     float64         `yaml:"length"`     // domain length L
	Resolution int             `yaml:"resolution"` // grid points N
	StartAngle float64         `yaml:"startAngle"`
	Shape      BellShape       `yaml:"shape"`
	Constants  SpringConstants `yaml:"constants"`
	StructName string          `yaml:"structName"`
	OutputDir  string          `yaml:"outputDir"`
	GeoJSON    string          `yaml:"geojson"` // optional GeoJSON export path
	SVG        string          `yaml:"svg"`     // optional outline rendering
	Check      bool            `yaml:"check"`
}

// ProbeConfig drives the probe subcommand
type ProbeConfig struct {
	DataDir     string       `yaml:"dataDir"`     // directory holding the Eulerian fields
	LagDir      string       `yaml:"lagDir"`      // directory holding the Lagrangian forces
	VelocityPfx string       `yaml:"velocity"`    // Eulerian field prefix, e.g. "u"
	ForcePfxs   []string     `yaml:"forces"`      // Lagrangian force prefixes, e.g. fX_Lag, fY_Lag
	FirstFrame  int          `yaml:"firstFrame"`
	LastFrame   int          `yaml:"lastFrame"`
	FrameStep   int          `yaml:"frameStep"`
	Probes      []ProbePoint `yaml:"probes"`
	ProbesFile  string       `yaml:"probesFile"` // GeoJSON points, appended to Probes
	SkipMissing bool         `yaml:"skipMissing"`
	SVG         string       `yaml:"svg"`
	Database    string       `yaml:"database"` // optional SQLite file
}

// Config is the YAML file layout
type Config struct {
	Mesh  MeshConfig  `yaml:"mesh"`
	Probe ProbeConfig `yaml:"probe"`
}

// DefaultMeshConfig reproduces the reference jellyfish
func DefaultMeshConfig() MeshConfig {
	return MeshConfig{
		Length:     8,
		Resolution: 512,
		StartAngle: math.Pi / 2,
		Shape:      BellShape{A: 0.5, B: 0.75, D: -0.25},
		Constants: SpringConstants{
			Spring: 1e7,
			Beam:   2.5e5,
			Muscle: 1e10,
			Type:   1,
		},
		StructName: "jellyfish",
		OutputDir:  ".",
		Check:      true,
	}
}

// DefaultProbeConfig reads IB2d's default output folders
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		DataDir:     "viz_IB2d",
		LagDir:      "hier_IB2d_data",
		VelocityPfx: "u",
		ForcePfxs:   []string{"fX_Lag", "fY_Lag"},
		FirstFrame:  0,
		LastFrame:   0,
		FrameStep:   1,
	}
}

// DefaultConfig bundles both defaults
func DefaultConfig() Config {
	return Config{Mesh: DefaultMeshConfig(), Probe: DefaultProbeConfig()}
}

// LoadConfig overlays the YAML file at path on the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ApplyInput2d takes grid size, domain length and structure name from an
// IB2d input2d parameter set. Missing entries leave the config unchanged.
func (c *MeshConfig) ApplyInput2d(in *Input2d) {
	if nx, ok := in.Int("Nx"); ok {
		c.Resolution = nx
	}
	if lx, ok := in.Float("Lx"); ok {
		c.Length = lx
	}
	if in.StructName != "" {
		c.StructName = in.StructName
	}
}

// Validate fails fast on parameters that would produce a degenerate bell
func (c MeshConfig) Validate() error {
	if c.Resolution <= 0 {
		return fmt.Errorf("%w: N=%d", ErrInvalidResolution, c.Resolution)
	}
	if c.Length <= 0 {
		return fmt.Errorf("%w: L=%g", ErrInvalidDomain, c.Length)
	}
	if err := c.Shape.Validate(); err != nil {
		return err
	}
	if c.StartAngle >= c.Shape.LimitAngle() {
		return fmt.Errorf("%w: start=%.6f limit=%.6f", ErrAngleLimit, c.StartAngle, c.Shape.LimitAngle())
	}
	if !c.Shape.OnApex(c.StartAngle) {
		return fmt.Errorf("%w: start=%.6f", ErrStartOffApex, c.StartAngle)
	}
	if c.StructName == "" {
		return fmt.Errorf("invalid config: missing structure name")
	}
	return nil
}

// Frames lists the frame numbers to analyse
func (c ProbeConfig) Frames() []int {
	step := c.FrameStep
	if step <= 0 {
		step = 1
	}
	var frames []int
	for f := c.FirstFrame; f <= c.LastFrame; f += step {
		frames = append(frames, f)
	}
	return frames
}

// Validate checks the probe configuration before any file is read
func (c ProbeConfig) Validate() error {
	if c.FirstFrame < 0 || c.LastFrame < c.FirstFrame {
		return fmt.Errorf("invalid frame range [%d, %d]", c.FirstFrame, c.LastFrame)
	}
	if c.VelocityPfx == "" {
		return fmt.Errorf("invalid config: missing velocity prefix")
	}
	if len(c.Probes) == 0 {
		return fmt.Errorf("invalid config: no probe points")
	}
	return nil
}
