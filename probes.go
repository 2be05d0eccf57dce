package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// ProbePoint is a fixed sampling location in the fluid domain
type ProbePoint struct {
	Name string  `yaml:"name" json:"name"`
	X    float64 `yaml:"x" json:"x"`
	Y    float64 `yaml:"y" json:"y"`
}

// FrameName builds the simulator's file name for a frame, e.g. u.0003.vtk
func FrameName(prefix string, frame int) string {
	return fmt.Sprintf("%s.%04d.vtk", prefix, frame)
}

// LowerIndex advances through ascending grid coordinates while the next
// coordinate is still below target, so it returns the last grid index
// strictly below the target. Targets at or below the first coordinate map
// to 0; targets past the end map to the last index.
func LowerIndex(coords []float64, target float64) int {
	i := 0
	for i+1 < len(coords) && coords[i+1] < target {
		i++
	}
	return i
}

// GridIndex locates a probe on the field's grid
func (f *VectorField) GridIndex(p ProbePoint) (int, int) {
	return LowerIndex(f.X, p.X), LowerIndex(f.Y, p.Y)
}

// Magnitude returns |(u, v)| at grid index (i, j)
func (f *VectorField) Magnitude(i, j int) float64 {
	u, v := f.At(i, j)
	return math.Hypot(u, v)
}

// SampleProbes returns the velocity magnitude at every probe
func SampleProbes(field *VectorField, probes []ProbePoint) []float64 {
	out := make([]float64, len(probes))
	for k, p := range probes {
		i, j := field.GridIndex(p)
		out[k] = field.Magnitude(i, j)
	}
	return out
}

// BoundaryForces is the Lagrangian force on every boundary point of a frame
type BoundaryForces struct {
	Points []Point
	FX, FY []float64
}

// Magnitude returns the force magnitude on boundary point i
func (b *BoundaryForces) Magnitude(i int) float64 {
	return math.Hypot(b.FX[i], b.FY[i])
}

// Peak returns the largest force magnitude on the boundary
func (b *BoundaryForces) Peak() float64 {
	peak := 0.0
	for i := range b.Points {
		peak = math.Max(peak, b.Magnitude(i))
	}
	return peak
}

// NearProbes returns, for each probe, the force magnitude at the closest
// boundary point
func (b *BoundaryForces) NearProbes(probes []ProbePoint) []float64 {
	index := NewPointIndex(b.Points)
	out := make([]float64, len(probes))
	for k, p := range probes {
		if id := index.Nearest(Point{X: p.X, Y: p.Y}); id >= 0 {
			out[k] = b.Magnitude(id)
		}
	}
	return out
}

// FrameSample is everything recorded for one frame
type FrameSample struct {
	Frame     int
	Velocity  []float64 // per probe
	NearForce []float64 // per probe, nil without force data
	PeakForce float64
	HasForces bool
}

// Accumulator collects probe samples across frames in insertion order
type Accumulator struct {
	Probes  []ProbePoint
	Samples []FrameSample
}

// NewAccumulator starts an empty accumulator for probes
func NewAccumulator(probes []ProbePoint) *Accumulator {
	return &Accumulator{Probes: probes}
}

// Add records one frame
func (a *Accumulator) Add(frame int, field *VectorField, forces *BoundaryForces) {
	sample := FrameSample{
		Frame:    frame,
		Velocity: SampleProbes(field, a.Probes),
	}
	if forces != nil && len(forces.Points) > 0 {
		sample.NearForce = forces.NearProbes(a.Probes)
		sample.PeakForce = forces.Peak()
		sample.HasForces = true
	}
	a.Samples = append(a.Samples, sample)
}

// Series returns the velocity magnitude history of probe k
func (a *Accumulator) Series(k int) []float64 {
	out := make([]float64, len(a.Samples))
	for i, s := range a.Samples {
		out[i] = s.Velocity[k]
	}
	return out
}

// Frames returns the recorded frame numbers
func (a *Accumulator) Frames() []int {
	out := make([]int, len(a.Samples))
	for i, s := range a.Samples {
		out[i] = s.Frame
	}
	return out
}

// MaxVelocity returns the peak magnitude seen at probe k
func (a *Accumulator) MaxVelocity(k int) float64 {
	peak := 0.0
	for _, v := range a.Series(k) {
		peak = math.Max(peak, v)
	}
	return peak
}

// LoadVelocityFrame reads the Eulerian velocity field for one frame
func LoadVelocityFrame(dir, prefix string, frame int) (*VectorField, error) {
	data, err := LoadVTK(filepath.Join(dir, FrameName(prefix, frame)))
	if err != nil {
		return nil, err
	}
	field, err := data.ToVectorField(prefix)
	if err != nil {
		field, err = data.ToVectorField("")
	}
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frame, err)
	}
	return field, nil
}

// LoadForceFrame reads the x and y Lagrangian force files for one frame
func LoadForceFrame(dir string, prefixes []string, frame int) (*BoundaryForces, error) {
	if len(prefixes) < 2 {
		return nil, fmt.Errorf("need x and y force prefixes, got %d", len(prefixes))
	}

	read := func(prefix string) ([]Point, []float64, error) {
		data, err := LoadVTK(filepath.Join(dir, FrameName(prefix, frame)))
		if err != nil {
			return nil, nil, err
		}
		return data.LagrangianScalars(prefix)
	}

	pts, fx, err := read(prefixes[0])
	if err != nil {
		return nil, err
	}
	_, fy, err := read(prefixes[1])
	if err != nil {
		return nil, err
	}
	if len(fx) != len(fy) {
		return nil, fmt.Errorf("frame %d: %d x-forces but %d y-forces", frame, len(fx), len(fy))
	}
	return &BoundaryForces{Points: pts, FX: fx, FY: fy}, nil
}

// ParseProbeList parses "x,y;x,y" into unnamed probes
func ParseProbeList(s string) ([]ProbePoint, error) {
	var probes []ProbePoint
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		xs, ys, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("invalid probe %q: expected x,y", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid probe %q: %w", part, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid probe %q: %w", part, err)
		}
		probes = append(probes, ProbePoint{X: x, Y: y})
	}
	return probes, nil
}

// NameProbes fills in missing names as P1, P2, ...
func NameProbes(probes []ProbePoint) []ProbePoint {
	out := make([]ProbePoint, len(probes))
	for i, p := range probes {
		if p.Name == "" {
			p.Name = fmt.Sprintf("P%d", i+1)
		}
		out[i] = p
	}
	return out
}
