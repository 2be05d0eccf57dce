package main

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidResolution = errors.New("grid resolution must be positive")
	ErrInvalidDomain     = errors.New("domain length must be positive")
	ErrInvalidShape      = errors.New("invalid bell shape")
	ErrAngleLimit        = errors.New("start angle is already past the angular limit")
	ErrTooFewPoints      = errors.New("bell discretization produced too few points")
	ErrStartOffApex      = errors.New("start angle must place the first point on the bell apex")
)

// minFirstHalf is the smallest first half that still leaves an interior
// point on each side of the apex.
const minFirstHalf = 3

// apexTolerance bounds |x| of the first point relative to the horizontal radius
const apexTolerance = 1e-12

// BellShape is the elliptic bell x = A cos(theta), z = B sin(theta), cut off
// at the height D below the centre.
type BellShape struct {
	A float64 `yaml:"a" json:"a"` // horizontal radius
	B float64 `yaml:"b" json:"b"` // vertical radius
	D float64 `yaml:"d" json:"d"` // vertical offset of the bell margin
}

// Validate rejects shapes whose angular limit is undefined
func (s BellShape) Validate() error {
	if s.A <= 0 || s.B <= 0 {
		return fmt.Errorf("%w: radii must be positive (a=%g, b=%g)", ErrInvalidShape, s.A, s.B)
	}
	if math.Abs(s.D) >= s.B {
		return fmt.Errorf("%w: |d| must be smaller than b (d=%g, b=%g)", ErrInvalidShape, s.D, s.B)
	}
	return nil
}

// LimitAngle is the supplement of the lower angular limit asin(D/B)
func (s BellShape) LimitAngle() float64 {
	return math.Pi - math.Asin(s.D/s.B)
}

// OnApex reports whether theta puts the curve point on the positive vertical
// axis. Mirroring only closes the bell from there.
func (s BellShape) OnApex(theta float64) bool {
	p := s.At(theta)
	return math.Abs(p.X) <= apexTolerance*s.A && p.Y > 0
}

// At evaluates the curve
func (s BellShape) At(theta float64) Point {
	return Point{X: s.A * math.Cos(theta), Y: s.B * math.Sin(theta)}
}

// Speed is the norm of dC/dtheta
func (s BellShape) Speed(theta float64) float64 {
	dx := s.A * math.Sin(theta)
	dz := s.B * math.Cos(theta)
	return math.Sqrt(dx*dx + dz*dz)
}

// ArcStep derives the target arc-length step from the grid: half a mesh width
func ArcStep(length float64, resolution int) (float64, error) {
	if resolution <= 0 {
		return 0, fmt.Errorf("%w: N=%d", ErrInvalidResolution, resolution)
	}
	if length <= 0 {
		return 0, fmt.Errorf("%w: L=%g", ErrInvalidDomain, length)
	}
	dx := length / float64(resolution)
	return dx / 2, nil
}

// Layout holds the derived index quantities shared by every emission pass.
// All indices are 0-based.
type Layout struct {
	Total     int // points on the closed bell, 2*FirstHalf-1
	FirstHalf int // points generated by forward stepping, apex included
	Half      int // Total/2, also the index of the left margin point
	Muscle    int // Half/4, size of each muscle group
	Seam      int // Half+1, first point of the mirrored half
}

// NewLayout computes the derived counts from the total point count
func NewLayout(total int) Layout {
	half := total / 2
	return Layout{
		Total:     total,
		FirstHalf: (total + 1) / 2,
		Half:      half,
		Muscle:    half / 4,
		Seam:      half + 1,
	}
}

// PointCount is the number of vertex records: the bell plus both muscle groups
func (l Layout) PointCount() int {
	return l.Total + 2*l.Muscle
}

// LinkCount is the number of spring records
func (l Layout) LinkCount() int {
	return (l.Total - 1) + l.Muscle
}

// BendCount is the number of beam records
func (l Layout) BendCount() int {
	return l.Total - 2
}

// MuscleGroups returns the bell indices of both muscle groups. Group one
// ends at the left margin, group two at the right margin.
func (l Layout) MuscleGroups() ([]int, []int) {
	left := make([]int, 0, l.Muscle)
	right := make([]int, 0, l.Muscle)
	for k := 0; k < l.Muscle; k++ {
		left = append(left, l.Seam-l.Muscle+k)
		right = append(right, l.Total-l.Muscle+k)
	}
	return left, right
}

// Discretization is the closed bell produced by DiscretizeBell
type Discretization struct {
	Shape  BellShape
	DS     float64
	Points []Point   // first half followed by the mirrored half
	Angles []float64 // angle of each first-half point, strictly increasing
	Layout Layout
}

// DiscretizeBell walks the bell from startAngle with forward-Euler arc-length
// steps of ds until the angle reaches the limit, then mirrors the first half.
// The last accepted point is not moved onto the limit.
func DiscretizeBell(shape BellShape, ds, startAngle float64) (*Discretization, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if !(ds > 0) || math.IsInf(ds, 0) {
		return nil, fmt.Errorf("%w: ds=%g", ErrInvalidResolution, ds)
	}

	limit := shape.LimitAngle()
	if startAngle >= limit {
		return nil, fmt.Errorf("%w: start=%.6f limit=%.6f", ErrAngleLimit, startAngle, limit)
	}
	if !shape.OnApex(startAngle) {
		return nil, fmt.Errorf("%w: start=%.6f", ErrStartOffApex, startAngle)
	}

	var firstHalf []Point
	var angles []float64
	for theta := startAngle; theta < limit; {
		firstHalf = append(firstHalf, shape.At(theta))
		angles = append(angles, theta)

		speed := shape.Speed(theta)
		if speed == 0 {
			return nil, fmt.Errorf("%w: curve speed vanished at theta=%g", ErrInvalidShape, theta)
		}
		theta += ds / speed
	}

	c := len(firstHalf)
	if c < minFirstHalf {
		return nil, fmt.Errorf("%w: %d points in first half", ErrTooFewPoints, c)
	}

	points := make([]Point, 0, 2*c-1)
	points = append(points, firstHalf...)
	for _, p := range firstHalf[1:] {
		points = append(points, p.Mirror())
	}

	return &Discretization{
		Shape:  shape,
		DS:     ds,
		Points: points,
		Angles: angles,
		Layout: NewLayout(len(points)),
	}, nil
}
