package main

import "math"

// Point is a boundary point in the (x, z) plane of the bell. Y holds the
// vertical coordinate so the type lines up with the simulator's 2D files.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Mirror reflects the point across the vertical axis
func (p Point) Mirror() Point {
	return Point{X: -p.X, Y: p.Y}
}

// SecondDifference returns the discrete second difference left + right - 2*center
// for each coordinate, i.e. the undeformed curvature reference of a beam
func SecondDifference(left, center, right Point) (float64, float64) {
	return left.X + right.X - 2*center.X, left.Y + right.Y - 2*center.Y
}

// LineSegment represents a line segment between two points
type LineSegment struct {
	P1, P2 Point
}

// Length returns the segment length
func (s LineSegment) Length() float64 {
	return s.P1.Distance(s.P2)
}

// DoSegmentsIntersect checks if two line segments intersect.
// Segments sharing an endpoint are not counted as intersecting.
func DoSegmentsIntersect(seg1, seg2 LineSegment) bool {
	p1, p2 := seg1.P1, seg1.P2
	p3, p4 := seg2.P1, seg2.P2

	if (p1 == p3 && p2 == p4) || (p1 == p4 && p2 == p3) {
		return false
	}
	if p1 == p3 || p1 == p4 || p2 == p3 || p2 == p4 {
		return false
	}

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 Point) float64 {
	return (p3.X-p1.X)*(p2.Y-p1.Y) - (p2.X-p1.X)*(p3.Y-p1.Y)
}

// onSegment checks if point q lies on segment pr
func onSegment(p, r, q Point) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

// BBox represents an axis-aligned bounding box
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoundsOf calculates the bounding box of a point set
func BoundsOf(points []Point) BBox {
	if len(points) == 0 {
		return BBox{}
	}

	bbox := BBox{
		MinX: points[0].X,
		MinY: points[0].Y,
		MaxX: points[0].X,
		MaxY: points[0].Y,
	}

	for _, p := range points[1:] {
		bbox.MinX = math.Min(bbox.MinX, p.X)
		bbox.MinY = math.Min(bbox.MinY, p.Y)
		bbox.MaxX = math.Max(bbox.MaxX, p.X)
		bbox.MaxY = math.Max(bbox.MaxY, p.Y)
	}

	return bbox
}
