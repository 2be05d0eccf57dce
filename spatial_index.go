package main

import (
	"github.com/dhconnelly/rtreego"
)

// boxPad keeps boxes of axis-aligned segments and single points non-degenerate
const boxPad = 1e-12

// SegmentEntry wraps a spring segment for R-tree storage
type SegmentEntry struct {
	Link    int // index into the link slice the segment came from
	Segment LineSegment
	BBox    rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (s *SegmentEntry) Bounds() rtreego.Rect {
	return s.BBox
}

// PointEntry wraps a vertex for nearest-neighbour queries
type PointEntry struct {
	ID    int
	Point Point
	BBox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (p *PointEntry) Bounds() rtreego.Rect {
	return p.BBox
}

// SegmentIndex manages spatial queries over spring segments
type SegmentIndex struct {
	tree *rtreego.Rtree
}

// NewSegmentIndex indexes the segment of every link
func NewSegmentIndex(points []Point, links []Link) *SegmentIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for i, l := range links {
		seg := LineSegment{P1: points[l.From], P2: points[l.To]}
		bbox, err := calculateBoundingBox(seg.P1, seg.P2)
		if err == nil {
			tree.Insert(&SegmentEntry{Link: i, Segment: seg, BBox: bbox})
		}
	}

	return &SegmentIndex{tree: tree}
}

// Candidates returns the indexed segments whose boxes touch seg's box
func (si *SegmentIndex) Candidates(seg LineSegment) []*SegmentEntry {
	bbox, err := calculateBoundingBox(seg.P1, seg.P2)
	if err != nil {
		return nil
	}

	results := si.tree.SearchIntersect(bbox)
	entries := make([]*SegmentEntry, 0, len(results))
	for _, item := range results {
		entries = append(entries, item.(*SegmentEntry))
	}
	return entries
}

// PointIndex answers nearest-vertex queries
type PointIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewPointIndex indexes points by their position in the slice
func NewPointIndex(points []Point) *PointIndex {
	tree := rtreego.NewTree(2, 25, 50)
	size := 0
	for i, p := range points {
		bbox, err := calculateBoundingBox(p, p)
		if err == nil {
			tree.Insert(&PointEntry{ID: i, Point: p, BBox: bbox})
			size++
		}
	}
	return &PointIndex{tree: tree, size: size}
}

// Nearest returns the id of the closest indexed point, or -1 for an empty index
func (pi *PointIndex) Nearest(p Point) int {
	if pi.size == 0 {
		return -1
	}
	item := pi.tree.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if item == nil {
		return -1
	}
	return item.(*PointEntry).ID
}

// calculateBoundingBox computes the padded axis-aligned box spanning a and b
func calculateBoundingBox(a, b Point) (rtreego.Rect, error) {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	return rtreego.NewRect(
		rtreego.Point{minX - boxPad, minY - boxPad},
		[]float64{maxX - minX + 2*boxPad, maxY - minY + 2*boxPad},
	)
}
