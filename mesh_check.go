package main

import (
	"errors"
	"fmt"
	"math"
)

// checkTolerance bounds the rounding difference allowed when recomputing
// rest lengths and curvature offsets
const checkTolerance = 1e-12

// MeshReport summarises a mesh for logging
type MeshReport struct {
	Points        int
	Links         int
	Bends         int
	MuscleLinks   int
	ArcLength     float64
	ArcVertices   int // vertices on the tip-to-tip spring path
	Intersections int
}

// CheckMesh verifies record counts, connectivity of the passive springs,
// absence of crossing springs and the geometry stored in every record.
// All failures are joined into the returned error.
func CheckMesh(mesh *Mesh) (MeshReport, error) {
	layout := mesh.Layout
	report := MeshReport{
		Points: len(mesh.Points),
		Links:  len(mesh.Links),
		Bends:  len(mesh.Bends),
	}

	var errs []error
	if len(mesh.Points) != layout.PointCount() {
		errs = append(errs, fmt.Errorf("point count %d, expected %d", len(mesh.Points), layout.PointCount()))
	}
	if len(mesh.Links) != layout.LinkCount() {
		errs = append(errs, fmt.Errorf("link count %d, expected %d", len(mesh.Links), layout.LinkCount()))
	}
	if len(mesh.Bends) != layout.BendCount() {
		errs = append(errs, fmt.Errorf("bend count %d, expected %d", len(mesh.Bends), layout.BendCount()))
	}

	for i, l := range mesh.Links {
		if l.Muscle {
			report.MuscleLinks++
			if l.RestLength != 0 {
				errs = append(errs, fmt.Errorf("muscle link %d has rest length %g", i, l.RestLength))
			}
			continue
		}
		want := mesh.Points[l.From].Distance(mesh.Points[l.To])
		if math.Abs(want-l.RestLength) > checkTolerance {
			errs = append(errs, fmt.Errorf("link %d rest length %g, geometry gives %g", i, l.RestLength, want))
		}
	}

	for i, b := range mesh.Bends {
		cx, cy := SecondDifference(mesh.Points[b.Left], mesh.Points[b.Center], mesh.Points[b.Right])
		if math.Abs(cx-b.CurvX) > checkTolerance || math.Abs(cy-b.CurvY) > checkTolerance {
			errs = append(errs, fmt.Errorf("bend %d curvature (%g, %g), geometry gives (%g, %g)", i, b.CurvX, b.CurvY, cx, cy))
		}
	}

	passive := mesh.PassiveLinks()
	graph := NewGraph(mesh.BellPoints(), passive)
	if !graph.IsConnected() {
		errs = append(errs, errors.New("passive springs do not connect the bell"))
	}

	report.Intersections = countCrossings(mesh.Points, passive)
	if report.Intersections > 0 {
		errs = append(errs, fmt.Errorf("%d pairs of springs cross", report.Intersections))
	}

	if arc, ok := BellArcLength(mesh); ok {
		report.ArcLength = arc.Length
		report.ArcVertices = len(arc.Path)
		if len(arc.Path) != layout.Total {
			errs = append(errs, fmt.Errorf("spring path between the margins visits %d of %d vertices", len(arc.Path), layout.Total))
		}
	} else {
		errs = append(errs, errors.New("no spring path between the bell margins"))
	}

	return report, errors.Join(errs...)
}

// countCrossings counts pairs of springs that intersect away from a shared vertex
func countCrossings(points []Point, links []Link) int {
	index := NewSegmentIndex(points, links)
	crossings := 0
	for i, l := range links {
		seg := LineSegment{P1: points[l.From], P2: points[l.To]}
		for _, cand := range index.Candidates(seg) {
			if cand.Link <= i {
				continue
			}
			other := links[cand.Link]
			if sharesVertex(l, other) {
				continue
			}
			if DoSegmentsIntersect(seg, cand.Segment) {
				crossings++
			}
		}
	}
	return crossings
}

func sharesVertex(a, b Link) bool {
	return a.From == b.From || a.From == b.To || a.To == b.From || a.To == b.To
}
