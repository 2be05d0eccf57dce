package main

import "math"

// SpringConstants are the material constants of the bell. Stiffnesses are
// scaled by the arc-length step when the mesh is built.
type SpringConstants struct {
	Spring float64 `yaml:"spring" json:"spring"` // passive spring constant
	Beam   float64 `yaml:"beam" json:"beam"`     // beam (bending) constant
	Muscle float64 `yaml:"muscle" json:"muscle"` // stiffness of actuated muscle springs
	Type   int     `yaml:"type" json:"type"`     // spring type tag written to every record
}

// Link is a spring between two vertices
type Link struct {
	From       int     `json:"from"`
	To         int     `json:"to"`
	Stiffness  float64 `json:"stiffness"`
	RestLength float64 `json:"restLength"`
	Type       int     `json:"type"`
	Muscle     bool    `json:"muscle,omitempty"`
}

// Bend is a three-point beam centred on Center
type Bend struct {
	Left      int     `json:"left"`
	Center    int     `json:"center"`
	Right     int     `json:"right"`
	Stiffness float64 `json:"stiffness"`
	CurvX     float64 `json:"curvX"`
	CurvY     float64 `json:"curvY"`
}

// Mesh is the full set of records handed to the simulator
type Mesh struct {
	Points []Point `json:"points"` // bell points followed by both muscle groups
	Links  []Link  `json:"links"`
	Bends  []Bend  `json:"bends"`
	Layout Layout  `json:"layout"`
	DS     float64 `json:"ds"`
}

// BellPoints returns the bell vertices without the appended muscle points
func (m *Mesh) BellPoints() []Point {
	return m.Points[:m.Layout.Total]
}

// PassiveLinks returns the links that are not muscles
func (m *Mesh) PassiveLinks() []Link {
	passive := make([]Link, 0, len(m.Links))
	for _, l := range m.Links {
		if !l.Muscle {
			passive = append(passive, l)
		}
	}
	return passive
}

// PassiveSpringStiffness keeps the k*ds/ds^2 form so the resolution scaling
// stays visible in the output.
func PassiveSpringStiffness(k, ds float64) float64 {
	return k * ds / (ds * ds)
}

// BeamStiffness is kb*ds/ds^4
func BeamStiffness(kb, ds float64) float64 {
	return kb * ds / math.Pow(ds, 4)
}

// BuildMesh derives the vertex, spring and beam records from a discretized
// bell. The three passes only read from disc.
func BuildMesh(disc *Discretization, constants SpringConstants) *Mesh {
	return &Mesh{
		Points: buildPoints(disc),
		Links:  buildLinks(disc, constants),
		Bends:  buildBends(disc, constants),
		Layout: disc.Layout,
		DS:     disc.DS,
	}
}

func buildPoints(disc *Discretization) []Point {
	layout := disc.Layout
	points := make([]Point, 0, layout.PointCount())
	points = append(points, disc.Points...)

	left, right := layout.MuscleGroups()
	for _, idx := range left {
		points = append(points, disc.Points[idx])
	}
	for _, idx := range right {
		points = append(points, disc.Points[idx])
	}
	return points
}

func buildLinks(disc *Discretization, constants SpringConstants) []Link {
	layout := disc.Layout
	pts := disc.Points
	k := PassiveSpringStiffness(constants.Spring, disc.DS)

	links := make([]Link, 0, layout.LinkCount())
	passive := func(i, j int) {
		links = append(links, Link{
			From:       i,
			To:         j,
			Stiffness:  k,
			RestLength: pts[i].Distance(pts[j]),
			Type:       constants.Type,
		})
	}

	// apex to left margin
	for i := 0; i < layout.Half; i++ {
		passive(i, i+1)
	}
	// mirrored half to right margin
	for i := layout.Seam; i < layout.Total-1; i++ {
		passive(i, i+1)
	}
	passive(0, layout.Seam)

	// muscle k of group one pairs with muscle k of group two
	groupOne := layout.Total
	groupTwo := layout.Total + layout.Muscle
	for m := 0; m < layout.Muscle; m++ {
		links = append(links, Link{
			From:       groupOne + m,
			To:         groupTwo + m,
			Stiffness:  constants.Muscle,
			RestLength: 0,
			Type:       constants.Type,
			Muscle:     true,
		})
	}

	return links
}

func buildBends(disc *Discretization, constants SpringConstants) []Bend {
	layout := disc.Layout
	pts := disc.Points
	kb := BeamStiffness(constants.Beam, disc.DS)

	bends := make([]Bend, 0, layout.BendCount())
	beam := func(l, c, r int) {
		cx, cy := SecondDifference(pts[l], pts[c], pts[r])
		bends = append(bends, Bend{
			Left:      l,
			Center:    c,
			Right:     r,
			Stiffness: kb,
			CurvX:     cx,
			CurvY:     cy,
		})
	}

	for c := 1; c < layout.Half; c++ {
		beam(c-1, c, c+1)
	}
	for c := layout.Seam + 1; c < layout.Total-1; c++ {
		beam(c-1, c, c+1)
	}

	// bending continuity across the apex
	beam(0, layout.Seam, layout.Seam+1)
	beam(layout.Seam, 0, 1)

	return bends
}
