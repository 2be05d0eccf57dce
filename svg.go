package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jbeda/geom"
)

const (
	MESH_STYLE   = "stroke: black; stroke-width: 0.004; fill: none"
	MUSCLE_STYLE = "stroke: red; stroke-width: 0.002"
	AXIS_STYLE   = "stroke: gray; stroke-width: 0.003; fill: none"
	PLOT_MARGIN  = 0.05
)

////////////////////////////////////////////////////////////////////////////
// SVG serialization helper
type SVG struct {
	writer io.Writer
	err    error
}

func NewSVG(w io.Writer) *SVG {
	return &SVG{writer: w}
}

// Err returns the first write error
func (svg *SVG) Err() error {
	return svg.err
}

func (svg *SVG) printf(format string, a ...interface{}) {
	if svg.err != nil {
		return
	}
	_, svg.err = fmt.Fprintf(svg.writer, format, a...)
}

func style(s []string) string {
	ep := ""
	for _, v := range s {
		if strings.Index(v, "=") > 0 {
			ep += v + " "
		} else if len(v) > 0 {
			ep += fmt.Sprintf("style='%s' ", v)
		}
	}
	return ep
}

func (svg *SVG) Start(viewBox geom.Rect, s ...string) {
	svg.printf(`<?xml version="1.0"?>
<svg version="1.1"
     viewBox="%f %f %f %f"
     xmlns="http://www.w3.org/2000/svg" %s>
`, viewBox.Min.X, viewBox.Min.Y, viewBox.Width(), viewBox.Height(), style(s))
}

func (svg *SVG) End() {
	svg.printf("</svg>\n")
}

func (svg *SVG) Line(p1 geom.Coord, p2 geom.Coord, s ...string) {
	svg.printf("<line x1='%f' y1='%f' x2='%f' y2='%f' %s/>\n", p1.X, p1.Y, p2.X, p2.Y, style(s))
}

func (svg *SVG) Circle(c geom.Coord, r float64, s ...string) {
	svg.printf("<circle cx='%f' cy='%f' r='%f' %s/>\n", c.X, c.Y, r, style(s))
}

// Text writes an XML-escaped label at p
func (svg *SVG) Text(p geom.Coord, size float64, text string) {
	var escaped strings.Builder
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil && svg.err == nil {
		svg.err = err
	}
	svg.printf("<text x='%f' y='%f' font-size='%f'>%s</text>\n", p.X, p.Y, size, escaped.String())
}

// Polyline draws an open path through pts
func (svg *SVG) Polyline(pts []geom.Coord, s ...string) {
	if len(pts) == 0 {
		return
	}
	svg.printf("<path %sd='M%f,%f", style(s), pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		svg.printf("\n  L%f,%f", p.X, p.Y)
	}
	svg.printf("'/>\n")
}

// screen flips the vertical axis, SVG y grows downwards
func screen(p Point) geom.Coord {
	return geom.Coord{X: p.X, Y: -p.Y}
}

// RenderMeshSVG draws the bell outline, its vertices and the muscle springs
func RenderMeshSVG(w io.Writer, mesh *Mesh) error {
	bell := mesh.BellPoints()
	if len(bell) == 0 {
		return fmt.Errorf("empty mesh")
	}

	bounds := geom.Rect{Min: screen(bell[0]), Max: screen(bell[0])}
	for _, p := range bell[1:] {
		bounds.ExpandToContainCoord(screen(p))
	}
	pad := PLOT_MARGIN * bounds.Width()
	bounds.Min = bounds.Min.Minus(geom.Coord{X: pad, Y: pad})
	bounds.Max = bounds.Max.Plus(geom.Coord{X: pad, Y: pad})

	svg := NewSVG(w)
	svg.Start(bounds)

	layout := mesh.Layout
	outline := make([]geom.Coord, 0, layout.Total)
	for i := layout.Half; i >= 0; i-- {
		outline = append(outline, screen(bell[i]))
	}
	for i := layout.Seam; i < layout.Total; i++ {
		outline = append(outline, screen(bell[i]))
	}
	svg.Polyline(outline, MESH_STYLE)

	r := mesh.DS / 4
	for _, p := range bell {
		svg.Circle(screen(p), r, "fill: black")
	}
	for _, l := range mesh.Links {
		if l.Muscle {
			svg.Line(screen(mesh.Points[l.From]), screen(mesh.Points[l.To]), MUSCLE_STYLE)
		}
	}

	svg.End()
	return svg.Err()
}

// RenderProbeSVG plots the velocity magnitude history of every probe in a
// unit box, one colour per probe
func RenderProbeSVG(w io.Writer, acc *Accumulator) error {
	if len(acc.Samples) == 0 {
		return fmt.Errorf("no samples to plot")
	}

	peak := 0.0
	for k := range acc.Probes {
		if v := acc.MaxVelocity(k); v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	bounds := geom.Rect{Min: geom.Coord{X: -PLOT_MARGIN, Y: -PLOT_MARGIN}, Max: geom.Coord{X: 1 + PLOT_MARGIN, Y: 1 + PLOT_MARGIN}}
	svg := NewSVG(w)
	svg.Start(bounds)

	origin := geom.Coord{X: 0, Y: 1}
	svg.Line(origin, geom.Coord{X: 1, Y: 1}, AXIS_STYLE)
	svg.Line(origin, geom.Coord{X: 0, Y: 0}, AXIS_STYLE)

	n := len(acc.Samples)
	for k, probe := range acc.Probes {
		series := acc.Series(k)
		pts := make([]geom.Coord, n)
		for i, v := range series {
			x := 0.0
			if n > 1 {
				x = float64(i) / float64(n-1)
			}
			pts[i] = geom.Coord{X: x, Y: 1 - v/peak}
		}
		color := fmt.Sprintf("hsl(%d, 100%%, 40%%)", (k*360)/len(acc.Probes))
		svg.Polyline(pts, fmt.Sprintf("stroke: %s; stroke-width: 0.004; fill: none", color))
		svg.Text(geom.Coord{X: 0.02, Y: 0.04 * float64(k+1)}, 0.03, fmt.Sprintf("%s (%.3g, %.3g) max %.4g", probe.Name, probe.X, probe.Y, acc.MaxVelocity(k)))
	}

	svg.End()
	return svg.Err()
}

// SaveSVG renders into the file at path
func SaveSVG(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}
