package main

import (
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// MeshToGeoJSON exports the bell halves, the muscle points and the muscle
// springs as a feature collection
func MeshToGeoJSON(mesh *Mesh) *geojson.FeatureCollection {
	layout := mesh.Layout
	fc := geojson.NewFeatureCollection()

	// apex to left margin
	left := make(orb.LineString, 0, layout.Half+1)
	for i := 0; i <= layout.Half; i++ {
		left = append(left, toOrb(mesh.Points[i]))
	}
	// apex to right margin through the mirrored half
	right := make(orb.LineString, 0, layout.Total-layout.Seam+1)
	right = append(right, toOrb(mesh.Points[0]))
	for i := layout.Seam; i < layout.Total; i++ {
		right = append(right, toOrb(mesh.Points[i]))
	}

	for _, half := range []struct {
		name string
		line orb.LineString
	}{{"left", left}, {"right", right}} {
		f := geojson.NewFeature(half.line)
		f.Properties["kind"] = "bell"
		f.Properties["half"] = half.name
		f.Properties["ds"] = mesh.DS
		fc.Append(f)
	}

	if layout.Muscle > 0 {
		muscles := make(orb.MultiPoint, 0, 2*layout.Muscle)
		for _, p := range mesh.Points[layout.Total:] {
			muscles = append(muscles, toOrb(p))
		}
		f := geojson.NewFeature(muscles)
		f.Properties["kind"] = "muscle_points"
		fc.Append(f)
	}

	for i, l := range mesh.Links {
		if !l.Muscle {
			continue
		}
		f := geojson.NewFeature(orb.LineString{toOrb(mesh.Points[l.From]), toOrb(mesh.Points[l.To])})
		f.Properties["kind"] = "muscle"
		f.Properties["link"] = i + 1
		f.Properties["stiffness"] = l.Stiffness
		fc.Append(f)
	}

	return fc
}

// SaveGeoJSON writes the mesh export to path
func SaveGeoJSON(mesh *Mesh, path string) error {
	data, err := MeshToGeoJSON(mesh).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal mesh: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadProbesGeoJSON reads probe locations from the Point and MultiPoint
// features of a GeoJSON file. A "name" property names the probe.
func LoadProbesGeoJSON(path string) ([]ProbePoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseProbesGeoJSON(data)
}

// ParseProbesGeoJSON extracts probes from a feature collection
func ParseProbesGeoJSON(data []byte) ([]ProbePoint, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse probes: %w", err)
	}

	var probes []ProbePoint
	for _, feature := range fc.Features {
		name, _ := feature.Properties["name"].(string)

		switch g := feature.Geometry.(type) {
		case nil:
			continue
		case orb.Point:
			probes = append(probes, ProbePoint{Name: name, X: g.X(), Y: g.Y()})
		case orb.MultiPoint:
			for i, p := range g {
				pn := name
				if pn != "" {
					pn = fmt.Sprintf("%s-%d", name, i+1)
				}
				probes = append(probes, ProbePoint{Name: pn, X: p.X(), Y: p.Y()})
			}
		default:
			log.Printf("⚠️  Skipping %s feature in probe file\n", feature.Geometry.GeoJSONType())
		}
	}

	return probes, nil
}

func toOrb(p Point) orb.Point {
	return orb.Point{p.X, p.Y}
}
