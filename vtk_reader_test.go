package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// structuredVTK renders an nx by ny unit-spaced vector field the way the
// simulator writes its Eulerian output
func structuredVTK(name string, nx, ny int, field func(i, j int) (float64, float64)) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# vtk DataFile Version 2.0\n%s\nASCII\n", name)
	fmt.Fprintf(&b, "DATASET STRUCTURED_POINTS\nDIMENSIONS %d %d 1\n", nx, ny)
	b.WriteString("ORIGIN 0 0 0\nSPACING 1 1 1\n")
	fmt.Fprintf(&b, "POINT_DATA %d\nVECTORS %s double\n", nx*ny, name)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			u, v := field(i, j)
			fmt.Fprintf(&b, "%g %g 0\n", u, v)
		}
	}
	return b.String()
}

// lagrangianVTK renders a scalar per boundary point
func lagrangianVTK(name string, points []Point, values []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# vtk DataFile Version 2.0\n%s\nASCII\n", name)
	fmt.Fprintf(&b, "DATASET UNSTRUCTURED_GRID\n\nPOINTS %d float\n", len(points))
	for _, p := range points {
		fmt.Fprintf(&b, "%g %g 0\n", p.X, p.Y)
	}
	fmt.Fprintf(&b, "POINT_DATA %d\nSCALARS %s double\nLOOKUP_TABLE default\n", len(values), name)
	for _, v := range values {
		fmt.Fprintf(&b, "%g\n", v)
	}
	return b.String()
}

func TestParseVTKStructuredPoints(t *testing.T) {
	content := structuredVTK("u", 4, 3, func(i, j int) (float64, float64) {
		return float64(i), float64(10 * j)
	})

	data, err := ParseVTK(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "u", data.Title)
	assert.Equal(t, "STRUCTURED_POINTS", data.Dataset)
	assert.Equal(t, [3]int{4, 3, 1}, data.Dims)
	require.Len(t, data.Vectors["u"], 12)

	field, err := data.ToVectorField("u")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, field.X)
	assert.Equal(t, []float64{0, 1, 2}, field.Y)

	u, v := field.At(3, 2)
	assert.Equal(t, 3.0, u)
	assert.Equal(t, 20.0, v)

	t.Run("single unnamed array is picked", func(t *testing.T) {
		f, err := data.ToVectorField("")
		require.NoError(t, err)
		assert.Equal(t, field, f)
	})

	t.Run("unknown array", func(t *testing.T) {
		_, err := data.ToVectorField("w")
		assert.ErrorContains(t, err, `"w" not found`)
	})
}

func TestParseVTKWrappedValues(t *testing.T) {
	content := "# vtk DataFile Version 2.0\nwrapped\nASCII\n" +
		"DATASET STRUCTURED_POINTS\nDIMENSIONS 2 1 1\nORIGIN 0.5 -1 0\nSPACING 0.25 0.25 1\n" +
		"POINT_DATA 2\nVECTORS u double\n1 2 0 3\n4 0\n"

	data, err := ParseVTK(strings.NewReader(content))
	require.NoError(t, err)

	field, err := data.ToVectorField("u")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.75}, field.X)
	assert.Equal(t, []float64{-1}, field.Y)
	assert.Equal(t, []float64{1, 3}, field.U)
	assert.Equal(t, []float64{2, 4}, field.V)
}

func TestParseVTKLagrangian(t *testing.T) {
	points := []Point{{X: 0, Y: 0.75}, {X: -0.1, Y: 0.7}, {X: 0.1, Y: 0.7}}
	content := lagrangianVTK("fX_Lag", points, []float64{1.5, -2, 0.25})

	data, err := ParseVTK(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "UNSTRUCTURED_GRID", data.Dataset)

	pts, vals, err := data.LagrangianScalars("fX_Lag")
	require.NoError(t, err)
	assert.Equal(t, points, pts)
	assert.Equal(t, []float64{1.5, -2, 0.25}, vals)

	_, err = data.ToVectorField("")
	assert.ErrorContains(t, err, "STRUCTURED_POINTS")

	_, _, err = data.LagrangianScalars("fY_Lag")
	assert.Error(t, err)
}

func TestParseVTKErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"not vtk", "hello\n", "not a legacy VTK file"},
		{"binary", "# vtk DataFile Version 2.0\nx\nBINARY\n", "binary VTK files are not supported"},
		{"unknown keyword", "# vtk DataFile Version 2.0\nx\nASCII\nFIELD data 1\n", "unsupported VTK keyword"},
		{"truncated vectors", "# vtk DataFile Version 2.0\nx\nASCII\nPOINT_DATA 2\nVECTORS u double\n1 2 0\n", "VECTORS u"},
		{"scalars without lookup table", "# vtk DataFile Version 2.0\nx\nASCII\nPOINT_DATA 1\nSCALARS f double\n1\n", "missing LOOKUP_TABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVTK(strings.NewReader(tt.content))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadVTK(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "u.0000.vtk")
	content := structuredVTK("u", 2, 2, func(i, j int) (float64, float64) { return 1, 1 })
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	data, err := LoadVTK(path)
	require.NoError(t, err)
	assert.Len(t, data.Vectors["u"], 4)

	_, err = LoadVTK(filepath.Join(dir, "u.0001.vtk"))
	assert.Error(t, err)
}
