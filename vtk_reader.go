package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// VTKData is the subset of a legacy ASCII VTK file written by the
// simulator: structured-point grids with vector data, and point clouds with
// scalar data
type VTKData struct {
	Title   string
	Dataset string
	Dims    [3]int
	Origin  [3]float64
	Spacing [3]float64
	Points  []Point
	Vectors map[string][][2]float64
	Scalars map[string][]float64
}

// vtkScanner hands out whole lines for keywords and single tokens for data
// blocks that may wrap across lines
type vtkScanner struct {
	sc      *bufio.Scanner
	pending []string
	line    int
}

func newVTKScanner(r io.Reader) *vtkScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &vtkScanner{sc: sc}
}

// rawLine returns the next line verbatim
func (s *vtkScanner) rawLine() (string, bool) {
	if !s.sc.Scan() {
		return "", false
	}
	s.line++
	return s.sc.Text(), true
}

// fields returns the next non-empty line split on whitespace
func (s *vtkScanner) fields() ([]string, bool) {
	s.pending = nil
	for {
		text, ok := s.rawLine()
		if !ok {
			return nil, false
		}
		if f := strings.Fields(text); len(f) > 0 {
			return f, true
		}
	}
}

func (s *vtkScanner) token() (string, error) {
	for len(s.pending) == 0 {
		text, ok := s.rawLine()
		if !ok {
			if err := s.sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		s.pending = strings.Fields(text)
	}
	tok := s.pending[0]
	s.pending = s.pending[1:]
	return tok, nil
}

func (s *vtkScanner) floats(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		tok, err := s.token()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", s.line, err)
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", s.line, err)
		}
		out[i] = v
	}
	return out, nil
}

func atoiField(fields []string, i int) (int, error) {
	if i >= len(fields) {
		return 0, fmt.Errorf("%s: missing field %d", fields[0], i)
	}
	return strconv.Atoi(fields[i])
}

func floatTriple(fields []string) ([3]float64, error) {
	var out [3]float64
	if len(fields) < 4 {
		return out, fmt.Errorf("%s: expected 3 values", fields[0])
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return out, fmt.Errorf("%s: %w", fields[0], err)
		}
		out[i] = v
	}
	return out, nil
}

// ParseVTK reads a legacy ASCII VTK file
func ParseVTK(r io.Reader) (*VTKData, error) {
	s := newVTKScanner(r)

	header, ok := s.rawLine()
	if !ok || !strings.HasPrefix(strings.TrimSpace(header), "# vtk") {
		return nil, fmt.Errorf("not a legacy VTK file")
	}
	title, _ := s.rawLine()

	data := &VTKData{
		Title:   strings.TrimSpace(title),
		Spacing: [3]float64{1, 1, 1},
		Vectors: make(map[string][][2]float64),
		Scalars: make(map[string][]float64),
	}
	pointData := 0

	for {
		f, ok := s.fields()
		if !ok {
			break
		}

		switch strings.ToUpper(f[0]) {
		case "ASCII":
		case "BINARY":
			return nil, fmt.Errorf("binary VTK files are not supported")
		case "DATASET":
			if len(f) > 1 {
				data.Dataset = strings.ToUpper(f[1])
			}
		case "DIMENSIONS":
			for i := 0; i < 3; i++ {
				v, err := atoiField(f, i+1)
				if err != nil {
					return nil, err
				}
				data.Dims[i] = v
			}
		case "ORIGIN":
			v, err := floatTriple(f)
			if err != nil {
				return nil, err
			}
			data.Origin = v
		case "SPACING", "ASPECT_RATIO":
			v, err := floatTriple(f)
			if err != nil {
				return nil, err
			}
			data.Spacing = v
		case "POINTS":
			n, err := atoiField(f, 1)
			if err != nil {
				return nil, err
			}
			vals, err := s.floats(3 * n)
			if err != nil {
				return nil, fmt.Errorf("POINTS: %w", err)
			}
			data.Points = make([]Point, n)
			for i := range data.Points {
				data.Points[i] = Point{X: vals[3*i], Y: vals[3*i+1]}
			}
		case "CELLS":
			size, err := atoiField(f, 2)
			if err != nil {
				return nil, err
			}
			if _, err := s.floats(size); err != nil {
				return nil, fmt.Errorf("CELLS: %w", err)
			}
		case "CELL_TYPES":
			n, err := atoiField(f, 1)
			if err != nil {
				return nil, err
			}
			if _, err := s.floats(n); err != nil {
				return nil, fmt.Errorf("CELL_TYPES: %w", err)
			}
		case "POINT_DATA":
			n, err := atoiField(f, 1)
			if err != nil {
				return nil, err
			}
			pointData = n
		case "VECTORS":
			if len(f) < 2 {
				return nil, fmt.Errorf("VECTORS: missing name")
			}
			vals, err := s.floats(3 * pointData)
			if err != nil {
				return nil, fmt.Errorf("VECTORS %s: %w", f[1], err)
			}
			vecs := make([][2]float64, pointData)
			for i := range vecs {
				vecs[i] = [2]float64{vals[3*i], vals[3*i+1]}
			}
			data.Vectors[f[1]] = vecs
		case "SCALARS":
			if len(f) < 2 {
				return nil, fmt.Errorf("SCALARS: missing name")
			}
			comps := 1
			if len(f) > 3 {
				c, err := strconv.Atoi(f[3])
				if err != nil {
					return nil, fmt.Errorf("SCALARS %s: %w", f[1], err)
				}
				comps = c
			}
			lt, ok := s.fields()
			if !ok || strings.ToUpper(lt[0]) != "LOOKUP_TABLE" {
				return nil, fmt.Errorf("SCALARS %s: missing LOOKUP_TABLE", f[1])
			}
			vals, err := s.floats(comps * pointData)
			if err != nil {
				return nil, fmt.Errorf("SCALARS %s: %w", f[1], err)
			}
			scalars := make([]float64, pointData)
			for i := range scalars {
				scalars[i] = vals[i*comps]
			}
			data.Scalars[f[1]] = scalars
		default:
			return nil, fmt.Errorf("line %d: unsupported VTK keyword %q", s.line, f[0])
		}
	}

	if err := s.sc.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadVTK parses the VTK file at path
func LoadVTK(path string) (*VTKData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := ParseVTK(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return data, nil
}

// VectorField is a 2D vector field sampled on a regular grid, row-major with
// x varying fastest
type VectorField struct {
	X, Y []float64 // grid coordinates
	U, V []float64
}

// At returns the vector at grid index (i, j)
func (f *VectorField) At(i, j int) (float64, float64) {
	k := j*len(f.X) + i
	return f.U[k], f.V[k]
}

// ToVectorField converts structured-point data into a VectorField using the
// first vector array found (or the named one)
func (d *VTKData) ToVectorField(name string) (*VectorField, error) {
	if d.Dataset != "STRUCTURED_POINTS" {
		return nil, fmt.Errorf("expected STRUCTURED_POINTS dataset, got %q", d.Dataset)
	}
	vecs, ok := d.Vectors[name]
	if !ok && name == "" && len(d.Vectors) == 1 {
		for _, v := range d.Vectors {
			vecs, ok = v, true
		}
	}
	if !ok {
		return nil, fmt.Errorf("vector array %q not found", name)
	}

	nx, ny := d.Dims[0], d.Dims[1]
	if nx <= 0 || ny <= 0 || len(vecs) < nx*ny {
		return nil, fmt.Errorf("grid %dx%d does not match %d vectors", nx, ny, len(vecs))
	}

	field := &VectorField{
		X: make([]float64, nx),
		Y: make([]float64, ny),
		U: make([]float64, nx*ny),
		V: make([]float64, nx*ny),
	}
	for i := range field.X {
		field.X[i] = d.Origin[0] + float64(i)*d.Spacing[0]
	}
	for j := range field.Y {
		field.Y[j] = d.Origin[1] + float64(j)*d.Spacing[1]
	}
	for k := 0; k < nx*ny; k++ {
		field.U[k] = vecs[k][0]
		field.V[k] = vecs[k][1]
	}
	return field, nil
}

// LagrangianScalars returns the boundary points and the named scalar array
func (d *VTKData) LagrangianScalars(name string) ([]Point, []float64, error) {
	vals, ok := d.Scalars[name]
	if !ok {
		return nil, nil, fmt.Errorf("scalar array %q not found", name)
	}
	if len(vals) != len(d.Points) {
		return nil, nil, fmt.Errorf("%d scalars for %d points", len(vals), len(d.Points))
	}
	return d.Points, vals, nil
}
