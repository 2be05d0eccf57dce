package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File extensions expected by the simulator for a structure named <name>
const (
	VertexExt = ".vertex"
	SpringExt = ".spring"
	BeamExt   = ".beam"
)

// WriteVertices writes the vertex file: a count line, then "x y" per point
func WriteVertices(w io.Writer, points []Point) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(points))
	for _, p := range points {
		fmt.Fprintf(bw, "%1.16e %1.16e\n", p.X, p.Y)
	}
	return bw.Flush()
}

// WriteSprings writes the spring file with 1-based vertex ids
func WriteSprings(w io.Writer, links []Link) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(links))
	for _, l := range links {
		fmt.Fprintf(bw, "%d %d %1.16e %1.16e %d\n", l.From+1, l.To+1, l.Stiffness, l.RestLength, l.Type)
	}
	return bw.Flush()
}

// WriteBeams writes the beam file with 1-based vertex ids
func WriteBeams(w io.Writer, bends []Bend) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(bends))
	for _, b := range bends {
		fmt.Fprintf(bw, "%d %d %d %1.16e %1.16e %1.16e\n",
			b.Left+1, b.Center+1, b.Right+1, b.Stiffness, b.CurvX, b.CurvY)
	}
	return bw.Flush()
}

// MeshFiles names the three files written for one structure
type MeshFiles struct {
	Vertex string
	Spring string
	Beam   string
}

// MeshFilesFor builds the file paths for structure name in dir
func MeshFilesFor(dir, name string) MeshFiles {
	base := filepath.Join(dir, name)
	return MeshFiles{
		Vertex: base + VertexExt,
		Spring: base + SpringExt,
		Beam:   base + BeamExt,
	}
}

// WriteMeshFiles writes the vertex, spring and beam files of mesh into dir
func WriteMeshFiles(dir, name string, mesh *Mesh) (MeshFiles, error) {
	files := MeshFilesFor(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return files, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeFile(files.Vertex, func(w io.Writer) error { return WriteVertices(w, mesh.Points) }); err != nil {
		return files, err
	}
	if err := writeFile(files.Spring, func(w io.Writer) error { return WriteSprings(w, mesh.Links) }); err != nil {
		return files, err
	}
	if err := writeFile(files.Beam, func(w io.Writer) error { return WriteBeams(w, mesh.Bends) }); err != nil {
		return files, err
	}
	return files, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// readRecords reads a count-prefixed file and checks every record has at
// least minFields fields
func readRecords(r io.Reader, minFields int) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("missing record count")
	}

	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("invalid record count: %w", err)
	}

	records := make([][]string, 0, count)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < minFields {
			return nil, fmt.Errorf("record %d: expected %d fields, got %d", len(records)+1, minFields, len(fields))
		}
		records = append(records, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(records) != count {
		return nil, fmt.Errorf("header declares %d records, found %d", count, len(records))
	}
	return records, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseIDs(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v - 1
	}
	return out, nil
}

// ReadVertices parses a vertex file
func ReadVertices(r io.Reader) ([]Point, error) {
	records, err := readRecords(r, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to read vertices: %w", err)
	}

	points := make([]Point, len(records))
	for i, rec := range records {
		v, err := parseFloats(rec[:2])
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i+1, err)
		}
		points[i] = Point{X: v[0], Y: v[1]}
	}
	return points, nil
}

// ReadSprings parses a spring file back into 0-based links
func ReadSprings(r io.Reader) ([]Link, error) {
	records, err := readRecords(r, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to read springs: %w", err)
	}

	links := make([]Link, len(records))
	for i, rec := range records {
		ids, err := parseIDs(rec[:2])
		if err != nil {
			return nil, fmt.Errorf("spring %d: %w", i+1, err)
		}
		v, err := parseFloats(rec[2:4])
		if err != nil {
			return nil, fmt.Errorf("spring %d: %w", i+1, err)
		}
		tag, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("spring %d: %w", i+1, err)
		}
		links[i] = Link{From: ids[0], To: ids[1], Stiffness: v[0], RestLength: v[1], Type: tag}
	}
	return links, nil
}

// ReadBeams parses a beam file back into 0-based bends
func ReadBeams(r io.Reader) ([]Bend, error) {
	records, err := readRecords(r, 6)
	if err != nil {
		return nil, fmt.Errorf("failed to read beams: %w", err)
	}

	bends := make([]Bend, len(records))
	for i, rec := range records {
		ids, err := parseIDs(rec[:3])
		if err != nil {
			return nil, fmt.Errorf("beam %d: %w", i+1, err)
		}
		v, err := parseFloats(rec[3:6])
		if err != nil {
			return nil, fmt.Errorf("beam %d: %w", i+1, err)
		}
		bends[i] = Bend{Left: ids[0], Center: ids[1], Right: ids[2], Stiffness: v[0], CurvX: v[1], CurvY: v[2]}
	}
	return bends, nil
}
