package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
)

const banner = "========================================"

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: jellyfish-ib <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  mesh    Discretize the bell and write .vertex/.spring/.beam files")
	fmt.Fprintln(w, "  probe   Sample velocity magnitude at probe points across frames")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'jellyfish-ib <command> -h' for command flags.")
}

// run dispatches a subcommand; args excludes the program name
func run(args []string) error {
	if len(args) == 0 {
		usage(os.Stderr)
		return errors.New("missing command")
	}

	switch args[0] {
	case "mesh":
		_, err := runMesh(args[1:])
		return err
	case "probe":
		_, err := runProbe(args[1:])
		return err
	case "-h", "--help", "help":
		usage(os.Stdout)
		return nil
	default:
		usage(os.Stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// setFlags returns the names of the flags given on the command line
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// meshConfigFromArgs layers defaults, YAML, input2d and flags
func meshConfigFromArgs(args []string) (MeshConfig, error) {
	fs := flag.NewFlagSet("mesh", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	input2dPath := fs.String("input2d", "", "IB2d input2d file (Nx, Lx, string_name)")
	length := fs.Float64("L", 0, "domain length")
	resolution := fs.Int("N", 0, "grid resolution")
	a := fs.Float64("a", 0, "bell horizontal radius")
	b := fs.Float64("b", 0, "bell vertical radius")
	d := fs.Float64("d", 0, "vertical offset of the bell margin")
	name := fs.String("name", "", "structure name used for output files")
	outDir := fs.String("out", "", "output directory")
	geoJSON := fs.String("geojson", "", "write a GeoJSON export to this path")
	svgPath := fs.String("svg", "", "render the bell outline to this SVG path")
	check := fs.Bool("check", true, "validate the mesh before writing")

	if err := fs.Parse(args); err != nil {
		return MeshConfig{}, err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return MeshConfig{}, err
	}
	mesh := cfg.Mesh

	if *input2dPath != "" {
		in, err := LoadInput2d(*input2dPath)
		if err != nil {
			return MeshConfig{}, err
		}
		mesh.ApplyInput2d(in)
	}

	set := setFlags(fs)
	if set["L"] {
		mesh.Length = *length
	}
	if set["N"] {
		mesh.Resolution = *resolution
	}
	if set["a"] {
		mesh.Shape.A = *a
	}
	if set["b"] {
		mesh.Shape.B = *b
	}
	if set["d"] {
		mesh.Shape.D = *d
	}
	if set["name"] {
		mesh.StructName = *name
	}
	if set["out"] {
		mesh.OutputDir = *outDir
	}
	if set["geojson"] {
		mesh.GeoJSON = *geoJSON
	}
	if set["svg"] {
		mesh.SVG = *svgPath
	}
	if set["check"] {
		mesh.Check = *check
	}

	return mesh, mesh.Validate()
}

// runMesh generates and writes the bell mesh
func runMesh(args []string) (*Mesh, error) {
	cfg, err := meshConfigFromArgs(args)
	if err != nil {
		return nil, err
	}

	log.Println(banner)
	log.Println("📐 Bell mesh generation")
	log.Println(banner)
	log.Printf("   Domain: L=%g, N=%d\n", cfg.Length, cfg.Resolution)
	log.Printf("   Shape: a=%g, b=%g, d=%g\n", cfg.Shape.A, cfg.Shape.B, cfg.Shape.D)

	ds, err := ArcStep(cfg.Length, cfg.Resolution)
	if err != nil {
		return nil, err
	}

	disc, err := DiscretizeBell(cfg.Shape, ds, cfg.StartAngle)
	if err != nil {
		return nil, fmt.Errorf("failed to discretize bell: %w", err)
	}
	layout := disc.Layout
	log.Printf("   ds=%g, first half %d points, total %d points\n", ds, layout.FirstHalf, layout.Total)
	log.Printf("   Muscle pairs: %d\n", layout.Muscle)

	mesh := BuildMesh(disc, cfg.Constants)

	if cfg.Check {
		report, err := CheckMesh(mesh)
		if err != nil {
			log.Printf("❌ Mesh check failed: %v\n", err)
			return nil, fmt.Errorf("mesh check failed: %w", err)
		}
		log.Printf("✅ Mesh check passed (arc length %.6f over %d vertices, %d muscle springs)\n",
			report.ArcLength, report.ArcVertices, report.MuscleLinks)
	}

	files, err := WriteMeshFiles(cfg.OutputDir, cfg.StructName, mesh)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Wrote %s (%d), %s (%d), %s (%d)\n",
		files.Vertex, len(mesh.Points), files.Spring, len(mesh.Links), files.Beam, len(mesh.Bends))

	if cfg.GeoJSON != "" {
		if err := SaveGeoJSON(mesh, cfg.GeoJSON); err != nil {
			return nil, err
		}
		log.Printf("   GeoJSON: %s\n", cfg.GeoJSON)
	}
	if cfg.SVG != "" {
		if err := SaveSVG(cfg.SVG, func(w io.Writer) error { return RenderMeshSVG(w, mesh) }); err != nil {
			return nil, err
		}
		log.Printf("   SVG: %s\n", cfg.SVG)
	}

	log.Println(banner)
	return mesh, nil
}

// probeConfigFromArgs layers defaults, YAML and flags
func probeConfigFromArgs(args []string) (ProbeConfig, error) {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	dataDir := fs.String("data", "", "directory with Eulerian field files")
	lagDir := fs.String("lag", "", "directory with Lagrangian force files")
	velocity := fs.String("velocity", "", "velocity file prefix")
	first := fs.Int("first", 0, "first frame")
	last := fs.Int("last", 0, "last frame")
	step := fs.Int("step", 1, "frame step")
	probes := fs.String("probes", "", "probe points as x,y;x,y")
	probesFile := fs.String("probes-file", "", "GeoJSON file with probe points")
	skipMissing := fs.Bool("skip-missing", false, "skip frames whose files cannot be read")
	svgPath := fs.String("svg", "", "plot probe series to this SVG path")
	dbPath := fs.String("db", "", "store the run in this SQLite database")

	if err := fs.Parse(args); err != nil {
		return ProbeConfig{}, err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return ProbeConfig{}, err
	}
	probe := cfg.Probe

	set := setFlags(fs)
	if set["data"] {
		probe.DataDir = *dataDir
	}
	if set["lag"] {
		probe.LagDir = *lagDir
	}
	if set["velocity"] {
		probe.VelocityPfx = *velocity
	}
	if set["first"] {
		probe.FirstFrame = *first
	}
	if set["last"] {
		probe.LastFrame = *last
	}
	if set["step"] {
		probe.FrameStep = *step
	}
	if set["probes-file"] {
		probe.ProbesFile = *probesFile
	}
	if set["skip-missing"] {
		probe.SkipMissing = *skipMissing
	}
	if set["svg"] {
		probe.SVG = *svgPath
	}
	if set["db"] {
		probe.Database = *dbPath
	}
	if set["probes"] {
		pts, err := ParseProbeList(*probes)
		if err != nil {
			return ProbeConfig{}, err
		}
		probe.Probes = pts
	}
	if probe.ProbesFile != "" {
		pts, err := LoadProbesGeoJSON(probe.ProbesFile)
		if err != nil {
			return ProbeConfig{}, err
		}
		probe.Probes = append(probe.Probes, pts...)
	}
	probe.Probes = NameProbes(probe.Probes)

	return probe, probe.Validate()
}

// runProbe samples the probes over the configured frames
func runProbe(args []string) (*Accumulator, error) {
	cfg, err := probeConfigFromArgs(args)
	if err != nil {
		return nil, err
	}

	log.Println(banner)
	log.Println("📈 Probe analysis")
	log.Println(banner)
	log.Printf("   Frames: %d..%d step %d\n", cfg.FirstFrame, cfg.LastFrame, cfg.FrameStep)
	log.Printf("   Probes: %d\n", len(cfg.Probes))

	acc := NewAccumulator(cfg.Probes)
	skipped := 0
	for _, frame := range cfg.Frames() {
		field, err := LoadVelocityFrame(cfg.DataDir, cfg.VelocityPfx, frame)
		if err != nil {
			if cfg.SkipMissing {
				log.Printf("⚠️  Skipping frame %d: %v\n", frame, err)
				skipped++
				continue
			}
			return nil, err
		}

		var forces *BoundaryForces
		if len(cfg.ForcePfxs) > 0 && cfg.LagDir != "" {
			forces, err = LoadForceFrame(cfg.LagDir, cfg.ForcePfxs, frame)
			if err != nil {
				log.Printf("⚠️  No Lagrangian forces for frame %d: %v\n", frame, err)
				forces = nil
			}
		}

		acc.Add(frame, field, forces)
	}

	if len(acc.Samples) == 0 {
		return nil, errors.New("no frames could be read")
	}

	log.Printf("✅ Sampled %d frames (%d skipped)\n", len(acc.Samples), skipped)
	for k, p := range acc.Probes {
		log.Printf("   %s (%.4f, %.4f): max |u| = %.6g\n", p.Name, p.X, p.Y, acc.MaxVelocity(k))
	}

	if cfg.SVG != "" {
		if err := SaveSVG(cfg.SVG, func(w io.Writer) error { return RenderProbeSVG(w, acc) }); err != nil {
			return nil, err
		}
		log.Printf("   SVG: %s\n", cfg.SVG)
	}

	if cfg.Database != "" {
		store, err := OpenRunStore(cfg.Database)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		id, err := store.SaveRun(cfg, acc)
		if err != nil {
			return nil, err
		}
		log.Printf("   Stored run %s in %s\n", id, cfg.Database)
	}

	log.Println(banner)
	return acc, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
}
