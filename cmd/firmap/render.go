package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rendis/firmap/internal/engine/render"
	"github.com/rendis/firmap/internal/engine/widget"
)

func runRender(args []string) error {
	var outputPath string
	var width, height int

	fs := newFlagSet("render", "  firmap render -projection Bonne -o bonne.svg\n"+
		"  firmap render -source https://example.org/maps -fl 300 -width 1200 -height 700\n")
	fs.StringVar(&outputPath, "o", "", "Output SVG path (default: firmap_<projection>_FL<fl>.svg)")
	fs.IntVar(&width, "width", 960, "Viewport width in pixels")
	fs.IntVar(&height, "height", 500, "Viewport height in pixels")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}

	cfg, closeLog, err := fs.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	if outputPath == "" {
		outputPath = fmt.Sprintf("firmap_%s_FL%03d.svg", cfg.Projection, cfg.FlightLevel)
	}

	ctx, cancel := signalContext()
	defer cancel()

	world, firs, err := newLoader(cfg).FetchAll(ctx)
	if err != nil {
		return err
	}

	m, err := widget.New(cfg.Projection, cfg.FlightLevel, render.SVGDrawer{})
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Resize(float64(width), float64(height)); err != nil {
		return err
	}
	if err := m.SetWorld(world); err != nil {
		return err
	}
	if err := m.SetFIRs(firs); err != nil {
		return err
	}

	doc, ok := m.Artifact().(*render.Document)
	if !ok {
		return errors.New("nothing rendered")
	}
	if err := os.WriteFile(outputPath, doc.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	res := m.Result()
	fmt.Fprintf(os.Stderr, "Rendered %s at FL%03d (%d FIRs, %d NO_FIR areas) to %s\n",
		cfg.Projection, cfg.FlightLevel, len(res.FIRs.Features), len(res.NoFIRs.Features), outputPath)
	return nil
}
