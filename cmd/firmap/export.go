package main

import (
	"fmt"
	"os"

	"github.com/rendis/firmap/internal/engine/export"
	"github.com/rendis/firmap/internal/engine/fir"
	"github.com/rendis/firmap/internal/engine/loader"
)

func runExport(args []string) error {
	var outputPath, format string

	fs := newFlagSet("export", "  firmap export -fl 100\n"+
		"  firmap export -fl 300 -format fgb -o upper.fgb\n"+
		"  firmap export -source ./data -format sqlite\n")
	fs.StringVar(&outputPath, "o", "", "Output file path (default: firs_FL<fl>.<ext>)")
	fs.StringVar(&format, "format", "csv", "Export format: csv, geojson, sqlite, fgb")

	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, closeLog, err := fs.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	if outputPath == "" {
		outputPath = fmt.Sprintf("firs_FL%03d%s", cfg.FlightLevel, f.Extension())
	}

	ctx, cancel := signalContext()
	defer cancel()

	topo, err := newLoader(cfg).Fetch(ctx, loader.FIRs)
	if err != nil {
		return err
	}
	applicable, err := fir.SelectApplicable(topo, cfg.FlightLevel)
	if err != nil {
		return err
	}
	if len(applicable.Features) == 0 {
		return fmt.Errorf("no FIRs at FL%03d", cfg.FlightLevel)
	}

	n, err := export.ToFile(outputPath, f, applicable, cfg.FlightLevel)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Exported %d FIRs to %s\n", n, outputPath)
	return nil
}
