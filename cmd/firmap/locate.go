package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/rendis/firmap/internal/engine/fir"
	"github.com/rendis/firmap/internal/engine/geo"
	"github.com/rendis/firmap/internal/engine/loader"
)

func runLocate(args []string) error {
	var lat, lon float64
	var designator string

	fs := newFlagSet("locate", "  firmap locate -lat 48.85 -lon 2.35\n"+
		"  firmap locate -designator NZZO -fl 300\n")
	fs.Float64Var(&lat, "lat", math.NaN(), "Latitude of the point to look up")
	fs.Float64Var(&lon, "lon", math.NaN(), "Longitude of the point to look up")
	fs.StringVar(&designator, "designator", "", "FIR designator or name to look up")

	if err := fs.Parse(args); err != nil {
		return err
	}
	byPoint := !math.IsNaN(lat) && !math.IsNaN(lon)
	if !byPoint && designator == "" {
		return errors.New("either -lat/-lon or -designator is required")
	}

	cfg, closeLog, err := fs.setup()
	if err != nil {
		return err
	}
	defer closeLog()

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
	ix := geo.NewIndex(applicable, "designator", "name")

	var found []*geojson.Feature
	if byPoint {
		found = ix.Containing(orb.Point{lon, lat})
	} else if f, ok := ix.Lookup(designator); ok {
		found = append(found, f)
	}
	if len(found) == 0 {
		return fmt.Errorf("nothing found at FL%03d", cfg.FlightLevel)
	}

	for _, f := range found {
		s := fir.Summarize(f)
		b := geo.Bound(f.Geometry)
		fmt.Printf("%-6s %-30s %-7s FL%03.0f-FL%03.0f  [%.2f %.2f, %.2f %.2f]\n",
			s.Designator, s.Name, s.Type, s.Lower, s.Upper,
			b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat())
	}
	fmt.Fprintf(os.Stderr, "%d match(es) at FL%03d\n", len(found), cfg.FlightLevel)
	return nil
}
