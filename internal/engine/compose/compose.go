package compose

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/rendis/firmap/internal/engine/fir"
	"github.com/rendis/firmap/internal/engine/projection"
	"github.com/rendis/firmap/internal/engine/render"
	"github.com/rendis/firmap/internal/engine/topology"
)

// ErrNotReady is returned while either topology is still missing.
var ErrNotReady = errors.New("topologies not loaded")

// Layer names of the stack, topmost first.
const (
	LayerFIR       = "firs"
	LayerNoFIR     = "nofirs"
	LayerWorld     = "world"
	LayerShadow    = "shadow"
	LayerOutline   = "outline"
	LayerGraticule = "graticule"
)

// WorldObject is the topology object holding world regions.
const WorldObject = "data"

// NoFIRTooltip is shown over uncontrolled airspace.
const NoFIRTooltip = "No FIR"

// State is everything a map render depends on.
type State struct {
	World       *topology.Topology
	FIRs        *topology.Topology
	Projection  projection.Name
	FlightLevel int
}

// Ready reports whether both topologies are loaded.
func (s State) Ready() bool {
	return s.World != nil && s.FIRs != nil
}

// Result is the derived content of a render pass.
type Result struct {
	Layers []render.Layer
	// Applicable is every feature selected at the flight level, in source order.
	Applicable *geojson.FeatureCollection
	FIRs       *geojson.FeatureCollection
	NoFIRs     *geojson.FeatureCollection
}

// Derive computes the layer stack for s. It has no side effects and
// recomputes everything on each call.
func Derive(s State) (*Result, error) {
	if !s.Ready() {
		return nil, ErrNotReady
	}

	applicable, err := fir.SelectApplicable(s.FIRs, s.FlightLevel)
	if err != nil {
		return nil, err
	}
	firs, noFirs := fir.Partition(applicable)

	world, err := worldFeatures(s.World)
	if err != nil {
		return nil, err
	}

	return &Result{
		Layers:     Layers(world, firs, noFirs),
		Applicable: applicable,
		FIRs:       firs,
		NoFIRs:     noFirs,
	}, nil
}

// Layers builds the styled stack, topmost first.
func Layers(world, firs, noFirs *geojson.FeatureCollection) []render.Layer {
	return []render.Layer{
		{
			Name:     LayerFIR,
			Features: firs,
			Style:    render.Style{Fill: "#aaa", FillOpacity: 0.3, Stroke: "#ffffff", StrokeWidth: 1.5},
			Tooltip:  "$name",
		},
		{
			Name:     LayerNoFIR,
			Features: noFirs,
			Style:    render.Style{FillBy: "name", FillOpacity: 0.3, Stroke: "#ffffff", StrokeWidth: 0.5},
			Tooltip:  NoFIRTooltip,
		},
		{
			Name:     LayerWorld,
			Features: world,
			Style:    render.Style{FillBy: "region", Stroke: "#ffffff", StrokeWidth: 0.5},
		},
		{
			Name:     LayerShadow,
			Features: world,
			Style:    render.Style{Fill: "#35383d", Opacity: 0.2, DX: 3, DY: 3, Blur: 1.5},
		},
		{
			Name:  LayerOutline,
			Kind:  render.KindOutline,
			Style: render.Style{Stroke: "#35383d", StrokeWidth: 1},
		},
		{
			Name:  LayerGraticule,
			Kind:  render.KindGraticule,
			Step:  10,
			Style: render.Style{Stroke: "#9aa5b1", StrokeWidth: 0.8, StrokeOpacity: 0.5},
		},
	}
}

// worldFeatures converts the world topology: its "data" object when present,
// otherwise the first object by name.
func worldFeatures(t *topology.Topology) (*geojson.FeatureCollection, error) {
	if _, ok := t.Object(WorldObject); ok {
		return t.FeatureCollection(WorldObject)
	}
	names := t.ObjectNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("world topology: %w: no objects", topology.ErrObjectNotFound)
	}
	return t.FeatureCollection(names[0])
}
