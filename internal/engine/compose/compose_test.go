package compose

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rendis/firmap/internal/engine/render"
	"github.com/rendis/firmap/internal/engine/topology"
)

const worldDoc = `{
  "type": "Topology",
  "arcs": [[[-10, 35], [30, 35], [30, 70], [-10, 70], [-10, 35]]],
  "objects": {"countries": {"type": "GeometryCollection", "geometries": [
    {"type": "Polygon", "arcs": [[0]], "properties": {"name": "Europe", "region": "Europe"}}
  ]}}
}`

const firDoc = `{
  "type": "Topology",
  "arcs": [[[0, 40], [5, 40], [5, 50], [0, 50], [0, 40]]],
  "objects": {"data": {"type": "GeometryCollection", "geometries": [
    {"type": "Polygon", "arcs": [[0]], "properties": {"designator": "LFFF", "name": "PARIS", "lower": 0, "upper": 195, "type": "FIR"}},
    {"type": "Polygon", "arcs": [[0]], "properties": {"designator": "", "name": "Gap", "lower": 0, "type": "NO_FIR"}},
    {"type": "Polygon", "arcs": [[0]], "properties": {"designator": "LFUU", "name": "PARIS UIR", "lower": 195, "upper": 660, "type": "UIR"}}
  ]}}
}`

func state(t *testing.T) State {
	t.Helper()
	world, err := topology.Parse([]byte(worldDoc))
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	firs, err := topology.Parse([]byte(firDoc))
	if err != nil {
		t.Fatalf("firs: %v", err)
	}
	return State{World: world, FIRs: firs, Projection: "Airy", FlightLevel: 100}
}

func TestDeriveNotReady(t *testing.T) {
	s := state(t)
	s.FIRs = nil
	if _, err := Derive(s); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if (State{}).Ready() {
		t.Error("empty state reported ready")
	}
}

func TestDeriveLayerStack(t *testing.T) {
	res, err := Derive(state(t))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	var names []string
	for _, l := range res.Layers {
		names = append(names, l.Name)
	}
	want := []string{LayerFIR, LayerNoFIR, LayerWorld, LayerShadow, LayerOutline, LayerGraticule}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("layers %v, want %v", names, want)
	}

	if len(res.FIRs.Features) != 1 || res.FIRs.Features[0].Properties["designator"] != "LFFF" {
		t.Errorf("FIR set: %v", res.FIRs.Features)
	}
	if len(res.NoFIRs.Features) != 1 {
		t.Errorf("NO_FIR set has %d features", len(res.NoFIRs.Features))
	}

	firs := res.Layers[0]
	if firs.Style.Fill != "#aaa" || firs.Style.FillOpacity != 0.3 || firs.Style.StrokeWidth != 1.5 || firs.Tooltip != "$name" {
		t.Errorf("unexpected FIR style %+v", firs)
	}
	noFirs := res.Layers[1]
	if noFirs.Style.FillBy != "name" || noFirs.Tooltip != NoFIRTooltip {
		t.Errorf("unexpected NO_FIR style %+v", noFirs)
	}
	if res.Layers[2].Style.FillBy != "region" || len(res.Layers[2].Features.Features) != 1 {
		t.Errorf("unexpected world layer %+v", res.Layers[2])
	}
	if res.Layers[3].Style.Opacity != 0.2 {
		t.Errorf("shadow opacity %v", res.Layers[3].Style.Opacity)
	}
	if res.Layers[4].Kind != render.KindOutline || res.Layers[5].Kind != render.KindGraticule {
		t.Error("outline and graticule layers have the wrong kind")
	}
}

func TestDeriveFollowsFlightLevel(t *testing.T) {
	s := state(t)
	s.FlightLevel = 300

	res, err := Derive(s)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if len(res.FIRs.Features) != 1 || res.FIRs.Features[0].Properties["designator"] != "LFUU" {
		t.Errorf("FL300 FIR set: %v", res.FIRs.Features)
	}
}

func TestDeriveIsPure(t *testing.T) {
	s := state(t)
	a, err := Derive(s)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	b, err := Derive(s)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if !reflect.DeepEqual(a.FIRs, b.FIRs) || !reflect.DeepEqual(a.NoFIRs, b.NoFIRs) {
		t.Error("derivation is not repeatable")
	}
	if a.FIRs == b.FIRs {
		t.Error("derived collections should not be shared between passes")
	}
}
