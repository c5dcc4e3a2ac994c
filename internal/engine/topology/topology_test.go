package topology

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

const quantized = `{
  "type": "Topology",
  "transform": {"scale": [0.5, 0.5], "translate": [100, 0]},
  "objects": {
    "example": {
      "type": "GeometryCollection",
      "geometries": [
        {"type": "Point", "properties": {"prop0": "value0"}, "coordinates": [4, 4]},
        {"type": "LineString", "id": "line", "arcs": [0]},
        {"type": "Polygon", "properties": {"name": "square"}, "arcs": [[-2]]},
        {"type": null, "properties": {"name": "empty"}}
      ]
    }
  },
  "arcs": [
    [[4, 0], [1, 2], [1, -2], [1, 2], [1, -2]],
    [[0, 0], [0, 2], [2, 0], [0, -2], [-2, 0]]
  ]
}`

const shared = `{
  "type": "Topology",
  "objects": {
    "data": {
      "type": "GeometryCollection",
      "geometries": [
        {"type": "Polygon", "properties": {"designator": "WEST"}, "arcs": [[0, 1]]},
        {"type": "Polygon", "properties": {"designator": "EAST"}, "arcs": [[2, -1]]},
        {"type": "MultiPolygon", "properties": {"designator": "TINY"}, "arcs": [[[3]]]}
      ]
    }
  },
  "arcs": [
    [[10, 0], [10, 10]],
    [[10, 10], [0, 10], [0, 0], [10, 0]],
    [[10, 0], [20, 0], [20, 10], [10, 10]],
    [[30, 30], [31, 31]]
  ]
}`

func mustParse(t *testing.T, doc string) *Topology {
	t.Helper()
	topo, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return topo
}

func TestDecodeQuantized(t *testing.T) {
	topo := mustParse(t, quantized)

	fc, err := topo.FeatureCollection("example")
	if err != nil {
		t.Fatalf("FeatureCollection: %v", err)
	}
	if len(fc.Features) != 4 {
		t.Fatalf("expected 4 features, got %d", len(fc.Features))
	}

	if p, ok := fc.Features[0].Geometry.(orb.Point); !ok || !p.Equal(orb.Point{102, 2}) {
		t.Errorf("point: got %v", fc.Features[0].Geometry)
	}
	if fc.Features[0].Properties.MustString("prop0") != "value0" {
		t.Errorf("point properties not carried: %v", fc.Features[0].Properties)
	}

	wantLine := orb.LineString{{102, 0}, {102.5, 1}, {103, 0}, {103.5, 1}, {104, 0}}
	if ls, ok := fc.Features[1].Geometry.(orb.LineString); !ok || !ls.Equal(wantLine) {
		t.Errorf("line: got %v, want %v", fc.Features[1].Geometry, wantLine)
	}
	if fc.Features[1].ID != "line" {
		t.Errorf("expected id to be carried, got %v", fc.Features[1].ID)
	}

	// reversed arc
	wantRing := orb.Ring{{100, 0}, {101, 0}, {101, 1}, {100, 1}, {100, 0}}
	poly, ok := fc.Features[2].Geometry.(orb.Polygon)
	if !ok || len(poly) != 1 || !poly[0].Equal(wantRing) {
		t.Errorf("polygon: got %v, want [%v]", fc.Features[2].Geometry, wantRing)
	}

	if fc.Features[3].Geometry != nil {
		t.Errorf("null geometry should stay nil, got %v", fc.Features[3].Geometry)
	}
}

func TestSharedArcs(t *testing.T) {
	topo := mustParse(t, shared)

	fc, err := topo.FeatureCollection("data")
	if err != nil {
		t.Fatalf("FeatureCollection: %v", err)
	}

	west := fc.Features[0].Geometry.(orb.Polygon)
	wantWest := orb.Ring{{10, 0}, {10, 10}, {0, 10}, {0, 0}, {10, 0}}
	if !west[0].Equal(wantWest) {
		t.Errorf("west: got %v, want %v", west[0], wantWest)
	}

	east := fc.Features[1].Geometry.(orb.Polygon)
	wantEast := orb.Ring{{10, 0}, {20, 0}, {20, 10}, {10, 10}, {10, 0}}
	if !east[0].Equal(wantEast) {
		t.Errorf("east: got %v, want %v", east[0], wantEast)
	}

	// short rings are padded to four positions
	tiny := fc.Features[2].Geometry.(orb.MultiPolygon)
	if len(tiny[0][0]) != 4 {
		t.Errorf("expected padded ring of 4 points, got %v", tiny[0][0])
	}
}

func TestConversionLeavesTopologyUntouched(t *testing.T) {
	topo := mustParse(t, shared)

	first, err := topo.FeatureCollection("data")
	if err != nil {
		t.Fatalf("FeatureCollection: %v", err)
	}
	first.Features[1].Geometry.(orb.Polygon)[0][0] = orb.Point{-1, -1}
	first.Features[0].Properties["designator"] = "CHANGED"

	second, err := topo.FeatureCollection("data")
	if err != nil {
		t.Fatalf("FeatureCollection: %v", err)
	}
	if got := second.Features[1].Geometry.(orb.Polygon)[0][0]; !got.Equal(orb.Point{10, 0}) {
		t.Errorf("arc cache was mutated through a feature: %v", got)
	}
	if got := second.Features[0].Properties.MustString("designator"); got != "WEST" {
		t.Errorf("topology properties were mutated through a feature: %q", got)
	}
}

func TestMissingObject(t *testing.T) {
	topo := mustParse(t, shared)

	_, err := topo.FeatureCollection("countries")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"wrong type", `{"type": "FeatureCollection", "features": []}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.doc)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestArcOutOfRange(t *testing.T) {
	topo := mustParse(t, `{"type":"Topology","arcs":[],"objects":{"data":{"type":"LineString","arcs":[3]}}}`)

	if _, err := topo.FeatureCollection("data"); err == nil {
		t.Fatal("expected out of range error")
	}
}
