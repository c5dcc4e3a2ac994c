package geo

import (
	"testing"

	"github.com/paulmach/orb"
)

func splitPacific() orb.MultiPolygon {
	return orb.MultiPolygon{
		{{{160, -25}, {180, -25}, {180, -5}, {160, -5}, {160, -25}}},
		{{{-180, -25}, {-150, -25}, {-150, -5}, {-180, -5}, {-180, -25}}},
	}
}

func TestStitchJoinsAntimeridianSplit(t *testing.T) {
	in := splitPacific()

	got, ok := Stitch(in).(orb.MultiPolygon)
	if !ok {
		t.Fatalf("expected MultiPolygon, got %T", Stitch(in))
	}
	if len(got) != 1 || len(got[0]) != 1 {
		t.Fatalf("expected a single ring, got %v", got)
	}

	want := orb.Ring{
		{180, -5}, {160, -5}, {160, -25}, {180, -25},
		{-150, -25}, {-150, -5}, {-180, -5}, {180, -5},
	}
	if !got[0][0].Equal(want) {
		t.Errorf("got %v, want %v", got[0][0], want)
	}

	if !in.Equal(splitPacific()) {
		t.Errorf("input was modified: %v", in)
	}
}

func TestStitchKeepsHolesWithTheirRing(t *testing.T) {
	in := orb.MultiPolygon{
		{box(160, -25, 180, -5)},
		{box(-180, -25, -150, -5)},
		{box(170, 20, 180, 40), box(172, 25, 175, 30)},
		{box(-180, 20, -170, 40)},
	}

	got, ok := Stitch(in).(orb.MultiPolygon)
	if !ok || len(got) != 2 {
		t.Fatalf("expected two stitched polygons, got %v", Stitch(in))
	}
	for i, p := range got {
		north := p[0].Bound().Min[1] >= 20
		switch {
		case north && len(p) != 2:
			t.Errorf("polygon %d: northern ring has %d rings, want outer and hole", i, len(p))
		case !north && len(p) != 1:
			t.Errorf("polygon %d: southern ring has %d rings, want 1", i, len(p))
		}
	}
}

func TestStitchLeavesOrdinaryPolygons(t *testing.T) {
	poly := orb.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{2, 2}, {2, 4}, {4, 4}, {4, 2}, {2, 2}},
	}

	got, ok := Stitch(poly).(orb.Polygon)
	if !ok || !got.Equal(poly) {
		t.Fatalf("expected the polygon back, got %v", Stitch(poly))
	}

	got[0][0] = orb.Point{99, 99}
	if poly[0][0].Equal(orb.Point{99, 99}) {
		t.Error("stitched polygon shares memory with the input")
	}
}

func TestStitchUnmatchedFragmentIsClosed(t *testing.T) {
	// touches the antimeridian with nothing on the other side
	poly := orb.Polygon{{{170, 0}, {180, 0}, {180, 10}, {170, 10}, {170, 0}}}

	got, ok := Stitch(poly).(orb.Polygon)
	if !ok || len(got) != 1 {
		t.Fatalf("expected a single polygon, got %v", Stitch(poly))
	}
	if len(got[0]) != 5 || !got[0][0].Equal(got[0][len(got[0])-1]) {
		t.Errorf("expected a closed ring of 5 points, got %v", got[0])
	}
}

func TestStitchPolarCap(t *testing.T) {
	polar := orb.Polygon{{
		{-180, -90}, {-180, -80}, {0, -80}, {180, -80}, {180, -90}, {-180, -90},
	}}

	got, ok := Stitch(polar).(orb.Polygon)
	if !ok {
		t.Fatalf("expected Polygon, got %T", Stitch(polar))
	}
	want := orb.Ring{{-180, -80}, {0, -80}, {180, -80}, {-180, -80}}
	if !got[0].Equal(want) {
		t.Errorf("got %v, want %v", got[0], want)
	}
}

func TestStitchOtherGeometries(t *testing.T) {
	ls := orb.LineString{{170, 0}, {180, 0}}
	if got := Stitch(ls); !orb.Equal(got, ls) {
		t.Errorf("line changed: %v", got)
	}
	if Stitch(nil) != nil {
		t.Error("nil geometry should stay nil")
	}
}

func TestGraticule(t *testing.T) {
	g := Graticule(10)

	// 37 meridians and 17 parallels
	if len(g) != 37+17 {
		t.Fatalf("expected 54 lines, got %d", len(g))
	}
	if first := g[0][0]; !first.Equal(orb.Point{-180, -90}) {
		t.Errorf("first meridian starts at %v", first)
	}
}
