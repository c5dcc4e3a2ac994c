package fir

import (
	"github.com/paulmach/orb"

	"github.com/rendis/firmap/internal/engine/geo"
)

// Fixup turns a raw FIR geometry into the geometry to draw.
type Fixup func(orb.Geometry) orb.Geometry

// Fixups maps region designators to the stitch strategy their geometry
// needs. Designators not listed use geo.Stitch.
var Fixups = map[string]Fixup{
	"NZZO": StitchAsPolygon,
}

// FixupFor returns the strategy registered for designator.
func FixupFor(designator string) Fixup {
	if fix, ok := Fixups[designator]; ok {
		return fix
	}
	return geo.Stitch
}

// StitchAsPolygon stitches g and forces the result to a single Polygon by
// flattening the rings of every stitched polygon one level.
func StitchAsPolygon(g orb.Geometry) orb.Geometry {
	stitched := geo.Stitch(g)

	mp, ok := stitched.(orb.MultiPolygon)
	if !ok {
		return stitched
	}
	poly := make(orb.Polygon, 0, len(mp))
	for _, p := range mp {
		poly = append(poly, p...)
	}
	return poly
}
