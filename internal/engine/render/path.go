package render

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/rendis/firmap/internal/engine/projection"
)

// maxStep is the longest edge, in radians, left between two frame vertices
// before projecting, so straight lon/lat edges bend with the projection.
const maxStep = 2 * math.Pi / 180

// pather projects geographic geometry into pixels: rotation into the
// projection frame, cutting at the frame antimeridian, clipping to the
// visible region, raw projection and the fit transform.
type pather struct {
	proj *projection.Projection
	tr   projection.Transform
}

func (pp pather) geometry(g orb.Geometry) (orb.MultiPolygon, orb.MultiLineString) {
	switch g := g.(type) {
	case orb.Polygon:
		return pp.polygon(g), nil
	case orb.MultiPolygon:
		var mp orb.MultiPolygon
		for _, p := range g {
			mp = append(mp, pp.polygon(p)...)
		}
		return mp, nil
	case orb.Ring:
		return pp.polygon(orb.Polygon{g}), nil
	case orb.LineString:
		return nil, pp.line(g)
	case orb.MultiLineString:
		var mls orb.MultiLineString
		for _, ls := range g {
			mls = append(mls, pp.line(ls)...)
		}
		return nil, mls
	case orb.Collection:
		var (
			mp  orb.MultiPolygon
			mls orb.MultiLineString
		)
		for _, member := range g {
			p, l := pp.geometry(member)
			mp = append(mp, p...)
			mls = append(mls, l...)
		}
		return mp, mls
	}
	return nil, nil
}

// polygon returns one pixel polygon per frame window the first ring touches.
// Later rings follow the polygon of the window they fall in, or start one
// when the first ring has none there.
func (pp pather) polygon(poly orb.Polygon) orb.MultiPolygon {
	if len(poly) == 0 {
		return nil
	}

	byWindow := make(map[int]int)
	var out orb.MultiPolygon
	for i, r := range poly {
		for _, piece := range pp.ring(r) {
			if i == 0 {
				byWindow[piece.window] = len(out)
				out = append(out, orb.Polygon{piece.ring})
				continue
			}
			if j, ok := byWindow[piece.window]; ok {
				out[j] = append(out[j], piece.ring)
				continue
			}
			byWindow[piece.window] = len(out)
			out = append(out, orb.Polygon{piece.ring})
		}
	}
	return out
}

type ringPiece struct {
	window int
	ring   orb.Ring
}

func (pp pather) ring(r orb.Ring) []ringPiece {
	pts := []orb.Point(r)
	if len(pts) > 1 && pts[0].Equal(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return nil
	}

	frame := make([]orb.Point, len(pts))
	var latSum float64
	for i, p := range pts {
		lambda, phi := pp.proj.Rotate(p[0], p[1])
		if i > 0 {
			lambda = unwrap(lambda, frame[i-1][0])
		}
		frame[i] = orb.Point{lambda, phi}
		latSum += phi
	}

	// a ring around a pole does not close in longitude; run it along the pole
	first, last := frame[0], frame[len(frame)-1]
	if winding := unwrap(first[0], last[0]) - first[0]; math.Abs(winding) > math.Pi {
		pole := math.Pi / 2
		if latSum < 0 {
			pole = -pole
		}
		frame = append(frame,
			orb.Point{first[0] + winding, first[1]},
			orb.Point{first[0] + winding, pole},
			orb.Point{first[0], pole},
		)
	}

	minL, maxL := math.Inf(1), math.Inf(-1)
	for _, p := range frame {
		minL = math.Min(minL, p[0])
		maxL = math.Max(maxL, p[0])
	}

	var pieces []ringPiece
	for k := window(minL + 1e-9); k <= window(maxL-1e-9); k++ {
		lo, hi := -math.Pi+2*math.Pi*float64(k), math.Pi+2*math.Pi*float64(k)
		clipped := clipLon(clipLon(frame, lo, true), hi, false)
		if len(clipped) < 3 {
			continue
		}

		shift := 2 * math.Pi * float64(k)
		shifted := make([]orb.Point, len(clipped))
		for i, p := range clipped {
			shifted[i] = orb.Point{p[0] - shift, p[1]}
		}
		shifted = append(shifted, shifted[0])

		var ring orb.Ring
		for _, p := range densify(shifted) {
			lambda, phi := pp.proj.Clamp(p[0], p[1])
			if px, ok := pp.pixel(lambda, phi); ok {
				ring = append(ring, px)
			}
		}
		if len(ring) < 3 {
			continue
		}
		if !ring[0].Equal(ring[len(ring)-1]) {
			ring = append(ring, ring[0])
		}
		pieces = append(pieces, ringPiece{window: k, ring: ring})
	}
	return pieces
}

// line splits a line where it crosses the frame antimeridian or leaves the
// visible region.
func (pp pather) line(ls orb.LineString) orb.MultiLineString {
	if len(ls) < 2 {
		return nil
	}

	var (
		parts   [][]orb.Point
		current []orb.Point
		prev    orb.Point
	)
	for i, p := range ls {
		lambda, phi := pp.proj.Rotate(p[0], p[1])
		cur := orb.Point{lambda, phi}
		if i > 0 {
			if d := cur[0] - prev[0]; math.Abs(d) > math.Pi {
				edge := math.Copysign(math.Pi, prev[0])
				next := unwrap(cur[0], prev[0])
				t := (edge - prev[0]) / (next - prev[0])
				phiC := prev[1] + t*(cur[1]-prev[1])
				current = append(current, orb.Point{edge, phiC})
				parts = append(parts, current)
				current = []orb.Point{{-edge, phiC}}
			}
		}
		current = append(current, cur)
		prev = cur
	}
	parts = append(parts, current)

	var out orb.MultiLineString
	for _, part := range parts {
		var seg orb.LineString
		for _, p := range densify(part) {
			px, ok := orb.Point{}, pp.proj.Visible(p[0], p[1])
			if ok {
				px, ok = pp.pixel(p[0], p[1])
			}
			if !ok {
				if len(seg) > 1 {
					out = append(out, seg)
				}
				seg = nil
				continue
			}
			seg = append(seg, px)
		}
		if len(seg) > 1 {
			out = append(out, seg)
		}
	}
	return out
}

func (pp pather) pixel(lambda, phi float64) (orb.Point, bool) {
	x, y, ok := pp.proj.Project(lambda, phi)
	if !ok {
		return orb.Point{}, false
	}
	return pp.tr.Apply(x, y), true
}

// unwrap shifts lambda by whole turns to within half a turn of ref.
func unwrap(lambda, ref float64) float64 {
	for lambda-ref > math.Pi {
		lambda -= 2 * math.Pi
	}
	for lambda-ref < -math.Pi {
		lambda += 2 * math.Pi
	}
	return lambda
}

// window returns the index k of the longitude window [-π+2πk, π+2πk).
func window(lambda float64) int {
	return int(math.Floor((lambda + math.Pi) / (2 * math.Pi)))
}

// clipLon keeps the part of an open polygon on one side of a meridian.
func clipLon(in []orb.Point, bound float64, keepAbove bool) []orb.Point {
	inside := func(p orb.Point) bool {
		if keepAbove {
			return p[0] >= bound
		}
		return p[0] <= bound
	}
	cross := func(a, b orb.Point) orb.Point {
		t := (bound - a[0]) / (b[0] - a[0])
		return orb.Point{bound, a[1] + t*(b[1]-a[1])}
	}

	n := len(in)
	out := make([]orb.Point, 0, n)
	for i := 0; i < n; i++ {
		cur, prev := in[i], in[(i+n-1)%n]
		switch {
		case inside(cur):
			if !inside(prev) {
				out = append(out, cross(prev, cur))
			}
			out = append(out, cur)
		case inside(prev):
			out = append(out, cross(prev, cur))
		}
	}
	return out
}

// densify inserts points so that no edge is longer than maxStep.
func densify(pts []orb.Point) []orb.Point {
	if len(pts) < 2 {
		return pts
	}
	out := make([]orb.Point, 0, len(pts))
	out = append(out, pts[0])
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := math.Max(math.Abs(b[0]-a[0]), math.Abs(b[1]-a[1]))
		if n := int(math.Ceil(d / maxStep)); n > 1 {
			for j := 1; j < n; j++ {
				t := float64(j) / float64(n)
				out = append(out, orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])})
			}
		}
		out = append(out, b)
	}
	return out
}
