package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// AntimeridianEpsilon is the tolerance, in degrees, for a longitude to count
// as lying on the antimeridian.
const AntimeridianEpsilon = 1e-6

// OnAntimeridian reports whether p lies on longitude ±180.
func OnAntimeridian(p orb.Point) bool {
	return math.Abs(math.Abs(p[0])-180) < AntimeridianEpsilon
}

// Stitch merges polygons that were split along the antimeridian back into
// continuous rings. Edges running along ±180 are removed and the remaining
// fragments are joined where one ends at the latitude another starts.
// Longitudes are kept in [-180, 180], so a stitched ring may jump across the
// antimeridian. A Polygon that stitches into a single polygon stays a
// Polygon; a MultiPolygon stays a MultiPolygon. Other geometries are cloned.
// The input is never modified.
func Stitch(g orb.Geometry) orb.Geometry {
	switch g := g.(type) {
	case nil:
		return nil
	case orb.Polygon:
		if len(g) == 0 {
			return g.Clone()
		}
		mp := stitchPolygons(orb.MultiPolygon{g})
		if len(mp) == 1 {
			return mp[0]
		}
		return mp
	case orb.MultiPolygon:
		return stitchPolygons(g)
	case orb.Collection:
		c := make(orb.Collection, len(g))
		for i := range g {
			c[i] = Stitch(g[i])
		}
		return c
	}
	return orb.Clone(g)
}

func stitchPolygons(mp orb.MultiPolygon) orb.MultiPolygon {
	var (
		out       = make(orb.MultiPolygon, 0, len(mp))
		fragments []orb.LineString
		holes     []orb.Ring
	)

	for _, poly := range mp {
		if len(poly) == 0 {
			continue
		}
		frags := cutRing(poly[0])
		if frags == nil {
			out = append(out, poly.Clone())
			continue
		}
		fragments = append(fragments, frags...)
		for _, h := range poly[1:] {
			holes = append(holes, h.Clone())
		}
	}

	if len(fragments) == 0 {
		return out
	}

	rings := joinFragments(fragments)
	start := len(out)
	for _, r := range rings {
		out = append(out, orb.Polygon{r})
	}
	for _, h := range holes {
		owner := start
		for i, r := range rings {
			if len(h) > 0 && RingContains(r, h[0]) {
				owner = start + i
				break
			}
		}
		out[owner] = append(out[owner], h)
	}
	return out
}

// cutRing removes the antimeridian edges of a ring and returns the open
// fragments left between them. It returns nil when the ring has none.
func cutRing(r orb.Ring) []orb.LineString {
	pts := []orb.Point(r)
	if len(pts) > 1 && pts[0].Equal(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	n := len(pts)

	first := -1
	for i := 0; i < n; i++ {
		if isCut(pts[i], pts[(i+1)%n]) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil
	}

	var frags []orb.LineString
	start := (first + 1) % n
	frag := orb.LineString{pts[start]}
	for step := 0; step < n; step++ {
		e := (start + step) % n
		next := pts[(e+1)%n]
		if isCut(pts[e], next) {
			if len(frag) > 1 {
				frags = append(frags, frag)
			}
			frag = orb.LineString{next}
			continue
		}
		frag = append(frag, next)
	}
	return frags
}

func isCut(a, b orb.Point) bool {
	return OnAntimeridian(a) && OnAntimeridian(b)
}

// joinFragments chains fragments end to start by the latitude at which they
// meet the antimeridian. Unmatched chains are closed on themselves.
func joinFragments(frags []orb.LineString) []orb.Ring {
	used := make([]bool, len(frags))
	byStart := make(map[int64][]int, len(frags))
	for i, f := range frags {
		k := latKey(f[0])
		byStart[k] = append(byStart[k], i)
	}

	take := func(k int64) int {
		for _, i := range byStart[k] {
			if !used[i] {
				used[i] = true
				return i
			}
		}
		return -1
	}

	var rings []orb.Ring
	for i, f := range frags {
		if used[i] {
			continue
		}
		used[i] = true

		ring := append(orb.Ring(nil), f...)
		startKey := latKey(f[0])
		for {
			endKey := latKey(ring[len(ring)-1])
			if endKey == startKey {
				break
			}
			j := take(endKey)
			if j < 0 {
				break
			}
			ring = append(ring, frags[j][1:]...)
		}

		if !ring[0].Equal(ring[len(ring)-1]) {
			ring = append(ring, ring[0])
		}
		rings = append(rings, ring)
	}
	return rings
}

func latKey(p orb.Point) int64 {
	return int64(math.Round(p[1] / AntimeridianEpsilon))
}
