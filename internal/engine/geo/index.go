package geo

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Index looks features up by the lowercased value of some properties and
// by location.
type Index struct {
	features map[string]*geojson.Feature
	all      []*geojson.Feature
}

// NewIndex indexes every feature of fc under the given property keys.
// Earlier features win on duplicate values.
func NewIndex(fc *geojson.FeatureCollection, keys ...string) *Index {
	ix := &Index{features: make(map[string]*geojson.Feature)}
	if fc == nil {
		return ix
	}
	for _, f := range fc.Features {
		ix.all = append(ix.all, f)
		for _, k := range keys {
			v, ok := f.Properties[k].(string)
			if !ok || v == "" {
				continue
			}
			key := strings.ToLower(v)
			if _, dup := ix.features[key]; !dup {
				ix.features[key] = f
			}
		}
	}
	return ix
}

// Lookup returns the feature indexed under key, ignoring case.
func (ix *Index) Lookup(key string) (*geojson.Feature, bool) {
	f, ok := ix.features[strings.ToLower(strings.TrimSpace(key))]
	return f, ok
}

// Bounds returns the bounding box of the feature indexed under key. See
// Bound for longitudes past the antimeridian.
func (ix *Index) Bounds(key string) (orb.Bound, error) {
	f, ok := ix.Lookup(key)
	if !ok || f.Geometry == nil {
		return orb.Bound{}, fmt.Errorf("%q not found", key)
	}
	return Bound(f.Geometry), nil
}

// Keys returns the indexed values, sorted.
func (ix *Index) Keys() []string {
	keys := make([]string, 0, len(ix.features))
	for k := range ix.features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Containing returns the features whose area holds pt, in index order.
func (ix *Index) Containing(pt orb.Point) []*geojson.Feature {
	var out []*geojson.Feature
	for _, f := range ix.all {
		if f.Geometry != nil && Contains(f.Geometry, pt) {
			out = append(out, f)
		}
	}
	return out
}

// Contains reports whether g covers pt. Polygon rings use the even-odd
// rule, so a polygon built from several outer rings works too. Rings may
// cross the antimeridian.
func Contains(g orb.Geometry, pt orb.Point) bool {
	switch g := g.(type) {
	case orb.Polygon:
		inside := false
		for _, r := range g {
			if RingContains(r, pt) {
				inside = !inside
			}
		}
		return inside
	case orb.MultiPolygon:
		for _, p := range g {
			if Contains(p, pt) {
				return true
			}
		}
	case orb.Collection:
		for _, c := range g {
			if Contains(c, pt) {
				return true
			}
		}
	}
	return false
}

// RingContains reports whether the ring r encloses pt, in any of the
// longitudes equivalent to pt's.
func RingContains(r orb.Ring, pt orb.Point) bool {
	u := Unwrap(r)
	for _, shift := range []float64{0, 360, -360} {
		if planar.RingContains(u, orb.Point{pt[0] + shift, pt[1]}) {
			return true
		}
	}
	return false
}

// Unwrap returns a copy of r whose consecutive longitudes differ by at most
// 180 degrees. The first point keeps its longitude. A ring winding around a
// pole is closed along that pole.
func Unwrap(r orb.Ring) orb.Ring {
	if len(r) == 0 {
		return nil
	}
	out := make(orb.Ring, 0, len(r)+3)
	out = append(out, r[0])
	prev, latSum := r[0][0], r[0][1]
	for _, p := range r[1:] {
		lon := p[0]
		for lon-prev > 180 {
			lon -= 360
		}
		for lon-prev < -180 {
			lon += 360
		}
		out = append(out, orb.Point{lon, p[1]})
		prev = lon
		latSum += p[1]
	}

	first, last := out[0], out[len(out)-1]
	if math.Abs(last[0]-first[0]) > 180 {
		pole := 90.0
		if latSum < 0 {
			pole = -90
		}
		out = append(out, orb.Point{last[0], pole}, orb.Point{first[0], pole}, first)
	}
	return out
}

// Bound is the bounding box of g with rings unwrapped, so a region crossing
// the antimeridian gets a narrow box whose longitudes may pass 180. Rings
// and polygons are shifted by whole turns toward the first one.
func Bound(g orb.Geometry) orb.Bound {
	var (
		b      orb.Bound
		seen   bool
		center float64
	)
	add := func(rb orb.Bound) {
		if !seen {
			b, seen, center = rb, true, rb.Center()[0]
			return
		}
		c := rb.Center()[0]
		for c-center > 180 {
			rb, c = shiftBound(rb, -360), c-360
		}
		for c-center < -180 {
			rb, c = shiftBound(rb, 360), c+360
		}
		b = b.Union(rb)
	}

	var walk func(orb.Geometry)
	walk = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Polygon:
			for _, r := range g {
				if len(r) > 0 {
					add(Unwrap(r).Bound())
				}
			}
		case orb.MultiPolygon:
			for _, p := range g {
				walk(p)
			}
		case orb.Collection:
			for _, c := range g {
				walk(c)
			}
		case nil:
		default:
			add(g.Bound())
		}
	}
	walk(g)
	return b
}

func shiftBound(b orb.Bound, dx float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0] + dx, b.Min[1]},
		Max: orb.Point{b.Max[0] + dx, b.Max[1]},
	}
}
