package topology

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection converts the named object into features. A
// GeometryCollection yields one feature per member, any other object a
// single feature. The topology is left untouched.
func (t *Topology) FeatureCollection(name string) (*geojson.FeatureCollection, error) {
	obj, ok := t.Object(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}

	fc := geojson.NewFeatureCollection()
	if obj.Type != "GeometryCollection" {
		f, err := t.feature(obj)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", name, err)
		}
		return fc.Append(f), nil
	}

	for i, member := range obj.Geometries {
		if member == nil {
			continue
		}
		f, err := t.feature(member)
		if err != nil {
			return nil, fmt.Errorf("object %q geometry %d: %w", name, i, err)
		}
		fc.Append(f)
	}
	return fc, nil
}

func (t *Topology) feature(g *Geometry) (*geojson.Feature, error) {
	geom, err := t.geometry(g)
	if err != nil {
		return nil, err
	}

	f := geojson.NewFeature(geom)
	f.ID = g.ID
	for k, v := range g.Properties {
		f.Properties[k] = v
	}
	return f, nil
}

func (t *Topology) geometry(g *Geometry) (orb.Geometry, error) {
	switch g.Type {
	case "":
		return nil, nil

	case "Point":
		var c []float64
		if err := json.Unmarshal(g.Coordinates, &c); err != nil {
			return nil, fmt.Errorf("point coordinates: %w", err)
		}
		if len(c) < 2 {
			return nil, fmt.Errorf("point has %d coordinates", len(c))
		}
		return t.transformPoint(c[0], c[1]), nil

	case "MultiPoint":
		var cs [][]float64
		if err := json.Unmarshal(g.Coordinates, &cs); err != nil {
			return nil, fmt.Errorf("multipoint coordinates: %w", err)
		}
		mp := make(orb.MultiPoint, 0, len(cs))
		for _, c := range cs {
			if len(c) < 2 {
				continue
			}
			mp = append(mp, t.transformPoint(c[0], c[1]))
		}
		return mp, nil

	case "LineString":
		var arcs []int
		if err := json.Unmarshal(g.Arcs, &arcs); err != nil {
			return nil, fmt.Errorf("linestring arcs: %w", err)
		}
		return t.line(arcs)

	case "MultiLineString":
		var arcs [][]int
		if err := json.Unmarshal(g.Arcs, &arcs); err != nil {
			return nil, fmt.Errorf("multilinestring arcs: %w", err)
		}
		mls := make(orb.MultiLineString, 0, len(arcs))
		for _, a := range arcs {
			ls, err := t.line(a)
			if err != nil {
				return nil, err
			}
			mls = append(mls, ls)
		}
		return mls, nil

	case "Polygon":
		var arcs [][]int
		if err := json.Unmarshal(g.Arcs, &arcs); err != nil {
			return nil, fmt.Errorf("polygon arcs: %w", err)
		}
		return t.polygon(arcs)

	case "MultiPolygon":
		var arcs [][][]int
		if err := json.Unmarshal(g.Arcs, &arcs); err != nil {
			return nil, fmt.Errorf("multipolygon arcs: %w", err)
		}
		mp := make(orb.MultiPolygon, 0, len(arcs))
		for _, a := range arcs {
			p, err := t.polygon(a)
			if err != nil {
				return nil, err
			}
			mp = append(mp, p)
		}
		return mp, nil

	case "GeometryCollection":
		c := make(orb.Collection, 0, len(g.Geometries))
		for _, member := range g.Geometries {
			if member == nil {
				continue
			}
			geom, err := t.geometry(member)
			if err != nil {
				return nil, err
			}
			if geom != nil {
				c = append(c, geom)
			}
		}
		return c, nil
	}

	return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
}

func (t *Topology) polygon(rings [][]int) (orb.Polygon, error) {
	p := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		ls, err := t.line(r)
		if err != nil {
			return nil, err
		}
		ring := orb.Ring(ls)
		for len(ring) > 0 && len(ring) < 4 {
			ring = append(ring, ring[0])
		}
		p = append(p, ring)
	}
	return p, nil
}

// line concatenates arcs, dropping the junction point each arc shares with
// the previous one. Negative indexes address the bitwise complement, reversed.
func (t *Topology) line(indexes []int) (orb.LineString, error) {
	var ls orb.LineString
	for _, i := range indexes {
		j := i
		if i < 0 {
			j = ^i
		}
		if j >= len(t.arcs) {
			return nil, fmt.Errorf("arc index %d out of range (%d arcs)", i, len(t.arcs))
		}

		arc := t.arcs[j]
		start := len(ls)
		if start > 0 {
			ls = ls[:start-1]
			start--
		}
		ls = append(ls, arc...)
		if i < 0 {
			reverse(ls[start:])
		}
	}

	if len(ls) == 1 {
		ls = append(ls, ls[0])
	}
	return ls, nil
}

func reverse(ps []orb.Point) {
	for i, j := 0, len(ps)-1; i < j; i, j = i+1, j-1 {
		ps[i], ps[j] = ps[j], ps[i]
	}
}
