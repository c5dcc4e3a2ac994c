package fir

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/brunoga/deep"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/rendis/firmap/internal/engine/topology"
)

const (
	// DataObject is the topology object holding FIR features.
	DataObject = "data"
	// NoFIRType marks uncontrolled airspace.
	NoFIRType = "NO_FIR"
	// UnboundedUpper is the upper flight level assumed when none is given.
	UnboundedUpper = 999
)

var log = logrus.WithField("module", "fir")

// SelectApplicable returns new features for every FIR of the topology that
// applies at flight level fl, with normalized designators and stitched
// geometries. The topology is not modified.
func SelectApplicable(topo *topology.Topology, fl int) (*geojson.FeatureCollection, error) {
	src, err := topo.FeatureCollection(DataObject)
	if err != nil {
		return nil, fmt.Errorf("converting FIR topology: %w", err)
	}

	out := geojson.NewFeatureCollection()
	for _, f := range src.Features {
		if !Applicable(f.Properties, fl) {
			continue
		}

		props, err := deep.Copy(f.Properties)
		if err != nil {
			return nil, fmt.Errorf("copying properties of %v: %w", f.ID, err)
		}
		if props == nil {
			props = geojson.Properties{}
		}
		designator := Designator(f.Properties)
		props["designator"] = designator

		nf := geojson.NewFeature(FixupFor(designator)(f.Geometry))
		nf.ID = f.ID
		nf.Properties = props
		out.Append(nf)
	}

	log.Debugf("FL%03d: %d of %d features applicable", fl, len(out.Features), len(src.Features))
	return out, nil
}

// Applicable reports whether lower <= fl < effective upper. A null lower
// bound counts as 0; a feature without a lower bound, or with a non-numeric
// one, never applies.
func Applicable(props geojson.Properties, fl int) bool {
	lower, ok := Number(props, "lower")
	if !ok {
		if v, present := props["lower"]; !present || v != nil {
			return false
		}
	}
	return lower <= float64(fl) && float64(fl) < EffectiveUpper(props)
}

// EffectiveUpper is the upper bound of a feature, UnboundedUpper when it is
// absent or zero.
func EffectiveUpper(props geojson.Properties) float64 {
	if upper, ok := Number(props, "upper"); ok && upper != 0 {
		return upper
	}
	return UnboundedUpper
}

// Designator returns the region code of a feature, "" when absent.
func Designator(props geojson.Properties) string {
	return String(props, "designator")
}

// IsNoFIR reports whether a feature is uncontrolled airspace.
func IsNoFIR(f *geojson.Feature) bool {
	t, _ := f.Properties["type"].(string)
	return t == NoFIRType
}

// Partition splits features into controlled FIRs and NO_FIR areas. Every
// feature lands in exactly one of the two, in source order.
func Partition(fc *geojson.FeatureCollection) (firs, noFirs *geojson.FeatureCollection) {
	firs = geojson.NewFeatureCollection()
	noFirs = geojson.NewFeatureCollection()
	if fc == nil {
		return firs, noFirs
	}
	for _, f := range fc.Features {
		if IsNoFIR(f) {
			noFirs.Append(f)
		} else {
			firs.Append(f)
		}
	}
	return firs, noFirs
}

// Number reads a numeric property. JSON numbers, json.Number and numeric
// strings are accepted.
func Number(props geojson.Properties, key string) (float64, bool) {
	switch v := props[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}
