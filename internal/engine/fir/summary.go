package fir

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// Summary is the tabular view of a FIR feature.
type Summary struct {
	Designator string
	Name       string
	Type       string
	Lower      float64
	Upper      float64
	NoFIR      bool
}

// Summarize extracts the displayed attributes of f.
func Summarize(f *geojson.Feature) Summary {
	lower, _ := Number(f.Properties, "lower")
	return Summary{
		Designator: Designator(f.Properties),
		Name:       String(f.Properties, "name"),
		Type:       String(f.Properties, "type"),
		Lower:      lower,
		Upper:      EffectiveUpper(f.Properties),
		NoFIR:      IsNoFIR(f),
	}
}

// Summaries summarizes every feature of fc in order.
func Summaries(fc *geojson.FeatureCollection) []Summary {
	if fc == nil {
		return nil
	}
	out := make([]Summary, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, Summarize(f))
	}
	return out
}

// String reads a property as text, "" when absent.
func String(props geojson.Properties, key string) string {
	switch v := props[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
