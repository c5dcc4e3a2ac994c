package render

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// Tableau10 is the categorical palette used for FillBy layers.
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Categories assigns palette colors to the distinct values of prop, in
// order of first appearance. Colors repeat once the palette runs out.
func Categories(fc *geojson.FeatureCollection, prop string) map[string]string {
	colors := make(map[string]string)
	if fc == nil {
		return colors
	}
	for _, f := range fc.Features {
		key := category(f, prop)
		if _, ok := colors[key]; ok {
			continue
		}
		colors[key] = Tableau10[len(colors)%len(Tableau10)]
	}
	return colors
}

func category(f *geojson.Feature, prop string) string {
	v, ok := f.Properties[prop]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
