package render

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Kind tells Build where a layer's geometry comes from.
type Kind int

const (
	// KindFeatures draws the layer's feature collection.
	KindFeatures Kind = iota
	// KindOutline draws the edge of the projected sphere.
	KindOutline
	// KindGraticule draws meridians and parallels.
	KindGraticule
)

func (k Kind) String() string {
	switch k {
	case KindFeatures:
		return "features"
	case KindOutline:
		return "outline"
	case KindGraticule:
		return "graticule"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Style describes how a layer is painted. Colors are CSS hex strings; an
// empty color means the part is not painted.
type Style struct {
	Fill          string
	FillBy        string // property used for categorical fills, overrides Fill
	FillOpacity   float64
	Stroke        string
	StrokeWidth   float64
	StrokeOpacity float64
	Opacity       float64
	DX, DY        float64
	Blur          float64
}

// Layer is one entry of the layer stack. The first layer of a stack is
// drawn on top.
type Layer struct {
	Name     string
	Kind     Kind
	Features *geojson.FeatureCollection
	Style    Style
	// Tooltip is either a literal or "$prop" to show a feature property.
	Tooltip string
	// Step is the graticule spacing in degrees.
	Step float64
}

// TooltipFor resolves the layer tooltip for f.
func (l Layer) TooltipFor(f *geojson.Feature) string {
	if !strings.HasPrefix(l.Tooltip, "$") {
		return l.Tooltip
	}
	if f == nil {
		return ""
	}
	switch v := f.Properties[l.Tooltip[1:]].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
