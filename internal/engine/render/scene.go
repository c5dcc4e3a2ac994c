package render

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/sirupsen/logrus"

	"github.com/rendis/firmap/internal/engine/geo"
	"github.com/rendis/firmap/internal/engine/projection"
)

var log = logrus.WithField("module", "render")

// Margin is the space in pixels kept free around the projected sphere.
const Margin = 4

// Shape is one feature in pixel space.
type Shape struct {
	Polygons orb.MultiPolygon
	Lines    orb.MultiLineString
	Fill     string
	Tooltip  string
}

// SceneLayer is a layer in pixel space.
type SceneLayer struct {
	Name    string
	Kind    Kind
	Style   Style
	Tooltip bool
	Shapes  []Shape
}

// Scene is a layer stack projected into a width x height viewport. Layers
// keep the stack order, topmost first.
type Scene struct {
	Width      float64
	Height     float64
	Projection projection.Name
	Layers     []SceneLayer
}

// Build projects a layer stack with p into a viewport.
func Build(layers []Layer, p *projection.Projection, width, height float64) (*Scene, error) {
	if p == nil {
		return nil, errors.New("no projection")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid viewport %gx%g", width, height)
	}

	margin := float64(Margin)
	if width <= 4*margin || height <= 4*margin {
		margin = 0
	}
	pp := pather{proj: p, tr: p.Fit(width, height, margin)}

	scene := &Scene{Width: width, Height: height, Projection: p.Name()}
	for _, l := range layers {
		sl := SceneLayer{Name: l.Name, Kind: l.Kind, Style: l.Style, Tooltip: l.Tooltip != ""}

		switch l.Kind {
		case KindOutline:
			var ring orb.Ring
			for _, pt := range p.Outline() {
				ring = append(ring, pp.tr.Apply(pt[0], pt[1]))
			}
			sl.Shapes = []Shape{{Polygons: orb.MultiPolygon{{ring}}, Fill: l.Style.Fill, Tooltip: l.TooltipFor(nil)}}

		case KindGraticule:
			_, lines := pp.geometry(geo.Graticule(l.Step))
			sl.Shapes = []Shape{{Lines: lines}}

		default:
			if l.Features == nil {
				break
			}
			var colors map[string]string
			if l.Style.FillBy != "" {
				colors = Categories(l.Features, l.Style.FillBy)
			}
			for _, f := range l.Features.Features {
				polys, lines := pp.geometry(f.Geometry)
				if len(polys) == 0 && len(lines) == 0 {
					continue
				}
				fill := l.Style.Fill
				if colors != nil {
					fill = colors[category(f, l.Style.FillBy)]
				}
				sl.Shapes = append(sl.Shapes, Shape{
					Polygons: polys,
					Lines:    lines,
					Fill:     fill,
					Tooltip:  l.TooltipFor(f),
				})
			}
		}

		scene.Layers = append(scene.Layers, sl)
	}

	log.Debugf("built %s scene %gx%g with %d layers", p.Name(), width, height, len(scene.Layers))
	return scene, nil
}

// HitTest returns the tooltip of the topmost shape under (x, y).
func (s *Scene) HitTest(x, y float64) (string, bool) {
	pt := orb.Point{x, y}
	for _, l := range s.Layers {
		if !l.Tooltip {
			continue
		}
		for _, sh := range l.Shapes {
			if covers(sh.Polygons, pt) {
				return sh.Tooltip, true
			}
		}
	}
	return "", false
}

// covers applies the even-odd rule to the rings of each polygon, the fill
// rule both drawers use.
func covers(mp orb.MultiPolygon, pt orb.Point) bool {
	for _, p := range mp {
		inside := false
		for _, r := range p {
			if planar.RingContains(r, pt) {
				inside = !inside
			}
		}
		if inside {
			return true
		}
	}
	return false
}

// Layer returns the scene layer called name.
func (s *Scene) Layer(name string) (SceneLayer, bool) {
	for _, l := range s.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return SceneLayer{}, false
}
