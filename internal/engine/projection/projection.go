package projection

import (
	"math"

	"github.com/paulmach/orb"
)

// Projection is a raw formula together with the rotation and clipping that
// make up a named world projection.
type Projection struct {
	name      Name
	raw       Raw
	rotate    [3]float64
	rot       *rotation
	clipAngle float64
	horizon   func(lambda float64) float64
}

func newProjection(name Name, raw Raw) *Projection {
	return &Projection{name: name, raw: raw}
}

func (p *Projection) withRotation(yaw, pitch, roll float64) *Projection {
	p.rotate = [3]float64{yaw, pitch, roll}
	p.rot = newRotation(p.rotate)
	return p
}

func (p *Projection) withClipAngle(deg float64) *Projection {
	p.clipAngle = deg
	return p
}

func (p *Projection) withHorizon(h func(lambda float64) float64) *Projection {
	p.horizon = h
	return p
}

// Name returns the projection identifier.
func (p *Projection) Name() Name { return p.name }

// Rotation returns yaw, pitch and roll in degrees.
func (p *Projection) Rotation() [3]float64 { return p.rotate }

// ClipAngle is the radius in degrees of the visible small circle around the
// projection center, 0 when the whole sphere is shown.
func (p *Projection) ClipAngle() float64 { return p.clipAngle }

// Rotate converts lon/lat degrees into the rotated projection frame, in radians.
func (p *Projection) Rotate(lon, lat float64) (lambda, phi float64) {
	lambda, phi = lon*radians, lat*radians
	if p.rot != nil {
		lambda, phi = p.rot.forward(lambda, phi)
	}
	return lambda, phi
}

// Visible reports whether a frame point is shown.
func (p *Projection) Visible(lambda, phi float64) bool {
	if p.clipAngle > 0 && acos(math.Cos(phi)*math.Cos(lambda)) > p.clipAngle*radians {
		return false
	}
	if p.horizon != nil && phi < p.horizon(lambda) {
		return false
	}
	return true
}

// Clamp moves a hidden frame point onto the edge of the visible region along
// the great circle through the frame origin.
func (p *Projection) Clamp(lambda, phi float64) (float64, float64) {
	if p.clipAngle > 0 {
		c := p.clipAngle * radians
		cosPhi := math.Cos(phi)
		x, y, z := cosPhi*math.Cos(lambda), cosPhi*math.Sin(lambda), math.Sin(phi)
		if acos(x) > c {
			n := math.Hypot(y, z)
			if n == 0 {
				y, n = 1, 1
			}
			s := math.Sin(c) / n
			x, y, z = math.Cos(c), y*s, z*s
			lambda, phi = math.Atan2(y, x), asin(z)
		}
	}
	if p.horizon != nil {
		if h := p.horizon(lambda); phi < h {
			phi = h
		}
	}
	return lambda, phi
}

// Project applies the raw formula to a frame point.
func (p *Projection) Project(lambda, phi float64) (x, y float64, ok bool) {
	x, y, ok = p.raw(lambda, phi)
	if !ok || !finite(x, y) {
		return 0, 0, false
	}
	return x, y, true
}

// Forward projects lon/lat degrees to unscaled planar coordinates.
func (p *Projection) Forward(lon, lat float64) (x, y float64, ok bool) {
	lambda, phi := p.Rotate(lon, lat)
	if !p.Visible(lambda, phi) {
		return 0, 0, false
	}
	return p.Project(lambda, phi)
}

const outlineSteps = 360

// Outline traces the edge of the projected sphere in unscaled coordinates.
func (p *Projection) Outline() orb.Ring {
	var ring orb.Ring
	add := func(lambda, phi float64) {
		if x, y, ok := p.Project(lambda, phi); ok {
			ring = append(ring, orb.Point{x, y})
		}
	}

	if p.clipAngle > 0 {
		c := p.clipAngle * radians
		for i := 0; i <= outlineSteps; i++ {
			theta := tau * float64(i) / outlineSteps
			x := math.Cos(c)
			y := math.Sin(c) * math.Cos(theta)
			z := math.Sin(c) * math.Sin(theta)
			add(math.Atan2(y, x), asin(z))
		}
		return closeRing(ring)
	}

	edge := math.Pi - epsilon
	top := halfPi - epsilon
	bottom := func(lambda float64) float64 {
		if p.horizon != nil {
			return p.horizon(lambda)
		}
		return -top
	}
	half := outlineSteps / 2

	for i := 0; i <= half; i++ {
		b := bottom(edge)
		add(edge, b+(top-b)*float64(i)/float64(half))
	}
	for i := 0; i <= outlineSteps; i++ {
		add(edge-2*edge*float64(i)/outlineSteps, top)
	}
	for i := 0; i <= half; i++ {
		b := bottom(-edge)
		add(-edge, top-(top-b)*float64(i)/float64(half))
	}
	for i := 0; i <= outlineSteps; i++ {
		lambda := -edge + 2*edge*float64(i)/outlineSteps
		add(lambda, bottom(lambda))
	}
	return closeRing(ring)
}

func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && !r[0].Equal(r[len(r)-1]) {
		r = append(r, r[0])
	}
	return r
}

// Transform scales and translates unscaled coordinates into pixels with y
// pointing down.
type Transform struct {
	K  float64
	TX float64
	TY float64
}

// Apply maps an unscaled point to pixels.
func (t Transform) Apply(x, y float64) orb.Point {
	return orb.Point{t.TX + t.K*x, t.TY - t.K*y}
}

// Fit returns the transform that centers the projected sphere in a
// width x height viewport, leaving margin on every side.
func (p *Projection) Fit(width, height, margin float64) Transform {
	b := p.Outline().Bound()
	w, h := width-2*margin, height-2*margin
	dx, dy := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	if dx <= 0 || dy <= 0 || w <= 0 || h <= 0 {
		return Transform{K: 1, TX: width / 2, TY: height / 2}
	}

	k := math.Min(w/dx, h/dy)
	cx, cy := (b.Min[0]+b.Max[0])/2, (b.Min[1]+b.Max[1])/2
	return Transform{K: k, TX: width/2 - k*cx, TY: height/2 + k*cy}
}
