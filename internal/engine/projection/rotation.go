package projection

import "math"

// rotation turns the globe so that the projection frame origin lands on the
// chosen point. Angles are yaw, pitch and roll in degrees.
type rotation struct {
	deltaLambda  float64
	phiGamma     bool
	cosDeltaPhi  float64
	sinDeltaPhi  float64
	cosDeltaGamma float64
	sinDeltaGamma float64
}

func newRotation(angles [3]float64) *rotation {
	if angles == [3]float64{} {
		return nil
	}
	dl, dp, dg := angles[0]*radians, angles[1]*radians, angles[2]*radians
	return &rotation{
		deltaLambda:  math.Remainder(dl, tau),
		phiGamma:     dp != 0 || dg != 0,
		cosDeltaPhi:  math.Cos(dp),
		sinDeltaPhi:  math.Sin(dp),
		cosDeltaGamma: math.Cos(dg),
		sinDeltaGamma: math.Sin(dg),
	}
}

func (r *rotation) forward(lambda, phi float64) (float64, float64) {
	if r.deltaLambda != 0 {
		lambda += r.deltaLambda
		if lambda > math.Pi {
			lambda -= tau
		} else if lambda < -math.Pi {
			lambda += tau
		}
	}
	if !r.phiGamma {
		return lambda, phi
	}

	cosPhi := math.Cos(phi)
	x := math.Cos(lambda) * cosPhi
	y := math.Sin(lambda) * cosPhi
	z := math.Sin(phi)
	k := z*r.cosDeltaPhi + x*r.sinDeltaPhi
	return math.Atan2(y*r.cosDeltaGamma-k*r.sinDeltaGamma, x*r.cosDeltaPhi-z*r.sinDeltaPhi),
		asin(k*r.cosDeltaGamma + y*r.sinDeltaGamma)
}
