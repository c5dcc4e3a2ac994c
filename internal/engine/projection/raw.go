package projection

import "math"

// Raw projects a point already rotated into the projection frame, in
// radians, to unscaled planar coordinates with y pointing north. ok is false
// for points the projection does not show.
type Raw func(lambda, phi float64) (x, y float64, ok bool)

func airyRaw(beta float64) Raw {
	tanBeta2 := math.Tan(beta / 2)
	b := 2 * math.Log(math.Cos(beta/2)) / (tanBeta2 * tanBeta2)

	return func(lambda, phi float64) (float64, float64, bool) {
		cosLambda, cosPhi, sinPhi := math.Cos(lambda), math.Cos(phi), math.Sin(phi)
		cosz := cosPhi * cosLambda
		if cosz <= -1+epsilon {
			return 0, 0, false
		}

		var a float64
		if 1-cosz != 0 {
			a = math.Log((1+cosz)/2) / (1 - cosz)
		} else {
			a = -0.5
		}
		k := -(a + b/(1+cosz))
		return k * cosPhi * math.Sin(lambda), k * sinPhi, true
	}
}

func aitoffRaw(lambda, phi float64) (float64, float64, bool) {
	cosPhi := math.Cos(phi)
	lambda /= 2
	s := sinci(acos(cosPhi * math.Cos(lambda)))
	return 2 * cosPhi * math.Sin(lambda) * s, math.Sin(phi) * s, true
}

// armadilloRaw also hides the far side of the shell behind the horizon
// returned by armadilloHorizon.
func armadilloRaw(phi0 float64) Raw {
	sinPhi0, cosPhi0 := math.Sin(phi0), math.Cos(phi0)
	k := (1 + sinPhi0 - cosPhi0) / 2
	horizon := armadilloHorizon(phi0)

	return func(lambda, phi float64) (float64, float64, bool) {
		if phi < horizon(lambda)-1e-3 {
			return 0, 0, false
		}
		cosPhi := math.Cos(phi)
		cosLambda := math.Cos(lambda / 2)
		x := (1 + cosPhi) * math.Sin(lambda/2)
		y := k + math.Sin(phi)*cosPhi0 - (1+cosPhi)*sinPhi0*cosLambda
		return x, y, true
	}
}

// armadilloHorizon is the lowest visible latitude for a longitude.
func armadilloHorizon(phi0 float64) func(lambda float64) float64 {
	tanPhi0 := math.Tan(math.Abs(phi0))
	s := 1.0
	if phi0 < 0 {
		s = -1
	}
	return func(lambda float64) float64 {
		return -s * math.Atan2(math.Cos(lambda/2), tanPhi0)
	}
}

func augustRaw(lambda, phi float64) (float64, float64, bool) {
	tanPhi := math.Tan(phi / 2)
	k := math.Sqrt(1 - tanPhi*tanPhi)
	lambda /= 2
	c := 1 + k*math.Cos(lambda)
	x := math.Sin(lambda) * k / c
	y := tanPhi / c
	x2, y2 := x*x, y*y
	return 4.0 / 3 * x * (3 + x2 - 3*y2), 4.0 / 3 * y * (3 + 3*x2 - y2), true
}

func bakerRaw(lambda, phi float64) (float64, float64, bool) {
	phi0 := math.Abs(phi)
	if phi0 < quarterPi {
		return lambda, math.Log(math.Tan(quarterPi + phi/2)), true
	}
	x := lambda * math.Cos(phi0) * (2*sqrt2 - 1/math.Sin(phi0))
	y := sign(phi) * (2*sqrt2*(phi0-quarterPi) - math.Log(math.Tan(phi0/2)))
	return x, y, true
}

func azimuthalEquidistantRaw(lambda, phi float64) (float64, float64, bool) {
	cosLambda, cosPhi := math.Cos(lambda), math.Cos(phi)
	c := acos(cosLambda * cosPhi)
	if math.Sin(c) == 0 && c != 0 {
		return 0, 0, false
	}
	k := sinci(c)
	return k * cosPhi * math.Sin(lambda), k * math.Sin(phi), true
}

func azimuthalEqualAreaRaw(lambda, phi float64) (float64, float64, bool) {
	cosLambda, cosPhi := math.Cos(lambda), math.Cos(phi)
	cc := cosLambda * cosPhi
	if cc <= -1 {
		return 0, 0, false
	}
	k := math.Sqrt(2 / (1 + cc))
	return k * cosPhi * math.Sin(lambda), k * math.Sin(phi), true
}

// berghausRaw folds the far hemisphere of an azimuthal equidistant map into
// star shaped lobes.
func berghausRaw(lobes int) Raw {
	k := tau / float64(lobes)

	return func(lambda, phi float64) (float64, float64, bool) {
		x, y, ok := azimuthalEquidistantRaw(lambda, phi)
		if !ok {
			return 0, 0, false
		}
		if math.Abs(lambda) > halfPi {
			theta := math.Atan2(y, x)
			r := math.Hypot(x, y)
			theta0 := k*math.Round((theta-halfPi)/k) + halfPi
			theta -= theta0
			alpha := math.Atan2(math.Sin(theta), 2-math.Cos(theta))
			theta = theta0 + asin(math.Pi/r*math.Sin(alpha)) - alpha
			x, y = r*math.Cos(theta), r*math.Sin(theta)
		}
		return x, y, true
	}
}

func hammerRaw(a, b float64) Raw {
	return func(lambda, phi float64) (float64, float64, bool) {
		x, y, ok := azimuthalEqualAreaRaw(lambda/b, phi)
		return x * a, y, ok
	}
}

func bertin1953Raw() Raw {
	hammer := hammerRaw(1.68, 2)
	const fu, k = 1.4, 12.0

	return func(lambda, phi float64) (float64, float64, bool) {
		if lambda+phi < -fu {
			u := (lambda - phi + 1.6) * (lambda + phi + fu) / 8
			lambda += u
			phi -= 0.8 * u * math.Sin(phi+math.Pi/2)
		}
		x, y, ok := hammer(lambda, phi)
		if !ok {
			return 0, 0, false
		}
		d := (1 - math.Cos(lambda*phi)) / k
		if y < 0 {
			x *= 1 + d
		}
		if y > 0 {
			y *= 1 + d/1.5*x*x
		}
		return x, y, true
	}
}

// mollweideBromleyTheta solves the auxiliary angle of the Mollweide family
// by Newton iteration.
func mollweideBromleyTheta(cp, phi float64) float64 {
	cpSinPhi := cp * math.Sin(phi)
	for i := 30; i > 0; i-- {
		delta := (phi + math.Sin(phi) - cpSinPhi) / (1 + math.Cos(phi))
		phi -= delta
		if math.Abs(delta) <= epsilon {
			break
		}
	}
	return phi / 2
}

func mollweideBromleyRaw(cx, cy, cp float64) Raw {
	return func(lambda, phi float64) (float64, float64, bool) {
		theta := mollweideBromleyTheta(cp, phi)
		return cx * lambda * math.Cos(theta), cy * math.Sin(theta), true
	}
}

func boggsRaw(lambda, phi float64) (float64, float64, bool) {
	const k, w = 2.00276, 1.11072
	theta := mollweideBromleyTheta(math.Pi, phi)
	return k * lambda / (1/math.Cos(phi) + w/math.Cos(theta)), (phi + sqrt2*math.Sin(theta)) / k, true
}

func bonneRaw(phi0 float64) Raw {
	cotPhi0 := 1 / math.Tan(phi0)

	return func(lambda, phi float64) (float64, float64, bool) {
		rho := cotPhi0 + phi0 - phi
		e := 0.0
		if rho != 0 {
			e = lambda * math.Cos(phi) / rho
		}
		return rho * math.Sin(e), cotPhi0 - rho*math.Cos(e), true
	}
}

func bottomleyRaw(sinPsi float64) Raw {
	return func(lambda, phi float64) (float64, float64, bool) {
		rho := halfPi - phi
		eta := 0.0
		if rho != 0 {
			eta = lambda * sinPsi * math.Sin(rho) / rho
		}
		return rho * math.Sin(eta) / sinPsi, halfPi - rho*math.Cos(eta), true
	}
}

func crasterRaw(lambda, phi float64) (float64, float64, bool) {
	return sqrt3 * lambda * (2*math.Cos(2*phi/3) - 1) / sqrtPi, sqrt3 * sqrtPi * math.Sin(phi/3), true
}

func cylindricalEqualAreaRaw(phi0 float64) Raw {
	cosPhi0 := math.Cos(phi0)
	return func(lambda, phi float64) (float64, float64, bool) {
		return lambda * cosPhi0, math.Sin(phi) / cosPhi0, true
	}
}

func eckert3Raw(lambda, phi float64) (float64, float64, bool) {
	k := math.Sqrt(math.Pi * (4 + math.Pi))
	r := 1 - 4*phi*phi/(math.Pi*math.Pi)
	if r < 0 {
		r = 0
	}
	return 2 / k * lambda * (1 + math.Sqrt(r)), 4 / k * phi, true
}

func eisenlohrRaw(lambda, phi float64) (float64, float64, bool) {
	k0 := 3 + 2*sqrt2
	lambda /= 2
	s0, c0 := math.Sin(lambda), math.Cos(lambda)
	k := math.Sqrt(math.Cos(phi))
	phi /= 2
	c1 := math.Cos(phi)
	t := math.Sin(phi) / (c1 + sqrt2*c0*k)
	c := math.Sqrt(2 / (1 + t*t))
	v := math.Sqrt((sqrt2*c1 + (c0+s0)*k) / (sqrt2*c1 + (c0-s0)*k))
	return k0 * (c*(v-1/v) - 2*math.Log(v)), k0 * (c*t*(v+1/v) - 2*math.Atan(t)), true
}

func laskowskiRaw(lambda, phi float64) (float64, float64, bool) {
	l2, p2 := lambda*lambda, phi*phi
	x := lambda * (0.975534 + p2*(-0.119161+l2*-0.0143059+p2*-0.0547009))
	y := phi * (1.00384 + l2*(0.0802894+p2*-0.02855+l2*0.000199025) + p2*(0.0998909+p2*-0.0491032))
	return x, y, true
}

func nicolosiRaw(lambda, phi float64) (float64, float64, bool) {
	sinPhi, q, s := math.Sin(phi), math.Cos(phi), sign(lambda)

	switch {
	case math.Abs(lambda) < epsilon || math.Abs(phi) > halfPi-epsilon:
		return 0, phi, true
	case math.Abs(phi) < epsilon:
		return lambda, 0, true
	case math.Abs(math.Abs(lambda)-halfPi) < epsilon:
		return lambda * q, halfPi * sinPhi, true
	}

	b := math.Pi/(2*lambda) - 2*lambda/math.Pi
	c := 2 * phi / math.Pi
	d := (1 - c*c) / (sinPhi - c)

	b2, d2 := b*b, d*d
	b2d2 := 1 + b2/d2
	d2b2 := 1 + d2/b2

	M := (b*sinPhi/d - b/2) / b2d2
	N := (d2*sinPhi/b2 + d/2) / d2b2
	m := M*M + q*q/b2d2
	n := N*N - (d2*sinPhi*sinPhi/b2+d*sinPhi-1)/d2b2
	if n < 0 {
		n = 0
	}
	return halfPi * (M + math.Sqrt(m)*s), halfPi * (N + math.Sqrt(n)*sign(-phi*b)*s), true
}
