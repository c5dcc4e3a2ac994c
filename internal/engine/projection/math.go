package projection

import "math"

const (
	epsilon   = 1e-6
	halfPi    = math.Pi / 2
	quarterPi = math.Pi / 4
	tau       = 2 * math.Pi
	radians   = math.Pi / 180
	degrees   = 180 / math.Pi
)

var (
	sqrt2  = math.Sqrt2
	sqrt3  = math.Sqrt(3)
	sqrtPi = math.Sqrt(math.Pi)
)

func asin(x float64) float64 {
	switch {
	case x > 1:
		return halfPi
	case x < -1:
		return -halfPi
	}
	return math.Asin(x)
}

func acos(x float64) float64 {
	switch {
	case x > 1:
		return 0
	case x < -1:
		return math.Pi
	}
	return math.Acos(x)
}

// sinci is x / sin(x), 1 at zero.
func sinci(x float64) float64 {
	if x == 0 {
		return 1
	}
	return x / math.Sin(x)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
