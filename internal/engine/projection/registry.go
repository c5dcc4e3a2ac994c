package projection

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownProjection is returned for names outside the supported set.
var ErrUnknownProjection = errors.New("unknown projection")

// Name identifies a supported projection.
type Name string

const (
	Airy                 Name = "Airy"
	Aitoff               Name = "Aitoff"
	Armadillo            Name = "Armadillo"
	August               Name = "August"
	Baker                Name = "Baker"
	Berghaus             Name = "Berghaus"
	Bertin1953           Name = "Bertin1953"
	Boggs                Name = "Boggs"
	Bonne                Name = "Bonne"
	Bottomley            Name = "Bottomley"
	Bromley              Name = "Bromley"
	Craster              Name = "Craster"
	CylindricalEqualArea Name = "CylindricalEqualArea"
	Eckert3              Name = "Eckert3"
	Eisenlohr            Name = "Eisenlohr"
	Laskowski            Name = "Laskowski"
	Nicolosi             Name = "Nicolosi"
)

// names keeps the dropdown order.
var names = []Name{
	Airy, Aitoff, Armadillo, August, Baker, Berghaus, Bertin1953, Boggs, Bonne,
	Bottomley, Bromley, Craster, CylindricalEqualArea, Eckert3, Eisenlohr,
	Laskowski, Nicolosi,
}

var registry = map[Name]func() *Projection{
	Airy: func() *Projection {
		return newProjection(Airy, airyRaw(halfPi)).withClipAngle(147)
	},
	Aitoff: func() *Projection {
		return newProjection(Aitoff, aitoffRaw)
	},
	Armadillo: func() *Projection {
		phi0 := 20 * radians
		return newProjection(Armadillo, armadilloRaw(phi0)).withHorizon(armadilloHorizon(phi0))
	},
	August: func() *Projection {
		return newProjection(August, augustRaw)
	},
	Baker: func() *Projection {
		return newProjection(Baker, bakerRaw)
	},
	Berghaus: func() *Projection {
		return newProjection(Berghaus, berghausRaw(5)).withRotation(0, -90, 0).withClipAngle(180 - 1e-3)
	},
	Bertin1953: func() *Projection {
		return newProjection(Bertin1953, bertin1953Raw()).withRotation(-16.5, -42, 0)
	},
	Boggs: func() *Projection {
		return newProjection(Boggs, boggsRaw)
	},
	Bonne: func() *Projection {
		return newProjection(Bonne, bonneRaw(45*radians))
	},
	Bottomley: func() *Projection {
		return newProjection(Bottomley, bottomleyRaw(0.5))
	},
	Bromley: func() *Projection {
		return newProjection(Bromley, mollweideBromleyRaw(1, 4/math.Pi, math.Pi))
	},
	Craster: func() *Projection {
		return newProjection(Craster, crasterRaw)
	},
	CylindricalEqualArea: func() *Projection {
		return newProjection(CylindricalEqualArea, cylindricalEqualAreaRaw(38.58*radians))
	},
	Eckert3: func() *Projection {
		return newProjection(Eckert3, eckert3Raw)
	},
	Eisenlohr: func() *Projection {
		return newProjection(Eisenlohr, eisenlohrRaw)
	},
	Laskowski: func() *Projection {
		return newProjection(Laskowski, laskowskiRaw)
	},
	Nicolosi: func() *Projection {
		return newProjection(Nicolosi, nicolosiRaw).withClipAngle(90)
	},
}

// Names lists the supported projections in display order.
func Names() []Name {
	out := make([]Name, len(names))
	copy(out, names)
	return out
}

// Valid reports whether name is a supported projection.
func Valid(name string) bool {
	_, ok := registry[Name(name)]
	return ok
}

// Lookup builds the projection registered under name.
func Lookup(name string) (*Projection, error) {
	build, ok := registry[Name(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProjection, name)
	}
	return build(), nil
}
