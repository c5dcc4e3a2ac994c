package projection

import (
	"errors"
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNamesOrder(t *testing.T) {
	got := Names()
	if len(got) != 17 {
		t.Fatalf("expected 17 projections, got %d", len(got))
	}
	if got[0] != Airy || got[16] != Nicolosi {
		t.Errorf("unexpected order: %v", got)
	}
	for _, n := range got {
		if !Valid(string(n)) {
			t.Errorf("%s listed but not registered", n)
		}
	}
	if len(registry) != len(got) {
		t.Errorf("registry has %d entries, names %d", len(registry), len(got))
	}
}

func TestEveryProjectionProjectsAndFits(t *testing.T) {
	const width, height, margin = 960, 500, 10

	for _, name := range Names() {
		t.Run(string(name), func(t *testing.T) {
			p, err := Lookup(string(name))
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if p.Name() != name {
				t.Errorf("Name() = %s", p.Name())
			}

			outline := p.Outline()
			if len(outline) < 10 {
				t.Fatalf("outline has only %d points", len(outline))
			}

			tr := p.Fit(width, height, margin)
			if tr.K <= 0 || !finite(tr.K, tr.TX, tr.TY) {
				t.Fatalf("bad transform %+v", tr)
			}
			for _, pt := range outline {
				px := tr.Apply(pt[0], pt[1])
				if px[0] < margin-1e-6 || px[0] > width-margin+1e-6 || px[1] < margin-1e-6 || px[1] > height-margin+1e-6 {
					t.Fatalf("outline point %v falls outside the viewport", px)
				}
			}

			// a visible point somewhere in the middle of the map
			for _, ll := range [][2]float64{{2, 48}, {0, 0}, {-70, -30}} {
				lambda, phi := p.Rotate(ll[0], ll[1])
				if !p.Visible(lambda, phi) {
					continue
				}
				x, y, ok := p.Forward(ll[0], ll[1])
				if !ok || !finite(x, y) {
					t.Errorf("Forward(%v) = %v, %v, %v", ll, x, y, ok)
				}
			}
		})
	}
}

func TestKnownValues(t *testing.T) {
	tests := []struct {
		name     Name
		lon, lat float64
		x, y     float64
	}{
		{Aitoff, 0, 0, 0, 0},
		{Baker, 90, 0, math.Pi / 2, 0},
		{Bonne, 0, 45, 0, 0},
		{CylindricalEqualArea, 90, 0, math.Pi / 2 * math.Cos(38.58*radians), 0},
		{Eckert3, 0, 0, 0, 0},
		{Laskowski, 0, 0, 0, 0},
		{Nicolosi, 0, 90, 0, math.Pi / 2},
		{Nicolosi, 90, 0, math.Pi / 2, 0},
		// rotations bring these points to the frame origin
		{Bertin1953, 16.5, 42, 0, 0},
		{Berghaus, 0, 90, 0, 0},
	}

	for _, tc := range tests {
		p, err := Lookup(string(tc.name))
		if err != nil {
			t.Fatalf("Lookup(%s): %v", tc.name, err)
		}
		x, y, ok := p.Forward(tc.lon, tc.lat)
		if !ok || !near(x, tc.x) || !near(y, tc.y) {
			t.Errorf("%s(%v, %v) = (%v, %v, %v), want (%v, %v)", tc.name, tc.lon, tc.lat, x, y, ok, tc.x, tc.y)
		}
	}
}

func TestClipAngle(t *testing.T) {
	p, _ := Lookup(string(Nicolosi))

	if _, _, ok := p.Forward(120, 0); ok {
		t.Error("Nicolosi should hide the far hemisphere")
	}

	lambda, phi := p.Clamp(120*radians, 0)
	if !near(lambda, math.Pi/2) || !near(phi, 0) {
		t.Errorf("Clamp = (%v, %v), want (π/2, 0)", lambda, phi)
	}
}

func TestArmadilloHidesSouthernShell(t *testing.T) {
	p, _ := Lookup(string(Armadillo))

	if _, _, ok := p.Forward(170, -60); ok {
		t.Error("expected (170, -60) to be hidden")
	}
	if _, _, ok := p.Forward(0, -60); !ok {
		t.Error("expected (0, -60) to be visible")
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("Mercator"); !errors.Is(err, ErrUnknownProjection) {
		t.Fatalf("expected ErrUnknownProjection, got %v", err)
	}
	if _, err := Lookup("geoBonne"); !errors.Is(err, ErrUnknownProjection) {
		t.Fatalf("prefixed names are not identifiers, got %v", err)
	}
}

func TestSelector(t *testing.T) {
	if _, err := NewSelector("Mercator"); !errors.Is(err, ErrUnknownProjection) {
		t.Fatalf("expected rejected initial value, got %v", err)
	}

	s, err := NewSelector("Airy")
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	if s.Current() != Airy {
		t.Errorf("Current() = %s", s.Current())
	}

	changed, err := s.Set("Bonne")
	if err != nil || !changed {
		t.Fatalf("Set(Bonne) = %v, %v", changed, err)
	}
	if s.Projection().Name() != Bonne {
		t.Errorf("resolved %s", s.Projection().Name())
	}

	if changed, _ := s.Set("Bonne"); changed {
		t.Error("selecting the same projection should not report a change")
	}

	if _, err := s.Set("Robinson"); !errors.Is(err, ErrUnknownProjection) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if s.Current() != Bonne {
		t.Errorf("rejected value replaced the selection: %s", s.Current())
	}
}
