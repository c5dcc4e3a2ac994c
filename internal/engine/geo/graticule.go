package geo

import "github.com/paulmach/orb"

// Graticule returns meridians and parallels every step degrees, densified
// every step/4 degrees so they bend under curved projections. Parallels stop
// at ±80 like the usual minor graticule; meridians run pole to pole.
func Graticule(step float64) orb.MultiLineString {
	if step <= 0 {
		step = 10
	}
	dense := step / 4

	var mls orb.MultiLineString
	for lon := -180.0; lon <= 180; lon += step {
		var ls orb.LineString
		for lat := -90.0; lat <= 90; lat += dense {
			ls = append(ls, orb.Point{lon, lat})
		}
		mls = append(mls, ls)
	}

	for lat := -80.0; lat <= 80; lat += step {
		var ls orb.LineString
		for lon := -180.0; lon <= 180; lon += dense {
			ls = append(ls, orb.Point{lon, lat})
		}
		mls = append(mls, ls)
	}
	return mls
}
