/*
Copyright © 2018 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package spatial

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom/proj"
	"github.com/ctessum/unit"
)

// MeanEarthRadius is the mean radius of the WGS84 ellipsoid, (2a+b)/3.
var MeanEarthRadius = unit.New(6371008.7714, unit.Meter)

// DistanceUnits are the units distances and circle radii are expressed in
// for geodetic contexts.
type DistanceUnits int

const (
	// Kilometers are the default units.
	Kilometers DistanceUnits = iota
	Meters
	Miles
	// Degrees measures distance as degrees of arc.
	Degrees
)

var unitNames = map[DistanceUnits]string{
	Kilometers: "kilometers",
	Meters:     "meters",
	Miles:      "miles",
	Degrees:    "degrees",
}

func (u DistanceUnits) String() string {
	if s, ok := unitNames[u]; ok {
		return s
	}
	return fmt.Sprintf("DistanceUnits(%d)", int(u))
}

// ParseDistanceUnits converts a unit name (case-insensitive) to DistanceUnits.
func ParseDistanceUnits(s string) (DistanceUnits, error) {
	for u, name := range unitNames {
		if strings.EqualFold(s, name) {
			return u, nil
		}
	}
	return Kilometers, fmt.Errorf("spatial: invalid distance units %q; valid options are kilometers, meters, miles and degrees", s)
}

// SphereRadius returns the radius of the sphere described by a PROJ4 or WKT
// spatial reference, as the mean radius (2a+b)/3 of its ellipsoid.
func SphereRadius(spatialReference string) (*unit.Unit, error) {
	sr, err := proj.Parse(spatialReference)
	if err != nil {
		return nil, fmt.Errorf("spatial: parsing spatial reference: %w", err)
	}
	a, b := sr.A, sr.B
	if math.IsNaN(a) || a <= 0 {
		return nil, fmt.Errorf("spatial: spatial reference %q has no semi-major axis", spatialReference)
	}
	if math.IsNaN(b) || b <= 0 {
		b = a
	}
	return unit.New((2*a+b)/3, unit.Meter), nil
}

// radiusIn expresses a sphere radius in the given distance units.
func radiusIn(r *unit.Unit, u DistanceUnits) (float64, error) {
	if err := r.Check(unit.Meter); err != nil {
		return math.NaN(), fmt.Errorf("spatial: sphere radius: %w", err)
	}
	if !(r.Value() > 0) || math.IsInf(r.Value(), 0) {
		return math.NaN(), fmt.Errorf("spatial: sphere radius must be finite and > 0, got %v", r)
	}
	switch u {
	case Kilometers:
		return r.Value() / 1000, nil
	case Meters:
		return r.Value(), nil
	case Miles:
		return r.Value() / 1609.344, nil
	case Degrees:
		return 180 / math.Pi, nil
	default:
		return math.NaN(), fmt.Errorf("spatial: invalid distance units %v", u)
	}
}
