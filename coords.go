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
)

// CoordinateSpace holds the world bounds, the geodetic or Cartesian mode
// and the precision grid that all coordinates are normalized into.
type CoordinateSpace struct {
	geo                    bool
	minX, maxX, minY, maxY float64

	// precision is the grid size coordinates are snapped to.
	// Zero means no snapping.
	precision float64
}

// NewGeoSpace returns a geodetic coordinate space with longitude in
// [-180,180] and latitude in [-90,90]. precision is the grid size used
// for rounding coordinates, or 0 for exact coordinates.
func NewGeoSpace(precision float64) (*CoordinateSpace, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	return &CoordinateSpace{
		geo:       true,
		minX:      -180,
		maxX:      180,
		minY:      -90,
		maxY:      90,
		precision: precision,
	}, nil
}

// NewCartesianSpace returns a flat coordinate space with the given bounds.
func NewCartesianSpace(minX, maxX, minY, maxY, precision float64) (*CoordinateSpace, error) {
	for _, v := range []float64{minX, maxX, minY, maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("spatial: world bounds must be finite, got [%g, %g, %g, %g]: %w",
				minX, maxX, minY, maxY, ErrInvalidCoordinate)
		}
	}
	if minX > maxX || minY > maxY {
		return nil, fmt.Errorf("spatial: world bounds [%g, %g, %g, %g] are not ordered: %w",
			minX, maxX, minY, maxY, ErrInvalidShape)
	}
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	return &CoordinateSpace{
		minX:      minX,
		maxX:      maxX,
		minY:      minY,
		maxY:      maxY,
		precision: precision,
	}, nil
}

func checkPrecision(p float64) error {
	if !(p >= 0) || math.IsInf(p, 0) {
		return fmt.Errorf("spatial: precision scale must be finite and >= 0, got %g", p)
	}
	return nil
}

// IsGeo returns whether the space is geodetic.
func (s *CoordinateSpace) IsGeo() bool { return s.geo }

// Precision returns the grid size coordinates are snapped to.
func (s *CoordinateSpace) Precision() float64 { return s.precision }

// Bounds returns the world bounds as minX, maxX, minY, maxY.
func (s *CoordinateSpace) Bounds() (minX, maxX, minY, maxY float64) {
	return s.minX, s.maxX, s.minY, s.maxY
}

// NormX wraps or checks x against the world bounds and snaps it to the
// precision grid. Geodetic longitudes are wrapped into [-180,180];
// values already in range are left alone, so 180 stays 180.
func (s *CoordinateSpace) NormX(x float64) (float64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x, fmt.Errorf("spatial: x=%g is not finite: %w", x, ErrInvalidCoordinate)
	}
	if s.geo {
		x = normLon(x)
	} else if x < s.minX || x > s.maxX {
		return x, fmt.Errorf("spatial: x=%g is outside of world bounds [%g, %g]: %w",
			x, s.minX, s.maxX, ErrInvalidCoordinate)
	}
	return snap(x, s.precision, s.minX, s.maxX), nil
}

// NormY clamps (geodetic) or checks (Cartesian) y against the world bounds
// and snaps it to the precision grid.
func (s *CoordinateSpace) NormY(y float64) (float64, error) {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return y, fmt.Errorf("spatial: y=%g is not finite: %w", y, ErrInvalidCoordinate)
	}
	if s.geo {
		y = math.Max(-90, math.Min(90, y))
	} else if y < s.minY || y > s.maxY {
		return y, fmt.Errorf("spatial: y=%g is outside of world bounds [%g, %g]: %w",
			y, s.minY, s.maxY, ErrInvalidCoordinate)
	}
	return snap(y, s.precision, s.minY, s.maxY), nil
}

// VerifyX returns an error if x is not within the world bounds.
// It never corrects its input.
func (s *CoordinateSpace) VerifyX(x float64) error {
	if !(x >= s.minX && x <= s.maxX) {
		return fmt.Errorf("spatial: x=%g is outside of world bounds [%g, %g]: %w",
			x, s.minX, s.maxX, ErrInvalidCoordinate)
	}
	return nil
}

// VerifyY returns an error if y is not within the world bounds.
func (s *CoordinateSpace) VerifyY(y float64) error {
	if !(y >= s.minY && y <= s.maxY) {
		return fmt.Errorf("spatial: y=%g is outside of world bounds [%g, %g]: %w",
			y, s.minY, s.maxY, ErrInvalidCoordinate)
	}
	return nil
}

func (s *CoordinateSpace) String() string {
	mode := "cartesian"
	if s.geo {
		mode = "geo"
	}
	return fmt.Sprintf("%s[%g, %g, %g, %g] precision=%g", mode, s.minX, s.maxX, s.minY, s.maxY, s.precision)
}

// normLon wraps a longitude in degrees into [-180,180].
func normLon(x float64) float64 {
	if x >= -180 && x <= 180 {
		return x
	}
	off := math.Mod(x+180, 360)
	if off < 0 {
		return 180 + off
	} else if off == 0 && x > 0 {
		return 180
	}
	return -180 + off
}

// snap rounds v to the nearest multiple of p that lies within [lo, hi].
func snap(v, p, lo, hi float64) float64 {
	if p == 0 {
		return v
	}
	k := math.Round(v / p)
	s := k * p
	if s > hi {
		s = (k - 1) * p
	} else if s < lo {
		s = (k + 1) * p
	}
	return s
}
