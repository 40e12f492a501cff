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

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// DistanceCalculator measures distances between points.
type DistanceCalculator interface {
	// Distance returns the distance between two points. The distance
	// to or from an empty point is +Inf.
	Distance(a, b Point) float64

	// WithinDistance returns whether b is no farther than d from a.
	WithinDistance(a, b Point, d float64) bool

	// DistanceToDegrees converts a distance into degrees of arc
	// (or coordinate units for Cartesian calculators).
	DistanceToDegrees(d float64) float64

	// DegreesToDistance is the inverse of DistanceToDegrees.
	DegreesToDistance(deg float64) float64

	// BoundingBox returns a rectangle in space enclosing every point
	// within d of center.
	BoundingBox(space *CoordinateSpace, center Point, d float64) Rectangle
}

// CartesianCalculator computes Euclidean distances.
type CartesianCalculator struct{}

// Distance implements DistanceCalculator.
func (CartesianCalculator) Distance(a, b Point) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return math.Inf(1)
	}
	return math.Hypot(a.x-b.x, a.y-b.y)
}

// WithinDistance implements DistanceCalculator.
func (CartesianCalculator) WithinDistance(a, b Point, d float64) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	dx, dy := math.Abs(a.x-b.x), math.Abs(a.y-b.y)
	if dx > d || dy > d {
		return false
	}
	return dx*dx+dy*dy <= d*d
}

// DistanceToDegrees implements DistanceCalculator.
func (CartesianCalculator) DistanceToDegrees(d float64) float64 { return d }

// DegreesToDistance implements DistanceCalculator.
func (CartesianCalculator) DegreesToDistance(deg float64) float64 { return deg }

// BoundingBox implements DistanceCalculator. The result is clipped
// to the world bounds.
func (CartesianCalculator) BoundingBox(space *CoordinateSpace, center Point, d float64) Rectangle {
	if center.IsEmpty() {
		return emptyRect()
	}
	return Rectangle{
		minX: math.Max(space.minX, center.x-d),
		maxX: math.Min(space.maxX, center.x+d),
		minY: math.Max(space.minY, center.y-d),
		maxY: math.Min(space.maxY, center.y+d),
	}
}

func (CartesianCalculator) String() string { return "cartesian" }

// Formula is a great-circle distance formula.
type Formula int

const (
	// Haversine is numerically stable for small distances.
	Haversine Formula = iota
	// LawOfCosines is the spherical law of cosines.
	LawOfCosines
	// VincentySphere is Vincenty's formula specialized to a sphere,
	// which is accurate for both small and antipodal distances.
	VincentySphere
)

var formulaNames = map[Formula]string{
	Haversine:      "haversine",
	LawOfCosines:   "lawOfCosines",
	VincentySphere: "vincentySphere",
}

func (f Formula) String() string {
	if s, ok := formulaNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Formula(%d)", int(f))
}

// ParseFormula converts a formula name (case-insensitive) to a Formula.
func ParseFormula(s string) (Formula, error) {
	for f, name := range formulaNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return Haversine, fmt.Errorf("spatial: invalid distance formula %q; valid options are haversine, lawOfCosines and vincentySphere", s)
}

// GeodesicCalculator computes great-circle distances on a sphere. Points
// are in degrees; distances are in the units of Radius.
type GeodesicCalculator struct {
	// Radius is the sphere radius in distance units.
	Radius float64

	Formula Formula
}

// Distance implements DistanceCalculator.
func (g *GeodesicCalculator) Distance(a, b Point) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return math.Inf(1)
	}
	if a.x == b.x && a.y == b.y {
		return 0
	}
	return g.angle(a, b).Radians() * g.Radius
}

// angle returns the central angle between a and b.
func (g *GeodesicCalculator) angle(a, b Point) s1.Angle {
	lat1 := (s1.Angle(a.y) * s1.Degree).Radians()
	lat2 := (s1.Angle(b.y) * s1.Degree).Radians()
	dLon := math.Abs(a.x - b.x)
	if dLon > 180 {
		dLon = 360 - dLon
	}
	dl := (s1.Angle(dLon) * s1.Degree).Radians()

	switch g.Formula {
	case LawOfCosines:
		c := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dl)
		return s1.Angle(math.Acos(math.Max(-1, math.Min(1, c))))
	case VincentySphere:
		pa := s2.PointFromLatLng(s2.LatLngFromDegrees(a.y, 0))
		pb := s2.PointFromLatLng(s2.LatLngFromDegrees(b.y, dLon))
		return pa.Distance(pb)
	default:
		sLat := math.Sin((lat2 - lat1) / 2)
		sLon := math.Sin(dl / 2)
		h := sLat*sLat + math.Cos(lat1)*math.Cos(lat2)*sLon*sLon
		return s1.Angle(2 * math.Atan2(math.Sqrt(h), math.Sqrt(math.Max(0, 1-h))))
	}
}

// WithinDistance implements DistanceCalculator. Points whose latitudes
// alone are farther apart than d are rejected without computing the
// full distance.
func (g *GeodesicCalculator) WithinDistance(a, b Point, d float64) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	if g.DegreesToDistance(math.Abs(a.y-b.y)) > d {
		return false
	}
	return g.Distance(a, b) <= d
}

// DistanceToDegrees implements DistanceCalculator.
func (g *GeodesicCalculator) DistanceToDegrees(d float64) float64 {
	return s1.Angle(d / g.Radius).Degrees()
}

// DegreesToDistance implements DistanceCalculator.
func (g *GeodesicCalculator) DegreesToDistance(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians() * g.Radius
}

// BoundingBox implements DistanceCalculator. A circle that reaches a pole
// gets a bounding box spanning all longitudes; otherwise the box may cross
// the dateline.
func (g *GeodesicCalculator) BoundingBox(space *CoordinateSpace, center Point, d float64) Rectangle {
	if center.IsEmpty() {
		return emptyRect()
	}
	if d == 0 {
		return center.BoundingBox()
	}
	dDeg := g.DistanceToDegrees(d)
	if dDeg >= 180 {
		return Rectangle{minX: -180, maxX: 180, minY: -90, maxY: 90}
	}
	latN, latS := center.y+dDeg, center.y-dDeg
	if latN >= 90 || latS <= -90 {
		return Rectangle{
			minX: -180,
			maxX: 180,
			minY: math.Max(-90, latS),
			maxY: math.Min(90, latN),
		}
	}
	latRad := (s1.Angle(center.y) * s1.Degree).Radians()
	dRad := (s1.Angle(dDeg) * s1.Degree).Radians()
	dLon := 90.0
	if r := math.Asin(math.Sin(dRad) / math.Cos(latRad)); !math.IsNaN(r) {
		dLon = s1.Angle(r).Degrees()
	}
	return newRect(true, normLon(center.x-dLon), normLon(center.x+dLon), latS, latN)
}

func (g *GeodesicCalculator) String() string {
	return fmt.Sprintf("geodesic(%v, r=%g)", g.Formula, g.Radius)
}
