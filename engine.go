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

// Geometry is an opaque handle to a geometry owned by a GeometryEngine.
type Geometry interface{}

// Vertex is a coordinate pair passed to and from a GeometryEngine.
type Vertex struct {
	X, Y float64
}

// GeometryEngine performs exact computations on arbitrary geometries.
// Implementations must not modify their arguments, so that the same
// handle can be used from multiple goroutines.
type GeometryEngine interface {
	// Envelope returns the bounding envelope of g. All four values
	// are NaN for an empty geometry.
	Envelope(g Geometry) (minX, maxX, minY, maxY float64)

	// Contains returns whether every point of b lies in a.
	Contains(a, b Geometry) (bool, error)

	// Intersects returns whether a and b share any point.
	Intersects(a, b Geometry) (bool, error)

	// Union merges geometries into one.
	Union(g []Geometry) (Geometry, error)

	// IsClockwise returns whether the exterior ring of a polygonal
	// geometry is ordered clockwise.
	IsClockwise(g Geometry) bool

	// HasArea returns whether g covers a non-zero area.
	HasArea(g Geometry) bool

	// Similar returns whether a and b are equal within tolerance.
	Similar(a, b Geometry, tolerance float64) bool

	// Text returns a human-readable representation for diagnostics.
	Text(g Geometry) string

	Point(x, y float64) Geometry
	Box(minX, maxX, minY, maxY float64) Geometry
	Polygon(ring []Vertex) Geometry
	LineString(path []Vertex) Geometry

	// MapPaths returns a copy of g with f applied to every ring,
	// line and point sequence in it.
	MapPaths(g Geometry, f func([]Vertex) []Vertex) Geometry

	// Clip returns the part of g inside the given box.
	Clip(g Geometry, minX, maxX, minY, maxY float64) (Geometry, error)
}
