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

import "gonum.org/v1/gonum/floats"

// Equal returns whether a and b are the same kind of shape with the same
// coordinates.
func (c *Context) Equal(a, b Shape) bool { return c.Similar(a, b, 0) }

// Similar returns whether a and b are the same kind of shape with
// coordinates that differ by no more than tolerance.
func (c *Context) Similar(a, b Shape, tolerance float64) bool {
	switch x := a.(type) {
	case Point:
		y, ok := b.(Point)
		return ok && pointsSimilar(x, y, tolerance)
	case Rectangle:
		y, ok := b.(Rectangle)
		if !ok || x.IsEmpty() != y.IsEmpty() {
			return false
		}
		return x.IsEmpty() || (x.crosses == y.crosses &&
			floats.EqualApprox([]float64{x.minX, x.maxX, x.minY, x.maxY},
				[]float64{y.minX, y.maxX, y.minY, y.maxY}, tolerance))
	case Circle:
		y, ok := b.(Circle)
		return ok && pointsSimilar(x.center, y.center, tolerance) &&
			floats.EqualWithinAbs(x.radius, y.radius, tolerance)
	case *BufferedLineString:
		y, ok := b.(*BufferedLineString)
		if !ok || len(x.points) != len(y.points) || !floats.EqualWithinAbs(x.buf, y.buf, tolerance) {
			return false
		}
		for i, p := range x.points {
			if !pointsSimilar(p, y.points[i], tolerance) {
				return false
			}
		}
		return true
	case *GeometryShape:
		y, ok := b.(*GeometryShape)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		return c.engine != nil && c.engine.Similar(x.handle, y.handle, tolerance)
	case *ShapeCollection:
		y, ok := b.(*ShapeCollection)
		if !ok || len(x.shapes) != len(y.shapes) || x.allowMultiOverlap != y.allowMultiOverlap {
			return false
		}
		if x == y {
			return true
		}
		for i, s := range x.shapes {
			if !c.Similar(s, y.shapes[i], tolerance) {
				return false
			}
		}
		return true
	}
	return false
}

func pointsSimilar(a, b Point, tolerance float64) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() && b.IsEmpty()
	}
	return floats.EqualWithinAbs(a.x, b.x, tolerance) && floats.EqualWithinAbs(a.y, b.y, tolerance)
}
