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
)

// Shape is implemented by Point, Rectangle, Circle, *BufferedLineString,
// *GeometryShape and *ShapeCollection. Shapes are created by a Context
// and are immutable.
type Shape interface {
	// BoundingBox returns the smallest rectangle enclosing the shape.
	BoundingBox() Rectangle

	// Center returns the center of the shape's bounding box, or, for
	// circles and points, the shape's own center.
	Center() Point

	// HasArea returns whether the shape covers a non-zero area.
	HasArea() bool

	// IsEmpty returns whether the shape contains no points.
	IsEmpty() bool

	String() string

	// isShape restricts implementations to this package.
	isShape()
}

// Point is a location in the coordinate space. A point whose X is NaN
// is empty.
type Point struct {
	x, y float64
}

// X returns the x coordinate (longitude in geodetic mode).
func (p Point) X() float64 { return p.x }

// Y returns the y coordinate (latitude in geodetic mode).
func (p Point) Y() float64 { return p.y }

// BoundingBox implements Shape.
func (p Point) BoundingBox() Rectangle {
	if p.IsEmpty() {
		return emptyRect()
	}
	return Rectangle{minX: p.x, maxX: p.x, minY: p.y, maxY: p.y}
}

// Center implements Shape.
func (p Point) Center() Point { return p }

// HasArea implements Shape.
func (p Point) HasArea() bool { return false }

// IsEmpty implements Shape.
func (p Point) IsEmpty() bool { return math.IsNaN(p.x) }

func (p Point) String() string { return fmt.Sprintf("Pt(x=%g,y=%g)", p.x, p.y) }

func (Point) isShape() {}

func emptyPoint() Point { return Point{x: math.NaN(), y: math.NaN()} }

// Rectangle is an axis-aligned rectangle. In geodetic mode a rectangle
// may cross the dateline, in which case MinX > MaxX and CrossesDateline
// returns true.
type Rectangle struct {
	minX, maxX, minY, maxY float64
	crosses                bool
}

// newRect creates a rectangle without normalizing its coordinates.
// In geodetic mode an edge on the wrong side of the seam is moved
// to the other side so that crossing is only signaled when needed.
func newRect(geo bool, minX, maxX, minY, maxY float64) Rectangle {
	if geo {
		if minX == 180 && maxX != 180 {
			minX = -180
		}
		if maxX == -180 && minX != -180 {
			maxX = 180
		}
	}
	return Rectangle{
		minX:    minX,
		maxX:    maxX,
		minY:    minY,
		maxY:    maxY,
		crosses: geo && minX > maxX,
	}
}

func emptyRect() Rectangle {
	n := math.NaN()
	return Rectangle{minX: n, maxX: n, minY: n, maxY: n}
}

// MinX returns the western edge.
func (r Rectangle) MinX() float64 { return r.minX }

// MaxX returns the eastern edge.
func (r Rectangle) MaxX() float64 { return r.maxX }

// MinY returns the southern edge.
func (r Rectangle) MinY() float64 { return r.minY }

// MaxY returns the northern edge.
func (r Rectangle) MaxY() float64 { return r.maxY }

// CrossesDateline returns whether the rectangle wraps through the ±180°
// meridian.
func (r Rectangle) CrossesDateline() bool { return r.crosses }

// Width returns the extent in the x direction, accounting for
// dateline crossing.
func (r Rectangle) Width() float64 {
	if r.crosses {
		return r.maxX - r.minX + 360
	}
	return r.maxX - r.minX
}

// Height returns the extent in the y direction.
func (r Rectangle) Height() float64 { return r.maxY - r.minY }

// BoundingBox implements Shape.
func (r Rectangle) BoundingBox() Rectangle { return r }

// Center implements Shape.
func (r Rectangle) Center() Point {
	if r.IsEmpty() {
		return emptyPoint()
	}
	x := r.minX + r.Width()/2
	if r.crosses && x > 180 {
		x -= 360
	}
	return Point{x: x, y: (r.minY + r.maxY) / 2}
}

// HasArea implements Shape.
func (r Rectangle) HasArea() bool { return r.Width() > 0 && r.Height() > 0 }

// IsEmpty implements Shape.
func (r Rectangle) IsEmpty() bool { return math.IsNaN(r.minX) }

func (r Rectangle) String() string {
	return fmt.Sprintf("Rect(minX=%g,maxX=%g,minY=%g,maxY=%g)", r.minX, r.maxX, r.minY, r.maxY)
}

func (Rectangle) isShape() {}

// parts splits a dateline-crossing rectangle into its eastern and
// western halves. Other rectangles are returned as is.
func (r Rectangle) parts() []Rectangle {
	if !r.crosses {
		return []Rectangle{r}
	}
	return []Rectangle{
		{minX: r.minX, maxX: 180, minY: r.minY, maxY: r.maxY},
		{minX: -180, maxX: r.maxX, minY: r.minY, maxY: r.maxY},
	}
}

// containsXY returns whether the point (x, y) is inside or on the edge of
// r. In geodetic mode -180 and 180 are the same meridian.
func (r Rectangle) containsXY(geo bool, x, y float64) bool {
	if r.IsEmpty() || y < r.minY || y > r.maxY {
		return false
	}
	return r.containsX(geo, x)
}

func (r Rectangle) containsX(geo bool, x float64) bool {
	if r.crosses {
		return x >= r.minX || x <= r.maxX
	}
	if x >= r.minX && x <= r.maxX {
		return true
	}
	if geo {
		return (x == 180 && r.minX == -180) || (x == -180 && r.maxX == 180)
	}
	return false
}

// Circle is the set of points within a distance of a center point. The
// radius is in the units of the Context's distance calculator.
type Circle struct {
	center Point
	radius float64
	bbox   Rectangle
}

// Radius returns the circle radius in distance units.
func (c Circle) Radius() float64 { return c.radius }

// BoundingBox implements Shape.
func (c Circle) BoundingBox() Rectangle { return c.bbox }

// Center implements Shape.
func (c Circle) Center() Point { return c.center }

// HasArea implements Shape.
func (c Circle) HasArea() bool { return c.radius > 0 }

// IsEmpty implements Shape.
func (c Circle) IsEmpty() bool { return c.center.IsEmpty() }

func (c Circle) String() string { return fmt.Sprintf("Circle(%v, d=%g)", c.center, c.radius) }

func (Circle) isShape() {}

// BufferedLineString is a lightweight line string: an ordered series of
// points with an optional buffer, in coordinate units, around each segment.
type BufferedLineString struct {
	points []Point
	buf    float64
	bbox   Rectangle
}

// Points returns a copy of the vertices.
func (l *BufferedLineString) Points() []Point {
	return append([]Point(nil), l.points...)
}

// Buffer returns the buffer width in coordinate units.
func (l *BufferedLineString) Buffer() float64 { return l.buf }

// BoundingBox implements Shape.
func (l *BufferedLineString) BoundingBox() Rectangle { return l.bbox }

// Center implements Shape.
func (l *BufferedLineString) Center() Point { return l.bbox.Center() }

// HasArea implements Shape.
func (l *BufferedLineString) HasArea() bool { return l.buf > 0 }

// IsEmpty implements Shape.
func (l *BufferedLineString) IsEmpty() bool { return len(l.points) == 0 }

func (l *BufferedLineString) String() string {
	s := make([]string, len(l.points))
	for i, p := range l.points {
		s[i] = fmt.Sprintf("%g %g", p.x, p.y)
	}
	return fmt.Sprintf("BufferedLineString(buf=%g pts=%s)", l.buf, strings.Join(s, ", "))
}

func (*BufferedLineString) isShape() {}

// GeometryShape wraps a geometry handle owned by a GeometryEngine.
type GeometryShape struct {
	handle Geometry
	bbox   Rectangle

	datelineChecked     bool
	multiOverlapAllowed bool
	hasArea             bool
}

// Geometry returns the engine handle. It must not be modified.
func (g *GeometryShape) Geometry() Geometry { return g.handle }

// DatelineChecked returns whether the geometry was scanned for (and, if
// needed, split at) dateline crossings when it was created.
func (g *GeometryShape) DatelineChecked() bool { return g.datelineChecked }

// MultiOverlapAllowed returns whether overlapping parts of the geometry
// were unioned when it was created.
func (g *GeometryShape) MultiOverlapAllowed() bool { return g.multiOverlapAllowed }

// BoundingBox implements Shape.
func (g *GeometryShape) BoundingBox() Rectangle { return g.bbox }

// Center implements Shape.
func (g *GeometryShape) Center() Point { return g.bbox.Center() }

// HasArea implements Shape.
func (g *GeometryShape) HasArea() bool { return g.hasArea }

// IsEmpty implements Shape.
func (g *GeometryShape) IsEmpty() bool { return g.bbox.IsEmpty() }

func (g *GeometryShape) String() string { return fmt.Sprintf("GeometryShape(%v)", g.bbox) }

func (*GeometryShape) isShape() {}
