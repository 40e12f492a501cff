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

	"github.com/golang/geo/s1"
)

// rank orders the shape variants. Relate computes every pair from the
// point of view of the higher-ranked shape.
func rank(s Shape) int {
	switch s.(type) {
	case Point:
		return 0
	case Rectangle:
		return 1
	case Circle:
		return 2
	case *BufferedLineString:
		return 3
	case *GeometryShape:
		return 4
	case *ShapeCollection:
		return 5
	}
	return -1
}

// Relate returns the relation of a to b. Relate(a, b) is always
// Relate(b, a).Transpose(), and a shape contains itself.
func (c *Context) Relate(a, b Shape) (SpatialRelation, error) {
	if rank(a) < 0 || rank(b) < 0 {
		return Disjoint, fmt.Errorf("spatial: cannot relate %T to %T: %w", a, b, ErrUnsupportedRelation)
	}
	if rank(a) < rank(b) {
		r, err := c.Relate(b, a)
		return r.Transpose(), err
	}
	if c.engine == nil && (needsEngine(a) || needsEngine(b)) {
		return Disjoint, fmt.Errorf("spatial: relating %v to %v requires a geometry engine: %w", a, b, ErrUnsupportedRelation)
	}
	if a.IsEmpty() || b.IsEmpty() {
		return Disjoint, nil
	}

	switch s := a.(type) {
	case Point, Rectangle:
		return c.relateRects(s.BoundingBox(), b.BoundingBox()), nil
	case Circle:
		return c.relateCircle(s, b), nil
	case *BufferedLineString:
		return c.relateLine(s, b), nil
	case *GeometryShape:
		return c.relateGeometry(s, b)
	case *ShapeCollection:
		return c.relateCollection(s, b)
	}
	panic("unreachable")
}

func needsEngine(s Shape) bool {
	switch v := s.(type) {
	case *GeometryShape:
		return true
	case *ShapeCollection:
		if v.allowMultiOverlap {
			return true
		}
		for _, m := range v.shapes {
			if needsEngine(m) {
				return true
			}
		}
	}
	return false
}

// relateRange relates the interval [aMin, aMax] to [bMin, bMax].
// Equal intervals contain each other.
func relateRange(aMin, aMax, bMin, bMax float64) SpatialRelation {
	switch {
	case bMin > aMax || bMax < aMin:
		return Disjoint
	case bMin >= aMin && bMax <= aMax:
		return Contains
	case bMin <= aMin && bMax >= aMax:
		return Within
	default:
		return Intersects
	}
}

// relateLon relates the longitude ranges of two geodetic rectangles,
// trying b at offsets of ±360° so that ranges across the dateline and on
// either side of the ±180° seam are compared correctly.
func relateLon(a, b Rectangle) SpatialRelation {
	aw, bw := a.Width(), b.Width()
	if aw >= 360 {
		return Contains
	}
	if bw >= 360 {
		return Within
	}
	best := Disjoint
	for _, k := range []float64{-360, 0, 360} {
		// Contains > Within > Intersects > Disjoint.
		if r := relateRange(a.minX, a.minX+aw, b.minX+k, b.minX+bw+k); r > best {
			best = r
		}
	}
	return best
}

func (c *Context) relateRects(a, b Rectangle) SpatialRelation {
	y := relateRange(a.minY, a.maxY, b.minY, b.maxY)
	if y == Disjoint {
		return Disjoint
	}
	var x SpatialRelation
	if c.space.geo {
		x = relateLon(a, b)
	} else {
		x = relateRange(a.minX, a.maxX, b.minX, b.maxX)
	}
	switch {
	case x == Disjoint:
		return Disjoint
	case x == y:
		return x
	case a.minX == b.minX && a.maxX == b.maxX:
		return y
	case a.minY == b.minY && a.maxY == b.maxY:
		return x
	}
	return Intersects
}

// relateCircle relates a circle to a point, rectangle or circle.
func (c *Context) relateCircle(ci Circle, b Shape) SpatialRelation {
	switch o := b.(type) {
	case Point:
		if c.calc.WithinDistance(ci.center, o, ci.radius) {
			return Contains
		}
		return Disjoint
	case Rectangle:
		return c.relateCircleRect(ci, o)
	case Circle:
		d := c.calc.Distance(ci.center, o.center)
		switch {
		case d > ci.radius+o.radius:
			return Disjoint
		case d+o.radius <= ci.radius:
			return Contains
		case d+ci.radius <= o.radius:
			return Within
		default:
			return Intersects
		}
	}
	panic(fmt.Sprintf("spatial: circle cannot be related to %T", b))
}

func (c *Context) relateCircleRect(ci Circle, r Rectangle) SpatialRelation {
	if c.relateRects(ci.bbox, r) == Disjoint {
		return Disjoint
	}
	if c.relateRects(r, ci.bbox) == Contains {
		return Within
	}
	near, far := c.rectDistanceRange(ci.center, r)
	switch {
	case near > ci.radius:
		return Disjoint
	case far <= ci.radius:
		return Contains
	default:
		return Intersects
	}
}

// rectDistanceRange returns the distances from p to the nearest and
// farthest points of r.
func (c *Context) rectDistanceRange(p Point, r Rectangle) (near, far float64) {
	if !c.space.geo {
		nearest := Point{x: clamp(p.x, r.minX, r.maxX), y: clamp(p.y, r.minY, r.maxY)}
		near = c.calc.Distance(p, nearest)
		for _, q := range corners(r) {
			far = math.Max(far, c.calc.Distance(p, q))
		}
		return near, far
	}

	// On a sphere the extremes lie at corners, where a meridian through p
	// or its antipode meets a parallel edge, or at the closest or farthest
	// point of a meridian edge.
	near = math.Inf(1)
	consider := func(x, y float64) {
		d := c.calc.Distance(p, Point{x: x, y: y})
		near = math.Min(near, d)
		far = math.Max(far, d)
	}
	for _, q := range corners(r) {
		consider(q.x, q.y)
	}
	anti := normLon(p.x + 180)
	for _, lon := range []float64{p.x, anti} {
		if r.containsX(true, lon) {
			consider(lon, r.minY)
			consider(lon, r.maxY)
		}
	}
	lat := (s1.Angle(p.y) * s1.Degree).Radians()
	for _, lon := range []float64{r.minX, r.maxX} {
		dl := (s1.Angle(lon-p.x) * s1.Degree).Radians()
		sa, sb := math.Sin(lat), math.Cos(lat)*math.Cos(dl)
		for _, phi := range []float64{math.Atan2(sa, sb), math.Atan2(-sa, -sb)} {
			if y := s1.Angle(phi).Degrees(); y >= r.minY && y <= r.maxY {
				consider(lon, y)
			}
		}
	}
	if r.containsXY(true, p.x, p.y) {
		near = 0
	}
	if r.containsXY(true, anti, -p.y) {
		far = c.calc.DegreesToDistance(180)
	}
	return near, far
}

func corners(r Rectangle) [4]Point {
	return [4]Point{
		{x: r.minX, y: r.minY},
		{x: r.minX, y: r.maxY},
		{x: r.maxX, y: r.minY},
		{x: r.maxX, y: r.maxY},
	}
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

// relateGeometry relates a geometry to any shape of equal or lower rank.
// Bounding boxes are compared first; the engine decides the rest.
func (c *Context) relateGeometry(g *GeometryShape, b Shape) (SpatialRelation, error) {
	if c.relateRects(g.bbox, b.BoundingBox()) == Disjoint {
		return Disjoint, nil
	}
	if p, ok := b.(Point); ok {
		in, err := c.engine.Intersects(g.handle, c.engine.Point(p.x, p.y))
		if err != nil {
			return Disjoint, fmt.Errorf("spatial: relating geometry to %v: %w", p, err)
		}
		if in {
			return Contains, nil
		}
		return Disjoint, nil
	}
	other, err := c.GeometryFrom(b)
	if err != nil {
		return Disjoint, err
	}
	if ok, err := c.engine.Contains(g.handle, other); err != nil {
		return Disjoint, fmt.Errorf("spatial: relating geometry to %v: %w", b, err)
	} else if ok {
		return Contains, nil
	}
	if ok, err := c.engine.Contains(other, g.handle); err != nil {
		return Disjoint, fmt.Errorf("spatial: relating geometry to %v: %w", b, err)
	} else if ok {
		return Within, nil
	}
	ok, err := c.engine.Intersects(g.handle, other)
	if err != nil {
		return Disjoint, fmt.Errorf("spatial: relating geometry to %v: %w", b, err)
	}
	if ok {
		return Intersects, nil
	}
	return Disjoint, nil
}

// relateCollection relates a collection to any shape. Collections that
// allow overlapping members are unioned first. Otherwise the members are
// related in order and their relations combined, stopping at the first
// member that contains b. Members whose bounding boxes do not intersect b
// are disjoint from it and are never evaluated.
func (c *Context) relateCollection(col *ShapeCollection, b Shape) (SpatialRelation, error) {
	if o, ok := b.(*ShapeCollection); ok && c.Equal(col, o) {
		return Contains, nil
	}
	if col.allowMultiOverlap {
		g, err := c.GeometryFrom(col)
		if err != nil {
			return Disjoint, err
		}
		u := &GeometryShape{
			handle:              g,
			bbox:                col.bbox,
			multiOverlapAllowed: true,
			hasArea:             c.engine.HasArea(g),
		}
		return c.Relate(u, b)
	}

	bboxRel, err := c.Relate(col.bbox, b)
	if err != nil {
		return Disjoint, err
	}
	if bboxRel == Disjoint || bboxRel == Within {
		return bboxRel, nil
	}

	bb := b.BoundingBox()
	candidates := col.candidates(bb)
	var rel SpatialRelation
	first := true
	for i, m := range col.shapes {
		if m.IsEmpty() {
			continue
		}
		r := Disjoint
		// Once the result is at least Intersects only a member that
		// contains b can change it.
		if candidates[i] && (first || rel != Intersects || c.relateRects(m.BoundingBox(), bb) == Contains) {
			if r, err = c.Relate(m, b); err != nil {
				return Disjoint, err
			}
		}
		// Members do not overlap, so one member containing b decides
		// the result.
		if r == Contains {
			return Contains, nil
		}
		if first {
			rel, first = r, false
		} else {
			rel = rel.Combine(r)
		}
	}
	return rel, nil
}
