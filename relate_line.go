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

// Buffered line strings are related in coordinate space: the buffer is in
// coordinate units and circle radii are converted to degrees.

type segment struct{ a, b Point }

func (l *BufferedLineString) segments() []segment {
	if len(l.points) == 1 {
		return []segment{{l.points[0], l.points[0]}}
	}
	s := make([]segment, len(l.points)-1)
	for i := range s {
		s[i] = segment{l.points[i], l.points[i+1]}
	}
	return s
}

// pointSegmentDist returns the planar distance from p to s.
func pointSegmentDist(p Point, s segment) float64 {
	dx, dy := s.b.x-s.a.x, s.b.y-s.a.y
	var t float64
	if l2 := dx*dx + dy*dy; l2 > 0 {
		t = clamp(((p.x-s.a.x)*dx+(p.y-s.a.y)*dy)/l2, 0, 1)
	}
	return math.Hypot(p.x-(s.a.x+t*dx), p.y-(s.a.y+t*dy))
}

func orientation(a, b, p Point) float64 {
	return (b.x-a.x)*(p.y-a.y) - (b.y-a.y)*(p.x-a.x)
}

func onSegment(p Point, s segment) bool {
	return p.x >= math.Min(s.a.x, s.b.x) && p.x <= math.Max(s.a.x, s.b.x) &&
		p.y >= math.Min(s.a.y, s.b.y) && p.y <= math.Max(s.a.y, s.b.y)
}

func segmentsIntersect(s, t segment) bool {
	d1 := orientation(t.a, t.b, s.a)
	d2 := orientation(t.a, t.b, s.b)
	d3 := orientation(s.a, s.b, t.a)
	d4 := orientation(s.a, s.b, t.b)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(s.a, t)) || (d2 == 0 && onSegment(s.b, t)) ||
		(d3 == 0 && onSegment(t.a, s)) || (d4 == 0 && onSegment(t.b, s))
}

func segmentDist(s, t segment) float64 {
	if segmentsIntersect(s, t) {
		return 0
	}
	return math.Min(
		math.Min(pointSegmentDist(s.a, t), pointSegmentDist(s.b, t)),
		math.Min(pointSegmentDist(t.a, s), pointSegmentDist(t.b, s)),
	)
}

func segmentRectDist(s segment, r Rectangle) float64 {
	if r.containsXY(false, s.a.x, s.a.y) || r.containsXY(false, s.b.x, s.b.y) {
		return 0
	}
	q := corners(r)
	d := math.Inf(1)
	for _, e := range []segment{{q[0], q[1]}, {q[1], q[3]}, {q[3], q[2]}, {q[2], q[0]}} {
		d = math.Min(d, segmentDist(s, e))
	}
	return d
}

// relateLine relates a buffered line string to a point, rectangle, circle
// or other buffered line string.
func (c *Context) relateLine(l *BufferedLineString, b Shape) SpatialRelation {
	switch o := b.(type) {
	case Point:
		for _, s := range l.segments() {
			if pointSegmentDist(o, s) <= l.buf {
				return Contains
			}
		}
		return Disjoint
	case Rectangle:
		parts := o.parts()
		rels := make([]SpatialRelation, len(parts))
		for i, p := range parts {
			rels[i] = c.relateLineRect(l, p)
		}
		return combineParts(rels)
	case Circle:
		return c.relateLineCircle(l, o)
	case *BufferedLineString:
		return c.relateLines(l, o)
	}
	panic(fmt.Sprintf("spatial: buffered line string cannot be related to %T", b))
}

// combineParts merges the relations of a shape to the two halves of a
// rectangle that crosses the dateline.
func combineParts(rels []SpatialRelation) SpatialRelation {
	if len(rels) == 1 {
		return rels[0]
	}
	a, b := rels[0], rels[1]
	switch {
	case a == Disjoint && b == Disjoint:
		return Disjoint
	case a == Contains && b == Contains:
		return Contains
	case (a == Within && b == Disjoint) || (a == Disjoint && b == Within):
		return Within
	}
	return Intersects
}

// relateLineRect relates l to a rectangle that does not cross the dateline.
func (c *Context) relateLineRect(l *BufferedLineString, r Rectangle) SpatialRelation {
	if relateRange(l.bbox.minY, l.bbox.maxY, r.minY, r.maxY) == Disjoint ||
		relateRange(l.bbox.minX, l.bbox.maxX, r.minX, r.maxX) == Disjoint {
		return Disjoint
	}
	if r.minX <= l.bbox.minX && r.maxX >= l.bbox.maxX && r.minY <= l.bbox.minY && r.maxY >= l.bbox.maxY {
		return Within
	}
	segs := l.segments()
	q := corners(r)
	for _, s := range segs {
		in := true
		for _, p := range q {
			if pointSegmentDist(p, s) > l.buf {
				in = false
				break
			}
		}
		if in {
			return Contains
		}
	}
	for _, s := range segs {
		if segmentRectDist(s, r) <= l.buf {
			return Intersects
		}
	}
	return Disjoint
}

func (c *Context) relateLineCircle(l *BufferedLineString, ci Circle) SpatialRelation {
	r := c.calc.DistanceToDegrees(ci.radius)
	segs := l.segments()
	near := math.Inf(1)
	for _, s := range segs {
		near = math.Min(near, pointSegmentDist(ci.center, s))
	}
	if near > l.buf+r {
		return Disjoint
	}
	var far float64
	for _, p := range l.points {
		far = math.Max(far, math.Hypot(p.x-ci.center.x, p.y-ci.center.y))
	}
	if far+l.buf <= r {
		return Within
	}
	for _, s := range segs {
		if pointSegmentDist(ci.center, s)+r <= l.buf {
			return Contains
		}
	}
	return Intersects
}

func (c *Context) relateLines(l, o *BufferedLineString) SpatialRelation {
	if c.relateRects(l.bbox, o.bbox) == Disjoint {
		return Disjoint
	}
	if lineCovers(l, o) {
		return Contains
	}
	if lineCovers(o, l) {
		return Within
	}
	for _, s := range l.segments() {
		for _, t := range o.segments() {
			if segmentDist(s, t) <= l.buf+o.buf {
				return Intersects
			}
		}
	}
	return Disjoint
}

// lineCovers returns whether every buffered segment of b lies within a
// single buffered segment of a.
func lineCovers(a, b *BufferedLineString) bool {
	d := a.buf - b.buf
	if d < 0 {
		return false
	}
	as := a.segments()
	for _, t := range b.segments() {
		covered := false
		for _, s := range as {
			if pointSegmentDist(t.a, s) <= d && pointSegmentDist(t.b, s) <= d {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}
