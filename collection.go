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
	"sort"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// ShapeCollection is an ordered group of shapes. Unless AllowMultiOverlap
// is true, the members are assumed not to overlap each other.
type ShapeCollection struct {
	shapes            []Shape
	allowMultiOverlap bool
	geo               bool
	bbox              Rectangle

	// index holds the bounding box of each member.
	index *rtree.Rtree
}

// memberBox is an index entry for one bounding box part of a
// collection member.
type memberBox struct {
	geom.Polygonal
	i int
}

func boxPolygon(r Rectangle) geom.Polygon {
	return geom.Polygon{{
		{X: r.minX, Y: r.minY},
		{X: r.maxX, Y: r.minY},
		{X: r.maxX, Y: r.maxY},
		{X: r.minX, Y: r.maxY},
	}}
}

func newShapeCollection(geo bool, shapes []Shape, allowMultiOverlap bool) (*ShapeCollection, error) {
	c := &ShapeCollection{
		shapes:            make([]Shape, len(shapes)),
		allowMultiOverlap: allowMultiOverlap,
		geo:               geo,
		index:             rtree.NewTree(25, 50),
	}
	boxes := make([]Rectangle, 0, len(shapes))
	for i, s := range shapes {
		if s == nil {
			return nil, fmt.Errorf("spatial: shape collection member %d is nil: %w", i, ErrInvalidShape)
		}
		c.shapes[i] = s
		if s.IsEmpty() {
			continue
		}
		b := s.BoundingBox()
		boxes = append(boxes, b)
		for _, p := range b.parts() {
			c.index.Insert(memberBox{Polygonal: boxPolygon(p), i: i})
		}
	}
	c.bbox = unionBoxes(geo, boxes)
	return c, nil
}

// unionBoxes returns the smallest rectangle enclosing all of boxes. In
// geodetic mode the longitude extent is the complement of the largest
// longitude gap between the boxes, so the result may cross the dateline.
func unionBoxes(geo bool, boxes []Rectangle) Rectangle {
	if len(boxes) == 0 {
		return emptyRect()
	}
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, b := range boxes {
		minY = math.Min(minY, b.minY)
		maxY = math.Max(maxY, b.maxY)
	}
	if !geo {
		minX, maxX := math.Inf(1), math.Inf(-1)
		for _, b := range boxes {
			minX = math.Min(minX, b.minX)
			maxX = math.Max(maxX, b.maxX)
		}
		return Rectangle{minX: minX, maxX: maxX, minY: minY, maxY: maxY}
	}

	type span struct{ lo, hi float64 }
	var spans []span
	for _, b := range boxes {
		for _, p := range b.parts() {
			spans = append(spans, span{p.minX, p.maxX})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.lo <= last.hi {
			last.hi = math.Max(last.hi, s.hi)
		} else {
			merged = append(merged, s)
		}
	}
	first, last := merged[0], merged[len(merged)-1]
	if len(merged) == 1 && first.lo == -180 && first.hi == 180 {
		return Rectangle{minX: -180, maxX: 180, minY: minY, maxY: maxY}
	}

	// The gap across the seam is the default; any larger interior gap
	// makes the result cross the dateline.
	gap := first.lo + 360 - last.hi
	minX, maxX := first.lo, last.hi
	for i := 0; i < len(merged)-1; i++ {
		if g := merged[i+1].lo - merged[i].hi; g > gap {
			gap = g
			minX, maxX = merged[i+1].lo, merged[i].hi
		}
	}
	return newRect(true, minX, maxX, minY, maxY)
}

// candidates returns the set of indices of the members whose bounding
// boxes intersect r.
func (c *ShapeCollection) candidates(r Rectangle) map[int]bool {
	o := make(map[int]bool)
	if r.IsEmpty() {
		return o
	}
	for _, p := range r.parts() {
		search := []Rectangle{p}
		if c.geo {
			// -180 and 180 are the same meridian.
			if p.maxX == 180 {
				search = append(search, Rectangle{minX: -180, maxX: -180, minY: p.minY, maxY: p.maxY})
			}
			if p.minX == -180 {
				search = append(search, Rectangle{minX: 180, maxX: 180, minY: p.minY, maxY: p.maxY})
			}
		}
		for _, s := range search {
			b := &geom.Bounds{
				Min: geom.Point{X: s.minX, Y: s.minY},
				Max: geom.Point{X: s.maxX, Y: s.maxY},
			}
			for _, item := range c.index.SearchIntersect(b) {
				o[item.(memberBox).i] = true
			}
		}
	}
	return o
}

// Len returns the number of members.
func (c *ShapeCollection) Len() int { return len(c.shapes) }

// Shape returns member i.
func (c *ShapeCollection) Shape(i int) Shape { return c.shapes[i] }

// Shapes returns a copy of the member list.
func (c *ShapeCollection) Shapes() []Shape { return append([]Shape(nil), c.shapes...) }

// AllowMultiOverlap returns whether members may overlap each other.
func (c *ShapeCollection) AllowMultiOverlap() bool { return c.allowMultiOverlap }

// BoundingBox implements Shape.
func (c *ShapeCollection) BoundingBox() Rectangle { return c.bbox }

// Center implements Shape.
func (c *ShapeCollection) Center() Point { return c.bbox.Center() }

// HasArea implements Shape.
func (c *ShapeCollection) HasArea() bool {
	for _, s := range c.shapes {
		if s.HasArea() {
			return true
		}
	}
	return false
}

// IsEmpty implements Shape.
func (c *ShapeCollection) IsEmpty() bool { return c.bbox.IsEmpty() }

func (c *ShapeCollection) String() string {
	s := make([]string, len(c.shapes))
	for i, m := range c.shapes {
		s[i] = m.String()
	}
	return fmt.Sprintf("ShapeCollection(%s)", strings.Join(s, ", "))
}

func (*ShapeCollection) isShape() {}
