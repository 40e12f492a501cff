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
	"errors"
	"fmt"
	"math"
	"testing"
)

// box is the only geometry type understood by boxEngine.
type box struct{ minX, maxX, minY, maxY float64 }

// boxEngine is a GeometryEngine whose geometries are axis-aligned boxes.
// It counts the predicate evaluations it performs.
type boxEngine struct {
	contains, intersects int
}

func (e *boxEngine) reset() { e.contains, e.intersects = 0, 0 }

func (e *boxEngine) Envelope(g Geometry) (minX, maxX, minY, maxY float64) {
	b := g.(box)
	return b.minX, b.maxX, b.minY, b.maxY
}

func (e *boxEngine) Contains(a, b Geometry) (bool, error) {
	e.contains++
	x, y := a.(box), b.(box)
	return x.minX <= y.minX && x.maxX >= y.maxX && x.minY <= y.minY && x.maxY >= y.maxY, nil
}

func (e *boxEngine) Intersects(a, b Geometry) (bool, error) {
	e.intersects++
	x, y := a.(box), b.(box)
	return !(y.minX > x.maxX || y.maxX < x.minX || y.minY > x.maxY || y.maxY < x.minY), nil
}

func (e *boxEngine) Union(g []Geometry) (Geometry, error) {
	u := box{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, gg := range g {
		b := gg.(box)
		u = box{math.Min(u.minX, b.minX), math.Max(u.maxX, b.maxX), math.Min(u.minY, b.minY), math.Max(u.maxY, b.maxY)}
	}
	return u, nil
}

func (e *boxEngine) IsClockwise(g Geometry) bool { return false }

func (e *boxEngine) HasArea(g Geometry) bool {
	b := g.(box)
	return b.maxX > b.minX && b.maxY > b.minY
}

func (e *boxEngine) Similar(a, b Geometry, tolerance float64) bool { return a == b }

func (e *boxEngine) Text(g Geometry) string { return fmt.Sprint(g) }

func (e *boxEngine) Point(x, y float64) Geometry { return box{x, x, y, y} }

func (e *boxEngine) Box(minX, maxX, minY, maxY float64) Geometry { return box{minX, maxX, minY, maxY} }

func vertexBounds(v []Vertex) box {
	b := box{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, p := range v {
		b = box{math.Min(b.minX, p.X), math.Max(b.maxX, p.X), math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)}
	}
	return b
}

func (e *boxEngine) Polygon(ring []Vertex) Geometry { return vertexBounds(ring) }

func (e *boxEngine) LineString(path []Vertex) Geometry { return vertexBounds(path) }

func (e *boxEngine) MapPaths(g Geometry, f func([]Vertex) []Vertex) Geometry {
	b := g.(box)
	return vertexBounds(f([]Vertex{{X: b.minX, Y: b.minY}, {X: b.maxX, Y: b.maxY}}))
}

func (e *boxEngine) Clip(g Geometry, minX, maxX, minY, maxY float64) (Geometry, error) {
	b := g.(box)
	c := box{math.Max(b.minX, minX), math.Min(b.maxX, maxX), math.Max(b.minY, minY), math.Min(b.maxY, maxY)}
	if c.minX > c.maxX || c.minY > c.maxY {
		n := math.NaN()
		return box{n, n, n, n}, nil
	}
	return c, nil
}

func TestCollectionShortCircuit(t *testing.T) {
	e := new(boxEngine)
	c, err := NewCartesianContext(-100, 100, -100, 100, e)
	if err != nil {
		t.Fatal(err)
	}
	a, err := c.MakeShapeFromGeometry(box{0, 1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.MakeShapeFromGeometry(box{2, 3, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	col, err := c.MakeShapeCollection([]Shape{a, b}, false)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name                 string
		query                Shape
		want                 SpatialRelation
		contains, intersects int
	}{
		{
			name:     "inside first member",
			query:    mustRect(t, c, 0.2, 0.8, 0.2, 0.8),
			want:     Contains,
			contains: 1,
		},
		{
			name:       "across both members",
			query:      mustRect(t, c, 0.5, 2.5, 0.2, 0.8),
			want:       Intersects,
			contains:   2,
			intersects: 1,
		},
		{
			name:  "between members",
			query: mustRect(t, c, 1.5, 1.8, 0.2, 0.8),
			want:  Disjoint,
		},
		{
			name:  "around collection",
			query: mustRect(t, c, -1, 4, -1, 2),
			want:  Within,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e.reset()
			got, err := c.Relate(col, test.query)
			if err != nil {
				t.Fatal(err)
			}
			if got != test.want {
				t.Errorf("relation = %v, want %v", got, test.want)
			}
			if e.contains != test.contains || e.intersects != test.intersects {
				t.Errorf("engine calls: contains=%d intersects=%d, want %d and %d",
					e.contains, e.intersects, test.contains, test.intersects)
			}
		})
	}
}

func TestCollection(t *testing.T) {
	c := cartesianContext(t)
	a := mustRect(t, c, 0, 1, 0, 1)
	b := mustRect(t, c, 2, 3, 0, 1)
	col, err := c.MakeShapeCollection([]Shape{a, b}, false)
	if err != nil {
		t.Fatal(err)
	}
	if col.Len() != 2 || col.Shape(1) != b {
		t.Errorf("members = %v", col.Shapes())
	}
	if want := (Rectangle{minX: 0, maxX: 3, minY: 0, maxY: 1}); col.BoundingBox() != want {
		t.Errorf("bounding box = %v, want %v", col.BoundingBox(), want)
	}
	if !col.HasArea() {
		t.Error("collection should have area")
	}
	checkRelate(t, c, []relateTest{
		{name: "point in member", a: col, b: mustPoint(t, c, 0.5, 0.5), want: Contains},
		{name: "point between members", a: col, b: mustPoint(t, c, 1.5, 0.5), want: Disjoint},
		{name: "same as member", a: col, b: mustRect(t, c, 0, 1, 0, 1), want: Contains},
		{name: "around collection", a: col, b: mustRect(t, c, -1, 4, -1, 2), want: Within},
		{name: "around one member", a: col, b: mustRect(t, c, -1, 1.5, -1, 2), want: Intersects},
		{name: "itself", a: col, b: col, want: Contains},
	})
}

func TestCollectionTouchingMembers(t *testing.T) {
	c := cartesianContext(t)
	col, err := c.MakeShapeCollection([]Shape{
		mustRect(t, c, 0, 10, 0, 10),
		mustRect(t, c, 10, 20, 0, 10),
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	checkRelate(t, c, []relateTest{
		{name: "on shared edge inside second", a: col, b: mustRect(t, c, 10, 15, 2, 5), want: Contains},
		{name: "on shared edge inside first", a: col, b: mustRect(t, c, 5, 10, 2, 5), want: Contains},
		{name: "across shared edge", a: col, b: mustRect(t, c, 5, 15, 2, 5), want: Intersects},
		{name: "point on shared edge", a: col, b: mustPoint(t, c, 10, 5), want: Contains},
	})

	g := geoContext(t)
	split, err := g.MakeShapeCollection([]Shape{
		mustRect(t, g, 170, 180, 0, 1),
		mustRect(t, g, -180, -170, 0, 1),
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	checkRelate(t, g, []relateTest{
		{name: "on seam inside west half", a: split, b: mustRect(t, g, -180, -175, 0.2, 0.8), want: Contains},
		{name: "on seam inside east half", a: split, b: mustRect(t, g, 175, 180, 0.2, 0.8), want: Contains},
	})
}

func TestCollectionDateline(t *testing.T) {
	c := geoContext(t)
	col, err := c.MakeShapeCollection([]Shape{
		mustRect(t, c, 170, 180, 0, 1),
		mustRect(t, c, -180, -170, 0, 1),
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	bb := col.BoundingBox()
	if bb.MinX() != 170 || bb.MaxX() != -170 || !bb.CrossesDateline() {
		t.Errorf("bounding box = %v", bb)
	}
	checkRelate(t, c, []relateTest{
		{name: "point on seam", a: col, b: mustPoint(t, c, -180, 0.5), want: Contains},
		{name: "point west", a: col, b: mustPoint(t, c, -175, 0.5), want: Contains},
		{name: "point far", a: col, b: mustPoint(t, c, 0, 0.5), want: Disjoint},
	})
}

func TestCollectionErrors(t *testing.T) {
	c := cartesianContext(t)
	if _, err := c.MakeShapeCollection([]Shape{mustPoint(t, c, 0, 0), nil}, false); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("nil member: %v", err)
	}

	empty, err := c.MakeShapeCollection([]Shape{mustPoint(t, c, math.NaN(), 0)}, false)
	if err != nil {
		t.Fatal(err)
	}
	if !empty.IsEmpty() {
		t.Error("collection of empty shapes should be empty")
	}
	if r, err := c.Relate(empty, mustPoint(t, c, 0, 0)); err != nil || r != Disjoint {
		t.Errorf("empty collection relation = %v, %v", r, err)
	}

	overlap, err := c.MakeShapeCollection([]Shape{mustRect(t, c, 0, 2, 0, 2), mustRect(t, c, 1, 3, 1, 3)}, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Relate(overlap, mustPoint(t, c, 1, 1)); !errors.Is(err, ErrUnsupportedRelation) {
		t.Errorf("overlapping collection without engine: %v", err)
	}
}

func TestCollectionMultiOverlap(t *testing.T) {
	e := new(boxEngine)
	c, err := NewCartesianContext(-100, 100, -100, 100, e)
	if err != nil {
		t.Fatal(err)
	}
	col, err := c.MakeShapeCollection([]Shape{mustRect(t, c, 0, 2, 0, 2), mustRect(t, c, 1, 3, 1, 3)}, true)
	if err != nil {
		t.Fatal(err)
	}
	r, err := c.Relate(col, mustRect(t, c, 0.5, 2.5, 0.5, 2.5))
	if err != nil {
		t.Fatal(err)
	}
	if r != Contains {
		t.Errorf("relation = %v, want %v", r, Contains)
	}
}
