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
	"math"
	"testing"
)

func TestOperations(t *testing.T) {
	names := []string{"BBoxIntersects", "BBoxWithin", "Contains", "Intersects", "IsEqualTo",
		"IsDisjointTo", "IsWithin", "Overlaps", "SimilarTo", "Distance"}
	ops := Operations()
	if len(ops) != len(names) {
		t.Fatalf("%d operations, want %d", len(ops), len(names))
	}
	for i, op := range ops {
		if op.String() != names[i] {
			t.Errorf("operation %d = %v, want %s", i, op, names[i])
		}
		got, err := ParseSpatialOperation(names[i])
		if err != nil || got != op {
			t.Errorf("ParseSpatialOperation(%q) = %v, %v", names[i], got, err)
		}
	}
	if op, err := ParseSpatialOperation("intersects"); err != nil || op != OpIntersects {
		t.Errorf("case-insensitive parse = %v, %v", op, err)
	}
	if _, err := ParseSpatialOperation("Touches"); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("unknown operation: %v", err)
	}
}

func TestOperationFlags(t *testing.T) {
	type flags struct{ score, source, target bool }
	want := map[SpatialOperation]flags{
		OpBBoxIntersects: {true, false, false},
		OpBBoxWithin:     {true, false, false},
		OpContains:       {true, true, false},
		OpIntersects:     {true, false, false},
		OpIsEqualTo:      {false, false, false},
		OpIsDisjointTo:   {false, false, false},
		OpIsWithin:       {true, false, true},
		OpOverlaps:       {true, false, true},
		OpSimilarTo:      {true, false, false},
		OpDistance:       {true, false, false},
	}
	for op, w := range want {
		got := flags{op.ScoreIsMeaningful(), op.SourceNeedsArea(), op.TargetNeedsArea()}
		if got != w {
			t.Errorf("%v: flags = %+v, want %+v", op, got, w)
		}
	}
	if SpatialOperation(42).ScoreIsMeaningful() {
		t.Error("invalid operation should have no flags")
	}
}

func TestEvaluate(t *testing.T) {
	c := cartesianContext(t)
	rect := mustRect(t, c, 0, 10, 0, 10)
	pt := mustPoint(t, c, 5, 5)
	overlap := mustRect(t, c, 5, 15, 5, 15)
	far := mustRect(t, c, 20, 30, 20, 30)

	type result map[SpatialOperation]bool
	tests := []struct {
		name           string
		indexed, query Shape
		want           result
	}{
		{
			name: "rect indexed, point query", indexed: rect, query: pt,
			want: result{
				OpBBoxIntersects: true, OpBBoxWithin: false, OpContains: true, OpIntersects: true,
				OpIsEqualTo: false, OpIsDisjointTo: false, OpIsWithin: false, OpOverlaps: false,
				OpSimilarTo: false, OpDistance: true,
			},
		},
		{
			name: "point indexed, rect query", indexed: pt, query: rect,
			want: result{
				OpBBoxIntersects: true, OpBBoxWithin: true, OpContains: false, OpIntersects: true,
				OpIsEqualTo: false, OpIsDisjointTo: false, OpIsWithin: true, OpOverlaps: false,
			},
		},
		{
			name: "overlapping rects", indexed: rect, query: overlap,
			want: result{
				OpBBoxIntersects: true, OpBBoxWithin: false, OpContains: false, OpIntersects: true,
				OpIsDisjointTo: false, OpIsWithin: false, OpOverlaps: true,
			},
		},
		{
			name: "equal rects", indexed: rect, query: mustRect(t, c, 0, 10, 0, 10),
			want: result{
				OpBBoxWithin: true, OpContains: true, OpIsEqualTo: true, OpIsWithin: true,
				OpOverlaps: false, OpSimilarTo: true,
			},
		},
		{
			name: "disjoint rects", indexed: rect, query: far,
			want: result{
				OpBBoxIntersects: false, OpIntersects: false, OpIsDisjointTo: true, OpDistance: false,
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for op, want := range test.want {
				got, err := c.Evaluate(op, test.indexed, test.query)
				if err != nil {
					t.Fatal(err)
				}
				if got != want {
					t.Errorf("%v = %v, want %v", op, got, want)
				}
			}
		})
	}

	if _, err := c.Evaluate(SpatialOperation(42), rect, pt); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("invalid operation: %v", err)
	}
}

func TestScore(t *testing.T) {
	c := cartesianContext(t)
	indexed := mustRect(t, c, 0, 2, 0, 2)
	s, err := c.Score(mustPoint(t, c, 0, 0), indexed)
	if err != nil {
		t.Fatal(err)
	}
	if s != math.Sqrt2 {
		t.Errorf("point score = %g, want %g", s, math.Sqrt2)
	}
	s, err = c.Score(mustCircle(t, c, 0, 0, 1), indexed)
	if err != nil {
		t.Fatal(err)
	}
	if s != 1 {
		t.Errorf("circle score = %g, want 1", s)
	}
	if _, err := c.Score(indexed, indexed); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("rectangle query: %v", err)
	}
}

func TestSimilar(t *testing.T) {
	c := cartesianContext(t)
	a := mustRect(t, c, 0, 10, 0, 10)
	b := mustRect(t, c, 0, 10.001, 0, 10)
	if c.Equal(a, b) {
		t.Error("rectangles should not be equal")
	}
	if !c.Similar(a, b, 0.01) {
		t.Error("rectangles should be similar")
	}
	if c.Equal(a, mustPoint(t, c, 0, 0)) {
		t.Error("different shape types should not be equal")
	}
	if !c.Equal(mustPoint(t, c, math.NaN(), 0), mustPoint(t, c, math.NaN(), 1)) {
		t.Error("empty points should be equal")
	}
	l1 := mustLine(t, c, 1, 0, 0, 1, 1)
	l2 := mustLine(t, c, 1, 0, 0, 1, 1)
	if !c.Equal(l1, l2) {
		t.Error("identical lines should be equal")
	}
}
