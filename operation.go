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

// SpatialOperation is a named spatial predicate used to match indexed
// shapes against a query shape.
type SpatialOperation int

// The spatial operations.
const (
	OpBBoxIntersects SpatialOperation = iota
	OpBBoxWithin
	OpContains
	OpIntersects
	OpIsEqualTo
	OpIsDisjointTo
	OpIsWithin
	OpOverlaps
	OpSimilarTo
	OpDistance
)

var operations = [...]struct {
	name                                    string
	score, sourceNeedsArea, targetNeedsArea bool
}{
	OpBBoxIntersects: {"BBoxIntersects", true, false, false},
	OpBBoxWithin:     {"BBoxWithin", true, false, false},
	OpContains:       {"Contains", true, true, false},
	OpIntersects:     {"Intersects", true, false, false},
	OpIsEqualTo:      {"IsEqualTo", false, false, false},
	OpIsDisjointTo:   {"IsDisjointTo", false, false, false},
	OpIsWithin:       {"IsWithin", true, false, true},
	OpOverlaps:       {"Overlaps", true, false, true},
	OpSimilarTo:      {"SimilarTo", true, false, false},
	OpDistance:       {"Distance", true, false, false},
}

// Operations returns every spatial operation.
func Operations() []SpatialOperation {
	o := make([]SpatialOperation, len(operations))
	for i := range o {
		o[i] = SpatialOperation(i)
	}
	return o
}

// ParseSpatialOperation returns the operation with the given name,
// ignoring case.
func ParseSpatialOperation(name string) (SpatialOperation, error) {
	for i, op := range operations {
		if strings.EqualFold(op.name, name) {
			return SpatialOperation(i), nil
		}
	}
	return -1, fmt.Errorf("spatial: unknown spatial operation %q: %w", name, ErrUnsupportedOperation)
}

func (op SpatialOperation) valid() bool { return op >= 0 && int(op) < len(operations) }

func (op SpatialOperation) String() string {
	if !op.valid() {
		return fmt.Sprintf("SpatialOperation(%d)", int(op))
	}
	return operations[op].name
}

// ScoreIsMeaningful returns whether matches of this operation can be
// ranked by a distance score.
func (op SpatialOperation) ScoreIsMeaningful() bool { return op.valid() && operations[op].score }

// SourceNeedsArea returns whether the indexed shape must be evaluated with
// its full area rather than as a point.
func (op SpatialOperation) SourceNeedsArea() bool { return op.valid() && operations[op].sourceNeedsArea }

// TargetNeedsArea returns whether the query shape must be evaluated with
// its full area rather than as a point.
func (op SpatialOperation) TargetNeedsArea() bool { return op.valid() && operations[op].targetNeedsArea }

// Evaluate returns whether indexed matches query under op.
func (c *Context) Evaluate(op SpatialOperation, indexed, query Shape) (bool, error) {
	switch op {
	case OpBBoxIntersects:
		r, err := c.Relate(indexed.BoundingBox(), query)
		return r.Intersects(), err
	case OpBBoxWithin:
		bbox := indexed.BoundingBox()
		r, err := c.Relate(bbox, query)
		return r == Within || c.Equal(bbox, query), err
	case OpContains:
		if c.Equal(indexed, query) {
			return true, nil
		}
		if !indexed.HasArea() {
			return false, nil
		}
		r, err := c.Relate(indexed, query)
		return r == Contains, err
	case OpIntersects, OpDistance:
		r, err := c.Relate(indexed, query)
		return r.Intersects(), err
	case OpIsEqualTo:
		return c.Equal(indexed, query), nil
	case OpIsDisjointTo:
		r, err := c.Relate(indexed, query)
		return !r.Intersects(), err
	case OpIsWithin:
		if !query.HasArea() {
			return false, nil
		}
		if c.Equal(indexed, query) {
			return true, nil
		}
		r, err := c.Relate(indexed, query)
		return r == Within, err
	case OpOverlaps:
		if !query.HasArea() {
			return false, nil
		}
		r, err := c.Relate(indexed, query)
		return r == Intersects, err
	case OpSimilarTo:
		return c.Similar(indexed, query, c.similarityTolerance), nil
	}
	return false, fmt.Errorf("spatial: cannot evaluate %v: %w", op, ErrUnsupportedOperation)
}

// Score returns a distance score of indexed relative to query, where
// lower is closer. Only point and circle queries can be scored; for a
// circle the score is capped at the radius.
func (c *Context) Score(query, indexed Shape) (float64, error) {
	switch q := query.(type) {
	case Point:
		return c.calc.Distance(q, indexed.Center()), nil
	case Circle:
		return math.Min(q.radius, c.calc.Distance(q.center, indexed.Center())), nil
	}
	return math.NaN(), fmt.Errorf("spatial: only point and circle queries can be scored, not %T: %w", query, ErrUnsupportedOperation)
}
