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

import "fmt"

// SpatialRelation is the relation of one shape to another.
type SpatialRelation int

const (
	// Disjoint means the shapes share no points.
	Disjoint SpatialRelation = iota
	// Intersects means the shapes share some but not all points.
	Intersects
	// Within means the first shape lies entirely within the second.
	Within
	// Contains means the first shape entirely contains the second.
	Contains
)

func (r SpatialRelation) String() string {
	switch r {
	case Disjoint:
		return "DISJOINT"
	case Intersects:
		return "INTERSECTS"
	case Within:
		return "WITHIN"
	case Contains:
		return "CONTAINS"
	default:
		return fmt.Sprintf("SpatialRelation(%d)", int(r))
	}
}

// Transpose returns the relation as seen from the other shape.
func (r SpatialRelation) Transpose() SpatialRelation {
	switch r {
	case Contains:
		return Within
	case Within:
		return Contains
	default:
		return r
	}
}

// Intersects returns whether the shapes share any points at all.
func (r SpatialRelation) Intersects() bool { return r != Disjoint }

// Combine aggregates the relations of two non-overlapping parts of a
// shape to the same other shape.
func (r SpatialRelation) Combine(o SpatialRelation) SpatialRelation {
	if r == o {
		return r
	}
	if (r == Disjoint && o == Contains) || (r == Contains && o == Disjoint) {
		return Contains
	}
	return Intersects
}
