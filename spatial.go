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

// Package spatial models points, rectangles, circles, line strings,
// externally computed geometries and collections of them on either a
// Cartesian plane or a geodetic (longitude/latitude) sphere, and computes
// the spatial relation between any two of them.
//
// A Context holds the coordinate space, dateline rule, distance calculator
// and optional exact-geometry engine, and acts as the factory for shapes.
// Everything created by a Context is immutable and safe for concurrent use.
package spatial

import (
	"errors"
)

// Version gives the version number.
const Version = "1.0.0"

// Errors returned by shape construction and relation evaluation. They are
// wrapped with additional detail and should be checked with errors.Is.
var (
	// ErrInvalidCoordinate indicates an out-of-range or non-finite coordinate.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidShape indicates a structurally inconsistent shape,
	// for example a rectangle with minY > maxY.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrUnsupportedOperation indicates that a requested construction
	// or operation is not available in the current configuration.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrUnsupportedRelation indicates that a relation involving a
	// geometry was requested without a geometry engine.
	ErrUnsupportedRelation = errors.New("unsupported relation")

	// ErrDatelineUnsupported indicates that a circle or lightweight
	// line string would need to cross the dateline.
	ErrDatelineUnsupported = errors.New("dateline crossing not supported")
)
