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
	"strings"
)

// DatelineRule specifies how rectangles and geometries that may cross the
// ±180° meridian are detected.
type DatelineRule int

const (
	// DatelineNone never treats a shape as crossing the dateline.
	DatelineNone DatelineRule = iota

	// DatelineWidth180 treats a rectangle whose unwrapped width is
	// greater than 180° as crossing the dateline.
	DatelineWidth180

	// DatelineCCWRect treats a rectangular polygon as crossing the
	// dateline when its vertices are ordered clockwise.
	DatelineCCWRect
)

var datelineNames = map[DatelineRule]string{
	DatelineNone:     "none",
	DatelineWidth180: "width180",
	DatelineCCWRect:  "ccwRect",
}

func (r DatelineRule) String() string {
	if s, ok := datelineNames[r]; ok {
		return s
	}
	return fmt.Sprintf("DatelineRule(%d)", int(r))
}

// ParseDatelineRule converts "none", "width180" or "ccwRect"
// (case-insensitive) to a DatelineRule.
func ParseDatelineRule(s string) (DatelineRule, error) {
	for r, name := range datelineNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	return DatelineNone, fmt.Errorf("spatial: invalid dateline rule %q; valid options are none, width180 and ccwRect", s)
}

// crosses reports whether a rectangle with the given raw (unwrapped)
// longitude extent crosses the dateline under the rule. clockwise is the
// winding of the source ring and is only consulted by DatelineCCWRect.
func (r DatelineRule) crosses(minX, maxX float64, clockwise bool) bool {
	switch r {
	case DatelineWidth180:
		return maxX-minX > 180
	case DatelineCCWRect:
		return clockwise
	default:
		return false
	}
}
