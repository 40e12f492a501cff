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
	"github.com/sirupsen/logrus"
)

// circleVertices is the number of vertices used to approximate a circle
// as a polygon.
const circleVertices = 100

// crossesDateline returns whether any path in g has consecutive vertices
// more than 180° of longitude apart.
func (c *Context) crossesDateline(g Geometry) bool {
	var crosses bool
	c.engine.MapPaths(g, func(p []Vertex) []Vertex {
		for i := 1; i < len(p); i++ {
			if math.Abs(p[i].X-p[i-1].X) > 180 {
				crosses = true
			}
		}
		return p
	})
	return crosses
}

// unwrapPath shifts vertices by multiples of 360° so that no two
// consecutive vertices are more than 180° apart.
func unwrapPath(p []Vertex) []Vertex {
	o := make([]Vertex, len(p))
	var shift float64
	for i, v := range p {
		if i > 0 {
			dx := v.X - p[i-1].X
			if dx > 180 {
				shift -= 360
			} else if dx < -180 {
				shift += 360
			}
		}
		o[i] = Vertex{X: v.X + shift, Y: v.Y}
	}
	return o
}

func shiftPath(dx float64) func([]Vertex) []Vertex {
	return func(p []Vertex) []Vertex {
		o := make([]Vertex, len(p))
		for i, v := range p {
			o[i] = Vertex{X: v.X + dx, Y: v.Y}
		}
		return o
	}
}

// splitAtDateline unwraps g, cuts it into pieces that each fit within
// [-180,180] after being shifted back, and unions the pieces.
func (c *Context) splitAtDateline(g Geometry) (Geometry, Rectangle, error) {
	return c.splitUnwrapped(c.engine.MapPaths(g, unwrapPath))
}

func (c *Context) splitUnwrapped(unwrapped Geometry) (Geometry, Rectangle, error) {
	minX, maxX, minY, maxY := c.engine.Envelope(unwrapped)

	var pieces []Geometry
	for k := math.Floor((minX + 180) / 360); -180+360*k < maxX; k++ {
		// The window extends past the envelope so that its edges only
		// meet the geometry at the seam.
		piece, err := c.engine.Clip(unwrapped, -180+360*k, 180+360*k, minY-1, maxY+1)
		if err != nil {
			return nil, Rectangle{}, fmt.Errorf("spatial: splitting geometry at the dateline: %w", err)
		}
		if px, _, _, _ := c.engine.Envelope(piece); math.IsNaN(px) {
			continue
		}
		pieces = append(pieces, c.engine.MapPaths(piece, shiftPath(-360*k)))
	}
	h, err := c.engine.Union(pieces)
	if err != nil {
		return nil, Rectangle{}, fmt.Errorf("spatial: joining dateline pieces: %w", err)
	}

	var bbox Rectangle
	if maxX-minX >= 360 {
		bbox = Rectangle{minX: -180, maxX: 180, minY: minY, maxY: maxY}
	} else {
		bbox = newRect(true, normLon(minX), normLon(maxX), minY, maxY)
	}
	c.log.WithFields(logrus.Fields{
		"pieces": len(pieces),
		"bbox":   bbox.String(),
	}).Debug("spatial: split geometry at the dateline")
	return h, bbox, nil
}

// GeometryFrom converts s to a geometry handle of the context's engine.
// Dateline-crossing rectangles become two boxes, circles become polygons
// with 100 vertices, and buffered line strings become the union of one
// rectangle per segment.
func (c *Context) GeometryFrom(s Shape) (Geometry, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("spatial: converting %v requires a geometry engine: %w", s, ErrUnsupportedOperation)
	}
	if s == nil || s.IsEmpty() {
		return nil, fmt.Errorf("spatial: cannot convert empty shape %v: %w", s, ErrInvalidShape)
	}
	switch v := s.(type) {
	case Point:
		return c.engine.Point(v.x, v.y), nil
	case Rectangle:
		if v.crosses {
			return c.engine.Union([]Geometry{
				c.engine.Box(v.minX, 180, v.minY, v.maxY),
				c.engine.Box(-180, v.maxX, v.minY, v.maxY),
			})
		}
		return c.engine.Box(v.minX, v.maxX, v.minY, v.maxY), nil
	case Circle:
		return c.circleGeometry(v)
	case *BufferedLineString:
		return c.lineGeometry(v)
	case *GeometryShape:
		return v.handle, nil
	case *ShapeCollection:
		parts := make([]Geometry, 0, len(v.shapes))
		for _, m := range v.shapes {
			if m.IsEmpty() {
				continue
			}
			g, err := c.GeometryFrom(m)
			if err != nil {
				return nil, err
			}
			parts = append(parts, g)
		}
		return c.engine.Union(parts)
	}
	return nil, fmt.Errorf("spatial: unsupported shape type %T: %w", s, ErrUnsupportedOperation)
}

func (c *Context) circleGeometry(ci Circle) (Geometry, error) {
	if ci.bbox.crosses {
		return nil, fmt.Errorf("spatial: %v crosses the dateline: %w", ci, ErrDatelineUnsupported)
	}
	if ci.radius == 0 {
		return c.engine.Point(ci.center.x, ci.center.y), nil
	}
	if c.space.geo {
		return c.capGeometry(ci)
	}
	r := c.calc.DistanceToDegrees(ci.radius)
	ring := make([]Vertex, circleVertices)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / circleVertices
		ring[i] = Vertex{X: ci.center.x + r*math.Cos(a), Y: ci.center.y + r*math.Sin(a)}
	}
	return c.engine.Polygon(ring), nil
}

// capGeometry returns a polygon whose vertices are the points at distance
// ci.radius from the center at evenly spaced bearings. A cap that reaches a
// pole is closed along the pole and cut at the dateline.
func (c *Context) capGeometry(ci Circle) (Geometry, error) {
	d := s1.Angle(c.calc.DistanceToDegrees(ci.radius)) * s1.Degree
	if d >= 90*s1.Degree {
		return nil, fmt.Errorf("spatial: %v covers a hemisphere or more: %w", ci, ErrUnsupportedOperation)
	}
	sinLat, cosLat := math.Sincos((s1.Angle(ci.center.y) * s1.Degree).Radians())
	sinD, cosD := math.Sincos(d.Radians())
	ring := make([]Vertex, circleVertices)
	for i := range ring {
		sinB, cosB := math.Sincos(2 * math.Pi * float64(i) / circleVertices)
		sinLat2 := math.Max(-1, math.Min(1, sinLat*cosD+cosLat*sinD*cosB))
		x := ci.center.x + s1.Angle(math.Atan2(sinB*sinD*cosLat, cosD-sinLat*sinLat2)).Degrees()
		if ci.center.y == 90 || ci.center.y == -90 {
			x = -180 + 360*float64(i)/circleVertices
		}
		ring[i] = Vertex{X: x, Y: s1.Angle(math.Asin(sinLat2)).Degrees()}
	}

	var pole float64
	switch {
	case ci.bbox.maxY >= 90:
		pole = 90
	case ci.bbox.minY <= -90:
		pole = -90
	default:
		return c.engine.Polygon(ring), nil
	}
	// Around a pole the longitudes advance through a full turn.
	ring = unwrapPath(ring)
	first, last := ring[0], ring[len(ring)-1]
	end := first.X + 360
	if last.X < first.X {
		end = first.X - 360
	}
	ring = append(ring, Vertex{X: end, Y: first.Y}, Vertex{X: end, Y: pole}, Vertex{X: first.X, Y: pole})
	g, _, err := c.splitUnwrapped(c.engine.Polygon(ring))
	return g, err
}

func (c *Context) lineGeometry(l *BufferedLineString) (Geometry, error) {
	if l.buf == 0 {
		if len(l.points) == 1 {
			return c.engine.Point(l.points[0].x, l.points[0].y), nil
		}
		path := make([]Vertex, len(l.points))
		for i, p := range l.points {
			path[i] = Vertex{X: p.x, Y: p.y}
		}
		return c.engine.LineString(path), nil
	}
	segs := l.segments()
	parts := make([]Geometry, len(segs))
	for i, s := range segs {
		ux, uy := s.b.x-s.a.x, s.b.y-s.a.y
		if n := math.Hypot(ux, uy); n > 0 {
			ux, uy = ux/n, uy/n
		} else {
			ux, uy = 1, 0
		}
		b := l.buf
		ax, ay := s.a.x-ux*b, s.a.y-uy*b
		bx, by := s.b.x+ux*b, s.b.y+uy*b
		nx, ny := -uy*b, ux*b
		parts[i] = c.engine.Polygon([]Vertex{
			{X: ax - nx, Y: ay - ny},
			{X: bx - nx, Y: by - ny},
			{X: bx + nx, Y: by + ny},
			{X: ax + nx, Y: ay + ny},
		})
	}
	return c.engine.Union(parts)
}
