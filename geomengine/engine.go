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

// Package geomengine implements spatial.GeometryEngine using the
// github.com/ctessum/geom geometry types. Handles are geom.Geom values:
// geom.Point, geom.MultiPoint, geom.LineString, geom.MultiLineString,
// geom.Polygon, geom.MultiPolygon and geom.GeometryCollection.
package geomengine

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/spatialmodel/spatial"
)

// Engine is a spatial.GeometryEngine. The zero value is ready to use.
type Engine struct {
	// AreaTolerance is the fraction of a polygon's area that may lie
	// outside of another polygon that is still considered to contain it.
	// If zero, 1e-9 is used.
	AreaTolerance float64
}

// New returns a new engine.
func New() *Engine { return new(Engine) }

var _ spatial.GeometryEngine = (*Engine)(nil)

func (e *Engine) areaTolerance() float64 {
	if e.AreaTolerance == 0 {
		return 1e-9
	}
	return e.AreaTolerance
}

// parts holds the components of a geometry by dimension.
type parts struct {
	points []geom.Point
	lines  []geom.LineString
	polys  []geom.Polygon
}

func decompose(g spatial.Geometry) (*parts, error) {
	p := new(parts)
	var walk func(g spatial.Geometry) error
	walk = func(g spatial.Geometry) error {
		switch t := g.(type) {
		case geom.Point:
			p.points = append(p.points, t)
		case *geom.Point:
			p.points = append(p.points, *t)
		case geom.MultiPoint:
			p.points = append(p.points, t...)
		case geom.LineString:
			if len(t) > 0 {
				p.lines = append(p.lines, t)
			}
		case geom.MultiLineString:
			for _, l := range t {
				if len(l) > 0 {
					p.lines = append(p.lines, l)
				}
			}
		case geom.Polygon:
			if len(t) > 0 {
				p.polys = append(p.polys, t)
			}
		case geom.MultiPolygon:
			for _, pp := range t {
				if len(pp) > 0 {
					p.polys = append(p.polys, pp)
				}
			}
		case geom.GeometryCollection:
			for _, gg := range t {
				if err := walk(gg); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("geomengine: unsupported geometry type %T", g)
		}
		return nil
	}
	return p, walk(g)
}

func (p *parts) empty() bool {
	return len(p.points) == 0 && len(p.lines) == 0 && len(p.polys) == 0
}

// segments returns every line segment and polygon ring edge.
func (p *parts) segments() [][2]geom.Point {
	var s [][2]geom.Point
	for _, l := range p.lines {
		for i := 1; i < len(l); i++ {
			s = append(s, [2]geom.Point{l[i-1], l[i]})
		}
	}
	for _, poly := range p.polys {
		for _, ring := range poly {
			n := len(ring)
			for i := 0; i < n; i++ {
				a, b := ring[i], ring[(i+1)%n]
				if a != b {
					s = append(s, [2]geom.Point{a, b})
				}
			}
		}
	}
	return s
}

// coversPoint returns whether pt lies on or in any part of p.
func (p *parts) coversPoint(pt geom.Point) bool {
	for _, q := range p.points {
		if q.Equals(pt) {
			return true
		}
	}
	for _, l := range p.lines {
		if len(l) == 1 && l[0].Equals(pt) {
			return true
		}
		for i := 1; i < len(l); i++ {
			if onSegment(pt, l[i-1], l[i]) {
				return true
			}
		}
	}
	return p.inPolygons(pt)
}

func (p *parts) inPolygons(pt geom.Point) bool {
	for _, poly := range p.polys {
		if pt.Within(poly) != geom.Outside {
			return true
		}
	}
	return false
}

// firstVertices returns one vertex of every line and polygon.
func (p *parts) firstVertices() []geom.Point {
	var o []geom.Point
	for _, l := range p.lines {
		o = append(o, l[0])
	}
	for _, poly := range p.polys {
		if len(poly[0]) > 0 {
			o = append(o, poly[0][0])
		}
	}
	return o
}

func cross(a, b, c geom.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(p, a, b geom.Point) bool {
	return cross(a, b, p) == 0 &&
		p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

func segmentsIntersect(a1, a2, b1, b2 geom.Point) bool {
	d1, d2 := cross(b1, b2, a1), cross(b1, b2, a2)
	d3, d4 := cross(a1, a2, b1), cross(a1, a2, b2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return onSegment(a1, b1, b2) || onSegment(a2, b1, b2) || onSegment(b1, a1, a2) || onSegment(b2, a1, a2)
}

// Intersects implements spatial.GeometryEngine. Boundaries count as part
// of a geometry.
func (e *Engine) Intersects(a, b spatial.Geometry) (bool, error) {
	pa, err := decompose(a)
	if err != nil {
		return false, err
	}
	pb, err := decompose(b)
	if err != nil {
		return false, err
	}
	if pa.empty() || pb.empty() {
		return false, nil
	}
	if ga, ok := a.(geom.Geom); ok {
		if gb, ok := b.(geom.Geom); ok && !ga.Bounds().Overlaps(gb.Bounds()) {
			return false, nil
		}
	}
	for _, pt := range pa.points {
		if pb.coversPoint(pt) {
			return true, nil
		}
	}
	for _, pt := range pb.points {
		if pa.coversPoint(pt) {
			return true, nil
		}
	}
	sb := pb.segments()
	for _, s := range pa.segments() {
		for _, t := range sb {
			if segmentsIntersect(s[0], s[1], t[0], t[1]) {
				return true, nil
			}
		}
	}
	// With no crossing edges, one geometry can only lie inside the other.
	for _, pt := range pa.firstVertices() {
		if pb.inPolygons(pt) {
			return true, nil
		}
	}
	for _, pt := range pb.firstVertices() {
		if pa.inPolygons(pt) {
			return true, nil
		}
	}
	return false, nil
}

// Contains implements spatial.GeometryEngine. Points on the boundary of a
// count as contained.
func (e *Engine) Contains(a, b spatial.Geometry) (bool, error) {
	pa, err := decompose(a)
	if err != nil {
		return false, err
	}
	pb, err := decompose(b)
	if err != nil {
		return false, err
	}
	if pa.empty() || pb.empty() {
		return false, nil
	}
	if ga, ok := a.(geom.Geom); ok {
		if gb, ok := b.(geom.Geom); ok && ga.Similar(gb, 0) {
			return true, nil
		}
	}
	for _, pt := range pb.points {
		if !pa.coversPoint(pt) {
			return false, nil
		}
	}
	for _, l := range pb.lines {
		for i, pt := range l {
			if !pa.coversPoint(pt) {
				return false, nil
			}
			if i > 0 {
				mid := geom.Point{X: (pt.X + l[i-1].X) / 2, Y: (pt.Y + l[i-1].Y) / 2}
				if !pa.coversPoint(mid) {
					return false, nil
				}
			}
		}
	}
	if len(pb.polys) == 0 {
		return true, nil
	}
	if len(pa.polys) == 0 {
		return false, nil
	}
	area := unionPolygons(pa.polys)
	for _, poly := range pb.polys {
		for _, ring := range poly {
			for _, pt := range ring {
				if !pa.inPolygons(pt) {
					return false, nil
				}
			}
		}
		if outside := poly.Difference(area).Area(); outside > e.areaTolerance()*poly.Area() {
			return false, nil
		}
	}
	return true, nil
}

func unionPolygons(polys []geom.Polygon) geom.Polygon {
	if len(polys) == 0 {
		return nil
	}
	u := polys[0]
	for _, p := range polys[1:] {
		u = u.Union(p)
	}
	return u
}

// assemble combines components into the simplest geometry type that
// holds them.
func assemble(poly geom.Polygon, lines []geom.LineString, points []geom.Point) spatial.Geometry {
	var items geom.GeometryCollection
	if len(poly) > 0 {
		items = append(items, poly)
	}
	switch len(lines) {
	case 0:
	case 1:
		items = append(items, lines[0])
	default:
		items = append(items, geom.MultiLineString(lines))
	}
	switch len(points) {
	case 0:
	case 1:
		items = append(items, points[0])
	default:
		items = append(items, geom.MultiPoint(points))
	}
	switch len(items) {
	case 0:
		return geom.GeometryCollection{}
	case 1:
		return items[0]
	}
	return items
}

// Union implements spatial.GeometryEngine. Polygons are merged with
// polygon clipping; points and lines are collected.
func (e *Engine) Union(g []spatial.Geometry) (spatial.Geometry, error) {
	all := new(parts)
	for _, gg := range g {
		p, err := decompose(gg)
		if err != nil {
			return nil, err
		}
		all.points = append(all.points, p.points...)
		all.lines = append(all.lines, p.lines...)
		all.polys = append(all.polys, p.polys...)
	}
	return assemble(unionPolygons(all.polys), all.lines, all.points), nil
}

// Envelope implements spatial.GeometryEngine.
func (e *Engine) Envelope(g spatial.Geometry) (minX, maxX, minY, maxY float64) {
	gg, ok := g.(geom.Geom)
	if !ok || gg == nil {
		n := math.NaN()
		return n, n, n, n
	}
	b := gg.Bounds()
	if b == nil || b.Min.X > b.Max.X || b.Min.Y > b.Max.Y {
		n := math.NaN()
		return n, n, n, n
	}
	return b.Min.X, b.Max.X, b.Min.Y, b.Max.Y
}

// IsClockwise implements spatial.GeometryEngine. It examines the first
// ring of the first polygon.
func (e *Engine) IsClockwise(g spatial.Geometry) bool {
	p, err := decompose(g)
	if err != nil || len(p.polys) == 0 {
		return false
	}
	ring := p.polys[0][0]
	var a float64
	for i := range ring {
		j := (i + 1) % len(ring)
		a += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return a < 0
}

// HasArea implements spatial.GeometryEngine.
func (e *Engine) HasArea(g spatial.Geometry) bool {
	p, err := decompose(g)
	if err != nil {
		return false
	}
	for _, poly := range p.polys {
		if poly.Area() > 0 {
			return true
		}
	}
	return false
}

// Similar implements spatial.GeometryEngine.
func (e *Engine) Similar(a, b spatial.Geometry, tolerance float64) bool {
	ga, oka := a.(geom.Geom)
	gb, okb := b.(geom.Geom)
	return oka && okb && ga.Similar(gb, tolerance)
}

// Text implements spatial.GeometryEngine. It returns GeoJSON where
// possible.
func (e *Engine) Text(g spatial.Geometry) string {
	if gg, ok := g.(geom.Geom); ok {
		if b, err := geojson.Encode(gg); err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", g)
}

// Point implements spatial.GeometryEngine.
func (e *Engine) Point(x, y float64) spatial.Geometry { return geom.Point{X: x, Y: y} }

// Box implements spatial.GeometryEngine. The ring is counter-clockwise.
func (e *Engine) Box(minX, maxX, minY, maxY float64) spatial.Geometry {
	return geom.Polygon{{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}}
}

// Polygon implements spatial.GeometryEngine.
func (e *Engine) Polygon(ring []spatial.Vertex) spatial.Geometry {
	return geom.Polygon{toPoints(ring)}
}

// LineString implements spatial.GeometryEngine.
func (e *Engine) LineString(path []spatial.Vertex) spatial.Geometry {
	return geom.LineString(toPoints(path))
}

func toPoints(v []spatial.Vertex) []geom.Point {
	o := make([]geom.Point, len(v))
	for i, vv := range v {
		o[i] = geom.Point{X: vv.X, Y: vv.Y}
	}
	return o
}

func toVertices(p []geom.Point) []spatial.Vertex {
	o := make([]spatial.Vertex, len(p))
	for i, pp := range p {
		o[i] = spatial.Vertex{X: pp.X, Y: pp.Y}
	}
	return o
}

// MapPaths implements spatial.GeometryEngine. A MultiPoint is treated as
// a single path.
func (e *Engine) MapPaths(g spatial.Geometry, f func([]spatial.Vertex) []spatial.Vertex) spatial.Geometry {
	switch t := g.(type) {
	case geom.Point:
		v := f([]spatial.Vertex{{X: t.X, Y: t.Y}})
		return geom.Point{X: v[0].X, Y: v[0].Y}
	case *geom.Point:
		return e.MapPaths(*t, f)
	case geom.MultiPoint:
		return geom.MultiPoint(toPoints(f(toVertices(t))))
	case geom.LineString:
		return geom.LineString(toPoints(f(toVertices(t))))
	case geom.MultiLineString:
		o := make(geom.MultiLineString, len(t))
		for i, l := range t {
			o[i] = geom.LineString(toPoints(f(toVertices(l))))
		}
		return o
	case geom.Polygon:
		return mapPolygon(t, f)
	case geom.MultiPolygon:
		o := make(geom.MultiPolygon, len(t))
		for i, p := range t {
			o[i] = mapPolygon(p, f)
		}
		return o
	case geom.GeometryCollection:
		o := make(geom.GeometryCollection, len(t))
		for i, gg := range t {
			o[i] = e.MapPaths(gg, f).(geom.Geom)
		}
		return o
	}
	return g
}

func mapPolygon(p geom.Polygon, f func([]spatial.Vertex) []spatial.Vertex) geom.Polygon {
	o := make(geom.Polygon, len(p))
	for i, ring := range p {
		o[i] = toPoints(f(toVertices(ring)))
	}
	return o
}

// Clip implements spatial.GeometryEngine. Polygons are intersected with
// the box and line segments are clipped to it.
func (e *Engine) Clip(g spatial.Geometry, minX, maxX, minY, maxY float64) (spatial.Geometry, error) {
	p, err := decompose(g)
	if err != nil {
		return nil, err
	}
	box := e.Box(minX, maxX, minY, maxY).(geom.Polygon)

	var polys []geom.Polygon
	for _, poly := range p.polys {
		if c := poly.Intersection(box); len(c) > 0 && c.Area() > 0 {
			polys = append(polys, c)
		}
	}
	var clipped geom.Polygon
	for _, c := range polys {
		clipped = append(clipped, c...)
	}

	var lines []geom.LineString
	for _, l := range p.lines {
		lines = append(lines, clipLine(l, minX, maxX, minY, maxY)...)
	}

	var points []geom.Point
	for _, pt := range p.points {
		if pt.X >= minX && pt.X <= maxX && pt.Y >= minY && pt.Y <= maxY {
			points = append(points, pt)
		}
	}
	return assemble(clipped, lines, points), nil
}

// clipLine clips each segment of l to the box using the Liang–Barsky
// algorithm and joins consecutive clipped segments.
func clipLine(l geom.LineString, minX, maxX, minY, maxY float64) []geom.LineString {
	var o []geom.LineString
	var cur geom.LineString
	for i := 1; i < len(l); i++ {
		a, b, ok := clipSegment(l[i-1], l[i], minX, maxX, minY, maxY)
		if !ok {
			if len(cur) > 0 {
				o = append(o, cur)
				cur = nil
			}
			continue
		}
		if len(cur) > 0 && cur[len(cur)-1].Equals(a) {
			cur = append(cur, b)
		} else {
			if len(cur) > 0 {
				o = append(o, cur)
			}
			cur = geom.LineString{a, b}
		}
	}
	if len(cur) > 0 {
		o = append(o, cur)
	}
	return o
}

func clipSegment(a, b geom.Point, minX, maxX, minY, maxY float64) (geom.Point, geom.Point, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := b.X-a.X, b.Y-a.Y
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{a.X - minX, maxX - a.X, a.Y - minY, maxY - a.Y}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return a, b, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
	}
	if t0 > t1 {
		return a, b, false
	}
	return geom.Point{X: a.X + t0*dx, Y: a.Y + t0*dy}, geom.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}
