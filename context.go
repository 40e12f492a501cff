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

	"github.com/sirupsen/logrus"
)

// Context holds the coordinate space, dateline rule, distance calculator
// and geometry engine that shapes are created and related with.
// A Context is immutable and can be shared between goroutines.
type Context struct {
	space  *CoordinateSpace
	rule   DatelineRule
	calc   DistanceCalculator
	engine GeometryEngine

	allowMultiOverlap     bool
	useGeometryLineString bool
	similarityTolerance   float64

	log logrus.FieldLogger
}

// NewContext creates a context from cfg. engine performs exact geometry
// computations and may be nil, in which case geometries cannot be created
// or related. If cfg is nil, DefaultGeoConfig is used.
func NewContext(cfg *Config, engine GeometryEngine) (*Context, error) {
	if cfg == nil {
		cfg = DefaultGeoConfig()
	}
	space, err := cfg.space()
	if err != nil {
		return nil, err
	}
	rule, err := cfg.datelineRule()
	if err != nil {
		return nil, err
	}
	calc, err := cfg.calculator()
	if err != nil {
		return nil, err
	}
	if !(cfg.SimilarityTolerance >= 0) {
		return nil, fmt.Errorf("spatial: SimilarityTolerance must be >= 0, got %g", cfg.SimilarityTolerance)
	}
	c := &Context{
		space:                 space,
		rule:                  rule,
		calc:                  calc,
		engine:                engine,
		allowMultiOverlap:     cfg.AllowMultiOverlap,
		useGeometryLineString: cfg.UseGeometryLineString,
		similarityTolerance:   cfg.SimilarityTolerance,
		log:                   cfg.Log,
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	c.log.WithFields(logrus.Fields{
		"space":             space.String(),
		"datelineRule":      rule.String(),
		"calculator":        fmt.Sprint(calc),
		"geometryEngine":    engine != nil,
		"allowMultiOverlap": c.allowMultiOverlap,
	}).Debug("spatial: created context")
	return c, nil
}

// NewGeoContext returns a geodetic context with the default configuration.
func NewGeoContext(engine GeometryEngine) (*Context, error) {
	return NewContext(DefaultGeoConfig(), engine)
}

// NewCartesianContext returns a Cartesian context with the given bounds.
func NewCartesianContext(minX, maxX, minY, maxY float64, engine GeometryEngine) (*Context, error) {
	return NewContext(DefaultCartesianConfig(minX, maxX, minY, maxY), engine)
}

// IsGeo returns whether the coordinate space is geodetic.
func (c *Context) IsGeo() bool { return c.space.geo }

// Space returns the coordinate space.
func (c *Context) Space() *CoordinateSpace { return c.space }

// WorldBounds returns the world bounds as a rectangle.
func (c *Context) WorldBounds() Rectangle {
	return Rectangle{minX: c.space.minX, maxX: c.space.maxX, minY: c.space.minY, maxY: c.space.maxY}
}

// DatelineRule returns the dateline rule.
func (c *Context) DatelineRule() DatelineRule { return c.rule }

// Calculator returns the distance calculator.
func (c *Context) Calculator() DistanceCalculator { return c.calc }

// Engine returns the geometry engine, which may be nil.
func (c *Context) Engine() GeometryEngine { return c.engine }

// IsAllowMultiOverlap returns the default multi-overlap setting for
// geometries.
func (c *Context) IsAllowMultiOverlap() bool { return c.allowMultiOverlap }

func (c *Context) String() string {
	return fmt.Sprintf("Context{space=%v, datelineRule=%v, calculator=%v}", c.space, c.rule, c.calc)
}

// MakePoint creates a point from normalized coordinates. A NaN x is passed
// through unchanged and creates an empty point.
func (c *Context) MakePoint(x, y float64) (Point, error) {
	if math.IsNaN(x) {
		return Point{x: x, y: y}, nil
	}
	nx, err := c.space.NormX(x)
	if err != nil {
		return Point{}, err
	}
	ny, err := c.space.NormY(y)
	if err != nil {
		return Point{}, err
	}
	if err := c.verifyXY(nx, ny); err != nil {
		return Point{}, err
	}
	return Point{x: nx, y: ny}, nil
}

func (c *Context) verifyXY(x, y float64) error {
	if err := c.space.VerifyX(x); err != nil {
		return err
	}
	return c.space.VerifyY(y)
}

// MakeRectangle creates a rectangle from normalized coordinates. In a
// geodetic space, minX > maxX after normalization denotes a rectangle
// crossing the dateline, and a raw width of at least 360° spans all
// longitudes.
func (c *Context) MakeRectangle(minX, maxX, minY, maxY float64) (Rectangle, error) {
	for _, v := range []float64{minX, maxX, minY, maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Rectangle{}, fmt.Errorf("spatial: rectangle [%g, %g, %g, %g] has non-finite coordinates: %w",
				minX, maxX, minY, maxY, ErrInvalidCoordinate)
		}
	}
	if c.space.geo && maxX-minX >= 360 {
		minX, maxX = -180, 180
	}
	var err error
	var n [4]float64
	for i, v := range []float64{minX, maxX} {
		if n[i], err = c.space.NormX(v); err != nil {
			return Rectangle{}, err
		}
	}
	for i, v := range []float64{minY, maxY} {
		if n[i+2], err = c.space.NormY(v); err != nil {
			return Rectangle{}, err
		}
	}
	if n[2] > n[3] {
		return Rectangle{}, fmt.Errorf("spatial: rectangle minY=%g > maxY=%g: %w", n[2], n[3], ErrInvalidShape)
	}
	if !c.space.geo && n[0] > n[1] {
		return Rectangle{}, fmt.Errorf("spatial: rectangle minX=%g > maxX=%g: %w", n[0], n[1], ErrInvalidShape)
	}
	for i := 0; i < 2; i++ {
		if err := c.verifyXY(n[i], n[i+2]); err != nil {
			return Rectangle{}, err
		}
	}
	return newRect(c.space.geo, n[0], n[1], n[2], n[3]), nil
}

// MakeCircle creates a circle with a radius in distance units. A circle
// whose bounding box would cross the dateline cannot be created; the
// returned error matches both ErrInvalidShape and ErrDatelineUnsupported.
func (c *Context) MakeCircle(center Point, radius float64) (Circle, error) {
	if !(radius >= 0) || math.IsInf(radius, 0) {
		return Circle{}, fmt.Errorf("spatial: circle radius %g must be finite and >= 0: %w", radius, ErrInvalidShape)
	}
	if !center.IsEmpty() {
		if err := c.verifyXY(center.x, center.y); err != nil {
			return Circle{}, err
		}
	}
	ci := Circle{
		center: center,
		radius: radius,
		bbox:   c.calc.BoundingBox(c.space, center, radius),
	}
	if ci.bbox.CrossesDateline() {
		return Circle{}, fmt.Errorf("spatial: bounding box %v of %v crosses the dateline: %w: %w",
			ci.bbox, ci, ErrInvalidShape, ErrDatelineUnsupported)
	}
	return ci, nil
}

// MakeLineString creates a line string through points. It is created by
// the geometry engine if the context is configured to do so and has an
// engine; otherwise it is a BufferedLineString with no buffer.
func (c *Context) MakeLineString(points []Point) (Shape, error) {
	if c.useGeometryLineString && c.engine != nil {
		path := make([]Vertex, len(points))
		for i, p := range points {
			if p.IsEmpty() {
				return nil, fmt.Errorf("spatial: line string point %d is empty: %w", i, ErrInvalidShape)
			}
			path[i] = Vertex{X: p.x, Y: p.y}
		}
		return c.MakeShapeFromExternalGeometry(c.engine.LineString(path), c.rule != DatelineNone, false)
	}
	return c.MakeBufferedLineString(points, 0)
}

// MakeBufferedLineString creates a lightweight line string with a buffer
// in coordinate units around each segment. Lines that cross the dateline
// are not supported.
func (c *Context) MakeBufferedLineString(points []Point, buf float64) (*BufferedLineString, error) {
	if !(buf >= 0) || math.IsInf(buf, 0) {
		return nil, fmt.Errorf("spatial: line string buffer %g must be finite and >= 0: %w", buf, ErrInvalidShape)
	}
	l := &BufferedLineString{points: make([]Point, len(points)), buf: buf}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		if p.IsEmpty() {
			return nil, fmt.Errorf("spatial: line string point %d is empty: %w", i, ErrInvalidShape)
		}
		if err := c.verifyXY(p.x, p.y); err != nil {
			return nil, err
		}
		if c.space.geo && i > 0 && math.Abs(p.x-points[i-1].x) > 180 {
			return nil, fmt.Errorf("spatial: line string segment %v to %v crosses the dateline: %w: %w",
				points[i-1], p, ErrUnsupportedOperation, ErrDatelineUnsupported)
		}
		l.points[i] = p
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	if len(points) == 0 {
		l.bbox = emptyRect()
		return l, nil
	}
	l.bbox = Rectangle{
		minX: math.Max(c.space.minX, minX-buf),
		maxX: math.Min(c.space.maxX, maxX+buf),
		minY: math.Max(c.space.minY, minY-buf),
		maxY: math.Min(c.space.maxY, maxY+buf),
	}
	return l, nil
}

// MakeShapeFromGeometry wraps g using the context defaults: dateline
// crossings are checked unless the dateline rule is none, and overlapping
// parts are unioned if the context allows multi-overlap.
func (c *Context) MakeShapeFromGeometry(g Geometry) (*GeometryShape, error) {
	return c.MakeShapeFromExternalGeometry(g, c.rule != DatelineNone, c.allowMultiOverlap)
}

// MakeShapeFromExternalGeometry wraps a geometry handle from the context's
// engine. If dateline180Check is true and the space is geodetic, any path
// with consecutive vertices more than 180° of longitude apart is taken to
// cross the dateline, and the geometry is split there into parts that
// are joined with the engine's union. If allowMultiOverlap is true,
// overlapping parts of g are unioned.
func (c *Context) MakeShapeFromExternalGeometry(g Geometry, dateline180Check, allowMultiOverlap bool) (*GeometryShape, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("spatial: creating a geometry shape requires a geometry engine: %w", ErrUnsupportedOperation)
	}
	if g == nil {
		return nil, fmt.Errorf("spatial: geometry is nil: %w", ErrInvalidShape)
	}
	s := &GeometryShape{
		handle:              g,
		datelineChecked:     dateline180Check,
		multiOverlapAllowed: allowMultiOverlap,
	}
	minX, maxX, minY, maxY := c.engine.Envelope(g)
	if math.IsNaN(minX) {
		s.bbox = emptyRect()
		return s, nil
	}
	if c.space.geo && dateline180Check && c.crossesDateline(g) {
		h, bbox, err := c.splitAtDateline(g)
		if err != nil {
			return nil, err
		}
		s.handle, s.bbox = h, bbox
	} else {
		if err := c.verifyXY(minX, minY); err != nil {
			return nil, fmt.Errorf("spatial: geometry envelope: %w", err)
		}
		if err := c.verifyXY(maxX, maxY); err != nil {
			return nil, fmt.Errorf("spatial: geometry envelope: %w", err)
		}
		s.bbox = Rectangle{minX: minX, maxX: maxX, minY: minY, maxY: maxY}
	}
	if allowMultiOverlap {
		h, err := c.engine.Union([]Geometry{s.handle})
		if err != nil {
			return nil, fmt.Errorf("spatial: merging overlapping parts: %w", err)
		}
		s.handle = h
	}
	s.hasArea = c.engine.HasArea(s.handle)
	return s, nil
}

// MakeRectFromRectangularGeometry converts a rectangular geometry to a
// Rectangle. In a geodetic space, the dateline rule decides whether the
// rectangle crosses the dateline: width180 by its envelope width and
// ccwRect by its vertex order.
func (c *Context) MakeRectFromRectangularGeometry(g Geometry) (Rectangle, error) {
	if c.engine == nil {
		return Rectangle{}, fmt.Errorf("spatial: reading a rectangular geometry requires a geometry engine: %w", ErrUnsupportedOperation)
	}
	minX, maxX, minY, maxY := c.engine.Envelope(g)
	if math.IsNaN(minX) {
		return Rectangle{}, fmt.Errorf("spatial: rectangular geometry is empty: %w", ErrInvalidShape)
	}
	if c.space.geo && c.rule.crosses(minX, maxX, c.rule == DatelineCCWRect && c.engine.IsClockwise(g)) {
		return c.MakeRectangle(maxX, minX, minY, maxY)
	}
	return c.MakeRectangle(minX, maxX, minY, maxY)
}

// MakeShapeCollection groups shapes. allowMultiOverlap specifies whether
// the members may overlap each other.
func (c *Context) MakeShapeCollection(shapes []Shape, allowMultiOverlap bool) (*ShapeCollection, error) {
	return newShapeCollection(c.space.geo, shapes, allowMultiOverlap)
}

// Text returns a description of s, using the geometry engine for
// geometries.
func (c *Context) Text(s Shape) string {
	if g, ok := s.(*GeometryShape); ok && c.engine != nil {
		return c.engine.Text(g.handle)
	}
	return s.String()
}
