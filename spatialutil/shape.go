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

package spatialutil

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/spatialmodel/spatial"
)

// ReadShape reads the file at path and converts it into a shape in c.
// Files ending in ".shp" are read as shapefiles, where a file with more
// than one record becomes a shape collection. Anything else is read as
// a GeoJSON geometry.
func ReadShape(c *spatial.Context, path string) (spatial.Shape, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return readShapefile(c, path)
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spatial: reading shape: %v", err)
	}
	g, err := geojson.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("spatial: decoding %s: %v", path, err)
	}
	return ShapeFromGeom(c, g)
}

// ShapeFromGeom converts g into the simplest shape that can represent it.
// Points become points and axis-aligned rectangular polygons become
// rectangles. Everything else is handled by the geometry engine.
func ShapeFromGeom(c *spatial.Context, g geom.Geom) (spatial.Shape, error) {
	switch t := g.(type) {
	case geom.Point:
		return c.MakePoint(t.X, t.Y)
	case geom.Polygon:
		if isRectangle(t) {
			return c.MakeRectFromRectangularGeometry(t)
		}
	}
	return c.MakeShapeFromGeometry(g)
}

// isRectangle returns whether p is a single ring whose vertices are the
// four corners of its bounding box.
func isRectangle(p geom.Polygon) bool {
	if len(p) != 1 {
		return false
	}
	ring := p[0]
	if n := len(ring); n == 5 && ring[0].Equals(ring[4]) {
		ring = ring[:4]
	}
	if len(ring) != 4 {
		return false
	}
	b := p.Bounds()
	if b.Min.X == b.Max.X || b.Min.Y == b.Max.Y {
		return false
	}
	seen := make(map[geom.Point]bool)
	for _, v := range ring {
		if (v.X != b.Min.X && v.X != b.Max.X) || (v.Y != b.Min.Y && v.Y != b.Max.Y) {
			return false
		}
		seen[v] = true
	}
	return len(seen) == 4
}

func readShapefile(c *spatial.Context, path string) (spatial.Shape, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("spatial: opening shapefile: %v", err)
	}
	defer d.Close()

	var shapes []spatial.Shape
	for {
		g, _, more := d.DecodeRowFields()
		if err := d.Error(); err != nil {
			return nil, fmt.Errorf("spatial: reading %s: %v", path, err)
		}
		if !more {
			break
		}
		s, err := ShapeFromGeom(c, g)
		if err != nil {
			return nil, fmt.Errorf("spatial: %s record %d: %v", path, len(shapes), err)
		}
		shapes = append(shapes, s)
	}
	switch len(shapes) {
	case 0:
		return nil, fmt.Errorf("spatial: shapefile %s has no records", path)
	case 1:
		return shapes[0], nil
	}
	return c.MakeShapeCollection(shapes, c.IsAllowMultiOverlap())
}
