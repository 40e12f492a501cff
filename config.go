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
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
)

// Config holds the settings used to create a Context.
type Config struct {
	// Geo specifies whether the coordinate space is geodetic
	// (longitude/latitude in degrees) rather than Cartesian.
	Geo bool

	// WorldBounds gives minX, maxX, minY and maxY of a Cartesian
	// coordinate space. It is ignored when Geo is true.
	WorldBounds []float64

	// PrecisionScale is the grid size that coordinates are rounded to.
	// Zero means coordinates are not rounded.
	PrecisionScale float64

	// DatelineRule is one of "none", "width180" or "ccwRect".
	// It defaults to "width180" for geodetic spaces and "none" otherwise.
	DatelineRule string

	// DistCalculator is "cartesian" or one of the great-circle formulas
	// "haversine", "lawOfCosines" or "vincentySphere". The default is
	// "haversine" for geodetic spaces and "cartesian" otherwise.
	DistCalculator string

	// DistanceUnits are the units of geodetic distances: "kilometers"
	// (the default), "meters", "miles" or "degrees".
	DistanceUnits string

	// EarthRadius is the sphere radius in meters. If it is zero, the
	// radius is derived from SpatialReference, or the WGS84 mean radius
	// is used if SpatialReference is also empty.
	EarthRadius float64

	// SpatialReference is a PROJ4 or WKT definition whose ellipsoid
	// determines the sphere radius. It can include environment variables.
	SpatialReference string

	// AllowMultiOverlap specifies whether geometries and collections may
	// contain overlapping parts by default.
	AllowMultiOverlap bool

	// UseGeometryLineString specifies whether line strings are created by
	// the geometry engine instead of as lightweight buffered lines.
	UseGeometryLineString bool

	// SimilarityTolerance is the coordinate tolerance used by the
	// SimilarTo operation.
	SimilarityTolerance float64

	// Log receives diagnostic messages. It defaults to the
	// logrus standard logger.
	Log logrus.FieldLogger `toml:"-"`
}

// DefaultGeoConfig returns the configuration of a geodetic context with
// the width180 dateline rule and haversine distances in kilometers.
func DefaultGeoConfig() *Config {
	return &Config{
		Geo:            true,
		DatelineRule:   DatelineWidth180.String(),
		DistCalculator: Haversine.String(),
		DistanceUnits:  Kilometers.String(),
	}
}

// DefaultCartesianConfig returns the configuration of a Cartesian context
// with the given world bounds.
func DefaultCartesianConfig(minX, maxX, minY, maxY float64) *Config {
	return &Config{
		WorldBounds:    []float64{minX, maxX, minY, maxY},
		DatelineRule:   DatelineNone.String(),
		DistCalculator: "cartesian",
	}
}

// ReadConfig reads a TOML-formatted configuration.
func ReadConfig(r io.Reader) (*Config, error) {
	c := new(Config)
	if _, err := toml.DecodeReader(r, c); err != nil {
		return nil, fmt.Errorf("spatial: reading configuration: %w", err)
	}
	c.SpatialReference = os.ExpandEnv(c.SpatialReference)
	return c, nil
}

// space creates the coordinate space described by c.
func (c *Config) space() (*CoordinateSpace, error) {
	if c.Geo {
		return NewGeoSpace(c.PrecisionScale)
	}
	if len(c.WorldBounds) != 4 {
		return nil, fmt.Errorf("spatial: WorldBounds must have 4 values (minX, maxX, minY, maxY) but has %d", len(c.WorldBounds))
	}
	b := c.WorldBounds
	return NewCartesianSpace(b[0], b[1], b[2], b[3], c.PrecisionScale)
}

func (c *Config) datelineRule() (DatelineRule, error) {
	if c.DatelineRule == "" {
		if c.Geo {
			return DatelineWidth180, nil
		}
		return DatelineNone, nil
	}
	r, err := ParseDatelineRule(c.DatelineRule)
	if err != nil {
		return r, err
	}
	if !c.Geo && r != DatelineNone {
		return r, fmt.Errorf("spatial: dateline rule %v requires a geodetic space", r)
	}
	return r, nil
}

// calculator creates the distance calculator described by c.
func (c *Config) calculator() (DistanceCalculator, error) {
	name := c.DistCalculator
	if name == "" {
		if !c.Geo {
			return CartesianCalculator{}, nil
		}
		name = Haversine.String()
	}
	if name == "cartesian" {
		if c.Geo {
			return nil, fmt.Errorf("spatial: the cartesian distance calculator cannot be used with a geodetic space")
		}
		return CartesianCalculator{}, nil
	}
	if !c.Geo {
		return nil, fmt.Errorf("spatial: distance calculator %q requires a geodetic space", name)
	}
	f, err := ParseFormula(name)
	if err != nil {
		return nil, err
	}
	units := Kilometers
	if c.DistanceUnits != "" {
		if units, err = ParseDistanceUnits(c.DistanceUnits); err != nil {
			return nil, err
		}
	}
	var r *unit.Unit
	switch {
	case c.EarthRadius != 0:
		r = unit.New(c.EarthRadius, unit.Meter)
	case c.SpatialReference != "":
		if r, err = SphereRadius(c.SpatialReference); err != nil {
			return nil, err
		}
	default:
		r = MeanEarthRadius
	}
	radius, err := radiusIn(r, units)
	if err != nil {
		return nil, err
	}
	return &GeodesicCalculator{Radius: radius, Formula: f}, nil
}
