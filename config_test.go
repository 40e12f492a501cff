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
	"os"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"gonum.org/v1/gonum/floats"
)

func readTestConfig(t *testing.T, path string) *Config {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := ReadConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestReadConfig(t *testing.T) {
	os.Setenv("SPATIAL_TEST_SR", "+proj=longlat +a=6370997 +b=6370997")
	defer os.Unsetenv("SPATIAL_TEST_SR")

	t.Run("geo", func(t *testing.T) {
		cfg := readTestConfig(t, "testdata/geo.toml")
		want := &Config{
			Geo:                 true,
			PrecisionScale:      0.000001,
			DatelineRule:        "ccwRect",
			DistCalculator:      "vincentySphere",
			DistanceUnits:       "meters",
			SpatialReference:    "+proj=longlat +a=6370997 +b=6370997",
			AllowMultiOverlap:   true,
			SimilarityTolerance: 0.001,
		}
		if diff := pretty.Diff(cfg, want); len(diff) != 0 {
			t.Fatal(diff)
		}
		c, err := NewContext(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		calc, ok := c.Calculator().(*GeodesicCalculator)
		if !ok {
			t.Fatalf("calculator = %v", c.Calculator())
		}
		if calc.Radius != 6370997 || calc.Formula != VincentySphere {
			t.Errorf("calculator = %v", calc)
		}
		if c.DatelineRule() != DatelineCCWRect || !c.IsAllowMultiOverlap() || c.Space().Precision() != 0.000001 {
			t.Errorf("context = %v", c)
		}
	})

	t.Run("cartesian", func(t *testing.T) {
		cfg := readTestConfig(t, "testdata/cartesian.toml")
		want := &Config{
			WorldBounds:           []float64{0, 1000, 0, 500},
			UseGeometryLineString: true,
		}
		if diff := pretty.Diff(cfg, want); len(diff) != 0 {
			t.Fatal(diff)
		}
		c, err := NewContext(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		if minX, maxX, minY, maxY := c.Space().Bounds(); minX != 0 || maxX != 1000 || minY != 0 || maxY != 500 {
			t.Errorf("bounds = %g %g %g %g", minX, maxX, minY, maxY)
		}
		if c.DatelineRule() != DatelineNone {
			t.Errorf("dateline rule = %v", c.DatelineRule())
		}
	})
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		msg  string
	}{
		{
			name: "cartesian calculator on a sphere",
			cfg:  &Config{Geo: true, DistCalculator: "cartesian"},
			msg:  "cannot be used with a geodetic space",
		},
		{
			name: "great circles on a plane",
			cfg:  &Config{WorldBounds: []float64{0, 1, 0, 1}, DistCalculator: "haversine"},
			msg:  "requires a geodetic space",
		},
		{
			name: "dateline rule on a plane",
			cfg:  &Config{WorldBounds: []float64{0, 1, 0, 1}, DatelineRule: "width180"},
			msg:  "requires a geodetic space",
		},
		{
			name: "missing world bounds",
			cfg:  &Config{WorldBounds: []float64{0, 1}},
			msg:  "WorldBounds must have 4 values",
		},
		{
			name: "unknown units",
			cfg:  &Config{Geo: true, DistanceUnits: "furlongs"},
			msg:  "invalid distance units",
		},
		{
			name: "negative tolerance",
			cfg:  &Config{Geo: true, SimilarityTolerance: -1},
			msg:  "SimilarityTolerance",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewContext(test.cfg, nil)
			if err == nil || !strings.Contains(err.Error(), test.msg) {
				t.Errorf("error %v should contain %q", err, test.msg)
			}
		})
	}
}

func TestConfigRadius(t *testing.T) {
	for _, test := range []struct {
		units string
		want  float64
	}{
		{"kilometers", 6371.0087714},
		{"meters", 6371008.7714},
		{"miles", 6371008.7714 / 1609.344},
	} {
		cfg := DefaultGeoConfig()
		cfg.DistanceUnits = test.units
		c, err := NewContext(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		if r := c.Calculator().(*GeodesicCalculator).Radius; !floats.EqualWithinRel(r, test.want, 1e-12) {
			t.Errorf("%s: radius = %g, want %g", test.units, r, test.want)
		}
	}
	cfg := DefaultGeoConfig()
	cfg.EarthRadius = 1000
	cfg.DistanceUnits = "kilometers"
	c, err := NewContext(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r := c.Calculator().(*GeodesicCalculator).Radius; r != 1 {
		t.Errorf("radius = %g, want 1", r)
	}
}
