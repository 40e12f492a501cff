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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/geomengine"
	"github.com/spf13/cast"
)

// ContextConfig builds a context configuration from the
// values in cfg.
func ContextConfig(cfg *viper.Viper) (*spatial.Config, error) {
	bounds, err := toFloat64SliceE(cfg.Get("WorldBounds"))
	if err != nil {
		return nil, fmt.Errorf("WorldBounds: %v", err)
	}
	return &spatial.Config{
		Geo:                   cfg.GetBool("Geo"),
		WorldBounds:           bounds,
		PrecisionScale:        cfg.GetFloat64("PrecisionScale"),
		DatelineRule:          cfg.GetString("DatelineRule"),
		DistCalculator:        cfg.GetString("DistCalculator"),
		DistanceUnits:         cfg.GetString("DistanceUnits"),
		EarthRadius:           cfg.GetFloat64("EarthRadius"),
		SpatialReference:      os.ExpandEnv(cfg.GetString("SpatialReference")),
		AllowMultiOverlap:     cfg.GetBool("AllowMultiOverlap"),
		UseGeometryLineString: cfg.GetBool("UseGeometryLineString"),
		SimilarityTolerance:   cfg.GetFloat64("SimilarityTolerance"),
		Log:                   logrus.StandardLogger(),
	}, nil
}

// NewContext creates a context from the values in cfg that is
// backed by the polygon geometry engine.
func NewContext(cfg *viper.Viper) (*spatial.Context, error) {
	c, err := ContextConfig(cfg)
	if err != nil {
		return nil, err
	}
	return spatial.NewContext(c, geomengine.New())
}

// toFloat64SliceE returns a slice of floats from a configuration value
// that may be a list from a configuration file or a JSON string from
// a command line argument.
func toFloat64SliceE(s interface{}) ([]float64, error) {
	switch v := s.(type) {
	case nil:
		return nil, nil
	case []float64:
		return v, nil
	case []interface{}:
		o := make([]float64, len(v))
		for i, val := range v {
			f, err := cast.ToFloat64E(val)
			if err != nil {
				return nil, err
			}
			o[i] = f
		}
		return o, nil
	case []string:
		o := make([]float64, len(v))
		for i, val := range v {
			f, err := cast.ToFloat64E(strings.TrimSpace(val))
			if err != nil {
				return nil, err
			}
			o[i] = f
		}
		return o, nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, nil
		}
		if !strings.HasPrefix(v, "[") {
			return toFloat64SliceE(strings.Split(v, ","))
		}
		var o []float64
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, err
		}
		return o, nil
	}
	return nil, fmt.Errorf("invalid type %T", s)
}

// parsePoint creates a point from a string in the format "x,y".
func parsePoint(c *spatial.Context, s string) (spatial.Point, error) {
	xy, err := toFloat64SliceE(s)
	if err != nil {
		return spatial.Point{}, err
	}
	if len(xy) != 2 {
		return spatial.Point{}, fmt.Errorf("point %q must be in the format \"x,y\"", s)
	}
	return c.MakePoint(xy[0], xy[1])
}
