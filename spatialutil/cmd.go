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
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/spatial"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagset                *pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the spatial command.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagset                *pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "verbose",
			usage: `
              verbose specifies whether to print debugging messages.`,
			shorthand:  "v",
			defaultVal: false,
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "Geo",
			usage: `
              Geo specifies whether coordinates are longitude and latitude
              in degrees. If false, coordinates are Cartesian and are
              bounded by WorldBounds.`,
			defaultVal: true,
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "WorldBounds",
			usage: `
              WorldBounds specifies the minimum X, maximum X, minimum Y and
              maximum Y of a Cartesian coordinate space, for example
              "[0, 1000, 0, 500]". It is ignored when Geo is true.`,
			defaultVal: "",
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "PrecisionScale",
			usage: `
              PrecisionScale specifies the grid size that coordinates are
              rounded to. Zero means coordinates are not rounded.`,
			defaultVal: 0.0,
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "DatelineRule",
			usage: `
              DatelineRule specifies how rectangles that may cross the
              dateline are interpreted: "none", "width180" or "ccwRect".
              The default depends on whether Geo is true.`,
			defaultVal: "",
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "DistCalculator",
			usage: `
              DistCalculator specifies how distances are calculated:
              "cartesian", "haversine", "lawOfCosines" or "vincentySphere".
              The default depends on whether Geo is true.`,
			defaultVal: "",
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "DistanceUnits",
			usage: `
              DistanceUnits specifies the units of geodetic distances:
              "kilometers", "meters", "miles" or "degrees".`,
			defaultVal: "kilometers",
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "EarthRadius",
			usage: `
              EarthRadius specifies the radius of the sphere used for
              geodetic distances, in meters. If it is zero, the radius is
              taken from SpatialReference or the mean radius of the earth
              is used.`,
			defaultVal: 0.0,
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "SpatialReference",
			usage: `
              SpatialReference specifies a PROJ4 or WKT definition whose
              ellipsoid determines the sphere radius. It can contain
              environment variables.`,
			defaultVal: "",
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "AllowMultiOverlap",
			usage: `
              AllowMultiOverlap specifies whether the parts of a geometry
              may overlap each other.`,
			defaultVal: false,
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "UseGeometryLineString",
			usage: `
              UseGeometryLineString specifies whether line strings are
              handled by the geometry engine rather than as buffered lines.`,
			defaultVal: false,
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "SimilarityTolerance",
			usage: `
              SimilarityTolerance specifies the coordinate tolerance used
              by the SimilarTo operation.`,
			defaultVal: 0.0,
			flagset:    Root.PersistentFlags(),
		},
		{
			name: "op",
			usage: `
              op specifies the spatial operation to evaluate. Run
              'spatial operations' for the available operations.`,
			defaultVal: "Intersects",
			flagset:    evaluateCmd.Flags(),
		},
		{
			name: "radius",
			usage: `
              radius turns a point query into a circle with the given
              radius, in DistanceUnits. Zero leaves the query unchanged.`,
			defaultVal: 0.0,
			flagset:    evaluateCmd.Flags(),
		},
		{
			name: "from",
			usage: `
              from specifies the first point as "x,y".`,
			defaultVal: "",
			flagset:    distanceCmd.Flags(),
		},
		{
			name: "to",
			usage: `
              to specifies the second point as "x,y".`,
			defaultVal: "",
			flagset:    distanceCmd.Flags(),
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SPATIAL")
	Cfg.AutomaticEnv()

	for _, option := range options {
		set := option.flagset
		switch v := option.defaultVal.(type) {
		case string:
			set.StringP(option.name, option.shorthand, v, option.usage)
		case bool:
			set.BoolP(option.name, option.shorthand, v, option.usage)
		case float64:
			set.Float64P(option.name, option.shorthand, v, option.usage)
		default:
			panic(fmt.Errorf("spatialutil: option %s has unsupported type %T", option.name, v))
		}
		Cfg.BindPFlag(option.name, set.Lookup(option.name))
	}
}

func init() {
	Root.AddCommand(versionCmd)
	Root.AddCommand(relateCmd)
	Root.AddCommand(evaluateCmd)
	Root.AddCommand(distanceCmd)
	Root.AddCommand(operationsCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("spatial: problem reading configuration file: %v", err)
		}
	}
	return nil
}

func setLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
	if Cfg.GetBool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "spatial",
	Short: "Relate geospatial shapes.",
	Long: `spatial relates points, rectangles, circles and polygons to each other
in either a geodetic (longitude/latitude) or a Cartesian coordinate space.
Shapes are read from GeoJSON files.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SPATIAL_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		setLogging()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of spatial.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("spatial v%s\n", spatial.Version)
	},
	DisableAutoGenTag: true,
}

var relateCmd = &cobra.Command{
	Use:   "relate a.geojson b.geojson",
	Short: "Relate two shapes.",
	Long: `relate prints the spatial relation of the shape in the first GeoJSON
file to the shape in the second: DISJOINT, INTERSECTS, WITHIN or CONTAINS.
Axis-aligned rectangular polygons are treated as rectangles.`,
	Args:              cobra.ExactArgs(2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := NewContext(Cfg)
		if err != nil {
			return err
		}
		a, err := ReadShape(c, args[0])
		if err != nil {
			return err
		}
		b, err := ReadShape(c, args[1])
		if err != nil {
			return err
		}
		r, err := c.Relate(a, b)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"a": a, "b": b}).Debug("related shapes")
		cmd.Println(r)
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate indexed.geojson query.geojson",
	Short: "Evaluate a spatial operation.",
	Long: `evaluate prints whether the indexed shape in the first GeoJSON file
matches the query shape in the second under the operation given by --op.
When the operation can be scored and the query is a point or circle, the
distance score of the match is printed as well.`,
	Args:              cobra.ExactArgs(2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := spatial.ParseSpatialOperation(Cfg.GetString("op"))
		if err != nil {
			return err
		}
		c, err := NewContext(Cfg)
		if err != nil {
			return err
		}
		indexed, err := ReadShape(c, args[0])
		if err != nil {
			return err
		}
		query, err := ReadShape(c, args[1])
		if err != nil {
			return err
		}
		if radius := Cfg.GetFloat64("radius"); radius > 0 {
			p, ok := query.(spatial.Point)
			if !ok {
				return fmt.Errorf("spatial: --radius requires a point query, not %v", query)
			}
			if query, err = c.MakeCircle(p, radius); err != nil {
				return err
			}
		}
		ok, err := c.Evaluate(op, indexed, query)
		if err != nil {
			return err
		}
		cmd.Printf("%v: %v\n", op, ok)
		if !ok || !op.ScoreIsMeaningful() {
			return nil
		}
		switch query.(type) {
		case spatial.Point, spatial.Circle:
			s, err := c.Score(query, indexed)
			if err != nil {
				return err
			}
			cmd.Printf("score: %g\n", s)
		}
		return nil
	},
}

var distanceCmd = &cobra.Command{
	Use:   "distance",
	Short: "Calculate the distance between two points.",
	Long: `distance prints the distance between the points given by --from and
--to using the configured distance calculator and units.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := NewContext(Cfg)
		if err != nil {
			return err
		}
		from, err := parsePoint(c, Cfg.GetString("from"))
		if err != nil {
			return fmt.Errorf("from: %v", err)
		}
		to, err := parsePoint(c, Cfg.GetString("to"))
		if err != nil {
			return fmt.Errorf("to: %v", err)
		}
		cmd.Printf("%g\n", c.Calculator().Distance(from, to))
		return nil
	},
}

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List the spatial operations.",
	Long: `operations lists the spatial operations that can be used with
'spatial evaluate --op', along with whether their matches can be scored
and whether they require the indexed or query shape to have area.`,
	DisableAutoGenTag: true,
	Run: func(cmd *cobra.Command, args []string) {
		for _, op := range spatial.Operations() {
			cmd.Printf("%-16s score=%-5v sourceNeedsArea=%-5v targetNeedsArea=%v\n",
				op, op.ScoreIsMeaningful(), op.SourceNeedsArea(), op.TargetNeedsArea())
		}
	},
}
