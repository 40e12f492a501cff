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
	"bytes"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/kr/pretty"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/spatial"
)

// run executes the root command with the given arguments and returns
// its output.
func run(t *testing.T, args ...string) string {
	buf := bytes.NewBuffer(nil)
	Root.SetOutput(buf)
	Root.SetArgs(args)
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func setGeo() {
	Cfg.Set("config", "")
	Cfg.Set("Geo", true)
	Cfg.Set("DistCalculator", "")
	Cfg.Set("DistanceUnits", "kilometers")
	Cfg.Set("op", "Intersects")
	Cfg.Set("radius", 0.0)
}

func TestVersion(t *testing.T) {
	setGeo()
	out := run(t, "version")
	if want := "spatial v" + spatial.Version; !strings.Contains(out, want) {
		t.Errorf("output %q does not contain %q", out, want)
	}
}

func TestRelateCmd(t *testing.T) {
	setGeo()
	tests := []struct {
		a, b, want string
	}{
		{a: "box", b: "point", want: "CONTAINS"},
		{a: "point", b: "box", want: "WITHIN"},
		{a: "box", b: "far", want: "DISJOINT"},
		{a: "triangle", b: "point", want: "CONTAINS"},
		{a: "triangle", b: "far", want: "DISJOINT"},
	}
	for _, test := range tests {
		t.Run(test.a+"_"+test.b, func(t *testing.T) {
			out := run(t, "relate", "testdata/"+test.a+".geojson", "testdata/"+test.b+".geojson")
			if strings.TrimSpace(out) != test.want {
				t.Errorf("%s relate %s = %q, want %q", test.a, test.b, out, test.want)
			}
		})
	}
}

func TestEvaluateCmd(t *testing.T) {
	setGeo()
	tests := []struct {
		name, op, indexed, query string
		radius                   float64
		want                     string
	}{
		{
			name: "contains", op: "Contains", indexed: "box", query: "point",
			want: "Contains: true\nscore: 0\n",
		},
		{
			name: "within", op: "IsWithin", indexed: "point", query: "box",
			want: "IsWithin: true\n",
		},
		{
			name: "disjoint", op: "IsDisjointTo", indexed: "box", query: "far",
			want: "IsDisjointTo: true\n",
		},
		{
			name: "circle", op: "Intersects", indexed: "box", query: "far", radius: 100,
			want: "Intersects: false\n",
		},
		{
			name: "circle match", op: "intersects", indexed: "box", query: "point", radius: 100,
			want: "Intersects: true\nscore: 0\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			Cfg.Set("op", test.op)
			Cfg.Set("radius", test.radius)
			out := run(t, "evaluate", "testdata/"+test.indexed+".geojson", "testdata/"+test.query+".geojson")
			if out != test.want {
				t.Errorf("have %q, want %q", out, test.want)
			}
		})
	}
	Cfg.Set("op", "Distance2")
	Cfg.Set("radius", 0.0)
	Root.SetArgs([]string{"evaluate", "testdata/box.geojson", "testdata/point.geojson"})
	if err := Root.Execute(); err == nil {
		t.Error("expected an error for an unknown operation")
	}
	Cfg.Set("op", "Intersects")
}

func TestDistanceCmd(t *testing.T) {
	setGeo()
	Cfg.Set("from", "0,0")
	Cfg.Set("to", "1,0")
	out := run(t, "distance")
	d, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d-111.195) > 0.001 {
		t.Errorf("distance = %g km, want 111.195", d)
	}
}

func TestOperationsCmd(t *testing.T) {
	setGeo()
	out := run(t, "operations")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(spatial.Operations()) {
		t.Fatalf("have %d operations, want %d", len(lines), len(spatial.Operations()))
	}
	if !strings.HasPrefix(lines[0], "BBoxIntersects") {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestOptionFlags(t *testing.T) {
	for _, option := range options {
		f := option.flagset.Lookup(option.name)
		if f == nil {
			t.Errorf("option %s has no flag", option.name)
			continue
		}
		var want string
		switch option.defaultVal.(type) {
		case string:
			want = "string"
		case bool:
			want = "bool"
		case float64:
			want = "float64"
		}
		if f.Value.Type() != want {
			t.Errorf("flag %s has type %s, want %s", option.name, f.Value.Type(), want)
		}
		if f.Shorthand != option.shorthand {
			t.Errorf("flag %s has shorthand %q, want %q", option.name, f.Shorthand, option.shorthand)
		}
	}
	if f := Root.PersistentFlags().Lookup("verbose"); f == nil || f.Shorthand != "v" {
		t.Errorf("verbose flag = %v", f)
	}
	if f := evaluateCmd.Flags().Lookup("radius"); f == nil || f.DefValue != "0" {
		t.Errorf("radius flag = %v", f)
	}
}

func TestContextConfig(t *testing.T) {
	setGeo()
	Cfg.Set("Geo", false)
	Cfg.Set("WorldBounds", "[0, 1000, 0, 500]")
	Cfg.Set("PrecisionScale", "0.5")
	cfg, err := ContextConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Log = nil
	want := &spatial.Config{
		WorldBounds:    []float64{0, 1000, 0, 500},
		PrecisionScale: 0.5,
		DistanceUnits:  "kilometers",
	}
	if diff := pretty.Diff(cfg, want); len(diff) != 0 {
		t.Fatal(diff)
	}
	Cfg.Set("WorldBounds", "")
	Cfg.Set("PrecisionScale", 0.0)
	Cfg.Set("Geo", true)
}

func TestToFloat64SliceE(t *testing.T) {
	want := []float64{-1, 2.5}
	for _, v := range []interface{}{
		"[-1, 2.5]",
		"-1, 2.5",
		[]interface{}{int64(-1), 2.5},
		[]string{"-1", "2.5"},
		[]float64{-1, 2.5},
	} {
		have, err := toFloat64SliceE(v)
		if err != nil {
			t.Errorf("%#v: %v", v, err)
			continue
		}
		if diff := pretty.Diff(have, want); len(diff) != 0 {
			t.Errorf("%#v: %v", v, diff)
		}
	}
	if _, err := toFloat64SliceE("[1, x]"); err == nil {
		t.Error("expected an error")
	}
	if _, err := toFloat64SliceE(3); err == nil {
		t.Error("expected an error")
	}
}

func TestShapeFromGeom(t *testing.T) {
	setGeo()
	c, err := NewContext(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	s, err := ReadShape(c, "testdata/dateline.geojson")
	if err != nil {
		t.Fatal(err)
	}
	r, ok := s.(spatial.Rectangle)
	if !ok {
		t.Fatalf("dateline box should be a rectangle, is %T", s)
	}
	if !r.CrossesDateline() || r.MinX() != 170 || r.MaxX() != -170 {
		t.Errorf("rectangle = %v", r)
	}

	s, err = ReadShape(c, "testdata/triangle.geojson")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*spatial.GeometryShape); !ok {
		t.Errorf("triangle should be a geometry, is %T", s)
	}

	for _, p := range []geom.Polygon{
		{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}},
		{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0.5, Y: 1}}},
		{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}}},
	} {
		if isRectangle(p) {
			t.Errorf("%v should not be a rectangle", p)
		}
	}

	if _, err := ReadShape(c, "testdata/missing.geojson"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestShapefile(t *testing.T) {
	setGeo()
	type record struct {
		geom.Polygon
		Name string
	}
	path := filepath.Join(t.TempDir(), "boxes.shp")
	e, err := shp.NewEncoder(path, record{})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []record{
		{
			Polygon: geom.Polygon{{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}}},
			Name:    "a",
		},
		{
			Polygon: geom.Polygon{{{X: 20, Y: 0}, {X: 20, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 0}, {X: 20, Y: 0}}},
			Name:    "b",
		},
	} {
		if err := e.Encode(r); err != nil {
			t.Fatal(err)
		}
	}
	e.Close()

	c, err := NewContext(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	s, err := ReadShape(c, path)
	if err != nil {
		t.Fatal(err)
	}
	col, ok := s.(*spatial.ShapeCollection)
	if !ok {
		t.Fatalf("shapefile should be read as a collection, is %T", s)
	}
	if n := len(col.Shapes()); n != 2 {
		t.Errorf("collection has %d shapes, want 2", n)
	}

	out := run(t, "relate", path, "testdata/point.geojson")
	if strings.TrimSpace(out) != "CONTAINS" {
		t.Errorf("relate = %q, want CONTAINS", out)
	}
	out = run(t, "relate", path, "testdata/far.geojson")
	if strings.TrimSpace(out) != "DISJOINT" {
		t.Errorf("relate = %q, want DISJOINT", out)
	}
}

func TestConfigFile(t *testing.T) {
	old := Cfg
	defer func() { Cfg = old }()

	Cfg = viper.New()
	Cfg.Set("config", "testdata/cartesian.toml")
	Cfg.Set("from", "0,0")
	Cfg.Set("to", "3,4")
	out := run(t, "distance")
	if strings.TrimSpace(out) != "5" {
		t.Errorf("distance = %q, want 5", out)
	}

	Cfg = viper.New()
	Cfg.Set("config", "testdata/missing.toml")
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err == nil {
		t.Error("expected an error for a missing configuration file")
	}
}
