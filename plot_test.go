/*
Copyright © 2018 the ModelEval authors.
This file is part of ModelEval.

ModelEval is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ModelEval is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ModelEval.  If not, see <http://www.gnu.org/licenses/>.
*/

package modeleval

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/ctessum/sparse"
)

func plotTestModel() *ModelResult {
	return &ModelResult{
		Name:    "test",
		Lat:     []float64{-45, 45},
		Lon:     []float64{90, 270},
		LatBnds: []float64{-90, 0, 90},
		LonBnds: []float64{0, 180, 360},
	}
}

func TestGlobalPlot(t *testing.T) {
	m := plotTestModel()
	field := sparse.ZerosDense(2, 2)
	copy(field.Elements, []float64{0, 1, 5, 30})
	img, err := m.GlobalPlot(field, "global", 100)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("image size: got %d x %d, want 100 x 50", b.Dx(), b.Dy())
	}
}

func TestGlobalPlotErrors(t *testing.T) {
	m := plotTestModel()
	field := sparse.ZerosDense(2, 2)
	if _, err := m.GlobalPlot(field, "tundra", 100); err == nil {
		t.Error("expected an error for an unknown biome")
	}
	if _, err := m.GlobalPlot(sparse.ZerosDense(1, 2), "global", 100); err == nil {
		t.Error("expected an error for a field that does not match the grid")
	}
	bare := &ModelResult{Name: "bare"}
	if _, err := bare.GlobalPlot(field, "global", 100); err == nil {
		t.Error("expected an error for a model without grid information")
	}
}

func TestWritePlotPNG(t *testing.T) {
	m := plotTestModel()
	field := sparse.ZerosDense(2, 2)
	var buf bytes.Buffer
	if err := m.WritePlotPNG(&buf, field, "amazon", 80); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 80 {
		t.Errorf("image width: got %d, want 80", img.Bounds().Dx())
	}
}

func TestLevelColor(t *testing.T) {
	if c := levelColor(0); c != fieldColors[0] {
		t.Errorf("0: got %v", c)
	}
	if c := levelColor(-5); c != fieldColors[0] {
		t.Errorf("-5: got %v", c)
	}
	if c := levelColor(0.1); c != fieldColors[1] {
		t.Errorf("0.1: got %v", c)
	}
	if c := levelColor(100); c != fieldColors[len(fieldColors)-1] {
		t.Errorf("100: got %v", c)
	}
}

func TestCellPolygons(t *testing.T) {
	if p := cellPolygons(0, 45, 0, 90); len(p) != 1 {
		t.Errorf("simple cell: got %d polygons", len(p))
	}
	// A cell crossing the dateline splits in two.
	if p := cellPolygons(0, 45, 170, 190); len(p) != 2 {
		t.Errorf("dateline cell: got %d polygons", len(p))
	}
	// A cell entirely beyond 180E normalizes to the western hemisphere.
	p := cellPolygons(0, 45, 350, 360)
	if len(p) != 1 {
		t.Fatalf("wrapped cell: got %d polygons", len(p))
	}
	if x := p[0][0][0].X; x != -10 {
		t.Errorf("wrapped cell west edge: got %g, want -10", x)
	}
}
