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
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"github.com/ctessum/sparse"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// biomes maps plottable region names to their extents in degrees:
// south, north, west, east.
var biomes = map[string][4]float64{
	"global": {-90, 90, -180, 180},
	"amazon": {-20, 10, -80, -40},
	"boreal": {45, 80, -180, 180},
}

// fieldLevels and fieldColors define the fixed color-threshold palette
// for field plots: values between fieldLevels[i] and fieldLevels[i+1]
// render as fieldColors[i]; values past the last level take the last
// color.
var (
	fieldLevels = []float64{0, 0.075, 0.15, 0.25, 0.75, 1.5, 3.5, 7.5, 12.5, 17.5, 22.0}
	fieldColors = []color.NRGBA{
		{R: 0, G: 191, B: 255, A: 255},   // deep sky blue
		{R: 0, G: 255, B: 255, A: 255},   // cyan
		{R: 0, G: 128, B: 0, A: 255},     // green
		{R: 173, G: 255, B: 47, A: 255},  // green yellow
		{R: 255, G: 255, B: 0, A: 255},   // yellow
		{R: 244, G: 164, B: 96, A: 255},  // sandy brown
		{R: 255, G: 140, B: 0, A: 255},   // dark orange
		{R: 255, G: 0, B: 0, A: 255},     // red
		{R: 178, G: 34, B: 34, A: 255},   // firebrick
		{R: 75, G: 0, B: 130, A: 255},    // indigo
	}
)

// levelColor returns the palette color for value v.
func levelColor(v float64) color.NRGBA {
	for i := len(fieldLevels) - 2; i >= 0; i-- {
		if v >= fieldLevels[i] {
			return fieldColors[i]
		}
	}
	return fieldColors[0]
}

// GlobalPlot renders field over the model's grid for the named biome
// region. field must have shape [len(m.Lat), len(m.Lon)]; width is the
// output image width in pixels. The model must have grid metadata.
func (m *ModelResult) GlobalPlot(field *sparse.DenseArray, biome string, width int) (image.Image, error) {
	ext, ok := biomes[biome]
	if !ok {
		return nil, fmt.Errorf("modeleval: unknown biome %q", biome)
	}
	if m.Lat == nil || m.LatBnds == nil {
		return nil, fmt.Errorf("modeleval: model %s has no grid information to plot on", m.Name)
	}
	if len(field.Shape) != 2 || field.Shape[0] != len(m.Lat) || field.Shape[1] != len(m.Lon) {
		return nil, fmt.Errorf("modeleval: field shape %v does not match the %d x %d grid",
			field.Shape, len(m.Lat), len(m.Lon))
	}
	s, n, w, e := ext[0], ext[1], ext[2], ext[3]
	mp := carto.NewRasterMap(n, s, e, w, width)
	ls := draw.LineStyle{Width: 0.1 * vg.Millimeter}
	var glyph draw.GlyphStyle
	for j := range m.Lat {
		for i := range m.Lon {
			c := levelColor(field.Get(j, i))
			ls.Color = c
			for _, cell := range cellPolygons(m.LatBnds[j], m.LatBnds[j+1], m.LonBnds[i], m.LonBnds[i+1]) {
				if err := mp.DrawVector(cell, c, ls, glyph); err != nil {
					return nil, fmt.Errorf("modeleval: drawing grid cell (%d,%d): %v", j, i, err)
				}
			}
		}
	}
	return mp.I, nil
}

// WritePlotPNG renders field for the named biome and encodes the
// result as PNG to w.
func (m *ModelResult) WritePlotPNG(w io.Writer, field *sparse.DenseArray, biome string, width int) error {
	img, err := m.GlobalPlot(field, biome, width)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// cellPolygons builds the polygon(s) covering one grid cell,
// normalizing longitudes to [-180,180] and splitting cells that cross
// the dateline. Cell bounds are assumed to lie in [-180,360).
func cellPolygons(s, n, w, e float64) []geom.Polygon {
	if w >= 180 {
		w -= 360
		e -= 360
	}
	rect := func(w, e float64) geom.Polygon {
		return geom.Polygon{{
			geom.Point{X: w, Y: s},
			geom.Point{X: e, Y: s},
			geom.Point{X: e, Y: n},
			geom.Point{X: w, Y: n},
			geom.Point{X: w, Y: s},
		}}
	}
	if e > 180 {
		return []geom.Polygon{rect(w, 180), rect(-180, e-360)}
	}
	return []geom.Polygon{rect(w, e)}
}
