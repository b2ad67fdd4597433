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
	"os"

	"github.com/ctessum/cdf"
)

// seriesFillValue marks masked points in written series files.
const seriesFillValue = 1e20

// WriteSeries writes a composite time series to w as a NetCDF file.
// The value array must have shape [len(times)] for a point series or
// [len(times), len(lat), len(lon)] for a field series; lat and lon may
// be nil for point series. Masked points are written as
// seriesFillValue and declared through the _FillValue attribute, so a
// written series survives a round trip through ExtractTimeSeries.
func WriteSeries(w *os.File, name, unit string, times []float64, v *MaskedArray, lat, lon []float64) error {
	if len(v.Data.Shape) == 0 || v.Data.Shape[0] != len(times) {
		return fmt.Errorf("modeleval: writing %s: %d times for value shape %v",
			name, len(times), v.Data.Shape)
	}
	dims := []string{"time"}
	lengths := []int{len(times)}
	switch len(v.Data.Shape) {
	case 1:
	case 3:
		if len(lat) != v.Data.Shape[1] || len(lon) != v.Data.Shape[2] {
			return fmt.Errorf("modeleval: writing %s: %d x %d coordinates for value shape %v",
				name, len(lat), len(lon), v.Data.Shape)
		}
		dims = append(dims, "lat", "lon")
		lengths = append(lengths, len(lat), len(lon))
	default:
		return fmt.Errorf("modeleval: writing %s: unsupported value shape %v", name, v.Data.Shape)
	}

	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "composite model result time series")
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", "days since 1850-01-01 00:00:00")
	if len(dims) == 3 {
		h.AddVariable("lat", []string{"lat"}, []float64{0})
		h.AddAttribute("lat", "units", "degrees_north")
		h.AddVariable("lon", []string{"lon"}, []float64{0})
		h.AddAttribute("lon", "units", "degrees_east")
	}
	h.AddVariable(name, dims, []float64{0})
	h.AddAttribute(name, "units", unit)
	h.AddAttribute(name, "_FillValue", []float64{seriesFillValue})
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	if err := writeFloats(f, "time", times); err != nil {
		return err
	}
	if len(dims) == 3 {
		if err := writeFloats(f, "lat", lat); err != nil {
			return err
		}
		if err := writeFloats(f, "lon", lon); err != nil {
			return err
		}
	}
	vals := make([]float64, len(v.Data.Elements))
	for i, e := range v.Data.Elements {
		if v.MaskAt(i) {
			vals[i] = seriesFillValue
		} else {
			vals[i] = e
		}
	}
	if err := writeFloats(f, name, vals); err != nil {
		return err
	}
	return cdf.UpdateNumRecs(w)
}

// writeFloats writes vals into variable v of f.
func writeFloats(f *cdf.File, v string, vals []float64) error {
	end := f.Header.Lengths(v)
	start := make([]int, len(end))
	w := f.Writer(v, start, end)
	if _, err := w.Write(vals); err != nil {
		return fmt.Errorf("modeleval: writing variable %s to netcdf file: %v", v, err)
	}
	return nil
}
