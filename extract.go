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
	"math"
	"os"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// timeEpoch is the time origin for all composed series: extracted time
// coordinates are expressed in days since this instant.
var timeEpoch = time.Date(1850, time.January, 1, 0, 0, 0, 0, time.UTC)

// A PointExtractor extracts a time series for one variable at one
// location from one file, returning the times [days since 1850-1-1],
// the values, and the unit the values are stored in. It returns a
// VarNotInFileError when the file cannot supply the variable.
type PointExtractor func(path, varName string, lat, lon float64) (times []float64, value *MaskedArray, unit string, err error)

// A FieldExtractor extracts a full-grid time series for one variable
// from one file, additionally returning the grid's latitude and
// longitude centers. It returns a VarNotInFileError when the file
// cannot supply the variable.
type FieldExtractor func(path, varName string) (times []float64, value *MaskedArray, unit string, lat, lon []float64, err error)

// ExtractPointTimeSeries extracts a time series of varName from the
// NetCDF file at path at the grid cell nearest to the given latitude
// and longitude [degrees]. The variable must be laid out as
// (time, lat, lon).
func ExtractPointTimeSeries(path, varName string, lat, lon float64) ([]float64, *MaskedArray, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, "", err
	}
	defer f.Close()
	ff, nrec, err := openNCF(f, path)
	if err != nil {
		return nil, nil, "", err
	}
	times, v, unit, latc, lonc, err := extractSeries(ff, path, varName, nrec)
	if err != nil {
		return nil, nil, "", err
	}
	if len(v.Data.Shape) != 3 || latc == nil || lonc == nil {
		return nil, nil, "", VarNotInFileError{Variable: varName, Path: path}
	}
	j := nearestIndex(latc, lat, math.Abs)
	i := nearestIndex(lonc, lon, lonDistance)

	nt := len(times)
	ny, nx := len(latc), len(lonc)
	out := sparse.ZerosDense(nt)
	mask := v.Mask
	if !v.Scalar() {
		mask = make([]bool, nt)
	}
	for k := 0; k < nt; k++ {
		idx := (k*ny+j)*nx + i
		out.Elements[k] = v.Data.Elements[idx]
		if !v.Scalar() {
			mask[k] = v.Mask[idx]
		}
	}
	return times, &MaskedArray{Data: out, Mask: mask}, unit, nil
}

// ExtractTimeSeries extracts a full-grid time series of varName from
// the NetCDF file at path, along with the latitude and longitude
// centers of the file's grid.
func ExtractTimeSeries(path, varName string) ([]float64, *MaskedArray, string, []float64, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, "", nil, nil, err
	}
	defer f.Close()
	ff, nrec, err := openNCF(f, path)
	if err != nil {
		return nil, nil, "", nil, nil, err
	}
	return extractSeries(ff, path, varName, nrec)
}

// openNCF opens f as a NetCDF file and determines its record count.
func openNCF(f *os.File, path string) (*cdf.File, int, error) {
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, 0, fmt.Errorf("modeleval: opening %s: %v", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, 0, err
	}
	return ff, int(ff.Header.NumRecs(fi.Size())), nil
}

// extractSeries reads varName and its coordinates from ff. Variables
// that are absent or that lack a leading time dimension yield a
// VarNotInFileError; they cannot contribute to a time series.
func extractSeries(ff *cdf.File, path, varName string, nrec int) (times []float64, v *MaskedArray, unit string, lat, lon []float64, err error) {
	if len(ff.Header.Lengths(varName)) == 0 {
		return nil, nil, "", nil, nil, VarNotInFileError{Variable: varName, Path: path}
	}
	dims := ff.Header.Dimensions(varName)
	if len(dims) == 0 || dims[0] != "time" || len(ff.Header.Lengths("time")) == 0 {
		return nil, nil, "", nil, nil, VarNotInFileError{Variable: varName, Path: path}
	}

	tArr, err := readVar(ff, path, "time", nrec)
	if err != nil {
		return nil, nil, "", nil, nil, err
	}
	offset, err := epochOffset(attrString(ff, "time", "units"), path)
	if err != nil {
		return nil, nil, "", nil, nil, err
	}
	times = make([]float64, len(tArr.Elements))
	for i, t := range tArr.Elements {
		times[i] = t + offset
	}

	data, err := readVar(ff, path, varName, nrec)
	if err != nil {
		return nil, nil, "", nil, nil, err
	}
	fill, hasFill := fillValue(ff, varName)
	v = &MaskedArray{Data: data, Mask: maskFill(data, fill, hasFill)}
	unit = attrString(ff, varName, "units")

	if latArr, latErr := readVar(ff, path, "lat", nrec); latErr == nil {
		lat = latArr.Elements
	}
	if lonArr, lonErr := readVar(ff, path, "lon", nrec); lonErr == nil {
		lon = lonArr.Elements
	}
	return times, v, unit, lat, lon, nil
}

// readVar reads the entire variable v from ff into a dense array,
// converting from whatever numeric type it is stored in.
func readVar(ff *cdf.File, path, v string, nrec int) (*sparse.DenseArray, error) {
	lengths := ff.Header.Lengths(v)
	if len(lengths) == 0 {
		return nil, VarNotInFileError{Variable: v, Path: path}
	}
	dims := make([]int, len(lengths))
	copy(dims, lengths)
	var r cdf.Reader
	if dims[0] == 0 { // record variable
		dims[0] = nrec
		begin := make([]int, len(dims))
		end := make([]int, len(dims))
		end[0] = nrec
		r = ff.Reader(v, begin, end)
	} else {
		r = ff.Reader(v, nil, nil)
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("modeleval: reading variable %s from %s: %v", v, path, err)
	}
	data := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float64:
		copy(data.Elements, b)
	case []float32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	case []int32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	case []int16:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("modeleval: variable %s in %s has unsupported type %T", v, path, buf)
	}
	return data, nil
}

// attrString returns attribute a of variable v as a string, or "" if
// it is absent or not character data.
func attrString(ff *cdf.File, v, a string) string {
	if s, ok := ff.Header.GetAttribute(v, a).(string); ok {
		return s
	}
	return ""
}

// fillValue returns the fill or missing value declared for variable v.
func fillValue(ff *cdf.File, v string) (float64, bool) {
	for _, a := range []string{"_FillValue", "missing_value"} {
		switch val := ff.Header.GetAttribute(v, a).(type) {
		case []float32:
			if len(val) > 0 {
				return float64(val[0]), true
			}
		case []float64:
			if len(val) > 0 {
				return val[0], true
			}
		}
	}
	return 0, false
}

// maskFill builds the validity mask for data given its declared fill
// value. When nothing is masked the mask collapses to a single scalar
// entry.
func maskFill(data *sparse.DenseArray, fill float64, hasFill bool) []bool {
	if !hasFill {
		return []bool{false}
	}
	var masked bool
	mask := make([]bool, len(data.Elements))
	for i, v := range data.Elements {
		if v == fill || math.IsNaN(v) {
			mask[i] = true
			masked = true
		}
	}
	if !masked {
		return []bool{false}
	}
	return mask
}

// cfTimeLayouts are the reference-date formats accepted in CF-style
// time units attributes.
var cfTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

// epochOffset parses a CF "days since <date>" units attribute and
// returns the number of days separating that reference date from
// timeEpoch.
func epochOffset(units, path string) (float64, error) {
	const prefix = "days since "
	if !strings.HasPrefix(units, prefix) {
		return 0, fmt.Errorf("modeleval: unsupported time units %q in %s", units, path)
	}
	ref := strings.TrimSpace(strings.TrimPrefix(units, prefix))
	for _, layout := range cfTimeLayouts {
		if t, err := time.Parse(layout, ref); err == nil {
			return t.Sub(timeEpoch).Hours() / 24, nil
		}
	}
	return 0, fmt.Errorf("modeleval: cannot parse time reference date in %q in %s", units, path)
}

// nearestIndex returns the index of the coordinate closest to v under
// the given distance function.
func nearestIndex(coords []float64, v float64, dist func(float64) float64) int {
	best := 0
	for i, c := range coords {
		if dist(c-v) < dist(coords[best]-v) {
			best = i
		}
	}
	return best
}

// lonDistance measures separation between longitudes, accounting for
// wrap-around so that, e.g., -75 and 285 degrees coincide.
func lonDistance(d float64) float64 {
	d = math.Mod(math.Abs(d), 360)
	return math.Min(d, 360-d)
}
