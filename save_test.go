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
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

func TestWriteSeriesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.nc")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	d := sparse.ZerosDense(3)
	copy(d.Elements, []float64{1, 2, 3})
	v := &MaskedArray{Data: d, Mask: []bool{false, true, false}}
	if err := WriteSeries(f, "pr", "mm/day", []float64{0, 31, 59}, v, nil, nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	times, got, unit, lat, lon, err := ExtractTimeSeries(path, "pr")
	if err != nil {
		t.Fatal(err)
	}
	floatsEqual(t, "times", times, []float64{0, 31, 59})
	if unit != "mm/day" {
		t.Errorf("unit: got %q", unit)
	}
	if lat != nil || lon != nil {
		t.Error("a point series should carry no grid coordinates")
	}
	if !got.MaskAt(1) || got.MaskAt(0) || got.MaskAt(2) {
		t.Errorf("mask did not survive the round trip: %v", got.Mask)
	}
	if got.Data.Elements[0] != 1 || got.Data.Elements[2] != 3 {
		t.Errorf("values did not survive the round trip: %v", got.Data.Elements)
	}
}

func TestWriteSeriesFieldRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.nc")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	d := sparse.ZerosDense(2, 2, 2)
	copy(d.Elements, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	mask := make([]bool, 8)
	mask[7] = true
	v := &MaskedArray{Data: d, Mask: mask}
	gridLat := []float64{-45, 45}
	gridLon := []float64{90, 270}
	if err := WriteSeries(f, "gpp", "kg m-2 s-1", []float64{0, 31}, v, gridLat, gridLon); err != nil {
		t.Fatal(err)
	}
	f.Close()

	times, got, unit, lat, lon, err := ExtractTimeSeries(path, "gpp")
	if err != nil {
		t.Fatal(err)
	}
	floatsEqual(t, "times", times, []float64{0, 31})
	floatsEqual(t, "lat", lat, gridLat)
	floatsEqual(t, "lon", lon, gridLon)
	if unit != "kg m-2 s-1" {
		t.Errorf("unit: got %q", unit)
	}
	if !reflect.DeepEqual(got.Data.Shape, []int{2, 2, 2}) {
		t.Fatalf("shape: got %v", got.Data.Shape)
	}
	if !got.MaskAt(7) || got.MaskAt(6) {
		t.Errorf("mask did not survive the round trip: %v", got.Mask)
	}
	floatsEqual(t, "values", got.Data.Elements[:7], []float64{1, 2, 3, 4, 5, 6, 7})
}

func TestWriteSeriesBadShape(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "bad.nc"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	d := sparse.ZerosDense(3)
	v := &MaskedArray{Data: d, Mask: []bool{false}}
	if err := WriteSeries(f, "pr", "", []float64{0, 31}, v, nil, nil); err == nil {
		t.Error("expected an error for a time/value length mismatch")
	}

	d2 := sparse.ZerosDense(2, 3)
	v2 := &MaskedArray{Data: d2, Mask: []bool{false}}
	if err := WriteSeries(f, "pr", "", []float64{0, 31}, v2, nil, nil); err == nil {
		t.Error("expected an error for a 2-D value array")
	}

	d3 := sparse.ZerosDense(2, 2, 2)
	v3 := &MaskedArray{Data: d3, Mask: []bool{false}}
	if err := WriteSeries(f, "pr", "", []float64{0, 31}, v3, []float64{0}, []float64{0, 1}); err == nil {
		t.Error("expected an error for mismatched grid coordinates")
	}
}
