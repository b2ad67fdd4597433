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
	"testing"

	"github.com/ctessum/sparse"
)

func TestNewMaskedArray(t *testing.T) {
	d := sparse.ZerosDense(3)
	m, err := NewMaskedArray(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Scalar() || m.MaskAt(2) {
		t.Error("nil mask should collapse to a scalar unmasked state")
	}
	if _, err := NewMaskedArray(d, []bool{true, false}); err == nil {
		t.Error("expected an error for a mismatched mask length")
	}
}

func TestTimeAverage(t *testing.T) {
	d := sparse.ZerosDense(3, 2)
	copy(d.Elements, []float64{1, 2, 3, 4, 5, 6})
	mask := []bool{false, false, false, true, false, false}
	m := &MaskedArray{Data: d, Mask: mask}
	avg := m.TimeAverage()
	floatsEqual(t, "average", avg.Elements, []float64{3, 4})
}

func TestTimeAveragePoint(t *testing.T) {
	d := sparse.ZerosDense(3)
	copy(d.Elements, []float64{3, 6, 9})
	m := &MaskedArray{Data: d, Mask: []bool{false}}
	avg := m.TimeAverage()
	floatsEqual(t, "average", avg.Elements, []float64{6})
}

func TestTimeAverageAllMasked(t *testing.T) {
	d := sparse.ZerosDense(2, 1)
	copy(d.Elements, []float64{7, 8})
	m := &MaskedArray{Data: d, Mask: []bool{true}}
	avg := m.TimeAverage()
	floatsEqual(t, "average", avg.Elements, []float64{0})
}
