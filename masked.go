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

	"github.com/ctessum/sparse"
)

// MaskedArray pairs array data with a validity mask. Mask holds either
// a single element, which applies to every element of Data, or one
// element for each element of Data. A true mask entry marks the
// corresponding data as invalid.
type MaskedArray struct {
	Data *sparse.DenseArray
	Mask []bool
}

// NewMaskedArray creates a MaskedArray from data and mask.
// A nil mask means no data is masked.
func NewMaskedArray(data *sparse.DenseArray, mask []bool) (*MaskedArray, error) {
	if mask == nil {
		mask = []bool{false}
	}
	if len(mask) != 1 && len(mask) != len(data.Elements) {
		return nil, fmt.Errorf("modeleval: mask length %d does not match data length %d",
			len(mask), len(data.Elements))
	}
	return &MaskedArray{Data: data, Mask: mask}, nil
}

// Scalar reports whether a single mask value applies to the whole array.
func (m *MaskedArray) Scalar() bool { return len(m.Mask) == 1 }

// MaskAt returns whether element i (in flattened index order) is masked.
func (m *MaskedArray) MaskAt(i int) bool {
	if m.Scalar() {
		return m.Mask[0]
	}
	return m.Mask[i]
}

// TimeAverage averages the array over its first dimension, skipping
// masked points. Output elements where every time step is masked are
// left zero.
func (m *MaskedArray) TimeAverage() *sparse.DenseArray {
	shape := m.Data.Shape[1:]
	if len(shape) == 0 {
		shape = []int{1}
	}
	avg := sparse.ZerosDense(shape...)
	count := make([]int, len(avg.Elements))
	spatial := len(avg.Elements)
	for i, v := range m.Data.Elements {
		if m.MaskAt(i) {
			continue
		}
		avg.Elements[i%spatial] += v
		count[i%spatial]++
	}
	for i, n := range count {
		if n > 0 {
			avg.Elements[i] /= float64(n)
		}
	}
	return avg
}
