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
	"sort"

	"github.com/ctessum/sparse"
)

// A candidate is one file/variable-name extraction result under
// consideration for inclusion in a composite series. Its times are
// assumed strictly increasing; its value array's first dimension is
// co-indexed with times and any trailing dimensions are spatial.
type candidate struct {
	times []float64
	value *MaskedArray
	name  string // the variable name it was extracted under
	unit  string
	n     int // time points inside the requested window
}

// countInWindow returns the number of times inside [t0, t1].
func countInWindow(times []float64, t0, t1 float64) int {
	var n int
	for _, t := range times {
		if t >= t0 && t <= t1 {
			n++
		}
	}
	return n
}

// composeSeries merges the given candidates into one composite series
// covering the time window [t0, t1]:
//
// Candidates with no data in the window are discarded. Of the rest,
// only those extracted under the highest-preference name in names with
// any data present are kept; a primary variable split across files is
// never mixed with an alternate. Survivors are ordered by start time,
// overlapping segments are pruned, and the remaining in-window points
// are concatenated. If outputUnit is non-empty and differs from the
// extracted unit, the values are scaled by the registered conversion
// factor.
//
// model names the model in errors; variable is the conversion-table
// key. Failure modes are VarNotInModelError (nothing in the window,
// checked both before and after preference filtering) and
// UnknownUnitError (no registered conversion factor); no partial
// result accompanies either.
func composeSeries(names []string, cands []candidate, t0, t1 float64, variable, outputUnit, model string, convert ConversionTable) ([]float64, *MaskedArray, string, error) {
	kept := make([]candidate, 0, len(cands))
	total := 0
	for _, c := range cands {
		c.n = countInWindow(c.times, t0, t1)
		if c.n == 0 {
			continue
		}
		total += c.n
		kept = append(kept, c)
	}
	if total == 0 {
		return nil, nil, "", VarNotInModelError{Variables: names, Model: model}
	}

	// A model may hold both the variable and its alternates; use only
	// the highest-preference name present.
	var thin []candidate
	for _, name := range names {
		for _, c := range kept {
			if c.name == name {
				thin = append(thin, c)
			}
		}
		if len(thin) > 0 {
			break
		}
	}
	kept = thin

	total = 0
	for _, c := range kept {
		total += c.n
	}
	if total == 0 {
		return nil, nil, "", VarNotInModelError{Variables: names, Model: model}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].times[0] < kept[j].times[0]
	})
	kept, total = pruneOverlaps(kept, total)

	times, value := assemble(kept, total, t0, t1)

	unit := kept[0].unit
	if outputUnit != "" && outputUnit != unit {
		factor, ok := convert.Factor(variable, unit, outputUnit)
		if !ok {
			return nil, nil, "", UnknownUnitError{Variable: variable, From: unit, To: outputUnit}
		}
		for i := range value.Data.Elements {
			value.Data.Elements[i] *= factor
		}
		unit = outputUnit
	}
	return times, value, unit, nil
}

// pruneOverlaps removes candidates that extend past the end of the
// candidate that follows them in start-time order, returning the
// survivors and the updated in-window point total.
//
// The rule is deliberately narrow: one forward pass over the sorted
// list, dropping candidate i only when its final time exceeds candidate
// i+1's final time. Equal-start and equal-end ties trigger no removal,
// and candidates that overlap without violating the end-time ordering
// are concatenated as-is rather than merged.
func pruneOverlaps(cands []candidate, total int) ([]candidate, int) {
	if len(cands) < 2 {
		return cands, total
	}
	drop := make([]bool, len(cands))
	for i := 0; i < len(cands)-1; i++ {
		end := cands[i].times[len(cands[i].times)-1]
		nextEnd := cands[i+1].times[len(cands[i+1].times)-1]
		if end > nextEnd {
			drop[i] = true
			total -= cands[i].n
		}
	}
	out := cands[:0]
	for i, c := range cands {
		if !drop[i] {
			out = append(out, c)
		}
	}
	return out, total
}

// assemble concatenates the in-window points of the candidates, in
// order, into a composite of total time steps. The trailing spatial
// shape is taken from the first candidate.
func assemble(cands []candidate, total int, t0, t1 float64) ([]float64, *MaskedArray) {
	shape := make([]int, len(cands[0].value.Data.Shape))
	shape[0] = total
	copy(shape[1:], cands[0].value.Data.Shape[1:])
	spatial := 1
	for _, d := range shape[1:] {
		spatial *= d
	}

	times := make([]float64, 0, total)
	value := sparse.ZerosDense(shape...)
	mask := make([]bool, total*spatial)
	begin := 0
	for _, c := range cands {
		for k, t := range c.times {
			if t < t0 || t > t1 {
				continue
			}
			times = append(times, t)
			copy(value.Elements[begin*spatial:(begin+1)*spatial],
				c.value.Data.Elements[k*spatial:(k+1)*spatial])
			if c.value.Scalar() {
				if c.value.Mask[0] {
					for e := begin * spatial; e < (begin+1)*spatial; e++ {
						mask[e] = true
					}
				}
			} else {
				copy(mask[begin*spatial:(begin+1)*spatial],
					c.value.Mask[k*spatial:(k+1)*spatial])
			}
			begin++
		}
	}
	return times, &MaskedArray{Data: value, Mask: mask}
}
