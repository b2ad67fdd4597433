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

package evalutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spatialmodel/modeleval"
)

// writeSeriesFile writes an extracted series to path. A .csv suffix
// selects CSV output, which is only available for point series;
// anything else is written as NetCDF.
func writeSeriesFile(path, name, unit string, times []float64, v *modeleval.MaskedArray, lat, lon []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if strings.HasSuffix(path, ".csv") {
		if len(v.Data.Shape) != 1 {
			return fmt.Errorf("modeleval: CSV output is only available for point series")
		}
		return writeSeriesCSV(f, name, unit, times, v)
	}
	return modeleval.WriteSeries(f, name, unit, times, v, lat, lon)
}

// writeSeriesCSV writes a point series as CSV with one row per time
// step. Masked values are left empty.
func writeSeriesCSV(f *os.File, name, unit string, times []float64, v *modeleval.MaskedArray) error {
	w := csv.NewWriter(f)
	if err := w.Write([]string{"time [days since 1850-1-1]", fmt.Sprintf("%s [%s]", name, unit)}); err != nil {
		return err
	}
	for i, t := range times {
		val := ""
		if !v.MaskAt(i) {
			val = strconv.FormatFloat(v.Data.Elements[i], 'g', -1, 64)
		}
		if err := w.Write([]string{strconv.FormatFloat(t, 'g', -1, 64), val}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
