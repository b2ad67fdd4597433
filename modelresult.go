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
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// Filename markers of the grid metadata files searched for beneath a
// model's root directory.
const (
	gridAreaMarker = "areacella"
	landFracMarker = "sftlf"
)

// A ModelResult explores the output of a single model run: it locates
// NetCDF result files beneath a root directory, owns the run's grid
// metadata, and extracts composite time series for comparison against
// observational benchmarks.
type ModelResult struct {
	// Path is the root directory holding the model's output files.
	// Files are matched directly beneath it, without recursion.
	Path string
	// Name identifies the model in error messages and reports.
	Name string
	// Color is the display color assigned to this model.
	Color color.NRGBA
	// Filter restricts extraction to files whose names contain it.
	Filter string

	// Grid metadata, loaded once at construction. All fields are nil
	// when no grid files were found beneath Path; that is a valid
	// state, not an error.
	CellAreas    *sparse.DenseArray // cell areas [m2]
	LandFraction *MaskedArray       // land fraction per cell
	LandAreas    *MaskedArray       // land area per cell [m2]
	LandArea     float64            // total land area [m2]
	Lat, Lon     []float64          // cell center coordinates [degrees]
	LatBnds      []float64          // cell boundaries, len(Lat)+1
	LonBnds      []float64          // cell boundaries, len(Lon)+1

	// Conversions supplies unit conversion factors for extraction.
	Conversions ConversionTable

	Log logrus.FieldLogger

	pointExtractor PointExtractor
	fieldExtractor FieldExtractor
}

// NewModelResult creates a ModelResult for the model output stored
// beneath path and loads the run's grid metadata. Missing grid files
// are not an error; they leave the grid fields nil.
func NewModelResult(path, name string, c color.NRGBA, filter string) (*ModelResult, error) {
	m := &ModelResult{
		Path:           path,
		Name:           name,
		Color:          c,
		Filter:         filter,
		Conversions:    DefaultConversions(),
		Log:            logrus.StandardLogger(),
		pointExtractor: ExtractPointTimeSeries,
		fieldExtractor: ExtractTimeSeries,
	}
	if err := m.loadGridInfo(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ModelResult) String() string {
	return fmt.Sprintf("model result %s at %s", m.Name, m.Path)
}

// loadGridInfo reads cell areas, coordinates, and land fraction from
// the grid metadata files beneath m.Path, if they exist.
func (m *ModelResult) loadGridInfo() error {
	files, err := filepath.Glob(filepath.Join(m.Path, "*"+gridAreaMarker+"*.nc"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}
	if err := m.loadCellAreas(files[0]); err != nil {
		return err
	}

	files, err = filepath.Glob(filepath.Join(m.Path, "*"+landFracMarker+"*.nc"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}
	return m.loadLandFraction(files[0])
}

func (m *ModelResult) loadCellAreas(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return fmt.Errorf("modeleval: opening grid file %s: %v", path, err)
	}
	if m.CellAreas, err = readVar(ff, path, gridAreaMarker, 0); err != nil {
		return err
	}
	latArr, err := readVar(ff, path, "lat", 0)
	if err != nil {
		return err
	}
	lonArr, err := readVar(ff, path, "lon", 0)
	if err != nil {
		return err
	}
	m.Lat, m.Lon = latArr.Elements, lonArr.Elements
	if m.LatBnds, err = cellBounds(ff, path, "lat_bnds", len(m.Lat)); err != nil {
		return err
	}
	m.LonBnds, err = cellBounds(ff, path, "lon_bnds", len(m.Lon))
	return err
}

func (m *ModelResult) loadLandFraction(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return fmt.Errorf("modeleval: opening grid file %s: %v", path, err)
	}
	frac, err := readVar(ff, path, landFracMarker, 0)
	if err != nil {
		return err
	}
	fill, hasFill := fillValue(ff, landFracMarker)
	m.LandFraction = &MaskedArray{Data: frac, Mask: maskFill(frac, fill, hasFill)}

	if len(frac.Elements) != len(m.CellAreas.Elements) {
		return fmt.Errorf("modeleval: land fraction in %s has %d cells; cell areas have %d",
			path, len(frac.Elements), len(m.CellAreas.Elements))
	}
	la := sparse.ZerosDense(m.CellAreas.Shape...)
	mask := make([]bool, len(la.Elements))
	var anyMasked bool
	var sum float64
	for i, a := range m.CellAreas.Elements {
		if m.LandFraction.MaskAt(i) {
			// Masked cells are excluded from the land area total.
			mask[i] = true
			anyMasked = true
			continue
		}
		la.Elements[i] = a * frac.Elements[i]
		sum += la.Elements[i]
	}
	if !anyMasked {
		mask = []bool{false}
	}
	m.LandAreas = &MaskedArray{Data: la, Mask: mask}
	m.LandArea = sum
	return nil
}

// cellBounds reconstructs an n+1 element boundary array from an (n, 2)
// lower/upper bounds variable: the lower bound of each cell followed by
// the upper bound of the last cell.
func cellBounds(ff *cdf.File, path, varName string, n int) ([]float64, error) {
	b, err := readVar(ff, path, varName, 0)
	if err != nil {
		return nil, err
	}
	if len(b.Shape) != 2 || b.Shape[0] != n || b.Shape[1] != 2 {
		return nil, fmt.Errorf("modeleval: %s in %s has shape %v, want [%d 2]",
			varName, path, b.Shape, n)
	}
	out := make([]float64, n+1)
	for i := 0; i < n; i++ {
		out[i] = b.Get(i, 0)
	}
	out[n] = b.Get(n-1, 1)
	return out, nil
}

// resultFiles lists the model output files matching the configured
// filter, in lexical order.
func (m *ModelResult) resultFiles() ([]string, error) {
	return filepath.Glob(filepath.Join(m.Path, "*"+m.Filter+"*.nc"))
}

// ExtractPointTimeSeries extracts a composite time series of variable
// at the given latitude and longitude [degrees] from the model results.
//
// Every file beneath the model root matching the configured filter is
// scanned for variable and, failing that, for each name in altVars in
// order; the highest-preference name with any data present is used
// exclusively. The pieces found are composed into a single series
// covering [initialTime, finalTime] (days since 1850-1-1, inclusive).
// If outputUnit is non-empty the values are converted to it.
//
// The returned times are in days since 1850-1-1. A VarNotInModelError
// is returned when no candidate name has any data in the window, and
// an UnknownUnitError when a requested conversion is not registered.
func (m *ModelResult) ExtractPointTimeSeries(variable string, lat, lon float64, altVars []string, initialTime, finalTime float64, outputUnit string) ([]float64, *MaskedArray, string, error) {
	names := append([]string{variable}, altVars...)
	cands, err := m.collect(names, func(fname, vname string) (candidate, error) {
		t, v, unit, err := m.pointExtractor(fname, vname, lat, lon)
		return candidate{times: t, value: v, name: vname, unit: unit}, err
	})
	if err != nil {
		return nil, nil, "", err
	}
	m.Log.WithFields(logrus.Fields{
		"model":      m.Name,
		"variable":   variable,
		"candidates": len(cands),
	}).Debug("collected point time series candidates")
	return composeSeries(names, cands, initialTime, finalTime, variable, outputUnit, m.Name, m.Conversions)
}

// ExtractTimeSeries extracts a composite full-grid time series of
// variable from the model results. It behaves like
// ExtractPointTimeSeries except that the composite value array retains
// the grid's two trailing spatial dimensions.
func (m *ModelResult) ExtractTimeSeries(variable string, altVars []string, initialTime, finalTime float64, outputUnit string) ([]float64, *MaskedArray, string, error) {
	names := append([]string{variable}, altVars...)
	cands, err := m.collect(names, func(fname, vname string) (candidate, error) {
		t, v, unit, _, _, err := m.fieldExtractor(fname, vname)
		return candidate{times: t, value: v, name: vname, unit: unit}, err
	})
	if err != nil {
		return nil, nil, "", err
	}
	m.Log.WithFields(logrus.Fields{
		"model":      m.Name,
		"variable":   variable,
		"candidates": len(cands),
	}).Debug("collected time series candidates")
	return composeSeries(names, cands, initialTime, finalTime, variable, outputUnit, m.Name, m.Conversions)
}

// collect runs extract for every matching file and candidate name,
// skipping attempts whose variable is not in the file. I/O errors
// propagate as-is.
func (m *ModelResult) collect(names []string, extract func(fname, vname string) (candidate, error)) ([]candidate, error) {
	files, err := m.resultFiles()
	if err != nil {
		return nil, err
	}
	var cands []candidate
	for _, fname := range files {
		for _, vname := range names {
			c, err := extract(fname, vname)
			if err != nil {
				var notInFile VarNotInFileError
				if errors.As(err, &notInFile) {
					continue
				}
				return nil, err
			}
			cands = append(cands, c)
		}
	}
	return cands, nil
}
