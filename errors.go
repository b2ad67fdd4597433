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
	"strings"
)

// VarNotInFileError reports that a variable could not be extracted from
// a particular file, either because the file does not contain it or
// because it lacks a usable time coordinate. It is expected for most
// file/variable-name combinations during candidate collection and is
// skipped rather than surfaced.
type VarNotInFileError struct {
	Variable string
	Path     string
}

func (e VarNotInFileError) Error() string {
	return fmt.Sprintf("modeleval: variable %s is not in file %s", e.Variable, e.Path)
}

// VarNotInModelError reports that none of the requested variable names
// have any data within the requested time window anywhere in a model's
// output.
type VarNotInModelError struct {
	Variables []string
	Model     string
}

func (e VarNotInModelError) Error() string {
	return fmt.Sprintf("modeleval: variable(s) %s do not exist in model %s on the requested time frame",
		strings.Join(e.Variables, ","), e.Model)
}

// UnknownUnitError reports that no conversion factor is registered
// between the unit a variable was extracted in and the requested
// output unit.
type UnknownUnitError struct {
	Variable string
	From     string
	To       string
}

func (e UnknownUnitError) Error() string {
	return fmt.Sprintf("modeleval: variable %s is in units of [%s]; requested [%s] but no conversion is registered",
		e.Variable, e.From, e.To)
}
