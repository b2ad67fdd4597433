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

// Package modeleval extracts time series and gridded fields from
// collections of climate model output files and composes them into
// single, gap-free, unit-normalized series suitable for comparison
// against observational benchmarks.
//
// The entry point is ModelResult, which represents the output of one
// model run stored as NetCDF files under a root directory. Its
// extraction methods scan every matching file for a variable (and any
// alternate names for it), merge the pieces found into one composite
// series covering the requested time window, and convert the result to
// a requested unit. All times are expressed in days since
// 00:00:00 UTC on January 1, 1850.
package modeleval
