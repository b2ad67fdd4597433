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

// A ConversionTable holds multiplicative unit conversion factors for
// model output variables, keyed by variable name, then output unit,
// then source unit. It is an explicit dependency of series composition:
// a ModelResult consults its table when a caller requests an output
// unit different from the one a variable was stored in.
type ConversionTable map[string]map[string]map[string]float64

// Register adds the factor that converts variable from unit from to
// unit to, along with its inverse.
func (c ConversionTable) Register(variable, from, to string, factor float64) {
	c.set(variable, from, to, factor)
	c.set(variable, to, from, 1/factor)
}

func (c ConversionTable) set(variable, from, to string, factor float64) {
	if c[variable] == nil {
		c[variable] = make(map[string]map[string]float64)
	}
	if c[variable][to] == nil {
		c[variable][to] = make(map[string]float64)
	}
	c[variable][to][from] = factor
}

// Factor returns the factor that converts variable from unit from to
// unit to. The second return value is false when no factor is
// registered for that combination.
func (c ConversionTable) Factor(variable, from, to string) (float64, bool) {
	f, ok := c[variable][to][from]
	return f, ok
}

const (
	secondsPerDay = 60 * 60 * 24
	daysPerYear   = 365.25
)

// DefaultConversions returns a table seeded with factors for common
// model output variables. Water fluxes use the convention that
// 1 kg m-2 of water is a 1 mm depth equivalent. Only multiplicative
// conversions can be represented; offset conversions (e.g. K to °C)
// have no place in the table.
func DefaultConversions() ConversionTable {
	c := make(ConversionTable)
	for _, v := range []string{"pr", "evspsbl", "mrro", "tran"} {
		c.Register(v, "kg m-2 s-1", "mm/day", secondsPerDay)
		c.Register(v, "kg m-2 s-1", "mm/yr", secondsPerDay*daysPerYear)
	}
	for _, v := range []string{"gpp", "npp", "nbp", "nee", "ra", "rh", "reco"} {
		c.Register(v, "kg m-2 s-1", "g m-2 day-1", 1000*secondsPerDay)
		c.Register(v, "kg m-2 s-1", "g m-2 yr-1", 1000*secondsPerDay*daysPerYear)
	}
	for _, v := range []string{"burntArea", "treeFrac"} {
		c.Register(v, "%", "1", 0.01)
	}
	return c
}
