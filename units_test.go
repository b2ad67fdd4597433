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
	"math"
	"testing"
)

func TestConversionTableRegister(t *testing.T) {
	c := make(ConversionTable)
	c.Register("tsl", "K", "dK", 10)
	f, ok := c.Factor("tsl", "K", "dK")
	if !ok || f != 10 {
		t.Errorf("forward factor: got %g, %v", f, ok)
	}
	f, ok = c.Factor("tsl", "dK", "K")
	if !ok || math.Abs(f-0.1) > testTolerance {
		t.Errorf("inverse factor: got %g, %v", f, ok)
	}
	if _, ok := c.Factor("tsl", "K", "furlong"); ok {
		t.Error("found a factor for an unregistered unit")
	}
	if _, ok := c.Factor("pr", "K", "dK"); ok {
		t.Error("found a factor for an unregistered variable")
	}
}

func TestDefaultConversions(t *testing.T) {
	c := DefaultConversions()
	f, ok := c.Factor("pr", "kg m-2 s-1", "mm/day")
	if !ok || f != 86400 {
		t.Errorf("pr: got %g, %v; want 86400", f, ok)
	}
	f, ok = c.Factor("gpp", "kg m-2 s-1", "g m-2 day-1")
	if !ok || f != 1000*86400 {
		t.Errorf("gpp: got %g, %v", f, ok)
	}
	f, ok = c.Factor("treeFrac", "%", "1")
	if !ok || math.Abs(f-0.01) > testTolerance {
		t.Errorf("treeFrac: got %g, %v", f, ok)
	}
}
