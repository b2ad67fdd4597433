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

// Command modeleval is a command-line interface for extracting
// composite time series from climate model output.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/modeleval/evalutil"
)

func main() {
	if err := evalutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
