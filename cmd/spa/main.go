/*
Copyright © 2026 the SPA authors.
This file is part of SPA.

SPA is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SPA is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SPA.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command spa prescribes monthly aerosol data to an atmospheric
// simulation grid.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/spa/spautil"
)

func main() {
	if err := spautil.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
