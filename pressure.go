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

package spa

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// HybridPressure returns the pressure [Pa] at a level with hybrid
// coefficients a and b, given surface pressure ps [Pa].
func HybridPressure(ps, a, b float64) float64 {
	return ps*b + P0*a
}

// SourcePressure fills p with the pressure [Pa] of every source level
// of column c, including padding levels. p must have length d.Levels.
func (d *Data) SourcePressure(c int, p []float64) {
	ps := d.PS.Elements[c]
	for k := range p {
		p[k] = HybridPressure(ps, d.HyAM.Elements[k], d.HyBM.Elements[k])
	}
}

// setHybrid stores the file hybrid coefficients hyam and hybm in the
// interior of d's vertical grid and sets the padding levels. The top padding
// is the model top (zero pressure) and the bottom padding is the surface.
func (d *Data) setHybrid(hyam, hybm *sparse.DenseArray) error {
	n := d.FileLevels()
	if len(hyam.Elements) != n || len(hybm.Elements) != n {
		return fmt.Errorf("spa: hybrid coefficients have %d and %d levels but dataset has %d",
			len(hyam.Elements), len(hybm.Elements), n)
	}
	copy(d.HyAM.Elements[LevelPadding:], hyam.Elements)
	copy(d.HyBM.Elements[LevelPadding:], hybm.Elements)
	for k := 0; k < LevelPadding; k++ {
		d.HyAM.Elements[k], d.HyBM.Elements[k] = 0, 0
		d.HyAM.Elements[d.Levels-1-k], d.HyBM.Elements[d.Levels-1-k] = 0, 1
	}
	return nil
}

// padFields copies the top and bottom file levels of every field into
// the padding levels.
func (d *Data) padFields() {
	top := LevelPadding
	bottom := d.Levels - 1 - LevelPadding
	for _, f := range Fields {
		e := d.Fields[f].Elements
		for i := 0; i < d.Cols*d.Bands(f); i++ {
			col := column(e, i, d.Levels)
			for k := 0; k < LevelPadding; k++ {
				col[k] = col[top]
				col[d.Levels-1-k] = col[bottom]
			}
		}
	}
}
