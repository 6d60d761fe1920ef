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

// Data holds one month of prescribed aerosol data on the local columns
// of the simulation grid and the padded vertical grid of the source
// dataset.
type Data struct {
	Shape

	// PS is surface pressure [Pa], with dimensions [col].
	PS *sparse.DenseArray

	// HyAM and HyBM are the hybrid coefficients of the level midpoints,
	// with dimensions [lev]. Pressure is P0*HyAM + PS*HyBM.
	HyAM, HyBM *sparse.DenseArray

	// Fields holds the aerosol quantities, indexed by Field. Unbanded
	// fields have dimensions [col, lev] and banded fields have dimensions
	// [col, band, lev].
	Fields [numFields]*sparse.DenseArray
}

// NewData allocates a dataset for cols local columns, a source
// file with fileLevels vertical levels, and the given numbers of shortwave
// and longwave bands. The allocated vertical extent includes LevelPadding
// extra levels at each end.
func NewData(cols, fileLevels, swBands, lwBands int) *Data {
	d := &Data{
		Shape: Shape{
			Cols:    cols,
			Levels:  fileLevels + 2*LevelPadding,
			SWBands: swBands,
			LWBands: lwBands,
		},
	}
	d.PS = sparse.ZerosDense(cols)
	d.HyAM = sparse.ZerosDense(d.Levels)
	d.HyBM = sparse.ZerosDense(d.Levels)
	for _, f := range Fields {
		d.Fields[f] = sparse.ZerosDense(d.dims(f)...)
	}
	return d
}

// FileLevels returns the number of vertical levels in the source file,
// excluding padding.
func (d *Data) FileLevels() int { return d.Levels - 2*LevelPadding }

// Copy returns a deep copy of d.
func (d *Data) Copy() *Data {
	o := &Data{
		Shape: d.Shape,
		PS:    d.PS.Copy(),
		HyAM:  d.HyAM.Copy(),
		HyBM:  d.HyBM.Copy(),
	}
	for _, f := range Fields {
		o.Fields[f] = d.Fields[f].Copy()
	}
	return o
}

// zero sets all values in d to zero.
func (d *Data) zero() {
	zero(d.PS.Elements)
	zero(d.HyAM.Elements)
	zero(d.HyBM.Elements)
	for _, f := range Fields {
		zero(d.Fields[f].Elements)
	}
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}

// Output holds prescribed aerosol data on the local columns and vertical
// levels of the simulation grid.
type Output struct {
	Shape

	// Fields holds the aerosol quantities, indexed by Field, with
	// the same dimension conventions as Data.Fields.
	Fields [numFields]*sparse.DenseArray
}

// NewOutput allocates an output dataset.
func NewOutput(cols, levels, swBands, lwBands int) *Output {
	o := &Output{
		Shape: Shape{Cols: cols, Levels: levels, SWBands: swBands, LWBands: lwBands},
	}
	for _, f := range Fields {
		o.Fields[f] = sparse.ZerosDense(o.dims(f)...)
	}
	return o
}

// PressureState holds the simulation's current mid-level pressure.
type PressureState struct {
	Cols, Levels int

	// PMid is mid-level pressure [Pa], with dimensions [col, lev].
	// Pressure must increase with level index.
	PMid *sparse.DenseArray
}

// NewPressureState returns a pressure state wrapping pmid, which must have
// dimensions [col, lev].
func NewPressureState(pmid *sparse.DenseArray) (*PressureState, error) {
	if len(pmid.Shape) != 2 {
		return nil, fmt.Errorf("spa: pressure state must have 2 dimensions but has %d", len(pmid.Shape))
	}
	return &PressureState{Cols: pmid.Shape[0], Levels: pmid.Shape[1], PMid: pmid}, nil
}

// column returns the slice of s holding the levels of column c, given
// the number of levels nl per column.
func column(s []float64, c, nl int) []float64 {
	return s[c*nl : (c+1)*nl]
}
