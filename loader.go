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

// FileShape returns the numbers of source columns, vertical levels,
// shortwave bands and longwave bands in the monthly dataset src.
func FileShape(src Source) (Shape, error) {
	var s Shape
	var err error
	for _, d := range []struct {
		name string
		v    *int
	}{
		{dimCol, &s.Cols},
		{dimLev, &s.Levels},
		{dimSW, &s.SWBands},
		{dimLW, &s.LWBands},
	} {
		if *d.v, err = src.DimLen(d.name); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Load reads month (1 through 12) of the monthly dataset src and remaps
// it with r onto the local columns of d, overwriting the contents of d.
// The dataset's declared dimensions are checked against r and d before d
// is modified; a mismatch is a configuration error. Variables are read at
// record month-1 of the time dimension, except for the hybrid coefficients
// hyam and hybm, which have no time dimension.
func (d *Data) Load(src Source, month int, r *Remap) error {
	if month < 1 || month > numMonths {
		return fmt.Errorf("spa: invalid month %d", month)
	}
	fs, err := FileShape(src)
	if err != nil {
		return err
	}
	nrec, err := src.DimLen(dimTime)
	if err != nil {
		return err
	}
	switch {
	case month > nrec:
		return fmt.Errorf("spa: month %d requested but data file has %d time records", month, nrec)
	case fs.Cols != r.SourceColumns:
		return fmt.Errorf("spa: number of columns in remap data (%d) doesn't match the data file (%d)",
			r.SourceColumns, fs.Cols)
	case r.TargetColumns != d.Cols:
		return fmt.Errorf("spa: remap has %d target columns but dataset has %d", r.TargetColumns, d.Cols)
	case fs.SWBands != d.SWBands:
		return fmt.Errorf("spa: number of SW bands in simulation (%d) doesn't match the data file (%d)",
			d.SWBands, fs.SWBands)
	case fs.LWBands != d.LWBands:
		return fmt.Errorf("spa: number of LW bands in simulation (%d) doesn't match the data file (%d)",
			d.LWBands, fs.LWBands)
	case fs.Levels != d.FileLevels() || fs.Levels < 1:
		return fmt.Errorf("spa: number of levels in dataset (%d) doesn't match the data file (%d)",
			d.FileLevels(), fs.Levels)
	}

	t := month - 1
	ps, err := readChecked(src, varPS, t, []string{dimCol}, fs.Cols)
	if err != nil {
		return err
	}
	var raw [numFields]*sparse.DenseArray
	for _, f := range Fields {
		raw[f], err = readChecked(src, f.String(), t, f.dims(), fs.Cols*fs.Bands(f)*fs.Levels)
		if err != nil {
			return err
		}
	}
	hyam, err := readChecked(src, varHyAM, -1, []string{dimLev}, fs.Levels)
	if err != nil {
		return err
	}
	hybm, err := readChecked(src, varHyBM, -1, []string{dimLev}, fs.Levels)
	if err != nil {
		return err
	}

	d.zero()
	nl := fs.Levels
	err = parallelColumns(d.Cols, 0, func(c0, c1 int) error {
		r.eachTriplet(c0, c1, func(tr Triplet) {
			d.PS.Elements[tr.Target] += tr.Weight * ps.Elements[tr.Source]
			for _, f := range Fields {
				nb := d.Bands(f)
				dst, sv := d.Fields[f].Elements, raw[f].Elements
				for b := 0; b < nb; b++ {
					dcol := column(dst, tr.Target*nb+b, d.Levels)[LevelPadding:]
					scol := column(sv, tr.Source*nb+b, nl)
					for k, v := range scol {
						dcol[k] += tr.Weight * v
					}
				}
			}
		})
		return nil
	})
	if err != nil {
		return err
	}
	if err := d.setHybrid(hyam, hybm); err != nil {
		return err
	}
	d.padFields()
	return nil
}

// readChecked reads variable v at record t with its dimensions ordered as
// dims and checks that it holds n values.
func readChecked(src Source, v string, t int, dims []string, n int) (*sparse.DenseArray, error) {
	a, err := readOrdered(src, v, t, dims)
	if err != nil {
		return nil, err
	}
	if len(a.Elements) != n {
		return nil, fmt.Errorf("spa: variable %s has %d values; want %d", v, len(a.Elements), n)
	}
	return a, nil
}
