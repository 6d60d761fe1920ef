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
	"os"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// OutputWriter writes a time series of interpolated output to a netCDF
// file.
type OutputWriter struct {
	w     *os.File
	f     *cdf.File
	shape Shape
	ref   time.Time
	rec   int
}

// NewOutputWriter creates a netCDF file at path for output with the given
// shape. gids holds the global ids of the output columns and ref is the
// reference time for the time coordinate.
func NewOutputWriter(path string, s Shape, gids []int, ref time.Time) (*OutputWriter, error) {
	if s.Cols < 1 || s.Levels < 1 || s.SWBands < 1 || s.LWBands < 1 {
		return nil, fmt.Errorf("spa: output dimensions must be positive: %+v", s)
	}
	if len(gids) != s.Cols {
		return nil, fmt.Errorf("spa: %d global ids for %d output columns", len(gids), s.Cols)
	}
	ref = ref.UTC()
	h := cdf.NewHeader(
		[]string{dimTime, dimCol, dimLev, dimSW, dimLW},
		[]int{0, s.Cols, s.Levels, s.SWBands, s.LWBands})
	h.AddAttribute("", "comment", "SPA prescribed aerosol data interpolated to the simulation grid")
	h.AddAttribute("", "spa_version", Version)

	h.AddVariable(dimTime, []string{dimTime}, []float64{0})
	h.AddAttribute(dimTime, "units", "days since "+ref.Format("2006-01-02 15:04:05"))
	h.AddVariable("gid", []string{dimCol}, []int32{0})
	h.AddAttribute("gid", "description", "Global column id (0-based)")
	h.AddVariable(varPS, []string{dimTime, dimCol}, []float32{0})
	h.AddAttribute(varPS, "description", "Surface pressure of the source data")
	h.AddAttribute(varPS, "units", "Pa")
	for _, fld := range Fields {
		h.AddVariable(fld.String(), append([]string{dimTime}, fld.dims()...), []float32{0})
		h.AddAttribute(fld.String(), "description", fld.Description())
		h.AddAttribute(fld.String(), "units", fld.Units())
	}
	h.Define()

	w, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("spa: creating output file: %w", err)
	}
	f, err := cdf.Create(w, h)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("spa: writing output header: %w", err)
	}
	g := make([]int32, len(gids))
	for i, id := range gids {
		g[i] = int32(id)
	}
	end := f.Header.Lengths("gid")
	if _, err := f.Writer("gid", make([]int, len(end)), end).Write(g); err != nil {
		w.Close()
		return nil, fmt.Errorf("spa: writing global ids: %w", err)
	}
	return &OutputWriter{w: w, f: f, shape: s, ref: ref}, nil
}

// Write appends one record holding the output at time t. ps is the
// surface pressure of the source data on the output columns.
func (ow *OutputWriter) Write(t time.Time, ps *sparse.DenseArray, out *Output) error {
	if out.Shape != ow.shape {
		return fmt.Errorf("spa: output shape %+v doesn't match file shape %+v", out.Shape, ow.shape)
	}
	if len(ps.Elements) != ow.shape.Cols {
		return fmt.Errorf("spa: surface pressure has %d columns; want %d", len(ps.Elements), ow.shape.Cols)
	}
	days := float64(t.Sub(ow.ref)) / float64(24*time.Hour)
	if _, err := ow.f.Writer(dimTime, []int{ow.rec}, nil).Write([]float64{days}); err != nil {
		return fmt.Errorf("spa: writing time record %d: %w", ow.rec, err)
	}
	if err := ow.writeRecord(varPS, ps); err != nil {
		return err
	}
	for _, fld := range Fields {
		if err := ow.writeRecord(fld.String(), out.Fields[fld]); err != nil {
			return err
		}
	}
	ow.rec++
	return nil
}

// writeRecord writes data to the current record of variable v.
func (ow *OutputWriter) writeRecord(v string, data *sparse.DenseArray) error {
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	start := make([]int, len(ow.f.Header.Lengths(v)))
	start[0] = ow.rec
	if _, err := ow.f.Writer(v, start, nil).Write(data32); err != nil {
		return fmt.Errorf("spa: writing variable %s to netcdf file: %w", v, err)
	}
	return nil
}

// Records returns the number of records written.
func (ow *OutputWriter) Records() int { return ow.rec }

// Close finalizes and closes the file.
func (ow *OutputWriter) Close() error {
	if err := cdf.UpdateNumRecs(ow.w); err != nil {
		ow.w.Close()
		return fmt.Errorf("spa: finalizing output file: %w", err)
	}
	return ow.w.Close()
}
