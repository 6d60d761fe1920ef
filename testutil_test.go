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
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// testDataset describes a synthetic monthly dataset file.
type testDataset struct {
	cols, levs, sw, lw, months int
	hyam, hybm                 []float64

	// ps and val give the values of surface pressure and of each field
	// at (0-based) record m.
	ps  func(m, c int) float64
	val func(f Field, m, c, b, k int) float64

	// levFirst stores the fields with the level dimension before the
	// column dimension.
	levFirst bool
}

// testValue is a field value that differs between every field, month,
// column, band and level.
func testValue(f Field, m, c, b, k int) float64 {
	return float64(f+1)*1000 + float64(m)*100 + float64(c)*10 + float64(b) + float64(k)*0.1
}

func testPS(m, c int) float64 {
	return 100000 + float64(m)*200 + float64(c)
}

// newTestDataset returns a dataset with nlev levels whose hybrid
// coefficients give pressures increasing towards the surface.
func newTestDataset(cols, levs, sw, lw int) testDataset {
	d := testDataset{
		cols: cols, levs: levs, sw: sw, lw: lw, months: 12,
		ps:  testPS,
		val: testValue,
	}
	for k := 0; k < levs; k++ {
		frac := (float64(k) + 0.5) / float64(levs)
		d.hyam = append(d.hyam, 0.1*(1-frac))
		d.hybm = append(d.hybm, 0.9*frac)
	}
	return d
}

// fieldDims returns the file dimensions of field f.
func (d testDataset) fieldDims(f Field) []string {
	dims := f.dims()
	if d.levFirst {
		dims[0], dims[len(dims)-1] = dims[len(dims)-1], dims[0]
	}
	return append([]string{dimTime}, dims...)
}

// write writes d to a netCDF file in dir and returns its path.
func (d testDataset) write(t *testing.T, dir string) string {
	t.Helper()
	h := cdf.NewHeader(
		[]string{dimTime, dimCol, dimLev, dimSW, dimLW},
		[]int{0, d.cols, d.levs, d.sw, d.lw})
	h.AddVariable(varPS, []string{dimTime, dimCol}, []float64{0})
	for _, f := range Fields {
		h.AddVariable(f.String(), d.fieldDims(f), []float64{0})
	}
	h.AddVariable(varHyAM, []string{dimLev}, []float64{0})
	h.AddVariable(varHyBM, []string{dimLev}, []float64{0})
	h.Define()

	path := filepath.Join(dir, "spa_data.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	ff, err := cdf.Create(w, h)
	if err != nil {
		t.Fatal(err)
	}
	writeNonRecord(t, ff, varHyAM, d.hyam)
	writeNonRecord(t, ff, varHyBM, d.hybm)
	bands := func(f Field) int {
		switch f.BandDim() {
		case dimSW:
			return d.sw
		case dimLW:
			return d.lw
		}
		return 1
	}
	for m := 0; m < d.months; m++ {
		ps := make([]float64, d.cols)
		for c := range ps {
			ps[c] = d.ps(m, c)
		}
		writeRecord(t, ff, varPS, m, ps)
		for _, f := range Fields {
			nb := bands(f)
			buf := make([]float64, 0, d.cols*nb*d.levs)
			if d.levFirst {
				for k := 0; k < d.levs; k++ {
					for b := 0; b < nb; b++ {
						for c := 0; c < d.cols; c++ {
							buf = append(buf, d.val(f, m, c, b, k))
						}
					}
				}
			} else {
				for c := 0; c < d.cols; c++ {
					for b := 0; b < nb; b++ {
						for k := 0; k < d.levs; k++ {
							buf = append(buf, d.val(f, m, c, b, k))
						}
					}
				}
			}
			writeRecord(t, ff, f.String(), m, buf)
		}
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeRecord(t *testing.T, ff *cdf.File, v string, rec int, data interface{}) {
	t.Helper()
	start := make([]int, len(ff.Header.Lengths(v)))
	start[0] = rec
	if _, err := ff.Writer(v, start, nil).Write(data); err != nil {
		t.Fatalf("writing %s record %d: %v", v, rec, err)
	}
}

func writeNonRecord(t *testing.T, ff *cdf.File, v string, data interface{}) {
	t.Helper()
	end := ff.Header.Lengths(v)
	if _, err := ff.Writer(v, make([]int, len(end)), end).Write(data); err != nil {
		t.Fatalf("writing %s: %v", v, err)
	}
}

// writeRemapFile writes a remap file with the given triplets, using
// 1-based row (source) and col (target) indices.
func writeRemapFile(t *testing.T, dir string, na, nb int, s []float64, row, col []int32) string {
	t.Helper()
	h := cdf.NewHeader([]string{remapDimS, remapDimA, remapDimB}, []int{len(s), na, nb})
	h.AddVariable(remapWeight, []string{remapDimS}, []float64{0})
	h.AddVariable(remapRow, []string{remapDimS}, []int32{0})
	h.AddVariable(remapCol, []string{remapDimS}, []int32{0})
	h.Define()
	path := filepath.Join(dir, "remap.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	ff, err := cdf.Create(w, h)
	if err != nil {
		t.Fatal(err)
	}
	writeNonRecord(t, ff, remapWeight, s)
	writeNonRecord(t, ff, remapRow, row)
	writeNonRecord(t, ff, remapCol, col)
	return path
}

func openNCF(t *testing.T, path string) *NCF {
	t.Helper()
	f, err := OpenNCF(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// identity returns the identity remapping of the first n of cols
// columns.
func identity(t *testing.T, cols, n int) *Remap {
	t.Helper()
	r, err := IdentityRemap(cols, 0, seq(n))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}
