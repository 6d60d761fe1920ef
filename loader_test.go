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
	"strings"
	"testing"
)

func TestLoadIdentity(t *testing.T) {
	td := newTestDataset(3, 4, 2, 1)
	src := openNCF(t, td.write(t, t.TempDir()))
	d := NewData(3, 4, 2, 1)
	if err := d.Load(src, 3, identity(t, 3, 3)); err != nil {
		t.Fatal(err)
	}
	if d.Levels != 4+2*LevelPadding {
		t.Fatalf("levels: got %d", d.Levels)
	}
	for c := 0; c < 3; c++ {
		if got, want := d.PS.Elements[c], testPS(2, c); got != want {
			t.Errorf("PS[%d]: got %g; want %g", c, got, want)
		}
	}
	for _, f := range Fields {
		for c := 0; c < 3; c++ {
			for b := 0; b < d.Bands(f); b++ {
				col := column(d.Fields[f].Elements, c*d.Bands(f)+b, d.Levels)
				for k := 0; k < 4; k++ {
					if got, want := col[k+LevelPadding], testValue(f, 2, c, b, k); got != want {
						t.Errorf("%s[%d,%d,%d]: got %g; want %g", f, c, b, k, got, want)
					}
				}
				if col[0] != col[LevelPadding] {
					t.Errorf("%s[%d,%d]: top padding %g doesn't match top level %g", f, c, b, col[0], col[LevelPadding])
				}
				if col[d.Levels-1] != col[d.Levels-1-LevelPadding] {
					t.Errorf("%s[%d,%d]: bottom padding doesn't match bottom level", f, c, b)
				}
			}
		}
	}
	for k := 0; k < 4; k++ {
		if d.HyAM.Elements[k+LevelPadding] != td.hyam[k] || d.HyBM.Elements[k+LevelPadding] != td.hybm[k] {
			t.Errorf("hybrid coefficients at level %d don't match the file", k)
		}
	}
	if d.HyAM.Elements[0] != 0 || d.HyBM.Elements[0] != 0 {
		t.Errorf("top padding coefficients: %g, %g", d.HyAM.Elements[0], d.HyBM.Elements[0])
	}
	if d.HyAM.Elements[d.Levels-1] != 0 || d.HyBM.Elements[d.Levels-1] != 1 {
		t.Errorf("bottom padding coefficients: %g, %g", d.HyAM.Elements[d.Levels-1], d.HyBM.Elements[d.Levels-1])
	}

	// Source pressure increases monotonically down the padded column.
	p := make([]float64, d.Levels)
	for c := 0; c < 3; c++ {
		d.SourcePressure(c, p)
		if p[0] != 0 || p[d.Levels-1] != d.PS.Elements[c] {
			t.Errorf("column %d: padded pressure range [%g, %g]", c, p[0], p[d.Levels-1])
		}
		for k := 1; k < d.Levels; k++ {
			if p[k] <= p[k-1] {
				t.Errorf("column %d: pressure not increasing at level %d: %v", c, k, p)
				break
			}
		}
	}
}

// Reordered file dimensions load the same values.
func TestLoadDimensionOrder(t *testing.T) {
	canon := newTestDataset(2, 3, 2, 2)
	alt := canon
	alt.levFirst = true
	r := identity(t, 2, 2)
	want := NewData(2, 3, 2, 2)
	if err := want.Load(openNCF(t, canon.write(t, t.TempDir())), 7, r); err != nil {
		t.Fatal(err)
	}
	got := NewData(2, 3, 2, 2)
	if err := got.Load(openNCF(t, alt.write(t, t.TempDir())), 7, r); err != nil {
		t.Fatal(err)
	}
	for _, f := range Fields {
		for i, v := range want.Fields[f].Elements {
			if got.Fields[f].Elements[i] != v {
				t.Errorf("%s[%v]: got %g; want %g", f, want.Fields[f].IndexNd(i), got.Fields[f].Elements[i], v)
			}
		}
	}
}

func TestLoadWeighted(t *testing.T) {
	td := newTestDataset(4, 2, 1, 1)
	src := openNCF(t, td.write(t, t.TempDir()))
	// Local column 0 is 0.3 of source 0 and 0.7 of source 1; local
	// column 1 is all source 3.
	r, err := NewRemap(4, 2, []Triplet{
		{Source: 0, Target: 0, Weight: 0.3},
		{Source: 1, Target: 0, Weight: 0.7},
		{Source: 3, Target: 1, Weight: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	d := NewData(2, 2, 1, 1)
	if err := d.Load(src, 1, r); err != nil {
		t.Fatal(err)
	}
	if want := 0.3*testPS(0, 0) + 0.7*testPS(0, 1); different(d.PS.Elements[0], want, 1e-12) {
		t.Errorf("PS[0]: got %g; want %g", d.PS.Elements[0], want)
	}
	if want := testPS(0, 3); d.PS.Elements[1] != want {
		t.Errorf("PS[1]: got %g; want %g", d.PS.Elements[1], want)
	}
	for _, f := range Fields {
		for k := 0; k < 2; k++ {
			want := 0.3*testValue(f, 0, 0, 0, k) + 0.7*testValue(f, 0, 1, 0, k)
			if got := d.Fields[f].Elements[k+LevelPadding]; different(got, want, 1e-12) {
				t.Errorf("%s[0,%d]: got %g; want %g", f, k, got, want)
			}
			want = testValue(f, 0, 3, 0, k)
			if got := d.Fields[f].Elements[d.Levels+k+LevelPadding]; got != want {
				t.Errorf("%s[1,%d]: got %g; want %g", f, k, got, want)
			}
		}
	}

	// Loading again replaces rather than accumulates.
	if err := d.Load(src, 1, r); err != nil {
		t.Fatal(err)
	}
	if want := testPS(0, 3); d.PS.Elements[1] != want {
		t.Errorf("reloaded PS[1]: got %g; want %g", d.PS.Elements[1], want)
	}
}

// A column with no contributing entries is left at zero.
func TestLoadUncovered(t *testing.T) {
	src := openNCF(t, newTestDataset(2, 2, 1, 1).write(t, t.TempDir()))
	r, err := NewRemap(2, 2, []Triplet{{Source: 1, Target: 0, Weight: 1}})
	if err != nil {
		t.Fatal(err)
	}
	d := NewData(2, 2, 1, 1)
	if err := d.Load(src, 4, r); err != nil {
		t.Fatal(err)
	}
	if d.PS.Elements[1] != 0 {
		t.Errorf("uncovered PS: got %g", d.PS.Elements[1])
	}
	for _, f := range Fields {
		for _, v := range column(d.Fields[f].Elements, 1, d.Levels) {
			if v != 0 {
				t.Errorf("uncovered %s: got %g", f, v)
			}
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	short := newTestDataset(3, 4, 2, 1)
	short.months = 6
	src := openNCF(t, short.write(t, dir))
	id3 := identity(t, 3, 3)
	id4 := identity(t, 4, 4)
	id2 := identity(t, 3, 2)

	for _, test := range []struct {
		name  string
		month int
		r     *Remap
		d     *Data
		want  string
	}{
		{name: "month 0", month: 0, r: id3, d: NewData(3, 4, 2, 1), want: "invalid month 0"},
		{name: "month 13", month: 13, r: id3, d: NewData(3, 4, 2, 1), want: "invalid month 13"},
		{name: "missing record", month: 7, r: id3, d: NewData(3, 4, 2, 1),
			want: "month 7 requested but data file has 6 time records"},
		{name: "source columns", month: 1, r: id4, d: NewData(4, 4, 2, 1),
			want: "number of columns in remap data (4) doesn't match the data file (3)"},
		{name: "target columns", month: 1, r: id2, d: NewData(3, 4, 2, 1),
			want: "remap has 2 target columns but dataset has 3"},
		{name: "sw bands", month: 1, r: id3, d: NewData(3, 4, 3, 1),
			want: "number of SW bands in simulation (3) doesn't match the data file (2)"},
		{name: "lw bands", month: 1, r: id3, d: NewData(3, 4, 2, 2),
			want: "number of LW bands in simulation (2) doesn't match the data file (1)"},
		{name: "levels", month: 1, r: id3, d: NewData(3, 5, 2, 1),
			want: "number of levels in dataset (5) doesn't match the data file (4)"},
	} {
		t.Run(test.name, func(t *testing.T) {
			for i := range test.d.PS.Elements {
				test.d.PS.Elements[i] = -1
			}
			err := test.d.Load(src, test.month, test.r)
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Fatalf("got error %v; want %q", err, test.want)
			}
			for i, v := range test.d.PS.Elements {
				if v != -1 {
					t.Errorf("PS[%d] modified to %g by failed load", i, v)
				}
			}
		})
	}
}

func TestFileShape(t *testing.T) {
	src := openNCF(t, newTestDataset(5, 3, 4, 2).write(t, t.TempDir()))
	s, err := FileShape(src)
	if err != nil {
		t.Fatal(err)
	}
	if want := (Shape{Cols: 5, Levels: 3, SWBands: 4, LWBands: 2}); s != want {
		t.Errorf("got %+v; want %+v", s, want)
	}
}
