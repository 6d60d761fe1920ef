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
	"testing"
)

func TestLinearInterp(t *testing.T) {
	for _, test := range []struct {
		x0, x1, t, want float64
	}{
		{x0: 1, x1: 3, t: 0, want: 1},
		{x0: 1, x1: 3, t: 1, want: 3},
		{x0: 1, x1: 3, t: 0.5, want: 2},
		{x0: 100000, x1: 100200, t: 0.5, want: 100100},
		{x0: -2, x1: 2, t: 0.25, want: -1},
		{x0: 5, x1: 5, t: 0.7, want: 5},
	} {
		if got := LinearInterp(test.x0, test.x1, test.t); math.Abs(got-test.want) > 1e-12 {
			t.Errorf("LinearInterp(%g, %g, %g) = %g; want %g", test.x0, test.x1, test.t, got, test.want)
		}
	}
}

// The endpoints must be reproduced bit for bit.
func TestLinearInterpEndpoints(t *testing.T) {
	for _, x := range [][2]float64{{0.1, 0.7}, {1e-30, 3e5}, {-4.2, 17.3}, {1. / 3, 2. / 7}} {
		if got := LinearInterp(x[0], x[1], 0); got != x[0] {
			t.Errorf("t=0: got %v; want %v", got, x[0])
		}
		if got := LinearInterp(x[0], x[1], 1); got != x[1] {
			t.Errorf("t=1: got %v; want %v", got, x[1])
		}
	}
}

func TestVerticalInterpColumn(t *testing.T) {
	pSrc := []float64{0, 10000, 50000, 90000, 100000}
	ySrc := []float64{1, 2, 6, 10, 12}
	vi := VerticalInterp{}

	pDst := []float64{5000, 10000, 30000, 95000, 100000}
	want := []float64{1.5, 2, 4, 11, 12}
	got := make([]float64, len(pDst))
	vi.Column(pSrc, ySrc, pDst, got, false)
	for k := range want {
		if math.Abs(got[k]-want[k]) > 1e-12 {
			t.Errorf("level %d: got %g; want %g", k, got[k], want[k])
		}
	}
}

func TestVerticalInterpClamp(t *testing.T) {
	pSrc := []float64{100, 500, 1000}
	ySrc := []float64{3, 4, 7}
	vi := VerticalInterp{}
	got := make([]float64, 2)
	vi.Column(pSrc, ySrc, []float64{10, 1050}, got, false)
	if got[0] != 3 {
		t.Errorf("above top: got %g; want 3", got[0])
	}
	if got[1] != 7 {
		t.Errorf("below bottom: got %g; want 7", got[1])
	}
}

func TestVerticalInterpFloor(t *testing.T) {
	pSrc := []float64{100, 200}
	ySrc := []float64{-1, 1}
	pDst := []float64{100, 150, 175}
	got := make([]float64, len(pDst))

	VerticalInterp{MinThreshold: 0}.Column(pSrc, ySrc, pDst, got, true)
	for k, want := range []float64{0, 0, 0.5} {
		if got[k] != want {
			t.Errorf("floored level %d: got %g; want %g", k, got[k], want)
		}
	}

	VerticalInterp{MinThreshold: 0}.Column(pSrc, ySrc, pDst, got, false)
	for k, want := range []float64{-1, 0, 0.5} {
		if got[k] != want {
			t.Errorf("unfloored level %d: got %g; want %g", k, got[k], want)
		}
	}
}

func TestVerticalInterpIdentity(t *testing.T) {
	p := []float64{1000, 2000, 4000, 8000, 16000}
	y := []float64{0.3, 0.1, 0.4, 0.1, 0.5}
	got := make([]float64, len(p))
	VerticalInterp{}.Column(p, y, p, got, true)
	for k := range y {
		if got[k] != y[k] {
			t.Errorf("level %d: got %g; want %g", k, got[k], y[k])
		}
	}
}

func TestHybridPressure(t *testing.T) {
	if p := HybridPressure(98000, 0.01, 0.5); different(p, 0.5*98000+0.01*P0, 1e-12) {
		t.Errorf("got %g", p)
	}
	if p := HybridPressure(98000, 0, 1); p != 98000 {
		t.Errorf("surface: got %g; want 98000", p)
	}
	if p := HybridPressure(98000, 0, 0); p != 0 {
		t.Errorf("top: got %g; want 0", p)
	}
}
