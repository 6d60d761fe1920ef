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

// LinearInterp returns the linear blend of x0 and x1 at normalized
// position t, where t = 0 returns x0 and t = 1 returns x1.
func LinearInterp(x0, x1, t float64) float64 {
	return (1-t)*x0 + t*x1
}

// VerticalInterp interpolates column profiles from one pressure grid
// to another.
type VerticalInterp struct {
	// MinThreshold is the floor applied to physically non-negative
	// quantities after interpolation.
	MinThreshold float64
}

// Column interpolates the source profile ySrc, located at pressures pSrc,
// to the destination pressures pDst, writing the result to yDst.
// pSrc must increase monotonically with index. Destination pressures
// outside of the source range take the value at the nearest end of the
// source profile. If floor is true, results are limited below by
// v.MinThreshold.
func (v VerticalInterp) Column(pSrc, ySrc, pDst, yDst []float64, floor bool) {
	n := len(pSrc)
	for k, p := range pDst {
		var y float64
		switch {
		case p <= pSrc[0]:
			y = ySrc[0]
		case p >= pSrc[n-1]:
			y = ySrc[n-1]
		default:
			j := 1
			for pSrc[j] < p {
				j++
			}
			if pSrc[j] == p {
				y = ySrc[j]
			} else {
				t := (p - pSrc[j-1]) / (pSrc[j] - pSrc[j-1])
				y = LinearInterp(ySrc[j-1], ySrc[j], t)
			}
		}
		if floor && y < v.MinThreshold {
			y = v.MinThreshold
		}
		yDst[k] = y
	}
}
