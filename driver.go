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
	"time"
)

// Interpolator produces prescribed aerosol data for the current
// simulation time and pressure profile from a pair of monthly datasets.
type Interpolator struct {
	// MinThreshold is the floor applied to physically non-negative
	// quantities after vertical interpolation.
	MinThreshold float64

	// Workers is the maximum number of concurrent column tasks. If it
	// is zero, runtime.GOMAXPROCS is used.
	Workers int

	// Metrics, if not nil, records the time spent in each phase.
	Metrics *Metrics

	// mid holds the temporally interpolated data between phases.
	mid *Data
}

// Run interpolates begin and end to the time in ts and then to the
// pressure profile in ps, writing the result to out. begin and end must
// have been loaded for the month tracked by ts and the month following it.
func (in *Interpolator) Run(ts *TimeState, ps *PressureState, begin, end *Data, out *Output) error {
	if err := checkRun(ps, begin, end, out); err != nil {
		return err
	}
	if in.mid == nil || in.mid.Shape != begin.Shape {
		in.mid = NewData(begin.Cols, begin.FileLevels(), begin.SWBands, begin.LWBands)
	}

	start := time.Now()
	tNorm := ts.Norm()
	err := parallelColumns(begin.Cols, in.Workers, func(c0, c1 int) error {
		interpolateTime(tNorm, begin, end, in.mid, c0, c1)
		return nil
	})
	if err != nil {
		return err
	}
	in.Metrics.observePhase("time", start)

	start = time.Now()
	if err := InterpolateVertical(VerticalInterp{MinThreshold: in.MinThreshold}, in.mid, ps, out, in.Workers); err != nil {
		return err
	}
	in.Metrics.observePhase("vertical", start)
	return nil
}

// checkRun checks that the datasets passed to Run are consistent.
func checkRun(ps *PressureState, begin, end *Data, out *Output) error {
	switch {
	case ps.Cols != begin.Cols || begin.Cols != end.Cols || end.Cols != out.Cols:
		return fmt.Errorf("spa: number of columns differs between pressure state (%d), begin data (%d), "+
			"end data (%d) and output (%d)", ps.Cols, begin.Cols, end.Cols, out.Cols)
	case ps.Levels != out.Levels:
		return fmt.Errorf("spa: pressure state has %d levels but output has %d", ps.Levels, out.Levels)
	case begin.Levels != end.Levels:
		return fmt.Errorf("spa: begin data has %d levels but end data has %d", begin.Levels, end.Levels)
	case begin.SWBands != end.SWBands || begin.SWBands != out.SWBands:
		return fmt.Errorf("spa: number of SW bands differs between begin data (%d), end data (%d) and output (%d)",
			begin.SWBands, end.SWBands, out.SWBands)
	case begin.LWBands != end.LWBands || begin.LWBands != out.LWBands:
		return fmt.Errorf("spa: number of LW bands differs between begin data (%d), end data (%d) and output (%d)",
			begin.LWBands, end.LWBands, out.LWBands)
	case len(ps.PMid.Elements) != ps.Cols*ps.Levels:
		return fmt.Errorf("spa: pressure state has %d values; want %d", len(ps.PMid.Elements), ps.Cols*ps.Levels)
	}
	return nil
}

// InterpolateTime sets out to the linear interpolation between begin and
// end at normalized time tNorm, where tNorm = 0 gives begin and tNorm = 1
// gives end. The hybrid coefficients of out are copied from begin.
func InterpolateTime(tNorm float64, begin, end, out *Data) error {
	if begin.Shape != end.Shape || begin.Shape != out.Shape {
		return fmt.Errorf("spa: temporal interpolation shapes differ: begin %+v, end %+v, output %+v",
			begin.Shape, end.Shape, out.Shape)
	}
	interpolateTime(tNorm, begin, end, out, 0, begin.Cols)
	return nil
}

// interpolateTime carries out InterpolateTime for columns [c0, c1).
func interpolateTime(tNorm float64, begin, end, out *Data, c0, c1 int) {
	if c0 == 0 {
		copy(out.HyAM.Elements, begin.HyAM.Elements)
		copy(out.HyBM.Elements, begin.HyBM.Elements)
	}
	for c := c0; c < c1; c++ {
		out.PS.Elements[c] = LinearInterp(begin.PS.Elements[c], end.PS.Elements[c], tNorm)
	}
	for _, f := range Fields {
		w := begin.Bands(f) * begin.Levels
		b, e, o := begin.Fields[f].Elements, end.Fields[f].Elements, out.Fields[f].Elements
		for i := c0 * w; i < c1*w; i++ {
			o[i] = LinearInterp(b[i], e[i], tNorm)
		}
	}
}

// InterpolateVertical interpolates src from its own hybrid pressure
// profile to the pressure profile in ps, writing the result to out.
// Columns are processed concurrently by at most workers goroutines.
func InterpolateVertical(vi VerticalInterp, src *Data, ps *PressureState, out *Output, workers int) error {
	if src.Cols != ps.Cols || src.Cols != out.Cols || ps.Levels != out.Levels ||
		src.SWBands != out.SWBands || src.LWBands != out.LWBands {
		return fmt.Errorf("spa: vertical interpolation shapes differ: source %+v, pressure %dx%d, output %+v",
			src.Shape, ps.Cols, ps.Levels, out.Shape)
	}
	return parallelColumns(src.Cols, workers, func(c0, c1 int) error {
		pSrc := make([]float64, src.Levels)
		for c := c0; c < c1; c++ {
			src.SourcePressure(c, pSrc)
			pDst := column(ps.PMid.Elements, c, ps.Levels)
			for _, f := range Fields {
				nb := src.Bands(f)
				for b := 0; b < nb; b++ {
					vi.Column(pSrc,
						column(src.Fields[f].Elements, c*nb+b, src.Levels),
						pDst,
						column(out.Fields[f].Elements, c*nb+b, out.Levels),
						f.NonNegative())
				}
			}
		}
		return nil
	})
}
