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

	"github.com/sirupsen/logrus"
)

// Forcing keeps a pair of monthly datasets bracketing the simulation
// time up to date.
type Forcing struct {
	// Src is the monthly dataset.
	Src Source

	// Remap maps the dataset columns onto the local columns.
	Remap *Remap

	// Begin and End hold the data for the current and following months.
	Begin, End *Data

	// Time tracks the simulation time.
	Time TimeState

	Log     logrus.FieldLogger
	Metrics *Metrics
}

// NewForcing allocates the begin and end datasets for the monthly
// dataset src remapped by r. No data is loaded until the first call to
// Update. log and m may be nil.
func NewForcing(src Source, r *Remap, log logrus.FieldLogger, m *Metrics) (*Forcing, error) {
	fs, err := FileShape(src)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Forcing{
		Src:     src,
		Remap:   r,
		Begin:   NewData(r.TargetColumns, fs.Levels, fs.SWBands, fs.LWBands),
		End:     NewData(r.TargetColumns, fs.Levels, fs.SWBands, fs.LWBands),
		Log:     log,
		Metrics: m,
	}, nil
}

// Update advances the simulation time to now. When the month changes,
// the begin dataset is loaded from the new month and the end dataset from
// the month after it. The tracked time only moves once both loads have
// succeeded, so a failed Update is retried by the next call.
func (f *Forcing) Update(now time.Time) error {
	ts := f.Time
	if !ts.Advance(now) {
		f.Time = ts
		return nil
	}
	month := ts.Month
	next := NextMonth(month)
	f.Log.WithFields(logrus.Fields{
		"time":       now.Format(time.RFC3339),
		"month":      month,
		"next_month": next,
	}).Info("spa: loading monthly data")
	if err := f.Begin.Load(f.Src, month, f.Remap); err != nil {
		return fmt.Errorf("spa: loading begin month %d: %w", month, err)
	}
	f.Metrics.reload("begin")
	if err := f.End.Load(f.Src, next, f.Remap); err != nil {
		return fmt.Errorf("spa: loading end month %d: %w", next, err)
	}
	f.Metrics.reload("end")
	f.Time = ts
	return nil
}
