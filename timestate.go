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

import "time"

// TimeState tracks the simulation time relative to the month bracketed
// by the begin and end datasets. Times are in days since the start of
// the current year.
type TimeState struct {
	// Now is the current simulation time.
	Now float64

	// MonthBegin is the time at the start of the current month.
	MonthBegin float64

	// DaysInMonth is the length of the current month.
	DaysInMonth float64

	// Month is the current month, 1 through 12. It is 0 before the
	// first call to Advance.
	Month int
}

// Advance sets the current time to now. It returns true if the month has
// changed since the last call, in which case the begin and end datasets
// must be reloaded. Calendar calculations are carried out in UTC.
func (ts *TimeState) Advance(now time.Time) bool {
	now = now.UTC()
	ts.Now = dayOfYear(now)
	m := int(now.Month())
	if m == ts.Month {
		return false
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	ts.Month = m
	ts.MonthBegin = dayOfYear(first)
	ts.DaysInMonth = float64(first.AddDate(0, 1, 0).Sub(first)) / float64(24*time.Hour)
	return true
}

// Norm returns the position of the current time within the current
// month, where 0 is the start of the month and 1 the start of the next.
func (ts *TimeState) Norm() float64 {
	return (ts.Now - ts.MonthBegin) / ts.DaysInMonth
}

// NextMonth returns the month following m, wrapping December to January.
func NextMonth(m int) int {
	return m%numMonths + 1
}

// dayOfYear returns the fractional number of days between the start of
// the year of t and t, which must be in UTC.
func dayOfYear(t time.Time) float64 {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return float64(t.Sub(jan1)) / float64(24*time.Hour)
}
