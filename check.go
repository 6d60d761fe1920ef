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

import "fmt"

// CheckResult is the outcome of an output check.
type CheckResult int

const (
	// Pass means every value satisfied the check.
	Pass CheckResult = iota
	// Repaired means some values failed the check and were overwritten.
	Repaired
)

func (r CheckResult) String() string {
	if r == Repaired {
		return "repaired"
	}
	return "pass"
}

// LowerBoundCheck checks that the physically non-negative output
// fields are not below Bound.
type LowerBoundCheck struct {
	Bound float64

	// CanRepair specifies whether values below Bound are set to Bound
	// rather than causing an error.
	CanRepair bool

	Metrics *Metrics
}

// Check checks out, repairing it if allowed.
func (lb LowerBoundCheck) Check(out *Output) (CheckResult, error) {
	res := Pass
	repairs := 0
	for _, f := range Fields {
		if !f.NonNegative() {
			continue
		}
		e := out.Fields[f].Elements
		for i, v := range e {
			if v >= lb.Bound {
				continue
			}
			if !lb.CanRepair {
				idx := out.Fields[f].IndexNd(i)
				return res, fmt.Errorf("spa: %s value %g at index %v is below lower bound %g", f, v, idx, lb.Bound)
			}
			e[i] = lb.Bound
			repairs++
			res = Repaired
		}
	}
	lb.Metrics.repaired(repairs)
	return res, nil
}
