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

// Partition returns the 0-based global ids of the columns owned by
// worker rank out of workers, dealing the globalCols columns out
// round-robin.
func Partition(globalCols, workers, rank int) ([]int, error) {
	if workers < 1 {
		return nil, fmt.Errorf("spa: invalid number of workers %d", workers)
	}
	if rank < 0 || rank >= workers {
		return nil, fmt.Errorf("spa: rank %d out of range [0, %d)", rank, workers)
	}
	var ids []int
	for gid := rank; gid < globalCols; gid += workers {
		ids = append(ids, gid)
	}
	return ids, nil
}
