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
	"runtime"

	"golang.org/x/sync/errgroup"
)

// columnsPerTask is the minimum number of columns handled by one task.
const columnsPerTask = 16

// parallelColumns splits the columns [0, n) into contiguous chunks and
// calls fn on each chunk concurrently, using at most workers goroutines
// (runtime.GOMAXPROCS if workers <= 0). It returns after every chunk has
// been processed, with the first error encountered.
func parallelColumns(n, workers int, fn func(c0, c1 int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (n + workers - 1) / workers
	if chunk < columnsPerTask {
		chunk = columnsPerTask
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for c0 := 0; c0 < n; c0 += chunk {
		c0 := c0
		c1 := c0 + chunk
		if c1 > n {
			c1 = n
		}
		g.Go(func() error { return fn(c0, c1) })
	}
	return g.Wait()
}
