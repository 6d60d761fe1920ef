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
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Names of the dimensions and variables in a remap file.
const (
	remapDimS   = "n_s"
	remapDimA   = "n_a"
	remapDimB   = "n_b"
	remapWeight = "S"
	remapRow    = "row"
	remapCol    = "col"
)

// A Triplet is one entry of a sparse horizontal remapping: Source
// contributes Weight of its value to Target.
type Triplet struct {
	Source, Target int
	Weight         float64
}

// Remap maps columns of a source grid onto the columns of the simulation
// grid that are owned by the current worker.
type Remap struct {
	// SourceColumns is the number of columns in the source grid.
	SourceColumns int

	// TargetColumns is the number of locally owned target columns.
	TargetColumns int

	// Triplets holds the mapping. Source is a 0-based source grid
	// column and Target a 0-based local column index.
	Triplets []Triplet

	// byTarget holds, for each target column, the indices into Triplets
	// of the entries contributing to it, in their original order.
	byTarget [][]int
}

// NewRemap creates a remapping from the given triplets, which must
// already have local target indices.
func NewRemap(sourceCols, targetCols int, triplets []Triplet) (*Remap, error) {
	r := &Remap{SourceColumns: sourceCols, TargetColumns: targetCols, Triplets: triplets}
	r.byTarget = make([][]int, targetCols)
	for i, t := range triplets {
		if t.Source < 0 || t.Source >= sourceCols {
			return nil, fmt.Errorf("spa: remap source column %d out of range [0, %d)", t.Source, sourceCols)
		}
		if t.Target < 0 || t.Target >= targetCols {
			return nil, fmt.Errorf("spa: remap target column %d out of range [0, %d)", t.Target, targetCols)
		}
		r.byTarget[t.Target] = append(r.byTarget[t.Target], i)
	}
	return r, nil
}

// IdentityRemap returns a remapping for a simulation grid that matches
// the source grid. owned holds the global ids of the locally owned
// columns, numbered from firstGlobalID, and cols is the global number of
// columns.
func IdentityRemap(cols, firstGlobalID int, owned []int) (*Remap, error) {
	t := make([]Triplet, len(owned))
	for i, gid := range owned {
		if gid < firstGlobalID || gid-firstGlobalID >= cols {
			return nil, fmt.Errorf("spa: owned column id %d out of range [%d, %d)", gid, firstGlobalID, firstGlobalID+cols)
		}
		t[i] = Triplet{Source: gid - firstGlobalID, Target: i, Weight: 1}
	}
	return NewRemap(cols, len(owned), t)
}

// LoadRemap reads a remapping from src, which must have dimensions n_s
// (number of entries), n_a (source columns) and n_b (target columns), and
// variables S (weights), row (1-based source columns) and col
// (1-based target columns). globalCols is the number of columns in the
// simulation grid and owned holds the 0-based global ids of the columns
// owned by the current worker. Only entries whose target is owned are
// kept, and their targets are replaced with the position of the column
// in owned.
func LoadRemap(src Source, globalCols int, owned []int) (*Remap, error) {
	ns, err := src.DimLen(remapDimS)
	if err != nil {
		return nil, err
	}
	na, err := src.DimLen(remapDimA)
	if err != nil {
		return nil, err
	}
	nb, err := src.DimLen(remapDimB)
	if err != nil {
		return nil, err
	}
	if nb != globalCols {
		return nil, fmt.Errorf("spa: remap target domain has %d columns but simulation domain has %d", nb, globalCols)
	}
	vars := make(map[string][]float64)
	for _, v := range []string{remapWeight, remapRow, remapCol} {
		a, err := src.Read(v, -1)
		if err != nil {
			return nil, err
		}
		if len(a.Elements) != ns {
			return nil, fmt.Errorf("spa: remap variable %s has length %d; want %d", v, len(a.Elements), ns)
		}
		vars[v] = a.Elements
	}

	local := make(map[int]int, len(owned))
	for i, gid := range owned {
		if _, ok := local[gid]; !ok {
			local[gid] = i
		}
	}
	var t []Triplet
	for i := 0; i < ns; i++ {
		row := int(vars[remapRow][i]) - 1
		col := int(vars[remapCol][i]) - 1
		if row < 0 || row >= na {
			return nil, fmt.Errorf("spa: remap entry %d has source column %d outside [1, %d]", i, row+1, na)
		}
		if col < 0 || col >= nb {
			return nil, fmt.Errorf("spa: remap entry %d has target column %d outside [1, %d]", i, col+1, nb)
		}
		if lc, ok := local[col]; ok {
			t = append(t, Triplet{Source: row, Target: lc, Weight: vars[remapWeight][i]})
		}
	}
	return NewRemap(na, len(owned), t)
}

// WeightSums returns the total weight contributed to each target column.
// For target columns fully covered by the source grid the sum is 1.
func (r *Remap) WeightSums() []float64 {
	sums := make([]float64, r.TargetColumns)
	w := make([]float64, 0, 8)
	for c, idx := range r.byTarget {
		w = w[:0]
		for _, i := range idx {
			w = append(w, r.Triplets[i].Weight)
		}
		sums[c] = floats.Sum(w)
	}
	return sums
}

// Uncovered returns the target columns whose total weight differs from 1
// by more than tol.
func (r *Remap) Uncovered(tol float64) []int {
	var out []int
	for c, s := range r.WeightSums() {
		if math.Abs(s-1) > tol {
			out = append(out, c)
		}
	}
	return out
}

// eachTriplet calls fn for every triplet contributing to the target
// columns in [c0, c1), one target column at a time and in file order
// within a target. Calls for disjoint target ranges touch disjoint
// targets and may run concurrently.
func (r *Remap) eachTriplet(c0, c1 int, fn func(t Triplet)) {
	for c := c0; c < c1; c++ {
		for _, i := range r.byTarget[c] {
			fn(r.Triplets[i])
		}
	}
}

// Sources returns the distinct source columns referenced by r in
// increasing order.
func (r *Remap) Sources() []int {
	seen := make(map[int]bool)
	var s []int
	for _, t := range r.Triplets {
		if !seen[t.Source] {
			seen[t.Source] = true
			s = append(s, t.Source)
		}
	}
	sort.Ints(s)
	return s
}
