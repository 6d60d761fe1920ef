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

package spautil

import (
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/spa"
)

// Coverage summarizes the horizontal remapping for one worker.
type Coverage struct {
	Rank int

	// Columns holds the global ids of the columns owned by the worker.
	Columns []int

	// WeightSums holds the total remap weight of each owned column.
	WeightSums []float64

	// Uncovered holds the global ids of the owned columns whose weights
	// do not sum to one.
	Uncovered []int

	// Sources holds the data file columns that contribute to the owned
	// columns.
	Sources []int
}

// RemapCoverage loads the remapping from remapFile onto the columns owned
// by rank out of workers and reports its coverage. An empty remapFile
// means the simulation grid is the grid of dataFile.
func RemapCoverage(dataFile, remapFile string, globalCols, workers, rank int) (*Coverage, error) {
	data, err := spa.OpenNCF(dataFile)
	if err != nil {
		return nil, err
	}
	defer data.Close()
	r, gids, err := localRemap(data, remapFile, globalCols, workers, rank)
	if err != nil {
		return nil, err
	}
	c := &Coverage{
		Rank:       rank,
		Columns:    gids,
		WeightSums: r.WeightSums(),
		Sources:    r.Sources(),
	}
	for _, i := range r.Uncovered(coverageTolerance) {
		c.Uncovered = append(c.Uncovered, gids[i])
	}
	return c, nil
}

func (c *Coverage) log(log logrus.FieldLogger) {
	log.WithFields(logrus.Fields{
		"rank":           c.Rank,
		"columns":        len(c.Columns),
		"source_columns": len(c.Sources),
		"uncovered":      len(c.Uncovered),
	}).Info("spa: remap coverage")
	for _, gid := range c.Uncovered {
		i := 0
		for c.Columns[i] != gid {
			i++
		}
		log.WithFields(logrus.Fields{
			"column":     gid,
			"weight_sum": c.WeightSums[i],
		}).Warn("spa: column not fully covered by remap weights")
	}
}
