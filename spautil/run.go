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
	"context"
	"fmt"
	"time"

	"github.com/ctessum/sparse"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/spa"
)

// coverageTolerance is the allowed difference between one and the sum of
// the remap weights of a column.
const coverageTolerance = 1e-6

// Run interpolates the monthly data described by cfg over the run period
// and writes the results to cfg.OutputFile.
func Run(ctx context.Context, cfg *RunConfig, log logrus.FieldLogger) error {
	startTime := time.Now()

	reg := prometheus.NewRegistry()
	metrics := spa.NewMetrics(reg, "spa")
	if cfg.MetricsAddr != "" {
		ms, err := serveMetrics(cfg.MetricsAddr, reg, log)
		if err != nil {
			return fmt.Errorf("spa: starting metrics server: %w", err)
		}
		defer func() {
			if err := ms.shutdown(ctx); err != nil {
				log.WithError(err).Warn("spa: stopping metrics server")
			}
		}()
	}

	data, err := spa.OpenNCF(cfg.DataFile)
	if err != nil {
		return err
	}
	defer data.Close()
	src, err := spa.NewCachedSource(data, cfg.CacheSize, metrics)
	if err != nil {
		return err
	}

	r, gids, err := localRemap(data, cfg.RemapFile, cfg.GlobalColumns, cfg.Workers, cfg.Rank)
	if err != nil {
		return err
	}
	if len(gids) == 0 {
		return fmt.Errorf("spa: rank %d of %d owns no columns", cfg.Rank, cfg.Workers)
	}
	if u := r.Uncovered(coverageTolerance); len(u) > 0 {
		log.WithFields(logrus.Fields{
			"uncovered": len(u),
			"columns":   r.TargetColumns,
		}).Warn("spa: remap weights of some columns do not sum to one")
	}
	log.WithFields(logrus.Fields{
		"rank":           cfg.Rank,
		"columns":        r.TargetColumns,
		"source_columns": len(r.Sources()),
	}).Info("spa: loaded horizontal remapping")

	forcing, err := spa.NewForcing(src, r, log, metrics)
	if err != nil {
		return err
	}
	gridSrc := spa.Source(data)
	if cfg.SimGridFile != "" {
		g, err := spa.OpenNCF(cfg.SimGridFile)
		if err != nil {
			return err
		}
		defer g.Close()
		gridSrc = g
	}
	hyam, hybm, err := simGrid(gridSrc)
	if err != nil {
		return err
	}

	shape := forcing.Begin.Shape
	out := spa.NewOutput(r.TargetColumns, len(hyam), shape.SWBands, shape.LWBands)
	ps := sparse.ZerosDense(r.TargetColumns)
	pstate, err := spa.NewPressureState(sparse.ZerosDense(r.TargetColumns, len(hyam)))
	if err != nil {
		return err
	}
	ref := time.Date(cfg.Start.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	w, err := spa.NewOutputWriter(cfg.OutputFile, out.Shape, gids, ref)
	if err != nil {
		return err
	}

	in := &spa.Interpolator{MinThreshold: cfg.MinThreshold, Workers: cfg.Threads, Metrics: metrics}
	check := spa.LowerBoundCheck{Bound: cfg.LowerBound, CanRepair: cfg.RepairOutput, Metrics: metrics}
	for now := cfg.Start; now.Before(cfg.End); now = now.Add(cfg.TimeStep) {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = step(now, forcing, in, check, hyam, hybm, ps, pstate, out, w, log); err != nil {
			break
		}
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"records": w.Records(),
		"output":  cfg.OutputFile,
		"elapsed": time.Since(startTime).String(),
	}).Info("spa: run complete")
	return nil
}

// step computes and writes the output for time now.
func step(now time.Time, forcing *spa.Forcing, in *spa.Interpolator, check spa.LowerBoundCheck,
	hyam, hybm []float64, ps *sparse.DenseArray, pstate *spa.PressureState, out *spa.Output,
	w *spa.OutputWriter, log logrus.FieldLogger) error {
	if err := forcing.Update(now); err != nil {
		return err
	}
	simPressure(forcing, hyam, hybm, ps, pstate)
	if err := in.Run(&forcing.Time, pstate, forcing.Begin, forcing.End, out); err != nil {
		return err
	}
	res, err := check.Check(out)
	if err != nil {
		return fmt.Errorf("spa: output at %v: %w", now, err)
	}
	if res == spa.Repaired {
		log.WithField("time", now.Format(time.RFC3339)).Warn("spa: output values raised to the lower bound")
	}
	log.WithFields(logrus.Fields{
		"time": now.Format(time.RFC3339),
		"norm": forcing.Time.Norm(),
	}).Debug("spa: interpolated")
	return w.Write(now, ps, out)
}

// simPressure sets ps to the source surface pressure interpolated to the
// current time and fills pstate with the mid-level pressures of the
// simulation grid given by hyam and hybm.
func simPressure(forcing *spa.Forcing, hyam, hybm []float64, ps *sparse.DenseArray, pstate *spa.PressureState) {
	tNorm := forcing.Time.Norm()
	b, e := forcing.Begin.PS.Elements, forcing.End.PS.Elements
	for c := range ps.Elements {
		ps.Elements[c] = spa.LinearInterp(b[c], e[c], tNorm)
		for k := range hyam {
			pstate.PMid.Elements[c*pstate.Levels+k] = spa.HybridPressure(ps.Elements[c], hyam[k], hybm[k])
		}
	}
}

// simGrid reads the hybrid coefficients of the simulation grid from src.
func simGrid(src spa.Source) (hyam, hybm []float64, err error) {
	a, err := src.Read("hyam", -1)
	if err != nil {
		return nil, nil, err
	}
	b, err := src.Read("hybm", -1)
	if err != nil {
		return nil, nil, err
	}
	if len(a.Elements) != len(b.Elements) || len(a.Elements) == 0 {
		return nil, nil, fmt.Errorf("spa: simulation grid has %d hyam and %d hybm values",
			len(a.Elements), len(b.Elements))
	}
	return a.Elements, b.Elements, nil
}

// localRemap returns the horizontal remapping onto the columns owned by
// rank out of workers, along with the global ids of those columns. If
// remapFile is empty, the simulation grid is taken to be the grid of data.
// If globalCols is 0, it is taken from the remap file or data.
func localRemap(data spa.Source, remapFile string, globalCols, workers, rank int) (*spa.Remap, []int, error) {
	fs, err := spa.FileShape(data)
	if err != nil {
		return nil, nil, err
	}
	if remapFile == "" {
		if globalCols == 0 {
			globalCols = fs.Cols
		}
		if globalCols != fs.Cols {
			return nil, nil, fmt.Errorf("spa: GlobalColumns (%d) doesn't match the data file (%d) and no RemapFile was given",
				globalCols, fs.Cols)
		}
		owned, err := spa.Partition(globalCols, workers, rank)
		if err != nil {
			return nil, nil, err
		}
		r, err := spa.IdentityRemap(globalCols, 0, owned)
		if err != nil {
			return nil, nil, err
		}
		return r, owned, nil
	}

	rf, err := spa.OpenNCF(remapFile)
	if err != nil {
		return nil, nil, err
	}
	defer rf.Close()
	if globalCols == 0 {
		if globalCols, err = rf.DimLen("n_b"); err != nil {
			return nil, nil, err
		}
	}
	owned, err := spa.Partition(globalCols, workers, rank)
	if err != nil {
		return nil, nil, err
	}
	r, err := spa.LoadRemap(rf, globalCols, owned)
	if err != nil {
		return nil, nil, err
	}
	if r.SourceColumns != fs.Cols {
		return nil, nil, fmt.Errorf("spa: number of columns in remap data (%d) doesn't match the data file (%d)",
			r.SourceColumns, fs.Cols)
	}
	return r, owned, nil
}
