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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// RunConfig holds the settings for a run.
type RunConfig struct {
	DataFile, RemapFile, SimGridFile string
	OutputFile, LogFile              string

	// GlobalColumns is the number of simulation grid columns, or 0 to
	// take it from the input files.
	GlobalColumns int

	// Workers and Rank determine the columns owned by this run.
	Workers, Rank int

	Start, End time.Time
	TimeStep   time.Duration

	MinThreshold, LowerBound float64
	RepairOutput             bool

	CacheSize, Threads int

	MetricsAddr string
}

// RunConfigFromViper reads and checks the run settings in cfg.
func RunConfigFromViper(cfg *viper.Viper) (*RunConfig, error) {
	rc := &RunConfig{
		DataFile:      expand(cfg.GetString("DataFile")),
		RemapFile:     expand(cfg.GetString("RemapFile")),
		SimGridFile:   expand(cfg.GetString("SimGridFile")),
		GlobalColumns: cfg.GetInt("GlobalColumns"),
		Workers:       cfg.GetInt("Workers"),
		Rank:          cfg.GetInt("Rank"),
		MinThreshold:  cfg.GetFloat64("MinThreshold"),
		LowerBound:    cfg.GetFloat64("LowerBound"),
		RepairOutput:  cfg.GetBool("RepairOutput"),
		CacheSize:     cfg.GetInt("CacheSize"),
		Threads:       cfg.GetInt("Threads"),
		MetricsAddr:   cfg.GetString("MetricsAddr"),
	}
	if rc.DataFile == "" {
		return nil, fmt.Errorf("spa: you need to specify the DataFile configuration variable")
	}
	var err error
	if rc.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile")); err != nil {
		return nil, err
	}
	rc.LogFile = checkLogFile(expand(cfg.GetString("LogFile")), rc.OutputFile)

	if rc.Start, err = parseDate("StartDate", cfg.Get("StartDate")); err != nil {
		return nil, err
	}
	if rc.End, err = parseDate("EndDate", cfg.Get("EndDate")); err != nil {
		return nil, err
	}
	if !rc.End.After(rc.Start) {
		return nil, fmt.Errorf("spa: EndDate (%v) must be after StartDate (%v)", rc.End, rc.Start)
	}
	if rc.TimeStep, err = cast.ToDurationE(cfg.Get("TimeStep")); err != nil {
		return nil, fmt.Errorf("spa: invalid TimeStep: %v", err)
	}
	if rc.TimeStep <= 0 {
		return nil, fmt.Errorf("spa: TimeStep must be positive but is %v", rc.TimeStep)
	}
	if rc.CacheSize < 1 {
		return nil, fmt.Errorf("spa: CacheSize must be at least 1 but is %d", rc.CacheSize)
	}
	return rc, nil
}

// parseDate converts v, the value of the named option, to a time in UTC.
func parseDate(name string, v interface{}) (time.Time, error) {
	if s, ok := v.(string); ok {
		v = os.ExpandEnv(s)
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return t, fmt.Errorf("spa: invalid %s: %v", name, err)
	}
	return t.UTC(), nil
}

// expand expands any environment variables in a file path.
func expand(path string) string {
	return os.ExpandEnv(path)
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`spa: you need to specify an output file configuration variable (for example: OutputFile="output.nc")`)
	}
	f = expand(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("spa: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}
