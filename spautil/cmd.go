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

	"github.com/lnashier/viper"
	"github.com/spatialmodel/spa"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to SPA.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "DataFile",
			usage: `
              DataFile is the path to the monthly prescribed aerosol data file.
              It must hold 12 monthly records of PS, CCN3, AER_G_SW, AER_SSA_SW,
              AER_TAU_SW and AER_TAU_LW, along with the hybrid coefficients hyam and
              hybm. It can include environment variables.`,
			shorthand:  "d",
			defaultVal: "spa_data.nc",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "RemapFile",
			usage: `
              RemapFile is the path to the horizontal remap file mapping the columns of
              DataFile onto the simulation grid. If it is blank, the simulation grid
              is assumed to be the same as the data grid. It can include environment
              variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "SimGridFile",
			usage: `
              SimGridFile is the path to a file holding the hybrid coefficients hyam and
              hybm of the simulation's vertical grid. If it is blank, the simulation uses
              the vertical grid of DataFile. It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "GlobalColumns",
			usage: `
              GlobalColumns is the number of columns in the simulation grid. If it is 0,
              it is taken from RemapFile, or from DataFile when there is no RemapFile.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of workers the simulation grid columns are
              divided among.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "Rank",
			usage: `
              Rank is the 0-based index of this worker. Columns are dealt out to the
              workers round-robin.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "StartDate",
			usage: `
              StartDate is the time of the first output step. Format = "YYYY-MM-DD" or
              RFC 3339.`,
			defaultVal: "2000-01-01",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "EndDate",
			usage: `
              EndDate is the time of the end of the run (exclusive). Format = "YYYY-MM-DD"
              or RFC 3339.`,
			defaultVal: "2000-01-02",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TimeStep",
			usage: `
              TimeStep is the interval between output steps, for example "30m" or "6h".`,
			defaultVal: "6h",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MinThreshold",
			usage: `
              MinThreshold is the lowest value that physically non-negative quantities
              can take after vertical interpolation.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LowerBound",
			usage: `
              LowerBound is the lowest acceptable output value of physically non-negative
              quantities.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "RepairOutput",
			usage: `
              If RepairOutput is true, output values below LowerBound are set to
              LowerBound. If false, they cause the run to fail.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CacheSize",
			usage: `
              CacheSize is the number of variable records from DataFile kept in memory.`,
			defaultVal: 64,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Threads",
			usage: `
              Threads is the maximum number of columns processed concurrently. If it is
              0, the number of processors is used.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired output netCDF file location. It can
              include environment variables.`,
			shorthand:  "o",
			defaultVal: "spa_output.nc",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of log messages: "debug", "info", "warn"
              or "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MetricsAddr",
			usage: `
              MetricsAddr is the address, for example ":9090", where Prometheus metrics
              are served during a run. If it is blank, metrics are not served.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SPA")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(remapCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("spa: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "spa",
	Short: "Prescribed aerosol forcing.",
	Long: `SPA prescribes monthly aerosol optical properties and cloud condensation
nuclei concentrations to an atmospheric simulation. Monthly data are remapped
to the simulation columns, interpolated in time between the bracketing months
and interpolated to the simulation's pressure levels.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SPA_var' where 'var' is the
name of the variable to be set. File paths are additionally allowed to contain
environment variables within them.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of SPA.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("SPA v%s\n", spa.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that interpolates the monthly data over a period of
// simulation time and writes the result to a file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interpolate prescribed aerosol data.",
	Long: `run steps from StartDate to EndDate at intervals of TimeStep, interpolating
the monthly data in DataFile to the simulation columns owned by this worker and to
the simulation's vertical grid at each step, and writes the results to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := RunConfigFromViper(Cfg)
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(cmd.OutOrStdout(), Cfg.GetString("LogLevel"), cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()
		return Run(context.Background(), cfg, log)
	},
	DisableAutoGenTag: true,
}

// remapCmd is a command that reports on the coverage of the remap weights.
var remapCmd = &cobra.Command{
	Use:   "remap",
	Short: "Check remap coverage.",
	Long: `remap loads the horizontal remapping for the columns owned by this worker
and reports the columns whose remap weights do not sum to one, along with the
data file columns the worker needs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closeLog, err := newLogger(cmd.OutOrStdout(), Cfg.GetString("LogLevel"), "")
		if err != nil {
			return err
		}
		defer closeLog()
		cov, err := RemapCoverage(
			expand(Cfg.GetString("DataFile")),
			expand(Cfg.GetString("RemapFile")),
			Cfg.GetInt("GlobalColumns"),
			Cfg.GetInt("Workers"),
			Cfg.GetInt("Rank"),
		)
		if err != nil {
			return err
		}
		cov.log(log)
		return nil
	},
	DisableAutoGenTag: true,
}
