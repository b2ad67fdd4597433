/*
Copyright © 2018 the ModelEval authors.
This file is part of ModelEval.

ModelEval is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ModelEval is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ModelEval.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package evalutil provides the command line interface for ModelEval.
package evalutil

import (
	"fmt"
	"image/color"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/modeleval"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ModelEval.
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
			name: "LogLevel",
			usage: `
              LogLevel sets the verbosity of log output
              (panic, fatal, error, warn, info, debug, trace).`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ModelPath",
			usage: `
              ModelPath is the directory holding the model output files
              to extract from.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ModelName",
			usage: `
              ModelName identifies the model in log and error messages.`,
			defaultVal: "unnamed",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ModelFilter",
			usage: `
              ModelFilter restricts extraction to files whose names
              contain the given substring.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ModelColor",
			usage: `
              ModelColor is the display color assigned to the model, as
              red, green, and blue values between 0 and 255.`,
			defaultVal: []string{"0", "0", "0"},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Variable",
			usage: `
              Variable is the name of the variable to extract.`,
			shorthand:  "v",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "AltVars",
			usage: `
              AltVars lists alternate variable names to search for, in
              decreasing order of preference, if Variable is not found.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "InitialTime",
			usage: `
              InitialTime is the beginning of the extraction window in
              days since 1850-1-1.`,
			defaultVal: -1.0e20,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "FinalTime",
			usage: `
              FinalTime is the end of the extraction window in days
              since 1850-1-1.`,
			defaultVal: 1.0e20,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "OutputUnit",
			usage: `
              OutputUnit, if set, converts the extracted values to the
              given unit using the registered conversion factors.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{extractCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "Point",
			usage: `
              Point extracts a single-location time series at Lat and
              Lon instead of a full-grid series.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "Lat",
			usage: `
              Lat is the latitude at which to extract a point series
              [degrees].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "Lon",
			usage: `
              Lon is the longitude at which to extract a point series
              [degrees east].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path the extracted series is written to.
              A .csv suffix selects CSV output for point series;
              anything else is written as NetCDF.`,
			shorthand:  "o",
			defaultVal: "series.nc",
			flagsets:   []*pflag.FlagSet{extractCmd.Flags()},
		},
		{
			name: "Biome",
			usage: `
              Biome names the map region to plot (global, amazon,
              boreal).`,
			defaultVal: "global",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "PlotWidth",
			usage: `
              PlotWidth is the width of the output plot in pixels.`,
			defaultVal: 800,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path the rendered map is written to.`,
			defaultVal: "plot.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MODELEVAL")

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
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
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
	Root.AddCommand(extractCmd)
	Root.AddCommand(plotCmd)
}

// setConfig finds and reads in the configuration file, if there is
// one, and configures logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("modeleval: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("modeleval: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "modeleval",
	Short: "Extract composite time series from climate model output.",
	Long: `ModelEval extracts time series and gridded fields from collections of
climate model output files and composes them into single, unit-normalized
series for comparison against observational benchmarks.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format
'MODELEVAL_var' where 'var' is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration
information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ModelEval.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ModelEval v%s\n", modeleval.Version)
	},
	DisableAutoGenTag: true,
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a composite time series from model output.",
	Long: `extract scans the model output files for the requested variable (and
any alternate names for it), composes the pieces found into one series
covering the requested time window, and writes the result to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := model()
		if err != nil {
			return err
		}
		variable, altVars, t0, t1, unit, err := extractArgs()
		if err != nil {
			return err
		}
		out := Cfg.GetString("OutputFile")
		if Cfg.GetBool("Point") {
			times, v, u, err := m.ExtractPointTimeSeries(variable,
				Cfg.GetFloat64("Lat"), Cfg.GetFloat64("Lon"), altVars, t0, t1, unit)
			if err != nil {
				return err
			}
			return writeSeriesFile(out, variable, u, times, v, nil, nil)
		}
		times, v, u, err := m.ExtractTimeSeries(variable, altVars, t0, t1, unit)
		if err != nil {
			return err
		}
		if m.Lat == nil {
			return fmt.Errorf("modeleval: model %s has no grid information; "+
				"cannot write a field series", m.Name)
		}
		return writeSeriesFile(out, variable, u, times, v, m.Lat, m.Lon)
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot the time average of a variable on a world map.",
	Long: `plot extracts a full-grid composite series of the requested variable,
averages it over the extraction window, and renders the result for the
requested biome region as a PNG image.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := model()
		if err != nil {
			return err
		}
		variable, altVars, t0, t1, unit, err := extractArgs()
		if err != nil {
			return err
		}
		_, v, _, err := m.ExtractTimeSeries(variable, altVars, t0, t1, unit)
		if err != nil {
			return err
		}
		f, err := os.Create(Cfg.GetString("PlotFile"))
		if err != nil {
			return err
		}
		defer f.Close()
		return m.WritePlotPNG(f, v.TimeAverage(), Cfg.GetString("Biome"),
			Cfg.GetInt("PlotWidth"))
	},
	DisableAutoGenTag: true,
}

// model builds the ModelResult described by the current configuration.
func model() (*modeleval.ModelResult, error) {
	c, err := modelColor()
	if err != nil {
		return nil, err
	}
	return modeleval.NewModelResult(
		os.ExpandEnv(Cfg.GetString("ModelPath")),
		Cfg.GetString("ModelName"),
		c,
		Cfg.GetString("ModelFilter"),
	)
}

// extractArgs collects the configuration shared by the extract and
// plot commands.
func extractArgs() (variable string, altVars []string, t0, t1 float64, unit string, err error) {
	variable = Cfg.GetString("Variable")
	if variable == "" {
		err = fmt.Errorf("modeleval: no variable specified; use --Variable")
		return
	}
	return variable, Cfg.GetStringSlice("AltVars"), Cfg.GetFloat64("InitialTime"),
		Cfg.GetFloat64("FinalTime"), Cfg.GetString("OutputUnit"), nil
}

// modelColor parses the ModelColor configuration value.
func modelColor() (color.NRGBA, error) {
	s := Cfg.GetStringSlice("ModelColor")
	if len(s) != 3 {
		return color.NRGBA{}, fmt.Errorf("modeleval: ModelColor must have 3 components; got %d", len(s))
	}
	var rgb [3]uint8
	for i, v := range s {
		u, err := cast.ToUint8E(v)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("modeleval: ModelColor component %q: %v", v, err)
		}
		rgb[i] = u
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}
