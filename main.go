/*
 * This file is part of kdweld, an incremental vertex welding tool for BIM exports
 * (https://github.com/ecopia-map/kdweld).
 * Based on the Go Cesium Point Cloud Tiler (https://github.com/mfbonfigli/gocesiumtiler),
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 *
 * This software also uses third party components. You can find information
 * on their credits and licensing in the file LICENSE-3RD-PARTIES.md that
 * you should have received together with the source code.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ecopia-map/kdweld/internal/converters/origin/offset_origin_corrector"
	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/ecopia-map/kdweld/internal/welder"
	"github.com/ecopia-map/kdweld/pkg"
	"github.com/ecopia-map/kdweld/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/kdweld/tools"
	"github.com/golang/glog"
)

const VERSION = "0.4.0"

const logo = `
 _            _              _     _
| | ____   __| |_      _____| | __| |
| |/ / _ \ / _' \ \ /\ / / _ \ |/ _' |
|   < (_) | (_| |\ V  V /  __/ | (_| |
|_|\_\___/ \__,_| \_/\_/ \___|_|\__,_|
 Incremental vertex welding for BIM exports
`

func main() {
	flagsGlobal := tools.ParseFlagsGlobal()
	if flag.Lookup("log_dir").Value.String() == "" {
		flag.Set("logtostderr", "true")
	}
	defer glog.Flush()

	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if *flagsGlobal.Help || len(args) == 0 {
		showHelp()
		if len(args) == 0 && !*flagsGlobal.Help {
			glog.Exit("Please specify a subcommand [cluster|query].")
		}
		return
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case tools.CommandCluster:
		mainCommandCluster(args)
	case tools.CommandQuery:
		mainCommandQuery(args)
	default:
		glog.Exitf("Unrecognized command [%q]. Command must be one of [cluster|query]", cmd)
	}
}

func mainCommandCluster(args []string) {
	// Retrieve command line args
	flags := tools.ParseFlagsForCommandCluster(args)
	if handled := handleCommonFlags(&flags.WelderFlags); handled {
		return
	}

	// Put args inside a WelderOptions struct
	opts := buildWelderOptions(&flags.WelderFlags, tools.CommandCluster)
	opts.WelderClusterOptions = &welder.WelderClusterOptions{
		Output:        *flags.Output,
		Format:        welder.ParseOutputFormat(*flags.Format),
		WritePly:      *flags.Ply,
		WriteWeldMap:  *flags.WeldMap,
		ClusteredOnly: *flags.ClusteredOnly,
	}
	applyConfigFile(opts, &flags.WelderFlags)

	// Validate WelderOptions
	if msg, res := validateOptionsForCommandCluster(opts); !res {
		glog.Exit("Error parsing input parameters: " + msg)
	}

	defer timeTrack(time.Now(), "cluster")
	err := pkg.NewWelder(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).Run(opts)
	if err != nil {
		glog.Exit("Error while welding: ", err)
	}
	tools.LogOutput("Welding Completed")
}

func mainCommandQuery(args []string) {
	flags := tools.ParseFlagsForCommandQuery(args)
	if handled := handleCommonFlags(&flags.WelderFlags); handled {
		return
	}

	opts := buildWelderOptions(&flags.WelderFlags, tools.CommandQuery)
	queryOpts, err := buildQueryOptions(&flags)
	if err != nil {
		glog.Exit("Error parsing input parameters: ", err)
	}
	opts.WelderQueryOptions = queryOpts
	applyConfigFile(opts, &flags.WelderFlags)

	if msg, res := validateOptionsForCommandQuery(opts); !res {
		glog.Exit("Error parsing input parameters: " + msg)
	}

	err = pkg.NewQuerier(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts), os.Stdout).Run(opts)
	if err != nil {
		glog.Exit("Error while querying: ", err)
	}
}

// Handles -help, -version and -silent, returning true when the command should stop there
func handleCommonFlags(flags *tools.WelderFlags) bool {
	if *flags.Help {
		showHelp()
		return true
	}
	if *flags.Version {
		printVersion()
		return true
	}

	// set logging
	if *flags.Silent {
		tools.DisableLogger()
	} else {
		tools.EnableLogger()
		printLogo()
	}
	glog.V(1).Infoln("flags", tools.FmtJSONString(flags))
	return false
}

func buildWelderOptions(flags *tools.WelderFlags, command string) *welder.WelderOptions {
	opts := &welder.WelderOptions{
		Input:            *flags.Input,
		Srid:             *flags.Srid,
		TargetSrid:       *flags.TargetSrid,
		EpsSame:          *flags.EpsSame,
		EpsCluster:       *flags.EpsCluster,
		StrictTolerances: *flags.StrictTolerances,
		FolderProcessing: *flags.FolderProcessing,
		Recursive:        *flags.RecursiveFolderProcessing,
		Command:          command,
	}
	if *flags.Origin != "" {
		origin := tools.SplitList(*flags.Origin)
		if len(origin) != 3 {
			glog.Exit("Error parsing input parameters: origin must be given as 'x,y,z'")
		}
		opts.OriginX, opts.OriginY, opts.OriginZ = origin[0], origin[1], origin[2]
	}
	return opts
}

func buildQueryOptions(flags *tools.FlagsForCommandQuery) (*welder.WelderQueryOptions, error) {
	queryOpts := &welder.WelderQueryOptions{
		Mode:      welder.ParseQueryMode(*flags.Mode),
		Range:     *flags.Range,
		Precision: int32(*flags.Precision),
	}

	switch queryOpts.Mode {
	case welder.QueryBox:
		values, err := tools.ParseFloatList(*flags.Box, 6)
		if err != nil {
			return nil, fmt.Errorf("box: %w", err)
		}
		queryOpts.Box = geometry.NewBoundingBox(
			geometry.NewPoint(values[0], values[1], values[2]),
			geometry.NewPoint(values[3], values[4], values[5]),
		)
	case welder.QueryNearest:
		values, err := tools.ParseFloatList(*flags.Near, 3)
		if err != nil {
			return nil, fmt.Errorf("near: %w", err)
		}
		queryOpts.Point = geometry.NewPoint(values[0], values[1], values[2])
	default:
		return nil, fmt.Errorf("mode should be either BOX or NEAREST, got %q", *flags.Mode)
	}
	return queryOpts, nil
}

// Fills the options not given on the command line from the -config file, if any
func applyConfigFile(opts *welder.WelderOptions, flags *tools.WelderFlags) {
	if *flags.Config == "" {
		return
	}

	config, err := welder.LoadOptionsFile(*flags.Config)
	if err != nil {
		glog.Exit("Error reading config file: ", err)
	}
	config.ApplyTo(opts, func(name string) bool { return flags.Explicit[name] })
}

// Validates the input options provided to the command line tool checking
// that input and output folders/files exist
func validateOptionsForCommand(opts *welder.WelderOptions) (string, bool) {
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return "Input file/folder not found", false
	}

	if opts.EpsSame <= 0 || opts.EpsCluster <= 0 {
		return "eps-same and eps-cluster must be positive", false
	}

	if opts.StrictTolerances && opts.EpsSame > opts.EpsCluster {
		return "eps-same cannot be greater than eps-cluster", false
	}

	if _, err := offset_origin_corrector.NewOffsetOriginCorrectorFromStrings(opts.OriginX, opts.OriginY, opts.OriginZ); err != nil {
		return "origin must be made of three numbers", false
	}

	return "", true
}

func validateOptionsForCommandCluster(opts *welder.WelderOptions) (string, bool) {
	if msg, res := validateOptionsForCommand(opts); !res {
		return msg, res
	}

	if opts.WelderClusterOptions.Output == "" {
		return "Output folder must be given", false
	}

	if opts.WelderClusterOptions.Format == "" {
		return "format should be either JSON or JSON.ZST", false
	}

	return "", true
}

func validateOptionsForCommandQuery(opts *welder.WelderOptions) (string, bool) {
	if msg, res := validateOptionsForCommand(opts); !res {
		return msg, res
	}

	queryOpts := opts.WelderQueryOptions
	if queryOpts.Mode == welder.QueryNearest && queryOpts.Range <= 0 {
		return "range must be positive", false
	}
	if queryOpts.Precision < 0 {
		return "precision cannot be negative", false
	}

	return "", true
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	tools.LogOutput(fmt.Sprintf("%s took %s", name, elapsed))
}

func printLogo() {
	fmt.Println(strings.Trim(logo, "\n"))
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("kdweld indexes the vertices of BIM exports in a kd-tree, welds the ones closer than eps-same and groups the ones closer than eps-cluster")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: kdweld [cluster|query] [flags]")
	fmt.Println("Command line flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
