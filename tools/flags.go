package tools

import (
	"flag"

	"github.com/golang/glog"
)

const (
	CommandCluster = "cluster"
	CommandQuery   = "query"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

type WelderFlags struct {
	Input                     *string  `json:"input"`
	Srid                      *int     `json:"srid"`
	TargetSrid                *int     `json:"target_srid"`
	Origin                    *string  `json:"origin"`
	EpsSame                   *float64 `json:"eps_same"`
	EpsCluster                *float64 `json:"eps_cluster"`
	StrictTolerances          *bool    `json:"strict"`
	FolderProcessing          *bool    `json:"folder"`
	RecursiveFolderProcessing *bool    `json:"recursive"`
	Config                    *string  `json:"config"`
	Silent                    *bool    `json:"silent"`
	Help                      *bool    `json:"help"`
	Version                   *bool    `json:"version"`

	// long names of the flags given on the command line
	Explicit map[string]bool `json:"explicit"`
}

type FlagsForCommandCluster struct {
	WelderFlags
	Output        *string
	Format        *string
	Ply           *bool
	WeldMap       *bool
	ClusteredOnly *bool
}

type FlagsForCommandQuery struct {
	WelderFlags
	Mode      *string
	Box       *string
	Near      *string
	Range     *float64
	Precision *int
}

// long flag name by shorthand
var shorthands = map[string]string{}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	// -v belongs to glog verbosity on the global flag set
	version := defineBoolFlag("version", "", false, "Displays the version of kdweld.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func defineWelderFlags(flagCommand *flag.FlagSet) WelderFlags {
	return WelderFlags{
		Input:                     defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input vertex file/folder (.xyz, .txt or .csv)."),
		Srid:                      defineIntFlagCommand(flagCommand, "srid", "e", 2056, "EPSG srid code of input vertices."),
		TargetSrid:                defineIntFlagCommand(flagCommand, "target-srid", "t", 2056, "EPSG srid code of the metric reference system the index works in."),
		Origin:                    defineStringFlagCommand(flagCommand, "origin", "", "", "Local origin 'x,y,z' subtracted from every vertex after reprojection."),
		EpsSame:                   defineFloat64FlagCommand(flagCommand, "eps-same", "a", 1e-6, "Vertices closer than this distance are stored once."),
		EpsCluster:                defineFloat64FlagCommand(flagCommand, "eps-cluster", "c", 1e-4, "Vertices closer than this distance join the same cluster."),
		StrictTolerances:          defineBoolFlagCommand(flagCommand, "strict", "", false, "Refuses an eps-same greater than eps-cluster."),
		FolderProcessing:          defineBoolFlagCommand(flagCommand, "folder", "f", false, "Enables processing of all vertex files from input folder. Input must be a folder if specified"),
		RecursiveFolderProcessing: defineBoolFlagCommand(flagCommand, "recursive", "r", false, "Enables recursive lookup for all vertex files inside the subfolders"),
		Config:                    defineStringFlagCommand(flagCommand, "config", "k", "", "Optional YAML file with default options. Command line flags take precedence."),
		Silent:                    defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		Help:                      defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
		Version:                   defineBoolFlagCommand(flagCommand, "version", "v", false, "Displays the version of kdweld."),
	}
}

func ParseFlagsForCommandCluster(args []string) FlagsForCommandCluster {
	glog.V(1).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-cluster", flag.ExitOnError)

	welderFlags := defineWelderFlags(flagCommand)
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output folder where to write the cluster report.")
	format := defineStringFlagCommand(flagCommand, "format", "", "JSON", "Cluster report format, can be 'JSON' or 'JSON.ZST'.")
	ply := defineBoolFlagCommand(flagCommand, "ply", "p", false, "Also writes welded.ply with one vertex per node, colored by cluster.")
	weldMap := defineBoolFlagCommand(flagCommand, "weld-map", "w", false, "Also writes weld.csv mapping every input vertex to its node.")
	clusteredOnly := defineBoolFlagCommand(flagCommand, "clustered-only", "", false, "Leaves isolated vertices out of the cluster report.")

	flagCommand.Parse(args)
	welderFlags.Explicit = explicitFlags(flagCommand)

	return FlagsForCommandCluster{
		WelderFlags:   welderFlags,
		Output:        output,
		Format:        format,
		Ply:           ply,
		WeldMap:       weldMap,
		ClusteredOnly: clusteredOnly,
	}
}

func ParseFlagsForCommandQuery(args []string) FlagsForCommandQuery {
	glog.V(1).Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-query", flag.ExitOnError)

	welderFlags := defineWelderFlags(flagCommand)
	mode := defineStringFlagCommand(flagCommand, "mode", "m", "NEAREST", "Type of query, can be 'BOX' (uses -box) or 'NEAREST' (uses -near and -range).")
	box := defineStringFlagCommand(flagCommand, "box", "b", "", "Returns the vertices inside the box 'minx,miny,minz,maxx,maxy,maxz'.")
	near := defineStringFlagCommand(flagCommand, "near", "n", "", "Returns the vertices around the point 'x,y,z', see -range.")
	rng := defineFloat64FlagCommand(flagCommand, "range", "g", 1e-4, "Search radius used together with -near.")
	precision := defineIntFlagCommand(flagCommand, "precision", "", 6, "Decimal places of printed coordinates.")

	flagCommand.Parse(args)
	welderFlags.Explicit = explicitFlags(flagCommand)

	return FlagsForCommandQuery{
		WelderFlags: welderFlags,
		Mode:        mode,
		Box:         box,
		Near:        near,
		Range:       rng,
		Precision:   precision,
	}
}

func explicitFlags(flagCommand *flag.FlagSet) map[string]bool {
	explicit := make(map[string]bool)
	flagCommand.Visit(func(f *flag.Flag) {
		if long, ok := shorthands[f.Name]; ok {
			explicit[long] = true
		} else {
			explicit[f.Name] = true
		}
	})
	return explicit
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		shorthands[shortHand] = name
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		shorthands[shortHand] = name
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		shorthands[shortHand] = name
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		shorthands[shortHand] = name
	}
	return &output
}
