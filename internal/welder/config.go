package welder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout of the optional YAML file given with -config. Unset keys leave the options untouched.
type FileConfig struct {
	Srid             *int           `yaml:"srid"`
	TargetSrid       *int           `yaml:"target_srid"`
	EpsSame          *float64       `yaml:"eps_same"`
	EpsCluster       *float64       `yaml:"eps_cluster"`
	StrictTolerances *bool          `yaml:"strict_tolerances"`
	Origin           *OriginConfig  `yaml:"origin"`
	Projections      map[int]string `yaml:"projections"`
	Output           *OutputConfig  `yaml:"output"`
}

type OriginConfig struct {
	X string `yaml:"x"`
	Y string `yaml:"y"`
	Z string `yaml:"z"`
}

type OutputConfig struct {
	Format        *string `yaml:"format"`
	Ply           *bool   `yaml:"ply"`
	WeldMap       *bool   `yaml:"weld_map"`
	ClusteredOnly *bool   `yaml:"clustered_only"`
}

func LoadOptionsFile(path string) (*FileConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config FileConfig
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &config, nil
}

// Copies the configured values into opts, skipping the ones for which isSet reports an explicit
// command line flag. isSet receives the long flag name.
func (c *FileConfig) ApplyTo(opts *WelderOptions, isSet func(name string) bool) {
	if c.Srid != nil && !isSet("srid") {
		opts.Srid = *c.Srid
	}
	if c.TargetSrid != nil && !isSet("target-srid") {
		opts.TargetSrid = *c.TargetSrid
	}
	if c.EpsSame != nil && !isSet("eps-same") {
		opts.EpsSame = *c.EpsSame
	}
	if c.EpsCluster != nil && !isSet("eps-cluster") {
		opts.EpsCluster = *c.EpsCluster
	}
	if c.StrictTolerances != nil && !isSet("strict") {
		opts.StrictTolerances = *c.StrictTolerances
	}
	if c.Origin != nil && !isSet("origin") {
		opts.OriginX, opts.OriginY, opts.OriginZ = c.Origin.X, c.Origin.Y, c.Origin.Z
	}
	if len(c.Projections) > 0 {
		if opts.Projections == nil {
			opts.Projections = make(map[int]string, len(c.Projections))
		}
		for srid, def := range c.Projections {
			opts.Projections[srid] = def
		}
	}

	if c.Output == nil || opts.WelderClusterOptions == nil {
		return
	}
	clusterOpts := opts.WelderClusterOptions
	if c.Output.Format != nil && !isSet("format") {
		clusterOpts.Format = ParseOutputFormat(*c.Output.Format)
	}
	if c.Output.Ply != nil && !isSet("ply") {
		clusterOpts.WritePly = *c.Output.Ply
	}
	if c.Output.WeldMap != nil && !isSet("weld-map") {
		clusterOpts.WriteWeldMap = *c.Output.WeldMap
	}
	if c.Output.ClusteredOnly != nil && !isSet("clustered-only") {
		clusterOpts.ClusteredOnly = *c.Output.ClusteredOnly
	}
}
