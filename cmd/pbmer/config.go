package main

import (
	"fmt"
	"os"

	"github.com/forestrie/go-pbmer/dbg"
	"github.com/forestrie/go-pbmer/reads"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// buildFlags are the command line values that may override the config file.
type buildFlags struct {
	configFile string
	alarmsFile string
	logLevel   string
	kmerSize   uint8
	workers    int
	strict     bool
	upperCase  bool
	minLength  int
}

func (f *buildFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	def := dbg.DefaultConfig()
	fs.StringVarP(&f.configFile, "config", "c", "", "TOML configuration file")
	fs.StringVar(&f.alarmsFile, "alarms", "", "write alarms as JSON to this file")
	fs.StringVar(&f.logLevel, "log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	fs.Uint8VarP(&f.kmerSize, "kmer-size", "k", def.KmerSize, "k-mer size, 1..32")
	fs.IntVarP(&f.workers, "workers", "j", def.Workers, "number of insertion workers")
	fs.BoolVar(&f.strict, "strict", false, "fail on reads with bases outside ACGT instead of skipping them")
	fs.BoolVar(&f.upperCase, "upper-case", false, "fold lower case bases to upper case when reading")
	fs.IntVar(&f.minLength, "min-length", 0, "ignore reads shorter than this")
}

// buildConfig is the resolved configuration of a build. Both parts read their
// keys from the top level of the same TOML file.
type buildConfig struct {
	Graph dbg.Config
	Reads reads.FastxConfig
}

// loadConfig reads path over the defaults. Keys absent from the file keep
// their default value.
func loadConfig(path string) (buildConfig, error) {
	cfg := buildConfig{Graph: dbg.DefaultConfig()}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg.Graph); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg.Reads); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveConfig applies the flags that were set explicitly on top of the
// config file.
func resolveConfig(cmd *cobra.Command, f *buildFlags) (buildConfig, error) {
	fs := cmd.Flags()
	cfg, err := loadConfig(f.configFile)
	if err != nil {
		return cfg, err
	}
	if fs.Changed("kmer-size") {
		cfg.Graph.KmerSize = f.kmerSize
	}
	if fs.Changed("workers") {
		cfg.Graph.Workers = f.workers
	}
	if fs.Changed("strict") {
		cfg.Graph.StrictReads = f.strict
	}
	if fs.Changed("upper-case") {
		cfg.Reads.UpperCase = f.upperCase
	}
	if fs.Changed("min-length") {
		cfg.Reads.MinLength = f.minLength
	}
	return cfg, cfg.Graph.Validate()
}
