// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/2dChan/skyrandoms"
)

const (
	defaultPrefix    = "randoms-safe"
	defaultFootprint = "hsc"

	envDBDir    = "SKYRANDOMS_DB_DIR"
	envLogMode  = "LOG_MODE"
	envLogLevel = "LOG_LEVEL"
)

type config struct {
	Density     int
	Prefix      string
	Dir         string
	Footprint   string
	Seed        any
	ChunkSize   int
	Overwrite   bool
	MetricsFile string
	LogMode     string
	LogLevel    string
}

// DBPath returns <dir>/<prefix>-<density>.db.
func (c config) DBPath() string {
	return filepath.Join(c.Dir, fmt.Sprintf("%s-%d.db", c.Prefix, c.Density))
}

func parseConfig(args []string, getenv func(string) string, output io.Writer) (config, error) {
	cfg := config{
		Dir:      getenv(envDBDir),
		LogMode:  getenv(envLogMode),
		LogLevel: getenv(envLogLevel),
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}

	fs := flag.NewFlagSet("skyrandoms", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(fs.Output(), "usage: skyrandoms [flags] <density>")
		_, _ = fmt.Fprintln(fs.Output(), "\ndensity is the number of randoms per square degree.")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Prefix, "prefix", defaultPrefix, "db file name prefix")
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "db directory (env "+envDBDir+")")
	fs.StringVar(&cfg.Footprint, "footprint", defaultFootprint,
		"footprint set, one of: "+strings.Join(skyrandoms.FootprintSets(), ", "))
	seed := fs.String("seed", "", "integer random seed; empty uses the process-wide stream")
	fs.IntVar(&cfg.ChunkSize, "chunk", skyrandoms.DefaultChunkSize, "points generated and committed per chunk")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "recreate an existing db file (refused for protected files)")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return config{}, errors.New("exactly one density argument is required")
	}

	density, err := strconv.Atoi(fs.Arg(0))
	if err != nil || density <= 0 {
		return config{}, fmt.Errorf("%w: density %q must be a positive integer", skyrandoms.ErrValidation, fs.Arg(0))
	}
	cfg.Density = density

	if *seed != "" {
		v, err := strconv.ParseInt(*seed, 10, 64)
		if err != nil {
			return config{}, fmt.Errorf("%w: seed %q must be an integer", skyrandoms.ErrValidation, *seed)
		}
		cfg.Seed = v
	}
	if cfg.ChunkSize <= 0 {
		return config{}, fmt.Errorf("%w: chunk size %d must be positive", skyrandoms.ErrValidation, cfg.ChunkSize)
	}
	return cfg, nil
}
