// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalestat

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wavebench/scalestat/scalefmt"
	"github.com/wavebench/scalestat/scalemath"
)

// A Config is the contents of an analysis configuration file.
//
// A configuration file is YAML, for example:
//
//	schedules:
//	  0: static
//	  1: dynamic
//	  2: guided
//	  3: auto
//	parallelism: 4
//	curve_points: 200
//	baseline:
//	  mean: 2.01
//	  std: 0.02
//	plot:
//	  width: 18
//	  height: 5
//	  dpi: 150
type Config struct {
	// Schedules adds to or overrides the default schedule names.
	Schedules map[int]string `yaml:"schedules"`

	// Parallelism is the number of goroutines used by the serial
	// fraction search.
	Parallelism int `yaml:"parallelism"`

	// CurvePoints is the number of points in predicted curves.
	CurvePoints int `yaml:"curve_points"`

	// Baseline is a separately measured single-thread time used
	// as the reference of the scaling summary.
	Baseline *BaselineConfig `yaml:"baseline"`

	Plot PlotConfig `yaml:"plot"`
}

// BaselineConfig is a single-thread time in seconds.
type BaselineConfig struct {
	Mean float64 `yaml:"mean"`
	Std  float64 `yaml:"std"`
}

// PlotConfig is the size of a rendered chart. Zero fields select
// the renderer's defaults.
type PlotConfig struct {
	Width  float64 `yaml:"width"`  // inches
	Height float64 `yaml:"height"` // inches
	DPI    int     `yaml:"dpi"`
}

// LoadConfig reads a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses a configuration. Unknown keys are an error. An
// empty configuration is valid.
func ParseConfig(data []byte) (*Config, error) {
	cfg := new(Config)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Parallelism < 0:
		return fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism)
	case c.CurvePoints < 0:
		return fmt.Errorf("curve_points must not be negative, got %d", c.CurvePoints)
	case c.Plot.Width < 0 || c.Plot.Height < 0:
		return fmt.Errorf("plot size must not be negative, got %vx%v", c.Plot.Width, c.Plot.Height)
	case c.Plot.DPI < 0:
		return fmt.Errorf("plot dpi must not be negative, got %d", c.Plot.DPI)
	case c.Baseline != nil && !(c.Baseline.Mean > 0):
		return fmt.Errorf("baseline mean must be positive, got %v", c.Baseline.Mean)
	case c.Baseline != nil && c.Baseline.Std < 0:
		return fmt.Errorf("baseline std must not be negative, got %v", c.Baseline.Std)
	}
	for code, name := range c.Schedules {
		if name == "" {
			return fmt.Errorf("schedule %d has an empty name", code)
		}
	}
	return nil
}

// Options returns analysis options for c. Schedule names in c are
// merged over the defaults into a new table.
func (c *Config) Options() *Options {
	names := scalefmt.DefaultScheduleNames()
	for code, name := range c.Schedules {
		names[scalefmt.Schedule(code)] = name
	}
	curvePoints := c.CurvePoints
	if curvePoints == 0 {
		curvePoints = DefaultCurvePoints
	}
	opts := &Options{
		Names:       names,
		Fit:         scalemath.FitOptions{Parallelism: c.Parallelism},
		CurvePoints: curvePoints,
	}
	if c.Baseline != nil {
		opts.Baseline = &scalemath.Timing{Mean: c.Baseline.Mean, StdDev: c.Baseline.Std}
	}
	return opts
}
