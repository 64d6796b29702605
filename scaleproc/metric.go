// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scaleproc reduces raw scaling samples to per-configuration
// curves.
//
// Functions in this package operate on the samples of a single
// schedule. Callers with mixed input should first split it with
// BySchedule.
package scaleproc

import (
	"fmt"

	"github.com/wavebench/scalestat/scalefmt"
)

// A Metric selects a derived quantity from a sample.
type Metric int

const (
	Speedup Metric = iota
	Efficiency
)

// ParseMetric parses the name of a metric, as printed by
// Metric.String.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "speedup":
		return Speedup, nil
	case "efficiency":
		return Efficiency, nil
	}
	return 0, fmt.Errorf("unknown metric %q", name)
}

func (m Metric) String() string {
	switch m {
	case Speedup:
		return "speedup"
	case Efficiency:
		return "efficiency"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// Value returns the value of m in s and its standard error.
func (m Metric) Value(s *scalefmt.Sample) (val, err float64) {
	switch m {
	case Efficiency:
		return s.Efficiency, s.EfficiencyErr
	default:
		return s.Speedup, s.SpeedupErr
	}
}
