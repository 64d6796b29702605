// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalestat analyzes parallel scaling measurements.
//
// Analyze splits samples by schedule and, for each schedule, finds the
// best observed speedup and efficiency at each thread count, the mean
// time at each chunk size, and the Amdahl's Law serial fraction that
// best explains the observed speedups. It also derives a scaling
// summary from the fastest configuration at each thread count.
//
// The results can be formatted as text, CSV, or HTML, and the scaling
// summary can be written in the measurement file format.
package scalestat

import (
	"errors"
	"fmt"

	"github.com/wavebench/scalestat/scalefmt"
	"github.com/wavebench/scalestat/scalemath"
	"github.com/wavebench/scalestat/scaleproc"
)

// DefaultCurvePoints is the number of points in a predicted speedup
// curve when Options.CurvePoints is zero.
const DefaultCurvePoints = 200

// Options configures Analyze.
type Options struct {
	// Names maps schedule codes to display names. If nil,
	// scalefmt.DefaultScheduleNames is used. Analyze does not
	// modify Names.
	Names scalefmt.ScheduleNames

	// Fit configures the serial fraction search.
	Fit scalemath.FitOptions

	// CurvePoints is the number of points in each predicted
	// speedup curve. If zero, DefaultCurvePoints is used.
	CurvePoints int

	// Baseline is a separately measured single-thread time. If
	// non-nil, the scaling summary is relative to Baseline instead
	// of the fastest single-thread sample.
	Baseline *scalemath.Timing
}

// DefaultOptions returns the default analysis options.
func DefaultOptions() *Options {
	return &Options{
		Names:       scalefmt.DefaultScheduleNames(),
		CurvePoints: DefaultCurvePoints,
	}
}

// An Analysis is the result of analyzing a set of samples.
type Analysis struct {
	// Schedules has one entry per schedule present in the input,
	// ordered by schedule code.
	Schedules []*ScheduleAnalysis

	// Scaling is the fastest configuration at each thread count,
	// across all schedules, relative to the fastest single-thread
	// run. It is nil if the input has no single-thread sample.
	Scaling []ScalingPoint

	// Names is the schedule name table the analysis used.
	Names scalefmt.ScheduleNames

	// Warnings is a list of warnings about this analysis that
	// should be reported to the user.
	Warnings []error
}

// A ScheduleAnalysis holds the curves for one schedule.
type ScheduleAnalysis struct {
	Schedule scalefmt.Schedule
	Name     string

	// Speedup and Efficiency are the best observed values at each
	// thread count, ordered by thread count.
	Speedup    []scaleproc.Point
	Efficiency []scaleproc.Point

	// Chunks is the mean time at each chunk size, ordered by chunk
	// size.
	Chunks []scaleproc.ChunkPoint

	// Curve is the Amdahl's Law fit to Speedup.
	Curve Curve
}

// A Curve is a fitted speedup model and its prediction.
type Curve struct {
	Schedule scalefmt.Schedule
	Fit      scalemath.Fit

	// Points is the predicted speedup from 1 thread to the largest
	// observed thread count.
	Points []scalemath.CurvePoint
}

// A ScalingPoint is the fastest configuration at one thread count.
type ScalingPoint struct {
	Threads  int
	Schedule scalefmt.Schedule
	Chunk    int
	Time     scalemath.Timing
	scalemath.Ratio
}

// Analyze analyzes samples. opts may be nil, in which case
// DefaultOptions is used.
//
// Analyze does not modify samples and its result depends only on its
// arguments.
func Analyze(samples []scalefmt.Sample, opts *Options) (*Analysis, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	names := opts.Names
	if names == nil {
		names = scalefmt.DefaultScheduleNames()
	}
	curvePoints := opts.CurvePoints
	if curvePoints == 0 {
		curvePoints = DefaultCurvePoints
	}

	a := &Analysis{Names: names}
	for _, g := range scaleproc.BySchedule(samples) {
		sa, err := analyzeSchedule(g, names.Name(g.Schedule), &opts.Fit, curvePoints)
		if err != nil {
			return nil, err
		}
		for _, w := range sa.Curve.Fit.Warnings {
			a.Warnings = append(a.Warnings, fmt.Errorf("%s: %w", sa.Name, w))
		}
		a.Schedules = append(a.Schedules, sa)
	}

	a.Scaling = scaling(samples, opts.Baseline)
	if a.Scaling == nil && len(samples) > 0 {
		if opts.Baseline != nil {
			a.Warnings = append(a.Warnings, fmt.Errorf("baseline time %v is not positive; omitting scaling analysis", opts.Baseline.Mean))
		} else {
			a.Warnings = append(a.Warnings, errors.New("no usable single-thread sample; omitting scaling analysis"))
		}
	}
	return a, nil
}

func analyzeSchedule(g scaleproc.Group, name string, fitOpts *scalemath.FitOptions, curvePoints int) (*ScheduleAnalysis, error) {
	sa := &ScheduleAnalysis{Schedule: g.Schedule, Name: name}
	var err error
	if sa.Speedup, err = scaleproc.BestByThreadCount(g.Samples, scaleproc.Speedup); err != nil {
		return nil, err
	}
	if sa.Efficiency, err = scaleproc.BestByThreadCount(g.Samples, scaleproc.Efficiency); err != nil {
		return nil, err
	}
	if sa.Chunks, err = scaleproc.MeanTimeByChunkSize(g.Samples); err != nil {
		return nil, err
	}

	fit, err := scalemath.FitAmdahl(scaleproc.Threads(sa.Speedup), scaleproc.Values(sa.Speedup), fitOpts)
	if err != nil {
		return nil, err
	}
	maxThreads := 1
	if n := len(sa.Speedup); n > 0 {
		maxThreads = sa.Speedup[n-1].Threads
	}
	sa.Curve = Curve{
		Schedule: g.Schedule,
		Fit:      fit,
		Points:   scalemath.Curve(fit.F, float64(maxThreads), curvePoints),
	}
	return sa, nil
}

// scaling returns the fastest sample at each thread count, with
// speedup and efficiency recomputed against baseline, or against the
// fastest single-thread sample if baseline is nil. It returns nil if
// there is no positive baseline time.
func scaling(samples []scalefmt.Sample, baseline *scalemath.Timing) []ScalingPoint {
	fastest := scaleproc.FastestByThreadCount(samples)
	if len(fastest) == 0 {
		return nil
	}
	var base scalemath.Timing
	switch {
	case baseline != nil:
		base = *baseline
	case fastest[0].Threads == 1:
		base = scalemath.Timing{Mean: fastest[0].TimeMean, StdDev: fastest[0].TimeStd}
	}
	if !(base.Mean > 0) {
		return nil
	}
	pts := make([]ScalingPoint, len(fastest))
	for i, s := range fastest {
		t := scalemath.Timing{Mean: s.TimeMean, StdDev: s.TimeStd}
		pts[i] = ScalingPoint{
			Threads:  s.Threads,
			Schedule: s.Schedule,
			Chunk:    s.Chunk,
			Time:     t,
			Ratio:    scalemath.Derive(s.Threads, base, t),
		}
	}
	return pts
}

// MaxThreads returns the largest thread count in a.
func (a *Analysis) MaxThreads() int {
	max := 0
	for _, sa := range a.Schedules {
		if n := len(sa.Speedup); n > 0 && sa.Speedup[n-1].Threads > max {
			max = sa.Speedup[n-1].Threads
		}
	}
	return max
}
