// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalemath models parallel speedup.
//
// Its main tool is FitAmdahl, which estimates the serial fraction of
// a program from observed speedups by minimizing the mean squared
// error of Amdahl's Law over a fixed grid of candidates.
//
// Analysis results contain a list of warnings, captured as an []error
// value. These aren't errors that prevent analysis, but should be
// presented to the user along with analysis results.
package scalemath

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/vec"
)

// ErrLengthMismatch is returned when paired thread counts and speedups
// have different lengths.
var ErrLengthMismatch = errors.New("threads and speedups differ in length")

// Grid bounds for the serial fraction search.
const (
	GridMin    = 0.0
	GridMax    = 0.99
	GridPoints = 2001
)

// minThreads keeps PredictedSpeedup finite for p near zero.
const minThreads = 1e-9

// PredictedSpeedup returns the speedup Amdahl's Law predicts for p
// threads when a fraction f of the work is serial.
func PredictedSpeedup(p, f float64) float64 {
	return 1 / (f + (1-f)/math.Max(p, minThreads))
}

// A FitStatus says whether a Fit was computed from data.
type FitStatus int

const (
	// FitOK means at least two usable points were fitted.
	FitOK FitStatus = iota
	// FitInsufficient means fewer than two usable points
	// remained after filtering. The fitted fraction is 0.
	FitInsufficient
)

func (s FitStatus) String() string {
	switch s {
	case FitOK:
		return "ok"
	case FitInsufficient:
		return "insufficient data"
	}
	return fmt.Sprintf("FitStatus(%d)", int(s))
}

// FitOptions configures FitAmdahl.
type FitOptions struct {
	// Parallelism is the number of goroutines used to search the
	// grid. Values less than 2 search sequentially. The result does
	// not depend on Parallelism.
	Parallelism int
}

// A Fit is the result of fitting Amdahl's Law to observed speedups.
type Fit struct {
	// F is the fitted serial fraction, in [GridMin, GridMax].
	F float64

	// MSE is the mean squared error of the fit at F. It is NaN
	// if Status is FitInsufficient.
	MSE float64

	// N is the number of points used in the fit and Dropped is
	// the number of input points that were excluded.
	N, Dropped int

	Status FitStatus

	// Warnings is a list of warnings about this fit that
	// should be reported to the user.
	Warnings []error
}

// Defined reports whether the fit was computed from data.
func (f Fit) Defined() bool {
	return f.Status == FitOK
}

func (f Fit) String() string {
	if !f.Defined() {
		return "f=0 (" + f.Status.String() + ")"
	}
	return fmt.Sprintf("f≈%.4f", f.F)
}

// FitAmdahl fits the serial fraction of Amdahl's Law to the paired
// observations threads[i], speedups[i].
//
// Points with a non-positive thread count, or a speedup that is not a
// positive finite number, are excluded. If fewer than two points
// remain, FitAmdahl returns a Fit with F 0 and Status
// FitInsufficient. Otherwise F is the first of GridPoints evenly spaced
// candidates in [GridMin, GridMax] that minimizes the mean squared
// error.
//
// opts may be nil.
func FitAmdahl(threads []int, speedups []float64, opts *FitOptions) (Fit, error) {
	if len(threads) != len(speedups) {
		return Fit{}, fmt.Errorf("fitting %d thread counts to %d speedups: %w", len(threads), len(speedups), ErrLengthMismatch)
	}

	ps := make([]float64, 0, len(threads))
	ss := make([]float64, 0, len(threads))
	for i, p := range threads {
		s := speedups[i]
		if p <= 0 || !(s > 0) || math.IsInf(s, 0) {
			continue
		}
		ps = append(ps, float64(p))
		ss = append(ss, s)
	}

	fit := Fit{N: len(ps), Dropped: len(threads) - len(ps)}
	if fit.Dropped > 0 {
		fit.Warnings = append(fit.Warnings, fmt.Errorf("excluded %d of %d points with non-positive or non-finite values", fit.Dropped, len(threads)))
	}
	if len(ps) < 2 {
		fit.Status = FitInsufficient
		fit.MSE = math.NaN()
		fit.Warnings = append(fit.Warnings, fmt.Errorf("need at least 2 usable points to fit, have %d", len(ps)))
		return fit, nil
	}

	parallelism := 1
	if opts != nil {
		parallelism = opts.Parallelism
	}
	grid := vec.Linspace(GridMin, GridMax, GridPoints)
	best := searchGrid(grid, ps, ss, parallelism)
	fit.F, fit.MSE = grid[best.index], best.mse
	if best.index == len(grid)-1 {
		fit.Warnings = append(fit.Warnings, fmt.Errorf("serial fraction reached the search bound %v", GridMax))
	}
	return fit, nil
}

// FitSerialFraction is like FitAmdahl, but returns only the fitted
// serial fraction, searching the grid sequentially.
func FitSerialFraction(threads []int, speedups []float64) (float64, error) {
	fit, err := FitAmdahl(threads, speedups, nil)
	if err != nil {
		return 0, err
	}
	return fit.F, nil
}

// MSE returns the mean squared error between speedups and the
// prediction of Amdahl's Law with serial fraction f. threads and
// speedups must have equal length.
func MSE(threads, speedups []float64, f float64) float64 {
	var sum float64
	for i, p := range threads {
		d := speedups[i] - PredictedSpeedup(p, f)
		sum += d * d
	}
	return sum / float64(len(threads))
}

// A CurvePoint is a point on a predicted speedup curve.
type CurvePoint struct {
	Threads float64
	Speedup float64
}

// Curve returns n points of the speedup predicted for serial fraction
// f, evenly spaced in thread count from 1 to maxThreads inclusive.
// maxThreads less than 1 is treated as 1.
func Curve(f, maxThreads float64, n int) []CurvePoint {
	if n <= 0 {
		return nil
	}
	xs := vec.Linspace(1, math.Max(maxThreads, 1), n)
	pts := make([]CurvePoint, len(xs))
	for i, p := range xs {
		pts[i] = CurvePoint{p, PredictedSpeedup(p, f)}
	}
	return pts
}
