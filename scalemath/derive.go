// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalemath

import "math"

// A Timing is the mean and standard deviation of repeated wall-clock
// measurements.
type Timing struct {
	Mean, StdDev float64
}

// A Ratio is speedup and efficiency relative to a baseline, with
// their propagated standard errors.
type Ratio struct {
	Speedup, SpeedupErr       float64
	Efficiency, EfficiencyErr float64
}

// Derive computes the speedup of t over the single-thread baseline
// base and the corresponding efficiency for the given thread count.
//
// The speedup error is propagated from the relative timing errors,
// assuming they are independent. If either mean is not positive the
// speedup is 0. threads less than 1 is treated as 1.
func Derive(threads int, base, t Timing) Ratio {
	if !(base.Mean > 0) || !(t.Mean > 0) {
		return Ratio{}
	}
	p := float64(threads)
	if p < 1 {
		p = 1
	}
	var r Ratio
	r.Speedup = base.Mean / t.Mean
	r.Efficiency = r.Speedup / p
	rel0 := base.StdDev / base.Mean
	rel1 := t.StdDev / t.Mean
	r.SpeedupErr = r.Speedup * math.Sqrt(rel0*rel0+rel1*rel1)
	r.EfficiencyErr = r.SpeedupErr / p
	return r
}
