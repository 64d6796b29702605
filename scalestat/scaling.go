// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalestat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ScalingHeader is the first line written by WriteScaling.
const ScalingHeader = "#threads time_mean time_std speedup efficiency sigma_Sp sigma_Ep"

// ErrNoScaling is returned by WriteScaling when the analysis has no
// scaling summary.
var ErrNoScaling = errors.New("no scaling analysis: no single-thread baseline")

// WriteScaling writes the scaling summary of a to w, one line per
// thread count.
func WriteScaling(w io.Writer, a *Analysis) error {
	if a.Scaling == nil {
		return ErrNoScaling
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, ScalingHeader)
	for _, p := range a.Scaling {
		fmt.Fprintf(bw, "%d %.6f %.6f %.6f %.6f %.6f %.6f\n",
			p.Threads, p.Time.Mean, p.Time.StdDev,
			p.Speedup, p.Efficiency, p.SpeedupErr, p.EfficiencyErr)
	}
	return bw.Flush()
}
