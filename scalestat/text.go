// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalestat

import (
	"fmt"
	"io"

	"github.com/aclements/go-gg/table"
)

// FormatText writes a fixed-width text report of a to w.
func FormatText(w io.Writer, a *Analysis) error {
	for i, sa := range a.Schedules {
		if i > 0 {
			fmt.Fprintf(w, "\n")
		}
		fmt.Fprintf(w, "schedule: %s\n", sa.Name)
		fmt.Fprintf(w, "amdahl: %s", sa.Curve.Fit)
		if sa.Curve.Fit.Defined() {
			fmt.Fprintf(w, "  mse=%.4g  n=%d", sa.Curve.Fit.MSE, sa.Curve.Fit.N)
		}
		fmt.Fprintf(w, "\n\n")

		if err := table.Fprint(w, threadTable(sa), "%d", "%d", "%.4f", "%.4f", "%.4f", "%.4f"); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n")
		if err := table.Fprint(w, chunkTable(sa), "%d", "%.6f", "%.6f"); err != nil {
			return err
		}
	}

	if a.Scaling != nil {
		if len(a.Schedules) > 0 {
			fmt.Fprintf(w, "\n")
		}
		fmt.Fprintf(w, "scaling: fastest configuration per thread count\n\n")
		if err := table.Fprint(w, scalingTable(a), "%d", "%s", "%d", "%.6f", "%.6f", "%.4f", "%.4f"); err != nil {
			return err
		}
	}
	return nil
}

// threadTable returns the best speedup and efficiency at each thread
// count of sa.
func threadTable(sa *ScheduleAnalysis) *table.Table {
	n := len(sa.Speedup)
	threads := make([]int, n)
	chunks := make([]int, n)
	sp := make([]float64, n)
	spErr := make([]float64, n)
	eff := make([]float64, n)
	effErr := make([]float64, n)
	for i, p := range sa.Speedup {
		threads[i], chunks[i] = p.Threads, p.Chunk
		sp[i], spErr[i] = p.Value, p.Err
	}
	for i, p := range sa.Efficiency {
		eff[i], effErr[i] = p.Value, p.Err
	}
	var tb table.Builder
	tb.Add("threads", threads).Add("chunk", chunks)
	tb.Add("speedup", sp).Add("sp err", spErr)
	tb.Add("efficiency", eff).Add("eff err", effErr)
	return tb.Done()
}

func chunkTable(sa *ScheduleAnalysis) *table.Table {
	n := len(sa.Chunks)
	chunks := make([]int, n)
	times := make([]float64, n)
	stds := make([]float64, n)
	for i, c := range sa.Chunks {
		chunks[i], times[i], stds[i] = c.Chunk, c.MeanTime, c.RMSStd
	}
	var tb table.Builder
	tb.Add("chunk", chunks).Add("mean time", times).Add("rms std", stds)
	return tb.Done()
}

func scalingTable(a *Analysis) *table.Table {
	n := len(a.Scaling)
	threads := make([]int, n)
	scheds := make([]string, n)
	chunks := make([]int, n)
	times := make([]float64, n)
	stds := make([]float64, n)
	sp := make([]float64, n)
	eff := make([]float64, n)
	for i, p := range a.Scaling {
		threads[i], chunks[i] = p.Threads, p.Chunk
		scheds[i] = a.Names.Name(p.Schedule)
		times[i], stds[i] = p.Time.Mean, p.Time.StdDev
		sp[i], eff[i] = p.Speedup, p.Efficiency
	}
	var tb table.Builder
	tb.Add("threads", threads).Add("schedule", scheds).Add("chunk", chunks)
	tb.Add("time", times).Add("std", stds)
	tb.Add("speedup", sp).Add("efficiency", eff)
	return tb.Done()
}
