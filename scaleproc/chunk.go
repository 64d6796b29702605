// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaleproc

import (
	"math"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/wavebench/scalestat/scalefmt"
)

// A ChunkPoint summarizes the timings of every sample with one chunk
// size.
type ChunkPoint struct {
	Chunk int

	// MeanTime is the mean of the samples' mean times.
	MeanTime float64

	// RMSStd is the root mean square of the samples' standard
	// deviations.
	RMSStd float64
}

// MeanTimeByChunkSize groups samples by chunk size and returns, for
// each chunk size, the mean time and the root mean square of the
// standard deviations. The result is sorted by increasing chunk size.
//
// All samples must have the same schedule, otherwise
// MeanTimeByChunkSize returns an error wrapping ErrMixedSchedules.
func MeanTimeByChunkSize(samples []scalefmt.Sample) ([]ChunkPoint, error) {
	if err := checkSchedule(samples); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, nil
	}

	chunks := make([]int, len(samples))
	times := make([]float64, len(samples))
	vars := make([]float64, len(samples))
	for i, s := range samples {
		chunks[i] = s.Chunk
		times[i] = s.TimeMean
		vars[i] = s.TimeStd * s.TimeStd
	}
	var tb table.Builder
	tb.Add("chunk", chunks).Add("time", times).Add("var", vars)

	g := ggstat.Agg("chunk")(ggstat.AggMean("time", "var")).F(tb.Done())
	t := table.Flatten(table.SortBy(g, "chunk"))

	outChunks := t.MustColumn("chunk").([]int)
	meanTimes := t.MustColumn("mean time").([]float64)
	meanVars := t.MustColumn("mean var").([]float64)
	pts := make([]ChunkPoint, len(outChunks))
	for i := range pts {
		pts[i] = ChunkPoint{outChunks[i], meanTimes[i], math.Sqrt(meanVars[i])}
	}
	return pts, nil
}
