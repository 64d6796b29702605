// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaleproc

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/wavebench/scalestat/scalefmt"
)

// ErrMixedSchedules is returned when a function that works on a single
// schedule is given samples from more than one.
var ErrMixedSchedules = errors.New("samples span more than one schedule")

// A Point is the best observation of a metric at one thread count.
type Point struct {
	Threads  int
	Schedule scalefmt.Schedule
	// Chunk is the chunk size of the sample that produced Value.
	Chunk int

	Value float64
	Err   float64
}

// checkSchedule returns an error if samples are not all from the same
// schedule.
func checkSchedule(samples []scalefmt.Sample) error {
	for i := 1; i < len(samples); i++ {
		if samples[i].Schedule != samples[0].Schedule {
			return fmt.Errorf("schedules %d and %d: %w", samples[0].Schedule, samples[i].Schedule, ErrMixedSchedules)
		}
	}
	return nil
}

// better reports whether metric value v beats the current best. NaN
// never beats a number, and equal values do not replace the first.
func better(v, best float64) bool {
	if math.IsNaN(best) {
		return !math.IsNaN(v)
	}
	return v > best
}

// BestByThreadCount returns, for each distinct thread count in
// samples, the sample with the largest value of m, across all chunk
// sizes. If several samples share the largest value, the first one in
// samples wins. A NaN value loses to any number; a thread count whose
// samples are all NaN yields a NaN point.
//
// The result is sorted by increasing thread count. All samples must
// have the same schedule, otherwise BestByThreadCount returns an error
// wrapping ErrMixedSchedules.
func BestByThreadCount(samples []scalefmt.Sample, m Metric) ([]Point, error) {
	if err := checkSchedule(samples); err != nil {
		return nil, err
	}

	best := make(map[int]*scalefmt.Sample)
	for i := range samples {
		s := &samples[i]
		cur, ok := best[s.Threads]
		if !ok {
			best[s.Threads] = s
			continue
		}
		v, _ := m.Value(s)
		bv, _ := m.Value(cur)
		if better(v, bv) {
			best[s.Threads] = s
		}
	}

	pts := make([]Point, 0, len(best))
	for _, s := range best {
		v, e := m.Value(s)
		pts = append(pts, Point{s.Threads, s.Schedule, s.Chunk, v, e})
	}
	sort.Slice(pts, func(i, j int) bool {
		return pts[i].Threads < pts[j].Threads
	})
	return pts, nil
}

// Threads returns the thread counts of pts.
func Threads(pts []Point) []int {
	out := make([]int, len(pts))
	for i, p := range pts {
		out[i] = p.Threads
	}
	return out
}

// Values returns the metric values of pts.
func Values(pts []Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}

// FastestByThreadCount returns, for each distinct thread count, the
// sample with the smallest mean time across every schedule and chunk
// size. The first sample wins ties and NaN times never win. The result
// is sorted by increasing thread count.
func FastestByThreadCount(samples []scalefmt.Sample) []scalefmt.Sample {
	idx := make(map[int]int)
	var out []scalefmt.Sample
	for _, s := range samples {
		i, ok := idx[s.Threads]
		if !ok {
			idx[s.Threads] = len(out)
			out = append(out, s)
			continue
		}
		if better(-s.TimeMean, -out[i].TimeMean) {
			out[i] = s
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Threads < out[j].Threads
	})
	return out
}
