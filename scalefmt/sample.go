// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalefmt reads and writes parallel scaling measurements.
//
// A measurement file holds one sample per line. Each sample is nine
// whitespace-separated numeric fields:
//
//	threads schedule chunk time_mean time_std speedup efficiency sigma_Sp sigma_Ep
//
// A "#" starts a comment that runs to the end of the line. Blank
// lines are ignored.
package scalefmt

import "strconv"

// A Schedule is the code of a loop scheduling policy.
//
// Codes other than the named constants are legal and are carried
// through unchanged.
type Schedule int

const (
	Static  Schedule = 0
	Dynamic Schedule = 1
	Guided  Schedule = 2
)

// ScheduleNames maps schedule codes to display names.
//
// A ScheduleNames is treated as read-only once it has been handed to
// an analysis.
type ScheduleNames map[Schedule]string

// DefaultScheduleNames returns a new table naming the static, dynamic,
// and guided policies.
func DefaultScheduleNames() ScheduleNames {
	return ScheduleNames{
		Static:  "static",
		Dynamic: "dynamic",
		Guided:  "guided",
	}
}

// Name returns the display name of s. Codes that are not in the
// table are rendered as their decimal value.
func (n ScheduleNames) Name(s Schedule) string {
	if name, ok := n[s]; ok {
		return name
	}
	return strconv.Itoa(int(s))
}

// A Sample is a single measurement of a parallel run.
//
// Speedup, Efficiency and their errors are taken from the input as
// is. They may be zero or NaN when the producer could not derive
// them.
type Sample struct {
	Threads  int
	Schedule Schedule
	// Chunk is the scheduling chunk size. Zero means the runtime's
	// default chunking.
	Chunk int

	TimeMean float64 // seconds
	TimeStd  float64 // seconds

	Speedup       float64
	Efficiency    float64
	SpeedupErr    float64
	EfficiencyErr float64
}
