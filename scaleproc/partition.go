// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaleproc

import (
	"sort"

	"github.com/wavebench/scalestat/scalefmt"
)

// A Group is the samples of one schedule, in input order.
type Group struct {
	Schedule scalefmt.Schedule
	Samples  []scalefmt.Sample
}

// BySchedule splits samples by schedule. Groups are sorted by
// schedule code.
func BySchedule(samples []scalefmt.Sample) []Group {
	idx := make(map[scalefmt.Schedule]int)
	var groups []Group
	for _, s := range samples {
		i, ok := idx[s.Schedule]
		if !ok {
			i = len(groups)
			idx[s.Schedule] = i
			groups = append(groups, Group{Schedule: s.Schedule})
		}
		groups[i].Samples = append(groups[i].Samples, s)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Schedule < groups[j].Schedule
	})
	return groups
}
