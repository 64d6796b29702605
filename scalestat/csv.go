// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalestat

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/wavebench/scalestat/scalemath"
)

var csvHeader = []string{
	"schedule", "threads", "chunk",
	"speedup", "speedup_err", "efficiency", "efficiency_err",
	"serial_fraction", "predicted_speedup",
}

// FormatCSV writes one CSV record per schedule and thread count of a
// to w. predicted_speedup is the fitted Amdahl's Law speedup at that
// thread count, and is empty when the fit is undefined.
func FormatCSV(w io.Writer, a *Analysis) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	ff := func(x float64) string {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	for _, sa := range a.Schedules {
		fit := sa.Curve.Fit
		for i, p := range sa.Speedup {
			e := sa.Efficiency[i]
			pred := ""
			if fit.Defined() {
				pred = ff(scalemath.PredictedSpeedup(float64(p.Threads), fit.F))
			}
			rec := []string{
				sa.Name, strconv.Itoa(p.Threads), strconv.Itoa(p.Chunk),
				ff(p.Value), ff(p.Err), ff(e.Value), ff(e.Err),
				ff(fit.F), pred,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
