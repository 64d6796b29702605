// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaleplot

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/wavebench/scalestat/scalefmt"
	"github.com/wavebench/scalestat/scalestat"
)

func testAnalysis(t *testing.T) *scalestat.Analysis {
	t.Helper()
	samples := []scalefmt.Sample{
		{Threads: 1, Schedule: scalefmt.Static,
			TimeMean: 2.0, TimeStd: 0.02, Speedup: 1, Efficiency: 1, SpeedupErr: 0.014, EfficiencyErr: 0.014},
		{Threads: 2, Schedule: scalefmt.Static,
			TimeMean: 1.0, TimeStd: 0.01, Speedup: 2, Efficiency: 1, SpeedupErr: 0.028, EfficiencyErr: 0.014},
		{Threads: 4, Schedule: scalefmt.Static,
			TimeMean: 0.6, TimeStd: 0.01, Speedup: 3.3333, Efficiency: 0.8333, SpeedupErr: 0.06, EfficiencyErr: 0.015},
		{Threads: 2, Schedule: scalefmt.Guided, Chunk: 8,
			TimeMean: 1.1, TimeStd: 0.02, Speedup: 1.8182, Efficiency: 0.9091, SpeedupErr: 0.04, EfficiencyErr: 0.02},
		{Threads: 4, Schedule: scalefmt.Guided, Chunk: 8,
			TimeMean: 0.55, TimeStd: 0.01, Speedup: 3.6364, Efficiency: 0.9091, SpeedupErr: 0.07, EfficiencyErr: 0.0175},
		{Threads: 4, Schedule: scalefmt.Guided, Chunk: 32,
			TimeMean: 0.7, TimeStd: 0.01, Speedup: 2.8571, Efficiency: 0.7143, SpeedupErr: 0.05, EfficiencyErr: 0.0125},
		{Threads: 8, Schedule: scalefmt.Guided, Chunk: 32,
			TimeMean: 0.4, TimeStd: math.NaN(), Speedup: math.NaN(), Efficiency: math.NaN(), SpeedupErr: math.NaN(), EfficiencyErr: math.NaN()},
	}
	a, err := scalestat.Analyze(samples, nil)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	opts := &Options{Width: 6 * vg.Inch, Height: 2 * vg.Inch, DPI: 50}
	if err := Render(&buf, testAnalysis(t), opts); err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 300 || cfg.Height != 100 {
		t.Errorf("got %dx%d image, want 300x100", cfg.Width, cfg.Height)
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, &scalestat.Analysis{}, &Options{DPI: 20}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("output is not a PNG")
	}
}

func TestOptionsSize(t *testing.T) {
	var nilOpts *Options
	w, h, dpi := nilOpts.size()
	if w != DefaultWidth || h != DefaultHeight || dpi != DefaultDPI {
		t.Errorf("nil options: got %v %v %v", w, h, dpi)
	}
	w, h, dpi = (&Options{Height: vg.Inch}).size()
	if w != DefaultWidth || h != vg.Inch || dpi != DefaultDPI {
		t.Errorf("partial options: got %v %v %v", w, h, dpi)
	}
}

func TestNewErrPoints(t *testing.T) {
	xs := []float64{1, 2, 4, 8}
	ys := []float64{1, math.NaN(), 3, math.Inf(1)}
	es := []float64{0.1, 0.1, math.NaN(), 0.2}
	pts := newErrPoints(len(xs), func(i int) (float64, float64, float64) {
		return xs[i], ys[i], es[i]
	})
	if pts.Len() != 2 {
		t.Fatalf("got %d points, want 2", pts.Len())
	}
	if x, y := pts.XY(1); x != 4 || y != 3 {
		t.Errorf("point 1 = (%v, %v), want (4, 3)", x, y)
	}
	if lo, hi := pts.YError(1); lo != 0 || hi != 0 {
		t.Errorf("NaN error drawn as (%v, %v), want zero", lo, hi)
	}
}
