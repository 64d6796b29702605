// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalemath

import (
	"errors"
	"math"
	"testing"
)

func TestPredictedSpeedup(t *testing.T) {
	check := func(p, f, want float64) {
		t.Helper()
		got := PredictedSpeedup(p, f)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("PredictedSpeedup(%v, %v) = %v, want %v", p, f, got, want)
		}
	}
	check(1, 0.3, 1)
	check(4, 0, 4)
	check(8, 1, 1)
	check(2, 0.5, 1/(0.5+0.25))
	// Thread counts at or below zero are clamped.
	if got := PredictedSpeedup(0, 0.5); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("PredictedSpeedup(0, 0.5) = %v, want finite", got)
	}
}

func TestFitRecoversSerialFraction(t *testing.T) {
	threads := []int{1, 2, 4, 8, 16}
	const tol = (GridMax - GridMin) / (GridPoints - 1)
	for _, f0 := range []float64{0, 0.01, 0.05, 0.1234, 0.3, 0.5, 0.9, 0.99} {
		speedups := make([]float64, len(threads))
		for i, p := range threads {
			speedups[i] = PredictedSpeedup(float64(p), f0)
		}
		fit, err := FitAmdahl(threads, speedups, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !fit.Defined() {
			t.Fatalf("f0=%v: fit not defined: %v", f0, fit.Warnings)
		}
		if math.Abs(fit.F-f0) > tol {
			t.Errorf("f0=%v: got f=%v, want within %v", f0, fit.F, tol)
		}
		if fit.N != len(threads) || fit.Dropped != 0 {
			t.Errorf("f0=%v: got N=%d Dropped=%d", f0, fit.N, fit.Dropped)
		}
	}
}

func TestFitInsufficient(t *testing.T) {
	check := func(threads []int, speedups []float64) {
		t.Helper()
		f, err := FitSerialFraction(threads, speedups)
		if err != nil {
			t.Fatal(err)
		}
		if f != 0 {
			t.Errorf("FitSerialFraction(%v, %v) = %v, want 0", threads, speedups, f)
		}
		fit, _ := FitAmdahl(threads, speedups, nil)
		if fit.Status != FitInsufficient {
			t.Errorf("status = %v, want %v", fit.Status, FitInsufficient)
		}
		if len(fit.Warnings) == 0 {
			t.Errorf("want a warning for an insufficient fit")
		}
	}
	check(nil, nil)
	check([]int{4}, []float64{3.5})
	check([]int{1, 2, 4}, []float64{0, math.NaN(), -1})
	check([]int{0, -2, 4}, []float64{1, 2, 3})
	check([]int{1, 2}, []float64{1, math.Inf(1)})
}

func TestFitLengthMismatch(t *testing.T) {
	_, err := FitSerialFraction([]int{1, 2}, []float64{1})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("got %v, want %v", err, ErrLengthMismatch)
	}
}

func TestFitScenario(t *testing.T) {
	threads := []int{1, 2, 4, 8}
	speedups := []float64{1.0, 1.9, 3.5, 6.0}
	fit, err := FitAmdahl(threads, speedups, nil)
	if err != nil {
		t.Fatal(err)
	}
	if fit.F < GridMin || fit.F > GridMax {
		t.Fatalf("f = %v out of range", fit.F)
	}
	if fit.F < 0.047 || fit.F > 0.048 {
		t.Errorf("f = %v, want ≈0.0475", fit.F)
	}

	ps := []float64{1, 2, 4, 8}
	for _, f := range []float64{0, 0.99} {
		if m := MSE(ps, speedups, f); fit.MSE > m {
			t.Errorf("MSE at fit %v = %v exceeds MSE at %v = %v", fit.F, fit.MSE, f, m)
		}
	}
	if got := MSE(ps, speedups, fit.F); got != fit.MSE {
		t.Errorf("reported MSE %v, recomputed %v", fit.MSE, got)
	}
}

func TestFitDropsBadPoints(t *testing.T) {
	threads := []int{1, 2, 0, 4, 8, 16}
	speedups := []float64{1.0, 1.9, 5, 3.5, math.NaN(), 0}
	fit, err := FitAmdahl(threads, speedups, nil)
	if err != nil {
		t.Fatal(err)
	}
	if fit.N != 3 || fit.Dropped != 3 {
		t.Errorf("got N=%d Dropped=%d, want 3 and 3", fit.N, fit.Dropped)
	}
	want, _ := FitSerialFraction([]int{1, 2, 4}, []float64{1.0, 1.9, 3.5})
	if fit.F != want {
		t.Errorf("got f=%v, want %v", fit.F, want)
	}
}

func TestFitDeterministic(t *testing.T) {
	threads := []int{1, 2, 4, 8, 16, 32}
	speedups := []float64{1, 1.85, 3.3, 5.1, 6.9, 7.7}
	first, err := FitAmdahl(threads, speedups, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, _ := FitAmdahl(threads, speedups, nil)
		if again.F != first.F || again.MSE != first.MSE {
			t.Fatalf("call %d: got (%v, %v), want (%v, %v)", i, again.F, again.MSE, first.F, first.MSE)
		}
	}
	for _, par := range []int{0, 1, 2, 3, 7, 16, 1000, 5000} {
		got, _ := FitAmdahl(threads, speedups, &FitOptions{Parallelism: par})
		if got.F != first.F || got.MSE != first.MSE {
			t.Errorf("parallelism %d: got (%v, %v), want (%v, %v)", par, got.F, got.MSE, first.F, first.MSE)
		}
	}
}

func TestSearchGridTies(t *testing.T) {
	// Identical candidates tie: the first must win.
	grid := []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3}
	ps := []float64{2, 4}
	ss := []float64{1.5, 2.5}
	for _, par := range []int{1, 2, 4} {
		if got := searchGrid(grid, ps, ss, par); got.index != 0 {
			t.Errorf("parallelism %d: got index %d, want 0", par, got.index)
		}
	}
}

func TestFitString(t *testing.T) {
	if got, want := (Fit{F: 0.05, Status: FitOK}).String(), "f≈0.0500"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := (Fit{Status: FitInsufficient}).String(), "f=0 (insufficient data)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCurve(t *testing.T) {
	pts := Curve(0.1, 16, 200)
	if len(pts) != 200 {
		t.Fatalf("got %d points, want 200", len(pts))
	}
	if pts[0].Threads != 1 || pts[199].Threads != 16 {
		t.Errorf("curve spans [%v, %v], want [1, 16]", pts[0].Threads, pts[199].Threads)
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Speedup < pts[i-1].Speedup {
			t.Fatalf("curve not monotonic at %d", i)
		}
	}
	if pts := Curve(0.1, 0, 3); pts[0].Threads != 1 || pts[2].Threads != 1 {
		t.Errorf("maxThreads 0: got %v", pts)
	}
	if pts := Curve(0.1, 8, 0); pts != nil {
		t.Errorf("n=0: got %v, want nil", pts)
	}
}

func TestDerive(t *testing.T) {
	r := Derive(4, Timing{2, 0.2}, Timing{0.5, 0.05})
	check := func(name string, got, want float64) {
		t.Helper()
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	check("speedup", r.Speedup, 4)
	check("efficiency", r.Efficiency, 1)
	check("speedup error", r.SpeedupErr, 4*math.Sqrt(0.01+0.01))
	check("efficiency error", r.EfficiencyErr, math.Sqrt(0.02))

	if r := Derive(4, Timing{0, 0}, Timing{1, 0}); r != (Ratio{}) {
		t.Errorf("zero baseline: got %+v, want zero", r)
	}
	if r := Derive(2, Timing{1, 0}, Timing{math.NaN(), 0}); r != (Ratio{}) {
		t.Errorf("NaN timing: got %+v, want zero", r)
	}
}
