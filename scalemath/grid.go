// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalemath

import "golang.org/x/sync/errgroup"

// gridMin is the minimum of a grid search: the index of the winning
// candidate and its error.
type gridMin struct {
	index int
	mse   float64
}

// searchGrid returns the first index of grid that minimizes MSE over
// the points (ps, ss).
//
// With parallelism > 1 the grid is split into contiguous shards that
// are searched concurrently. Shard minima are merged in grid order
// with a strict comparison, so ties resolve to the lowest index
// exactly as in a sequential scan.
func searchGrid(grid, ps, ss []float64, parallelism int) gridMin {
	if parallelism < 2 || len(grid) < 2*parallelism {
		return scanGrid(grid, 0, len(grid), ps, ss)
	}

	mins := make([]gridMin, parallelism)
	var g errgroup.Group
	for i := range mins {
		i := i
		lo := i * len(grid) / parallelism
		hi := (i + 1) * len(grid) / parallelism
		g.Go(func() error {
			mins[i] = scanGrid(grid, lo, hi, ps, ss)
			return nil
		})
	}
	g.Wait() // Shards never fail.

	best := mins[0]
	for _, m := range mins[1:] {
		if m.mse < best.mse {
			best = m
		}
	}
	return best
}

// scanGrid returns the first minimum of MSE over grid[lo:hi].
// lo must be less than hi.
func scanGrid(grid []float64, lo, hi int, ps, ss []float64) gridMin {
	best := gridMin{lo, MSE(ps, ss, grid[lo])}
	for i := lo + 1; i < hi; i++ {
		if mse := MSE(ps, ss, grid[i]); mse < best.mse {
			best = gridMin{i, mse}
		}
	}
	return best
}
