// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scaleplot renders scaling analyses as charts.
package scaleplot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/wavebench/scalestat/scaleproc"
	"github.com/wavebench/scalestat/scalestat"
)

// Options configures Render. Zero fields use the defaults.
type Options struct {
	Width, Height vg.Length
	DPI           int
}

// Defaults for Options.
const (
	DefaultWidth  = 18 * vg.Inch
	DefaultHeight = 5 * vg.Inch
	DefaultDPI    = 150
)

func (o *Options) size() (w, h vg.Length, dpi int) {
	w, h, dpi = DefaultWidth, DefaultHeight, DefaultDPI
	if o == nil {
		return
	}
	if o.Width > 0 {
		w = o.Width
	}
	if o.Height > 0 {
		h = o.Height
	}
	if o.DPI > 0 {
		dpi = o.DPI
	}
	return
}

// errPoints is a series with symmetric vertical error bars.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// newErrPoints returns the finite points of a series. Non-finite
// errors are drawn as zero.
func newErrPoints(n int, at func(i int) (x, y, yerr float64)) errPoints {
	var pts errPoints
	for i := 0; i < n; i++ {
		x, y, e := at(i)
		if !finite(x) || !finite(y) {
			continue
		}
		if !finite(e) || e < 0 {
			e = 0
		}
		pts.XYs = append(pts.XYs, plotter.XY{X: x, Y: y})
		pts.YErrors = append(pts.YErrors, struct{ Low, High float64 }{e, e})
	}
	return pts
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Render draws a as a PNG to w. The chart has three panels: speedup
// against threads with the fitted Amdahl's Law curves, efficiency
// against threads, and mean time against chunk size. opts may be nil.
func Render(w io.Writer, a *scalestat.Analysis, opts *Options) error {
	speedup, err := speedupPlot(a)
	if err != nil {
		return err
	}
	efficiency, err := efficiencyPlot(a)
	if err != nil {
		return err
	}
	chunks, err := chunkPlot(a)
	if err != nil {
		return err
	}

	width, height, dpi := opts.size()
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1, Cols: 3,
		PadX:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	plots := [][]*plot.Plot{{speedup, efficiency, chunks}}
	canvases := plot.Align(plots, tiles, dc)
	for i, p := range plots[0] {
		p.Draw(canvases[0][i])
	}

	_, err = vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Legend.Top = true
	p.Legend.Left = true
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)
	return p
}

// addSeries adds a line with points and error bars to p.
func addSeries(p *plot.Plot, i int, label string, pts errPoints) error {
	if len(pts.XYs) == 0 {
		return nil
	}
	line, scatter, err := plotter.NewLinePoints(pts.XYs)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(i)
	scatter.Color = plotutil.Color(i)
	scatter.Shape = plotutil.Shape(i)
	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(i)
	p.Add(line, scatter, bars)
	p.Legend.Add(label, line, scatter)
	return nil
}

func pointSeries(pts []scaleproc.Point) errPoints {
	return newErrPoints(len(pts), func(i int) (float64, float64, float64) {
		return float64(pts[i].Threads), pts[i].Value, pts[i].Err
	})
}

func speedupPlot(a *scalestat.Analysis) (*plot.Plot, error) {
	p := newPlot("Speedup vs threads", "threads", "speedup")
	for i, sa := range a.Schedules {
		if err := addSeries(p, i, sa.Name, pointSeries(sa.Speedup)); err != nil {
			return nil, err
		}
		if !sa.Curve.Fit.Defined() || len(sa.Curve.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(sa.Curve.Points))
		for j, cp := range sa.Curve.Points {
			xys[j] = plotter.XY{X: cp.Threads, Y: cp.Speedup}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s Amdahl (f≈%.3f)", sa.Name, sa.Curve.Fit.F), line)
	}
	return p, nil
}

func efficiencyPlot(a *scalestat.Analysis) (*plot.Plot, error) {
	p := newPlot("Efficiency vs threads", "threads", "efficiency")
	for i, sa := range a.Schedules {
		if err := addSeries(p, i, sa.Name, pointSeries(sa.Efficiency)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func chunkPlot(a *scalestat.Analysis) (*plot.Plot, error) {
	p := newPlot("Time vs chunk size", "chunk size", "time (s)")
	for i, sa := range a.Schedules {
		cs := sa.Chunks
		pts := newErrPoints(len(cs), func(j int) (float64, float64, float64) {
			return float64(cs[j].Chunk), cs[j].MeanTime, cs[j].RMSStd
		})
		if err := addSeries(p, i, sa.Name, pts); err != nil {
			return nil, err
		}
	}
	return p, nil
}
