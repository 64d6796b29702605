// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Header is the comment line that starts every file written by a Writer.
const Header = "#threads schedule chunk time_mean time_std speedup efficiency sigma_Sp sigma_Ep"

// A Writer writes the measurement format.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer

	first bool
}

// NewWriter returns a writer that writes samples to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, first: true}
}

// Write writes Record rec to w. The first call also emits the column
// header. *SyntaxError records are ignored.
func (w *Writer) Write(rec Record) error {
	switch rec := rec.(type) {
	case *Result:
		w.writeSample(&rec.Sample)
	case *SyntaxError:
		// Ignore
		return nil
	default:
		return fmt.Errorf("unknown Record type %T", rec)
	}
	return w.flush()
}

// WriteSample writes a single sample to w.
func (w *Writer) WriteSample(s *Sample) error {
	w.writeSample(s)
	return w.flush()
}

func (w *Writer) flush() error {
	// Write to the buffer can't fail, so we only have to check if
	// this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

func (w *Writer) writeSample(s *Sample) {
	if w.first {
		w.buf.WriteString(Header)
		w.buf.WriteByte('\n')
		w.first = false
	}
	fmt.Fprintf(&w.buf, "%d %d %d", s.Threads, int(s.Schedule), s.Chunk)
	for _, v := range [...]float64{s.TimeMean, s.TimeStd, s.Speedup, s.Efficiency, s.SpeedupErr, s.EfficiencyErr} {
		w.buf.WriteByte(' ')
		w.buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	w.buf.WriteByte('\n')
}
