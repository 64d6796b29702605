// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
)

// A Reader reads the measurement format.
//
// Its API is modeled on bufio.Scanner. A Reader retains ownership of
// the Result it returns; a caller should copy the Sample if it needs
// to keep it past the next call to Scan.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	s   *bufio.Scanner
	err error // current I/O error

	rec    Record
	result Result
}

// A Result is a sample read from a measurement file.
type Result struct {
	Sample

	fileName string
	line     int
}

// Pos returns the file name and line number of r.
func (r *Result) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// A SyntaxError represents a syntax error on a particular line of a
// measurement file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// A Record is a single record read from a measurement file. It is
// either a *Result or a *SyntaxError.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based line number within that file. If this record was not
	// read from a file, it returns "", 0.
	Pos() (fileName string, line int)
}

var _ Record = (*Result)(nil)
var _ Record = (*SyntaxError)(nil)

var noResult = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// NumFields is the number of fields on a sample line.
const NumFields = 9

// NewReader constructs a reader to parse measurements from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.err = nil
	r.rec = nil
	r.result = Result{fileName: fileName}
}

func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.result.fileName, r.result.line, msg}
}

// Scan advances the reader to the next sample and reports whether a
// record was read.
// The caller should use the Result method to get the record.
// If Scan reaches EOF or an I/O error occurs, it returns false,
// in which case the caller should use the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	r.rec = nil

	for r.s.Scan() {
		r.result.line++
		line := r.s.Bytes()
		if i := bytes.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := bytes.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := r.parseSample(fields); err != nil {
			r.rec = err
		} else {
			r.rec = &r.result
		}
		return true
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.result.fileName, r.result.line, err)
	}
	return false
}

func (r *Reader) parseSample(fields [][]byte) *SyntaxError {
	if len(fields) != NumFields {
		return r.newSyntaxError(fmt.Sprintf("expected %d fields, got %d", NumFields, len(fields)))
	}
	var vals [NumFields]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(string(f), 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok {
				err = ne.Err
			}
			return r.newSyntaxError(fmt.Sprintf("parsing %s: %v", fieldNames[i], err))
		}
		vals[i] = v
	}

	var s Sample
	var ok bool
	if s.Threads, ok = integral(vals[0]); !ok {
		return r.newSyntaxError("threads must be an integer")
	}
	sched, ok := integral(vals[1])
	if !ok {
		return r.newSyntaxError("schedule must be an integer")
	}
	s.Schedule = Schedule(sched)
	if s.Chunk, ok = integral(vals[2]); !ok {
		return r.newSyntaxError("chunk must be an integer")
	}
	s.TimeMean, s.TimeStd = vals[3], vals[4]
	s.Speedup, s.Efficiency = vals[5], vals[6]
	s.SpeedupErr, s.EfficiencyErr = vals[7], vals[8]

	switch {
	case s.Threads < 1:
		return r.newSyntaxError("threads must be at least 1")
	case s.Chunk < 0:
		return r.newSyntaxError("chunk must not be negative")
	case s.TimeMean < 0:
		return r.newSyntaxError("time_mean must not be negative")
	case s.TimeStd < 0:
		return r.newSyntaxError("time_std must not be negative")
	}

	r.result.Sample = s
	return nil
}

var fieldNames = [NumFields]string{
	"threads", "schedule", "chunk",
	"time_mean", "time_std",
	"speedup", "efficiency",
	"sigma_Sp", "sigma_Ep",
}

// integral converts v to an int if it has no fractional part and fits.
func integral(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, false
	}
	return int(v), true
}

// Result returns the record that was just read by Scan. This is either
// a *Result or a *SyntaxError indicating a parse error.
//
// Parse errors are non-fatal, so the caller can continue to call
// Scan.
//
// If this returns a *Result, the caller should not retain the Result,
// as it will be overwritten by the next call to Scan.
func (r *Reader) Result() Record {
	if r.rec == nil {
		return noResult
	}
	return r.rec
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}
