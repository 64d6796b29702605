// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0666); err != nil {
			t.Fatal(err)
		}
		return path
	}
	a := write("a.dat", "1 0 0 2 0 1 1 0 0\n2 0 0 1 0 2 1 0 0\n")
	b := write("b.dat", "bad line\n4 1 8 0.6 0 3.3 0.83 0 0\n")

	check := func(f *Files, want ...string) {
		t.Helper()
		var got []string
		for f.Scan() {
			switch rec := f.Result(); rec := rec.(type) {
			case *SyntaxError:
				got = append(got, "err "+rec.Msg)
			case *Result:
				file, line := rec.Pos()
				got = append(got, filepath.Base(file)+":"+strconv.Itoa(line)+" p="+strconv.Itoa(rec.Threads))
			default:
				t.Fatalf("unexpected result type %T", rec)
			}
		}
		if err := f.Err(); err != nil {
			got = append(got, "fatal")
		}
		if strings.Join(got, "\n") != strings.Join(want, "\n") {
			t.Errorf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
		}
	}

	check(&Files{Paths: []string{a, b}},
		"a.dat:1 p=1", "a.dat:2 p=2", "err expected 9 fields, got 2", "b.dat:2 p=4")

	// Missing file is fatal.
	check(&Files{Paths: []string{a, filepath.Join(dir, "missing.dat")}},
		"a.dat:1 p=1", "a.dat:2 p=2", "fatal")

	// Stdin substitution.
	check(&Files{AllowStdin: true, Stdin: strings.NewReader("8 2 0 0.3 0 6 0.75 0 0\n")},
		"-:1 p=8")
	check(&Files{Paths: []string{"-", a}, AllowStdin: true, Stdin: strings.NewReader("16 0 0 1 0 1 1 0 0\n")},
		"-:1 p=16", "a.dat:1 p=1", "a.dat:2 p=2")
}

func TestReadAll(t *testing.T) {
	f := &Files{AllowStdin: true, Stdin: strings.NewReader("1 0 0 2 0 1 1 0 0\nx\n2 0 0 1 0 2 1 0 0\n")}
	samples, syntaxErrs, err := ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 || samples[1].Threads != 2 {
		t.Errorf("got samples %+v", samples)
	}
	if len(syntaxErrs) != 1 || syntaxErrs[0].Line != 2 {
		t.Errorf("got syntax errors %v", syntaxErrs)
	}
}
