// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/wavebench/scalestat/scaledb"
)

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.db")
	bad := filepath.Join(t.TempDir(), "bad.dat")
	if err := os.WriteFile(bad, []byte("1 0 0 1.5\n2 0 0 0.8 0.01 1.875 0.9375 0.03 0.015\n"), 0666); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	args := []string{"-db", "sqlite3:" + path, "-label", "wave", "-v", "testdata/wave.dat", bad}
	if err := scalesave(&stdout, &stderr, args); err != nil {
		t.Fatalf("unexpected error: %s\nstderr:\n%s", err, stderr.String())
	}
	id, err := strconv.ParseInt(strings.TrimSpace(stdout.String()), 10, 64)
	if err != nil {
		t.Fatalf("output %q is not a run ID", stdout.String())
	}
	if want := bad + ":1: expected 9 fields, got 4\n"; !strings.Contains(stderr.String(), want) {
		t.Errorf("stderr missing %q:\n%s", want, stderr.String())
	}
	if !strings.Contains(stderr.String(), "7 samples saved") {
		t.Errorf("stderr missing sample count:\n%s", stderr.String())
	}

	db, err := scaledb.OpenSQL("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	runs, err := db.Runs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != id || runs[0].Label != "wave" || runs[0].Samples != 7 {
		t.Errorf("got runs %+v", runs)
	}
}

func TestSaveMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.db")
	var stdout, stderr bytes.Buffer
	args := []string{"-db", "sqlite3:" + path, "testdata/wave.dat", "testdata/missing.dat"}
	if err := scalesave(&stdout, &stderr, args); err == nil {
		t.Fatal("got success, want error")
	}

	db, err := scaledb.OpenSQL("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if n, err := db.CountRuns(); err != nil || n != 0 {
		t.Errorf("CountRuns = %d, %v; want the run aborted", n, err)
	}
}

func TestSaveUsage(t *testing.T) {
	for _, args := range [][]string{
		{"-db", "sqlite3:x.db"},
		{"testdata/wave.dat"},
		{"-db", ":x.db", "testdata/wave.dat"},
	} {
		var stdout, stderr bytes.Buffer
		if err := scalesave(&stdout, &stderr, args); err == nil {
			t.Errorf("scalesave %s: got success, want error", strings.Join(args, " "))
		}
	}
}
