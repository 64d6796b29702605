// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestParseGCS(t *testing.T) {
	check := func(dest, wantBucket, wantObject string, wantOK bool) {
		t.Helper()
		bucket, object, ok := parseGCS(dest)
		if bucket != wantBucket || object != wantObject || ok != wantOK {
			t.Errorf("parseGCS(%q) = %q, %q, %v, want %q, %q, %v", dest, bucket, object, ok, wantBucket, wantObject, wantOK)
		}
	}
	check("gs://perf/runs/scaling.png", "perf", "runs/scaling.png", true)
	check("gs://perf/a", "perf", "a", true)
	check("gs://perf", "", "", false)
	check("gs://perf/", "", "", false)
	check("gs:///a", "", "", false)
	check("gs://perf/dir/", "", "", false)
	check("out/scaling.png", "", "", false)
}

func TestCreateLocal(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a", "b", "scaling.dat")
	w, err := Create(context.Background(), dest, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, "#threads\n"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "#threads\n" {
		t.Errorf("got %q", data)
	}
}

func TestCreateMalformedRemote(t *testing.T) {
	if _, err := Create(context.Background(), "gs://bucket-only", nil); err == nil {
		t.Errorf("want error for destination without an object")
	}
}

func TestClientOptions(t *testing.T) {
	var nilOpts *Options
	if n := len(nilOpts.clientOptions()); n != 0 {
		t.Errorf("nil options: got %d client options", n)
	}
	if n := len((&Options{}).clientOptions()); n != 0 {
		t.Errorf("empty options: got %d client options", n)
	}
	if n := len((&Options{AccessToken: "tok", CredentialsFile: "creds.json"}).clientOptions()); n != 1 {
		t.Errorf("got %d client options, want 1", n)
	}
}
