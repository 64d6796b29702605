// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sink opens output destinations for reports and charts.
//
// A destination is either a local file path or a Cloud Storage
// object named gs://bucket/object.
package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// Options configures access to Cloud Storage. It has no effect on
// local destinations.
type Options struct {
	// CredentialsFile is a service account or user credentials JSON
	// file.
	CredentialsFile string
	// AccessToken is an OAuth2 access token. It takes precedence
	// over CredentialsFile.
	AccessToken string
	// ContentType is set on created objects.
	ContentType string
}

func (o *Options) clientOptions() []option.ClientOption {
	if o == nil {
		return nil
	}
	switch {
	case o.AccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.AccessToken})
		return []option.ClientOption{option.WithTokenSource(ts)}
	case o.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(o.CredentialsFile)}
	}
	return nil
}

// IsRemote reports whether dest names a Cloud Storage object.
func IsRemote(dest string) bool {
	return strings.HasPrefix(dest, "gs://")
}

// parseGCS splits a gs:// destination into its bucket and object.
func parseGCS(dest string) (bucket, object string, ok bool) {
	rest, found := strings.CutPrefix(dest, "gs://")
	if !found {
		return "", "", false
	}
	bucket, object, found = strings.Cut(rest, "/")
	if !found || bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", false
	}
	return bucket, object, true
}

// Create opens dest for writing. Local parent directories are
// created as needed. A Cloud Storage object is not visible until the
// returned writer is closed, and closing is when upload errors are
// reported. opts may be nil.
func Create(ctx context.Context, dest string, opts *Options) (io.WriteCloser, error) {
	if !IsRemote(dest) {
		if dir := filepath.Dir(dest); dir != "." {
			if err := os.MkdirAll(dir, 0777); err != nil {
				return nil, err
			}
		}
		return os.Create(dest)
	}

	bucket, object, ok := parseGCS(dest)
	if !ok {
		return nil, fmt.Errorf("malformed Cloud Storage destination %q, want gs://bucket/object", dest)
	}
	client, err := storage.NewClient(ctx, opts.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dest, err)
	}
	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	if opts != nil && opts.ContentType != "" {
		w.ContentType = opts.ContentType
	}
	return &objectWriter{Writer: w, client: client, dest: dest}, nil
}

// objectWriter closes the storage client along with the object.
type objectWriter struct {
	*storage.Writer
	client *storage.Client
	dest   string
}

func (w *objectWriter) Close() error {
	err := w.Writer.Close()
	if cerr := w.client.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", w.dest, err)
	}
	return nil
}
