// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bucket uploads reports to Google Cloud Storage.
package bucket

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// A Bucket writes objects below a prefix of one GCS bucket.
type Bucket struct {
	name   string
	prefix string
	client *storage.Client
	handle *storage.BucketHandle
}

// Open returns a Bucket for the gs://bucket/prefix URL rawURL.
//
// If credentialsFile is set, the service account key it names is
// used. Otherwise application default credentials are used.
func Open(ctx context.Context, rawURL, credentialsFile string) (*Bucket, error) {
	name, prefix, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	opts, err := clientOptions(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &Bucket{name: name, prefix: prefix, client: client, handle: client.Bucket(name)}, nil
}

func clientOptions(ctx context.Context, credentialsFile string) ([]option.ClientOption, error) {
	if credentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}, nil
	}
	ts, err := google.DefaultTokenSource(ctx, storage.ScopeReadWrite)
	if err != nil {
		return nil, fmt.Errorf("default credentials: %w", err)
	}
	return []option.ClientOption{option.WithTokenSource(ts)}, nil
}

// ParseURL splits a gs://bucket/prefix URL. The prefix may be empty.
func ParseURL(rawURL string) (bucket, prefix string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "gs" || u.Host == "" {
		return "", "", fmt.Errorf("%q is not a gs://bucket URL", rawURL)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// ObjectName returns the name of the report object for a pass that
// finished at t.
func ObjectName(prefix string, t time.Time) string {
	return path.Join(prefix, "report-"+t.UTC().Format("20060102T150405Z")+".json")
}

// objectWriter is the part of *storage.Writer that Upload uses.
type objectWriter interface {
	io.Writer
	Close() error
}

// newObjectWriter is overridden by tests.
var newObjectWriter = func(ctx context.Context, b *Bucket, name string, metadata map[string]string) objectWriter {
	w := b.handle.Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	w.Metadata = metadata
	return w
}

// Upload copies r into the object for a pass finished at t and
// returns its gs:// URL. metadata is attached to the object.
func (b *Bucket) Upload(ctx context.Context, r io.Reader, t time.Time, metadata map[string]string) (string, error) {
	name := ObjectName(b.prefix, t)
	w := newObjectWriter(ctx, b, name, metadata)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return "gs://" + b.name + "/" + name, nil
}

// Close releases the client.
func (b *Bucket) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}
