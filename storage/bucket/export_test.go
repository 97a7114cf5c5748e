// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bucket

import (
	"bytes"
	"context"
)

// A MemObject records what Upload wrote.
type MemObject struct {
	Name     string
	Metadata map[string]string
	bytes.Buffer
	Closed bool
}

func (o *MemObject) Close() error {
	o.Closed = true
	return nil
}

// UseMemory makes uploads go to the returned map instead of GCS,
// and returns a Bucket for name and prefix.
func UseMemory(name, prefix string) (*Bucket, map[string]*MemObject) {
	objects := make(map[string]*MemObject)
	newObjectWriter = func(ctx context.Context, b *Bucket, obj string, metadata map[string]string) objectWriter {
		o := &MemObject{Name: obj, Metadata: metadata}
		objects[obj] = o
		return o
	}
	return &Bucket{name: name, prefix: prefix}, objects
}
