// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sysinfo loads the host metadata recorded next to the
// benchmark results.
package sysinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Load returns the JSON object stored at path.
//
// A missing file yields an empty map and no error. A file that cannot
// be read or is not a JSON object yields an empty map and an error,
// which callers usually log and ignore.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return map[string]any{}, err
	}
	var info map[string]any
	if err := json.Unmarshal(data, &info); err != nil {
		return map[string]any{}, fmt.Errorf("%s: %w", path, err)
	}
	if info == nil {
		info = map[string]any{}
	}
	return info, nil
}
