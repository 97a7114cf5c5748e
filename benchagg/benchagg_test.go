// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/midnight85/docker-fs-bench-pma/benchparse"
)

// jsonAdapter reads files that already hold a benchparse.Output.
var jsonAdapter = benchparse.AdapterFunc(func(path string) (*benchparse.Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := new(benchparse.Output)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, &benchparse.ParseError{File: path, Err: err}
	}
	return out, nil
})

// testCollector routes benchmarks starting with "demo" to jsonAdapter
// and reads the monitors from docker.json and io.json.
func testCollector() Collector {
	return Collector{
		Registry: NewRegistry(Rule{"demo", jsonAdapter, "out.json"}),
		Monitors: []Monitor{
			{DockerStats, "docker.json", jsonAdapter},
			{Iostat, "io.json", jsonAdapter},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// writeTree creates files under a temporary root. Each key of files
// is a slash-separated path relative to the root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755))
	}
}
