// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	info, err := Load(write("ok.json", `{"kernel":"6.1.0","cpus":8,"disks":["vda","vdb"]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"kernel": "6.1.0",
		"cpus":   8.0,
		"disks":  []any{"vda", "vdb"},
	}, info)

	info, err = Load(filepath.Join(dir, "missing.json"))
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{}, info)

	info, err = Load(write("null.json", "null"))
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{}, info)

	for _, bad := range []string{"{", "[1,2]", `"text"`} {
		info, err = Load(write("bad.json", bad))
		assert.Error(t, err, bad)
		assert.Equal(t, map[string]any{}, info, bad)
	}
}
