// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	root := writeTree(t, map[string]string{
		"demo-db/fsA/run_1/out.json":    `{"plot":{"tps":100}}`,
		"demo-db/fsA/run_2/out.json":    `{"plot":{"tps":110}}`,
		"demo-db/fsA/run_3/out.json":    `{"plot":{"tps":105}}`,
		"demo-db/fsA/run_1/docker.json": `{"plot":{"cpu_perc_avg":1},"series":{"cpu_perc":[1,1]}}`,
		"demo-db/fsA/run_2/docker.json": `{"plot":{"cpu_perc_avg":2},"series":{"cpu_perc":[2]}}`,
		"demo-db/fsA/run_3/docker.json": `{"plot":{"cpu_perc_avg":2}}`,
		"demo-db/fsB/run_1/io.json":     `{"table":{"vdb_util_avg":10.123}}`,
		"unknown/fsA/run_1/out.json":    `{"plot":{"tps":1}}`,
	})
	a := &Aggregator{Collector: testCollector()}
	r, stats, err := a.Aggregate(root, map[string]any{"host": "h"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"host": "h"}, r.SystemInfo)
	assert.Equal(t, []string{"demo-db"}, r.Benchmarks())
	assert.Equal(t, []string{"fsA", "fsB"}, r.Configs("demo-db"))

	a1 := r.Entry("demo-db", "fsA")
	assert.Equal(t, map[string]any{"tps": 105.0}, a1.Metrics.Plot)
	assert.Equal(t, map[string]any{"cpu_perc_avg": 1.67}, a1.Monitoring.DockerStats.Plot)
	assert.Equal(t, map[string][]float64{"cpu_perc": {1, 1}}, a1.Monitoring.DockerStats.Series)

	b := r.Entry("demo-db", "fsB")
	assert.Empty(t, b.Metrics.Plot)
	assert.Equal(t, map[string]any{"vdb_util_avg": 10.123}, b.Monitoring.Iostat.Table)

	assert.Equal(t, 1, stats.BenchmarksSkipped)
	assert.Equal(t, 7, stats.FilesParsed)
}

func TestAggregatePrecision(t *testing.T) {
	root := writeTree(t, map[string]string{
		"demo/c/run_1/out.json": `{"plot":{"x":1}}`,
		"demo/c/run_2/out.json": `{"plot":{"x":2}}`,
		"demo/c/run_3/out.json": `{"plot":{"x":2}}`,
	})
	a := &Aggregator{Collector: testCollector(), Precision: &Precision{Metrics: 1, Monitor: 1}}
	r, _, err := a.Aggregate(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.7, r.Entry("demo", "c").Metrics.Plot["x"])

	a.Precision = &Precision{}
	r, _, err = a.Aggregate(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, r.Entry("demo", "c").Metrics.Plot["x"], "zero decimals")

	a.Precision = nil
	r, _, err = a.Aggregate(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.6667, r.Entry("demo", "c").Metrics.Plot["x"])
}

func TestAggregateMissingRoot(t *testing.T) {
	a := &Aggregator{Collector: testCollector()}
	r, stats, err := a.Aggregate(filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorIs(t, err, ErrNoResultRoot)
	assert.Nil(t, r)
	assert.Nil(t, stats)
}
