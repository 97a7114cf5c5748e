// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnight85/docker-fs-bench-pma/benchagg"
	"github.com/midnight85/docker-fs-bench-pma/internal/config"
	"github.com/midnight85/docker-fs-bench-pma/storage/db"
)

// makeResults builds a result tree from the parser test fixtures.
func makeResults(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	fixture := func(name string) []byte {
		data, err := os.ReadFile(filepath.Join("..", "..", "benchparse", "testdata", name))
		require.NoError(t, err)
		return data
	}
	files := map[string][]byte{
		"sysbench-oltp/ext4/run_1/results.txt":        fixture("sysbench.txt"),
		"sysbench-oltp/ext4/run_2/results.txt":        fixture("sysbench.txt"),
		"sysbench-oltp/ext4/run_1/docker_stats.jsonl": fixture("docker_stats.jsonl"),
		"fio-randread/xfs/run_1/result.json":          fixture("fio.json"),
		"fio-randread/xfs/run_2/result.json":          fixture("fio.json"),
		"fio-randread/xfs/run_2/iostat.json":          fixture("iostat.json"),
		"unknown-bench/c/run_1/results.txt":           fixture("sysbench.txt"),
		"system_info/system_metadata.json":            []byte(`{"hostname":"bench-01"}`),
	}
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return root
}

func runCmd(t *testing.T, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	t.Helper()
	stdout, stderr = new(bytes.Buffer), new(bytes.Buffer)
	args = append([]string{"-env", filepath.Join(t.TempDir(), ".env")}, args...)
	err = run(context.Background(), args, stdout, stderr)
	return stdout, stderr, err
}

func readReport(t *testing.T, path string) *benchagg.Report {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r, err := benchagg.ReadReport(f)
	require.NoError(t, err)
	return r
}

func TestRun(t *testing.T) {
	root := makeResults(t)
	out := t.TempDir()
	text := filepath.Join(out, "report.txt")
	csv := filepath.Join(out, "report.csv")
	dbPath := filepath.Join(out, "reports.db")
	prom := filepath.Join(out, "benchagg.prom")
	charts := filepath.Join(out, "charts")

	_, stderr, err := runCmd(t, "-text", text, "-csv", csv, "-db", dbPath, "-metrics-textfile", prom,
		"-charts", charts, "-chart-format", "svg", root)
	require.NoError(t, err, stderr.String())

	r := readReport(t, filepath.Join(root, "aggregated_report.json"))
	assert.Equal(t, map[string]any{"hostname": "bench-01"}, r.SystemInfo)
	assert.Equal(t, []string{"fio-randread", "sysbench-oltp"}, r.Benchmarks())

	sb := r.Entry("sysbench-oltp", "ext4")
	require.NotNil(t, sb)
	assert.Equal(t, 333.21, sb.Metrics.Plot["tps"])
	assert.Equal(t, 10000.0, sb.Metrics.Table["total_transactions"])
	assert.Equal(t, []float64{10, 20.5}, sb.Monitoring.DockerStats.Series["cpu_perc"])
	assert.Equal(t, 15.25, sb.Monitoring.DockerStats.Plot["cpu_perc"])
	assert.Empty(t, sb.Monitoring.Iostat.Series)

	fio := r.Entry("fio-randread", "xfs")
	require.NotNil(t, fio)
	assert.Equal(t, "randread", fio.Metrics.Table["rw_mode"])
	assert.Equal(t, 25600.5, fio.Metrics.Plot["read_iops"])
	// iostat was only captured in run_2, so its values are merged
	// but run_1's (absent) series is the representative one.
	assert.NotEmpty(t, fio.Monitoring.Iostat.Table)
	assert.Empty(t, fio.Monitoring.Iostat.Series)

	assert.Contains(t, stderr.String(), "no parser mapped")
	assert.Contains(t, stderr.String(), "unknown-bench")

	data, err := os.ReadFile(text)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sysbench-oltp metrics")
	data, err = os.ReadFile(csv)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sysbench-oltp,ext4,metrics,plot,tps,333.21\n")
	data, err = os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "benchagg_benchmarks_skipped 2\n")

	assert.FileExists(t, filepath.Join(charts, "sysbench-oltp", "plot", "tps.svg"))

	d, err := db.OpenSQL("sqlite3", dbPath)
	require.NoError(t, err)
	defer d.Close()
	n, err := d.CountReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunStdout(t *testing.T) {
	root := makeResults(t)
	stdout, stderr, err := runCmd(t, "-o", "-", root)
	require.NoError(t, err, stderr.String())
	r, err := benchagg.ReadReport(stdout)
	require.NoError(t, err)
	assert.Len(t, r.Data, 2)
	assert.NoFileExists(t, filepath.Join(root, "aggregated_report.json"))
}

func TestRunMissingRoot(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.json")
	_, _, err := runCmd(t, "-o", out, filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, benchagg.ErrNoResultRoot)
	assert.NoFileExists(t, out)
}

func TestRunSettingsPrecedence(t *testing.T) {
	root := makeResults(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "benchagg.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output: "+filepath.Join(dir, "yaml.json")+"\nprecision:\n  metrics: 1\n"), 0o644))

	t.Setenv("BENCHAGG_OUTPUT", filepath.Join(dir, "env.json"))
	_, stderr, err := runCmd(t, "-config", cfg, root)
	require.NoError(t, err, stderr.String())
	assert.NoFileExists(t, filepath.Join(dir, "yaml.json"))
	r := readReport(t, filepath.Join(dir, "env.json"))
	assert.Equal(t, 333.2, r.Entry("sysbench-oltp", "ext4").Metrics.Plot["tps"])

	_, stderr, err = runCmd(t, "-config", cfg, "-o", filepath.Join(dir, "flag.json"), "-precision", "2", root)
	require.NoError(t, err, stderr.String())
	r = readReport(t, filepath.Join(dir, "flag.json"))
	assert.Equal(t, 333.21, r.Entry("sysbench-oltp", "ext4").Metrics.Plot["tps"])

	_, stderr, err = runCmd(t, "-o", filepath.Join(dir, "zero.json"), "-precision", "0", "-monitor-precision", "0", root)
	require.NoError(t, err, stderr.String())
	r = readReport(t, filepath.Join(dir, "zero.json"))
	assert.Equal(t, 333.0, r.Entry("sysbench-oltp", "ext4").Metrics.Plot["tps"])
	// Docker stats were captured in one run only; single values pass through.
	assert.Equal(t, 15.25, r.Entry("sysbench-oltp", "ext4").Monitoring.DockerStats.Plot["cpu_perc"])
}

func TestRunBadUsage(t *testing.T) {
	_, _, err := runCmd(t, "a", "b")
	assert.Error(t, err)
	_, _, err = runCmd(t, "-log-level", "loud", t.TempDir())
	assert.Error(t, err)
}

func TestWritten(t *testing.T) {
	root := t.TempDir()
	p := &passer{
		cfg: config.Config{
			Results:         root,
			Render:          config.Render{Charts: filepath.Join(root, "charts")},
			MetricsTextfile: filepath.Join(root, "m.prom"),
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	assert.True(t, p.written(filepath.Join(root, "aggregated_report.json")))
	assert.True(t, p.written(filepath.Join(root, ".benchagg-123")))
	assert.True(t, p.written(filepath.Join(root, "charts", "x.png")))
	assert.True(t, p.written(filepath.Join(root, "m.prom4242")))
	assert.False(t, p.written(filepath.Join(root, "fio-randread", "xfs", "run_1", "result.json")))
	assert.False(t, p.written(filepath.Join(root, "chartsx")))
}
