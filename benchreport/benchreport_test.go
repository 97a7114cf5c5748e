// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnight85/docker-fs-bench-pma/benchagg"
)

func testReport() *benchagg.Report {
	ext4 := benchagg.Pair{Benchmark: "fio-randread", Config: "ext4"}
	xfs := benchagg.Pair{Benchmark: "fio-randread", Config: "xfs"}
	merged := benchagg.Merged{
		{Pair: ext4, Source: benchagg.Workload, Group: benchagg.PlotGroup}:  {"read_iops": 1500.5},
		{Pair: ext4, Source: benchagg.Workload, Group: benchagg.TableGroup}: {"read_iops": 1500.5, "rw_mode": "randread"},
		{Pair: xfs, Source: benchagg.Workload, Group: benchagg.PlotGroup}:   {"read_iops": 1200.0},
		{Pair: xfs, Source: benchagg.Workload, Group: benchagg.TableGroup}:  {"rw_mode": "randread"},
	}
	series := benchagg.RepresentativeSeries{
		{Pair: ext4, Source: benchagg.DockerStats}: {"cpu_perc": {1, 2, 3}, "timestamp": {0, 1, 2}},
	}
	return benchagg.Assemble([]benchagg.Pair{ext4, xfs}, merged, series, nil)
}

func TestTables(t *testing.T) {
	tables := Tables(testReport())
	require.Len(t, tables, 1)
	tab := tables[0]
	assert.Equal(t, "fio-randread", tab.Benchmark)
	assert.Equal(t, "metrics", tab.Source)
	assert.Equal(t, []string{"ext4", "xfs"}, tab.Configs)
	assert.Equal(t, []*Row{
		{Key: "read_iops", Cells: []string{"1,500.5", "-"}},
		{Key: "rw_mode", Cells: []string{"randread", "randread"}},
	}, tab.Rows)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "randread", FormatValue("rw_mode", "randread"))
	assert.Equal(t, "105", FormatValue("tps", 105.0))
	assert.Equal(t, "1,234,567.5", FormatValue("total_queries", 1234567.5))
	assert.Equal(t, "2.0 KiB", FormatValue("mem_usage_bytes_avg", 2048.0))
	assert.Equal(t, "-", FormatValue("x", nil))
	assert.Equal(t, "true", FormatValue("x", true))
}

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatText(&buf, Tables(testReport())))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"fio-randread", "metrics", "ext4", "xfs"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"read_iops", "1,500.5", "-"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"rw_mode", "randread", "randread"}, strings.Fields(lines[2]))
	for _, l := range lines {
		assert.Len(t, l, len(lines[0]), "columns are aligned")
	}
}

func TestFormatTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatText(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestFormatHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatHTML(&buf, Tables(testReport())))
	out := buf.String()
	assert.Contains(t, out, "<table class='benchagg'>")
	assert.Contains(t, out, "<th>ext4<th>xfs")
	assert.Contains(t, out, "<tr><td>rw_mode<td>randread<td>randread")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testReport()))
	want := `benchmark,config,source,group,key,value
fio-randread,ext4,metrics,plot,read_iops,1500.5
fio-randread,ext4,metrics,table,read_iops,1500.5
fio-randread,ext4,metrics,table,rw_mode,randread
fio-randread,xfs,metrics,plot,read_iops,1200
fio-randread,xfs,metrics,table,rw_mode,randread
`
	assert.Equal(t, want, buf.String())
}

func TestWriteCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	files, err := WriteCharts(testReport(), dir, ChartOptions{Format: "svg"})
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "fio-randread", "plot", "read_iops.svg"),
		filepath.Join(dir, "fio-randread", "series", "ext4", "docker_stats", "cpu_perc.svg"),
	}
	assert.Equal(t, want, files)
	for _, f := range files {
		fi, err := os.Stat(f)
		require.NoError(t, err)
		assert.NotZero(t, fi.Size())
	}
}

// Names that join to the same string with any separator still get
// charts of their own.
func TestWriteChartsDistinctNames(t *testing.T) {
	a := benchagg.Pair{Benchmark: "fio-a", Config: "ext4"}
	b := benchagg.Pair{Benchmark: "fio-a_b", Config: "ext4"}
	r := benchagg.Assemble([]benchagg.Pair{a, b}, benchagg.Merged{
		{Pair: a, Source: benchagg.Workload, Group: benchagg.PlotGroup}: {"b_c": 1.0, "r/s": 2.0},
		{Pair: b, Source: benchagg.Workload, Group: benchagg.PlotGroup}: {"c": 3.0},
	}, nil, nil)

	dir := t.TempDir()
	files, err := WriteCharts(r, dir, ChartOptions{Format: "svg"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "fio-a", "plot", "b_c.svg"),
		filepath.Join(dir, "fio-a", "plot", "r%2Fs.svg"),
		filepath.Join(dir, "fio-a_b", "plot", "c.svg"),
	}, files)
	for _, f := range files {
		assert.FileExists(t, f)
	}
}
