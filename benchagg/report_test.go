// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	pair := Pair{"fio-randread", "ext4"}
	merged := Merged{
		{pair, Workload, PlotGroup}:    {"read_iops": 1500.5},
		{pair, Workload, TableGroup}:   {"rw_mode": "randread"},
		{pair, DockerStats, PlotGroup}: {"cpu_perc_avg": 12.5},
	}
	series := RepresentativeSeries{
		{pair, Iostat}: {"vdb_util": {1, 2}},
	}
	sysinfo := map[string]any{"kernel": "6.1"}

	r := Assemble([]Pair{pair, {"fio-randread", "xfs"}}, merged, series, sysinfo)

	assert.Equal(t, []string{"fio-randread"}, r.Benchmarks())
	assert.Equal(t, []string{"ext4", "xfs"}, r.Configs("fio-randread"))

	e := r.Entry("fio-randread", "ext4")
	require.NotNil(t, e)
	assert.Equal(t, map[string]any{"read_iops": 1500.5}, e.Metrics.Plot)
	assert.Equal(t, map[string]any{"rw_mode": "randread"}, e.Metrics.Table)
	assert.Equal(t, map[string]any{"cpu_perc_avg": 12.5}, e.Monitoring.DockerStats.Plot)
	assert.Equal(t, map[string]any{}, e.Monitoring.DockerStats.Table)
	assert.Equal(t, map[string][]float64{}, e.Monitoring.DockerStats.Series)
	assert.Equal(t, map[string][]float64{"vdb_util": {1, 2}}, e.Monitoring.Iostat.Series)

	empty := r.Entry("fio-randread", "xfs")
	require.NotNil(t, empty)
	assert.Empty(t, empty.Metrics.Plot)
	assert.NotNil(t, empty.Metrics.Plot)

	// The report does not share maps with its inputs.
	merged[Partition{pair, Workload, PlotGroup}]["read_iops"] = 0.0
	sysinfo["kernel"] = "changed"
	series[SeriesKey{pair, Iostat}]["other"] = nil
	assert.Equal(t, 1500.5, e.Metrics.Plot["read_iops"])
	assert.Equal(t, "6.1", r.SystemInfo["kernel"])
	assert.Len(t, e.Monitoring.Iostat.Series, 1)

	assert.Nil(t, r.Entry("nope", "ext4"))
}

func TestAssembleNilSystemInfo(t *testing.T) {
	r := Assemble(nil, nil, nil, nil)
	assert.Equal(t, map[string]any{}, r.SystemInfo)
	assert.Empty(t, r.Data)

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))
	assert.Equal(t, "{\n  \"system_info\": {},\n  \"data\": {}\n}\n", buf.String())
}

func TestReportJSONShape(t *testing.T) {
	pair := Pair{"demo-db", "fsA"}
	r := Assemble([]Pair{pair}, Merged{
		{pair, Workload, PlotGroup}: {"tps": 105.0},
	}, nil, map[string]any{"cpu": "<x86>"})

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))
	assert.Contains(t, buf.String(), `"cpu": "<x86>"`)
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))

	var generic map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &generic))
	entry := generic["data"].(map[string]any)["demo-db"].(map[string]any)["fsA"].(map[string]any)
	assert.Equal(t, map[string]any{"tps": 105.0}, entry["metrics"].(map[string]any)["plot"])
	mon := entry["monitoring"].(map[string]any)
	for _, src := range []string{"docker_stats", "iostat"} {
		g := mon[src].(map[string]any)
		assert.Equal(t, map[string]any{}, g["plot"], src)
		assert.Equal(t, map[string]any{}, g["table"], src)
		assert.Equal(t, map[string]any{}, g["series"], src)
	}

	back, err := ReadReport(&buf)
	require.NoError(t, err)
	assert.Equal(t, r, back)
}

func TestReadReportInvalid(t *testing.T) {
	_, err := ReadReport(strings.NewReader("{"))
	assert.Error(t, err)
}
