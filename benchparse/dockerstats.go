// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchparse

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

// DockerStats parses a JSON-lines capture of
// "docker stats --format '{{json .}}'".
type DockerStats struct{}

// Series names produced by DockerStats.
const (
	DockerCPUPerc         = "cpu_perc"
	DockerMemUsageBytes   = "mem_usage_bytes"
	DockerMemLimitBytes   = "mem_limit_bytes"
	DockerBlockReadBytes  = "block_read_bytes"
	DockerBlockWriteBytes = "block_write_bytes"
	DockerNetRxBytes      = "net_rx_bytes"
	DockerNetTxBytes      = "net_tx_bytes"
)

var dockerSeries = []string{
	DockerCPUPerc,
	DockerMemUsageBytes,
	DockerMemLimitBytes,
	DockerBlockReadBytes,
	DockerBlockWriteBytes,
	DockerNetRxBytes,
	DockerNetTxBytes,
}

type dockerSample struct {
	CPUPerc  *string `json:"CPUPerc"`
	MemUsage *string `json:"MemUsage"`
	BlockIO  *string `json:"BlockIO"`
	NetIO    *string `json:"NetIO"`
}

func (DockerStats) Parse(path string) (*Output, error) {
	return parseFile(path, ParseDockerStats)
}

// ParseDockerStats parses docker stats samples, one JSON object per
// line. Lines that are not valid JSON are skipped.
//
// The full sample sequence is returned in Series. Plot carries the
// mean CPU percentage and memory usage, and the last observed value
// of the cumulative block and network counters.
func ParseDockerStats(data []byte) (*Output, error) {
	series := make(map[string][]float64, len(dockerSeries))
	for _, name := range dockerSeries {
		series[name] = []float64{}
	}
	add := func(name string, v float64) {
		series[name] = append(series[name], v)
	}

	for rest := data; len(rest) > 0; {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var s dockerSample
		if err := json.Unmarshal(line, &s); err != nil {
			continue
		}

		cpu, err := strconv.ParseFloat(strings.ReplaceAll(orDefault(s.CPUPerc, "0%"), "%", ""), 64)
		if err != nil {
			cpu = 0
		}
		add(DockerCPUPerc, cpu)

		mem := orDefault(s.MemUsage, "0B / 0B")
		if used, limit, ok := strings.Cut(mem, " / "); ok {
			add(DockerMemUsageBytes, dockerBytes(used))
			add(DockerMemLimitBytes, dockerBytes(limit))
		} else {
			add(DockerMemUsageBytes, dockerBytes(mem))
			add(DockerMemLimitBytes, 0)
		}

		read, write := dockerPair(orDefault(s.BlockIO, "0B / 0B"))
		add(DockerBlockReadBytes, read)
		add(DockerBlockWriteBytes, write)

		rx, tx := dockerPair(orDefault(s.NetIO, "0B / 0B"))
		add(DockerNetRxBytes, rx)
		add(DockerNetTxBytes, tx)
	}
	out := &Output{
		Plot: map[string]float64{
			DockerCPUPerc:         round2(mean(series[DockerCPUPerc])),
			DockerMemUsageBytes:   round2(mean(series[DockerMemUsageBytes])),
			DockerBlockReadBytes:  last(series[DockerBlockReadBytes]),
			DockerBlockWriteBytes: last(series[DockerBlockWriteBytes]),
			DockerNetRxBytes:      last(series[DockerNetRxBytes]),
			DockerNetTxBytes:      last(series[DockerNetTxBytes]),
		},
		Series: series,
	}
	return out, nil
}

func orDefault(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// dockerPair splits an "a / b" pair of sizes. Values without a
// separator count as 0 for both sides.
func dockerPair(s string) (float64, float64) {
	a, b, ok := strings.Cut(s, " / ")
	if !ok {
		return 0, 0
	}
	return dockerBytes(a), dockerBytes(b)
}

// dockerBytes converts a docker size such as "72.1MB", "5.33kB" or
// "420.9MiB" to bytes. Docker prints SI multiples for I/O counters
// and IEC multiples for memory, so the suffix decides the base.
// Empty, "--" and unparseable values are 0.
func dockerBytes(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return 0
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	parse := units.FromHumanSize
	if strings.Contains(strings.ToLower(s), "ib") {
		parse = units.RAMInBytes
	}
	n, err := parse(s)
	if err != nil {
		return 0
	}
	return float64(n)
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}
