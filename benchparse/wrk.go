// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
)

// Wrk parses the report printed by the wrk HTTP load generator.
type Wrk struct{}

// wrk does not print its version in the report.
const wrkVersion = "wrk (unknown version)"

var (
	wrkThreads  = regexp.MustCompile(`(\d+) threads and (\d+) connections`)
	wrkLatency  = regexp.MustCompile(`Latency\s+([\d.]+[a-z]+)\s+([\d.]+[a-z]+)\s+([\d.]+[a-z]+)`)
	wrkTotals   = regexp.MustCompile(`(\d+) requests in ([\d.]+[a-z]+), ([\d.]+[a-zA-Z]+) read`)
	wrkErrors   = regexp.MustCompile(`Socket errors: connect (\d+), read (\d+), write (\d+), timeout (\d+)`)
	wrkRequests = regexp.MustCompile(`Requests/sec:\s+([\d.]+)`)
	wrkTransfer = regexp.MustCompile(`Transfer/sec:\s+([\d.]+[a-zA-Z]+)`)
)

func (Wrk) Parse(path string) (*Output, error) {
	return parseFile(path, ParseWrk)
}

// ParseWrk parses the content of a wrk report.
//
// Durations are converted to milliseconds and sizes to bytes. wrk
// prints sizes with binary multiples ("1.08GB" is 1.08 GiB).
func ParseWrk(data []byte) (*Output, error) {
	content := string(data)
	out := newOutput(wrkVersion)

	if m := match(wrkThreads, content); m != nil {
		out.setTable("threads", m[1])
		out.setTable("connections", m[2])
	}
	if m := match(wrkLatency, content); m != nil {
		out.Plot["latency_avg_ms"] = wrkMillis(m[1])
		out.Table["latency_stdev_ms"] = wrkMillis(m[2])
		out.Table["latency_max_ms"] = wrkMillis(m[3])
	}
	if m := match(wrkTotals, content); m != nil {
		out.setTable("total_requests", m[1])
		out.Table["total_duration_ms"] = wrkMillis(m[2])
		out.Table["total_read_bytes"] = wrkBytes(m[3])
	}
	if m := match(wrkErrors, content); m != nil {
		out.setTable("errors_connect", m[1])
		out.setTable("errors_read", m[2])
		out.setTable("errors_write", m[3])
		out.setTable("errors_timeout", m[4])
	}
	if m := match(wrkRequests, content); m != nil {
		out.setPlot("requests_per_sec", m[1])
	}
	if m := match(wrkTransfer, content); m != nil {
		out.Plot["transfer_per_sec_bytes"] = wrkBytes(m[1])
	}
	return out, nil
}

// wrkMillis converts a wrk duration such as "2.28ms" or "30.06s" to
// milliseconds. Unparseable durations are 0.
func wrkMillis(s string) float64 {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}

// wrkBytes converts a wrk size such as "36.68MB" to bytes using
// binary multiples. Unparseable sizes are 0.
func wrkBytes(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0
	}
	return float64(n)
}
