// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchparse

import "regexp"

// Sysbench parses the text report of "sysbench oltp_*".
type Sysbench struct{}

var (
	sysbenchTransactions = regexp.MustCompile(`transactions:\s+(\d+)\s+\(([\d.]+) per sec\.\)`)
	sysbenchQueries      = regexp.MustCompile(`queries:\s+(\d+)\s+\(([\d.]+) per sec\.\)`)
	sysbenchIgnored      = regexp.MustCompile(`ignored errors:\s+(\d+)`)
	sysbenchReconnects   = regexp.MustCompile(`reconnects:\s+(\d+)`)
	sysbenchLatency      = regexp.MustCompile(`Latency \(ms\):\s+min:\s+([\d.]+)\s+avg:\s+([\d.]+)\s+max:\s+([\d.]+)\s+95th percentile:\s+([\d.]+)`)
	sysbenchMin          = regexp.MustCompile(`min:\s+([\d.]+)`)
	sysbenchAvg          = regexp.MustCompile(`avg:\s+([\d.]+)`)
	sysbenchMax          = regexp.MustCompile(`max:\s+([\d.]+)`)
	sysbenchP95          = regexp.MustCompile(`95th percentile:\s+([\d.]+)`)
	sysbenchTotalTime    = regexp.MustCompile(`total time:\s+([\d.]+)s`)
)

func (Sysbench) Parse(path string) (*Output, error) {
	return parseFile(path, ParseSysbench)
}

// ParseSysbench parses the content of a sysbench report.
//
// Throughput goes to Plot as "tps" and "qps", latency average and
// 95th percentile as "latency_avg" and "latency_p95". Totals, error
// counters, and the remaining latency figures go to Table.
func ParseSysbench(data []byte) (*Output, error) {
	content := string(data)
	out := newOutput(firstLine(content))

	if m := match(sysbenchTransactions, content); m != nil {
		out.setTable("total_transactions", m[1])
		out.setPlot("tps", m[2])
	}
	if m := match(sysbenchQueries, content); m != nil {
		out.setTable("total_queries", m[1])
		out.setPlot("qps", m[2])
	}
	if m := match(sysbenchIgnored, content); m != nil {
		out.setTable("ignored_errors", m[1])
	}
	if m := match(sysbenchReconnects, content); m != nil {
		out.setTable("reconnects", m[1])
	}

	if m := match(sysbenchLatency, content); m != nil {
		out.setTable("latency_min", m[1])
		out.setPlot("latency_avg", m[2])
		out.setTable("latency_max", m[3])
		out.setPlot("latency_p95", m[4])
	} else {
		// Older sysbench versions lay the latency block out
		// differently; pick the figures up one by one.
		if m := match(sysbenchMin, content); m != nil {
			out.setTable("latency_min", m[1])
		}
		if m := match(sysbenchAvg, content); m != nil {
			out.setPlot("latency_avg", m[1])
		}
		if m := match(sysbenchMax, content); m != nil {
			out.setTable("latency_max", m[1])
		}
		if m := match(sysbenchP95, content); m != nil {
			out.setPlot("latency_p95", m[1])
		}
	}

	if m := match(sysbenchTotalTime, content); m != nil {
		out.setTable("total_time_sec", m[1])
	}
	return out, nil
}
