// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchparse

import "regexp"

// Pgbench parses the summary printed by pgbench.
type Pgbench struct{}

var (
	pgbenchTPS       = regexp.MustCompile(`tps = ([\d.]+)`)
	pgbenchLatency   = regexp.MustCompile(`latency average = ([\d.]+) ms`)
	pgbenchProcessed = regexp.MustCompile(`number of transactions actually processed: (\d+)`)
	pgbenchFailed    = regexp.MustCompile(`number of failed transactions: (\d+)`)
	pgbenchClients   = regexp.MustCompile(`number of clients: (\d+)`)
	pgbenchThreads   = regexp.MustCompile(`number of threads: (\d+)`)
	pgbenchScale     = regexp.MustCompile(`scaling factor: (\d+)`)
)

func (Pgbench) Parse(path string) (*Output, error) {
	return parseFile(path, ParsePgbench)
}

// ParsePgbench parses the content of a pgbench summary.
func ParsePgbench(data []byte) (*Output, error) {
	content := string(data)
	out := newOutput(firstLine(content))

	if m := match(pgbenchTPS, content); m != nil {
		out.setPlot("tps", m[1])
	}
	if m := match(pgbenchLatency, content); m != nil {
		out.setPlot("latency_avg", m[1])
	}

	for _, f := range []struct {
		key string
		re  *regexp.Regexp
	}{
		{"transactions_processed", pgbenchProcessed},
		{"failed_transactions", pgbenchFailed},
		{"clients", pgbenchClients},
		{"threads", pgbenchThreads},
		{"scaling_factor", pgbenchScale},
	} {
		if m := match(f.re, content); m != nil {
			out.setTable(f.key, m[1])
		}
	}
	return out, nil
}
