// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchreport renders an aggregated report as text, HTML,
// CSV and charts.
package benchreport

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/midnight85/docker-fs-bench-pma/benchagg"
)

// A Table compares one group of one benchmark across configurations.
type Table struct {
	Benchmark string
	Source    string   // "metrics", "docker_stats" or "iostat"
	Configs   []string // column headings
	Rows      []*Row
}

// A Row holds the formatted values of one key, one per configuration.
// A configuration that has no value for the key gets "-".
type Row struct {
	Key   string
	Cells []string
}

// Tables returns the table groups of r, one Table per benchmark and
// source, in benchmark order. Sources without any value are omitted.
func Tables(r *benchagg.Report) []*Table {
	var tables []*Table
	for _, bench := range r.Benchmarks() {
		configs := r.Configs(bench)
		for _, src := range benchagg.Sources {
			groups := make([]map[string]any, len(configs))
			for i, c := range configs {
				groups[i] = tableGroup(r.Entry(bench, c), src)
			}
			if t := newTable(bench, src.String(), configs, groups); t != nil {
				tables = append(tables, t)
			}
		}
	}
	return tables
}

func tableGroup(e *benchagg.Entry, src benchagg.Source) map[string]any {
	if e == nil {
		return nil
	}
	if m := e.Monitoring.Source(src); m != nil {
		return m.Table
	}
	return e.Metrics.Table
}

func newTable(bench, source string, configs []string, groups []map[string]any) *Table {
	keys := make(map[string]bool)
	for _, g := range groups {
		for k := range g {
			keys[k] = true
		}
	}
	if len(keys) == 0 {
		return nil
	}
	t := &Table{Benchmark: bench, Source: source, Configs: configs}
	for _, k := range sortedKeys(keys) {
		row := &Row{Key: k}
		for _, g := range groups {
			v, ok := g[k]
			if !ok {
				row.Cells = append(row.Cells, "-")
				continue
			}
			row.Cells = append(row.Cells, FormatValue(k, v))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FormatValue formats a report value for display. Keys naming a byte
// quantity are shown in IEC units; other numbers get thousands
// separators and at most four decimals.
func FormatValue(key string, v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
		if isBytes(key) && v >= 0 {
			return humanize.IBytes(uint64(v))
		}
		return humanize.CommafWithDigits(v, 4)
	case nil:
		return "-"
	}
	return fmt.Sprint(v)
}

func isBytes(key string) bool {
	return strings.Contains(key, "bytes")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
