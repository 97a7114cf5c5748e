// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"sort"
)

// A Report is the aggregated result of one pass.
type Report struct {
	SystemInfo map[string]any               `json:"system_info"`
	Data       map[string]map[string]*Entry `json:"data"`
}

// An Entry is the aggregated result of one benchmark in one
// configuration.
type Entry struct {
	Metrics    Groups     `json:"metrics"`
	Monitoring Monitoring `json:"monitoring"`
}

// Groups holds the merged plot and table groups of the workload.
type Groups struct {
	Plot  map[string]any `json:"plot"`
	Table map[string]any `json:"table"`
}

// MonitorGroups holds the merged groups of one monitoring source and
// the series of its representative run.
type MonitorGroups struct {
	Plot   map[string]any       `json:"plot"`
	Table  map[string]any       `json:"table"`
	Series map[string][]float64 `json:"series"`
}

// Monitoring holds the monitoring sources of an Entry.
type Monitoring struct {
	DockerStats MonitorGroups `json:"docker_stats"`
	Iostat      MonitorGroups `json:"iostat"`
}

// Source returns the groups of monitoring source s, or nil if s is
// not a monitoring source.
func (m *Monitoring) Source(s Source) *MonitorGroups {
	switch s {
	case DockerStats:
		return &m.DockerStats
	case Iostat:
		return &m.Iostat
	}
	return nil
}

// Assemble builds a Report from merged groups and representative
// series. Every pair gets an Entry, with empty groups where nothing
// was collected. Assemble copies what it uses, so later changes to
// its arguments do not affect the Report.
func Assemble(pairs []Pair, merged Merged, series RepresentativeSeries, systemInfo map[string]any) *Report {
	r := &Report{
		SystemInfo: cloneOrEmpty(systemInfo),
		Data:       make(map[string]map[string]*Entry),
	}
	for _, p := range pairs {
		group := func(s Source, g Group) map[string]any {
			return cloneOrEmpty(merged[Partition{p, s, g}])
		}
		e := &Entry{
			Metrics: Groups{
				Plot:  group(Workload, PlotGroup),
				Table: group(Workload, TableGroup),
			},
		}
		for _, s := range []Source{DockerStats, Iostat} {
			*e.Monitoring.Source(s) = MonitorGroups{
				Plot:   group(s, PlotGroup),
				Table:  group(s, TableGroup),
				Series: series.Get(SeriesKey{p, s}),
			}
		}
		configs := r.Data[p.Benchmark]
		if configs == nil {
			configs = make(map[string]*Entry)
			r.Data[p.Benchmark] = configs
		}
		configs[p.Config] = e
	}
	return r
}

func cloneOrEmpty[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return maps.Clone(m)
}

// Benchmarks returns the benchmark names in r, sorted.
func (r *Report) Benchmarks() []string {
	return sortedKeys(r.Data)
}

// Configs returns the configurations of benchmark in r, sorted.
func (r *Report) Configs(benchmark string) []string {
	return sortedKeys(r.Data[benchmark])
}

// Entry returns the entry of benchmark in config, or nil.
func (r *Report) Entry(benchmark, config string) *Entry {
	return r.Data[benchmark][config]
}

// WriteJSON writes r to w as indented JSON followed by a newline.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// ReadReport decodes a report written by WriteJSON.
func ReadReport(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	if r.SystemInfo == nil {
		r.SystemInfo = map[string]any{}
	}
	if r.Data == nil {
		r.Data = map[string]map[string]*Entry{}
	}
	return &r, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
