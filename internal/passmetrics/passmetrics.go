// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package passmetrics exports the statistics of an aggregation pass
// in the Prometheus text format, for collection by the node
// exporter's textfile collector.
package passmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/midnight85/docker-fs-bench-pma/benchagg"
)

const namespace = "benchagg"

// A Pass describes one finished pass.
type Pass struct {
	Stats    benchagg.Stats
	Duration time.Duration
	Finished time.Time
	Err      error // non-nil if the pass failed
}

// Registry returns a registry holding the metrics of p.
func Registry(p Pass) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	gauge := func(name, help string, v float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
		g.Set(v)
		reg.MustRegister(g)
	}
	gauge("benchmarks", "Benchmark directories routed to a parser.", float64(p.Stats.Benchmarks))
	gauge("benchmarks_skipped", "Benchmark directories no parser rule matched.", float64(p.Stats.BenchmarksSkipped))
	gauge("configs", "Configurations aggregated.", float64(p.Stats.Configs))
	gauge("runs", "Run directories visited.", float64(p.Stats.Runs))
	gauge("pass_duration_seconds", "Duration of the last pass.", p.Duration.Seconds())
	gauge("last_pass_timestamp_seconds", "Time the last pass finished.", float64(p.Finished.UnixNano())/1e9)
	success := 1.0
	if p.Err != nil {
		success = 0
	}
	gauge("last_pass_success", "Whether the last pass produced a report.", success)

	files := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "files",
		Help:      "Result files by outcome.",
	}, []string{"outcome"})
	files.WithLabelValues("parsed").Set(float64(p.Stats.FilesParsed))
	files.WithLabelValues("missing").Set(float64(p.Stats.FilesMissing))
	files.WithLabelValues("failed").Set(float64(p.Stats.AdapterFailures))
	reg.MustRegister(files)
	return reg
}

// WriteTextfile writes the metrics of p to path atomically.
func WriteTextfile(path string, p Pass) error {
	return prometheus.WriteToTextfile(path, Registry(p))
}
