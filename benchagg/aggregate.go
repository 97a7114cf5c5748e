// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchagg aggregates benchmark results collected across
// repeated runs into a single report.
//
// Results are laid out as
//
//	root/<benchmark>/<configuration>/<run>/<file>
//
// A Registry routes each benchmark to an adapter from package
// benchparse by name prefix. The Collector walks the hierarchy and
// accumulates every adapter output in a Store, keeping the time
// series of one representative run per configuration. Merge reduces
// the accumulated values to means, and Assemble nests the result by
// benchmark and configuration.
//
// An Aggregator runs the three steps in order:
//
//	report, stats, err := new(benchagg.Aggregator).Aggregate(root, sysinfo)
//	if err != nil {
//		return err
//	}
//	report.WriteJSON(os.Stdout)
package benchagg

// An Aggregator runs complete aggregation passes.
// The zero Aggregator uses the default registry, monitors and
// precision.
type Aggregator struct {
	Collector Collector

	// Precision controls rounding of merged means.
	// If nil, DefaultPrecision is used.
	Precision *Precision
}

// Aggregate collects, merges and assembles the results under root.
// systemInfo is copied into the report unchanged.
//
// The only error is a missing result root, reported as
// ErrNoResultRoot. The returned Stats describe what was skipped.
func (a *Aggregator) Aggregate(root string, systemInfo map[string]any) (*Report, *Stats, error) {
	col, err := a.Collector.Collect(root)
	if err != nil {
		return nil, nil, err
	}
	prec := DefaultPrecision
	if a.Precision != nil {
		prec = *a.Precision
	}
	r := Assemble(col.Pairs, MergeCollection(col, prec), col.Series, systemInfo)
	a.Collector.logger().Info("aggregation complete",
		"benchmarks", col.Stats.Benchmarks,
		"configs", col.Stats.Configs,
		"runs", col.Stats.Runs,
		"parsed", col.Stats.FilesParsed,
		"missing", col.Stats.FilesMissing,
		"failures", col.Stats.AdapterFailures,
		"skipped", col.Stats.BenchmarksSkipped)
	return r, &col.Stats, nil
}
