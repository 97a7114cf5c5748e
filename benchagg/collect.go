// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/midnight85/docker-fs-bench-pma/benchparse"
)

// ErrNoResultRoot is returned by Collect when the result root does
// not exist or is not a directory.
var ErrNoResultRoot = errors.New("result root not found")

// A Monitor describes one monitoring source captured in every run.
type Monitor struct {
	Source  Source
	File    string
	Adapter benchparse.Adapter
}

// DefaultMonitors returns the docker stats and iostat monitors with
// their conventional file names.
func DefaultMonitors() []Monitor {
	return []Monitor{
		{DockerStats, "docker_stats.jsonl", benchparse.DockerStats{}},
		{Iostat, "iostat.json", benchparse.Iostat{}},
	}
}

// A Collector walks a result hierarchy of the form
//
//	root/<benchmark>/<configuration>/<run>/<file>
//
// and accumulates the output of every adapter invocation.
type Collector struct {
	// Registry routes benchmarks to adapters.
	// If nil, DefaultRegistry is used.
	Registry *Registry

	// Monitors are the monitoring sources looked for in every run.
	// If nil, DefaultMonitors is used.
	Monitors []Monitor

	// Logger receives one record per skipped benchmark, missing
	// file and adapter failure. If nil, slog.Default is used.
	Logger *slog.Logger
}

// Stats counts what happened during one collection pass.
type Stats struct {
	Benchmarks        int // benchmark directories routed to an adapter
	BenchmarksSkipped int // benchmark directories no rule matched
	Configs           int
	Runs              int
	FilesParsed       int
	FilesMissing      int
	AdapterFailures   int
}

// A Collection is the result of one collection pass.
type Collection struct {
	// Pairs lists every configuration of every routed benchmark,
	// sorted by benchmark and then configuration.
	Pairs []Pair

	// Store holds the accumulated values.
	Store *Store

	// Series holds the representative series.
	Series RepresentativeSeries

	// Representative maps each pair to its representative run.
	// Pairs without runs are absent.
	Representative map[Pair]string

	Stats Stats
}

func (c *Collector) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Collect walks the hierarchy under root.
//
// Only a missing root is an error. Benchmarks no rule matches, runs
// without a given file, and files an adapter rejects are logged,
// counted in Stats, and otherwise skipped.
func (c *Collector) Collect(root string) (*Collection, error) {
	if fi, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResultRoot, err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoResultRoot, root)
	}

	reg := c.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	log := c.logger()
	col := &Collection{
		Store:          NewStore(),
		Series:         make(RepresentativeSeries),
		Representative: make(map[Pair]string),
	}

	benchmarks, err := subdirs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResultRoot, err)
	}
	for _, bench := range benchmarks {
		rule, ok := reg.Resolve(bench)
		if !ok {
			log.Warn("skipping benchmark: no parser mapped", "benchmark", bench)
			col.Stats.BenchmarksSkipped++
			continue
		}
		col.Stats.Benchmarks++
		log.Info("processing benchmark", "benchmark", bench)

		configs, err := subdirs(filepath.Join(root, bench))
		if err != nil {
			log.Warn("cannot list configurations", "benchmark", bench, "err", err)
			continue
		}
		for _, config := range configs {
			c.collectPair(col, rule, root, Pair{bench, config})
		}
	}
	return col, nil
}

// collectPair visits every run of one pair in canonical order.
func (c *Collector) collectPair(col *Collection, rule Rule, root string, pair Pair) {
	log := c.logger()
	col.Pairs = append(col.Pairs, pair)
	col.Stats.Configs++

	dir := filepath.Join(root, pair.Benchmark, pair.Config)
	runs, err := subdirs(dir)
	if err != nil {
		log.Warn("cannot list runs", "benchmark", pair.Benchmark, "config", pair.Config, "err", err)
		return
	}
	SortRuns(runs)
	if len(runs) == 0 {
		return
	}
	rep := runs[0]
	col.Representative[pair] = rep

	monitors := c.Monitors
	if monitors == nil {
		monitors = DefaultMonitors()
	}
	for _, run := range runs {
		col.Stats.Runs++
		runDir := filepath.Join(dir, run)

		loc := Location{Pair: pair, Run: run, Source: Workload, Path: filepath.Join(runDir, rule.WorkloadFile)}
		if out := c.parse(col, loc, rule.Adapter); out != nil {
			for _, k := range out.PlotKeys() {
				col.Store.Add(Partition{pair, Workload, PlotGroup}, k, out.Plot[k])
			}
			for _, k := range out.TableKeys() {
				col.Store.Add(Partition{pair, Workload, TableGroup}, k, out.Table[k])
			}
			if run == rep {
				col.Series.keep(SeriesKey{pair, Workload}, out.Series)
			}
		}

		for _, m := range monitors {
			loc := Location{Pair: pair, Run: run, Source: m.Source, Path: filepath.Join(runDir, m.File)}
			out := c.parse(col, loc, m.Adapter)
			if out == nil {
				continue
			}
			// Monitoring adapters do not separate chart values
			// from table values: every scalar goes to both.
			for k, v := range monitorScalars(out) {
				col.Store.Add(Partition{pair, m.Source, PlotGroup}, k, v)
				col.Store.Add(Partition{pair, m.Source, TableGroup}, k, v)
			}
			if run == rep {
				col.Series.keep(SeriesKey{pair, m.Source}, out.Series)
			}
		}
	}
}

// parse runs adapter a on the file at loc. It returns nil if the
// file is missing or the adapter fails.
func (c *Collector) parse(col *Collection, loc Location, a benchparse.Adapter) *benchparse.Output {
	log := c.logger()
	if _, err := os.Stat(loc.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("file not present", "file", loc.String())
			col.Stats.FilesMissing++
		} else {
			log.Warn("cannot access file", "file", loc.String(), "err", err)
			col.Stats.AdapterFailures++
		}
		return nil
	}
	out, err := a.Parse(loc.Path)
	if err != nil {
		log.Warn("parser failed", "file", loc.String(), "source", loc.Source.String(), "err", err)
		col.Stats.AdapterFailures++
		return nil
	}
	if out == nil {
		return nil
	}
	col.Stats.FilesParsed++
	return out
}

// monitorScalars merges the Plot and Table values of a monitoring
// adapter's output. Plot wins if both carry the same key.
func monitorScalars(out *benchparse.Output) map[string]any {
	m := make(map[string]any, len(out.Plot)+len(out.Table))
	for k, v := range out.Table {
		m[k] = v
	}
	for k, v := range out.Plot {
		m[k] = v
	}
	return m
}

// subdirs returns the names of the directories in dir, sorted.
// Symbolic links to directories count as directories.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		isDir := e.IsDir()
		if !isDir && e.Type()&fs.ModeSymlink != 0 {
			if fi, err := os.Stat(filepath.Join(dir, e.Name())); err == nil {
				isDir = fi.IsDir()
			}
		}
		if isDir {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
