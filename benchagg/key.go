// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"fmt"
	"path/filepath"
)

// A Source is the kind of raw file a value was collected from.
type Source int

const (
	// Workload is the result file of the benchmark tool itself.
	Workload Source = iota
	// DockerStats is the docker stats capture of the run.
	DockerStats
	// Iostat is the iostat capture of the run.
	Iostat
)

// Sources lists every Source in report order.
var Sources = []Source{Workload, DockerStats, Iostat}

// String returns the name under which s appears in the report.
func (s Source) String() string {
	switch s {
	case Workload:
		return "metrics"
	case DockerStats:
		return "docker_stats"
	case Iostat:
		return "iostat"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// IsMonitor reports whether s is one of the monitoring sources.
func (s Source) IsMonitor() bool {
	return s == DockerStats || s == Iostat
}

// A Group is one of the two output buckets of a source.
type Group int

const (
	// PlotGroup holds scalars meant for single-value charts.
	PlotGroup Group = iota
	// TableGroup holds scalars and strings meant for tables.
	TableGroup
)

func (g Group) String() string {
	switch g {
	case PlotGroup:
		return "plot"
	case TableGroup:
		return "table"
	}
	return fmt.Sprintf("Group(%d)", int(g))
}

// A Pair identifies one configuration of one benchmark.
type Pair struct {
	Benchmark, Config string
}

func (p Pair) String() string {
	return p.Benchmark + "/" + p.Config
}

// A Partition identifies one accumulator: one group of one source of
// one pair. Partitions never alias, so each is written by exactly
// one collection step.
type Partition struct {
	Pair
	Source Source
	Group  Group
}

// A Location identifies one raw file in the result hierarchy.
type Location struct {
	Pair
	Run    string
	Source Source
	Path   string
}

func (l Location) String() string {
	return filepath.Join(l.Benchmark, l.Config, l.Run, filepath.Base(l.Path))
}
