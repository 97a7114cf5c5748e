// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchparse converts the raw output of benchmark and
// monitoring tools into a common Output record.
//
// Each supported tool has an Adapter. Adapters are stateless: they
// read one file and return one Output, or a *ParseError if the file
// cannot be understood. The aggregation engine only depends on the
// Adapter interface, so tools can also be handled by external
// commands (see Exec).
package benchparse

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// An Output is the structured form of a single raw result file.
//
// Keys in Plot and Table are defined by the adapter and are stable
// across runs of the same benchmark, which is what makes averaging
// by key meaningful.
type Output struct {
	// Version identifies the tool that produced the file. It is
	// informational only.
	Version string `json:"version,omitempty"`

	// Plot holds scalar metrics intended for single-value charts.
	Plot map[string]float64 `json:"plot,omitempty"`

	// Table holds values intended for tabular display. Each value
	// is either a float64 or a string; strings carry descriptive
	// context such as an I/O engine name.
	Table map[string]any `json:"table,omitempty"`

	// Series holds raw time series. Only monitoring adapters
	// produce it.
	Series map[string][]float64 `json:"series,omitempty"`
}

// UnmarshalJSON decodes o from JSON. Null plot and table values mean
// the metric was not measured and are dropped.
func (o *Output) UnmarshalJSON(data []byte) error {
	var raw struct {
		Version string               `json:"version"`
		Plot    map[string]*float64  `json:"plot"`
		Table   map[string]any       `json:"table"`
		Series  map[string][]float64 `json:"series"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Output{Version: raw.Version, Series: raw.Series}
	if raw.Plot != nil {
		o.Plot = make(map[string]float64, len(raw.Plot))
		for k, v := range raw.Plot {
			if v != nil {
				o.Plot[k] = *v
			}
		}
	}
	if raw.Table != nil {
		o.Table = make(map[string]any, len(raw.Table))
		for k, v := range raw.Table {
			if v != nil {
				o.Table[k] = v
			}
		}
	}
	return nil
}

func newOutput(version string) *Output {
	return &Output{
		Version: version,
		Plot:    make(map[string]float64),
		Table:   make(map[string]any),
	}
}

// PlotKeys returns the keys of o.Plot in sorted order.
func (o *Output) PlotKeys() []string {
	return sortedKeys(o.Plot)
}

// TableKeys returns the keys of o.Table in sorted order.
func (o *Output) TableKeys() []string {
	return sortedKeys(o.Table)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// An Adapter parses one raw result file.
type Adapter interface {
	Parse(path string) (*Output, error)
}

// AdapterFunc adapts an ordinary function to the Adapter interface.
type AdapterFunc func(path string) (*Output, error)

// Parse calls f(path).
func (f AdapterFunc) Parse(path string) (*Output, error) {
	return f(path)
}

// A ParseError reports that the content of a file could not be
// understood by an adapter.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// parseFile reads path and hands its content to parse. Errors from
// parse are wrapped in a *ParseError.
func parseFile(path string, parse func([]byte) (*Output, error)) (*Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out, err := parse(data)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	return out, nil
}

var builtins = map[string]Adapter{
	"sysbench":     Sysbench{},
	"pgbench":      Pgbench{},
	"wrk":          Wrk{},
	"fio":          Fio{},
	"docker_stats": DockerStats{},
	"iostat":       Iostat{},
}

// Lookup returns the built-in adapter registered under name.
// The names are "sysbench", "pgbench", "wrk", "fio", "docker_stats"
// and "iostat".
func Lookup(name string) (Adapter, bool) {
	a, ok := builtins[name]
	return a, ok
}

// Names returns the names of the built-in adapters in sorted order.
func Names() []string {
	return sortedKeys(builtins)
}

// round2 rounds x to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// mean returns the arithmetic mean of xs, or 0 if xs is empty.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stats.Mean(xs)
}
