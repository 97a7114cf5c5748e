// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import "maps"

// A Store accumulates raw values across runs. For each Partition it
// maps a metric key to the values collected for that key, in the
// order the runs were visited.
type Store struct {
	parts map[Partition]map[string][]any
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{parts: make(map[Partition]map[string][]any)}
}

// Add appends v to the values of key in partition p.
func (s *Store) Add(p Partition, key string, v any) {
	acc := s.parts[p]
	if acc == nil {
		acc = make(map[string][]any)
		s.parts[p] = acc
	}
	acc[key] = append(acc[key], v)
}

// Values returns the accumulated values of partition p, or nil if
// nothing was added to it. The caller must not modify the result.
func (s *Store) Values(p Partition) map[string][]any {
	return s.parts[p]
}

// Partitions returns the number of non-empty partitions.
func (s *Store) Partitions() int {
	return len(s.parts)
}

// A SeriesKey identifies the representative series of one source of
// one pair.
type SeriesKey struct {
	Pair
	Source Source
}

// RepresentativeSeries holds the raw time series of the
// representative run of each pair and source. Series of different
// runs have different lengths and cannot be averaged, so exactly one
// run's series is kept verbatim.
type RepresentativeSeries map[SeriesKey]map[string][]float64

// keep records series for k unless one was already recorded.
// It reports whether series was stored.
func (rs RepresentativeSeries) keep(k SeriesKey, series map[string][]float64) bool {
	if series == nil {
		return false
	}
	if _, ok := rs[k]; ok {
		return false
	}
	rs[k] = series
	return true
}

// Get returns a copy of the series stored for k. The copy is an
// empty, non-nil map if no series was stored.
func (rs RepresentativeSeries) Get(k SeriesKey) map[string][]float64 {
	s := rs[k]
	if s == nil {
		return map[string][]float64{}
	}
	return maps.Clone(s)
}
