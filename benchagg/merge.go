// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/aclements/go-moremath/stats"
)

// Precision gives the number of decimal places merged means are
// rounded to.
type Precision struct {
	Metrics int // workload groups
	Monitor int // docker stats and iostat groups
}

// DefaultPrecision is the rounding used when none is configured.
var DefaultPrecision = Precision{Metrics: 4, Monitor: 2}

// For returns the precision used for values of source s.
func (p Precision) For(s Source) int {
	if s.IsMonitor() {
		return p.Monitor
	}
	return p.Metrics
}

// Merge reduces the values collected for one key across runs to a
// single value.
//
// If values is empty, ok is false and the key should be omitted.
// A single value is returned unchanged. Otherwise, if the first value
// is numeric, Merge returns the mean of the numeric values rounded to
// prec decimal places; if it is not, the first value wins and the
// rest are ignored.
func Merge(values []any, prec int) (v any, ok bool) {
	switch len(values) {
	case 0:
		return nil, false
	case 1:
		return values[0], true
	}
	if _, numeric := toFloat(values[0]); !numeric {
		return values[0], true
	}
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if x, ok := toFloat(v); ok {
			xs = append(xs, x)
		}
	}
	return round(stats.Mean(xs), prec), true
}

// MergeGroup merges every key of one accumulator. The result is
// never nil.
func MergeGroup(acc map[string][]any, prec int) map[string]any {
	out := make(map[string]any, len(acc))
	for k, values := range acc {
		if v, ok := Merge(values, prec); ok {
			out[k] = v
		}
	}
	return out
}

// Merged holds the merged groups of a collection, by partition.
type Merged map[Partition]map[string]any

// MergeCollection merges every partition of col.
func MergeCollection(col *Collection, p Precision) Merged {
	m := make(Merged, col.Store.Partitions())
	for part, acc := range col.Store.parts {
		m[part] = MergeGroup(acc, p.For(part.Source))
	}
	return m
}

// toFloat reports whether v is a number and, if so, returns it as a
// float64.
func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		x, err := v.Float64()
		return x, err == nil
	}
	return 0, false
}

// round rounds x to prec decimal places. Rounding is done on the
// exact binary value with ties to even, so 0.125 rounds to 0.12 and
// 2.675 (stored just below) to 2.67.
func round(x float64, prec int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', prec, 64), 64)
	if err != nil {
		return x
	}
	return r
}
