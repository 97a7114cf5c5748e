// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/midnight85/docker-fs-bench-pma/benchagg"
)

// WriteCSV writes every merged value of r to w in long form, one
// record per value:
//
//	benchmark,config,source,group,key,value
//
// Numbers are written in full precision. Series are not included.
func WriteCSV(w io.Writer, r *benchagg.Report) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"benchmark", "config", "source", "group", "key", "value"})
	for _, bench := range r.Benchmarks() {
		for _, config := range r.Configs(bench) {
			e := r.Entry(bench, config)
			if e == nil {
				continue
			}
			for _, src := range benchagg.Sources {
				plot, table := e.Metrics.Plot, e.Metrics.Table
				if m := e.Monitoring.Source(src); m != nil {
					plot, table = m.Plot, m.Table
				}
				writeGroup(cw, []string{bench, config, src.String(), benchagg.PlotGroup.String()}, plot)
				writeGroup(cw, []string{bench, config, src.String(), benchagg.TableGroup.String()}, table)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func writeGroup(cw *csv.Writer, prefix []string, group map[string]any) {
	keys := make([]string, 0, len(group))
	for k := range group {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec := append(append([]string(nil), prefix...), k, csvValue(group[k]))
		cw.Write(rec)
	}
}

func csvValue(v any) string {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	}
	return fmt.Sprint(v)
}
