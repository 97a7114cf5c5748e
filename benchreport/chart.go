// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/midnight85/docker-fs-bench-pma/benchagg"
)

// ChartOptions controls chart rendering.
type ChartOptions struct {
	// Format is the image format, one of the extensions accepted by
	// gonum plot ("png", "svg", "pdf", ...). Default "png".
	Format string

	// Width and Height are the image size. Default 8in by 4in.
	Width, Height vg.Length
}

func (o *ChartOptions) defaults() {
	if o.Format == "" {
		o.Format = "png"
	}
	if o.Width == 0 {
		o.Width = 8 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 4 * vg.Inch
	}
}

// WriteCharts renders the report into dir, creating it if needed,
// and returns the paths of the files written.
//
// Every workload plot metric of a benchmark becomes a bar chart
// comparing configurations, written to
//
//	<benchmark>/plot/<metric>.<format>
//
// Every representative series becomes a line chart over sample
// index, written to
//
//	<benchmark>/series/<config>/<source>/<series>.<format>
//
// Timestamp series are not charted. Each name is escaped
// separately, so distinct names never share a file.
func WriteCharts(r *benchagg.Report, dir string, opts ChartOptions) ([]string, error) {
	opts.defaults()
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return nil, err
	}
	var files []string
	save := func(p *plot.Plot, name ...string) error {
		file := chartPath(dir, opts.Format, name...)
		if err := os.MkdirAll(filepath.Dir(file), 0o777); err != nil {
			return err
		}
		wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		f, err := os.Create(file)
		if err != nil {
			return err
		}
		if _, err := wt.WriteTo(f); err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", file, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		files = append(files, file)
		return nil
	}

	for _, bench := range r.Benchmarks() {
		configs := r.Configs(bench)
		for _, key := range plotKeys(r, bench) {
			p, err := barChart(r, bench, key, configs)
			if err != nil {
				return files, err
			}
			if err := save(p, bench, "plot", key); err != nil {
				return files, err
			}
		}
		for _, config := range configs {
			e := r.Entry(bench, config)
			if e == nil {
				continue
			}
			for _, src := range []benchagg.Source{benchagg.DockerStats, benchagg.Iostat} {
				series := e.Monitoring.Source(src).Series
				for _, name := range sortedKeys(series) {
					if name == "timestamp" || len(series[name]) == 0 {
						continue
					}
					p, err := lineChart(fmt.Sprintf("%s %s %s", bench, config, src), name, series[name])
					if err != nil {
						return files, err
					}
					if err := save(p, bench, "series", config, src.String(), name); err != nil {
						return files, err
					}
				}
			}
		}
	}
	return files, nil
}

// plotKeys returns the numeric workload plot keys of bench across
// all configurations, sorted.
func plotKeys(r *benchagg.Report, bench string) []string {
	keys := make(map[string]bool)
	for _, c := range r.Configs(bench) {
		if e := r.Entry(bench, c); e != nil {
			for k, v := range e.Metrics.Plot {
				if _, ok := v.(float64); ok {
					keys[k] = true
				}
			}
		}
	}
	return sortedKeys(keys)
}

func barChart(r *benchagg.Report, bench, key string, configs []string) (*plot.Plot, error) {
	values := make(plotter.Values, len(configs))
	for i, c := range configs {
		if e := r.Entry(bench, c); e != nil {
			values[i], _ = e.Metrics.Plot[key].(float64)
		}
	}
	p := plot.New()
	p.Title.Text = bench
	p.Y.Label.Text = key
	bar, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", bench, key, err)
	}
	bar.Color = plotutil.Color(0)
	bar.LineStyle.Width = vg.Length(0)
	p.Add(bar)
	p.NominalX(configs...)
	return p, nil
}

func lineChart(title, name string, ys []float64) (*plot.Plot, error) {
	pts := make(plotter.XYs, len(ys))
	for i, y := range ys {
		pts[i].X = float64(i)
		pts[i].Y = y
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "sample"
	p.Y.Label.Text = name
	p.Add(plotter.NewGrid())
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", title, name, err)
	}
	line.Color = plotutil.Color(1)
	line.Width = vg.Points(1.5)
	p.Add(line)
	return p, nil
}

// chartPath returns the file under dir for the chart named by parts,
// one path element per part. Elements are percent-escaped so that a
// "/" in a metric name such as "r/s" stays inside its element.
func chartPath(dir, format string, parts ...string) string {
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, dir)
	for _, p := range parts {
		elems = append(elems, url.PathEscape(p))
	}
	return filepath.Join(elems...) + "." + format
}
