// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/midnight85/docker-fs-bench-pma/benchagg"
	"github.com/midnight85/docker-fs-bench-pma/benchreport"
	"github.com/midnight85/docker-fs-bench-pma/internal/config"
	"github.com/midnight85/docker-fs-bench-pma/internal/passmetrics"
	"github.com/midnight85/docker-fs-bench-pma/internal/sysinfo"
	"github.com/midnight85/docker-fs-bench-pma/internal/watch"
	"github.com/midnight85/docker-fs-bench-pma/storage/bucket"
	"github.com/midnight85/docker-fs-bench-pma/storage/db"
)

// A passer runs aggregation passes with a fixed configuration.
type passer struct {
	cfg    config.Config
	log    *slog.Logger
	stdout io.Writer
	now    func() time.Time
}

// tempPrefix starts the names of files being written.
const tempPrefix = ".benchagg-"

// pass aggregates once and writes every configured output.
// A missing result root fails the pass before anything is written.
func (p *passer) pass(ctx context.Context) error {
	start := p.now()
	info, err := sysinfo.Load(p.cfg.SystemInfoPath())
	if err != nil {
		p.log.Warn("could not load system metadata", "err", err)
	}
	reg, err := p.cfg.Registry()
	if err != nil {
		return err
	}
	agg := &benchagg.Aggregator{
		Collector: benchagg.Collector{
			Registry: reg,
			Monitors: p.cfg.MonitorList(),
			Logger:   p.log,
		},
		Precision: p.cfg.AggregatorPrecision(),
	}
	report, stats, err := agg.Aggregate(p.cfg.Results, info)
	if err != nil {
		p.writeMetrics(passmetrics.Pass{Duration: p.now().Sub(start), Finished: p.now(), Err: err})
		return err
	}

	err = p.writeReport(ctx, report)
	p.writeMetrics(passmetrics.Pass{Stats: *stats, Duration: p.now().Sub(start), Finished: p.now(), Err: err})
	return err
}

func (p *passer) writeReport(ctx context.Context, r *benchagg.Report) error {
	out := p.cfg.OutputPath()
	if err := p.writeFile(out, r.WriteJSON); err != nil {
		return err
	}
	if out != "-" {
		p.log.Info("report written", "output", out)
	}

	var tables []*benchreport.Table
	if p.cfg.Render.Text != "" || p.cfg.Render.HTML != "" {
		tables = benchreport.Tables(r)
	}
	if path := p.cfg.Render.Text; path != "" {
		if err := p.writeFile(path, func(w io.Writer) error { return benchreport.FormatText(w, tables) }); err != nil {
			return err
		}
	}
	if path := p.cfg.Render.HTML; path != "" {
		if err := p.writeFile(path, func(w io.Writer) error { return benchreport.FormatHTML(w, tables) }); err != nil {
			return err
		}
	}
	if path := p.cfg.Render.CSV; path != "" {
		if err := p.writeFile(path, func(w io.Writer) error { return benchreport.WriteCSV(w, r) }); err != nil {
			return err
		}
	}
	if dir := p.cfg.Render.Charts; dir != "" {
		files, err := benchreport.WriteCharts(r, dir, benchreport.ChartOptions{Format: p.cfg.Render.ChartFormat})
		if err != nil {
			return fmt.Errorf("charts: %w", err)
		}
		p.log.Info("charts written", "dir", dir, "count", len(files))
	}

	if p.cfg.Database.DSN != "" {
		if err := p.storeReport(ctx, r); err != nil {
			return err
		}
	}
	if p.cfg.Bucket.URL != "" {
		if err := p.uploadReport(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (p *passer) storeReport(ctx context.Context, r *benchagg.Report) error {
	d, err := db.OpenSQL(p.cfg.Database.Driver, p.cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer d.Close()
	id, err := d.InsertReport(ctx, r, p.cfg.Results)
	if err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	p.log.Info("report stored", "driver", p.cfg.Database.Driver, "id", id)
	return nil
}

func (p *passer) uploadReport(ctx context.Context, r *benchagg.Report) error {
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		return err
	}
	b, err := bucket.Open(ctx, p.cfg.Bucket.URL, p.cfg.Bucket.Credentials)
	if err != nil {
		return err
	}
	defer b.Close()
	url, err := b.Upload(ctx, &buf, p.now(), map[string]string{"results": p.cfg.Results})
	if err != nil {
		return err
	}
	p.log.Info("report uploaded", "url", url)
	return nil
}

func (p *passer) writeMetrics(m passmetrics.Pass) {
	path := p.cfg.MetricsTextfile
	if path == "" {
		return
	}
	if err := passmetrics.WriteTextfile(path, m); err != nil {
		p.log.Warn("could not write metrics", "path", path, "err", err)
	}
}

// writeFile calls write with a writer for path, or for stdout if
// path is "-". The file is replaced only once write succeeds.
func (p *passer) writeFile(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(p.stdout)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// watch runs a pass now and again after every change under the
// result root, until ctx is done.
func (p *passer) watch(ctx context.Context) error {
	if err := p.pass(ctx); err != nil {
		if errors.Is(err, benchagg.ErrNoResultRoot) {
			return err
		}
		p.log.Error("pass failed", "err", err)
	}
	w := &watch.Watcher{
		Root:     p.cfg.Results,
		Debounce: p.cfg.Watch.Debounce,
		Logger:   p.log,
		Ignore:   p.written,
	}
	return w.Run(ctx, func() {
		if err := p.pass(ctx); err != nil {
			p.log.Error("pass failed", "err", err)
		}
	})
}

// written reports whether path is one of the files a pass writes,
// so that writing them does not trigger another pass.
func (p *passer) written(path string) bool {
	if strings.HasPrefix(filepath.Base(path), tempPrefix) {
		return true
	}
	abs := func(s string) string {
		a, err := filepath.Abs(s)
		if err != nil {
			return filepath.Clean(s)
		}
		return a
	}
	path = abs(path)
	for _, out := range []string{
		p.cfg.OutputPath(),
		p.cfg.Render.Text,
		p.cfg.Render.HTML,
		p.cfg.Render.CSV,
		p.cfg.MetricsTextfile,
	} {
		if out != "" && out != "-" && abs(out) == path {
			return true
		}
	}
	// The Prometheus writer uses temporary files named after the target.
	if m := p.cfg.MetricsTextfile; m != "" && strings.HasPrefix(path, abs(m)) {
		return true
	}
	if dir := p.cfg.Render.Charts; dir != "" {
		d := abs(dir)
		if path == d || strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
