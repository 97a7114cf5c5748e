// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchagg aggregates benchmark results collected across repeated
// runs into a single JSON report.
//
// Usage:
//
//	benchagg [flags] [results]
//
// The results directory (default "results") must be laid out as
//
//	results/<benchmark>/<configuration>/<run>/<file>
//
// Each benchmark is routed to a parser by name prefix: sysbench-oltp*,
// postgres-pgbench* and webserver-bench* read results.txt with the
// sysbench, pgbench and wrk parsers, and fio-* reads result.json.
// Every run may also hold docker_stats.jsonl and iostat.json
// monitoring captures. Numeric values are averaged across runs; the
// time series of the first run (in natural order, so run_2 precedes
// run_10) are kept as the representative series.
//
// The report is written to results/aggregated_report.json unless -o
// is given, and has the form
//
//	{"system_info": {...}, "data": {benchmark: {configuration: entry}}}
//
// where system_info is read from results/system_info/system_metadata.json.
//
// Settings are read from the file named by -config (YAML), then from
// BENCHAGG_* environment variables, optionally seeded from a .env
// file, and finally from flags. The -text, -html, -csv and -charts
// flags add further renderings. -db stores each report in a SQL
// database, -bucket uploads it to Google Cloud Storage, and
// -metrics-textfile writes pass statistics for Prometheus.
//
// With -watch, benchagg keeps running and aggregates again whenever
// the results directory changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/midnight85/docker-fs-bench-pma/internal/config"
	_ "github.com/midnight85/docker-fs-bench-pma/storage/db/sqlite3"
)

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(), `Usage: benchagg [flags] [results]

`)
		fs.PrintDefaults()
	}
}

func main() {
	log.SetPrefix("benchagg: ")
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// run parses args, loads the configuration and runs one pass, or
// keeps running passes in watch mode.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("benchagg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs)

	var (
		configFile = fs.String("config", "", "read settings from YAML `file`")
		envFile    = fs.String("env", ".env", "load environment variables from `file` if it exists")
		verbose    = fs.Bool("v", false, "log debug messages")
	)
	// Flags that override configuration settings.
	var f config.Config
	fs.StringVar(&f.Output, "o", "", "write the JSON report to `file` (- for stdout)")
	fs.StringVar(&f.SystemInfo, "sysinfo", "", "read system metadata from `file`")
	fs.StringVar(&f.Render.Text, "text", "", "also write text tables to `file` (- for stdout)")
	fs.StringVar(&f.Render.HTML, "html", "", "also write HTML tables to `file`")
	fs.StringVar(&f.Render.CSV, "csv", "", "also write merged values as CSV to `file`")
	fs.StringVar(&f.Render.Charts, "charts", "", "also write charts to `dir`")
	fs.StringVar(&f.Render.ChartFormat, "chart-format", "", "chart image `format`: png, svg or pdf")
	fs.StringVar(&f.Database.Driver, "db-driver", "", "database `driver`: sqlite3 or mysql")
	fs.StringVar(&f.Database.DSN, "db", "", "store reports in the database at `dsn`")
	fs.StringVar(&f.Bucket.URL, "bucket", "", "upload reports to gs://bucket/prefix `url`")
	fs.StringVar(&f.Bucket.Credentials, "gcs-credentials", "", "service account key `file` for -bucket")
	fs.StringVar(&f.MetricsTextfile, "metrics-textfile", "", "write pass statistics to Prometheus textfile `file`")
	fs.IntVar(&f.Precision.Metrics, "precision", 0, "round workload means to `n` decimals")
	fs.IntVar(&f.Precision.Monitor, "monitor-precision", 0, "round monitoring means to `n` decimals")
	fs.BoolVar(&f.Watch.Enabled, "watch", false, "aggregate again whenever results change")
	fs.DurationVar(&f.Watch.Debounce, "debounce", 0, "wait `duration` after the last change before aggregating")
	fs.StringVar(&f.LogLevel, "log-level", "", "log `level`: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return flag.ErrHelp
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		return fmt.Errorf("loading %s: %w", *envFile, err)
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			cfg.Output = f.Output
		case "sysinfo":
			cfg.SystemInfo = f.SystemInfo
		case "text":
			cfg.Render.Text = f.Render.Text
		case "html":
			cfg.Render.HTML = f.Render.HTML
		case "csv":
			cfg.Render.CSV = f.Render.CSV
		case "charts":
			cfg.Render.Charts = f.Render.Charts
		case "chart-format":
			cfg.Render.ChartFormat = f.Render.ChartFormat
		case "db-driver":
			cfg.Database.Driver = f.Database.Driver
		case "db":
			cfg.Database.DSN = f.Database.DSN
			if cfg.Database.Driver == "" {
				cfg.Database.Driver = "sqlite3"
			}
		case "bucket":
			cfg.Bucket.URL = f.Bucket.URL
		case "gcs-credentials":
			cfg.Bucket.Credentials = f.Bucket.Credentials
		case "metrics-textfile":
			cfg.MetricsTextfile = f.MetricsTextfile
		case "precision":
			cfg.Precision.Metrics = f.Precision.Metrics
		case "monitor-precision":
			cfg.Precision.Monitor = f.Precision.Monitor
		case "watch":
			cfg.Watch.Enabled = f.Watch.Enabled
		case "debounce":
			cfg.Watch.Debounce = f.Watch.Debounce
		case "log-level":
			cfg.LogLevel = f.LogLevel
		}
	})
	if fs.NArg() == 1 {
		cfg.Results = fs.Arg(0)
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	p := &passer{cfg: cfg, log: logger, stdout: stdout, now: time.Now}
	if !cfg.Watch.Enabled {
		return p.pass(ctx)
	}
	return p.watch(ctx)
}
