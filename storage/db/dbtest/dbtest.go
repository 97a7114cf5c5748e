// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens report databases for tests.
//
// By default every test gets a private in-memory SQLite database.
// With -mysql or -cloud the tests run against a MySQL server instead;
// each test then creates a scratch database that is dropped when the
// test finishes.
package dbtest

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"strings"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/google/uuid"

	"github.com/midnight85/docker-fs-bench-pma/benchagg"
	"github.com/midnight85/docker-fs-bench-pma/storage/db"
	_ "github.com/midnight85/docker-fs-bench-pma/storage/db/sqlite3"
)

var (
	mysqlServer = flag.String("mysql", "", "run database tests on the MySQL server at `dsn`, e.g. user:pass@tcp(host:3306)/")
	cloud       = flag.Bool("cloud", false, "run database tests on the Cloud SQL instance named by -cloudsql")
	cloudsql    = flag.String("cloudsql", "", "Cloud SQL `instance` for -cloud")
)

// server returns the DSN prefix of the MySQL server selected by the
// flags, or "" for SQLite. The prefix names no database.
func server(t *testing.T) string {
	switch {
	case *cloud:
		if *cloudsql == "" {
			t.Skip("-cloud requires -cloudsql")
		}
		return fmt.Sprintf("root:@cloudsql(%s)/", *cloudsql)
	case *mysqlServer != "":
		if !strings.HasSuffix(*mysqlServer, "/") {
			t.Fatalf("-mysql %q must end in / and name no database", *mysqlServer)
		}
		return *mysqlServer
	}
	return ""
}

// scratchDatabase creates an empty database on the MySQL server at
// prefix and drops it when t finishes. It returns the DSN of the new
// database.
func scratchDatabase(t *testing.T, prefix string) string {
	t.Helper()
	admin, err := sql.Open("mysql", prefix)
	if err != nil {
		t.Fatal(err)
	}
	name := "benchagg_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if _, err := admin.Exec("CREATE DATABASE `" + name + "`"); err != nil {
		admin.Close()
		t.Fatalf("create scratch database: %v", err)
	}
	t.Logf("using scratch database %s", name)
	t.Cleanup(func() {
		if _, err := admin.Exec("DROP DATABASE `" + name + "`"); err != nil {
			t.Errorf("drop scratch database %s: %v", name, err)
		}
		admin.Close()
	})
	return prefix + name
}

// NewDB opens an empty report database for t. OpenSQL creates the
// schema; the database is closed when t finishes.
func NewDB(t *testing.T) *db.DB {
	t.Helper()
	driver, dsn := "sqlite3", ":memory:"
	if prefix := server(t); prefix != "" {
		driver, dsn = "mysql", scratchDatabase(t, prefix)
	}
	d, err := db.OpenSQL(driver, dsn)
	if err != nil {
		t.Fatalf("open %s database: %v", driver, err)
	}
	// Registered after the scratch cleanup, so it runs first.
	t.Cleanup(func() { d.Close() })

	n, err := d.CountReports(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("new database holds %d report(s), want 0", n)
	}
	return d
}

// Report returns a small report for sysbench-oltp on ext4 with the
// given tps. It carries a number and a string value, a monitoring
// series and system metadata, so that every column of ReportValues
// is exercised.
func Report(tps float64) *benchagg.Report {
	p := benchagg.Pair{Benchmark: "sysbench-oltp", Config: "ext4"}
	return benchagg.Assemble([]benchagg.Pair{p}, benchagg.Merged{
		{Pair: p, Source: benchagg.Workload, Group: benchagg.PlotGroup}:     {"tps": tps},
		{Pair: p, Source: benchagg.Workload, Group: benchagg.TableGroup}:    {"latency_max": 95.44},
		{Pair: p, Source: benchagg.DockerStats, Group: benchagg.TableGroup}: {"container": "db"},
	}, benchagg.RepresentativeSeries{
		{Pair: p, Source: benchagg.Iostat}: {"vdb_util": {1, 2, 3}},
	}, map[string]any{"kernel": "6.1"})
}
