// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores aggregated reports in a SQL database so that
// results of successive passes can be compared over time.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/midnight85/docker-fs-bench-pma/benchagg"
)

// ErrNotFound is returned when a report ID does not exist.
var ErrNotFound = errors.New("report not found")

// DB is a high-level interface to a report database.
// It's safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Reports (
	ReportID VARCHAR(36) PRIMARY KEY,
	Created BIGINT NOT NULL,
	Root VARCHAR(1024) NOT NULL,
	Content {{if .sqlite3}}BLOB{{else}}LONGBLOB{{end}} NOT NULL
);
CREATE TABLE IF NOT EXISTS ReportValues (
	ReportID VARCHAR(36) NOT NULL,
	Benchmark VARCHAR(255) NOT NULL,
	Config VARCHAR(255) NOT NULL,
	Source VARCHAR(32) NOT NULL,
	GroupName VARCHAR(8) NOT NULL,
	Name VARCHAR(255) NOT NULL,
	Num DOUBLE,
	Str VARCHAR(8192),
	PRIMARY KEY (ReportID, Benchmark, Config, Source, GroupName, Name),
{{if not .sqlite3}}
	Index (Benchmark(100), Name(100)),
{{end}}
	FOREIGN KEY (ReportID) REFERENCES Reports(ReportID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS ReportValuesBenchmarkName ON ReportValues(Benchmark, Name);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// now is overridden by tests.
var now = time.Now

// A ReportInfo describes a stored report.
type ReportInfo struct {
	ID      string
	Created time.Time
	Root    string // result root the report was aggregated from
}

// InsertReport stores r under a new random ID and returns the ID.
// root is recorded for reference only.
func (db *DB) InsertReport(ctx context.Context, r *benchagg.Report, root string) (id string, err error) {
	var content bytes.Buffer
	if err := r.WriteJSON(&content); err != nil {
		return "", err
	}
	id = uuid.NewString()

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, "INSERT INTO Reports(ReportID, Created, Root, Content) VALUES (?, ?, ?, ?)",
		id, now().UTC().Unix(), root, content.Bytes()); err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO ReportValues(ReportID, Benchmark, Config, Source, GroupName, Name, Num, Str) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	err = eachValue(r, func(bench, config string, src benchagg.Source, g benchagg.Group, name string, v any) error {
		var num sql.NullFloat64
		var str sql.NullString
		switch v := v.(type) {
		case float64:
			num = sql.NullFloat64{Float64: v, Valid: true}
		case string:
			str = sql.NullString{String: v, Valid: true}
		default:
			str = sql.NullString{String: fmt.Sprint(v), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, id, bench, config, src.String(), g.String(), name, num, str); err != nil {
			return fmt.Errorf("insert %s/%s %s %s: %w", bench, config, src, name, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// eachValue calls f for every merged value in r, in a fixed order.
func eachValue(r *benchagg.Report, f func(bench, config string, src benchagg.Source, g benchagg.Group, name string, v any) error) error {
	for _, bench := range r.Benchmarks() {
		for _, config := range r.Configs(bench) {
			e := r.Entry(bench, config)
			if e == nil {
				continue
			}
			for _, src := range benchagg.Sources {
				groups := [...]map[string]any{e.Metrics.Plot, e.Metrics.Table}
				if m := e.Monitoring.Source(src); m != nil {
					groups = [...]map[string]any{m.Plot, m.Table}
				}
				for i, g := range []benchagg.Group{benchagg.PlotGroup, benchagg.TableGroup} {
					names := make([]string, 0, len(groups[i]))
					for name := range groups[i] {
						names = append(names, name)
					}
					sort.Strings(names)
					for _, name := range names {
						if err := f(bench, config, src, g, name, groups[i][name]); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}

// LoadReport returns the report stored under id.
func (db *DB) LoadReport(ctx context.Context, id string) (*benchagg.Report, error) {
	var content []byte
	err := db.sql.QueryRowContext(ctx, "SELECT Content FROM Reports WHERE ReportID = ?", id).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	} else if err != nil {
		return nil, err
	}
	return benchagg.ReadReport(bytes.NewReader(content))
}

// ListReports returns the stored reports, newest first.
func (db *DB) ListReports(ctx context.Context) ([]ReportInfo, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT ReportID, Created, Root FROM Reports ORDER BY Created DESC, ReportID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var infos []ReportInfo
	for rows.Next() {
		var info ReportInfo
		var created int64
		if err := rows.Scan(&info.ID, &created, &info.Root); err != nil {
			return nil, err
		}
		info.Created = time.Unix(created, 0).UTC()
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteReport removes the report stored under id and its values.
func (db *DB) DeleteReport(ctx context.Context, id string) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM ReportValues WHERE ReportID = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM Reports WHERE ReportID = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// A Point is one value of a metric in one stored report.
type Point struct {
	ReportID string
	Created  time.Time
	Value    float64
}

// History returns the value of the workload plot metric name of
// benchmark in config across all stored reports, oldest first.
func (db *DB) History(ctx context.Context, benchmark, config, name string) ([]Point, error) {
	rows, err := db.sql.QueryContext(ctx, `
SELECT r.ReportID, r.Created, v.Num
FROM ReportValues v JOIN Reports r ON r.ReportID = v.ReportID
WHERE v.Benchmark = ? AND v.Config = ? AND v.Source = ? AND v.GroupName = ? AND v.Name = ? AND v.Num IS NOT NULL
ORDER BY r.Created, r.ReportID`,
		benchmark, config, benchagg.Workload.String(), benchagg.PlotGroup.String(), name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var points []Point
	for rows.Next() {
		var p Point
		var created int64
		if err := rows.Scan(&p.ReportID, &created, &p.Value); err != nil {
			return nil, err
		}
		p.Created = time.Unix(created, 0).UTC()
		points = append(points, p)
	}
	return points, rows.Err()
}

// CountReports returns the number of stored reports.
func (db *DB) CountReports(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Reports").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	return db.sql.Close()
}
