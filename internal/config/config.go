// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the benchagg configuration.
//
// Settings come from, in increasing order of priority: built-in
// defaults, a YAML file, the environment (optionally seeded from a
// .env file) and command-line flags. Flags are applied by the
// command; this package handles the rest.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/midnight85/docker-fs-bench-pma/benchagg"
	"github.com/midnight85/docker-fs-bench-pma/benchparse"
)

// Config is the complete configuration of one benchagg invocation.
type Config struct {
	// Results is the result root.
	Results string `yaml:"results"`
	// Output is the path of the JSON report. "-" means stdout.
	// If empty, it is aggregated_report.json under Results.
	Output string `yaml:"output"`
	// SystemInfo is the system metadata file. If empty, it is
	// system_info/system_metadata.json under Results.
	SystemInfo string `yaml:"system_info"`

	Precision Precision `yaml:"precision"`

	// Parsers replaces the built-in routing rules if non-empty.
	Parsers  []Parser `yaml:"parsers"`
	Monitors Monitors `yaml:"monitors"`

	Render   Render   `yaml:"render"`
	Database Database `yaml:"database"`
	Bucket   Bucket   `yaml:"bucket"`

	// MetricsTextfile is where pass statistics are written in the
	// Prometheus text format. Empty disables it.
	MetricsTextfile string `yaml:"metrics_textfile"`

	Watch Watch `yaml:"watch"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

type Precision struct {
	Metrics int `yaml:"metrics"`
	Monitor int `yaml:"monitor"`
}

// A Parser routes benchmarks whose name starts with Prefix to either
// a built-in adapter (Name) or an external command (Command).
type Parser struct {
	Prefix  string   `yaml:"prefix"`
	Name    string   `yaml:"name"`
	Command []string `yaml:"command"`
	// File is the workload file in each run directory.
	File string `yaml:"file"`
}

// Monitors gives the file names of the monitoring captures.
type Monitors struct {
	DockerStats string `yaml:"docker_stats"`
	Iostat      string `yaml:"iostat"`
}

// Render lists optional additional renderings of the report.
type Render struct {
	Text        string `yaml:"text"`
	HTML        string `yaml:"html"`
	CSV         string `yaml:"csv"`
	Charts      string `yaml:"charts"` // directory
	ChartFormat string `yaml:"chart_format"`
}

type Database struct {
	Driver string `yaml:"driver"` // sqlite3 or mysql
	DSN    string `yaml:"dsn"`
}

type Bucket struct {
	URL         string `yaml:"url"` // gs://bucket/prefix
	Credentials string `yaml:"credentials"`
}

type Watch struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Results: "results",
		Precision: Precision{
			Metrics: benchagg.DefaultPrecision.Metrics,
			Monitor: benchagg.DefaultPrecision.Monitor,
		},
		Monitors: Monitors{
			DockerStats: "docker_stats.jsonl",
			Iostat:      "iostat.json",
		},
		Render:   Render{ChartFormat: "png"},
		Watch:    Watch{Debounce: 2 * time.Second},
		LogLevel: "info",
	}
}

// Load returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()
	if err := c.decode(f); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadDotEnv loads variables from the .env file at path into the
// process environment without overriding variables already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no .env file", "path", path)
		return nil
	}
	return err
}

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "BENCHAGG_"

// ApplyEnv overrides c with the BENCHAGG_* variables returned by
// getenv. Empty variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	str("RESULTS", &c.Results)
	str("OUTPUT", &c.Output)
	str("SYSTEM_INFO", &c.SystemInfo)
	str("TEXT", &c.Render.Text)
	str("HTML", &c.Render.HTML)
	str("CSV", &c.Render.CSV)
	str("CHARTS", &c.Render.Charts)
	str("CHART_FORMAT", &c.Render.ChartFormat)
	str("DB_DRIVER", &c.Database.Driver)
	str("DB_DSN", &c.Database.DSN)
	str("BUCKET", &c.Bucket.URL)
	str("GCS_CREDENTIALS", &c.Bucket.Credentials)
	str("METRICS_TEXTFILE", &c.MetricsTextfile)
	str("LOG_LEVEL", &c.LogLevel)

	for name, dst := range map[string]*int{
		"PRECISION_METRICS": &c.Precision.Metrics,
		"PRECISION_MONITOR": &c.Precision.Monitor,
	} {
		if v := getenv(EnvPrefix + name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
	}
	if v := getenv(EnvPrefix + "WATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sWATCH: %w", EnvPrefix, err)
		}
		c.Watch.Enabled = b
	}
	if v := getenv(EnvPrefix + "WATCH_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sWATCH_DEBOUNCE: %w", EnvPrefix, err)
		}
		c.Watch.Debounce = d
	}
	return nil
}

// Validate reports the first inconsistency in c.
func (c *Config) Validate() error {
	if c.Results == "" {
		return errors.New("no result root")
	}
	if c.Precision.Metrics < 0 || c.Precision.Monitor < 0 {
		return errors.New("precision must not be negative")
	}
	for i, p := range c.Parsers {
		if p.Prefix == "" {
			return fmt.Errorf("parser %d: empty prefix", i)
		}
		if (p.Name == "") == (len(p.Command) == 0) {
			return fmt.Errorf("parser %q: exactly one of name and command must be set", p.Prefix)
		}
		if p.Name != "" {
			if _, ok := benchparse.Lookup(p.Name); !ok {
				return fmt.Errorf("parser %q: unknown parser %q (have %s)", p.Prefix, p.Name, strings.Join(benchparse.Names(), ", "))
			}
		}
	}
	if (c.Database.Driver == "") != (c.Database.DSN == "") {
		return errors.New("database needs both driver and dsn")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// SystemInfoPath returns the system metadata file to load.
func (c *Config) SystemInfoPath() string {
	if c.SystemInfo != "" {
		return c.SystemInfo
	}
	return filepath.Join(c.Results, "system_info", "system_metadata.json")
}

// OutputPath returns the path of the JSON report.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return filepath.Join(c.Results, "aggregated_report.json")
}

// Registry returns the routing rules described by c.
func (c *Config) Registry() (*benchagg.Registry, error) {
	if len(c.Parsers) == 0 {
		return benchagg.DefaultRegistry(), nil
	}
	var rules []benchagg.Rule
	for _, p := range c.Parsers {
		rule := benchagg.Rule{Prefix: p.Prefix, WorkloadFile: p.File}
		if len(p.Command) > 0 {
			rule.Adapter = benchparse.Exec{Command: p.Command}
		} else {
			a, ok := benchparse.Lookup(p.Name)
			if !ok {
				return nil, fmt.Errorf("parser %q: unknown parser %q", p.Prefix, p.Name)
			}
			rule.Adapter = a
		}
		if rule.WorkloadFile == "" {
			rule.WorkloadFile = benchagg.DefaultWorkloadFile
			if p.Name == "fio" {
				rule.WorkloadFile = "result.json"
			}
		}
		rules = append(rules, rule)
	}
	return benchagg.NewRegistry(rules...), nil
}

// MonitorList returns the monitoring sources described by c.
func (c *Config) MonitorList() []benchagg.Monitor {
	ms := benchagg.DefaultMonitors()
	for i := range ms {
		switch ms[i].Source {
		case benchagg.DockerStats:
			if c.Monitors.DockerStats != "" {
				ms[i].File = c.Monitors.DockerStats
			}
		case benchagg.Iostat:
			if c.Monitors.Iostat != "" {
				ms[i].File = c.Monitors.Iostat
			}
		}
	}
	return ms
}

// AggregatorPrecision returns the rounding described by c.
func (c *Config) AggregatorPrecision() *benchagg.Precision {
	return &benchagg.Precision{Metrics: c.Precision.Metrics, Monitor: c.Precision.Monitor}
}
