// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchparse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
)

// Iostat parses the JSON written by "iostat -o JSON".
type Iostat struct{}

type iostatDoc struct {
	Sysstat *struct {
		Hosts []iostatHost `json:"hosts"`
	} `json:"sysstat"`
}

type iostatHost struct {
	Nodename   string            `json:"nodename"`
	Sysname    *string           `json:"sysname"`
	Release    string            `json:"release"`
	Machine    string            `json:"machine"`
	Statistics []iostatStatistic `json:"statistics"`
}

type iostatStatistic struct {
	CPU  map[string]float64 `json:"avg-cpu"`
	Disk []map[string]any   `json:"disk"`
}

// cpuMetrics are the avg-cpu fields tracked per sample.
var cpuMetrics = []string{"user", "system", "iowait", "idle"}

// diskMetrics maps output names to iostat's extended disk fields.
var diskMetrics = []struct{ name, field string }{
	{"read_iops", "r/s"},
	{"write_iops", "w/s"},
	{"read_kbps", "rkB/s"},
	{"write_kbps", "wkB/s"},
	{"read_await", "r_await"},
	{"write_await", "w_await"},
	{"util", "util"},
}

// partition matches device names that end in a partition number.
var partition = regexp.MustCompile(`\d+$`)

func (Iostat) Parse(path string) (*Output, error) {
	return parseFile(path, ParseIostat)
}

// ParseIostat parses an iostat JSON report.
//
// Series holds one value per sample: "timestamp" (the sample index),
// "cpu_user", "cpu_system", "cpu_iowait", "cpu_idle" and, for the
// first whole-disk device of each sample, "<dev>_<metric>". Table
// holds the per-metric averages as "<name>_avg", rounded to two
// decimals. Only the first host is considered. Empty input yields an
// empty Output.
func ParseIostat(data []byte) (*Output, error) {
	out := &Output{
		Version: "unknown",
		Table:   make(map[string]any),
		Series:  make(map[string][]float64),
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	var doc iostatDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid iostat JSON: %w", err)
	}

	out.Series["timestamp"] = []float64{}
	for _, m := range cpuMetrics {
		out.Series["cpu_"+m] = []float64{}
	}
	if doc.Sysstat == nil || len(doc.Sysstat.Hosts) == 0 {
		return out, nil
	}
	host := doc.Sysstat.Hosts[0]
	sysname := "Linux"
	if host.Sysname != nil {
		sysname = *host.Sysname
	}
	out.Version = fmt.Sprintf("%s %s (%s) %s", sysname, host.Release, host.Nodename, host.Machine)

	var devices []string
	deviceValues := make(map[string][]float64)
	for i, st := range host.Statistics {
		out.Series["timestamp"] = append(out.Series["timestamp"], float64(i))
		for _, m := range cpuMetrics {
			out.Series["cpu_"+m] = append(out.Series["cpu_"+m], st.CPU[m])
		}

		disk, dev := mainDisk(st.Disk)
		if disk == nil {
			continue
		}
		if _, ok := deviceValues[dev+"_"+diskMetrics[0].name]; !ok {
			devices = append(devices, dev)
		}
		for _, m := range diskMetrics {
			key := dev + "_" + m.name
			v := number(disk[m.field])
			// Pad samples in which this device was absent.
			s := out.Series[key]
			for len(s) < i {
				s = append(s, 0)
			}
			out.Series[key] = append(s, v)
			deviceValues[key] = append(deviceValues[key], v)
		}
	}
	n := len(out.Series["timestamp"])
	for k, s := range out.Series {
		for len(s) < n {
			s = append(s, 0)
		}
		out.Series[k] = s
	}

	for _, m := range cpuMetrics {
		if s := out.Series["cpu_"+m]; len(s) > 0 {
			out.Table["cpu_"+m+"_avg"] = round2(mean(s))
		}
	}
	for _, dev := range devices {
		for _, m := range diskMetrics {
			key := dev + "_" + m.name
			if vs := deviceValues[key]; len(vs) > 0 {
				out.Table[key+"_avg"] = round2(mean(vs))
			}
		}
	}
	return out, nil
}

// mainDisk returns the first device in disks that is not a
// partition. Filesystems such as ZFS create partitions on the
// device under test (vdb1, vdb9), which would otherwise be counted
// next to the device itself.
func mainDisk(disks []map[string]any) (map[string]any, string) {
	for _, d := range disks {
		name, _ := d["disk_device"].(string)
		if partition.MatchString(name) {
			continue
		}
		return d, name
	}
	return nil, ""
}

func number(v any) float64 {
	f, _ := v.(float64)
	return f
}
