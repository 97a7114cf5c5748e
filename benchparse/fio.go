// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchparse

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Fio parses the JSON output of "fio --output-format=json".
type Fio struct{}

type fioResult struct {
	Version string   `json:"fio version"`
	Jobs    []fioJob `json:"jobs"`
}

type fioJob struct {
	Name    string            `json:"jobname"`
	Error   float64           `json:"error"`
	Options map[string]string `json:"job options"`
	Read    fioStats          `json:"read"`
	Write   fioStats          `json:"write"`
}

type fioStats struct {
	IOBytes float64    `json:"io_bytes"`
	IOPS    float64    `json:"iops"`
	BWBytes float64    `json:"bw_bytes"`
	Lat     fioLatency `json:"lat_ns"`
	Clat    fioLatency `json:"clat_ns"`
}

type fioLatency struct {
	Min        float64            `json:"min"`
	Max        float64            `json:"max"`
	Mean       float64            `json:"mean"`
	Percentile map[string]float64 `json:"percentile"`
}

var errNoJobs = errors.New("no jobs found in fio result")

func (Fio) Parse(path string) (*Output, error) {
	return parseFile(path, ParseFio)
}

// ParseFio parses a fio JSON result.
//
// Only the first job is considered. Job options that describe the
// workload (rw mode, block size, I/O engine, queue depth) are kept
// as strings in Table. Statistics for a direction are only reported
// if that direction transferred any bytes.
func ParseFio(data []byte) (*Output, error) {
	var res fioResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("invalid fio JSON: %w", err)
	}
	if len(res.Jobs) == 0 {
		return nil, errNoJobs
	}
	version := res.Version
	if version == "" {
		version = "unknown"
	}
	out := newOutput(version)

	job := res.Jobs[0]
	if job.Name != "" {
		out.Table["job_name"] = job.Name
	}
	for key, opt := range map[string]string{
		"rw_mode":  "rw",
		"bs":       "bs",
		"ioengine": "ioengine",
	} {
		if v, ok := job.Options[opt]; ok {
			out.Table[key] = v
		}
	}
	iodepth, ok := job.Options["iodepth"]
	if !ok {
		iodepth = "1"
	}
	out.Table["iodepth"] = iodepth

	job.Read.addTo(out, "read")
	job.Write.addTo(out, "write")

	out.Table["error"] = job.Error
	return out, nil
}

func (s *fioStats) addTo(out *Output, dir string) {
	if s.IOBytes <= 0 {
		return
	}
	out.Plot[dir+"_iops"] = s.IOPS
	out.Plot[dir+"_bw_bytes"] = s.BWBytes
	out.Plot[dir+"_lat_ns_mean"] = s.Lat.Mean

	out.Table[dir+"_io_bytes"] = s.IOBytes
	out.Table[dir+"_lat_ns_min"] = s.Lat.Min
	out.Table[dir+"_lat_ns_max"] = s.Lat.Max
	if p, ok := s.Clat.Percentile["95.000000"]; ok {
		out.Table[dir+"_lat_ns_p95"] = p
	}
	if p, ok := s.Clat.Percentile["99.000000"]; ok {
		out.Table[dir+"_lat_ns_p99"] = p
	}
}
