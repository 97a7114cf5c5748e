// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"strings"

	"github.com/midnight85/docker-fs-bench-pma/benchparse"
)

// A Rule routes every benchmark whose name starts with Prefix to
// Adapter. WorkloadFile is the name of the tool's result file inside
// each run directory.
type Rule struct {
	Prefix       string
	Adapter      benchparse.Adapter
	WorkloadFile string
}

// A Registry is an ordered, immutable list of routing rules.
//
// A prefix lets one adapter serve a family of benchmark directories
// (for example every "fio-*" variant) without listing each name.
type Registry struct {
	rules []Rule
}

// NewRegistry returns a Registry that tries rules in the given order.
func NewRegistry(rules ...Rule) *Registry {
	return &Registry{rules: append([]Rule(nil), rules...)}
}

// DefaultWorkloadFile is the result file name used by the text-based
// tools.
const DefaultWorkloadFile = "results.txt"

// DefaultRegistry returns the rules for the built-in adapters.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Rule{"sysbench-oltp", benchparse.Sysbench{}, DefaultWorkloadFile},
		Rule{"postgres-pgbench", benchparse.Pgbench{}, DefaultWorkloadFile},
		Rule{"webserver-bench", benchparse.Wrk{}, DefaultWorkloadFile},
		Rule{"fio-", benchparse.Fio{}, "result.json"},
	)
}

// Resolve returns the first rule whose prefix matches benchmark.
// If no rule matches, ok is false.
func (r *Registry) Resolve(benchmark string) (rule Rule, ok bool) {
	for _, rule := range r.rules {
		if strings.HasPrefix(benchmark, rule.Prefix) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Rules returns a copy of the rules in match order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}
