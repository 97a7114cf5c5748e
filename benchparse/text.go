// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchparse

import (
	"regexp"
	"strconv"
	"strings"
)

// firstLine returns the first line of content with surrounding space
// removed, or "unknown" if content is empty.
func firstLine(content string) string {
	if content == "" {
		return "unknown"
	}
	line, _, _ := strings.Cut(content, "\n")
	return strings.TrimSpace(line)
}

func match(re *regexp.Regexp, s string) []string {
	return re.FindStringSubmatch(s)
}

// The patterns feeding these setters only capture digits and dots,
// so a parse failure means input like "1.2.3"; such values are
// dropped.

func (o *Output) setPlot(key, s string) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		o.Plot[key] = v
	}
}

func (o *Output) setTable(key, s string) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		o.Table[key] = v
	}
}
