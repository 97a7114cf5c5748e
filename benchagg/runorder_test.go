// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortRuns(t *testing.T) {
	tests := []struct {
		in, want []string
	}{
		{
			[]string{"run_10", "run_2", "run_1"},
			[]string{"run_1", "run_2", "run_10"},
		},
		{
			[]string{"run_1", "run_01", "run_001"},
			[]string{"run_001", "run_01", "run_1"},
		},
		{
			[]string{"b", "a10", "a9", "a"},
			[]string{"a", "a9", "a10", "b"},
		},
		{
			[]string{"2024-01-10T12", "2024-01-02T09", "2024-01-02T10"},
			[]string{"2024-01-02T09", "2024-01-02T10", "2024-01-10T12"},
		},
		{
			[]string{"run_99999999999999999999999", "run_100000000000000000000000"},
			[]string{"run_99999999999999999999999", "run_100000000000000000000000"},
		},
		{nil, nil},
	}
	for _, tt := range tests {
		SortRuns(tt.in)
		assert.Equal(t, tt.want, tt.in)
	}
}
