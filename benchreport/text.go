// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"
)

// FormatText writes a fixed-width text formatting of the tables to w.
// Column widths are shared by all tables so that consecutive tables
// line up.
func FormatText(w io.Writer, tables []*Table) error {
	bw := bufio.NewWriter(w)
	var textTables [][]*textRow
	for _, t := range tables {
		textTables = append(textTables, toText(t))
	}

	var max []int
	for _, table := range textTables {
		for _, row := range table {
			for len(max) < len(row.cols) {
				max = append(max, 0)
			}
			for i, s := range row.cols {
				n := utf8.RuneCountInString(s)
				if max[i] < n {
					max[i] = n
				}
			}
		}
	}

	for i, table := range textTables {
		if i > 0 {
			fmt.Fprintf(bw, "\n")
		}

		// headings
		for i, s := range table[0].cols {
			switch i {
			case 0:
				fmt.Fprintf(bw, "%-*s", max[i], s)
			default:
				fmt.Fprintf(bw, "  %*s", max[i], s)
			}
		}
		fmt.Fprintf(bw, "\n")

		// data
		for _, row := range table[1:] {
			for i, s := range row.cols {
				switch i {
				case 0:
					fmt.Fprintf(bw, "%-*s", max[i], s)
				default:
					fmt.Fprintf(bw, "  %*s", max[i], s)
				}
			}
			fmt.Fprintf(bw, "\n")
		}
	}
	return bw.Flush()
}

// A textRow is a row of printed text columns.
type textRow struct {
	cols []string
}

func newTextRow(cols ...string) *textRow {
	return &textRow{cols: cols}
}

// toText converts the Table to a textual grid of cells,
// which can then be printed in fixed-width output.
func toText(t *Table) []*textRow {
	head := newTextRow(t.Benchmark + " " + t.Source)
	head.cols = append(head.cols, t.Configs...)
	rows := []*textRow{head}
	for _, r := range t.Rows {
		text := newTextRow(r.Key)
		text.cols = append(text.cols, r.Cells...)
		rows = append(rows, text)
	}
	return rows
}
