// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"io"

	"github.com/google/safehtml/template"
)

const htmlText = `
{{- range .}}
<table class='benchagg'>
<tbody>
<tr><th>{{.Benchmark}} {{.Source}}{{range .Configs}}<th>{{.}}{{end}}
{{range .Rows -}}
<tr><td>{{.Key}}{{range .Cells}}<td>{{.}}{{end}}
{{end -}}
</tbody>
</table>
{{end -}}
`

var htmlTemplate = template.Must(template.New("tables").Parse(htmlText))

// FormatHTML writes an HTML formatting of the tables to w.
func FormatHTML(w io.Writer, tables []*Table) error {
	return htmlTemplate.Execute(w, tables)
}
