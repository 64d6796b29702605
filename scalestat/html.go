// Copyright 2025 The Wavebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalestat

import (
	"io"
	"strconv"

	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("").Funcs(htmlFuncs).Parse(`
{{- range $sa := .Schedules}}
<table class='scalestat'>
<caption>{{.Name}}: amdahl {{.Curve.Fit}}</caption>
<tbody>
<tr><th>threads<th>chunk<th>speedup<th>±<th>efficiency<th>±
{{range $i, $p := .Speedup -}}
{{with index $sa.Efficiency $i -}}
<tr><td>{{$p.Threads}}<td>{{$p.Chunk}}<td>{{ff $p.Value}}<td>{{ff $p.Err}}<td>{{ff .Value}}<td>{{ff .Err}}
{{end -}}
{{end -}}
</tbody>
<tbody class='chunks'>
<tr><th>chunk<th colspan='2'>mean time<th colspan='3'>rms std
{{range .Chunks -}}
<tr><td>{{.Chunk}}<td colspan='2'>{{ff .MeanTime}}<td colspan='3'>{{ff .RMSStd}}
{{end -}}
</tbody>
</table>
{{end -}}
{{if .Scaling}}
<table class='scalestat scaling'>
<tr><th>threads<th>schedule<th>chunk<th>time<th>speedup<th>efficiency
{{range .Scaling -}}
<tr><td>{{.Threads}}<td>{{$.Names.Name .Schedule}}<td>{{.Chunk}}<td>{{ff .Time.Mean}}<td>{{ff .Speedup}}<td>{{ff .Efficiency}}
{{end -}}
</table>
{{end -}}
`))

var htmlFuncs = template.FuncMap{
	"ff": func(x float64) string {
		return strconv.FormatFloat(x, 'g', 6, 64)
	},
}

// FormatHTML writes an HTML formatting of a to w.
func FormatHTML(w io.Writer, a *Analysis) error {
	return htmlTemplate.Execute(w, a)
}
