// Package exports renders a presentation document into downloadable
// representations. Binary office formats are produced elsewhere in the
// product; the demo service only serves json, html and plain text.
package exports

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation"
	"github.com/Webys-org/prezentic/backend/demo-services/pkg/metrics"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatText = "txt"
)

var htmlTmpl = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{range .Slides}}<section>
<h2>{{.Title}}</h2>
{{range .Content}}<p>{{.}}</p>
{{end}}{{if .ImageURL}}<img src="{{.ImageURL}}" alt="">
{{end}}</section>
{{end}}</body></html>
`))

// Render serializes doc into the requested format and returns the payload
// with its content type.
func Render(doc *presentation.Document, format string) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("render json: %w", err)
		}
		metrics.ExportsRendered.WithLabelValues(FormatJSON).Inc()
		return b, "application/json", nil

	case FormatHTML:
		var buf bytes.Buffer
		if err := htmlTmpl.Execute(&buf, doc); err != nil {
			return nil, "", fmt.Errorf("render html: %w", err)
		}
		metrics.ExportsRendered.WithLabelValues(FormatHTML).Inc()
		return buf.Bytes(), "text/html; charset=utf-8", nil

	case FormatText:
		var sb strings.Builder
		sb.WriteString(doc.Title + "\n")
		sb.WriteString(strings.Repeat("=", len(doc.Title)) + "\n")
		for i, slide := range doc.Slides {
			sb.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, slide.Title))
			for _, line := range slide.Content {
				sb.WriteString("   - " + line + "\n")
			}
			if slide.Notes != "" {
				sb.WriteString("   notes: " + slide.Notes + "\n")
			}
		}
		metrics.ExportsRendered.WithLabelValues(FormatText).Inc()
		return []byte(sb.String()), "text/plain; charset=utf-8", nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
