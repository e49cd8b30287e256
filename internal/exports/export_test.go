package exports

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation"
)

func exportDoc() *presentation.Document {
	return &presentation.Document{
		Title: "Quarterly Review",
		Slides: []presentation.Slide{
			{Title: "Numbers", Content: []string{"Revenue up 12%"}, ImageURL: "https://cdn.example/chart.png"},
			{Title: "Plans", Content: []string{"Hire two engineers", "Ship the editor"}, Notes: "pause for questions"},
		},
	}
}

func TestRenderJSONRoundTrips(t *testing.T) {
	payload, ct, err := Render(exportDoc(), FormatJSON)
	require.NoError(t, err)
	require.Equal(t, "application/json", ct)

	var got presentation.Document
	require.NoError(t, json.Unmarshal(payload, &got))
	require.Equal(t, *exportDoc(), got)
}

func TestRenderHTML(t *testing.T) {
	payload, ct, err := Render(exportDoc(), FormatHTML)
	require.NoError(t, err)
	require.Equal(t, "text/html; charset=utf-8", ct)

	html := string(payload)
	require.Contains(t, html, "<h1>Quarterly Review</h1>")
	require.Contains(t, html, "<h2>Numbers</h2>")
	require.Contains(t, html, "https://cdn.example/chart.png")
	// notes are speaker-only, never exported to html
	require.NotContains(t, html, "pause for questions")
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	doc := &presentation.Document{
		Title:  "<script>alert(1)</script>",
		Slides: []presentation.Slide{{Title: "s", Content: []string{"a < b"}}},
	}
	payload, _, err := Render(doc, FormatHTML)
	require.NoError(t, err)
	require.NotContains(t, string(payload), "<script>alert(1)</script>")
}

func TestRenderText(t *testing.T) {
	payload, ct, err := Render(exportDoc(), FormatText)
	require.NoError(t, err)
	require.Equal(t, "text/plain; charset=utf-8", ct)

	text := string(payload)
	require.True(t, strings.HasPrefix(text, "Quarterly Review\n"))
	require.Contains(t, text, "1. Numbers")
	require.Contains(t, text, "   - Revenue up 12%")
	require.Contains(t, text, "notes: pause for questions")
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, _, err := Render(exportDoc(), "pptx")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
