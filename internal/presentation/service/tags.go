package service

import (
	"strings"

	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation"
)

const maxTags = 5

// stop words excluded from derived tags
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
}

// ExtractTags derives up to five tags from the document title and slide
// content: whitespace tokens, lower-cased, stop words and tokens of three or
// fewer characters dropped, de-duplicated in first-occurrence order. The
// order is deterministic for identical input but carries no ranking.
func ExtractTags(doc *presentation.Document) []string {
	var parts []string
	parts = append(parts, doc.Title)
	for _, slide := range doc.Slides {
		parts = append(parts, slide.Content...)
	}

	tags := []string{}
	seen := map[string]struct{}{}
	for _, part := range parts {
		for _, tok := range strings.Fields(part) {
			tok = strings.ToLower(tok)
			if len(tok) <= 3 {
				continue
			}
			if _, stop := stopWords[tok]; stop {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			tags = append(tags, tok)
			if len(tags) == maxTags {
				return tags
			}
		}
	}
	return tags
}
