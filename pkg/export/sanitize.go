package export

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy     *bluemonday.Policy
	stripPolicyOnce sync.Once
)

func tagStripper() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

// Sanitize turns rendered cell text into escaped plain text:
//
//  1. literal "&nbsp;" sequences are removed
//  2. leading and trailing whitespace is trimmed
//  3. markup tags are stripped
//  4. the text is HTML-escaped
//
// Entities already present are decoded before step 4 so text is escaped
// exactly once, which makes Sanitize idempotent.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "&nbsp;", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// bluemonday returns escaped text; decode so the final escape is the only one.
	s = html.UnescapeString(tagStripper().Sanitize(s))
	s = strings.TrimSpace(s)

	return html.EscapeString(s)
}

// SanitizeTable sanitizes every cell of t in place.
func SanitizeTable(t *Table) {
	t.Transform(func(_, _ int, value string) string {
		return Sanitize(value)
	})
}
