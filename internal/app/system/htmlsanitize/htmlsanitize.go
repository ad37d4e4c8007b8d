// Package htmlsanitize cleans operator-supplied text before it reaches a template.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	footerPolicy = newFooterPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// newFooterPolicy allows the small set of inline markup a footer line needs:
// links, emphasis and line breaks.
func newFooterPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowElements("strong", "em", "b", "i", "span", "br", "small")
	return p
}

// Footer sanitises footer HTML and marks it safe for templates.
func Footer(s string) template.HTML {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return template.HTML(footerPolicy.Sanitize(s))
}

// PlainText strips every tag from s and trims surrounding space. The result
// is unescaped text; html/template escapes it on output.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
