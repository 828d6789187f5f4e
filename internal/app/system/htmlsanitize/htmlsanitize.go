// Package htmlsanitize cleans user- and admin-supplied rich text before
// it is stored. Course descriptions allow a UGC subset of HTML; notes
// and other free-text fields are reduced to plain text.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = newRichPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// The admin editor emits table markup and styling classes.
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td", "ul", "ol", "li", "p", "span", "div")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// Sanitize strips dangerous markup from rich text, keeping the UGC
// subset (formatting, lists, tables, headings, safe links).
func Sanitize(s string) string {
	return richPolicy.Sanitize(s)
}

// PlainText strips all markup, for fields that should never carry HTML
// (payment notes, verification notes).
func PlainText(s string) string {
	return strings.TrimSpace(plainPolicy.Sanitize(s))
}
